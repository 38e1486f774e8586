package commands

import (
	"github.com/spf13/cobra"

	"github.com/satishbabariya/dsolve/cli/internal/config"
	"github.com/satishbabariya/dsolve/cli/internal/ui"
	"github.com/satishbabariya/dsolve/internal/annot"
)

var rebaseCmd = &cobra.Command{
	Use:   "rebase <synthetic> <module>",
	Short: "Rebase a synthetic unit's annotations onto a module",
	Long: `Rewrite <synthetic>.annot into <module>.annot.

Positions in records that refer to <synthetic>.ml are shifted back by the
size of <synthetic>.quals and pointed at <module>.ml. All other lines are
copied unchanged. Either argument may be given with or without ".ml".`,
	Example: `  dsolve rebase /tmp/dsolve-123/liq tests/pos/list`,
	Args:    cobra.ExactArgs(2),
	RunE:    runRebase,
}

func init() {
	rootCmd.AddCommand(rebaseCmd)
}

func runRebase(cmd *cobra.Command, args []string) error {
	if _, err := loadSettings(); err != nil {
		return err
	}

	src, dst := moduleArg(args[0]), moduleArg(args[1])
	off, stats, err := annot.NewRebaser(config.AppFs).Rebase(src, dst)
	if err != nil {
		return err
	}

	ui.PrintSuccess("%s: %d annotation(s) rebased by %d line(s), %d char(s); %d line(s) copied",
		dst.Annot(), stats.Rebased, off.Lines, off.Chars, stats.Passed)
	return nil
}
