package commands

import (
	"github.com/spf13/cobra"

	"github.com/satishbabariya/dsolve/cli/internal/config"
	"github.com/satishbabariya/dsolve/cli/internal/ui"
	"github.com/satishbabariya/dsolve/internal/pipeline"
)

var cleanCmd = &cobra.Command{
	Use:   "clean <module>.ml...",
	Short: "Remove generated qualifiers and annotations",
	Long:  `Remove <module>.quals and <module>.annot. Hand-written <module>.hquals is kept.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := loadSettings(); err != nil {
			return err
		}
		for _, arg := range args {
			m := moduleArg(arg)
			if err := pipeline.Clean(config.AppFs, m); err != nil {
				return err
			}
			ui.PrintSuccess("Cleaned %s", m)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cleanCmd)
}
