package commands

import (
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/satishbabariya/dsolve/cli/internal/config"
	"github.com/satishbabariya/dsolve/cli/internal/ui"
	"github.com/satishbabariya/dsolve/internal/module"
)

var initCmd = &cobra.Command{
	Use:   "init <module>.ml",
	Short: "Create a starter hand-written qualifier file",
	Long: `Create <module>.hquals next to <module>.ml. The file is placed ahead of
the generated qualifiers on every run.`,
	Args: cobra.ExactArgs(1),
	RunE: runInit,
}

var initForce bool

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite an existing file without asking")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	if _, err := loadSettings(); err != nil {
		return err
	}

	m := moduleArg(args[0])
	path := m.HQuals()

	exists, err := afero.Exists(config.AppFs, path)
	if err != nil {
		return err
	}
	if exists && !initForce {
		overwrite := false
		prompt := &survey.Confirm{
			Message: fmt.Sprintf("%s already exists. Overwrite it?", path),
			Default: false,
		}
		if err := survey.AskOne(prompt, &overwrite); err != nil {
			return err
		}
		if !overwrite {
			ui.PrintInfo("Keeping %s", path)
			return nil
		}
	}

	if err := afero.WriteFile(config.AppFs, path, []byte(starterQualifiers(m)), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	ui.PrintSuccess("Created %s", path)
	return nil
}

func starterQualifiers(m module.Name) string {
	return fmt.Sprintf(`(* Hand-written qualifiers for %s.
   They are placed ahead of the generated qualifiers on every run.
   Write one qualifier per line below this comment, for example:

   qualif Pos(v) : 0 < v
   qualif NonNeg(v) : 0 <= v
*)
`, m.Source())
}
