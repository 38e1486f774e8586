package commands

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/satishbabariya/dsolve/cli/internal/config"
	"github.com/satishbabariya/dsolve/cli/internal/ui"
	"github.com/satishbabariya/dsolve/internal/toolchain"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that the external toolchain is usable",
	Long: `Check that the qualifier generator and solver can be found, that the
scratch directory is writable and, when toolchain.min_version is set, that
the solver reports a satisfying version.`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, args []string) error {
	cfg, err := loadSettings()
	if err != nil {
		return err
	}
	gen, solver, err := parseTemplates(cfg)
	if err != nil {
		return err
	}

	var problems []string
	fail := func(format string, args ...any) {
		msg := fmt.Sprintf(format, args...)
		ui.PrintError("%s", msg)
		problems = append(problems, msg)
	}

	ui.PrintSection("Toolchain")
	for _, tool := range []struct {
		name string
		tmpl toolchain.Template
	}{{"generator", gen}, {"solver", solver}} {
		path, err := toolchain.Locate(tool.tmpl)
		if err != nil {
			fail("%s: %v", tool.name, err)
			continue
		}
		ui.PrintSuccess("%s: %s", tool.name, path)
	}

	ui.PrintSection("Scratch")
	dir, err := afero.TempDir(config.AppFs, cfg.ScratchDir, "dsolve-doctor-")
	if err != nil {
		fail("scratch directory: %v", err)
	} else {
		config.AppFs.RemoveAll(dir)
		ui.PrintSuccess("scratch directory is writable")
	}

	if cfg.Toolchain.MinVersion != "" {
		ui.PrintSection("Version")
		if err := checkSolverVersion(cmd, cfg, solver); err != nil {
			fail("solver version: %v", err)
		}
	}

	if len(problems) > 0 {
		fmt.Println()
		ui.PrintList(problems)
		return fmt.Errorf("doctor found %d problem(s)", len(problems))
	}
	return nil
}

func checkSolverVersion(cmd *cobra.Command, cfg *config.Config, solver toolchain.Template) error {
	v, err := toolchain.ProbeVersion(cmd.Context(), toolchain.NewInvoker(nil), solver, cfg.Toolchain.VersionFlag)
	if err != nil {
		return err
	}
	ok, err := toolchain.CheckVersion(v, cfg.Toolchain.MinVersion)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%s does not satisfy %q", v, cfg.Toolchain.MinVersion)
	}
	ui.PrintSuccess("solver version %s satisfies %q", v, cfg.Toolchain.MinVersion)
	return nil
}
