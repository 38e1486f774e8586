package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/dsolve/cli/internal/ui"
)

var rootCmd = &cobra.Command{
	Use:   "dsolve [-bare] <solver-flag>... <module>.ml",
	Short: "Run liquid qualifier inference over an OCaml module",
	Long: `Run liquid qualifier inference over an OCaml module.

dsolve prepends <module>.hquals and freshly generated qualifiers
(<module>.quals) to <module>.ml, runs the solver on the combined unit and
rewrites the solver's annotations into <module>.annot so their positions
refer to <module>.ml.

With -bare as the first argument, qualifier generation is skipped and only
<module>.hquals is used. Every other argument before the source file is
passed to the solver unchanged.`,
	Example: `  dsolve tests/pos/list.ml
  dsolve -bare -no-simple tests/pos/list.ml
  dsolve watch tests/pos/list.ml`,
	Args:               cobra.ArbitraryArgs,
	DisableFlagParsing: true,
	SilenceUsage:       true,
	SilenceErrors:      true,
	RunE:               runRoot,
}

var (
	configPath string
	debugFlag  bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default .dsolve.yaml, or $DSOLVE_CONFIG)")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "enable debug logging")
}

// Execute is the main entry point for the CLI
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		ui.PrintError("%v", err)
		return err
	}
	return nil
}

func runRoot(cmd *cobra.Command, args []string) error {
	args, err := takeGlobalFlags(args)
	if err != nil {
		return err
	}
	if len(args) == 0 || args[0] == "-h" || args[0] == "--help" {
		return cmd.Help()
	}

	req, err := parseInvocation(args)
	if err != nil {
		return err
	}

	cfg, err := loadSettings()
	if err != nil {
		return err
	}
	p, err := newPipeline(cfg)
	if err != nil {
		return err
	}
	return runOnce(cmd.Context(), cfg, p, req)
}
