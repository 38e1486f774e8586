package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/dsolve/cli/internal/ui"
	"github.com/satishbabariya/dsolve/cli/internal/watch"
	"github.com/satishbabariya/dsolve/internal/module"
)

var watchCmd = &cobra.Command{
	Use:   "watch [-bare] <solver-flag>... <module>.ml",
	Short: "Rerun inference whenever the module or its qualifiers change",
	Long: `Run dsolve once, then again every time <module>.ml or <module>.hquals
is written. Arguments are the same as for dsolve itself.`,
	Args:               cobra.ArbitraryArgs,
	DisableFlagParsing: true,
	RunE:               runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
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

	ctx := cmd.Context()
	rerun := func() error {
		if err := runOnce(ctx, cfg, p, req); err != nil {
			ui.PrintError("%v", err)
		}
		return nil
	}

	ui.PrintHeader("dsolve", "Watch Mode")
	rerun()

	m, _ := module.FromSource(req.Source)
	watcher, err := watch.NewWatcher([]string{m.Source(), m.HQuals()}, func() error {
		ui.PrintInfo("%s changed, rerunning...", m)
		return rerun()
	})
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Stop()
	watcher.Start()

	ui.PrintSuccess("Watching %s and %s for changes... (Press Ctrl+C to stop)", m.Source(), m.HQuals())
	<-ctx.Done()

	ui.PrintInfo("Stopping watch mode...")
	return nil
}
