package commands

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/dsolve/cli/internal/ui"
)

var historyCmd = &cobra.Command{
	Use:   "history [module]",
	Short: "Show recent runs",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runHistory,
}

var historyLimit int

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "number of runs to show")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadSettings()
	if err != nil {
		return err
	}
	if !cfg.History.Enabled {
		ui.PrintWarning("Run history is disabled (history.enabled = false)")
		return nil
	}

	store, err := openHistory(cfg)
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}
	defer store.Close()

	filter := ""
	if len(args) == 1 {
		filter = moduleArg(args[0]).String()
	}
	entries, err := store.Recent(cmd.Context(), filter, historyLimit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		ui.PrintInfo("No runs recorded yet")
		return nil
	}

	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		mode := "gen"
		if e.Bare {
			mode = "bare"
		}
		status := "ok"
		if e.Error != "" {
			status = e.Error
		}
		rows = append(rows, []string{
			strconv.FormatInt(e.ID, 10),
			e.StartedAt.Local().Format(time.DateTime),
			e.Module,
			mode,
			strings.Join(e.Flags, " "),
			fmt.Sprintf("%d/%d", e.LineOffset, e.CharOffset),
			strconv.Itoa(e.Rebased),
			strconv.Itoa(e.SolverExit),
			e.Duration.Round(time.Millisecond).String(),
			status,
		})
	}
	return ui.PrintTable(
		[]string{"ID", "Started", "Module", "Mode", "Flags", "Offset", "Rebased", "Exit", "Duration", "Status"},
		rows,
	)
}
