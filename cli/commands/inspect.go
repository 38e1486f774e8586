package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/dsolve/cli/internal/config"
	"github.com/satishbabariya/dsolve/cli/internal/ui"
	"github.com/satishbabariya/dsolve/internal/annot"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file.annot>",
	Short: "List the position records of an annotation file",
	Args:  cobra.ExactArgs(1),
	RunE:  runInspect,
}

var inspectFile string

func init() {
	inspectCmd.Flags().StringVarP(&inspectFile, "file", "f", "", "only show records for this source file")
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	if _, err := loadSettings(); err != nil {
		return err
	}

	f, err := config.AppFs.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open annotations: %w", err)
	}
	defer f.Close()

	anns, err := annot.ReadAnnotations(f)
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(anns))
	for _, a := range anns {
		file := strings.Trim(a.Record.Start.File, `"`)
		if inspectFile != "" && file != inspectFile {
			continue
		}
		rows = append(rows, []string{
			strconv.Itoa(a.Line),
			file,
			position(a.Record.Start),
			position(a.Record.End),
			strings.Join(a.Kinds(), ","),
			summary(a),
		})
	}

	if len(rows) == 0 {
		ui.PrintInfo("No position records in %s", args[0])
		return nil
	}
	return ui.PrintTable([]string{"Line", "File", "Start", "End", "Kind", "Annotation"}, rows)
}

// summary shows the type block when there is one, otherwise the first block.
func summary(a annot.Annotation) string {
	b, ok := a.Block("type")
	if !ok && len(a.Blocks) > 0 {
		b = a.Blocks[0]
	}
	return strings.Join(b.Body, " ")
}

// position renders line:column, taking Global as the offset of the start of
// the line as the OCaml annotation format does.
func position(p annot.Position) string {
	return fmt.Sprintf("%d:%d", p.Line, p.Local-p.Global)
}
