package commands

import (
	"github.com/spf13/cobra"

	"github.com/satishbabariya/dsolve/cli/internal/ui"
)

const conventionsDoc = `# dsolve file conventions

For a module ` + "`m`" + `:

| File | Role |
|------|------|
| ` + "`m.ml`" + ` | source, never modified |
| ` + "`m.hquals`" + ` | hand-written qualifiers, optional |
| ` + "`m.quals`" + ` | generated qualifiers, rewritten on every run |
| ` + "`m.annot`" + ` | solver annotations, positions relative to ` + "`m.ml`" + ` |

## A run

1. ` + "`m.quals`" + ` and ` + "`m.annot`" + ` from earlier runs are removed.
2. The generator runs on ` + "`m.ml`" + `; its **stderr** becomes ` + "`m.quals`" + `.
   With ` + "`-bare`" + ` this is skipped and ` + "`m.quals`" + ` is empty.
3. A scratch unit ` + "`liq`" + ` is written to a fresh scratch directory:
   ` + "`liq.quals = m.hquals + m.quals`" + ` and ` + "`liq.ml = liq.quals + m.ml`" + `.
4. The solver runs on ` + "`liq.ml`" + ` and writes ` + "`liq.annot`" + `.
5. Every record in ` + "`liq.annot`" + ` that names ` + "`liq.ml`" + ` is shifted back by the
   number of lines and bytes in ` + "`liq.quals`" + ` and written to ` + "`m.annot`" + `.

## Position records

    "file.ml" line bol pos "file.ml" line bol pos

Start and end of a span: line number, offset of the beginning of the line and
offset of the position, both counted in bytes from the start of the file.
Lines that are not position records are copied unchanged.
`

var conventionsCmd = &cobra.Command{
	Use:   "conventions",
	Short: "Describe the files dsolve reads and writes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return ui.PrintMarkdown(conventionsDoc)
	},
}

func init() {
	rootCmd.AddCommand(conventionsCmd)
}
