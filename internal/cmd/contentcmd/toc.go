package contentcmd

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/folio/internal/view"
	"github.com/open-cli-collective/folio/pkg/content"
)

type tocOptions struct {
	ioOptions
	nested bool
}

// NewCmdTOC creates the toc command.
func NewCmdTOC() *cobra.Command {
	opts := &tocOptions{}

	cmd := &cobra.Command{
		Use:   "toc [file]",
		Short: "List the headings of a document",
		Long: `Extract the table of contents from markup.

Heading ids match the ids the render command assigns, so entries can link
straight into the rendered page. Headings inside code fences are ignored.`,
		Example: `  # List headings
  folio toc post.md

  # Outline as JSON
  folio toc post.md --nested -o json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.bindGlobals(cmd)
			return runTOC(opts, args)
		},
	}

	cmd.Flags().BoolVar(&opts.nested, "nested", false, "Nest headings under their parent heading")

	return cmd
}

func runTOC(opts *tocOptions, args []string) error {
	if err := view.ValidateFormat(opts.output); err != nil {
		return err
	}

	markup, err := opts.readInput(args)
	if err != nil {
		return err
	}

	headings := content.ExtractTOC(markup)

	renderer := view.NewRenderer(view.Format(opts.output), opts.noColor)
	renderer.SetWriter(opts.out())

	if opts.output == string(view.FormatJSON) {
		if opts.nested {
			return renderer.RenderJSON(content.NestTOC(headings))
		}
		return renderer.RenderJSON(headings)
	}

	if len(headings) == 0 {
		renderer.RenderText("No headings found.")
		return nil
	}

	var rows [][]string
	if opts.nested {
		rows = outlineRows(content.NestTOC(headings), 0, rows)
	} else {
		for _, h := range headings {
			rows = append(rows, []string{strconv.Itoa(h.Level), h.ID, h.Text})
		}
	}

	renderer.RenderTable([]string{"LEVEL", "ID", "TEXT"}, rows)
	return nil
}

func outlineRows(nodes []*content.TOCNode, depth int, rows [][]string) [][]string {
	for _, n := range nodes {
		rows = append(rows, []string{
			strconv.Itoa(n.Level),
			n.ID,
			strings.Repeat("  ", depth) + n.Text,
		})
		rows = outlineRows(n.Children, depth+1, rows)
	}
	return rows
}
