package contentcmd

import (
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/folio/internal/view"
	"github.com/open-cli-collective/folio/pkg/content"
)

type cssOptions struct {
	ioOptions
	style string
	list  bool
}

// NewCmdCSS creates the css command.
func NewCmdCSS() *cobra.Command {
	opts := &cssOptions{}

	cmd := &cobra.Command{
		Use:   "css",
		Short: "Print the stylesheet for highlighted code",
		Long: `Print the CSS rules that color highlighted code blocks.

Rendered code tokens carry short class names such as "k" or "s"; this
stylesheet maps them to colors for the chosen highlight style.`,
		Example: `  # Stylesheet for the configured style
  folio css > static/highlight.css

  # Pick a style explicitly
  folio css --style github

  # List available styles
  folio css --list`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts.bindGlobals(cmd)
			return runCSS(opts)
		},
	}

	cmd.Flags().StringVarP(&opts.style, "style", "s", "", "Highlight style name (default from config)")
	cmd.Flags().BoolVar(&opts.list, "list", false, "List available styles")

	return cmd
}

func runCSS(opts *cssOptions) error {
	if opts.list {
		renderer := view.NewRenderer(view.Format(opts.output), opts.noColor)
		renderer.SetWriter(opts.out())

		names := content.StyleNames()
		if opts.output == string(view.FormatJSON) {
			return renderer.RenderJSON(names)
		}
		rows := make([][]string, 0, len(names))
		for _, name := range names {
			rows = append(rows, []string{name})
		}
		renderer.RenderTable([]string{"STYLE"}, rows)
		return nil
	}

	style := opts.style
	if style == "" {
		cfg, err := opts.loadConfig()
		if err != nil {
			return err
		}
		style = cfg.HighlightStyle
	}

	return content.WriteStyleCSS(opts.out(), style)
}
