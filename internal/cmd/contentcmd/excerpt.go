package contentcmd

import (
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/folio/internal/view"
	"github.com/open-cli-collective/folio/pkg/content"
)

type excerptOptions struct {
	ioOptions
	length int
}

// NewCmdExcerpt creates the excerpt command.
func NewCmdExcerpt() *cobra.Command {
	opts := &excerptOptions{}

	cmd := &cobra.Command{
		Use:   "excerpt [file]",
		Short: "Print a plain-text preview of a document",
		Long: `Extract a short plain-text excerpt from markup.

The excerpt is taken from the first prose paragraphs, skipping headings,
rules and image-only lines. Longer text is cut at a character boundary and
ends with an ellipsis.`,
		Example: `  # Preview with the configured length
  folio excerpt post.md

  # Twitter-sized preview
  folio excerpt post.md --length 100`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.bindGlobals(cmd)
			return runExcerpt(opts, args)
		},
	}

	cmd.Flags().IntVarP(&opts.length, "length", "n", 0, "Maximum excerpt length in characters (default from config)")

	return cmd
}

func runExcerpt(opts *excerptOptions, args []string) error {
	length := opts.length
	if length == 0 {
		cfg, err := opts.loadConfig()
		if err != nil {
			return err
		}
		length = cfg.ExcerptLength
	}

	markup, err := opts.readInput(args)
	if err != nil {
		return err
	}

	excerpt := content.ExtractExcerpt(markup, length)

	renderer := view.NewRenderer(view.Format(opts.output), opts.noColor)
	renderer.SetWriter(opts.out())

	if opts.output == string(view.FormatJSON) {
		return renderer.RenderJSON(map[string]string{"excerpt": excerpt})
	}
	if excerpt == "" {
		renderer.Warning("No paragraph text found.")
		return nil
	}
	renderer.RenderText(excerpt)
	return nil
}
