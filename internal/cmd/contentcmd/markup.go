package contentcmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/folio/pkg/content"
)

type markupOptions struct {
	ioOptions
	flavor string
}

// NewCmdMarkup creates the markup command.
func NewCmdMarkup() *cobra.Command {
	opts := &markupOptions{}

	cmd := &cobra.Command{
		Use:     "markup [file]",
		Aliases: []string{"unrender"},
		Short:   "Convert rich HTML back to markup",
		Long: `Convert rich HTML, such as the output of an editor, back to markup.

The HTML is read into a content tree and sanitized first, so scripts,
styles and embeds never reach the output. Headings deeper than level 3
collapse to ####, and ordered lists become bullet lists in the native
flavor.`,
		Example: `  # Convert editor output to native markup
  folio markup draft.html

  # Emit CommonMark instead
  folio markup draft.html --flavor commonmark`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.bindGlobals(cmd)
			return runMarkup(opts, args)
		},
	}

	cmd.Flags().StringVar(&opts.flavor, "flavor", "native", "Markup flavor: native, commonmark")

	return cmd
}

func runMarkup(opts *markupOptions, args []string) error {
	flavor, err := content.ParseFlavor(opts.flavor)
	if err != nil {
		return err
	}

	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}
	pipeline, err := cfg.Pipeline()
	if err != nil {
		return err
	}

	rich, err := opts.readInput(args)
	if err != nil {
		return err
	}

	markup, err := pipeline.ToMarkupHTML(rich, content.ToMarkupOptions{Flavor: flavor})
	if err != nil {
		return fmt.Errorf("failed to convert to markup: %w", err)
	}

	fmt.Fprintln(opts.out(), markup)
	return nil
}
