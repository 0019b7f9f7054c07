package doc

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/folio/api"
)

type editOptions struct {
	globalOptions
	id     string
	title  string
	file   string
	editor bool
}

// NewCmdEdit creates the doc edit command.
func NewCmdEdit() *cobra.Command {
	opts := &editOptions{}

	cmd := &cobra.Command{
		Use:   "edit <document-id>",
		Short: "Edit an existing document",
		Long: `Edit an existing document.

Content can be provided via:
- --file flag to read from a file
- Standard input (pipe content)
- Interactive editor (default, or with --editor flag)

The document is re-rendered and uploaded as a new version.`,
		Example: `  # Edit a document (opens editor with current markup)
  folio doc edit doc-101

  # Replace content from file
  folio doc edit doc-101 --file post.md

  # Rename only
  folio doc edit doc-101 --title "New Title"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.id = args[0]
			opts.bindGlobals(cmd)
			return runEdit(opts, nil)
		},
	}

	cmd.Flags().StringVarP(&opts.title, "title", "t", "", "New document title")
	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "Read markup from file")
	cmd.Flags().BoolVar(&opts.editor, "editor", false, "Open editor for content")

	return cmd
}

func runEdit(opts *editOptions, client *api.Client) error {
	client, err := opts.connect(client)
	if err != nil {
		return err
	}

	store := api.NewStore(client)

	existing, err := store.GetDocument(context.Background(), opts.id)
	if err != nil {
		return fmt.Errorf("failed to get document: %w", err)
	}

	if opts.title != "" {
		existing.Title = opts.title
	}

	// Without new content or a new title, edit the current markup
	markup, ok := "", false
	if !opts.editor {
		markup, ok, err = opts.readContent(opts.file)
		if err != nil {
			return err
		}
	}
	if opts.editor || (!ok && opts.title == "") {
		markup, err = openEditor(existing.Markup)
		if err != nil {
			return err
		}
		ok = true
	}

	if ok {
		if strings.TrimSpace(markup) == "" {
			return fmt.Errorf("document content cannot be empty")
		}
		existing.Markup = markup
	}

	settings := opts.settings()
	pipeline, err := settings.Pipeline()
	if err != nil {
		return err
	}
	if err := pipeline.Prepare(existing, settings.ExcerptLength); err != nil {
		return fmt.Errorf("failed to render document: %w", err)
	}

	saved, err := store.SaveDocument(context.Background(), existing)
	if err != nil {
		return err
	}

	renderer := opts.renderer()

	if opts.output == "json" {
		return renderer.RenderJSON(saved)
	}

	renderer.Success(fmt.Sprintf("Updated document: %s", saved.Title))
	renderer.RenderKeyValue("ID", saved.ID)
	renderer.RenderKeyValue("Version", strconv.Itoa(saved.Version))

	return nil
}
