package doc

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/folio/api"
	"github.com/open-cli-collective/folio/pkg/content"
)

const createTemplate = "Write your document here.\n"

type createOptions struct {
	globalOptions
	title  string
	file   string
	editor bool
}

// NewCmdCreate creates the doc create command.
func NewCmdCreate() *cobra.Command {
	opts := &createOptions{}

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new document",
		Long: `Create a new document from markup.

Content can be provided via:
- --file flag to read from a file
- Standard input (pipe content)
- Interactive editor (default, or with --editor flag)

The markup is rendered locally; the backend receives the markup together
with its sanitized HTML, excerpt and table of contents.`,
		Example: `  # Create a document (opens editor)
  folio doc create --title "My Post"

  # Create from file
  folio doc create -t "My Post" --file post.md

  # Create from stdin
  echo "Hello" | folio doc create -t "My Post"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.bindGlobals(cmd)
			return runCreate(opts, nil)
		},
	}

	cmd.Flags().StringVarP(&opts.title, "title", "t", "", "Document title (required)")
	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "Read markup from file")
	cmd.Flags().BoolVar(&opts.editor, "editor", false, "Open editor for content")

	_ = cmd.MarkFlagRequired("title")

	return cmd
}

func runCreate(opts *createOptions, client *api.Client) error {
	if strings.TrimSpace(opts.title) == "" {
		return fmt.Errorf("title is required")
	}

	client, err := opts.connect(client)
	if err != nil {
		return err
	}

	markup, err := createContent(opts)
	if err != nil {
		return err
	}
	if strings.TrimSpace(markup) == "" {
		return fmt.Errorf("document content cannot be empty")
	}

	settings := opts.settings()
	pipeline, err := settings.Pipeline()
	if err != nil {
		return err
	}

	stored := &content.StoredDocument{Title: opts.title, Markup: markup}
	if err := pipeline.Prepare(stored, settings.ExcerptLength); err != nil {
		return fmt.Errorf("failed to render document: %w", err)
	}
	slog.Debug("rendered document", "title", stored.Title, "headings", len(stored.TOC))

	saved, err := api.NewStore(client).SaveDocument(context.Background(), stored)
	if err != nil {
		return err
	}

	renderer := opts.renderer()

	if opts.output == "json" {
		return renderer.RenderJSON(saved)
	}

	renderer.Success(fmt.Sprintf("Created document: %s", saved.Title))
	renderer.RenderKeyValue("ID", saved.ID)
	if saved.Excerpt != "" {
		renderer.RenderKeyValue("Excerpt", saved.Excerpt)
	}

	return nil
}

func createContent(opts *createOptions) (string, error) {
	if !opts.editor {
		markup, ok, err := opts.readContent(opts.file)
		if err != nil || ok {
			return markup, err
		}
	}

	markup, err := openEditor(createTemplate)
	if err != nil {
		return "", err
	}
	if markup == strings.TrimSpace(createTemplate) {
		return "", fmt.Errorf("no content provided (or content unchanged)")
	}
	return markup, nil
}
