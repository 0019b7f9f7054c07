package doc

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/folio/api"
	"github.com/open-cli-collective/folio/internal/view"
)

type listOptions struct {
	globalOptions
	limit  int
	cursor string
	status string
	sort   string
	title  string
}

// NewCmdList creates the doc list command.
func NewCmdList() *cobra.Command {
	opts := &listOptions{}

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List documents",
		Long:    `List documents stored on the portfolio backend.`,
		Example: `  # List documents
  folio doc list

  # Drafts only, newest first
  folio doc list --status draft --sort -modified-date

  # Output as JSON
  folio doc list -o json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.bindGlobals(cmd)
			return runList(opts, nil)
		},
	}

	cmd.Flags().IntVarP(&opts.limit, "limit", "l", 25, "Maximum number of documents to return")
	cmd.Flags().StringVar(&opts.cursor, "cursor", "", "Continue from a previous page")
	cmd.Flags().StringVar(&opts.status, "status", "", "Document status (published, draft, archived)")
	cmd.Flags().StringVar(&opts.sort, "sort", "", "Sort order (title, -title, modified-date, -modified-date)")
	cmd.Flags().StringVarP(&opts.title, "title", "t", "", "Only documents whose title contains this text")

	return cmd
}

func runList(opts *listOptions, client *api.Client) error {
	if opts.limit < 0 {
		return fmt.Errorf("invalid limit: %d (must be >= 0)", opts.limit)
	}

	client, err := opts.connect(client)
	if err != nil {
		return err
	}

	result, err := client.ListDocuments(context.Background(), &api.ListDocumentsOptions{
		Limit:  opts.limit,
		Cursor: opts.cursor,
		Status: opts.status,
		Sort:   opts.sort,
		Title:  opts.title,
	})
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	renderer := opts.renderer()

	if opts.output == "json" {
		return renderer.RenderJSON(result.Results)
	}

	if len(result.Results) == 0 {
		renderer.RenderText("No documents found.")
		return nil
	}

	headers := []string{"ID", "TITLE", "STATUS", "VERSION"}
	var rows [][]string

	for _, doc := range result.Results {
		version := ""
		if doc.Version != nil {
			version = fmt.Sprintf("v%d", doc.Version.Number)
		}
		rows = append(rows, []string{
			doc.ID,
			view.Truncate(doc.Title, 60),
			doc.Status,
			version,
		})
	}

	renderer.RenderTable(headers, rows)

	if result.HasMore() {
		renderer.RenderText(fmt.Sprintf("\n(showing first %d results, use --cursor %s for the next page)", len(result.Results), result.NextCursor()))
	}

	return nil
}
