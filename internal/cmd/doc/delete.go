package doc

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/folio/api"
)

type deleteOptions struct {
	globalOptions
	force bool
}

// NewCmdDelete creates the doc delete command.
func NewCmdDelete() *cobra.Command {
	opts := &deleteOptions{}

	cmd := &cobra.Command{
		Use:   "delete <document-id>",
		Short: "Delete a document",
		Long:  `Delete a document by its ID.`,
		Example: `  # Delete a document
  folio doc delete doc-101

  # Delete without confirmation
  folio doc delete doc-101 --force`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.bindGlobals(cmd)
			opts.stdin = os.Stdin
			return runDelete(args[0], opts, nil)
		},
	}

	cmd.Flags().BoolVarP(&opts.force, "force", "f", false, "Skip confirmation prompt")

	return cmd
}

func runDelete(id string, opts *deleteOptions, client *api.Client) error {
	client, err := opts.connect(client)
	if err != nil {
		return err
	}

	// Get the document first to show what we're deleting
	doc, err := client.GetDocument(context.Background(), id)
	if err != nil {
		return fmt.Errorf("failed to get document: %w", err)
	}

	renderer := opts.renderer()

	if !opts.force {
		fmt.Fprintf(opts.out(), "About to delete document: %s (ID: %s)\n", doc.Title, doc.ID)
		fmt.Fprint(opts.out(), "Are you sure? [y/N]: ")

		var confirm string
		if opts.stdin != nil {
			scanner := bufio.NewScanner(opts.stdin)
			if scanner.Scan() {
				confirm = scanner.Text()
			}
		}

		if confirm != "y" && confirm != "Y" {
			renderer.RenderText("Deletion cancelled.")
			return nil
		}
	}

	if err := client.DeleteDocument(context.Background(), id); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}

	if opts.output == "json" {
		return renderer.RenderJSON(map[string]string{
			"status":      "deleted",
			"document_id": id,
			"title":       doc.Title,
		})
	}

	renderer.Success(fmt.Sprintf("Deleted document: %s (ID: %s)", doc.Title, id))

	return nil
}
