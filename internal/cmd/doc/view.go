package doc

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/folio/api"
)

type viewOptions struct {
	globalOptions
	html bool
	toc  bool
	web  bool
}

// NewCmdView creates the doc view command.
func NewCmdView() *cobra.Command {
	opts := &viewOptions{}

	cmd := &cobra.Command{
		Use:   "view <document-id>",
		Short: "View a document",
		Long:  `View a stored document's markup, rendered HTML or table of contents.`,
		Example: `  # View a document's markup
  folio doc view doc-101

  # Show the stored HTML
  folio doc view doc-101 --html

  # Open in browser
  folio doc view doc-101 --web`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.bindGlobals(cmd)
			return runView(args[0], opts, nil)
		},
	}

	cmd.Flags().BoolVar(&opts.html, "html", false, "Show the rendered HTML instead of markup")
	cmd.Flags().BoolVar(&opts.toc, "toc", false, "Show the table of contents")
	cmd.Flags().BoolVarP(&opts.web, "web", "w", false, "Open in browser instead of displaying")

	return cmd
}

func runView(id string, opts *viewOptions, client *api.Client) error {
	client, err := opts.connect(client)
	if err != nil {
		return err
	}

	doc, err := client.GetDocument(context.Background(), id)
	if err != nil {
		return fmt.Errorf("failed to get document: %w", err)
	}

	if opts.web {
		return openBrowser(opts.baseURL() + doc.Links.WebUI)
	}

	renderer := opts.renderer()

	if opts.output == "json" {
		return renderer.RenderJSON(doc)
	}

	if opts.toc {
		rows := make([][]string, 0, len(doc.TOC))
		for _, h := range doc.TOC {
			rows = append(rows, []string{strconv.Itoa(h.Level), h.ID, h.Text})
		}
		renderer.RenderTable([]string{"LEVEL", "ID", "TEXT"}, rows)
		return nil
	}

	renderer.RenderKeyValue("Title", doc.Title)
	renderer.RenderKeyValue("ID", doc.ID)
	if doc.Version != nil {
		renderer.RenderKeyValue("Version", strconv.Itoa(doc.Version.Number))
	}
	if doc.Excerpt != "" {
		renderer.RenderKeyValue("Excerpt", doc.Excerpt)
	}
	renderer.RenderText("")

	body := doc.Markup
	if opts.html {
		body = doc.HTML
	}
	if body == "" {
		body = "(No content)"
	}
	renderer.RenderText(body)

	return nil
}

func openBrowser(url string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		return fmt.Errorf("unsupported platform")
	}

	return cmd.Start()
}
