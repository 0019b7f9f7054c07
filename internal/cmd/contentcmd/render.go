package contentcmd

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/folio/pkg/content"
)

// Render output formats.
const (
	formatHTML = "html"
	formatJSON = "json"
	formatTree = "tree"
)

type renderOptions struct {
	ioOptions
	format  string
	dialect string
}

// NewCmdRender creates the render command.
func NewCmdRender() *cobra.Command {
	opts := &renderOptions{}

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render markup to sanitized HTML",
		Long: `Parse markup and render it through the content pipeline.

The pipeline highlights code blocks, assigns heading ids, wraps tables in a
scroll container, adds presentation classes and hardens external links.
The result is sanitized against the allow-list policy.

Reads from stdin when no file is given.`,
		Example: `  # Render a post to HTML
  folio render post.md

  # Show the rendered content tree
  folio render post.md --format tree

  # Parse CommonMark instead of the native dialect
  cat README.md | folio render --dialect commonmark`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.bindGlobals(cmd)
			return runRender(opts, args)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", formatHTML, "Output format: html, json, tree")
	cmd.Flags().StringVar(&opts.dialect, "dialect", "", "Markup dialect: native, commonmark (default from config)")

	return cmd
}

func runRender(opts *renderOptions, args []string) error {
	switch opts.format {
	case formatHTML, formatJSON, formatTree:
	default:
		return fmt.Errorf("invalid format %q: must be one of html, json, tree", opts.format)
	}

	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}
	settings := *cfg
	if opts.dialect != "" {
		settings.Dialect = opts.dialect
	}
	pipeline, err := settings.Pipeline()
	if err != nil {
		return err
	}

	markup, err := opts.readInput(args)
	if err != nil {
		return err
	}

	result := pipeline.Parse(markup)
	for _, w := range result.Warnings {
		slog.Warn("markup warning", "warning", w)
	}

	doc, err := pipeline.Render(result.Root)
	if err != nil {
		return fmt.Errorf("failed to render: %w", err)
	}

	out := opts.out()
	switch opts.format {
	case formatJSON:
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode document: %w", err)
		}
		fmt.Fprintln(out, string(data))
	case formatTree:
		writeTree(out, doc.Root, 0)
	default:
		rendered, err := doc.HTML()
		if err != nil {
			return err
		}
		fmt.Fprintln(out, rendered)
	}

	return nil
}

// writeTree prints one node per line, indented by depth.
func writeTree(w io.Writer, n *content.Node, depth int) {
	if n == nil {
		return
	}

	var b strings.Builder
	b.WriteString(strings.Repeat("  ", depth))
	b.WriteString(n.Kind.String())
	if n.Level > 0 {
		b.WriteString(" level=" + strconv.Itoa(n.Level))
	}
	keys := make([]string, 0, len(n.Attrs))
	for k := range n.Attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.WriteString(" " + k + "=" + strconv.Quote(n.Attrs[k]))
	}
	if n.Text != "" {
		b.WriteString(" " + strconv.Quote(n.Text))
	}
	fmt.Fprintln(w, b.String())

	for _, c := range n.Children {
		writeTree(w, c, depth+1)
	}
}
