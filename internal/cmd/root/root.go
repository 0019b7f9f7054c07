// Package root provides the root command for the folio CLI.
package root

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/folio/internal/cmd/completion"
	"github.com/open-cli-collective/folio/internal/cmd/configcmd"
	"github.com/open-cli-collective/folio/internal/cmd/contentcmd"
	"github.com/open-cli-collective/folio/internal/cmd/doc"
	initcmd "github.com/open-cli-collective/folio/internal/cmd/init"
	"github.com/open-cli-collective/folio/internal/version"
)

// NewCmdRoot creates the root command for folio.
func NewCmdRoot() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "folio",
		Short: "Render and publish portfolio content",
		Long: `folio turns lightweight markup into sanitized HTML for a portfolio site.

It renders documents locally, extracts a table of contents and a plain-text
excerpt, converts rendered HTML back to markup, and manages the documents
stored on the portfolio backend.

Get started by running: folio init`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version.Version,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			verbose, _ := cmd.Flags().GetBool("verbose")
			setupLogger(cmd.ErrOrStderr(), verbose)
		},
	}

	// Global flags
	cmd.PersistentFlags().StringP("config", "c", "", "config file (default: ~/.config/folio/config.yml)")
	cmd.PersistentFlags().StringP("output", "o", "table", "output format: table, json, plain")
	cmd.PersistentFlags().Bool("no-color", false, "disable colored output")
	cmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")

	cmd.SetVersionTemplate(version.String() + "\n")

	// Subcommands
	cmd.AddCommand(initcmd.NewCmdInit())
	cmd.AddCommand(contentcmd.NewCmdRender())
	cmd.AddCommand(contentcmd.NewCmdMarkup())
	cmd.AddCommand(contentcmd.NewCmdTOC())
	cmd.AddCommand(contentcmd.NewCmdExcerpt())
	cmd.AddCommand(contentcmd.NewCmdCSS())
	cmd.AddCommand(doc.NewCmdDoc())
	cmd.AddCommand(configcmd.NewCmdConfig())
	cmd.AddCommand(completion.NewCmdCompletion())

	return cmd
}

// setupLogger routes slog output to w. Warnings are always shown; debug
// records only with --verbose.
func setupLogger(w io.Writer, verbose bool) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}
