// Package doc provides commands for documents stored on the backend.
package doc

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/folio/api"
	"github.com/open-cli-collective/folio/internal/config"
	"github.com/open-cli-collective/folio/internal/view"
)

// NewCmdDoc creates the doc command.
func NewCmdDoc() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "doc",
		Aliases: []string{"docs", "document"},
		Short:   "Manage stored documents",
		Long: `Commands for listing, viewing, creating, editing and deleting documents
on the portfolio backend. Documents are rendered locally before upload, so
the backend always receives sanitized HTML with its excerpt and table of
contents.`,
	}

	cmd.AddCommand(NewCmdList())
	cmd.AddCommand(NewCmdView())
	cmd.AddCommand(NewCmdCreate())
	cmd.AddCommand(NewCmdEdit())
	cmd.AddCommand(NewCmdDelete())

	return cmd
}

// globalOptions holds the root flags and the streams shared by doc commands.
type globalOptions struct {
	configPath string
	output     string
	noColor    bool

	cfg    *config.Config // Loaded config; defaults are used when nil
	stdin  io.Reader      // For testing; defaults to os.Stdin
	stdout io.Writer      // For testing; defaults to os.Stdout
}

func (o *globalOptions) bindGlobals(cmd *cobra.Command) {
	o.configPath, _ = cmd.Flags().GetString("config")
	o.output, _ = cmd.Flags().GetString("output")
	o.noColor, _ = cmd.Flags().GetBool("no-color")
}

func (o *globalOptions) out() io.Writer {
	if o.stdout == nil {
		return os.Stdout
	}
	return o.stdout
}

func (o *globalOptions) renderer() *view.Renderer {
	r := view.NewRenderer(view.Format(o.output), o.noColor)
	r.SetWriter(o.out())
	return r
}

// connect returns client when it is non-nil (allows injection for testing)
// and otherwise builds one from the validated config.
func (o *globalOptions) connect(client *api.Client) (*api.Client, error) {
	if err := view.ValidateFormat(o.output); err != nil {
		return nil, err
	}
	if client != nil {
		return client, nil
	}

	cfg, err := config.LoadWithEnv(config.ResolvePath(o.configPath))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w (run 'folio init' to configure)", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w (run 'folio init' to configure)", err)
	}
	if err := cfg.ValidateContent(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	o.cfg = cfg
	slog.Debug("connecting to backend", "url", cfg.URL)
	return api.NewClient(cfg.URL, cfg.APIToken), nil
}

// settings returns the loaded config, or defaults when none was loaded.
func (o *globalOptions) settings() *config.Config {
	if o.cfg != nil {
		return o.cfg
	}
	cfg := &config.Config{}
	cfg.ApplyDefaults()
	return cfg
}

func (o *globalOptions) baseURL() string {
	if o.cfg == nil {
		return ""
	}
	return o.cfg.URL
}

// readContent reads markup from file, or from stdin when it is piped.
// ok is false when neither source provided anything.
func (o *globalOptions) readContent(file string) (content string, ok bool, err error) {
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", false, fmt.Errorf("failed to read file: %w", err)
		}
		return string(data), true, nil
	}

	in := o.stdin
	if in == nil {
		if isTerminal() {
			return "", false, nil
		}
		in = os.Stdin
	}

	data, err := io.ReadAll(in)
	if err != nil {
		return "", false, fmt.Errorf("failed to read stdin: %w", err)
	}
	return string(data), len(data) > 0, nil
}

// isTerminal checks if stdin is a terminal
func isTerminal() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return true
	}
	return (stat.Mode() & os.ModeCharDevice) != 0
}

// openEditor lets the user edit initial in $EDITOR and returns the result.
func openEditor(initial string) (string, error) {
	tmpfile, err := os.CreateTemp("", "folio-*.md")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmpfile.Name()) }()

	if _, err := tmpfile.WriteString(initial); err != nil {
		return "", err
	}
	_ = tmpfile.Close()

	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = os.Getenv("VISUAL")
	}
	if editor == "" {
		editor = "vi"
	}

	cmd := exec.Command(editor, tmpfile.Name())
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("editor failed: %w", err)
	}

	data, err := os.ReadFile(tmpfile.Name())
	if err != nil {
		return "", fmt.Errorf("failed to read edited content: %w", err)
	}

	return strings.TrimSpace(string(data)), nil
}
