// Package contentcmd provides the offline content pipeline commands:
// render, markup, toc, excerpt and css.
package contentcmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/folio/internal/config"
)

// ioOptions holds the flags and streams every content command shares.
type ioOptions struct {
	configPath string
	output     string
	noColor    bool

	cfg    *config.Config // For testing; loaded from configPath when nil
	stdin  io.Reader      // For testing; defaults to os.Stdin
	stdout io.Writer      // For testing; defaults to os.Stdout
}

func (o *ioOptions) bindGlobals(cmd *cobra.Command) {
	o.configPath, _ = cmd.Flags().GetString("config")
	o.output, _ = cmd.Flags().GetString("output")
	o.noColor, _ = cmd.Flags().GetBool("no-color")
}

func (o *ioOptions) out() io.Writer {
	if o.stdout == nil {
		return os.Stdout
	}
	return o.stdout
}

// loadConfig returns the injected config or loads it. Only the pipeline
// settings are validated; content commands never reach the backend.
func (o *ioOptions) loadConfig() (*config.Config, error) {
	if o.cfg != nil {
		return o.cfg, nil
	}

	cfg, err := config.LoadWithEnv(config.ResolvePath(o.configPath))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.ValidateContent(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	o.cfg = cfg
	return cfg, nil
}

// readInput reads the named file, or stdin when the name is empty or "-".
func (o *ioOptions) readInput(args []string) (string, error) {
	if len(args) > 0 && args[0] != "-" {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", fmt.Errorf("failed to read file: %w", err)
		}
		slog.Debug("read input file", "path", args[0], "bytes", len(data))
		return string(data), nil
	}

	in := o.stdin
	if in == nil {
		in = os.Stdin
	}
	data, err := io.ReadAll(in)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return string(data), nil
}
