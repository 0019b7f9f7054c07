// Package configcmd provides config management commands.
package configcmd

import (
	"io"
	"os"

	"github.com/spf13/cobra"
)

// NewCmdConfig creates the config command.
func NewCmdConfig() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage folio configuration",
		Long:  `Commands for viewing, testing, and clearing folio configuration.`,
	}

	cmd.AddCommand(NewCmdShow())
	cmd.AddCommand(NewCmdTest())
	cmd.AddCommand(NewCmdClear())

	return cmd
}

// envVars lists every environment variable that overrides the config file.
var envVars = []string{
	"FOLIO_URL",
	"FOLIO_API_TOKEN",
	"FOLIO_EXCERPT_LENGTH",
	"FOLIO_HIGHLIGHT_STYLE",
	"FOLIO_DIALECT",
}

type options struct {
	configPath string
	noColor    bool
	stdout     io.Writer // For testing; defaults to os.Stdout
}

func bindOptions(cmd *cobra.Command) *options {
	opts := &options{}
	opts.configPath, _ = cmd.Flags().GetString("config")
	opts.noColor, _ = cmd.Flags().GetBool("no-color")
	return opts
}

func (o *options) out() io.Writer {
	if o.stdout == nil {
		return os.Stdout
	}
	return o.stdout
}
