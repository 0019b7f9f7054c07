package configcmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/folio/internal/config"
)

// NewCmdShow creates the config show command.
func NewCmdShow() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Display current configuration",
		Long:  `Display the current folio configuration with setting source indicators.`,
		Example: `  # Show current config
  folio config show`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runShow(bindOptions(cmd))
		},
	}

	return cmd
}

func runShow(opts *options) error {
	if opts.noColor {
		color.NoColor = true
	}

	configPath := config.ResolvePath(opts.configPath)
	w := opts.out()

	// Load file config (may not exist)
	fileCfg, fileErr := config.Load(configPath)
	if fileErr != nil {
		fileCfg = &config.Config{}
	}

	// Load full config with env overrides and defaults
	cfg, _ := config.LoadWithEnv(configPath)

	bold := color.New(color.Bold)
	dim := color.New(color.Faint)

	printField := func(label, value, fileValue, envVar string) {
		_, _ = bold.Fprintf(w, "%-17s", label+":")
		if value == "" {
			_, _ = dim.Fprintln(w, "-")
			return
		}

		display := value
		if strings.Contains(strings.ToLower(label), "token") {
			display = maskToken(value)
		}
		fmt.Fprint(w, display)

		source := "config"
		switch {
		case envVar != "" && os.Getenv(envVar) != "" && os.Getenv(envVar) == value:
			source = envVar
		case fileErr != nil || fileValue != value:
			source = "default"
		}

		_, _ = dim.Fprintf(w, "  (source: %s)\n", source)
	}

	itoa := func(n int) string {
		if n == 0 {
			return ""
		}
		return strconv.Itoa(n)
	}

	printField("URL", cfg.URL, fileCfg.URL, "FOLIO_URL")
	printField("API Token", cfg.APIToken, fileCfg.APIToken, "FOLIO_API_TOKEN")
	printField("Excerpt Length", itoa(cfg.ExcerptLength), itoa(fileCfg.ExcerptLength), "FOLIO_EXCERPT_LENGTH")
	printField("Highlight Style", cfg.HighlightStyle, fileCfg.HighlightStyle, "FOLIO_HIGHLIGHT_STYLE")
	printField("Dialect", cfg.Dialect, fileCfg.Dialect, "FOLIO_DIALECT")
	printField("Output", cfg.OutputFormat, fileCfg.OutputFormat, "")

	fmt.Fprintln(w)
	_, _ = dim.Fprintf(w, "Config file: %s\n", configPath)
	if fileErr != nil {
		_, _ = dim.Fprintln(w, "(file not found)")
	}

	return nil
}

// maskToken keeps the first and last four characters of long tokens.
func maskToken(token string) string {
	if len(token) <= 8 {
		return strings.Repeat("*", len(token))
	}
	return token[:4] + strings.Repeat("*", len(token)-8) + token[len(token)-4:]
}
