package configcmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/folio/api"
	"github.com/open-cli-collective/folio/internal/config"
)

// NewCmdTest creates the config test command.
func NewCmdTest() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "test",
		Short: "Test connectivity with configured credentials",
		Long:  `Test that folio can reach the portfolio backend with the current configuration.`,
		Example: `  # Test connection
  folio config test`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTest(bindOptions(cmd), nil)
		},
	}

	return cmd
}

func runTest(opts *options, cfg *config.Config) error {
	if opts.noColor {
		color.NoColor = true
	}

	if cfg == nil {
		var err error
		cfg, err = config.LoadWithEnv(config.ResolvePath(opts.configPath))
		if err != nil {
			return fmt.Errorf("failed to load config: %w (run 'folio init' to configure)", err)
		}

		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w (run 'folio init' to configure)", err)
		}
	}

	w := opts.out()
	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)

	fmt.Fprintf(w, "Testing connection to %s...\n", cfg.URL)

	client := api.NewClient(cfg.URL, cfg.APIToken)
	_, err := client.ListDocuments(context.Background(), &api.ListDocumentsOptions{Limit: 1})

	var apiErr *api.ErrorResponse
	switch {
	case err == nil:
	case errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized:
		_, _ = red.Fprintln(w, "✗ Authentication failed: 401 Unauthorized")
		fmt.Fprintln(w, "\nCheck your token with: folio config show")
		fmt.Fprintln(w, "Reconfigure with: folio init")
		return fmt.Errorf("authentication failed")
	case errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusForbidden:
		_, _ = red.Fprintln(w, "✗ Access denied: 403 Forbidden")
		fmt.Fprintln(w, "\nCheck your token's permissions.")
		return fmt.Errorf("access denied")
	case errors.As(err, &apiErr):
		_, _ = red.Fprintf(w, "✗ Unexpected response: %d\n", apiErr.StatusCode)
		return fmt.Errorf("unexpected status code: %d", apiErr.StatusCode)
	default:
		_, _ = red.Fprintln(w, "✗ Connection failed:", err)
		fmt.Fprintln(w, "\nCheck your URL with: folio config show")
		fmt.Fprintln(w, "Reconfigure with: folio init")
		return fmt.Errorf("connection failed: %w", err)
	}

	_, _ = green.Fprintln(w, "✓ Authentication successful")
	_, _ = green.Fprintln(w, "✓ API access verified")

	if err := cfg.ValidateContent(); err != nil {
		_, _ = red.Fprintln(w, "✗ Content settings:", err)
		return fmt.Errorf("invalid config: %w", err)
	}
	_, _ = green.Fprintln(w, "✓ Content settings valid")

	return nil
}
