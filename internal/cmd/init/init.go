// Package init provides the init command for folio.
package init

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/folio/api"
	"github.com/open-cli-collective/folio/internal/config"
	"github.com/open-cli-collective/folio/pkg/content"
)

const verifyTimeout = 10 * time.Second

type initOptions struct {
	configPath string
	url        string
	noVerify   bool
	stdout     io.Writer // For testing; defaults to os.Stdout
}

func (o *initOptions) out() io.Writer {
	if o.stdout == nil {
		return os.Stdout
	}
	return o.stdout
}

// NewCmdInit creates the init command.
func NewCmdInit() *cobra.Command {
	opts := &initOptions{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize folio configuration",
		Long: `Initialize folio with your portfolio backend and content settings.

This command will guide you through setting up the backend URL, API token,
excerpt length, code highlighting style and markup dialect. The configuration
will be saved to ~/.config/folio/config.yml unless --config is given.`,
		Example: `  # Interactive setup
  folio init

  # Pre-populate URL
  folio init --url https://portfolio.example.com`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts.configPath, _ = cmd.Flags().GetString("config")
			return runInit(opts)
		},
	}

	cmd.Flags().StringVar(&opts.url, "url", "", "Backend URL (e.g., https://portfolio.example.com)")
	cmd.Flags().BoolVar(&opts.noVerify, "no-verify", false, "Skip connection verification")

	return cmd
}

func runInit(opts *initOptions) error {
	configPath := config.ResolvePath(opts.configPath)

	if _, err := os.Stat(configPath); err == nil {
		var overwrite bool
		err := huh.NewConfirm().
			Title("Configuration already exists").
			Description(fmt.Sprintf("Overwrite %s?", configPath)).
			Value(&overwrite).
			Run()
		if err != nil {
			return err
		}
		if !overwrite {
			fmt.Fprintln(opts.out(), "Initialization cancelled.")
			return nil
		}
	}

	cfg := &config.Config{URL: opts.url}
	cfg.ApplyDefaults()
	excerptLength := strconv.Itoa(cfg.ExcerptLength)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Backend URL").
				Description("Base URL of the portfolio backend").
				Placeholder("https://portfolio.example.com").
				Value(&cfg.URL).
				Validate(required("URL")),

			huh.NewInput().
				Title("API Token").
				Description("Bearer token issued by the backend").
				EchoMode(huh.EchoModePassword).
				Value(&cfg.APIToken).
				Validate(required("API token")),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Excerpt length").
				Description("Maximum characters in generated excerpts").
				Value(&excerptLength).
				Validate(validateLength),

			huh.NewSelect[string]().
				Title("Highlight style").
				Description("Chroma style used for code blocks").
				Options(huh.NewOptions(content.StyleNames()...)...).
				Height(8).
				Value(&cfg.HighlightStyle),

			huh.NewSelect[string]().
				Title("Markup dialect").
				Options(huh.NewOptions(content.ValidDialects...)...).
				Value(&cfg.Dialect),
		),
	)

	if err := form.Run(); err != nil {
		return err
	}

	cfg.ExcerptLength, _ = strconv.Atoi(strings.TrimSpace(excerptLength))

	return finishInit(opts, cfg, configPath)
}

// finishInit validates, verifies and saves a completed configuration.
func finishInit(opts *initOptions, cfg *config.Config, configPath string) error {
	w := opts.out()

	cfg.NormalizeURL()

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if err := cfg.ValidateContent(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if !opts.noVerify {
		fmt.Fprint(w, "Verifying connection... ")
		if err := verifyConnection(cfg); err != nil {
			fmt.Fprintln(w, "failed!")
			return fmt.Errorf("connection verification failed: %w", err)
		}
		fmt.Fprintln(w, "success!")
	}

	if err := cfg.Save(configPath); err != nil {
		return err
	}

	fmt.Fprintf(w, "\nConfiguration saved to %s\n", configPath)
	fmt.Fprintln(w, "\nYou're all set! Try running:")
	fmt.Fprintln(w, "  folio doc list")
	fmt.Fprintln(w, "  folio render post.md")

	return nil
}

func required(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

func validateLength(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return fmt.Errorf("excerpt length must be a non-negative number")
	}
	return nil
}

func verifyConnection(cfg *config.Config) error {
	ctx, cancel := context.WithTimeout(context.Background(), verifyTimeout)
	defer cancel()

	client := api.NewClient(cfg.URL, cfg.APIToken)
	_, err := client.ListDocuments(ctx, &api.ListDocumentsOptions{Limit: 1})

	var apiErr *api.ErrorResponse
	switch {
	case err == nil:
		return nil
	case errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized:
		return fmt.Errorf("authentication failed - check your API token")
	case errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusForbidden:
		return fmt.Errorf("access denied - check your permissions")
	case errors.As(err, &apiErr):
		return fmt.Errorf("unexpected status code: %d", apiErr.StatusCode)
	default:
		return err
	}
}
