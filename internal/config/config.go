// Package config provides configuration management for folio.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/open-cli-collective/folio/pkg/content"
)

// Defaults applied when a setting is absent.
const (
	DefaultExcerptLength  = 160
	DefaultHighlightStyle = "monokai"
)

// Config holds the folio configuration.
type Config struct {
	URL            string `yaml:"url"`
	APIToken       string `yaml:"api_token"`
	ExcerptLength  int    `yaml:"excerpt_length,omitempty"`
	HighlightStyle string `yaml:"highlight_style,omitempty"`
	Dialect        string `yaml:"dialect,omitempty"`
	OutputFormat   string `yaml:"output_format,omitempty"`
}

// Validate checks the backend connection settings.
func (c *Config) Validate() error {
	if c.URL == "" {
		return errors.New("url is required")
	}
	if c.APIToken == "" {
		return errors.New("api_token is required")
	}

	u, err := url.Parse(c.URL)
	if err != nil || u.Host == "" {
		return fmt.Errorf("url is invalid: %s", c.URL)
	}
	if u.Scheme != "https" && !(u.Scheme == "http" && isLocalhost(u.Hostname())) {
		return errors.New("url must use https")
	}

	return nil
}

// ValidateContent checks the content pipeline settings. Unlike Validate it
// does not need a backend.
func (c *Config) ValidateContent() error {
	if c.ExcerptLength < 0 {
		return fmt.Errorf("excerpt_length must not be negative, got %d", c.ExcerptLength)
	}
	if _, err := content.ParseDialect(c.Dialect); err != nil {
		return err
	}
	if c.HighlightStyle != "" && !isStyle(c.HighlightStyle) {
		return fmt.Errorf("unknown highlight_style %q", c.HighlightStyle)
	}
	return nil
}

// ApplyDefaults fills in unset pipeline settings.
func (c *Config) ApplyDefaults() {
	if c.ExcerptLength == 0 {
		c.ExcerptLength = DefaultExcerptLength
	}
	if c.HighlightStyle == "" {
		c.HighlightStyle = DefaultHighlightStyle
	}
	if c.Dialect == "" {
		c.Dialect = string(content.DialectNative)
	}
}

// NormalizeURL strips trailing slashes from the backend URL.
func (c *Config) NormalizeURL() {
	c.URL = strings.TrimRight(c.URL, "/")
}

// LoadFromEnv loads configuration from environment variables.
// Environment variables override existing values only if set and non-empty.
func (c *Config) LoadFromEnv() {
	if u := os.Getenv("FOLIO_URL"); u != "" {
		c.URL = u
	}
	if token := os.Getenv("FOLIO_API_TOKEN"); token != "" {
		c.APIToken = token
	}
	if v := os.Getenv("FOLIO_EXCERPT_LENGTH"); v != "" {
		// Unparseable values are ignored, the file setting stays in effect.
		if n, err := strconv.Atoi(v); err == nil {
			c.ExcerptLength = n
		}
	}
	if style := os.Getenv("FOLIO_HIGHLIGHT_STYLE"); style != "" {
		c.HighlightStyle = style
	}
	if dialect := os.Getenv("FOLIO_DIALECT"); dialect != "" {
		c.Dialect = dialect
	}
}

func isLocalhost(host string) bool {
	return host == "localhost" || host == "127.0.0.1" || host == "::1"
}

func isStyle(name string) bool {
	for _, s := range content.StyleNames() {
		if strings.EqualFold(s, name) {
			return true
		}
	}
	return false
}

// Pipeline builds a content pipeline from the pipeline settings.
func (c *Config) Pipeline() (*content.Pipeline, error) {
	dialect, err := content.ParseDialect(c.Dialect)
	if err != nil {
		return nil, err
	}
	return content.NewPipeline(content.DefaultPolicy(), content.WithDialect(dialect)), nil
}

// ResolvePath returns path, or the default config path when path is empty.
func ResolvePath(path string) string {
	if path != "" {
		return path
	}
	return DefaultConfigPath()
}

// DefaultConfigPath returns the default configuration file path.
func DefaultConfigPath() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "folio", "config.yml")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".folio", "config.yml")
	}

	return filepath.Join(home, ".config", "folio", "config.yml")
}

// Save writes the configuration to the specified path.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Write with restricted permissions (user read/write only)
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Load reads the configuration from the specified path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &cfg, nil
}

// LoadWithEnv loads configuration from file, overrides it with environment
// variables and applies defaults.
func LoadWithEnv(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		// If file doesn't exist, start with empty config
		cfg = &Config{}
	}

	cfg.LoadFromEnv()
	cfg.ApplyDefaults()
	return cfg, nil
}
