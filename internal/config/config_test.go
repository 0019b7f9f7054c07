package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
		errMsg  string
	}{
		{
			name: "valid config",
			config: Config{
				URL:      "https://folio.example.com",
				APIToken: "token123",
			},
		},
		{
			name:    "missing URL",
			config:  Config{APIToken: "token123"},
			wantErr: true,
			errMsg:  "url is required",
		},
		{
			name:    "missing API token",
			config:  Config{URL: "https://folio.example.com"},
			wantErr: true,
			errMsg:  "api_token is required",
		},
		{
			name: "plain http rejected",
			config: Config{
				URL:      "http://folio.example.com",
				APIToken: "token123",
			},
			wantErr: true,
			errMsg:  "url must use https",
		},
		{
			name: "plain http on localhost",
			config: Config{
				URL:      "http://localhost:8080",
				APIToken: "token123",
			},
		},
		{
			name: "invalid URL scheme",
			config: Config{
				URL:      "ftp://folio.example.com",
				APIToken: "token123",
			},
			wantErr: true,
			errMsg:  "url must use https",
		},
		{
			name: "no host",
			config: Config{
				URL:      "folio.example.com",
				APIToken: "token123",
			},
			wantErr: true,
			errMsg:  "url is invalid",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_ValidateContent(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr string
	}{
		{"empty is fine", Config{}, ""},
		{"full settings", Config{ExcerptLength: 200, HighlightStyle: "github", Dialect: "commonmark"}, ""},
		{"style case-insensitive", Config{HighlightStyle: "Monokai"}, ""},
		{"negative length", Config{ExcerptLength: -1}, "excerpt_length"},
		{"unknown dialect", Config{Dialect: "rst"}, "rst"},
		{"unknown style", Config{HighlightStyle: "no-such-style"}, "highlight_style"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.ValidateContent()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfig_ApplyDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.ApplyDefaults()

	assert.Equal(t, DefaultExcerptLength, cfg.ExcerptLength)
	assert.Equal(t, DefaultHighlightStyle, cfg.HighlightStyle)
	assert.Equal(t, "native", cfg.Dialect)

	cfg = &Config{ExcerptLength: 80, HighlightStyle: "dracula", Dialect: "commonmark"}
	cfg.ApplyDefaults()
	assert.Equal(t, 80, cfg.ExcerptLength)
	assert.Equal(t, "dracula", cfg.HighlightStyle)
	assert.Equal(t, "commonmark", cfg.Dialect)
}

func TestConfig_NormalizeURL(t *testing.T) {
	tests := []struct {
		inputURL string
		expected string
	}{
		{"https://folio.example.com", "https://folio.example.com"},
		{"https://folio.example.com/", "https://folio.example.com"},
		{"https://folio.example.com//", "https://folio.example.com"},
		{"https://example.com/folio/", "https://example.com/folio"},
	}

	for _, tt := range tests {
		t.Run(tt.inputURL, func(t *testing.T) {
			cfg := Config{URL: tt.inputURL}
			cfg.NormalizeURL()
			assert.Equal(t, tt.expected, cfg.URL)
		})
	}
}

func TestConfig_LoadFromEnv(t *testing.T) {
	t.Run("loads all env vars", func(t *testing.T) {
		t.Setenv("FOLIO_URL", "https://env.example.com")
		t.Setenv("FOLIO_API_TOKEN", "env-token")
		t.Setenv("FOLIO_EXCERPT_LENGTH", "42")
		t.Setenv("FOLIO_HIGHLIGHT_STYLE", "github")
		t.Setenv("FOLIO_DIALECT", "commonmark")

		cfg := &Config{}
		cfg.LoadFromEnv()

		assert.Equal(t, "https://env.example.com", cfg.URL)
		assert.Equal(t, "env-token", cfg.APIToken)
		assert.Equal(t, 42, cfg.ExcerptLength)
		assert.Equal(t, "github", cfg.HighlightStyle)
		assert.Equal(t, "commonmark", cfg.Dialect)
	})

	t.Run("empty env vars keep existing values", func(t *testing.T) {
		t.Setenv("FOLIO_URL", "https://override.example.com")
		t.Setenv("FOLIO_API_TOKEN", "")
		t.Setenv("FOLIO_EXCERPT_LENGTH", "")
		t.Setenv("FOLIO_HIGHLIGHT_STYLE", "")
		t.Setenv("FOLIO_DIALECT", "")

		cfg := &Config{
			URL:           "https://original.example.com",
			APIToken:      "original-token",
			ExcerptLength: 90,
		}
		cfg.LoadFromEnv()

		assert.Equal(t, "https://override.example.com", cfg.URL)
		assert.Equal(t, "original-token", cfg.APIToken)
		assert.Equal(t, 90, cfg.ExcerptLength)
	})

	t.Run("unparseable excerpt length ignored", func(t *testing.T) {
		t.Setenv("FOLIO_EXCERPT_LENGTH", "lots")

		cfg := &Config{ExcerptLength: 90}
		cfg.LoadFromEnv()

		assert.Equal(t, 90, cfg.ExcerptLength)
	})
}

func TestDefaultConfigPath(t *testing.T) {
	t.Run("honours XDG_CONFIG_HOME", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
		assert.Equal(t, filepath.Join("/tmp/xdg", "folio", "config.yml"), DefaultConfigPath())
	})

	t.Run("falls back to home directory", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "")
		home, err := os.UserHomeDir()
		require.NoError(t, err)

		assert.Equal(t, filepath.Join(home, ".config", "folio", "config.yml"), DefaultConfigPath())
	})
}

func TestConfig_Save_and_Load(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "nested", "config.yml")

	original := Config{
		URL:            "https://folio.example.com",
		APIToken:       "test-token",
		ExcerptLength:  120,
		HighlightStyle: "github",
		Dialect:        "commonmark",
		OutputFormat:   "json",
	}

	require.NoError(t, original.Save(configPath))

	info, err := os.Stat(configPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded, err := Load(configPath)
	require.NoError(t, err)
	assert.Equal(t, original, *loaded)
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yml")
	require.Error(t, err)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("url: [unclosed"), 0600))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestLoadWithEnv_MissingFile(t *testing.T) {
	t.Setenv("FOLIO_URL", "https://env.example.com")
	t.Setenv("FOLIO_API_TOKEN", "")
	t.Setenv("FOLIO_EXCERPT_LENGTH", "")
	t.Setenv("FOLIO_HIGHLIGHT_STYLE", "")
	t.Setenv("FOLIO_DIALECT", "")

	cfg, err := LoadWithEnv(filepath.Join(t.TempDir(), "missing.yml"))
	require.NoError(t, err)

	assert.Equal(t, "https://env.example.com", cfg.URL)
	assert.Equal(t, DefaultExcerptLength, cfg.ExcerptLength)
	assert.Equal(t, DefaultHighlightStyle, cfg.HighlightStyle)
}

func TestResolvePath(t *testing.T) {
	assert.Equal(t, "/etc/folio.yml", ResolvePath("/etc/folio.yml"))
	assert.Equal(t, DefaultConfigPath(), ResolvePath(""))
}

func TestConfig_Pipeline(t *testing.T) {
	p, err := (&Config{Dialect: "commonmark"}).Pipeline()
	require.NoError(t, err)
	assert.Equal(t, "commonmark", string(p.Dialect()))

	p, err = (&Config{}).Pipeline()
	require.NoError(t, err)
	assert.Equal(t, "native", string(p.Dialect()))

	_, err = (&Config{Dialect: "wiki"}).Pipeline()
	assert.Error(t, err)
}
