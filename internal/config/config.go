// Package config loads trakt-mcp configuration from a YAML file and the
// environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/knadh/koanf/v2"

	"github.com/fyrsmithlabs/trakt-mcp/internal/sanitize"
)

// Transports accepted by ServerConfig.Transport.
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

// Config holds the trakt-mcp configuration. The logging and telemetry
// sections belong to their packages and are decoded with Section.
type Config struct {
	Trakt  TraktConfig  `koanf:"trakt"`
	Server ServerConfig `koanf:"server"`

	k *koanf.Koanf
}

// TraktConfig holds the upstream API credentials and endpoints.
type TraktConfig struct {
	ClientID     string   `koanf:"client_id"`
	ClientSecret Secret   `koanf:"client_secret"`
	BaseURL      string   `koanf:"base_url"`
	APIVersion   string   `koanf:"api_version"`
	Timeout      Duration `koanf:"timeout"`

	// TokenFile is where the user token is persisted. Relative paths are
	// resolved against the config directory.
	TokenFile string `koanf:"token_file"`

	AuthURL string `koanf:"auth_url"`
}

// ServerConfig holds transport settings.
type ServerConfig struct {
	Transport       string   `koanf:"transport"`
	Host            string   `koanf:"host"`
	Port            int      `koanf:"port"`
	ShutdownTimeout Duration `koanf:"shutdown_timeout"`
}

// Addr returns host:port for the HTTP transport.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// ErrMissingCredentials is returned by Validate when the Trakt client id
// or secret is not configured.
var ErrMissingCredentials = errors.New("trakt client id and client secret are required (set TRAKT_CLIENT_ID and TRAKT_CLIENT_SECRET)")

// Validate checks the configuration. Missing credentials are fatal.
func (c *Config) Validate() error {
	if c.Trakt.ClientID == "" || !c.Trakt.ClientSecret.IsSet() {
		return ErrMissingCredentials
	}
	switch c.Server.Transport {
	case TransportStdio, TransportHTTP:
	default:
		return fmt.Errorf("invalid server transport %q (must be %s or %s)", c.Server.Transport, TransportStdio, TransportHTTP)
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d (must be 1-65535)", c.Server.Port)
	}
	if c.Server.ShutdownTimeout.Duration() <= 0 {
		return errors.New("shutdown timeout must be positive")
	}
	if c.Trakt.Timeout.Duration() <= 0 {
		return errors.New("trakt timeout must be positive")
	}
	return nil
}

// TokenPath returns the absolute path of the token file. A relative
// token_file must stay inside the config directory.
func (c *Config) TokenPath() (string, error) {
	if filepath.IsAbs(c.Trakt.TokenFile) {
		return sanitize.ValidatePath(c.Trakt.TokenFile, "")
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	path, err := sanitize.ValidatePath(filepath.Join(dir, c.Trakt.TokenFile), dir)
	if err != nil {
		return "", fmt.Errorf("invalid token_file %q: %w", c.Trakt.TokenFile, err)
	}
	return path, nil
}

// Section decodes the subtree at key into out. Keys absent from every
// source leave out's existing values in place, so callers pass their
// package defaults.
func (c *Config) Section(key string, out any) error {
	if c.k == nil || !c.k.Exists(key) {
		return nil
	}
	if err := c.k.Unmarshal(key, out); err != nil {
		return fmt.Errorf("failed to unmarshal %s config: %w", key, err)
	}
	return nil
}

// Dir returns the user config directory, ~/.config/trakt-mcp.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".config", "trakt-mcp"), nil
}

// EnsureDir creates the config directory with 0700 permissions.
func EnsureDir() error {
	dir, err := Dir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory %s: %w", dir, err)
	}
	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.Trakt.BaseURL == "" {
		cfg.Trakt.BaseURL = "https://api.trakt.tv"
	}
	if cfg.Trakt.APIVersion == "" {
		cfg.Trakt.APIVersion = "2"
	}
	if cfg.Trakt.Timeout == 0 {
		cfg.Trakt.Timeout = Duration(30 * time.Second)
	}
	if cfg.Trakt.TokenFile == "" {
		cfg.Trakt.TokenFile = "auth_token.json"
	}
	if cfg.Trakt.AuthURL == "" {
		cfg.Trakt.AuthURL = "https://trakt.tv/activate"
	}

	if cfg.Server.Transport == "" {
		cfg.Server.Transport = TransportStdio
	}
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = Duration(10 * time.Second)
	}
}
