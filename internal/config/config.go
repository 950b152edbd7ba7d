// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading for keydeck.
//
// Configuration comes from ~/.keydeck/config.toml when present, with
// built-in defaults and KEYDECK_* environment variable overrides
// applied last.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete keydeck configuration.
type Config struct {
	// API configuration for the backing store
	API APIConfig `toml:"api"`

	// Directory configuration
	Directory DirectoryConfig `toml:"directory"`

	// Audit trail configuration
	Audit AuditConfig `toml:"audit"`
}

// APIConfig contains the backing store endpoint configuration.
type APIConfig struct {
	// BaseURL is the functions endpoint serving the admin API
	BaseURL string `toml:"base_url"`
	// AuthURL is the auth endpoint; defaults to BaseURL when empty
	AuthURL string `toml:"auth_url"`
	// PublishableKey is the per-project public API key
	PublishableKey string `toml:"publishable_key"`
	// TimeoutSecs is the per-request HTTP timeout in seconds
	TimeoutSecs int `toml:"timeout_secs"`
	// MaxRetries is the retry budget for idempotent reads
	MaxRetries int `toml:"max_retries"`
}

// DirectoryConfig contains user-directory behavior settings.
type DirectoryConfig struct {
	// PageSize is the number of records per directory page
	PageSize int `toml:"page_size"`
	// PlaceholderDomain is the domain used when creating accounts
	// without an email address
	PlaceholderDomain string `toml:"placeholder_domain"`
}

// AuditConfig contains local audit trail settings.
type AuditConfig struct {
	// Enabled controls whether committed mutations are recorded locally
	Enabled bool `toml:"enabled"`
	// Path is the audit database location (empty = ~/.keydeck/audit.db)
	Path string `toml:"path"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:     "",
			TimeoutSecs: 30,
			MaxRetries:  3,
		},
		Directory: DirectoryConfig{
			PageSize:          10,
			PlaceholderDomain: "keydeck.local",
		},
		Audit: AuditConfig{
			Enabled: true,
		},
	}
}

// Timeout returns the API timeout as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.API.TimeoutSecs) * time.Second
}

// AuthBaseURL returns the auth endpoint, falling back to the API base.
func (c *Config) AuthBaseURL() string {
	if c.API.AuthURL != "" {
		return c.API.AuthURL
	}
	return c.API.BaseURL
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the keydeck configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".keydeck"), nil
}

// ConfigPath returns the path to the TOML config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// AuditPath resolves the audit database path for this config.
func (c *Config) AuditPath() (string, error) {
	if c.Audit.Path != "" {
		return c.Audit.Path, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "audit.db"), nil
}

// ensureSecurePermissions fixes permissions on the config file.
// The file carries an API key, so it should be owner-only.
func ensureSecurePermissions(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if mode := info.Mode().Perm(); mode != 0600 {
		if err := os.Chmod(path, 0600); err != nil {
			return fmt.Errorf("failed to fix insecure permissions (was %o): %w", mode, err)
		}
	}
	return nil
}

// =============================================================================
// LOAD
// =============================================================================

// Load loads configuration from the default config file, falling back
// to built-in defaults. Environment overrides are applied last.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom loads configuration from a specific TOML file path. A
// missing file is not an error; defaults are used instead.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if _, statErr := os.Stat(path); statErr == nil {
		if err := ensureSecurePermissions(path); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
		}
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// ApplyEnvOverrides applies KEYDECK_* environment variables on top of
// whatever the file provided.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("KEYDECK_API_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv("KEYDECK_AUTH_URL"); v != "" {
		c.API.AuthURL = v
	}
	if v := os.Getenv("KEYDECK_API_KEY"); v != "" {
		c.API.PublishableKey = v
	}
	if v := os.Getenv("KEYDECK_TIMEOUT_SECS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.API.TimeoutSecs = n
		}
	}
	if v := os.Getenv("KEYDECK_PAGE_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Directory.PageSize = n
		}
	}
	if v := os.Getenv("KEYDECK_AUDIT"); v != "" {
		c.Audit.Enabled = v == "1" || strings.ToLower(v) == "true"
	}
	if v := os.Getenv("KEYDECK_AUDIT_PATH"); v != "" {
		c.Audit.Path = v
	}
	if v := os.Getenv("KEYDECK_PLACEHOLDER_DOMAIN"); v != "" {
		c.Directory.PlaceholderDomain = v
	}
}

// SetDefaults fills in zero values left by a sparse config file.
func (c *Config) SetDefaults() {
	if c.API.TimeoutSecs <= 0 {
		c.API.TimeoutSecs = 30
	}
	if c.API.MaxRetries <= 0 {
		c.API.MaxRetries = 3
	}
	if c.Directory.PageSize <= 0 {
		c.Directory.PageSize = 10
	}
	if c.Directory.PlaceholderDomain == "" {
		c.Directory.PlaceholderDomain = "keydeck.local"
	}
}

// Validate checks the configuration for values that cannot work.
func (c *Config) Validate() error {
	if c.API.BaseURL != "" {
		if _, err := url.ParseRequestURI(c.API.BaseURL); err != nil {
			return fmt.Errorf("api.base_url is not a valid URL: %w", err)
		}
	}
	if c.API.AuthURL != "" {
		if _, err := url.ParseRequestURI(c.API.AuthURL); err != nil {
			return fmt.Errorf("api.auth_url is not a valid URL: %w", err)
		}
	}
	if c.Directory.PageSize > 100 {
		return fmt.Errorf("directory.page_size %d exceeds the server maximum of 100", c.Directory.PageSize)
	}
	return nil
}
