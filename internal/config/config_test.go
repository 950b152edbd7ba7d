// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	cfg := Default()

	if cfg.API.TimeoutSecs != 30 {
		t.Errorf("TimeoutSecs = %d, want 30", cfg.API.TimeoutSecs)
	}
	if cfg.Directory.PageSize != 10 {
		t.Errorf("PageSize = %d, want 10", cfg.Directory.PageSize)
	}
	if !cfg.Audit.Enabled {
		t.Error("audit should be enabled by default")
	}
	if cfg.Timeout() != 30*time.Second {
		t.Errorf("Timeout() = %v, want 30s", cfg.Timeout())
	}
}

func TestLoadFromMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if cfg.Directory.PlaceholderDomain != "keydeck.local" {
		t.Errorf("PlaceholderDomain = %q", cfg.Directory.PlaceholderDomain)
	}
}

func TestLoadFromTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[api]
base_url = "https://store.example.com/functions/v1"
publishable_key = "pk-123"
timeout_secs = 10

[directory]
page_size = 25
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if cfg.API.BaseURL != "https://store.example.com/functions/v1" {
		t.Errorf("BaseURL = %q", cfg.API.BaseURL)
	}
	if cfg.API.PublishableKey != "pk-123" {
		t.Errorf("PublishableKey = %q", cfg.API.PublishableKey)
	}
	if cfg.API.TimeoutSecs != 10 {
		t.Errorf("TimeoutSecs = %d, want 10", cfg.API.TimeoutSecs)
	}
	if cfg.Directory.PageSize != 25 {
		t.Errorf("PageSize = %d, want 25", cfg.Directory.PageSize)
	}
	// Unset sections keep their defaults.
	if !cfg.Audit.Enabled {
		t.Error("audit default lost when file omits the section")
	}
}

func TestLoadFixesInsecurePermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[api]\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadFrom(path); err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("permissions = %o, want 0600", info.Mode().Perm())
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("KEYDECK_API_URL", "https://override.example.com")
	t.Setenv("KEYDECK_API_KEY", "pk-env")
	t.Setenv("KEYDECK_PAGE_SIZE", "50")
	t.Setenv("KEYDECK_AUDIT", "false")

	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if cfg.API.BaseURL != "https://override.example.com" {
		t.Errorf("BaseURL = %q", cfg.API.BaseURL)
	}
	if cfg.API.PublishableKey != "pk-env" {
		t.Errorf("PublishableKey = %q", cfg.API.PublishableKey)
	}
	if cfg.Directory.PageSize != 50 {
		t.Errorf("PageSize = %d, want 50", cfg.Directory.PageSize)
	}
	if cfg.Audit.Enabled {
		t.Error("KEYDECK_AUDIT=false should disable the audit trail")
	}
}

func TestValidateRejectsBadURL(t *testing.T) {
	cfg := Default()
	cfg.API.BaseURL = "not a url"
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() accepted a malformed base URL")
	}
}

func TestValidateRejectsOversizePage(t *testing.T) {
	cfg := Default()
	cfg.Directory.PageSize = 500
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() accepted page_size 500")
	}
}

func TestAuthBaseURLFallback(t *testing.T) {
	cfg := Default()
	cfg.API.BaseURL = "https://api.example.com"
	if got := cfg.AuthBaseURL(); got != "https://api.example.com" {
		t.Errorf("AuthBaseURL() = %q, want API base", got)
	}
	cfg.API.AuthURL = "https://auth.example.com"
	if got := cfg.AuthBaseURL(); got != "https://auth.example.com" {
		t.Errorf("AuthBaseURL() = %q, want auth URL", got)
	}
}

func TestAuditPathOverride(t *testing.T) {
	cfg := Default()
	cfg.Audit.Path = "/tmp/custom-audit.db"
	got, err := cfg.AuditPath()
	if err != nil {
		t.Fatalf("AuditPath() error = %v", err)
	}
	if got != "/tmp/custom-audit.db" {
		t.Errorf("AuditPath() = %q", got)
	}
}
