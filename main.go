// keydeck - terminal admin console for a multi-tenant credential store.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"fmt"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/keydeck-tui/internal/api"
	"github.com/jeranaias/keydeck-tui/internal/audit"
	"github.com/jeranaias/keydeck-tui/internal/cli"
	"github.com/jeranaias/keydeck-tui/internal/config"
	"github.com/jeranaias/keydeck-tui/internal/directory"
	"github.com/jeranaias/keydeck-tui/internal/secrets"
	"github.com/jeranaias/keydeck-tui/internal/session"
	"github.com/jeranaias/keydeck-tui/internal/ui/admin"
	"github.com/jeranaias/keydeck-tui/internal/ui/styles"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
)

func init() {
	cli.Version = Version
	cli.GitCommit = GitCommit
}

func main() {
	cmd, args := cli.Parse()

	switch cmd {
	case cli.CmdVersion:
		cli.HandleVersion()
	case cli.CmdHelp:
		cli.HandleHelp()
	case cli.CmdLogin:
		cfg := mustLoadConfig()
		if err := cli.HandleLogin(cfg, args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	default:
		runTUI()
	}
}

// mustLoadConfig loads configuration or exits with a usable message.
func mustLoadConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if cfg.API.BaseURL == "" || cfg.API.PublishableKey == "" {
		fmt.Fprintln(os.Stderr, "Error: api.base_url and api.publishable_key must be set")
		fmt.Fprintln(os.Stderr, "       (~/.keydeck/config.toml, or KEYDECK_API_URL / KEYDECK_API_KEY)")
		os.Exit(1)
	}
	return cfg
}

// runTUI wires the clients together and hands control to Bubble Tea.
func runTUI() {
	cfg := mustLoadConfig()

	tokens := &session.TokenHolder{}

	storeAPI := api.NewClient(cfg.API.BaseURL, cfg.API.PublishableKey, tokens.Get).
		WithMaxRetries(cfg.API.MaxRetries).
		WithTimeout(cfg.Timeout())
	authAPI := api.NewClient(cfg.AuthBaseURL(), cfg.API.PublishableKey, tokens.Get).
		WithTimeout(cfg.Timeout())

	services := admin.Services{
		Auth:      session.NewClient(authAPI),
		Directory: directory.NewClient(storeAPI, cfg.Directory.PlaceholderDomain),
		Secrets:   secrets.NewClient(storeAPI),
		Tokens:    tokens,
	}

	if cfg.Audit.Enabled {
		path, err := cfg.AuditPath()
		if err == nil {
			store, openErr := audit.Open(path)
			if openErr != nil {
				// The trail is advisory; the console runs without it.
				log.Printf("audit trail disabled: %v", openErr)
			} else {
				services.Audit = store
				defer store.Close()
			}
		}
	}

	var remembered *session.RememberedEmailStore
	if dir, err := config.ConfigDir(); err == nil {
		remembered = session.NewRememberedEmailStore(dir)
	}

	m := admin.New(services, styles.NewTheme(), remembered, cfg.Directory.PageSize)

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
