// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli handles command-line parsing and the non-TUI entry
// points: credential checks and version output.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/jeranaias/keydeck-tui/internal/api"
	"github.com/jeranaias/keydeck-tui/internal/config"
	"github.com/jeranaias/keydeck-tui/internal/session"
)

// Version information (set at build time)
var (
	Version   = "dev"
	GitCommit = "unknown"
)

// =============================================================================
// COMMAND PARSING
// =============================================================================

// Command is a parsed top-level subcommand.
type Command int

const (
	CmdTUI Command = iota
	CmdLogin
	CmdVersion
	CmdHelp
)

// Parse reads os.Args into a command and its trailing arguments.
func Parse() (Command, []string) {
	if len(os.Args) < 2 {
		return CmdTUI, nil
	}
	switch os.Args[1] {
	case "login":
		return CmdLogin, os.Args[2:]
	case "version", "--version", "-v":
		return CmdVersion, nil
	case "help", "--help", "-h":
		return CmdHelp, nil
	default:
		return CmdTUI, os.Args[1:]
	}
}

// =============================================================================
// TERMINAL HELPERS
// =============================================================================

// IsTTY returns true if stdin is a terminal.
func IsTTY() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// =============================================================================
// LOGIN COMMAND
// =============================================================================

// HandleLogin verifies credentials from the terminal without starting
// the TUI, and remembers the email on success. Useful for checking a
// config before handing the console to an operator.
func HandleLogin(cfg *config.Config, args []string) error {
	if !IsTTY() {
		return fmt.Errorf("login requires an interactive terminal")
	}

	var email string
	if len(args) > 0 {
		email = args[0]
	} else {
		fmt.Print("email: ")
		reader := bufio.NewReader(os.Stdin)
		line, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read email: %w", err)
		}
		email = strings.TrimSpace(line)
	}
	if email == "" {
		return fmt.Errorf("email is required")
	}

	fmt.Print("password: ")
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}

	client := session.NewClient(api.NewClient(cfg.AuthBaseURL(), cfg.API.PublishableKey, func() string { return "" }).
		WithTimeout(cfg.Timeout()))

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout())
	defer cancel()
	sess, err := client.SignIn(ctx, email, string(raw))
	if err != nil {
		return err
	}

	if dir, dirErr := config.ConfigDir(); dirErr == nil {
		_ = session.NewRememberedEmailStore(dir).Save(email)
	}

	fmt.Printf("signed in as %s\n", sess.Email)
	return nil
}

// =============================================================================
// VERSION / HELP
// =============================================================================

// HandleVersion prints version information.
func HandleVersion() {
	fmt.Printf("keydeck %s (%s)\n", Version, GitCommit)
}

// HandleHelp prints usage.
func HandleHelp() {
	fmt.Println(`keydeck - admin console for the credential store

usage:
  keydeck            start the admin console
  keydeck login      verify credentials without starting the console
  keydeck version    print version information

configuration:
  ~/.keydeck/config.toml, overridable with KEYDECK_* environment
  variables (KEYDECK_API_URL, KEYDECK_API_KEY, ...)`)
}
