// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package admin implements the keydeck admin console.
package admin

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/keydeck-tui/internal/model"
	"github.com/jeranaias/keydeck-tui/internal/totp"
	"github.com/jeranaias/keydeck-tui/internal/ui/components"
	"github.com/jeranaias/keydeck-tui/internal/ui/styles"
)

// =============================================================================
// TOKENS VIEW
// =============================================================================

// tokensView is the shared credential tab: one ticker per credential,
// each deriving and rotating its code independently.
type tokensView struct {
	theme *styles.Theme
	card  components.OTPCard

	tickers []totp.Ticker
	cursor  int

	reqToken  uint64
	loading   bool
	loadError string
	loaded    bool
}

// newTokensView builds an empty credential board.
func newTokensView(theme *styles.Theme) *tokensView {
	return &tokensView{
		theme: theme,
		card:  components.NewOTPCard(theme),
	}
}

// refresh issues a credential list fetch under a fresh token.
func (v *tokensView) refresh(services Services) tea.Cmd {
	v.reqToken++
	v.loading = true
	v.loadError = ""
	return services.loadCredentials(v.reqToken)
}

// reset drops the board when the session ends. Tickers are discarded
// outright: codes must not keep rotating on a logged-out screen.
func (v *tokensView) reset() {
	v.reqToken++
	v.loading = false
	v.loaded = false
	v.loadError = ""
	v.tickers = nil
	v.cursor = 0
}

// handleLoaded reconciles tickers with a fetched credential list.
// Tickers whose credential survived with the same secret keep running,
// preserving their display state; everything else is replaced with a
// fresh ticker so a stale secret can never keep producing codes.
func (v *tokensView) handleLoaded(msg credsLoadedMsg) tea.Cmd {
	if msg.token != v.reqToken {
		return nil
	}
	v.loading = false
	v.loaded = true

	next := make([]totp.Ticker, 0, len(msg.creds))
	var cmds []tea.Cmd
	for _, cred := range msg.creds {
		if existing, ok := v.find(cred); ok {
			next = append(next, existing)
			continue
		}
		ticker := totp.NewTicker(cred)
		cmds = append(cmds, ticker.Init())
		next = append(next, ticker)
	}
	v.tickers = next

	if v.cursor >= len(v.tickers) {
		v.cursor = len(v.tickers) - 1
	}
	if v.cursor < 0 {
		v.cursor = 0
	}
	return tea.Batch(cmds...)
}

// find locates the live ticker still matching a credential.
func (v *tokensView) find(cred model.Credential) (totp.Ticker, bool) {
	for _, t := range v.tickers {
		if t.Matches(cred) {
			return t, true
		}
	}
	return totp.Ticker{}, false
}

// handleLoadFailed records a failed fetch if it is still the newest.
func (v *tokensView) handleLoadFailed(msg credsLoadFailedMsg) {
	if msg.token != v.reqToken {
		return
	}
	v.loading = false
	v.loadError = msg.err.Error()
}

// forward relays ticker-driven messages to every ticker. Each ticker
// drops messages that are not its own.
func (v *tokensView) forward(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	for i := range v.tickers {
		var cmd tea.Cmd
		v.tickers[i], cmd = v.tickers[i].Update(msg)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return tea.Batch(cmds...)
}

// current returns the focused ticker's credential, or nil when empty.
func (v *tokensView) current() *model.Credential {
	if len(v.tickers) == 0 {
		return nil
	}
	cred := v.tickers[v.cursor].Credential()
	return &cred
}

// Update handles credential board keys. A returned action asks the
// root model to open a dialog or form.
func (v *tokensView) Update(msg tea.Msg, services Services) (tea.Cmd, model.PendingAction) {
	none := model.PendingAction{}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return v.forward(msg), none
	}

	switch keyMsg.String() {
	case "up", "k":
		if v.cursor > 0 {
			v.cursor--
		}
	case "down", "j":
		if v.cursor < len(v.tickers)-1 {
			v.cursor++
		}
	case "r":
		return v.refresh(services), none
	case "c", "enter":
		if len(v.tickers) > 0 {
			return v.tickers[v.cursor].CopyCmd(), none
		}
	case "n":
		return nil, model.PendingAction{Kind: model.ActionCreateCredential}
	case "d":
		if cred := v.current(); cred != nil {
			return nil, model.PendingAction{Kind: model.ActionDeleteCredential, Credential: cred}
		}
	}

	return nil, none
}

// View renders the credential board.
func (v *tokensView) View() string {
	switch {
	case v.loading && !v.loaded:
		return v.theme.ShortcutDesc.Render("loading credentials...")
	case v.loadError != "":
		return styles.RenderError(v.loadError)
	case len(v.tickers) == 0:
		return v.theme.ShortcutDesc.Render("no shared credentials; press n to add one")
	}

	cards := make([]string, 0, len(v.tickers))
	for i, t := range v.tickers {
		cards = append(cards, v.card.Render(t, i == v.cursor))
	}

	var rows []string
	for i := 0; i < len(cards); i += 2 {
		if i+1 < len(cards) {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards[i], " ", cards[i+1]))
		} else {
			rows = append(rows, cards[i])
		}
	}
	return strings.Join(rows, "\n")
}

// shortcuts returns the status bar hints for this tab.
func (v *tokensView) shortcuts() []components.Shortcut {
	return []components.Shortcut{
		{Key: "c", Desc: "copy"},
		{Key: "n", Desc: "new"},
		{Key: "d", Desc: "delete"},
		{Key: "r", Desc: "refresh"},
		{Key: "j/k", Desc: "move"},
		{Key: "ctrl+l", Desc: "sign out"},
	}
}
