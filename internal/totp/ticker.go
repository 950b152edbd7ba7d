// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package totp derives time-based one-time passwords from shared base32
// secrets and keeps displayed codes synchronized to the wall clock.
package totp

import (
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/jeranaias/keydeck-tui/internal/model"
)

// copiedIndicatorDuration is how long the transient "copied" indicator
// stays up after a successful clipboard write.
const copiedIndicatorDuration = 2 * time.Second

// =============================================================================
// MESSAGES
// =============================================================================

// TickMsg signals one wall-clock second for a single ticker instance.
// Instance identifies which Ticker the tick belongs to: tickers for
// different credentials are not coordinated, and a replaced ticker's
// in-flight ticks must not drive its successor.
type TickMsg struct {
	Instance string
	Time     time.Time
}

// CopiedMsg signals the credential's current code was written to the
// system clipboard.
type CopiedMsg struct {
	Instance string
}

// copyResetMsg reverts the transient "copied" indicator. It is a one-shot
// delayed reset independent of the ticker cadence.
type copyResetMsg struct {
	Instance string
}

// =============================================================================
// TICKER
// =============================================================================

// Ticker drives code derivation for one credential on a one-second
// cadence. Each ticker owns its own timer; a credential whose secret
// changes identity gets a brand-new Ticker rather than a mutation in
// place, so a stale secret can never leak a code.
type Ticker struct {
	// instance uniquely identifies this ticker lifetime. Messages
	// carrying another instance id are dropped.
	instance string

	credential model.Credential

	code   Code
	err    error
	copied bool
}

// NewTicker creates a ticker for a credential and derives its first code
// immediately, so a card rendered mid-window shows the true remaining
// seconds rather than a fresh 30.
func NewTicker(credential model.Credential) Ticker {
	t := Ticker{
		instance:   uuid.NewString(),
		credential: credential,
	}
	t.code, t.err = Generate(credential.Secret, time.Now())
	return t
}

// Init arms the ticker's timer.
func (t Ticker) Init() tea.Cmd {
	return t.tick()
}

// tick schedules the next TickMsg aligned to the next wall-clock second
// boundary, not a fixed interval from now. Alignment keeps every
// independently created ticker in visual lockstep.
func (t Ticker) tick() tea.Cmd {
	instance := t.instance
	now := time.Now()
	next := now.Truncate(time.Second).Add(time.Second)
	return tea.Tick(next.Sub(now), func(at time.Time) tea.Msg {
		return TickMsg{Instance: instance, Time: at}
	})
}

// Update handles ticker messages. Messages for other instances are
// returned untouched with no command.
func (t Ticker) Update(msg tea.Msg) (Ticker, tea.Cmd) {
	switch msg := msg.(type) {
	case TickMsg:
		if msg.Instance != t.instance {
			return t, nil
		}
		t.code, t.err = Generate(t.credential.Secret, msg.Time)
		return t, t.tick()

	case CopiedMsg:
		if msg.Instance != t.instance {
			return t, nil
		}
		t.copied = true
		instance := t.instance
		return t, tea.Tick(copiedIndicatorDuration, func(time.Time) tea.Msg {
			return copyResetMsg{Instance: instance}
		})

	case copyResetMsg:
		if msg.Instance != t.instance {
			return t, nil
		}
		t.copied = false
		return t, nil
	}

	return t, nil
}

// CopyCmd writes the current code to the system clipboard. The write is
// fire-and-forget: a failed clipboard is not an application error, the
// indicator simply never flips.
func (t Ticker) CopyCmd() tea.Cmd {
	if t.err != nil {
		return nil
	}
	instance := t.instance
	digits := t.code.Digits
	return func() tea.Msg {
		if err := clipboard.WriteAll(digits); err != nil {
			return nil
		}
		return CopiedMsg{Instance: instance}
	}
}

// =============================================================================
// ACCESSORS
// =============================================================================

// Instance returns the ticker's instance id, the key that routes tick
// and copy messages to it.
func (t Ticker) Instance() string { return t.instance }

// Credential returns the credential this ticker displays.
func (t Ticker) Credential() model.Credential { return t.credential }

// Code returns the most recently derived code.
func (t Ticker) Code() Code { return t.code }

// Err returns the derivation error, if the secret is invalid.
func (t Ticker) Err() error { return t.err }

// Copied reports whether the transient "copied" indicator is up.
func (t Ticker) Copied() bool { return t.copied }

// Urgent reports whether the code is about to rotate. Presentation only:
// the card switches its progress bar color on this flag.
func (t Ticker) Urgent() bool {
	return t.err == nil && t.code.SecondsRemaining <= UrgentThreshold
}

// Matches reports whether the ticker still displays the given credential
// with the same secret identity. The admin view replaces non-matching
// tickers wholesale.
func (t Ticker) Matches(credential model.Credential) bool {
	return t.credential.ID == credential.ID && t.credential.Secret == credential.Secret
}
