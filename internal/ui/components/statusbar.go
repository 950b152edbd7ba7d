// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides UI components for the keydeck TUI.
package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/keydeck-tui/internal/ui/styles"
)

// =============================================================================
// STATUS BAR
// =============================================================================

// Shortcut is one key hint shown in the status bar.
type Shortcut struct {
	Key  string
	Desc string
}

// StatusBar renders the bottom hint line: transient status text on the
// left, key hints on the right.
type StatusBar struct {
	theme *styles.Theme

	status  string
	isError bool
	width   int
}

// NewStatusBar creates an empty status bar.
func NewStatusBar(theme *styles.Theme) *StatusBar {
	return &StatusBar{theme: theme}
}

// SetStatus sets the transient status message.
func (s *StatusBar) SetStatus(msg string) {
	s.status = msg
	s.isError = false
}

// SetError sets an error status message.
func (s *StatusBar) SetError(msg string) {
	s.status = msg
	s.isError = true
}

// Clear removes the status message.
func (s *StatusBar) Clear() {
	s.status = ""
	s.isError = false
}

// SetWidth updates the render width.
func (s *StatusBar) SetWidth(width int) {
	s.width = width
}

// View renders the bar with the given shortcuts.
func (s *StatusBar) View(shortcuts []Shortcut) string {
	var hints []string
	for _, sc := range shortcuts {
		hints = append(hints, s.theme.ShortcutKey.Render(sc.Key)+" "+s.theme.ShortcutDesc.Render(sc.Desc))
	}
	right := strings.Join(hints, "  ")

	left := s.status
	if s.isError && left != "" {
		left = styles.RenderError(left)
	}

	line := left
	if right != "" {
		// lipgloss.Width ignores the ANSI sequences styling added
		gap := s.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
		if gap < 2 {
			gap = 2
		}
		line = left + strings.Repeat(" ", gap) + right
	}

	return s.theme.StatusBar.Render(line)
}
