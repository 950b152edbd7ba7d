// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the keydeck TUI.
package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds all the styled components for the application.
// It detects the terminal's color capability and adjusts accordingly.
type Theme struct {
	// Terminal capabilities
	IsDark       bool
	HasTrueColor bool
	ColorProfile termenv.Profile

	// ==========================================================================
	// APPLICATION CONTAINER STYLES
	// ==========================================================================

	App       lipgloss.Style
	Container lipgloss.Style

	// ==========================================================================
	// HEADER / TAB STYLES
	// ==========================================================================

	Header      lipgloss.Style
	HeaderTitle lipgloss.Style
	TabActive   lipgloss.Style
	TabInactive lipgloss.Style

	// ==========================================================================
	// LOGIN FORM STYLES
	// ==========================================================================

	LoginBox       lipgloss.Style
	LoginLabel     lipgloss.Style
	LoginError     lipgloss.Style
	InputFocused   lipgloss.Style
	InputBlurred   lipgloss.Style
	CheckboxOn     lipgloss.Style
	CheckboxOff    lipgloss.Style

	// ==========================================================================
	// TABLE STYLES
	// ==========================================================================

	TableHeader      lipgloss.Style
	TableRow         lipgloss.Style
	TableRowSelected lipgloss.Style
	TableRowCursor   lipgloss.Style
	TableRowBanned   lipgloss.Style
	PageIndicator    lipgloss.Style

	// ==========================================================================
	// OTP CARD STYLES
	// ==========================================================================

	OTPCard       lipgloss.Style
	OTPCardCursor lipgloss.Style
	OTPLabel      lipgloss.Style
	OTPCode       lipgloss.Style
	OTPCodeUrgent lipgloss.Style
	OTPCountdown  lipgloss.Style
	OTPCopied     lipgloss.Style
	OTPError      lipgloss.Style

	// ==========================================================================
	// DIALOG STYLES
	// ==========================================================================

	DialogBox            lipgloss.Style
	DialogBoxDestructive lipgloss.Style
	DialogTitle          lipgloss.Style
	DialogBody           lipgloss.Style
	DialogCountdown      lipgloss.Style
	DialogError          lipgloss.Style
	ButtonActive         lipgloss.Style
	ButtonInactive       lipgloss.Style
	ButtonDanger         lipgloss.Style

	// ==========================================================================
	// STATUS BAR STYLES
	// ==========================================================================

	StatusBar    lipgloss.Style
	ShortcutKey  lipgloss.Style
	ShortcutDesc lipgloss.Style
	Spinner      lipgloss.Style
}

// NewTheme creates a new theme with all styles configured.
func NewTheme() *Theme {
	colorProfile := termenv.ColorProfile()

	t := &Theme{
		IsDark:       termenv.HasDarkBackground(),
		HasTrueColor: colorProfile == termenv.TrueColor,
		ColorProfile: colorProfile,
	}

	t.initStyles()
	return t
}

// initStyles initializes all the lip gloss styles.
func (t *Theme) initStyles() {
	t.App = lipgloss.NewStyle()
	t.Container = lipgloss.NewStyle().Padding(0, 1)

	// Header and tabs
	t.Header = lipgloss.NewStyle().
		Bold(true).
		Foreground(Cyan).
		Background(SurfaceDim).
		Padding(0, 2)

	t.HeaderTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Purple)

	t.TabActive = lipgloss.NewStyle().
		Bold(true).
		Foreground(Cyan).
		Underline(true).
		Padding(0, 1)

	t.TabInactive = lipgloss.NewStyle().
		Foreground(TextMuted).
		Padding(0, 1)

	// Login form
	t.LoginBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Purple).
		Padding(1, 3)

	t.LoginLabel = lipgloss.NewStyle().
		Foreground(TextSecondary)

	t.LoginError = lipgloss.NewStyle().
		Foreground(Rose).
		Bold(true)

	t.InputFocused = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(Cyan).
		Padding(0, 1)

	t.InputBlurred = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.CheckboxOn = lipgloss.NewStyle().
		Foreground(Emerald).
		Bold(true)

	t.CheckboxOff = lipgloss.NewStyle().
		Foreground(TextMuted)

	// Table
	t.TableHeader = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextSecondary).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(Overlay)

	t.TableRow = lipgloss.NewStyle().
		Foreground(TextPrimary)

	t.TableRowSelected = lipgloss.NewStyle().
		Background(SelectionBg).
		Foreground(TextPrimary)

	t.TableRowCursor = lipgloss.NewStyle().
		Background(Purple).
		Foreground(TextInverse).
		Bold(true)

	t.TableRowBanned = lipgloss.NewStyle().
		Foreground(Rose).
		Strikethrough(true)

	t.PageIndicator = lipgloss.NewStyle().
		Foreground(TextMuted)

	// OTP cards
	t.OTPCard = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(0, 2)

	t.OTPCardCursor = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Cyan).
		Padding(0, 2)

	t.OTPLabel = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextPrimary)

	t.OTPCode = lipgloss.NewStyle().
		Bold(true).
		Foreground(Emerald)

	t.OTPCodeUrgent = lipgloss.NewStyle().
		Bold(true).
		Foreground(Amber)

	t.OTPCountdown = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.OTPCopied = lipgloss.NewStyle().
		Foreground(Cyan).
		Italic(true)

	t.OTPError = lipgloss.NewStyle().
		Foreground(Rose)

	// Dialogs
	t.DialogBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Purple).
		Background(Surface).
		Padding(1, 3)

	t.DialogBoxDestructive = lipgloss.NewStyle().
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(RoseDeep).
		Background(Surface).
		Padding(1, 3)

	t.DialogTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextPrimary)

	t.DialogBody = lipgloss.NewStyle().
		Foreground(TextSecondary)

	t.DialogCountdown = lipgloss.NewStyle().
		Bold(true).
		Foreground(Amber)

	t.DialogError = lipgloss.NewStyle().
		Foreground(Rose).
		Bold(true)

	t.ButtonActive = lipgloss.NewStyle().
		Background(Purple).
		Foreground(TextInverse).
		Bold(true).
		Padding(0, 2)

	t.ButtonInactive = lipgloss.NewStyle().
		Background(Overlay).
		Foreground(TextSecondary).
		Padding(0, 2)

	t.ButtonDanger = lipgloss.NewStyle().
		Background(Rose).
		Foreground(TextInverse).
		Bold(true).
		Padding(0, 2)

	// Status bar
	t.StatusBar = lipgloss.NewStyle().
		Background(SurfaceDim).
		Foreground(TextSecondary).
		Padding(0, 1)

	t.ShortcutKey = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)

	t.ShortcutDesc = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.Spinner = lipgloss.NewStyle().
		Foreground(Purple)
}
