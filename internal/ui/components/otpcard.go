// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides UI components for the keydeck TUI.
package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/keydeck-tui/internal/totp"
	"github.com/jeranaias/keydeck-tui/internal/ui/styles"
	"github.com/jeranaias/keydeck-tui/internal/util"
)

// =============================================================================
// OTP CARD
// =============================================================================

// cardLabelWidth caps the provider label so long names cannot push the
// code off the card.
const cardLabelWidth = 28

// OTPCard renders one credential ticker as a bordered card: label,
// current code, countdown bar, and the transient copied indicator.
type OTPCard struct {
	theme *styles.Theme
}

// NewOTPCard creates an OTP card renderer.
func NewOTPCard(theme *styles.Theme) OTPCard {
	return OTPCard{theme: theme}
}

// Render renders the card for a ticker. The focused card gets the
// highlighted border.
func (c OTPCard) Render(ticker totp.Ticker, focused bool) string {
	var content strings.Builder

	label := util.TruncateWidth(ticker.Credential().Label, cardLabelWidth)
	content.WriteString(c.theme.OTPLabel.Render(label))
	content.WriteString("\n")

	if err := ticker.Err(); err != nil {
		content.WriteString(c.theme.OTPError.Render("invalid secret"))
	} else {
		code := ticker.Code()

		codeStyle := c.theme.OTPCode
		if ticker.Urgent() {
			codeStyle = c.theme.OTPCodeUrgent
		}
		content.WriteString(codeStyle.Render(code.Formatted()))

		if ticker.Copied() {
			content.WriteString(" ")
			content.WriteString(c.theme.OTPCopied.Render("copied"))
		}

		content.WriteString("\n")
		content.WriteString(c.renderCountdown(code.SecondsRemaining, ticker.Urgent()))
	}

	box := c.theme.OTPCard
	if focused {
		box = c.theme.OTPCardCursor
	}
	return box.Render(content.String())
}

// renderCountdown draws the remaining-seconds bar, one cell per second
// of the window.
func (c OTPCard) renderCountdown(remaining int, urgent bool) string {
	if remaining < 0 {
		remaining = 0
	}
	if remaining > totp.Period {
		remaining = totp.Period
	}

	bar := strings.Repeat("=", remaining) + strings.Repeat(" ", totp.Period-remaining)

	barColor := styles.Emerald
	if urgent {
		barColor = styles.Amber
	}
	rendered := lipgloss.NewStyle().Foreground(barColor).Render("[" + bar + "]")

	counter := c.theme.OTPCountdown.Render(util.PadWidth(formatSeconds(remaining), 3))
	return rendered + " " + counter
}

// formatSeconds renders a small positive count without fmt.
func formatSeconds(n int) string {
	if n >= 10 {
		return string([]byte{byte('0' + n/10), byte('0' + n%10), 's'})
	}
	return string([]byte{byte('0' + n), 's'})
}
