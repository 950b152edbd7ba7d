// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides UI components for the keydeck TUI.
package components

import (
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/keydeck-tui/internal/directory"
	"github.com/jeranaias/keydeck-tui/internal/model"
	"github.com/jeranaias/keydeck-tui/internal/selection"
	"github.com/jeranaias/keydeck-tui/internal/ui/styles"
	"github.com/jeranaias/keydeck-tui/internal/util"
)

// =============================================================================
// USER TABLE
// =============================================================================

// Column widths; the nickname column absorbs leftover space.
const (
	colCheckbox = 4
	colEmail    = 32
	colNickname = 18
	colStatus   = 10
	colLastSeen = 12
)

// UserTable renders one page of the account directory with selection
// checkboxes and a cursor row.
type UserTable struct {
	theme *styles.Theme

	rows   []model.AccountRecord
	window model.PageWindow
	cursor int
}

// NewUserTable creates an empty user table.
func NewUserTable(theme *styles.Theme) *UserTable {
	return &UserTable{theme: theme}
}

// SetPage replaces the visible rows. The cursor is clamped to the new
// page rather than reset, so paging feels continuous.
func (t *UserTable) SetPage(rows []model.AccountRecord, window model.PageWindow) {
	t.rows = rows
	t.window = window
	if t.cursor >= len(rows) {
		t.cursor = len(rows) - 1
	}
	if t.cursor < 0 {
		t.cursor = 0
	}
}

// Rows returns the visible rows.
func (t *UserTable) Rows() []model.AccountRecord {
	return t.rows
}

// Window returns the current page window.
func (t *UserTable) Window() model.PageWindow {
	return t.window
}

// Cursor returns the cursor index within the page.
func (t *UserTable) Cursor() int {
	return t.cursor
}

// Current returns the record under the cursor, or nil on an empty page.
func (t *UserTable) Current() *model.AccountRecord {
	if len(t.rows) == 0 {
		return nil
	}
	return &t.rows[t.cursor]
}

// PageIDs returns the ids of every visible row, in display order.
func (t *UserTable) PageIDs() []string {
	ids := make([]string, 0, len(t.rows))
	for _, r := range t.rows {
		ids = append(ids, r.ID)
	}
	return ids
}

// CursorUp moves the cursor up one row.
func (t *UserTable) CursorUp() {
	if t.cursor > 0 {
		t.cursor--
	}
}

// CursorDown moves the cursor down one row.
func (t *UserTable) CursorDown() {
	if t.cursor < len(t.rows)-1 {
		t.cursor++
	}
}

// =============================================================================
// VIEW RENDERING
// =============================================================================

// View renders the table with the given selection. The selection is
// owned by the caller; the table only reads it.
func (t *UserTable) View(sel *selection.Set, now time.Time) string {
	var b strings.Builder

	header := t.renderRow(" ", "EMAIL", "NICKNAME", "STATUS", "LAST SEEN")
	b.WriteString(t.theme.TableHeader.Render(header))
	b.WriteString("\n")

	if len(t.rows) == 0 {
		b.WriteString(t.theme.ShortcutDesc.Render("  no accounts on this page"))
		b.WriteString("\n")
	}

	for i, row := range t.rows {
		checkbox := "[ ]"
		if sel != nil && sel.Contains(row.ID) {
			checkbox = "[x]"
		}

		line := t.renderRow(
			checkbox,
			row.Email,
			row.Nickname,
			t.status(row, now),
			t.lastSeen(row, now),
		)

		style := t.theme.TableRow
		switch {
		case i == t.cursor:
			style = t.theme.TableRowCursor
		case sel != nil && sel.Contains(row.ID):
			style = t.theme.TableRowSelected
		case directory.IsBanned(row.BannedUntil, now):
			style = t.theme.TableRowBanned
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}

	b.WriteString(t.renderFooter(sel))
	return b.String()
}

// renderRow lays one row out with fixed column widths.
func (t *UserTable) renderRow(checkbox, email, nickname, status, lastSeen string) string {
	var b strings.Builder
	b.WriteString(util.PadWidth(checkbox, colCheckbox))
	b.WriteString(util.PadWidth(util.TruncateWidth(email, colEmail-1), colEmail))
	b.WriteString(util.PadWidth(util.TruncateWidth(nickname, colNickname-1), colNickname))
	b.WriteString(util.PadWidth(status, colStatus))
	b.WriteString(util.PadWidth(lastSeen, colLastSeen))
	return b.String()
}

// status derives the display status for a record.
func (t *UserTable) status(row model.AccountRecord, now time.Time) string {
	switch {
	case directory.IsBanned(row.BannedUntil, now):
		return "banned"
	case row.Expired(now):
		return "expired"
	default:
		return "active"
	}
}

// lastSeen formats the last sign-in as a coarse relative time.
func (t *UserTable) lastSeen(row model.AccountRecord, now time.Time) string {
	if row.LastSignInAt == nil {
		return "never"
	}
	d := now.Sub(*row.LastSignInAt)
	switch {
	case d < time.Hour:
		return strconv.Itoa(int(d.Minutes())) + "m ago"
	case d < 24*time.Hour:
		return strconv.Itoa(int(d.Hours())) + "h ago"
	default:
		return strconv.Itoa(int(d.Hours()/24)) + "d ago"
	}
}

// renderFooter shows the page window and selection count.
func (t *UserTable) renderFooter(sel *selection.Set) string {
	page := "page " + strconv.Itoa(t.window.Page) + "/" + strconv.Itoa(t.window.TotalPages()) +
		" (" + strconv.Itoa(t.window.Total) + " accounts)"

	parts := []string{t.theme.PageIndicator.Render(page)}
	if sel != nil && sel.Len() > 0 {
		parts = append(parts, t.theme.ShortcutKey.Render(strconv.Itoa(sel.Len())+" selected"))
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, strings.Join(parts, "  "))
}
