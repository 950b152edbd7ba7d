// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides UI components for the keydeck TUI.
package components

import (
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/keydeck-tui/internal/directory"
	"github.com/jeranaias/keydeck-tui/internal/model"
	"github.com/jeranaias/keydeck-tui/internal/safety"
	"github.com/jeranaias/keydeck-tui/internal/ui/styles"
)

// =============================================================================
// MESSAGES
// =============================================================================

// DialogConfirmedMsg is emitted when the operator commits the dialog.
// The owning view runs the mutation and reports back via Succeed/Fail.
type DialogConfirmedMsg struct {
	Action model.PendingAction
}

// DialogCancelledMsg is emitted when the dialog closes without commit.
type DialogCancelledMsg struct {
	Action model.PendingAction
}

// dialogTickMsg drives the armed countdown once per second.
type dialogTickMsg time.Time

// =============================================================================
// CONFIRM DIALOG
// =============================================================================

// Button options
const (
	buttonConfirm = 0
	buttonCancel  = 1
	buttonCount   = 2
)

// ConfirmDialog is the modal confirmation for pending admin actions.
// Destructive bulk actions arm a cooldown gate; the confirm button is
// inert until the countdown expires.
type ConfirmDialog struct {
	theme *styles.Theme
	gate  *safety.Gate

	action   model.PendingAction
	visible  bool
	selected int
	width    int
	height   int

	// now is overridable in tests
	now func() time.Time
}

// NewConfirmDialog creates a hidden confirmation dialog.
func NewConfirmDialog(theme *styles.Theme) *ConfirmDialog {
	return &ConfirmDialog{
		theme: theme,
		gate:  safety.New(),
		now:   time.Now,
	}
}

// Show opens the dialog for an action. Destructive actions start the
// cooldown; everything else may be committed immediately.
func (d *ConfirmDialog) Show(action model.PendingAction) tea.Cmd {
	d.action = action
	d.visible = true
	d.selected = buttonCancel // destructive default away from confirm

	if action.Kind.Destructive() {
		d.gate.Arm(d.now())
		return d.tick()
	}
	d.gate.Bypass()
	d.selected = buttonConfirm
	return nil
}

// Hide closes the dialog and resets the gate.
func (d *ConfirmDialog) Hide() {
	d.visible = false
	d.action = model.PendingAction{}
	d.gate = safety.New()
}

// IsVisible returns whether the dialog is open.
func (d *ConfirmDialog) IsVisible() bool {
	return d.visible
}

// Action returns the pending action behind the open dialog.
func (d *ConfirmDialog) Action() model.PendingAction {
	return d.action
}

// Busy reports whether a committed mutation is still in flight.
func (d *ConfirmDialog) Busy() bool {
	return d.gate.State() == safety.StateExecuting
}

// Succeed records a successful mutation and closes the dialog.
func (d *ConfirmDialog) Succeed() {
	if err := d.gate.Succeed(); err == nil {
		d.Hide()
	}
}

// Fail records a failed mutation. The dialog stays open showing the
// error, ready for an immediate retry without re-arming.
func (d *ConfirmDialog) Fail(err error) {
	d.gate.Fail(err)
	d.selected = buttonConfirm
}

// SetSize updates the dialog dimensions for centering.
func (d *ConfirmDialog) SetSize(width, height int) {
	d.width = width
	d.height = height
}

// tick schedules the next countdown update.
func (d *ConfirmDialog) tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return dialogTickMsg(t)
	})
}

// =============================================================================
// BUBBLE TEA METHODS
// =============================================================================

// Update handles messages for the dialog. The bool reports whether the
// message was consumed.
func (d *ConfirmDialog) Update(msg tea.Msg) (tea.Cmd, bool) {
	if !d.visible {
		return nil, false
	}

	switch msg := msg.(type) {
	case dialogTickMsg:
		d.gate.Tick(time.Time(msg))
		if d.gate.State() == safety.StateArmed {
			return d.tick(), true
		}
		return nil, true

	case tea.KeyMsg:
		if d.Busy() {
			// Everything except quit is swallowed while executing.
			return nil, true
		}

		switch msg.String() {
		case "left", "h", "shift+tab":
			d.selected = (d.selected - 1 + buttonCount) % buttonCount
			return nil, true

		case "right", "l", "tab":
			d.selected = (d.selected + 1) % buttonCount
			return nil, true

		case "enter", " ":
			if d.selected == buttonCancel {
				return d.cancel(), true
			}
			return d.confirm(), true

		case "y":
			d.selected = buttonConfirm
			return d.confirm(), true

		case "esc", "n":
			return d.cancel(), true
		}
		return nil, true
	}

	return nil, false
}

// confirm commits the gate if it is ready.
func (d *ConfirmDialog) confirm() tea.Cmd {
	if !d.gate.Commit() {
		return nil
	}
	action := d.action
	return func() tea.Msg {
		return DialogConfirmedMsg{Action: action}
	}
}

// cancel closes the dialog with no side effect.
func (d *ConfirmDialog) cancel() tea.Cmd {
	if !d.gate.Close() {
		return nil
	}
	action := d.action
	d.Hide()
	return func() tea.Msg {
		return DialogCancelledMsg{Action: action}
	}
}

// =============================================================================
// VIEW RENDERING
// =============================================================================

// View renders the dialog.
func (d *ConfirmDialog) View() string {
	if !d.visible {
		return ""
	}

	var content strings.Builder

	content.WriteString(d.theme.DialogTitle.Render(d.title()))
	content.WriteString("\n\n")
	content.WriteString(d.theme.DialogBody.Render(d.body()))
	content.WriteString("\n\n")

	if err := d.gate.Failure(); err != nil && d.gate.State() == safety.StateReady {
		content.WriteString(d.theme.DialogError.Render(styles.StatusIndicators.Error + " " + err.Error()))
		content.WriteString("\n\n")
	}

	content.WriteString(d.renderButtons())

	hint := "Tab=Navigate  Enter=Select  Esc=Cancel"
	if remaining := d.gate.Remaining(d.now()); remaining > 0 {
		hint = "hold on: confirm unlocks in " + strconv.Itoa(remaining) + "s"
	}
	content.WriteString("\n\n")
	content.WriteString(d.theme.ShortcutDesc.Render(hint))

	box := d.theme.DialogBox
	if d.action.Kind.Destructive() {
		box = d.theme.DialogBoxDestructive
	}
	rendered := box.Render(content.String())

	if d.width > 0 && d.height > 0 {
		return lipgloss.Place(d.width, d.height, lipgloss.Center, lipgloss.Center, rendered)
	}
	return rendered
}

// title phrases the pending action as a question.
func (d *ConfirmDialog) title() string {
	switch d.action.Kind {
	case model.ActionDelete:
		return "Delete account?"
	case model.ActionToggleBan:
		if d.action.Account != nil && directory.IsBanned(d.action.Account.BannedUntil, d.now()) {
			return "Unban account?"
		}
		return "Ban account?"
	case model.ActionBulkDelete:
		return "Delete " + strconv.Itoa(len(d.action.TargetIDs)) + " accounts?"
	case model.ActionBulkBan:
		return "Ban " + strconv.Itoa(len(d.action.TargetIDs)) + " accounts?"
	case model.ActionBulkUnban:
		return "Unban " + strconv.Itoa(len(d.action.TargetIDs)) + " accounts?"
	case model.ActionDeleteCredential:
		return "Delete credential?"
	default:
		return "Confirm?"
	}
}

// body names the target so the operator sees exactly what will change.
func (d *ConfirmDialog) body() string {
	switch {
	case d.action.Kind.Bulk():
		return "This cannot be undone. " + strconv.Itoa(len(d.action.TargetIDs)) + " records are selected."
	case d.action.Credential != nil:
		return d.action.Credential.Label
	case d.action.Account != nil:
		if d.action.Account.Nickname != "" {
			return d.action.Account.Nickname + " <" + d.action.Account.Email + ">"
		}
		return d.action.Account.Email
	default:
		return ""
	}
}

// renderButtons renders the confirm/cancel row. The confirm button
// shows the countdown while the gate is armed and a spinner frame while
// executing.
func (d *ConfirmDialog) renderButtons() string {
	confirmLabel := "Confirm"
	if remaining := d.gate.Remaining(d.now()); remaining > 0 {
		confirmLabel = "Confirm (" + strconv.Itoa(remaining) + ")"
	}
	if d.Busy() {
		confirmLabel = "Working..."
	}

	var confirm string
	switch {
	case d.selected == buttonConfirm && d.gate.CanCommit():
		style := d.theme.ButtonActive
		if d.action.Kind.Destructive() {
			style = d.theme.ButtonDanger
		}
		confirm = style.Render(confirmLabel)
	case d.gate.State() == safety.StateArmed:
		confirm = d.theme.ButtonInactive.Render(d.theme.DialogCountdown.Render(confirmLabel))
	default:
		confirm = d.theme.ButtonInactive.Render(confirmLabel)
	}

	cancel := d.theme.ButtonInactive.Render("Cancel")
	if d.selected == buttonCancel {
		cancel = d.theme.ButtonActive.Render("Cancel")
	}

	return lipgloss.JoinHorizontal(lipgloss.Center, confirm, " ", cancel)
}
