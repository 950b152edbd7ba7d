// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package admin implements the keydeck admin console.
package admin

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/keydeck-tui/internal/directory"
	"github.com/jeranaias/keydeck-tui/internal/model"
	"github.com/jeranaias/keydeck-tui/internal/ui/styles"
)

// expiryLayout is the accepted input format for the expiry field.
const expiryLayout = "2006-01-02"

// =============================================================================
// USER FORM
// =============================================================================

// userForm is the create/edit account modal. In edit mode an empty
// password means "leave unchanged" and an empty expiry means "never
// expires".
type userForm struct {
	theme *styles.Theme

	editing *model.AccountRecord // nil = create mode

	nickname textinput.Model
	email    textinput.Model
	password textinput.Model
	expiry   textinput.Model

	focus   int
	visible bool
	busy    bool
	errText string
}

const userFormFields = 4

// newUserForm builds a hidden form.
func newUserForm(theme *styles.Theme) *userForm {
	nickname := textinput.New()
	nickname.Placeholder = "nickname"
	nickname.CharLimit = 80

	email := textinput.New()
	email.Placeholder = "email (blank = placeholder)"
	email.CharLimit = 120

	password := textinput.New()
	password.Placeholder = "password"
	password.CharLimit = 120
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '*'

	expiry := textinput.New()
	expiry.Placeholder = "expires YYYY-MM-DD (blank = never)"
	expiry.CharLimit = 10

	return &userForm{
		theme:    theme,
		nickname: nickname,
		email:    email,
		password: password,
		expiry:   expiry,
	}
}

// ShowCreate opens the form empty.
func (f *userForm) ShowCreate() {
	f.reset()
	f.editing = nil
	f.visible = true
	f.password.Placeholder = "password"
}

// ShowEdit opens the form prefilled from a record.
func (f *userForm) ShowEdit(rec model.AccountRecord) {
	f.reset()
	copied := rec
	f.editing = &copied
	f.visible = true
	f.nickname.SetValue(rec.Nickname)
	f.email.SetValue(rec.Email)
	f.password.Placeholder = "password (blank = unchanged)"
	if rec.ExpiresAt != nil {
		f.expiry.SetValue(rec.ExpiresAt.Format(expiryLayout))
	}
}

// Hide closes the form.
func (f *userForm) Hide() {
	f.visible = false
}

// IsVisible reports whether the form is open.
func (f *userForm) IsVisible() bool { return f.visible }

// Editing returns the record being edited, or nil in create mode.
func (f *userForm) Editing() *model.AccountRecord { return f.editing }

func (f *userForm) reset() {
	f.nickname.SetValue("")
	f.email.SetValue("")
	f.password.SetValue("")
	f.expiry.SetValue("")
	f.errText = ""
	f.busy = false
	f.setFocus(0)
}

func (f *userForm) setFocus(field int) {
	f.focus = field
	inputs := f.inputs()
	for i := range inputs {
		if i == field {
			inputs[i].Focus()
		} else {
			inputs[i].Blur()
		}
	}
}

func (f *userForm) inputs() []*textinput.Model {
	return []*textinput.Model{&f.nickname, &f.email, &f.password, &f.expiry}
}

// parseExpiry turns the field into a directory expiry.
func (f *userForm) parseExpiry() (directory.Expiry, bool) {
	raw := strings.TrimSpace(f.expiry.Value())
	if raw == "" {
		return directory.NeverExpires(), true
	}
	day, err := time.Parse(expiryLayout, raw)
	if err != nil {
		return directory.Expiry{}, false
	}
	return directory.ExpiresOn(day), true
}

// submit validates and issues the create or update command.
func (f *userForm) submit(services Services) tea.Cmd {
	nickname := strings.TrimSpace(f.nickname.Value())
	email := strings.TrimSpace(f.email.Value())
	password := f.password.Value()

	expiry, ok := f.parseExpiry()
	if !ok {
		f.errText = "expiry must be YYYY-MM-DD"
		return nil
	}

	if f.editing == nil {
		if nickname == "" {
			f.errText = "nickname is required"
			return nil
		}
		if password == "" {
			f.errText = "password is required"
			return nil
		}
		f.busy = true
		f.errText = ""
		return services.createUser(nickname, email, password, expiry)
	}

	patch := directory.Patch{Expiry: expiry}
	if nickname != f.editing.Nickname {
		patch.Nickname = &nickname
	}
	if email != f.editing.Email {
		patch.Email = &email
	}
	if password != "" {
		patch.Password = &password
	}
	f.busy = true
	f.errText = ""
	return services.updateUser(f.editing.ID, patch)
}

// finish records the mutation outcome for this form.
func (f *userForm) finish(err error) {
	f.busy = false
	if err != nil {
		f.errText = err.Error()
		return
	}
	f.Hide()
}

// Update handles form input. The bool reports whether the message was
// consumed.
func (f *userForm) Update(msg tea.Msg, services Services) (tea.Cmd, bool) {
	if !f.visible {
		return nil, false
	}
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil, false
	}
	if f.busy {
		return nil, true
	}

	switch keyMsg.String() {
	case "tab", "down":
		f.setFocus((f.focus + 1) % userFormFields)
		return nil, true
	case "shift+tab", "up":
		f.setFocus((f.focus - 1 + userFormFields) % userFormFields)
		return nil, true
	case "ctrl+g":
		// Create mode only: edits must not silently rename an account
		// or rotate its password.
		if f.editing == nil {
			if nickname, err := randomNickname(); err == nil {
				f.nickname.SetValue(nickname)
			}
			if password, err := randomPassword(); err == nil {
				f.password.SetValue(password)
			}
		}
		return nil, true
	case "enter":
		return f.submit(services), true
	case "esc":
		f.Hide()
		return nil, true
	}

	inputs := f.inputs()
	var cmd tea.Cmd
	*inputs[f.focus], cmd = inputs[f.focus].Update(msg)
	return cmd, true
}

// View renders the form.
func (f *userForm) View() string {
	if !f.visible {
		return ""
	}

	title := "New account"
	if f.editing != nil {
		title = "Edit account"
	}

	var b strings.Builder
	b.WriteString(f.theme.DialogTitle.Render(title))
	b.WriteString("\n\n")

	labels := []string{"nickname", "email", "password", "expires"}
	for i, input := range f.inputs() {
		b.WriteString(f.theme.LoginLabel.Render(labels[i]))
		b.WriteString("\n")
		style := f.theme.InputBlurred
		if i == f.focus {
			style = f.theme.InputFocused
		}
		b.WriteString(style.Render(input.View()))
		b.WriteString("\n")
	}

	if f.busy {
		b.WriteString("\n")
		b.WriteString(f.theme.ShortcutDesc.Render("saving..."))
	}
	if f.errText != "" {
		b.WriteString("\n")
		b.WriteString(f.theme.DialogError.Render(styles.StatusIndicators.Error + " " + f.errText))
	}

	hint := "Enter=Save  Esc=Cancel"
	if f.editing == nil {
		hint = "Ctrl+G=Generate  " + hint
	}
	b.WriteString("\n")
	b.WriteString(f.theme.ShortcutDesc.Render(hint))

	return f.theme.DialogBox.Render(b.String())
}

// =============================================================================
// CREDENTIAL FORM
// =============================================================================

// credForm is the new-credential modal: a label, a base32 secret, and a
// generate shortcut that fills the secret with fresh entropy.
type credForm struct {
	theme *styles.Theme

	label  textinput.Model
	secret textinput.Model

	focus   int
	visible bool
	busy    bool
	errText string
}

// newCredForm builds a hidden credential form.
func newCredForm(theme *styles.Theme) *credForm {
	label := textinput.New()
	label.Placeholder = "provider (e.g. GitHub)"
	label.CharLimit = 80

	secret := textinput.New()
	secret.Placeholder = "base32 secret (ctrl+g to generate)"
	secret.CharLimit = 128

	return &credForm{theme: theme, label: label, secret: secret}
}

// Show opens the form empty.
func (f *credForm) Show() {
	f.label.SetValue("")
	f.secret.SetValue("")
	f.errText = ""
	f.busy = false
	f.visible = true
	f.focus = 0
	f.label.Focus()
	f.secret.Blur()
}

// Hide closes the form.
func (f *credForm) Hide() { f.visible = false }

// IsVisible reports whether the form is open.
func (f *credForm) IsVisible() bool { return f.visible }

// finish records the mutation outcome for this form.
func (f *credForm) finish(err error) {
	f.busy = false
	if err != nil {
		f.errText = err.Error()
		return
	}
	f.Hide()
}

// submit validates and issues the create command.
func (f *credForm) submit(services Services) tea.Cmd {
	label := strings.TrimSpace(f.label.Value())
	secret := strings.TrimSpace(f.secret.Value())
	if label == "" || secret == "" {
		f.errText = "label and secret are required"
		return nil
	}
	f.busy = true
	f.errText = ""
	return services.createCredential(label, secret)
}

// Update handles form input.
func (f *credForm) Update(msg tea.Msg, services Services) (tea.Cmd, bool) {
	if !f.visible {
		return nil, false
	}
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil, false
	}
	if f.busy {
		return nil, true
	}

	switch keyMsg.String() {
	case "tab", "down", "shift+tab", "up":
		if f.focus == 0 {
			f.focus = 1
			f.label.Blur()
			f.secret.Focus()
		} else {
			f.focus = 0
			f.secret.Blur()
			f.label.Focus()
		}
		return nil, true
	case "ctrl+g":
		if generated, err := randomSecret(); err == nil {
			f.secret.SetValue(generated)
		}
		return nil, true
	case "enter":
		return f.submit(services), true
	case "esc":
		f.Hide()
		return nil, true
	}

	var cmd tea.Cmd
	if f.focus == 0 {
		f.label, cmd = f.label.Update(msg)
	} else {
		f.secret, cmd = f.secret.Update(msg)
	}
	return cmd, true
}

// View renders the form.
func (f *credForm) View() string {
	if !f.visible {
		return ""
	}

	var b strings.Builder
	b.WriteString(f.theme.DialogTitle.Render("New credential"))
	b.WriteString("\n\n")

	b.WriteString(f.theme.LoginLabel.Render("provider"))
	b.WriteString("\n")
	labelStyle := f.theme.InputBlurred
	secretStyle := f.theme.InputBlurred
	if f.focus == 0 {
		labelStyle = f.theme.InputFocused
	} else {
		secretStyle = f.theme.InputFocused
	}
	b.WriteString(labelStyle.Render(f.label.View()))
	b.WriteString("\n")
	b.WriteString(f.theme.LoginLabel.Render("secret"))
	b.WriteString("\n")
	b.WriteString(secretStyle.Render(f.secret.View()))
	b.WriteString("\n")

	if f.busy {
		b.WriteString("\n")
		b.WriteString(f.theme.ShortcutDesc.Render("saving..."))
	}
	if f.errText != "" {
		b.WriteString("\n")
		b.WriteString(f.theme.DialogError.Render(styles.StatusIndicators.Error + " " + f.errText))
	}

	b.WriteString("\n")
	b.WriteString(f.theme.ShortcutDesc.Render("Ctrl+G=Generate  Enter=Save  Esc=Cancel"))

	return f.theme.DialogBox.Render(b.String())
}
