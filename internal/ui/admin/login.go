// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package admin implements the keydeck admin console.
package admin

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/keydeck-tui/internal/session"
	"github.com/jeranaias/keydeck-tui/internal/ui/styles"
)

// =============================================================================
// LOGIN VIEW
// =============================================================================

// Login form fields, in tab order.
const (
	loginFieldEmail = iota
	loginFieldPassword
	loginFieldRemember
	loginFieldCount
)

// loginView is the sign-in form: email, password, and a remember-email
// checkbox backed by the on-disk store.
type loginView struct {
	theme *styles.Theme
	store *session.RememberedEmailStore

	email    textinput.Model
	password textinput.Model
	remember bool
	focus    int

	busy    bool
	errText string
}

// newLoginView builds the form, prefilled from the remembered email.
func newLoginView(theme *styles.Theme, store *session.RememberedEmailStore) *loginView {
	email := textinput.New()
	email.Placeholder = "admin@example.com"
	email.CharLimit = 120
	email.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.CharLimit = 120
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '*'

	v := &loginView{
		theme:    theme,
		store:    store,
		email:    email,
		password: password,
	}

	if store != nil {
		if remembered := store.Load(); remembered != "" {
			v.email.SetValue(remembered)
			v.remember = true
			v.setFocus(loginFieldPassword)
		}
	}
	return v
}

// setFocus moves focus to a field.
func (v *loginView) setFocus(field int) {
	v.focus = field
	v.email.Blur()
	v.password.Blur()
	switch field {
	case loginFieldEmail:
		v.email.Focus()
	case loginFieldPassword:
		v.password.Focus()
	}
}

// submit validates and issues the sign-in command.
func (v *loginView) submit(services Services) tea.Cmd {
	email := strings.TrimSpace(v.email.Value())
	password := v.password.Value()
	if email == "" || password == "" {
		v.errText = "email and password are required"
		return nil
	}

	// Persist or forget the email before the network round trip; the
	// preference is about the form, not about auth succeeding.
	if v.store != nil {
		if v.remember {
			_ = v.store.Save(email)
		} else {
			_ = v.store.Forget()
		}
	}

	v.busy = true
	v.errText = ""
	return services.signIn(email, password)
}

// reset prepares the form for a fresh sign-in after the session ends,
// keeping the typed email so only the password must be re-entered.
func (v *loginView) reset(notice string) {
	v.busy = false
	v.errText = notice
	v.password.SetValue("")
	if strings.TrimSpace(v.email.Value()) == "" {
		v.setFocus(loginFieldEmail)
	} else {
		v.setFocus(loginFieldPassword)
	}
}

// finish records the sign-in outcome.
func (v *loginView) finish(msg signInDoneMsg) {
	v.busy = false
	if msg.err != nil {
		v.errText = msg.err.Error()
		v.password.SetValue("")
		v.setFocus(loginFieldPassword)
	}
}

// Update handles form input.
func (v *loginView) Update(msg tea.Msg, services Services) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || v.busy {
		return nil
	}

	switch keyMsg.String() {
	case "tab", "down":
		v.setFocus((v.focus + 1) % loginFieldCount)
		return nil
	case "shift+tab", "up":
		v.setFocus((v.focus - 1 + loginFieldCount) % loginFieldCount)
		return nil
	case "enter":
		if v.focus == loginFieldRemember {
			v.remember = !v.remember
			return nil
		}
		return v.submit(services)
	case " ":
		if v.focus == loginFieldRemember {
			v.remember = !v.remember
			return nil
		}
	}

	var cmd tea.Cmd
	switch v.focus {
	case loginFieldEmail:
		v.email, cmd = v.email.Update(msg)
	case loginFieldPassword:
		v.password, cmd = v.password.Update(msg)
	}
	return cmd
}

// inputStyle picks the border style for a text field by focus.
func (v *loginView) inputStyle(field int) lipgloss.Style {
	if v.focus == field {
		return v.theme.InputFocused
	}
	return v.theme.InputBlurred
}

// View renders the form.
func (v *loginView) View() string {
	var b strings.Builder

	b.WriteString(v.theme.HeaderTitle.Render("keydeck"))
	b.WriteString("\n\n")

	b.WriteString(v.theme.LoginLabel.Render("email"))
	b.WriteString("\n")
	b.WriteString(v.inputStyle(loginFieldEmail).Render(v.email.View()))
	b.WriteString("\n\n")

	b.WriteString(v.theme.LoginLabel.Render("password"))
	b.WriteString("\n")
	b.WriteString(v.inputStyle(loginFieldPassword).Render(v.password.View()))
	b.WriteString("\n\n")

	checkbox := "[ ]"
	checkStyle := v.theme.CheckboxOff
	if v.remember {
		checkbox = "[x]"
		checkStyle = v.theme.CheckboxOn
	}
	line := checkStyle.Render(checkbox) + " remember email"
	if v.focus == loginFieldRemember {
		line = v.theme.ShortcutKey.Render("> ") + line
	} else {
		line = "  " + line
	}
	b.WriteString(line)
	b.WriteString("\n")

	if v.busy {
		b.WriteString("\n")
		b.WriteString(v.theme.ShortcutDesc.Render("signing in..."))
	}
	if v.errText != "" {
		b.WriteString("\n")
		b.WriteString(v.theme.LoginError.Render(styles.StatusIndicators.Error + " " + v.errText))
	}

	return v.theme.LoginBox.Render(b.String())
}
