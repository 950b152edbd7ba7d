// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package admin implements the keydeck admin console.
package admin

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/keydeck-tui/internal/api"
	"github.com/jeranaias/keydeck-tui/internal/directory"
	"github.com/jeranaias/keydeck-tui/internal/model"
	"github.com/jeranaias/keydeck-tui/internal/session"
	"github.com/jeranaias/keydeck-tui/internal/ui/components"
	"github.com/jeranaias/keydeck-tui/internal/ui/styles"
)

// statusLinger is how long transient status messages stay visible.
const statusLinger = 4 * time.Second

// sessionExpiredNotice is shown on the login form after a forced
// sign-out.
const sessionExpiredNotice = "session expired, sign in again"

// =============================================================================
// TABS
// =============================================================================

// tab identifies the active main view.
type tab int

const (
	tabUsers tab = iota
	tabTokens
)

// =============================================================================
// ROOT MODEL
// =============================================================================

// Model is the Bubble Tea model for the whole admin console.
type Model struct {
	theme    *styles.Theme
	services Services

	// Auth state
	session session.Session
	role    model.RoleState

	// Views
	login  *loginView
	users  *usersView
	tokens *tokensView

	// Modals
	dialog   *components.ConfirmDialog
	userForm *userForm
	credForm *credForm

	// Chrome
	statusBar *components.StatusBar
	spin      components.InlineSpinner
	active    tab

	width  int
	height int

	// statusGen invalidates stale status-clear timers.
	statusGen int

	// now is overridable in tests
	now func() time.Time
}

// New builds the console model.
func New(services Services, theme *styles.Theme, store *session.RememberedEmailStore, perPage int) *Model {
	return &Model{
		theme:     theme,
		services:  services,
		login:     newLoginView(theme, store),
		users:     newUsersView(theme, perPage),
		tokens:    newTokensView(theme),
		dialog:    components.NewConfirmDialog(theme),
		userForm:  newUserForm(theme),
		credForm:  newCredForm(theme),
		statusBar: components.NewStatusBar(theme),
		spin:      components.NewInlineSpinner(),
		now:       time.Now,
	}
}

// Init starts the cursor blink and the shared loading spinner. The
// spinner runs for the program's lifetime and is simply not rendered
// when nothing is in flight.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spin.Start())
}

// =============================================================================
// UPDATE
// =============================================================================

// Update routes messages: typed results first, then modals in priority
// order, then the active tab.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.dialog.SetSize(msg.Width, msg.Height)
		m.statusBar.SetWidth(msg.Width)
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

	case signInDoneMsg:
		return m, m.handleSignIn(msg)

	case roleResolvedMsg:
		if errors.Is(msg.err, api.ErrUnauthorized) {
			return m, m.signOut(sessionExpiredNotice)
		}
		if msg.err != nil {
			m.setStatusError("role lookup failed; running with standard access")
			return m, m.statusClearCmd()
		}
		m.role = msg.state
		return m, nil

	case usersLoadedMsg:
		m.users.handleLoaded(msg)
		return m, nil

	case usersLoadFailedMsg:
		if errors.Is(msg.err, api.ErrUnauthorized) {
			return m, m.signOut(sessionExpiredNotice)
		}
		m.users.handleLoadFailed(msg)
		return m, nil

	case credsLoadedMsg:
		return m, m.tokens.handleLoaded(msg)

	case credsLoadFailedMsg:
		if errors.Is(msg.err, api.ErrUnauthorized) {
			return m, m.signOut(sessionExpiredNotice)
		}
		m.tokens.handleLoadFailed(msg)
		return m, nil

	case components.DialogConfirmedMsg:
		return m, m.dispatchMutation(msg.Action)

	case components.DialogCancelledMsg:
		return m, nil

	case mutationDoneMsg:
		return m, m.handleMutationDone(msg)

	case statusClearMsg:
		if msg.generation == m.statusGen {
			m.statusBar.Clear()
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	if !m.session.Active() {
		return m, m.login.Update(msg, m.services)
	}

	// Modals swallow input while open; non-key messages still fall
	// through so ticker cadences survive an open modal.
	if cmd, handled := m.dialog.Update(msg); handled {
		return m, cmd
	}
	if cmd, handled := m.userForm.Update(msg, m.services); handled {
		return m, cmd
	}
	if cmd, handled := m.credForm.Update(msg, m.services); handled {
		return m, cmd
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "ctrl+l":
			return m, m.signOut("")
		case "q":
			if !m.users.searching {
				return m, tea.Quit
			}
		case "tab":
			if !m.users.searching {
				m.switchTab()
				return m, nil
			}
		case "1":
			if !m.users.searching {
				m.active = tabUsers
				return m, nil
			}
		case "2":
			if !m.users.searching {
				m.active = tabTokens
				return m, nil
			}
		}
	}

	// Ticker-driven messages reach every ticker even while the
	// credentials tab is hidden, so codes are current when it returns.
	if _, ok := msg.(tea.KeyMsg); !ok {
		if m.active == tabUsers {
			return m, m.tokens.forward(msg)
		}
	}

	switch m.active {
	case tabUsers:
		cmd, action := m.users.Update(msg, m.services)
		if action.Kind != model.ActionNone {
			return m, m.openAction(action)
		}
		return m, cmd
	default:
		cmd, action := m.tokens.Update(msg, m.services)
		if action.Kind != model.ActionNone {
			return m, m.openAction(action)
		}
		return m, cmd
	}
}

// switchTab flips between the two main tabs.
func (m *Model) switchTab() {
	if m.active == tabUsers {
		m.active = tabTokens
	} else {
		m.active = tabUsers
	}
}

// handleSignIn finishes the login flow and kicks off the initial loads.
func (m *Model) handleSignIn(msg signInDoneMsg) tea.Cmd {
	m.login.finish(msg)
	if msg.err != nil {
		return nil
	}
	m.session = msg.session
	m.role = model.UnresolvedRole()
	if m.services.Tokens != nil {
		m.services.Tokens.Set(msg.session.AccessToken)
	}
	return tea.Batch(
		m.services.resolveRole(m.session.UserID),
		m.users.refresh(m.services, 1),
		m.tokens.refresh(m.services),
	)
}

// signOut ends the session, locally or because the store rejected the
// token. Everything keyed to the session is dropped: bearer token,
// role, open modals, and both boards' contents.
func (m *Model) signOut(notice string) tea.Cmd {
	m.session = session.Session{}
	m.role = model.UnresolvedRole()
	if m.services.Tokens != nil {
		m.services.Tokens.Set("")
	}
	m.dialog.Hide()
	m.userForm.Hide()
	m.credForm.Hide()
	m.users.reset()
	m.tokens.reset()
	m.statusBar.Clear()
	m.login.reset(notice)
	return textinput.Blink
}

// openAction routes a pending action to the right modal, enforcing the
// role gate: until the async role lookup resolves to admin, every
// mutation entry point is refused.
func (m *Model) openAction(action model.PendingAction) tea.Cmd {
	if !m.role.IsAdmin() {
		if m.role.Resolved() {
			m.setStatusError("admin role required")
		} else {
			m.setStatusError("verifying your role, try again shortly")
		}
		return m.statusClearCmd()
	}

	switch action.Kind {
	case model.ActionCreate:
		m.userForm.ShowCreate()
		return textinput.Blink
	case model.ActionEdit:
		if action.Account != nil {
			m.userForm.ShowEdit(*action.Account)
			return textinput.Blink
		}
		return nil
	case model.ActionCreateCredential:
		m.credForm.Show()
		return textinput.Blink
	default:
		return m.dialog.Show(action)
	}
}

// dispatchMutation runs the confirmed dialog action.
func (m *Model) dispatchMutation(action model.PendingAction) tea.Cmd {
	switch action.Kind {
	case model.ActionDelete, model.ActionBulkDelete:
		return m.services.removeUsers(action)
	case model.ActionToggleBan:
		banned := true
		if action.Account != nil && directory.IsBanned(action.Account.BannedUntil, m.now()) {
			banned = false
		}
		return m.services.setBan(action, banned)
	case model.ActionBulkBan:
		return m.services.setBan(action, true)
	case model.ActionBulkUnban:
		return m.services.setBan(action, false)
	case model.ActionDeleteCredential:
		return m.services.removeCredential(action)
	default:
		return nil
	}
}

// handleMutationDone closes out a finished mutation: settle whichever
// modal issued it, refetch the affected store, and append to the audit
// trail.
func (m *Model) handleMutationDone(msg mutationDoneMsg) tea.Cmd {
	// A rejected token is not a recoverable mutation error; the whole
	// session is over.
	if errors.Is(msg.err, api.ErrUnauthorized) {
		return m.signOut(sessionExpiredNotice)
	}

	var cmds []tea.Cmd

	switch msg.action.Kind {
	case model.ActionCreate, model.ActionEdit:
		m.userForm.finish(msg.err)
	case model.ActionCreateCredential:
		m.credForm.finish(msg.err)
	default:
		if msg.err != nil {
			m.dialog.Fail(msg.err)
		} else {
			m.dialog.Succeed()
		}
	}

	// Refetch whenever anything may have changed server-side. A refetch
	// clears the selection, which is exactly right after a bulk run.
	changed := msg.err == nil || msg.succeeded > 0
	if changed {
		switch msg.action.Kind {
		case model.ActionCreateCredential, model.ActionDeleteCredential:
			cmds = append(cmds, m.tokens.refresh(m.services))
		default:
			cmds = append(cmds, m.users.refresh(m.services, m.users.window.Page))
		}
	}

	cmds = append(cmds, m.services.recordAudit(m.session.Email, msg.action, msg.succeeded, msg.err))

	m.setMutationStatus(msg)
	cmds = append(cmds, m.statusClearCmd())

	return tea.Batch(cmds...)
}

// setMutationStatus phrases the outcome for the status bar.
func (m *Model) setMutationStatus(msg mutationDoneMsg) {
	var partial *directory.PartialFailure
	switch {
	case errors.As(msg.err, &partial):
		m.setStatusError(partial.Error())
	case msg.err != nil:
		m.setStatusError(msg.err.Error())
	default:
		m.statusGen++
		m.statusBar.SetStatus(auditName(msg.action.Kind) + ": " + strconv.Itoa(msg.succeeded) + " ok")
	}
}

func (m *Model) setStatusError(text string) {
	m.statusGen++
	m.statusBar.SetError(text)
}

// statusClearCmd schedules the status line expiry for the current
// generation.
func (m *Model) statusClearCmd() tea.Cmd {
	generation := m.statusGen
	return tea.Tick(statusLinger, func(time.Time) tea.Msg {
		return statusClearMsg{generation: generation}
	})
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the console.
func (m *Model) View() string {
	if !m.session.Active() {
		form := m.login.View()
		if m.width > 0 && m.height > 0 {
			return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, form)
		}
		return form
	}

	if m.dialog.IsVisible() {
		return m.overlay(m.dialog.View())
	}
	if m.userForm.IsVisible() {
		return m.overlay(m.userForm.View())
	}
	if m.credForm.IsVisible() {
		return m.overlay(m.credForm.View())
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	var shortcuts []components.Shortcut
	if m.active == tabUsers {
		b.WriteString(m.users.View(m.now()))
		shortcuts = m.users.shortcuts()
	} else {
		b.WriteString(m.tokens.View())
		shortcuts = m.tokens.shortcuts()
	}

	b.WriteString("\n")
	b.WriteString(m.statusBar.View(shortcuts))
	return b.String()
}

// overlay centers a modal in the window.
func (m *Model) overlay(content string) string {
	if m.width > 0 && m.height > 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	return content
}

// renderHeader renders the brand and tab strip.
func (m *Model) renderHeader() string {
	usersTab := m.theme.TabInactive.Render("1 accounts")
	tokensTab := m.theme.TabInactive.Render("2 credentials")
	if m.active == tabUsers {
		usersTab = m.theme.TabActive.Render("1 accounts")
	} else {
		tokensTab = m.theme.TabActive.Render("2 credentials")
	}

	identity := m.session.Email
	if m.role.IsAdmin() {
		identity += " (admin)"
	} else if !m.role.Resolved() {
		identity += " (verifying)"
	}

	left := m.theme.HeaderTitle.Render("keydeck") + "  " + usersTab + tokensTab
	right := m.theme.ShortcutDesc.Render(identity)
	if m.users.loading || m.tokens.loading {
		right = m.spin.View() + " " + right
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}
