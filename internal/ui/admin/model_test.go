// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package admin

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/keydeck-tui/internal/api"
	"github.com/jeranaias/keydeck-tui/internal/directory"
	"github.com/jeranaias/keydeck-tui/internal/model"
	"github.com/jeranaias/keydeck-tui/internal/session"
	"github.com/jeranaias/keydeck-tui/internal/ui/styles"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func testModel(t *testing.T) *Model {
	t.Helper()
	m := New(Services{}, styles.NewTheme(), nil, 10)
	m.now = func() time.Time { return testNow }
	return m
}

// signedIn puts the model past login with a resolved admin role.
func signedIn(t *testing.T, m *Model) {
	t.Helper()
	m.session = session.Session{AccessToken: "jwt", UserID: "uid-1", Email: "op@example.com"}
	m.role = model.ResolvedRole(model.RoleAdmin)
}

func page(records []model.AccountRecord, pageNum, total int) directory.Page {
	return directory.Page{Records: records, Window: model.NewPageWindow(pageNum, 10, total)}
}

func pressKey(m *Model, s string) tea.Cmd {
	var msg tea.KeyMsg
	switch s {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEscape}
	case "ctrl+l":
		msg = tea.KeyMsg{Type: tea.KeyCtrlL}
	case "space":
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(" ")}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
	_, cmd := m.Update(msg)
	return cmd
}

func TestStaleUserPageIsDropped(t *testing.T) {
	m := testModel(t)
	signedIn(t, m)

	// Two fetches in flight: tokens 1 and 2.
	m.users.refresh(Services{}, 1)
	m.users.refresh(Services{}, 2)

	fresh := page([]model.AccountRecord{{ID: "u-new", Email: "new@example.com"}}, 2, 30)
	stale := page([]model.AccountRecord{{ID: "u-old", Email: "old@example.com"}}, 1, 30)

	// Newest response lands first; the stale one must not overwrite it.
	m.Update(usersLoadedMsg{token: 2, page: fresh})
	m.Update(usersLoadedMsg{token: 1, page: stale})

	rows := m.users.table.Rows()
	if len(rows) != 1 || rows[0].ID != "u-new" {
		t.Fatalf("stale page overwrote the newest: rows = %+v", rows)
	}
	if m.users.window.Page != 2 {
		t.Errorf("window page = %d, want 2", m.users.window.Page)
	}
}

func TestStaleLoadErrorIsDropped(t *testing.T) {
	m := testModel(t)
	signedIn(t, m)

	m.users.refresh(Services{}, 1)
	m.users.refresh(Services{}, 1)

	m.Update(usersLoadedMsg{token: 2, page: page(nil, 1, 0)})
	m.Update(usersLoadFailedMsg{token: 1, err: errors.New("gone")})

	if m.users.loadError != "" {
		t.Errorf("stale failure surfaced: %q", m.users.loadError)
	}
}

func TestRefetchClearsSelection(t *testing.T) {
	m := testModel(t)
	signedIn(t, m)

	m.Update(usersLoadedMsg{token: m.users.reqToken, page: page([]model.AccountRecord{
		{ID: "u1", Email: "a@example.com"},
		{ID: "u2", Email: "b@example.com"},
	}, 1, 2)})

	m.users.sel.Add("u1")
	m.users.sel.Add("u2")

	m.users.refresh(Services{}, 1)
	if m.users.sel.Len() != 0 {
		t.Error("refetch must clear the selection")
	}
}

func TestRoleGateBlocksMutationsUntilResolved(t *testing.T) {
	m := testModel(t)
	m.session = session.Session{AccessToken: "jwt", UserID: "uid-1", Email: "op@example.com"}
	m.role = model.UnresolvedRole()

	m.Update(usersLoadedMsg{token: m.users.reqToken, page: page([]model.AccountRecord{
		{ID: "u1", Email: "a@example.com"},
	}, 1, 1)})

	pressKey(m, "d")
	if m.dialog.IsVisible() {
		t.Fatal("unresolved role must not open a destructive dialog")
	}

	// Standard role stays blocked too.
	m.role = model.ResolvedRole(model.RoleStandard)
	pressKey(m, "d")
	if m.dialog.IsVisible() {
		t.Fatal("standard role must not open a destructive dialog")
	}

	m.role = model.ResolvedRole(model.RoleAdmin)
	pressKey(m, "d")
	if !m.dialog.IsVisible() {
		t.Fatal("admin role should open the dialog")
	}
}

func TestBulkActionCapturesSelection(t *testing.T) {
	m := testModel(t)
	signedIn(t, m)

	m.Update(usersLoadedMsg{token: m.users.reqToken, page: page([]model.AccountRecord{
		{ID: "u1", Email: "a@example.com"},
		{ID: "u2", Email: "b@example.com"},
		{ID: "u3", Email: "c@example.com"},
	}, 1, 3)})

	m.users.sel.Add("u1")
	m.users.sel.Add("u3")

	pressKey(m, "D")
	if !m.dialog.IsVisible() {
		t.Fatal("bulk delete should open the dialog")
	}
	action := m.dialog.Action()
	if action.Kind != model.ActionBulkDelete {
		t.Errorf("kind = %v", action.Kind)
	}
	if len(action.TargetIDs) != 2 {
		t.Errorf("targets = %v, want the 2 selected ids", action.TargetIDs)
	}
}

func TestBulkActionWithEmptySelectionIsNoop(t *testing.T) {
	m := testModel(t)
	signedIn(t, m)
	m.Update(usersLoadedMsg{token: m.users.reqToken, page: page([]model.AccountRecord{
		{ID: "u1", Email: "a@example.com"},
	}, 1, 1)})

	pressKey(m, "D")
	if m.dialog.IsVisible() {
		t.Error("bulk delete with nothing selected should not open a dialog")
	}
}

func TestMutationFailureKeepsDialogOpen(t *testing.T) {
	m := testModel(t)
	signedIn(t, m)
	m.Update(usersLoadedMsg{token: m.users.reqToken, page: page([]model.AccountRecord{
		{ID: "u1", Email: "a@example.com"},
	}, 1, 1)})

	pressKey(m, "d") // single delete bypasses the cooldown
	pressKey(m, "enter")

	m.Update(mutationDoneMsg{
		action: m.dialog.Action(),
		err:    errors.New("backing store unavailable"),
	})

	if !m.dialog.IsVisible() {
		t.Error("failed mutation should leave the dialog open for retry")
	}
}

func TestMutationSuccessClosesDialogAndRefetches(t *testing.T) {
	m := testModel(t)
	signedIn(t, m)
	m.Update(usersLoadedMsg{token: m.users.reqToken, page: page([]model.AccountRecord{
		{ID: "u1", Email: "a@example.com"},
	}, 1, 1)})

	before := m.users.reqToken
	pressKey(m, "d")
	pressKey(m, "enter")

	action := m.dialog.Action()
	m.Update(mutationDoneMsg{action: action, succeeded: 1})

	if m.dialog.IsVisible() {
		t.Error("successful mutation should close the dialog")
	}
	if m.users.reqToken == before {
		t.Error("successful mutation should trigger a directory refetch")
	}
}

func TestPartialFailureRefetchesAndReportsCounts(t *testing.T) {
	m := testModel(t)
	signedIn(t, m)
	m.Update(usersLoadedMsg{token: m.users.reqToken, page: page([]model.AccountRecord{
		{ID: "u1", Email: "a@example.com"},
	}, 1, 1)})

	before := m.users.reqToken
	m.Update(mutationDoneMsg{
		action:    model.PendingAction{Kind: model.ActionBulkDelete, TargetIDs: []string{"u1", "u2", "u3"}},
		succeeded: 2,
		err:       &directory.PartialFailure{Succeeded: []string{"u1", "u2"}, Failed: []string{"u3"}},
	})

	if m.users.reqToken == before {
		t.Error("partial success still changed server state and must refetch")
	}
}

func TestSearchFiltersCurrentPage(t *testing.T) {
	m := testModel(t)
	signedIn(t, m)
	m.Update(usersLoadedMsg{token: m.users.reqToken, page: page([]model.AccountRecord{
		{ID: "u1", Email: "alice@example.com", Nickname: "alice"},
		{ID: "u2", Email: "bob@example.com", Nickname: "bob"},
	}, 1, 2)})

	m.users.search.SetValue("ali")
	m.users.applyFilter()

	rows := m.users.table.Rows()
	if len(rows) != 1 || rows[0].ID != "u1" {
		t.Errorf("filter rows = %+v", rows)
	}

	m.users.search.SetValue("")
	m.users.applyFilter()
	if len(m.users.table.Rows()) != 2 {
		t.Error("clearing the filter should restore the full page")
	}
}

func TestViewShowsLoginUntilSignedIn(t *testing.T) {
	m := testModel(t)
	if view := m.View(); !strings.Contains(view, "password") {
		t.Error("logged-out view should render the login form")
	}

	signedIn(t, m)
	if view := m.View(); !strings.Contains(view, "accounts") {
		t.Error("signed-in view should render the tab strip")
	}
}

func TestSignInSuccessKicksOffLoads(t *testing.T) {
	m := testModel(t)
	cmd := m.handleSignIn(signInDoneMsg{session: session.Session{AccessToken: "jwt", UserID: "u", Email: "op@example.com"}})
	if cmd == nil {
		t.Fatal("sign-in should batch the initial loads")
	}
	if !m.session.Active() {
		t.Error("session should be recorded")
	}
	if m.role.Resolved() {
		t.Error("role starts unresolved until the lookup lands")
	}
}

func TestUnauthorizedLoadForcesReauth(t *testing.T) {
	m := testModel(t)
	tokens := &session.TokenHolder{}
	tokens.Set("jwt")
	m.services.Tokens = tokens
	signedIn(t, m)
	m.Update(usersLoadedMsg{token: m.users.reqToken, page: page([]model.AccountRecord{
		{ID: "u1", Email: "a@example.com"},
	}, 1, 1)})

	m.Update(usersLoadFailedMsg{token: m.users.reqToken, err: fmt.Errorf("%w: jwt expired", api.ErrUnauthorized)})

	if m.session.Active() {
		t.Fatal("rejected token must end the session")
	}
	if tokens.Get() != "" {
		t.Error("bearer token should be cleared")
	}
	view := m.View()
	if !strings.Contains(view, "password") {
		t.Error("view should drop back to the login form")
	}
	if !strings.Contains(view, sessionExpiredNotice) {
		t.Error("login form should say why the session ended")
	}
}

func TestUnauthorizedMutationForcesReauth(t *testing.T) {
	m := testModel(t)
	signedIn(t, m)
	m.Update(usersLoadedMsg{token: m.users.reqToken, page: page([]model.AccountRecord{
		{ID: "u1", Email: "a@example.com"},
	}, 1, 1)})
	pressKey(m, "d")
	pressKey(m, "enter")

	m.Update(mutationDoneMsg{action: m.dialog.Action(), err: fmt.Errorf("%w: invalid token", api.ErrUnauthorized)})

	if m.dialog.IsVisible() {
		t.Error("forced sign-out should close the dialog")
	}
	if m.session.Active() {
		t.Error("rejected token must end the session")
	}
}

func TestSignOutKeyClearsEverything(t *testing.T) {
	m := testModel(t)
	tokens := &session.TokenHolder{}
	tokens.Set("jwt")
	m.services.Tokens = tokens
	signedIn(t, m)
	m.Update(usersLoadedMsg{token: m.users.reqToken, page: page([]model.AccountRecord{
		{ID: "u1", Email: "a@example.com"},
		{ID: "u2", Email: "b@example.com"},
	}, 1, 2)})
	m.users.sel.Add("u1")

	pressKey(m, "ctrl+l")

	if m.session.Active() {
		t.Fatal("sign-out key should end the session")
	}
	if tokens.Get() != "" {
		t.Error("bearer token should be cleared")
	}
	if len(m.users.table.Rows()) != 0 || m.users.sel.Len() != 0 {
		t.Error("directory contents should be dropped")
	}
	if len(m.tokens.tickers) != 0 {
		t.Error("credential tickers should be dropped")
	}
	if view := m.View(); !strings.Contains(view, "password") {
		t.Error("view should return to the login form")
	}
}

func TestEscLeavesSearchAndClearsFilter(t *testing.T) {
	m := testModel(t)
	signedIn(t, m)
	m.Update(usersLoadedMsg{token: m.users.reqToken, page: page([]model.AccountRecord{
		{ID: "u1", Email: "alice@example.com", Nickname: "alice"},
		{ID: "u2", Email: "bob@example.com", Nickname: "bob"},
	}, 1, 2)})

	pressKey(m, "/")
	if !m.users.searching {
		t.Fatal("slash should enter search mode")
	}
	m.users.search.SetValue("ali")
	m.users.applyFilter()

	pressKey(m, "esc")

	if m.users.searching {
		t.Error("esc should leave search mode")
	}
	if m.users.search.Value() != "" {
		t.Error("esc should clear the query")
	}
	if len(m.users.table.Rows()) != 2 {
		t.Error("esc should restore the unfiltered page")
	}
}
