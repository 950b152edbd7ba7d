// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package admin implements the keydeck admin console.
package admin

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/keydeck-tui/internal/model"
	"github.com/jeranaias/keydeck-tui/internal/selection"
	"github.com/jeranaias/keydeck-tui/internal/ui/components"
	"github.com/jeranaias/keydeck-tui/internal/ui/styles"
)

// =============================================================================
// USERS VIEW
// =============================================================================

// usersView is the account directory tab: one fetched page, the
// page-agnostic selection, and the in-page search filter.
type usersView struct {
	theme *styles.Theme

	table *components.UserTable
	sel   *selection.Set

	// unfiltered is the fetched page before the search filter.
	unfiltered []model.AccountRecord
	window     model.PageWindow
	perPage    int

	// search filters the visible page client-side.
	search       textinput.Model
	searching    bool
	searchActive bool

	// reqToken orders fetches; responses carrying an older token are
	// dropped so the last issued request wins.
	reqToken  uint64
	loading   bool
	loadError string

	loaded bool
}

// newUsersView builds an empty directory view.
func newUsersView(theme *styles.Theme, perPage int) *usersView {
	search := textinput.New()
	search.Placeholder = "filter this page"
	search.CharLimit = 80

	return &usersView{
		theme:   theme,
		table:   components.NewUserTable(theme),
		sel:     selection.New(),
		perPage: perPage,
		search:  search,
	}
}

// refresh issues a fetch for a page under a fresh token. Every refetch
// clears the selection: the rows it referred to may be gone.
func (v *usersView) refresh(services Services, page int) tea.Cmd {
	v.reqToken++
	v.loading = true
	v.loadError = ""
	v.sel.Clear()
	return services.loadUsers(v.reqToken, page, v.perPage)
}

// reset drops everything tied to the ended session. The token keeps
// counting up so a late response from the old session is still stale.
func (v *usersView) reset() {
	v.reqToken++
	v.loading = false
	v.loaded = false
	v.loadError = ""
	v.unfiltered = nil
	v.window = model.PageWindow{}
	v.sel.Clear()
	v.search.SetValue("")
	v.search.Blur()
	v.searching = false
	v.applyFilter()
}

// handleLoaded applies a fetched page if it is still the newest request.
func (v *usersView) handleLoaded(msg usersLoadedMsg) {
	if msg.token != v.reqToken {
		return
	}
	v.loading = false
	v.loaded = true
	v.unfiltered = msg.page.Records
	v.window = msg.page.Window
	v.applyFilter()
}

// handleLoadFailed records a failed fetch if it is still the newest.
func (v *usersView) handleLoadFailed(msg usersLoadFailedMsg) {
	if msg.token != v.reqToken {
		return
	}
	v.loading = false
	v.loadError = msg.err.Error()
}

// applyFilter recomputes the visible rows from the search query.
func (v *usersView) applyFilter() {
	query := strings.ToLower(strings.TrimSpace(v.search.Value()))
	v.searchActive = query != ""
	if !v.searchActive {
		v.table.SetPage(v.unfiltered, v.window)
		return
	}
	var filtered []model.AccountRecord
	for _, rec := range v.unfiltered {
		if strings.Contains(strings.ToLower(rec.Email), query) ||
			strings.Contains(strings.ToLower(rec.Nickname), query) {
			filtered = append(filtered, rec)
		}
	}
	v.table.SetPage(filtered, v.window)
}

// bulkAction captures the current selection into a pending bulk action.
func (v *usersView) bulkAction(kind model.ActionKind) (model.PendingAction, bool) {
	if v.sel.Len() == 0 {
		return model.PendingAction{}, false
	}
	return model.PendingAction{Kind: kind, TargetIDs: v.sel.IDs()}, true
}

// Update handles directory keys. The returned action, when non-none,
// asks the root model to open the confirmation dialog.
func (v *usersView) Update(msg tea.Msg, services Services) (tea.Cmd, model.PendingAction) {
	none := model.PendingAction{}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil, none
	}

	// Search entry mode captures everything except exit keys.
	if v.searching {
		switch keyMsg.String() {
		case "enter", "esc":
			v.searching = false
			if keyMsg.String() == "esc" {
				v.search.SetValue("")
			}
			v.search.Blur()
			v.applyFilter()
			return nil, none
		}
		var cmd tea.Cmd
		v.search, cmd = v.search.Update(msg)
		v.applyFilter()
		return cmd, none
	}

	switch keyMsg.String() {
	case "up", "k":
		v.table.CursorUp()
	case "down", "j":
		v.table.CursorDown()

	case "left", "h":
		if v.window.HasPrev() {
			return v.refresh(services, v.window.Page-1), none
		}
	case "right", "l":
		if v.window.HasNext() {
			return v.refresh(services, v.window.Page+1), none
		}

	case "r":
		return v.refresh(services, v.window.Page), none

	case "/":
		v.searching = true
		return v.search.Focus(), none

	case " ":
		if rec := v.table.Current(); rec != nil {
			v.sel.Toggle(rec.ID)
		}
	case "a":
		ids := v.table.PageIDs()
		if v.sel.AllSelected(ids) {
			v.sel.DeselectPage(ids)
		} else {
			v.sel.SelectPage(ids)
		}
	case "A":
		v.sel.Clear()

	case "n":
		return nil, model.PendingAction{Kind: model.ActionCreate}
	case "e":
		if rec := v.table.Current(); rec != nil {
			return nil, model.PendingAction{Kind: model.ActionEdit, Account: rec}
		}
	case "d":
		if rec := v.table.Current(); rec != nil {
			return nil, model.PendingAction{Kind: model.ActionDelete, Account: rec}
		}
	case "b":
		if rec := v.table.Current(); rec != nil {
			return nil, model.PendingAction{Kind: model.ActionToggleBan, Account: rec}
		}

	case "D":
		if action, ok := v.bulkAction(model.ActionBulkDelete); ok {
			return nil, action
		}
	case "B":
		if action, ok := v.bulkAction(model.ActionBulkBan); ok {
			return nil, action
		}
	case "U":
		if action, ok := v.bulkAction(model.ActionBulkUnban); ok {
			return nil, action
		}
	}

	return nil, none
}

// View renders the directory tab.
func (v *usersView) View(now time.Time) string {
	var b strings.Builder

	if v.searching || v.searchActive {
		b.WriteString(v.theme.ShortcutKey.Render("/ "))
		b.WriteString(v.search.View())
		b.WriteString("\n")
	}

	switch {
	case v.loading && !v.loaded:
		b.WriteString(v.theme.ShortcutDesc.Render("loading directory..."))
	case v.loadError != "":
		b.WriteString(styles.RenderError(v.loadError))
		b.WriteString("\n")
		b.WriteString(v.table.View(v.sel, now))
	default:
		b.WriteString(v.table.View(v.sel, now))
	}

	return b.String()
}

// shortcuts returns the status bar hints for this tab.
func (v *usersView) shortcuts() []components.Shortcut {
	return []components.Shortcut{
		{Key: "space", Desc: "select"},
		{Key: "a", Desc: "page"},
		{Key: "n/e/d/b", Desc: "new/edit/del/ban"},
		{Key: "D/B/U", Desc: "bulk"},
		{Key: "/", Desc: "filter"},
		{Key: "h/l", Desc: "page"},
		{Key: "ctrl+l", Desc: "sign out"},
	}
}
