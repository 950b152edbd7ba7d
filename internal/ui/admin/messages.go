// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package admin implements the keydeck admin console.
package admin

import (
	"github.com/jeranaias/keydeck-tui/internal/directory"
	"github.com/jeranaias/keydeck-tui/internal/model"
	"github.com/jeranaias/keydeck-tui/internal/session"
)

// =============================================================================
// AUTH MESSAGES
// =============================================================================

// signInDoneMsg carries the outcome of a sign-in attempt.
type signInDoneMsg struct {
	session session.Session
	err     error
}

// roleResolvedMsg carries the outcome of the async role lookup. The
// console stays usable in least-privilege mode while it is in flight.
type roleResolvedMsg struct {
	state model.RoleState
	err   error
}

// =============================================================================
// DIRECTORY MESSAGES
// =============================================================================

// usersLoadedMsg carries one fetched directory page. Token is the
// request token captured when the fetch was issued; the view drops
// pages whose token is older than the newest issued request, so the
// last writer wins regardless of response ordering.
type usersLoadedMsg struct {
	token uint64
	page  directory.Page
}

// usersLoadFailedMsg reports a failed page fetch.
type usersLoadFailedMsg struct {
	token uint64
	err   error
}

// =============================================================================
// CREDENTIAL MESSAGES
// =============================================================================

// credsLoadedMsg carries the full credential list.
type credsLoadedMsg struct {
	token uint64
	creds []model.Credential
}

// credsLoadFailedMsg reports a failed credential fetch.
type credsLoadFailedMsg struct {
	token uint64
	err   error
}

// =============================================================================
// MUTATION MESSAGES
// =============================================================================

// mutationDoneMsg reports a finished mutation of either store. On
// success err is nil; partial bulk failures arrive as a
// *directory.PartialFailure inside err with succeeded counting the
// records that did go through.
type mutationDoneMsg struct {
	action    model.PendingAction
	succeeded int
	err       error
}

// statusClearMsg expires the transient status line.
type statusClearMsg struct {
	generation int
}
