// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package admin implements the keydeck admin console.
package admin

import (
	"context"
	"errors"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/keydeck-tui/internal/audit"
	"github.com/jeranaias/keydeck-tui/internal/directory"
	"github.com/jeranaias/keydeck-tui/internal/model"
	"github.com/jeranaias/keydeck-tui/internal/secrets"
	"github.com/jeranaias/keydeck-tui/internal/session"
)

// commandTimeout bounds every API call issued from the UI.
const commandTimeout = 30 * time.Second

// =============================================================================
// SERVICES
// =============================================================================

// Services bundles the clients the console talks to. Audit may be nil
// when the trail is disabled; Tokens receives the access token after
// sign-in so the store clients can authenticate.
type Services struct {
	Auth      *session.Client
	Directory *directory.Client
	Secrets   *secrets.Client
	Audit     *audit.Store
	Tokens    *session.TokenHolder
}

func commandContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), commandTimeout)
}

// =============================================================================
// AUTH COMMANDS
// =============================================================================

// signIn attempts the password grant.
func (s Services) signIn(email, password string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := commandContext()
		defer cancel()
		sess, err := s.Auth.SignIn(ctx, email, password)
		return signInDoneMsg{session: sess, err: err}
	}
}

// resolveRole looks up the operator's role after sign-in.
func (s Services) resolveRole(userID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := commandContext()
		defer cancel()
		state, err := s.Auth.ResolveRole(ctx, userID)
		return roleResolvedMsg{state: state, err: err}
	}
}

// =============================================================================
// FETCH COMMANDS
// =============================================================================

// loadUsers fetches one directory page under a request token.
func (s Services) loadUsers(token uint64, page, perPage int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := commandContext()
		defer cancel()
		p, err := s.Directory.List(ctx, page, perPage)
		if err != nil {
			return usersLoadFailedMsg{token: token, err: err}
		}
		return usersLoadedMsg{token: token, page: p}
	}
}

// loadCredentials fetches the shared credential list.
func (s Services) loadCredentials(token uint64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := commandContext()
		defer cancel()
		creds, err := s.Secrets.List(ctx)
		if err != nil {
			return credsLoadFailedMsg{token: token, err: err}
		}
		return credsLoadedMsg{token: token, creds: creds}
	}
}

// =============================================================================
// MUTATION COMMANDS
// =============================================================================

// createUser creates a directory account.
func (s Services) createUser(nickname, email, password string, expiry directory.Expiry) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := commandContext()
		defer cancel()
		rec, err := s.Directory.Create(ctx, nickname, email, password, expiry)
		done := mutationDoneMsg{action: model.PendingAction{Kind: model.ActionCreate}, err: err}
		if err == nil {
			done.succeeded = 1
			done.action.Account = &rec
		}
		return done
	}
}

// updateUser patches a single account.
func (s Services) updateUser(id string, patch directory.Patch) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := commandContext()
		defer cancel()
		rec, err := s.Directory.Update(ctx, id, patch)
		done := mutationDoneMsg{action: model.PendingAction{Kind: model.ActionEdit}, err: err}
		if err == nil {
			done.succeeded = 1
			done.action.Account = &rec
		}
		return done
	}
}

// removeUsers deletes the action's targets. Single-record deletes go
// through the same bulk endpoint with a one-element set.
func (s Services) removeUsers(action model.PendingAction) tea.Cmd {
	ids := actionTargets(action)
	return func() tea.Msg {
		ctx, cancel := commandContext()
		defer cancel()
		n, err := s.Directory.Remove(ctx, ids)
		return mutationDoneMsg{action: action, succeeded: n, err: err}
	}
}

// setBan bans or unbans the action's targets.
func (s Services) setBan(action model.PendingAction, banned bool) tea.Cmd {
	ids := actionTargets(action)
	return func() tea.Msg {
		ctx, cancel := commandContext()
		defer cancel()
		err := s.Directory.SetBan(ctx, ids, banned)
		done := mutationDoneMsg{action: action, err: err}
		if err == nil {
			done.succeeded = len(ids)
		}
		return done
	}
}

// createCredential stores a new shared secret.
func (s Services) createCredential(label, secret string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := commandContext()
		defer cancel()
		cred, err := s.Secrets.Create(ctx, label, secret)
		done := mutationDoneMsg{action: model.PendingAction{Kind: model.ActionCreateCredential}, err: err}
		if err == nil {
			done.succeeded = 1
			done.action.Credential = &cred
		}
		return done
	}
}

// removeCredential deletes a shared secret.
func (s Services) removeCredential(action model.PendingAction) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := commandContext()
		defer cancel()
		var err error
		if action.Credential == nil {
			err = errors.New("no credential targeted")
		} else {
			err = s.Secrets.Remove(ctx, action.Credential.ID)
		}
		done := mutationDoneMsg{action: action, err: err}
		if err == nil {
			done.succeeded = 1
		}
		return done
	}
}

// actionTargets resolves the id set an action applies to.
func actionTargets(action model.PendingAction) []string {
	if len(action.TargetIDs) > 0 {
		return action.TargetIDs
	}
	if action.Account != nil {
		return []string{action.Account.ID}
	}
	return nil
}

// =============================================================================
// AUDIT COMMANDS
// =============================================================================

// recordAudit appends a finished mutation to the local trail. Best
// effort: a failed write produces no message and no UI impact.
func (s Services) recordAudit(actor string, action model.PendingAction, succeeded int, mutErr error) tea.Cmd {
	if s.Audit == nil {
		return nil
	}
	entry := audit.Entry{
		Actor:   actor,
		Action:  auditName(action.Kind),
		Targets: actionTargets(action),
		Outcome: auditOutcome(succeeded, mutErr),
	}
	if action.Credential != nil {
		entry.Targets = []string{action.Credential.ID}
	}
	return func() tea.Msg {
		ctx, cancel := commandContext()
		defer cancel()
		_ = s.Audit.Append(ctx, entry)
		return nil
	}
}

// auditName maps an action kind to its trail name.
func auditName(kind model.ActionKind) string {
	switch kind {
	case model.ActionCreate:
		return "user.create"
	case model.ActionEdit:
		return "user.update"
	case model.ActionDelete, model.ActionBulkDelete:
		return "user.delete"
	case model.ActionToggleBan, model.ActionBulkBan:
		return "user.ban"
	case model.ActionBulkUnban:
		return "user.unban"
	case model.ActionCreateCredential:
		return "otp.create"
	case model.ActionDeleteCredential:
		return "otp.delete"
	default:
		return "unknown"
	}
}

// auditOutcome summarizes the result for the trail.
func auditOutcome(succeeded int, err error) string {
	if err == nil {
		return "ok"
	}
	var partial *directory.PartialFailure
	if errors.As(err, &partial) {
		return "partial: " + partial.Error()
	}
	return "error: " + strings.TrimSpace(err.Error())
}
