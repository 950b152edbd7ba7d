// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for the credential store
// control plane.
package model

// =============================================================================
// PENDING ACTION
// =============================================================================

// ActionKind enumerates the admin intents that can sit behind a
// confirmation dialog.
type ActionKind int

const (
	ActionNone ActionKind = iota
	ActionCreate
	ActionEdit
	ActionDelete
	ActionToggleBan
	ActionBulkDelete
	ActionBulkBan
	ActionBulkUnban
	ActionCreateCredential
	ActionDeleteCredential
)

// String returns the audit-friendly name of the action.
func (k ActionKind) String() string {
	switch k {
	case ActionCreate:
		return "create"
	case ActionEdit:
		return "edit"
	case ActionDelete:
		return "delete"
	case ActionToggleBan:
		return "toggle-ban"
	case ActionBulkDelete:
		return "bulk-delete"
	case ActionBulkBan:
		return "bulk-ban"
	case ActionBulkUnban:
		return "bulk-unban"
	case ActionCreateCredential:
		return "create-credential"
	case ActionDeleteCredential:
		return "delete-credential"
	default:
		return "none"
	}
}

// Destructive reports whether the action is an irreversible bulk mutation
// that must pass the safety gate cooldown before it can be committed.
// Single-record mutations confirm immediately.
func (k ActionKind) Destructive() bool {
	switch k {
	case ActionBulkDelete, ActionBulkBan, ActionBulkUnban:
		return true
	default:
		return false
	}
}

// Bulk reports whether the action targets a selection of records rather
// than a single one.
func (k ActionKind) Bulk() bool {
	return k.Destructive()
}

// PendingAction is the in-flight admin intent: what the open dialog will do
// when committed, and which entities it targets. Closing the dialog before
// commit discards it with no side effect.
type PendingAction struct {
	// Kind tags the action variant.
	Kind ActionKind

	// Account is the single targeted record for per-record actions.
	Account *AccountRecord

	// Credential is the targeted shared secret for credential actions.
	Credential *Credential

	// TargetIDs is the id set for bulk actions, captured from the
	// SelectionSet when the dialog opened.
	TargetIDs []string
}
