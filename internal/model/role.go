// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for the credential store
// control plane.
package model

// =============================================================================
// TWO-PHASE ROLE STATE
// =============================================================================

// RoleState models the operator's role as an explicit two-phase value.
// The role is not embedded in the session token; it is resolved by a
// separate async lookup keyed by the user id. Until that lookup completes
// every authorization check answers least privilege.
type RoleState struct {
	resolved bool
	role     AccountRole
}

// UnresolvedRole returns the initial, least-privilege state.
func UnresolvedRole() RoleState {
	return RoleState{}
}

// ResolvedRole returns a state carrying the looked-up role.
func ResolvedRole(role AccountRole) RoleState {
	return RoleState{resolved: true, role: role}
}

// Resolved reports whether the role lookup has completed.
func (s RoleState) Resolved() bool { return s.resolved }

// IsAdmin reports whether the operator is a resolved admin.
// Unresolved states are never admin.
func (s RoleState) IsAdmin() bool {
	return s.resolved && s.role == RoleAdmin
}

// Role returns the resolved role, or RoleStandard while unresolved.
func (s RoleState) Role() AccountRole {
	if !s.resolved {
		return RoleStandard
	}
	return s.role
}
