// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for the credential store
// control plane.
//
// This package defines the domain types shared by the API clients and the
// UI: directory accounts, shared credentials, pagination windows, pending
// admin actions and the two-phase operator role state.
//
// # Key Types
//
//   - AccountRecord: A directory account as returned by the identity API
//   - Credential: A shared TOTP secret owned by the external store
//   - PageWindow: A clamped 1-based pagination window
//   - PendingAction: The in-flight admin intent behind a confirmation dialog
//   - RoleState: Async-resolved operator role, least privilege until resolved
package model
