// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for the credential store
// control plane.
package model

import "time"

// =============================================================================
// SHARED CREDENTIAL
// =============================================================================

// Credential is a shared TOTP secret owned by the external store. The client
// only ever holds an ephemeral read-only copy; secrets are never re-derived
// or mutated in place, only replaced wholesale (delete + create).
type Credential struct {
	// ID is the store's credential identifier.
	ID string `json:"id"`

	// Label is the display name ("provider_name" on the wire).
	Label string `json:"provider_name"`

	// Secret is the base32-encoded shared secret ("otp_secret" on the wire).
	Secret string `json:"otp_secret"`

	// CreatedAt is when the credential was stored.
	CreatedAt *time.Time `json:"created_at,omitempty"`
}
