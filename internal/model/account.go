// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for the credential store
// control plane.
package model

import "time"

// =============================================================================
// ACCOUNT RECORD
// =============================================================================

// AccountRole identifies the privilege level of a directory account.
type AccountRole string

const (
	// RoleAdmin grants access to all destructive operations.
	RoleAdmin AccountRole = "admin"

	// RoleStandard is the default, least-privilege role.
	RoleStandard AccountRole = "standard"
)

// AccountRecord is a single directory account as returned by the external
// identity API. The client never holds authoritative state: every list view
// is a fresh fetch keyed by page, and mutations are always followed by a
// refetch rather than a local patch.
type AccountRecord struct {
	// ID is the identity provider's opaque account identifier.
	ID string `json:"id"`

	// Email is the sign-in address. May be a derived placeholder for
	// accounts provisioned without one.
	Email string `json:"email"`

	// Nickname is the display name ("username" on the wire).
	Nickname string `json:"username"`

	// Role is the account's privilege level as reported by the store.
	Role AccountRole `json:"role,omitempty"`

	// CreatedAt is when the account was provisioned.
	CreatedAt time.Time `json:"created_at"`

	// LastSignInAt is the most recent authentication, if any.
	LastSignInAt *time.Time `json:"last_sign_in_at,omitempty"`

	// BannedUntil is the ban expiry. Nil means not banned; a far-future
	// timestamp is the store's encoding of a permanent ban. Treat "has a
	// future timestamp" as the single source of truth for banned status.
	BannedUntil *time.Time `json:"banned_until,omitempty"`

	// ExpiresAt is the access expiration. Nil means the account never
	// expires.
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// Expired reports whether the account's access has lapsed at the given
// instant. Accounts without an expiry never expire.
func (a AccountRecord) Expired(now time.Time) bool {
	return a.ExpiresAt != nil && a.ExpiresAt.Before(now)
}

// =============================================================================
// PAGE WINDOW
// =============================================================================

// DefaultPageSize is the fixed directory page size.
const DefaultPageSize = 10

// PageWindow describes one page of a paginated result set.
// Page numbers are 1-based and always clamped to [1, TotalPages()].
type PageWindow struct {
	// Page is the current 1-based page number.
	Page int `json:"page"`

	// PerPage is the page size.
	PerPage int `json:"per_page"`

	// Total is the total record count across all pages.
	Total int `json:"total"`
}

// NewPageWindow returns a window for the given page clamped against the
// given totals.
func NewPageWindow(page, perPage, total int) PageWindow {
	w := PageWindow{Page: page, PerPage: perPage, Total: total}
	if w.PerPage < 1 {
		w.PerPage = DefaultPageSize
	}
	w.Page = w.Clamp(page)
	return w
}

// TotalPages returns ceil(Total / PerPage), minimum 1.
func (w PageWindow) TotalPages() int {
	if w.PerPage < 1 {
		return 1
	}
	pages := (w.Total + w.PerPage - 1) / w.PerPage
	if pages < 1 {
		pages = 1
	}
	return pages
}

// Clamp returns page forced into [1, TotalPages()].
func (w PageWindow) Clamp(page int) int {
	if page < 1 {
		return 1
	}
	if max := w.TotalPages(); page > max {
		return max
	}
	return page
}

// HasPrev reports whether a previous page exists.
func (w PageWindow) HasPrev() bool { return w.Page > 1 }

// HasNext reports whether a following page exists.
func (w PageWindow) HasNext() bool { return w.Page < w.TotalPages() }
