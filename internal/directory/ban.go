// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package directory is the paginated query and mutation facade over the
// external identity API.
package directory

import "time"

// The store encodes "banned" as a very-long-duration ban rather than a
// boolean flag. That convention is fragile and external; it lives behind
// these two functions and nothing else in the system ever sees a
// duration string.

const (
	// permanentBanDuration is the sentinel the store treats as an
	// effectively permanent ban (~100 years).
	permanentBanDuration = "876000h"

	// liftBanDuration clears an existing ban.
	liftBanDuration = "none"
)

// BanRequest translates the boolean intent into the store's duration
// encoding.
func BanRequest(banned bool) string {
	if banned {
		return permanentBanDuration
	}
	return liftBanDuration
}

// IsBanned reports whether a ban timestamp means "currently banned".
// A ban expiry in the future is the single source of truth; there is no
// separate flag.
func IsBanned(bannedUntil *time.Time, now time.Time) bool {
	return bannedUntil != nil && bannedUntil.After(now)
}
