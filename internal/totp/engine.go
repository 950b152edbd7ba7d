// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package totp derives time-based one-time passwords from shared base32
// secrets and keeps displayed codes synchronized to the wall clock.
package totp

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

// =============================================================================
// CONSTANTS & ERRORS
// =============================================================================

const (
	// Period is the RFC 6238 time-step in seconds.
	Period = 30

	// Digits is the derived code length.
	Digits = 6

	// UrgentThreshold is the remaining-seconds boundary below which the
	// UI switches the progress indicator to its warning color.
	UrgentThreshold = 6
)

// ErrInvalidSecret indicates the shared secret is not valid base32.
// Callers render an error state; they never crash on a bad secret.
var ErrInvalidSecret = errors.New("invalid base32 secret")

// =============================================================================
// CODE DERIVATION
// =============================================================================

// Code is a derived one-time password. It is never persisted; it is
// recomputed fresh every second from the credential and the current instant.
type Code struct {
	// Digits is the 6-digit zero-padded code.
	Digits string

	// SecondsRemaining is the code's remaining validity, always in
	// [1, Period]. It reaches exactly Period immediately after a rotation
	// boundary and counts down to 1, never 0.
	SecondsRemaining int
}

// Formatted returns the code grouped for display, e.g. "123 456".
func (c Code) Formatted() string {
	if len(c.Digits) != Digits {
		return c.Digits
	}
	return c.Digits[:3] + " " + c.Digits[3:]
}

// Generate derives the current code for a base32 secret at the given
// instant. It is a pure function: no hidden state, no I/O, safe for any
// number of tickers to call concurrently.
//
// The secret is upper-cased and stripped of whitespace before decoding;
// secrets pasted from provider setup pages routinely contain both.
func Generate(secret string, now time.Time) (Code, error) {
	normalized := normalizeSecret(secret)
	if normalized == "" {
		return Code{}, fmt.Errorf("%w: empty secret", ErrInvalidSecret)
	}

	digits, err := totp.GenerateCodeCustom(normalized, now, totp.ValidateOpts{
		Period:    Period,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
	if err != nil {
		return Code{}, fmt.Errorf("%w: %v", ErrInvalidSecret, err)
	}

	return Code{
		Digits:           digits,
		SecondsRemaining: SecondsRemaining(now),
	}, nil
}

// SecondsRemaining returns how long the current 30-second window has left
// at the given instant. The result is in [1, Period]: a fresh window
// reports Period, and the final second reports 1 rather than 0 so the
// countdown never double-renders at the boundary.
func SecondsRemaining(now time.Time) int {
	return Period - int(now.Unix()%Period)
}

// normalizeSecret prepares a pasted secret for base32 decoding.
func normalizeSecret(secret string) string {
	return strings.ToUpper(strings.Join(strings.Fields(secret), ""))
}
