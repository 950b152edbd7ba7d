// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package totp derives time-based one-time passwords from shared base32
// secrets and keeps displayed codes synchronized to the wall clock.
//
// The package has two halves:
//
//   - Generate: a pure RFC 6238 code derivation. Any number of callers
//     sharing a secret and a 30-second window get the identical code,
//     which is the core correctness property of the control plane.
//   - Ticker: a Bubble Tea component that re-derives one credential's
//     code once per second, aligned to wall-clock second boundaries so a
//     ticker created mid-window immediately shows the true remaining time.
package totp
