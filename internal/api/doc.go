// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the authenticated HTTP plumbing shared by the
// directory and shared-secret clients.
//
// It owns the concerns every call against the external store has in
// common: bearer authentication, JSON encoding, bounded response reads,
// a client-side rate limit, retry with exponential backoff for idempotent
// requests, and the mapping from HTTP statuses to the control plane's
// error taxonomy.
package api
