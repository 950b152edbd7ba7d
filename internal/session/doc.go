// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session manages the operator's identity-provider session.
//
// The provider hands back an opaque bearer token and a user id; the
// operator's role is NOT embedded in the token. It is resolved by a
// separate async lookup keyed by that id, and every authorization check
// answers least privilege until the lookup lands. The only local state
// this package persists is the remembered login email.
package session
