// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session handles operator authentication against the auth
// endpoint of the backing store.
package session

import "sync"

// TokenHolder is a concurrency-safe holder for the active access
// token. The API clients read it on every request, so a sign-in that
// lands mid-flight takes effect on the next call.
type TokenHolder struct {
	mu    sync.RWMutex
	token string
}

// Set replaces the active token.
func (h *TokenHolder) Set(token string) {
	h.mu.Lock()
	h.token = token
	h.mu.Unlock()
}

// Get returns the active token, or empty before sign-in.
func (h *TokenHolder) Get() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.token
}
