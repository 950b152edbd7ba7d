// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the authenticated HTTP plumbing shared by the
// directory and shared-secret clients.
package api

import (
	"errors"
	"fmt"
)

// =============================================================================
// ERROR TAXONOMY
// =============================================================================

// Sentinel errors for the store's failure modes. Callers branch with
// errors.Is; the wrapped APIError keeps the wire detail for display.
var (
	// ErrValidation indicates user-correctable bad input, shown inline
	// in the active dialog.
	ErrValidation = errors.New("validation failed")

	// ErrUnauthorized indicates a missing or expired session. It is not
	// locally recoverable; the controller forces re-authentication.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNotFound indicates the target record no longer exists.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates a uniqueness conflict on create.
	ErrAlreadyExists = errors.New("already exists")

	// ErrUnavailable indicates the store could not be reached or answered
	// with a server error. List views render empty with a retry
	// affordance; it never interrupts the view.
	ErrUnavailable = errors.New("directory unavailable")
)

// APIError carries the wire-level detail of a non-success response.
type APIError struct {
	Status  int
	Code    string
	Message string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("store error [%s] (HTTP %d): %s", e.Code, e.Status, e.Message)
	}
	return fmt.Sprintf("store error (HTTP %d): %s", e.Status, e.Message)
}

// wireError is the error envelope the store's functions return. Older
// deployments send a bare string, newer ones an object.
type wireError struct {
	Error   any    `json:"error"`
	Message string `json:"message"`
}

// message extracts the human-readable error text, if any.
func (w wireError) message() string {
	switch v := w.Error.(type) {
	case string:
		if v != "" {
			return v
		}
	case map[string]any:
		if m, ok := v["message"].(string); ok && m != "" {
			return m
		}
	}
	return w.Message
}
