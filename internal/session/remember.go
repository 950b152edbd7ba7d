// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session manages the operator's identity-provider session.
package session

import (
	"os"
	"path/filepath"
	"strings"
)

// rememberedEmailFile holds the single piece of local persisted state:
// the login email the operator asked to remember. Tokens and secrets are
// never written to disk.
const rememberedEmailFile = "login_email"

// RememberedEmailStore persists the remembered login email under the
// application data directory.
type RememberedEmailStore struct {
	dir string
}

// NewRememberedEmailStore creates a store rooted at dir.
func NewRememberedEmailStore(dir string) *RememberedEmailStore {
	return &RememberedEmailStore{dir: dir}
}

// Load returns the remembered email, or empty if none is stored.
func (s *RememberedEmailStore) Load() string {
	raw, err := os.ReadFile(filepath.Join(s.dir, rememberedEmailFile))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(raw))
}

// Save stores the email for the next login.
func (s *RememberedEmailStore) Save(email string) error {
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(s.dir, rememberedEmailFile), []byte(email+"\n"), 0o600)
}

// Forget removes any remembered email. Missing state is not an error.
func (s *RememberedEmailStore) Forget() error {
	err := os.Remove(filepath.Join(s.dir, rememberedEmailFile))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
