// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package admin implements the keydeck admin console.
package admin

import (
	"crypto/rand"
	"encoding/base32"
	"math/big"
	"strconv"
)

// secretBytes is the entropy for generated shared secrets: 20 bytes is
// the RFC 4226 recommended minimum for HMAC-SHA1, and encodes to 32
// base32 characters with no padding.
const secretBytes = 20

// randomSecret generates a fresh base32 shared secret for the
// credential form's generate shortcut.
func randomSecret() (string, error) {
	buf := make([]byte, secretBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(buf), nil
}

// passwordBytes encodes to a 20-character base32 password.
const passwordBytes = 12

// Word lists for generated nicknames: adjective-noun-number reads
// aloud over a call, unlike raw entropy.
var (
	nicknameAdjectives = []string{
		"brave", "calm", "clever", "eager", "gentle", "jolly",
		"lucky", "mighty", "nimble", "proud", "quick", "swift",
	}
	nicknameNouns = []string{
		"badger", "falcon", "heron", "lynx", "marten", "osprey",
		"otter", "raven", "stoat", "tern", "vole", "wren",
	}
)

// randomIndex picks a uniform index below n.
func randomIndex(n int) (int, error) {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, err
	}
	return int(v.Int64()), nil
}

// randomNickname generates an adjective-noun-number display name for
// the create-account form's generate shortcut.
func randomNickname() (string, error) {
	adj, err := randomIndex(len(nicknameAdjectives))
	if err != nil {
		return "", err
	}
	noun, err := randomIndex(len(nicknameNouns))
	if err != nil {
		return "", err
	}
	num, err := randomIndex(100)
	if err != nil {
		return "", err
	}
	return nicknameAdjectives[adj] + "-" + nicknameNouns[noun] + "-" + strconv.Itoa(num), nil
}

// randomPassword generates an initial password for a created account.
// The operator hands it over out of band; the user changes it on first
// sign-in.
func randomPassword() (string, error) {
	buf := make([]byte, passwordBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(buf), nil
}
