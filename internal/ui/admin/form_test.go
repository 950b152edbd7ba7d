// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package admin

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/keydeck-tui/internal/model"
	"github.com/jeranaias/keydeck-tui/internal/ui/styles"
)

var errTest = errors.New("save failed")

func TestUserFormValidation(t *testing.T) {
	f := newUserForm(styles.NewTheme())
	f.ShowCreate()

	if cmd := f.submit(Services{}); cmd != nil {
		t.Error("empty create form should not submit")
	}
	if f.errText == "" {
		t.Error("validation error should be recorded")
	}

	f.nickname.SetValue("shadow walker")
	f.password.SetValue("pw")
	f.expiry.SetValue("not-a-date")
	if cmd := f.submit(Services{}); cmd != nil {
		t.Error("bad expiry should not submit")
	}

	f.expiry.SetValue("2025-07-15")
	if cmd := f.submit(Services{}); cmd == nil {
		t.Error("valid form should submit")
	}
	if !f.busy {
		t.Error("submitting form should be busy")
	}
}

func TestUserFormEditPrefillsAndPatchesOnlyChanges(t *testing.T) {
	f := newUserForm(styles.NewTheme())
	expires := time.Date(2025, 7, 15, 23, 59, 59, 0, time.UTC)
	f.ShowEdit(model.AccountRecord{ID: "u1", Nickname: "old", Email: "old@example.com", ExpiresAt: &expires})

	if f.nickname.Value() != "old" {
		t.Errorf("nickname prefill = %q", f.nickname.Value())
	}
	if f.expiry.Value() != "2025-07-15" {
		t.Errorf("expiry prefill = %q", f.expiry.Value())
	}

	// Unchanged fields stay out of the patch; an empty password means
	// unchanged in edit mode.
	if cmd := f.submit(Services{}); cmd == nil {
		t.Error("edit with no changes still submits (expiry is always sent)")
	}
}

func TestUserFormFinish(t *testing.T) {
	f := newUserForm(styles.NewTheme())
	f.ShowCreate()
	f.busy = true

	f.finish(errTest)
	if !f.IsVisible() {
		t.Error("failed save keeps the form open")
	}
	if f.busy {
		t.Error("failed save clears busy")
	}

	f.finish(nil)
	if f.IsVisible() {
		t.Error("successful save closes the form")
	}
}

func TestUserFormEscCloses(t *testing.T) {
	f := newUserForm(styles.NewTheme())
	f.ShowCreate()

	_, handled := f.Update(tea.KeyMsg{Type: tea.KeyEscape}, Services{})
	if !handled {
		t.Fatal("open form should consume esc")
	}
	if f.IsVisible() {
		t.Error("esc should close the form")
	}
}

func TestCredFormEscCloses(t *testing.T) {
	f := newCredForm(styles.NewTheme())
	f.Show()

	if _, handled := f.Update(tea.KeyMsg{Type: tea.KeyEscape}, Services{}); !handled {
		t.Fatal("open form should consume esc")
	}
	if f.IsVisible() {
		t.Error("esc should close the form")
	}
}

func TestUserFormGenerateFillsCreateOnly(t *testing.T) {
	f := newUserForm(styles.NewTheme())
	f.ShowCreate()

	f.Update(tea.KeyMsg{Type: tea.KeyCtrlG}, Services{})
	nickname := f.nickname.Value()
	if nickname == "" {
		t.Fatal("generate should fill the nickname")
	}
	if parts := strings.Split(nickname, "-"); len(parts) != 3 {
		t.Errorf("nickname = %q, want adjective-noun-number", nickname)
	}
	if f.password.Value() == "" {
		t.Error("generate should fill the password")
	}

	// Edit mode must never swap a live account's name or password.
	edit := newUserForm(styles.NewTheme())
	edit.ShowEdit(model.AccountRecord{ID: "u1", Nickname: "keep", Email: "keep@example.com"})
	edit.Update(tea.KeyMsg{Type: tea.KeyCtrlG}, Services{})
	if edit.nickname.Value() != "keep" {
		t.Errorf("edit nickname = %q, want untouched %q", edit.nickname.Value(), "keep")
	}
	if edit.password.Value() != "" {
		t.Error("edit password should stay empty")
	}
}

func TestRandomNicknameAndPassword(t *testing.T) {
	nickname, err := randomNickname()
	if err != nil {
		t.Fatalf("randomNickname() error = %v", err)
	}
	parts := strings.Split(nickname, "-")
	if len(parts) != 3 {
		t.Fatalf("nickname = %q, want three dash-joined parts", nickname)
	}

	password, err := randomPassword()
	if err != nil {
		t.Fatalf("randomPassword() error = %v", err)
	}
	if len(password) != 20 {
		t.Errorf("password length = %d, want 20", len(password))
	}
	other, _ := randomPassword()
	if password == other {
		t.Error("two generated passwords should differ")
	}
}

func TestCredFormGenerate(t *testing.T) {
	secret, err := randomSecret()
	if err != nil {
		t.Fatalf("randomSecret() error = %v", err)
	}
	if len(secret) != 32 {
		t.Errorf("secret length = %d, want 32 base32 chars", len(secret))
	}
	for _, r := range secret {
		if !((r >= 'A' && r <= 'Z') || (r >= '2' && r <= '7')) {
			t.Fatalf("secret contains non-base32 rune %q", r)
		}
	}

	other, _ := randomSecret()
	if secret == other {
		t.Error("two generated secrets should differ")
	}
}

func TestCredFormValidation(t *testing.T) {
	f := newCredForm(styles.NewTheme())
	f.Show()

	if cmd := f.submit(Services{}); cmd != nil {
		t.Error("empty credential form should not submit")
	}

	f.label.SetValue("GitHub")
	f.secret.SetValue("JBSWY3DPEHPK3PXP")
	if cmd := f.submit(Services{}); cmd == nil {
		t.Error("valid credential form should submit")
	}
}
