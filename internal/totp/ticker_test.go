// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package totp

import (
	"testing"
	"time"

	"github.com/jeranaias/keydeck-tui/internal/model"
)

func testCredential() model.Credential {
	return model.Credential{
		ID:     "cred-1",
		Label:  "Example Provider",
		Secret: rfcSecret,
	}
}

func TestNewTickerDerivesImmediately(t *testing.T) {
	tk := NewTicker(testCredential())

	if tk.Err() != nil {
		t.Fatalf("NewTicker error: %v", tk.Err())
	}
	if len(tk.Code().Digits) != Digits {
		t.Errorf("initial code = %q, want %d digits", tk.Code().Digits, Digits)
	}
	if r := tk.Code().SecondsRemaining; r < 1 || r > Period {
		t.Errorf("initial SecondsRemaining = %d, outside [1, %d]", r, Period)
	}
}

func TestNewTickerInvalidSecretRendersError(t *testing.T) {
	tk := NewTicker(model.Credential{ID: "bad", Label: "Broken", Secret: "!!!"})

	if tk.Err() == nil {
		t.Fatal("expected error state for invalid secret")
	}
	if tk.Urgent() {
		t.Error("error-state ticker should never report urgent")
	}
	if tk.CopyCmd() != nil {
		t.Error("error-state ticker should not offer a copy command")
	}
}

func TestTickerIgnoresForeignInstances(t *testing.T) {
	tk := NewTicker(testCredential())
	before := tk.Code()

	updated, cmd := tk.Update(TickMsg{Instance: "someone-else", Time: time.Now()})
	if cmd != nil {
		t.Error("foreign tick must not re-arm the timer")
	}
	if updated.Code() != before {
		t.Error("foreign tick must not change the displayed code")
	}

	updated, cmd = tk.Update(CopiedMsg{Instance: "someone-else"})
	if cmd != nil || updated.Copied() {
		t.Error("foreign copy message must not flip the indicator")
	}
}

func TestTickerTickRegeneratesAndRearms(t *testing.T) {
	tk := NewTicker(testCredential())

	updated, cmd := tk.Update(TickMsg{Instance: tk.instance, Time: time.Unix(59, 0)})
	if cmd == nil {
		t.Fatal("tick must re-arm the timer")
	}
	if updated.Code().Digits != "287082" {
		t.Errorf("tick regenerated %q, want RFC vector %q", updated.Code().Digits, "287082")
	}
	if updated.Code().SecondsRemaining != 1 {
		t.Errorf("SecondsRemaining = %d, want 1 at t=59", updated.Code().SecondsRemaining)
	}
}

func TestTickerCopiedIndicatorLifecycle(t *testing.T) {
	tk := NewTicker(testCredential())

	updated, cmd := tk.Update(CopiedMsg{Instance: tk.instance})
	if !updated.Copied() {
		t.Fatal("CopiedMsg should flip the indicator")
	}
	if cmd == nil {
		t.Fatal("CopiedMsg should schedule the one-shot reset")
	}

	reverted, _ := updated.Update(copyResetMsg{Instance: tk.instance})
	if reverted.Copied() {
		t.Error("copyResetMsg should clear the indicator")
	}
}

func TestTickerUrgent(t *testing.T) {
	tk := NewTicker(testCredential())

	calm, _ := tk.Update(TickMsg{Instance: tk.instance, Time: time.Unix(30, 0)})
	if calm.Urgent() {
		t.Errorf("SecondsRemaining=%d should not be urgent", calm.Code().SecondsRemaining)
	}

	urgent, _ := tk.Update(TickMsg{Instance: tk.instance, Time: time.Unix(55, 0)})
	if !urgent.Urgent() {
		t.Errorf("SecondsRemaining=%d should be urgent", urgent.Code().SecondsRemaining)
	}
}

func TestTickerMatches(t *testing.T) {
	cred := testCredential()
	tk := NewTicker(cred)

	if !tk.Matches(cred) {
		t.Error("ticker should match its own credential")
	}

	rotated := cred
	rotated.Secret = "JBSWY3DPEHPK3PXP"
	if tk.Matches(rotated) {
		t.Error("changed secret identity must force a ticker restart")
	}

	other := cred
	other.ID = "cred-2"
	if tk.Matches(other) {
		t.Error("different credential id must not match")
	}
}

func TestReplacementTickerGetsNewInstance(t *testing.T) {
	cred := testCredential()
	first := NewTicker(cred)
	second := NewTicker(cred)

	if first.instance == second.instance {
		t.Error("replacement tickers must not share an instance id")
	}

	// The old instance's in-flight tick must not drive the new ticker.
	updated, cmd := second.Update(TickMsg{Instance: first.instance, Time: time.Unix(59, 0)})
	if cmd != nil {
		t.Error("stale instance tick must be dropped")
	}
	if updated.Code() != second.Code() {
		t.Error("stale instance tick must not change the code")
	}
}
