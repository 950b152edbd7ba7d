// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package safety

import (
	"errors"
	"testing"
	"time"
)

var t0 = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func TestArmStartsCooldown(t *testing.T) {
	g := New()
	g.Arm(t0)

	if g.State() != StateArmed {
		t.Fatalf("state = %v, want Armed", g.State())
	}
	if g.CanCommit() {
		t.Error("commit must be disabled while armed")
	}
	if got := g.Remaining(t0); got != 5 {
		t.Errorf("Remaining at arm time = %d, want 5", got)
	}
}

func TestCommitBeforeCooldownIsNoop(t *testing.T) {
	g := New()
	g.Arm(t0)

	for elapsed := time.Duration(0); elapsed < Cooldown; elapsed += time.Second {
		g.Tick(t0.Add(elapsed))
		if elapsed < Cooldown && g.Commit() {
			t.Fatalf("Commit succeeded %v into the cooldown", elapsed)
		}
	}
	if g.State() == StateExecuting {
		t.Error("no commit should have gone through")
	}
}

func TestCooldownCountdownAndRelease(t *testing.T) {
	g := New()
	g.Arm(t0)

	want := []int{5, 4, 3, 2, 1}
	for i, w := range want {
		now := t0.Add(time.Duration(i) * time.Second)
		g.Tick(now)
		if got := g.Remaining(now); got != w {
			t.Errorf("Remaining after %ds = %d, want %d", i, got, w)
		}
	}

	// At exactly the deadline the gate opens.
	release := t0.Add(Cooldown)
	g.Tick(release)
	if !g.CanCommit() {
		t.Error("gate should be committable at exactly the deadline")
	}
	if got := g.Remaining(release); got != 0 {
		t.Errorf("Remaining after release = %d, want 0", got)
	}
}

func TestDeadlineNotResetByRearmAttempts(t *testing.T) {
	// Re-renders call Tick repeatedly; only Arm sets the deadline.
	g := New()
	g.Arm(t0)

	for i := 0; i < 100; i++ {
		g.Tick(t0.Add(2 * time.Second))
	}
	if g.CanCommit() {
		t.Error("repeated ticks before the deadline must not open the gate")
	}
	if got := g.Remaining(t0.Add(2 * time.Second)); got != 3 {
		t.Errorf("Remaining = %d, want 3", got)
	}
}

func TestBypassForNonDestructiveDialogs(t *testing.T) {
	g := New()
	g.Bypass()

	if !g.CanCommit() {
		t.Error("non-destructive dialogs bypass the cooldown entirely")
	}
	if got := g.Remaining(t0); got != 0 {
		t.Errorf("Remaining = %d for bypassed gate, want 0", got)
	}
}

func TestCommitLifecycleSuccess(t *testing.T) {
	g := New()
	g.Arm(t0)
	g.Tick(t0.Add(Cooldown))

	if !g.Commit() {
		t.Fatal("Commit should succeed once ready")
	}
	if g.State() != StateExecuting {
		t.Fatalf("state = %v, want Executing", g.State())
	}
	if g.Commit() {
		t.Error("double commit must be rejected while executing")
	}
	if g.Close() {
		t.Error("closing must be refused while a commit is in flight")
	}

	if err := g.Succeed(); err != nil {
		t.Fatalf("Succeed error: %v", err)
	}
	if g.State() != StateDone {
		t.Errorf("state = %v, want Done", g.State())
	}
}

func TestFailedCommitReturnsToReadyNotArmed(t *testing.T) {
	g := New()
	g.Arm(t0)
	g.Tick(t0.Add(Cooldown))
	g.Commit()

	serverErr := errors.New("partial failure upstream")
	g.Fail(serverErr)

	if g.State() != StateReady {
		t.Fatalf("state after failure = %v, want Ready", g.State())
	}
	if !g.CanCommit() {
		t.Error("a failed attempt may be retried immediately, no new cooldown")
	}
	if !errors.Is(g.Failure(), serverErr) {
		t.Errorf("Failure() = %v, want recorded server error", g.Failure())
	}
}

func TestCloseDiscardsBeforeExecute(t *testing.T) {
	g := New()
	g.Arm(t0)

	if !g.Close() {
		t.Fatal("closing an armed dialog must be permitted")
	}
	if g.State() != StateIdle {
		t.Errorf("state after close = %v, want Idle", g.State())
	}

	g.Bypass()
	if !g.Close() {
		t.Error("closing a ready dialog must be permitted")
	}
}

func TestSucceedOutsideExecuting(t *testing.T) {
	g := New()
	if err := g.Succeed(); err == nil {
		t.Error("Succeed outside Executing should error")
	}

	// Fail outside Executing is a silent no-op.
	g.Fail(errors.New("ignored"))
	if g.State() != StateIdle {
		t.Errorf("state = %v, want Idle", g.State())
	}
}
