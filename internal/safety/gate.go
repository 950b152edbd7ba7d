// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package safety implements the cooldown state machine guarding
// irreversible bulk mutations.
//
// Opening a bulk-destructive confirmation arms a five-second cooldown; the
// commit control stays disabled until the deadline passes. The deadline is
// computed once at arm time and is never reset by re-renders, so rapid
// re-open/re-close cannot shorten the forced second look. A failed commit
// returns to Ready, not Armed: retrying after a server error needs no new
// cooldown.
package safety

import (
	"errors"
	"time"
)

// Cooldown is the enforced wait before a destructive bulk command becomes
// committable.
const Cooldown = 5 * time.Second

// =============================================================================
// STATES
// =============================================================================

// State is the gate's position in its lifecycle.
type State int

const (
	// StateIdle means no confirmation dialog is open.
	StateIdle State = iota

	// StateArmed means a destructive dialog is open and the cooldown is
	// still running; committing is disabled.
	StateArmed

	// StateReady means the dialog may be committed.
	StateReady

	// StateExecuting means the commit is in flight; every destructive
	// control on the dialog is disabled to prevent double submission.
	StateExecuting

	// StateDone means the commit finished successfully and the dialog
	// should close.
	StateDone
)

// String returns the state name for status display.
func (s State) String() string {
	switch s {
	case StateArmed:
		return "armed"
	case StateReady:
		return "ready"
	case StateExecuting:
		return "executing"
	case StateDone:
		return "done"
	default:
		return "idle"
	}
}

// =============================================================================
// GATE
// =============================================================================

var errNotExecuting = errors.New("safety gate: no commit in flight")

// Gate is the cooldown state machine. It is exclusively owned by the
// admin controller and mutated only by user events and timer callbacks.
type Gate struct {
	state    State
	deadline time.Time
	failure  error
}

// New returns a gate in the idle state.
func New() *Gate {
	return &Gate{state: StateIdle}
}

// Arm opens a destructive confirmation: the gate enters Armed with a
// deadline of now plus the cooldown. The deadline is fixed here and only
// here.
func (g *Gate) Arm(now time.Time) {
	g.state = StateArmed
	g.deadline = now.Add(Cooldown)
	g.failure = nil
}

// Bypass opens a non-destructive confirmation: the gate is immediately
// committable.
func (g *Gate) Bypass() {
	g.state = StateReady
	g.deadline = time.Time{}
	g.failure = nil
}

// Tick advances the cooldown. Once the deadline passes, Armed becomes
// Ready. Ticks in any other state are no-ops.
func (g *Gate) Tick(now time.Time) {
	if g.state == StateArmed && !now.Before(g.deadline) {
		g.state = StateReady
	}
}

// Remaining returns the whole seconds left on the cooldown, rounded up so
// the countdown shows 5,4,3,2,1 rather than flashing 0. Zero outside
// Armed.
func (g *Gate) Remaining(now time.Time) int {
	if g.state != StateArmed {
		return 0
	}
	left := g.deadline.Sub(now)
	if left <= 0 {
		return 0
	}
	secs := int((left + time.Second - 1) / time.Second)
	return secs
}

// CanCommit reports whether the commit control is enabled.
func (g *Gate) CanCommit() bool {
	return g.state == StateReady
}

// Commit moves a Ready gate to Executing. Commits before the cooldown
// elapses are no-ops and report false.
func (g *Gate) Commit() bool {
	if g.state != StateReady {
		return false
	}
	g.state = StateExecuting
	g.failure = nil
	return true
}

// Succeed completes an in-flight commit. The dialog closes and the
// controller clears the selection.
func (g *Gate) Succeed() error {
	if g.state != StateExecuting {
		return errNotExecuting
	}
	g.state = StateDone
	return nil
}

// Fail records a failed commit and returns the gate to Ready. The
// cooldown is deliberately not re-armed: the operator already took the
// forced second look, and a server-side failure may be retried at once.
func (g *Gate) Fail(err error) {
	if g.state != StateExecuting {
		return
	}
	g.state = StateReady
	g.failure = err
}

// Close dismisses the dialog, discarding the pending action with no side
// effect. Closing is always permitted except while a commit is in flight.
func (g *Gate) Close() bool {
	if g.state == StateExecuting {
		return false
	}
	g.state = StateIdle
	g.deadline = time.Time{}
	g.failure = nil
	return true
}

// State returns the current state.
func (g *Gate) State() State { return g.state }

// Failure returns the most recent commit failure, shown inline in the
// dialog while the gate sits at Ready.
func (g *Gate) Failure() error { return g.failure }
