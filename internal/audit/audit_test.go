// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package audit

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "nested", "audit.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestAppendAndRecent(t *testing.T) {
	store := openTemp(t)
	ctx := context.Background()

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for i, action := range []string{"user.create", "user.ban", "otp.delete"} {
		err := store.Append(ctx, Entry{
			At:      base.Add(time.Duration(i) * time.Minute),
			Actor:   "op@example.com",
			Action:  action,
			Targets: []string{"id-1", "id-2"},
			Outcome: "ok",
		})
		if err != nil {
			t.Fatalf("Append(%s) error = %v", action, err)
		}
	}

	got, err := store.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Recent(2) returned %d entries", len(got))
	}
	if got[0].Action != "otp.delete" || got[1].Action != "user.ban" {
		t.Errorf("Recent() order = %s, %s; want newest first", got[0].Action, got[1].Action)
	}
	if len(got[0].Targets) != 2 || got[0].Targets[0] != "id-1" {
		t.Errorf("Targets round-trip = %v", got[0].Targets)
	}
	if got[0].ID == "" {
		t.Error("Append() should assign an ID when the caller leaves it empty")
	}
}

func TestRecentEmptyStore(t *testing.T) {
	store := openTemp(t)

	got, err := store.Recent(context.Background(), 10)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Recent() on empty store returned %d entries", len(got))
	}
}

func TestEmptyTargets(t *testing.T) {
	store := openTemp(t)
	ctx := context.Background()

	if err := store.Append(ctx, Entry{Actor: "op@example.com", Action: "session.login", Outcome: "ok"}); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	got, err := store.Recent(ctx, 1)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(got[0].Targets) != 0 {
		t.Errorf("empty target list came back as %v", got[0].Targets)
	}
}

func TestClosedStore(t *testing.T) {
	store := openTemp(t)
	store.Close()

	if err := store.Append(context.Background(), Entry{Action: "user.create"}); err != ErrClosed {
		t.Errorf("Append() after Close = %v, want ErrClosed", err)
	}
	if _, err := store.Recent(context.Background(), 1); err != ErrClosed {
		t.Errorf("Recent() after Close = %v, want ErrClosed", err)
	}
}

func TestOpenIsIdempotentAcrossRuns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.db")

	first, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := first.Append(context.Background(), Entry{Actor: "op", Action: "user.create", Outcome: "ok"}); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	first.Close()

	second, err := Open(path)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer second.Close()

	got, err := second.Recent(context.Background(), 5)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(got) != 1 {
		t.Errorf("entries survive reopen: got %d, want 1", len(got))
	}
}
