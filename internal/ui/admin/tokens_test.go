// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package admin

import (
	"strings"
	"testing"

	"github.com/jeranaias/keydeck-tui/internal/model"
	"github.com/jeranaias/keydeck-tui/internal/ui/styles"
)

const boardSecret = "GEZDGNBVGEZDGNBVGEZDGNBVGEZDGNBV"

func TestReconcileKeepsMatchingTickers(t *testing.T) {
	v := newTokensView(styles.NewTheme())
	v.refresh(Services{})

	v.handleLoaded(credsLoadedMsg{token: v.reqToken, creds: []model.Credential{
		{ID: "c1", Label: "GitHub", Secret: boardSecret},
		{ID: "c2", Label: "AWS", Secret: boardSecret},
	}})
	if len(v.tickers) != 2 {
		t.Fatalf("tickers = %d, want 2", len(v.tickers))
	}
	kept := v.tickers[0].Instance()

	// Same list again: instances survive.
	v.refresh(Services{})
	v.handleLoaded(credsLoadedMsg{token: v.reqToken, creds: []model.Credential{
		{ID: "c1", Label: "GitHub", Secret: boardSecret},
		{ID: "c2", Label: "AWS", Secret: boardSecret},
	}})
	if v.tickers[0].Instance() != kept {
		t.Error("unchanged credential should keep its ticker instance")
	}
}

func TestReconcileReplacesChangedSecret(t *testing.T) {
	v := newTokensView(styles.NewTheme())
	v.refresh(Services{})
	v.handleLoaded(credsLoadedMsg{token: v.reqToken, creds: []model.Credential{
		{ID: "c1", Label: "GitHub", Secret: boardSecret},
	}})
	old := v.tickers[0].Instance()

	v.refresh(Services{})
	v.handleLoaded(credsLoadedMsg{token: v.reqToken, creds: []model.Credential{
		{ID: "c1", Label: "GitHub", Secret: "JBSWY3DPEHPK3PXP"},
	}})
	if v.tickers[0].Instance() == old {
		t.Error("rotated secret must get a fresh ticker")
	}
}

func TestReconcileDropsRemovedCredential(t *testing.T) {
	v := newTokensView(styles.NewTheme())
	v.refresh(Services{})
	v.handleLoaded(credsLoadedMsg{token: v.reqToken, creds: []model.Credential{
		{ID: "c1", Label: "GitHub", Secret: boardSecret},
		{ID: "c2", Label: "AWS", Secret: boardSecret},
	}})
	v.cursor = 1

	v.refresh(Services{})
	v.handleLoaded(credsLoadedMsg{token: v.reqToken, creds: []model.Credential{
		{ID: "c1", Label: "GitHub", Secret: boardSecret},
	}})

	if len(v.tickers) != 1 {
		t.Fatalf("tickers = %d, want 1", len(v.tickers))
	}
	if v.cursor != 0 {
		t.Errorf("cursor = %d, want clamped to 0", v.cursor)
	}
}

func TestStaleCredentialListDropped(t *testing.T) {
	v := newTokensView(styles.NewTheme())
	v.refresh(Services{})
	v.refresh(Services{})

	v.handleLoaded(credsLoadedMsg{token: 2, creds: []model.Credential{
		{ID: "c2", Label: "AWS", Secret: boardSecret},
	}})
	v.handleLoaded(credsLoadedMsg{token: 1, creds: []model.Credential{
		{ID: "c1", Label: "GitHub", Secret: boardSecret},
	}})

	if len(v.tickers) != 1 || v.tickers[0].Credential().ID != "c2" {
		t.Errorf("stale list applied: %+v", v.tickers)
	}
}

func TestEmptyBoardView(t *testing.T) {
	v := newTokensView(styles.NewTheme())
	v.refresh(Services{})
	v.handleLoaded(credsLoadedMsg{token: v.reqToken, creds: nil})

	if view := v.View(); !strings.Contains(view, "no shared credentials") {
		t.Errorf("empty board view = %q", view)
	}
}
