// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package directory is the paginated query and mutation facade over the
// external identity API.
package directory

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jeranaias/keydeck-tui/internal/api"
	"github.com/jeranaias/keydeck-tui/internal/model"
	"github.com/jeranaias/keydeck-tui/internal/util"
)

// usersPath is the identity API's user-management endpoint. All five
// verbs operate on this one path; bulk targets travel in the body.
const usersPath = "/users"

// =============================================================================
// RESULT TYPES
// =============================================================================

// Page is one fetched directory page.
type Page struct {
	Records []model.AccountRecord
	Window  model.PageWindow
}

// PartialFailure reports a bulk operation where some targets succeeded
// and some did not. It must never be collapsed into a blanket success or
// failure; the operator needs to know exactly which ids failed.
type PartialFailure struct {
	Succeeded []string
	Failed    []string
}

// Error implements the error interface.
func (e *PartialFailure) Error() string {
	return fmt.Sprintf("bulk operation partially failed: %d succeeded, %d failed (%s)",
		len(e.Succeeded), len(e.Failed), strings.Join(e.Failed, ", "))
}

// =============================================================================
// EXPIRY INTENT
// =============================================================================

// Expiry states the caller's intent for an account's access expiration.
// Updates always send it: either a concrete end-of-day timestamp or an
// explicit "no expiry". It is never implicitly preserved.
type Expiry struct {
	day   time.Time
	never bool
}

// NeverExpires returns the explicit no-expiry intent.
func NeverExpires() Expiry {
	return Expiry{never: true}
}

// ExpiresOn returns an intent expiring at the end of the given day.
func ExpiresOn(day time.Time) Expiry {
	return Expiry{day: day}
}

// wire returns the JSON value for the intent: nil (null) for no expiry,
// otherwise the day's 23:59:59 timestamp.
func (e Expiry) wire() *string {
	if e.never {
		return nil
	}
	s := e.day.Format("2006-01-02") + "T23:59:59"
	return &s
}

// =============================================================================
// WIRE TYPES
// =============================================================================

type listResponse struct {
	Data []model.AccountRecord `json:"data"`
	Meta model.PageWindow      `json:"meta"`
}

type createRequest struct {
	Nickname  string  `json:"nickname"`
	Email     string  `json:"email"`
	Password  string  `json:"password"`
	ExpiresAt *string `json:"expires_at"`
}

type updateRequest struct {
	ID        string  `json:"id"`
	Nickname  *string `json:"nickname,omitempty"`
	Email     *string `json:"email,omitempty"`
	Password  *string `json:"password,omitempty"`
	ExpiresAt *string `json:"expires_at"`
}

type removeRequest struct {
	IDs []string `json:"ids"`
}

type banPatchRequest struct {
	IDs         []string `json:"ids"`
	BanDuration string   `json:"ban_duration"`
}

// bulkOutcome is the store's bulk-operation result envelope. Deployments
// that apply all-or-nothing only populate Removed/Updated.
type bulkOutcome struct {
	Removed   int      `json:"removed,omitempty"`
	Updated   int      `json:"updated,omitempty"`
	Succeeded []string `json:"succeeded,omitempty"`
	Failed    []string `json:"failed,omitempty"`
}

// =============================================================================
// CLIENT
// =============================================================================

// Client is the user-directory facade.
type Client struct {
	api *api.Client

	// placeholderDomain suffixes derived placeholder emails.
	placeholderDomain string
}

// NewClient creates a directory client on the shared API plumbing.
func NewClient(apiClient *api.Client, placeholderDomain string) *Client {
	return &Client{api: apiClient, placeholderDomain: placeholderDomain}
}

// List fetches one directory page. Failures surface as ErrUnavailable;
// the caller renders an empty page with a retry affordance rather than
// interrupting the view.
func (c *Client) List(ctx context.Context, page, perPage int) (Page, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("per_page", strconv.Itoa(perPage))

	var resp listResponse
	if err := c.api.DoJSON(ctx, http.MethodGet, usersPath, q, nil, &resp); err != nil {
		return Page{}, err
	}

	return Page{
		Records: resp.Data,
		Window:  model.NewPageWindow(resp.Meta.Page, resp.Meta.PerPage, resp.Meta.Total),
	}, nil
}

// Create provisions a new account. When email is empty a deterministic
// placeholder is derived from the nickname. That placeholder is a
// convenience default, not an identity guarantee: two nicknames that
// collapse to the same string collide silently.
func (c *Client) Create(ctx context.Context, nickname, email, password string, expiry Expiry) (model.AccountRecord, error) {
	if email == "" {
		email = c.PlaceholderEmail(nickname)
	}

	var record model.AccountRecord
	err := c.api.DoJSON(ctx, http.MethodPost, usersPath, nil, createRequest{
		Nickname:  nickname,
		Email:     email,
		Password:  password,
		ExpiresAt: expiry.wire(),
	}, &record)
	if err != nil {
		return model.AccountRecord{}, err
	}
	return record, nil
}

// Patch carries the fields to change on Update. Nil fields are left
// unchanged by the store; expiry has no such option and is always sent.
type Patch struct {
	Nickname *string
	Email    *string
	Password *string
	Expiry   Expiry
}

// Update edits an existing account.
func (c *Client) Update(ctx context.Context, id string, patch Patch) (model.AccountRecord, error) {
	var record model.AccountRecord
	err := c.api.DoJSON(ctx, http.MethodPut, usersPath, nil, updateRequest{
		ID:        id,
		Nickname:  patch.Nickname,
		Email:     patch.Email,
		Password:  patch.Password,
		ExpiresAt: patch.Expiry.wire(),
	}, &record)
	if err != nil {
		return model.AccountRecord{}, err
	}
	return record, nil
}

// Remove deletes the given accounts. A single-record delete is a
// one-element set. When the store reports a mixed outcome the returned
// error is a *PartialFailure naming exactly which ids failed.
func (c *Client) Remove(ctx context.Context, ids []string) (int, error) {
	ids = normalizeIDs(ids)
	if len(ids) == 0 {
		return 0, nil
	}

	var outcome bulkOutcome
	if err := c.api.DoJSON(ctx, http.MethodDelete, usersPath, nil, removeRequest{IDs: ids}, &outcome); err != nil {
		return 0, err
	}

	if len(outcome.Failed) > 0 {
		return len(outcome.Succeeded), &PartialFailure{
			Succeeded: outcome.Succeeded,
			Failed:    outcome.Failed,
		}
	}
	if outcome.Removed > 0 {
		return outcome.Removed, nil
	}
	return len(ids), nil
}

// SetBan bans or unbans the given accounts. The boolean is translated to
// the store's duration encoding by the adapter in ban.go; mixed outcomes
// surface as *PartialFailure exactly like Remove.
func (c *Client) SetBan(ctx context.Context, ids []string, banned bool) error {
	ids = normalizeIDs(ids)
	if len(ids) == 0 {
		return nil
	}

	var outcome bulkOutcome
	err := c.api.DoJSON(ctx, http.MethodPatch, usersPath, nil, banPatchRequest{
		IDs:         ids,
		BanDuration: BanRequest(banned),
	}, &outcome)
	if err != nil {
		return err
	}

	if len(outcome.Failed) > 0 {
		return &PartialFailure{Succeeded: outcome.Succeeded, Failed: outcome.Failed}
	}
	return nil
}

// PlaceholderEmail derives the deterministic placeholder address for a
// nickname: lower-cased, whitespace stripped, fixed domain suffix.
func (c *Client) PlaceholderEmail(nickname string) string {
	return strings.ToLower(util.CollapseSpaces(nickname)) + "@" + c.placeholderDomain
}

// normalizeIDs sorts and de-duplicates a target set so identical
// selections produce identical requests.
func normalizeIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
