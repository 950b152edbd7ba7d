// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session manages the operator's identity-provider session.
package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/jeranaias/keydeck-tui/internal/api"
	"github.com/jeranaias/keydeck-tui/internal/model"
)

// Provider endpoints. The auth endpoint mints sessions; the profiles
// endpoint is the separate role lookup.
const (
	tokenPath    = "/auth/v1/token"
	profilesPath = "/rest/v1/profiles"
)

// ErrBadCredentials indicates the provider rejected the email/password
// pair.
var ErrBadCredentials = errors.New("invalid credentials")

// =============================================================================
// SESSION
// =============================================================================

// Session is the provider's session object: an opaque bearer token plus
// the user identity it was minted for. The zero value means signed out.
type Session struct {
	AccessToken string
	UserID      string
	Email       string
}

// Active reports whether a session is held.
func (s Session) Active() bool {
	return s.AccessToken != ""
}

// =============================================================================
// WIRE TYPES
// =============================================================================

type passwordGrantRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type passwordGrantResponse struct {
	AccessToken string `json:"access_token"`
	User        struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
}

type profileRow struct {
	Role string `json:"role"`
}

// =============================================================================
// CLIENT
// =============================================================================

// Client talks to the identity provider's auth surface.
type Client struct {
	api *api.Client
}

// NewClient creates a session client on the shared API plumbing.
func NewClient(apiClient *api.Client) *Client {
	return &Client{api: apiClient}
}

// SignIn exchanges an email/password pair for a session via the
// provider's password grant.
func (c *Client) SignIn(ctx context.Context, email, password string) (Session, error) {
	q := url.Values{}
	q.Set("grant_type", "password")

	var resp passwordGrantResponse
	err := c.api.DoJSON(ctx, http.MethodPost, tokenPath, q, passwordGrantRequest{
		Email:    email,
		Password: password,
	}, &resp)
	if err != nil {
		// The provider answers 400/401 for a wrong pair; both mean the
		// same thing to the login form.
		if errors.Is(err, api.ErrUnauthorized) || errors.Is(err, api.ErrValidation) {
			return Session{}, fmt.Errorf("%w", ErrBadCredentials)
		}
		return Session{}, err
	}
	if resp.AccessToken == "" {
		return Session{}, ErrBadCredentials
	}

	return Session{
		AccessToken: resp.AccessToken,
		UserID:      resp.User.ID,
		Email:       resp.User.Email,
	}, nil
}

// ResolveRole performs the separate role lookup for a signed-in user.
// A missing profile row resolves to the standard role rather than an
// error: absence of privilege is not a failure.
func (c *Client) ResolveRole(ctx context.Context, userID string) (model.RoleState, error) {
	q := url.Values{}
	q.Set("id", "eq."+userID)
	q.Set("select", "role")

	var rows []profileRow
	if err := c.api.DoJSON(ctx, http.MethodGet, profilesPath, q, nil, &rows); err != nil {
		return model.UnresolvedRole(), err
	}

	if len(rows) > 0 && rows[0].Role == string(model.RoleAdmin) {
		return model.ResolvedRole(model.RoleAdmin), nil
	}
	return model.ResolvedRole(model.RoleStandard), nil
}
