// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package secrets is the CRUD facade over the external shared-secret API.
//
// There is deliberately no update operation: rotating a secret is
// modeled as delete plus create. A TOTP secret must be exact or entirely
// wrong, and append-only replacement avoids partial-update ambiguity.
package secrets

import (
	"context"
	"net/http"

	"github.com/jeranaias/keydeck-tui/internal/api"
	"github.com/jeranaias/keydeck-tui/internal/model"
)

// secretsPath is the shared-secret endpoint.
const secretsPath = "/shared-otps"

// =============================================================================
// WIRE TYPES
// =============================================================================

type createRequest struct {
	ProviderName string `json:"provider_name"`
	OTPSecret    string `json:"otp_secret"`
}

type removeRequest struct {
	ID string `json:"id"`
}

// =============================================================================
// CLIENT
// =============================================================================

// Client is the shared-secret facade.
type Client struct {
	api *api.Client
}

// NewClient creates a secrets client on the shared API plumbing.
func NewClient(apiClient *api.Client) *Client {
	return &Client{api: apiClient}
}

// List fetches every shared credential. The caller holds the result as
// an ephemeral read-only copy feeding the per-credential tickers.
func (c *Client) List(ctx context.Context) ([]model.Credential, error) {
	var creds []model.Credential
	if err := c.api.DoJSON(ctx, http.MethodGet, secretsPath, nil, nil, &creds); err != nil {
		return nil, err
	}
	return creds, nil
}

// Create stores a new shared credential.
func (c *Client) Create(ctx context.Context, label, secret string) (model.Credential, error) {
	var cred model.Credential
	err := c.api.DoJSON(ctx, http.MethodPost, secretsPath, nil, createRequest{
		ProviderName: label,
		OTPSecret:    secret,
	}, &cred)
	if err != nil {
		return model.Credential{}, err
	}
	return cred, nil
}

// Remove deletes a shared credential.
func (c *Client) Remove(ctx context.Context, id string) error {
	return c.api.DoJSON(ctx, http.MethodDelete, secretsPath, nil, removeRequest{ID: id}, nil)
}
