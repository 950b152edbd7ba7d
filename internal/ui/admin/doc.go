// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package admin implements the keydeck admin console: a login form, the
// paginated account directory with bulk-safe mutations, and the shared
// credential board with live rotating codes.
//
// The package is the controller layer. All server state flows in through
// typed messages produced by commands.go; views never call the API
// directly. Every mutation is followed by a refetch, and every refetch
// clears the record selection so a stale page can never feed a bulk
// action.
package admin
