// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides UI components for the keydeck TUI.
//
// Each component follows the same shape: a constructor taking the
// shared theme, an Update method that reports whether it consumed the
// message, and a View method that renders to a string. Components that
// emit results do so through typed messages rather than callbacks.
package components
