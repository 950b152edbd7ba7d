// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package directory is the paginated query and mutation facade over the
// external identity API.
//
// Every operation is an authenticated call against the store; the client
// holds no authoritative state. Mutations are always followed by a full
// refetch of the current page, trading a round trip for consistency with
// server-side authoritative fields such as the exact ban timestamp.
//
// Single-record delete and ban are expressed as one-element-set bulk
// calls. There is deliberately no separate singular code path: both
// shapes share identical semantics and error handling.
package directory
