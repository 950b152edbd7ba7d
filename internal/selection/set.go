// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package selection tracks which directory records are chosen for a bulk
// action.
//
// The set itself is page-agnostic: it accumulates ids regardless of which
// page fetched them. The controller deliberately clears it on every
// directory refetch (page moves, search refreshes, any mutation) so a bulk
// action can never target ids the operator is no longer looking at —
// correctness over convenience.
package selection

// =============================================================================
// SELECTION SET
// =============================================================================

// Set is a set of record identifiers chosen for a bulk action.
// The zero value is not usable; call New.
type Set struct {
	ids map[string]struct{}
}

// New returns an empty selection.
func New() *Set {
	return &Set{ids: make(map[string]struct{})}
}

// Add marks an id as selected.
func (s *Set) Add(id string) {
	s.ids[id] = struct{}{}
}

// Remove unmarks an id.
func (s *Set) Remove(id string) {
	delete(s.ids, id)
}

// Toggle flips an id's membership and reports the new state.
func (s *Set) Toggle(id string) bool {
	if s.Contains(id) {
		s.Remove(id)
		return false
	}
	s.Add(id)
	return true
}

// Contains reports whether an id is selected.
func (s *Set) Contains(id string) bool {
	_, ok := s.ids[id]
	return ok
}

// SelectPage adds every id on the current page.
func (s *Set) SelectPage(ids []string) {
	for _, id := range ids {
		s.Add(id)
	}
}

// DeselectPage removes every id on the current page, leaving selections
// from other pages untouched.
func (s *Set) DeselectPage(ids []string) {
	for _, id := range ids {
		s.Remove(id)
	}
}

// AllSelected reports whether the page is non-empty and every one of its
// ids is selected. This is computed, never stored.
func (s *Set) AllSelected(ids []string) bool {
	if len(ids) == 0 {
		return false
	}
	for _, id := range ids {
		if !s.Contains(id) {
			return false
		}
	}
	return true
}

// Clear empties the selection.
func (s *Set) Clear() {
	s.ids = make(map[string]struct{})
}

// Len returns the number of selected ids.
func (s *Set) Len() int {
	return len(s.ids)
}

// IDs returns the selected ids in unspecified order.
func (s *Set) IDs() []string {
	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	return out
}
