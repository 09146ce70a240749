// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package tree

import (
	"github.com/google/uuid"

	"faqdesk/internal/models"
)

// Direction selects a neighbor for the explicit up/down reorder controls.
type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
)

// Valid reports whether the direction is up or down.
func (d Direction) Valid() bool {
	return d == DirectionUp || d == DirectionDown
}

// OrderAssignment is one (id, order) pair to persist after a reorder.
type OrderAssignment struct {
	ID        uuid.UUID `json:"id"`
	SortOrder int       `json:"order"`
}

// InsertFirstOrder returns the order value for a new item in a sibling
// group. New content is surfaced first: min(existing)-1, or 0 for an
// empty group. Existing siblings are never renumbered on insert.
func InsertFirstOrder(siblings []models.Question) int {
	if len(siblings) == 0 {
		return 0
	}
	min := siblings[0].SortOrder
	for _, s := range siblings[1:] {
		if s.SortOrder < min {
			min = s.SortOrder
		}
	}
	return min - 1
}

// Move splices a sibling group (remove at from, insert at to) and returns
// a dense zero-based renumbering of the whole group in its new sequence.
// The group must already be sorted by current order. Returns nil when
// from is out of range; to is clamped into the group.
func Move(siblings []models.Question, from, to int) []OrderAssignment {
	n := len(siblings)
	if from < 0 || from >= n {
		return nil
	}
	if to < 0 {
		to = 0
	}
	if to >= n {
		to = n - 1
	}

	ids := make([]uuid.UUID, n)
	for i, s := range siblings {
		ids[i] = s.ID
	}
	moved := ids[from]
	ids = append(ids[:from], ids[from+1:]...)
	ids = append(ids[:to], append([]uuid.UUID{moved}, ids[to:]...)...)

	out := make([]OrderAssignment, n)
	for i, id := range ids {
		out[i] = OrderAssignment{ID: id, SortOrder: i}
	}
	return out
}

// SwapAdjacent exchanges the order values of the item and its immediate
// neighbor in the given direction. The group must be sorted by current
// order. Returns nil at a boundary (first item up, last item down) or
// when the item is not in the group; only the two touched siblings are
// reassigned.
func SwapAdjacent(siblings []models.Question, id uuid.UUID, dir Direction) []OrderAssignment {
	idx := -1
	for i, s := range siblings {
		if s.ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil
	}

	var other int
	switch dir {
	case DirectionUp:
		other = idx - 1
	case DirectionDown:
		other = idx + 1
	default:
		return nil
	}
	if other < 0 || other >= len(siblings) {
		return nil
	}

	return []OrderAssignment{
		{ID: siblings[idx].ID, SortOrder: siblings[other].SortOrder},
		{ID: siblings[other].ID, SortOrder: siblings[idx].SortOrder},
	}
}
