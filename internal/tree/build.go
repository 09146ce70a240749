// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package tree turns the flat, parent-pointer question list into the
// nested form both UIs consume, and computes order assignments for
// insert, drag-move, and up/down operations.
//
// Build is a normalization pass, not a validator: it never fails on
// malformed input. Dangling parent pointers and parent cycles are both
// repaired by promoting the affected nodes to roots.
package tree

import (
	"sort"

	"github.com/google/uuid"

	"faqdesk/internal/models"
)

// Build converts a flat question list into nested roots. Within every
// sibling group nodes are sorted ascending by SortOrder; ties keep their
// relative input order. Nesting depth is unbounded.
//
// Repairs applied silently:
//   - a node whose ParentID references an unknown id is treated as if
//     ParentID were absent and becomes a root (orphan rescue);
//   - nodes unreachable from any root (a ParentID cycle) are rescued the
//     same way, first-in-input-order member promoted, so the walk always
//     terminates and no node is ever dropped.
func Build(flat []models.Question) []models.Question {
	known := make(map[uuid.UUID]bool, len(flat))
	for _, q := range flat {
		known[q.ID] = true
	}

	var roots []models.Question
	children := make(map[uuid.UUID][]models.Question)
	for _, q := range flat {
		q.SubQuestions = nil
		if q.ParentID == nil || !known[*q.ParentID] {
			roots = append(roots, q)
		} else {
			children[*q.ParentID] = append(children[*q.ParentID], q)
		}
	}

	SortSiblings(roots)
	for id := range children {
		SortSiblings(children[id])
	}

	visited := make(map[uuid.UUID]bool, len(flat))
	out := make([]models.Question, 0, len(roots))
	for _, r := range roots {
		out = append(out, attach(r, children, visited))
	}

	// Anything still unvisited sits on a cycle. Promote members in input
	// order; attach picks up the rest of the cycle as descendants.
	for _, q := range flat {
		if !visited[q.ID] {
			q.SubQuestions = nil
			out = append(out, attach(q, children, visited))
		}
	}

	return out
}

// attach recursively populates SubQuestions from the children index,
// skipping already-visited nodes so cyclic chains terminate.
func attach(q models.Question, children map[uuid.UUID][]models.Question, visited map[uuid.UUID]bool) models.Question {
	visited[q.ID] = true
	kids := children[q.ID]
	if len(kids) == 0 {
		return q
	}
	sub := make([]models.Question, 0, len(kids))
	for _, c := range kids {
		if visited[c.ID] {
			continue
		}
		sub = append(sub, attach(c, children, visited))
	}
	if len(sub) > 0 {
		q.SubQuestions = sub
	}
	return q
}

// SortSiblings orders one sibling group ascending by SortOrder, keeping
// relative input order on ties.
func SortSiblings(group []models.Question) {
	sort.SliceStable(group, func(i, j int) bool {
		return group[i].SortOrder < group[j].SortOrder
	})
}

// SplitByCategory groups built roots by their category. Roots without a
// category (possible after orphan rescue of a nested node) land under
// uuid.Nil.
func SplitByCategory(roots []models.Question) map[uuid.UUID][]models.Question {
	out := make(map[uuid.UUID][]models.Question)
	for _, r := range roots {
		key := uuid.Nil
		if r.CategoryID != nil {
			key = *r.CategoryID
		}
		out[key] = append(out[key], r)
	}
	return out
}

// Flatten walks built roots depth-first and appends every node, children
// stripped, to a flat list. Inverse of Build up to ordering.
func Flatten(roots []models.Question) []models.Question {
	var out []models.Question
	var walk func(qs []models.Question)
	walk = func(qs []models.Question) {
		for _, q := range qs {
			sub := q.SubQuestions
			q.SubQuestions = nil
			out = append(out, q)
			walk(sub)
		}
	}
	walk(roots)
	return out
}

// Count returns the total number of nodes in a built tree.
func Count(roots []models.Question) int {
	n := 0
	for _, r := range roots {
		n += 1 + Count(r.SubQuestions)
	}
	return n
}
