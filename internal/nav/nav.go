// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package nav implements the two navigation state machines over a built
// content tree: free breadcrumb navigation for the admin panel and the
// guided drill-down for the end-user app. Both are instances of the same
// shape — a stack of frames, each holding the visible question list and
// the anchor the user descended through — differing only in their
// terminal rule.
//
// Machines hold no references back into a live tree: frames carry copies
// of the built nodes, so a machine serializes cleanly to JSON for the
// session store and survives tree mutations between requests.
package nav

import "faqdesk/internal/models"

// Frame is one level of navigational memory: the question list visible
// at that level and the question the user descended through to leave it.
type Frame struct {
	Items   []models.Question `json:"items"`
	Current *models.Question  `json:"current,omitempty"`
}

// push appends a frame to a stack and returns it.
func push(stack []Frame, f Frame) []Frame {
	return append(stack, f)
}

// pop removes the top frame. ok is false on an empty stack.
func pop(stack []Frame) (rest []Frame, top Frame, ok bool) {
	if len(stack) == 0 {
		return stack, Frame{}, false
	}
	n := len(stack) - 1
	return stack[:n], stack[n], true
}
