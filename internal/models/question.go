// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package models defines the FAQ content entities shared by the stores,
// the tree builder, and both navigation surfaces.
package models

import (
	"time"

	"github.com/google/uuid"

	"faqdesk/internal/i18n"
)

// Attachment is a per-language file reference shown next to an answer.
type Attachment struct {
	URL  string `json:"url"`
	Name string `json:"name"`
}

// Question is a node in the FAQ tree. A root question carries CategoryID
// and no ParentID; a nested question carries ParentID only.
//
// SubQuestions is a derived view materialized by the tree builder from the
// flat ParentID list. It is never persisted on its own — the flat list is
// the source of truth and the nested form is rebuilt after every mutation.
type Question struct {
	ID          uuid.UUID              `json:"id"`
	CategoryID  *uuid.UUID             `json:"category_id,omitempty"`
	ParentID    *uuid.UUID             `json:"parent_id,omitempty"`
	Question    i18n.Text              `json:"question"`
	Answer      i18n.Text              `json:"answer,omitempty"`
	Attachments map[string]*Attachment `json:"attachments,omitempty"`
	Keywords    []string               `json:"keywords,omitempty"`
	SortOrder   int                    `json:"sort_order"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`

	// Derived, populated by tree.Build.
	SubQuestions []Question `json:"sub_questions,omitempty"`
}

// IsRoot reports whether the question sits directly under a category.
func (q *Question) IsRoot() bool {
	return q.ParentID == nil
}

// HasAnswer reports whether any language carries a non-empty answer.
func (q *Question) HasAnswer() bool {
	return !q.Answer.IsEmpty()
}

// IsTerminal reports whether selecting this question in the guided flow
// ends at an answer: it has answer text and no children.
func (q *Question) IsTerminal() bool {
	return q.HasAnswer() && len(q.SubQuestions) == 0
}
