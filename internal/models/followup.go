// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "github.com/google/uuid"

// MatchType is a string predicate used by follow-up conditions.
// All predicates match case-insensitively.
type MatchType string

const (
	MatchContains   MatchType = "contains"
	MatchEquals     MatchType = "equals"
	MatchStartsWith MatchType = "startsWith"
	MatchEndsWith   MatchType = "endsWith"
)

// Valid reports whether the match type is one of the four predicates.
func (m MatchType) Valid() bool {
	switch m {
	case MatchContains, MatchEquals, MatchStartsWith, MatchEndsWith:
		return true
	}
	return false
}

// Condition routes a user reply to a target question when its predicate
// matches. Conditions are evaluated in order; the first match wins.
type Condition struct {
	Type             MatchType `json:"type"`
	Value            string    `json:"value"`
	TargetQuestionID uuid.UUID `json:"target_question_id"`
}

// FollowUp attaches an ordered condition list to a source question.
// It belongs to the legacy flat-flow mode and is consumed only by the
// flow-preview tester, never by the tree navigation.
type FollowUp struct {
	ID         uuid.UUID   `json:"id"`
	QuestionID uuid.UUID   `json:"question_id"`
	Conditions []Condition `json:"conditions"`
}
