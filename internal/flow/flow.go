// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package flow implements the legacy flat follow-up model used by the
// flow-preview tester. It is fully independent of the question tree: it
// operates on a flat question list in original order plus the follow-up
// conditions attached to each question.
package flow

import (
	"strings"

	"github.com/google/uuid"

	"faqdesk/internal/models"
)

// Engine evaluates conditional branching over a flat question list.
type Engine struct {
	questions []models.Question
	index     map[uuid.UUID]int
	followUps map[uuid.UUID]models.FollowUp
}

// New builds an engine from the flat question list (original order is
// significant — it drives sequential advance) and the follow-ups.
func New(questions []models.Question, followUps []models.FollowUp) *Engine {
	e := &Engine{
		questions: questions,
		index:     make(map[uuid.UUID]int, len(questions)),
		followUps: make(map[uuid.UUID]models.FollowUp, len(followUps)),
	}
	for i, q := range questions {
		e.index[q.ID] = i
	}
	for _, f := range followUps {
		e.followUps[f.QuestionID] = f
	}
	return e
}

// Next returns the id of the question that follows current, given the
// user's free-text reply. Conditions attached to the current question
// are evaluated in order against the lower-cased reply; the first match
// wins. With no match (or no conditions at all) the flow advances
// sequentially, and nil means the flow terminates — either the current
// question is last, or the id is unknown.
func (e *Engine) Next(currentID uuid.UUID, reply string) *uuid.UUID {
	pos, ok := e.index[currentID]
	if !ok {
		return nil
	}

	if f, ok := e.followUps[currentID]; ok {
		norm := strings.ToLower(strings.TrimSpace(reply))
		for _, c := range f.Conditions {
			if Matches(c, norm) {
				id := c.TargetQuestionID
				return &id
			}
		}
	}

	if pos+1 < len(e.questions) {
		id := e.questions[pos+1].ID
		return &id
	}
	return nil
}

// Matches evaluates one condition against an already lower-cased reply.
func Matches(c models.Condition, reply string) bool {
	value := strings.ToLower(c.Value)
	switch c.Type {
	case models.MatchContains:
		return strings.Contains(reply, value)
	case models.MatchEquals:
		return reply == value
	case models.MatchStartsWith:
		return strings.HasPrefix(reply, value)
	case models.MatchEndsWith:
		return strings.HasSuffix(reply, value)
	}
	return false
}
