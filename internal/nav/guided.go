// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package nav

import (
	"fmt"

	"faqdesk/internal/i18n"
	"faqdesk/internal/models"
)

// State is the guided flow position.
type State string

const (
	StateHome       State = "home"
	StateCategories State = "categories"
	StateQuestions  State = "questions"
	StateAnswer     State = "answer"
)

// Guided is the end-user drill-down machine. Unlike the admin navigator
// it has a terminal state: selecting a question that carries an answer
// and no children stops at that answer instead of descending further.
type Guided struct {
	Lang  string `json:"lang"`
	State State  `json:"state"`

	// Current level.
	Questions       []models.Question `json:"questions,omitempty"`
	CurrentQuestion *models.Question  `json:"current_question,omitempty"`
	CurrentAnswer   string            `json:"current_answer,omitempty"`

	// History holds one snapshot per descend, popped on every back step.
	History []Frame `json:"history,omitempty"`
}

// NewGuided returns a guided navigator at the home state.
func NewGuided(lang string) *Guided {
	return &Guided{Lang: lang, State: StateHome}
}

// ShowCategories moves from home to the category list.
func (g *Guided) ShowCategories() {
	g.State = StateCategories
}

// SelectCategory enters a category, showing its root questions at depth
// zero with empty history.
func (g *Guided) SelectCategory(roots []models.Question) {
	g.State = StateQuestions
	g.Questions = roots
	g.CurrentQuestion = nil
	g.CurrentAnswer = ""
	g.History = nil
}

// Select applies the transition rule for picking a question at the
// current level: a question with answer text and no sub-questions is
// terminal and moves to the answer state; a question with sub-questions
// descends one level. A question with neither is a dead end and leaves
// the state untouched with an error.
func (g *Guided) Select(r i18n.Resolver, q models.Question) error {
	if g.State != StateQuestions {
		return fmt.Errorf("select: not at a question level (state %s)", g.State)
	}
	found := false
	for _, item := range g.Questions {
		if item.ID == q.ID {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("select: question %s is not at the current level", q.ID)
	}

	anchor := q
	anchor.SubQuestions = nil

	switch {
	case q.IsTerminal():
		g.History = push(g.History, Frame{Items: g.Questions, Current: &anchor})
		g.State = StateAnswer
		g.CurrentQuestion = &anchor
		g.CurrentAnswer = r.Resolve(q.Answer, g.Lang, "")
		return nil
	case len(q.SubQuestions) > 0:
		g.History = push(g.History, Frame{Items: g.Questions, Current: &anchor})
		g.Questions = q.SubQuestions
		g.CurrentQuestion = &anchor
		g.CurrentAnswer = ""
		return nil
	default:
		return fmt.Errorf("select: question %s has neither answer nor sub-questions", q.ID)
	}
}

// GoBack steps one level up. The behavior depends on the state: from the
// answer it restores the question list that was visible; from a question
// level it pops history or falls back to the category list; from the
// category list it returns home.
func (g *Guided) GoBack() {
	switch g.State {
	case StateAnswer:
		rest, top, ok := pop(g.History)
		g.History = rest
		g.State = StateQuestions
		g.CurrentAnswer = ""
		if ok {
			g.Questions = top.Items
			g.CurrentQuestion = top.Current
		}
	case StateQuestions:
		rest, top, ok := pop(g.History)
		if ok {
			g.History = rest
			g.Questions = top.Items
			g.CurrentQuestion = top.Current
		} else {
			g.State = StateCategories
			g.Questions = nil
			g.CurrentQuestion = nil
		}
	case StateCategories:
		g.State = StateHome
	case StateHome:
		// Already at the start.
	}
}

// GoHome resets to the initial state unconditionally. Wired to the
// emergency-exit affordance; it must work from any state with no side
// effects beyond the reset.
func (g *Guided) GoHome() {
	g.State = StateHome
	g.Questions = nil
	g.CurrentQuestion = nil
	g.CurrentAnswer = ""
	g.History = nil
}

// Depth returns the number of history snapshots.
func (g *Guided) Depth() int {
	return len(g.History)
}
