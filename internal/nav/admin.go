// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package nav

import (
	"fmt"

	"faqdesk/internal/i18n"
	"faqdesk/internal/models"
)

// Admin is the editor's free-navigation machine. The breadcrumb stack is
// the entire navigational memory: there is no forward history, and the
// only way back is truncating the trail.
type Admin struct {
	Lang        string              `json:"lang"`
	Breadcrumbs []models.Breadcrumb `json:"breadcrumbs"`
	Frames      []Frame             `json:"frames"`

	// PanelOpen tracks the edit/answer side panel. Back-navigation always
	// closes it so stale form state cannot leak across levels.
	PanelOpen bool `json:"panel_open"`
}

// NewAdmin returns an empty admin navigator for the given active language.
func NewAdmin(lang string) *Admin {
	return &Admin{Lang: lang}
}

// SelectCategory resets the trail to the category alone and shows its
// root questions.
func (a *Admin) SelectCategory(r i18n.Resolver, c models.Category, roots []models.Question) {
	a.Breadcrumbs = []models.Breadcrumb{{
		ID:    c.ID,
		Label: r.Resolve(c.Name, a.Lang, "Untitled"),
		Type:  models.BreadcrumbCategory,
	}}
	a.Frames = []Frame{{Items: roots}}
	a.PanelOpen = false
}

// NavigateInto descends into a question from the current level, pushing
// it onto the trail and opening its sub-question list. The question must
// be part of the currently visible list.
func (a *Admin) NavigateInto(r i18n.Resolver, q models.Question) error {
	if len(a.Frames) == 0 {
		return fmt.Errorf("navigate: no category selected")
	}
	cur := a.Frames[len(a.Frames)-1]
	found := false
	for _, item := range cur.Items {
		if item.ID == q.ID {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("navigate: question %s is not at the current level", q.ID)
	}

	a.Breadcrumbs = append(a.Breadcrumbs, models.Breadcrumb{
		ID:    q.ID,
		Label: r.Resolve(q.Question, a.Lang, "Untitled"),
		Type:  models.BreadcrumbQuestion,
	})
	anchor := q
	anchor.SubQuestions = nil
	a.Frames = push(a.Frames, Frame{Items: q.SubQuestions, Current: &anchor})
	return nil
}

// NavigateToBreadcrumb truncates the trail to index i, discarding all
// deeper context. This is the sole back operation; it also closes the
// edit panel.
func (a *Admin) NavigateToBreadcrumb(i int) error {
	if i < 0 || i >= len(a.Breadcrumbs) {
		return fmt.Errorf("navigate: breadcrumb index %d out of range", i)
	}
	a.Breadcrumbs = a.Breadcrumbs[:i+1]
	a.Frames = a.Frames[:i+1]
	a.PanelOpen = false
	return nil
}

// OpenPanel marks the edit/answer panel as open.
func (a *Admin) OpenPanel() {
	a.PanelOpen = true
}

// CurrentItems returns the question list at the current level.
func (a *Admin) CurrentItems() []models.Question {
	if len(a.Frames) == 0 {
		return nil
	}
	return a.Frames[len(a.Frames)-1].Items
}

// Depth returns the number of trail entries.
func (a *Admin) Depth() int {
	return len(a.Breadcrumbs)
}
