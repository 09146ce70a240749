// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package content holds the in-memory aggregate of categories and
// questions that both surfaces read from. The flat question list is the
// source of truth; the nested view is recomputed through tree.Build after
// every mutation and never stored back.
//
// Mutations are applied optimistically before the persistence call. Take
// a Snapshot first and Restore it if persistence fails — the aggregate
// itself never talks to the database.
package content

import (
	"sort"
	"sync"

	"github.com/google/uuid"

	"faqdesk/internal/i18n"
	"faqdesk/internal/models"
	"faqdesk/internal/tree"
)

// Tree is the live content aggregate. Safe for concurrent readers and a
// single writer at a time.
type Tree struct {
	mu         sync.RWMutex
	categories map[uuid.UUID]models.Category
	questions  map[uuid.UUID]models.Question

	// Derived: built roots per category, rebuilt on every mutation.
	roots map[uuid.UUID][]models.Question
}

// Snapshot is an opaque deep copy of the aggregate state, used to roll
// back an optimistic mutation when persistence fails.
type Snapshot struct {
	categories []models.Category
	questions  []models.Question
}

// New builds an aggregate from flat persisted records.
func New(categories []models.Category, questions []models.Question) *Tree {
	t := &Tree{
		categories: make(map[uuid.UUID]models.Category, len(categories)),
		questions:  make(map[uuid.UUID]models.Question, len(questions)),
	}
	for _, c := range categories {
		t.categories[c.ID] = c
	}
	for _, q := range questions {
		q.SubQuestions = nil
		t.questions[q.ID] = q
	}
	t.rebuild()
	return t
}

// rebuild recomputes the derived nested view. Callers must hold mu.
func (t *Tree) rebuild() {
	flat := make([]models.Question, 0, len(t.questions))
	for _, q := range t.questions {
		flat = append(flat, q)
	}
	sortByArrival(flat)
	t.roots = tree.SplitByCategory(tree.Build(flat))
}

// sortByArrival fixes the flat list's original order: creation time, ties
// by id. Map iteration order is random, and both the nested rebuild and
// the flat exports (the flow tester advances sequentially through the
// flat list) depend on a stable order.
func sortByArrival(flat []models.Question) {
	sort.Slice(flat, func(i, j int) bool {
		if flat[i].CreatedAt.Equal(flat[j].CreatedAt) {
			return flat[i].ID.String() < flat[j].ID.String()
		}
		return flat[i].CreatedAt.Before(flat[j].CreatedAt)
	})
}

// Categories returns all categories sorted by order, ties by creation time.
func (t *Tree) Categories() []models.Category {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]models.Category, 0, len(t.categories))
	for _, c := range t.categories {
		out = append(out, c)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].SortOrder == out[j].SortOrder {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].SortOrder < out[j].SortOrder
	})
	return out
}

// Category returns a category by id, or nil if unknown.
func (t *Tree) Category(id uuid.UUID) *models.Category {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if c, ok := t.categories[id]; ok {
		return &c
	}
	return nil
}

// Question returns the flat record for an id, or nil if unknown. The
// returned copy has no children; use Built for the nested view.
func (t *Tree) Question(id uuid.UUID) *models.Question {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if q, ok := t.questions[id]; ok {
		q.SubQuestions = nil
		return &q
	}
	return nil
}

// RootQuestions returns the built roots of a category, children attached.
func (t *Tree) RootQuestions(categoryID uuid.UUID) []models.Question {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.roots[categoryID]
}

// Built returns the built node for an id with its subtree attached, or
// nil if the id is unknown.
func (t *Tree) Built(id uuid.UUID) *models.Question {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, roots := range t.roots {
		if q := findBuilt(roots, id); q != nil {
			return q
		}
	}
	return nil
}

func findBuilt(qs []models.Question, id uuid.UUID) *models.Question {
	for i := range qs {
		if qs[i].ID == id {
			return &qs[i]
		}
		if q := findBuilt(qs[i].SubQuestions, id); q != nil {
			return q
		}
	}
	return nil
}

// Siblings returns the flat sibling group of a question sorted by order:
// root questions of its category, or children of its parent. Groups are
// never mixed.
func (t *Tree) Siblings(q *models.Question) []models.Question {
	t.mu.RLock()
	defer t.mu.RUnlock()
	var out []models.Question
	for _, cand := range t.questions {
		if sameGroup(q, &cand) {
			cand.SubQuestions = nil
			out = append(out, cand)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].SortOrder == out[j].SortOrder {
			if out[i].CreatedAt.Equal(out[j].CreatedAt) {
				return out[i].ID.String() < out[j].ID.String()
			}
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].SortOrder < out[j].SortOrder
	})
	return out
}

func sameGroup(a, b *models.Question) bool {
	if a.ParentID != nil {
		return b.ParentID != nil && *a.ParentID == *b.ParentID
	}
	if b.ParentID != nil {
		return false
	}
	return uuidPtrEqual(a.CategoryID, b.CategoryID)
}

func uuidPtrEqual(a, b *uuid.UUID) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return *a == *b
}

// PutCategory inserts or replaces a category.
func (t *Tree) PutCategory(c models.Category) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.categories[c.ID] = c
	t.rebuild()
}

// RemoveCategory deletes a category and every question under it,
// including nested ones.
func (t *Tree) RemoveCategory(id uuid.UUID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.categories, id)
	for _, root := range t.roots[id] {
		t.removeSubtree(root.ID)
	}
	t.rebuild()
}

// PutQuestion inserts or replaces a flat question record.
func (t *Tree) PutQuestion(q models.Question) {
	t.mu.Lock()
	defer t.mu.Unlock()
	q.SubQuestions = nil
	t.questions[q.ID] = q
	t.rebuild()
}

// RemoveQuestion deletes a question and its whole subtree.
func (t *Tree) RemoveQuestion(id uuid.UUID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.removeSubtree(id)
	t.rebuild()
}

// removeSubtree deletes id and all flat descendants. Callers hold mu.
func (t *Tree) removeSubtree(id uuid.UUID) {
	delete(t.questions, id)
	for _, q := range t.questions {
		if q.ParentID != nil && *q.ParentID == id {
			t.removeSubtree(q.ID)
		}
	}
}

// ApplyOrders reassigns sort orders for known questions.
func (t *Tree) ApplyOrders(assignments []tree.OrderAssignment) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, a := range assignments {
		if q, ok := t.questions[a.ID]; ok {
			q.SortOrder = a.SortOrder
			t.questions[a.ID] = q
		}
	}
	t.rebuild()
}

// ApplyCategoryOrders reassigns sort orders for known categories.
func (t *Tree) ApplyCategoryOrders(assignments []tree.OrderAssignment) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, a := range assignments {
		if c, ok := t.categories[a.ID]; ok {
			c.SortOrder = a.SortOrder
			t.categories[a.ID] = c
		}
	}
}

// CategorySiblings returns all categories sorted by order, the sibling
// group for category reordering.
func (t *Tree) CategorySiblings() []models.Question {
	cats := t.Categories()
	out := make([]models.Question, len(cats))
	for i, c := range cats {
		out[i] = models.Question{ID: c.ID, SortOrder: c.SortOrder}
	}
	return out
}

// MissingTranslations sums incomplete language counts across category
// names, question texts, and non-empty answers over the whole tree.
func (t *Tree) MissingTranslations(r i18n.Resolver) int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	missing := 0
	for _, c := range t.categories {
		missing += len(r.Status(c.Name).Missing)
	}
	for _, q := range t.questions {
		missing += len(r.Status(q.Question).Missing)
		// An answer counts once someone started writing it; fully empty
		// answers mark navigational questions, not missing content.
		if !q.Answer.IsEmpty() {
			missing += len(r.Status(q.Answer).Missing)
		}
	}
	return missing
}

// Len returns (categories, questions) counts.
func (t *Tree) Len() (int, int) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.categories), len(t.questions)
}

// TakeSnapshot deep-copies the current state.
func (t *Tree) TakeSnapshot() Snapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()
	snap := Snapshot{
		categories: make([]models.Category, 0, len(t.categories)),
		questions:  make([]models.Question, 0, len(t.questions)),
	}
	for _, c := range t.categories {
		c.Name = c.Name.Clone()
		snap.categories = append(snap.categories, c)
	}
	for _, q := range t.questions {
		snap.questions = append(snap.questions, cloneQuestion(q))
	}
	return snap
}

// Restore replaces the aggregate state with a snapshot.
func (t *Tree) Restore(snap Snapshot) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.categories = make(map[uuid.UUID]models.Category, len(snap.categories))
	for _, c := range snap.categories {
		t.categories[c.ID] = c
	}
	t.questions = make(map[uuid.UUID]models.Question, len(snap.questions))
	for _, q := range snap.questions {
		t.questions[q.ID] = q
	}
	t.rebuild()
}

func cloneQuestion(q models.Question) models.Question {
	q.SubQuestions = nil
	q.Question = q.Question.Clone()
	q.Answer = q.Answer.Clone()
	if q.Attachments != nil {
		atts := make(map[string]*models.Attachment, len(q.Attachments))
		for k, v := range q.Attachments {
			if v != nil {
				a := *v
				atts[k] = &a
			} else {
				atts[k] = nil
			}
		}
		q.Attachments = atts
	}
	if q.Keywords != nil {
		q.Keywords = append([]string(nil), q.Keywords...)
	}
	return q
}
