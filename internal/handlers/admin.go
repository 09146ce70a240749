// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"faqdesk/internal/cache"
	"faqdesk/internal/content"
	"faqdesk/internal/i18n"
	"faqdesk/internal/models"
	"faqdesk/internal/session"
	"faqdesk/internal/storage"
	"faqdesk/internal/store"
	"faqdesk/internal/tree"
)

// Admin groups the editor API handlers and their dependencies. Mutations
// run optimistically against the in-memory aggregate: snapshot, apply,
// persist, and restore the snapshot if persistence fails.
type Admin struct {
	tree     *content.Tree
	resolver i18n.Resolver

	categories  *store.CategoryStore
	questions   *store.QuestionStore
	followUps   *store.FollowUpStore
	settings    *store.SettingStore
	importStore *store.ImportStore

	sessions  *session.Store
	storage   *storage.Client
	treeCache *cache.TreeCache
}

// NewAdmin creates the admin handler group. storage may be nil if S3 is
// not configured; attachment endpoints then return 503.
func NewAdmin(t *content.Tree, resolver i18n.Resolver, categories *store.CategoryStore, questions *store.QuestionStore, followUps *store.FollowUpStore, settings *store.SettingStore, importStore *store.ImportStore, sessions *session.Store, storageClient *storage.Client, treeCache *cache.TreeCache) *Admin {
	return &Admin{
		tree:        t,
		resolver:    resolver,
		categories:  categories,
		questions:   questions,
		followUps:   followUps,
		settings:    settings,
		importStore: importStore,
		sessions:    sessions,
		storage:     storageClient,
		treeCache:   treeCache,
	}
}

// invalidate drops the cached public tree after a mutation.
func (a *Admin) invalidate(r *http.Request) {
	if a.treeCache != nil {
		a.treeCache.InvalidateAll(r.Context())
	}
}

// ---------- Categories ----------

type createCategoryRequest struct {
	Name i18n.Text `json:"name"`
}

type updateCategoryRequest struct {
	Name map[string]*string `json:"name"`
}

type moveRequest struct {
	Direction tree.Direction `json:"direction"`
}

type reorderRequest struct {
	ID uuid.UUID `json:"id"`
	To int       `json:"to"`
}

// ListCategories returns all categories sorted by order.
func (a *Admin) ListCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.tree.Categories())
}

// CreateCategory inserts a category at the front of the list.
func (a *Admin) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req createCategoryRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if msg := validateCategoryName(req.Name); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	if lang := validateLanguages(a.resolver, langKeys(req.Name)); lang != "" {
		writeError(w, http.StatusBadRequest, "Unsupported language: "+lang)
		return
	}

	created, err := a.categories.Create(req.Name)
	if err != nil {
		slog.Error("create category", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to create category.")
		return
	}
	a.tree.PutCategory(*created)
	a.invalidate(r)
	writeJSON(w, http.StatusCreated, created)
}

// UpdateCategory applies per-language name edits. A language absent from
// the payload stays untouched.
func (a *Admin) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid ID.")
		return
	}
	existing := a.tree.Category(id)
	if existing == nil {
		writeError(w, http.StatusNotFound, "Category not found.")
		return
	}

	var req updateCategoryRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if lang := validateLanguages(a.resolver, langKeys(req.Name)); lang != "" {
		writeError(w, http.StatusBadRequest, "Unsupported language: "+lang)
		return
	}

	updated := *existing
	updated.Name = existing.Name.Clone()
	entries := make([]store.CategoryTranslation, 0, len(req.Name))
	for lang, name := range req.Name {
		entries = append(entries, store.CategoryTranslation{Language: lang, Name: name})
		if name != nil {
			updated.Name[lang] = *name
		}
	}
	// A language getting its first row needs a name; when the caller
	// omits it, synthesize one through the same fallback chain readers
	// resolve with, instead of storing an empty string.
	for i := range entries {
		e := &entries[i]
		if e.Name == nil && updated.Name.Get(e.Language) == "" {
			name := a.resolver.Resolve(updated.Name, e.Language, "")
			e.Name = &name
			updated.Name[e.Language] = name
		}
	}
	if msg := validateCategoryName(updated.Name); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	snap := a.tree.TakeSnapshot()
	a.tree.PutCategory(updated)
	if err := a.categories.UpsertTranslations(id, entries); err != nil {
		a.tree.Restore(snap)
		slog.Error("update category", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to update category.")
		return
	}
	a.invalidate(r)
	writeJSON(w, http.StatusOK, a.tree.Category(id))
}

// DeleteCategory removes a category and every question under it.
func (a *Admin) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid ID.")
		return
	}
	if a.tree.Category(id) == nil {
		writeError(w, http.StatusNotFound, "Category not found.")
		return
	}

	snap := a.tree.TakeSnapshot()
	a.tree.RemoveCategory(id)
	if err := a.categories.Delete(id); err != nil {
		a.tree.Restore(snap)
		slog.Error("delete category", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to delete category.")
		return
	}
	a.invalidate(r)
	w.WriteHeader(http.StatusNoContent)
}

// ReorderCategories moves one category to a target position and
// renumbers the whole list densely.
func (a *Admin) ReorderCategories(w http.ResponseWriter, r *http.Request) {
	var req reorderRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	siblings := a.tree.CategorySiblings()
	from := indexOf(siblings, req.ID)
	if from == -1 {
		writeError(w, http.StatusNotFound, "Category not found.")
		return
	}
	orders := tree.Move(siblings, from, req.To)
	if orders == nil {
		writeError(w, http.StatusBadRequest, "Invalid position.")
		return
	}

	snap := a.tree.TakeSnapshot()
	a.tree.ApplyCategoryOrders(orders)
	if err := a.categories.Reorder(orders); err != nil {
		a.tree.Restore(snap)
		slog.Error("reorder categories", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to reorder categories.")
		return
	}
	a.invalidate(r)
	writeJSON(w, http.StatusOK, orders)
}

// MoveCategory swaps a category with its neighbor in the given direction.
func (a *Admin) MoveCategory(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid ID.")
		return
	}
	var req moveRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !req.Direction.Valid() {
		writeError(w, http.StatusBadRequest, "Direction must be up or down.")
		return
	}
	if a.tree.Category(id) == nil {
		writeError(w, http.StatusNotFound, "Category not found.")
		return
	}

	orders := tree.SwapAdjacent(a.tree.CategorySiblings(), id, req.Direction)
	if orders == nil {
		// Boundary moves are a no-op, not an error.
		writeJSON(w, http.StatusOK, []tree.OrderAssignment{})
		return
	}

	snap := a.tree.TakeSnapshot()
	a.tree.ApplyCategoryOrders(orders)
	if err := a.categories.Reorder(orders); err != nil {
		a.tree.Restore(snap)
		slog.Error("move category", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to move category.")
		return
	}
	a.invalidate(r)
	writeJSON(w, http.StatusOK, orders)
}

// ---------- Questions ----------

type createQuestionRequest struct {
	CategoryID *uuid.UUID `json:"category_id"`
	ParentID   *uuid.UUID `json:"parent_id"`
	Question   i18n.Text  `json:"question"`
	Answer     i18n.Text  `json:"answer"`
	Keywords   []string   `json:"keywords"`
}

type updateQuestionRequest struct {
	Question map[string]*string `json:"question"`
	Answer   map[string]*string `json:"answer"`
	Keywords *[]string          `json:"keywords"`
}

// ListQuestions returns one flat sibling group: the root questions of a
// category or the children of a parent, ordered.
func (a *Admin) ListQuestions(w http.ResponseWriter, r *http.Request) {
	if raw := r.URL.Query().Get("parent_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid parent_id.")
			return
		}
		parent := a.tree.Built(id)
		if parent == nil {
			writeError(w, http.StatusNotFound, "Question not found.")
			return
		}
		writeJSON(w, http.StatusOK, parent.SubQuestions)
		return
	}
	if raw := r.URL.Query().Get("category_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid category_id.")
			return
		}
		if a.tree.Category(id) == nil {
			writeError(w, http.StatusNotFound, "Category not found.")
			return
		}
		writeJSON(w, http.StatusOK, a.tree.RootQuestions(id))
		return
	}
	writeError(w, http.StatusBadRequest, "category_id or parent_id is required.")
}

// CreateQuestion inserts a question at the front of its sibling group.
// A root question carries category_id, a nested one parent_id.
func (a *Admin) CreateQuestion(w http.ResponseWriter, r *http.Request) {
	var req createQuestionRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if (req.CategoryID == nil) == (req.ParentID == nil) {
		writeError(w, http.StatusBadRequest, "Exactly one of category_id or parent_id is required.")
		return
	}
	if msg := validateQuestionText(req.Question, req.Answer); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	if lang := validateLanguages(a.resolver, langKeys(req.Question), langKeys(req.Answer)); lang != "" {
		writeError(w, http.StatusBadRequest, "Unsupported language: "+lang)
		return
	}
	if msg := validateKeywords(req.Keywords); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	if req.CategoryID != nil && a.tree.Category(*req.CategoryID) == nil {
		writeError(w, http.StatusNotFound, "Category not found.")
		return
	}
	if req.ParentID != nil && a.tree.Question(*req.ParentID) == nil {
		writeError(w, http.StatusNotFound, "Parent question not found.")
		return
	}

	created, err := a.questions.Create(req.CategoryID, req.ParentID, req.Question, req.Answer, req.Keywords)
	if err != nil {
		slog.Error("create question", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to create question.")
		return
	}
	a.tree.PutQuestion(*created)
	a.invalidate(r)
	writeJSON(w, http.StatusCreated, created)
}

// UpdateQuestion applies per-language text edits and an optional keyword
// replacement. Languages absent from the payload stay untouched.
func (a *Admin) UpdateQuestion(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid ID.")
		return
	}
	existing := a.tree.Question(id)
	if existing == nil {
		writeError(w, http.StatusNotFound, "Question not found.")
		return
	}

	var req updateQuestionRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if lang := validateLanguages(a.resolver, langKeys(req.Question), langKeys(req.Answer)); lang != "" {
		writeError(w, http.StatusBadRequest, "Unsupported language: "+lang)
		return
	}
	if req.Keywords != nil {
		if msg := validateKeywords(*req.Keywords); msg != "" {
			writeError(w, http.StatusBadRequest, msg)
			return
		}
	}

	updated := *existing
	updated.Question = existing.Question.Clone()
	updated.Answer = existing.Answer.Clone()

	entries := make(map[string]*store.QuestionTranslation)
	entry := func(lang string) *store.QuestionTranslation {
		if e, ok := entries[lang]; ok {
			return e
		}
		e := &store.QuestionTranslation{Language: lang}
		entries[lang] = e
		return e
	}
	for lang, v := range req.Question {
		entry(lang).Question = v
		if v != nil {
			updated.Question[lang] = *v
		}
	}
	for lang, v := range req.Answer {
		entry(lang).Answer = v
		if v != nil {
			updated.Answer[lang] = *v
		}
	}
	// A language whose first row is created by this request (say, an
	// answer-only payload) must still carry question text; synthesize it
	// through the reader's fallback chain rather than storing "".
	for lang, e := range entries {
		if e.Question == nil && updated.Question.Get(lang) == "" {
			text := a.resolver.Resolve(updated.Question, lang, "")
			e.Question = &text
			updated.Question[lang] = text
		}
	}
	if msg := validateQuestionText(updated.Question, updated.Answer); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	if req.Keywords != nil {
		updated.Keywords = *req.Keywords
	}

	flat := make([]store.QuestionTranslation, 0, len(entries))
	for _, e := range entries {
		flat = append(flat, *e)
	}

	snap := a.tree.TakeSnapshot()
	a.tree.PutQuestion(updated)
	if err := a.questions.UpsertTranslations(id, flat); err != nil {
		a.tree.Restore(snap)
		slog.Error("update question", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to update question.")
		return
	}
	if req.Keywords != nil {
		if err := a.questions.UpdateKeywords(id, *req.Keywords); err != nil {
			a.tree.Restore(snap)
			slog.Error("update question keywords", "id", id, "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to update question.")
			return
		}
	}
	a.invalidate(r)
	writeJSON(w, http.StatusOK, a.tree.Question(id))
}

// DeleteQuestion removes a question and its whole subtree.
func (a *Admin) DeleteQuestion(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid ID.")
		return
	}
	if a.tree.Question(id) == nil {
		writeError(w, http.StatusNotFound, "Question not found.")
		return
	}

	snap := a.tree.TakeSnapshot()
	a.tree.RemoveQuestion(id)
	if err := a.questions.Delete(id); err != nil {
		a.tree.Restore(snap)
		slog.Error("delete question", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to delete question.")
		return
	}
	a.invalidate(r)
	w.WriteHeader(http.StatusNoContent)
}

// ReorderQuestions moves one question to a target position inside its
// sibling group and renumbers the group densely.
func (a *Admin) ReorderQuestions(w http.ResponseWriter, r *http.Request) {
	var req reorderRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	q := a.tree.Question(req.ID)
	if q == nil {
		writeError(w, http.StatusNotFound, "Question not found.")
		return
	}

	siblings := a.tree.Siblings(q)
	from := indexOf(siblings, req.ID)
	if from == -1 {
		writeError(w, http.StatusNotFound, "Question not found.")
		return
	}
	orders := tree.Move(siblings, from, req.To)
	if orders == nil {
		writeError(w, http.StatusBadRequest, "Invalid position.")
		return
	}

	snap := a.tree.TakeSnapshot()
	a.tree.ApplyOrders(orders)
	if err := a.questions.Reorder(orders); err != nil {
		a.tree.Restore(snap)
		slog.Error("reorder questions", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to reorder questions.")
		return
	}
	a.invalidate(r)
	writeJSON(w, http.StatusOK, orders)
}

// MoveQuestion swaps a question with its sibling in the given direction.
func (a *Admin) MoveQuestion(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid ID.")
		return
	}
	var req moveRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !req.Direction.Valid() {
		writeError(w, http.StatusBadRequest, "Direction must be up or down.")
		return
	}
	q := a.tree.Question(id)
	if q == nil {
		writeError(w, http.StatusNotFound, "Question not found.")
		return
	}

	orders := tree.SwapAdjacent(a.tree.Siblings(q), id, req.Direction)
	if orders == nil {
		// Boundary moves are a no-op, not an error.
		writeJSON(w, http.StatusOK, []tree.OrderAssignment{})
		return
	}

	snap := a.tree.TakeSnapshot()
	a.tree.ApplyOrders(orders)
	if err := a.questions.Reorder(orders); err != nil {
		a.tree.Restore(snap)
		slog.Error("move question", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to move question.")
		return
	}
	a.invalidate(r)
	writeJSON(w, http.StatusOK, orders)
}

// indexOf finds the position of an id in an ordered sibling group.
func indexOf(siblings []models.Question, id uuid.UUID) int {
	for i := range siblings {
		if siblings[i].ID == id {
			return i
		}
	}
	return -1
}
