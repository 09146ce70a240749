// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"faqdesk/internal/cache"
	"faqdesk/internal/content"
	"faqdesk/internal/i18n"
	"faqdesk/internal/models"
	"faqdesk/internal/nav"
	"faqdesk/internal/session"
	"faqdesk/internal/store"
)

// Public groups the end-user mini-app handlers. Everything here is
// read-only against the content tree; the only writes go to the session
// store in Valkey.
type Public struct {
	tree     *content.Tree
	resolver i18n.Resolver
	settings *store.SettingStore
	sessions *session.Store
	cache    *cache.TreeCache
}

// NewPublic creates the public handler group.
func NewPublic(t *content.Tree, resolver i18n.Resolver, settings *store.SettingStore, sessions *session.Store, treeCache *cache.TreeCache) *Public {
	return &Public{
		tree:     t,
		resolver: resolver,
		settings: settings,
		sessions: sessions,
		cache:    treeCache,
	}
}

// lang picks the request language: the lang query parameter if it is a
// configured content language, the default otherwise.
func (p *Public) lang(r *http.Request) string {
	lang := r.URL.Query().Get("lang")
	for _, supported := range p.resolver.Supported {
		if lang == supported {
			return lang
		}
	}
	return p.resolver.Default
}

// publicQuestion is one resolved tree node served to the mini-app.
type publicQuestion struct {
	ID         uuid.UUID          `json:"id"`
	Text       string             `json:"text"`
	Terminal   bool               `json:"terminal"`
	Answer     string             `json:"answer,omitempty"`
	Attachment *models.Attachment `json:"attachment,omitempty"`
	Children   []publicQuestion   `json:"children,omitempty"`
}

// publicCategory is one resolved category with its question tree.
type publicCategory struct {
	ID        uuid.UUID        `json:"id"`
	Name      string           `json:"name"`
	Questions []publicQuestion `json:"questions"`
}

type publicTreeResponse struct {
	Lang       string           `json:"lang"`
	Categories []publicCategory `json:"categories"`
}

// Tree serves the resolved category tree for one language, cached at
// two levels and invalidated on every admin mutation.
func (p *Public) Tree(w http.ResponseWriter, r *http.Request) {
	lang := p.lang(r)

	if p.cache != nil {
		if payload, ok := p.cache.Get(r.Context(), lang); ok {
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			w.Write(payload)
			return
		}
	}

	resp := publicTreeResponse{Lang: lang, Categories: []publicCategory{}}
	for _, c := range p.tree.Categories() {
		resp.Categories = append(resp.Categories, publicCategory{
			ID:        c.ID,
			Name:      p.resolver.Resolve(c.Name, lang, "Untitled"),
			Questions: p.resolveQuestions(p.tree.RootQuestions(c.ID), lang),
		})
	}

	payload, err := json.Marshal(resp)
	if err != nil {
		slog.Error("encode public tree", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to build tree.")
		return
	}
	if p.cache != nil {
		p.cache.Set(r.Context(), lang, payload)
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Write(payload)
}

func (p *Public) resolveQuestions(qs []models.Question, lang string) []publicQuestion {
	out := make([]publicQuestion, 0, len(qs))
	for i := range qs {
		q := &qs[i]
		node := publicQuestion{
			ID:       q.ID,
			Text:     p.resolver.Resolve(q.Question, lang, "Untitled"),
			Terminal: q.IsTerminal(),
			Children: p.resolveQuestions(q.SubQuestions, lang),
		}
		if node.Terminal {
			node.Answer = p.resolver.Resolve(q.Answer, lang, "")
			node.Attachment = q.Attachments[lang]
		}
		out = append(out, node)
	}
	return out
}

// Settings serves the resolved mini-app chrome texts for one language.
func (p *Public) Settings(w http.ResponseWriter, r *http.Request) {
	lang := p.lang(r)
	settings, err := p.settings.All()
	if err != nil {
		slog.Error("load public settings", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to load settings.")
		return
	}
	resolved := make(map[string]string, len(settings))
	for _, s := range settings {
		resolved[s.Key] = p.resolver.Resolve(s.Value, lang, "")
	}
	writeJSON(w, http.StatusOK, map[string]any{"lang": lang, "settings": resolved})
}

// ---------- Guided sessions ----------

type createSessionRequest struct {
	Lang string `json:"lang"`
}

type selectCategoryRequest struct {
	CategoryID uuid.UUID `json:"category_id"`
}

type selectQuestionRequest struct {
	QuestionID uuid.UUID `json:"question_id"`
}

// itemView is one selectable entry at the current level.
type itemView struct {
	ID       uuid.UUID `json:"id"`
	Text     string    `json:"text"`
	Terminal bool      `json:"terminal"`
}

// sessionView is the session state shaped for rendering.
type sessionView struct {
	ID         string             `json:"id"`
	Lang       string             `json:"lang"`
	State      nav.State          `json:"state"`
	Categories []itemView         `json:"categories,omitempty"`
	Items      []itemView         `json:"items,omitempty"`
	Current    *itemView          `json:"current,omitempty"`
	Answer     string             `json:"answer,omitempty"`
	Attachment *models.Attachment `json:"attachment,omitempty"`
	Depth      int                `json:"depth"`
}

func (p *Public) view(id string, g *nav.Guided) sessionView {
	v := sessionView{
		ID:    id,
		Lang:  g.Lang,
		State: g.State,
		Depth: g.Depth(),
	}
	switch g.State {
	case nav.StateCategories:
		for _, c := range p.tree.Categories() {
			v.Categories = append(v.Categories, itemView{
				ID:   c.ID,
				Text: p.resolver.Resolve(c.Name, g.Lang, "Untitled"),
			})
		}
	case nav.StateQuestions:
		for i := range g.Questions {
			q := &g.Questions[i]
			v.Items = append(v.Items, itemView{
				ID:       q.ID,
				Text:     p.resolver.Resolve(q.Question, g.Lang, "Untitled"),
				Terminal: q.IsTerminal(),
			})
		}
	case nav.StateAnswer:
		v.Answer = g.CurrentAnswer
		if g.CurrentQuestion != nil {
			v.Attachment = g.CurrentQuestion.Attachments[g.Lang]
		}
	}
	if g.CurrentQuestion != nil {
		v.Current = &itemView{
			ID:   g.CurrentQuestion.ID,
			Text: p.resolver.Resolve(g.CurrentQuestion.Question, g.Lang, "Untitled"),
		}
	}
	return v
}

// CreateSession starts a guided session at the home screen.
func (p *Public) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	lang := p.resolver.Default
	for _, supported := range p.resolver.Supported {
		if req.Lang == supported {
			lang = req.Lang
		}
	}

	g := nav.NewGuided(lang)
	id, err := p.sessions.CreateGuided(r.Context(), g)
	if err != nil {
		slog.Error("create guided session", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to create session.")
		return
	}
	writeJSON(w, http.StatusCreated, p.view(id, g))
}

// GetSession returns the current session view.
func (p *Public) GetSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	g, err := p.sessions.GetGuided(r.Context(), id)
	if err != nil || g == nil {
		p.sessionError(w, id, err)
		return
	}
	writeJSON(w, http.StatusOK, p.view(id, g))
}

// ShowCategories moves a session from the home screen to the category
// list.
func (p *Public) ShowCategories(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	g, err := p.sessions.GetGuided(r.Context(), id)
	if err != nil || g == nil {
		p.sessionError(w, id, err)
		return
	}
	g.ShowCategories()
	p.save(w, r, id, g)
}

// SelectCategory enters a category and shows its root questions.
func (p *Public) SelectCategory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	g, err := p.sessions.GetGuided(r.Context(), id)
	if err != nil || g == nil {
		p.sessionError(w, id, err)
		return
	}

	var req selectCategoryRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if p.tree.Category(req.CategoryID) == nil {
		writeError(w, http.StatusNotFound, "Category not found.")
		return
	}

	if g.State == nav.StateHome {
		g.ShowCategories()
	}
	g.SelectCategory(p.tree.RootQuestions(req.CategoryID))
	p.save(w, r, id, g)
}

// Select picks a question at the current level: terminal questions end
// at their answer, branching ones descend a level.
func (p *Public) Select(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	g, err := p.sessions.GetGuided(r.Context(), id)
	if err != nil || g == nil {
		p.sessionError(w, id, err)
		return
	}

	var req selectQuestionRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	// Select against the session's own snapshot of the level, so a tree
	// mutation mid-session cannot produce a level the user never saw.
	var picked *models.Question
	for i := range g.Questions {
		if g.Questions[i].ID == req.QuestionID {
			picked = &g.Questions[i]
			break
		}
	}
	if picked == nil {
		writeError(w, http.StatusNotFound, "Question is not at the current level.")
		return
	}
	if err := g.Select(p.resolver, *picked); err != nil {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	p.save(w, r, id, g)
}

// Back steps one level up.
func (p *Public) Back(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	g, err := p.sessions.GetGuided(r.Context(), id)
	if err != nil || g == nil {
		p.sessionError(w, id, err)
		return
	}
	g.GoBack()
	p.save(w, r, id, g)
}

// Home resets the session to the start screen from any state.
func (p *Public) Home(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	g, err := p.sessions.GetGuided(r.Context(), id)
	if err != nil || g == nil {
		p.sessionError(w, id, err)
		return
	}
	g.GoHome()
	p.save(w, r, id, g)
}

func (p *Public) save(w http.ResponseWriter, r *http.Request, id string, g *nav.Guided) {
	if err := p.sessions.SaveGuided(r.Context(), id, g); err != nil {
		slog.Error("save guided session", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to save session.")
		return
	}
	writeJSON(w, http.StatusOK, p.view(id, g))
}

func (p *Public) sessionError(w http.ResponseWriter, id string, err error) {
	if err != nil {
		slog.Error("load guided session", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to load session.")
		return
	}
	writeError(w, http.StatusNotFound, "Session not found.")
}
