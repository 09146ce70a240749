// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"faqdesk/internal/content"
	"faqdesk/internal/i18n"
	"faqdesk/internal/models"
	"faqdesk/internal/nav"
)

// newPublicRouter mounts the public handlers the same way the real
// router does, minus rate limiting.
func newPublicRouter(p *Public) chi.Router {
	r := chi.NewRouter()
	r.Get("/tree", p.Tree)
	r.Get("/settings", p.Settings)
	r.Route("/session", func(r chi.Router) {
		r.Post("/", p.CreateSession)
		r.Get("/{id}", p.GetSession)
		r.Post("/{id}/categories", p.ShowCategories)
		r.Post("/{id}/category", p.SelectCategory)
		r.Post("/{id}/select", p.Select)
		r.Post("/{id}/back", p.Back)
		r.Post("/{id}/home", p.Home)
	})
	return r
}

// fixturePublic builds a Public over an in-memory tree with no database,
// no Valkey and no cache. Good enough for pure resolution tests.
func fixturePublic() (*Public, uuid.UUID, uuid.UUID) {
	catID := uuid.New()
	qID := uuid.New()
	cats := []models.Category{
		{ID: catID, Name: i18n.Text{"en": "Delivery", "az": "Çatdırılma"}},
	}
	questions := []models.Question{
		{
			ID:         qID,
			CategoryID: &catID,
			Question:   i18n.Text{"en": "Where is my order?"},
			Answer:     i18n.Text{"en": "On its way.", "ru": "Уже в пути."},
			Attachments: map[string]*models.Attachment{
				"en": {URL: "https://cdn.example.com/map.png", Name: "map.png"},
			},
		},
	}
	resolver := i18n.NewResolver("en", []string{"az", "ru", "en"})
	p := NewPublic(content.New(cats, questions), resolver, nil, nil, nil)
	return p, catID, qID
}

func TestPublicTreeResolution(t *testing.T) {
	p, catID, qID := fixturePublic()
	r := newPublicRouter(p)

	var resp publicTreeResponse
	rec := doJSON(t, r, http.MethodGet, "/tree?lang=ru", nil, &resp)
	if rec.Code != http.StatusOK {
		t.Fatalf("tree: got %d", rec.Code)
	}
	if resp.Lang != "ru" {
		t.Errorf("lang: got %q", resp.Lang)
	}
	if len(resp.Categories) != 1 || resp.Categories[0].ID != catID {
		t.Fatalf("categories: %+v", resp.Categories)
	}
	// Category has no ru name, falls back to the default language.
	if resp.Categories[0].Name != "Delivery" {
		t.Errorf("category name: got %q", resp.Categories[0].Name)
	}
	qs := resp.Categories[0].Questions
	if len(qs) != 1 || qs[0].ID != qID {
		t.Fatalf("questions: %+v", qs)
	}
	if !qs[0].Terminal {
		t.Error("expected terminal question")
	}
	// Answer has a ru translation, text does not.
	if qs[0].Answer != "Уже в пути." {
		t.Errorf("answer: got %q", qs[0].Answer)
	}
	if qs[0].Text != "Where is my order?" {
		t.Errorf("text: got %q", qs[0].Text)
	}
	// No ru attachment slot.
	if qs[0].Attachment != nil {
		t.Errorf("attachment: got %+v", qs[0].Attachment)
	}
}

func TestPublicTreeUnsupportedLangFallsBack(t *testing.T) {
	p, _, _ := fixturePublic()
	r := newPublicRouter(p)

	var resp publicTreeResponse
	doJSON(t, r, http.MethodGet, "/tree?lang=de", nil, &resp)
	if resp.Lang != "en" {
		t.Errorf("expected default language, got %q", resp.Lang)
	}
}

func TestPublicTreeServedFromCache(t *testing.T) {
	env := newTestEnv(t)
	r := newPublicRouter(env.Public)

	canned := []byte(`{"lang":"en","categories":[],"canned":true}`)
	env.TreeCache.Set(context.Background(), "en", canned)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/tree", nil)
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("tree: got %d", rec.Code)
	}
	if rec.Body.String() != string(canned) {
		t.Errorf("expected cached payload, got %s", rec.Body.String())
	}
}

func TestPublicSettingsResolved(t *testing.T) {
	env := newTestEnv(t)
	r := newPublicRouter(env.Public)

	if _, err := env.Settings.Put(models.SettingWelcomeTitle, i18n.Text{"en": "Hello!", "ru": "Здравствуйте!"}); err != nil {
		t.Fatalf("put setting: %v", err)
	}

	var resp struct {
		Lang     string            `json:"lang"`
		Settings map[string]string `json:"settings"`
	}
	rec := doJSON(t, r, http.MethodGet, "/settings?lang=ru", nil, &resp)
	if rec.Code != http.StatusOK {
		t.Fatalf("settings: got %d", rec.Code)
	}
	if resp.Settings[models.SettingWelcomeTitle] != "Здравствуйте!" {
		t.Errorf("resolved setting: %+v", resp.Settings)
	}
}

func TestGuidedSessionFlow(t *testing.T) {
	env := newTestEnv(t)
	admin := newAdminRouter(env.Admin)
	public := newPublicRouter(env.Public)

	// Content: one category, one branching root with a terminal child.
	var cat models.Category
	doJSON(t, admin, http.MethodPost, "/categories/", map[string]any{
		"name": map[string]string{"en": "Delivery"},
	}, &cat)
	var root, child models.Question
	doJSON(t, admin, http.MethodPost, "/questions/", map[string]any{
		"category_id": cat.ID,
		"question":    map[string]string{"en": "Where is my order?"},
	}, &root)
	doJSON(t, admin, http.MethodPost, "/questions/", map[string]any{
		"parent_id": root.ID,
		"question":  map[string]string{"en": "Sent by courier"},
		"answer":    map[string]string{"en": "Check the tracking link."},
	}, &child)

	// Start at home.
	var view sessionView
	rec := doJSON(t, public, http.MethodPost, "/session/", map[string]any{"lang": "en"}, &view)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create session: got %d: %s", rec.Code, rec.Body.String())
	}
	if view.State != nav.StateHome || view.Depth != 0 {
		t.Fatalf("initial view: %+v", view)
	}
	id := view.ID

	// Home -> category list.
	doJSON(t, public, http.MethodPost, "/session/"+id+"/categories", nil, &view)
	if view.State != nav.StateCategories || len(view.Categories) != 1 {
		t.Fatalf("categories view: %+v", view)
	}

	// Enter the category.
	doJSON(t, public, http.MethodPost, "/session/"+id+"/category", map[string]any{
		"category_id": cat.ID,
	}, &view)
	if view.State != nav.StateQuestions || len(view.Items) != 1 {
		t.Fatalf("level view: %+v", view)
	}
	if view.Items[0].ID != root.ID || view.Items[0].Terminal {
		t.Errorf("root item: %+v", view.Items[0])
	}

	// Descend into the branching root.
	doJSON(t, public, http.MethodPost, "/session/"+id+"/select", map[string]any{
		"question_id": root.ID,
	}, &view)
	if view.State != nav.StateQuestions || view.Depth != 1 {
		t.Fatalf("after descend: %+v", view)
	}
	if len(view.Items) != 1 || !view.Items[0].Terminal {
		t.Fatalf("child level: %+v", view.Items)
	}

	// Terminal selection ends at the answer.
	doJSON(t, public, http.MethodPost, "/session/"+id+"/select", map[string]any{
		"question_id": child.ID,
	}, &view)
	if view.State != nav.StateAnswer {
		t.Fatalf("after terminal select: %+v", view)
	}
	if view.Answer != "Check the tracking link." {
		t.Errorf("answer: got %q", view.Answer)
	}

	// Back returns to the child level, home resets everything.
	doJSON(t, public, http.MethodPost, "/session/"+id+"/back", nil, &view)
	if view.State != nav.StateQuestions {
		t.Fatalf("after back: %+v", view)
	}
	doJSON(t, public, http.MethodPost, "/session/"+id+"/home", nil, &view)
	if view.State != nav.StateHome || view.Depth != 0 {
		t.Fatalf("after home: %+v", view)
	}

	// The state round-trips through Valkey.
	doJSON(t, public, http.MethodGet, "/session/"+id, nil, &view)
	if view.State != nav.StateHome {
		t.Errorf("persisted state: %+v", view)
	}
}

func TestGuidedSelectOutsideLevel(t *testing.T) {
	env := newTestEnv(t)
	admin := newAdminRouter(env.Admin)
	public := newPublicRouter(env.Public)

	var cat models.Category
	doJSON(t, admin, http.MethodPost, "/categories/", map[string]any{
		"name": map[string]string{"en": "Delivery"},
	}, &cat)
	var q models.Question
	doJSON(t, admin, http.MethodPost, "/questions/", map[string]any{
		"category_id": cat.ID,
		"question":    map[string]string{"en": "Root"},
		"answer":      map[string]string{"en": "Done."},
	}, &q)

	var view sessionView
	doJSON(t, public, http.MethodPost, "/session/", map[string]any{"lang": "en"}, &view)
	id := view.ID
	doJSON(t, public, http.MethodPost, "/session/"+id+"/category", map[string]any{
		"category_id": cat.ID,
	}, &view)

	// A question that was never offered at this level is rejected.
	rec := doJSON(t, public, http.MethodPost, "/session/"+id+"/select", map[string]any{
		"question_id": uuid.New(),
	}, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("foreign question: got %d, want 404", rec.Code)
	}
}

func TestGuidedSessionNotFound(t *testing.T) {
	env := newTestEnv(t)
	r := newPublicRouter(env.Public)

	rec := doJSON(t, r, http.MethodGet, "/session/deadbeefdeadbeef", nil, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing session: got %d, want 404", rec.Code)
	}
}

func TestSessionUnsupportedLangDefaults(t *testing.T) {
	env := newTestEnv(t)
	r := newPublicRouter(env.Public)

	var view sessionView
	rec := doJSON(t, r, http.MethodPost, "/session/", map[string]any{"lang": "de"}, &view)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: got %d", rec.Code)
	}
	if view.Lang != "en" {
		t.Errorf("lang: got %q, want default", view.Lang)
	}
}
