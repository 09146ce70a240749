// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"faqdesk/internal/nav"
)

// Admin navigation sessions back the editor's breadcrumb view. The
// machine state lives in Valkey so the panel survives reloads and the
// backend stays stateless across instances.

type createNavRequest struct {
	Lang string `json:"lang"`
}

type navResponse struct {
	ID string `json:"id"`
	*nav.Admin
}

type navCategoryRequest struct {
	CategoryID uuid.UUID `json:"category_id"`
}

type navIntoRequest struct {
	QuestionID uuid.UUID `json:"question_id"`
}

type navBreadcrumbRequest struct {
	Index int `json:"index"`
}

// CreateNav starts a fresh admin navigation session.
func (a *Admin) CreateNav(w http.ResponseWriter, r *http.Request) {
	var req createNavRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	lang := req.Lang
	if lang == "" {
		lang = a.resolver.Default
	}
	if bad := validateLanguages(a.resolver, map[string]bool{lang: true}); bad != "" {
		writeError(w, http.StatusBadRequest, "Unsupported language: "+bad)
		return
	}

	machine := nav.NewAdmin(lang)
	id, err := a.sessions.CreateAdmin(r.Context(), machine)
	if err != nil {
		slog.Error("create admin nav session", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to create session.")
		return
	}
	writeJSON(w, http.StatusCreated, navResponse{ID: id, Admin: machine})
}

// GetNav returns the current session state.
func (a *Admin) GetNav(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	machine, err := a.sessions.GetAdmin(r.Context(), id)
	if err != nil {
		slog.Error("get admin nav session", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to load session.")
		return
	}
	if machine == nil {
		writeError(w, http.StatusNotFound, "Session not found.")
		return
	}
	writeJSON(w, http.StatusOK, navResponse{ID: id, Admin: machine})
}

// NavCategory selects a category, resetting the trail to it.
func (a *Admin) NavCategory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	machine, err := a.sessions.GetAdmin(r.Context(), id)
	if err != nil || machine == nil {
		a.navSessionError(w, id, err)
		return
	}

	var req navCategoryRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	cat := a.tree.Category(req.CategoryID)
	if cat == nil {
		writeError(w, http.StatusNotFound, "Category not found.")
		return
	}

	machine.SelectCategory(a.resolver, *cat, a.tree.RootQuestions(cat.ID))
	a.saveNav(w, r, id, machine)
}

// NavInto descends into a question at the current level.
func (a *Admin) NavInto(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	machine, err := a.sessions.GetAdmin(r.Context(), id)
	if err != nil || machine == nil {
		a.navSessionError(w, id, err)
		return
	}

	var req navIntoRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	q := a.tree.Built(req.QuestionID)
	if q == nil {
		writeError(w, http.StatusNotFound, "Question not found.")
		return
	}
	if err := machine.NavigateInto(a.resolver, *q); err != nil {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	a.saveNav(w, r, id, machine)
}

// NavBreadcrumb truncates the trail to a breadcrumb index.
func (a *Admin) NavBreadcrumb(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	machine, err := a.sessions.GetAdmin(r.Context(), id)
	if err != nil || machine == nil {
		a.navSessionError(w, id, err)
		return
	}

	var req navBreadcrumbRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := machine.NavigateToBreadcrumb(req.Index); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	a.saveNav(w, r, id, machine)
}

// NavPanel marks the edit panel open. Back navigation closes it again.
func (a *Admin) NavPanel(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	machine, err := a.sessions.GetAdmin(r.Context(), id)
	if err != nil || machine == nil {
		a.navSessionError(w, id, err)
		return
	}
	machine.OpenPanel()
	a.saveNav(w, r, id, machine)
}

func (a *Admin) saveNav(w http.ResponseWriter, r *http.Request, id string, machine *nav.Admin) {
	if err := a.sessions.SaveAdmin(r.Context(), id, machine); err != nil {
		slog.Error("save admin nav session", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to save session.")
		return
	}
	writeJSON(w, http.StatusOK, navResponse{ID: id, Admin: machine})
}

func (a *Admin) navSessionError(w http.ResponseWriter, id string, err error) {
	if err != nil {
		slog.Error("load admin nav session", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to load session.")
		return
	}
	writeError(w, http.StatusNotFound, "Session not found.")
}
