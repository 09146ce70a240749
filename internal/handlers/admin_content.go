// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"faqdesk/internal/content"
	"faqdesk/internal/flow"
	"faqdesk/internal/i18n"
	"faqdesk/internal/models"
	"faqdesk/internal/store"
)

// maxImportBytes caps export documents accepted by Import.
const maxImportBytes = 16 << 20

// maxAttachmentBytes caps a single attachment upload.
const maxAttachmentBytes = 10 << 20

// categoryTree is one category with its built question roots.
type categoryTree struct {
	models.Category
	Questions []models.Question `json:"questions"`
}

type adminTreeResponse struct {
	Categories          []categoryTree `json:"categories"`
	MissingTranslations int            `json:"missing_translations"`
}

// Tree returns the full built content tree with the translation gap count.
func (a *Admin) Tree(w http.ResponseWriter, r *http.Request) {
	cats := a.tree.Categories()
	resp := adminTreeResponse{
		Categories:          make([]categoryTree, 0, len(cats)),
		MissingTranslations: a.tree.MissingTranslations(a.resolver),
	}
	for _, c := range cats {
		resp.Categories = append(resp.Categories, categoryTree{
			Category:  c,
			Questions: a.tree.RootQuestions(c.ID),
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

// entityStatus is one incomplete entity in the translation report.
type entityStatus struct {
	ID            uuid.UUID `json:"id"`
	Type          string    `json:"type"`
	MissingName   []string  `json:"missing_name,omitempty"`
	MissingText   []string  `json:"missing_text,omitempty"`
	MissingAnswer []string  `json:"missing_answer,omitempty"`
}

type translationStatusResponse struct {
	Total      int            `json:"total_missing"`
	Incomplete []entityStatus `json:"incomplete"`
}

// TranslationStatus reports which entities still miss translations in
// which languages. Fully empty answers mark navigational questions and
// are not counted.
func (a *Admin) TranslationStatus(w http.ResponseWriter, r *http.Request) {
	resp := translationStatusResponse{Incomplete: []entityStatus{}}

	for _, c := range a.tree.Categories() {
		st := a.resolver.Status(c.Name)
		if len(st.Missing) == 0 {
			continue
		}
		resp.Total += len(st.Missing)
		resp.Incomplete = append(resp.Incomplete, entityStatus{
			ID: c.ID, Type: "category", MissingName: st.Missing,
		})
	}

	doc := a.tree.Export()
	for _, q := range doc.Questions {
		es := entityStatus{ID: q.ID, Type: "question"}
		if st := a.resolver.Status(q.Question); len(st.Missing) > 0 {
			es.MissingText = st.Missing
		}
		if !q.Answer.IsEmpty() {
			if st := a.resolver.Status(q.Answer); len(st.Missing) > 0 {
				es.MissingAnswer = st.Missing
			}
		}
		if len(es.MissingText) == 0 && len(es.MissingAnswer) == 0 {
			continue
		}
		resp.Total += len(es.MissingText) + len(es.MissingAnswer)
		resp.Incomplete = append(resp.Incomplete, es)
	}

	writeJSON(w, http.StatusOK, resp)
}

// ---------- Settings ----------

type putSettingRequest struct {
	Key   string    `json:"key"`
	Value i18n.Text `json:"value"`
}

// GetSettings returns every mini-app chrome text with all translations.
func (a *Admin) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := a.settings.All()
	if err != nil {
		slog.Error("list settings", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to load settings.")
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

// PutSetting merges per-language values into one setting.
func (a *Admin) PutSetting(w http.ResponseWriter, r *http.Request) {
	var req putSettingRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Key == "" {
		writeError(w, http.StatusBadRequest, "Key is required.")
		return
	}
	if lang := validateLanguages(a.resolver, langKeys(req.Value)); lang != "" {
		writeError(w, http.StatusBadRequest, "Unsupported language: "+lang)
		return
	}

	setting, err := a.settings.Put(req.Key, req.Value)
	if err != nil {
		slog.Error("put setting", "key", req.Key, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to save setting.")
		return
	}
	writeJSON(w, http.StatusOK, setting)
}

// ---------- Attachments ----------

// UploadAttachment stores a file for one language slot of a question.
// Multipart fields: language, file.
func (a *Admin) UploadAttachment(w http.ResponseWriter, r *http.Request) {
	if a.storage == nil {
		writeError(w, http.StatusServiceUnavailable, "File storage is not configured.")
		return
	}
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

	r.Body = http.MaxBytesReader(w, r.Body, maxAttachmentBytes)
	if err := r.ParseMultipartForm(maxAttachmentBytes); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid multipart form.")
		return
	}
	lang := r.FormValue("language")
	if bad := validateLanguages(a.resolver, map[string]bool{lang: true}); bad != "" {
		writeError(w, http.StatusBadRequest, "Unsupported language: "+bad)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "A file is required.")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	url, err := a.storage.Upload(r.Context(), id, lang, header.Filename, contentType, file, header.Size)
	if err != nil {
		slog.Error("upload attachment", "question", id, "lang", lang, "error", err)
		writeError(w, http.StatusBadGateway, "Upload failed.")
		return
	}

	// Drop the previous object for this slot, if it was ours.
	if prev := existing.Attachments[lang]; prev != nil {
		if key, ok := a.storage.ExtractKey(prev.URL); ok {
			if err := a.storage.Delete(r.Context(), key); err != nil {
				slog.Warn("delete previous attachment", "question", id, "key", key, "error", err)
			}
		}
	}

	att := &models.Attachment{URL: url, Name: header.Filename}
	updated := *existing
	updated.Attachments = make(map[string]*models.Attachment, len(existing.Attachments)+1)
	for k, v := range existing.Attachments {
		updated.Attachments[k] = v
	}
	updated.Attachments[lang] = att

	snap := a.tree.TakeSnapshot()
	a.tree.PutQuestion(updated)
	err = a.questions.UpsertTranslations(id, []store.QuestionTranslation{{
		Language:       lang,
		AttachmentURL:  &att.URL,
		AttachmentName: &att.Name,
	}})
	if err != nil {
		a.tree.Restore(snap)
		slog.Error("persist attachment", "question", id, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to save attachment.")
		return
	}
	a.invalidate(r)
	writeJSON(w, http.StatusCreated, att)
}

// DeleteAttachment removes the attachment for one language slot.
func (a *Admin) DeleteAttachment(w http.ResponseWriter, r *http.Request) {
	if a.storage == nil {
		writeError(w, http.StatusServiceUnavailable, "File storage is not configured.")
		return
	}
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
	lang := r.URL.Query().Get("language")
	att := existing.Attachments[lang]
	if att == nil {
		writeError(w, http.StatusNotFound, "No attachment for this language.")
		return
	}

	snap := a.tree.TakeSnapshot()
	updated := *existing
	updated.Attachments = make(map[string]*models.Attachment, len(existing.Attachments))
	for k, v := range existing.Attachments {
		if k != lang {
			updated.Attachments[k] = v
		}
	}
	a.tree.PutQuestion(updated)
	if err := a.questions.ClearAttachment(id, lang); err != nil {
		a.tree.Restore(snap)
		slog.Error("clear attachment", "question", id, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to delete attachment.")
		return
	}

	if key, ok := a.storage.ExtractKey(att.URL); ok {
		if err := a.storage.Delete(r.Context(), key); err != nil {
			slog.Warn("delete attachment object", "question", id, "key", key, "error", err)
		}
	}
	a.invalidate(r)
	w.WriteHeader(http.StatusNoContent)
}

// ---------- Follow-ups and the flow tester ----------

type putFollowUpsRequest struct {
	Conditions []models.Condition `json:"conditions"`
}

// GetFollowUps returns the condition list of a question, or null if the
// question has none.
func (a *Admin) GetFollowUps(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid ID.")
		return
	}
	if a.tree.Question(id) == nil {
		writeError(w, http.StatusNotFound, "Question not found.")
		return
	}
	fu, err := a.followUps.FindByQuestion(id)
	if err != nil {
		slog.Error("get follow-ups", "question", id, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to load follow-ups.")
		return
	}
	writeJSON(w, http.StatusOK, fu)
}

// PutFollowUps replaces the condition list of a question.
func (a *Admin) PutFollowUps(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid ID.")
		return
	}
	if a.tree.Question(id) == nil {
		writeError(w, http.StatusNotFound, "Question not found.")
		return
	}

	var req putFollowUpsRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(req.Conditions) > maxConditions {
		writeError(w, http.StatusBadRequest, "Too many conditions (max 20).")
		return
	}
	for _, c := range req.Conditions {
		if !c.Type.Valid() {
			writeError(w, http.StatusBadRequest, "Unknown match type: "+string(c.Type))
			return
		}
		if c.Value == "" || len(c.Value) > maxValueLen {
			writeError(w, http.StatusBadRequest, "Condition value must be 1-500 characters.")
			return
		}
		if a.tree.Question(c.TargetQuestionID) == nil {
			writeError(w, http.StatusBadRequest, "Target question not found: "+c.TargetQuestionID.String())
			return
		}
	}

	fu, err := a.followUps.Put(id, req.Conditions)
	if err != nil {
		slog.Error("put follow-ups", "question", id, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to save follow-ups.")
		return
	}
	writeJSON(w, http.StatusOK, fu)
}

type flowNextRequest struct {
	QuestionID uuid.UUID `json:"question_id"`
	Reply      string    `json:"reply"`
}

type flowNextResponse struct {
	NextQuestionID *uuid.UUID       `json:"next_question_id"`
	Next           *models.Question `json:"next,omitempty"`
}

// FlowNext runs one step of the legacy flat flow for the admin tester:
// given the current question and a user reply, it returns the next
// question or null when the flow terminates.
func (a *Admin) FlowNext(w http.ResponseWriter, r *http.Request) {
	var req flowNextRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if a.tree.Question(req.QuestionID) == nil {
		writeError(w, http.StatusNotFound, "Question not found.")
		return
	}

	followUps, err := a.followUps.List()
	if err != nil {
		slog.Error("flow next: load follow-ups", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to load follow-ups.")
		return
	}

	doc := a.tree.Export()
	engine := flow.New(doc.Questions, followUps)
	resp := flowNextResponse{NextQuestionID: engine.Next(req.QuestionID, req.Reply)}
	if resp.NextQuestionID != nil {
		resp.Next = a.tree.Question(*resp.NextQuestionID)
	}
	writeJSON(w, http.StatusOK, resp)
}

// ---------- Export / import ----------

// Export dumps the whole content set as a portable JSON document.
func (a *Admin) Export(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Disposition", `attachment; filename="faqdesk-export.json"`)
	writeJSON(w, http.StatusOK, a.tree.Export())
}

// Import validates an export document and replaces the whole content
// set. Validation happens before any state is touched: a rejected
// document leaves both the aggregate and the database as they were.
func (a *Admin) Import(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxImportBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read import document.")
		return
	}
	doc, err := content.ParseImport(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	snap := a.tree.TakeSnapshot()
	a.tree.ReplaceFrom(doc)
	if err := a.importStore.ReplaceAll(doc.Categories, doc.Questions); err != nil {
		a.tree.Restore(snap)
		slog.Error("import", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to persist import.")
		return
	}
	a.invalidate(r)

	cats, questions := a.tree.Len()
	writeJSON(w, http.StatusOK, map[string]int{
		"categories": cats,
		"questions":  questions,
	})
}
