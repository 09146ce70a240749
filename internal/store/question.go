// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"faqdesk/internal/i18n"
	"faqdesk/internal/models"
	"faqdesk/internal/tree"
)

// QuestionStore manages the flat question list, its translations, and
// per-language attachments. It always returns flat records — building
// the nested view is the tree package's job.
type QuestionStore struct {
	db *sql.DB
}

// NewQuestionStore returns a new QuestionStore.
func NewQuestionStore(db *sql.DB) *QuestionStore {
	return &QuestionStore{db: db}
}

// QuestionTranslation is one per-language upsert entry. Nil fields leave
// the stored value untouched for languages that already exist.
type QuestionTranslation struct {
	Language       string  `json:"language"`
	Question       *string `json:"question"`
	Answer         *string `json:"answer"`
	AttachmentURL  *string `json:"attachment_url"`
	AttachmentName *string `json:"attachment_name"`
}

// ListFilter narrows List to one sibling group. Zero value lists everything.
type ListFilter struct {
	CategoryID *uuid.UUID
	ParentID   *uuid.UUID
}

// List returns flat questions with translations folded in, ordered by
// sort_order with creation time as the stable tie-break.
func (s *QuestionStore) List(f ListFilter) ([]models.Question, error) {
	query := `
		SELECT q.id, q.category_id, q.parent_id, q.keywords, q.sort_order,
		       q.created_at, q.updated_at,
		       t.language, t.question, t.answer, t.attachment_url, t.attachment_name
		FROM questions q
		LEFT JOIN question_translations t ON t.question_id = q.id`
	var args []any
	switch {
	case f.ParentID != nil:
		query += ` WHERE q.parent_id = $1`
		args = append(args, *f.ParentID)
	case f.CategoryID != nil:
		query += ` WHERE q.category_id = $1 AND q.parent_id IS NULL`
		args = append(args, *f.CategoryID)
	}
	query += ` ORDER BY q.sort_order, q.created_at, q.id, t.language`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	defer rows.Close()

	var items []models.Question
	index := make(map[uuid.UUID]int)
	for rows.Next() {
		var (
			q           models.Question
			categoryID  uuid.NullUUID
			parentID    uuid.NullUUID
			keywordsRaw []byte
			lang        sql.NullString
			qText       sql.NullString
			aText       sql.NullString
			attURL      sql.NullString
			attName     sql.NullString
		)
		err := rows.Scan(
			&q.ID, &categoryID, &parentID, &keywordsRaw, &q.SortOrder,
			&q.CreatedAt, &q.UpdatedAt,
			&lang, &qText, &aText, &attURL, &attName,
		)
		if err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		if categoryID.Valid {
			id := categoryID.UUID
			q.CategoryID = &id
		}
		if parentID.Valid {
			id := parentID.UUID
			q.ParentID = &id
		}

		i, ok := index[q.ID]
		if !ok {
			q.Question = i18n.Text{}
			q.Answer = i18n.Text{}
			if len(keywordsRaw) > 0 {
				if err := json.Unmarshal(keywordsRaw, &q.Keywords); err != nil {
					return nil, fmt.Errorf("decode keywords for %s: %w", q.ID, err)
				}
			}
			items = append(items, q)
			i = len(items) - 1
			index[q.ID] = i
		}
		if !lang.Valid {
			continue
		}
		item := &items[i]
		if qText.String != "" {
			item.Question[lang.String] = qText.String
		}
		if aText.String != "" {
			item.Answer[lang.String] = aText.String
		}
		if attURL.String != "" {
			if item.Attachments == nil {
				item.Attachments = make(map[string]*models.Attachment)
			}
			item.Attachments[lang.String] = &models.Attachment{URL: attURL.String, Name: attName.String}
		}
	}
	return items, rows.Err()
}

// FindByID retrieves one flat question. Returns nil if not found.
func (s *QuestionStore) FindByID(id uuid.UUID) (*models.Question, error) {
	items, err := s.List(ListFilter{})
	if err != nil {
		return nil, fmt.Errorf("find question by id: %w", err)
	}
	for i := range items {
		if items[i].ID == id {
			return &items[i], nil
		}
	}
	return nil, nil
}

// Create inserts a new question at the front of its sibling group — root
// questions of a category or children of a parent — assigning
// min(sibling orders)-1, or 0 for an empty group.
func (s *QuestionStore) Create(categoryID, parentID *uuid.UUID, question, answer i18n.Text, keywords []string) (*models.Question, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("create question: begin: %w", err)
	}
	defer tx.Rollback()

	var order int
	if parentID != nil {
		err = tx.QueryRow(`
			SELECT COALESCE(MIN(sort_order) - 1, 0) FROM questions WHERE parent_id = $1
		`, *parentID).Scan(&order)
	} else {
		err = tx.QueryRow(`
			SELECT COALESCE(MIN(sort_order) - 1, 0) FROM questions
			WHERE category_id = $1 AND parent_id IS NULL
		`, categoryID).Scan(&order)
	}
	if err != nil {
		return nil, fmt.Errorf("create question: next order: %w", err)
	}

	if keywords == nil {
		keywords = []string{}
	}
	keywordsRaw, err := json.Marshal(keywords)
	if err != nil {
		return nil, fmt.Errorf("create question: encode keywords: %w", err)
	}

	q := &models.Question{
		CategoryID: categoryID,
		ParentID:   parentID,
		Question:   question.Clone(),
		Answer:     answer.Clone(),
		Keywords:   keywords,
	}
	err = tx.QueryRow(`
		INSERT INTO questions (category_id, parent_id, keywords, sort_order)
		VALUES ($1, $2, $3, $4)
		RETURNING id, sort_order, created_at, updated_at
	`, categoryID, parentID, keywordsRaw, order).Scan(&q.ID, &q.SortOrder, &q.CreatedAt, &q.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("create question: %w", err)
	}

	langs := make(map[string]bool)
	for lang := range question {
		langs[lang] = true
	}
	for lang := range answer {
		langs[lang] = true
	}
	for lang := range langs {
		_, err := tx.Exec(`
			INSERT INTO question_translations (question_id, language, question, answer)
			VALUES ($1, $2, $3, $4)
		`, q.ID, lang, question[lang], answer[lang])
		if err != nil {
			return nil, fmt.Errorf("create question translation %s: %w", lang, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("create question: commit: %w", err)
	}
	return q, nil
}

// UpsertTranslations applies per-language entries with the same contract
// as CategoryStore.UpsertTranslations: insert-all for new languages,
// overwrite-only-provided for existing ones.
func (s *QuestionStore) UpsertTranslations(id uuid.UUID, entries []QuestionTranslation) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("upsert question translations: begin: %w", err)
	}
	defer tx.Rollback()

	for _, e := range entries {
		_, err := tx.Exec(`
			INSERT INTO question_translations
				(question_id, language, question, answer, attachment_url, attachment_name)
			VALUES ($1, $2, COALESCE($3, ''), COALESCE($4, ''), COALESCE($5, ''), COALESCE($6, ''))
			ON CONFLICT (question_id, language) DO UPDATE SET
				question        = COALESCE($3, question_translations.question),
				answer          = COALESCE($4, question_translations.answer),
				attachment_url  = COALESCE($5, question_translations.attachment_url),
				attachment_name = COALESCE($6, question_translations.attachment_name)
		`, id, e.Language, e.Question, e.Answer, e.AttachmentURL, e.AttachmentName)
		if err != nil {
			return fmt.Errorf("upsert question translation %s: %w", e.Language, err)
		}
	}
	if _, err := tx.Exec(`UPDATE questions SET updated_at = $1 WHERE id = $2`, time.Now(), id); err != nil {
		return fmt.Errorf("upsert question translations: touch: %w", err)
	}

	return tx.Commit()
}

// UpdateKeywords replaces the keyword set of a question.
func (s *QuestionStore) UpdateKeywords(id uuid.UUID, keywords []string) error {
	if keywords == nil {
		keywords = []string{}
	}
	raw, err := json.Marshal(keywords)
	if err != nil {
		return fmt.Errorf("update keywords: encode: %w", err)
	}
	_, err = s.db.Exec(`UPDATE questions SET keywords = $1, updated_at = $2 WHERE id = $3`, raw, time.Now(), id)
	if err != nil {
		return fmt.Errorf("update keywords: %w", err)
	}
	return nil
}

// ClearAttachment removes the attachment for one language.
func (s *QuestionStore) ClearAttachment(id uuid.UUID, language string) error {
	_, err := s.db.Exec(`
		UPDATE question_translations
		SET attachment_url = '', attachment_name = ''
		WHERE question_id = $1 AND language = $2
	`, id, language)
	if err != nil {
		return fmt.Errorf("clear attachment: %w", err)
	}
	return nil
}

// Delete removes a question. The self-referencing cascade on parent_id
// takes the whole subtree with it, along with translations and follow-ups.
func (s *QuestionStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM questions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete question: %w", err)
	}
	return nil
}

// Reorder bulk-updates sort orders in one transaction.
func (s *QuestionStore) Reorder(items []tree.OrderAssignment) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("reorder questions: begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`UPDATE questions SET sort_order = $1, updated_at = $2 WHERE id = $3`)
	if err != nil {
		return fmt.Errorf("reorder questions: prepare: %w", err)
	}
	defer stmt.Close()

	now := time.Now()
	for _, item := range items {
		if _, err := stmt.Exec(item.SortOrder, now, item.ID); err != nil {
			return fmt.Errorf("reorder question %s: %w", item.ID, err)
		}
	}

	return tx.Commit()
}
