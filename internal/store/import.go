// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"faqdesk/internal/models"
)

// ImportStore replaces the whole content set from an export document in
// a single transaction.
type ImportStore struct {
	db *sql.DB
}

// NewImportStore returns a new ImportStore.
func NewImportStore(db *sql.DB) *ImportStore {
	return &ImportStore{db: db}
}

// ReplaceAll wipes categories and questions and inserts the given set,
// preserving IDs, orders, and timestamps. Questions are inserted parents
// first to satisfy the self-referencing foreign key; a parent pointer to
// a question absent from the set is stored as NULL, matching the orphan
// rescue the tree builder applies on read.
func (s *ImportStore) ReplaceAll(categories []models.Category, questions []models.Question) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("import: begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM questions`); err != nil {
		return fmt.Errorf("import: clear questions: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM categories`); err != nil {
		return fmt.Errorf("import: clear categories: %w", err)
	}

	for _, c := range categories {
		_, err := tx.Exec(`
			INSERT INTO categories (id, sort_order, created_at, updated_at)
			VALUES ($1, $2, $3, $4)
		`, c.ID, c.SortOrder, c.CreatedAt, c.UpdatedAt)
		if err != nil {
			return fmt.Errorf("import category %s: %w", c.ID, err)
		}
		for lang, name := range c.Name {
			_, err := tx.Exec(`
				INSERT INTO category_translations (category_id, language, name)
				VALUES ($1, $2, $3)
			`, c.ID, lang, name)
			if err != nil {
				return fmt.Errorf("import category translation %s/%s: %w", c.ID, lang, err)
			}
		}
	}

	known := make(map[uuid.UUID]bool, len(questions))
	for _, q := range questions {
		known[q.ID] = true
	}

	inserted := make(map[uuid.UUID]bool, len(questions))
	remaining := questions
	for len(remaining) > 0 {
		var deferred []models.Question
		progressed := false
		for _, q := range remaining {
			parentID := q.ParentID
			if parentID != nil && !known[*parentID] {
				parentID = nil
			}
			if parentID != nil && !inserted[*parentID] {
				deferred = append(deferred, q)
				continue
			}
			if err := insertQuestion(tx, q, parentID); err != nil {
				return err
			}
			inserted[q.ID] = true
			progressed = true
		}
		if !progressed {
			// Only parent cycles are left; store them as roots so no
			// content is lost.
			for _, q := range deferred {
				if err := insertQuestion(tx, q, nil); err != nil {
					return err
				}
				inserted[q.ID] = true
			}
			break
		}
		remaining = deferred
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("import: commit: %w", err)
	}
	return nil
}

func insertQuestion(tx *sql.Tx, q models.Question, parentID *uuid.UUID) error {
	keywords := q.Keywords
	if keywords == nil {
		keywords = []string{}
	}
	keywordsRaw, err := json.Marshal(keywords)
	if err != nil {
		return fmt.Errorf("import question %s: encode keywords: %w", q.ID, err)
	}

	_, err = tx.Exec(`
		INSERT INTO questions (id, category_id, parent_id, keywords, sort_order, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, q.ID, q.CategoryID, parentID, keywordsRaw, q.SortOrder, q.CreatedAt, q.UpdatedAt)
	if err != nil {
		return fmt.Errorf("import question %s: %w", q.ID, err)
	}

	langs := make(map[string]bool)
	for lang := range q.Question {
		langs[lang] = true
	}
	for lang := range q.Answer {
		langs[lang] = true
	}
	for lang := range q.Attachments {
		langs[lang] = true
	}
	for lang := range langs {
		var attURL, attName string
		if att := q.Attachments[lang]; att != nil {
			attURL, attName = att.URL, att.Name
		}
		_, err := tx.Exec(`
			INSERT INTO question_translations
				(question_id, language, question, answer, attachment_url, attachment_name)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, q.ID, lang, q.Question[lang], q.Answer[lang], attURL, attName)
		if err != nil {
			return fmt.Errorf("import question translation %s/%s: %w", q.ID, lang, err)
		}
	}
	return nil
}
