// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store contains the PostgreSQL persistence layer. Translated
// fields are stored one row per language and folded into i18n.Text bags
// on read, so the rest of the application never sees the join.
package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"faqdesk/internal/i18n"
	"faqdesk/internal/models"
	"faqdesk/internal/tree"
)

// CategoryStore manages categories and their translations.
type CategoryStore struct {
	db *sql.DB
}

// NewCategoryStore returns a new CategoryStore.
func NewCategoryStore(db *sql.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

// CategoryTranslation is one per-language upsert entry. Nil Name means
// "leave the stored name untouched" for languages that already exist.
type CategoryTranslation struct {
	Language string  `json:"language"`
	Name     *string `json:"name"`
}

// List returns all categories ordered by sort_order, translations folded in.
func (s *CategoryStore) List() ([]models.Category, error) {
	rows, err := s.db.Query(`
		SELECT c.id, c.sort_order, c.created_at, c.updated_at, t.language, t.name
		FROM categories c
		LEFT JOIN category_translations t ON t.category_id = c.id
		ORDER BY c.sort_order, c.created_at, t.language
	`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var items []models.Category
	index := make(map[uuid.UUID]int)
	for rows.Next() {
		var (
			c    models.Category
			lang sql.NullString
			name sql.NullString
		)
		if err := rows.Scan(&c.ID, &c.SortOrder, &c.CreatedAt, &c.UpdatedAt, &lang, &name); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		i, ok := index[c.ID]
		if !ok {
			c.Name = i18n.Text{}
			items = append(items, c)
			i = len(items) - 1
			index[c.ID] = i
		}
		if lang.Valid {
			items[i].Name[lang.String] = name.String
		}
	}
	return items, rows.Err()
}

// FindByID retrieves a category by ID. Returns nil if not found.
func (s *CategoryStore) FindByID(id uuid.UUID) (*models.Category, error) {
	items, err := s.List()
	if err != nil {
		return nil, fmt.Errorf("find category by id: %w", err)
	}
	for i := range items {
		if items[i].ID == id {
			return &items[i], nil
		}
	}
	return nil, nil
}

// Create inserts a new category at the front of the list: its sort order
// is one below the current minimum, so existing categories keep theirs.
func (s *CategoryStore) Create(name i18n.Text) (*models.Category, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("create category: begin: %w", err)
	}
	defer tx.Rollback()

	var order int
	err = tx.QueryRow(`SELECT COALESCE(MIN(sort_order) - 1, 0) FROM categories`).Scan(&order)
	if err != nil {
		return nil, fmt.Errorf("create category: next order: %w", err)
	}

	c := &models.Category{Name: name.Clone()}
	err = tx.QueryRow(`
		INSERT INTO categories (sort_order) VALUES ($1)
		RETURNING id, sort_order, created_at, updated_at
	`, order).Scan(&c.ID, &c.SortOrder, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}

	for lang, text := range name {
		if _, err := tx.Exec(`
			INSERT INTO category_translations (category_id, language, name)
			VALUES ($1, $2, $3)
		`, c.ID, lang, text); err != nil {
			return nil, fmt.Errorf("create category translation %s: %w", lang, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("create category: commit: %w", err)
	}
	return c, nil
}

// UpsertTranslations applies per-language entries. A language not yet
// stored is inserted with all fields; an existing language only
// overwrites fields that were explicitly provided — a nil field never
// nulls out stored content.
func (s *CategoryStore) UpsertTranslations(id uuid.UUID, entries []CategoryTranslation) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("upsert category translations: begin: %w", err)
	}
	defer tx.Rollback()

	for _, e := range entries {
		_, err := tx.Exec(`
			INSERT INTO category_translations (category_id, language, name)
			VALUES ($1, $2, COALESCE($3, ''))
			ON CONFLICT (category_id, language)
			DO UPDATE SET name = COALESCE($3, category_translations.name)
		`, id, e.Language, e.Name)
		if err != nil {
			return fmt.Errorf("upsert category translation %s: %w", e.Language, err)
		}
	}
	if _, err := tx.Exec(`UPDATE categories SET updated_at = $1 WHERE id = $2`, time.Now(), id); err != nil {
		return fmt.Errorf("upsert category translations: touch: %w", err)
	}

	return tx.Commit()
}

// Delete removes a category. Its questions, their translations, and any
// follow-ups cascade away through the schema's foreign keys.
func (s *CategoryStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}

// Reorder bulk-updates sort orders in one transaction.
func (s *CategoryStore) Reorder(items []tree.OrderAssignment) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("reorder categories: begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`UPDATE categories SET sort_order = $1, updated_at = $2 WHERE id = $3`)
	if err != nil {
		return fmt.Errorf("reorder categories: prepare: %w", err)
	}
	defer stmt.Close()

	now := time.Now()
	for _, item := range items {
		if _, err := stmt.Exec(item.SortOrder, now, item.ID); err != nil {
			return fmt.Errorf("reorder category %s: %w", item.ID, err)
		}
	}

	return tx.Commit()
}
