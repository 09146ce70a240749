// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"faqdesk/internal/i18n"
	"faqdesk/internal/models"
)

// SettingStore manages translated mini-app chrome texts in app_settings.
type SettingStore struct {
	db *sql.DB
}

// NewSettingStore returns a new SettingStore.
func NewSettingStore(db *sql.DB) *SettingStore {
	return &SettingStore{db: db}
}

// All returns every setting, value bags decoded.
func (s *SettingStore) All() ([]models.Setting, error) {
	rows, err := s.db.Query(`SELECT key, value, updated_at FROM app_settings ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	defer rows.Close()

	var items []models.Setting
	for rows.Next() {
		var (
			item models.Setting
			raw  []byte
		)
		if err := rows.Scan(&item.Key, &raw, &item.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan setting: %w", err)
		}
		if err := json.Unmarshal(raw, &item.Value); err != nil {
			return nil, fmt.Errorf("decode setting %s: %w", item.Key, err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// Get returns one setting, or nil if the key is unknown.
func (s *SettingStore) Get(key string) (*models.Setting, error) {
	row := s.db.QueryRow(`SELECT key, value, updated_at FROM app_settings WHERE key = $1`, key)
	var (
		item models.Setting
		raw  []byte
	)
	err := row.Scan(&item.Key, &raw, &item.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get setting: %w", err)
	}
	if err := json.Unmarshal(raw, &item.Value); err != nil {
		return nil, fmt.Errorf("decode setting %s: %w", key, err)
	}
	return &item, nil
}

// Put merges per-language values into a setting, creating it if needed.
// Languages absent from value keep their stored text.
func (s *SettingStore) Put(key string, value i18n.Text) (*models.Setting, error) {
	existing, err := s.Get(key)
	if err != nil {
		return nil, err
	}
	merged := i18n.Text{}
	if existing != nil {
		merged = existing.Value.Clone()
	}
	for lang, text := range value {
		merged[lang] = text
	}

	raw, err := json.Marshal(merged)
	if err != nil {
		return nil, fmt.Errorf("put setting: encode: %w", err)
	}
	item := &models.Setting{Key: key, Value: merged, UpdatedAt: time.Now()}
	_, err = s.db.Exec(`
		INSERT INTO app_settings (key, value, updated_at) VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE SET value = $2, updated_at = $3
	`, key, raw, item.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("put setting: %w", err)
	}
	return item, nil
}
