// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"faqdesk/internal/models"
)

// FollowUpStore manages the legacy flat-flow condition lists.
type FollowUpStore struct {
	db *sql.DB
}

// NewFollowUpStore returns a new FollowUpStore.
func NewFollowUpStore(db *sql.DB) *FollowUpStore {
	return &FollowUpStore{db: db}
}

// List returns all follow-ups with conditions in evaluation order.
func (s *FollowUpStore) List() ([]models.FollowUp, error) {
	rows, err := s.db.Query(`
		SELECT f.id, f.question_id, c.match_type, c.value, c.target_question_id
		FROM follow_ups f
		LEFT JOIN follow_up_conditions c ON c.follow_up_id = f.id
		ORDER BY f.question_id, c.position
	`)
	if err != nil {
		return nil, fmt.Errorf("list follow-ups: %w", err)
	}
	defer rows.Close()

	var items []models.FollowUp
	index := make(map[uuid.UUID]int)
	for rows.Next() {
		var (
			f      models.FollowUp
			mtype  sql.NullString
			value  sql.NullString
			target uuid.NullUUID
		)
		if err := rows.Scan(&f.ID, &f.QuestionID, &mtype, &value, &target); err != nil {
			return nil, fmt.Errorf("scan follow-up: %w", err)
		}
		i, ok := index[f.ID]
		if !ok {
			items = append(items, f)
			i = len(items) - 1
			index[f.ID] = i
		}
		if mtype.Valid {
			items[i].Conditions = append(items[i].Conditions, models.Condition{
				Type:             models.MatchType(mtype.String),
				Value:            value.String,
				TargetQuestionID: target.UUID,
			})
		}
	}
	return items, rows.Err()
}

// FindByQuestion returns the follow-up attached to a question, or nil.
func (s *FollowUpStore) FindByQuestion(questionID uuid.UUID) (*models.FollowUp, error) {
	items, err := s.List()
	if err != nil {
		return nil, fmt.Errorf("find follow-up: %w", err)
	}
	for i := range items {
		if items[i].QuestionID == questionID {
			return &items[i], nil
		}
	}
	return nil, nil
}

// Put replaces the condition list of a question's follow-up, creating the
// follow-up if needed. Condition order is the evaluation order.
func (s *FollowUpStore) Put(questionID uuid.UUID, conditions []models.Condition) (*models.FollowUp, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("put follow-up: begin: %w", err)
	}
	defer tx.Rollback()

	f := &models.FollowUp{QuestionID: questionID, Conditions: conditions}
	err = tx.QueryRow(`
		INSERT INTO follow_ups (question_id) VALUES ($1)
		ON CONFLICT (question_id) DO UPDATE SET question_id = EXCLUDED.question_id
		RETURNING id
	`, questionID).Scan(&f.ID)
	if err != nil {
		return nil, fmt.Errorf("put follow-up: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM follow_up_conditions WHERE follow_up_id = $1`, f.ID); err != nil {
		return nil, fmt.Errorf("put follow-up: clear conditions: %w", err)
	}
	for i, c := range conditions {
		_, err := tx.Exec(`
			INSERT INTO follow_up_conditions (follow_up_id, position, match_type, value, target_question_id)
			VALUES ($1, $2, $3, $4, $5)
		`, f.ID, i, string(c.Type), c.Value, c.TargetQuestionID)
		if err != nil {
			return nil, fmt.Errorf("put follow-up condition %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("put follow-up: commit: %w", err)
	}
	return f, nil
}

// Delete removes a question's follow-up and its conditions.
func (s *FollowUpStore) Delete(questionID uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM follow_ups WHERE question_id = $1`, questionID)
	if err != nil {
		return fmt.Errorf("delete follow-up: %w", err)
	}
	return nil
}
