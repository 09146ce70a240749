// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package content

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"faqdesk/internal/models"
)

// ExportVersion is the current export document version.
const ExportVersion = 1

// Export is the portable JSON form of the whole content tree. Questions
// are exported flat, ParentID pointers intact, so an import round-trips
// through the same tree builder as a database load.
type Export struct {
	Version    int               `json:"version"`
	Categories []models.Category `json:"categories"`
	Questions  []models.Question `json:"questions"`
}

// Export dumps the current state. Categories come out in display order
// and questions in original (arrival) order, so repeated exports of the
// same tree are byte-identical and the flow tester's sequential advance
// is deterministic.
func (t *Tree) Export() Export {
	out := Export{Version: ExportVersion, Categories: t.Categories()}
	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, q := range t.questions {
		out.Questions = append(out.Questions, q)
	}
	sortByArrival(out.Questions)
	return out
}

// ParseImport validates and decodes an export document. Validation runs
// before any state is touched: a malformed document is rejected with a
// descriptive error and the caller's current tree stays as it was.
func ParseImport(data []byte) (*Export, error) {
	// Check required top-level keys first so the error names what is
	// missing instead of a generic unmarshal failure.
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("import: not a JSON object: %w", err)
	}
	for _, key := range []string{"categories", "questions"} {
		if _, ok := probe[key]; !ok {
			return nil, fmt.Errorf("import: missing required key %q", key)
		}
	}

	var doc Export
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("import: decode: %w", err)
	}
	if doc.Version > ExportVersion {
		return nil, fmt.Errorf("import: unsupported version %d", doc.Version)
	}
	for i, c := range doc.Categories {
		if c.ID == uuid.Nil {
			return nil, fmt.Errorf("import: categories[%d] has no id", i)
		}
	}
	for i, q := range doc.Questions {
		if q.ID == uuid.Nil {
			return nil, fmt.Errorf("import: questions[%d] has no id", i)
		}
	}
	return &doc, nil
}

// ReplaceFrom swaps the aggregate state for an imported document.
func (t *Tree) ReplaceFrom(doc *Export) {
	fresh := New(doc.Categories, doc.Questions)
	t.mu.Lock()
	defer t.mu.Unlock()
	t.categories = fresh.categories
	t.questions = fresh.questions
	t.rebuild()
}
