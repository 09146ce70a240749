// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"

	"faqdesk/internal/i18n"
)

// Category is a top-level bucket of root questions. Deleting a category
// cascades to every question under it.
type Category struct {
	ID        uuid.UUID `json:"id"`
	Name      i18n.Text `json:"name"`
	SortOrder int       `json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
