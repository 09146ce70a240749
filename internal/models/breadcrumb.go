// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "github.com/google/uuid"

// BreadcrumbType distinguishes category and question trail entries.
type BreadcrumbType string

const (
	BreadcrumbCategory BreadcrumbType = "category"
	BreadcrumbQuestion BreadcrumbType = "question"
)

// Breadcrumb is one resolved entry of the admin navigation trail.
// The label is already localized; breadcrumbs are a rendering artifact
// and are never persisted.
type Breadcrumb struct {
	ID    uuid.UUID      `json:"id"`
	Label string         `json:"label"`
	Type  BreadcrumbType `json:"type"`
}
