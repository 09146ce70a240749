// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"faqdesk/internal/i18n"
)

// Well-known setting keys.
const (
	SettingWelcomeTitle   = "welcome_title"
	SettingWelcomeMessage = "welcome_message"
	SettingContactHint    = "contact_hint"
)

// Setting is a translated piece of mini-app chrome text (home screen
// title, welcome message) editable from the admin panel.
type Setting struct {
	Key       string    `json:"key"`
	Value     i18n.Text `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}
