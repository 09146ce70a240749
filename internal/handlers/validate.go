// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"strings"
	"unicode/utf8"

	"faqdesk/internal/i18n"
)

// Validation limits for content fields.
const (
	maxQuestionLen = 1_000
	maxAnswerLen   = 20_000
	maxNameLen     = 300
	maxKeywords    = 50
	maxKeywordLen  = 100
	maxConditions  = 20
	maxValueLen    = 500
)

// validateLanguages checks that every language key is one of the
// configured content languages. Returns the first offender or "".
func validateLanguages(r i18n.Resolver, bags ...map[string]bool) string {
	supported := make(map[string]bool, len(r.Supported))
	for _, lang := range r.Supported {
		supported[lang] = true
	}
	for _, bag := range bags {
		for lang := range bag {
			if !supported[lang] {
				return lang
			}
		}
	}
	return ""
}

// langKeys collects the keys of string-pointer maps for language checks.
func langKeys[V any](m map[string]V) map[string]bool {
	out := make(map[string]bool, len(m))
	for k := range m {
		out[k] = true
	}
	return out
}

// validateCategoryName checks name inputs and returns the first error found.
func validateCategoryName(name i18n.Text) string {
	if name.IsEmpty() {
		return "Name is required in at least one language."
	}
	for lang, v := range name {
		if utf8.RuneCountInString(v) > maxNameLen {
			return "Name is too long in " + lang + " (max 300 characters)."
		}
	}
	return ""
}

// validateQuestionText checks question and answer inputs.
func validateQuestionText(question, answer i18n.Text) string {
	if question.IsEmpty() {
		return "Question text is required in at least one language."
	}
	for lang, v := range question {
		if utf8.RuneCountInString(v) > maxQuestionLen {
			return "Question is too long in " + lang + " (max 1,000 characters)."
		}
	}
	for lang, v := range answer {
		if utf8.RuneCountInString(v) > maxAnswerLen {
			return "Answer is too long in " + lang + " (max 20,000 characters)."
		}
	}
	return ""
}

// validateKeywords checks the keyword list.
func validateKeywords(keywords []string) string {
	if len(keywords) > maxKeywords {
		return "Too many keywords (max 50)."
	}
	for _, k := range keywords {
		if strings.TrimSpace(k) == "" {
			return "Keywords must not be blank."
		}
		if utf8.RuneCountInString(k) > maxKeywordLen {
			return "Keyword is too long (max 100 characters)."
		}
	}
	return ""
}
