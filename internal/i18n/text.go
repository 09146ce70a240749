// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package i18n holds the per-language text bag used by every translatable
// field and the single resolution rule all surfaces must share. Divergent
// fallback behavior between the admin panel and the end-user app is a
// correctness bug, so both go through a Resolver.
package i18n

import (
	"sort"
	"strings"
)

// Text maps a language code ("az", "ru", "en", ...) to a translated string.
// Keys are not required to be exhaustive; missing languages fall back
// through Resolver.Resolve.
type Text map[string]string

// Get returns the trimmed value for a language, or "" if absent.
func (t Text) Get(lang string) string {
	return strings.TrimSpace(t[lang])
}

// IsEmpty reports whether the bag contains no non-empty value at all.
func (t Text) IsEmpty() bool {
	for _, v := range t {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// Clone returns a copy of the bag. A nil bag clones to nil.
func (t Text) Clone() Text {
	if t == nil {
		return nil
	}
	out := make(Text, len(t))
	for k, v := range t {
		out[k] = v
	}
	return out
}

// Status describes how complete a text bag is against the supported
// language set. It drives the "missing translations" badge in the admin UI.
type Status struct {
	Complete int      `json:"complete"`
	Total    int      `json:"total"`
	Missing  []string `json:"missing"`
}

// Resolver resolves a Text bag to a displayable string. Default is the
// secondary fallback language ("en" in the admin panel, the configured
// app default for the end-user surface). Supported is the fixed set of
// languages content is authored in, in display order.
type Resolver struct {
	Default   string
	Supported []string
}

// NewResolver returns a Resolver for the given supported set and default.
// If def is not part of supported it is still honored as a fallback.
func NewResolver(def string, supported []string) Resolver {
	return Resolver{Default: def, Supported: supported}
}

// Resolve returns the display text for bag in the active language.
// The chain is fixed: active language -> resolver default -> first
// non-empty value (supported order first, remaining keys sorted for
// determinism) -> the literal fallback.
func (r Resolver) Resolve(bag Text, lang, fallback string) string {
	if v := bag.Get(lang); v != "" {
		return v
	}
	if v := bag.Get(r.Default); v != "" {
		return v
	}
	for _, l := range r.Supported {
		if v := bag.Get(l); v != "" {
			return v
		}
	}
	// The bag may carry languages outside the supported set (imported
	// content); scan them in sorted key order so the result is stable.
	keys := make([]string, 0, len(bag))
	for k := range bag {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if v := bag.Get(k); v != "" {
			return v
		}
	}
	return fallback
}

// Status counts non-empty entries over the supported language set.
// Languages present in the bag but outside the supported set do not count.
func (r Resolver) Status(bag Text) Status {
	st := Status{Total: len(r.Supported)}
	for _, l := range r.Supported {
		if bag.Get(l) != "" {
			st.Complete++
		} else {
			st.Missing = append(st.Missing, l)
		}
	}
	return st
}
