// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"testing"

	"faqdesk/internal/i18n"
	"faqdesk/internal/models"
)

func TestSettingPutAndGet(t *testing.T) {
	db := testDB(t)
	settings := NewSettingStore(db)
	t.Cleanup(func() {
		db.Exec("DELETE FROM app_settings WHERE key = $1", models.SettingWelcomeTitle)
	})

	got, err := settings.Get(models.SettingWelcomeTitle)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for unknown key, got %+v", got)
	}

	put, err := settings.Put(models.SettingWelcomeTitle, i18n.Text{"en": "Hello!"})
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if put.Value.Get("en") != "Hello!" {
		t.Errorf("put value: %+v", put.Value)
	}

	got, err = settings.Get(models.SettingWelcomeTitle)
	if err != nil || got == nil {
		t.Fatalf("Get after put: %v, %v", got, err)
	}
	if got.Value.Get("en") != "Hello!" {
		t.Errorf("stored value: %+v", got.Value)
	}
}

func TestSettingPutMergesLanguages(t *testing.T) {
	db := testDB(t)
	settings := NewSettingStore(db)
	t.Cleanup(func() {
		db.Exec("DELETE FROM app_settings WHERE key = $1", models.SettingContactHint)
	})

	if _, err := settings.Put(models.SettingContactHint, i18n.Text{"en": "Write to support"}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	merged, err := settings.Put(models.SettingContactHint, i18n.Text{"ru": "Напишите в поддержку"})
	if err != nil {
		t.Fatalf("Put merge: %v", err)
	}
	if merged.Value.Get("en") != "Write to support" || merged.Value.Get("ru") != "Напишите в поддержку" {
		t.Errorf("merge lost a language: %+v", merged.Value)
	}

	got, err := settings.Get(models.SettingContactHint)
	if err != nil || got == nil {
		t.Fatalf("Get: %v, %v", got, err)
	}
	if got.Value.Get("en") != "Write to support" {
		t.Errorf("stored merge: %+v", got.Value)
	}
}

func TestSettingAllSorted(t *testing.T) {
	db := testDB(t)
	settings := NewSettingStore(db)
	keys := []string{"zz_test_b", "zz_test_a"}
	t.Cleanup(func() {
		for _, k := range keys {
			db.Exec("DELETE FROM app_settings WHERE key = $1", k)
		}
	})

	for _, k := range keys {
		if _, err := settings.Put(k, i18n.Text{"en": k}); err != nil {
			t.Fatalf("Put %s: %v", k, err)
		}
	}
	all, err := settings.All()
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	var mine []string
	for _, s := range all {
		if s.Key == "zz_test_a" || s.Key == "zz_test_b" {
			mine = append(mine, s.Key)
		}
	}
	if len(mine) != 2 || mine[0] != "zz_test_a" {
		t.Errorf("expected key-sorted settings, got %v", mine)
	}
}
