// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package session

import (
	"context"
	"encoding/hex"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"faqdesk/internal/i18n"
	"faqdesk/internal/models"
	"faqdesk/internal/nav"
)

// testValkeyClient returns a Redis client for tests.
// Skips if Valkey is unavailable.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")
	password := os.Getenv("VALKEY_PASSWORD")

	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: password,
		DB:       15, // Use DB 15 for tests.
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping integration test: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		for _, pattern := range []string{"guided:*", "adminnav:*"} {
			keys, _ := client.Keys(ctx, pattern).Result()
			if len(keys) > 0 {
				client.Del(ctx, keys...)
			}
		}
		client.Close()
	})

	return client
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func TestGuidedSessionLifecycle(t *testing.T) {
	client := testValkeyClient(t)
	s := NewStore(client, time.Minute)
	ctx := context.Background()

	g := nav.NewGuided("ru")
	g.ShowCategories()

	id, err := s.CreateGuided(ctx, g)
	if err != nil {
		t.Fatalf("CreateGuided: %v", err)
	}
	if _, err := hex.DecodeString(id); err != nil || len(id) != idLength*2 {
		t.Errorf("expected %d hex chars, got %q", idLength*2, id)
	}

	got, err := s.GetGuided(ctx, id)
	if err != nil {
		t.Fatalf("GetGuided: %v", err)
	}
	if got == nil {
		t.Fatal("expected stored session")
	}
	if got.Lang != "ru" || got.State != nav.StateCategories {
		t.Errorf("round trip mismatch: %+v", got)
	}

	// Mutate and save.
	qid := uuid.New()
	got.SelectCategory([]models.Question{{ID: qid, Question: i18n.Text{"en": "Q"}}})
	if err := s.SaveGuided(ctx, id, got); err != nil {
		t.Fatalf("SaveGuided: %v", err)
	}

	again, err := s.GetGuided(ctx, id)
	if err != nil {
		t.Fatalf("GetGuided after save: %v", err)
	}
	if again.State != nav.StateQuestions {
		t.Errorf("expected questions state, got %s", again.State)
	}
	if len(again.Questions) != 1 || again.Questions[0].ID != qid {
		t.Errorf("question list not preserved: %+v", again.Questions)
	}

	if err := s.DeleteGuided(ctx, id); err != nil {
		t.Fatalf("DeleteGuided: %v", err)
	}
	gone, err := s.GetGuided(ctx, id)
	if err != nil {
		t.Fatalf("GetGuided after delete: %v", err)
	}
	if gone != nil {
		t.Error("expected nil after delete")
	}
}

func TestGetGuidedMissing(t *testing.T) {
	client := testValkeyClient(t)
	s := NewStore(client, time.Minute)

	got, err := s.GetGuided(context.Background(), "does-not-exist")
	if err != nil {
		t.Fatalf("GetGuided: %v", err)
	}
	if got != nil {
		t.Error("expected nil for unknown session")
	}
}

func TestAdminSessionLifecycle(t *testing.T) {
	client := testValkeyClient(t)
	s := NewStore(client, time.Minute)
	ctx := context.Background()

	r := i18n.Resolver{Default: "en", Supported: []string{"az", "ru", "en"}}
	a := nav.NewAdmin("en")
	cat := models.Category{ID: uuid.New(), Name: i18n.Text{"en": "Delivery"}}
	a.SelectCategory(r, cat, nil)

	id, err := s.CreateAdmin(ctx, a)
	if err != nil {
		t.Fatalf("CreateAdmin: %v", err)
	}

	got, err := s.GetAdmin(ctx, id)
	if err != nil {
		t.Fatalf("GetAdmin: %v", err)
	}
	if got == nil {
		t.Fatal("expected stored session")
	}
	if len(got.Breadcrumbs) != 1 || got.Breadcrumbs[0].Label != "Delivery" {
		t.Errorf("breadcrumbs not preserved: %+v", got.Breadcrumbs)
	}

	if err := s.DeleteAdmin(ctx, id); err != nil {
		t.Fatalf("DeleteAdmin: %v", err)
	}
	gone, err := s.GetAdmin(ctx, id)
	if err != nil {
		t.Fatalf("GetAdmin after delete: %v", err)
	}
	if gone != nil {
		t.Error("expected nil after delete")
	}
}

func TestNewStoreDefaultTTL(t *testing.T) {
	s := NewStore(nil, 0)
	if s.ttl != DefaultTTL {
		t.Errorf("expected DefaultTTL (%v), got %v", DefaultTTL, s.ttl)
	}
}
