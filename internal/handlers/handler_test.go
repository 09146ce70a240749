// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler
// integration tests. Tests are skipped when PostgreSQL or Valkey are
// unavailable.
package handlers

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"

	"faqdesk/internal/cache"
	"faqdesk/internal/content"
	"faqdesk/internal/database"
	"faqdesk/internal/i18n"
	"faqdesk/internal/session"
	"faqdesk/internal/store"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test PostgreSQL, runs migrations, and
// clears all content tables.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "faqdesk")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "faqdesk")
	dsn := "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping: cannot open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping: DB not reachable: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("migrate: %v", err)
	}
	goose.SetBaseFS(nil)

	for _, stmt := range []string{
		`DELETE FROM questions`,
		`DELETE FROM categories`,
		`DELETE FROM app_settings`,
	} {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			t.Fatalf("clean tables: %v", err)
		}
	}

	t.Cleanup(func() { db.Close() })
	return db
}

// testValkeyClient returns a Redis client for handler tests on DB 15.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")
	password := os.Getenv("VALKEY_PASSWORD")

	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: password,
		DB:       15,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		for _, pattern := range []string{"guided:*", "adminnav:*", "tree:*"} {
			keys, _ := client.Keys(ctx, pattern).Result()
			if len(keys) > 0 {
				client.Del(ctx, keys...)
			}
		}
		client.Close()
	})

	return client
}

// testEnv holds all dependencies for handler integration tests.
type testEnv struct {
	DB         *sql.DB
	Valkey     *redis.Client
	Tree       *content.Tree
	Resolver   i18n.Resolver
	Categories *store.CategoryStore
	Questions  *store.QuestionStore
	FollowUps  *store.FollowUpStore
	Settings   *store.SettingStore
	Sessions   *session.Store
	TreeCache  *cache.TreeCache
	Admin      *Admin
	Public     *Public
}

// newTestEnv creates a complete test environment with all handler
// dependencies against an empty database.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testDB(t)
	vk := testValkeyClient(t)

	resolver := i18n.NewResolver("en", []string{"az", "ru", "en"})
	contentTree := content.New(nil, nil)
	categories := store.NewCategoryStore(db)
	questions := store.NewQuestionStore(db)
	followUps := store.NewFollowUpStore(db)
	settings := store.NewSettingStore(db)
	importStore := store.NewImportStore(db)
	sessions := session.NewStore(vk, time.Minute)
	treeCache := cache.NewTreeCache(vk, time.Minute)

	admin := NewAdmin(contentTree, resolver, categories, questions, followUps, settings, importStore, sessions, nil, treeCache)
	public := NewPublic(contentTree, resolver, settings, sessions, treeCache)

	return &testEnv{
		DB:         db,
		Valkey:     vk,
		Tree:       contentTree,
		Resolver:   resolver,
		Categories: categories,
		Questions:  questions,
		FollowUps:  followUps,
		Settings:   settings,
		Sessions:   sessions,
		TreeCache:  treeCache,
		Admin:      admin,
		Public:     public,
	}
}

// doJSON performs a request against a handler func mounted on a chi
// router and decodes the JSON response into out (if non-nil).
func doJSON(t *testing.T, h http.Handler, method, target string, body any, out any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if out != nil && rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
			t.Fatalf("decode response %q: %v", rec.Body.String(), err)
		}
	}
	return rec
}
