// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// tree.go caches the resolved content tree served by the public app.
// Two levels: an in-process go-cache (L1) holding the encoded payload
// per language, and Valkey (L2) shared by all instances. Any admin
// mutation invalidates both, so the worst case after a failed
// invalidation is one TTL of staleness.
package cache

import (
	"context"
	"log/slog"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

const (
	// treeKeyPrefix namespaces tree payloads in Valkey.
	treeKeyPrefix = "tree:"

	// DefaultTreeTTL is how long a built tree stays cached.
	DefaultTreeTTL = 5 * time.Minute
)

// TreeCache holds encoded public-tree payloads keyed by language.
type TreeCache struct {
	client *redis.Client
	local  *gocache.Cache
	ttl    time.Duration
}

// NewTreeCache creates a two-level tree cache backed by the given Valkey
// client.
func NewTreeCache(client *redis.Client, ttl time.Duration) *TreeCache {
	if ttl == 0 {
		ttl = DefaultTreeTTL
	}
	return &TreeCache{
		client: client,
		local:  gocache.New(ttl, 2*ttl),
		ttl:    ttl,
	}
}

// Get returns the cached payload for a language, checking the process
// cache before Valkey. A Valkey hit refills the process cache.
func (tc *TreeCache) Get(ctx context.Context, lang string) ([]byte, bool) {
	if v, ok := tc.local.Get(lang); ok {
		return v.([]byte), true
	}

	val, err := tc.client.Get(ctx, treeKeyPrefix+lang).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("tree cache get error", "lang", lang, "error", err)
		return nil, false
	}
	tc.local.Set(lang, val, gocache.DefaultExpiration)
	slog.Debug("tree cache hit", "lang", lang, "level", "valkey")
	return val, true
}

// Set stores the payload for a language at both levels.
func (tc *TreeCache) Set(ctx context.Context, lang string, payload []byte) {
	tc.local.Set(lang, payload, gocache.DefaultExpiration)
	if err := tc.client.Set(ctx, treeKeyPrefix+lang, payload, tc.ttl).Err(); err != nil {
		slog.Warn("tree cache set error", "lang", lang, "error", err)
	}
}

// InvalidateAll drops every cached language at both levels. Called after
// any admin mutation, since a single edit can affect every language's
// resolved view through the fallback chain.
func (tc *TreeCache) InvalidateAll(ctx context.Context) {
	tc.local.Flush()

	var cursor uint64
	var deleted int
	for {
		keys, nextCursor, err := tc.client.Scan(ctx, cursor, treeKeyPrefix+"*", 100).Result()
		if err != nil {
			slog.Warn("tree cache scan error", "error", err)
			return
		}
		if len(keys) > 0 {
			if err := tc.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("tree cache bulk delete error", "error", err)
			}
			deleted += len(keys)
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		slog.Debug("tree cache cleared", "deleted", deleted)
	}
}
