// Package session provides Valkey-backed storage for navigation
// sessions. Each guided or admin navigator is stored as JSON under a
// random identifier with automatic TTL expiry; the identifier travels
// in the URL, so no cookies are involved.
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"faqdesk/internal/nav"
)

const (
	// DefaultTTL is how long an idle session lives before expiry.
	DefaultTTL = 2 * time.Hour

	// guidedPrefix namespaces end-user session keys in Valkey.
	guidedPrefix = "guided:"

	// adminPrefix namespaces admin preview session keys in Valkey.
	adminPrefix = "adminnav:"

	// idLength is the byte length of the random session ID (16 bytes = 32 hex chars).
	idLength = 16
)

// Store manages navigation session lifecycle in Valkey.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStore creates a session store backed by the given Valkey client.
func NewStore(client *redis.Client, ttl time.Duration) *Store {
	if ttl == 0 {
		ttl = DefaultTTL
	}
	return &Store{
		client: client,
		ttl:    ttl,
	}
}

// CreateGuided stores a new guided session and returns its ID.
func (s *Store) CreateGuided(ctx context.Context, g *nav.Guided) (string, error) {
	id, err := generateID()
	if err != nil {
		return "", fmt.Errorf("session create: %w", err)
	}
	if err := s.put(ctx, guidedPrefix+id, g); err != nil {
		return "", err
	}
	return id, nil
}

// GetGuided retrieves a guided session by ID. Returns nil if the
// session expired or never existed.
func (s *Store) GetGuided(ctx context.Context, id string) (*nav.Guided, error) {
	var g nav.Guided
	ok, err := s.get(ctx, guidedPrefix+id, &g)
	if err != nil || !ok {
		return nil, err
	}
	return &g, nil
}

// SaveGuided replaces the stored session state and resets the TTL.
func (s *Store) SaveGuided(ctx context.Context, id string, g *nav.Guided) error {
	return s.put(ctx, guidedPrefix+id, g)
}

// DeleteGuided removes a guided session. Missing IDs are not an error.
func (s *Store) DeleteGuided(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, guidedPrefix+id).Err(); err != nil {
		return fmt.Errorf("session delete: %w", err)
	}
	return nil
}

// CreateAdmin stores a new admin navigation session and returns its ID.
func (s *Store) CreateAdmin(ctx context.Context, a *nav.Admin) (string, error) {
	id, err := generateID()
	if err != nil {
		return "", fmt.Errorf("session create: %w", err)
	}
	if err := s.put(ctx, adminPrefix+id, a); err != nil {
		return "", err
	}
	return id, nil
}

// GetAdmin retrieves an admin navigation session by ID. Returns nil if
// the session expired or never existed.
func (s *Store) GetAdmin(ctx context.Context, id string) (*nav.Admin, error) {
	var a nav.Admin
	ok, err := s.get(ctx, adminPrefix+id, &a)
	if err != nil || !ok {
		return nil, err
	}
	return &a, nil
}

// SaveAdmin replaces the stored session state and resets the TTL.
func (s *Store) SaveAdmin(ctx context.Context, id string, a *nav.Admin) error {
	return s.put(ctx, adminPrefix+id, a)
}

// DeleteAdmin removes an admin navigation session.
func (s *Store) DeleteAdmin(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, adminPrefix+id).Err(); err != nil {
		return fmt.Errorf("session delete: %w", err)
	}
	return nil
}

func (s *Store) put(ctx context.Context, key string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("session marshal: %w", err)
	}
	if err := s.client.Set(ctx, key, payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("session store: %w", err)
	}
	return nil
}

func (s *Store) get(ctx context.Context, key string, v any) (bool, error) {
	payload, err := s.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false, nil // Session expired or doesn't exist
	}
	if err != nil {
		return false, fmt.Errorf("session get: %w", err)
	}
	if err := json.Unmarshal(payload, v); err != nil {
		return false, fmt.Errorf("session unmarshal: %w", err)
	}
	return true, nil
}

// generateID creates a cryptographically random session identifier.
func generateID() (string, error) {
	b := make([]byte, idLength)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
