// Package settings persists the user's API key.
package settings

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dtnitsch/cp-hints/pkg/db"
)

// KeyAPIKey is the only key the relay reads.
const KeyAPIKey = "apiKey"

// ErrNotFound is returned by Get for an unset key.
var ErrNotFound = errors.New("setting not set")

// ErrEmptyKey is returned by SetAPIKey for blank input.
var ErrEmptyKey = errors.New("Please enter a valid API key.")

// Store is a string key-value store.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

// SQLStore keeps settings in the SQLite settings table.
type SQLStore struct {
	db *db.DB
}

func NewSQLStore(database *db.DB) *SQLStore {
	return &SQLStore{db: database}
}

func (s *SQLStore) Get(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	value, err := s.db.GetSetting(key)
	if errors.Is(err, db.ErrNoSetting) {
		return "", ErrNotFound
	}
	return value, err
}

func (s *SQLStore) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.SetSetting(key, value)
}

// EnvStore answers reads from fixed values (typically the environment)
// before falling through to the wrapped store. Writes go to the wrapped
// store.
type EnvStore struct {
	next      Store
	overrides map[string]string
}

// NewEnvStore ignores empty override values.
func NewEnvStore(next Store, overrides map[string]string) *EnvStore {
	o := make(map[string]string, len(overrides))
	for k, v := range overrides {
		if v = strings.TrimSpace(v); v != "" {
			o[k] = v
		}
	}
	return &EnvStore{next: next, overrides: o}
}

func (e *EnvStore) Get(ctx context.Context, key string) (string, error) {
	if v, ok := e.overrides[key]; ok {
		return v, nil
	}
	if e.next == nil {
		return "", ErrNotFound
	}
	return e.next.Get(ctx, key)
}

func (e *EnvStore) Set(ctx context.Context, key, value string) error {
	if e.next == nil {
		return fmt.Errorf("no backing store for %s", key)
	}
	return e.next.Set(ctx, key, value)
}

// SetAPIKey trims and stores key.
func SetAPIKey(ctx context.Context, s Store, key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return ErrEmptyKey
	}
	if err := s.Set(ctx, KeyAPIKey, key); err != nil {
		return fmt.Errorf("failed to save API key: %w", err)
	}
	return nil
}

// APIKey returns the stored key, or "" with a nil error when unset.
func APIKey(ctx context.Context, s Store) (string, error) {
	key, err := s.Get(ctx, KeyAPIKey)
	if errors.Is(err, ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(key), nil
}

// Mask hides all but the last four characters of a secret.
func Mask(secret string) string {
	if secret == "" {
		return "(not set)"
	}
	r := []rune(secret)
	if len(r) <= 4 {
		return strings.Repeat("*", len(r))
	}
	return strings.Repeat("*", len(r)-4) + string(r[len(r)-4:])
}
