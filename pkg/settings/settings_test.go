package settings

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/dtnitsch/cp-hints/pkg/db"
)

func newSQLStore(t *testing.T) *SQLStore {
	t.Helper()
	database, err := db.Open(filepath.Join(t.TempDir(), "settings.db"))
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return NewSQLStore(database)
}

func TestSQLStore(t *testing.T) {
	ctx := context.Background()
	store := newSQLStore(t)

	if _, err := store.Get(ctx, KeyAPIKey); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get() on empty store error = %v, want ErrNotFound", err)
	}

	if err := SetAPIKey(ctx, store, "  secret-key \n"); err != nil {
		t.Fatalf("SetAPIKey() error = %v", err)
	}
	got, err := APIKey(ctx, store)
	if err != nil {
		t.Fatalf("APIKey() error = %v", err)
	}
	if got != "secret-key" {
		t.Errorf("APIKey() = %q, want %q", got, "secret-key")
	}
}

func TestSetAPIKey_RejectsBlank(t *testing.T) {
	ctx := context.Background()
	store := newSQLStore(t)

	for _, in := range []string{"", "   ", "\t\n"} {
		if err := SetAPIKey(ctx, store, in); !errors.Is(err, ErrEmptyKey) {
			t.Errorf("SetAPIKey(%q) error = %v, want ErrEmptyKey", in, err)
		}
	}
	if key, err := APIKey(ctx, store); err != nil || key != "" {
		t.Errorf("APIKey() = %q, %v; want empty", key, err)
	}
}

func TestSQLStore_CanceledContext(t *testing.T) {
	store := newSQLStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := store.Get(ctx, KeyAPIKey); !errors.Is(err, context.Canceled) {
		t.Errorf("Get() error = %v, want context.Canceled", err)
	}
	if err := store.Set(ctx, KeyAPIKey, "x"); !errors.Is(err, context.Canceled) {
		t.Errorf("Set() error = %v, want context.Canceled", err)
	}
}

func TestEnvStore(t *testing.T) {
	ctx := context.Background()
	backing := newSQLStore(t)
	if err := backing.Set(ctx, KeyAPIKey, "stored"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	tests := []struct {
		name      string
		overrides map[string]string
		want      string
	}{
		{name: "override wins", overrides: map[string]string{KeyAPIKey: "from-env"}, want: "from-env"},
		{name: "blank override ignored", overrides: map[string]string{KeyAPIKey: "  "}, want: "stored"},
		{name: "no overrides", overrides: nil, want: "stored"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := APIKey(ctx, NewEnvStore(backing, tt.overrides))
			if err != nil {
				t.Fatalf("APIKey() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("APIKey() = %q, want %q", got, tt.want)
			}
		})
	}

	if _, err := NewEnvStore(nil, nil).Get(ctx, KeyAPIKey); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() without backing store error = %v", err)
	}
	if err := NewEnvStore(nil, nil).Set(ctx, KeyAPIKey, "x"); err == nil {
		t.Error("Set() without backing store should fail")
	}
}

func TestMask(t *testing.T) {
	tests := map[string]string{
		"":             "(not set)",
		"abc":          "***",
		"AIzaSy123456": "********3456",
	}
	for in, want := range tests {
		if got := Mask(in); got != want {
			t.Errorf("Mask(%q) = %q, want %q", in, got, want)
		}
	}
}
