package db

import (
	"errors"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/dtnitsch/cp-hints/models"
)

// setupTestDB creates an in-memory SQLite database for testing
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	database := &DB{path: ":memory:"}
	var err error
	database.DB, err = openDB(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	// Every pooled connection would get its own empty :memory: database.
	database.SetMaxOpenConns(1)

	if err := database.InitSchema(); err != nil {
		t.Fatalf("failed to initialize schema: %v", err)
	}

	return database
}

func TestOpen_CreatesSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hints.db")

	database, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer database.Close()

	if database.Path() != path {
		t.Errorf("Path() = %q, want %q", database.Path(), path)
	}
	if err := database.SetSetting("apiKey", "k"); err != nil {
		t.Fatalf("SetSetting() on fresh database failed: %v", err)
	}
	database.Close()

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer reopened.Close()
	if got, err := reopened.GetSetting("apiKey"); err != nil || got != "k" {
		t.Errorf("GetSetting() after reopen = %q, %v", got, err)
	}
}

func TestSettings(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	if _, err := db.GetSetting("apiKey"); !errors.Is(err, ErrNoSetting) {
		t.Fatalf("GetSetting() on empty store error = %v, want ErrNoSetting", err)
	}

	tests := []struct {
		name  string
		value string
	}{
		{name: "insert", value: "first-key"},
		{name: "upsert replaces", value: "second-key"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := db.SetSetting("apiKey", tt.value); err != nil {
				t.Fatalf("SetSetting() error = %v", err)
			}
			got, err := db.GetSetting("apiKey")
			if err != nil {
				t.Fatalf("GetSetting() error = %v", err)
			}
			if got != tt.value {
				t.Errorf("GetSetting() = %q, want %q", got, tt.value)
			}
		})
	}

	if err := db.DeleteSetting("apiKey"); err != nil {
		t.Fatalf("DeleteSetting() error = %v", err)
	}
	if _, err := db.GetSetting("apiKey"); !errors.Is(err, ErrNoSetting) {
		t.Errorf("GetSetting() after delete error = %v", err)
	}
	if err := db.DeleteSetting("apiKey"); err != nil {
		t.Errorf("DeleteSetting() of missing key error = %v", err)
	}
}

func TestUpsertProblem(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	pageURL := "https://codeforces.com/problemset/problem/4/A"
	info := &models.ProblemInfo{
		Platform:  models.PlatformCodeforces,
		Title:     "Watermelon",
		ContestID: models.StringPtr("4"),
		Index:     models.StringPtr("A"),
		Tags:      []string{"brute force", "math"},
		Content:   "not stored",
	}

	firstID, err := db.UpsertProblem(pageURL, info)
	if err != nil {
		t.Fatalf("UpsertProblem() error = %v", err)
	}

	updated := info.Clone()
	updated.Tags = append(updated.Tags, "greedy")
	secondID, err := db.UpsertProblem(pageURL, updated)
	if err != nil {
		t.Fatalf("UpsertProblem() second call error = %v", err)
	}
	if firstID != secondID {
		t.Errorf("upsert changed ID: %d -> %d", firstID, secondID)
	}

	rec, err := db.GetProblem(pageURL)
	if err != nil {
		t.Fatalf("GetProblem() error = %v", err)
	}
	if rec == nil {
		t.Fatal("GetProblem() returned nil")
	}
	if rec.Domain != "codeforces.com" {
		t.Errorf("domain = %q", rec.Domain)
	}
	if rec.Info.Title != "Watermelon" || rec.Info.Platform != models.PlatformCodeforces {
		t.Errorf("info = %+v", rec.Info)
	}
	if models.Deref(rec.Info.ContestID, "") != "4" || models.Deref(rec.Info.Index, "") != "A" {
		t.Errorf("contest/index = %v/%v", rec.Info.ContestID, rec.Info.Index)
	}
	if rec.Info.Slug != nil || rec.Info.Difficulty != nil {
		t.Errorf("unset fields should stay nil: %+v", rec.Info)
	}
	if !reflect.DeepEqual(rec.Info.Tags, []string{"brute force", "math", "greedy"}) {
		t.Errorf("tags = %v", rec.Info.Tags)
	}
	if rec.Info.Content != "" {
		t.Errorf("content should not be stored, got %q", rec.Info.Content)
	}

	missing, err := db.GetProblem("https://leetcode.com/problems/none/")
	if err != nil || missing != nil {
		t.Errorf("GetProblem() for missing page = %+v, %v", missing, err)
	}
}

func TestHintRequests(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	records := []HintRecord{
		{MessageID: "m-1", Platform: "LeetCode", Title: "Two Sum", Success: true, HintCount: 3, Duration: 1200 * time.Millisecond},
		{Platform: "Codeforces", Title: "Watermelon", Success: false, ErrorMessage: "Failed to fetch hints: quota exceeded"},
		{Success: false, ErrorMessage: "Problem information was not provided."},
	}
	for _, rec := range records {
		if _, err := db.InsertHintRequest(rec); err != nil {
			t.Fatalf("InsertHintRequest() error = %v", err)
		}
	}

	all, err := db.ListHintRequests(0)
	if err != nil {
		t.Fatalf("ListHintRequests() error = %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("got %d records, want 3", len(all))
	}
	if all[0].ErrorMessage != "Problem information was not provided." || all[0].Title != "" {
		t.Errorf("newest record = %+v", all[0])
	}
	if all[2].MessageID != "m-1" || !all[2].Success || all[2].HintCount != 3 || all[2].Duration != 1200*time.Millisecond {
		t.Errorf("oldest record = %+v", all[2])
	}

	limited, err := db.ListHintRequests(2)
	if err != nil {
		t.Fatalf("ListHintRequests(2) error = %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("got %d records, want 2", len(limited))
	}
}
