package db

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/dtnitsch/cp-hints/models"
)

// ProblemRecord is a stored extraction.
type ProblemRecord struct {
	ProblemID int64
	PageURL   string
	Domain    string
	Info      models.ProblemInfo
	UpdatedAt time.Time
}

// UpsertProblem stores the latest extraction for pageURL and returns its
// problem_id. Content is not stored.
func (db *DB) UpsertProblem(pageURL string, info *models.ProblemInfo) (int64, error) {
	if info == nil {
		return 0, fmt.Errorf("problem info is nil")
	}

	parsed, err := url.Parse(pageURL)
	if err != nil {
		return 0, fmt.Errorf("failed to parse URL: %w", err)
	}

	tags, err := json.Marshal(info.Tags)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal tags: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO problems (page_url, domain, platform, title, slug, contest_id, problem_index, difficulty, tags)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(page_url) DO UPDATE SET
			platform = excluded.platform,
			title = excluded.title,
			slug = excluded.slug,
			contest_id = excluded.contest_id,
			problem_index = excluded.problem_index,
			difficulty = excluded.difficulty,
			tags = excluded.tags,
			updated_at = CURRENT_TIMESTAMP
	`, pageURL, parsed.Hostname(), string(info.Platform), info.Title,
		nullable(info.Slug), nullable(info.ContestID), nullable(info.Index), nullable(info.Difficulty), string(tags))
	if err != nil {
		return 0, fmt.Errorf("failed to upsert problem: %w", err)
	}

	var problemID int64
	if err := db.QueryRow("SELECT problem_id FROM problems WHERE page_url = ?", pageURL).Scan(&problemID); err != nil {
		return 0, fmt.Errorf("failed to get problem ID: %w", err)
	}
	return problemID, nil
}

// GetProblem returns the stored extraction for pageURL, or nil when absent.
func (db *DB) GetProblem(pageURL string) (*ProblemRecord, error) {
	var (
		rec                                ProblemRecord
		platform, tags                     string
		slug, contestID, index, difficulty sql.NullString
	)
	err := db.QueryRow(`
		SELECT problem_id, page_url, domain, platform, title, slug, contest_id, problem_index, difficulty, tags, updated_at
		FROM problems WHERE page_url = ?
	`, pageURL).Scan(&rec.ProblemID, &rec.PageURL, &rec.Domain, &platform, &rec.Info.Title,
		&slug, &contestID, &index, &difficulty, &tags, &rec.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get problem: %w", err)
	}

	rec.Info.Platform = models.Platform(platform)
	rec.Info.Slug = fromNullable(slug)
	rec.Info.ContestID = fromNullable(contestID)
	rec.Info.Index = fromNullable(index)
	rec.Info.Difficulty = fromNullable(difficulty)
	rec.Info.Tags = []string{}
	if tags != "" {
		if err := json.Unmarshal([]byte(tags), &rec.Info.Tags); err != nil {
			return nil, fmt.Errorf("failed to decode tags: %w", err)
		}
	}
	return &rec, nil
}

func nullable(s *string) sql.NullString {
	if s == nil || *s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func fromNullable(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return models.StringPtr(ns.String)
}
