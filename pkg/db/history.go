package db

import (
	"database/sql"
	"fmt"
	"time"
)

// HintRecord is one relay invocation.
type HintRecord struct {
	RequestID    int64
	MessageID    string
	Platform     string
	Title        string
	Success      bool
	ErrorMessage string
	HintCount    int
	Duration     time.Duration
	CreatedAt    time.Time
}

// InsertHintRequest records a relay invocation and returns its request_id.
func (db *DB) InsertHintRequest(rec HintRecord) (int64, error) {
	result, err := db.Exec(`
		INSERT INTO hint_requests (message_id, platform, title, success, error_message, hint_count, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, NewNullString(rec.MessageID), NewNullString(rec.Platform), NewNullString(rec.Title),
		rec.Success, NewNullString(rec.ErrorMessage), rec.HintCount, rec.Duration.Milliseconds())
	if err != nil {
		return 0, fmt.Errorf("failed to insert hint request: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get hint request ID: %w", err)
	}
	return id, nil
}

// ListHintRequests returns the most recent requests first. limit <= 0
// returns all.
func (db *DB) ListHintRequests(limit int) ([]HintRecord, error) {
	query := `
		SELECT request_id, message_id, platform, title, success, error_message, hint_count, duration_ms, created_at
		FROM hint_requests
		ORDER BY request_id DESC
	`
	var args []interface{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list hint requests: %w", err)
	}
	defer rows.Close()

	var records []HintRecord
	for rows.Next() {
		var (
			rec                                    HintRecord
			messageID, platform, title, errMessage sql.NullString
			durationMS                             int64
		)
		if err := rows.Scan(&rec.RequestID, &messageID, &platform, &title, &rec.Success,
			&errMessage, &rec.HintCount, &durationMS, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan hint request: %w", err)
		}
		rec.MessageID = messageID.String
		rec.Platform = platform.String
		rec.Title = title.String
		rec.ErrorMessage = errMessage.String
		rec.Duration = time.Duration(durationMS) * time.Millisecond
		records = append(records, rec)
	}

	return records, rows.Err()
}

// NewNullString maps "" to NULL.
func NewNullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: s, Valid: true}
}
