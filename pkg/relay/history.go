package relay

import (
	"context"

	"github.com/dtnitsch/cp-hints/pkg/db"
)

// DBRecorder writes entries to the hint_requests table.
type DBRecorder struct {
	db *db.DB
}

func NewDBRecorder(database *db.DB) *DBRecorder {
	return &DBRecorder{db: database}
}

func (d *DBRecorder) RecordHint(ctx context.Context, entry Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	rec := db.HintRecord{
		MessageID:    entry.MessageID,
		Success:      entry.Response.Success,
		ErrorMessage: entry.Response.Error,
		HintCount:    entry.HintCount,
		Duration:     entry.Duration,
	}
	if entry.Problem != nil {
		rec.Platform = string(entry.Problem.Platform)
		rec.Title = entry.Problem.Title
	}

	_, err := d.db.InsertHintRequest(rec)
	return err
}
