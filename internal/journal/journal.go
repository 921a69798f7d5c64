// Package journal records conversion runs in a SQLite database.
package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/FocuswithJustin/seqconvert/core/convert"
	"github.com/FocuswithJustin/seqconvert/core/formats"
	"github.com/FocuswithJustin/seqconvert/core/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id          TEXT PRIMARY KEY,
	started_at  TEXT NOT NULL,
	finished_at TEXT,
	source      TEXT NOT NULL,
	destination TEXT NOT NULL,
	in_format   TEXT NOT NULL,
	out_format  TEXT NOT NULL,
	options     TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS files (
	run_id          TEXT NOT NULL REFERENCES runs(id),
	source          TEXT NOT NULL,
	destination     TEXT NOT NULL,
	status          TEXT NOT NULL,
	records_read    INTEGER NOT NULL,
	records_written INTEGER NOT NULL,
	skipped         INTEGER NOT NULL,
	warnings        INTEGER NOT NULL,
	digest          TEXT,
	error           TEXT
);
CREATE INDEX IF NOT EXISTS files_run_index ON files (run_id);
`

// timeLayout keeps timestamps fixed-width so they sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// File statuses.
const (
	StatusOK     = "ok"
	StatusFailed = "failed"
)

// Journal is an open journal database.
type Journal struct {
	db *sql.DB
}

// Run is one journaled batch or single-file conversion.
type Run struct {
	ID          string          `json:"id"`
	StartedAt   time.Time       `json:"started_at"`
	FinishedAt  *time.Time      `json:"finished_at,omitempty"`
	Source      string          `json:"source"`
	Destination string          `json:"destination"`
	InFormat    string          `json:"in_format"`
	OutFormat   string          `json:"out_format"`
	Options     formats.Options `json:"options"`
	Files       int             `json:"files"`
	Failed      int             `json:"failed"`
}

// File is the journaled outcome of converting one file.
type File struct {
	RunID          string `json:"run_id"`
	Source         string `json:"source"`
	Destination    string `json:"destination"`
	Status         string `json:"status"`
	RecordsRead    int    `json:"records_read"`
	RecordsWritten int    `json:"records_written"`
	Skipped        int    `json:"skipped"`
	Warnings       int    `json:"warnings"`
	Digest         string `json:"digest,omitempty"`
	Error          string `json:"error,omitempty"`
}

// Open opens or creates the journal at path.
func Open(path string) (*Journal, error) {
	db, err := sqlite.Open(path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("journal: create schema: %w", err)
	}
	return &Journal{db: db}, nil
}

// Close closes the database.
func (j *Journal) Close() error {
	return j.db.Close()
}

// StartRun inserts a new run and returns it with a fresh ID.
func (j *Journal) StartRun(ctx context.Context, src, dst, inFormat, outFormat string, opts formats.Options) (*Run, error) {
	run := &Run{
		ID:          uuid.NewString(),
		StartedAt:   time.Now().UTC(),
		Source:      src,
		Destination: dst,
		InFormat:    inFormat,
		OutFormat:   outFormat,
		Options:     opts,
	}
	encoded, err := json.Marshal(opts)
	if err != nil {
		return nil, err
	}
	_, err = j.db.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, source, destination, in_format, out_format, options)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.StartedAt.Format(timeLayout), src, dst, inFormat, outFormat, string(encoded))
	if err != nil {
		return nil, fmt.Errorf("journal: start run: %w", err)
	}
	return run, nil
}

// RecordFile stores the report of one file of a run.
func (j *Journal) RecordFile(ctx context.Context, runID string, rep *convert.Report) error {
	status := StatusOK
	if rep.Error != "" {
		status = StatusFailed
	}
	_, err := j.db.ExecContext(ctx,
		`INSERT INTO files (run_id, source, destination, status, records_read, records_written, skipped, warnings, digest, error)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, rep.Source, rep.Destination, status, rep.RecordsRead, rep.RecordsWritten,
		rep.Skipped, len(rep.Warnings), rep.Digest, rep.Error)
	if err != nil {
		return fmt.Errorf("journal: record file: %w", err)
	}
	return nil
}

// FinishRun stamps the end time of a run.
func (j *Journal) FinishRun(ctx context.Context, runID string) error {
	_, err := j.db.ExecContext(ctx, "UPDATE runs SET finished_at = ? WHERE id = ?",
		time.Now().UTC().Format(timeLayout), runID)
	if err != nil {
		return fmt.Errorf("journal: finish run: %w", err)
	}
	return nil
}

// Runs returns the most recent runs, newest first, with their file counts.
func (j *Journal) Runs(ctx context.Context, limit int) ([]Run, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT r.id, r.started_at, r.finished_at, r.source, r.destination,
		       r.in_format, r.out_format, r.options,
		       COUNT(f.run_id),
		       COALESCE(SUM(CASE WHEN f.status = ? THEN 1 ELSE 0 END), 0)
		FROM runs r LEFT JOIN files f ON f.run_id = r.id
		GROUP BY r.id
		ORDER BY r.started_at DESC, r.rowid DESC
		LIMIT ?`, StatusFailed, limit)
	if err != nil {
		return nil, fmt.Errorf("journal: list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			run      Run
			started  string
			finished sql.NullString
			options  string
		)
		if err := rows.Scan(&run.ID, &started, &finished, &run.Source, &run.Destination,
			&run.InFormat, &run.OutFormat, &options, &run.Files, &run.Failed); err != nil {
			return nil, err
		}
		run.StartedAt, _ = time.Parse(timeLayout, started)
		if finished.Valid {
			t, _ := time.Parse(timeLayout, finished.String)
			run.FinishedAt = &t
		}
		json.Unmarshal([]byte(options), &run.Options)
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Files returns the file entries of a run in insertion order.
func (j *Journal) Files(ctx context.Context, runID string) ([]File, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT run_id, source, destination, status, records_read, records_written,
		       skipped, warnings, COALESCE(digest, ''), COALESCE(error, '')
		FROM files WHERE run_id = ? ORDER BY rowid`, runID)
	if err != nil {
		return nil, fmt.Errorf("journal: list files: %w", err)
	}
	defer rows.Close()

	var files []File
	for rows.Next() {
		var f File
		if err := rows.Scan(&f.RunID, &f.Source, &f.Destination, &f.Status, &f.RecordsRead,
			&f.RecordsWritten, &f.Skipped, &f.Warnings, &f.Digest, &f.Error); err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, rows.Err()
}
