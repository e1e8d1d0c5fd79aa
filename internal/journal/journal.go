// Package journal keeps a durable per-submission processing record in a
// local sqlite file, so an operator can see what ran, when, and where the
// archive landed, and a restarted driver can tell finished work from
// half-processed folders.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/underwritr/submission-extractor/constants"
)

const schema = `
CREATE TABLE IF NOT EXISTS submission_runs (
	id            TEXT PRIMARY KEY,
	name          TEXT NOT NULL,
	status        TEXT NOT NULL,
	started_at    TIMESTAMP NOT NULL,
	finished_at   TIMESTAMP,
	archive_path  TEXT,
	output_file   TEXT,
	error         TEXT
);
CREATE INDEX IF NOT EXISTS submission_runs_name ON submission_runs (name);
`

// Entry is one row of the journal.
type Entry struct {
	ID          uuid.UUID
	Name        string
	Status      constants.JournalStatus
	StartedAt   time.Time
	FinishedAt  *time.Time
	ArchivePath string
	OutputFile  string
	Error       string
}

// Journal wraps the sqlite handle.
type Journal struct {
	db  *sql.DB
	log *slog.Logger
}

// Open opens (creating if needed) the journal database and ensures the
// schema exists.
func Open(ctx context.Context, path string, logger *slog.Logger) (*Journal, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create journal dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate journal: %w", err)
	}
	logger.Info("journal.open", "path", path)
	return &Journal{db: db, log: logger}, nil
}

// Close closes the underlying database.
func (j *Journal) Close() {
	if err := j.db.Close(); err != nil {
		j.log.Error("journal.close_failed", "error", err)
	}
}

// Begin records the start of a submission run and returns its id.
func (j *Journal) Begin(ctx context.Context, name string) (uuid.UUID, error) {
	id := uuid.New()
	_, err := j.db.ExecContext(ctx,
		`INSERT INTO submission_runs (id, name, status, started_at) VALUES (?, ?, ?, ?)`,
		id.String(), name, string(constants.JournalStatusRunning), time.Now().UTC(),
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("journal begin: %w", err)
	}
	return id, nil
}

// Finish closes a run row with its terminal status and archive locations.
func (j *Journal) Finish(ctx context.Context, id uuid.UUID, status constants.JournalStatus, archivePath, outputFile, errMsg string) error {
	_, err := j.db.ExecContext(ctx,
		`UPDATE submission_runs
		 SET status = ?, finished_at = ?, archive_path = ?, output_file = ?, error = ?
		 WHERE id = ?`,
		string(status), time.Now().UTC(), archivePath, outputFile, errMsg, id.String(),
	)
	if err != nil {
		return fmt.Errorf("journal finish: %w", err)
	}
	return nil
}

// Archived reports whether a submission of this name has already been
// archived in a previous run.
func (j *Journal) Archived(ctx context.Context, name string) (bool, error) {
	var n int
	err := j.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM submission_runs WHERE name = ? AND status = ?`,
		name, string(constants.JournalStatusArchived),
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("journal archived: %w", err)
	}
	return n > 0, nil
}

// Recent returns the newest n entries.
func (j *Journal) Recent(ctx context.Context, n int) ([]Entry, error) {
	rows, err := j.db.QueryContext(ctx,
		`SELECT id, name, status, started_at, finished_at, archive_path, output_file, error
		 FROM submission_runs ORDER BY started_at DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("journal recent: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			e        Entry
			idStr    string
			status   string
			finished sql.NullTime
			archive  sql.NullString
			output   sql.NullString
			errMsg   sql.NullString
		)
		if err := rows.Scan(&idStr, &e.Name, &status, &e.StartedAt, &finished, &archive, &output, &errMsg); err != nil {
			return nil, fmt.Errorf("journal scan: %w", err)
		}
		e.ID, _ = uuid.Parse(idStr)
		e.Status = constants.JournalStatus(status)
		if finished.Valid {
			t := finished.Time
			e.FinishedAt = &t
		}
		e.ArchivePath = archive.String
		e.OutputFile = output.String
		e.Error = errMsg.String
		out = append(out, e)
	}
	return out, rows.Err()
}
