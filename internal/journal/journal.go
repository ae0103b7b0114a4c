// Package journal records every play run and the batches it processed in a
// SQLite database.
package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/vk/playtraversal/internal/ctxlog"
	"github.com/vk/playtraversal/internal/play"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id       TEXT PRIMARY KEY,
	title        TEXT NOT NULL,
	started_at   INTEGER NOT NULL,
	finished_at  INTEGER,
	frames_count INTEGER NOT NULL,
	batch_count  INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS batches (
	run_id       TEXT NOT NULL REFERENCES runs(run_id) ON DELETE CASCADE,
	index_play   INTEGER NOT NULL,
	filename     TEXT NOT NULL,
	frames_first INTEGER NOT NULL,
	frames_last  INTEGER NOT NULL,
	frames_count INTEGER NOT NULL,
	started_at   INTEGER NOT NULL,
	PRIMARY KEY (run_id, index_play)
);
`

// Run is one row of the runs table. FinishedAt is zero while the run is in
// progress.
type Run struct {
	ID          string
	Title       string
	StartedAt   time.Time
	FinishedAt  time.Time
	FramesCount int
	BatchCount  int
}

// Batch is one row of the batches table.
type Batch struct {
	RunID       string
	IndexPlay   int
	Filename    string
	FramesFirst int
	FramesLast  int
	FramesCount int
	StartedAt   time.Time
}

// Store implements loop.Observer. It follows one run at a time: PlayBuilt
// starts a new run and later events belong to it.
type Store struct {
	db   *sql.DB
	path string
	now  func() time.Time

	mu    sync.Mutex
	runID string
}

// Open creates or opens the journal database at path.
func Open(ctx context.Context, path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("ensure journal dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.ExecContext(ctx, pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init journal schema: %w", err)
	}

	return &Store{db: db, path: path, now: time.Now}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// RunID returns the id of the current run, or "" before the first play.
func (s *Store) RunID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runID
}

func (s *Store) PlayBuilt(ctx context.Context, p *play.Play, q play.SequenceQueue) {
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (run_id, title, started_at, frames_count, batch_count) VALUES (?, ?, ?, ?, ?)`,
		id, p.Title, s.now().UnixMilli(), p.FramesCount, q.Len(),
	)
	if err != nil {
		ctxlog.FromContext(ctx).Error("Failed to journal run.", "error", err)
		return
	}
	s.mu.Lock()
	s.runID = id
	s.mu.Unlock()
	ctxlog.FromContext(ctx).Debug("Journal run started.", "run_id", id)
}

func (s *Store) Iteration(ctx context.Context, b *play.Batch, _ int) {
	id := s.RunID()
	if id == "" {
		return
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO batches (run_id, index_play, filename, frames_first, frames_last, frames_count, started_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, b.IndexPlay, b.Filename, b.FramesFirst, b.FramesLast, b.FramesCount, s.now().UnixMilli(),
	)
	if err != nil {
		ctxlog.FromContext(ctx).Error("Failed to journal batch.", "index_play", b.IndexPlay, "error", err)
	}
}

func (s *Store) Stopped(ctx context.Context, _ *play.Play) {
	id := s.RunID()
	if id == "" {
		return
	}
	if _, err := s.db.ExecContext(ctx, `UPDATE runs SET finished_at = ? WHERE run_id = ?`, s.now().UnixMilli(), id); err != nil {
		ctxlog.FromContext(ctx).Error("Failed to finish journal run.", "error", err)
	}
}

// Runs lists every run, newest first.
func (s *Store) Runs(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, title, started_at, finished_at, frames_count, batch_count FROM runs ORDER BY started_at DESC, run_id`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var (
			r        Run
			started  int64
			finished sql.NullInt64
		)
		if err := rows.Scan(&r.ID, &r.Title, &started, &finished, &r.FramesCount, &r.BatchCount); err != nil {
			return nil, err
		}
		r.StartedAt = time.UnixMilli(started)
		if finished.Valid {
			r.FinishedAt = time.UnixMilli(finished.Int64)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Batches returns the batches of a run in index_play order.
func (s *Store) Batches(ctx context.Context, runID string) ([]Batch, error) {
	if strings.TrimSpace(runID) == "" {
		return nil, errors.New("run id is required")
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, index_play, filename, frames_first, frames_last, frames_count, started_at
		 FROM batches WHERE run_id = ? ORDER BY index_play`, runID)
	if err != nil {
		return nil, fmt.Errorf("query batches: %w", err)
	}
	defer rows.Close()

	var out []Batch
	for rows.Next() {
		var (
			b       Batch
			started int64
		)
		if err := rows.Scan(&b.RunID, &b.IndexPlay, &b.Filename, &b.FramesFirst, &b.FramesLast, &b.FramesCount, &started); err != nil {
			return nil, err
		}
		b.StartedAt = time.UnixMilli(started)
		out = append(out, b)
	}
	return out, rows.Err()
}
