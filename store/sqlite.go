// Package store persists detection results in SQLite.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/RyanBlaney/stalta/detector"
	"github.com/RyanBlaney/stalta/trace"
	_ "github.com/mattn/go-sqlite3" // SQLite driver registration
	"github.com/mdobak/go-xerrors"
)

// Store is an event log backed by one SQLite database.
type Store struct {
	db *sql.DB
}

// Run describes one stored detection.
type Run struct {
	ID           int64
	Label        string
	TraceID      string
	Method       string
	SampleRate   float64
	STA          int
	LTA          int
	ThresholdOn  float64
	ThresholdOff float64
	CreatedAt    time.Time
}

// StoredEvent is an event together with the run that produced it.
type StoredEvent struct {
	RunID   int64
	TraceID string
	trace.Event
}

// Open opens (creating if needed) the database at dataSourceName and
// ensures the schema exists.
func Open(dataSourceName string) (*Store, error) {
	// the file path comes before any query parameters
	dbPath := dataSourceName
	if idx := strings.Index(dataSourceName, "?"); idx != -1 {
		dbPath = dataSourceName[:idx]
	}

	dbDir := filepath.Dir(dbPath)
	if dbDir != "." && dbDir != "" && dbPath != ":memory:" {
		if err := os.MkdirAll(dbDir, 0o755); err != nil {
			return nil, xerrors.New(fmt.Errorf("create database directory: %w", err))
		}
	}

	// busy timeout in milliseconds
	if !strings.Contains(dataSourceName, "_busy_timeout") {
		if strings.Contains(dataSourceName, "?") {
			dataSourceName += "&_busy_timeout=5000"
		} else {
			dataSourceName += "?_busy_timeout=5000"
		}
	}

	db, err := sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return nil, xerrors.New(fmt.Errorf("open sqlite: %w", err))
	}

	if err := createTables(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// createTables creates the required tables if they don't exist
func createTables(db *sql.DB) error {
	createRunsTable := `
    CREATE TABLE IF NOT EXISTS runs (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        label TEXT NOT NULL,
        trace_id TEXT NOT NULL,
        method TEXT NOT NULL,
        sample_rate REAL NOT NULL,
        sta INTEGER NOT NULL,
        lta INTEGER NOT NULL,
        threshold_on REAL NOT NULL,
        threshold_off REAL NOT NULL,
        created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
    );
    `

	createEventsTable := `
    CREATE TABLE IF NOT EXISTS events (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
        trace_id TEXT NOT NULL,
        on_sample INTEGER NOT NULL,
        off_sample INTEGER NOT NULL,
        start_s REAL NOT NULL,
        end_s REAL NOT NULL
    );
    CREATE INDEX IF NOT EXISTS idx_events_trace ON events(trace_id, start_s);
    `

	if _, err := db.Exec(createRunsTable); err != nil {
		return xerrors.New(fmt.Errorf("create runs table: %w", err))
	}
	if _, err := db.Exec(createEventsTable); err != nil {
		return xerrors.New(fmt.Errorf("create events table: %w", err))
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveResult stores res under label in one transaction and returns the run id.
func (s *Store) SaveResult(ctx context.Context, label string, res *detector.Result) (int64, error) {
	if res == nil {
		return 0, xerrors.New("store: nil result")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, xerrors.New(fmt.Errorf("begin transaction: %w", err))
	}
	defer tx.Rollback()

	r, err := tx.ExecContext(ctx,
		`INSERT INTO runs (label, trace_id, method, sample_rate, sta, lta, threshold_on, threshold_off)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		label, res.TraceID, res.Method.String(), res.SampleRate,
		res.Params.STA, res.Params.LTA, res.ThresholdOn, res.ThresholdOff)
	if err != nil {
		return 0, xerrors.New(fmt.Errorf("insert run: %w", err))
	}
	runID, err := r.LastInsertId()
	if err != nil {
		return 0, xerrors.New(fmt.Errorf("run id: %w", err))
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO events (run_id, trace_id, on_sample, off_sample, start_s, end_s)
         VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, xerrors.New(fmt.Errorf("prepare events insert: %w", err))
	}
	defer stmt.Close()

	for _, e := range res.Events {
		if _, err := stmt.ExecContext(ctx, runID, res.TraceID, e.On, e.Off, e.Start, e.End); err != nil {
			return 0, xerrors.New(fmt.Errorf("insert event: %w", err))
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, xerrors.New(fmt.Errorf("commit: %w", err))
	}
	return runID, nil
}

// Events returns every stored event of traceID ordered by start time.
func (s *Store) Events(ctx context.Context, traceID string) ([]StoredEvent, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, trace_id, on_sample, off_sample, start_s, end_s
         FROM events WHERE trace_id = ? ORDER BY start_s, run_id`, traceID)
	if err != nil {
		return nil, xerrors.New(fmt.Errorf("query events: %w", err))
	}
	defer rows.Close()

	events := []StoredEvent{}
	for rows.Next() {
		var e StoredEvent
		if err := rows.Scan(&e.RunID, &e.TraceID, &e.On, &e.Off, &e.Start, &e.End); err != nil {
			return nil, xerrors.New(fmt.Errorf("scan event: %w", err))
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, xerrors.New(err)
	}
	return events, nil
}

// Run returns the stored run with the given id.
func (s *Store) Run(ctx context.Context, id int64) (*Run, error) {
	var r Run
	err := s.db.QueryRowContext(ctx,
		`SELECT id, label, trace_id, method, sample_rate, sta, lta, threshold_on, threshold_off, created_at
         FROM runs WHERE id = ?`, id).
		Scan(&r.ID, &r.Label, &r.TraceID, &r.Method, &r.SampleRate, &r.STA, &r.LTA,
			&r.ThresholdOn, &r.ThresholdOff, &r.CreatedAt)
	if err != nil {
		return nil, xerrors.New(fmt.Errorf("run %d: %w", id, err))
	}
	return &r, nil
}
