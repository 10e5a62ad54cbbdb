package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"forager/internal/solver"
)

// SQLiteRecorder stores the decision matrix of the latest run in a SQLite database.
type SQLiteRecorder struct {
	db      *sql.DB
	mu      sync.Mutex
	lastRun string
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id            TEXT PRIMARY KEY,
			timestamp     INTEGER NOT NULL,
			reserve_min   INTEGER NOT NULL,
			reserve_max   INTEGER NOT NULL,
			season_length INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS decisions (
			run_id    TEXT NOT NULL REFERENCES runs(id),
			reserve   INTEGER NOT NULL,
			time_step INTEGER NOT NULL,
			patch_id  INTEGER NOT NULL,
			fitness   REAL NOT NULL,
			PRIMARY KEY (run_id, reserve, time_step)
		)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:30], err)
		}
	}
	return nil
}

// Record replaces the stored matrix with the one in p inside a single
// transaction, stamping it with runID.
func (r *SQLiteRecorder) Record(runID string, p *solver.Policy) error {
	if runID == "" {
		return fmt.Errorf("empty run id")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM decisions`); err != nil {
		return fmt.Errorf("clear decisions: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM runs`); err != nil {
		return fmt.Errorf("clear runs: %w", err)
	}

	space := p.Decisions.Space()
	season := p.Decisions.Season()
	if _, err := tx.Exec(`INSERT INTO runs
		(id, timestamp, reserve_min, reserve_max, season_length)
		VALUES (?,?,?,?,?)`,
		runID, time.Now().Unix(), space.Min, space.Max, season,
	); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO decisions
		(run_id, reserve, time_step, patch_id, fitness)
		VALUES (?,?,?,?,?)`)
	if err != nil {
		return fmt.Errorf("prepare decisions: %w", err)
	}
	defer stmt.Close()

	for level := space.Min; level <= space.Max; level++ {
		for t := 1; t <= season; t++ {
			id, _ := p.Decisions.At(level, t)
			v, err := p.Fitness.At(level, t)
			if err != nil {
				return err
			}
			if _, err := stmt.Exec(runID, level, t, id, v); err != nil {
				return fmt.Errorf("insert decision (%d,%d): %w", level, t, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	r.lastRun = runID
	log.Printf("[INFO] run %s: decisions recorded to sqlite", runID)
	return nil
}

// LastRunID returns the id of the most recently recorded run, or "" before the first.
func (r *SQLiteRecorder) LastRunID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastRun
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
