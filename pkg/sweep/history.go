package sweep

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/OpenTraceLab/OpenTraceTemplates/pkg/template"
)

const historySchema = `
CREATE TABLE IF NOT EXISTS runs (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	started_at TEXT NOT NULL,
	finished_at TEXT,
	ok         INTEGER NOT NULL DEFAULT 0,
	warnings   INTEGER NOT NULL DEFAULT 0,
	skipped    INTEGER NOT NULL DEFAULT 0,
	failed     INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS results (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id      INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	family      TEXT NOT NULL,
	label       TEXT NOT NULL,
	name        TEXT,
	path        TEXT,
	status      TEXT NOT NULL,
	error       TEXT,
	params      TEXT NOT NULL,
	duration_us INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_results_run ON results(run_id);
CREATE INDEX IF NOT EXISTS idx_results_status ON results(status);
`

// History persists sweep outcomes in SQLite.
type History struct {
	db *sql.DB
	mu sync.Mutex
}

// Run is one recorded sweep.
type Run struct {
	ID       int64
	Started  time.Time
	Finished time.Time
	OK       int
	Warnings int
	Skipped  int
	Failed   int
}

// Entry is one recorded iteration.
type Entry struct {
	RunID    int64
	Family   string
	Label    string
	Name     string
	Path     string
	Status   Status
	Error    string
	Params   template.ParameterSet
	Duration time.Duration
}

// OpenHistory opens or creates the database at dbPath.
func OpenHistory(dbPath string) (*History, error) {
	if dir := filepath.Dir(dbPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create history dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	for _, pragma := range []string{"PRAGMA journal_mode=WAL", "PRAGMA busy_timeout=5000", "PRAGMA foreign_keys=ON"} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("%s: %w", pragma, err)
		}
	}
	if _, err := db.Exec(historySchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to execute schema: %w", err)
	}
	return &History{db: db}, nil
}

// Close releases the database.
func (h *History) Close() error {
	return h.db.Close()
}

// BeginRun opens a run record and returns its id.
func (h *History) BeginRun(started time.Time) (int64, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	res, err := h.db.Exec(`INSERT INTO runs (started_at) VALUES (?)`, started.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return 0, fmt.Errorf("begin run: %w", err)
	}
	return res.LastInsertId()
}

// Record stores one iteration of run.
func (h *History) Record(runID int64, res Result) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	params, err := json.Marshal(res.Params)
	if err != nil {
		return fmt.Errorf("encode params: %w", err)
	}
	var msg sql.NullString
	if res.Err != nil {
		msg = sql.NullString{String: res.Err.Error(), Valid: true}
	}
	_, err = h.db.Exec(`
		INSERT INTO results (run_id, family, label, name, path, status, error, params, duration_us)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, runID, res.Family, res.Params.Name(), res.Name, res.Path, res.Status.String(), msg, string(params), res.Duration.Microseconds())
	if err != nil {
		return fmt.Errorf("record result: %w", err)
	}
	return nil
}

// FinishRun stores the totals of report on run.
func (h *History) FinishRun(runID int64, report *Report) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.db.Exec(`
		UPDATE runs SET finished_at = ?, ok = ?, warnings = ?, skipped = ?, failed = ?
		WHERE id = ?
	`, report.Finished.UTC().Format(time.RFC3339Nano),
		report.Count(StatusOK), report.Count(StatusWarning), report.Count(StatusSkipped), report.Count(StatusFailed),
		runID)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	return nil
}

// Runs returns the most recent runs, newest first.
func (h *History) Runs(limit int) ([]Run, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	rows, err := h.db.Query(`
		SELECT id, started_at, finished_at, ok, warnings, skipped, failed
		FROM runs ORDER BY id DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var started string
		var finished sql.NullString
		if err := rows.Scan(&run.ID, &started, &finished, &run.OK, &run.Warnings, &run.Skipped, &run.Failed); err != nil {
			return nil, err
		}
		run.Started, _ = time.Parse(time.RFC3339Nano, started)
		if finished.Valid {
			run.Finished, _ = time.Parse(time.RFC3339Nano, finished.String)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Entries returns the iterations of run. When statuses are given only those
// are returned.
func (h *History) Entries(runID int64, statuses ...Status) ([]Entry, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	rows, err := h.db.Query(`
		SELECT run_id, family, label, name, path, status, error, params, duration_us
		FROM results WHERE run_id = ? ORDER BY id
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}
	defer rows.Close()

	want := make(map[Status]bool, len(statuses))
	for _, s := range statuses {
		want[s] = true
	}

	var entries []Entry
	for rows.Next() {
		var e Entry
		var name, path, msg sql.NullString
		var status, params string
		var us int64
		if err := rows.Scan(&e.RunID, &e.Family, &e.Label, &name, &path, &status, &msg, &params, &us); err != nil {
			return nil, err
		}
		e.Name, e.Path, e.Error = name.String, path.String, msg.String
		e.Duration = time.Duration(us) * time.Microsecond
		if e.Status, err = ParseStatus(status); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(params), &e.Params); err != nil {
			return nil, fmt.Errorf("decode params: %w", err)
		}
		if len(want) > 0 && !want[e.Status] {
			continue
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
