package record

import (
	"database/sql"
	"errors"
	"fmt"
	"os"

	// Need to use SQLite connections.
	_ "github.com/mattn/go-sqlite3"

	"github.com/rs/xid"
	"github.com/tebeka/atexit"

	"github.com/lookahead-sim/lookahead-sim/sim"
)

// SQLiteRecorder writes samples into a SQLite database in long format: one
// row per sample and output variable. Each recorder creates a fresh database
// file and tags its rows with a run ID.
type SQLiteRecorder struct {
	db        *sql.DB
	statement *sql.Stmt
	path      string
	runID     string
	columns   []string
	kinds     []sim.VariableKind

	samples   []Sample
	batchSize int
	closed    bool
}

// NewSQLiteRecorder creates the database at path. Existing files are never
// overwritten.
func NewSQLiteRecorder(path string, outputs sim.VariableSet) (*SQLiteRecorder, error) {
	if path == "" {
		return nil, errors.New("sqlite recorder needs a file path")
	}
	runID := xid.New().String()
	if _, err := os.Stat(path); err == nil {
		return nil, fmt.Errorf("file %s already exists", path)
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	r := &SQLiteRecorder{
		db:        db,
		path:      path,
		runID:     runID,
		columns:   columns(outputs),
		batchSize: 10000,
	}
	outputs.Each(func(_ string, kind sim.VariableKind) { r.kinds = append(r.kinds, kind) })

	if err := r.createTables(); err != nil {
		db.Close()
		return nil, err
	}
	r.statement, err = db.Prepare(`INSERT INTO samples
		(run_id, instance, time, cache_hit, status, variable, kind, real_value, text_value)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("preparing insert: %w", err)
	}
	if _, err := db.Exec(`INSERT INTO runs (id) VALUES (?)`, runID); err != nil {
		db.Close()
		return nil, fmt.Errorf("registering run: %w", err)
	}

	atexit.Register(func() { _ = r.Close() })
	return r, nil
}

func (r *SQLiteRecorder) createTables() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (id TEXT PRIMARY KEY)`,
		`CREATE TABLE IF NOT EXISTS samples (
			run_id     TEXT NOT NULL,
			instance   TEXT NOT NULL,
			time       REAL NOT NULL,
			cache_hit  INTEGER NOT NULL,
			status     TEXT NOT NULL,
			variable   TEXT NOT NULL,
			kind       TEXT NOT NULL,
			real_value REAL,
			text_value TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS samples_time ON samples (run_id, instance, time)`,
	}
	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("creating schema: %w", err)
		}
	}
	return nil
}

// RunID identifies the samples of this recorder in the database.
func (r *SQLiteRecorder) RunID() string { return r.runID }

// Path returns the database file.
func (r *SQLiteRecorder) Path() string { return r.path }

// Record buffers a sample.
func (r *SQLiteRecorder) Record(s Sample) error {
	if r.closed {
		return fmt.Errorf("recorder %s is closed", r.path)
	}
	r.samples = append(r.samples, s)
	if len(r.samples) >= r.batchSize {
		return r.Flush()
	}
	return nil
}

// Flush writes all buffered samples in one transaction.
func (r *SQLiteRecorder) Flush() error {
	if len(r.samples) == 0 {
		return nil
	}
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	stmt := tx.Stmt(r.statement)
	for _, s := range r.samples {
		vals := values(s.Outputs)
		if len(vals) != len(r.columns) {
			_ = tx.Rollback()
			return fmt.Errorf("sample at t=%g has %d values for %d outputs", s.Time, len(vals), len(r.columns))
		}
		for i, v := range vals {
			var num sql.NullFloat64
			var text sql.NullString
			switch v := v.(type) {
			case float64:
				num = sql.NullFloat64{Float64: v, Valid: true}
			case int64:
				num = sql.NullFloat64{Float64: float64(v), Valid: true}
			case bool:
				num = sql.NullFloat64{Float64: boolToFloat(v), Valid: true}
			case string:
				text = sql.NullString{String: v, Valid: true}
			}
			_, err := stmt.Exec(r.runID, s.Instance, s.Time, s.CacheHit, s.Status.String(),
				r.columns[i], r.kinds[i].String(), num, text)
			if err != nil {
				_ = tx.Rollback()
				return fmt.Errorf("inserting sample at t=%g: %w", s.Time, err)
			}
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	r.samples = nil
	return nil
}

// Close flushes and closes the database. Closing twice is a no-op.
func (r *SQLiteRecorder) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	flushErr := r.Flush()
	r.statement.Close()
	if err := r.db.Close(); err != nil {
		return err
	}
	return flushErr
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
