package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"handcompare/logging"
	"handcompare/types"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// InitDatabase initializes and returns a database connection
func InitDatabase(dbPath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	createTableSQL := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		folder TEXT NOT NULL,
		mine_folder TEXT NOT NULL,
		output_path TEXT,
		started_at TEXT NOT NULL,
		completed_at TEXT,
		row_count INTEGER DEFAULT 0
	);
	CREATE TABLE IF NOT EXISTS results (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		rank INTEGER NOT NULL,
		student TEXT NOT NULL,
		reference TEXT,
		lpips REAL NOT NULL,
		ssim REAL NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_results_run ON results(run_id);
	CREATE INDEX IF NOT EXISTS idx_results_student ON results(student);`

	if _, err = db.Exec(createTableSQL); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// OpenDatabase opens an existing database connection
func OpenDatabase(dbPath string) (*sql.DB, error) {
	return sql.Open("sqlite3", dbPath)
}

// NewRunID returns a fresh identifier for a comparison run
func NewRunID() string {
	return uuid.NewString()
}

// StoreRun records a completed run and all of its rows in one transaction
func StoreRun(db *sql.DB, run types.RunInfo, table types.Table) error {
	if run.ID == "" {
		run.ID = NewRunID()
	}
	if run.StartedAt == "" {
		run.StartedAt = time.Now().Format(time.RFC3339)
	}
	if run.CompletedAt == "" {
		run.CompletedAt = time.Now().Format(time.RFC3339)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("cannot begin transaction for run %s: %w", run.ID, err)
	}

	_, err = tx.Exec(`
		INSERT OR REPLACE INTO runs (id, folder, mine_folder, output_path, started_at, completed_at, row_count)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Folder, run.MineFolder, run.OutputPath, run.StartedAt, run.CompletedAt, len(table))
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("cannot insert run %s: %w", run.ID, err)
	}

	if _, err = tx.Exec("DELETE FROM results WHERE run_id = ?", run.ID); err != nil {
		tx.Rollback()
		return fmt.Errorf("cannot clear results for run %s: %w", run.ID, err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO results (run_id, rank, student, reference, lpips, ssim)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("cannot prepare statement for run %s: %w", run.ID, err)
	}
	defer stmt.Close()

	for i, row := range table {
		if _, err := stmt.Exec(run.ID, i+1, row.Student, row.Reference, row.LPIPS, row.SSIM); err != nil {
			tx.Rollback()
			return fmt.Errorf("cannot insert result %s for run %s: %w", row.Student, run.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("cannot commit run %s: %w", run.ID, err)
	}
	logging.DebugLog("Archived run %s with %d rows", run.ID, len(table))
	return nil
}

// LoadRunResults returns the rows of a run in rank order
func LoadRunResults(db *sql.DB, runID string) (types.Table, error) {
	rows, err := db.Query(`
		SELECT student, COALESCE(reference, ''), lpips, ssim FROM results
		WHERE run_id = ? ORDER BY rank`, runID)
	if err != nil {
		return nil, fmt.Errorf("database query error: %w", err)
	}
	defer rows.Close()

	var table types.Table
	for rows.Next() {
		var row types.Row
		if err := rows.Scan(&row.Student, &row.Reference, &row.LPIPS, &row.SSIM); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		table = append(table, row)
	}
	return table, rows.Err()
}

// ErrRunNotFound is returned when a run ID is not in the archive
var ErrRunNotFound = errors.New("run not found")

// GetRun returns one archived run
func GetRun(db *sql.DB, runID string) (*types.RunInfo, error) {
	var run types.RunInfo
	err := db.QueryRow(`
		SELECT id, folder, mine_folder, COALESCE(output_path, ''), started_at, COALESCE(completed_at, ''), row_count
		FROM runs WHERE id = ?`, runID).
		Scan(&run.ID, &run.Folder, &run.MineFolder, &run.OutputPath, &run.StartedAt, &run.CompletedAt, &run.RowCount)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	if err != nil {
		return nil, fmt.Errorf("database query error: %w", err)
	}
	return &run, nil
}

// ListRuns returns the most recent runs first, at most limit of them
func ListRuns(db *sql.DB, limit int) ([]types.RunInfo, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.Query(`
		SELECT id, folder, mine_folder, COALESCE(output_path, ''), started_at, COALESCE(completed_at, ''), row_count
		FROM runs ORDER BY started_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("database query error: %w", err)
	}
	defer rows.Close()

	var runs []types.RunInfo
	for rows.Next() {
		var run types.RunInfo
		if err := rows.Scan(&run.ID, &run.Folder, &run.MineFolder, &run.OutputPath,
			&run.StartedAt, &run.CompletedAt, &run.RowCount); err != nil {
			return nil, fmt.Errorf("error scanning run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// RunStats contains summary statistics for one run
type RunStats struct {
	TotalRows      int
	UniqueStudents int
	BestStudent    string
	BestLPIPS      float64
}

// GetRunStats retrieves summary statistics for a run
func GetRunStats(db *sql.DB, runID string) (*RunStats, error) {
	var stats RunStats

	err := db.QueryRow("SELECT COUNT(*), COUNT(DISTINCT student) FROM results WHERE run_id = ?", runID).
		Scan(&stats.TotalRows, &stats.UniqueStudents)
	if err != nil {
		return nil, fmt.Errorf("failed to count results: %w", err)
	}
	if stats.TotalRows == 0 {
		return &stats, nil
	}

	err = db.QueryRow("SELECT student, lpips FROM results WHERE run_id = ? ORDER BY lpips ASC, rank ASC LIMIT 1", runID).
		Scan(&stats.BestStudent, &stats.BestLPIPS)
	if err != nil {
		return nil, fmt.Errorf("failed to get best match: %w", err)
	}

	return &stats, nil
}
