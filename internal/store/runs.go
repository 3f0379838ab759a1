package store

import (
	"database/sql"
	"fmt"
	"time"
)

// RunRecord is one completed import run.
type RunRecord struct {
	// ID is the database row ID (0 until recorded).
	ID int64
	// Root is the import root the run scanned.
	Root string
	// Folders is the number of take folders processed.
	Folders int
	// Items is the number of items placed.
	Items int
	// TotalLength is the cursor position after the run, in seconds.
	TotalLength float64
	// Elapsed is how long the run took.
	Elapsed time.Duration
	// CreatedAt is when the run finished.
	CreatedAt time.Time
}

// RunRepository persists and lists run history.
type RunRepository struct {
	db *sql.DB
}

// newRunRepository creates a new RunRepository instance.
func newRunRepository(db *sql.DB) *RunRepository {
	return &RunRepository{db: db}
}

// Record inserts rec and sets its ID and CreatedAt.
func (r *RunRepository) Record(rec *RunRecord) error {
	now := time.Now()
	result, err := r.db.Exec(
		`INSERT INTO runs (root, folders, items, total_length, elapsed_ms, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rec.Root, rec.Folders, rec.Items, rec.TotalLength, rec.Elapsed.Milliseconds(), now.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	rec.ID = id
	rec.CreatedAt = now
	return nil
}

// List returns the most recent runs, newest first. limit <= 0 means no limit.
func (r *RunRepository) List(limit int) ([]RunRecord, error) {
	query := `SELECT id, root, folders, items, total_length, elapsed_ms, created_at
			  FROM runs
			  ORDER BY created_at DESC, id DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []RunRecord
	for rows.Next() {
		var rec RunRecord
		var elapsedMS int64
		var createdAt int64
		if err := rows.Scan(&rec.ID, &rec.Root, &rec.Folders, &rec.Items, &rec.TotalLength, &elapsedMS, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan run row: %w", err)
		}
		rec.Elapsed = time.Duration(elapsedMS) * time.Millisecond
		rec.CreatedAt = time.Unix(createdAt, 0)
		runs = append(runs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating run rows: %w", err)
	}

	return runs, nil
}

// LastRoot returns the root of the most recent run, or "" when history is
// empty. Used as a fallback default when no preference is stored.
func (r *RunRepository) LastRoot() (string, error) {
	var root string
	err := r.db.QueryRow(
		`SELECT root FROM runs ORDER BY created_at DESC, id DESC LIMIT 1`,
	).Scan(&root)

	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read last run root: %w", err)
	}
	return root, nil
}
