package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/zjrosen/zoomport/internal/host"
)

// Section and key used for the remembered import root.
const (
	SectionZoomport = "zoomport"
	KeyLastRoot     = "last_root"
)

// extStateRepository implements host.StateStore using SQLite.
type extStateRepository struct {
	db *sql.DB
}

// newExtStateRepository creates a new extStateRepository instance.
func newExtStateRepository(db *sql.DB) *extStateRepository {
	return &extStateRepository{db: db}
}

// Ensure extStateRepository implements host.StateStore.
var _ host.StateStore = (*extStateRepository)(nil)

// Get returns the stored value for (section, key) and whether it exists.
func (r *extStateRepository) Get(section, key string) (string, bool, error) {
	var value string
	err := r.db.QueryRow(
		`SELECT value FROM ext_state WHERE section = ? AND key = ?`,
		section, key,
	).Scan(&value)

	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read ext state %s/%s: %w", section, key, err)
	}
	return value, true, nil
}

// Set stores value under (section, key), replacing any previous value.
func (r *extStateRepository) Set(section, key, value string) error {
	_, err := r.db.Exec(
		`INSERT INTO ext_state (section, key, value, updated_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(section, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		section, key, value, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to write ext state %s/%s: %w", section, key, err)
	}
	return nil
}
