package migrations

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync/atomic"

	"github.com/golang-migrate/migrate/v4/database"
)

// versionTable tracks the applied schema version, golang-migrate style: one
// row of (version, dirty).
const versionTable = "schema_migrations"

// sqliteDriver implements database.Driver over a *sql.DB opened with the
// ncruces sqlite driver. It never opens connections itself.
type sqliteDriver struct {
	db     *sql.DB
	table  string
	locked atomic.Bool
}

// WithInstance wraps an open connection as a migration driver. An empty
// table name selects the golang-migrate default.
func WithInstance(db *sql.DB, table string) (database.Driver, error) {
	if db == nil {
		return nil, errors.New("migrations: nil database")
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	if table == "" {
		table = versionTable
	}

	d := &sqliteDriver{db: db, table: table}
	if err := d.ensureVersionTable(); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *sqliteDriver) ensureVersionTable() (err error) {
	if err = d.Lock(); err != nil {
		return err
	}
	defer func() {
		if e := d.Unlock(); e != nil {
			err = errors.Join(err, e)
		}
	}()

	_, err = d.db.Exec(fmt.Sprintf(
		`CREATE TABLE IF NOT EXISTS %s (version uint64, dirty bool);
		 CREATE UNIQUE INDEX IF NOT EXISTS version_unique ON %s (version);`,
		d.table, d.table))
	return err
}

// Open is part of the interface but unsupported: connections come in through
// WithInstance so they share the store's pragmas.
func (d *sqliteDriver) Open(string) (database.Driver, error) {
	return nil, errors.New("migrations: use WithInstance, not a URL")
}

func (d *sqliteDriver) Close() error {
	return d.db.Close()
}

// Lock takes a process-local lock. SQLite has no advisory locks to lean on
// and a single zoomport process is the only writer.
func (d *sqliteDriver) Lock() error {
	if !d.locked.CompareAndSwap(false, true) {
		return database.ErrLocked
	}
	return nil
}

func (d *sqliteDriver) Unlock() error {
	if !d.locked.CompareAndSwap(true, false) {
		return database.ErrNotLocked
	}
	return nil
}

// Run executes one migration file inside a transaction.
func (d *sqliteDriver) Run(migration io.Reader) error {
	stmts, err := io.ReadAll(migration)
	if err != nil {
		return err
	}
	return d.execTx(string(stmts))
}

func (d *sqliteDriver) execTx(query string) error {
	tx, err := d.db.Begin()
	if err != nil {
		return &database.Error{OrigErr: err, Err: "failed to begin transaction"}
	}
	if _, err := tx.Exec(query); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			err = errors.Join(err, rbErr)
		}
		return &database.Error{OrigErr: err, Query: []byte(query)}
	}
	if err := tx.Commit(); err != nil {
		return &database.Error{OrigErr: err, Err: "failed to commit transaction"}
	}
	return nil
}

// SetVersion replaces the single version row. The row is kept even for a
// dirty nil version so a failed down of the first migration stays visible.
func (d *sqliteDriver) SetVersion(version int, dirty bool) error {
	tx, err := d.db.Begin()
	if err != nil {
		return &database.Error{OrigErr: err, Err: "failed to begin transaction"}
	}

	if _, err := tx.Exec("DELETE FROM " + d.table); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			err = errors.Join(err, rbErr)
		}
		return &database.Error{OrigErr: err}
	}
	if version >= 0 || (version == database.NilVersion && dirty) {
		insert := fmt.Sprintf("INSERT INTO %s (version, dirty) VALUES (?, ?)", d.table)
		if _, err := tx.Exec(insert, version, dirty); err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				err = errors.Join(err, rbErr)
			}
			return &database.Error{OrigErr: err, Query: []byte(insert)}
		}
	}

	if err := tx.Commit(); err != nil {
		return &database.Error{OrigErr: err, Err: "failed to commit transaction"}
	}
	return nil
}

func (d *sqliteDriver) Version() (int, bool, error) {
	var (
		version int
		dirty   bool
	)
	query := "SELECT version, dirty FROM " + d.table + " LIMIT 1"
	if err := d.db.QueryRow(query).Scan(&version, &dirty); err != nil {
		return database.NilVersion, false, nil
	}
	return version, dirty, nil
}

// Drop removes every table, which golang-migrate uses for forced resets.
func (d *sqliteDriver) Drop() (err error) {
	rows, err := d.db.Query(`SELECT name FROM sqlite_master WHERE type = 'table'`)
	if err != nil {
		return &database.Error{OrigErr: err, Err: "failed to list tables"}
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			err = errors.Join(err, cerr)
		}
	}()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return err
		}
		// sqlite_sequence and friends may not be dropped.
		if name == "" || strings.HasPrefix(name, "sqlite_") {
			continue
		}
		tables = append(tables, name)
	}
	if err := rows.Err(); err != nil {
		return &database.Error{OrigErr: err}
	}

	for _, t := range tables {
		if err := d.execTx("DROP TABLE " + t); err != nil {
			return err
		}
	}
	if len(tables) > 0 {
		if _, err := d.db.Exec("VACUUM"); err != nil {
			return &database.Error{OrigErr: err, Err: "failed to vacuum"}
		}
	}
	return nil
}
