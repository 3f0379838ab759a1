// Package migrations versions the zoomport state schema with golang-migrate.
//
// The stock golang-migrate sqlite3 driver cannot be used here: it imports
// mattn/go-sqlite3, which registers itself as "sqlite3" and collides with the
// CGO-free ncruces driver the rest of the store uses. The small driver in
// this package speaks golang-migrate's database.Driver protocol over any
// *sql.DB opened through ncruces.
package migrations

import (
	"database/sql"
	"embed"
	"errors"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed *.sql
var schemaFS embed.FS

// FS exposes the embedded migration files, mostly for tests.
func FS() fs.FS {
	return schemaFS
}

// Run applies every pending migration. A database that is already current is
// not an error.
func Run(db *sql.DB) error {
	m, err := instance(db)
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

func instance(db *sql.DB) (*migrate.Migrate, error) {
	source, err := iofs.New(schemaFS, ".")
	if err != nil {
		return nil, err
	}
	driver, err := WithInstance(db, "")
	if err != nil {
		return nil, err
	}
	return migrate.NewWithInstance("iofs", source, "sqlite3", driver)
}
