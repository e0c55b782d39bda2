// Package manuf resolves a hardware address's OUI (organizationally unique
// identifier, the top 24 bits) to a manufacturer string. Neither
// devicetracker.Registry nor cmd/devicetrackerd calls Lookup, so a device
// record's manuf field is not populated from this table.
//
// Grounded on the teacher's internal/db package: sqlite via
// modernc.org/sqlite (pure-Go, no cgo) and schema migrations applied with
// golang-migrate/v4's iofs source driver (internal/db/migrate.go).
package manuf

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "modernc.org/sqlite"

	"github.com/sensorcore/devicetracker/internal/dterr"
	"github.com/sensorcore/devicetracker/internal/element"
)

// Resolver looks up the manufacturer string for a hardware address's OUI.
// DB is the SQLite-backed implementation in this package; no other package
// takes a Resolver.
type Resolver interface {
	Lookup(mac element.Mac) (manuf string, ok error)
}

// DB is a sqlite-backed OUI table, opened once at startup; Lookup only
// reads from it.
type DB struct {
	db *sql.DB
}

// Open opens (creating if absent) the sqlite database at path and applies
// any pending migrations from migrationsFS.
func Open(path string, migrationsFS fs.FS) (*DB, error) {
	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, dterr.New(dterr.IoError, "manuf.Open", err)
	}

	d := &DB{db: sqlDB}
	if err := d.migrateUp(migrationsFS); err != nil {
		sqlDB.Close()
		return nil, err
	}
	return d, nil
}

func (d *DB) migrateUp(migrationsFS fs.FS) error {
	sourceDriver, err := iofs.New(migrationsFS, ".")
	if err != nil {
		return dterr.New(dterr.IoError, "manuf.migrateUp", fmt.Errorf("iofs source: %w", err))
	}

	driver, err := sqlite.WithInstance(d.db, &sqlite.Config{})
	if err != nil {
		return dterr.New(dterr.IoError, "manuf.migrateUp", fmt.Errorf("sqlite driver: %w", err))
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "sqlite", driver)
	if err != nil {
		return dterr.New(dterr.IoError, "manuf.migrateUp", fmt.Errorf("migrate instance: %w", err))
	}
	m.Log = migrateLogger{}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return dterr.New(dterr.IoError, "manuf.migrateUp", err)
	}
	return nil
}

// Close releases the underlying database handle.
func (d *DB) Close() error { return d.db.Close() }

// Lookup resolves mac's 24-bit OUI prefix to a manufacturer string. A miss
// is NotFound, not an error condition the caller need surface.
func (d *DB) Lookup(mac element.Mac) (string, error) {
	prefix := ouiPrefix(mac)

	var manufName string
	err := d.db.QueryRow("SELECT manuf FROM oui WHERE prefix = ?", prefix).Scan(&manufName)
	if errors.Is(err, sql.ErrNoRows) {
		return "", dterr.New(dterr.NotFound, "manuf.Lookup", fmt.Errorf("no manufacturer for oui %s", prefix))
	}
	if err != nil {
		return "", dterr.New(dterr.IoError, "manuf.Lookup", err)
	}
	return manufName, nil
}

// Insert adds or replaces a single OUI prefix -> manufacturer mapping.
func (d *DB) Insert(prefix, manufName string) error {
	_, err := d.db.Exec("INSERT OR REPLACE INTO oui (prefix, manuf) VALUES (?, ?)", strings.ToUpper(prefix), manufName)
	if err != nil {
		return dterr.New(dterr.IoError, "manuf.Insert", err)
	}
	return nil
}

// ouiPrefix renders the top 24 bits of mac as "XX:XX:XX".
func ouiPrefix(mac element.Mac) string {
	b := mac.String()
	return strings.ToUpper(b[:8])
}

type migrateLogger struct{}

func (migrateLogger) Printf(format string, v ...interface{}) { log.Printf("[manuf-migrate] "+format, v...) }
func (migrateLogger) Verbose() bool                          { return false }
