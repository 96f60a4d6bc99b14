package sqliteutil

import (
	"database/sql"
	"strings"

	_ "modernc.org/sqlite"
)

// ApplySchema runs a schema against an open database. Re-applying a
// schema over an existing database is fine; "already exists" errors
// are ignored.
func ApplySchema(database *sql.DB, schema string) error {
	if schema == "" {
		return nil
	}
	_, err := database.Exec(schema)
	if err != nil && !strings.Contains(err.Error(), "already exists") {
		return err
	}
	return nil
}

// OpenDB opens (or creates) a sqlite database at path and applies the
// given schema.
func OpenDB(schema, path string) (*sql.DB, error) {
	database, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := database.Exec("PRAGMA foreign_keys = ON"); err != nil {
		database.Close()
		return nil, err
	}
	if err := ApplySchema(database, schema); err != nil {
		database.Close()
		return nil, err
	}
	return database, nil
}
