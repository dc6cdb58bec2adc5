package database

import (
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vladimiradmaev/nurture-diary/internal/logger"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var sqliteSchema string

// NewSQLiteDB opens (or creates) the database file and applies the schema.
func NewSQLiteDB(dbPath string) (*sql.DB, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("error creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}
	// A single writer keeps SQLite from returning SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("error enabling WAL mode: %w", err)
	}

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("error executing schema: %w", err)
	}

	logger.Info("Database schema initialized", "driver", "sqlite", "path", dbPath)
	return db, nil
}
