package database

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3" // Import the SQLite3 driver
)

// Sentinel errors surfaced to the command layer. Write sites wrap them
// with detail; callers branch with errors.Is.
var (
	ErrNotFound   = errors.New("macro not found")
	ErrDuplicate  = errors.New("macro already exists")
	ErrValidation = errors.New("invalid macro")
)

// MacroDB handles persistence of macro records for all guilds.
type MacroDB struct {
	db *sql.DB
}

// InitDB opens (creating if needed) the macro database at dbPath and
// ensures the schema exists.
func InitDB(dbPath string) (*MacroDB, error) {
	// Ensure the directory for the database file exists.
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Ping the database to verify the connection.
	if err = db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	mdb := &MacroDB{db: db}
	if err := mdb.initTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create macros table: %w", err)
	}

	log.Println("Successfully connected to the macro database at", dbPath)
	return mdb, nil
}

// Close closes the underlying database connection.
func (mdb *MacroDB) Close() {
	if mdb.db != nil {
		mdb.db.Close()
	}
}

// initTables creates the macros table if it doesn't exist.
// List-valued columns (triggers, responses, channels, users) hold JSON
// arrays; channels and users are NULL when the macro is unscoped.
func (mdb *MacroDB) initTables() error {
	query := `
    CREATE TABLE IF NOT EXISTS macros (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        guild_id TEXT NOT NULL,
        name TEXT NOT NULL,
        triggers TEXT NOT NULL,
        responses TEXT NOT NULL,
        match_mode TEXT NOT NULL,
        sensitive INTEGER NOT NULL DEFAULT 0,
        dm INTEGER NOT NULL DEFAULT 0,
        delete_trigger INTEGER NOT NULL DEFAULT 0,
        channels TEXT,
        users TEXT,
        counter INTEGER NOT NULL DEFAULT 0,
        created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
        updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
        UNIQUE(guild_id, name)
    );`
	_, err := mdb.db.Exec(query)
	return err
}
