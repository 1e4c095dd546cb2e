package database

import (
	"database/sql"
	"time"

	_ "github.com/lib/pq"

	"github.com/jslopes/journal-backend/internal/config"
)

// Connect opens a PostgreSQL pool from cfg, verifies it with a ping and
// ensures the schema exists. The pool is returned to the caller instead of
// being stored in a package variable; handlers acquire a scoped connection
// from it per request.
func Connect(cfg *config.Config) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.PostgresURI)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err = db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	if err = InitTables(db); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// InitTables creates the journal schema if it doesn't exist.
func InitTables(db *sql.DB) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS journal_entries (
			id SERIAL PRIMARY KEY,
			week_number INTEGER NOT NULL CHECK (week_number BETWEEN 1 AND 8),
			month INTEGER NOT NULL CHECK (month BETWEEN 1 AND 2),
			title TEXT NOT NULL,
			content TEXT NOT NULL,
			image_url TEXT,
			created_at TIMESTAMP NOT NULL DEFAULT NOW()
		)`,

		`CREATE INDEX IF NOT EXISTS idx_journal_entries_created_at ON journal_entries(created_at)`,
	}

	for _, query := range queries {
		if _, err := db.Exec(query); err != nil {
			return err
		}
	}
	return nil
}
