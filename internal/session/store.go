// Package session persists the local session: the bearer credential and
// the numeric id of the user it belongs to, stored and cleared as a pair.
// Nothing else is durably kept on the client.
package session

import (
	"database/sql"
	"embed"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog/log"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// Store is the SQLite-backed session store.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the session database at path and runs
// migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create session directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open session database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping session database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run session migrations: %w", err)
	}

	return &Store{db: db}, nil
}

func runMigrations(db *sql.DB) error {
	goose.SetBaseFS(embedMigrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}
	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Credential returns the stored bearer token. An unreadable or empty
// store reads as "no session"; callers route to login in that case.
func (s *Store) Credential() (string, bool) {
	var token string
	err := s.db.QueryRow(`SELECT token FROM session WHERE id = 1`).Scan(&token)
	if err != nil {
		if err != sql.ErrNoRows {
			log.Debug().Err(err).Msg("Session read failed, treating as absent")
		}
		return "", false
	}
	return token, token != ""
}

// UserID returns the stored user id, if a session is present.
func (s *Store) UserID() (int64, bool) {
	var id int64
	err := s.db.QueryRow(`SELECT user_id FROM session WHERE id = 1`).Scan(&id)
	if err != nil {
		if err != sql.ErrNoRows {
			log.Debug().Err(err).Msg("Session read failed, treating as absent")
		}
		return 0, false
	}
	return id, true
}

// Save stores the credential and user id together, replacing any
// previous session.
func (s *Store) Save(token string, userID int64) error {
	_, err := s.db.Exec(`
		INSERT INTO session (id, token, user_id) VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET token = excluded.token, user_id = excluded.user_id, saved_at = CURRENT_TIMESTAMP
	`, token, userID)
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Clear removes the credential and user id as a pair.
func (s *Store) Clear() error {
	if _, err := s.db.Exec(`DELETE FROM session WHERE id = 1`); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}
