// Package sqlite provides a SQLite-backed implementation of
// storage.Storage using database/sql and the mattn/go-sqlite3 driver.
//
// The default DSN is ":memory:", so the database lives inside the process
// and disappears with it. An in-memory SQLite database is private to the
// connection that opened it, so the pool is pinned to one connection.
// That also gives the one-request-at-a-time behaviour the API expects.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/growdev/growdevers-api/internal/config"
	"github.com/growdev/growdevers-api/internal/storage"
	"github.com/growdev/growdevers-api/internal/types"

	// Registers the "sqlite3" driver with database/sql.
	_ "github.com/mattn/go-sqlite3"
)

// SQLite is the SQLite implementation of storage.Storage.
type SQLite struct {
	Db *sql.DB
}

// New opens the database at cfg.StoragePath and creates the developers
// table if it does not already exist.
func New(cfg *config.Config) (*SQLite, error) {
	db, err := sql.Open("sqlite3", cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("sqlite.New: open db: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	// seq keeps insertion order; id is the public identifier.
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS developers (
			seq        INTEGER PRIMARY KEY AUTOINCREMENT,
			id         TEXT    NOT NULL UNIQUE,
			name       TEXT    NOT NULL,
			email      TEXT    NOT NULL,
			age        REAL    NOT NULL,
			registered BOOLEAN NOT NULL
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite.New: create table: %w", err)
	}

	return &SQLite{Db: db}, nil
}

// Close releases the underlying connection. For an in-memory database this
// discards all data.
func (s *SQLite) Close() error {
	return s.Db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDeveloper(row rowScanner) (types.Developer, error) {
	var dev types.Developer
	err := row.Scan(&dev.ID, &dev.Name, &dev.Email, &dev.Age, &dev.Registered)
	return dev, err
}

func (s *SQLite) ListDevelopers() ([]types.Developer, error) {
	rows, err := s.Db.Query(
		"SELECT id, name, email, age, registered FROM developers ORDER BY seq",
	)
	if err != nil {
		return nil, fmt.Errorf("ListDevelopers: query: %w", err)
	}
	defer rows.Close()

	developers := make([]types.Developer, 0)
	for rows.Next() {
		dev, err := scanDeveloper(rows)
		if err != nil {
			return nil, fmt.Errorf("ListDevelopers: scan row: %w", err)
		}
		developers = append(developers, dev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListDevelopers: rows iteration: %w", err)
	}

	return developers, nil
}

func (s *SQLite) GetDeveloperByID(id string) (types.Developer, error) {
	return getByID(s.Db, id)
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	QueryRow(query string, args ...any) *sql.Row
}

func getByID(q querier, id string) (types.Developer, error) {
	dev, err := scanDeveloper(q.QueryRow(
		"SELECT id, name, email, age, registered FROM developers WHERE id = ? ORDER BY seq LIMIT 1",
		id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return types.Developer{}, fmt.Errorf("GetDeveloperByID %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return types.Developer{}, fmt.Errorf("GetDeveloperByID: scan: %w", err)
	}
	return dev, nil
}

func (s *SQLite) CreateDeveloper(dev types.Developer) (types.Developer, error) {
	dev.ID = uuid.NewString()

	_, err := s.Db.Exec(
		"INSERT INTO developers (id, name, email, age, registered) VALUES (?, ?, ?, ?, ?)",
		dev.ID, dev.Name, dev.Email, dev.Age, dev.Registered,
	)
	if err != nil {
		return types.Developer{}, fmt.Errorf("CreateDeveloper: exec: %w", err)
	}

	return dev, nil
}

// mutate runs stmt inside a transaction, fails with ErrNotFound when no row
// was touched, and returns the row as it reads after the change.
func (s *SQLite) mutate(op, id, stmt string, args ...any) (types.Developer, error) {
	tx, err := s.Db.Begin()
	if err != nil {
		return types.Developer{}, fmt.Errorf("%s: begin: %w", op, err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(stmt, args...)
	if err != nil {
		return types.Developer{}, fmt.Errorf("%s: exec: %w", op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return types.Developer{}, fmt.Errorf("%s: rows affected: %w", op, err)
	}
	if n == 0 {
		return types.Developer{}, fmt.Errorf("%s %s: %w", op, id, storage.ErrNotFound)
	}

	dev, err := getByID(tx, id)
	if err != nil {
		return types.Developer{}, err
	}
	if err := tx.Commit(); err != nil {
		return types.Developer{}, fmt.Errorf("%s: commit: %w", op, err)
	}
	return dev, nil
}

func (s *SQLite) UpdateDeveloperByID(id string, dev types.Developer) (types.Developer, error) {
	return s.mutate("UpdateDeveloperByID", id,
		"UPDATE developers SET name = ?, email = ?, age = ?, registered = ? WHERE id = ?",
		dev.Name, dev.Email, dev.Age, dev.Registered, id,
	)
}

func (s *SQLite) ToggleRegisteredByID(id string) (types.Developer, error) {
	return s.mutate("ToggleRegisteredByID", id,
		"UPDATE developers SET registered = NOT registered WHERE id = ?",
		id,
	)
}

func (s *SQLite) DeleteDeveloperByID(id string) error {
	res, err := s.Db.Exec("DELETE FROM developers WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("DeleteDeveloperByID: exec: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("DeleteDeveloperByID: rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("DeleteDeveloperByID %s: %w", id, storage.ErrNotFound)
	}
	return nil
}

func (s *SQLite) Count() (int, error) {
	var n int
	if err := s.Db.QueryRow("SELECT COUNT(*) FROM developers").Scan(&n); err != nil {
		return 0, fmt.Errorf("Count: scan: %w", err)
	}
	return n, nil
}
