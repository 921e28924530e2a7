// Package snapshotstore implements domain.SnapshotStore, the optional
// persistent backend for compressed per-day snapshots (§4.3, §6):
// "An optional compressed-snapshot storage backend MAY be used to
// persist per-day snapshots out of memory; correctness does not depend
// on it." It is grounded on the teacher's SQLite persistence layer
// (formerly internal/infra/sqlite), keeping its WAL-mode, pure-Go-driver,
// single-writer connection shape but replacing the model registry schema
// with a single path-keyed blob table, since the engine already encodes
// each snapshot into a short text line before handing it to Write. Blobs
// are stored exactly as given; neither the engine nor this store
// compresses them.
package snapshotstore

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite" // pure-Go SQLite driver, no CGO required
)

// Store is a path-keyed blob store backed by SQLite.
type Store struct {
	db *sql.DB
}

// Open creates or opens the SQLite database at dir/snapshots.db. Enables
// WAL mode and a 5-second busy timeout, matching the teacher's
// connection settings.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	dbPath := filepath.Join(dir, "snapshots.db")
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS blobs (
		path    TEXT PRIMARY KEY,
		payload BLOB NOT NULL
	)`)
	return err
}

// Close cleanly shuts down the database.
func (s *Store) Close() error { return s.db.Close() }

// Write stores data under path, overwriting any existing value.
func (s *Store) Write(path string, data []byte) error {
	_, err := s.db.Exec(
		`INSERT INTO blobs (path, payload) VALUES (?, ?)
		 ON CONFLICT(path) DO UPDATE SET payload = excluded.payload`,
		path, data,
	)
	return err
}

// Read retrieves the bytes stored under path.
func (s *Store) Read(path string) ([]byte, error) {
	row := s.db.QueryRow(`SELECT payload FROM blobs WHERE path = ?`, path)
	var payload []byte
	if err := row.Scan(&payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// List returns every path stored under the given prefix, in ascending
// lexical order — callers that zero-pad their day keys (§4.3) get
// chronological order for free.
func (s *Store) List(prefix string) ([]string, error) {
	rows, err := s.db.Query(
		`SELECT path FROM blobs WHERE path LIKE ? ORDER BY path ASC`,
		escapeLike(prefix)+"%",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return nil, err
		}
		out = append(out, path)
	}
	return out, rows.Err()
}

func escapeLike(s string) string {
	r := strings.NewReplacer("%", "\\%", "_", "\\_")
	return r.Replace(s)
}

// DayKey zero-pads a day number so lexical and numeric ordering agree,
// matching the ordered-persistence layout List() relies on.
func DayKey(day int) string {
	return fmt.Sprintf("%010d", day)
}

// Path builds the storage key for one simulation's snapshot on one day.
func Path(simulationID string, day int) string {
	return simulationID + "/" + DayKey(day)
}
