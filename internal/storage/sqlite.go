// Package storage persists deduplication sessions in SQLite.
package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/refscreen/refscreen/internal/dedupe"
)

// DB wraps a SQLite database holding saved dedup sessions.
type DB struct {
	db *sql.DB
}

// Open opens or creates the session database at the given path.
func Open(path string) (*DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite doesn't support concurrent writes

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			created_at TEXT NOT NULL,
			sources_json TEXT NOT NULL,
			stats_json TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS session_refs (
			session_id TEXT NOT NULL REFERENCES sessions(id),
			position INTEGER NOT NULL,
			kind TEXT NOT NULL,              -- unique or duplicate
			source TEXT NOT NULL,
			provenance_json TEXT NOT NULL,   -- appears_in / duplicate_of metadata
			record_json TEXT NOT NULL,
			PRIMARY KEY (session_id, kind, position)
		);

		CREATE INDEX IF NOT EXISTS idx_session_refs_session
			ON session_refs(session_id);
	`
	_, err := db.Exec(schema)
	return err
}

// Session describes one saved dedup run.
type Session struct {
	ID        string       `json:"id"`
	CreatedAt time.Time    `json:"created_at"`
	Sources   []string     `json:"sources"`
	Stats     dedupe.Stats `json:"stats"`
}

// uniqueProvenance is the provenance metadata stored for a master record.
type uniqueProvenance struct {
	AppearsIn       []string `json:"appears_in"`
	OccurrenceCount int      `json:"occurrence_count"`
}

// duplicateProvenance is the provenance metadata stored for a duplicate.
type duplicateProvenance struct {
	DuplicateOf string   `json:"duplicate_of"`
	AllSources  []string `json:"all_sources"`
}

// SaveSession stores a dedup run and returns its generated id.
func (d *DB) SaveSession(sourceNames []string, uniques []dedupe.UniqueRef, duplicates []dedupe.Duplicate, stats dedupe.Stats) (string, error) {
	id := uuid.NewString()

	sourcesJSON, err := json.Marshal(sourceNames)
	if err != nil {
		return "", fmt.Errorf("encoding sources: %w", err)
	}
	statsJSON, err := json.Marshal(stats)
	if err != nil {
		return "", fmt.Errorf("encoding stats: %w", err)
	}

	tx, err := d.db.Begin()
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO sessions (id, created_at, sources_json, stats_json) VALUES (?, ?, ?, ?)`,
		id, time.Now().UTC().Format(time.RFC3339), string(sourcesJSON), string(statsJSON),
	)
	if err != nil {
		return "", fmt.Errorf("inserting session: %w", err)
	}

	insert, err := tx.Prepare(
		`INSERT INTO session_refs (session_id, position, kind, source, provenance_json, record_json)
		 VALUES (?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return "", fmt.Errorf("preparing insert: %w", err)
	}
	defer insert.Close()

	for i, u := range uniques {
		prov, err := json.Marshal(uniqueProvenance{AppearsIn: u.AppearsIn, OccurrenceCount: u.OccurrenceCount})
		if err != nil {
			return "", fmt.Errorf("encoding provenance: %w", err)
		}
		rec, err := json.Marshal(u.Record)
		if err != nil {
			return "", fmt.Errorf("encoding record: %w", err)
		}
		if _, err := insert.Exec(id, i, "unique", u.Source, string(prov), string(rec)); err != nil {
			return "", fmt.Errorf("inserting unique ref %d: %w", i, err)
		}
	}
	for i, dup := range duplicates {
		prov, err := json.Marshal(duplicateProvenance{DuplicateOf: dup.DuplicateOf, AllSources: dup.AllSources})
		if err != nil {
			return "", fmt.Errorf("encoding provenance: %w", err)
		}
		rec, err := json.Marshal(dup.Record)
		if err != nil {
			return "", fmt.Errorf("encoding record: %w", err)
		}
		if _, err := insert.Exec(id, i, "duplicate", dup.Source, string(prov), string(rec)); err != nil {
			return "", fmt.Errorf("inserting duplicate %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing session: %w", err)
	}
	return id, nil
}

// ListSessions returns stored sessions, newest first.
func (d *DB) ListSessions() ([]Session, error) {
	rows, err := d.db.Query(
		`SELECT id, created_at, sources_json, stats_json FROM sessions ORDER BY created_at DESC, id`,
	)
	if err != nil {
		return nil, fmt.Errorf("querying sessions: %w", err)
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

// GetSession loads one session with its stored references.
func (d *DB) GetSession(id string) (*Session, []dedupe.UniqueRef, []dedupe.Duplicate, error) {
	row := d.db.QueryRow(
		`SELECT id, created_at, sources_json, stats_json FROM sessions WHERE id = ?`, id,
	)
	s, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, nil, fmt.Errorf("session %s not found", id)
	}
	if err != nil {
		return nil, nil, nil, err
	}

	rows, err := d.db.Query(
		`SELECT kind, source, provenance_json, record_json FROM session_refs
		 WHERE session_id = ? ORDER BY kind DESC, position`, id,
	)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("querying session refs: %w", err)
	}
	defer rows.Close()

	var uniques []dedupe.UniqueRef
	var duplicates []dedupe.Duplicate
	for rows.Next() {
		var kind, source, provJSON, recJSON string
		if err := rows.Scan(&kind, &source, &provJSON, &recJSON); err != nil {
			return nil, nil, nil, fmt.Errorf("scanning session ref: %w", err)
		}

		switch kind {
		case "unique":
			var u dedupe.UniqueRef
			var prov uniqueProvenance
			if err := json.Unmarshal([]byte(recJSON), &u.Record); err != nil {
				return nil, nil, nil, fmt.Errorf("decoding record: %w", err)
			}
			if err := json.Unmarshal([]byte(provJSON), &prov); err != nil {
				return nil, nil, nil, fmt.Errorf("decoding provenance: %w", err)
			}
			u.Source = source
			u.AppearsIn = prov.AppearsIn
			u.OccurrenceCount = prov.OccurrenceCount
			uniques = append(uniques, u)
		case "duplicate":
			var dup dedupe.Duplicate
			var prov duplicateProvenance
			if err := json.Unmarshal([]byte(recJSON), &dup.Record); err != nil {
				return nil, nil, nil, fmt.Errorf("decoding record: %w", err)
			}
			if err := json.Unmarshal([]byte(provJSON), &prov); err != nil {
				return nil, nil, nil, fmt.Errorf("decoding provenance: %w", err)
			}
			dup.Source = source
			dup.DuplicateOf = prov.DuplicateOf
			dup.AllSources = prov.AllSources
			duplicates = append(duplicates, dup)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, nil, nil, err
	}

	return &s, uniques, duplicates, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSession(row rowScanner) (Session, error) {
	var s Session
	var createdAt, sourcesJSON, statsJSON string
	if err := row.Scan(&s.ID, &createdAt, &sourcesJSON, &statsJSON); err != nil {
		return Session{}, err
	}

	t, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return Session{}, fmt.Errorf("parsing created_at: %w", err)
	}
	s.CreatedAt = t

	if err := json.Unmarshal([]byte(sourcesJSON), &s.Sources); err != nil {
		return Session{}, fmt.Errorf("decoding sources: %w", err)
	}
	if err := json.Unmarshal([]byte(statsJSON), &s.Stats); err != nil {
		return Session{}, fmt.Errorf("decoding stats: %w", err)
	}
	return s, nil
}
