// Package docstore implements the document-store collaborator: it ingests
// uploaded supporting documents, extracts their text, and hands out opaque
// handles. The checklist engine keeps only the handle; content comes back
// through Resolve at analysis time.
//
// Backed by SQLite so attached documents survive the lifetime of the
// server process regardless of how long a submission stays open.
package docstore

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/Jgam2/EthicsPoC/internal/analysis"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// timeNow is a package-level variable for testability.
var timeNow = time.Now

// Document is a stored supporting document.
type Document struct {
	Handle    string `json:"handle"`
	Name      string `json:"name"`
	MediaType string `json:"media_type"`
	SHA256    string `json:"sha256"`
	SizeBytes int64  `json:"size_bytes"`
	Text      string `json:"text"`
	AddedAt   string `json:"added_at"`
}

// Config holds document store settings.
type Config struct {
	DataDir string
}

// DefaultConfig stores documents under ~/.repa.
func DefaultConfig() Config {
	home, _ := os.UserHomeDir()
	return Config{DataDir: filepath.Join(home, ".repa")}
}

// Store is the SQLite-backed document store.
type Store struct {
	db *sql.DB
}

// New opens (or creates) the document database under cfg.DataDir.
func New(cfg Config) (*Store, error) {
	if err := os.MkdirAll(cfg.DataDir, 0700); err != nil {
		return nil, fmt.Errorf("docstore: create data dir: %w", err)
	}

	dbPath := filepath.Join(cfg.DataDir, "documents.db")
	db, err := openDB("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("docstore: open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return nil, fmt.Errorf("docstore: pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("docstore: migration: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS documents (
			handle     TEXT PRIMARY KEY,
			name       TEXT NOT NULL,
			media_type TEXT NOT NULL,
			sha256     TEXT NOT NULL,
			size_bytes INTEGER NOT NULL,
			text       TEXT NOT NULL,
			added_at   TEXT NOT NULL
		);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Put ingests a document: extracts its text, hashes the content, and
// stores it under a fresh opaque handle. The handle is the only thing
// callers keep.
func (s *Store) Put(name string, content []byte) (string, error) {
	text, mediaType, err := extractText(name, content)
	if err != nil {
		return "", err
	}

	sum := sha256.Sum256(content)
	handle := uuid.NewString()
	addedAt := timeNow().UTC().Format(time.RFC3339)

	_, err = s.db.Exec(
		`INSERT INTO documents (handle, name, media_type, sha256, size_bytes, text, added_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		handle, name, mediaType, hex.EncodeToString(sum[:]), int64(len(content)), text, addedAt,
	)
	if err != nil {
		return "", fmt.Errorf("docstore: insert document: %w", err)
	}
	return handle, nil
}

// Get returns a stored document by handle.
func (s *Store) Get(handle string) (*Document, error) {
	row := s.db.QueryRow(
		`SELECT handle, name, media_type, sha256, size_bytes, text, added_at
		 FROM documents WHERE handle = ?`, handle)

	var d Document
	err := row.Scan(&d.Handle, &d.Name, &d.MediaType, &d.SHA256, &d.SizeBytes, &d.Text, &d.AddedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("docstore: document %q not found", handle)
	}
	if err != nil {
		return nil, fmt.Errorf("docstore: reading document %q: %w", handle, err)
	}
	return &d, nil
}

// Resolve implements checklist.DocumentSource: it returns the content
// representation the analyzer consumes.
func (s *Store) Resolve(_ context.Context, handle string) (*analysis.Document, error) {
	d, err := s.Get(handle)
	if err != nil {
		return nil, err
	}
	return &analysis.Document{
		Handle:    d.Handle,
		Name:      d.Name,
		MediaType: d.MediaType,
		Text:      d.Text,
	}, nil
}

// Delete removes a stored document. Deleting an unknown handle is not an
// error — the engine may clear a question whose document was already gone.
func (s *Store) Delete(handle string) error {
	_, err := s.db.Exec(`DELETE FROM documents WHERE handle = ?`, handle)
	if err != nil {
		return fmt.Errorf("docstore: delete document %q: %w", handle, err)
	}
	return nil
}
