// Package store persists the browser-captured credential document.
//
// At most one document exists at a time: each ingest overwrites it wholesale
// and disconnect deletes it wholesale. Load fails soft so callers treat any
// unreadable state as "not connected" rather than an error.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ytmb/internal/shared"
)

// Document is the persisted browser-session header snapshot.
type Document struct {
	URL     string            `json:"url"`
	Time    string            `json:"time"`
	Headers map[string]string `json:"headers"`
}

// CredentialStore reads and writes a single JSON [Document] on disk.
//
// No locking beyond the filesystem's: concurrent ingests race and the last
// write wins, which is acceptable for single-operator usage.
type CredentialStore struct {
	path   string
	logger *log.Logger
}

// New creates a CredentialStore persisting to path.
func New(path string, logger *log.Logger) *CredentialStore {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &CredentialStore{path: path, logger: logger}
}

// Path returns the file path the store persists to.
func (s *CredentialStore) Path() string {
	return s.path
}

// Load reads the persisted document.
//
// Returns (nil, false) on a missing file, unreadable file, or malformed
// content; it never returns an error.
func (s *CredentialStore) Load() (*Document, bool) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("failed to read headers file", "path", s.path, "err", err)
		}
		return nil, false
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		s.logger.Warn("malformed headers file", "path", s.path, "err", err)
		return nil, false
	}

	return &doc, true
}

// Save persists doc, creating parent directories as needed.
//
// Writes to a temp file in the same directory and renames it into place so a
// concurrent Load never observes a partially written document.
func (s *CredentialStore) Save(doc *Document) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("%w: failed to create %s: %v", shared.ErrPersistence, dir, err)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: failed to marshal document: %v", shared.ErrPersistence, err)
	}

	tmp, err := os.CreateTemp(dir, ".headers-*.json")
	if err != nil {
		return fmt.Errorf("%w: failed to create temp file: %v", shared.ErrPersistence, err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("%w: failed to write temp file: %v", shared.ErrPersistence, err)
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("%w: failed to close temp file: %v", shared.ErrPersistence, err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("%w: failed to replace %s: %v", shared.ErrPersistence, s.path, err)
	}

	return nil
}

// Clear removes the persisted document.
//
// Returns removed=false with a nil error when no document exists; absence is
// itself success.
func (s *CredentialStore) Clear() (bool, error) {
	err := os.Remove(s.path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, fmt.Errorf("%w: failed to delete %s: %v", shared.ErrPersistence, s.path, err)
}
