package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jgl02/sharedlist-scraper/models"
)

// JSONWriter writes the harvest artifact: one ordered JSON array of places.
// An empty harvest writes "[]", never "null".
type JSONWriter struct {
	path string
}

// NewJSONWriter creates a writer targeting path. Intermediate directories
// are created on Write.
func NewJSONWriter(path string) *JSONWriter {
	return &JSONWriter{path: path}
}

// Write serializes the places and installs the artifact atomically, so a
// consumer polling the path never observes a partially-written document.
func (w *JSONWriter) Write(places []models.Place) error {
	if places == nil {
		places = []models.Place{}
	}

	data, err := json.MarshalIndent(places, "", "  ")
	if err != nil {
		return fmt.Errorf("json: marshal places: %w", err)
	}
	data = append(data, '\n')

	return writeFileAtomic(w.path, data)
}

// writeFileAtomic stages data in a temp file next to path and renames it
// into place. The rename is atomic on the same filesystem.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("finalize %q: %w", path, err)
	}
	return nil
}
