package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"order-ticketing/internal/models"
)

// storeFile is the canonical on-disk shape. Earlier deployments wrote a
// bare array; that shape is no longer read or written.
type storeFile struct {
	Tickets []models.Ticket `json:"tickets"`
}

// FileBackend persists the collection as one JSON document, rewritten in
// full on every save via a temp file and rename.
type FileBackend struct {
	path string
}

func NewFileBackend(path string) *FileBackend {
	return &FileBackend{path: path}
}

func (b *FileBackend) Load() ([]models.Ticket, error) {
	data, err := os.ReadFile(b.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", b.path, err)
	}

	var doc storeFile
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", b.path, err)
	}
	return doc.Tickets, nil
}

func (b *FileBackend) Save(tickets []models.Ticket) error {
	if tickets == nil {
		tickets = []models.Ticket{}
	}
	data, err := json.MarshalIndent(storeFile{Tickets: tickets}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal ticket store: %w", err)
	}

	if dir := filepath.Dir(b.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}

	tmp := b.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, b.path); err != nil {
		return fmt.Errorf("rename %s: %w", tmp, err)
	}
	return nil
}
