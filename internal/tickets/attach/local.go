package attach

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"order-ticketing/internal/models"
)

// LocalBackend keeps one folder per ticket under the data directory,
// with the submitted description alongside the images. This is the
// canonical backend.
type LocalBackend struct {
	dataDir string
}

func NewLocalBackend(dataDir string) *LocalBackend {
	return &LocalBackend{dataDir: dataDir}
}

func (b *LocalBackend) folder(ticketID string) string {
	return filepath.Join(b.dataDir, ticketID)
}

func (b *LocalBackend) Init(ctx context.Context, ticketID, description string) (string, error) {
	folder := b.folder(ticketID)
	if err := os.MkdirAll(folder, 0755); err != nil {
		return "", fmt.Errorf("create ticket folder: %w", err)
	}
	if err := os.WriteFile(filepath.Join(folder, "desc.txt"), []byte(description), 0644); err != nil {
		return "", fmt.Errorf("write description: %w", err)
	}
	return folder, nil
}

func (b *LocalBackend) Store(ctx context.Context, ticketID, filename string, r io.Reader) (models.Attachment, error) {
	folder := b.folder(ticketID)
	if err := os.MkdirAll(folder, 0755); err != nil {
		return models.Attachment{}, fmt.Errorf("create ticket folder: %w", err)
	}

	// filepath.Base guards against path components smuggled in the
	// platform-supplied filename.
	name := filepath.Base(filename)
	f, err := os.Create(filepath.Join(folder, name))
	if err != nil {
		return models.Attachment{}, fmt.Errorf("create %s: %w", name, err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return models.Attachment{}, fmt.Errorf("store %s: %w", name, err)
	}
	return models.Attachment{Name: name}, nil
}

// Remove is a no-op for local files: the retention sweep only purges
// remote-hosted attachments.
func (b *LocalBackend) Remove(ctx context.Context, att models.Attachment) error {
	return nil
}
