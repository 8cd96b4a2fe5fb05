package attach

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"order-ticketing/internal/models"
)

// Backend stores submitted images durably, either on the local
// filesystem or on a remote asset host.
type Backend interface {
	// Init prepares per-ticket storage at creation time and returns the
	// ticket's folder path, empty for backends without one.
	Init(ctx context.Context, ticketID, description string) (string, error)
	// Store persists one image and returns its descriptor.
	Store(ctx context.Context, ticketID, filename string, r io.Reader) (models.Attachment, error)
	// Remove deletes a stored image. Used only by the retention sweep.
	Remove(ctx context.Context, att models.Attachment) error
}

// Fetcher downloads attachment content from the platform CDN.
type Fetcher struct {
	HTTP *http.Client
}

func NewFetcher() *Fetcher {
	return &Fetcher{HTTP: &http.Client{Timeout: 30 * time.Second}}
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	if resp.StatusCode >= 300 {
		resp.Body.Close()
		return nil, fmt.Errorf("fetch %s: status %d", url, resp.StatusCode)
	}
	return resp.Body, nil
}

// IsImage reports whether the filename looks like an image the flows
// should ingest.
func IsImage(filename string) bool {
	name := strings.ToLower(filename)
	for _, ext := range []string{".jpg", ".jpeg", ".png", ".gif", ".webp"} {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}
