package attach

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"time"

	"order-ticketing/internal/models"
)

// RemoteBackend uploads images to an external asset host and keeps the
// deletion handle so the retention sweep can purge them later.
type RemoteBackend struct {
	baseURL string
	http    *http.Client
}

func NewRemoteBackend(baseURL string) *RemoteBackend {
	return &RemoteBackend{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 60 * time.Second},
	}
}

// Init is a no-op: remote-hosted tickets have no local folder.
func (b *RemoteBackend) Init(ctx context.Context, ticketID, description string) (string, error) {
	return "", nil
}

type uploadResponse struct {
	URL string `json:"url"`
	ID  string `json:"id"`
}

func (b *RemoteBackend) Store(ctx context.Context, ticketID, filename string, r io.Reader) (models.Attachment, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filepath.Base(filename))
	if err != nil {
		return models.Attachment{}, err
	}
	if _, err := io.Copy(part, r); err != nil {
		return models.Attachment{}, fmt.Errorf("buffer %s: %w", filename, err)
	}
	if err := writer.WriteField("ticket_id", ticketID); err != nil {
		return models.Attachment{}, err
	}
	if err := writer.Close(); err != nil {
		return models.Attachment{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.baseURL+"/upload", &buf)
	if err != nil {
		return models.Attachment{}, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := b.http.Do(req)
	if err != nil {
		return models.Attachment{}, fmt.Errorf("upload %s: %w", filename, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return models.Attachment{}, fmt.Errorf("upload %s: status %d", filename, resp.StatusCode)
	}

	var uploaded uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&uploaded); err != nil {
		return models.Attachment{}, fmt.Errorf("decode upload response: %w", err)
	}
	if uploaded.URL == "" {
		return models.Attachment{}, fmt.Errorf("upload %s: empty url in response", filename)
	}

	return models.Attachment{
		URL:        uploaded.URL,
		ExternalID: uploaded.ID,
		UploadedAt: time.Now().UTC(),
	}, nil
}

func (b *RemoteBackend) Remove(ctx context.Context, att models.Attachment) error {
	if att.ExternalID == "" {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, b.baseURL+"/files/"+att.ExternalID, nil)
	if err != nil {
		return err
	}
	resp, err := b.http.Do(req)
	if err != nil {
		return fmt.Errorf("delete %s: %w", att.ExternalID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("delete %s: status %d", att.ExternalID, resp.StatusCode)
	}
	return nil
}
