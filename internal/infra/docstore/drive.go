// Package docstore fetches source documents for ingestion. The only
// implementation speaks the Google Drive export API, which is where bot
// knowledge files live.
package docstore

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const (
	defaultBaseURL = "https://www.googleapis.com"

	// Documents are exported as plain text regardless of their Drive type.
	exportMIMEType = "text/plain"

	// maxDocumentBytes caps a single exported document.
	maxDocumentBytes = 32 << 20
)

// Document is one fetched source document.
type Document struct {
	ID   string
	Text string
}

// Store retrieves documents by their external file ID.
type Store interface {
	Fetch(ctx context.Context, fileID string) (Document, error)
}

// DriveStore implements Store against GET /drive/v3/files/{id}/export.
type DriveStore struct {
	baseURL    string
	apiToken   string
	httpClient *http.Client
}

// NewDriveStore creates a Drive document fetcher. baseURL may be empty to
// use the public Google API endpoint.
func NewDriveStore(baseURL, apiToken string, timeout time.Duration) *DriveStore {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &DriveStore{
		baseURL:    baseURL,
		apiToken:   apiToken,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Fetch downloads the file's plain-text export.
func (s *DriveStore) Fetch(ctx context.Context, fileID string) (Document, error) {
	endpoint := fmt.Sprintf("%s/drive/v3/files/%s/export?mimeType=%s",
		s.baseURL, url.PathEscape(fileID), url.QueryEscape(exportMIMEType))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Document{}, fmt.Errorf("docstore: build request for %s: %w", fileID, err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiToken)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return Document{}, fmt.Errorf("docstore: fetch %s: %w", fileID, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Document{}, fmt.Errorf("docstore: fetch %s: status %d", fileID, resp.StatusCode)
	}

	text, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentBytes))
	if err != nil {
		return Document{}, fmt.Errorf("docstore: read %s: %w", fileID, err)
	}
	return Document{ID: fileID, Text: string(text)}, nil
}
