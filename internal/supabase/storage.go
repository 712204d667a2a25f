package supabase

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// StorageClient uploads and removes objects in one bucket.
type StorageClient struct {
	client *Client
	bucket string
}

// Upload stores content at objectPath and returns the public URL. Re-uploads
// to the same path overwrite.
func (s *StorageClient) Upload(ctx context.Context, objectPath string, content []byte, contentType string) (string, error) {
	uploadURL := fmt.Sprintf("%s/storage/v1/object/%s/%s", s.client.baseURL, s.bucket, strings.TrimLeft(objectPath, "/"))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, uploadURL, bytes.NewReader(content))
	if err != nil {
		return "", fmt.Errorf("build upload request: %w", err)
	}
	s.client.setAuthHeaders(req, "")
	req.Header.Set("x-upsert", "true")
	if contentType == "" {
		contentType = http.DetectContentType(content)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := s.client.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return "", &Error{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(body))}
	}

	return s.PublicURL(objectPath), nil
}

// PublicURL returns the unauthenticated URL for an object.
func (s *StorageClient) PublicURL(objectPath string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", s.client.baseURL, s.bucket, strings.TrimLeft(objectPath, "/"))
}

// Remove deletes an object. Missing objects are not an error.
func (s *StorageClient) Remove(ctx context.Context, objectPath string) error {
	deleteURL := fmt.Sprintf("%s/storage/v1/object/%s/%s", s.client.baseURL, s.bucket, strings.TrimLeft(objectPath, "/"))

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, deleteURL, nil)
	if err != nil {
		return fmt.Errorf("build delete request: %w", err)
	}
	s.client.setAuthHeaders(req, "")

	resp, err := s.client.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("delete file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return &Error{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(body))}
	}
	return nil
}

// ObjectPathFromURL recovers the bucket-relative path from a stored public
// URL, for deletes keyed by the persisted URL.
func (s *StorageClient) ObjectPathFromURL(fileURL string) (string, error) {
	publicPrefix := fmt.Sprintf("%s/storage/v1/object/public/%s/", s.client.baseURL, s.bucket)
	objectPrefix := fmt.Sprintf("%s/storage/v1/object/%s/", s.client.baseURL, s.bucket)

	switch {
	case strings.HasPrefix(fileURL, publicPrefix):
		return strings.TrimPrefix(fileURL, publicPrefix), nil
	case strings.HasPrefix(fileURL, objectPrefix):
		return strings.TrimPrefix(fileURL, objectPrefix), nil
	default:
		return "", fmt.Errorf("file url does not belong to configured bucket")
	}
}
