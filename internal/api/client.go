package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/mmcdole/fotofindr/internal/domain"
)

const (
	defaultTimeout = 30 * time.Second
	userAgent      = "FotoFindr/1.0"
)

// Client implements domain.Backend against the FotoFindr REST API.
// The base URL may point directly at the backend or at the gateway's
// /api prefix; paths are joined either way.
type Client struct {
	baseURL    string
	userID     string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a new backend API client
func NewClient(baseURL, userID string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		userID:  userID,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		logger: logger,
	}
}

// doRequest performs an HTTP request and returns the response body.
// Transport failures map to domain.ErrBackendOffline.
func (c *Client) doRequest(ctx context.Context, method, path string, contentType string, reqBody io.Reader) ([]byte, error) {
	reqURL := fmt.Sprintf("%s%s", c.baseURL, path)

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	c.logger.Debug("api request", "method", method, "url", reqURL)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("api request failed", "error", err, "url", reqURL)
		return nil, domain.ErrBackendOffline
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, domain.ErrPhotoNotFound
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Error("api request error", "status", resp.StatusCode, "body", string(body))
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return body, nil
}

// doJSON performs a request with a JSON body and decodes a JSON response.
func (c *Client) doJSON(ctx context.Context, method, path string, payload, dest interface{}) error {
	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	body, err := c.doRequest(ctx, method, path, "application/json", reqBody)
	if err != nil {
		return err
	}

	if dest == nil {
		return nil
	}
	if err := json.Unmarshal(body, dest); err != nil {
		c.logger.Error("JSON parse error", "error", err, "bodyLen", len(body))
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// uploadResponse mirrors the backend's /upload/ response body.
type uploadResponse struct {
	PhotoID    string `json:"photo_id"`
	StorageURL string `json:"storage_url"`
	Message    string `json:"message"`
}

// Upload submits one photo as multipart form data carrying the user id,
// the original device URI for later reconciliation, and the file bytes.
// Returns the server-assigned photo identifier.
func (c *Client) Upload(ctx context.Context, photo domain.Photo) (string, error) {
	file, err := os.Open(photo.URI)
	if err != nil {
		return "", fmt.Errorf("failed to open asset: %w", err)
	}
	defer file.Close()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if err := w.WriteField("user_id", c.userID); err != nil {
		return "", fmt.Errorf("failed to build form: %w", err)
	}
	if err := w.WriteField("device_uri", photo.URI); err != nil {
		return "", fmt.Errorf("failed to build form: %w", err)
	}

	part, err := w.CreateFormFile("file", photo.DisplayName())
	if err != nil {
		return "", fmt.Errorf("failed to build form: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return "", fmt.Errorf("failed to read asset: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize form: %w", err)
	}

	body, err := c.doRequest(ctx, http.MethodPost, "/upload/", w.FormDataContentType(), &buf)
	if err != nil {
		return "", err
	}

	var resp uploadResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("failed to parse upload response: %w", err)
	}
	if resp.PhotoID == "" {
		return "", fmt.Errorf("upload response missing photo id")
	}

	c.logger.Debug("uploaded asset", "assetID", photo.AssetID, "photoID", resp.PhotoID)
	return resp.PhotoID, nil
}

// Clear wipes prior indexed state for the configured user. Best-effort
// from the caller's perspective.
func (c *Client) Clear(ctx context.Context) error {
	_, err := c.doRequest(ctx, http.MethodPost, "/clear/"+url.PathEscape(c.userID), "", nil)
	return err
}

// Reprocess triggers the backend AI pipeline over uploaded photos.
func (c *Client) Reprocess(ctx context.Context) error {
	_, err := c.doRequest(ctx, http.MethodPost, "/reprocess/"+url.PathEscape(c.userID), "", nil)
	return err
}

// Status returns the backend pipeline's processed/total counters.
func (c *Client) Status(ctx context.Context) (domain.ProcessStatus, error) {
	var status domain.ProcessStatus
	err := c.doJSON(ctx, http.MethodGet, "/status/"+url.PathEscape(c.userID), nil, &status)
	return status, err
}

// searchRequest mirrors the backend's /search/ request body.
type searchRequest struct {
	Query  string `json:"query"`
	UserID string `json:"user_id"`
	Limit  int    `json:"limit,omitempty"`
}

// Search submits a free-text query and returns matched photo records.
func (c *Client) Search(ctx context.Context, query string, limit int) (domain.SearchResult, error) {
	var result domain.SearchResult
	err := c.doJSON(ctx, http.MethodPost, "/search/", searchRequest{
		Query:  query,
		UserID: c.userID,
		Limit:  limit,
	}, &result)
	return result, err
}

// Profiles lists the user's face-cluster people records.
func (c *Client) Profiles(ctx context.Context) ([]domain.PersonProfile, error) {
	var profiles []domain.PersonProfile
	err := c.doJSON(ctx, http.MethodGet, "/profiles/"+url.PathEscape(c.userID), nil, &profiles)
	return profiles, err
}

// NamePerson assigns a display name to a person cluster.
func (c *Client) NamePerson(ctx context.Context, personID, name string) error {
	path := fmt.Sprintf("/profiles/%s/name", url.PathEscape(personID))
	return c.doJSON(ctx, http.MethodPatch, path, map[string]string{"name": name}, nil)
}

// narrateResponse mirrors the backend's /narrate/ response body.
type narrateResponse struct {
	NarrationURL string `json:"narration_url"`
}

// Narrate requests narration audio for one indexed photo and returns
// the audio URL. Playback is up to the caller.
func (c *Client) Narrate(ctx context.Context, photoID string) (string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := w.WriteField("photo_id", photoID); err != nil {
		return "", fmt.Errorf("failed to build form: %w", err)
	}
	if err := w.WriteField("user_id", c.userID); err != nil {
		return "", fmt.Errorf("failed to build form: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize form: %w", err)
	}

	body, err := c.doRequest(ctx, http.MethodPost, "/narrate/", w.FormDataContentType(), &buf)
	if err != nil {
		return "", err
	}

	var resp narrateResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("failed to parse narrate response: %w", err)
	}
	return resp.NarrationURL, nil
}

// ImageLabels returns descriptive labels for one indexed photo.
func (c *Client) ImageLabels(ctx context.Context, photoID string) (domain.PhotoLabels, error) {
	var labels domain.PhotoLabels
	q := url.Values{}
	q.Set("image_id", photoID)
	err := c.doJSON(ctx, http.MethodGet, "/image_labels/?"+q.Encode(), nil, &labels)
	return labels, err
}
