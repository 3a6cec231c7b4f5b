package clientcli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// DefaultTimeout is the default HTTP client timeout.
const DefaultTimeout = 30 * time.Second

// Client performs operations against a Keepsake server.
type Client struct {
	config     *Config
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// New creates a new Client with the given config and options.
func New(cfg *Config, opts ...Option) (*Client, error) {
	if cfg == nil {
		return nil, ErrConfigRequired
	}

	cfg = cfg.WithDefaults()

	// Normalize endpoint URL (remove trailing slash)
	endpoint := strings.TrimSuffix(cfg.Endpoint, "/")

	c := &Client{
		config: &Config{
			Endpoint: endpoint,
			Token:    cfg.Token,
		},
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Upload uploads a local file as a new binary item.
func (c *Client) Upload(ctx context.Context, opts UploadOptions) (*UploadResult, error) {
	if opts.LocalPath == "" {
		return nil, fmt.Errorf("upload: %w", ErrEmptyPath)
	}

	file, err := os.Open(opts.LocalPath) //#nosec G304 -- localPath is user-provided input
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat file: %w", err)
	}

	contentType := opts.ContentType
	if contentType == "" {
		contentType = detectContentType(opts.LocalPath)
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	partHeader := textproto.MIMEHeader{}
	partHeader.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="file"; filename=%q`, filepath.Base(opts.LocalPath)))
	partHeader.Set("Content-Type", contentType)

	part, err := writer.CreatePart(partHeader)
	if err != nil {
		return nil, fmt.Errorf("create form part: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("finalize form: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/api/v1/items/files", &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	var envelope serverUploadResponse
	if err := c.do(req, &envelope); err != nil {
		return nil, err
	}

	return &UploadResult{
		LocalPath:  opts.LocalPath,
		ID:         envelope.ID,
		StorageURL: envelope.StorageURL,
		Size:       info.Size(),
	}, nil
}

// SaveText saves a new text snippet.
func (c *Client) SaveText(ctx context.Context, opts SaveTextOptions) (*TextResult, error) {
	if opts.Text == "" {
		return nil, fmt.Errorf("save text: %w", ErrEmptyText)
	}
	return c.postText(ctx, textRequest{Text: opts.Text, Title: opts.Title})
}

// EditText replaces the body of an existing text item.
func (c *Client) EditText(ctx context.Context, opts EditTextOptions) (*TextResult, error) {
	if opts.ID == "" {
		return nil, fmt.Errorf("edit text: %w", ErrEmptyID)
	}
	if opts.Text == "" {
		return nil, fmt.Errorf("edit text: %w", ErrEmptyText)
	}
	return c.postText(ctx, textRequest{Text: opts.Text, ID: opts.ID, Title: opts.Title})
}

// postText sends a text save or edit request. The server routes on the
// presence of the id field.
func (c *Client) postText(ctx context.Context, body textRequest) (*TextResult, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/api/v1/items/text", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	var envelope serverTextResponse
	if err := c.do(req, &envelope); err != nil {
		return nil, err
	}

	return &TextResult{
		ID:         envelope.ID,
		StorageURL: envelope.StorageURL,
		Title:      envelope.Title,
		Text:       envelope.Text,
	}, nil
}

// Retitle changes the title of an existing item.
func (c *Client) Retitle(ctx context.Context, opts RetitleOptions) error {
	if opts.ID == "" {
		return fmt.Errorf("retitle: %w", ErrEmptyID)
	}
	if opts.Title == "" {
		return fmt.Errorf("retitle: %w", ErrEmptyTitle)
	}

	payload, err := json.Marshal(titleRequest{Title: opts.Title})
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPatch, "/api/v1/items/"+opts.ID+"/title", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, nil)
}

// List returns all items belonging to the authenticated user.
func (c *Client) List(ctx context.Context) (*ListResult, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/api/v1/items", http.NoBody)
	if err != nil {
		return nil, err
	}

	var envelope serverListResponse
	if err := c.do(req, &envelope); err != nil {
		return nil, err
	}

	items := make([]ItemInfo, len(envelope.Files))
	for i, f := range envelope.Files {
		items[i] = ItemInfo{
			ID:         f.ID,
			Kind:       f.Kind,
			Title:      f.Title,
			MediaType:  f.MediaType,
			Size:       f.SizeBytes,
			StorageURL: f.StorageURL,
			CreatedAt:  f.CreatedAt,
			UpdatedAt:  f.UpdatedAt,
		}
	}

	return &ListResult{Items: items}, nil
}

// TotalSize calculates the total size of all items in bytes.
func (r *ListResult) TotalSize() int64 {
	var total int64
	for _, item := range r.Items {
		total += item.Size
	}
	return total
}

// newRequest builds a request with the session token attached.
func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.config.Endpoint+path, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.config.Token)
	return req, nil
}

// do executes a request and decodes the response envelope into out.
// A nil out discards the response body after the status check.
func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return parseServerError(resp.StatusCode, body)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	return nil
}

// detectContentType returns MIME type based on file extension.
func detectContentType(path string) string {
	ext := filepath.Ext(path)
	if ext == "" {
		return "application/octet-stream"
	}

	mimeType := mime.TypeByExtension(ext)
	if mimeType == "" {
		return "application/octet-stream"
	}

	return mimeType
}

// parseServerError extracts the error message from a server response.
// Falls back to the raw body when the envelope doesn't decode.
func parseServerError(statusCode int, body []byte) error {
	var envelope serverErrorResponse
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error != "" {
		return &APIError{
			StatusCode: statusCode,
			Body:       envelope.Error,
		}
	}
	return &APIError{
		StatusCode: statusCode,
		Body:       string(body),
	}
}

// APIError represents an error response from the server.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return "server error: " + strconv.Itoa(e.StatusCode) + " - " + e.Body
}

// Is reports whether target matches this error.
// It matches if target is an *APIError with the same StatusCode.
func (e *APIError) Is(target error) bool {
	var t *APIError
	ok := errors.As(target, &t)
	if !ok {
		return false
	}
	return t.StatusCode == e.StatusCode
}

// IsNotFound returns true if the error is a 404.
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// Sentinel errors for common API error conditions.
// Use errors.Is() to check for these conditions.
var (
	// ErrNotFound is returned when the requested item does not exist (404).
	ErrNotFound = &APIError{StatusCode: http.StatusNotFound}

	// ErrUnauthorized is returned when authentication fails (401).
	// This typically means a missing or expired session token.
	ErrUnauthorized = &APIError{StatusCode: http.StatusUnauthorized}

	// ErrForbidden is returned when the request is not permitted (403).
	ErrForbidden = &APIError{StatusCode: http.StatusForbidden}
)
