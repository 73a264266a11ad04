// Package api is the HTTP client for the DocDesk ingestion backend. Reads
// retry with backoff since they are idempotent; writes are sent exactly
// once. All calls share a rate limiter so a fast poll loop cannot flood
// the backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// Client talks to one backend instance. Safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
	retry   retryConfig
}

// Option adjusts a Client at construction.
type Option func(*Client)

// WithHTTPClient substitutes the underlying HTTP client, mainly for tests.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithRateLimit caps outgoing requests per second.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) { c.limiter = rate.NewLimiter(rate.Limit(rps), burst) }
}

// NewClient builds a client for the backend at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
		limiter: rate.NewLimiter(rate.Limit(10), 20),
		retry:   defaultRetry(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// statusError is a non-2xx backend reply. Retries only apply to 5xx.
type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	if e.body == "" {
		return fmt.Sprintf("backend returned %d", e.code)
	}
	return fmt.Sprintf("backend returned %d: %s", e.code, e.body)
}

func retryableStatus(err error) bool {
	if se, ok := err.(*statusError); ok {
		return se.code >= 500
	}
	// Network-level failures are worth another try.
	return true
}

// ListDocuments returns every document in the workspace, newest first as
// ordered by the backend.
func (c *Client) ListDocuments(ctx context.Context) ([]Document, error) {
	var list documentList
	err := retryDo(ctx, c.retry, retryableStatus, func() error {
		return c.getJSON(ctx, "/documents", &list)
	})
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return list.Documents, nil
}

// GetDocument fetches one document's current state. This is the poll
// endpoint; OCRText and FileURL appear as processing advances.
func (c *Client) GetDocument(ctx context.Context, id string) (*Document, error) {
	if id == "" {
		return nil, fmt.Errorf("document id cannot be empty")
	}
	var doc Document
	err := retryDo(ctx, c.retry, retryableStatus, func() error {
		return c.getJSON(ctx, "/documents/"+url.PathEscape(id), &doc)
	})
	if err != nil {
		return nil, fmt.Errorf("get document %s: %w", id, err)
	}
	return &doc, nil
}

// Search asks the backend for a grounded answer. The query is trimmed;
// an empty result is ErrEmptyQuery without any request leaving the
// client. Not retried: the backend may invoke a paid model per call.
func (c *Client) Search(ctx context.Context, req SearchRequest) (*SearchResponse, error) {
	req.Query = strings.TrimSpace(req.Query)
	if req.Query == "" {
		return nil, ErrEmptyQuery
	}
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := c.newRequest(ctx, http.MethodPost, "/search", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	var res SearchResponse
	if err := c.do(httpReq, &res); err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	return &res, nil
}

// Upload sends a local PDF to the backend and returns the filename it was
// stored under. The endpoint reports only success or failure; the caller
// refreshes the document list to find the new record. The file type and
// size are checked before any bytes leave the client.
func (c *Client) Upload(ctx context.Context, path string) (string, error) {
	if !strings.EqualFold(filepath.Ext(path), ".pdf") {
		return "", ErrNotPDF
	}
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if info.Size() > MaxUploadBytes {
		return "", ErrFileTooLarge
	}

	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, file); err != nil {
		return "", err
	}
	if err := w.Close(); err != nil {
		return "", err
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/upload", &buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	var reply uploadReply
	if err := c.do(req, &reply); err != nil {
		return "", fmt.Errorf("upload %s: %w", filepath.Base(path), err)
	}
	if reply.Status != "success" {
		msg := reply.Message
		if msg == "" {
			msg = "backend reported " + reply.Status
		}
		return "", fmt.Errorf("upload %s: %s", filepath.Base(path), msg)
	}
	if reply.Filename == "" {
		return filepath.Base(path), nil
	}
	return reply.Filename, nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	return http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	if err := c.limiter.Wait(req.Context()); err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &statusError{code: resp.StatusCode, body: strings.TrimSpace(string(body))}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
