package shorturl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	// DefaultBaseURL is where the service under test listens unless configured otherwise.
	DefaultBaseURL = "http://localhost:8080"

	urlsPath  = "/api/urls"
	visitPath = "/api/urls/visit"
)

// Response is a raw service reply. Decoding is left to the caller so that
// assertions can look at the status code and the body independently.
type Response struct {
	Status int
	Body   []byte
	op     string
}

// Contains reports whether the raw body contains s.
func (r *Response) Contains(s string) bool {
	return bytes.Contains(r.Body, []byte(s))
}

// DecodeEntries decodes the body as a list of entries.
func (r *Response) DecodeEntries() ([]Entry, error) {
	var entries []Entry
	if err := r.decode(&entries); err != nil {
		return nil, err
	}

	return entries, nil
}

// DecodeEntry decodes the body as a single entry.
func (r *Response) DecodeEntry() (Entry, error) {
	var entry Entry
	err := r.decode(&entry)

	return entry, err
}

// DecodeMessage decodes the body as a {"msg": ...} envelope.
func (r *Response) DecodeMessage() (Message, error) {
	var msg Message
	err := r.decode(&msg)

	return msg, err
}

func (r *Response) decode(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return &TransportError{Op: "decode " + r.op, Err: err}
	}

	return nil
}

// Client talks to the /api/urls resource family of a short-URL service.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

// NewClient creates a client bound to baseURL. A nil httpClient gets a
// default client with a 10 second timeout; a nil logger discards output.
func NewClient(baseURL string, httpClient *http.Client, logger *zap.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		logger:  logger,
	}
}

// BaseURL returns the endpoint the client is bound to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// List calls GET /api/urls.
func (c *Client) List(ctx context.Context) (*Response, error) {
	return c.do(ctx, http.MethodGet, urlsPath, nil)
}

// Get calls GET /api/urls/{code}.
func (c *Client) Get(ctx context.Context, code string) (*Response, error) {
	return c.do(ctx, http.MethodGet, urlsPath+"/"+url.PathEscape(code), nil)
}

// Create calls POST /api/urls.
func (c *Client) Create(ctx context.Context, req CreateRequest) (*Response, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode create request: %w", err)
	}

	return c.do(ctx, http.MethodPost, urlsPath, body)
}

// Delete calls DELETE /api/urls/{code}.
func (c *Client) Delete(ctx context.Context, code string) (*Response, error) {
	return c.do(ctx, http.MethodDelete, urlsPath+"/"+url.PathEscape(code), nil)
}

// Visit calls POST /api/urls/visit/{code}.
func (c *Client) Visit(ctx context.Context, code string) (*Response, error) {
	return c.do(ctx, http.MethodPost, visitPath+"/"+url.PathEscape(code), nil)
}

func (c *Client) do(ctx context.Context, method, path string, body []byte) (*Response, error) {
	op := method + " " + path

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}

	req.Header.Set("Accept", "application/json")

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("request failed", zap.String("op", op), zap.Error(err))

		return nil, &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Op: op, Err: fmt.Errorf("read body: %w", err)}
	}

	c.logger.Debug("request completed",
		zap.String("op", op),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)

	return &Response{
		Status: resp.StatusCode,
		Body:   data,
		op:     op,
	}, nil
}
