package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"admintui/internal/record"
)

// Client talks to the Resource API over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
	token   string
	logger  *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces http.DefaultClient.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithToken sends "Authorization: Bearer <token>" on every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithLogger sets the request logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient returns a client for the API rooted at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    http.DefaultClient,
		logger:  zap.NewNop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// BaseURL is the address requests are sent to.
func (c *Client) BaseURL() string { return c.baseURL }

var _ ResourceAPI = (*Client)(nil)

// List fetches every record of a section.
func (c *Client) List(ctx context.Context, base string) ([]record.Record, error) {
	var out []record.Record
	if err := c.Do(ctx, http.MethodGet, base, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Create posts a new record.
func (c *Client) Create(ctx context.Context, base string, draft record.Draft) (Result, error) {
	return c.mutate(ctx, http.MethodPost, base, draft)
}

// Update replaces the record addressed by id.
func (c *Client) Update(ctx context.Context, base, id string, draft record.Draft) (Result, error) {
	return c.mutate(ctx, http.MethodPut, base+"/"+url.PathEscape(id), draft)
}

// Delete removes the record addressed by id.
func (c *Client) Delete(ctx context.Context, base, id string) (Result, error) {
	return c.mutate(ctx, http.MethodDelete, base+"/"+url.PathEscape(id), nil)
}

// BatchCreate posts every draft in one request and returns the count the server
// reports as created.
func (c *Client) BatchCreate(ctx context.Context, base, pluralKey string, drafts []record.Draft) (int, error) {
	body := map[string][]record.Draft{pluralKey: drafts}
	var resp struct {
		Count int `json:"count"`
	}
	if err := c.Do(ctx, http.MethodPost, base+"/batch", body, &resp); err != nil {
		return 0, err
	}
	return resp.Count, nil
}

// mutationResponse accepts both {"message", "data": {...}} envelopes and a bare
// record carrying a message field.
type mutationResponse struct {
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (c *Client) mutate(ctx context.Context, method, path string, body any) (Result, error) {
	var raw json.RawMessage
	if err := c.Do(ctx, method, path, body, &raw); err != nil {
		return Result{}, err
	}
	var res Result
	if len(bytes.TrimSpace(raw)) == 0 {
		return res, nil
	}
	var env mutationResponse
	if err := json.Unmarshal(raw, &env); err != nil {
		// Not an object; nothing more to report.
		return res, nil
	}
	res.Message = env.Message
	rec := raw
	if len(env.Data) > 0 && env.Data[0] == '{' {
		rec = env.Data
	}
	var r record.Record
	if err := json.Unmarshal(rec, &r); err == nil {
		res.Record = r
	}
	return res, nil
}

// Do sends one JSON request. out may be nil. Non-2xx responses become *APIError,
// transport failures *NetworkError.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	u := c.baseURL + path

	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, rd)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("request failed", zap.String("method", method), zap.String("url", u), zap.Error(err))
		return &NetworkError{Method: method, URL: u, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &NetworkError{Method: method, URL: u, Err: err}
	}
	c.logger.Debug("response",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(data)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(method, path, resp.StatusCode, data)
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if !isJSON(resp.Header.Get("Content-Type")) {
		return notJSON(method, path, resp.StatusCode, resp.Header.Get("Content-Type"), data)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func isJSON(contentType string) bool {
	return strings.Contains(strings.ToLower(contentType), "json")
}

func notJSON(method, path string, status int, contentType string, body []byte) *APIError {
	msg := fmt.Sprintf("expected JSON but received %s", contentType)
	if contentType == "" {
		msg = "expected JSON but received unknown content type"
	}
	lower := strings.ToLower(string(body))
	if strings.Contains(lower, "<!doctype") || strings.Contains(lower, "<html") {
		msg = "server returned HTML instead of JSON; the endpoint may not exist or may require authentication"
	}
	return &APIError{Method: method, Path: path, Status: status, Message: msg}
}
