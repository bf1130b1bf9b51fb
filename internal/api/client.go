// HTTP client for the music library server's JSON API
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	"github.com/tunedeck/tunedeck/internal/shared"
)

// Client performs authenticated requests against the music library server.
// Session cookies live in the underlying cookie jar and survive restarts
// through ExportCookies/RestoreCookies.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *log.Logger
}

// NewClient creates a client for the server at baseURL. When client is nil
// a default client with a fresh cookie jar is used.
func NewClient(baseURL string, client *http.Client) (*Client, error) {
	if baseURL == "" {
		baseURL = "http://localhost:8080/music"
	}
	baseURL = strings.TrimSuffix(baseURL, "/")

	if client == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create cookie jar: %w", err)
		}
		client = &http.Client{Jar: jar}
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: client,
		logger:     shared.NewLogger(nil),
	}, nil
}

// SetRateLimit caps outgoing requests at rps per second. Zero or negative
// disables limiting.
func (c *Client) SetRateLimit(rps float64) {
	if rps <= 0 {
		c.limiter = nil
		return
	}
	c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
}

// BaseURL returns the server base URL without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ExportCookies returns the jar's cookies for the server base URL.
func (c *Client) ExportCookies() []*http.Cookie {
	if c.httpClient.Jar == nil {
		return nil
	}
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil
	}
	return c.httpClient.Jar.Cookies(u)
}

// RestoreCookies seeds the jar with previously exported cookies.
func (c *Client) RestoreCookies(cookies []*http.Cookie) error {
	if c.httpClient.Jar == nil {
		return fmt.Errorf("%w: client has no cookie jar", shared.ErrInvalidConfig)
	}
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return fmt.Errorf("failed to parse base URL: %w", err)
	}
	c.httpClient.Jar.SetCookies(u, cookies)
	return nil
}

// Envelope is the server's uniform response wrapper. Data stays raw so
// each endpoint can decode it into its own type.
type Envelope struct {
	Status  string            `json:"status"`
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors"`
	Data    json.RawMessage   `json:"data"`
}

// Response is a completed API call: the raw HTTP result plus the parsed
// envelope when the body was one.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	Envelope   *Envelope
}

// Success reports whether the server accepted the request.
func (r *Response) Success() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300 &&
		(r.Envelope == nil || r.Envelope.Status != "error")
}

// DecodeData unmarshals the envelope's data field into v.
func (r *Response) DecodeData(v any) error {
	if r.Envelope == nil || len(r.Envelope.Data) == 0 {
		return fmt.Errorf("%w: response has no data", shared.ErrBadResponse)
	}
	if err := json.Unmarshal(r.Envelope.Data, v); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrBadResponse, err)
	}
	return nil
}

// ErrorMessage flattens the envelope's message and field errors into one
// line, falling back to the HTTP status when the body carried neither.
func (r *Response) ErrorMessage() string {
	if r.Envelope == nil {
		return fmt.Sprintf("server returned status %d", r.StatusCode)
	}

	parts := make([]string, 0, 1+len(r.Envelope.Errors))
	if r.Envelope.Message != "" {
		parts = append(parts, r.Envelope.Message)
	}

	fields := make([]string, 0, len(r.Envelope.Errors))
	for field := range r.Envelope.Errors {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	for _, field := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, r.Envelope.Errors[field]))
	}

	if len(parts) == 0 {
		return fmt.Sprintf("server returned status %d", r.StatusCode)
	}
	return strings.Join(parts, "; ")
}

// Err converts a failed response into an error. Returns nil on success.
func (r *Response) Err() error {
	if r.Success() {
		return nil
	}
	if r.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("%w: %s", shared.ErrNotAuthenticated, r.ErrorMessage())
	}
	return fmt.Errorf("%w: %s", shared.ErrAPIRequest, r.ErrorMessage())
}

// Do performs a request against the API and parses the envelope. Transport
// failures return an error; application failures come back as a Response
// whose Err method is non-nil.
func (c *Client) Do(ctx context.Context, method, path string, body Body) (*Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter interrupted: %w", err)
		}
	}

	reader, contentType, err := body.build()
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	c.logger.Debug("api request", "method", method, "path", path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	result := &Response{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       data,
	}

	var envelope Envelope
	if err := json.Unmarshal(data, &envelope); err == nil && envelope.Status != "" {
		result.Envelope = &envelope
	}

	return result, nil
}

// Fetch performs a GET outside the JSON envelope, returning the raw bytes.
// Used for static assets like album covers and audio files.
func (c *Client) Fetch(ctx context.Context, path string) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter interrupted: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: fetch %s returned status %d", shared.ErrAPIRequest, path, resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}
