package clientcli

import (
	"context"
	"errors"
	"fmt"
	"html"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultTimeout is the default HTTP client timeout.
	DefaultTimeout = 30 * time.Second

	// DefaultContentType is sent when PushOptions.ContentType is empty.
	DefaultContentType = "image/jpeg"

	tokenParam = "token"
)

// Client pushes images to a camupload server the way a network camera does.
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

	// Apply defaults
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Client{
		config: &Config{
			Endpoint: strings.TrimSuffix(cfg.Endpoint, "/"),
			Token:    cfg.Token,
			Username: cfg.Username,
			Password: cfg.Password,
		},
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}

	// Apply options
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Push sends one image to the server.
func (c *Client) Push(ctx context.Context, opts PushOptions) (PushResult, error) {
	body := opts.Reader
	size := int64(-1)

	if body == nil {
		if opts.LocalPath == "" {
			return PushResult{}, fmt.Errorf("push: %w", ErrEmptyPath)
		}

		file, err := os.Open(opts.LocalPath) //#nosec G304 -- localPath is user-provided input
		if err != nil {
			return PushResult{}, fmt.Errorf("open file: %w", err)
		}
		defer func() { _ = file.Close() }()

		info, err := file.Stat()
		if err != nil {
			return PushResult{}, fmt.Errorf("stat file: %w", err)
		}
		body = file
		size = info.Size()
	}

	contentType := opts.ContentType
	if contentType == "" {
		contentType = DefaultContentType
	}

	counter := &countingReader{r: body}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.pushURL(opts.Site, opts.Camera), counter)
	if err != nil {
		return PushResult{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	if size >= 0 {
		req.ContentLength = size
	}
	if c.config.Username != "" {
		req.SetBasicAuth(c.config.Username, c.config.Password)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return PushResult{}, fmt.Errorf("do request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	page, err := io.ReadAll(resp.Body)
	if err != nil {
		return PushResult{}, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return PushResult{}, parseServerError(resp.StatusCode, page)
	}

	return PushResult{
		LocalPath:  opts.LocalPath,
		Site:       opts.Site,
		Camera:     opts.Camera,
		Size:       counter.n,
		StatusCode: resp.StatusCode,
		Message:    pageMessage(page),
	}, nil
}

// PushPaths pushes every file in paths. Directories are walked and every
// .jpg or .jpeg file below them is pushed. A failed file is reported in its
// result and does not stop the others.
func (c *Client) PushPaths(ctx context.Context, paths []string, site, camera string) ([]PushResult, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("push: %w", ErrNoPaths)
	}

	var results []PushResult
	push := func(path string) {
		result, err := c.Push(ctx, PushOptions{LocalPath: path, Site: site, Camera: camera})
		if err != nil {
			result = PushResult{LocalPath: path, Site: site, Camera: camera, Err: err}
		}
		results = append(results, result)
	}

	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			results = append(results, PushResult{LocalPath: p, Err: fmt.Errorf("stat local path: %w", err)})
			continue
		}

		if !info.IsDir() {
			push(p)
			continue
		}

		walkErr := filepath.WalkDir(p, func(path string, d fs.DirEntry, fileErr error) error {
			if fileErr != nil {
				return fileErr
			}
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			if d.IsDir() || !isJPEG(path) {
				return nil
			}
			push(path)
			return nil
		})
		if walkErr != nil {
			return results, fmt.Errorf("walk directory: %w", walkErr)
		}
	}

	return results, nil
}

// HasPushErrors returns true if any result has an error.
func HasPushErrors(results []PushResult) bool {
	for i := range results {
		if results[i].Err != nil {
			return true
		}
	}
	return false
}

// Ping issues the GET readiness check.
func (c *Client) Ping(ctx context.Context) (PingResult, error) {
	endpoint := c.config.Endpoint + "/"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return PingResult{}, fmt.Errorf("create request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return PingResult{}, fmt.Errorf("do request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	page, err := io.ReadAll(resp.Body)
	if err != nil {
		return PingResult{}, fmt.Errorf("read response: %w", err)
	}
	latency := time.Since(start)

	if resp.StatusCode != http.StatusOK {
		return PingResult{}, parseServerError(resp.StatusCode, page)
	}

	return PingResult{
		Endpoint:   endpoint,
		StatusCode: resp.StatusCode,
		Message:    pageMessage(page),
		Latency:    latency,
	}, nil
}

// pushURL builds <endpoint>/<site>/<camera>, adding the token when one is
// configured. Empty trailing segments are left out so the server falls back
// to its defaults.
func (c *Client) pushURL(site, camera string) string {
	path := "/"
	if site != "" {
		path += url.PathEscape(site)
		if camera != "" {
			path += "/" + url.PathEscape(camera)
		}
	}

	if c.config.Token == "" {
		return c.config.Endpoint + path
	}

	query := url.Values{}
	query.Set(tokenParam, c.config.Token)
	return c.config.Endpoint + path + "?" + query.Encode()
}

func isJPEG(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return true
	default:
		return false
	}
}

type countingReader struct {
	r io.Reader
	n int64
}

func (r *countingReader) Read(p []byte) (int, error) {
	n, err := r.r.Read(p)
	r.n += int64(n)
	return n, err
}

// pageMessage extracts the paragraph text from a server status page.
func pageMessage(page []byte) string {
	s := string(page)

	start := strings.Index(s, "<p>")
	if start < 0 {
		return strings.TrimSpace(s)
	}
	s = s[start+len("<p>"):]

	if end := strings.Index(s, "</p>"); end >= 0 {
		s = s[:end]
	}
	return html.UnescapeString(s)
}

// parseServerError extracts error message from server response.
func parseServerError(statusCode int, body []byte) error {
	return &APIError{
		StatusCode: statusCode,
		Message:    pageMessage(body),
	}
}

// APIError represents an error response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return "server error: " + strconv.Itoa(e.StatusCode) + " - " + e.Message
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

// Sentinel errors for common API error conditions.
// Use errors.Is() to check for these conditions.
var (
	// ErrBadRequest is returned for a rejected token or content type (400).
	ErrBadRequest = &APIError{StatusCode: http.StatusBadRequest}

	// ErrUnauthorized is returned when basic credentials are rejected (401).
	ErrUnauthorized = &APIError{StatusCode: http.StatusUnauthorized}

	// ErrTooLarge is returned when the image exceeds the server limit (413).
	ErrTooLarge = &APIError{StatusCode: http.StatusRequestEntityTooLarge}

	// ErrServer is returned when the server failed to store the image (500).
	ErrServer = &APIError{StatusCode: http.StatusInternalServerError}
)
