package httputil

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	apperrors "github.com/matzehuels/slidesmith/pkg/errors"
	"github.com/matzehuels/slidesmith/pkg/observability"
)

// Defaults applied by [NewClient] to zero-valued options.
const (
	DefaultTimeout   = 10 * time.Second
	DefaultMaxBytes  = 20 << 20
	DefaultUserAgent = "slidesmith"
)

// Options configure a [Client].
type Options struct {
	Timeout   time.Duration
	MaxBytes  int64
	UserAgent string

	// Transport overrides the HTTP transport, mainly for tests.
	Transport http.RoundTripper
}

// Client fetches response bodies with a bounded timeout and size.
type Client struct {
	http      *http.Client
	maxBytes  int64
	userAgent string
}

// NewClient creates a Client, filling zero options with defaults.
func NewClient(opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.MaxBytes <= 0 {
		opts.MaxBytes = DefaultMaxBytes
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	return &Client{
		http:      &http.Client{Timeout: opts.Timeout, Transport: opts.Transport},
		maxBytes:  opts.MaxBytes,
		userAgent: opts.UserAgent,
	}
}

// MaxBytes returns the response size cap.
func (c *Client) MaxBytes() int64 { return c.maxBytes }

// Get fetches rawURL once and returns the response body.
func (c *Client) Get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidURL, err, "build request for %s", rawURL)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "image/*")

	host, path := req.URL.Host, req.URL.Path
	hooks := observability.HTTP()
	hooks.OnRequest(ctx, req.Method, host, path)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, host, path, err)
		if isTimeout(err) {
			return nil, apperrors.Wrap(apperrors.ErrCodeTimeout, err, "fetch %s", rawURL)
		}
		return nil, apperrors.Wrap(apperrors.ErrCodeNetwork, err, "fetch %s", rawURL)
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, req.Method, host, path, resp.StatusCode, time.Since(start))

	if err := checkStatus(resp.StatusCode); err != nil {
		return nil, err
	}
	if resp.ContentLength > c.maxBytes {
		return nil, apperrors.New(apperrors.ErrCodeNetwork, "response of %d bytes exceeds limit of %d", resp.ContentLength, c.maxBytes)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBytes+1))
	if err != nil {
		if isTimeout(err) {
			return nil, apperrors.Wrap(apperrors.ErrCodeTimeout, err, "read %s", rawURL)
		}
		return nil, apperrors.Wrap(apperrors.ErrCodeNetwork, err, "read %s", rawURL)
	}
	if int64(len(data)) > c.maxBytes {
		return nil, apperrors.New(apperrors.ErrCodeNetwork, "response exceeds limit of %d bytes", c.maxBytes)
	}
	return data, nil
}

func checkStatus(code int) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusNotFound:
		return apperrors.New(apperrors.ErrCodeNotFound, "status %d", code)
	default:
		return apperrors.New(apperrors.ErrCodeNetwork, "status %d", code)
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
