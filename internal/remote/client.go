package remote

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/five82/runlog/internal/logtail"
)

// TokenEnv names the environment variable holding a bearer token sent with
// every request.
const TokenEnv = "RUNLOG_TOKEN"

const (
	defaultUserAgent = "runlog/0.1"
	requestTimeout   = 30 * time.Second
)

// Fetcher is implemented by *Client and can be replaced in tests.
type Fetcher interface {
	Fetch(ctx context.Context, req Request) (Response, error)
}

var _ Fetcher = (*Client)(nil)

// Client downloads logs over HTTP.
type Client struct {
	http      *http.Client
	userAgent string
	token     string
}

// NewClient builds a Client. An empty token sends no Authorization header.
func NewClient(token string) *Client {
	return &Client{
		http:      &http.Client{Timeout: requestTimeout},
		userAgent: defaultUserAgent,
		token:     strings.TrimSpace(token),
	}
}

// Request configures one download.
type Request struct {
	URL       string
	ETag      string // sent as If-None-Match when set
	TailLines int
}

// Response is one download. When NotModified is set Body is nil and the
// caller's copy is current.
type Response struct {
	Body        []byte
	ETag        string
	NotModified bool
}

// StatusError reports a response status of 400 or above.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fetch %s returned status %d", e.URL, e.Code)
}

// IsURL reports whether s names an http or https resource.
func IsURL(s string) bool {
	_, err := parseURL(s)
	return err == nil
}

// Fetch downloads req.URL, decompressing gzip, zstd and lz4 bodies the same
// way local files are.
func (c *Client) Fetch(ctx context.Context, req Request) (Response, error) {
	if c == nil {
		return Response{}, errors.New("client is nil")
	}
	u, err := parseURL(req.URL)
	if err != nil {
		return Response{}, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return Response{}, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Accept", "text/plain, */*")
	httpReq.Header.Set("User-Agent", c.userAgent)
	if c.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.token)
	}
	if req.ETag != "" {
		httpReq.Header.Set("If-None-Match", req.ETag)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return Response{}, fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotModified {
		return Response{ETag: req.ETag, NotModified: true}, nil
	}
	if resp.StatusCode >= 400 {
		return Response{}, &StatusError{URL: redact(u), Code: resp.StatusCode}
	}

	rc, _, err := logtail.NewReader(resp.Body)
	if err != nil {
		return Response{}, err
	}
	defer func() { _ = rc.Close() }()
	body, err := logtail.ReadAll(rc, req.TailLines)
	if err != nil {
		return Response{}, fmt.Errorf("read response: %w", err)
	}
	return Response{Body: body, ETag: resp.Header.Get("ETag")}, nil
}

func parseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse url %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("parse url %q: scheme must be http or https", raw)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse url %q: missing host", raw)
	}
	u.Fragment = ""
	return u, nil
}

// redact drops credentials and the query, which often carries a signature.
func redact(u *url.URL) string {
	c := *u
	c.User = nil
	c.RawQuery = ""
	return c.String()
}
