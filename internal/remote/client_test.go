package remote

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/klauspost/compress/zstd"
)

func TestIsURL(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"https://example.com/job/1/log", true},
		{"http://127.0.0.1:8080/x.log", true},
		{" https://example.com/a ", true},
		{"job.log", false},
		{"-", false},
		{"", false},
		{"ftp://example.com/x", false},
		{"https:///nohost", false},
		{"/var/log/x.log", false},
	}
	for _, tt := range tests {
		if got := IsURL(tt.in); got != tt.want {
			t.Fatalf("IsURL(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestClient_FetchSendsHeadersAndDecodes(t *testing.T) {
	t.Parallel()

	var compressed bytes.Buffer
	zw, err := zstd.NewWriter(&compressed)
	if err != nil {
		t.Fatalf("zstd.NewWriter: %v", err)
	}
	_, _ = zw.Write([]byte("one\ntwo\nthree\n"))
	if err := zw.Close(); err != nil {
		t.Fatalf("zstd close: %v", err)
	}

	var gotAuth, gotAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotAgent = r.Header.Get("User-Agent")
		w.Header().Set("ETag", `"v1"`)
		_, _ = w.Write(compressed.Bytes())
	}))
	t.Cleanup(server.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)

	resp, err := NewClient(" secret ").Fetch(ctx, Request{URL: server.URL + "/log", TailLines: 2})
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if string(resp.Body) != "two\nthree" {
		t.Fatalf("Body = %q, want tail of two lines", resp.Body)
	}
	if resp.ETag != `"v1"` {
		t.Fatalf("ETag = %q", resp.ETag)
	}
	if gotAuth != "Bearer secret" {
		t.Fatalf("Authorization = %q, want bearer token", gotAuth)
	}
	if !strings.HasPrefix(gotAgent, "runlog/") {
		t.Fatalf("User-Agent = %q, want runlog/*", gotAgent)
	}
}

func TestClient_FetchWithoutTokenSendsNoAuth(t *testing.T) {
	t.Parallel()

	var sawAuth atomic.Bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sawAuth.Store(r.Header.Get("Authorization") != "")
		_, _ = w.Write([]byte("plain"))
	}))
	t.Cleanup(server.Close)

	resp, err := NewClient("").Fetch(context.Background(), Request{URL: server.URL})
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if string(resp.Body) != "plain" || sawAuth.Load() {
		t.Fatalf("Body = %q, auth sent = %v", resp.Body, sawAuth.Load())
	}
}

func TestClient_StatusErrorIsRedacted(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	}))
	t.Cleanup(server.Close)

	_, err := NewClient("").Fetch(context.Background(), Request{URL: server.URL + "/log?sig=abc"})
	var se *StatusError
	if !errors.As(err, &se) || se.Code != http.StatusNotFound {
		t.Fatalf("Fetch error = %v, want StatusError 404", err)
	}
	if strings.Contains(err.Error(), "sig=abc") {
		t.Fatalf("error leaks query: %v", err)
	}
}

func TestClient_FetchRejectsBadURL(t *testing.T) {
	var c *Client
	if _, err := c.Fetch(context.Background(), Request{URL: "https://example.com"}); err == nil {
		t.Fatalf("nil client Fetch returned nil error")
	}
	if _, err := NewClient("").Fetch(context.Background(), Request{URL: "job.log"}); err == nil {
		t.Fatalf("Fetch of a path returned nil error")
	}
}

func TestSource_RevalidatesWithETag(t *testing.T) {
	t.Parallel()

	var body atomic.Value
	body.Store("first")
	var notModified atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cur := body.Load().(string)
		etag := `"` + cur + `"`
		if r.Header.Get("If-None-Match") == etag {
			notModified.Add(1)
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Header().Set("ETag", etag)
		_, _ = w.Write([]byte(cur))
	}))
	t.Cleanup(server.Close)

	src := &Source{Fetcher: NewClient(""), URL: server.URL}
	ctx := context.Background()

	for i, want := range []string{"first", "first"} {
		got, err := src.Read(ctx)
		if err != nil {
			t.Fatalf("read %d: %v", i, err)
		}
		if string(got) != want {
			t.Fatalf("read %d = %q, want %q", i, got, want)
		}
	}
	if notModified.Load() != 1 {
		t.Fatalf("304 responses = %d, want 1", notModified.Load())
	}

	body.Store("first\nsecond")
	got, err := src.Read(ctx)
	if err != nil {
		t.Fatalf("read after change: %v", err)
	}
	if string(got) != "first\nsecond" {
		t.Fatalf("read after change = %q", got)
	}
}

type failingFetcher struct{ err error }

func (f failingFetcher) Fetch(context.Context, Request) (Response, error) {
	return Response{}, f.err
}

func TestSource_PropagatesErrors(t *testing.T) {
	want := errors.New("boom")
	src := &Source{Fetcher: failingFetcher{err: want}, URL: "https://example.com"}
	if _, err := src.Read(context.Background()); !errors.Is(err, want) {
		t.Fatalf("Read error = %v, want %v", err, want)
	}
}
