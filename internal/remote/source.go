package remote

import (
	"context"
	"sync"
)

// Source follows a log URL. Between reads it keeps the last body and ETag
// so an unchanged log costs one 304.
type Source struct {
	Fetcher   Fetcher
	URL       string
	TailLines int

	mu   sync.Mutex
	etag string
	last []byte
}

// Read returns the current log contents.
func (s *Source) Read(ctx context.Context) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	req := Request{URL: s.URL, TailLines: s.TailLines}
	if s.last != nil {
		req.ETag = s.etag
	}
	resp, err := s.Fetcher.Fetch(ctx, req)
	if err != nil {
		return nil, err
	}
	if resp.NotModified {
		return s.last, nil
	}
	s.etag = resp.ETag
	s.last = resp.Body
	return resp.Body, nil
}
