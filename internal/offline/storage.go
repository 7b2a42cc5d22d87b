package offline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"
)

var (
	ErrCacheMiss = errors.New("cache entry not found")
)

// CachedResponse is a stored copy of an upstream response
type CachedResponse struct {
	StatusCode int         `json:"status_code"`
	Header     http.Header `json:"header"`
	Body       []byte      `json:"body"`
	StoredAt   time.Time   `json:"stored_at"`
}

// Storage holds named caches of URL-keyed responses
type Storage interface {
	Get(ctx context.Context, cacheName, key string) (*CachedResponse, error)
	Put(ctx context.Context, cacheName, key string, entry *CachedResponse) error
	CacheNames(ctx context.Context) ([]string, error)
	DeleteCache(ctx context.Context, cacheName string) error
}

// Capture reads resp's body into a CachedResponse and replaces the body so
// resp can still be returned to the caller
func Capture(resp *http.Response) (*CachedResponse, error) {
	var body []byte
	if resp.Body != nil {
		data, err := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read response body: %w", err)
		}
		body = data
	}
	resp.Body = io.NopCloser(bytes.NewReader(body))

	return &CachedResponse{
		StatusCode: resp.StatusCode,
		Header:     resp.Header.Clone(),
		Body:       body,
		StoredAt:   time.Now(),
	}, nil
}

// Response rebuilds an *http.Response for req from the stored copy
func (c *CachedResponse) Response(req *http.Request) *http.Response {
	header := c.Header.Clone()
	if header == nil {
		header = make(http.Header)
	}
	header.Set("Content-Length", strconv.Itoa(len(c.Body)))

	return &http.Response{
		Status:        fmt.Sprintf("%d %s", c.StatusCode, http.StatusText(c.StatusCode)),
		StatusCode:    c.StatusCode,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        header,
		Body:          io.NopCloser(bytes.NewReader(c.Body)),
		ContentLength: int64(len(c.Body)),
		Request:       req,
	}
}

// CacheKey is the exact request URL
func CacheKey(req *http.Request) string {
	return req.URL.String()
}
