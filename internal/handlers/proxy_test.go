package handlers

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingTransport struct {
	mu   sync.Mutex
	seen []string
	err  error
}

func (t *recordingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	t.mu.Lock()
	t.seen = append(t.seen, req.URL.String())
	t.mu.Unlock()

	if t.err != nil {
		return nil, t.err
	}
	return &http.Response{
		StatusCode: http.StatusOK,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(`{"success":true}`)),
		Request:    req,
	}, nil
}

func newProxyServer(t *testing.T, transport http.RoundTripper) *echo.Echo {
	t.Helper()
	e := echo.New()
	proxy, err := NewProxy("http://backend.internal:5000", transport)
	require.NoError(t, err)
	e.Use(proxy)
	e.GET("/__worker/status", func(c echo.Context) error {
		return c.String(http.StatusOK, "local")
	})
	return e
}

func TestProxy_ForwardsThroughTransport(t *testing.T) {
	transport := &recordingTransport{}
	e := newProxyServer(t, transport)

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard-stats?x=1", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())
	require.Len(t, transport.seen, 1)
	assert.Equal(t, "http://backend.internal:5000/api/dashboard-stats?x=1", transport.seen[0])
}

func TestProxy_ControlPathsStayLocal(t *testing.T) {
	transport := &recordingTransport{}
	e := newProxyServer(t, transport)

	req := httptest.NewRequest(http.MethodGet, "/__worker/status", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, "local", rec.Body.String())
	assert.Empty(t, transport.seen)
}

func TestProxy_TransportErrorIsBadGateway(t *testing.T) {
	e := newProxyServer(t, &recordingTransport{err: errors.New("no active worker")})

	req := httptest.NewRequest(http.MethodGet, "/transactions", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestNewProxy_RejectsRelativeOrigin(t *testing.T) {
	_, err := NewProxy("backend:5000/api", &recordingTransport{})
	assert.Error(t, err)
}
