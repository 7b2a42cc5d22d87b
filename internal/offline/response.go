package offline

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	apperrors "receipt-dashboard/internal/errors"
)

// OfflineHeader is set on every synthesized offline response
const OfflineHeader = "X-Offline"

// OfflineResponse is what every strategy answers when neither the network nor
// a cache can: 503 with a JSON body the dashboard recognises as offline
func OfflineResponse(req *http.Request) *http.Response {
	body, _ := json.Marshal(apperrors.NewOfflineResponse(apperrors.OfflineUnavailable, req.URL.String()))

	header := make(http.Header)
	header.Set("Content-Type", "application/json")
	header.Set(OfflineHeader, "true")
	header.Set("Cache-Control", "no-store")
	header.Set("Content-Length", strconv.Itoa(len(body)))

	return &http.Response{
		Status:        "503 Service Unavailable",
		StatusCode:    http.StatusServiceUnavailable,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        header,
		Body:          io.NopCloser(bytes.NewReader(body)),
		ContentLength: int64(len(body)),
		Request:       req,
	}
}

// IsOfflineResponse reports whether resp was synthesized by the worker
func IsOfflineResponse(resp *http.Response) bool {
	return resp != nil && resp.Header.Get(OfflineHeader) == "true"
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}

func drain(resp *http.Response) {
	if resp != nil && resp.Body != nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}
}
