package models

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPendingMutation_Validate(t *testing.T) {
	valid := PendingMutation{Tag: "receipt-upload", Method: http.MethodPost, URL: "/api/transactions/upload-receipt"}
	assert.NoError(t, valid.Validate())

	noTag := valid
	noTag.Tag = ""
	assert.Error(t, noTag.Validate())

	noURL := valid
	noURL.URL = ""
	assert.Error(t, noURL.Validate())

	get := valid
	get.Method = http.MethodGet
	assert.Error(t, get.Validate())
}

func TestHeaderMap_ValueScan(t *testing.T) {
	h := HeaderMap{"Content-Type": "application/json"}

	v, err := h.Value()
	require.NoError(t, err)

	var scanned HeaderMap
	require.NoError(t, scanned.Scan(v))
	assert.Equal(t, h, scanned)

	empty, err := HeaderMap{}.Value()
	require.NoError(t, err)
	assert.Nil(t, empty)

	assert.Error(t, scanned.Scan(42))
}

func TestHeaderMapFrom_KeepsReplayableHeaders(t *testing.T) {
	header := http.Header{}
	header.Set("Content-Type", "multipart/form-data; boundary=x")
	header.Set("Cookie", "session=secret")
	header.Set("X-Trace-ID", "abc")

	h := HeaderMapFrom(header)

	assert.Equal(t, "multipart/form-data; boundary=x", h["Content-Type"])
	assert.Equal(t, "abc", h["X-Trace-ID"])
	assert.NotContains(t, h, "Cookie")
}
