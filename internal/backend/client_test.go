package backend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"receipt-dashboard/internal/dto"
	"receipt-dashboard/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(server.URL+"/", nil, 5*time.Second)
}

func TestFetchTransactions_NormalizesPayload(t *testing.T) {
	merchant := gofakeit.Company()
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/transactions", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "50", r.URL.Query().Get("page_size"))
		assert.Equal(t, "2024-01-01", r.URL.Query().Get("date_from"))
		assert.Equal(t, "2024-03-31", r.URL.Query().Get("date_to"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"success":true,"page":2,"total_pages":4,"transactions":[
			{"id":17,"date":"2024-02-03","merchant":"`+merchant+`","amount":"-12.50","category":"FOOD","business_type":"down home","has_receipt":0},
			{"id":"a-2","date":"not a date","amount":"abc","category":null,"receipt_url":"https://r/1.jpg"}
		]}`)
	})

	page, err := client.FetchTransactions(context.Background(), 2, 50, models.DateRange{From: "2024-01-01", To: "2024-03-31"})
	require.NoError(t, err)

	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 4, page.TotalPages)
	require.Len(t, page.Transactions, 2)

	first := page.Transactions[0]
	assert.Equal(t, "17", first.ID)
	assert.Equal(t, merchant, first.Merchant)
	assert.True(t, first.Amount.Equal(decimal.RequireFromString("-12.50")))
	assert.Equal(t, models.CategoryFood, first.Category)
	assert.Equal(t, models.BusinessTypeDownHome, first.BusinessType)
	assert.False(t, first.HasReceipt)
	assert.True(t, first.IsDated())

	second := page.Transactions[1]
	assert.False(t, second.IsDated())
	assert.True(t, second.Amount.IsZero())
	assert.Equal(t, models.CategoryOther, second.Category)
	assert.Equal(t, models.BusinessTypePersonal, second.BusinessType)
	assert.True(t, second.HasReceipt)
}

func TestFetchTransactions_Failures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		header map[string]string
		body   string
		check  func(t *testing.T, err error)
	}{
		{
			name:   "success false carries server message",
			status: http.StatusOK,
			body:   `{"success":false,"error":"Database locked"}`,
			check: func(t *testing.T, err error) {
				var apiErr *APIError
				require.ErrorAs(t, err, &apiErr)
				assert.Equal(t, "Database locked", apiErr.Message)
				assert.False(t, apiErr.Offline)
			},
		},
		{
			name:   "server error",
			status: http.StatusInternalServerError,
			body:   `{"success":false,"error":"boom"}`,
			check: func(t *testing.T, err error) {
				var apiErr *APIError
				require.ErrorAs(t, err, &apiErr)
				assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
				assert.Equal(t, "boom", apiErr.Error())
			},
		},
		{
			name:   "offline response",
			status: http.StatusServiceUnavailable,
			header: map[string]string{"X-Offline": "true"},
			body:   `{"success":false,"offline":true,"error":"You are offline","code":"OFFLINE_001"}`,
			check: func(t *testing.T, err error) {
				assert.True(t, IsOffline(err))
			},
		},
		{
			name:   "malformed body",
			status: http.StatusOK,
			body:   `<html>oops</html>`,
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrMalformedResponse)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				for k, v := range tt.header {
					w.Header().Set(k, v)
				}
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})

			_, err := client.FetchTransactions(context.Background(), 1, 50, models.DateRange{})
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestFetchTransactions_TransportError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close()

	client := NewClient(server.URL, nil, time.Second)
	_, err := client.FetchTransactions(context.Background(), 1, 50, models.DateRange{})

	assert.True(t, errors.Is(err, ErrRequestFailed))
}

func TestUpdateTransaction_SendsJSON(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/transactions/tx-1", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "travel", body["category"])
		assert.Equal(t, -42.1, body["amount"])

		_, _ = io.WriteString(w, `{"success":true}`)
	})

	err := client.UpdateTransaction(context.Background(), "tx-1", dto.UpdateTransactionRequest{
		Merchant:     "Airline",
		Amount:       dto.NewAmount(decimal.RequireFromString("-42.10")),
		Date:         "2024-03-01",
		Category:     "travel",
		BusinessType: models.BusinessTypePersonal,
	})
	assert.NoError(t, err)
}

func TestNewJSONRequest(t *testing.T) {
	req, err := NewJSONRequest(http.MethodPost, "/api/transactions/split", map[string]string{"original_transaction_id": "7"})
	require.NoError(t, err)
	assert.Equal(t, "application/json", req.Headers["Content-Type"])
	assert.JSONEq(t, `{"original_transaction_id":"7"}`, string(req.Body))

	_, err = NewJSONRequest(http.MethodPost, "/api/transactions/split", map[string]interface{}{"bad": make(chan int)})
	assert.Error(t, err)
}

func TestUploadReceipt_Multipart(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/transactions/upload-receipt", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "tx-9", r.FormValue("transaction_id"))

		file, header, err := r.FormFile("receipt")
		require.NoError(t, err)
		defer file.Close()
		data, _ := io.ReadAll(file)
		assert.Equal(t, "receipt.jpg", header.Filename)
		assert.Equal(t, []byte("jpeg-bytes"), data)

		_, _ = io.WriteString(w, `{"success":true}`)
	})

	assert.NoError(t, client.UploadReceipt(context.Background(), "tx-9", "receipt.jpg", []byte("jpeg-bytes")))
}

func TestHealth_DecodesPayloadShapes(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/health":
			_, _ = io.WriteString(w, `{"status":"healthy"}`)
		case "/api/bank/health":
			_, _ = io.WriteString(w, `{"success":false}`)
		default:
			w.WriteHeader(http.StatusBadGateway)
			_, _ = io.WriteString(w, `{"error":"upstream down"}`)
		}
	})

	payload, err := client.Health(context.Background(), "/health")
	require.NoError(t, err)
	assert.Equal(t, "healthy", payload.Status)

	payload, err = client.Health(context.Background(), "/api/bank/health")
	require.NoError(t, err)
	require.NotNil(t, payload.Success)
	assert.False(t, *payload.Success)

	payload, err = client.Health(context.Background(), "/api/ai/health")
	require.Error(t, err)
	assert.Equal(t, "upstream down", payload.Error)
}
