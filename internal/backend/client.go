package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"receipt-dashboard/internal/dto"
	"receipt-dashboard/internal/models"
)

var (
	// ErrRequestFailed wraps transport failures (connection refused, timeout, cancelled)
	ErrRequestFailed = errors.New("backend request failed")
	// ErrMalformedResponse is returned when a 2xx body cannot be decoded
	ErrMalformedResponse = errors.New("malformed backend response")
)

const maxResponseBytes = 10 << 20

// APIError is a non-2xx answer or a {success:false} body
type APIError struct {
	StatusCode int
	Message    string
	Code       string
	Offline    bool
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("backend returned status %d", e.StatusCode)
}

// IsOffline reports whether err came from the offline layer rather than the backend
func IsOffline(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Offline
}

// Client talks to the dashboard backend. All requests go through the
// configured transport, which is normally the offline worker.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewClient(baseURL string, transport http.RoundTripper, timeout time.Duration) *Client {
	if transport == nil {
		transport = http.DefaultTransport
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   timeout,
		},
		logger: slog.Default(),
	}
}

// BaseURL is the backend origin requests are resolved against
func (c *Client) BaseURL() string {
	return c.baseURL
}

// FetchTransactions loads one page of transactions for the date range
func (c *Client) FetchTransactions(ctx context.Context, page, pageSize int, dateRange models.DateRange) (*dto.TransactionsPage, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("page_size", strconv.Itoa(pageSize))
	if dateRange.From != "" {
		q.Set("date_from", dateRange.From)
	}
	if dateRange.To != "" {
		q.Set("date_to", dateRange.To)
	}

	var resp dto.TransactionsPageResponse
	if err := c.do(ctx, http.MethodGet, "/transactions?"+q.Encode(), nil, "", &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, &APIError{StatusCode: http.StatusOK, Message: resp.Error}
	}

	result := resp.ToPage()
	return &result, nil
}

// DashboardStats loads the summary cards
func (c *Client) DashboardStats(ctx context.Context) (*dto.DashboardStats, error) {
	var resp dto.DashboardStatsResponse
	if err := c.do(ctx, http.MethodGet, "/api/dashboard-stats", nil, "", &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, &APIError{StatusCode: http.StatusOK, Message: resp.Error, Offline: resp.Offline}
	}
	return &resp.Stats, nil
}

func (c *Client) UpdateTransaction(ctx context.Context, id string, req dto.UpdateTransactionRequest) error {
	queued, err := NewJSONRequest(http.MethodPut, "/api/transactions/"+url.PathEscape(id), req)
	if err != nil {
		return err
	}
	return c.Send(ctx, queued)
}

func (c *Client) SplitTransaction(ctx context.Context, req dto.SplitTransactionRequest) error {
	queued, err := NewJSONRequest(http.MethodPost, "/api/transactions/split", req)
	if err != nil {
		return err
	}
	return c.Send(ctx, queued)
}

func (c *Client) DuplicateTransaction(ctx context.Context, id string) error {
	return c.Send(ctx, &dto.QueuedRequest{
		Method: http.MethodPost,
		URL:    "/api/transactions/" + url.PathEscape(id) + "/duplicate",
	})
}

// UploadReceipt posts the receipt file as multipart form data
func (c *Client) UploadReceipt(ctx context.Context, transactionID, filename string, content []byte) error {
	req, err := NewReceiptUpload(transactionID, filename, content)
	if err != nil {
		return err
	}
	return c.Send(ctx, req)
}

// Send delivers a mutation and decodes the {success, error} envelope
func (c *Client) Send(ctx context.Context, req *dto.QueuedRequest) error {
	if req == nil {
		return errors.New("request cannot be nil")
	}
	var result dto.APIResult
	if err := c.do(ctx, req.Method, req.URL, req.Body, req.Headers["Content-Type"], &result); err != nil {
		return err
	}
	if !result.Success {
		return &APIError{StatusCode: http.StatusOK, Message: result.Error, Offline: result.Offline, Code: result.Code}
	}
	return nil
}

// Health probes one health endpoint. A non-2xx answer is still decoded when it
// carries a JSON body so callers can classify it.
func (c *Client) Health(ctx context.Context, path string) (*dto.HealthPayload, error) {
	var payload dto.HealthPayload
	err := c.do(ctx, http.MethodGet, path, nil, "", &payload)
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return &dto.HealthPayload{Error: apiErr.Message, Offline: apiErr.Offline}, err
	}
	if err != nil {
		return nil, err
	}
	return &payload, nil
}

// NewJSONRequest builds a replayable JSON mutation
func NewJSONRequest(method, path string, body interface{}) (*dto.QueuedRequest, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request body: %w", err)
	}
	return &dto.QueuedRequest{
		Method:  method,
		URL:     path,
		Headers: map[string]string{"Content-Type": "application/json"},
		Body:    data,
	}, nil
}

// NewReceiptUpload builds the multipart upload-receipt request in memory so
// it can be replayed later
func NewReceiptUpload(transactionID, filename string, content []byte) (*dto.QueuedRequest, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if err := w.WriteField("transaction_id", transactionID); err != nil {
		return nil, fmt.Errorf("failed to write transaction_id: %w", err)
	}
	part, err := w.CreateFormFile("receipt", filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create receipt part: %w", err)
	}
	if _, err := part.Write(content); err != nil {
		return nil, fmt.Errorf("failed to write receipt: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish multipart body: %w", err)
	}

	return &dto.QueuedRequest{
		Method:  http.MethodPost,
		URL:     "/api/transactions/upload-receipt",
		Headers: map[string]string{"Content-Type": w.FormDataContentType()},
		Body:    buf.Bytes(),
	}, nil
}

func (c *Client) resolve(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return c.baseURL + path
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, contentType string, out interface{}) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.resolve(path), reader)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.WarnContext(ctx, "backend request failed",
			slog.String("method", method),
			slog.String("path", path),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp, data)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}

func decodeAPIError(resp *http.Response, data []byte) error {
	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		Offline:    resp.Header.Get("X-Offline") == "true",
	}

	var result dto.APIResult
	if err := json.Unmarshal(data, &result); err == nil {
		apiErr.Message = result.Error
		if apiErr.Message == "" {
			apiErr.Message = result.Message
		}
		apiErr.Code = result.Code
		apiErr.Offline = apiErr.Offline || result.Offline
	}

	return apiErr
}
