package dto

import (
	"strings"
	"time"

	"receipt-dashboard/internal/models"
)

// TransactionPayload is a transaction exactly as the backend sends it
type TransactionPayload struct {
	ID           FlexibleString `json:"id"`
	Date         string         `json:"date"`
	Merchant     *string        `json:"merchant"`
	Description  *string        `json:"description"`
	Amount       Amount         `json:"amount"`
	Category     *string        `json:"category"`
	BusinessType *string        `json:"business_type"`
	HasReceipt   FlexibleBool   `json:"has_receipt"`
	ReceiptURL   *string        `json:"receipt_url"`
}

// ToModel normalizes the payload into a Transaction. This is the only place
// defaults are applied; downstream code never re-checks for missing fields.
func (p TransactionPayload) ToModel() models.Transaction {
	receiptURL := deref(p.ReceiptURL)
	return models.Transaction{
		ID:           string(p.ID),
		Date:         ParseDate(p.Date),
		Merchant:     strings.TrimSpace(deref(p.Merchant)),
		Description:  strings.TrimSpace(deref(p.Description)),
		Amount:       p.Amount.Decimal,
		Category:     models.NormalizeCategory(deref(p.Category)),
		BusinessType: models.NormalizeBusinessType(deref(p.BusinessType)),
		HasReceipt:   bool(p.HasReceipt) || receiptURL != "",
		ReceiptURL:   receiptURL,
	}
}

// TransactionsPageResponse is the body of GET /transactions
type TransactionsPageResponse struct {
	Success      bool                 `json:"success"`
	Transactions []TransactionPayload `json:"transactions"`
	Page         int                  `json:"page"`
	TotalPages   int                  `json:"total_pages"`
	Error        string               `json:"error,omitempty"`
}

// TransactionsPage is a normalized page of transactions
type TransactionsPage struct {
	Transactions []models.Transaction
	Page         int
	TotalPages   int
}

// ToPage normalizes every transaction and clamps the pagination fields to at least 1
func (r TransactionsPageResponse) ToPage() TransactionsPage {
	txns := make([]models.Transaction, 0, len(r.Transactions))
	for _, p := range r.Transactions {
		txns = append(txns, p.ToModel())
	}
	page := TransactionsPage{Transactions: txns, Page: r.Page, TotalPages: r.TotalPages}
	if page.Page < 1 {
		page.Page = 1
	}
	if page.TotalPages < 1 {
		page.TotalPages = 1
	}
	return page
}

// UpdateTransactionRequest is the body of PUT /api/transactions/{id}
type UpdateTransactionRequest struct {
	Merchant     string `json:"merchant" validate:"max=255"`
	Amount       Amount `json:"amount" validate:"nonzero_amount"`
	Date         string `json:"date" validate:"required,datetime=2006-01-02"`
	Description  string `json:"description" validate:"max=1000"`
	Category     string `json:"category" validate:"required,transaction_category"`
	BusinessType string `json:"business_type" validate:"required,business_type"`
}

// SplitLine is one part of a split transaction
type SplitLine struct {
	Amount      Amount `json:"amount" validate:"positive_amount"`
	Description string `json:"description" validate:"max=1000"`
	Category    string `json:"category" validate:"required,transaction_category"`
}

// SplitTransactionRequest is the body of POST /api/transactions/split
type SplitTransactionRequest struct {
	OriginalTransactionID string      `json:"original_transaction_id" validate:"required"`
	Splits                []SplitLine `json:"splits" validate:"required,min=2,dive"`
}

// APIResult is the generic {success, error} envelope of mutation endpoints
type APIResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
	Offline bool   `json:"offline,omitempty"`
	Code    string `json:"code,omitempty"`
}

// ParseDate accepts YYYY-MM-DD or RFC 3339 and returns the zero time for anything else
func ParseDate(value string) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}
	}
	if t, err := time.Parse(models.DateLayout, value); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t
	}
	if len(value) >= len(models.DateLayout) {
		if t, err := time.Parse(models.DateLayout, value[:len(models.DateLayout)]); err == nil {
			return t
		}
	}
	return time.Time{}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
