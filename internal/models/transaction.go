package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	TransactionTypeCredit = "credit"
	TransactionTypeDebit  = "debit"

	// DateLayout is the calendar date format used by the backend
	DateLayout = "2006-01-02"
)

// Transaction is a bank or expense record as the dashboard sees it.
// Records are owned by the backend and are never mutated by the list controller.
type Transaction struct {
	ID           string          `json:"id"`
	Date         time.Time       `json:"date"`
	Merchant     string          `json:"merchant,omitempty"`
	Description  string          `json:"description,omitempty"`
	Amount       decimal.Decimal `json:"amount"`
	Category     string          `json:"category"`
	BusinessType string          `json:"business_type"`
	HasReceipt   bool            `json:"has_receipt"`
	ReceiptURL   string          `json:"receipt_url,omitempty"`
}

// IsDated reports whether the transaction carries a calendar date
func (t Transaction) IsDated() bool {
	return !t.Date.IsZero()
}

// IsDebit reports whether money left the account
func (t Transaction) IsDebit() bool {
	return t.Amount.IsNegative()
}

// Type returns credit or debit based on the sign of the amount
func (t Transaction) Type() string {
	if t.IsDebit() {
		return TransactionTypeDebit
	}
	return TransactionTypeCredit
}

// DisplayAmount is the magnitude used for display and sorting
func (t Transaction) DisplayAmount() decimal.Decimal {
	return t.Amount.Abs()
}

// ReceiptStatus returns matched when a receipt is linked, missing otherwise
func (t Transaction) ReceiptStatus() string {
	if t.HasReceipt {
		return ReceiptStatusMatched
	}
	return ReceiptStatusMissing
}

// SearchText is the lower-cased haystack the free-text search runs against
func (t Transaction) SearchText() string {
	return strings.ToLower(strings.Join([]string{
		t.Merchant,
		t.Description,
		t.Category,
		t.BusinessType,
	}, " "))
}

// DisplayName prefers the merchant and falls back to the description
func (t Transaction) DisplayName() string {
	if t.Merchant != "" {
		return t.Merchant
	}
	if t.Description != "" {
		return t.Description
	}
	return "Unknown"
}

// FormatDate renders the calendar date, or an empty string for undated records
func (t Transaction) FormatDate() string {
	if !t.IsDated() {
		return ""
	}
	return t.Date.Format(DateLayout)
}
