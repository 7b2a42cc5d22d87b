package models

import (
	"strings"
	"time"
)

const (
	ReceiptStatusMatched = "matched"
	ReceiptStatusMissing = "missing"
)

// FilterState holds the user's active list filters. Empty fields mean no constraint.
type FilterState struct {
	SearchTerm    string     `json:"search_term,omitempty"`
	Category      string     `json:"category,omitempty"`
	BusinessType  string     `json:"business_type,omitempty"`
	ReceiptStatus string     `json:"receipt_status,omitempty"`
	DateFrom      *time.Time `json:"date_from,omitempty"`
	DateTo        *time.Time `json:"date_to,omitempty"`
}

// TransactionPredicate reports whether a transaction passes one filter
type TransactionPredicate func(Transaction) bool

// IsEmpty reports whether no filter is active
func (f FilterState) IsEmpty() bool {
	return len(f.Predicates()) == 0
}

// Predicates returns one predicate per active filter.
// A transaction is visible iff it satisfies every predicate.
func (f FilterState) Predicates() []TransactionPredicate {
	var predicates []TransactionPredicate

	if term := strings.ToLower(strings.TrimSpace(f.SearchTerm)); term != "" {
		predicates = append(predicates, func(t Transaction) bool {
			return strings.Contains(t.SearchText(), term)
		})
	}

	if f.Category != "" {
		category := f.Category
		predicates = append(predicates, func(t Transaction) bool {
			return t.Category == category
		})
	}

	if f.BusinessType != "" {
		businessType := f.BusinessType
		predicates = append(predicates, func(t Transaction) bool {
			return t.BusinessType == businessType
		})
	}

	switch f.ReceiptStatus {
	case ReceiptStatusMatched:
		predicates = append(predicates, func(t Transaction) bool { return t.HasReceipt })
	case ReceiptStatusMissing:
		predicates = append(predicates, func(t Transaction) bool { return !t.HasReceipt })
	}

	if f.DateFrom != nil {
		from := truncateToDay(*f.DateFrom)
		predicates = append(predicates, func(t Transaction) bool {
			return t.IsDated() && !truncateToDay(t.Date).Before(from)
		})
	}

	if f.DateTo != nil {
		to := truncateToDay(*f.DateTo)
		predicates = append(predicates, func(t Transaction) bool {
			return t.IsDated() && !truncateToDay(t.Date).After(to)
		})
	}

	return predicates
}

// Matches reports whether the transaction satisfies every active filter
func (f FilterState) Matches(t Transaction) bool {
	for _, p := range f.Predicates() {
		if !p(t) {
			return false
		}
	}
	return true
}

// IsValidReceiptStatus accepts matched, missing or empty
func IsValidReceiptStatus(status string) bool {
	return status == "" || status == ReceiptStatusMatched || status == ReceiptStatusMissing
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
