package services

import (
	"errors"
	"sort"
	"strings"

	"receipt-dashboard/internal/models"
)

var (
	ErrUnknownSortColumn    = errors.New("unknown sort column")
	ErrInvalidSortDirection = errors.New("invalid sort direction")
)

// transactionComparator returns a negative, zero or positive result like strings.Compare
type transactionComparator func(a, b models.Transaction) int

var sortComparators = map[models.SortColumn]transactionComparator{
	models.SortColumnDate: func(a, b models.Transaction) int {
		// undated sorts as oldest
		switch {
		case !a.IsDated() && !b.IsDated():
			return 0
		case !a.IsDated():
			return -1
		case !b.IsDated():
			return 1
		}
		ad, bd := a.Date.Format(models.DateLayout), b.Date.Format(models.DateLayout)
		return strings.Compare(ad, bd)
	},
	models.SortColumnAmount: func(a, b models.Transaction) int {
		return a.DisplayAmount().Cmp(b.DisplayAmount())
	},
	models.SortColumnMerchant: func(a, b models.Transaction) int {
		return compareFolded(a.Merchant, b.Merchant)
	},
	models.SortColumnBusinessType: func(a, b models.Transaction) int {
		return compareFolded(a.BusinessType, b.BusinessType)
	},
	models.SortColumnCategory: func(a, b models.Transaction) int {
		return compareFolded(a.Category, b.Category)
	},
	models.SortColumnReceiptStatus: func(a, b models.Transaction) int {
		return receiptRank(a) - receiptRank(b)
	},
}

func compareFolded(a, b string) int {
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}

func receiptRank(t models.Transaction) int {
	if t.HasReceipt {
		return 1
	}
	return 0
}

// IsSortableColumn reports whether the column has a comparator
func IsSortableColumn(col models.SortColumn) bool {
	_, ok := sortComparators[col]
	return ok
}

// SortTransactions stably sorts txns in place. Equal keys keep their relative
// order in both directions.
func SortTransactions(txns []models.Transaction, state models.SortState) error {
	if !state.IsActive() {
		return nil
	}
	cmp, ok := sortComparators[state.Column]
	if !ok {
		return ErrUnknownSortColumn
	}
	if !models.IsValidSortDirection(state.Direction) {
		return ErrInvalidSortDirection
	}

	if state.Direction == models.SortDescending {
		sort.SliceStable(txns, func(i, j int) bool { return cmp(txns[i], txns[j]) > 0 })
		return nil
	}
	sort.SliceStable(txns, func(i, j int) bool { return cmp(txns[i], txns[j]) < 0 })
	return nil
}
