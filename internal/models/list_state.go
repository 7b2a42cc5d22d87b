package models

// SortColumn identifies a sortable column of the transaction list
type SortColumn string

const (
	SortColumnNone          SortColumn = ""
	SortColumnDate          SortColumn = "date"
	SortColumnAmount        SortColumn = "amount"
	SortColumnMerchant      SortColumn = "merchant"
	SortColumnBusinessType  SortColumn = "business_type"
	SortColumnCategory      SortColumn = "category"
	SortColumnReceiptStatus SortColumn = "receipt_status"
)

// SortDirection is asc or desc
type SortDirection string

const (
	SortAscending  SortDirection = "asc"
	SortDescending SortDirection = "desc"
)

// DefaultPageSize is the number of transactions requested per page
const DefaultPageSize = 50

// SortState is the active ordering. An empty column keeps server order.
type SortState struct {
	Column    SortColumn    `json:"column,omitempty"`
	Direction SortDirection `json:"direction,omitempty"`
}

// IsActive reports whether a column is selected
func (s SortState) IsActive() bool {
	return s.Column != SortColumnNone
}

// Opposite returns the other direction
func (d SortDirection) Opposite() SortDirection {
	if d == SortDescending {
		return SortAscending
	}
	return SortDescending
}

// IsValidSortDirection accepts asc and desc
func IsValidSortDirection(d SortDirection) bool {
	return d == SortAscending || d == SortDescending
}

// PaginationState tracks the page the list is showing
type PaginationState struct {
	CurrentPage int `json:"current_page"`
	PageSize    int `json:"page_size"`
	TotalPages  int `json:"total_pages"`
}

// NewPaginationState starts on page 1 of 1
func NewPaginationState(pageSize int) PaginationState {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	return PaginationState{CurrentPage: 1, PageSize: pageSize, TotalPages: 1}
}

// Contains reports whether page n is navigable
func (p PaginationState) Contains(n int) bool {
	return n >= 1 && n <= p.TotalPages
}

// HasNext reports whether a later page exists
func (p PaginationState) HasNext() bool {
	return p.CurrentPage < p.TotalPages
}

// HasPrevious reports whether an earlier page exists
func (p PaginationState) HasPrevious() bool {
	return p.CurrentPage > 1
}

// DateRange bounds the window of transactions requested from the backend
type DateRange struct {
	From string
	To   string
}
