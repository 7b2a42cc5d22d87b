package render

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-runewidth"

	"receipt-dashboard/internal/dto"
	"receipt-dashboard/internal/models"
	"receipt-dashboard/internal/services"
)

const columnGap = "  "

// column widths are display cells, not bytes: merchant names often carry
// accents or CJK characters
var columns = []struct {
	title string
	sort  models.SortColumn
	width int
}{
	{"Date", models.SortColumnDate, 10},
	{"Merchant", models.SortColumnMerchant, 28},
	{"Amount", models.SortColumnAmount, 12},
	{"Category", models.SortColumnCategory, 14},
	{"Business", models.SortColumnBusinessType, 16},
	{"Receipt", models.SortColumnReceiptStatus, 8},
}

// Table draws the transaction list as a fixed-width text table
type Table struct {
	mu  sync.Mutex
	out io.Writer
}

func NewTable(out io.Writer) *Table {
	return &Table{out: out}
}

// Render implements services.Renderer
func (t *Table) Render(view services.ListView) {
	var b strings.Builder

	header := make([]string, len(columns))
	for i, col := range columns {
		header[i] = col.title + sortMarker(view.Sort, col.sort)
	}
	writeRow(&b, header)

	rule := make([]string, len(columns))
	for i, col := range columns {
		rule[i] = strings.Repeat("-", col.width)
	}
	writeRow(&b, rule)

	for _, txn := range view.Transactions {
		writeRow(&b, []string{
			txn.FormatDate(),
			txn.DisplayName(),
			formatAmount(txn),
			txn.Category,
			txn.BusinessType,
			receiptMark(txn),
		})
	}

	fmt.Fprintf(&b, "\nShowing %d of %d loaded | page %d of %d",
		len(view.Transactions), view.TotalLoaded,
		view.Pagination.CurrentPage, view.Pagination.TotalPages)
	if summary := filterSummary(view.Filter); summary != "" {
		fmt.Fprintf(&b, " | filter: %s", summary)
	}
	b.WriteString("\n")

	t.write(b.String())
}

// RenderStats prints the summary cards
func (t *Table) RenderStats(stats *dto.DashboardStats) {
	var b strings.Builder
	fmt.Fprintf(&b, "Total expenses: $%s | Match rate: %.1f%% | AI processed: %d\n",
		stats.TotalExpenses.Decimal.StringFixed(2), stats.MatchRate, stats.AIProcessed)
	fmt.Fprintf(&b, "Transactions: %d | Matched: %d | Missing receipts: %d\n",
		stats.TotalTransactions, stats.MatchedTransactions, stats.MissingReceipts)
	t.write(b.String())
}

// RenderStatuses prints one line per integration
func (t *Table) RenderStatuses(statuses []models.IntegrationStatus) {
	var b strings.Builder
	for _, s := range statuses {
		line := runewidth.FillRight(s.Name, 8) + string(s.State)
		if s.Detail != "" {
			line += " (" + s.Detail + ")"
		}
		b.WriteString(line + "\n")
	}
	t.write(b.String())
}

func (t *Table) write(s string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, _ = io.WriteString(t.out, s)
}

func writeRow(b *strings.Builder, cells []string) {
	for i, col := range columns {
		cell := runewidth.Truncate(cells[i], col.width, "…")
		if i == len(columns)-1 {
			b.WriteString(cell)
			break
		}
		b.WriteString(runewidth.FillRight(cell, col.width))
		b.WriteString(columnGap)
	}
	b.WriteString("\n")
}

func sortMarker(active models.SortState, column models.SortColumn) string {
	if active.Column != column {
		return ""
	}
	if active.Direction == models.SortDescending {
		return " ▼"
	}
	return " ▲"
}

// debits show with a leading minus, amounts are otherwise unsigned
func formatAmount(txn models.Transaction) string {
	amount := "$" + txn.DisplayAmount().StringFixed(2)
	if txn.IsDebit() {
		return "-" + amount
	}
	return amount
}

func receiptMark(txn models.Transaction) string {
	if txn.HasReceipt {
		return "✓"
	}
	return "missing"
}

func filterSummary(f models.FilterState) string {
	var parts []string
	if f.SearchTerm != "" {
		parts = append(parts, fmt.Sprintf("%q", f.SearchTerm))
	}
	if f.Category != "" {
		parts = append(parts, "category="+f.Category)
	}
	if f.BusinessType != "" {
		parts = append(parts, "business="+f.BusinessType)
	}
	if f.ReceiptStatus != "" {
		parts = append(parts, "receipt="+f.ReceiptStatus)
	}
	if f.DateFrom != nil || f.DateTo != nil {
		parts = append(parts, "dates="+formatBound(f.DateFrom)+".."+formatBound(f.DateTo))
	}
	return strings.Join(parts, ", ")
}

func formatBound(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(models.DateLayout)
}
