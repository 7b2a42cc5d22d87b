package services

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"receipt-dashboard/internal/backend"
	apperrors "receipt-dashboard/internal/errors"
	"receipt-dashboard/internal/models"
)

// ErrStaleResponse is returned by Load when a newer request superseded it
var ErrStaleResponse = errors.New("stale transactions response discarded")

// NotificationLevel is the severity of a user-facing message
type NotificationLevel string

const (
	NotificationInfo    NotificationLevel = "info"
	NotificationSuccess NotificationLevel = "success"
	NotificationError   NotificationLevel = "error"
)

// ListView is what the renderer draws
type ListView struct {
	Transactions []models.Transaction
	TotalLoaded  int
	Filter       models.FilterState
	Sort         models.SortState
	Pagination   models.PaginationState
}

// ControllerOptions tune a TransactionListController
type ControllerOptions struct {
	PageSize   int
	DateWindow time.Duration
	Now        func() time.Time
	Metrics    MetricsRecorderInterface
	Logger     *slog.Logger
}

// TransactionListController owns the loaded transactions and the
// filter, sort and pagination state of the list.
type TransactionListController struct {
	fetcher  TransactionFetcher
	renderer Renderer
	notifier Notifier
	metrics  MetricsRecorderInterface
	logger   *slog.Logger

	now        func() time.Time
	dateWindow time.Duration

	mu         sync.Mutex
	all        []models.Transaction
	filtered   []models.Transaction
	filter     models.FilterState
	sort       models.SortState
	pagination models.PaginationState
	token      uint64
	loading    bool
}

func NewTransactionListController(fetcher TransactionFetcher, renderer Renderer, notifier Notifier, opts ControllerOptions) *TransactionListController {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.DateWindow <= 0 {
		opts.DateWindow = 90 * 24 * time.Hour
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &TransactionListController{
		fetcher:    fetcher,
		renderer:   renderer,
		notifier:   notifier,
		metrics:    opts.Metrics,
		logger:     opts.Logger,
		now:        opts.Now,
		dateWindow: opts.DateWindow,
		pagination: models.NewPaginationState(opts.PageSize),
	}
}

// DateRange is the window requested from the backend, ending today
func (c *TransactionListController) DateRange() models.DateRange {
	to := c.now()
	from := to.Add(-c.dateWindow)
	return models.DateRange{
		From: from.Format(models.DateLayout),
		To:   to.Format(models.DateLayout),
	}
}

// Load fetches one page and replaces the loaded set. Only the most recently
// issued load may apply its result; older completions return ErrStaleResponse.
func (c *TransactionListController) Load(ctx context.Context, page int) error {
	c.mu.Lock()
	c.token++
	token := c.token
	c.loading = true
	pageSize := c.pagination.PageSize
	c.mu.Unlock()

	start := time.Now()
	result, err := c.fetcher.FetchTransactions(ctx, page, pageSize, c.DateRange())
	c.recordTime("transactions.load", time.Since(start))

	c.mu.Lock()
	if token != c.token {
		latest := c.token
		c.mu.Unlock()
		c.logger.DebugContext(ctx, "discarding stale transactions response",
			slog.Uint64("token", token),
			slog.Uint64("latest_token", latest),
		)
		c.count("transactions.load.stale", nil)
		return ErrStaleResponse
	}
	c.loading = false

	if err != nil {
		c.mu.Unlock()
		c.count("transactions.load.failed", nil)
		c.logger.WarnContext(ctx, "failed to load transactions",
			slog.Int("page", page),
			slog.String("error", err.Error()),
		)
		c.notify(NotificationError, loadFailureMessage(err))
		return err
	}

	c.all = result.Transactions
	c.pagination.TotalPages = result.TotalPages
	c.pagination.CurrentPage = result.Page
	if c.pagination.CurrentPage > c.pagination.TotalPages {
		c.pagination.CurrentPage = c.pagination.TotalPages
	}
	c.recomputeLocked()
	view := c.viewLocked()
	c.mu.Unlock()

	c.count("transactions.load.success", nil)
	c.render(view)
	return nil
}

// ApplyFilters recomputes the visible set from the loaded set and the active
// filter, then re-applies the active sort. Filtering is local to the page
// already loaded from the server, so the current page is left as is; use
// SetFilter to change the filter and return to page 1.
func (c *TransactionListController) ApplyFilters() {
	c.mu.Lock()
	c.recomputeLocked()
	view := c.viewLocked()
	c.mu.Unlock()

	c.render(view)
}

// SetFilter replaces the filter state. Filter changes always return the list
// to page 1: if another page is showing or a load is in flight, page 1 is
// reloaded; otherwise the loaded set is filtered locally.
func (c *TransactionListController) SetFilter(ctx context.Context, f models.FilterState) error {
	c.mu.Lock()
	c.filter = f
	needsReload := c.pagination.CurrentPage != 1 || c.loading
	// invalidate anything still in flight
	c.token++
	c.loading = false
	c.pagination.CurrentPage = 1
	c.mu.Unlock()

	if needsReload {
		return c.Load(ctx, 1)
	}
	c.ApplyFilters()
	return nil
}

// SetSort sets the active ordering and re-sorts the visible set
func (c *TransactionListController) SetSort(column models.SortColumn, direction models.SortDirection) error {
	if column != models.SortColumnNone && !IsSortableColumn(column) {
		return ErrUnknownSortColumn
	}
	if column != models.SortColumnNone && !models.IsValidSortDirection(direction) {
		return ErrInvalidSortDirection
	}

	c.mu.Lock()
	c.sort = models.SortState{Column: column, Direction: direction}
	if column == models.SortColumnNone {
		// back to server order
		c.recomputeLocked()
	} else {
		_ = SortTransactions(c.filtered, c.sort)
	}
	view := c.viewLocked()
	c.mu.Unlock()

	c.render(view)
	return nil
}

// ApplySort re-sorts the visible set with the active ordering
func (c *TransactionListController) ApplySort() {
	c.mu.Lock()
	_ = SortTransactions(c.filtered, c.sort)
	view := c.viewLocked()
	c.mu.Unlock()

	c.render(view)
}

// ToggleSort is the column-header click: the active column flips direction,
// any other column starts ascending
func (c *TransactionListController) ToggleSort(column models.SortColumn) error {
	c.mu.Lock()
	current := c.sort
	c.mu.Unlock()

	direction := models.SortAscending
	if current.Column == column {
		direction = current.Direction.Opposite()
	}
	return c.SetSort(column, direction)
}

// ChangePage loads page n. Pages outside [1, TotalPages] are ignored.
func (c *TransactionListController) ChangePage(ctx context.Context, n int) error {
	c.mu.Lock()
	inRange := c.pagination.Contains(n)
	c.mu.Unlock()

	if !inRange {
		return nil
	}
	return c.Load(ctx, n)
}

// Refresh reloads the page currently shown
func (c *TransactionListController) Refresh(ctx context.Context) error {
	c.mu.Lock()
	page := c.pagination.CurrentPage
	c.mu.Unlock()
	return c.Load(ctx, page)
}

// Transactions returns a copy of the loaded set in server order
func (c *TransactionListController) Transactions() []models.Transaction {
	c.mu.Lock()
	defer c.mu.Unlock()
	return cloneTransactions(c.all)
}

// Visible returns a copy of the filtered and sorted set
func (c *TransactionListController) Visible() []models.Transaction {
	c.mu.Lock()
	defer c.mu.Unlock()
	return cloneTransactions(c.filtered)
}

func (c *TransactionListController) Filter() models.FilterState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filter
}

func (c *TransactionListController) Sort() models.SortState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sort
}

func (c *TransactionListController) Pagination() models.PaginationState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pagination
}

// Snapshot returns the current view without rendering it
func (c *TransactionListController) Snapshot() ListView {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewLocked()
}

func (c *TransactionListController) recomputeLocked() {
	predicates := c.filter.Predicates()
	filtered := make([]models.Transaction, 0, len(c.all))
	for _, t := range c.all {
		if matchesAll(t, predicates) {
			filtered = append(filtered, t)
		}
	}
	_ = SortTransactions(filtered, c.sort)
	c.filtered = filtered
}

func matchesAll(t models.Transaction, predicates []models.TransactionPredicate) bool {
	for _, p := range predicates {
		if !p(t) {
			return false
		}
	}
	return true
}

func (c *TransactionListController) viewLocked() ListView {
	return ListView{
		Transactions: cloneTransactions(c.filtered),
		TotalLoaded:  len(c.all),
		Filter:       c.filter,
		Sort:         c.sort,
		Pagination:   c.pagination,
	}
}

func (c *TransactionListController) render(view ListView) {
	if c.renderer != nil {
		c.renderer.Render(view)
	}
}

func (c *TransactionListController) notify(level NotificationLevel, message string) {
	if c.notifier != nil {
		c.notifier.Notify(level, message)
	}
}

func (c *TransactionListController) count(name string, tags map[string]string) {
	if c.metrics != nil {
		c.metrics.IncrementCounter(name, tags)
	}
}

func (c *TransactionListController) recordTime(name string, d time.Duration) {
	if c.metrics != nil {
		c.metrics.RecordProcessingTime(name, d)
	}
}

// loadFailureMessage prefers the server's own message
func loadFailureMessage(err error) string {
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Offline {
			return apperrors.GetErrorMessage(apperrors.OfflineUnavailable)
		}
		if apiErr.Message != "" {
			return apiErr.Message
		}
	}
	return apperrors.GetErrorMessage(apperrors.TransactionLoadFailed)
}

func cloneTransactions(txns []models.Transaction) []models.Transaction {
	if txns == nil {
		return nil
	}
	out := make([]models.Transaction, len(txns))
	copy(out, txns)
	return out
}
