package services

import (
	"context"
	"time"

	"receipt-dashboard/internal/dto"
	"receipt-dashboard/internal/models"
)

// TransactionFetcher loads one page of transactions from the backend
type TransactionFetcher interface {
	FetchTransactions(ctx context.Context, page, pageSize int, dateRange models.DateRange) (*dto.TransactionsPage, error)
}

// TransactionAPI is the mutating half of the backend client used by the editor
type TransactionAPI interface {
	UpdateTransaction(ctx context.Context, id string, req dto.UpdateTransactionRequest) error
	SplitTransaction(ctx context.Context, req dto.SplitTransactionRequest) error
	DuplicateTransaction(ctx context.Context, id string) error
	Send(ctx context.Context, req *dto.QueuedRequest) error
}

// HealthChecker probes backend health endpoints
type HealthChecker interface {
	Health(ctx context.Context, path string) (*dto.HealthPayload, error)
}

// StatsFetcher loads the dashboard summary cards
type StatsFetcher interface {
	DashboardStats(ctx context.Context) (*dto.DashboardStats, error)
}

// Renderer receives every new visible state of the transaction list
type Renderer interface {
	Render(view ListView)
}

// Notifier shows transient messages to the user
type Notifier interface {
	Notify(level NotificationLevel, message string)
}

// MutationQueuer hands a write to the offline worker for background sync
type MutationQueuer interface {
	QueueMutation(ctx context.Context, tag string, req dto.QueuedRequest) error
}

type MetricsRecorderInterface interface {
	IncrementCounter(name string, tags map[string]string)
	RecordProcessingTime(name string, duration time.Duration)
	RecordGauge(name string, value float64, tags map[string]string)
}

type CircuitBreakerInterface interface {
	IsOpen() bool
	RecordSuccess()
	RecordFailure()
	GetState() models.CircuitBreakerState
	Reset()
	GetFailureCount() int
}

// PreferenceServiceInterface reads and writes persisted dashboard preferences
type PreferenceServiceInterface interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	All(ctx context.Context) (map[string]string, error)
}
