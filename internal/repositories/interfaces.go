package repositories

import (
	"context"

	"receipt-dashboard/internal/models"

	"github.com/google/uuid"
)

// PendingMutationRepositoryInterface defines the contract for the offline write queue
type PendingMutationRepositoryInterface interface {
	Enqueue(ctx context.Context, mutation *models.PendingMutation) error
	FetchPending(ctx context.Context, tag string, limit int) ([]*models.PendingMutation, error)
	MarkAcknowledged(ctx context.Context, id uuid.UUID) error
	RecordFailure(ctx context.Context, id uuid.UUID, errorMessage string) error
	CountPending(ctx context.Context, tag string) (int64, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.PendingMutation, error)
}

// PreferenceRepositoryInterface defines the contract for persisted dashboard preferences
type PreferenceRepositoryInterface interface {
	Get(ctx context.Context, key string) (*models.Preference, error)
	Upsert(ctx context.Context, key, value string) error
	List(ctx context.Context) ([]models.Preference, error)
}
