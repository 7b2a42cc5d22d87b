package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"receipt-dashboard/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrMutationNotFound = errors.New("pending mutation not found")
)

type pendingMutationRepository struct {
	db *gorm.DB
}

func NewPendingMutationRepository(db *gorm.DB) PendingMutationRepositoryInterface {
	return &pendingMutationRepository{
		db: db,
	}
}

// Enqueue appends the mutation to the end of its queue
func (r *pendingMutationRepository) Enqueue(ctx context.Context, mutation *models.PendingMutation) error {
	if mutation == nil {
		return errors.New("mutation cannot be nil")
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var last int64
		if err := tx.Model(&models.PendingMutation{}).
			Select("COALESCE(MAX(sequence), 0)").
			Scan(&last).Error; err != nil {
			return fmt.Errorf("failed to read queue tail: %w", err)
		}

		mutation.Sequence = last + 1
		if err := tx.Create(mutation).Error; err != nil {
			return fmt.Errorf("failed to enqueue mutation: %w", err)
		}
		return nil
	})
}

// FetchPending returns undelivered mutations for a tag in enqueue order
func (r *pendingMutationRepository) FetchPending(ctx context.Context, tag string, limit int) ([]*models.PendingMutation, error) {
	var items []*models.PendingMutation

	query := r.db.WithContext(ctx).
		Where("tag = ? AND status = ?", tag, models.MutationStatusPending).
		Order("sequence ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch pending mutations: %w", err)
	}

	return items, nil
}

func (r *pendingMutationRepository) MarkAcknowledged(ctx context.Context, id uuid.UUID) error {
	now := time.Now()
	result := r.db.WithContext(ctx).Model(&models.PendingMutation{ID: id}).
		Updates(map[string]interface{}{
			"status":          models.MutationStatusAcknowledged,
			"acknowledged_at": now,
			"last_attempt_at": now,
			"attempts":        gorm.Expr("attempts + 1"),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to acknowledge mutation: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return ErrMutationNotFound
	}

	return nil
}

// RecordFailure keeps the mutation queued and notes why the replay failed
func (r *pendingMutationRepository) RecordFailure(ctx context.Context, id uuid.UUID, errorMessage string) error {
	result := r.db.WithContext(ctx).Model(&models.PendingMutation{ID: id}).
		Updates(map[string]interface{}{
			"attempts":        gorm.Expr("attempts + 1"),
			"last_error":      errorMessage,
			"last_attempt_at": time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to record mutation failure: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return ErrMutationNotFound
	}

	return nil
}

// CountPending counts undelivered mutations; an empty tag counts every queue
func (r *pendingMutationRepository) CountPending(ctx context.Context, tag string) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.PendingMutation{}).
		Where("status = ?", models.MutationStatusPending)
	if tag != "" {
		query = query.Where("tag = ?", tag)
	}

	if err := query.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count pending mutations: %w", err)
	}

	return count, nil
}

func (r *pendingMutationRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.PendingMutation, error) {
	item := &models.PendingMutation{}
	if err := r.db.WithContext(ctx).First(item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMutationNotFound
		}
		return nil, fmt.Errorf("failed to get mutation: %w", err)
	}
	return item, nil
}
