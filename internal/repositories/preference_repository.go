package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"receipt-dashboard/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrPreferenceNotFound = errors.New("preference not found")
)

// PreferenceRepository stores dashboard preferences
type PreferenceRepository struct {
	db *gorm.DB
}

func NewPreferenceRepository(db *gorm.DB) PreferenceRepositoryInterface {
	return &PreferenceRepository{db: db}
}

func (r *PreferenceRepository) Get(ctx context.Context, key string) (*models.Preference, error) {
	pref := &models.Preference{}
	if err := r.db.WithContext(ctx).First(pref, "key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPreferenceNotFound
		}
		return nil, fmt.Errorf("failed to get preference: %w", err)
	}
	return pref, nil
}

// Upsert writes the value, replacing any previous one
func (r *PreferenceRepository) Upsert(ctx context.Context, key, value string) error {
	pref := &models.Preference{Key: key, Value: value, UpdatedAt: time.Now()}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(pref).Error
	if err != nil {
		return fmt.Errorf("failed to save preference: %w", err)
	}
	return nil
}

func (r *PreferenceRepository) List(ctx context.Context) ([]models.Preference, error) {
	var prefs []models.Preference
	if err := r.db.WithContext(ctx).Order("key ASC").Find(&prefs).Error; err != nil {
		return nil, fmt.Errorf("failed to list preferences: %w", err)
	}
	return prefs, nil
}
