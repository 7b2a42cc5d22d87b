package services

import (
	"context"
	"errors"
	"fmt"

	"receipt-dashboard/internal/models"
	"receipt-dashboard/internal/repositories"
)

var (
	ErrUnknownPreference = errors.New("unknown preference key")
	ErrInvalidPreference = errors.New("invalid preference value")
)

type preferenceService struct {
	repo repositories.PreferenceRepositoryInterface
}

// NewPreferenceService stores theme and last-view choices
func NewPreferenceService(repo repositories.PreferenceRepositoryInterface) PreferenceServiceInterface {
	return &preferenceService{repo: repo}
}

// Get returns the stored value, or the default when nothing was stored
func (s *preferenceService) Get(ctx context.Context, key string) (string, error) {
	def, ok := models.PreferenceDefaults[key]
	if !ok {
		return "", ErrUnknownPreference
	}

	pref, err := s.repo.Get(ctx, key)
	if errors.Is(err, repositories.ErrPreferenceNotFound) {
		return def, nil
	}
	if err != nil {
		return "", err
	}
	if !models.IsValidPreference(key, pref.Value) {
		return def, nil
	}
	return pref.Value, nil
}

func (s *preferenceService) Set(ctx context.Context, key, value string) error {
	if _, ok := models.PreferenceDefaults[key]; !ok {
		return ErrUnknownPreference
	}
	if !models.IsValidPreference(key, value) {
		return fmt.Errorf("%w: %q for %s", ErrInvalidPreference, value, key)
	}
	return s.repo.Upsert(ctx, key, value)
}

// All returns every known preference with defaults filled in
func (s *preferenceService) All(ctx context.Context) (map[string]string, error) {
	result := make(map[string]string, len(models.PreferenceDefaults))
	for k, v := range models.PreferenceDefaults {
		result[k] = v
	}

	stored, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range stored {
		if models.IsValidPreference(p.Key, p.Value) {
			result[p.Key] = p.Value
		}
	}
	return result, nil
}
