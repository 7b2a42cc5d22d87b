package services_test

import (
	"context"
	"errors"
	"testing"

	"receipt-dashboard/internal/models"
	"receipt-dashboard/internal/repositories"
	"receipt-dashboard/internal/repositories/repository_mocks"
	"receipt-dashboard/internal/services"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/suite"
)

type PreferenceServiceSuite struct {
	suite.Suite
	ctx     context.Context
	ctrl    *gomock.Controller
	repo    *repository_mocks.MockPreferenceRepositoryInterface
	service services.PreferenceServiceInterface
}

func TestPreferenceServiceSuite(t *testing.T) {
	suite.Run(t, new(PreferenceServiceSuite))
}

func (s *PreferenceServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.ctrl = gomock.NewController(s.T())
	s.repo = repository_mocks.NewMockPreferenceRepositoryInterface(s.ctrl)
	s.service = services.NewPreferenceService(s.repo)
}

func (s *PreferenceServiceSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *PreferenceServiceSuite) TestGet_DefaultWhenMissing() {
	s.repo.EXPECT().Get(s.ctx, models.PreferenceKeyTheme).Return(nil, repositories.ErrPreferenceNotFound)

	value, err := s.service.Get(s.ctx, models.PreferenceKeyTheme)
	s.NoError(err)
	s.Equal(models.ThemeLight, value)
}

func (s *PreferenceServiceSuite) TestGet_Stored() {
	s.repo.EXPECT().Get(s.ctx, models.PreferenceKeyView).
		Return(&models.Preference{Key: models.PreferenceKeyView, Value: models.ViewCards}, nil)

	value, err := s.service.Get(s.ctx, models.PreferenceKeyView)
	s.NoError(err)
	s.Equal(models.ViewCards, value)
}

func (s *PreferenceServiceSuite) TestGet_CorruptValueFallsBack() {
	s.repo.EXPECT().Get(s.ctx, models.PreferenceKeyTheme).
		Return(&models.Preference{Key: models.PreferenceKeyTheme, Value: "neon"}, nil)

	value, err := s.service.Get(s.ctx, models.PreferenceKeyTheme)
	s.NoError(err)
	s.Equal(models.ThemeLight, value)
}

func (s *PreferenceServiceSuite) TestGet_UnknownKey() {
	_, err := s.service.Get(s.ctx, "font-size")
	s.ErrorIs(err, services.ErrUnknownPreference)
}

func (s *PreferenceServiceSuite) TestGet_RepositoryError() {
	s.repo.EXPECT().Get(s.ctx, models.PreferenceKeyTheme).Return(nil, errors.New("db gone"))

	_, err := s.service.Get(s.ctx, models.PreferenceKeyTheme)
	s.Error(err)
}

func (s *PreferenceServiceSuite) TestSet() {
	s.repo.EXPECT().Upsert(s.ctx, models.PreferenceKeyTheme, models.ThemeDark).Return(nil)
	s.NoError(s.service.Set(s.ctx, models.PreferenceKeyTheme, models.ThemeDark))

	s.ErrorIs(s.service.Set(s.ctx, models.PreferenceKeyTheme, "sepia"), services.ErrInvalidPreference)
	s.ErrorIs(s.service.Set(s.ctx, "font-size", "12"), services.ErrUnknownPreference)
}

func (s *PreferenceServiceSuite) TestAll_MergesDefaults() {
	s.repo.EXPECT().List(s.ctx).Return([]models.Preference{
		{Key: models.PreferenceKeyTheme, Value: models.ThemeDark},
		{Key: "legacy", Value: "x"},
	}, nil)

	all, err := s.service.All(s.ctx)
	s.NoError(err)
	s.Equal(map[string]string{
		models.PreferenceKeyTheme: models.ThemeDark,
		models.PreferenceKeyView:  models.ViewTable,
	}, all)
}
