package repositories

import (
	"context"
	"testing"

	"receipt-dashboard/internal/database"
	"receipt-dashboard/internal/models"

	"github.com/stretchr/testify/suite"
)

func TestPreferenceRepository(t *testing.T) {
	suite.Run(t, new(PreferenceRepositorySuite))
}

type PreferenceRepositorySuite struct {
	suite.Suite
	ctx  context.Context
	db   *database.DB
	repo PreferenceRepositoryInterface
}

func (s *PreferenceRepositorySuite) SetupTest() {
	s.ctx = context.Background()
	s.db = database.SetupTestDB(s.T())
	s.repo = NewPreferenceRepository(s.db.DB)
}

func (s *PreferenceRepositorySuite) TearDownTest() {
	database.CleanupTestDB(s.T(), s.db)
}

func (s *PreferenceRepositorySuite) TestGet_Missing() {
	_, err := s.repo.Get(s.ctx, models.PreferenceKeyTheme)
	s.ErrorIs(err, ErrPreferenceNotFound)
}

func (s *PreferenceRepositorySuite) TestUpsert_InsertThenReplace() {
	s.Require().NoError(s.repo.Upsert(s.ctx, models.PreferenceKeyTheme, models.ThemeDark))
	s.Require().NoError(s.repo.Upsert(s.ctx, models.PreferenceKeyTheme, models.ThemeLight))

	pref, err := s.repo.Get(s.ctx, models.PreferenceKeyTheme)
	s.Require().NoError(err)
	s.Equal(models.ThemeLight, pref.Value)
}

func (s *PreferenceRepositorySuite) TestList() {
	s.Require().NoError(s.repo.Upsert(s.ctx, models.PreferenceKeyView, models.ViewCards))
	s.Require().NoError(s.repo.Upsert(s.ctx, models.PreferenceKeyTheme, models.ThemeDark))

	prefs, err := s.repo.List(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(prefs, 2)
	s.Equal(models.PreferenceKeyTheme, prefs[0].Key)
	s.Equal(models.PreferenceKeyView, prefs[1].Key)
}
