package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"receipt-dashboard/internal/models"
	"receipt-dashboard/internal/services"
	"receipt-dashboard/internal/services/service_mocks"

	"github.com/golang/mock/gomock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/suite"
)

type PreferenceHandlerTestSuite struct {
	suite.Suite
	ctrl        *gomock.Controller
	mockService *service_mocks.MockPreferenceServiceInterface
	handler     *PreferenceHandler
	echo        *echo.Echo
}

func (s *PreferenceHandlerTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockService = service_mocks.NewMockPreferenceServiceInterface(s.ctrl)
	s.handler = NewPreferenceHandler(s.mockService)
	s.echo = echo.New()
	s.echo.Validator = NewValidator()
}

func (s *PreferenceHandlerTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestPreferenceHandlerSuite(t *testing.T) {
	suite.Run(t, new(PreferenceHandlerTestSuite))
}

func (s *PreferenceHandlerTestSuite) context(method, key, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, "/__dashboard/preferences/"+key, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := s.echo.NewContext(req, rec)
	if key != "" {
		c.SetParamNames("key")
		c.SetParamValues(key)
	}
	return c, rec
}

func (s *PreferenceHandlerTestSuite) TestList() {
	s.mockService.EXPECT().All(gomock.Any()).Return(map[string]string{
		models.PreferenceKeyTheme: models.ThemeDark,
		models.PreferenceKeyView:  models.ViewTable,
	}, nil)

	c, rec := s.context(http.MethodGet, "", "")
	s.Require().NoError(s.handler.List(c))

	s.Equal(http.StatusOK, rec.Code)
	s.JSONEq(`{"preferences":{"dashboard-theme":"dark","dashboard-view":"table"}}`, rec.Body.String())
}

func (s *PreferenceHandlerTestSuite) TestGet_UnknownKey() {
	s.mockService.EXPECT().Get(gomock.Any(), "font-size").Return("", services.ErrUnknownPreference)

	c, rec := s.context(http.MethodGet, "font-size", "")
	s.Require().NoError(s.handler.Get(c))

	s.Equal(http.StatusNotFound, rec.Code)
	s.Contains(rec.Body.String(), "SYSTEM_007")
}

func (s *PreferenceHandlerTestSuite) TestPut_Stores() {
	s.mockService.EXPECT().Set(gomock.Any(), models.PreferenceKeyView, models.ViewCards).Return(nil)

	c, rec := s.context(http.MethodPut, models.PreferenceKeyView, `{"value":"cards"}`)
	s.Require().NoError(s.handler.Put(c))

	s.Equal(http.StatusOK, rec.Code)
	s.JSONEq(`{"preferences":{"dashboard-view":"cards"}}`, rec.Body.String())
}

func (s *PreferenceHandlerTestSuite) TestPut_InvalidValue() {
	s.mockService.EXPECT().
		Set(gomock.Any(), models.PreferenceKeyTheme, "sepia").
		Return(fmt.Errorf("%w: %q for %s", services.ErrInvalidPreference, "sepia", models.PreferenceKeyTheme))

	c, rec := s.context(http.MethodPut, models.PreferenceKeyTheme, `{"value":"sepia"}`)
	s.Require().NoError(s.handler.Put(c))

	s.Equal(http.StatusBadRequest, rec.Code)
	s.Contains(rec.Body.String(), "VALIDATION_003")
}

func (s *PreferenceHandlerTestSuite) TestPut_MissingValue() {
	c, rec := s.context(http.MethodPut, models.PreferenceKeyTheme, `{}`)
	s.Require().NoError(s.handler.Put(c))

	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *PreferenceHandlerTestSuite) TestPut_StorageFailure() {
	s.mockService.EXPECT().Set(gomock.Any(), models.PreferenceKeyTheme, models.ThemeDark).Return(errors.New("database is locked"))

	c, rec := s.context(http.MethodPut, models.PreferenceKeyTheme, `{"value":"dark"}`)
	s.Require().NoError(s.handler.Put(c))

	s.Equal(http.StatusInternalServerError, rec.Code)
	s.NotContains(rec.Body.String(), "database is locked")
}
