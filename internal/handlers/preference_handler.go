package handlers

import (
	stderrors "errors"
	"net/http"

	"receipt-dashboard/internal/dto"
	"receipt-dashboard/internal/errors"
	"receipt-dashboard/internal/services"

	"github.com/labstack/echo/v4"
)

// PreferenceHandler serves the persisted theme and last-view choices
type PreferenceHandler struct {
	preferences services.PreferenceServiceInterface
}

func NewPreferenceHandler(preferences services.PreferenceServiceInterface) *PreferenceHandler {
	return &PreferenceHandler{preferences: preferences}
}

// List serves GET /__dashboard/preferences
func (h *PreferenceHandler) List(c echo.Context) error {
	prefs, err := h.preferences.All(c.Request().Context())
	if err != nil {
		return SendSystemError(c, err)
	}
	return c.JSON(http.StatusOK, dto.PreferencesResponse{Preferences: prefs})
}

// Get serves GET /__dashboard/preferences/:key
func (h *PreferenceHandler) Get(c echo.Context) error {
	key := c.Param("key")
	value, err := h.preferences.Get(c.Request().Context(), key)
	if stderrors.Is(err, services.ErrUnknownPreference) {
		return SendError(c, errors.SystemNotFound, errors.WithDetails("Unknown preference: "+key))
	}
	if err != nil {
		return SendSystemError(c, err)
	}
	return c.JSON(http.StatusOK, dto.PreferencesResponse{Preferences: map[string]string{key: value}})
}

// Put serves PUT /__dashboard/preferences/:key
func (h *PreferenceHandler) Put(c echo.Context) error {
	key := c.Param("key")

	var req dto.PreferenceRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid request body"))
	}
	if err := c.Validate(&req); err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails(err.Error()))
	}

	err := h.preferences.Set(c.Request().Context(), key, req.Value)
	switch {
	case stderrors.Is(err, services.ErrUnknownPreference):
		return SendError(c, errors.SystemNotFound, errors.WithDetails("Unknown preference: "+key))
	case stderrors.Is(err, services.ErrInvalidPreference):
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails(err.Error()))
	case err != nil:
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, dto.PreferencesResponse{Preferences: map[string]string{key: req.Value}})
}
