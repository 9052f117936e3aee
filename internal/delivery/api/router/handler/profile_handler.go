package handler

import (
	"log/slog"
	"net/http"

	"smarttrack/internal/delivery/api/middleware"
	"smarttrack/internal/delivery/api/response"
	"smarttrack/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// ProfileHandlerParams holds dependencies for ProfileHandler, injected by Fx.
type ProfileHandlerParams struct {
	fx.In

	ProfileUC usecase.ProfileUsecase
	Logger    *slog.Logger
}

// ProfileHandler serves the profile of the authenticated account
type ProfileHandler struct {
	profileUC usecase.ProfileUsecase
	logger    *slog.Logger
}

// NewProfileHandler is the constructor for ProfileHandler
func NewProfileHandler(params ProfileHandlerParams) *ProfileHandler {
	return &ProfileHandler{
		profileUC: params.ProfileUC,
		logger:    params.Logger,
	}
}

// UpdateProfileRequest represents the request body for a partial profile update
type UpdateProfileRequest struct {
	FullName  *string `json:"full_name" validate:"omitempty,min=2,max=255"`
	AvatarURL *string `json:"avatar_url" validate:"omitempty,url"`
}

// GetProfile returns the profile of the authenticated account
func (h *ProfileHandler) GetProfile(c echo.Context) error {
	accountID, ok := middleware.GetAccountID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "could not validate credentials")
	}

	output, err := h.profileUC.GetProfile(c.Request().Context(), accountID)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, output)
}

// UpdateProfile changes the display name and/or avatar
func (h *ProfileHandler) UpdateProfile(c echo.Context) error {
	accountID, ok := middleware.GetAccountID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "could not validate credentials")
	}

	var req UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid profile input")
	}

	if err := c.Validate(&req); err != nil {
		return response.HandleAppError(c, err)
	}

	output, err := h.profileUC.UpdateProfile(c.Request().Context(), accountID, &usecase.UpdateProfileInput{
		FullName:  req.FullName,
		AvatarURL: req.AvatarURL,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, output)
}

// DeleteAccount removes the authenticated account and its sessions
func (h *ProfileHandler) DeleteAccount(c echo.Context) error {
	accountID, ok := middleware.GetAccountID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "could not validate credentials")
	}

	if err := h.profileUC.DeleteAccount(c.Request().Context(), accountID); err != nil {
		return response.HandleAppError(c, err)
	}

	return response.NoContent(c)
}
