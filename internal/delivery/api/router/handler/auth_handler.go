// Package handler contains the HTTP handlers for the application.
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

// AuthHandlerParams holds dependencies for AuthHandler, injected by Fx.
type AuthHandlerParams struct {
	fx.In

	AuthUC    usecase.AuthUsecase
	ProfileUC usecase.ProfileUsecase
	Logger    *slog.Logger
}

// AuthHandler holds dependencies for authentication handlers
type AuthHandler struct {
	authUC    usecase.AuthUsecase
	profileUC usecase.ProfileUsecase
	logger    *slog.Logger
}

// NewAuthHandler is the constructor for AuthHandler
func NewAuthHandler(params AuthHandlerParams) *AuthHandler {
	return &AuthHandler{
		authUC:    params.AuthUC,
		profileUC: params.ProfileUC,
		logger:    params.Logger,
	}
}

// RegisterRequest represents the request body for email/password registration
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	FullName string `json:"full_name" validate:"required,min=2,max=255"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

// LoginRequest represents the request body for email/password login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshTokenRequest carries a refresh token for the refresh and logout endpoints
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// GoogleAuthURLRequest represents the query of the consent screen URL endpoint
type GoogleAuthURLRequest struct {
	RedirectURI string `query:"redirect_uri" json:"redirect_uri" validate:"required,url"`
	State       string `query:"state" json:"state"`
}

// GoogleCallbackRequest represents the request body for the authorization code callback
type GoogleCallbackRequest struct {
	Code        string `json:"code" validate:"required"`
	RedirectURI string `json:"redirect_uri" validate:"required,url"`
}

// GoogleIDTokenRequest represents the request body for client-side Google Sign-In
type GoogleIDTokenRequest struct {
	IDToken string `json:"id_token" validate:"required"`
}

// Register handles email/password registration
func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid registration input")
	}

	if err := c.Validate(&req); err != nil {
		return response.HandleAppError(c, err)
	}

	output, err := h.authUC.Register(c.Request().Context(), &usecase.RegisterInput{
		Email:    req.Email,
		FullName: req.FullName,
		Password: req.Password,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusCreated, output)
}

// Login handles email/password login
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid login input")
	}

	if err := c.Validate(&req); err != nil {
		return response.HandleAppError(c, err)
	}

	output, err := h.authUC.Login(c.Request().Context(), &usecase.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, output)
}

// Refresh exchanges a refresh token for a new access token
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req RefreshTokenRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid refresh token input")
	}

	if err := c.Validate(&req); err != nil {
		return response.HandleAppError(c, err)
	}

	output, err := h.authUC.Refresh(c.Request().Context(), &usecase.RefreshInput{RefreshToken: req.RefreshToken})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, output)
}

// Logout revokes the presented refresh token
func (h *AuthHandler) Logout(c echo.Context) error {
	var req RefreshTokenRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid logout input")
	}

	if err := c.Validate(&req); err != nil {
		return response.HandleAppError(c, err)
	}

	if err := h.authUC.Logout(c.Request().Context(), &usecase.LogoutInput{RefreshToken: req.RefreshToken}); err != nil {
		return response.HandleAppError(c, err)
	}

	return response.NoContent(c)
}

// LogoutAll revokes every session of the authenticated account
func (h *AuthHandler) LogoutAll(c echo.Context) error {
	accountID, ok := middleware.GetAccountID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "could not validate credentials")
	}

	if err := h.authUC.LogoutAll(c.Request().Context(), accountID); err != nil {
		return response.HandleAppError(c, err)
	}

	return response.NoContent(c)
}

// GoogleAuthURL returns the Google consent screen URL
func (h *AuthHandler) GoogleAuthURL(c echo.Context) error {
	var req GoogleAuthURLRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid query parameters")
	}

	if err := c.Validate(&req); err != nil {
		return response.HandleAppError(c, err)
	}

	output, err := h.authUC.GoogleAuthURL(c.Request().Context(), &usecase.GoogleAuthURLInput{
		RedirectURI: req.RedirectURI,
		State:       req.State,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, output)
}

// GoogleCallback completes the authorization code flow
func (h *AuthHandler) GoogleCallback(c echo.Context) error {
	var req GoogleCallbackRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid callback input")
	}

	if err := c.Validate(&req); err != nil {
		return response.HandleAppError(c, err)
	}

	output, err := h.authUC.GoogleCallback(c.Request().Context(), &usecase.GoogleCallbackInput{
		Code:        req.Code,
		RedirectURI: req.RedirectURI,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, output)
}

// GoogleIDToken signs in with an ID token obtained on the client
func (h *AuthHandler) GoogleIDToken(c echo.Context) error {
	var req GoogleIDTokenRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid ID token input")
	}

	if err := c.Validate(&req); err != nil {
		return response.HandleAppError(c, err)
	}

	output, err := h.authUC.GoogleIDTokenLogin(c.Request().Context(), &usecase.GoogleIDTokenInput{IDToken: req.IDToken})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, output)
}

// Me returns the authenticated account
func (h *AuthHandler) Me(c echo.Context) error {
	account, ok := middleware.GetAccount(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "could not validate credentials")
	}

	return response.Success(c, http.StatusOK, usecase.NewAccountOutput(account))
}
