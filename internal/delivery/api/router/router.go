// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"smarttrack/config"
	"smarttrack/internal/delivery/api/middleware"
	"smarttrack/internal/delivery/api/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	AuthHandler    *handler.AuthHandler
	ProfileHandler *handler.ProfileHandler
	AuthMiddleware *middleware.AuthMiddleware
	Config         *config.Config
}

// router holds all the handlers that need to be registered.
type router struct {
	authHandler    *handler.AuthHandler
	profileHandler *handler.ProfileHandler
	authMiddleware *middleware.AuthMiddleware
	config         *config.Config
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		authHandler:    params.AuthHandler,
		profileHandler: params.ProfileHandler,
		authMiddleware: params.AuthMiddleware,
		config:         params.Config,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck(r.config))

	apiV1 := e.Group("/api/v1")

	// Auth routes
	authGroup := apiV1.Group("/auth")
	{
		authGroup.POST("/register", r.authHandler.Register)
		authGroup.POST("/login", r.authHandler.Login)
		authGroup.POST("/refresh", r.authHandler.Refresh)
		authGroup.POST("/logout", r.authHandler.Logout)
		authGroup.GET("/google/url", r.authHandler.GoogleAuthURL)
		authGroup.POST("/google/callback", r.authHandler.GoogleCallback)
		authGroup.POST("/google/id-token", r.authHandler.GoogleIDToken)
	}

	// Auth routes that require a valid access token
	sessionGroup := apiV1.Group("/auth", r.authMiddleware.Authenticate)
	{
		sessionGroup.GET("/me", r.authHandler.Me)
		sessionGroup.POST("/logout/all", r.authHandler.LogoutAll)
	}

	// Profile of the authenticated account
	usersGroup := apiV1.Group("/users")
	usersGroup.Use(r.authMiddleware.Authenticate)
	{
		usersGroup.GET("/me", r.profileHandler.GetProfile)
		usersGroup.PATCH("/me", r.profileHandler.UpdateProfile)
		usersGroup.DELETE("/me", r.profileHandler.DeleteAccount)
	}
}
