package handler

import (
	"net/http"

	"smarttrack/config"
	"smarttrack/internal/delivery/api/response"

	"github.com/labstack/echo/v4"
)

// HealthCheck returns a handler reporting that the service is up.
func HealthCheck(cfg *config.Config) echo.HandlerFunc {
	return func(c echo.Context) error {
		return response.Success(c, http.StatusOK, map[string]string{
			"status":  "ok",
			"service": cfg.Env.ServiceName,
		})
	}
}
