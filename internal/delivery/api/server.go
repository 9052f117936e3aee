package api

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strconv"

	"smarttrack/config"
	"smarttrack/internal/delivery"
	apimiddleware "smarttrack/internal/delivery/api/middleware"
	"smarttrack/internal/delivery/api/router"
	"smarttrack/internal/delivery/api/validator"
	deliverycontext "smarttrack/internal/delivery/context"
	"smarttrack/internal/delivery/middleware"
	"smarttrack/internal/domain/lifecycle"
	"smarttrack/internal/errors"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/fx"
	"golang.org/x/net/http2"
)

type apiServer struct {
	cfg    *config.Config
	logger *slog.Logger
	server *echo.Echo
}

// ServerParams holds dependencies for HTTP server, injected by Fx.
type ServerParams struct {
	fx.In

	Lc           fx.Lifecycle
	Cfg          *config.Config
	Logger       *slog.Logger
	RouterParams router.RouterParams
}

// NewServer builds the credential API and registers graceful shutdown.
func NewServer(params ServerParams) (delivery.Delivery, error) {
	echoServer := newEcho(params.Cfg, params.Logger)
	router.NewRouter(params.RouterParams).RegisterRoutes(echoServer)

	srv := &apiServer{
		cfg:    params.Cfg,
		logger: params.Logger,
		server: echoServer,
	}

	params.Lc.Append(fx.Hook{
		OnStop: srv.stop,
	})

	return srv, nil
}

// newEcho configures the middleware chain shared by every route. Request IDs
// are assigned before the access log runs so each log line carries one.
func newEcho(cfg *config.Config, logger *slog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Server.ReadTimeout = cfg.HTTP.Timeouts.ReadTimeout
	e.Server.ReadHeaderTimeout = cfg.HTTP.Timeouts.ReadHeaderTimeout
	e.Server.WriteTimeout = cfg.HTTP.Timeouts.WriteTimeout
	e.Server.IdleTimeout = cfg.HTTP.Timeouts.IdleTimeout

	e.Use(echomiddleware.Recover())
	e.Use(middleware.NewRequestIDMiddleware(logger).Process)
	e.Use(middleware.NewLoggerMiddleware(logger, cfg).Handle)
	e.Use(echomiddleware.CORSWithConfig(corsConfig(cfg)))
	e.Use(echomiddleware.BodyLimit(cfg.HTTP.MaxRequestBodySize))
	e.Use(noStore)

	e.HTTPErrorHandler = apimiddleware.NewErrorMiddleware(logger).HandleHTTPError
	e.Validator = validator.New()

	return e
}

// corsConfig allows the configured browser origins to send bearer tokens.
// Without configured origins any origin may call, but without credentials.
func corsConfig(cfg *config.Config) echomiddleware.CORSConfig {
	corsCfg := echomiddleware.DefaultCORSConfig
	corsCfg.AllowHeaders = []string{echo.HeaderAuthorization, echo.HeaderContentType, deliverycontext.HeaderXRequestID}
	corsCfg.ExposeHeaders = []string{deliverycontext.HeaderXRequestID, echo.HeaderWWWAuthenticate}

	if len(cfg.HTTP.CORS.AllowOrigins) > 0 {
		corsCfg.AllowOrigins = cfg.HTTP.CORS.AllowOrigins
		corsCfg.AllowCredentials = true
	}

	return corsCfg
}

// noStore keeps tokens and profile data out of shared caches.
func noStore(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		c.Response().Header().Set(echo.HeaderCacheControl, "no-store")
		c.Response().Header().Set("Pragma", "no-cache")

		return next(c)
	}
}

func (s *apiServer) Serve(ctx context.Context) error {
	hostPort := net.JoinHostPort("0.0.0.0", strconv.Itoa(s.cfg.HTTP.Port))
	s.logger.Info("Starting credential API server", slog.String("host_port", hostPort))
	h2Server := &http2.Server{
		IdleTimeout: s.cfg.HTTP.Timeouts.IdleTimeout,
	}
	if err := s.server.StartH2CServer(hostPort, h2Server); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.WithStack(err)
	}

	return nil
}

func (s *apiServer) stop(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, lifecycle.DefaultTimeout)
	defer cancel()

	s.logger.Info("Shutting down credential API server")

	return errors.WithStack(s.server.Shutdown(shutdownCtx))
}
