// Package webserver hosts the HTTP surface: middleware, static asset
// serving and the authorization gate for mutating routes.
package webserver

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/stationeryhq/stationery-server/config"
)

type Server struct {
	cfg *config.AppConfig
	e   *echo.Echo
}

func New(cfg *config.AppConfig) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.JSONSerializer = jsonSerializer{}
	e.Validator = newValidator()

	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(requestLogger)

	// Uploaded images are reachable by the public path the asset store
	// returns, mirrored onto the upload directory tree.
	e.Static("/uploads", cfg.PublicDir())

	e.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, "Hello from Diary & Stationery E-commerce Backend!")
	})

	return &Server{cfg: cfg, e: e}
}

func (s *Server) Echo() *echo.Echo {
	return s.e
}

func (s *Server) Start() error {
	zap.S().Infof("web server listening on %s", s.cfg.ListenAddr())
	return s.e.Start(s.cfg.ListenAddr())
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.e.Shutdown(ctx)
}

// requestLogger logs every request through the global zap logger.
func requestLogger(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		if err := next(c); err != nil {
			c.Error(err)
		}
		req := c.Request()
		res := c.Response()
		zap.L().Info("http request",
			zap.String("method", req.Method),
			zap.String("uri", req.RequestURI),
			zap.Int("status", res.Status),
			zap.String("remote_ip", c.RealIP()),
			zap.Duration("latency", time.Since(start)),
		)
		return nil
	}
}
