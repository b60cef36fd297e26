// Package server exposes the dashboard session over HTTP.
package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"hisdash/internal/config"
	"hisdash/internal/dashboard"
	"hisdash/internal/logger"
)

// Server is the HTTP API in front of one session.
type Server struct {
	echo    *echo.Echo
	session *dashboard.Session
	log     *logger.Logger
}

// New builds the router, middleware chain and routes.
func New(session *dashboard.Session, cfg config.ServerConfig, log *logger.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	zl := log.Zerolog()

	e.Use(Recovery(zl))
	e.Use(RequestID())
	e.Use(Logger(zl))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost},
		AllowHeaders: []string{echo.HeaderContentType, RequestIDHeader},
	}))

	s := &Server{echo: e, session: session, log: log.With("component", "server")}

	e.GET("/health", s.health)

	api := e.Group("/api")
	api.POST("/datasets", s.loadDataset, echomw.BodyLimit(fmt.Sprintf("%dM", cfg.MaxUploadMB)))
	api.GET("/datasets/current", s.currentDataset)
	api.GET("/dashboard", s.dashboard)
	api.GET("/filters", s.filterOptions)
	api.GET("/report", s.report)
	api.GET("/rollups/:file", s.rollupCSV)

	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start listens on addr until Shutdown. It returns http.ErrServerClosed after a clean shutdown.
func (s *Server) Start(addr string) error {
	s.log.Info("starting server", "addr", addr)

	return s.echo.Start(addr)
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
