package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"MacroSentinel/internal/dashboard"
	"MacroSentinel/internal/model"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Renderer produces one dashboard state per call. *dashboard.Service satisfies it.
type Renderer interface {
	Render(ctx context.Context, opts dashboard.Options) (*model.DashboardState, *model.Trace)
}

// Config holds server configuration.
type Config struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// Server wraps the Echo HTTP server.
type Server struct {
	echo     *echo.Echo
	config   Config
	renderer Renderer
	lg       zerolog.Logger
}

// New builds the server and registers its routes. gatherer backs /metrics.
func New(cfg Config, renderer Renderer, gatherer prometheus.Gatherer, lg zerolog.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadTimeout = cfg.ReadTimeout
	e.Server.WriteTimeout = cfg.WriteTimeout

	s := &Server{
		echo:     e,
		config:   cfg,
		renderer: renderer,
		lg:       lg.With().Str("module", "http").Logger(),
	}

	e.Use(s.recoverPanics())
	e.Use(s.requestLogging())

	e.GET("/", s.handlePage)
	e.GET("/api/dashboard", s.handleJSON)
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	return s
}

// Start listens in the background.
func (s *Server) Start() {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	go func() {
		s.lg.Info().Str("addr", addr).Msg("listening")
		if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.lg.Error().Err(err).Msg("server error")
		}
	}()
}

// Stop gracefully shuts down the HTTP server.
func (s *Server) Stop(ctx context.Context) error {
	if s.config.ShutdownTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.ShutdownTimeout)
		defer cancel()
	}
	if err := s.echo.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}
	s.lg.Info().Msg("stopped gracefully")
	return nil
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

type dashboardResponse struct {
	*model.DashboardState
	Trace []model.TraceRecord `json:"trace,omitempty"`
}

func debugRequested(c echo.Context) bool {
	return c.QueryParam("debug") == "1"
}

func (s *Server) handleJSON(c echo.Context) error {
	debugOn := debugRequested(c)
	state, trace := s.renderer.Render(c.Request().Context(), dashboard.Options{Debug: debugOn})
	return c.JSON(http.StatusOK, dashboardResponse{DashboardState: state, Trace: trace.Records()})
}

func (s *Server) handlePage(c echo.Context) error {
	debugOn := debugRequested(c)
	state, trace := s.renderer.Render(c.Request().Context(), dashboard.Options{Debug: debugOn})

	var buf bytes.Buffer
	if err := page.Execute(&buf, pageData{State: state, Trace: trace.Records(), Debug: debugOn}); err != nil {
		return fmt.Errorf("render page: %w", err)
	}
	return c.HTMLBlob(http.StatusOK, buf.Bytes())
}

func (s *Server) recoverPanics() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					s.lg.Error().Interface("panic", r).Bytes("stack", debug.Stack()).Msg("handler panic")
					err = c.JSON(http.StatusInternalServerError, map[string]any{
						"status":  http.StatusInternalServerError,
						"message": "Internal Server Error",
					})
				}
			}()
			return next(c)
		}
	}
}

func (s *Server) requestLogging() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}
			req := c.Request()
			s.lg.Info().
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Int("status", c.Response().Status).
				Dur("latency", time.Since(start)).
				Msg("request")
			return nil
		}
	}
}
