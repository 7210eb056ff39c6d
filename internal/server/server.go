// Package server exposes the routing engine over a small local HTTP API.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/3leaps/gohotfolder/internal/server/handlers"
	"github.com/3leaps/gohotfolder/internal/server/middleware"
	"github.com/3leaps/gohotfolder/pkg/history"
	"github.com/3leaps/gohotfolder/pkg/routing"
)

// Server is the HTTP server.
type Server struct {
	host    string
	port    int
	router  chi.Router
	engine  *routing.Engine
	history *history.Store
	logger  *zap.Logger
	version handlers.VersionInfo
	health  *handlers.HealthManager

	readTimeout  time.Duration
	writeTimeout time.Duration
	idleTimeout  time.Duration
}

// Option configures a Server.
type Option func(*Server)

func WithEngine(e *routing.Engine) Option {
	return func(s *Server) { s.engine = e }
}

// WithHistory records every processed file in store.
func WithHistory(store *history.Store) Option {
	return func(s *Server) { s.history = store }
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

func WithVersion(info handlers.VersionInfo) Option {
	return func(s *Server) { s.version = info }
}

// WithTimeouts sets the http.Server timeouts. Zero leaves the default.
func WithTimeouts(read, write, idle time.Duration) Option {
	return func(s *Server) {
		if read > 0 {
			s.readTimeout = read
		}
		if write > 0 {
			s.writeTimeout = write
		}
		if idle > 0 {
			s.idleTimeout = idle
		}
	}
}

// New builds a server. Without WithEngine it routes against default
// settings.
func New(host string, port int, opts ...Option) *Server {
	s := &Server{
		host:         host,
		port:         port,
		logger:       zap.NewNop(),
		version:      handlers.VersionInfo{Version: "dev"},
		readTimeout:  30 * time.Second,
		writeTimeout: 30 * time.Second,
		idleTimeout:  120 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.engine == nil {
		s.engine = routing.New(nil, routing.WithLogger(s.logger))
	}

	s.health = handlers.GetHealthManager()
	if s.health == nil {
		s.health = handlers.InitHealthManager(s.version.Version)
	}
	s.registerCheckers()
	s.setupRoutes()
	return s
}

func (s *Server) registerCheckers() {
	st := s.engine.Settings()
	s.health.RegisterChecker("hotfolder_root", handlers.HealthCheckerFunc(func(ctx context.Context) error {
		if st.HotfolderRoot == "" {
			// Unconfigured is not an outage; the process endpoint reports it per job.
			return nil
		}
		info, err := os.Stat(st.HotfolderRoot)
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return fmt.Errorf("%s is not a directory", st.HotfolderRoot)
		}
		return nil
	}))
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recovery)

	r.NotFound(handlers.NotFound)
	r.MethodNotAllowed(handlers.MethodNotAllowed)

	r.Get("/health", s.health.HealthHandler)
	r.Get("/health/live", s.health.LivenessHandler)
	r.Get("/health/ready", s.health.ReadinessHandler)
	r.Get("/version", handlers.VersionHandler(s.version))

	api := handlers.NewAPI(s.engine, s.history, s.logger)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/filename", api.Filename)
		r.Post("/route", api.Route)
		r.Post("/process", api.Process)
	})

	s.router = r
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Port() int {
	return s.port
}

func (s *Server) Addr() string {
	return net.JoinHostPort(s.host, strconv.Itoa(s.port))
}

// Run serves until ctx is cancelled, then shuts down within
// shutdownTimeout.
func (s *Server) Run(ctx context.Context, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              s.Addr(),
		Handler:           s.router,
		ReadTimeout:       s.readTimeout,
		ReadHeaderTimeout: s.readTimeout,
		WriteTimeout:      s.writeTimeout,
		IdleTimeout:       s.idleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("HTTP server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errCh
}
