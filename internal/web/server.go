// Package web provides the report dashboard: it lists completed validation
// runs, serves the generated report artifacts, and accepts ad-hoc file
// uploads for immediate validation.
package web

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/JonMunkholm/DataGate/internal/config"
	"github.com/JonMunkholm/DataGate/internal/gate"
	"github.com/JonMunkholm/DataGate/internal/web/middleware"
)

// Server is the HTTP server for the validation dashboard.
type Server struct {
	service *gate.Service
	cfg     *config.Config
	router  *chi.Mux
	server  *http.Server
}

// NewServer creates a dashboard server around the orchestration service.
func NewServer(service *gate.Service, cfg *config.Config) *Server {
	s := &Server{
		service: service,
		cfg:     cfg,
		router:  chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(chimw.RequestID)
	s.router.Use(chimw.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(chimw.Recoverer)
	s.router.Use(chimw.Timeout(s.cfg.Server.RequestTimeout))
}

func (s *Server) setupRoutes() {
	// Dashboard index and the generated report tree.
	s.router.Get("/", s.handleIndex)
	s.router.Handle("/reports/*", http.StripPrefix("/reports/",
		http.FileServer(http.Dir(s.cfg.Paths.OutputDir))))

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/tables", s.handleListTables)
		r.Get("/runs", s.handleListRuns)
		r.Post("/validate", s.handleValidate)
	})
}

// Start runs the server until the context is cancelled, then shuts down
// gracefully within the configured timeout.
func (s *Server) Start(ctx context.Context) error {
	s.server = &http.Server{
		Addr:    s.cfg.Server.Addr(),
		Handler: s.router,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
		defer cancel()
		return s.server.Shutdown(shutdownCtx)
	}
}
