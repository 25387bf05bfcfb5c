// Package server provides the JSON API HTTP server
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/JhonatanAndres2004/TasteAI/internal/application/account"
	"github.com/JhonatanAndres2004/TasteAI/internal/infrastructure/config"
	"github.com/JhonatanAndres2004/TasteAI/internal/infrastructure/http/handlers"
	"github.com/JhonatanAndres2004/TasteAI/internal/infrastructure/http/middleware"
	"github.com/JhonatanAndres2004/TasteAI/internal/ports/inbound"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Server is the JSON API HTTP server
type Server struct {
	config   *config.Config
	logger   *zap.Logger
	server   *http.Server
	router   *chi.Mux
	accounts *account.Service
	planner  inbound.PlannerService
}

// NewServer creates a new API server instance
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	accounts *account.Service,
	planner inbound.PlannerService,
) *Server {
	s := &Server{
		config:   cfg,
		logger:   logger,
		accounts: accounts,
		planner:  planner,
	}

	s.router = s.setupRoutes()
	s.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      s.router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return s
}

// Router exposes the configured router, mainly for tests
func (s *Server) Router() http.Handler {
	return s.router
}

// setupRoutes configures the JSON API routes
func (s *Server) setupRoutes() *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(s.logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Security())
	r.Use(middleware.CORS(s.config.Server))
	r.Use(chimiddleware.Compress(5))
	r.Use(middleware.JSONOnly())

	r.Get("/health", s.handleHealthCheck)

	r.Route("/api/v1", func(r chi.Router) {
		s.setupAPIV1Routes(r)
	})

	return r
}

// setupAPIV1Routes configures API v1 endpoints
func (s *Server) setupAPIV1Routes(r chi.Router) {
	authH := handlers.NewAuthHandlers(s.accounts, s.logger)
	accountH := handlers.NewAccountHandlers(s.accounts, s.logger)
	plannerH := handlers.NewPlannerHandlers(s.planner, s.logger)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/signup", authH.SignUp)
		r.Post("/signin", authH.SignIn)
	})

	r.Route("/users/{id}", func(r chi.Router) {
		r.Use(middleware.Authenticate(s.accounts))

		r.Get("/profile", accountH.GetProfile)
		r.Put("/profile", accountH.UpdateProfile)
		r.Put("/lifestyle", accountH.UpdateLifestyle)
		r.Delete("/", accountH.DeleteAccount)

		r.Post("/lifestyle/review", plannerH.ReviewLifestyle)
		r.Post("/targets", plannerH.GenerateTargets)
		r.Post("/menu", plannerH.GenerateWeeklyMenu)
		r.Get("/menu", plannerH.GetWeeklyMenu)
		r.Post("/menu/days/{day}", plannerH.ReviseDay)
	})
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.logger.Info("Starting HTTP server",
		zap.String("address", s.server.Addr),
		zap.String("environment", s.config.App.Environment),
	)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

// handleHealthCheck provides the liveness endpoint
func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `{"status":"healthy","service":"%s","version":"%s","timestamp":%d}`,
		s.config.App.Name, s.config.App.Version, time.Now().Unix())
}
