package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/eshaffer321/tcg-inventory-backend/internal/adapters/providers/tcgplayer"
	"github.com/eshaffer321/tcg-inventory-backend/internal/api/handlers"
	"github.com/eshaffer321/tcg-inventory-backend/internal/api/middleware"
	"github.com/eshaffer321/tcg-inventory-backend/internal/application/service"
	"github.com/eshaffer321/tcg-inventory-backend/internal/infrastructure/storage"
)

// Config holds API server configuration.
type Config struct {
	Port           int
	AllowedOrigins []string
}

// DefaultConfig returns sensible defaults for the API server.
func DefaultConfig() Config {
	return Config{
		Port:           8080,
		AllowedOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
	}
}

// Server is the HTTP API server.
type Server struct {
	config      Config
	router      chi.Router
	httpServer  *http.Server
	logger      *slog.Logger
	repo        storage.Repository
	sales       *service.SalesService
	syncService *service.SyncService
	searchCache *tcgplayer.SearchCache
}

// NewServer creates a new API server. syncService and searchCache may
// be nil; the matching endpoints are simply not registered.
func NewServer(
	cfg Config,
	repo storage.Repository,
	sales *service.SalesService,
	syncService *service.SyncService,
	searchCache *tcgplayer.SearchCache,
	logger *slog.Logger,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		config:      cfg,
		router:      chi.NewRouter(),
		logger:      logger,
		repo:        repo,
		sales:       sales,
		syncService: syncService,
		searchCache: searchCache,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// setupMiddleware configures global middleware.
func (s *Server) setupMiddleware() {
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.config.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	s.router.Use(middleware.Logging(s.logger))
}

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	// Health check (no /api prefix - for load balancers)
	healthHandler := handlers.NewHealthHandler()
	s.router.Get("/health", healthHandler.ServeHTTP)

	s.router.Route("/api", func(r chi.Router) {
		// Inventory snapshot
		inventoryHandler := handlers.NewInventoryHandler(s.repo)
		r.Get("/inventory", inventoryHandler.List)

		// Pending and sold sales
		salesHandler := handlers.NewSalesHandler(s.sales)
		r.Get("/pending-sales", salesHandler.ListPending)
		r.Post("/pending-sales", salesHandler.CreatePending)
		r.Put("/pending-sales/{id}", salesHandler.UpdatePending)
		r.Delete("/pending-sales/{id}", salesHandler.DeletePending)
		r.Post("/pending-sales/{id}/confirm", salesHandler.Confirm)
		r.Post("/pending-sales/match", salesHandler.MatchAll)
		r.Get("/sold-items", salesHandler.ListSold)
		r.Post("/orders/{orderID}/allocate", salesHandler.AllocateOrder)

		// Sync runs (historical)
		runsHandler := handlers.NewRunsHandler(s.repo)
		r.Get("/runs", runsHandler.List)
		r.Get("/runs/{id}", runsHandler.Get)

		// Stats
		statsHandler := handlers.NewStatsHandler(s.repo)
		r.Get("/stats", statsHandler.Get)

		// Product search
		if s.searchCache != nil {
			searchHandler := handlers.NewSearchHandler(s.searchCache)
			r.Get("/search-products", searchHandler.Search)
			// The dashboard's autocomplete box hits the same product search.
			r.Get("/autocomplete", searchHandler.Search)
		}

		// Sync operations (live sync jobs)
		if s.syncService != nil {
			syncHandler := handlers.NewSyncHandler(s.syncService)
			r.Post("/sync", syncHandler.Start)
			r.Get("/sync", syncHandler.List)
			r.Get("/sync/{jobId}", syncHandler.Get)
			r.Delete("/sync/{jobId}", syncHandler.Cancel)
		}
	})
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.config.Port)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("starting API server", "addr", addr)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down API server")

	if s.httpServer == nil {
		return nil
	}

	return s.httpServer.Shutdown(ctx)
}

// Router returns the chi router for testing.
func (s *Server) Router() chi.Router {
	return s.router
}
