package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"evote-api/internal/config"
	"evote-api/internal/container"
	"evote-api/internal/domain"
	"evote-api/internal/handler"
	"evote-api/internal/middleware"
	"evote-api/pkg/logger"
	"evote-api/pkg/server"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.New(cfg.LogLevel, cfg.Environment)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	log.WithFields(map[string]interface{}{
		"port":        cfg.Port,
		"log_level":   cfg.LogLevel,
		"environment": cfg.Environment,
	}).Info("Starting evote-api server")

	// Create dependency injection container; this also loads the election
	// state (seeding the demo ballot on a fresh store).
	ctx := context.Background()
	c, err := container.New(ctx, cfg, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to create container")
	}
	defer c.Close()

	router := setupRouter(c)

	httpServer := &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        router,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   60 * time.Second,
		IdleTimeout:    120 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	server.StartWithGracefulShutdown(httpServer, log)
	log.Info("Application shutdown complete")
}

// setupRouter configures and returns the HTTP router
func setupRouter(c *container.Container) *chi.Mux {
	cfg := c.Config
	log := c.Logger

	r := chi.NewRouter()

	corsConfig := &middleware.CORSConfig{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Content-Length", "Accept-Encoding", "Authorization"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           86400,
	}

	r.Use(middleware.CORS(corsConfig, log))
	r.Use(middleware.RequestID(log))
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Compress(5))
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	healthHandler := handler.NewHealthHandler(c.Store, log)
	authHandler := handler.NewAuthHandler(c.Engine, c.Auth, log)
	voterHandler := handler.NewVoterHandler(c.Engine, c.Auth, log)
	candidateHandler := handler.NewCandidateHandler(c.Engine, log)
	voteHandler := handler.NewVoteHandler(c.Engine, log)
	aiHandler := handler.NewAIHandler(c.Engine, c.TextGen, log)

	// Health check (no auth required)
	r.Get("/health", healthHandler.Check)

	r.Route("/api/v1", func(r chi.Router) {
		// Admission control (no auth required)
		r.Post("/auth/admin/login", authHandler.AdminLogin)
		r.Post("/voters/register", voterHandler.Register)
		r.Post("/voters/verify", voterHandler.Verify)

		// Public ballot listing
		r.Get("/candidates", candidateHandler.List)

		// Authenticated routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(c.Auth, log))

			r.Post("/auth/logout", authHandler.Logout)

			// Voter-only routes
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(domain.RoleVoter, log))
				r.Post("/votes", voteHandler.Cast)
			})

			// Admin-only routes
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(domain.RoleAdmin, log))

				r.Post("/candidates", candidateHandler.Create)
				r.Put("/candidates/{id}", candidateHandler.Update)
				r.Delete("/candidates/{id}", candidateHandler.Delete)

				r.Get("/results", candidateHandler.Results)
				r.Get("/voters", voterHandler.List)

				r.Post("/ai/bio", aiHandler.GenerateBio)
				r.Get("/ai/analysis", aiHandler.AnalyzeResults)
			})
		})
	})

	// 404 handler
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":{"type":"not_found","message":"Endpoint not found"}}`))
	})

	log.Info("Router configured successfully")
	return r
}
