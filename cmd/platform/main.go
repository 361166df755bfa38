package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ayurdiet/platform/internal/dietplan"
	"github.com/ayurdiet/platform/internal/patient"
	"github.com/ayurdiet/platform/internal/shared/config"
	"github.com/ayurdiet/platform/internal/shared/metrics"
	secmiddleware "github.com/ayurdiet/platform/internal/shared/middleware"
)

// App holds all application dependencies
type App struct {
	Config *config.Config
	Store  *patient.Store
}

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	app := &App{Config: cfg}

	// The patient store lives in process memory for the lifetime of the
	// server; records are discarded on exit.
	app.Store = patient.NewStore()
	if cfg.Seed.Enabled {
		if err := app.Store.Seed(ctx); err != nil {
			fmt.Printf("Warning: seeding sample patients failed: %v\n", err)
		}
	}

	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(secmiddleware.SecurityHeaders)
	r.Use(secmiddleware.MaxBody(1 << 20))
	r.Use(metrics.Middleware)
	r.Use(secmiddleware.CORS(corsConfig(cfg)))

	if cfg.RateLimit.Enabled {
		r.Use(secmiddleware.RateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst))
	}

	// Health checks
	r.Get("/health", healthHandler(app))
	r.Get("/ready", readyHandler(app))
	r.Handle("/metrics", metrics.Handler())

	// API info
	r.Get("/", infoHandler)

	// API routes
	r.Route("/api", func(r chi.Router) {
		dietHandler := dietplan.NewHandler(app.Store)
		patientHandler := patient.NewHandler(app.Store, dietHandler.GetDietPlan)
		r.Mount("/patients", patientHandler.Routes())
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	done := make(chan bool)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		fmt.Println("\nShutting down server...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			fmt.Printf("Server shutdown error: %v\n", err)
		}
		close(done)
	}()

	fmt.Println("============================================")
	fmt.Println("AyurDiet Patient Intake Platform")
	fmt.Println("============================================")
	fmt.Printf("Environment:     %s\n", cfg.Server.Env)
	fmt.Printf("Server:          http://localhost:%d\n", cfg.Server.Port)
	fmt.Printf("API:             http://localhost:%d/api/patients\n", cfg.Server.Port)
	fmt.Printf("Health:          http://localhost:%d/health\n", cfg.Server.Port)
	fmt.Printf("Sample patients: %v\n", cfg.Seed.Enabled)
	fmt.Printf("Rate limiting:   %v\n", cfg.RateLimit.Enabled)
	fmt.Println("============================================")

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}

	<-done
	fmt.Println("Server stopped")
}

func corsConfig(cfg *config.Config) secmiddleware.CORSConfig {
	corsCfg := secmiddleware.DefaultCORSConfig()
	if len(cfg.CORS.AllowedOrigins) > 0 {
		corsCfg.AllowedOrigins = cfg.CORS.AllowedOrigins
	}
	return corsCfg
}

func infoHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"name":    "AyurDiet Patient Intake Platform",
		"version": "0.1.0",
		"docs":    "/api/patients",
	})
}

func healthHandler(app *App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{
			"status": "healthy",
		})
	}
}

func readyHandler(app *App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := map[string]string{
			"server": "ready",
		}

		// The store is in-memory; it is ready as soon as it exists.
		if app.Store != nil {
			checks["store"] = "ready"
		} else {
			checks["store"] = "not configured"
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]any{
			"status": "ready",
			"checks": checks,
		})
	}
}
