package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"studyplanner/internal/config"
	"studyplanner/internal/database"
	"studyplanner/internal/handlers"
	"studyplanner/internal/repository"
	"studyplanner/internal/security"
	"studyplanner/internal/service"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database with config (supports sqlite, postgres, mysql)
	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	log.Printf("Database connection established (type: %s)", cfg.DatabaseType)

	// Run migrations
	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Migrations completed successfully")

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	planRepo := repository.NewPlanRepository(db)
	progressRepo := repository.NewProgressRepository(db)

	// Initialize services
	emailService, err := service.NewEmailService(cfg.AWSRegion, cfg.SESFromEmail, cfg.SESFromName, cfg.FrontendBaseURL, cfg.EmailDebug)
	if err != nil {
		log.Fatalf("Failed to initialize email service: %v", err)
	}

	tokenIssuer := security.NewTokenIssuer(cfg.JWTSecret, cfg.TokenDuration)
	authService := service.NewAuthService(userRepo, tokenIssuer, emailService)
	planService := service.NewPlanService(planRepo)
	progressService := service.NewProgressService(planRepo, progressRepo)
	dashboardService := service.NewDashboardService(planRepo, progressRepo)

	// Initialize handlers
	limiter := security.NewRateLimiter(10, time.Minute)
	middleware := handlers.NewMiddleware(authService, limiter, cfg.AllowedOrigins)
	authHandler := handlers.NewAuthHandler(authService, cfg)
	planHandler := handlers.NewPlanHandler(planService)
	progressHandler := handlers.NewProgressHandler(progressService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)
	healthHandler := handlers.NewHealthHandler(db)

	// Setup routes
	mux := http.NewServeMux()

	// Public routes
	mux.HandleFunc("GET /api/health", healthHandler.Health)
	mux.HandleFunc("POST /api/register", middleware.RateLimit(authHandler.Register))
	mux.HandleFunc("POST /api/login", middleware.RateLimit(authHandler.Login))
	mux.HandleFunc("POST /api/password-reset/request", middleware.RateLimit(authHandler.RequestPasswordReset))
	mux.HandleFunc("POST /api/password-reset/confirm", middleware.RateLimit(authHandler.ResetPassword))
	mux.HandleFunc("GET /api/auth/{provider}/start", authHandler.StartOAuth)
	mux.HandleFunc("GET /api/auth/{provider}/callback", authHandler.OAuthCallback)

	// Protected routes
	mux.HandleFunc("GET /api/me", middleware.RequireAuth(authHandler.Me))
	mux.HandleFunc("POST /api/plans", middleware.RequireAuth(planHandler.CreatePlan))
	mux.HandleFunc("GET /api/plans", middleware.RequireAuth(planHandler.ListPlans))
	mux.HandleFunc("GET /api/plans/{planID}", middleware.RequireAuth(planHandler.GetPlan))
	mux.HandleFunc("DELETE /api/plans/{planID}", middleware.RequireAuth(planHandler.DeletePlan))
	mux.HandleFunc("GET /api/plans/{planID}/events", middleware.RequireAuth(progressHandler.PlanHistory))
	mux.HandleFunc("POST /api/plans/{planID}/sessions/{index}/start", middleware.RequireAuth(progressHandler.StartSession))
	mux.HandleFunc("POST /api/plans/{planID}/sessions/{index}/pause", middleware.RequireAuth(progressHandler.PauseSession))
	mux.HandleFunc("POST /api/plans/{planID}/sessions/{index}/tick", middleware.RequireAuth(progressHandler.Tick))
	mux.HandleFunc("POST /api/plans/{planID}/sessions/{index}/progress", middleware.RequireAuth(progressHandler.RecordProgress))
	mux.HandleFunc("GET /api/dashboard", middleware.RequireAuth(dashboardHandler.GetDashboard))

	// Wrap with CORS and logging middleware
	handler := handlers.Logging(middleware.CORS(mux))

	// Start server
	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start background cleanup of expired reset tokens
	go cleanupExpiredResetTokens(authService)

	// Graceful shutdown
	go func() {
		log.Printf("Server starting on http://localhost%s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}

// cleanupExpiredResetTokens periodically removes expired password reset tokens
func cleanupExpiredResetTokens(authService *service.AuthService) {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		if err := authService.CleanupExpiredResetTokens(); err != nil {
			log.Printf("Error cleaning up expired reset tokens: %v", err)
		} else {
			log.Println("Expired reset tokens cleaned up")
		}
	}
}
