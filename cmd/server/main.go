package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"eduwordle/internal/auth"
	"eduwordle/internal/config"
	"eduwordle/internal/database"
	"eduwordle/internal/handlers"
	"eduwordle/internal/models"
	"eduwordle/internal/repository"
	"eduwordle/internal/service"
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

	// Token manager
	tokens, err := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTExpiration)
	if err != nil {
		log.Fatalf("Failed to initialize token manager: %v", err)
	}

	// Email service (disabled without SES_FROM_EMAIL)
	emailService, err := service.NewEmailService(cfg.AWSRegion, cfg.SESFromEmail, cfg.SESFromName, cfg.AppBaseURL, cfg.IsDevelopment())
	if err != nil {
		log.Fatalf("Failed to initialize email service: %v", err)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	wordleRepo := repository.NewWordleRepository(db)
	membershipRepo := repository.NewMembershipRepository(db)
	gameRepo := repository.NewGameRepository(db)

	// Initialize services
	guard := service.NewAccessGuard(db, groupRepo, wordleRepo, membershipRepo)
	authService := service.NewAuthService(db, userRepo, tokens, emailService)
	groupService := service.NewGroupService(db, groupRepo, userRepo, wordleRepo, membershipRepo, guard, emailService)
	wordleService := service.NewWordleService(db, wordleRepo, membershipRepo, guard)
	gameService := service.NewGameService(db, gameRepo, wordleRepo, membershipRepo, guard)

	// Initialize handlers
	development := cfg.IsDevelopment()
	middleware := handlers.NewMiddleware(tokens, development)
	authHandler := handlers.NewAuthHandler(authService, development)
	groupHandler := handlers.NewGroupHandler(groupService, gameService, development)
	wordleHandler := handlers.NewWordleHandler(wordleService, gameService, development)
	studentHandler := handlers.NewStudentHandler(groupService, wordleService, gameService, development)
	resultsHandler := handlers.NewResultsHandler(gameService, development)

	// Setup routes
	mux := http.NewServeMux()

	// Public routes
	mux.HandleFunc("POST /auth/register", authHandler.Register)
	mux.HandleFunc("POST /auth/login", authHandler.Login)
	mux.HandleFunc("GET /auth/me", middleware.RequireAuth(authHandler.Me))

	// Teacher routes
	mux.HandleFunc("POST /teacher/groups", middleware.RequireRole(models.RoleTeacher, groupHandler.Create))
	mux.HandleFunc("GET /teacher/groups", middleware.RequireRole(models.RoleTeacher, groupHandler.List))
	mux.HandleFunc("GET /teacher/groups/{id}", middleware.RequireRole(models.RoleTeacher, groupHandler.Get))
	mux.HandleFunc("PUT /teacher/groups/{id}", middleware.RequireRole(models.RoleTeacher, groupHandler.Update))
	mux.HandleFunc("DELETE /teacher/groups/{id}", middleware.RequireRole(models.RoleTeacher, groupHandler.Delete))
	mux.HandleFunc("GET /teacher/groups/{id}/ranking", middleware.RequireRole(models.RoleTeacher, groupHandler.Ranking))

	mux.HandleFunc("POST /teacher/wordles", middleware.RequireRole(models.RoleTeacher, wordleHandler.Create))
	mux.HandleFunc("GET /teacher/wordles", middleware.RequireRole(models.RoleTeacher, wordleHandler.List))
	mux.HandleFunc("GET /teacher/wordles/{id}", middleware.RequireRole(models.RoleTeacher, wordleHandler.Get))
	mux.HandleFunc("PUT /teacher/wordles/{id}", middleware.RequireRole(models.RoleTeacher, wordleHandler.Update))
	mux.HandleFunc("DELETE /teacher/wordles/{id}", middleware.RequireRole(models.RoleTeacher, wordleHandler.Delete))

	mux.HandleFunc("GET /teacher/game-results/student/{userId}", middleware.RequireRole(models.RoleTeacher, resultsHandler.ForStudent))
	mux.HandleFunc("GET /teacher/game-results/wordle/{wordleId}", middleware.RequireRole(models.RoleTeacher, resultsHandler.ForWordle))
	mux.HandleFunc("GET /teacher/game-results/{id}", middleware.RequireRole(models.RoleTeacher, resultsHandler.Detail))
	mux.HandleFunc("PUT /teacher/change-password", middleware.RequireRole(models.RoleTeacher, authHandler.ChangePassword))

	// Student routes
	mux.HandleFunc("GET /student/groups/active", middleware.RequireRole(models.RoleStudent, studentHandler.ActiveGroups))
	mux.HandleFunc("GET /student/groups/{id}", middleware.RequireRole(models.RoleStudent, studentHandler.GetGroup))
	mux.HandleFunc("GET /student/wordles/accessible", middleware.RequireRole(models.RoleStudent, studentHandler.AccessibleWordles))
	mux.HandleFunc("GET /student/wordles/{id}/game-data", middleware.RequireRole(models.RoleStudent, studentHandler.GameData))
	mux.HandleFunc("POST /student/games/{wordleId}/save-result", middleware.RequireRole(models.RoleStudent, studentHandler.SaveResult))
	mux.HandleFunc("GET /student/games/results", middleware.RequireRole(models.RoleStudent, studentHandler.OwnResults))
	mux.HandleFunc("PUT /student/change-password", middleware.RequireRole(models.RoleStudent, authHandler.ChangePassword))

	// Wrap with logging middleware
	handler := handlers.Logging(mux)

	// Start server
	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

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

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Forced shutdown: %v", err)
	}
}
