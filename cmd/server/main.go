package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"notesgenie-backend/internal/config"
	"notesgenie-backend/internal/database"
	"notesgenie-backend/internal/handlers"
	"notesgenie-backend/internal/middleware"
	"notesgenie-backend/internal/repository"
	"notesgenie-backend/internal/router"
	"notesgenie-backend/internal/services"
)

func main() {
	log.Println("🚀 Starting NotesGenie Backend...")

	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()
	log.Println("✓ Environment variables loaded")

	// ──── Step 2: Initialize PostgreSQL Connection Pool ────
	pool, err := database.NewPostgresPool(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("✗ PostgreSQL connection failed: %v", err)
	}
	defer pool.Close()
	log.Println("✓ PostgreSQL connected")

	// ──── Step 3: Initialize Redis Client ────
	redisClient, err := database.NewRedisClient(cfg.RedisURL)
	if err != nil {
		log.Fatalf("✗ Redis connection failed: %v", err)
	}
	defer redisClient.Close()
	log.Println("✓ Redis connected")

	// ──── Step 4: Run Database Migrations ────
	if err := database.RunMigrations(pool, "migrations"); err != nil {
		log.Fatalf("✗ Database migration failed: %v", err)
	}
	log.Println("✓ Database migrations applied")

	// ──── Initialize Repositories ────
	userRepo := repository.NewUserRepo(pool)
	noteRepo := repository.NewNoteRepo(pool)
	attemptRepo := repository.NewQuizAttemptRepo(pool)

	// ──── Step 5: Initialize Gemini Clients ────
	geminiService, err := services.NewGeminiService(cfg.GeminiAPIKey, cfg.GeminiTextModel)
	if err != nil {
		log.Fatalf("✗ Gemini client initialization failed: %v", err)
	}
	defer geminiService.Close()
	log.Println("✓ Gemini client initialized")

	imagenService := services.NewImagenService(cfg.GeminiAPIKey, cfg.GeminiImageModel)

	// ──── Initialize Services ────
	jwtAuth := middleware.NewJWTAuth(cfg.JWTSecret)
	fileExtractService := services.NewFileExtractService(geminiService)
	authService := services.NewAuthService(userRepo, jwtAuth)

	// ──── Initialize Handlers ────
	authHandler := handlers.NewAuthHandler(authService)
	uploadHandler := handlers.NewUploadHandler(
		fileExtractService,
		geminiService,
		imagenService,
		noteRepo,
		cfg.StoragePath,
		cfg.MaxUploadMB,
	)
	notesHandler := handlers.NewNotesHandler(noteRepo)
	quizHandler := handlers.NewQuizHandler(attemptRepo)
	dashboardHandler := handlers.NewDashboardHandler(pool, redisClient)
	askHandler := handlers.NewAskHandler(geminiService)

	// ──── Step 6: Start HTTP Server ────
	r := router.New(
		jwtAuth,
		authHandler,
		uploadHandler,
		notesHandler,
		quizHandler,
		dashboardHandler,
		askHandler,
		cfg.FrontendURL,
	)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	log.Printf("✓ NotesGenie Backend ready on http://localhost:%s", cfg.Port)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
}
