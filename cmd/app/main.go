package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lms/internal/api/v1/router"
	"lms/internal/config"
	"lms/internal/logger"

	"github.com/joho/godotenv"
)

// @title LMS API
// @version 1.0
// @description Learning-management backend API documentation
// @BasePath /v1

func main() {
	log := logger.New(os.Getenv("ENV"))

	// 1. Load configuration
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("Warning: no .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Msgf("Error loading config: %v", err)
	}
	log = logger.New(cfg.Environment)

	// 2. Build router (and get DB connection)
	r, db, err := router.New(cfg, log)
	if err != nil {
		log.Fatal().Msgf("Failed to build router: %v", err)
	}
	defer db.Close()

	// 3. Create HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
		// Multipart video uploads need a long read window.
		ReadTimeout:       10 * time.Minute,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// 4. Start server in a goroutine
	go func() {
		log.Info().Msgf("Server starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Msgf("Listen: %s", err)
		}
	}()

	// 5. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutdown signal received, exiting...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Msgf("Server forced to shutdown: %v", err)
	}
	log.Info().Msg("Server shut down gracefully")
}
