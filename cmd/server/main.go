package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"

	"jobpilot/internal/api/routes"
	"jobpilot/internal/config"
	"jobpilot/internal/llm"
	"jobpilot/internal/logging"
	"jobpilot/internal/session"
	"jobpilot/internal/store"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig("configs/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logging
	if err := logging.InitializeLogging(cfg); err != nil {
		log.Fatalf("Failed to initialize logging: %v", err)
	}
	defer logging.CloseLogging()

	logger := logging.GetGlobalLogger()
	logger.Info("Starting JobPilot Application Engine")

	// Initialize outcome store
	outcomeStore := store.NewRedisStore(cfg)
	defer outcomeStore.Close()

	// Initialize LLM manager
	llmManager := llm.NewManager(cfg)
	if err := llmManager.Start(); err != nil {
		logger.Fatal("Failed to start LLM manager", map[string]interface{}{
			"error": err.Error(),
		})
	}

	// Initialize session manager
	sessionManager := session.NewManager(cfg, llmManager, outcomeStore)
	ctx := context.Background()
	if err := sessionManager.Start(ctx); err != nil {
		logger.Fatal("Failed to start session manager", map[string]interface{}{
			"error": err.Error(),
		})
	}

	// Initialize Echo
	e := echo.New()
	e.HideBanner = true

	// Setup routes
	routes.SetupRoutes(e, cfg, sessionManager, outcomeStore, llmManager)

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		// Stop the session manager first so in-flight applications wind
		// down before their dependencies go away
		logger.Info("Stopping session manager...")
		if err := sessionManager.Stop(shutdownCtx); err != nil {
			logger.Error("Error stopping session manager", map[string]interface{}{
				"error": err.Error(),
			})
		}

		logger.Info("Stopping LLM manager...")
		if err := llmManager.Stop(); err != nil {
			logger.Error("Error stopping LLM manager", map[string]interface{}{
				"error": err.Error(),
			})
		}

		logger.Info("Stopping HTTP server...")
		if err := e.Shutdown(shutdownCtx); err != nil {
			logger.Error("Error shutting down server", map[string]interface{}{
				"error": err.Error(),
			})
		}

		logger.Info("Server shutdown complete")
	}()

	// Start server
	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("Server starting", map[string]interface{}{
		"address": address,
	})

	if err := e.Start(address); err != nil {
		logger.Info("Server stopped", map[string]interface{}{
			"reason": err.Error(),
		})
	}
}
