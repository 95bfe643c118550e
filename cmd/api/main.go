package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gsaikumar-123/Personal-Finance-Assistant/internal/api"
	"github.com/gsaikumar-123/Personal-Finance-Assistant/internal/api/handlers"
	"github.com/gsaikumar-123/Personal-Finance-Assistant/internal/gemini"
	"github.com/gsaikumar-123/Personal-Finance-Assistant/internal/repository"
	"github.com/gsaikumar-123/Personal-Finance-Assistant/internal/service"
	"github.com/gsaikumar-123/Personal-Finance-Assistant/internal/upload"
	"github.com/gsaikumar-123/Personal-Finance-Assistant/pkg/auth"
	"github.com/gsaikumar-123/Personal-Finance-Assistant/pkg/config"
	"github.com/gsaikumar-123/Personal-Finance-Assistant/pkg/logger"
	"github.com/gsaikumar-123/Personal-Finance-Assistant/pkg/postgres"

	"go.uber.org/zap"
)

// @title Personal Finance Assistant API
// @version 1.0
// @description REST API for tracking income and expenses, with receipt-to-transaction extraction via the Gemini vision model.

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logger.Level); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	appLogger := logger.Get()
	appLogger.Info("Starting Personal Finance Assistant")

	ctx := context.Background()
	db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	userRepo := repository.NewUserRepository(db, appLogger)
	txRepo := repository.NewTransactionRepository(db, appLogger)

	jwtManager := auth.NewJWTManager(cfg.JWT.SecretKey, cfg.JWT.Expiration)

	uploads, err := upload.NewStore(cfg.Upload.Dir, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to prepare upload directory", zap.Error(err))
	}

	geminiClient := gemini.NewClient(cfg.Gemini.APIKey, appLogger)
	if !geminiClient.Configured() {
		appLogger.Warn("Gemini API key not configured, receipt extraction will return demo data")
	}

	authService := service.NewAuthService(userRepo, jwtManager, appLogger)
	txService := service.NewTransactionService(txRepo, appLogger)
	receiptService := service.NewReceiptService(uploads, geminiClient, txRepo, appLogger)

	authHandler := handlers.NewAuthHandler(authService, appLogger)
	txHandler := handlers.NewTransactionHandler(txService, appLogger)
	receiptHandler := handlers.NewReceiptHandler(receiptService, appLogger)

	app := api.SetupRouter(authHandler, txHandler, receiptHandler, jwtManager, appLogger)

	go func() {
		addr := ":" + cfg.Server.Port
		appLogger.Info("Server starting", zap.String("address", addr))
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server")
	if err := app.Shutdown(); err != nil {
		appLogger.Error("Server shutdown error", zap.Error(err))
	}
}
