package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"expenso/internal/api"
	"expenso/internal/api/handlers"
	"expenso/internal/repository"
	"expenso/internal/service"
	"expenso/pkg/config"
	"expenso/pkg/logger"
	"expenso/pkg/sqlite"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.App.LogLevel, cfg.App.Env); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	appLogger := logger.Get()
	appLogger.Info("Starting expenso service", zap.String("environment", cfg.App.Env))

	db, err := sqlite.Open(cfg.Database.Path, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to open database", zap.Error(err))
	}
	defer db.Close()

	expenseRepo := repository.NewExpenseRepository(db, appLogger)
	expenseService := service.NewExpenseService(
		expenseRepo,
		cfg.Pagination.DefaultPageSize,
		cfg.Pagination.MaxPageSize,
		appLogger,
	)
	expenseHandler := handlers.NewExpenseHandler(expenseService, appLogger)

	app := api.SetupRouter(expenseHandler, cfg, appLogger)

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
