// Command seed fills the database with a small realistic expense set for
// local development.
package main

import (
	"context"
	"log"
	"time"

	"expenso/internal/models"
	"expenso/internal/repository"
	"expenso/pkg/config"
	"expenso/pkg/logger"
	"expenso/pkg/sqlite"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.App.LogLevel, cfg.App.Env); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	appLogger := logger.Get()

	db, err := sqlite.Open(cfg.Database.Path, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to open database", zap.Error(err))
	}
	defer db.Close()

	expenseRepo := repository.NewExpenseRepository(db, appLogger)

	appLogger.Info("Seeding sample expenses...")

	ctx := context.Background()
	now := time.Now().UTC()
	samples := []models.NewExpense{
		{Name: "Coffee", Amount: decimal.NewFromFloat(4.50), Currency: "USD", Category: "Food", Date: daysAgo(now, 1)},
		{Name: "Groceries", Amount: decimal.NewFromFloat(62.10), Currency: "USD", Category: "Food", Date: daysAgo(now, 2)},
		{Name: "Lunch", Amount: decimal.NewFromFloat(12.80), Currency: "USD", Category: "Food", Date: daysAgo(now, 3)},
		{Name: "Metro card", Amount: decimal.NewFromFloat(30.00), Currency: "USD", Category: "Transport", Date: daysAgo(now, 4)},
		{Name: "Taxi", Amount: decimal.NewFromFloat(18.25), Currency: "USD", Category: "Transport", Date: daysAgo(now, 6)},
		{Name: "Cinema", Amount: decimal.NewFromFloat(15.00), Currency: "USD", Category: "Entertainment", Date: daysAgo(now, 7)},
		{Name: "Electricity bill", Amount: decimal.NewFromFloat(84.32), Currency: "USD", Category: "Utilities", Date: daysAgo(now, 10)},
		{Name: "Flight to Lisbon", Amount: decimal.NewFromFloat(213.99), Currency: "EUR", Category: "Travel", Date: daysAgo(now, 14)},
	}

	for _, s := range samples {
		created, err := expenseRepo.Create(ctx, &s)
		if err != nil {
			appLogger.Fatal("Failed to seed expense", zap.String("name", s.Name), zap.Error(err))
		}
		appLogger.Info("Seeded expense",
			zap.Int64("id", created.ID),
			zap.String("name", created.Name),
			zap.String("amount", created.Amount.String()),
		)
	}

	appLogger.Info("Seeding completed", zap.Int("count", len(samples)))
}

func daysAgo(now time.Time, days int) *time.Time {
	t := now.AddDate(0, 0, -days)
	return &t
}
