package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"prediction-engine/internal/models"
	"prediction-engine/internal/repository"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testServices struct {
	repo        *repository.Repository
	predictions *PredictionService
	bets        *BetService
	stats       *StatsService
	broker      *StatsBroker
	payout      *PayoutService
	resolution  *ResolutionService
	users       *UserService
}

func setupTestDB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Discard,
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.PointsTransaction{},
		&models.Prediction{},
		&models.PredictionOption{},
		&models.Wager{},
	)
	if err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}

	return db
}

func newTestServices(t testing.TB) (*gorm.DB, *testServices) {
	t.Helper()

	db := setupTestDB(t)
	repo := repository.NewRepository(db)

	stats := NewStatsService(repo)
	broker := NewStatsBroker(stats)
	payout := NewPayoutService()

	return db, &testServices{
		repo:        repo,
		predictions: NewPredictionService(repo),
		bets:        NewBetService(repo, broker),
		stats:       stats,
		broker:      broker,
		payout:      payout,
		resolution:  NewResolutionService(repo, payout, broker),
		users:       NewUserService(repo, 1000),
	}
}

func createTestUser(t testing.TB, db *gorm.DB, wallet string, balance int64) *models.User {
	t.Helper()

	user := &models.User{
		WalletAddress: wallet,
		Username:      wallet,
		PointsBalance: balance,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user %s: %v", wallet, err)
	}
	return user
}

// createTestPrediction creates an open prediction with one option per
// odds string, min bet 10 and max bet 1000 unless overridden
func createTestPrediction(
	t testing.TB,
	svc *PredictionService,
	mode models.CalculationMode,
	minBet, maxBet int64,
	odds ...string,
) *models.Prediction {
	t.Helper()

	options := make([]models.CreateOptionRequest, 0, len(odds))
	for i, o := range odds {
		options = append(options, models.CreateOptionRequest{
			Label: fmt.Sprintf("Option %d", i+1),
			Odds:  o,
		})
	}

	req := &models.CreatePredictionRequest{
		Title:           "Test prediction",
		CalculationMode: string(mode),
		MinBet:          minBet,
		MaxBet:          maxBet,
		StartDate:       time.Now().Add(2 * time.Hour),
		CloseDate:       time.Now().Add(1 * time.Hour),
		Options:         options,
	}

	prediction, err := svc.CreatePrediction(context.Background(), req, nil)
	if err != nil {
		t.Fatalf("failed to create prediction: %v", err)
	}
	return prediction
}
