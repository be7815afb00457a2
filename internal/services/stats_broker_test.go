package services

import (
	"context"
	"fmt"
	"testing"

	"prediction-engine/internal/models"
)

func TestStatsBrokerPushesOnPlacement(t *testing.T) {
	db, svcs := newTestServices(t)

	prediction := createTestPrediction(t, svcs.predictions, models.CalculationModePoolRatio, 10, 1000, "", "")
	other := createTestPrediction(t, svcs.predictions, models.CalculationModePoolRatio, 10, 1000, "", "")

	var received []*models.PredictionStats
	unsubscribe := svcs.broker.Subscribe(prediction.ID, func(stats *models.PredictionStats) {
		received = append(received, stats)
	})
	defer unsubscribe()

	alice := createTestUser(t, db, "alice", 1000)
	bob := createTestUser(t, db, "bob", 1000)

	mustPlace(t, svcs, alice.ID, prediction, prediction.Options[0].ID, 100)
	mustPlace(t, svcs, bob.ID, prediction, prediction.Options[1].ID, 200)

	// A wager on a different prediction must not reach this subscriber
	mustPlace(t, svcs, alice.ID, other, other.Options[0].ID, 50)

	if len(received) != 2 {
		t.Fatalf("expected 2 snapshots, got %d", len(received))
	}
	if received[0].TotalPool != 100 {
		t.Errorf("first snapshot: got pool %d, want 100", received[0].TotalPool)
	}
	if received[1].TotalPool != 300 || received[1].TotalParticipants != 2 {
		t.Errorf("second snapshot: got pool=%d participants=%d, want 300/2",
			received[1].TotalPool, received[1].TotalParticipants)
	}
}

func TestStatsBrokerUnsubscribe(t *testing.T) {
	db, svcs := newTestServices(t)

	prediction := createTestPrediction(t, svcs.predictions, models.CalculationModePoolRatio, 10, 1000, "", "")
	user := createTestUser(t, db, "wallet-1", 1000)

	calls := 0
	unsubscribe := svcs.broker.Subscribe(prediction.ID, func(*models.PredictionStats) {
		calls++
	})

	mustPlace(t, svcs, user.ID, prediction, prediction.Options[0].ID, 100)

	unsubscribe()
	unsubscribe() // second call is a no-op

	other := createTestUser(t, db, "wallet-2", 1000)
	mustPlace(t, svcs, other.ID, prediction, prediction.Options[0].ID, 100)

	if calls != 1 {
		t.Errorf("expected 1 callback before unsubscribe, got %d", calls)
	}
}

func TestStatsBrokerPushesOnResolution(t *testing.T) {
	db, svcs := newTestServices(t)
	ctx := context.Background()

	prediction := createTestPrediction(t, svcs.predictions, models.CalculationModePoolRatio, 10, 1000, "", "")
	user := createTestUser(t, db, "wallet-1", 1000)
	mustPlace(t, svcs, user.ID, prediction, prediction.Options[0].ID, 100)

	snapshots := 0
	unsubscribe := svcs.broker.Subscribe(prediction.ID, func(*models.PredictionStats) {
		snapshots++
	})
	defer unsubscribe()

	if _, err := svcs.resolution.Resolve(ctx, prediction.ID, prediction.Options[0].ID, 1); err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	if snapshots != 1 {
		t.Errorf("expected a final snapshot after resolution, got %d", snapshots)
	}
}

func BenchmarkComputeStats(b *testing.B) {
	db, svcs := newTestServices(b)
	ctx := context.Background()

	prediction := createTestPrediction(b, svcs.predictions, models.CalculationModePoolRatio, 1, 100000, "", "", "", "")

	for i := 0; i < 200; i++ {
		user := &models.User{
			WalletAddress: fmt.Sprintf("wallet-%d", i),
			Username:      fmt.Sprintf("user-%d", i),
			PointsBalance: 100000,
		}
		if err := db.Create(user).Error; err != nil {
			b.Fatalf("create user: %v", err)
		}
		option := prediction.Options[i%len(prediction.Options)]
		if _, err := svcs.bets.PlaceBet(ctx, user.ID, prediction.ID, option.ID, int64(i+1)); err != nil {
			b.Fatalf("place bet: %v", err)
		}
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := svcs.stats.ComputeStats(ctx, prediction.ID); err != nil {
			b.Fatalf("ComputeStats failed: %v", err)
		}
	}
}
