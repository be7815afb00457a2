package services

import (
	"context"
	"fmt"
	"testing"

	"prediction-engine/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func TestComputeStats(t *testing.T) {
	db, svcs := newTestServices(t)
	ctx := context.Background()

	prediction := createTestPrediction(t, svcs.predictions, models.CalculationModePoolRatio, 10, 1000, "", "", "")
	optionA := prediction.Options[0]
	optionB := prediction.Options[1]

	alice := createTestUser(t, db, "alice", 1000)
	bob := createTestUser(t, db, "bob", 1000)
	carol := createTestUser(t, db, "carol", 1000)

	// Option A: 100 total (alice 40, bob 60); option B: 300 (carol)
	mustPlace(t, svcs, alice.ID, prediction, optionA.ID, 40)
	mustPlace(t, svcs, bob.ID, prediction, optionA.ID, 60)
	mustPlace(t, svcs, carol.ID, prediction, optionB.ID, 300)

	stats, err := svcs.stats.ComputeStats(ctx, prediction.ID)
	if err != nil {
		t.Fatalf("ComputeStats failed: %v", err)
	}

	if stats.TotalPool != 400 {
		t.Errorf("expected total pool 400, got %d", stats.TotalPool)
	}
	if stats.TotalParticipants != 3 {
		t.Errorf("expected 3 participants, got %d", stats.TotalParticipants)
	}
	if len(stats.Options) != 3 {
		t.Fatalf("expected stats for all 3 options, got %d", len(stats.Options))
	}

	statsA := stats.Options[0]
	if statsA.TotalWagered != 100 || statsA.ParticipantCount != 2 {
		t.Errorf("option A: got total=%d participants=%d, want 100/2", statsA.TotalWagered, statsA.ParticipantCount)
	}
	if !statsA.Percentage.Equal(decimal.NewFromInt(25)) {
		t.Errorf("option A: expected 25%% of pool, got %s", statsA.Percentage)
	}
	if !statsA.Ratio.Equal(decimal.NewFromInt(4)) {
		t.Errorf("option A: expected ratio 4, got %s", statsA.Ratio)
	}
	if statsA.BiggestBet != 60 || statsA.TopBettor != "bob" {
		t.Errorf("option A: expected bob's 60 as biggest bet, got %d by %q", statsA.BiggestBet, statsA.TopBettor)
	}

	statsB := stats.Options[1]
	if !statsB.Percentage.Equal(decimal.NewFromInt(75)) {
		t.Errorf("option B: expected 75%% of pool, got %s", statsB.Percentage)
	}
	if statsB.TopBettor != "carol" {
		t.Errorf("option B: expected carol as top bettor, got %q", statsB.TopBettor)
	}

	// The option with no wagers still shows up, all-zero with ratio 1
	statsC := stats.Options[2]
	if statsC.TotalWagered != 0 || statsC.ParticipantCount != 0 || statsC.BiggestBet != 0 {
		t.Errorf("option C: expected all-zero stats, got %+v", statsC)
	}
	if !statsC.Percentage.Equal(decimal.Zero) {
		t.Errorf("option C: expected 0%%, got %s", statsC.Percentage)
	}
	if !statsC.Ratio.Equal(decimal.NewFromInt(1)) {
		t.Errorf("option C: expected ratio 1, got %s", statsC.Ratio)
	}
}

func TestComputeStatsEmptyPool(t *testing.T) {
	_, svcs := newTestServices(t)
	ctx := context.Background()

	prediction := createTestPrediction(t, svcs.predictions, models.CalculationModePoolRatio, 10, 1000, "", "")

	stats, err := svcs.stats.ComputeStats(ctx, prediction.ID)
	if err != nil {
		t.Fatalf("ComputeStats failed: %v", err)
	}

	if stats.TotalPool != 0 || stats.TotalParticipants != 0 {
		t.Errorf("expected empty pool, got pool=%d participants=%d", stats.TotalPool, stats.TotalParticipants)
	}
	for _, opt := range stats.Options {
		if !opt.Percentage.Equal(decimal.Zero) || !opt.Ratio.Equal(decimal.NewFromInt(1)) {
			t.Errorf("option %s: expected 0%%/ratio 1 for empty pool, got %s/%s", opt.OptionID, opt.Percentage, opt.Ratio)
		}
	}
}

func TestComputeStatsPercentagesSumTo100(t *testing.T) {
	db, svcs := newTestServices(t)
	ctx := context.Background()

	prediction := createTestPrediction(t, svcs.predictions, models.CalculationModePoolRatio, 1, 10000, "", "", "")

	// Amounts chosen so the percentages don't divide evenly
	amounts := []int64{7, 13, 29, 101, 503}
	for i, amount := range amounts {
		user := createTestUser(t, db, fmt.Sprintf("user-%d", i), 10000)
		option := prediction.Options[i%len(prediction.Options)]
		mustPlace(t, svcs, user.ID, prediction, option.ID, amount)
	}

	stats, err := svcs.stats.ComputeStats(ctx, prediction.ID)
	if err != nil {
		t.Fatalf("ComputeStats failed: %v", err)
	}

	sum := decimal.Zero
	for _, opt := range stats.Options {
		sum = sum.Add(opt.Percentage)
	}

	// Rounded to two decimals per option, so allow a small tolerance
	diff := sum.Sub(decimal.NewFromInt(100)).Abs()
	if diff.GreaterThan(decimal.NewFromFloat(0.05)) {
		t.Errorf("percentages sum to %s, want ~100", sum)
	}
}

func mustPlace(t *testing.T, svcs *testServices, userID uint, prediction *models.Prediction, optionID uuid.UUID, amount int64) {
	t.Helper()

	if _, err := svcs.bets.PlaceBet(context.Background(), userID, prediction.ID, optionID, amount); err != nil {
		t.Fatalf("PlaceBet failed: %v", err)
	}
}
