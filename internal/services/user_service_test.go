package services

import (
	"context"
	"testing"

	"prediction-engine/internal/models"
)

func TestProcessWalletLogin(t *testing.T) {
	db, svcs := newTestServices(t)
	ctx := context.Background()

	user, err := svcs.users.ProcessWalletLogin(ctx, "0xabc123")
	if err != nil {
		t.Fatalf("ProcessWalletLogin failed: %v", err)
	}

	if user.PointsBalance != 1000 {
		t.Errorf("new user balance: got %d, want signup balance 1000", user.PointsBalance)
	}
	if user.Username == "" {
		t.Errorf("new user got no username")
	}

	var bonusCount int64
	db.Model(&models.PointsTransaction{}).
		Where("user_id = ? AND type = ?", user.ID, "signup_bonus").
		Count(&bonusCount)
	if bonusCount != 1 {
		t.Errorf("expected 1 signup_bonus ledger entry, got %d", bonusCount)
	}

	// A repeat login returns the same user without a second bonus
	again, err := svcs.users.ProcessWalletLogin(ctx, "0xabc123")
	if err != nil {
		t.Fatalf("repeat ProcessWalletLogin failed: %v", err)
	}
	if again.ID != user.ID {
		t.Errorf("repeat login created a new user: %d vs %d", again.ID, user.ID)
	}

	db.Model(&models.PointsTransaction{}).
		Where("user_id = ? AND type = ?", user.ID, "signup_bonus").
		Count(&bonusCount)
	if bonusCount != 1 {
		t.Errorf("repeat login duplicated the signup bonus: %d entries", bonusCount)
	}
}

func TestCreditBalance(t *testing.T) {
	db, svcs := newTestServices(t)
	ctx := context.Background()

	user := createTestUser(t, db, "wallet-1", 100)

	newBalance, err := svcs.users.CreditBalance(ctx, user.ID, 250)
	if err != nil {
		t.Fatalf("CreditBalance failed: %v", err)
	}
	if newBalance != 350 {
		t.Errorf("got balance %d, want 350", newBalance)
	}

	if _, err := svcs.users.CreditBalance(ctx, user.ID, -10); err == nil {
		t.Errorf("expected negative credit to be rejected")
	}
}

func TestGetUserWagers(t *testing.T) {
	db, svcs := newTestServices(t)
	ctx := context.Background()

	user := createTestUser(t, db, "wallet-1", 1000)
	first := createTestPrediction(t, svcs.predictions, models.CalculationModePoolRatio, 10, 1000, "", "")
	second := createTestPrediction(t, svcs.predictions, models.CalculationModePoolRatio, 10, 1000, "", "")

	mustPlace(t, svcs, user.ID, first, first.Options[0].ID, 100)
	mustPlace(t, svcs, user.ID, second, second.Options[1].ID, 200)

	wagers, err := svcs.users.GetUserWagers(ctx, user.ID, 50, 0)
	if err != nil {
		t.Fatalf("GetUserWagers failed: %v", err)
	}
	if len(wagers) != 2 {
		t.Errorf("expected 2 wagers, got %d", len(wagers))
	}
}
