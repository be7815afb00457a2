package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"prediction-engine/internal/models"
	"prediction-engine/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BetService validates and records a user's single wager against a
// prediction. Placement never debits the balance: the check against the
// current balance is advisory, and points only move when resolution
// credits the winners. Losing wagers leave the balance untouched.
type BetService struct {
	repo   *repository.Repository
	broker *StatsBroker
}

// NewBetService creates a new bet service
func NewBetService(repo *repository.Repository, broker *StatsBroker) *BetService {
	return &BetService{repo: repo, broker: broker}
}

// PlaceBet checks the placement preconditions in order, failing fast on
// the first violation, and inserts exactly one wager. The one-wager-per-
// user rule is enforced by the store's unique index rather than a
// read-then-write check, so concurrent duplicates cannot both land.
func (s *BetService) PlaceBet(
	ctx context.Context,
	userID uint,
	predictionID uuid.UUID,
	optionID uuid.UUID,
	amount int64,
) (*models.Wager, error) {
	prediction, err := s.repo.GetPredictionByID(ctx, predictionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPredictionNotFound
		}
		return nil, fmt.Errorf("%w: load prediction: %v", ErrStoreUnavailable, err)
	}

	if !Placeable(prediction, time.Now()) {
		return nil, ErrPredictionNotOpen
	}

	if !prediction.HasOption(optionID) {
		return nil, ErrInvalidOption
	}

	if amount < prediction.MinBet || amount > prediction.MaxBet {
		return nil, ErrBetOutOfRange
	}

	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %d not found", userID)
		}
		return nil, fmt.Errorf("%w: load user: %v", ErrStoreUnavailable, err)
	}

	if amount > user.PointsBalance {
		return nil, ErrInsufficientBalance
	}

	wager := &models.Wager{
		ID:               uuid.New(),
		UserID:           userID,
		PredictionID:     predictionID,
		SelectedOptionID: optionID,
		PointsWagered:    amount,
	}

	if err := s.repo.CreateWager(ctx, wager); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateWager
		}
		return nil, fmt.Errorf("%w: create wager: %v", ErrStoreUnavailable, err)
	}

	log.Printf("[BetService] User %d wagered %d on option %s of prediction %s",
		userID, amount, optionID, predictionID)

	// Push a fresh stats snapshot to live subscribers
	s.broker.Publish(ctx, predictionID)

	return wager, nil
}

// GetUserWager retrieves the caller's wager on a prediction, if any
func (s *BetService) GetUserWager(ctx context.Context, userID uint, predictionID uuid.UUID) (*models.Wager, error) {
	wager, err := s.repo.GetWager(ctx, userID, predictionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: load wager: %v", ErrStoreUnavailable, err)
	}
	return wager, nil
}
