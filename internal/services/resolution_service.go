package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"prediction-engine/internal/models"
	"prediction-engine/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ResolutionResult reports how many wagers a resolution settled
type ResolutionResult struct {
	AffectedWagers int   `json:"affected_wagers"`
	TotalPool      int64 `json:"total_pool"`
	WinningPool    int64 `json:"winning_pool"`
}

// ResolutionService marks a prediction resulted, settles every wager
// through the payout calculator and credits the winners' balances.
//
// The whole operation runs inside one database transaction, so a
// failure mid-settlement rolls everything back and the prediction is
// never left resulted with unsettled wagers. Replaying a resolution is
// safe twice over: settled wagers are skipped by the points_earned
// guard, and the final compare-and-set to resulted fails the entire
// transaction when another resolve already won.
type ResolutionService struct {
	repo   *repository.Repository
	payout *PayoutService
	broker *StatsBroker
	mu     sync.Mutex
}

// NewResolutionService creates a new resolution service
func NewResolutionService(repo *repository.Repository, payout *PayoutService, broker *StatsBroker) *ResolutionService {
	return &ResolutionService{
		repo:   repo,
		payout: payout,
		broker: broker,
	}
}

// Resolve declares winningOptionID the outcome of a prediction and pays
// the winners. Immediate resolution from open is permitted; resulted
// and cancelled predictions are rejected with ErrInvalidTransition.
func (s *ResolutionService) Resolve(
	ctx context.Context,
	predictionID uuid.UUID,
	winningOptionID uuid.UUID,
	adminID uint,
) (*ResolutionResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := &ResolutionResult{}

	err := s.repo.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		prediction, err := txRepo.GetPredictionByID(ctx, predictionID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPredictionNotFound
			}
			return fmt.Errorf("%w: load prediction: %v", ErrStoreUnavailable, err)
		}

		if prediction.Status != models.PredictionStatusOpen &&
			prediction.Status != models.PredictionStatusClosed {
			return ErrInvalidTransition
		}

		if !prediction.HasOption(winningOptionID) {
			return ErrInvalidOption
		}

		wagers, err := txRepo.GetWagersByPrediction(ctx, predictionID)
		if err != nil {
			return fmt.Errorf("%w: load wagers: %v", ErrStoreUnavailable, err)
		}

		totalPool, winningPool := s.payout.PoolTotals(wagers, winningOptionID)
		result.TotalPool = totalPool
		result.WinningPool = winningPool

		for i := range wagers {
			wager := &wagers[i]

			var payout int64
			won := wager.SelectedOptionID == winningOptionID
			if won {
				payout, err = s.payout.ComputePayout(prediction, wager, winningOptionID, totalPool, winningPool)
				if err != nil {
					return fmt.Errorf("compute payout for wager %s: %w", wager.ID, err)
				}
			}

			settled, err := txRepo.SettleWager(ctx, wager.ID, payout, won)
			if err != nil {
				return fmt.Errorf("%w: settle wager %s: %v", ErrStoreUnavailable, wager.ID, err)
			}
			if settled == 0 {
				// Already settled by an earlier partial attempt
				continue
			}
			result.AffectedWagers++

			if payout > 0 {
				if _, err := txRepo.CreditBalance(ctx, wager.UserID, payout); err != nil {
					return fmt.Errorf("%w: credit user %d: %v", ErrStoreUnavailable, wager.UserID, err)
				}

				ledgerEntry := &models.PointsTransaction{
					UserID:      wager.UserID,
					Type:        "bet_won",
					Amount:      payout,
					Description: fmt.Sprintf("Winnings for prediction %s", predictionID),
				}
				if err := txRepo.CreatePointsTransaction(ctx, ledgerEntry); err != nil {
					return fmt.Errorf("%w: record ledger entry: %v", ErrStoreUnavailable, err)
				}
			}
		}

		// The compare-and-set is the commit point: if a concurrent
		// resolve already moved the prediction out of open/closed, zero
		// rows match and every settlement above rolls back with us.
		affected, err := txRepo.TransitionPredictionStatus(ctx, predictionID,
			[]models.PredictionStatus{models.PredictionStatusOpen, models.PredictionStatusClosed},
			map[string]interface{}{
				"status":            models.PredictionStatusResulted,
				"winning_option_id": winningOptionID,
				"resolved_at":       gorm.Expr("CURRENT_TIMESTAMP"),
			})
		if err != nil {
			return fmt.Errorf("%w: mark resulted: %v", ErrStoreUnavailable, err)
		}
		if affected == 0 {
			return ErrInvalidTransition
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[ResolutionService] Admin %d resolved prediction %s: winner=%s, wagers=%d, pool=%d/%d",
		adminID, predictionID, winningOptionID, result.AffectedWagers, result.WinningPool, result.TotalPool)

	// Final snapshot for live subscribers
	s.broker.Publish(ctx, predictionID)

	return result, nil
}
