package services

import (
	"fmt"

	"prediction-engine/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PayoutService computes per-wager winnings for a resulted prediction.
// All payouts truncate toward zero: fractional points are never awarded
// and the rounding residue stays in the pool rather than being
// redistributed.
type PayoutService struct{}

// NewPayoutService creates a new payout service
func NewPayoutService() *PayoutService {
	return &PayoutService{}
}

// PoolTotals sums the full pool and the winning option's sub-pool
func (ps *PayoutService) PoolTotals(wagers []models.Wager, winningOptionID uuid.UUID) (totalPool, winningPool int64) {
	for _, wager := range wagers {
		totalPool += wager.PointsWagered
		if wager.SelectedOptionID == winningOptionID {
			winningPool += wager.PointsWagered
		}
	}
	return totalPool, winningPool
}

// ComputePayout returns the points earned by a single winning wager.
//
// Under fixed_odds the multiplier is the winning option's odds string,
// fixed at creation and independent of pool size. Under pool_ratio the
// entire pool, losing wagers included, is redistributed proportionally
// among the winners: ratio = totalPool / winningPool, falling back to 1
// when the winning sub-pool is empty.
func (ps *PayoutService) ComputePayout(
	prediction *models.Prediction,
	wager *models.Wager,
	winningOptionID uuid.UUID,
	totalPool, winningPool int64,
) (int64, error) {
	stake := decimal.NewFromInt(wager.PointsWagered)

	switch prediction.CalculationMode {
	case models.CalculationModeFixedOdds:
		option := prediction.Option(winningOptionID)
		if option == nil {
			return 0, ErrInvalidOption
		}
		odds, err := decimal.NewFromString(option.Odds)
		if err != nil {
			return 0, fmt.Errorf("invalid odds %q on option %s: %w", option.Odds, option.ID, err)
		}
		return stake.Mul(odds).Floor().IntPart(), nil

	case models.CalculationModePoolRatio:
		if winningPool <= 0 {
			return wager.PointsWagered, nil
		}
		ratio := decimal.NewFromInt(totalPool).Div(decimal.NewFromInt(winningPool))
		return stake.Mul(ratio).Floor().IntPart(), nil

	default:
		return 0, fmt.Errorf("unknown calculation mode %q", prediction.CalculationMode)
	}
}
