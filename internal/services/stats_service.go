package services

import (
	"context"
	"errors"
	"fmt"

	"prediction-engine/internal/models"
	"prediction-engine/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var oneRatio = decimal.NewFromInt(1)

// StatsService computes the live distribution of wagers for a
// prediction. It holds no state of its own: every call re-derives the
// numbers from the wager set, so a stats snapshot is always consistent
// with the store at read time.
type StatsService struct {
	repo *repository.Repository
}

// NewStatsService creates a new stats service
func NewStatsService(repo *repository.Repository) *StatsService {
	return &StatsService{repo: repo}
}

// ComputeStats aggregates all wagers on a prediction into per-option
// totals, pool percentages and payout ratios. Options with no wagers
// appear with zero stats and a ratio of 1.
func (s *StatsService) ComputeStats(ctx context.Context, predictionID uuid.UUID) (*models.PredictionStats, error) {
	prediction, err := s.repo.GetPredictionByID(ctx, predictionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPredictionNotFound
		}
		return nil, fmt.Errorf("%w: load prediction: %v", ErrStoreUnavailable, err)
	}

	wagers, err := s.repo.GetWagersByPrediction(ctx, predictionID)
	if err != nil {
		return nil, fmt.Errorf("%w: load wagers: %v", ErrStoreUnavailable, err)
	}

	stats := &models.PredictionStats{
		PredictionID:      predictionID,
		TotalParticipants: len(wagers),
		Options:           make([]models.OptionStats, 0, len(prediction.Options)),
	}

	type group struct {
		total     int64
		count     int
		biggest   int64
		topBettor uint
	}
	groups := make(map[uuid.UUID]*group, len(prediction.Options))

	for _, wager := range wagers {
		stats.TotalPool += wager.PointsWagered

		g, ok := groups[wager.SelectedOptionID]
		if !ok {
			g = &group{}
			groups[wager.SelectedOptionID] = g
		}
		g.total += wager.PointsWagered
		g.count++
		if wager.PointsWagered > g.biggest {
			g.biggest = wager.PointsWagered
			g.topBettor = wager.UserID
		}
	}

	var topBettorIDs []uint
	for _, g := range groups {
		if g.topBettor != 0 {
			topBettorIDs = append(topBettorIDs, g.topBettor)
		}
	}

	names, err := s.repo.GetUsernames(ctx, topBettorIDs)
	if err != nil {
		return nil, fmt.Errorf("%w: resolve top bettors: %v", ErrStoreUnavailable, err)
	}

	totalPool := decimal.NewFromInt(stats.TotalPool)

	for _, option := range prediction.Options {
		optStats := models.OptionStats{
			OptionID:   option.ID,
			Label:      option.Label,
			Percentage: decimal.Zero,
			Ratio:      oneRatio,
		}

		if g, ok := groups[option.ID]; ok {
			optStats.TotalWagered = g.total
			optStats.ParticipantCount = g.count
			optStats.BiggestBet = g.biggest
			optStats.TopBettorID = g.topBettor
			optStats.TopBettor = names[g.topBettor]

			wagered := decimal.NewFromInt(g.total)
			if stats.TotalPool > 0 {
				optStats.Percentage = wagered.Div(totalPool).Mul(decimal.NewFromInt(100)).Round(2)
			}
			if g.total > 0 {
				optStats.Ratio = totalPool.Div(wagered).Round(4)
			}
		}

		stats.Options = append(stats.Options, optStats)
	}

	return stats, nil
}
