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
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PredictionService owns the prediction lifecycle: open -> closed ->
// resulted, with cancellation possible from open or closed. Terminal
// states are never left. Transitions are compare-and-set updates at the
// store, so concurrent admin actions cannot race each other into an
// invalid state.
type PredictionService struct {
	repo *repository.Repository
}

// NewPredictionService creates a new prediction service
func NewPredictionService(repo *repository.Repository) *PredictionService {
	return &PredictionService{repo: repo}
}

// CreatePrediction validates and stores a new prediction with its options
func (s *PredictionService) CreatePrediction(
	ctx context.Context,
	req *models.CreatePredictionRequest,
	createdBy *uint,
) (*models.Prediction, error) {
	mode := models.CalculationMode(req.CalculationMode)
	if mode != models.CalculationModeFixedOdds && mode != models.CalculationModePoolRatio {
		return nil, fmt.Errorf("invalid calculation mode %q", req.CalculationMode)
	}

	if req.MinBet <= 0 || req.MinBet > req.MaxBet {
		return nil, errors.New("min bet must be positive and not exceed max bet")
	}

	// Wagering stops at the close date, which must not be after the
	// event itself begins
	if req.CloseDate.After(req.StartDate) {
		return nil, errors.New("close date must not be after start date")
	}

	if len(req.Options) < 2 {
		return nil, errors.New("a prediction needs at least two options")
	}

	prediction := &models.Prediction{
		ID:              uuid.New(),
		Title:           req.Title,
		Description:     req.Description,
		Status:          models.PredictionStatusOpen,
		CalculationMode: mode,
		MinBet:          req.MinBet,
		MaxBet:          req.MaxBet,
		StartDate:       req.StartDate,
		CloseDate:       req.CloseDate,
		CreatedBy:       createdBy,
	}

	for i, opt := range req.Options {
		odds := opt.Odds
		if odds == "" {
			odds = "1.00"
		}
		parsed, err := decimal.NewFromString(odds)
		if err != nil || parsed.LessThanOrEqual(decimal.Zero) {
			return nil, fmt.Errorf("invalid odds %q for option %q", opt.Odds, opt.Label)
		}

		prediction.Options = append(prediction.Options, models.PredictionOption{
			ID:           uuid.New(),
			PredictionID: prediction.ID,
			Label:        opt.Label,
			Odds:         odds,
			Position:     i,
		})
	}

	if err := s.repo.CreatePrediction(ctx, prediction); err != nil {
		return nil, fmt.Errorf("%w: create prediction: %v", ErrStoreUnavailable, err)
	}

	log.Printf("[PredictionService] Created prediction %s (%s, %d options)",
		prediction.ID, prediction.CalculationMode, len(prediction.Options))

	return prediction, nil
}

// GetPrediction retrieves a prediction with its options
func (s *PredictionService) GetPrediction(ctx context.Context, predictionID uuid.UUID) (*models.Prediction, error) {
	prediction, err := s.repo.GetPredictionByID(ctx, predictionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPredictionNotFound
		}
		return nil, fmt.Errorf("%w: load prediction: %v", ErrStoreUnavailable, err)
	}
	return prediction, nil
}

// ListPredictions retrieves predictions filtered by status
func (s *PredictionService) ListPredictions(ctx context.Context, status string, limit, offset int) ([]models.Prediction, error) {
	predictions, err := s.repo.ListPredictions(ctx, status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%w: list predictions: %v", ErrStoreUnavailable, err)
	}
	return predictions, nil
}

// ClosePrediction moves an open prediction to closed, stopping further
// wagering
func (s *PredictionService) ClosePrediction(ctx context.Context, predictionID uuid.UUID) error {
	return s.transition(ctx, predictionID,
		[]models.PredictionStatus{models.PredictionStatusOpen},
		map[string]interface{}{"status": models.PredictionStatusClosed})
}

// CancelPrediction cancels an open or closed prediction. Resulted and
// cancelled predictions are terminal.
func (s *PredictionService) CancelPrediction(ctx context.Context, predictionID uuid.UUID) error {
	return s.transition(ctx, predictionID,
		[]models.PredictionStatus{models.PredictionStatusOpen, models.PredictionStatusClosed},
		map[string]interface{}{"status": models.PredictionStatusCancelled})
}

func (s *PredictionService) transition(
	ctx context.Context,
	predictionID uuid.UUID,
	from []models.PredictionStatus,
	updates map[string]interface{},
) error {
	affected, err := s.repo.TransitionPredictionStatus(ctx, predictionID, from, updates)
	if err != nil {
		return fmt.Errorf("%w: transition prediction: %v", ErrStoreUnavailable, err)
	}

	if affected == 0 {
		// Distinguish a missing prediction from one in the wrong status
		if _, err := s.repo.GetPredictionByID(ctx, predictionID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPredictionNotFound
			}
			return fmt.Errorf("%w: load prediction: %v", ErrStoreUnavailable, err)
		}
		return ErrInvalidTransition
	}

	log.Printf("[PredictionService] Prediction %s -> %v", predictionID, updates["status"])
	return nil
}

// CloseExpired moves every open prediction whose close date has passed
// to closed. Used by the periodic closure job; returns the number of
// predictions closed.
func (s *PredictionService) CloseExpired(ctx context.Context, limit int) (int, error) {
	expired, err := s.repo.ListExpiredOpenPredictions(ctx, limit)
	if err != nil {
		return 0, fmt.Errorf("%w: list expired predictions: %v", ErrStoreUnavailable, err)
	}

	closed := 0
	for _, prediction := range expired {
		if err := s.ClosePrediction(ctx, prediction.ID); err != nil {
			// Already transitioned by a concurrent actor; skip
			if errors.Is(err, ErrInvalidTransition) {
				continue
			}
			return closed, err
		}
		closed++
	}

	return closed, nil
}

// Placeable reports whether a prediction accepts wagers right now
func Placeable(prediction *models.Prediction, now time.Time) bool {
	return prediction.Status == models.PredictionStatusOpen && now.Before(prediction.CloseDate)
}
