package jobs

import (
	"context"
	"log"
	"time"

	"prediction-engine/internal/services"
)

// PredictionCloser moves open predictions past their close date to
// closed, so wagering stops on time even without an admin action
type PredictionCloser struct {
	predictions *services.PredictionService
	interval    time.Duration
	stopChan    chan struct{}
}

// NewPredictionCloser creates a new prediction closer job
func NewPredictionCloser(predictions *services.PredictionService, interval time.Duration) *PredictionCloser {
	return &PredictionCloser{
		predictions: predictions,
		interval:    interval,
		stopChan:    make(chan struct{}),
	}
}

// Start begins the closure loop
func (pc *PredictionCloser) Start() {
	log.Printf("[PredictionCloser] Starting closure job (interval: %v)", pc.interval)

	ticker := time.NewTicker(pc.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			pc.closeExpired()
		case <-pc.stopChan:
			log.Println("[PredictionCloser] Stopping closure job")
			return
		}
	}
}

// Stop stops the closure loop
func (pc *PredictionCloser) Stop() {
	close(pc.stopChan)
}

func (pc *PredictionCloser) closeExpired() {
	ctx := context.Background()

	closed, err := pc.predictions.CloseExpired(ctx, 100)
	if err != nil {
		log.Printf("[PredictionCloser] Error closing expired predictions: %v", err)
		return
	}

	if closed > 0 {
		log.Printf("[PredictionCloser] Closed %d expired predictions", closed)
	}
}
