package services

import (
	"context"
	"log"
	"sync"

	"prediction-engine/internal/models"

	"github.com/google/uuid"
)

// StatsCallback receives a fresh stats snapshot after a wager insert
type StatsCallback func(*models.PredictionStats)

// StatsBroker fans recomputed stats out to subscribers keyed by
// prediction ID. Every Publish does a full recompute from the wager
// set, so subscribers never see an incrementally drifted aggregate.
type StatsBroker struct {
	stats *StatsService

	mu     sync.RWMutex
	nextID int
	// predictionID -> subscriber token -> callback
	subs map[uuid.UUID]map[int]StatsCallback
}

// NewStatsBroker creates a new stats broker
func NewStatsBroker(stats *StatsService) *StatsBroker {
	return &StatsBroker{
		stats: stats,
		subs:  make(map[uuid.UUID]map[int]StatsCallback),
	}
}

// Subscribe registers a callback for a prediction's stats updates and
// returns an unsubscribe function. Unsubscribing stops further pushes;
// it is safe to call more than once.
func (b *StatsBroker) Subscribe(predictionID uuid.UUID, cb StatsCallback) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	token := b.nextID

	if _, ok := b.subs[predictionID]; !ok {
		b.subs[predictionID] = make(map[int]StatsCallback)
	}
	b.subs[predictionID][token] = cb

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if m, ok := b.subs[predictionID]; ok {
			delete(m, token)
			if len(m) == 0 {
				delete(b.subs, predictionID)
			}
		}
	}
}

// Publish recomputes stats for a prediction and pushes the snapshot to
// every subscriber. A failed recompute is logged and dropped: the next
// wager insert will trigger another one.
func (b *StatsBroker) Publish(ctx context.Context, predictionID uuid.UUID) {
	b.mu.RLock()
	callbacks := make([]StatsCallback, 0, len(b.subs[predictionID]))
	for _, cb := range b.subs[predictionID] {
		callbacks = append(callbacks, cb)
	}
	b.mu.RUnlock()

	if len(callbacks) == 0 {
		return
	}

	stats, err := b.stats.ComputeStats(ctx, predictionID)
	if err != nil {
		log.Printf("[StatsBroker] Failed to recompute stats for %s: %v", predictionID, err)
		return
	}

	for _, cb := range callbacks {
		cb(stats)
	}
}
