package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PredictionStats is the live distribution of wagers across a
// prediction's options. It is derived from the wager set on every read
// and never persisted.
type PredictionStats struct {
	PredictionID      uuid.UUID     `json:"prediction_id"`
	TotalPool         int64         `json:"total_pool"`
	TotalParticipants int           `json:"total_participants"`
	Options           []OptionStats `json:"options"`
}

// OptionStats aggregates the wagers placed on a single option.
// Options with zero wagers still appear, with all-zero stats and a
// ratio of 1 so the payout multiplier is always defined.
type OptionStats struct {
	OptionID         uuid.UUID       `json:"option_id"`
	Label            string          `json:"label"`
	TotalWagered     int64           `json:"total_wagered"`
	ParticipantCount int             `json:"participant_count"`
	Percentage       decimal.Decimal `json:"percentage"`
	Ratio            decimal.Decimal `json:"ratio"`
	BiggestBet       int64           `json:"biggest_bet"`
	TopBettor        string          `json:"top_bettor,omitempty"`
	TopBettorID      uint            `json:"top_bettor_id,omitempty"`
}
