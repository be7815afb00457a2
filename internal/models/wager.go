package models

import (
	"time"

	"github.com/google/uuid"
)

// Wager is one user's stake on one option of one prediction.
// The composite unique index on (user_id, prediction_id) enforces the
// at-most-one-wager-per-user rule at the store layer, so two concurrent
// placements cannot both slip past the application check.
type Wager struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID           uint       `gorm:"not null;uniqueIndex:idx_wager_user_prediction" json:"user_id"`
	PredictionID     uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_wager_user_prediction;index" json:"prediction_id"`
	SelectedOptionID uuid.UUID  `gorm:"type:uuid;not null;index" json:"selected_option_id"`
	PointsWagered    int64      `gorm:"not null" json:"points_wagered"`
	PointsEarned     *int64     `json:"points_earned,omitempty"`
	IsCorrect        *bool      `json:"is_correct,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	ResolvedAt       *time.Time `json:"resolved_at,omitempty"`
}

// TableName specifies the table name for Wager model
func (Wager) TableName() string {
	return "user_predictions"
}

// PlaceBetRequest represents a user request to place a wager
type PlaceBetRequest struct {
	OptionID string `json:"option_id" binding:"required"`
	Amount   int64  `json:"amount" binding:"required,gt=0"`
}
