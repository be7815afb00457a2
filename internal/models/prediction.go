package models

import (
	"time"

	"github.com/google/uuid"
)

type PredictionStatus string

const (
	PredictionStatusOpen      PredictionStatus = "open"
	PredictionStatusClosed    PredictionStatus = "closed"
	PredictionStatusResulted  PredictionStatus = "resulted"
	PredictionStatusCancelled PredictionStatus = "cancelled"
)

type CalculationMode string

const (
	CalculationModeFixedOdds CalculationMode = "fixed_odds"
	CalculationModePoolRatio CalculationMode = "pool_ratio"
)

// Prediction represents a single wagering question with multiple
// mutually exclusive options
type Prediction struct {
	ID              uuid.UUID          `gorm:"type:uuid;primaryKey" json:"id"`
	Title           string             `gorm:"size:500;not null" json:"title"`
	Description     string             `gorm:"type:text" json:"description"`
	Status          PredictionStatus   `gorm:"size:20;not null;default:open;index" json:"status"`
	CalculationMode CalculationMode    `gorm:"size:20;not null" json:"calculation_mode"`
	MinBet          int64              `gorm:"not null" json:"min_bet"`
	MaxBet          int64              `gorm:"not null" json:"max_bet"`
	StartDate       time.Time          `gorm:"not null" json:"start_date"`
	CloseDate       time.Time          `gorm:"not null;index" json:"close_date"`
	WinningOptionID *uuid.UUID         `gorm:"type:uuid" json:"winning_option_id,omitempty"`
	Options         []PredictionOption `gorm:"foreignKey:PredictionID" json:"options,omitempty"`
	CreatedBy       *uint              `gorm:"index" json:"created_by,omitempty"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
	ResolvedAt      *time.Time         `json:"resolved_at,omitempty"`
}

// TableName specifies the table name for Prediction model
func (Prediction) TableName() string {
	return "predictions"
}

// HasOption reports whether optionID belongs to the prediction's option set
func (p *Prediction) HasOption(optionID uuid.UUID) bool {
	for _, opt := range p.Options {
		if opt.ID == optionID {
			return true
		}
	}
	return false
}

// Option returns the option with the given ID, or nil
func (p *Prediction) Option(optionID uuid.UUID) *PredictionOption {
	for i := range p.Options {
		if p.Options[i].ID == optionID {
			return &p.Options[i]
		}
	}
	return nil
}

// PredictionOption is one selectable outcome of a prediction.
// Odds is a decimal string and only meaningful under fixed_odds mode.
type PredictionOption struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	PredictionID uuid.UUID `gorm:"type:uuid;not null;index" json:"prediction_id"`
	Label        string    `gorm:"size:255;not null" json:"label"`
	Odds         string    `gorm:"size:20;default:1.00" json:"odds"`
	Position     int       `gorm:"not null;default:0" json:"position"`
	CreatedAt    time.Time `json:"created_at"`
}

// TableName specifies the table name for PredictionOption model
func (PredictionOption) TableName() string {
	return "prediction_options"
}

// CreatePredictionRequest represents an admin request to create a prediction
type CreatePredictionRequest struct {
	Title           string                `json:"title" binding:"required"`
	Description     string                `json:"description"`
	CalculationMode string                `json:"calculation_mode" binding:"required"`
	MinBet          int64                 `json:"min_bet" binding:"required,gt=0"`
	MaxBet          int64                 `json:"max_bet" binding:"required,gt=0"`
	StartDate       time.Time             `json:"start_date" binding:"required"`
	CloseDate       time.Time             `json:"close_date" binding:"required"`
	Options         []CreateOptionRequest `json:"options" binding:"required,min=2"`
}

// CreateOptionRequest is one option in a CreatePredictionRequest
type CreateOptionRequest struct {
	Label string `json:"label" binding:"required"`
	Odds  string `json:"odds"`
}

// ResolvePredictionRequest represents an admin request to resolve a prediction
type ResolvePredictionRequest struct {
	WinningOptionID string `json:"winning_option_id" binding:"required"`
}
