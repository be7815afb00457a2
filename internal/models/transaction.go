package models

import (
	"time"
)

// PointsTransaction represents a points ledger entry
type PointsTransaction struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	User        User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Type        string    `gorm:"size:50;not null;index" json:"type"` // signup_bonus, bet_won, admin_adjustment
	Amount      int64     `gorm:"not null" json:"amount"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
}

// TableName specifies the table name for PointsTransaction model
func (PointsTransaction) TableName() string {
	return "points_transactions"
}
