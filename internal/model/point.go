package model

import (
	"time"

	"github.com/google/uuid"
)

type PointSource string

const (
	PointSourceTokenRedemption PointSource = "token_redemption"
	PointSourceWeightBonus     PointSource = "weight_bonus"
	PointSourceRaffleTicket    PointSource = "raffle_ticket"
	PointSourceSubeExchange    PointSource = "sube_exchange"
)

// CountsAsEarned reports whether credits from this source raise the lifetime
// total used for the leaderboard.
func (s PointSource) CountsAsEarned() bool {
	return s == PointSourceTokenRedemption || s == PointSourceWeightBonus
}

type PointTransaction struct {
	ID           uuid.UUID   `json:"id" db:"id"`
	UserID       uuid.UUID   `json:"user_id" db:"user_id"`
	Amount       int64       `json:"amount" db:"amount"` // positive = credit, negative = debit
	Source       PointSource `json:"source" db:"source"`
	Description  *string     `json:"description,omitempty" db:"description"`
	ReferenceID  *uuid.UUID  `json:"reference_id,omitempty" db:"reference_id"`
	PointsBefore int64       `json:"points_before" db:"points_before"`
	PointsAfter  int64       `json:"points_after" db:"points_after"`
	CreatedAt    time.Time   `json:"created_at" db:"created_at"`
}

// PointBalance is the pair of counters stored on the user record
type PointBalance struct {
	Points            int64 `json:"points" db:"points"`
	TotalEarnedPoints int64 `json:"total_earned_points" db:"total_earned_points"`
}
