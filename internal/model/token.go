package model

import (
	"time"

	"github.com/google/uuid"
)

type TokenStatus string

const (
	TokenStatusPending   TokenStatus = "pending"
	TokenStatusValidated TokenStatus = "validated"
	TokenStatusExpired   TokenStatus = "expired"
	TokenStatusCancelled TokenStatus = "cancelled"
)

// IsTerminal reports whether no further transition is possible
func (s TokenStatus) IsTerminal() bool {
	return s != TokenStatusPending
}

type RecyclingToken struct {
	ID                 uuid.UUID    `json:"id" db:"id"`
	UserID             uuid.UUID    `json:"user_id" db:"user_id"`
	TokenCode          string       `json:"token_code" db:"token_code"`
	MaterialType       MaterialType `json:"material_type" db:"material_type"`
	PointsValue        int64        `json:"points_value" db:"points_value"`
	Quantity           int64        `json:"quantity" db:"quantity"`
	Status             TokenStatus  `json:"status" db:"status"`
	CreatedAt          time.Time    `json:"created_at" db:"created_at"`
	ExpiresAt          time.Time    `json:"expires_at" db:"expires_at"`
	ValidatedAt        *time.Time   `json:"validated_at,omitempty" db:"validated_at"`
	ValidatedBy        *uuid.UUID   `json:"validated_by,omitempty" db:"validated_by"`
	ValidationLocation *string      `json:"validation_location,omitempty" db:"validation_location"`
	BinDepletedAt      *time.Time   `json:"-" db:"bin_depleted_at"`
}

// IsExpired checks the expiry window only, regardless of stored status
func (t *RecyclingToken) IsExpired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}

// EffectiveStatus computes expiry on read: a stored pending token past its
// window reports as expired.
func (t *RecyclingToken) EffectiveStatus(now time.Time) TokenStatus {
	if t.Status == TokenStatusPending && t.IsExpired(now) {
		return TokenStatusExpired
	}
	return t.Status
}

// StaffValidationStats aggregates tokens validated by one staff account
type StaffValidationStats struct {
	AVULiters        int64 `json:"avu_liters"`
	CanCount         int64 `json:"can_count"`
	BottleCount      int64 `json:"bottle_count"`
	TotalValidations int64 `json:"total_validations"`
}
