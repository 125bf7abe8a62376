package model

import (
	"time"

	"github.com/google/uuid"
)

type UserRole string

const (
	UserRoleUser  UserRole = "user"
	UserRoleAdmin UserRole = "admin"
)

type User struct {
	ID                     uuid.UUID `json:"id" db:"id"`
	Email                  string    `json:"email" db:"email"`
	Name                   string    `json:"name" db:"name"`
	Neighborhood           *string   `json:"neighborhood,omitempty" db:"neighborhood"`
	Role                   UserRole  `json:"role" db:"role"`
	Points                 int64     `json:"points" db:"points"`                           // Spendable balance
	TotalEarnedPoints      int64     `json:"total_earned_points" db:"total_earned_points"` // Lifetime, never decremented
	AccumulatedWeightGrams int64     `json:"accumulated_weight_grams" db:"accumulated_weight_grams"`
	CreatedAt              time.Time `json:"created_at" db:"created_at"`
	UpdatedAt              time.Time `json:"updated_at" db:"updated_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == UserRoleAdmin
}

// NeighborhoodRanking is one row of the barrio leaderboard
type NeighborhoodRanking struct {
	Neighborhood string `json:"neighborhood" db:"neighborhood"`
	TotalPoints  int64  `json:"total_points" db:"total_points"`
	Users        int    `json:"users" db:"users"`
}
