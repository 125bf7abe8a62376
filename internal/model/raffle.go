package model

import (
	"time"

	"github.com/google/uuid"
)

const RaffleStatusActive = "active"

type Raffle struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	Prize       string    `json:"prize" db:"prize"`
	TicketCost  int64     `json:"ticket_cost" db:"ticket_cost"`
	DrawDate    time.Time `json:"draw_date" db:"draw_date"`
	Status      string    `json:"status" db:"status"`
	Category    *string   `json:"category,omitempty" db:"category"`
	Sponsor     *string   `json:"sponsor,omitempty" db:"sponsor"`
	ImageURL    *string   `json:"image_url,omitempty" db:"image_url"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

type RaffleTicket struct {
	ID           uuid.UUID `json:"id" db:"id"`
	UserID       uuid.UUID `json:"user_id" db:"user_id"`
	RaffleID     uuid.UUID `json:"raffle_id" db:"raffle_id"`
	TicketNumber string    `json:"ticket_number" db:"ticket_number"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

type SubeExchangeType string

const (
	SubeExchangeEnvases SubeExchangeType = "envases"
	SubeExchangeAVU     SubeExchangeType = "avu"
)

type SubeExchange struct {
	ID           uuid.UUID        `json:"id" db:"id"`
	UserID       uuid.UUID        `json:"user_id" db:"user_id"`
	ExchangeType SubeExchangeType `json:"exchange_type" db:"exchange_type"`
	PointsSpent  int64            `json:"points_spent" db:"points_spent"`
	Tickets      int64            `json:"tickets" db:"tickets"`
	SubeAlias    string           `json:"sube_alias" db:"sube_alias"`
	CreatedAt    time.Time        `json:"created_at" db:"created_at"`
}
