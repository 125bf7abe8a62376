package model

import (
	"time"

	"github.com/google/uuid"
)

type StaffAccountType string

const (
	StaffAccountPromotor StaffAccountType = "promotor"
	StaffAccountEcopunto StaffAccountType = "ecopunto"
)

func (t StaffAccountType) Valid() bool {
	return t == StaffAccountPromotor || t == StaffAccountEcopunto
}

type StaffAccount struct {
	ID           uuid.UUID        `json:"id" db:"id"`
	Username     string           `json:"username" db:"username"`
	PasswordHash string           `json:"-" db:"password_hash"`
	AccountType  StaffAccountType `json:"account_type" db:"account_type"`
	IsActive     bool             `json:"is_active" db:"is_active"`
	CreatedBy    *uuid.UUID       `json:"created_by,omitempty" db:"created_by"`
	CreatedAt    time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at" db:"updated_at"`
}
