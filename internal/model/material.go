package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type MaterialType string

const (
	MaterialAVU    MaterialType = "avu"     // Used cooking oil, liters
	MaterialCan    MaterialType = "lata"    // Aluminum can, items
	MaterialBottle MaterialType = "botella" // Plastic bottle, items
)

// MaterialTypes lists the closed set in display order.
var MaterialTypes = []MaterialType{MaterialAVU, MaterialCan, MaterialBottle}

func (m MaterialType) Valid() bool {
	switch m {
	case MaterialAVU, MaterialCan, MaterialBottle:
		return true
	}
	return false
}

// DisplayName returns the Spanish name shown to users
func (m MaterialType) DisplayName() string {
	switch m {
	case MaterialAVU:
		return "Aceite vegetal usado"
	case MaterialCan:
		return "Lata de aluminio"
	case MaterialBottle:
		return "Botella de plástico"
	}
	return string(m)
}

type MaterialPointsConfig struct {
	MaterialType    MaterialType    `json:"material_type" db:"material_type"`
	PointsPerUnit   decimal.Decimal `json:"points_per_unit" db:"points_per_unit"`
	UnitDescription string          `json:"unit_description" db:"unit_description"`
	UpdatedAt       time.Time       `json:"updated_at" db:"updated_at"`
}

// PointsFor returns the integer point value of quantity units, rounded down.
func (c *MaterialPointsConfig) PointsFor(quantity int64) int64 {
	return c.PointsPerUnit.Mul(decimal.NewFromInt(quantity)).Floor().IntPart()
}

// Product is a catalog entry keyed by its 13-digit barcode
type Product struct {
	Barcode     string          `json:"barcode" db:"barcode"`
	Name        string          `json:"name" db:"name"`
	WeightGrams int64           `json:"weight" db:"weight_grams"`
	Category    string          `json:"category" db:"category"`
	PointsPerKg decimal.Decimal `json:"points_per_kg" db:"points_per_kg"`
	Active      bool            `json:"active" db:"active"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
}

func (p *Product) MaterialType() MaterialType {
	return ClassifyCategory(p.Category)
}

// ClassifyCategory maps a free-text catalog category onto a material type.
// Anything not recognised as oil or plastic counts as a can.
func ClassifyCategory(category string) MaterialType {
	c := strings.ToLower(strings.TrimSpace(category))

	switch c {
	case "avu", "acv", "aceite":
		return MaterialAVU
	}
	if strings.Contains(c, "aceite vegetal") ||
		strings.Contains(c, "vegetal usado") ||
		strings.Contains(c, "aceite usado") {
		return MaterialAVU
	}

	switch c {
	case "plastico", "plástico", "pet", "botella":
		return MaterialBottle
	}
	if strings.Contains(c, "plástico") ||
		strings.Contains(c, "plastico") ||
		strings.Contains(c, "botella") {
		return MaterialBottle
	}

	return MaterialCan
}

// VirtualBinEntry is the un-redeemed quantity of one material for one user
type VirtualBinEntry struct {
	UserID        uuid.UUID    `json:"user_id" db:"user_id"`
	MaterialType  MaterialType `json:"material_type" db:"material_type"`
	Quantity      int64        `json:"quantity" db:"quantity"`
	LastScannedAt time.Time    `json:"last_scanned_at" db:"last_scanned_at"`
}

// VirtualBin is the per-material view of a user's bin, absent types are zero
type VirtualBin struct {
	AVU    int64 `json:"avu"`
	Can    int64 `json:"lata"`
	Bottle int64 `json:"botella"`
}

func (b *VirtualBin) Set(m MaterialType, quantity int64) {
	switch m {
	case MaterialAVU:
		b.AVU = quantity
	case MaterialCan:
		b.Can = quantity
	case MaterialBottle:
		b.Bottle = quantity
	}
}

func (b VirtualBin) Get(m MaterialType) int64 {
	switch m {
	case MaterialAVU:
		return b.AVU
	case MaterialCan:
		return b.Can
	case MaterialBottle:
		return b.Bottle
	}
	return 0
}
