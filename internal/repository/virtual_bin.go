package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/GermanDelima/verdeScan/internal/model"
)

// AddToVirtualBin increments a bin entry, creating it on first scan
func (r *Repository) AddToVirtualBin(ctx context.Context, userID uuid.UUID, material model.MaterialType, quantity int64) error {
	_, err := r.db.ExecContext(ctx, r.q(`
		INSERT INTO user_virtual_bin (user_id, material_type, quantity, last_scanned_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (user_id, material_type) DO UPDATE SET
			quantity = user_virtual_bin.quantity + excluded.quantity,
			last_scanned_at = excluded.last_scanned_at`),
		userID, material, quantity, r.now())
	return err
}

// GetVirtualBin returns all bin entries of a user
func (r *Repository) GetVirtualBin(ctx context.Context, userID uuid.UUID) ([]model.VirtualBinEntry, error) {
	var entries []model.VirtualBinEntry
	err := r.db.SelectContext(ctx, &entries, r.q(`
		SELECT user_id, material_type, quantity, last_scanned_at
		FROM user_virtual_bin
		WHERE user_id = ?`), userID)
	return entries, err
}

// RemoveFromVirtualBin decrements a bin entry, never below zero.
// A missing entry is left alone.
func (r *Repository) RemoveFromVirtualBin(ctx context.Context, userID uuid.UUID, material model.MaterialType, quantity int64) error {
	return removeFromVirtualBin(ctx, r.db, userID, material, quantity)
}

func removeFromVirtualBin(ctx context.Context, e sqlx.ExtContext, userID uuid.UUID, material model.MaterialType, quantity int64) error {
	_, err := e.ExecContext(ctx, e.Rebind(`
		UPDATE user_virtual_bin SET
			quantity = CASE WHEN quantity > ? THEN quantity - ? ELSE 0 END
		WHERE user_id = ? AND material_type = ?`),
		quantity, quantity, userID, material)
	return err
}
