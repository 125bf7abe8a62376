package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/GermanDelima/verdeScan/internal/model"
)

// TokenCodeExists checks a code against every token ever issued
func (r *Repository) TokenCodeExists(ctx context.Context, code string) (bool, error) {
	var count int
	err := r.db.GetContext(ctx, &count, r.q(`
		SELECT COUNT(*) FROM recycling_tokens WHERE token_code = ?`), code)
	return count > 0, err
}

func (r *Repository) CreateToken(ctx context.Context, token *model.RecyclingToken) error {
	if token.ID == uuid.Nil {
		token.ID = uuid.New()
	}
	_, err := r.db.ExecContext(ctx, r.q(`
		INSERT INTO recycling_tokens (id, user_id, token_code, material_type, points_value, quantity, status, created_at, expires_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		token.ID, token.UserID, token.TokenCode, token.MaterialType, token.PointsValue,
		token.Quantity, token.Status, token.CreatedAt, token.ExpiresAt)
	return err
}

func (r *Repository) GetTokenByCode(ctx context.Context, code string) (*model.RecyclingToken, error) {
	var token model.RecyclingToken
	err := r.db.GetContext(ctx, &token, r.q(`
		SELECT * FROM recycling_tokens WHERE token_code = ?`), code)
	if err != nil {
		return nil, notFoundAs(err, ErrNotFound)
	}
	return &token, nil
}

// ListUserTokens returns the most recent tokens of a user
func (r *Repository) ListUserTokens(ctx context.Context, userID uuid.UUID, limit int) ([]model.RecyclingToken, error) {
	var tokens []model.RecyclingToken
	err := r.db.SelectContext(ctx, &tokens, r.q(`
		SELECT * FROM recycling_tokens
		WHERE user_id = ?
		ORDER BY created_at DESC
		LIMIT ?`), userID, limit)
	return tokens, err
}

// MarkTokenExpired flips a pending token to expired. Tokens already in a
// terminal state are left as they are.
func (r *Repository) MarkTokenExpired(ctx context.Context, id uuid.UUID) (bool, error) {
	return r.transitionPending(ctx, id, model.TokenStatusExpired, nil)
}

// CancelToken flips a pending token owned by userID to cancelled
func (r *Repository) CancelToken(ctx context.Context, id, userID uuid.UUID) (bool, error) {
	return r.transitionPending(ctx, id, model.TokenStatusCancelled, &userID)
}

func (r *Repository) transitionPending(ctx context.Context, id uuid.UUID, to model.TokenStatus, owner *uuid.UUID) (bool, error) {
	query := `UPDATE recycling_tokens SET status = ? WHERE id = ? AND status = ?`
	args := []interface{}{to, id, model.TokenStatusPending}
	if owner != nil {
		query += ` AND user_id = ?`
		args = append(args, *owner)
	}

	res, err := r.db.ExecContext(ctx, r.q(query), args...)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// RedeemParams identifies who validates a token and when
type RedeemParams struct {
	Token       *model.RecyclingToken
	StaffID     uuid.UUID
	StaffName   string
	ValidatedAt time.Time
}

// RedeemToken validates a pending token and credits its points in one
// transaction. The status update is conditional on the token still being
// pending, so only one caller can ever credit a given token; the others get
// ErrTokenNotPending and nothing is written.
func (r *Repository) RedeemToken(ctx context.Context, p RedeemParams) (*model.PointTransaction, error) {
	var txn *model.PointTransaction
	err := r.inTx(ctx, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, tx.Rebind(`
			UPDATE recycling_tokens SET
				status = ?,
				validated_at = ?,
				validated_by = ?,
				validation_location = ?
			WHERE id = ? AND status = ?`),
			model.TokenStatusValidated, p.ValidatedAt, p.StaffID, p.StaffName,
			p.Token.ID, model.TokenStatusPending)
		if err != nil {
			return fmt.Errorf("failed to mark token validated: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return ErrTokenNotPending
		}

		txn, err = r.creditTx(ctx, tx, PointMovement{
			UserID:      p.Token.UserID,
			Amount:      p.Token.PointsValue,
			Source:      model.PointSourceTokenRedemption,
			Description: fmt.Sprintf("Token %s: %d x %s", p.Token.TokenCode, p.Token.Quantity, p.Token.MaterialType),
			ReferenceID: &p.Token.ID,
		})
		return err
	})
	return txn, err
}

// DepleteTokenBin removes the token's quantity from the owner's virtual bin.
// It runs at most once per validated token and is safe to retry.
func (r *Repository) DepleteTokenBin(ctx context.Context, token *model.RecyclingToken) (bool, error) {
	applied := false
	err := r.inTx(ctx, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, tx.Rebind(`
			UPDATE recycling_tokens SET bin_depleted_at = ?
			WHERE id = ? AND status = ? AND bin_depleted_at IS NULL`),
			r.now(), token.ID, model.TokenStatusValidated)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return nil
		}
		if err := removeFromVirtualBin(ctx, tx, token.UserID, token.MaterialType, token.Quantity); err != nil {
			return fmt.Errorf("failed to remove from virtual bin: %w", err)
		}
		applied = true
		return nil
	})
	return applied, err
}

// ListUndepletedTokens returns validated tokens whose bin step has not run
func (r *Repository) ListUndepletedTokens(ctx context.Context, limit int) ([]model.RecyclingToken, error) {
	var tokens []model.RecyclingToken
	err := r.db.SelectContext(ctx, &tokens, r.q(`
		SELECT * FROM recycling_tokens
		WHERE status = ? AND bin_depleted_at IS NULL
		ORDER BY validated_at ASC
		LIMIT ?`), model.TokenStatusValidated, limit)
	return tokens, err
}

// GetStaffValidationStats sums validated quantities per material for a staff account
func (r *Repository) GetStaffValidationStats(ctx context.Context, staffID uuid.UUID) (*model.StaffValidationStats, error) {
	var rows []struct {
		MaterialType model.MaterialType `db:"material_type"`
		Tokens       int64              `db:"tokens"`
		Quantity     int64              `db:"quantity"`
	}
	err := r.db.SelectContext(ctx, &rows, r.q(`
		SELECT material_type, COUNT(*) AS tokens, COALESCE(SUM(quantity), 0) AS quantity
		FROM recycling_tokens
		WHERE validated_by = ? AND status = ?
		GROUP BY material_type`), staffID, model.TokenStatusValidated)
	if err != nil {
		return nil, err
	}

	stats := &model.StaffValidationStats{}
	for _, row := range rows {
		stats.TotalValidations += row.Tokens
		switch row.MaterialType {
		case model.MaterialAVU:
			stats.AVULiters = row.Quantity
		case model.MaterialCan:
			stats.CanCount = row.Quantity
		case model.MaterialBottle:
			stats.BottleCount = row.Quantity
		}
	}
	return stats, nil
}
