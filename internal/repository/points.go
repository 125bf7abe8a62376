package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/GermanDelima/verdeScan/internal/model"
)

// PointMovement describes one credit or debit against a user balance
type PointMovement struct {
	UserID      uuid.UUID
	Amount      int64 // Always positive, direction comes from the method
	Source      model.PointSource
	Description string
	ReferenceID *uuid.UUID
}

// GetPointBalance returns the spendable and lifetime counters of a user
func (r *Repository) GetPointBalance(ctx context.Context, userID uuid.UUID) (*model.PointBalance, error) {
	return getPointBalance(ctx, r.db, userID)
}

// CreditPoints adds points atomically and records the movement.
// Returns the balance after the credit.
func (r *Repository) CreditPoints(ctx context.Context, m PointMovement) (*model.PointTransaction, error) {
	var txn *model.PointTransaction
	err := r.inTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		txn, err = r.creditTx(ctx, tx, m)
		return err
	})
	return txn, err
}

// DebitPoints subtracts points only if the balance covers the amount.
// The lifetime counter is never touched.
func (r *Repository) DebitPoints(ctx context.Context, m PointMovement) (*model.PointTransaction, error) {
	var txn *model.PointTransaction
	err := r.inTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		txn, err = r.debitTx(ctx, tx, m)
		return err
	})
	return txn, err
}

func (r *Repository) creditTx(ctx context.Context, tx *sqlx.Tx, m PointMovement) (*model.PointTransaction, error) {
	earned := int64(0)
	if m.Source.CountsAsEarned() {
		earned = m.Amount
	}

	res, err := tx.ExecContext(ctx, tx.Rebind(`
		UPDATE users SET
			points = points + ?,
			total_earned_points = total_earned_points + ?,
			updated_at = ?
		WHERE id = ?`),
		m.Amount, earned, r.now(), m.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to credit points: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrUserNotFound
	}

	balance, err := getPointBalance(ctx, tx, m.UserID)
	if err != nil {
		return nil, err
	}

	return r.recordMovement(ctx, tx, m, m.Amount, balance.Points)
}

func (r *Repository) debitTx(ctx context.Context, tx *sqlx.Tx, m PointMovement) (*model.PointTransaction, error) {
	res, err := tx.ExecContext(ctx, tx.Rebind(`
		UPDATE users SET points = points - ?, updated_at = ?
		WHERE id = ? AND points >= ?`),
		m.Amount, r.now(), m.UserID, m.Amount)
	if err != nil {
		return nil, fmt.Errorf("failed to debit points: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// Either the user is gone or the balance does not cover the amount
		if _, err := getPointBalance(ctx, tx, m.UserID); err != nil {
			return nil, err
		}
		return nil, ErrInsufficientPoints
	}

	balance, err := getPointBalance(ctx, tx, m.UserID)
	if err != nil {
		return nil, err
	}

	return r.recordMovement(ctx, tx, m, -m.Amount, balance.Points)
}

func (r *Repository) recordMovement(ctx context.Context, tx *sqlx.Tx, m PointMovement, signed, after int64) (*model.PointTransaction, error) {
	var desc *string
	if m.Description != "" {
		desc = &m.Description
	}

	txn := &model.PointTransaction{
		ID:           uuid.New(),
		UserID:       m.UserID,
		Amount:       signed,
		Source:       m.Source,
		Description:  desc,
		ReferenceID:  m.ReferenceID,
		PointsBefore: after - signed,
		PointsAfter:  after,
		CreatedAt:    r.now(),
	}

	_, err := tx.ExecContext(ctx, tx.Rebind(`
		INSERT INTO point_transactions (id, user_id, amount, source, description, reference_id, points_before, points_after, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		txn.ID, txn.UserID, txn.Amount, txn.Source, txn.Description, txn.ReferenceID,
		txn.PointsBefore, txn.PointsAfter, txn.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create point transaction record: %w", err)
	}

	return txn, nil
}

// GetPointTransactions returns the point history of a user, newest first
func (r *Repository) GetPointTransactions(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.PointTransaction, error) {
	var transactions []model.PointTransaction
	err := r.db.SelectContext(ctx, &transactions, r.q(`
		SELECT * FROM point_transactions
		WHERE user_id = ?
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?`),
		userID, limit, offset)
	return transactions, err
}

// AddAccumulatedWeight adds scanned grams toward the weight bonus.
// Returns the new accumulated weight.
func (r *Repository) AddAccumulatedWeight(ctx context.Context, userID uuid.UUID, grams int64) (int64, error) {
	var total int64
	err := r.inTx(ctx, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, tx.Rebind(`
			UPDATE users SET accumulated_weight_grams = accumulated_weight_grams + ?, updated_at = ?
			WHERE id = ?`), grams, r.now(), userID)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return ErrUserNotFound
		}
		return tx.GetContext(ctx, &total, tx.Rebind(`
			SELECT accumulated_weight_grams FROM users WHERE id = ?`), userID)
	})
	return total, err
}

// WeightBonus is the outcome of converting accumulated weight into points
type WeightBonus struct {
	Kilograms      int64
	Points         int64
	RemainingGrams int64
	Transaction    *model.PointTransaction
}

// ClaimWeightBonus converts every full threshold of accumulated weight into
// points and keeps the remainder. A claim below the threshold changes nothing.
func (r *Repository) ClaimWeightBonus(ctx context.Context, userID uuid.UUID, thresholdGrams, pointsPerUnit int64) (*WeightBonus, error) {
	bonus := &WeightBonus{}
	err := r.inTx(ctx, func(tx *sqlx.Tx) error {
		var weight int64
		err := tx.GetContext(ctx, &weight, tx.Rebind(`
			SELECT accumulated_weight_grams FROM users WHERE id = ?`), userID)
		if err != nil {
			return notFoundAs(err, ErrUserNotFound)
		}

		bonus.Kilograms = weight / thresholdGrams
		bonus.RemainingGrams = weight % thresholdGrams
		if bonus.Kilograms == 0 {
			return nil
		}
		bonus.Points = bonus.Kilograms * pointsPerUnit

		// Conditional on the weight read above so a concurrent claim cannot
		// convert the same grams twice.
		res, err := tx.ExecContext(ctx, tx.Rebind(`
			UPDATE users SET accumulated_weight_grams = accumulated_weight_grams - ?, updated_at = ?
			WHERE id = ? AND accumulated_weight_grams >= ?`),
			bonus.Kilograms*thresholdGrams, r.now(), userID, bonus.Kilograms*thresholdGrams)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return ErrConcurrentModification
		}

		bonus.Transaction, err = r.creditTx(ctx, tx, PointMovement{
			UserID:      userID,
			Amount:      bonus.Points,
			Source:      model.PointSourceWeightBonus,
			Description: fmt.Sprintf("Bono por peso: %d kg", bonus.Kilograms),
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return bonus, nil
}

func getPointBalance(ctx context.Context, e sqlx.ExtContext, userID uuid.UUID) (*model.PointBalance, error) {
	var balance model.PointBalance
	err := sqlx.GetContext(ctx, e, &balance, e.Rebind(`
		SELECT points, total_earned_points FROM users WHERE id = ?`), userID)
	if err != nil {
		return nil, notFoundAs(err, ErrUserNotFound)
	}
	return &balance, nil
}
