package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/GermanDelima/verdeScan/internal/model"
)

// CreateSubeExchange debits the exchange cost and records the request for
// the team loading SUBE credit.
func (r *Repository) CreateSubeExchange(ctx context.Context, exchange *model.SubeExchange) (*model.PointTransaction, error) {
	if exchange.ID == uuid.Nil {
		exchange.ID = uuid.New()
	}
	exchange.CreatedAt = r.now()

	var txn *model.PointTransaction
	err := r.inTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		txn, err = r.debitTx(ctx, tx, PointMovement{
			UserID:      exchange.UserID,
			Amount:      exchange.PointsSpent,
			Source:      model.PointSourceSubeExchange,
			Description: fmt.Sprintf("Canje SUBE (%s): %d boletos", exchange.ExchangeType, exchange.Tickets),
			ReferenceID: &exchange.ID,
		})
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, tx.Rebind(`
			INSERT INTO sube_exchanges (id, user_id, exchange_type, points_spent, tickets, sube_alias, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`),
			exchange.ID, exchange.UserID, exchange.ExchangeType, exchange.PointsSpent,
			exchange.Tickets, exchange.SubeAlias, exchange.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to record sube exchange: %w", err)
		}
		return nil
	})
	return txn, err
}
