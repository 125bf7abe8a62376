package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/GermanDelima/verdeScan/internal/model"
)

func (r *Repository) ListActiveRaffles(ctx context.Context) ([]model.Raffle, error) {
	var raffles []model.Raffle
	err := r.db.SelectContext(ctx, &raffles, r.q(`
		SELECT * FROM raffles WHERE status = ? ORDER BY draw_date ASC`), model.RaffleStatusActive)
	return raffles, err
}

func (r *Repository) GetRaffle(ctx context.Context, id uuid.UUID) (*model.Raffle, error) {
	var raffle model.Raffle
	err := r.db.GetContext(ctx, &raffle, r.q(`SELECT * FROM raffles WHERE id = ?`), id)
	if err != nil {
		return nil, notFoundAs(err, ErrNotFound)
	}
	return &raffle, nil
}

// BuyRaffleTickets debits the total cost and stores one ticket per number.
// Nothing is written when the balance does not cover the cost.
func (r *Repository) BuyRaffleTickets(ctx context.Context, userID uuid.UUID, raffle *model.Raffle, numbers []string) ([]model.RaffleTicket, *model.PointTransaction, error) {
	tickets := make([]model.RaffleTicket, 0, len(numbers))
	var txn *model.PointTransaction

	err := r.inTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		txn, err = r.debitTx(ctx, tx, PointMovement{
			UserID:      userID,
			Amount:      raffle.TicketCost * int64(len(numbers)),
			Source:      model.PointSourceRaffleTicket,
			Description: fmt.Sprintf("Sorteo %s: %d boleto(s)", raffle.Title, len(numbers)),
			ReferenceID: &raffle.ID,
		})
		if err != nil {
			return err
		}

		for _, number := range numbers {
			ticket := model.RaffleTicket{
				ID:           uuid.New(),
				UserID:       userID,
				RaffleID:     raffle.ID,
				TicketNumber: number,
				CreatedAt:    r.now(),
			}
			_, err := tx.ExecContext(ctx, tx.Rebind(`
				INSERT INTO raffle_tickets (id, user_id, raffle_id, ticket_number, created_at)
				VALUES (?, ?, ?, ?, ?)`),
				ticket.ID, ticket.UserID, ticket.RaffleID, ticket.TicketNumber, ticket.CreatedAt)
			if err != nil {
				return fmt.Errorf("failed to create raffle ticket: %w", err)
			}
			tickets = append(tickets, ticket)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return tickets, txn, nil
}

// CountUserTickets returns how many tickets a user holds per raffle
func (r *Repository) CountUserTickets(ctx context.Context, userID uuid.UUID) (map[uuid.UUID]int, error) {
	var rows []struct {
		RaffleID uuid.UUID `db:"raffle_id"`
		Tickets  int       `db:"tickets"`
	}
	err := r.db.SelectContext(ctx, &rows, r.q(`
		SELECT raffle_id, COUNT(*) AS tickets
		FROM raffle_tickets
		WHERE user_id = ?
		GROUP BY raffle_id`), userID)
	if err != nil {
		return nil, err
	}
	counts := make(map[uuid.UUID]int, len(rows))
	for _, row := range rows {
		counts[row.RaffleID] = row.Tickets
	}
	return counts, nil
}
