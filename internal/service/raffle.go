package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/GermanDelima/verdeScan/internal/metrics"
	"github.com/GermanDelima/verdeScan/internal/model"
	"github.com/GermanDelima/verdeScan/internal/repository"
)

const maxTicketsPerPurchase = 10

// RaffleView is an active raffle with the caller's ticket count
type RaffleView struct {
	model.Raffle
	UserTickets int `json:"user_tickets"`
}

// TicketPurchase is the outcome of buying raffle tickets
type TicketPurchase struct {
	Tickets     []model.RaffleTicket `json:"tickets"`
	PointsSpent int64                `json:"points_spent"`
	NewPoints   int64                `json:"new_points"`
}

type RaffleService struct {
	repo      *repository.Repository
	metrics   *metrics.RewardsMetrics
	newNumber func() (string, error)
}

func NewRaffleService(repo *repository.Repository) *RaffleService {
	return &RaffleService{
		repo:      repo,
		metrics:   metrics.Rewards(),
		newNumber: ticketNumber,
	}
}

// ticketNumber draws a zero-padded six digit number
func ticketNumber() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

func (s *RaffleService) ListActive(ctx context.Context, userID uuid.UUID) ([]RaffleView, error) {
	raffles, err := s.repo.ListActiveRaffles(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list raffles: %w", err)
	}
	counts, err := s.repo.CountUserTickets(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count tickets: %w", err)
	}

	views := make([]RaffleView, 0, len(raffles))
	for _, r := range raffles {
		views = append(views, RaffleView{Raffle: r, UserTickets: counts[r.ID]})
	}
	return views, nil
}

// BuyTickets debits count × ticket cost and issues the tickets. The lifetime
// points counter is left untouched.
func (s *RaffleService) BuyTickets(ctx context.Context, userID, raffleID uuid.UUID, count int) (*TicketPurchase, error) {
	if count < 1 || count > maxTicketsPerPurchase {
		return nil, ErrInvalidTicketCount
	}

	raffle, err := s.repo.GetRaffle(ctx, raffleID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRaffleNotFound
		}
		return nil, fmt.Errorf("failed to get raffle: %w", err)
	}
	if raffle.Status != model.RaffleStatusActive {
		return nil, ErrRaffleClosed
	}

	numbers := make([]string, count)
	for i := range numbers {
		if numbers[i], err = s.newNumber(); err != nil {
			return nil, fmt.Errorf("failed to draw ticket number: %w", err)
		}
	}

	tickets, txn, err := s.repo.BuyRaffleTickets(ctx, userID, raffle, numbers)
	if err != nil {
		return nil, mapPointError(err)
	}

	s.metrics.ObservePointsDebited(string(model.PointSourceRaffleTicket), -txn.Amount)
	zap.L().Info("raffle tickets purchased",
		zap.String("user_id", userID.String()),
		zap.String("raffle_id", raffle.ID.String()),
		zap.Int("tickets", count),
	)

	return &TicketPurchase{
		Tickets:     tickets,
		PointsSpent: -txn.Amount,
		NewPoints:   txn.PointsAfter,
	}, nil
}
