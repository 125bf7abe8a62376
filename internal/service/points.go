package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/GermanDelima/verdeScan/internal/metrics"
	"github.com/GermanDelima/verdeScan/internal/model"
	"github.com/GermanDelima/verdeScan/internal/repository"
)

const maxHistoryLimit = 100

type PointService struct {
	repo    *repository.Repository
	metrics *metrics.RewardsMetrics
}

func NewPointService(repo *repository.Repository) *PointService {
	return &PointService{
		repo:    repo,
		metrics: metrics.Rewards(),
	}
}

// Credit adds amount to the spendable balance. Recycling sources also raise
// the lifetime total.
func (s *PointService) Credit(ctx context.Context, userID uuid.UUID, amount int64, source model.PointSource, description string) (*model.PointTransaction, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	txn, err := s.repo.CreditPoints(ctx, repository.PointMovement{
		UserID:      userID,
		Amount:      amount,
		Source:      source,
		Description: description,
	})
	if err != nil {
		return nil, mapPointError(err)
	}
	s.metrics.ObservePointsCredited(string(source), amount)
	return txn, nil
}

// Debit subtracts amount only when the balance covers it
func (s *PointService) Debit(ctx context.Context, userID uuid.UUID, amount int64, source model.PointSource, description string) (*model.PointTransaction, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	txn, err := s.repo.DebitPoints(ctx, repository.PointMovement{
		UserID:      userID,
		Amount:      amount,
		Source:      source,
		Description: description,
	})
	if err != nil {
		return nil, mapPointError(err)
	}
	s.metrics.ObservePointsDebited(string(source), amount)
	return txn, nil
}

func (s *PointService) Balance(ctx context.Context, userID uuid.UUID) (*model.PointBalance, error) {
	balance, err := s.repo.GetPointBalance(ctx, userID)
	if err != nil {
		return nil, mapPointError(err)
	}
	return balance, nil
}

// History returns the audit trail of a user, newest first
func (s *PointService) History(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.PointTransaction, error) {
	if limit <= 0 || limit > maxHistoryLimit {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.GetPointTransactions(ctx, userID, limit, offset)
}

func mapPointError(err error) error {
	switch {
	case errors.Is(err, repository.ErrInsufficientPoints):
		return ErrInsufficientPoints
	case errors.Is(err, repository.ErrUserNotFound):
		return ErrUserNotFound
	}
	return fmt.Errorf("point ledger: %w", err)
}
