package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/GermanDelima/verdeScan/internal/metrics"
	"github.com/GermanDelima/verdeScan/internal/model"
	"github.com/GermanDelima/verdeScan/internal/repository"
)

type VirtualBinService struct {
	repo    *repository.Repository
	metrics *metrics.RewardsMetrics
}

func NewVirtualBinService(repo *repository.Repository) *VirtualBinService {
	return &VirtualBinService{
		repo:    repo,
		metrics: metrics.Rewards(),
	}
}

// Add increments the user's bin and returns the new quantity of material
func (s *VirtualBinService) Add(ctx context.Context, userID uuid.UUID, material model.MaterialType, quantity int64) (int64, error) {
	if !material.Valid() {
		return 0, ErrInvalidMaterial
	}
	if quantity < 1 {
		return 0, ErrInvalidQuantity
	}

	if err := s.repo.AddToVirtualBin(ctx, userID, material, quantity); err != nil {
		return 0, fmt.Errorf("failed to add to virtual bin: %w", err)
	}
	s.metrics.ObserveBinAdd(string(material), quantity)

	bin, err := s.Read(ctx, userID)
	if err != nil {
		return 0, err
	}

	zap.L().Debug("virtual bin updated",
		zap.String("user_id", userID.String()),
		zap.String("material", string(material)),
		zap.Int64("quantity", bin.Get(material)),
	)
	return bin.Get(material), nil
}

// Read returns every material of the bin, zero for types never scanned
func (s *VirtualBinService) Read(ctx context.Context, userID uuid.UUID) (model.VirtualBin, error) {
	var bin model.VirtualBin
	entries, err := s.Entries(ctx, userID)
	if err != nil {
		return bin, err
	}
	for m, q := range entries {
		bin.Set(m, q)
	}
	return bin, nil
}

// Entries returns only the materials the user has scanned at least once
func (s *VirtualBinService) Entries(ctx context.Context, userID uuid.UUID) (map[model.MaterialType]int64, error) {
	entries, err := s.repo.GetVirtualBin(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get virtual bin: %w", err)
	}
	byMaterial := make(map[model.MaterialType]int64, len(entries))
	for _, e := range entries {
		byMaterial[e.MaterialType] = e.Quantity
	}
	return byMaterial, nil
}

// Remove decrements the bin, flooring at zero. Removing from a material the
// user never scanned is a no-op.
func (s *VirtualBinService) Remove(ctx context.Context, userID uuid.UUID, material model.MaterialType, quantity int64) error {
	if !material.Valid() {
		return ErrInvalidMaterial
	}
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	return s.repo.RemoveFromVirtualBin(ctx, userID, material, quantity)
}
