package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/GermanDelima/verdeScan/internal/config"
	"github.com/GermanDelima/verdeScan/internal/metrics"
	"github.com/GermanDelima/verdeScan/internal/repository"
)

// Settings keys that override the configured weight bonus
const (
	SettingWeightThresholdGrams = "weight_threshold_grams"
	SettingWeightBonusPerKg     = "weight_bonus_points_per_kg"
)

// ScanResult reports the effect of one scanned product
type ScanResult struct {
	Product                *ProductInfo `json:"product"`
	BinQuantity            int64        `json:"bin_quantity"`
	AccumulatedWeightGrams int64        `json:"accumulated_weight"`
	ThresholdGrams         int64        `json:"weight_threshold"`
	BonusAvailable         bool         `json:"bonus_available"`
}

type ScanService struct {
	repo    *repository.Repository
	cfg     *config.Config
	catalog *CatalogService
	bin     *VirtualBinService
	metrics *metrics.RewardsMetrics
}

func NewScanService(repo *repository.Repository, cfg *config.Config, catalog *CatalogService, bin *VirtualBinService) *ScanService {
	return &ScanService{
		repo:    repo,
		cfg:     cfg,
		catalog: catalog,
		bin:     bin,
		metrics: metrics.Rewards(),
	}
}

// Scan classifies a barcode, adds one unit to the matching bin entry and
// accumulates the product weight toward the bonus.
func (s *ScanService) Scan(ctx context.Context, userID uuid.UUID, barcode string) (*ScanResult, error) {
	product, err := s.catalog.LookupProduct(ctx, barcode)
	if err != nil {
		return nil, err
	}

	quantity, err := s.bin.Add(ctx, userID, product.Material, 1)
	if err != nil {
		return nil, err
	}

	weight, err := s.repo.AddAccumulatedWeight(ctx, userID, product.WeightGrams)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to add accumulated weight: %w", err)
	}

	threshold := s.thresholdGrams(ctx)
	return &ScanResult{
		Product:                product,
		BinQuantity:            quantity,
		AccumulatedWeightGrams: weight,
		ThresholdGrams:         threshold,
		BonusAvailable:         weight >= threshold,
	}, nil
}

// ClaimBonus converts every full threshold of accumulated weight into points
func (s *ScanService) ClaimBonus(ctx context.Context, userID uuid.UUID) (*repository.WeightBonus, error) {
	perKg := s.repo.GetSettingInt(ctx, SettingWeightBonusPerKg, s.cfg.Rewards.WeightBonusPointsPerKg)

	bonus, err := s.repo.ClaimWeightBonus(ctx, userID, s.thresholdGrams(ctx), perKg)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to claim weight bonus: %w", err)
	}
	if bonus.Kilograms == 0 {
		return nil, ErrNoBonusAvailable
	}

	s.metrics.ObservePointsCredited("weight_bonus", bonus.Points)
	zap.L().Info("weight bonus claimed",
		zap.String("user_id", userID.String()),
		zap.Int64("kilograms", bonus.Kilograms),
		zap.Int64("points", bonus.Points),
	)
	return bonus, nil
}

func (s *ScanService) thresholdGrams(ctx context.Context) int64 {
	threshold := s.repo.GetSettingInt(ctx, SettingWeightThresholdGrams, s.cfg.Rewards.WeightThresholdGrams)
	if threshold <= 0 {
		return s.cfg.Rewards.WeightThresholdGrams
	}
	return threshold
}
