package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/GermanDelima/verdeScan/internal/model"
	"github.com/GermanDelima/verdeScan/internal/repository"
)

// DefaultPointsPerKg applies to products created without an explicit rate
const DefaultPointsPerKg = 50

var barcodePattern = regexp.MustCompile(`^\d{13}$`)

// ProductInfo is a catalog product together with its classified material
type ProductInfo struct {
	*model.Product
	Material model.MaterialType `json:"material_type"`
}

// ProductInput carries the fields of a new catalog product
type ProductInput struct {
	Barcode     string `json:"gtin"`
	Name        string `json:"name"`
	WeightGrams int64  `json:"weight"`
	Category    string `json:"category"`
	PointsPerKg *int64 `json:"points_per_kg"`
	Active      *bool  `json:"active"`
}

// ProductUpdate carries the fields to change, nil fields are left as they are
type ProductUpdate struct {
	Name        *string `json:"name"`
	WeightGrams *int64  `json:"weight"`
	Category    *string `json:"category"`
	PointsPerKg *int64  `json:"points_per_kg"`
	Active      *bool   `json:"active"`
}

func (u ProductUpdate) empty() bool {
	return u.Name == nil && u.WeightGrams == nil && u.Category == nil && u.PointsPerKg == nil && u.Active == nil
}

type CatalogService struct {
	repo *repository.Repository
}

func NewCatalogService(repo *repository.Repository) *CatalogService {
	return &CatalogService{repo: repo}
}

func ValidBarcode(barcode string) bool {
	return barcodePattern.MatchString(barcode)
}

// LookupProduct finds an active product by its 13-digit barcode
func (s *CatalogService) LookupProduct(ctx context.Context, barcode string) (*ProductInfo, error) {
	barcode = strings.TrimSpace(barcode)
	if !ValidBarcode(barcode) {
		return nil, ErrInvalidBarcode
	}

	product, err := s.repo.GetProductByBarcode(ctx, barcode)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	return &ProductInfo{Product: product, Material: product.MaterialType()}, nil
}

// PointsConfig lists the point rate of every material
func (s *CatalogService) PointsConfig(ctx context.Context) ([]model.MaterialPointsConfig, error) {
	return s.repo.ListPointsConfig(ctx)
}

// MaterialConfigs indexes the point configuration by material
func (s *CatalogService) MaterialConfigs(ctx context.Context) (map[model.MaterialType]model.MaterialPointsConfig, error) {
	configs, err := s.repo.ListPointsConfig(ctx)
	if err != nil {
		return nil, err
	}
	byMaterial := make(map[model.MaterialType]model.MaterialPointsConfig, len(configs))
	for _, c := range configs {
		byMaterial[c.MaterialType] = c
	}
	return byMaterial, nil
}

func (s *CatalogService) ListProducts(ctx context.Context) ([]model.Product, error) {
	return s.repo.ListProducts(ctx)
}

func (s *CatalogService) CreateProduct(ctx context.Context, in ProductInput) (*model.Product, error) {
	in.Barcode = strings.TrimSpace(in.Barcode)
	in.Name = strings.TrimSpace(in.Name)
	in.Category = strings.TrimSpace(in.Category)

	if in.Barcode == "" || in.Name == "" || in.Category == "" || in.WeightGrams == 0 {
		return nil, ErrMissingProduct
	}
	if in.WeightGrams < 0 {
		return nil, ErrInvalidWeight
	}
	pointsPerKg := int64(DefaultPointsPerKg)
	if in.PointsPerKg != nil {
		pointsPerKg = *in.PointsPerKg
	}
	if pointsPerKg < 0 {
		return nil, ErrInvalidPointsPerKg
	}
	if !ValidBarcode(in.Barcode) {
		return nil, ErrInvalidBarcode
	}

	product := &model.Product{
		Barcode:     in.Barcode,
		Name:        in.Name,
		WeightGrams: in.WeightGrams,
		Category:    in.Category,
		PointsPerKg: decimal.NewFromInt(pointsPerKg),
		Active:      in.Active == nil || *in.Active,
	}
	if err := s.repo.CreateProduct(ctx, product); err != nil {
		if errors.Is(err, repository.ErrDuplicateBarcode) {
			return nil, ErrDuplicateBarcode
		}
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	zap.L().Info("product created", zap.String("barcode", product.Barcode), zap.String("category", product.Category))
	return product, nil
}

func (s *CatalogService) UpdateProduct(ctx context.Context, barcode string, upd ProductUpdate) (*model.Product, error) {
	if upd.empty() {
		return nil, ErrNoProductFields
	}

	product, err := s.repo.GetProduct(ctx, barcode)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	if upd.Name != nil {
		product.Name = strings.TrimSpace(*upd.Name)
	}
	if upd.WeightGrams != nil {
		if *upd.WeightGrams <= 0 {
			return nil, ErrInvalidWeight
		}
		product.WeightGrams = *upd.WeightGrams
	}
	if upd.Category != nil {
		product.Category = strings.TrimSpace(*upd.Category)
	}
	if upd.PointsPerKg != nil {
		if *upd.PointsPerKg < 0 {
			return nil, ErrInvalidPointsPerKg
		}
		product.PointsPerKg = decimal.NewFromInt(*upd.PointsPerKg)
	}
	if upd.Active != nil {
		product.Active = *upd.Active
	}

	if err := s.repo.UpdateProduct(ctx, product); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	return product, nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, barcode string) error {
	if err := s.repo.DeleteProduct(ctx, barcode); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrProductNotFound
		}
		return fmt.Errorf("failed to delete product: %w", err)
	}
	zap.L().Info("product deleted", zap.String("barcode", barcode))
	return nil
}
