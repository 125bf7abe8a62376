package repository

import (
	"context"
	"errors"

	"github.com/GermanDelima/verdeScan/internal/model"
)

// GetPointsConfig returns the points configuration of one material
func (r *Repository) GetPointsConfig(ctx context.Context, material model.MaterialType) (*model.MaterialPointsConfig, error) {
	var cfg model.MaterialPointsConfig
	err := r.db.GetContext(ctx, &cfg, r.q(`
		SELECT * FROM material_points_config WHERE material_type = ?`), material)
	if err != nil {
		return nil, notFoundAs(err, ErrNotFound)
	}
	return &cfg, nil
}

func (r *Repository) ListPointsConfig(ctx context.Context) ([]model.MaterialPointsConfig, error) {
	var configs []model.MaterialPointsConfig
	err := r.db.SelectContext(ctx, &configs, `
		SELECT * FROM material_points_config ORDER BY material_type`)
	return configs, err
}

// GetProductByBarcode looks up an active catalog product
func (r *Repository) GetProductByBarcode(ctx context.Context, barcode string) (*model.Product, error) {
	var product model.Product
	err := r.db.GetContext(ctx, &product, r.q(`
		SELECT * FROM products WHERE barcode = ? AND active = ?`), barcode, true)
	if err != nil {
		return nil, notFoundAs(err, ErrNotFound)
	}
	return &product, nil
}

// ErrDuplicateBarcode is returned when a product with the barcode exists
var ErrDuplicateBarcode = errors.New("product barcode already exists")

func (r *Repository) ListProducts(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	err := r.db.SelectContext(ctx, &products, `
		SELECT * FROM products ORDER BY created_at DESC`)
	return products, err
}

func (r *Repository) CreateProduct(ctx context.Context, product *model.Product) error {
	exists, err := r.productExists(ctx, product.Barcode)
	if err != nil {
		return err
	}
	if exists {
		return ErrDuplicateBarcode
	}

	product.CreatedAt = r.now()
	_, err = r.db.ExecContext(ctx, r.q(`
		INSERT INTO products (barcode, name, weight_grams, category, points_per_kg, active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`),
		product.Barcode, product.Name, product.WeightGrams, product.Category,
		product.PointsPerKg, product.Active, product.CreatedAt)
	return err
}

// UpdateProduct overwrites every editable field of the product
func (r *Repository) UpdateProduct(ctx context.Context, product *model.Product) error {
	res, err := r.db.ExecContext(ctx, r.q(`
		UPDATE products SET name = ?, weight_grams = ?, category = ?, points_per_kg = ?, active = ?
		WHERE barcode = ?`),
		product.Name, product.WeightGrams, product.Category, product.PointsPerKg,
		product.Active, product.Barcode)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) DeleteProduct(ctx context.Context, barcode string) error {
	res, err := r.db.ExecContext(ctx, r.q(`DELETE FROM products WHERE barcode = ?`), barcode)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// GetProduct returns a product regardless of its active flag
func (r *Repository) GetProduct(ctx context.Context, barcode string) (*model.Product, error) {
	var product model.Product
	err := r.db.GetContext(ctx, &product, r.q(`SELECT * FROM products WHERE barcode = ?`), barcode)
	if err != nil {
		return nil, notFoundAs(err, ErrNotFound)
	}
	return &product, nil
}

func (r *Repository) productExists(ctx context.Context, barcode string) (bool, error) {
	var count int
	err := r.db.GetContext(ctx, &count, r.q(`SELECT COUNT(*) FROM products WHERE barcode = ?`), barcode)
	return count > 0, err
}
