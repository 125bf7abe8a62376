package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/GermanDelima/verdeScan/internal/model"
)

var ErrStaffNotFound = ErrNotFound

func (r *Repository) GetStaffByID(ctx context.Context, id uuid.UUID) (*model.StaffAccount, error) {
	var staff model.StaffAccount
	err := r.db.GetContext(ctx, &staff, r.q(`SELECT * FROM staff_accounts WHERE id = ?`), id)
	if err != nil {
		return nil, notFoundAs(err, ErrStaffNotFound)
	}
	return &staff, nil
}

func (r *Repository) GetStaffByUsername(ctx context.Context, username string) (*model.StaffAccount, error) {
	var staff model.StaffAccount
	err := r.db.GetContext(ctx, &staff, r.q(`SELECT * FROM staff_accounts WHERE username = ?`), username)
	if err != nil {
		return nil, notFoundAs(err, ErrStaffNotFound)
	}
	return &staff, nil
}

// StaffUsernameExists checks the unique username before insert
func (r *Repository) StaffUsernameExists(ctx context.Context, username string) (bool, error) {
	var count int
	err := r.db.GetContext(ctx, &count, r.q(`
		SELECT COUNT(*) FROM staff_accounts WHERE username = ?`), username)
	return count > 0, err
}

func (r *Repository) CreateStaff(ctx context.Context, staff *model.StaffAccount) error {
	if staff.ID == uuid.Nil {
		staff.ID = uuid.New()
	}
	now := r.now()
	staff.CreatedAt, staff.UpdatedAt = now, now
	_, err := r.db.ExecContext(ctx, r.q(`
		INSERT INTO staff_accounts (id, username, password_hash, account_type, is_active, created_by, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`),
		staff.ID, staff.Username, staff.PasswordHash, staff.AccountType, staff.IsActive,
		staff.CreatedBy, staff.CreatedAt, staff.UpdatedAt)
	return err
}

func (r *Repository) ListStaff(ctx context.Context) ([]model.StaffAccount, error) {
	var accounts []model.StaffAccount
	err := r.db.SelectContext(ctx, &accounts, `SELECT * FROM staff_accounts ORDER BY created_at DESC`)
	return accounts, err
}

func (r *Repository) SetStaffActive(ctx context.Context, id uuid.UUID, active bool) error {
	res, err := r.db.ExecContext(ctx, r.q(`
		UPDATE staff_accounts SET is_active = ?, updated_at = ? WHERE id = ?`),
		active, r.now(), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrStaffNotFound
	}
	return nil
}

// DeleteStaff removes an account. Tokens it validated keep their history
// with validated_by cleared.
func (r *Repository) DeleteStaff(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, r.q(`DELETE FROM staff_accounts WHERE id = ?`), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrStaffNotFound
	}
	return nil
}
