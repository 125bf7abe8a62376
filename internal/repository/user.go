package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/GermanDelima/verdeScan/internal/model"
)

func (r *Repository) GetUser(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var user model.User
	err := r.db.GetContext(ctx, &user, r.q("SELECT * FROM users WHERE id = ?"), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// EnsureUser creates the user row for an identity seen for the first time.
// Existing rows keep their balances; name and email are refreshed.
func (r *Repository) EnsureUser(ctx context.Context, user *model.User) error {
	now := r.now()
	role := user.Role
	if role == "" {
		role = model.UserRoleUser
	}
	_, err := r.db.ExecContext(ctx, r.q(`
		INSERT INTO users (id, email, name, neighborhood, role, points, total_earned_points, accumulated_weight_grams, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, 0, 0, 0, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			email = excluded.email,
			name = excluded.name,
			updated_at = excluded.updated_at`),
		user.ID, user.Email, user.Name, user.Neighborhood, role, now, now)
	return err
}

func (r *Repository) UpdateNeighborhood(ctx context.Context, id uuid.UUID, neighborhood string) error {
	res, err := r.db.ExecContext(ctx, r.q(`
		UPDATE users SET neighborhood = ?, updated_at = ? WHERE id = ?`),
		neighborhood, r.now(), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrUserNotFound
	}
	return nil
}

// GetNeighborhoodRankings sums lifetime points per barrio
func (r *Repository) GetNeighborhoodRankings(ctx context.Context, limit int) ([]model.NeighborhoodRanking, error) {
	var rankings []model.NeighborhoodRanking
	err := r.db.SelectContext(ctx, &rankings, r.q(`
		SELECT neighborhood, COALESCE(SUM(total_earned_points), 0) AS total_points, COUNT(*) AS users
		FROM users
		WHERE neighborhood IS NOT NULL AND neighborhood <> ''
		GROUP BY neighborhood
		ORDER BY total_points DESC, neighborhood ASC
		LIMIT ?`), limit)
	return rankings, err
}
