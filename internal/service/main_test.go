package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/GermanDelima/verdeScan/internal/config"
	"github.com/GermanDelima/verdeScan/internal/model"
	"github.com/GermanDelima/verdeScan/internal/repository"
	"github.com/GermanDelima/verdeScan/internal/repository/sqlitetest"
)

type testEnv struct {
	repo *repository.Repository
	cfg  *config.Config
	now  time.Time

	tokens  *TokenService
	bins    *VirtualBinService
	points  *PointService
	catalog *CatalogService
	auth    *AuthService
	staff   *StaffService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		repo: sqlitetest.New(t),
		cfg:  config.Default(),
		now:  time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
	}
	env.cfg.Auth.UserJWTSecret = "user-secret"
	env.cfg.Auth.StaffJWTSecret = "staff-secret"

	clock := func() time.Time { return env.now }
	env.repo.SetClock(clock)

	env.tokens = NewTokenService(env.repo, env.cfg)
	env.tokens.SetClock(clock)
	env.bins = NewVirtualBinService(env.repo)
	env.points = NewPointService(env.repo)
	env.catalog = NewCatalogService(env.repo)
	env.auth = NewAuthService(env.cfg)
	env.auth.now = clock
	env.staff = NewStaffService(env.repo, env.auth)
	return env
}

func (e *testEnv) advance(d time.Duration) {
	e.now = e.now.Add(d)
}

func (e *testEnv) createUser(t *testing.T, name string) *model.User {
	t.Helper()
	user := &model.User{ID: uuid.New(), Email: name + "@example.com", Name: name}
	require.NoError(t, e.repo.EnsureUser(context.Background(), user))
	got, err := e.repo.GetUser(context.Background(), user.ID)
	require.NoError(t, err)
	return got
}

func (e *testEnv) createStaff(t *testing.T, username string, active bool) *model.StaffAccount {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("secreto123"), bcrypt.MinCost)
	require.NoError(t, err)
	staff := &model.StaffAccount{
		Username:     username,
		PasswordHash: string(hash),
		AccountType:  model.StaffAccountPromotor,
		IsActive:     active,
	}
	require.NoError(t, e.repo.CreateStaff(context.Background(), staff))
	return staff
}

func (e *testEnv) balance(t *testing.T, userID uuid.UUID) *model.PointBalance {
	t.Helper()
	b, err := e.repo.GetPointBalance(context.Background(), userID)
	require.NoError(t, err)
	return b
}

func repositoryRedeem(token *model.RecyclingToken, staff *model.StaffAccount) repository.RedeemParams {
	return repository.RedeemParams{
		Token:       token,
		StaffID:     staff.ID,
		StaffName:   staff.Username,
		ValidatedAt: time.Date(2026, 3, 2, 10, 1, 0, 0, time.UTC),
	}
}

func (e *testEnv) createRaffle(t *testing.T, cost int64, status string) uuid.UUID {
	t.Helper()
	id := uuid.New()
	db := e.repo.DB()
	_, err := db.Exec(db.Rebind(`
		INSERT INTO raffles (id, title, prize, ticket_cost, draw_date, status)
		VALUES (?, ?, ?, ?, ?, ?)`),
		id, "Sorteo bicicleta", "Bicicleta", cost, e.now.Add(30*24*time.Hour), status)
	require.NoError(t, err)
	return id
}

func (e *testEnv) earn(t *testing.T, userID uuid.UUID, points int64) {
	t.Helper()
	_, err := e.points.Credit(context.Background(), userID, points, model.PointSourceTokenRedemption, "seed")
	require.NoError(t, err)
}
