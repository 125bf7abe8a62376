package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/GermanDelima/verdeScan/internal/model"
	"github.com/GermanDelima/verdeScan/internal/repository"
	"github.com/GermanDelima/verdeScan/internal/repository/sqlitetest"
)

var testNow = time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

func newRepo(t *testing.T) *repository.Repository {
	t.Helper()
	repo := sqlitetest.New(t)
	repo.SetClock(func() time.Time { return testNow })
	return repo
}

func createUser(t *testing.T, repo *repository.Repository, neighborhood string) uuid.UUID {
	t.Helper()
	user := &model.User{ID: uuid.New(), Email: "vecino@example.com", Name: "Vecino"}
	if neighborhood != "" {
		user.Neighborhood = &neighborhood
	}
	require.NoError(t, repo.EnsureUser(context.Background(), user))
	return user.ID
}

func createToken(t *testing.T, repo *repository.Repository, userID uuid.UUID, code string, material model.MaterialType, quantity, points int64) *model.RecyclingToken {
	t.Helper()
	token := &model.RecyclingToken{
		UserID:       userID,
		TokenCode:    code,
		MaterialType: material,
		PointsValue:  points,
		Quantity:     quantity,
		Status:       model.TokenStatusPending,
		CreatedAt:    testNow,
		ExpiresAt:    testNow.Add(15 * time.Minute),
	}
	require.NoError(t, repo.CreateToken(context.Background(), token))
	return token
}

func TestEnsureUserKeepsBalances(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	id := createUser(t, repo, "Centro")

	_, err := repo.CreditPoints(ctx, repository.PointMovement{UserID: id, Amount: 40, Source: model.PointSourceTokenRedemption})
	require.NoError(t, err)

	require.NoError(t, repo.EnsureUser(ctx, &model.User{ID: id, Email: "nuevo@example.com", Name: "Nuevo"}))

	user, err := repo.GetUser(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "nuevo@example.com", user.Email)
	require.Equal(t, int64(40), user.Points)
	require.Equal(t, model.UserRoleUser, user.Role)
	require.NotNil(t, user.Neighborhood)
	require.Equal(t, "Centro", *user.Neighborhood)

	_, err = repo.GetUser(ctx, uuid.New())
	require.ErrorIs(t, err, repository.ErrUserNotFound)
}

func TestCreditAndDebit(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	id := createUser(t, repo, "")

	txn, err := repo.CreditPoints(ctx, repository.PointMovement{UserID: id, Amount: 30, Source: model.PointSourceTokenRedemption, Description: "token"})
	require.NoError(t, err)
	require.Equal(t, int64(0), txn.PointsBefore)
	require.Equal(t, int64(30), txn.PointsAfter)

	txn, err = repo.DebitPoints(ctx, repository.PointMovement{UserID: id, Amount: 12, Source: model.PointSourceRaffleTicket})
	require.NoError(t, err)
	require.Equal(t, int64(-12), txn.Amount)
	require.Equal(t, int64(30), txn.PointsBefore)
	require.Equal(t, int64(18), txn.PointsAfter)

	_, err = repo.DebitPoints(ctx, repository.PointMovement{UserID: id, Amount: 19, Source: model.PointSourceSubeExchange})
	require.ErrorIs(t, err, repository.ErrInsufficientPoints)

	_, err = repo.DebitPoints(ctx, repository.PointMovement{UserID: uuid.New(), Amount: 1, Source: model.PointSourceSubeExchange})
	require.ErrorIs(t, err, repository.ErrUserNotFound)

	balance, err := repo.GetPointBalance(ctx, id)
	require.NoError(t, err)
	require.Equal(t, model.PointBalance{Points: 18, TotalEarnedPoints: 30}, *balance)

	history, err := repo.GetPointTransactions(ctx, id, 10, 0)
	require.NoError(t, err)
	require.Len(t, history, 2)
}

func TestSpendingSourcesDoNotRaiseLifetimeTotal(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	id := createUser(t, repo, "")

	_, err := repo.CreditPoints(ctx, repository.PointMovement{UserID: id, Amount: 5, Source: model.PointSourceRaffleTicket, Description: "reintegro"})
	require.NoError(t, err)

	balance, err := repo.GetPointBalance(ctx, id)
	require.NoError(t, err)
	require.Equal(t, int64(5), balance.Points)
	require.Equal(t, int64(0), balance.TotalEarnedPoints)
}

func TestRedeemTokenOnlyOnce(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	id := createUser(t, repo, "")
	token := createToken(t, repo, id, "ABC234", model.MaterialAVU, 2, 20)

	params := repository.RedeemParams{Token: token, StaffID: uuid.New(), StaffName: "promo1", ValidatedAt: testNow}

	txn, err := repo.RedeemToken(ctx, params)
	require.NoError(t, err)
	require.Equal(t, int64(20), txn.Amount)
	require.NotNil(t, txn.ReferenceID)
	require.Equal(t, token.ID, *txn.ReferenceID)

	_, err = repo.RedeemToken(ctx, params)
	require.ErrorIs(t, err, repository.ErrTokenNotPending)

	balance, err := repo.GetPointBalance(ctx, id)
	require.NoError(t, err)
	require.Equal(t, model.PointBalance{Points: 20, TotalEarnedPoints: 20}, *balance)

	stored, err := repo.GetTokenByCode(ctx, "ABC234")
	require.NoError(t, err)
	require.Equal(t, model.TokenStatusValidated, stored.Status)
	require.NotNil(t, stored.ValidationLocation)
	require.Equal(t, "promo1", *stored.ValidationLocation)
}

func TestRedeemTokenRollsBackForMissingUser(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	id := createUser(t, repo, "")
	token := createToken(t, repo, id, "ABC234", model.MaterialCan, 1, 1)

	orphan := *token
	orphan.UserID = uuid.New()
	_, err := repo.RedeemToken(ctx, repository.RedeemParams{Token: &orphan, StaffID: uuid.New(), ValidatedAt: testNow})
	require.ErrorIs(t, err, repository.ErrUserNotFound)

	stored, err := repo.GetTokenByCode(ctx, "ABC234")
	require.NoError(t, err)
	require.Equal(t, model.TokenStatusPending, stored.Status)
}

func TestTerminalTokensStayTerminal(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	id := createUser(t, repo, "")
	token := createToken(t, repo, id, "EXP234", model.MaterialCan, 1, 1)

	ok, err := repo.MarkTokenExpired(ctx, token.ID)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = repo.CancelToken(ctx, token.ID, id)
	require.NoError(t, err)
	require.False(t, ok)

	_, err = repo.RedeemToken(ctx, repository.RedeemParams{Token: token, StaffID: uuid.New(), ValidatedAt: testNow})
	require.ErrorIs(t, err, repository.ErrTokenNotPending)

	other := createToken(t, repo, id, "CAN234", model.MaterialCan, 1, 1)
	ok, err = repo.CancelToken(ctx, other.ID, uuid.New())
	require.NoError(t, err)
	require.False(t, ok)

	exists, err := repo.TokenCodeExists(ctx, "EXP234")
	require.NoError(t, err)
	require.True(t, exists)
}

func TestDepleteTokenBin(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	id := createUser(t, repo, "")

	require.NoError(t, repo.AddToVirtualBin(ctx, id, model.MaterialCan, 3))
	token := createToken(t, repo, id, "LAT234", model.MaterialCan, 5, 5)

	applied, err := repo.DepleteTokenBin(ctx, token)
	require.NoError(t, err)
	require.False(t, applied, "pending tokens are not depleted")

	_, err = repo.RedeemToken(ctx, repository.RedeemParams{Token: token, StaffID: uuid.New(), ValidatedAt: testNow})
	require.NoError(t, err)

	pending, err := repo.ListUndepletedTokens(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	applied, err = repo.DepleteTokenBin(ctx, token)
	require.NoError(t, err)
	require.True(t, applied)

	applied, err = repo.DepleteTokenBin(ctx, token)
	require.NoError(t, err)
	require.False(t, applied)

	entries, err := repo.GetVirtualBin(ctx, id)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, int64(0), entries[0].Quantity)

	pending, err = repo.ListUndepletedTokens(ctx, 10)
	require.NoError(t, err)
	require.Empty(t, pending)
}

func TestVirtualBinAddAndRemove(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	id := createUser(t, repo, "")

	require.NoError(t, repo.AddToVirtualBin(ctx, id, model.MaterialBottle, 2))
	require.NoError(t, repo.AddToVirtualBin(ctx, id, model.MaterialBottle, 3))
	require.NoError(t, repo.RemoveFromVirtualBin(ctx, id, model.MaterialBottle, 1))
	require.NoError(t, repo.RemoveFromVirtualBin(ctx, id, model.MaterialAVU, 4))

	entries, err := repo.GetVirtualBin(ctx, id)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, model.MaterialBottle, entries[0].MaterialType)
	require.Equal(t, int64(4), entries[0].Quantity)

	require.NoError(t, repo.RemoveFromVirtualBin(ctx, id, model.MaterialBottle, 10))
	entries, err = repo.GetVirtualBin(ctx, id)
	require.NoError(t, err)
	require.Equal(t, int64(0), entries[0].Quantity)
}

func TestClaimWeightBonus(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	id := createUser(t, repo, "")

	total, err := repo.AddAccumulatedWeight(ctx, id, 999)
	require.NoError(t, err)
	require.Equal(t, int64(999), total)

	bonus, err := repo.ClaimWeightBonus(ctx, id, 1000, 50)
	require.NoError(t, err)
	require.Zero(t, bonus.Kilograms)
	require.Nil(t, bonus.Transaction)

	total, err = repo.AddAccumulatedWeight(ctx, id, 2001)
	require.NoError(t, err)
	require.Equal(t, int64(3000), total)

	bonus, err = repo.ClaimWeightBonus(ctx, id, 1000, 50)
	require.NoError(t, err)
	require.Equal(t, int64(3), bonus.Kilograms)
	require.Equal(t, int64(150), bonus.Points)
	require.Zero(t, bonus.RemainingGrams)
	require.Equal(t, model.PointSourceWeightBonus, bonus.Transaction.Source)

	user, err := repo.GetUser(ctx, id)
	require.NoError(t, err)
	require.Zero(t, user.AccumulatedWeightGrams)
	require.Equal(t, int64(150), user.TotalEarnedPoints)

	_, err = repo.ClaimWeightBonus(ctx, uuid.New(), 1000, 50)
	require.ErrorIs(t, err, repository.ErrUserNotFound)
}

func TestSettings(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	_, err := repo.GetSetting(ctx, "weight_threshold_grams")
	require.ErrorIs(t, err, repository.ErrSettingNotFound)
	require.Equal(t, int64(1000), repo.GetSettingInt(ctx, "weight_threshold_grams", 1000))

	require.NoError(t, repo.SetSetting(ctx, "weight_threshold_grams", "750"))
	require.NoError(t, repo.SetSetting(ctx, "weight_threshold_grams", "800"))
	require.Equal(t, int64(800), repo.GetSettingInt(ctx, "weight_threshold_grams", 1000))

	require.NoError(t, repo.SetSetting(ctx, "sube_avu_points", "muchos"))
	require.Equal(t, int64(20), repo.GetSettingInt(ctx, "sube_avu_points", 20))

	all, err := repo.GetAllSettings(ctx)
	require.NoError(t, err)
	require.Equal(t, map[string]string{
		"weight_threshold_grams": "800",
		"sube_avu_points":        "muchos",
	}, all)
}

func TestNeighborhoodRankings(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	credit := func(id uuid.UUID, points int64) {
		_, err := repo.CreditPoints(ctx, repository.PointMovement{UserID: id, Amount: points, Source: model.PointSourceTokenRedemption})
		require.NoError(t, err)
	}

	credit(createUser(t, repo, "Centro"), 10)
	credit(createUser(t, repo, "Centro"), 15)
	spender := createUser(t, repo, "Villa Sarita")
	credit(spender, 30)
	credit(createUser(t, repo, ""), 100)

	_, err := repo.DebitPoints(ctx, repository.PointMovement{UserID: spender, Amount: 30, Source: model.PointSourceSubeExchange})
	require.NoError(t, err)

	rankings, err := repo.GetNeighborhoodRankings(ctx, 10)
	require.NoError(t, err)
	require.Equal(t, []model.NeighborhoodRanking{
		{Neighborhood: "Villa Sarita", TotalPoints: 30, Users: 1},
		{Neighborhood: "Centro", TotalPoints: 25, Users: 2},
	}, rankings)
}

func TestStaffValidationStats(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	id := createUser(t, repo, "")
	staff := &model.StaffAccount{Username: "promo1", PasswordHash: "x", AccountType: model.StaffAccountPromotor, IsActive: true}
	require.NoError(t, repo.CreateStaff(ctx, staff))

	for i, tc := range []struct {
		code     string
		material model.MaterialType
		quantity int64
	}{
		{"AVU234", model.MaterialAVU, 4},
		{"LAT234", model.MaterialCan, 6},
		{"LAT567", model.MaterialCan, 1},
	} {
		token := createToken(t, repo, id, tc.code, tc.material, tc.quantity, tc.quantity)
		_, err := repo.RedeemToken(ctx, repository.RedeemParams{
			Token:       token,
			StaffID:     staff.ID,
			StaffName:   staff.Username,
			ValidatedAt: testNow.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}
	createToken(t, repo, id, "BOT234", model.MaterialBottle, 9, 9)

	stats, err := repo.GetStaffValidationStats(ctx, staff.ID)
	require.NoError(t, err)
	require.Equal(t, model.StaffValidationStats{AVULiters: 4, CanCount: 7, TotalValidations: 3}, *stats)

	require.NoError(t, repo.SetStaffActive(ctx, staff.ID, false))
	got, err := repo.GetStaffByUsername(ctx, "promo1")
	require.NoError(t, err)
	require.False(t, got.IsActive)

	require.NoError(t, repo.DeleteStaff(ctx, staff.ID))
	require.ErrorIs(t, repo.DeleteStaff(ctx, staff.ID), repository.ErrStaffNotFound)
}

func TestProducts(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	product := &model.Product{Barcode: "7790000000011", Name: "Lata", WeightGrams: 15, Category: "lata", Active: true}
	require.NoError(t, repo.CreateProduct(ctx, product))
	require.ErrorIs(t, repo.CreateProduct(ctx, product), repository.ErrDuplicateBarcode)

	got, err := repo.GetProductByBarcode(ctx, "7790000000011")
	require.NoError(t, err)
	require.Equal(t, "Lata", got.Name)

	got.Active = false
	require.NoError(t, repo.UpdateProduct(ctx, got))

	_, err = repo.GetProductByBarcode(ctx, "7790000000011")
	require.ErrorIs(t, err, repository.ErrNotFound)

	got, err = repo.GetProduct(ctx, "7790000000011")
	require.NoError(t, err)
	require.False(t, got.Active)

	products, err := repo.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, products, 1)

	require.NoError(t, repo.DeleteProduct(ctx, "7790000000011"))
	require.ErrorIs(t, repo.DeleteProduct(ctx, "7790000000011"), repository.ErrNotFound)
}

func TestPointsConfig(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	cfg, err := repo.GetPointsConfig(ctx, model.MaterialAVU)
	require.NoError(t, err)
	require.Equal(t, int64(30), cfg.PointsFor(3))
	require.Equal(t, "litro", cfg.UnitDescription)

	_, err = repo.GetPointsConfig(ctx, "vidrio")
	require.ErrorIs(t, err, repository.ErrNotFound)

	all, err := repo.ListPointsConfig(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
}
