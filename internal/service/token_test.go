package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/GermanDelima/verdeScan/internal/model"
)

func TestGenerateTokenCode(t *testing.T) {
	for i := 0; i < 500; i++ {
		code, err := GenerateTokenCode(6)
		require.NoError(t, err)
		require.Len(t, code, 6)
		require.NotContains(t, code, "I")
		require.NotContains(t, code, "O")
		for _, r := range code {
			require.True(t, strings.ContainsRune(TokenAlphabet, r), "unexpected symbol %q", r)
		}
	}
	require.Len(t, TokenAlphabet, 34)
}

func TestIssueComputesPointsPerMaterial(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.createUser(t, "ana")

	cases := []struct {
		material model.MaterialType
		quantity int64
		points   int64
		unit     string
	}{
		{model.MaterialAVU, 3, 30, "litro"},
		{model.MaterialCan, 7, 7, "lata"},
		{model.MaterialBottle, 1, 1, "botella"},
	}

	for _, tc := range cases {
		token, err := env.tokens.Issue(ctx, user.ID, tc.material, tc.quantity)
		require.NoError(t, err)
		require.Equal(t, tc.points, token.PointsValue)
		require.Equal(t, tc.quantity, token.Quantity)
		require.Equal(t, tc.unit, token.UnitDescription)
		require.True(t, token.ExpiresAt.Equal(env.now.Add(15*time.Minute)))

		stored, err := env.repo.GetTokenByCode(ctx, token.Code)
		require.NoError(t, err)
		require.Equal(t, model.TokenStatusPending, stored.Status)
	}
}

func TestIssueRejectsInvalidInput(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.createUser(t, "ana")

	_, err := env.tokens.Issue(ctx, user.ID, model.MaterialCan, 0)
	require.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = env.tokens.Issue(ctx, user.ID, "vidrio", 1)
	require.ErrorIs(t, err, ErrInvalidMaterial)

	tokens, err := env.repo.ListUserTokens(ctx, user.ID, 10)
	require.NoError(t, err)
	require.Empty(t, tokens)
}

func TestIssueRetriesOnCollision(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.createUser(t, "ana")

	codes := []string{"AAAAAA", "AAAAAA", "BBBBBB"}
	env.tokens.SetCodeGenerator(func(int) (string, error) {
		code := codes[0]
		codes = codes[1:]
		return code, nil
	})

	first, err := env.tokens.Issue(ctx, user.ID, model.MaterialCan, 1)
	require.NoError(t, err)
	require.Equal(t, "AAAAAA", first.Code)

	second, err := env.tokens.Issue(ctx, user.ID, model.MaterialCan, 1)
	require.NoError(t, err)
	require.Equal(t, "BBBBBB", second.Code)
}

func TestIssueGivesUpAfterMaxAttempts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.createUser(t, "ana")

	env.tokens.SetCodeGenerator(func(int) (string, error) { return "ZZZZZZ", nil })
	_, err := env.tokens.Issue(ctx, user.ID, model.MaterialCan, 1)
	require.NoError(t, err)

	// A cancelled code still blocks reuse
	require.NoError(t, env.tokens.Cancel(ctx, user.ID, "ZZZZZZ"))

	calls := 0
	env.tokens.SetCodeGenerator(func(int) (string, error) {
		calls++
		return "ZZZZZZ", nil
	})
	_, err = env.tokens.Issue(ctx, user.ID, model.MaterialCan, 1)
	require.ErrorIs(t, err, ErrCodeGenerationExhausted)
	require.Equal(t, 10, calls)
}

func TestRedeemCreditsAndDrainsBin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.createUser(t, "ana")
	staff := env.createStaff(t, "promo1", true)

	_, err := env.bins.Add(ctx, user.ID, model.MaterialCan, 5)
	require.NoError(t, err)

	token, err := env.tokens.Issue(ctx, user.ID, model.MaterialCan, 5)
	require.NoError(t, err)
	require.Equal(t, int64(5), token.PointsValue)

	env.advance(10 * time.Minute)
	redemption, err := env.tokens.Redeem(ctx, strings.ToLower(" "+token.Code+" "), staff.ID)
	require.NoError(t, err)
	require.Equal(t, "ana", redemption.UserName)
	require.Equal(t, "ana@example.com", redemption.UserEmail)
	require.Equal(t, int64(5), redemption.PointsCredited)
	require.Equal(t, int64(0), redemption.PreviousPoints)
	require.Equal(t, int64(5), redemption.NewPoints)
	require.Equal(t, "promo1", redemption.ValidatedBy)

	b := env.balance(t, user.ID)
	require.Equal(t, int64(5), b.Points)
	require.Equal(t, int64(5), b.TotalEarnedPoints)

	bin, err := env.bins.Read(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, int64(0), bin.Can)

	stored, err := env.repo.GetTokenByCode(ctx, token.Code)
	require.NoError(t, err)
	require.Equal(t, model.TokenStatusValidated, stored.Status)
	require.NotNil(t, stored.ValidatedBy)
	require.Equal(t, staff.ID, *stored.ValidatedBy)
	require.NotNil(t, stored.BinDepletedAt)

	history, err := env.points.History(ctx, user.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, history, 1)
	require.Equal(t, model.PointSourceTokenRedemption, history[0].Source)
	require.Equal(t, int64(5), history[0].Amount)
}

func TestRedeemTwiceCreditsOnce(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.createUser(t, "ana")
	staff := env.createStaff(t, "promo1", true)

	token, err := env.tokens.Issue(ctx, user.ID, model.MaterialAVU, 2)
	require.NoError(t, err)

	_, err = env.tokens.Redeem(ctx, token.Code, staff.ID)
	require.NoError(t, err)

	_, err = env.tokens.Redeem(ctx, token.Code, staff.ID)
	require.ErrorIs(t, err, ErrAlreadyValidated)

	b := env.balance(t, user.ID)
	require.Equal(t, int64(20), b.Points)
	require.Equal(t, int64(20), b.TotalEarnedPoints)
}

func TestRedeemAfterExpiry(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.createUser(t, "ana")
	staff := env.createStaff(t, "promo1", true)

	token, err := env.tokens.Issue(ctx, user.ID, model.MaterialCan, 3)
	require.NoError(t, err)

	env.advance(16 * time.Minute)
	_, err = env.tokens.Redeem(ctx, token.Code, staff.ID)
	require.ErrorIs(t, err, ErrTokenExpired)

	stored, err := env.repo.GetTokenByCode(ctx, token.Code)
	require.NoError(t, err)
	require.Equal(t, model.TokenStatusExpired, stored.Status)

	require.Equal(t, int64(0), env.balance(t, user.ID).Points)

	// Stays expired on later attempts
	_, err = env.tokens.Redeem(ctx, token.Code, staff.ID)
	require.ErrorIs(t, err, ErrTokenExpired)
}

func TestRedeemRejectsInactiveOrUnknownStaff(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.createUser(t, "ana")
	inactive := env.createStaff(t, "retirado", false)

	token, err := env.tokens.Issue(ctx, user.ID, model.MaterialCan, 1)
	require.NoError(t, err)

	_, err = env.tokens.Redeem(ctx, token.Code, inactive.ID)
	require.ErrorIs(t, err, ErrUnauthorizedStaff)

	_, err = env.tokens.Redeem(ctx, token.Code, uuid.New())
	require.ErrorIs(t, err, ErrUnauthorizedStaff)

	stored, err := env.repo.GetTokenByCode(ctx, token.Code)
	require.NoError(t, err)
	require.Equal(t, model.TokenStatusPending, stored.Status)
}

func TestRedeemUnknownCode(t *testing.T) {
	env := newTestEnv(t)
	staff := env.createStaff(t, "promo1", true)

	_, err := env.tokens.Redeem(context.Background(), "XXXXXX", staff.ID)
	require.ErrorIs(t, err, ErrTokenNotFound)

	_, err = env.tokens.Redeem(context.Background(), "  ", staff.ID)
	require.ErrorIs(t, err, ErrMissingRedeemParams)
}

func TestCancelledTokenCannotBeRedeemed(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.createUser(t, "ana")
	other := env.createUser(t, "beto")
	staff := env.createStaff(t, "promo1", true)

	token, err := env.tokens.Issue(ctx, user.ID, model.MaterialBottle, 4)
	require.NoError(t, err)

	require.ErrorIs(t, env.tokens.Cancel(ctx, other.ID, token.Code), ErrTokenNotFound)
	require.NoError(t, env.tokens.Cancel(ctx, user.ID, token.Code))
	require.ErrorIs(t, env.tokens.Cancel(ctx, user.ID, token.Code), ErrTokenCancelled)

	_, err = env.tokens.Redeem(ctx, token.Code, staff.ID)
	require.ErrorIs(t, err, ErrTokenCancelled)
	require.Equal(t, int64(0), env.balance(t, user.ID).Points)
}

func TestOverlappingTokensFloorBinAtZero(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.createUser(t, "ana")
	staff := env.createStaff(t, "promo1", true)

	_, err := env.bins.Add(ctx, user.ID, model.MaterialCan, 4)
	require.NoError(t, err)

	first, err := env.tokens.Issue(ctx, user.ID, model.MaterialCan, 4)
	require.NoError(t, err)
	second, err := env.tokens.Issue(ctx, user.ID, model.MaterialCan, 4)
	require.NoError(t, err)

	_, err = env.tokens.Redeem(ctx, first.Code, staff.ID)
	require.NoError(t, err)
	_, err = env.tokens.Redeem(ctx, second.Code, staff.ID)
	require.NoError(t, err)

	bin, err := env.bins.Read(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, int64(0), bin.Can)
	require.Equal(t, int64(8), env.balance(t, user.ID).Points)
}

func TestListForUserComputesExpiry(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.createUser(t, "ana")

	_, err := env.tokens.Issue(ctx, user.ID, model.MaterialCan, 1)
	require.NoError(t, err)

	tokens, err := env.tokens.ListForUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, tokens, 1)
	require.Equal(t, model.TokenStatusPending, tokens[0].Status)

	env.advance(20 * time.Minute)
	tokens, err = env.tokens.ListForUser(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, model.TokenStatusExpired, tokens[0].Status)
}

func TestDepletePendingBinsIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.createUser(t, "ana")
	staff := env.createStaff(t, "promo1", true)

	_, err := env.bins.Add(ctx, user.ID, model.MaterialAVU, 6)
	require.NoError(t, err)
	issued, err := env.tokens.Issue(ctx, user.ID, model.MaterialAVU, 2)
	require.NoError(t, err)
	token, err := env.repo.GetTokenByCode(ctx, issued.Code)
	require.NoError(t, err)

	// Commit the redemption without the post-commit bin step
	_, err = env.repo.RedeemToken(ctx, repositoryRedeem(token, staff))
	require.NoError(t, err)

	n, err := env.tokens.DepletePendingBins(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	n, err = env.tokens.DepletePendingBins(ctx)
	require.NoError(t, err)
	require.Equal(t, 0, n)

	bin, err := env.bins.Read(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, int64(4), bin.AVU)
}

type recordingNotifier struct {
	got []*Redemption
}

func (n *recordingNotifier) NotifyRedemption(_ context.Context, r *Redemption) error {
	n.got = append(n.got, r)
	return nil
}

func TestRedeemNotifies(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.createUser(t, "ana")
	staff := env.createStaff(t, "promo1", true)

	notifier := &recordingNotifier{}
	env.tokens.SetNotifier(notifier)

	token, err := env.tokens.Issue(ctx, user.ID, model.MaterialCan, 2)
	require.NoError(t, err)
	_, err = env.tokens.Redeem(ctx, token.Code, staff.ID)
	require.NoError(t, err)

	require.Len(t, notifier.got, 1)
	require.Equal(t, int64(2), notifier.got[0].Quantity)
}

func TestStaffStats(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.createUser(t, "ana")
	staff := env.createStaff(t, "promo1", true)

	for _, tc := range []struct {
		material model.MaterialType
		quantity int64
	}{
		{model.MaterialAVU, 3},
		{model.MaterialCan, 10},
		{model.MaterialCan, 5},
		{model.MaterialBottle, 2},
	} {
		token, err := env.tokens.Issue(ctx, user.ID, tc.material, tc.quantity)
		require.NoError(t, err)
		_, err = env.tokens.Redeem(ctx, token.Code, staff.ID)
		require.NoError(t, err)
	}

	stats, err := env.tokens.StaffStats(ctx, staff.ID)
	require.NoError(t, err)
	require.Equal(t, int64(3), stats.AVULiters)
	require.Equal(t, int64(15), stats.CanCount)
	require.Equal(t, int64(2), stats.BottleCount)
	require.Equal(t, int64(4), stats.TotalValidations)
}
