package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/GermanDelima/verdeScan/internal/model"
)

func TestReconcileWorkerDepletesOnStart(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.createUser(t, "ana")
	staff := env.createStaff(t, "promo1", true)

	_, err := env.bins.Add(ctx, user.ID, model.MaterialBottle, 3)
	require.NoError(t, err)
	issued, err := env.tokens.Issue(ctx, user.ID, model.MaterialBottle, 3)
	require.NoError(t, err)
	token, err := env.repo.GetTokenByCode(ctx, issued.Code)
	require.NoError(t, err)
	_, err = env.repo.RedeemToken(ctx, repositoryRedeem(token, staff))
	require.NoError(t, err)

	workerCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		NewReconcileWorker(env.tokens, time.Hour).Start(workerCtx)
		close(done)
	}()

	require.Eventually(t, func() bool {
		pending, err := env.repo.ListUndepletedTokens(ctx, 10)
		return err == nil && len(pending) == 0
	}, 5*time.Second, 10*time.Millisecond)

	cancel()
	<-done

	bin, err := env.bins.Read(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, int64(0), bin.Bottle)
}
