package service

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// ReconcileWorker periodically retries the virtual bin step of redemptions
// whose post-commit depletion failed.
type ReconcileWorker struct {
	tokenSvc *TokenService
	interval time.Duration
}

func NewReconcileWorker(tokenSvc *TokenService, interval time.Duration) *ReconcileWorker {
	return &ReconcileWorker{
		tokenSvc: tokenSvc,
		interval: interval,
	}
}

func (w *ReconcileWorker) Start(ctx context.Context) {
	zap.L().Info("[Reconcile Worker] Started", zap.Duration("interval", w.interval))

	// Initial pass picks up anything left by a previous run
	w.reconcile(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			zap.L().Info("[Reconcile Worker] Stopped")
			return
		case <-ticker.C:
			w.reconcile(ctx)
		}
	}
}

func (w *ReconcileWorker) reconcile(ctx context.Context) {
	if _, err := w.tokenSvc.DepletePendingBins(ctx); err != nil {
		zap.L().Error("[Reconcile Worker] Failed to deplete pending bins", zap.Error(err))
	}
}
