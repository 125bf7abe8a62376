package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/GermanDelima/verdeScan/internal/config"
	"github.com/GermanDelima/verdeScan/internal/metrics"
	"github.com/GermanDelima/verdeScan/internal/model"
	"github.com/GermanDelima/verdeScan/internal/repository"
)

// Settings keys that override the configured SUBE rates
const (
	SettingSubeEnvasesPoints  = "sube_envases_points"
	SettingSubeEnvasesTickets = "sube_envases_tickets"
	SettingSubeAVUPoints      = "sube_avu_points"
	SettingSubeAVUTickets     = "sube_avu_tickets"
)

// SubeRate is the fixed price of one SUBE exchange
type SubeRate struct {
	Type    model.SubeExchangeType `json:"type"`
	Points  int64                  `json:"points"`
	Tickets int64                  `json:"tickets"`
}

// ExchangeResult is returned after a successful SUBE exchange
type ExchangeResult struct {
	Exchange  *model.SubeExchange `json:"exchange"`
	NewPoints int64               `json:"new_points"`
}

type ExchangeService struct {
	repo    *repository.Repository
	cfg     *config.Config
	metrics *metrics.RewardsMetrics
}

func NewExchangeService(repo *repository.Repository, cfg *config.Config) *ExchangeService {
	return &ExchangeService{
		repo:    repo,
		cfg:     cfg,
		metrics: metrics.Rewards(),
	}
}

// Rates returns the current price of each exchange type
func (s *ExchangeService) Rates(ctx context.Context) []SubeRate {
	r := s.cfg.Rewards
	return []SubeRate{
		{
			Type:    model.SubeExchangeEnvases,
			Points:  s.repo.GetSettingInt(ctx, SettingSubeEnvasesPoints, r.SubeEnvasesPoints),
			Tickets: s.repo.GetSettingInt(ctx, SettingSubeEnvasesTickets, r.SubeEnvasesTickets),
		},
		{
			Type:    model.SubeExchangeAVU,
			Points:  s.repo.GetSettingInt(ctx, SettingSubeAVUPoints, r.SubeAVUPoints),
			Tickets: s.repo.GetSettingInt(ctx, SettingSubeAVUTickets, r.SubeAVUTickets),
		},
	}
}

func (s *ExchangeService) rate(ctx context.Context, t model.SubeExchangeType) (SubeRate, bool) {
	for _, r := range s.Rates(ctx) {
		if r.Type == t {
			return r, true
		}
	}
	return SubeRate{}, false
}

// ExchangeSube spends the fixed points of the exchange type and records the
// request for SUBE credit.
func (s *ExchangeService) ExchangeSube(ctx context.Context, userID uuid.UUID, t model.SubeExchangeType, alias string) (*ExchangeResult, error) {
	rate, ok := s.rate(ctx, t)
	if !ok {
		return nil, ErrInvalidExchangeType
	}
	alias = strings.TrimSpace(alias)
	if alias == "" {
		return nil, ErrMissingSubeAlias
	}

	exchange := &model.SubeExchange{
		UserID:       userID,
		ExchangeType: t,
		PointsSpent:  rate.Points,
		Tickets:      rate.Tickets,
		SubeAlias:    alias,
	}
	txn, err := s.repo.CreateSubeExchange(ctx, exchange)
	if err != nil {
		return nil, mapPointError(err)
	}

	s.metrics.ObservePointsDebited(string(model.PointSourceSubeExchange), rate.Points)
	zap.L().Info("sube exchange created",
		zap.String("user_id", userID.String()),
		zap.String("type", string(t)),
		zap.Int64("points", rate.Points),
	)

	return &ExchangeResult{Exchange: exchange, NewPoints: txn.PointsAfter}, nil
}
