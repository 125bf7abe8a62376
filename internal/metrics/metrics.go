package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// RewardsMetrics tracks the token and point flows of the rewards protocol
type RewardsMetrics struct {
	tokensIssued     *prometheus.CounterVec
	tokensRedeemed   *prometheus.CounterVec
	redeemRejected   *prometheus.CounterVec
	pointsCredited   *prometheus.CounterVec
	pointsDebited    *prometheus.CounterVec
	binDepletionFail prometheus.Counter
	binScans         *prometheus.CounterVec
}

var (
	rewardsOnce     sync.Once
	rewardsRegistry *RewardsMetrics
)

func Rewards() *RewardsMetrics {
	rewardsOnce.Do(func() {
		rewardsRegistry = &RewardsMetrics{
			tokensIssued: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "verdescan_tokens_issued_total",
				Help: "Count of recycling tokens issued by material.",
			}, []string{"material"}),
			tokensRedeemed: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "verdescan_tokens_redeemed_total",
				Help: "Count of recycling tokens validated by staff, by material.",
			}, []string{"material"}),
			redeemRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "verdescan_token_redeem_rejected_total",
				Help: "Count of rejected token validations by reason.",
			}, []string{"reason"}),
			pointsCredited: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "verdescan_points_credited_total",
				Help: "Points credited to users by source.",
			}, []string{"source"}),
			pointsDebited: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "verdescan_points_debited_total",
				Help: "Points debited from users by source.",
			}, []string{"source"}),
			binDepletionFail: prometheus.NewCounter(prometheus.CounterOpts{
				Name: "verdescan_bin_depletion_failures_total",
				Help: "Number of virtual bin depletions that failed after a redemption.",
			}),
			binScans: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "verdescan_virtual_bin_units_added_total",
				Help: "Units added to virtual bins by material.",
			}, []string{"material"}),
		}
		prometheus.MustRegister(
			rewardsRegistry.tokensIssued,
			rewardsRegistry.tokensRedeemed,
			rewardsRegistry.redeemRejected,
			rewardsRegistry.pointsCredited,
			rewardsRegistry.pointsDebited,
			rewardsRegistry.binDepletionFail,
			rewardsRegistry.binScans,
		)
	})
	return rewardsRegistry
}

func (m *RewardsMetrics) ObserveTokenIssued(material string) {
	if m == nil {
		return
	}
	m.tokensIssued.WithLabelValues(material).Inc()
}

func (m *RewardsMetrics) ObserveTokenRedeemed(material string, points int64) {
	if m == nil {
		return
	}
	m.tokensRedeemed.WithLabelValues(material).Inc()
	m.pointsCredited.WithLabelValues("token_redemption").Add(float64(points))
}

func (m *RewardsMetrics) ObserveRedeemRejected(reason string) {
	if m == nil {
		return
	}
	if reason == "" {
		reason = "unknown"
	}
	m.redeemRejected.WithLabelValues(reason).Inc()
}

func (m *RewardsMetrics) ObservePointsCredited(source string, points int64) {
	if m == nil || points <= 0 {
		return
	}
	m.pointsCredited.WithLabelValues(source).Add(float64(points))
}

func (m *RewardsMetrics) ObservePointsDebited(source string, points int64) {
	if m == nil || points <= 0 {
		return
	}
	m.pointsDebited.WithLabelValues(source).Add(float64(points))
}

func (m *RewardsMetrics) ObserveBinDepletionFailure() {
	if m == nil {
		return
	}
	m.binDepletionFail.Inc()
}

func (m *RewardsMetrics) ObserveBinAdd(material string, quantity int64) {
	if m == nil || quantity <= 0 {
		return
	}
	m.binScans.WithLabelValues(material).Add(float64(quantity))
}
