package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestRewardsCounters(t *testing.T) {
	m := Rewards()
	require.Same(t, m, Rewards())

	before := testutil.ToFloat64(m.pointsCredited.WithLabelValues("token_redemption"))
	m.ObserveTokenRedeemed("lata", 5)
	require.Equal(t, before+5, testutil.ToFloat64(m.pointsCredited.WithLabelValues("token_redemption")))

	rejected := testutil.ToFloat64(m.redeemRejected.WithLabelValues("expired"))
	m.ObserveRedeemRejected("expired")
	require.Equal(t, rejected+1, testutil.ToFloat64(m.redeemRejected.WithLabelValues("expired")))
}

func TestNilMetricsAreNoops(t *testing.T) {
	var m *RewardsMetrics
	require.NotPanics(t, func() {
		m.ObserveTokenIssued("avu")
		m.ObserveTokenRedeemed("avu", 10)
		m.ObserveRedeemRejected("staff")
		m.ObservePointsCredited("weight_bonus", 50)
		m.ObservePointsDebited("sube_exchange", 20)
		m.ObserveBinDepletionFailure()
		m.ObserveBinAdd("lata", 1)
	})
}
