package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

type StakingMetrics struct {
	stakes               prometheus.Counter
	claims               prometheus.Counter
	unstakes             prometheus.Counter
	mintedTotal          prometheus.Counter
	operationFailures    *prometheus.CounterVec
	collaboratorFailures *prometheus.CounterVec
}

var (
	stakingOnce     sync.Once
	stakingRegistry *StakingMetrics
)

func Staking() *StakingMetrics {
	stakingOnce.Do(func() {
		stakingRegistry = &StakingMetrics{
			stakes: prometheus.NewCounter(prometheus.CounterOpts{
				Name: "staking_stakes_total",
				Help: "Count of completed stake operations.",
			}),
			claims: prometheus.NewCounter(prometheus.CounterOpts{
				Name: "staking_claims_total",
				Help: "Count of claims that minted a positive reward.",
			}),
			unstakes: prometheus.NewCounter(prometheus.CounterOpts{
				Name: "staking_unstakes_total",
				Help: "Count of completed unstake operations.",
			}),
			mintedTotal: prometheus.NewCounter(prometheus.CounterOpts{
				Name: "staking_minted_wei_total",
				Help: "Cumulative reward minted, in the token's smallest unit.",
			}),
			operationFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "staking_operation_failures_total",
				Help: "Count of rejected operations by reason.",
			}, []string{"op", "reason"}),
			collaboratorFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "staking_collaborator_failures_total",
				Help: "Count of token ledger and oracle call failures by operation.",
			}, []string{"op"}),
		}
		prometheus.MustRegister(
			stakingRegistry.stakes,
			stakingRegistry.claims,
			stakingRegistry.unstakes,
			stakingRegistry.mintedTotal,
			stakingRegistry.operationFailures,
			stakingRegistry.collaboratorFailures,
		)
	})
	return stakingRegistry
}

func (m *StakingMetrics) ObserveStake() {
	if m == nil {
		return
	}
	m.stakes.Inc()
}

func (m *StakingMetrics) ObserveClaim(mintedWei float64) {
	if m == nil {
		return
	}
	m.claims.Inc()
	if mintedWei > 0 {
		m.mintedTotal.Add(mintedWei)
	}
}

func (m *StakingMetrics) ObserveUnstake() {
	if m == nil {
		return
	}
	m.unstakes.Inc()
}

func (m *StakingMetrics) ObserveFailure(op, reason string) {
	if m == nil {
		return
	}
	if reason == "" {
		reason = "unknown"
	}
	m.operationFailures.WithLabelValues(op, reason).Inc()
}

func (m *StakingMetrics) ObserveCollaboratorFailure(op string) {
	if m == nil {
		return
	}
	m.collaboratorFailures.WithLabelValues(op).Inc()
}
