package metrics

import (
	"math/big"

	"stakemint/events"
)

// StakingEmitter bridges staking events into the prometheus counters. Driving
// the success-path counters off the event stream means reward minted
// implicitly during stake and unstake is counted the same as an explicit
// claim.
type StakingEmitter struct {
	m *StakingMetrics
}

func NewStakingEmitter() *StakingEmitter {
	return &StakingEmitter{m: Staking()}
}

func (e *StakingEmitter) Emit(p events.Payload) {
	switch evt := p.(type) {
	case events.Staked:
		e.m.ObserveStake()
	case events.RewardClaimed:
		if evt.Reward == nil {
			return
		}
		minted, _ := new(big.Float).SetInt(evt.Reward).Float64()
		e.m.ObserveClaim(minted)
	case events.Unstaked:
		e.m.ObserveUnstake()
	}
}
