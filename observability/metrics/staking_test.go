package metrics

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"stakemint/events"
)

func TestStakingEmitter_CountsImplicitMints(t *testing.T) {
	m := Staking()
	emitter := NewStakingEmitter()
	account := common.HexToAddress("0xa1")

	stakesBefore := testutil.ToFloat64(m.stakes)
	claimsBefore := testutil.ToFloat64(m.claims)
	mintedBefore := testutil.ToFloat64(m.mintedTotal)
	unstakesBefore := testutil.ToFloat64(m.unstakes)

	// The reward minted implicitly during a stake must be counted the same
	// as an explicit claim.
	emitter.Emit(events.Staked{Account: account, Amount: big.NewInt(1_000)})
	emitter.Emit(events.RewardClaimed{Account: account, Reward: big.NewInt(1_500)})
	emitter.Emit(events.Unstaked{Account: account, Amount: big.NewInt(1_000)})
	emitter.Emit(events.RewardClaimed{Account: account})

	require.Equal(t, stakesBefore+1, testutil.ToFloat64(m.stakes))
	require.Equal(t, claimsBefore+1, testutil.ToFloat64(m.claims))
	require.Equal(t, mintedBefore+1_500, testutil.ToFloat64(m.mintedTotal))
	require.Equal(t, unstakesBefore+1, testutil.ToFloat64(m.unstakes))
}
