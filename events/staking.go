package events

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

const (
	// TypeStaked is emitted when a deposit is pulled into the engine's custody.
	TypeStaked = "staking.staked"
	// TypeRewardClaimed is emitted when accrued reward is minted to an account.
	TypeRewardClaimed = "staking.rewardClaimed"
	// TypeUnstaked is emitted when an account withdraws its full stake.
	TypeUnstaked = "staking.unstaked"
)

// Staked captures a completed deposit.
type Staked struct {
	Account common.Address
	Amount  *big.Int
}

func (Staked) EventType() string { return TypeStaked }

func (e Staked) Event() *Event {
	return &Event{Type: TypeStaked, Attributes: map[string]string{
		"account": e.Account.Hex(),
		"amount":  formatAmount(e.Amount),
	}}
}

// RewardClaimed captures a realized reward mint.
type RewardClaimed struct {
	Account common.Address
	Reward  *big.Int
}

func (RewardClaimed) EventType() string { return TypeRewardClaimed }

func (e RewardClaimed) Event() *Event {
	return &Event{Type: TypeRewardClaimed, Attributes: map[string]string{
		"account": e.Account.Hex(),
		"reward":  formatAmount(e.Reward),
	}}
}

// Unstaked captures a full withdrawal.
type Unstaked struct {
	Account common.Address
	Amount  *big.Int
}

func (Unstaked) EventType() string { return TypeUnstaked }

func (e Unstaked) Event() *Event {
	return &Event{Type: TypeUnstaked, Attributes: map[string]string{
		"account": e.Account.Hex(),
		"amount":  formatAmount(e.Amount),
	}}
}

func formatAmount(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}
