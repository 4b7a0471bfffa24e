package staking

import (
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"stakemint/events"
	"stakemint/token"
)

// Engine orchestrates the staking state machine: Inactive (staked = 0) ->
// Active (staked > 0) -> Inactive. Every mutating operation first realises
// any pending reward against the pre-mutation state, then applies its own
// mutation and token-ledger call, in that fixed order.
//
// Execution is strictly serialised: a single mutex covers each operation end
// to end, including all collaborator calls, so no two operations interleave
// against the ledger and a collaborator that calls back into the engine
// deadlocks instead of observing half-applied state. Ledger writes happen
// only after every collaborator call in the operation has succeeded, so a
// failing step leaves no partial application behind.
type Engine struct {
	mu      sync.Mutex
	ledger  *AccountLedger
	tokens  token.Ledger
	oracle  *OracleAdapter
	custody common.Address
	emitter events.Emitter
	nowFunc func() time.Time

	// Token precision is captured once at construction and never re-read.
	tokenDecimals uint8
}

// NewEngine wires both collaborators and validates the precision
// configuration up front: the token ledger's decimal precision must not
// exceed the feed's, otherwise the reward formula's decimal-adjustment
// exponent would go negative. Discovering that later through a malformed
// reward computation is not acceptable, so construction fails with
// ErrPrecisionConfig.
func NewEngine(tokens token.Ledger, feed PriceFeed, custody common.Address) (*Engine, error) {
	if tokens == nil {
		return nil, errNilTokens
	}
	if feed == nil {
		return nil, errNilOracle
	}
	adapter := NewOracleAdapter(feed)

	tokenDecimals, err := tokens.Decimals()
	if err != nil {
		return nil, fmt.Errorf("%w: token decimals: %v", ErrCollaborator, err)
	}
	_, feedDecimals, err := adapter.Latest()
	if err != nil {
		return nil, err
	}
	if feedDecimals < tokenDecimals {
		return nil, ErrPrecisionConfig
	}

	return &Engine{
		tokens:        tokens,
		oracle:        adapter,
		custody:       custody,
		emitter:       events.NoopEmitter{},
		nowFunc:       time.Now,
		tokenDecimals: tokenDecimals,
	}, nil
}

// SetLedger wires the engine to the account ledger it mutates.
func (e *Engine) SetLedger(ledger *AccountLedger) { e.ledger = ledger }

// SetEmitter installs the event sink. A nil emitter resets to the noop sink.
func (e *Engine) SetEmitter(emitter events.Emitter) {
	if emitter == nil {
		emitter = events.NoopEmitter{}
	}
	e.emitter = emitter
}

// SetNowFunc overrides the clock, primarily for tests.
func (e *Engine) SetNowFunc(now func() time.Time) {
	if now != nil {
		e.nowFunc = now
	}
}

// Custody returns the address holding staked deposits on the token ledger.
func (e *Engine) Custody() common.Address { return e.custody }

func (e *Engine) now() uint64 {
	return uint64(e.nowFunc().UTC().Unix())
}

// pendingReward computes the reward accrued by account up to now, against a
// fresh price reading and the pre-mutation ledger state.
func (e *Engine) pendingReward(account common.Address, now uint64) (*big.Int, error) {
	staked, err := e.ledger.GetStake(account)
	if err != nil {
		return nil, err
	}
	lastClaim, err := e.ledger.GetLastClaim(account)
	if err != nil {
		return nil, err
	}
	price, feedDecimals, err := e.oracle.Latest()
	if err != nil {
		return nil, err
	}
	return ComputeReward(staked, lastClaim, now, price, feedDecimals, e.tokenDecimals)
}

// Stake pulls amount from the caller into the engine's custody and records
// it against the caller's account. Any reward pending at the time of the
// call is realised first, against the pre-deposit stake, so the new amount
// does not retroactively earn for time it did not exist.
func (e *Engine) Stake(caller common.Address, amount *big.Int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.ledger == nil {
		return errNilLedger
	}
	if amount == nil || amount.Sign() <= 0 {
		return ErrInvalidAmount
	}

	allowance, err := e.tokens.Allowance(caller, e.custody)
	if err != nil {
		return fmt.Errorf("%w: allowance: %v", ErrCollaborator, err)
	}
	if allowance == nil || allowance.Cmp(amount) < 0 {
		return ErrInsufficientAllowance
	}
	// The reward mint precedes the deposit pull and can only grow the
	// caller's balance, so a balance covering the deposit now still covers
	// it after the mint. Checking here keeps a failed pull from stranding
	// an already-minted reward.
	balance, err := e.tokens.BalanceOf(caller)
	if err != nil {
		return fmt.Errorf("%w: balance: %v", ErrCollaborator, err)
	}
	if balance == nil || balance.Cmp(amount) < 0 {
		return fmt.Errorf("%w: pull deposit: %v", ErrCollaborator, token.ErrInsufficientBalance)
	}

	now := e.now()
	reward, err := e.pendingReward(caller, now)
	if err != nil {
		return err
	}
	if reward.Sign() > 0 {
		if err := e.tokens.Mint(caller, reward); err != nil {
			return fmt.Errorf("%w: mint reward: %v", ErrCollaborator, err)
		}
	}
	if err := e.tokens.TransferFrom(caller, e.custody, amount); err != nil {
		return fmt.Errorf("%w: pull deposit: %v", ErrCollaborator, err)
	}

	staked, err := e.ledger.GetStake(caller)
	if err != nil {
		return err
	}
	if err := e.ledger.SetStake(caller, new(big.Int).Add(staked, amount)); err != nil {
		return err
	}
	if err := e.ledger.ResetClaimClock(caller, now); err != nil {
		return err
	}

	if reward.Sign() > 0 {
		e.emitter.Emit(events.RewardClaimed{Account: caller, Reward: reward})
	}
	e.emitter.Emit(events.Staked{Account: caller, Amount: new(big.Int).Set(amount)})
	return nil
}

// Claim realises the caller's accrued reward. A zero reward is a legal,
// frequent no-op: nothing is minted, no state moves, no event is emitted.
// The minted amount is returned.
func (e *Engine) Claim(caller common.Address) (*big.Int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.ledger == nil {
		return nil, errNilLedger
	}

	now := e.now()
	reward, err := e.pendingReward(caller, now)
	if err != nil {
		return nil, err
	}
	if reward.Sign() == 0 {
		return big.NewInt(0), nil
	}

	if err := e.tokens.Mint(caller, reward); err != nil {
		return nil, fmt.Errorf("%w: mint reward: %v", ErrCollaborator, err)
	}
	if err := e.ledger.ResetClaimClock(caller, now); err != nil {
		return nil, err
	}

	e.emitter.Emit(events.RewardClaimed{Account: caller, Reward: reward})
	return reward, nil
}

// Unstake realises any pending reward, zeroes the caller's stake and returns
// the full staked balance from custody. There is no partial withdrawal. The
// withdrawn amount is returned.
func (e *Engine) Unstake(caller common.Address) (*big.Int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.ledger == nil {
		return nil, errNilLedger
	}

	staked, err := e.ledger.GetStake(caller)
	if err != nil {
		return nil, err
	}
	if staked.Sign() == 0 {
		return nil, ErrNoActiveStake
	}

	now := e.now()
	reward, err := e.pendingReward(caller, now)
	if err != nil {
		return nil, err
	}
	if reward.Sign() > 0 {
		if err := e.tokens.Mint(caller, reward); err != nil {
			return nil, fmt.Errorf("%w: mint reward: %v", ErrCollaborator, err)
		}
	}
	if err := e.tokens.Transfer(e.custody, caller, staked); err != nil {
		return nil, fmt.Errorf("%w: return deposit: %v", ErrCollaborator, err)
	}

	if err := e.ledger.SetStake(caller, big.NewInt(0)); err != nil {
		return nil, err
	}
	if err := e.ledger.ResetClaimClock(caller, now); err != nil {
		return nil, err
	}

	if reward.Sign() > 0 {
		e.emitter.Emit(events.RewardClaimed{Account: caller, Reward: reward})
	}
	e.emitter.Emit(events.Unstaked{Account: caller, Amount: new(big.Int).Set(staked)})
	return staked, nil
}

// LatestPrice returns the feed's current signed price. Read-only.
func (e *Engine) LatestPrice() (*big.Int, error) {
	price, _, err := e.oracle.Latest()
	if err != nil {
		return nil, err
	}
	return price, nil
}

// CalculateReward projects the reward Claim would mint for account right
// now, using the same calculator and a fresh price reading as the mutating
// path, without touching any state.
func (e *Engine) CalculateReward(account common.Address) (*big.Int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.ledger == nil {
		return nil, errNilLedger
	}
	return e.pendingReward(account, e.now())
}

// Staked returns the account's current staked amount.
func (e *Engine) Staked(account common.Address) (*big.Int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.ledger == nil {
		return nil, errNilLedger
	}
	return e.ledger.GetStake(account)
}

// LastClaim returns the account's claim clock as a unix timestamp.
func (e *Engine) LastClaim(account common.Address) (uint64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.ledger == nil {
		return 0, errNilLedger
	}
	return e.ledger.GetLastClaim(account)
}
