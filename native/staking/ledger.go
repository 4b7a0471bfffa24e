package staking

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"stakemint/storage"
)

var accountPrefix = []byte("staking/acct/")

// StakeAccount is the complete per-participant state. Accounts exist
// implicitly: an address that has never interacted reads as the zero value.
type StakeAccount struct {
	Staked        *big.Int
	LastClaimTime uint64
}

type storedAccount struct {
	Staked        string `json:"staked"`
	LastClaimTime uint64 `json:"lastClaimTime"`
}

// AccountLedger owns the account -> stake state mapping. All mutation of
// staking state is routed through its narrow operation set, and every
// read and write is keyed by the subject account alone.
type AccountLedger struct {
	db storage.Database
}

func NewAccountLedger(db storage.Database) *AccountLedger {
	return &AccountLedger{db: db}
}

func accountLedgerKey(account common.Address) []byte {
	return append(append([]byte(nil), accountPrefix...), account.Bytes()...)
}

func (l *AccountLedger) load(account common.Address) (*StakeAccount, error) {
	raw, err := l.db.Get(accountLedgerKey(account))
	if errors.Is(err, storage.ErrNotFound) {
		return &StakeAccount{Staked: big.NewInt(0)}, nil
	}
	if err != nil {
		return nil, err
	}
	var stored storedAccount
	if err := json.Unmarshal(raw, &stored); err != nil {
		return nil, fmt.Errorf("staking: decode account %s: %w", account.Hex(), err)
	}
	staked, ok := new(big.Int).SetString(stored.Staked, 10)
	if !ok {
		return nil, fmt.Errorf("staking: corrupt stake amount for %s", account.Hex())
	}
	return &StakeAccount{Staked: staked, LastClaimTime: stored.LastClaimTime}, nil
}

func (l *AccountLedger) persist(account common.Address, state *StakeAccount) error {
	raw, err := json.Marshal(storedAccount{
		Staked:        state.Staked.String(),
		LastClaimTime: state.LastClaimTime,
	})
	if err != nil {
		return err
	}
	return l.db.Put(accountLedgerKey(account), raw)
}

// GetStake returns the current staked amount for the account.
func (l *AccountLedger) GetStake(account common.Address) (*big.Int, error) {
	state, err := l.load(account)
	if err != nil {
		return nil, err
	}
	return state.Staked, nil
}

// GetLastClaim returns the account's claim clock as a unix timestamp.
// Zero means the account has never staked or claimed.
func (l *AccountLedger) GetLastClaim(account common.Address) (uint64, error) {
	state, err := l.load(account)
	if err != nil {
		return 0, err
	}
	return state.LastClaimTime, nil
}

// SetStake records a new staked amount. Stakes only grow, and shrink only by
// a full reset to zero; a value strictly between zero and the previous stake
// is a caller bug and is rejected.
func (l *AccountLedger) SetStake(account common.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return fmt.Errorf("staking: stake amount must be non-negative")
	}
	state, err := l.load(account)
	if err != nil {
		return err
	}
	if amount.Sign() > 0 && amount.Cmp(state.Staked) < 0 {
		return fmt.Errorf("staking: partial stake reduction for %s", account.Hex())
	}
	state.Staked = new(big.Int).Set(amount)
	return l.persist(account, state)
}

// ResetClaimClock moves the account's claim clock to now. The clock never
// moves backwards.
func (l *AccountLedger) ResetClaimClock(account common.Address, now uint64) error {
	state, err := l.load(account)
	if err != nil {
		return err
	}
	if now < state.LastClaimTime {
		return fmt.Errorf("staking: claim clock moving backwards for %s", account.Hex())
	}
	state.LastClaimTime = now
	return l.persist(account, state)
}
