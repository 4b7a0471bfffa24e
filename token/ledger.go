package token

import (
	"errors"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"stakemint/storage"
)

var (
	ErrInvalidAmount         = errors.New("token: amount must be positive")
	ErrInsufficientBalance   = errors.New("token: insufficient balance")
	ErrInsufficientAllowance = errors.New("token: insufficient allowance")
)

var (
	balancePrefix   = []byte("tok/bal/")
	allowancePrefix = []byte("tok/alw/")
)

// KVLedger is a reference Ledger backed by the storage abstraction. Amounts
// are stored as big-endian big.Int bytes; a missing key reads as zero.
type KVLedger struct {
	mu       sync.Mutex
	db       storage.Database
	decimals uint8
}

func NewKVLedger(db storage.Database, decimals uint8) *KVLedger {
	return &KVLedger{db: db, decimals: decimals}
}

func balanceKey(addr common.Address) []byte {
	return append(append([]byte(nil), balancePrefix...), addr.Bytes()...)
}

func allowanceKey(owner, spender common.Address) []byte {
	key := append(append([]byte(nil), allowancePrefix...), owner.Bytes()...)
	return append(key, spender.Bytes()...)
}

func (l *KVLedger) read(key []byte) (*big.Int, error) {
	raw, err := l.db.Get(key)
	if errors.Is(err, storage.ErrNotFound) {
		return big.NewInt(0), nil
	}
	if err != nil {
		return nil, err
	}
	return new(big.Int).SetBytes(raw), nil
}

func (l *KVLedger) write(key []byte, value *big.Int) error {
	return l.db.Put(key, value.Bytes())
}

func (l *KVLedger) Decimals() (uint8, error) { return l.decimals, nil }

func (l *KVLedger) BalanceOf(account common.Address) (*big.Int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.read(balanceKey(account))
}

func (l *KVLedger) Allowance(owner, spender common.Address) (*big.Int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.read(allowanceKey(owner, spender))
}

// Approve sets the allowance granted by owner to spender. Not part of the
// Ledger capability the engine consumes, but required to drive allowance
// based transfers in local mode and tests.
func (l *KVLedger) Approve(owner, spender common.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return ErrInvalidAmount
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.write(allowanceKey(owner, spender), amount)
}

func (l *KVLedger) Mint(to common.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	balance, err := l.read(balanceKey(to))
	if err != nil {
		return err
	}
	return l.write(balanceKey(to), new(big.Int).Add(balance, amount))
}

func (l *KVLedger) Transfer(from, to common.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.move(from, to, amount)
}

func (l *KVLedger) TransferFrom(from, to common.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	allowance, err := l.read(allowanceKey(from, to))
	if err != nil {
		return err
	}
	if allowance.Cmp(amount) < 0 {
		return ErrInsufficientAllowance
	}
	if err := l.move(from, to, amount); err != nil {
		return err
	}
	return l.write(allowanceKey(from, to), new(big.Int).Sub(allowance, amount))
}

func (l *KVLedger) move(from, to common.Address, amount *big.Int) error {
	fromBal, err := l.read(balanceKey(from))
	if err != nil {
		return err
	}
	if fromBal.Cmp(amount) < 0 {
		return ErrInsufficientBalance
	}
	toBal, err := l.read(balanceKey(to))
	if err != nil {
		return err
	}
	if err := l.write(balanceKey(from), new(big.Int).Sub(fromBal, amount)); err != nil {
		return err
	}
	return l.write(balanceKey(to), new(big.Int).Add(toBal, amount))
}
