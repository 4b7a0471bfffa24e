package token

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"stakemint/storage"
)

var (
	owner   = common.HexToAddress("0x01")
	spender = common.HexToAddress("0x02")
	other   = common.HexToAddress("0x03")
)

func newLedger(t *testing.T) *KVLedger {
	t.Helper()
	return NewKVLedger(storage.NewMemDB(), 8)
}

func TestKVLedger_MintAndBalance(t *testing.T) {
	ledger := newLedger(t)

	balance, err := ledger.BalanceOf(owner)
	require.NoError(t, err)
	require.Zero(t, balance.Sign())

	require.NoError(t, ledger.Mint(owner, big.NewInt(1_000)))
	require.NoError(t, ledger.Mint(owner, big.NewInt(500)))

	balance, err = ledger.BalanceOf(owner)
	require.NoError(t, err)
	require.Equal(t, big.NewInt(1_500), balance)

	require.ErrorIs(t, ledger.Mint(owner, big.NewInt(0)), ErrInvalidAmount)
}

func TestKVLedger_Decimals(t *testing.T) {
	ledger := NewKVLedger(storage.NewMemDB(), 6)
	decimals, err := ledger.Decimals()
	require.NoError(t, err)
	require.Equal(t, uint8(6), decimals)
}

func TestKVLedger_Transfer(t *testing.T) {
	ledger := newLedger(t)
	require.NoError(t, ledger.Mint(owner, big.NewInt(1_000)))

	require.NoError(t, ledger.Transfer(owner, other, big.NewInt(400)))

	fromBal, err := ledger.BalanceOf(owner)
	require.NoError(t, err)
	require.Equal(t, big.NewInt(600), fromBal)
	toBal, err := ledger.BalanceOf(other)
	require.NoError(t, err)
	require.Equal(t, big.NewInt(400), toBal)

	require.ErrorIs(t, ledger.Transfer(owner, other, big.NewInt(601)), ErrInsufficientBalance)
}

func TestKVLedger_TransferFromConsumesAllowance(t *testing.T) {
	ledger := newLedger(t)
	require.NoError(t, ledger.Mint(owner, big.NewInt(1_000)))
	require.NoError(t, ledger.Approve(owner, spender, big.NewInt(700)))

	allowance, err := ledger.Allowance(owner, spender)
	require.NoError(t, err)
	require.Equal(t, big.NewInt(700), allowance)

	require.NoError(t, ledger.TransferFrom(owner, spender, big.NewInt(300)))

	allowance, err = ledger.Allowance(owner, spender)
	require.NoError(t, err)
	require.Equal(t, big.NewInt(400), allowance)

	require.ErrorIs(t, ledger.TransferFrom(owner, spender, big.NewInt(401)), ErrInsufficientAllowance)

	// Allowance in place but balance exhausted elsewhere.
	require.NoError(t, ledger.Transfer(owner, other, big.NewInt(700)))
	require.ErrorIs(t, ledger.TransferFrom(owner, spender, big.NewInt(400)), ErrInsufficientBalance)
}
