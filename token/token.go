// Package token defines the account-balance capability the staking engine
// consumes, together with a key-value backed reference implementation used by
// the daemon's local mode and the test suites. Supply caps, metadata and
// minting-authority policy live with whatever concrete ledger is plugged in,
// not here.
package token

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Ledger is the exact capability surface the staking engine needs from a
// token ledger. Any concrete implementation satisfying it is substitutable.
type Ledger interface {
	Allowance(owner, spender common.Address) (*big.Int, error)
	TransferFrom(from, to common.Address, amount *big.Int) error
	Transfer(from, to common.Address, amount *big.Int) error
	Mint(to common.Address, amount *big.Int) error
	Decimals() (uint8, error)
	BalanceOf(account common.Address) (*big.Int, error)
}
