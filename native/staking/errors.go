package staking

import "errors"

var (
	// ErrInvalidAmount rejects zero or negative stake amounts.
	ErrInvalidAmount = errors.New("staking: amount must be positive")
	// ErrInsufficientAllowance rejects stakes the engine is not authorised to pull.
	ErrInsufficientAllowance = errors.New("staking: insufficient allowance")
	// ErrNoActiveStake rejects unstakes on accounts with nothing staked.
	ErrNoActiveStake = errors.New("staking: no active stake")
	// ErrCollaborator wraps token ledger or oracle failures; the whole
	// operation is abandoned, nothing is persisted and nothing is retried.
	ErrCollaborator = errors.New("staking: collaborator call failed")
	// ErrPrecisionConfig is returned at construction when the token's decimal
	// precision exceeds the price feed's, which would drive the decimal
	// adjustment exponent negative.
	ErrPrecisionConfig = errors.New("staking: token decimals exceed price feed decimals")
	// ErrArithmeticOverflow marks a reward computation whose intermediate
	// product exceeds the working integer width.
	ErrArithmeticOverflow = errors.New("staking: reward computation overflow")

	errNilLedger = errors.New("staking: account ledger not configured")
	errNilTokens = errors.New("staking: token ledger not configured")
	errNilOracle = errors.New("staking: price oracle not configured")
)
