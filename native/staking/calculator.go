package staking

import (
	"math/big"

	"github.com/holiman/uint256"
)

// RateDivisor scales raw feed prices into a per-minute reward rate. It is a
// fixed policy parameter tuned so typical price magnitudes produce sane
// rates, not a derived quantity.
const RateDivisor = 1_000_000

var rateDivisorBig = big.NewInt(RateDivisor)

// ComputeReward maps (staked amount, claim window, price reading, decimal
// precisions) to the reward owed, flooring at every step.
//
//	reward = staked * (price / RateDivisor) * elapsedMinutes / 10^(priceDecimals - tokenDecimals)
//
// A non-positive price yields zero reward rather than an error: the engine
// must not fail an operation merely because the feed reported garbage. The
// sub-minute floor on elapsed time is an intentional coarse throttle.
//
// The function is pure and works in 256-bit integer arithmetic; any
// intermediate product that overflows that width returns
// ErrArithmeticOverflow instead of wrapping. Callers are expected to have
// validated priceDecimals >= tokenDecimals at construction; ComputeReward
// still rejects a violation with ErrPrecisionConfig rather than underflow
// the exponent.
func ComputeReward(staked *big.Int, lastClaim, now uint64, price *big.Int, priceDecimals, tokenDecimals uint8) (*big.Int, error) {
	if priceDecimals < tokenDecimals {
		return nil, ErrPrecisionConfig
	}
	if staked == nil || staked.Sign() <= 0 {
		return big.NewInt(0), nil
	}
	if price == nil || price.Sign() <= 0 {
		return big.NewInt(0), nil
	}
	if now <= lastClaim {
		return big.NewInt(0), nil
	}

	elapsedMinutes := (now - lastClaim) / 60
	if elapsedMinutes == 0 {
		return big.NewInt(0), nil
	}

	rewardRate := new(big.Int).Quo(price, rateDivisorBig)
	if rewardRate.Sign() == 0 {
		return big.NewInt(0), nil
	}

	stakedU, overflow := uint256.FromBig(staked)
	if overflow {
		return nil, ErrArithmeticOverflow
	}
	rateU, overflow := uint256.FromBig(rewardRate)
	if overflow {
		return nil, ErrArithmeticOverflow
	}
	exponent := int64(priceDecimals) - int64(tokenDecimals)
	adjust := new(big.Int).Exp(big.NewInt(10), big.NewInt(exponent), nil)
	adjustU, overflow := uint256.FromBig(adjust)
	if overflow {
		return nil, ErrArithmeticOverflow
	}

	product, overflow := new(uint256.Int).MulOverflow(stakedU, rateU)
	if overflow {
		return nil, ErrArithmeticOverflow
	}
	product, overflow = product.MulOverflow(product, uint256.NewInt(elapsedMinutes))
	if overflow {
		return nil, ErrArithmeticOverflow
	}
	return product.Div(product, adjustU).ToBig(), nil
}
