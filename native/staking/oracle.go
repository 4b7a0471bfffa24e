package staking

import (
	"fmt"
	"math/big"
)

// PriceFeed is the single outbound read the engine performs against the
// external oracle.
type PriceFeed interface {
	LatestPrice() (price *big.Int, decimals uint8, err error)
}

// OracleAdapter wraps the external feed. It performs no retries and no
// caching, and no interpretation beyond passing the raw signed value and
// its decimal precision through; a failed or malformed read is fatal to the
// calling operation because the engine has no fallback price source.
type OracleAdapter struct {
	feed PriceFeed
}

func NewOracleAdapter(feed PriceFeed) *OracleAdapter {
	return &OracleAdapter{feed: feed}
}

// Latest fetches a fresh price reading.
func (a *OracleAdapter) Latest() (*big.Int, uint8, error) {
	if a == nil || a.feed == nil {
		return nil, 0, errNilOracle
	}
	price, decimals, err := a.feed.LatestPrice()
	if err != nil {
		return nil, 0, fmt.Errorf("%w: oracle read: %v", ErrCollaborator, err)
	}
	if price == nil {
		return nil, 0, fmt.Errorf("%w: oracle returned nil price", ErrCollaborator)
	}
	return price, decimals, nil
}
