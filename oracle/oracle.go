// Package oracle provides concrete price feed sources satisfying the staking
// engine's oracle capability: a manually driven source for local mode and
// tests, and an HTTP JSON source for external feeds. Aggregation across
// rounds, staleness windows and multi-source consensus are out of scope;
// each source passes the raw signed value and its fixed decimal precision
// straight through.
package oracle

import (
	"math/big"
	"sync"
)

// FeedDecimals is the fixed decimal precision of the supported price feeds.
const FeedDecimals uint8 = 8

// ManualSource serves a settable fixed-point price. The zero value is not
// usable; construct with NewManualSource.
type ManualSource struct {
	mu       sync.RWMutex
	price    *big.Int
	decimals uint8
}

func NewManualSource(price *big.Int) *ManualSource {
	return &ManualSource{price: new(big.Int).Set(price), decimals: FeedDecimals}
}

// SetPrice replaces the served price. Negative values are passed through
// unmodified; interpretation is the consumer's concern.
func (s *ManualSource) SetPrice(price *big.Int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.price = new(big.Int).Set(price)
}

func (s *ManualSource) LatestPrice() (*big.Int, uint8, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return new(big.Int).Set(s.price), s.decimals, nil
}
