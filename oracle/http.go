package oracle

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"time"
)

const defaultRequestTimeout = 5 * time.Second

// HTTPSource fetches the latest price from a JSON feed endpoint. Expected
// response body:
//
//	{"price": "200000000000", "decimals": 8}
//
// Every read performs a fresh request; there is no caching and no retry.
type HTTPSource struct {
	url    string
	client *http.Client
}

func NewHTTPSource(url string) *HTTPSource {
	return &HTTPSource{
		url:    url,
		client: &http.Client{Timeout: defaultRequestTimeout},
	}
}

type feedResponse struct {
	Price    string `json:"price"`
	Decimals uint8  `json:"decimals"`
}

func (s *HTTPSource) LatestPrice() (*big.Int, uint8, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultRequestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("oracle: build feed request: %w", err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("oracle: fetch feed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, 0, fmt.Errorf("oracle: feed returned status %d", resp.StatusCode)
	}

	var body feedResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, 0, fmt.Errorf("oracle: decode feed response: %w", err)
	}
	price, ok := new(big.Int).SetString(body.Price, 10)
	if !ok {
		return nil, 0, fmt.Errorf("oracle: invalid price %q", body.Price)
	}
	decimals := body.Decimals
	if decimals == 0 {
		decimals = FeedDecimals
	}
	return price, decimals, nil
}
