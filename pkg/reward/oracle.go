package reward

import (
	"context"
	"fmt"
	"sync"

	"cosmossdk.io/math"
)

// PriceOracle returns the USD price of one unit of a token.
// tokenID is whatever key the caller's price feed uses (coingecko id, mint address).
type PriceOracle interface {
	PriceOf(ctx context.Context, tokenID string) (math.LegacyDec, error)
}

// StaticOracle is a fixed price table, handy for tests and offline runs.
type StaticOracle struct {
	mu     sync.RWMutex
	prices map[string]math.LegacyDec
}

func NewStaticOracle(prices map[string]math.LegacyDec) *StaticOracle {
	o := &StaticOracle{prices: make(map[string]math.LegacyDec, len(prices))}
	for k, v := range prices {
		o.prices[k] = v
	}
	return o
}

// Set updates one price.
func (o *StaticOracle) Set(tokenID string, price math.LegacyDec) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.prices[tokenID] = price
}

func (o *StaticOracle) PriceOf(_ context.Context, tokenID string) (math.LegacyDec, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	p, ok := o.prices[tokenID]
	if !ok {
		return math.LegacyDec{}, fmt.Errorf("no price for %q", tokenID)
	}
	return p, nil
}

// OracleFunc adapts a function to PriceOracle.
type OracleFunc func(ctx context.Context, tokenID string) (math.LegacyDec, error)

func (f OracleFunc) PriceOf(ctx context.Context, tokenID string) (math.LegacyDec, error) {
	return f(ctx, tokenID)
}
