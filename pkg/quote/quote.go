// Package quote prices Saros AMM trades and liquidity operations off chain.
//
// Every function is pure: callers pass reserves, supplies and fees read from
// chain and get back amounts. Quantities that end up in an instruction are
// floored, matching the program's truncating integer arithmetic.
//
// Example usage:
//
//	est, err := quote.EstimateSwapOutput(10_000, reserveIn, reserveOut, pool.TradeFeeNumerator, pool.TradeFeeDenominator)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	minOut := quote.WithMinReceive(est.AmountOut, math.LegacyNewDec(1)) // 1%
package quote

import (
	"fmt"

	"cosmossdk.io/math"

	"github.com/ninja0404/saros-go-sdk/pkg/config"
	"github.com/ninja0404/saros-go-sdk/pkg/types"
)

var (
	hundred = math.LegacyNewDec(100)
	one     = math.LegacyOneDec()
)

// SwapEstimate is the integer result of a constant-product swap.
type SwapEstimate struct {
	// AmountInWithFee is the input left after the trade fee.
	AmountInWithFee uint64

	// AmountOut is floor(reserveOut * amountInWithFee / (reserveIn + amountInWithFee)).
	AmountOut uint64

	// PriceImpact is the relative move of the pool price, in percent.
	PriceImpact math.LegacyDec
}

// EstimateSwapOutput applies the trade fee and the constant-product rule in
// integer arithmetic. A zero fee denominator charges no fee.
func EstimateSwapOutput(amountIn, reserveIn, reserveOut, feeNumerator, feeDenominator uint64) (SwapEstimate, error) {
	if reserveIn == 0 || reserveOut == 0 {
		return SwapEstimate{}, types.ErrInsufficientLiquidity
	}
	if feeDenominator != 0 && feeNumerator > feeDenominator {
		return SwapEstimate{}, types.NewValidationError("fee", "numerator exceeds denominator")
	}

	in := math.NewIntFromUint64(amountIn)
	withFee := in
	if feeDenominator != 0 {
		withFee = in.Mul(math.NewIntFromUint64(feeDenominator - feeNumerator)).Quo(math.NewIntFromUint64(feeDenominator))
	}

	rIn := math.NewIntFromUint64(reserveIn)
	rOut := math.NewIntFromUint64(reserveOut)
	out := rOut.Mul(withFee).Quo(rIn.Add(withFee))

	return SwapEstimate{
		AmountInWithFee: withFee.Uint64(),
		AmountOut:       out.Uint64(),
		PriceImpact:     priceImpact(rIn, rOut, withFee, out),
	}, nil
}

// |(before - after) / before| * 100 with before = rOut/rIn and
// after = (rOut-out)/(rIn+withFee).
func priceImpact(rIn, rOut, withFee, out math.Int) math.LegacyDec {
	before := math.LegacyNewDecFromInt(rOut).Quo(math.LegacyNewDecFromInt(rIn))
	after := math.LegacyNewDecFromInt(rOut.Sub(out)).Quo(math.LegacyNewDecFromInt(rIn.Add(withFee)))
	return before.Sub(after).Quo(before).Mul(hundred).Abs()
}

// TradingTokensToPoolTokens sizes the LP tokens minted for a single-sided
// deposit of sourceAmount into a vault holding swapSourceAmount. Half of the
// input is charged the trade fee, as the on-chain curve does.
func TradingTokensToPoolTokens(sourceAmount, swapSourceAmount, poolAmount uint64, fees config.FeeConfig) (uint64, error) {
	if swapSourceAmount == 0 {
		return 0, types.ErrInsufficientLiquidity
	}
	src := math.LegacyNewDecFromInt(math.NewIntFromUint64(sourceAmount))
	fee := math.LegacyZeroDec()
	if tf := fees.TradeFee; tf.Denominator != 0 {
		fee = src.QuoInt64(2).
			MulInt(math.NewIntFromUint64(tf.Numerator)).
			QuoInt(math.NewIntFromUint64(tf.Denominator))
	}
	postFee := src.Sub(fee)
	ratio := postFee.QuoInt(math.NewIntFromUint64(swapSourceAmount)).Add(one)
	root, err := ratio.ApproxSqrt()
	if err != nil {
		return 0, fmt.Errorf("sqrt: %w", err)
	}
	pool := math.LegacyNewDecFromInt(math.NewIntFromUint64(poolAmount))
	return floorUint64(pool.Mul(root.Sub(one)))
}

// WithMaxSlippage returns floor(amount + amount*pct/100), the most a caller
// is willing to send.
func WithMaxSlippage(amount uint64, pct math.LegacyDec) uint64 {
	a := math.LegacyNewDecFromInt(math.NewIntFromUint64(amount))
	v, err := floorUint64(a.Add(a.Mul(pct).Quo(hundred)))
	if err != nil {
		return amount
	}
	return v
}

// WithMinSlippage returns floor(amount - amount*pct/100), the least a caller
// accepts. It never goes below zero.
func WithMinSlippage(amount uint64, pct math.LegacyDec) uint64 {
	a := math.LegacyNewDecFromInt(math.NewIntFromUint64(amount))
	v := a.Sub(a.Mul(pct).Quo(hundred))
	if v.IsNegative() {
		return 0
	}
	out, err := floorUint64(v)
	if err != nil {
		return 0
	}
	return out
}

// WithMinReceive returns floor(amount / (1 + pct/100)), the minimum output a
// swap accepts. It matches AmountOutWithSlippage of SwapQuote.
func WithMinReceive(amount uint64, pct math.LegacyDec) uint64 {
	a := math.LegacyNewDecFromInt(math.NewIntFromUint64(amount))
	v, err := floorUint64(a.Quo(one.Add(pct.Quo(hundred))))
	if err != nil {
		return 0
	}
	return v
}

func floorUint64(d math.LegacyDec) (uint64, error) {
	if d.IsNegative() {
		return 0, fmt.Errorf("negative amount %s", d)
	}
	i := d.TruncateInt()
	if !i.IsUint64() {
		return 0, fmt.Errorf("amount %s overflows u64", i)
	}
	return i.Uint64(), nil
}

// share returns floor(reserve * lp / supply).
func share(reserve, lp, supply uint64) (uint64, error) {
	v := math.NewIntFromUint64(reserve).
		Mul(math.NewIntFromUint64(lp)).
		Quo(math.NewIntFromUint64(supply))
	if !v.IsUint64() {
		return 0, fmt.Errorf("%w: %s", types.ErrAmountOverflow, v)
	}
	return v.Uint64(), nil
}
