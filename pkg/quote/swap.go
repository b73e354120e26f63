package quote

import (
	"cosmossdk.io/math"

	"github.com/ninja0404/saros-go-sdk/pkg/config"
	"github.com/ninja0404/saros-go-sdk/pkg/types"
)

// QuoteInput describes a decimal swap quote over a token0/token1 pool.
type QuoteInput struct {
	// Amount is the input in UI units (decimals applied).
	Amount math.LegacyDec
	// Slippage is a percentage, e.g. 0.5 for 0.5%.
	Slippage math.LegacyDec

	Reserve0, Reserve1   uint64
	Decimals0, Decimals1 uint8
	TradeFee             config.Ratio

	// Reverse is set when the input token is token1.
	Reverse bool
}

// SwapQuoteResult is a decimal quote in UI units.
type SwapQuoteResult struct {
	AmountOut             math.LegacyDec
	AmountOutWithSlippage math.LegacyDec
	PriceImpact           math.LegacyDec
	// Rate is output per input at the pre-trade price.
	Rate math.LegacyDec
}

// SwapQuote reproduces the Saros UI quote. The fee is skipped when the
// denominator is zero or the numerator is non-zero; pools with a real trade
// fee are therefore quoted without it. EstimateSwapOutput applies the fee.
func SwapQuote(in QuoteInput) (SwapQuoteResult, error) {
	if in.Amount.IsNil() || !in.Amount.IsPositive() {
		return SwapQuoteResult{}, types.ErrZeroAmount
	}
	if err := types.ValidateSlippage(in.Slippage); err != nil {
		return SwapQuoteResult{}, err
	}
	if in.Reserve0 == 0 || in.Reserve1 == 0 {
		return SwapQuoteResult{}, types.ErrInsufficientLiquidity
	}

	r0 := ToUI(in.Reserve0, in.Decimals0)
	r1 := ToUI(in.Reserve1, in.Decimals1)

	withFee := in.Amount
	if fee := in.TradeFee; !(fee.Denominator == 0 || fee.Numerator != 0) {
		withFee = in.Amount.
			MulInt(math.NewIntFromUint64(fee.Denominator - fee.Numerator)).
			QuoInt(math.NewIntFromUint64(fee.Denominator))
	}

	rate := r1.Quo(r0)
	before := rate
	slipFactor := one.Add(in.Slippage.Quo(hundred))

	var res SwapQuoteResult
	if !in.Reverse {
		denom := r0.Add(withFee)
		out := r1.Mul(withFee).Quo(denom)
		after := r1.Sub(out).Quo(denom)
		res = SwapQuoteResult{
			AmountOut:   out,
			PriceImpact: before.Sub(after).Quo(before).Mul(hundred).Abs(),
			Rate:        rate,
		}
	} else {
		denom := r1.Add(withFee)
		out := r0.Mul(withFee).Quo(denom)
		outBalance := r0.Sub(out)
		if !outBalance.IsPositive() {
			return SwapQuoteResult{}, types.ErrInsufficientLiquidity
		}
		after := denom.Quo(outBalance)
		res = SwapQuoteResult{
			AmountOut:   out,
			PriceImpact: after.Sub(before).Quo(before).Mul(hundred).Abs(),
			Rate:        one.Quo(rate),
		}
	}
	res.AmountOutWithSlippage = res.AmountOut.Quo(slipFactor)
	return res, nil
}

// ToUI converts a raw amount to UI units.
func ToUI(raw uint64, decimals uint8) math.LegacyDec {
	return math.LegacyNewDecFromInt(math.NewIntFromUint64(raw)).Quo(pow10(decimals))
}

// FromUI converts a UI amount to raw units, flooring any dust.
func FromUI(ui math.LegacyDec, decimals uint8) (uint64, error) {
	return floorUint64(ui.Mul(pow10(decimals)))
}

func pow10(decimals uint8) math.LegacyDec {
	return math.LegacyNewDec(10).Power(uint64(decimals))
}
