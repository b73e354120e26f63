package quote

import (
	"cosmossdk.io/math"

	"github.com/ninja0404/saros-go-sdk/pkg/config"
	"github.com/ninja0404/saros-go-sdk/pkg/types"
)

// DepositBounds sizes a deposit_all_token_types call.
type DepositBounds struct {
	PoolTokenAmount uint64
	Amount0         uint64
	Amount1         uint64
	MaximumToken0   uint64
	MaximumToken1   uint64
}

// DepositAmounts computes the token amounts backing lp pool tokens and pads
// each by slippage percent. Each maximum is padded from its own token amount.
func DepositAmounts(lp, supply, reserve0, reserve1 uint64, slippage math.LegacyDec) (DepositBounds, error) {
	if lp == 0 {
		return DepositBounds{}, types.ErrZeroAmount
	}
	if supply == 0 {
		return DepositBounds{}, types.ErrInsufficientLiquidity
	}
	if err := types.ValidateSlippage(slippage); err != nil {
		return DepositBounds{}, err
	}
	a0, err := share(reserve0, lp, supply)
	if err != nil {
		return DepositBounds{}, err
	}
	a1, err := share(reserve1, lp, supply)
	if err != nil {
		return DepositBounds{}, err
	}
	return DepositBounds{
		PoolTokenAmount: lp,
		Amount0:         a0,
		Amount1:         a1,
		MaximumToken0:   WithMaxSlippage(a0, slippage),
		MaximumToken1:   WithMaxSlippage(a1, slippage),
	}, nil
}

// WithdrawBounds sizes a withdraw_all_token_types call. PoolTokenAmount is
// what the user burns; the token minimums are computed on the amount left
// after the owner withdraw fee.
type WithdrawBounds struct {
	PoolTokenAmount uint64
	FeeAmount       uint64
	Amount0         uint64
	Amount1         uint64
	MinimumToken0   uint64
	MinimumToken1   uint64
}

// WithdrawAmounts computes the minimum tokens returned for burning lp pool tokens.
func WithdrawAmounts(lp, supply, reserve0, reserve1 uint64, fees config.FeeConfig, slippage math.LegacyDec) (WithdrawBounds, error) {
	if lp == 0 {
		return WithdrawBounds{}, types.ErrZeroAmount
	}
	if supply == 0 {
		return WithdrawBounds{}, types.ErrInsufficientLiquidity
	}
	if err := types.ValidateSlippage(slippage); err != nil {
		return WithdrawBounds{}, err
	}
	var fee uint64
	if wf := fees.OwnerWithdrawFee; wf.Numerator != 0 && wf.Denominator != 0 {
		f := math.NewIntFromUint64(lp).
			Mul(math.NewIntFromUint64(wf.Numerator)).
			Quo(math.NewIntFromUint64(wf.Denominator))
		fee = lp
		if f.IsUint64() && f.Uint64() < lp {
			fee = f.Uint64()
		}
	}
	net := lp - fee
	a0, err := share(reserve0, net, supply)
	if err != nil {
		return WithdrawBounds{}, err
	}
	a1, err := share(reserve1, net, supply)
	if err != nil {
		return WithdrawBounds{}, err
	}
	return WithdrawBounds{
		PoolTokenAmount: lp,
		FeeAmount:       fee,
		Amount0:         a0,
		Amount1:         a1,
		MinimumToken0:   WithMinSlippage(a0, slippage),
		MinimumToken1:   WithMinSlippage(a1, slippage),
	}, nil
}
