package quote

import (
	stdmath "math"
	"testing"

	"cosmossdk.io/math"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ninja0404/saros-go-sdk/pkg/config"
	"github.com/ninja0404/saros-go-sdk/pkg/types"
)

func TestDepositAmounts(t *testing.T) {
	b, err := DepositAmounts(1_000, 100_000, 5_000_000, 300_000, math.LegacyNewDec(1))
	require.NoError(t, err)
	assert.Equal(t, uint64(1_000), b.PoolTokenAmount)
	assert.Equal(t, uint64(50_000), b.Amount0)
	assert.Equal(t, uint64(3_000), b.Amount1)
	assert.Equal(t, uint64(50_500), b.MaximumToken0)
	// token1 is padded from its own amount
	assert.Equal(t, uint64(3_030), b.MaximumToken1)
}

func TestDepositAmountsErrors(t *testing.T) {
	_, err := DepositAmounts(0, 1, 1, 1, math.LegacyZeroDec())
	assert.ErrorIs(t, err, types.ErrZeroAmount)
	_, err = DepositAmounts(1, 0, 1, 1, math.LegacyZeroDec())
	assert.ErrorIs(t, err, types.ErrInsufficientLiquidity)
	_, err = DepositAmounts(1, 1, 1, 1, math.LegacyNewDec(-1))
	assert.Error(t, err)
}

func TestWithdrawAmounts(t *testing.T) {
	fees := config.DefaultFees()
	fees.OwnerWithdrawFee = config.Ratio{Numerator: 1, Denominator: 100}

	b, err := WithdrawAmounts(1_000, 100_000, 5_000_000, 300_000, fees, math.LegacyNewDec(2))
	require.NoError(t, err)
	assert.Equal(t, uint64(1_000), b.PoolTokenAmount)
	assert.Equal(t, uint64(10), b.FeeAmount)
	assert.Equal(t, uint64(5_000_000*990/100_000), b.Amount0)
	assert.Equal(t, uint64(300_000*990/100_000), b.Amount1)
	assert.Equal(t, uint64(48_510), b.MinimumToken0)
	assert.Equal(t, uint64(2_910), b.MinimumToken1)
}

func TestWithdrawAmountsNoOwnerFee(t *testing.T) {
	b, err := WithdrawAmounts(1_000, 100_000, 5_000_000, 300_000, config.DefaultFees(), math.LegacyZeroDec())
	require.NoError(t, err)
	assert.Zero(t, b.FeeAmount)
	assert.Equal(t, uint64(50_000), b.MinimumToken0)
	assert.Equal(t, uint64(3_000), b.MinimumToken1)
}

func TestLiquidityAmountsOverflow(t *testing.T) {
	// lp above supply scales a full reserve past u64
	_, err := DepositAmounts(2, 1, stdmath.MaxUint64, 1, math.LegacyZeroDec())
	assert.ErrorIs(t, err, types.ErrAmountOverflow)

	_, err = DepositAmounts(2, 1, 1, stdmath.MaxUint64, math.LegacyZeroDec())
	assert.ErrorIs(t, err, types.ErrAmountOverflow)

	_, err = WithdrawAmounts(2, 1, stdmath.MaxUint64, 1, config.DefaultFees(), math.LegacyZeroDec())
	assert.ErrorIs(t, err, types.ErrAmountOverflow)

	// the largest in-range share still fits
	b, err := DepositAmounts(1, 1, stdmath.MaxUint64, 1, math.LegacyZeroDec())
	require.NoError(t, err)
	assert.Equal(t, uint64(stdmath.MaxUint64), b.Amount0)
}

func TestWithdrawFeeCappedAtBurn(t *testing.T) {
	fees := config.DefaultFees()
	fees.OwnerWithdrawFee = config.Ratio{Numerator: stdmath.MaxUint64, Denominator: 1}

	b, err := WithdrawAmounts(1_000, 100_000, 5_000_000, 300_000, fees, math.LegacyZeroDec())
	require.NoError(t, err)
	assert.Equal(t, uint64(1_000), b.FeeAmount)
	assert.Zero(t, b.Amount0)
	assert.Zero(t, b.Amount1)
}
