// Package reward projects Saros farm economics: annual reward value, APR and
// pending rewards. The on-chain accumulatedRewardPerShare ledger is read, never
// re-derived; projections only extend it to a given block.
package reward

import (
	"context"
	"fmt"

	"cosmossdk.io/math"
	"lukechampine.com/uint128"

	"github.com/ninja0404/saros-go-sdk/pkg/types"
)

var hundred = math.LegacyNewDec(100)

// Result is the priced state of one farm.
type Result struct {
	AnnualRewardUSD math.LegacyDec
	LiquidityUSD    math.LegacyDec
	APR             math.LegacyDec
}

// RewardInput describes one reward stream of a farm.
type RewardInput struct {
	// TokenID is the oracle key of the reward token.
	TokenID        string
	RewardPerBlock uint128.Uint128
	// Decimals scales RewardPerBlock to token units. Zero prices raw units.
	Decimals uint8
}

// FarmInput describes an LP farm. Reserve amounts are pool vault balances;
// LPSupply and TotalStaked share the LP mint's units so only their ratio matters.
type FarmInput struct {
	BlocksPerYear uint64
	Rewards       []RewardInput

	Token0ID, Token1ID   string
	Reserve0, Reserve1   uint64
	Decimals0, Decimals1 uint8

	LPSupply    uint64
	TotalStaked uint64
}

// StakeInput describes a single-asset staking pool.
type StakeInput struct {
	BlocksPerYear uint64
	Rewards       []RewardInput

	TokenID     string
	TotalStaked uint64
	Decimals    uint8
}

// AnnualRewardValue returns blocksPerYear * rewardPerBlock * price.
func AnnualRewardValue(blocksPerYear uint64, rewardPerBlock uint128.Uint128, price math.LegacyDec) math.LegacyDec {
	perBlock := math.LegacyNewDecFromInt(math.NewIntFromBigInt(rewardPerBlock.Big()))
	return perBlock.MulInt(math.NewIntFromUint64(blocksPerYear)).Mul(price)
}

// LPTokenPrice returns (amount0*price0 + amount1*price1) / lpSupply.
func LPTokenPrice(amount0, price0, amount1, price1 math.LegacyDec, lpSupply uint64) (math.LegacyDec, error) {
	if lpSupply == 0 {
		return math.LegacyDec{}, types.ErrInsufficientLiquidity
	}
	total := amount0.Mul(price0).Add(amount1.Mul(price1))
	return total.QuoInt(math.NewIntFromUint64(lpSupply)), nil
}

// APR returns totalAnnualUSD / liquidityUSD * 100, or zero with no liquidity.
func APR(totalAnnualUSD, liquidityUSD math.LegacyDec) math.LegacyDec {
	if liquidityUSD.IsNil() || !liquidityUSD.IsPositive() {
		return math.LegacyZeroDec()
	}
	return totalAnnualUSD.Quo(liquidityUSD).Mul(hundred)
}

// TotalAnnualRewardValue prices every reward stream and sums them.
func TotalAnnualRewardValue(ctx context.Context, blocksPerYear uint64, rewards []RewardInput, oracle PriceOracle) (math.LegacyDec, error) {
	if oracle == nil {
		return math.LegacyDec{}, types.ErrNilOracle
	}
	total := math.LegacyZeroDec()
	for _, r := range rewards {
		price, err := oracle.PriceOf(ctx, r.TokenID)
		if err != nil {
			return math.LegacyDec{}, fmt.Errorf("price reward %s: %w", r.TokenID, err)
		}
		v := AnnualRewardValue(blocksPerYear, r.RewardPerBlock, price)
		total = total.Add(v.Quo(pow10(r.Decimals)))
	}
	return total, nil
}

// FarmAPR prices an LP farm: liquidity is the staked share of the pool valued
// at the oracle prices of both reserves.
func FarmAPR(ctx context.Context, in FarmInput, oracle PriceOracle) (Result, error) {
	annual, err := TotalAnnualRewardValue(ctx, in.BlocksPerYear, in.Rewards, oracle)
	if err != nil {
		return Result{}, err
	}
	p0, err := oracle.PriceOf(ctx, in.Token0ID)
	if err != nil {
		return Result{}, fmt.Errorf("price token0 %s: %w", in.Token0ID, err)
	}
	p1, err := oracle.PriceOf(ctx, in.Token1ID)
	if err != nil {
		return Result{}, fmt.Errorf("price token1 %s: %w", in.Token1ID, err)
	}
	lpPrice, err := LPTokenPrice(ui(in.Reserve0, in.Decimals0), p0, ui(in.Reserve1, in.Decimals1), p1, in.LPSupply)
	if err != nil {
		return Result{}, err
	}
	liquidity := lpPrice.MulInt(math.NewIntFromUint64(in.TotalStaked))
	return Result{
		AnnualRewardUSD: annual,
		LiquidityUSD:    liquidity,
		APR:             APR(annual, liquidity),
	}, nil
}

// StakeAPR prices a single-asset pool: liquidity is price * totalStaked.
func StakeAPR(ctx context.Context, in StakeInput, oracle PriceOracle) (Result, error) {
	annual, err := TotalAnnualRewardValue(ctx, in.BlocksPerYear, in.Rewards, oracle)
	if err != nil {
		return Result{}, err
	}
	price, err := oracle.PriceOf(ctx, in.TokenID)
	if err != nil {
		return Result{}, fmt.Errorf("price staking token %s: %w", in.TokenID, err)
	}
	liquidity := price.Mul(ui(in.TotalStaked, in.Decimals))
	return Result{
		AnnualRewardUSD: annual,
		LiquidityUSD:    liquidity,
		APR:             APR(annual, liquidity),
	}, nil
}

func ui(raw uint64, decimals uint8) math.LegacyDec {
	return math.LegacyNewDecFromInt(math.NewIntFromUint64(raw)).Quo(pow10(decimals))
}

func pow10(decimals uint8) math.LegacyDec {
	return math.LegacyNewDec(10).Power(uint64(decimals))
}
