package reward

import (
	"fmt"

	"cosmossdk.io/math"
	"lukechampine.com/uint128"

	"github.com/ninja0404/saros-go-sdk/pkg/program/sarosfarm"
)

// AccumulatedRewardPerShare extends the pool's accumulator from
// lastUpdatedBlock to min(currentBlock, rewardEndBlock):
//
//	acc + (blocks * rewardPerBlock * precision) / totalShares
//
// With no shares or no elapsed blocks the stored value is returned.
func AccumulatedRewardPerShare(pr *sarosfarm.PoolReward, currentBlock, precision uint64) (uint128.Uint128, error) {
	end := currentBlock
	if pr.RewardEndBlock < end {
		end = pr.RewardEndBlock
	}
	if end <= pr.LastUpdatedBlock || pr.TotalShares == 0 {
		return pr.AccumulatedRewardPerShare, nil
	}
	blocks := math.NewIntFromUint64(end - pr.LastUpdatedBlock)
	accrued := blocks.
		Mul(bigInt(pr.RewardPerBlock)).
		Mul(math.NewIntFromUint64(precision)).
		Quo(math.NewIntFromUint64(pr.TotalShares))
	acc := bigInt(pr.AccumulatedRewardPerShare).Add(accrued)
	if acc.BigInt().BitLen() > 128 {
		return uint128.Zero, fmt.Errorf("accumulated reward per share %s overflows u128", acc)
	}
	return uint128.FromBig(acc.BigInt()), nil
}

// PendingReward projects what a user could claim at currentBlock:
//
//	amount * acc / precision - rewardDebt + rewardPending
//
// A debt larger than the accrued share yields rewardPending alone.
func PendingReward(pr *sarosfarm.PoolReward, upr *sarosfarm.UserPoolReward, currentBlock, precision uint64) (uint64, error) {
	if precision == 0 {
		return 0, fmt.Errorf("reward precision must be > 0")
	}
	acc, err := AccumulatedRewardPerShare(pr, currentBlock, precision)
	if err != nil {
		return 0, err
	}
	earned := math.NewIntFromUint64(upr.Amount).
		Mul(bigInt(acc)).
		Quo(math.NewIntFromUint64(precision))
	pending := math.NewIntFromUint64(upr.RewardPending)
	if debt := math.NewIntFromUint64(upr.RewardDebt); earned.GT(debt) {
		pending = pending.Add(earned.Sub(debt))
	}
	if !pending.IsUint64() {
		return 0, fmt.Errorf("pending reward %s overflows u64", pending)
	}
	return pending.Uint64(), nil
}

func bigInt(u uint128.Uint128) math.Int {
	return math.NewIntFromBigInt(u.Big())
}
