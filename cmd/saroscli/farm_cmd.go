package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cosmossdk.io/math"
	"github.com/spf13/cobra"

	"github.com/ninja0404/saros-go-sdk/pkg/autofill"
	"github.com/ninja0404/saros-go-sdk/pkg/reward"
)

func newFarmCmd(opts *globalOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "farm",
		Short: "Yield farm staking and rewards",
	}
	cmd.AddCommand(
		newFarmStakeCmd(opts),
		newFarmUnstakeCmd(opts),
		newFarmClaimCmd(opts),
		newFarmPendingCmd(opts),
		newFarmAPRCmd(opts),
		newFarmPauseCmd(opts),
	)
	return cmd
}

func newFarmStakeCmd(opts *globalOpts) *cobra.Command {
	var (
		farmPoolStr string
		amount      uint64
		rewardStrs  []string
		tx          txFlags
	)
	cmd := &cobra.Command{
		Use:   "stake",
		Short: "Stake into a farm pool and enroll in its rewards",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
			defer cancel()

			farmPool, err := parsePubkey("farm-pool", farmPoolStr)
			if err != nil {
				return err
			}
			rewards, err := parsePubkeys("reward", rewardStrs)
			if err != nil {
				return err
			}
			deps, err := newBuilder(cmd, opts)
			if err != nil {
				return err
			}
			afOpts, err := tx.autofillOptions(cmd, deps)
			if err != nil {
				return err
			}
			_, instrs, err := autofill.Stake(ctx, deps.rpc, deps.signer.PublicKey(), farmPool, amount, rewards, afOpts...)
			if err != nil {
				return err
			}
			deps.log.Info().Uint64("amount", amount).Int("rewards", len(rewards)).Int("instructions", len(instrs)).Msg("stake built")
			return tx.submit(ctx, cmd, deps, instrs)
		},
	}
	cmd.Flags().StringVar(&farmPoolStr, "farm-pool", "", "farm pool pubkey")
	cmd.Flags().Uint64Var(&amount, "amount", 0, "raw amount to stake")
	cmd.Flags().StringArrayVar(&rewardStrs, "reward", nil, "pool reward pubkey (repeatable)")
	tx.register(cmd)
	_ = cmd.MarkFlagRequired("farm-pool")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

func newFarmUnstakeCmd(opts *globalOpts) *cobra.Command {
	var (
		farmPoolStr string
		amount      uint64
		rewardStrs  []string
		maxBalance  bool
		tx          txFlags
	)
	cmd := &cobra.Command{
		Use:   "unstake",
		Short: "Settle rewards and withdraw stake from a farm pool",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
			defer cancel()

			farmPool, err := parsePubkey("farm-pool", farmPoolStr)
			if err != nil {
				return err
			}
			rewards, err := parsePubkeys("reward", rewardStrs)
			if err != nil {
				return err
			}
			deps, err := newBuilder(cmd, opts)
			if err != nil {
				return err
			}
			afOpts, err := tx.autofillOptions(cmd, deps)
			if err != nil {
				return err
			}
			_, instrs, err := autofill.Unstake(ctx, deps.rpc, deps.signer.PublicKey(), farmPool, amount, rewards, maxBalance, afOpts...)
			if err != nil {
				return err
			}
			deps.log.Info().Uint64("amount", amount).Bool("max", maxBalance).Int("instructions", len(instrs)).Msg("unstake built")
			return tx.submit(ctx, cmd, deps, instrs)
		},
	}
	cmd.Flags().StringVar(&farmPoolStr, "farm-pool", "", "farm pool pubkey")
	cmd.Flags().Uint64Var(&amount, "amount", 0, "raw amount to unstake")
	cmd.Flags().StringArrayVar(&rewardStrs, "reward", nil, "pool reward pubkey (repeatable)")
	cmd.Flags().BoolVar(&maxBalance, "max", false, "the whole stake is withdrawn; skip re-enrolling rewards")
	tx.register(cmd)
	_ = cmd.MarkFlagRequired("farm-pool")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

func newFarmClaimCmd(opts *globalOpts) *cobra.Command {
	var (
		poolRewardStr string
		tx            txFlags
	)
	cmd := &cobra.Command{
		Use:   "claim",
		Short: "Harvest a pending farm reward",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
			defer cancel()

			poolReward, err := parsePubkey("pool-reward", poolRewardStr)
			if err != nil {
				return err
			}
			deps, err := newBuilder(cmd, opts)
			if err != nil {
				return err
			}
			afOpts, err := tx.autofillOptions(cmd, deps)
			if err != nil {
				return err
			}
			accts, instrs, err := autofill.ClaimReward(ctx, deps.rpc, deps.signer.PublicKey(), poolReward, afOpts...)
			if err != nil {
				return err
			}
			deps.log.Info().Str("destination", accts.UserRewardTokenAccount.String()).Msg("claim built")
			return tx.submit(ctx, cmd, deps, instrs)
		},
	}
	cmd.Flags().StringVar(&poolRewardStr, "pool-reward", "", "pool reward pubkey")
	tx.register(cmd)
	_ = cmd.MarkFlagRequired("pool-reward")
	return cmd
}

func newFarmPendingCmd(opts *globalOpts) *cobra.Command {
	var (
		poolRewardStr string
		userStr       string
	)
	cmd := &cobra.Command{
		Use:   "pending",
		Short: "Estimate a user's unclaimed reward at the current slot",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 20*time.Second)
			defer cancel()

			poolReward, err := parsePubkey("pool-reward", poolRewardStr)
			if err != nil {
				return err
			}
			user, err := parsePubkey("user", userStr)
			if err != nil {
				return err
			}
			deps, err := newReader(cmd, opts)
			if err != nil {
				return err
			}
			pending, err := autofill.PendingReward(ctx, deps.rpc, user, poolReward, autofill.WithProgram(deps.program))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "pending=%d\n", pending)
			return nil
		},
	}
	cmd.Flags().StringVar(&poolRewardStr, "pool-reward", "", "pool reward pubkey")
	cmd.Flags().StringVar(&userStr, "user", "", "staker pubkey")
	_ = cmd.MarkFlagRequired("pool-reward")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func newFarmAPRCmd(opts *globalOpts) *cobra.Command {
	var (
		farmPoolStr  string
		swapPoolStr  string
		token0ID     string
		token1ID     string
		stakeTokenID string
		rewardPairs  []string
		pricePairs   []string
	)
	cmd := &cobra.Command{
		Use:   "apr",
		Short: "Price a farm's APR from on-chain state and --price quotes",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 20*time.Second)
			defer cancel()

			farmPool, err := parsePubkey("farm-pool", farmPoolStr)
			if err != nil {
				return err
			}
			sources, err := parseRewardSources(rewardPairs)
			if err != nil {
				return err
			}
			prices, err := parsePrices(pricePairs)
			if err != nil {
				return err
			}
			oracle := reward.NewStaticOracle(prices)
			deps, err := newReader(cmd, opts)
			if err != nil {
				return err
			}

			var res reward.Result
			if stakeTokenID != "" {
				res, err = autofill.StakeAPR(ctx, deps.rpc, farmPool, stakeTokenID, sources, oracle, autofill.WithProgram(deps.program))
			} else {
				swapPool, perr := parsePubkey("swap-pool", swapPoolStr)
				if perr != nil {
					return perr
				}
				res, err = autofill.FarmAPR(ctx, deps.rpc, autofill.FarmAPRParams{
					FarmPool: farmPool,
					SwapPool: swapPool,
					Token0ID: token0ID,
					Token1ID: token1ID,
					Rewards:  sources,
				}, oracle, autofill.WithProgram(deps.program))
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "liquidity_usd=%s annual_reward_usd=%s apr=%s%%\n",
				res.LiquidityUSD, res.AnnualRewardUSD, res.APR)
			return nil
		},
	}
	cmd.Flags().StringVar(&farmPoolStr, "farm-pool", "", "farm pool pubkey")
	cmd.Flags().StringVar(&swapPoolStr, "swap-pool", "", "swap pool whose LP token the farm stakes")
	cmd.Flags().StringVar(&token0ID, "token0-id", "", "price key of the swap pool's token0")
	cmd.Flags().StringVar(&token1ID, "token1-id", "", "price key of the swap pool's token1")
	cmd.Flags().StringVar(&stakeTokenID, "stake-token-id", "", "price key of a single-asset stake token (skips --swap-pool)")
	cmd.Flags().StringArrayVar(&rewardPairs, "reward", nil, "pool_reward_pubkey=price_key (repeatable)")
	cmd.Flags().StringArrayVar(&pricePairs, "price", nil, "price_key=usd_price (repeatable)")
	_ = cmd.MarkFlagRequired("farm-pool")
	return cmd
}

func newFarmPauseCmd(opts *globalOpts) *cobra.Command {
	var (
		farmPoolStr string
		rewardStrs  []string
		resume      bool
		tx          txFlags
	)
	cmd := &cobra.Command{
		Use:   "pause",
		Short: "Pause (or --resume) a farm pool and the given rewards; signer must be the farm admin",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
			defer cancel()

			farmPool, err := parsePubkey("farm-pool", farmPoolStr)
			if err != nil {
				return err
			}
			rewards, err := parsePubkeys("reward", rewardStrs)
			if err != nil {
				return err
			}
			deps, err := newBuilder(cmd, opts)
			if err != nil {
				return err
			}
			afOpts, err := tx.autofillOptions(cmd, deps)
			if err != nil {
				return err
			}
			instrs, err := autofill.SetPause(deps.signer.PublicKey(), farmPool, rewards, !resume, afOpts...)
			if err != nil {
				return err
			}
			return tx.submit(ctx, cmd, deps, instrs)
		},
	}
	cmd.Flags().StringVar(&farmPoolStr, "farm-pool", "", "farm pool pubkey")
	cmd.Flags().StringArrayVar(&rewardStrs, "reward", nil, "pool reward pubkey (repeatable)")
	cmd.Flags().BoolVar(&resume, "resume", false, "unpause instead")
	tx.register(cmd)
	_ = cmd.MarkFlagRequired("farm-pool")
	return cmd
}

func parseRewardSources(pairs []string) ([]autofill.RewardSource, error) {
	out := make([]autofill.RewardSource, 0, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok || v == "" {
			return nil, fmt.Errorf("reward %q: want pubkey=price_key", p)
		}
		pk, err := parsePubkey("reward", k)
		if err != nil {
			return nil, err
		}
		out = append(out, autofill.RewardSource{PoolReward: pk, TokenID: v})
	}
	return out, nil
}

func parsePrices(pairs []string) (map[string]math.LegacyDec, error) {
	out := make(map[string]math.LegacyDec, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("price %q: want price_key=usd", p)
		}
		d, err := math.LegacyNewDecFromStr(v)
		if err != nil {
			return nil, fmt.Errorf("price %q: %w", p, err)
		}
		out[k] = d
	}
	return out, nil
}
