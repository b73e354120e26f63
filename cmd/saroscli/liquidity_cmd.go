package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/ninja0404/saros-go-sdk/pkg/autofill"
)

func newLiquidityCmd(opts *globalOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "liquidity",
		Short: "Add or remove pool liquidity",
	}
	cmd.AddCommand(
		newLiquidityCmdFor(opts, "deposit", "Mint LP tokens by depositing both pool tokens"),
		newLiquidityCmdFor(opts, "withdraw", "Burn LP tokens for both pool tokens"),
	)
	return cmd
}

func newLiquidityCmdFor(opts *globalOpts, use, short string) *cobra.Command {
	var (
		poolStr     string
		lpAmount    uint64
		slippageStr string
		tx          txFlags
	)
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
			defer cancel()

			pool, err := parsePubkey("pool", poolStr)
			if err != nil {
				return err
			}
			slippage, err := parseSlippage(slippageStr)
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
			user := deps.signer.PublicKey()

			if use == "deposit" {
				_, dargs, instrs, err := autofill.Deposit(ctx, deps.rpc, user, pool, lpAmount, slippage, afOpts...)
				if err != nil {
					return err
				}
				deps.log.Info().
					Uint64("lp", dargs.PoolTokenAmount).
					Uint64("max_token_a", dargs.MaximumTokenA).
					Uint64("max_token_b", dargs.MaximumTokenB).
					Msg("deposit built")
				return tx.submit(ctx, cmd, deps, instrs)
			}
			_, wargs, instrs, err := autofill.Withdraw(ctx, deps.rpc, user, pool, lpAmount, slippage, afOpts...)
			if err != nil {
				return err
			}
			deps.log.Info().
				Uint64("lp", wargs.PoolTokenAmount).
				Uint64("min_token_a", wargs.MinimumTokenA).
				Uint64("min_token_b", wargs.MinimumTokenB).
				Msg("withdraw built")
			return tx.submit(ctx, cmd, deps, instrs)
		},
	}
	cmd.Flags().StringVar(&poolStr, "pool", "", "swap pool pubkey")
	cmd.Flags().Uint64Var(&lpAmount, "lp", 0, "raw LP token amount")
	cmd.Flags().StringVar(&slippageStr, "slippage", "0.5", "slippage percent")
	tx.register(cmd)
	_ = cmd.MarkFlagRequired("pool")
	_ = cmd.MarkFlagRequired("lp")
	return cmd
}
