package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ninja0404/saros-go-sdk/pkg/autofill"
)

func newSwapCmd(opts *globalOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "swap",
		Short: "Swap pool trades",
	}
	cmd.AddCommand(
		newSwapQuoteCmd(opts),
		newSwapSendCmd(opts),
		newSwapRouteCmd(opts),
	)
	return cmd
}

func newSwapQuoteCmd(opts *globalOpts) *cobra.Command {
	var (
		poolStr     string
		mintInStr   string
		poolBStr    string
		amountIn    uint64
		slippageStr string
	)
	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Quote a swap (or a two-pool route with --pool-b)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 20*time.Second)
			defer cancel()

			pool, err := parsePubkey("pool", poolStr)
			if err != nil {
				return err
			}
			mintIn, err := parsePubkey("mint-in", mintInStr)
			if err != nil {
				return err
			}
			slippage, err := parseSlippage(slippageStr)
			if err != nil {
				return err
			}
			deps, err := newReader(cmd, opts)
			if err != nil {
				return err
			}

			if poolBStr != "" {
				poolB, err := parsePubkey("pool-b", poolBStr)
				if err != nil {
					return err
				}
				q, err := autofill.QuoteRouteSwap(ctx, deps.rpc, pool, poolB, mintIn, amountIn, slippage)
				if err != nil {
					return err
				}
				return printJSON(cmd, q)
			}
			q, err := autofill.QuoteSwap(ctx, deps.rpc, pool, mintIn, amountIn, slippage)
			if err != nil {
				return err
			}
			return printJSON(cmd, q)
		},
	}
	cmd.Flags().StringVar(&poolStr, "pool", "", "swap pool pubkey")
	cmd.Flags().StringVar(&poolBStr, "pool-b", "", "second pool for a routed quote")
	cmd.Flags().StringVar(&mintInStr, "mint-in", "", "input mint")
	cmd.Flags().Uint64Var(&amountIn, "amount", 0, "raw input amount")
	cmd.Flags().StringVar(&slippageStr, "slippage", "0.5", "slippage percent")
	_ = cmd.MarkFlagRequired("pool")
	_ = cmd.MarkFlagRequired("mint-in")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

func newSwapSendCmd(opts *globalOpts) *cobra.Command {
	var (
		poolStr      string
		mintInStr    string
		amountIn     uint64
		minOut       uint64
		slippageStr  string
		hostOwnerStr string
		tx           txFlags
	)
	cmd := &cobra.Command{
		Use:   "send",
		Short: "Swap on one pool; --min-out 0 derives the minimum from --slippage",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
			defer cancel()

			pool, err := parsePubkey("pool", poolStr)
			if err != nil {
				return err
			}
			mintIn, err := parsePubkey("mint-in", mintInStr)
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
			if hostOwnerStr != "" {
				host, err := parsePubkey("host-fee-owner", hostOwnerStr)
				if err != nil {
					return err
				}
				afOpts = append(afOpts, autofill.WithHostFeeOwner(host))
			}
			user := deps.signer.PublicKey()

			if minOut > 0 {
				accts, _, ixs, err := autofill.Swap(ctx, deps.rpc, user, pool, mintIn, amountIn, minOut, afOpts...)
				if err != nil {
					return err
				}
				deps.log.Info().Str("user_source", accts.UserSource.String()).Uint64("min_out", minOut).Msg("swap built")
				return tx.submit(ctx, cmd, deps, ixs)
			}
			slippage, err := parseSlippage(slippageStr)
			if err != nil {
				return err
			}
			accts, q, ixs, err := autofill.SwapWithSlippage(ctx, deps.rpc, user, pool, mintIn, amountIn, slippage, afOpts...)
			if err != nil {
				return err
			}
			deps.log.Info().
				Str("user_source", accts.UserSource.String()).
				Uint64("expected_out", q.Estimate.AmountOut).
				Uint64("min_out", q.MinimumAmountOut).
				Str("price_impact", q.Estimate.PriceImpact.String()).
				Msg("swap built")
			return tx.submit(ctx, cmd, deps, ixs)
		},
	}
	cmd.Flags().StringVar(&poolStr, "pool", "", "swap pool pubkey")
	cmd.Flags().StringVar(&mintInStr, "mint-in", "", "input mint")
	cmd.Flags().Uint64Var(&amountIn, "amount", 0, "raw input amount")
	cmd.Flags().Uint64Var(&minOut, "min-out", 0, "minimum raw output (0 = quote with --slippage)")
	cmd.Flags().StringVar(&slippageStr, "slippage", "0.5", "slippage percent")
	cmd.Flags().StringVar(&hostOwnerStr, "host-fee-owner", "", "owner of the host fee LP account")
	tx.register(cmd)
	_ = cmd.MarkFlagRequired("pool")
	_ = cmd.MarkFlagRequired("mint-in")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

func newSwapRouteCmd(opts *globalOpts) *cobra.Command {
	var (
		poolAStr    string
		poolBStr    string
		mintInStr   string
		amountIn    uint64
		slippageStr string
		tx          txFlags
	)
	cmd := &cobra.Command{
		Use:   "route",
		Short: "Swap through two pools sharing a middle mint",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
			defer cancel()

			poolA, err := parsePubkey("pool-a", poolAStr)
			if err != nil {
				return err
			}
			poolB, err := parsePubkey("pool-b", poolBStr)
			if err != nil {
				return err
			}
			mintIn, err := parsePubkey("mint-in", mintInStr)
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

			q, err := autofill.QuoteRouteSwap(ctx, deps.rpc, poolA, poolB, mintIn, amountIn, slippage)
			if err != nil {
				return err
			}
			deps.log.Info().
				Str("middle_mint", q.MintMiddle.String()).
				Uint64("middle_amount", q.MiddleAmount).
				Uint64("expected_out", q.AmountOut).
				Uint64("min_out", q.MinimumAmountOut).
				Msg("route quote")
			if q.MinimumAmountOut == 0 {
				return fmt.Errorf("route output rounds to zero")
			}
			_, instrs, err := autofill.RouteSwap(ctx, deps.rpc, deps.signer.PublicKey(), poolA, poolB, mintIn,
				amountIn, q.MiddleAmount, q.MinimumAmountOut, afOpts...)
			if err != nil {
				return err
			}
			return tx.submit(ctx, cmd, deps, instrs)
		},
	}
	cmd.Flags().StringVar(&poolAStr, "pool-a", "", "first pool (holds mint-in)")
	cmd.Flags().StringVar(&poolBStr, "pool-b", "", "second pool")
	cmd.Flags().StringVar(&mintInStr, "mint-in", "", "input mint")
	cmd.Flags().Uint64Var(&amountIn, "amount", 0, "raw input amount")
	cmd.Flags().StringVar(&slippageStr, "slippage", "0.5", "slippage percent per leg")
	tx.register(cmd)
	_ = cmd.MarkFlagRequired("pool-a")
	_ = cmd.MarkFlagRequired("pool-b")
	_ = cmd.MarkFlagRequired("mint-in")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}
