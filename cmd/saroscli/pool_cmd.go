package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"

	"github.com/ninja0404/saros-go-sdk/pkg/autofill"
	"github.com/ninja0404/saros-go-sdk/pkg/program/sarosswap"
	sdkrpc "github.com/ninja0404/saros-go-sdk/pkg/rpc"
	"github.com/ninja0404/saros-go-sdk/pkg/token"
	"github.com/ninja0404/saros-go-sdk/pkg/wallet"
)

func newPoolCmd(opts *globalOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pool",
		Short: "Swap pool state",
	}
	cmd.AddCommand(newPoolInfoCmd(opts), newPoolWatchCmd(opts), newPoolCreateCmd(opts))
	return cmd
}

func newPoolInfoCmd(opts *globalOpts) *cobra.Command {
	var poolStr string
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Print a pool with its reserves, LP supply and fees",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 20*time.Second)
			defer cancel()

			pool, err := parsePubkey("pool", poolStr)
			if err != nil {
				return err
			}
			deps, err := newReader(cmd, opts)
			if err != nil {
				return err
			}
			snap, err := autofill.FetchPoolSnapshot(ctx, deps.rpc, pool)
			if err != nil {
				return err
			}
			return printJSON(cmd, snap)
		},
	}
	cmd.Flags().StringVar(&poolStr, "pool", "", "swap pool pubkey")
	_ = cmd.MarkFlagRequired("pool")
	return cmd
}

// newPoolWatchCmd re-quotes a swap every time either vault changes.
func newPoolWatchCmd(opts *globalOpts) *cobra.Command {
	var (
		poolStr     string
		mintInStr   string
		amountIn    uint64
		slippageStr string
	)
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Stream swap quotes as pool reserves change",
		RunE: func(cmd *cobra.Command, args []string) error {
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

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			fetchCtx, cancel := context.WithTimeout(ctx, 20*time.Second)
			snap, err := autofill.FetchPoolSnapshot(fetchCtx, deps.rpc, pool)
			cancel()
			if err != nil {
				return err
			}

			var mu sync.Mutex
			out := cmd.OutOrStdout()
			emit := func(slot uint64) {
				q, err := snap.Quote(mintIn, amountIn, slippage)
				if err != nil {
					deps.log.Warn().Err(err).Msg("quote failed")
					return
				}
				fmt.Fprintf(out, "slot=%d reserve0=%d reserve1=%d out=%d min_out=%d impact=%s\n",
					slot, snap.Reserve0, snap.Reserve1, q.Estimate.AmountOut, q.MinimumAmountOut, q.Estimate.PriceImpact)
			}
			emit(0)

			watcher := sdkrpc.NewAccountWatcher(deps.cfg.RPC)
			defer watcher.Close()

			vault := func(set func(uint64)) sdkrpc.AccountHandler {
				return func(u sdkrpc.AccountUpdate) {
					acc, err := token.DecodeAccount(u.Data)
					if err != nil {
						deps.log.Warn().Err(err).Str("account", u.Account.String()).Msg("decode vault")
						return
					}
					mu.Lock()
					defer mu.Unlock()
					set(acc.Amount)
					emit(u.Slot)
				}
			}
			subs := []struct {
				key solana.PublicKey
				set func(uint64)
			}{
				{snap.Pool.Token0Account, func(v uint64) { snap.Reserve0 = v }},
				{snap.Pool.Token1Account, func(v uint64) { snap.Reserve1 = v }},
			}
			for _, s := range subs {
				if err := watcher.Subscribe(s.key, vault(s.set)); err != nil {
					return err
				}
			}

			deps.log.Info().Str("pool", pool.String()).Msg("watching pool vaults")
			if err := watcher.Run(ctx); err != nil && ctx.Err() == nil {
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&poolStr, "pool", "", "swap pool pubkey")
	cmd.Flags().StringVar(&mintInStr, "mint-in", "", "input mint")
	cmd.Flags().Uint64Var(&amountIn, "amount", 0, "raw input amount")
	cmd.Flags().StringVar(&slippageStr, "slippage", "0.5", "slippage percent")
	_ = cmd.MarkFlagRequired("pool")
	_ = cmd.MarkFlagRequired("mint-in")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

func newPoolCreateCmd(opts *globalOpts) *cobra.Command {
	var (
		feeOwnerStr string
		mint0Str    string
		mint1Str    string
		amount0     uint64
		amount1     uint64
		tx          txFlags
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a constant product pool funded from the payer's token accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 90*time.Second)
			defer cancel()

			mint0, err := parsePubkey("token0-mint", mint0Str)
			if err != nil {
				return err
			}
			mint1, err := parsePubkey("token1-mint", mint1Str)
			if err != nil {
				return err
			}
			deps, err := newBuilder(cmd, opts)
			if err != nil {
				return err
			}
			feeOwner := deps.signer.PublicKey()
			if feeOwnerStr != "" {
				if feeOwner, err = parsePubkey("fee-owner", feeOwnerStr); err != nil {
					return err
				}
			}
			afOpts, err := tx.autofillOptions(cmd, deps)
			if err != nil {
				return err
			}
			res, err := autofill.CreatePool(ctx, deps.rpc, deps.signer.PublicKey(), autofill.CreatePoolParams{
				FeeOwner:     feeOwner,
				Token0Mint:   mint0,
				Token1Mint:   mint1,
				Token0Amount: amount0,
				Token1Amount: amount1,
				CurveType:    sarosswap.CurveConstantProduct,
			}, afOpts...)
			if err != nil {
				return err
			}
			deps.log.Info().
				Str("pool", res.Pool.String()).
				Str("authority", res.Authority.String()).
				Str("lp_mint", res.LPMint.String()).
				Msg("create pool built")
			extra := make([]wallet.Signer, 0, len(res.Signers))
			for _, s := range res.Signers {
				extra = append(extra, s)
			}
			return tx.submit(ctx, cmd, deps, res.Instructions, extra...)
		},
	}
	cmd.Flags().StringVar(&feeOwnerStr, "fee-owner", "", "owner of the fee LP account (default fee payer)")
	cmd.Flags().StringVar(&mint0Str, "token0-mint", "", "first pool mint")
	cmd.Flags().StringVar(&mint1Str, "token1-mint", "", "second pool mint")
	cmd.Flags().Uint64Var(&amount0, "token0-amount", 0, "raw initial token0 liquidity")
	cmd.Flags().Uint64Var(&amount1, "token1-amount", 0, "raw initial token1 liquidity")
	tx.register(cmd)
	_ = cmd.MarkFlagRequired("token0-mint")
	_ = cmd.MarkFlagRequired("token1-mint")
	_ = cmd.MarkFlagRequired("token0-amount")
	_ = cmd.MarkFlagRequired("token1-amount")
	return cmd
}
