package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"cosmossdk.io/math"
	"github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"

	"github.com/ninja0404/saros-go-sdk/pkg/autofill"
	"github.com/ninja0404/saros-go-sdk/pkg/txbuilder"
	"github.com/ninja0404/saros-go-sdk/pkg/wallet"
)

// parsePubkey converts base58 string to PublicKey.
func parsePubkey(label, v string) (solana.PublicKey, error) {
	if v == "" {
		return solana.PublicKey{}, fmt.Errorf("%s is required", label)
	}
	pk, err := solana.PublicKeyFromBase58(v)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("%s invalid pubkey: %w", label, err)
	}
	return pk, nil
}

func parsePubkeys(label string, vs []string) ([]solana.PublicKey, error) {
	out := make([]solana.PublicKey, 0, len(vs))
	for _, v := range vs {
		pk, err := parsePubkey(label, v)
		if err != nil {
			return nil, err
		}
		out = append(out, pk)
	}
	return out, nil
}

// parseSlippage reads a percentage such as "0.5".
func parseSlippage(v string) (math.LegacyDec, error) {
	d, err := math.LegacyNewDecFromStr(v)
	if err != nil {
		return math.LegacyDec{}, fmt.Errorf("slippage %q: %w", v, err)
	}
	return d, nil
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	bz, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(bz))
	return nil
}

// txFlags are shared by every command that sends a transaction.
type txFlags struct {
	overridePath string
	preview      bool
	simulate     bool
	viaJito      bool
	jitoTip      uint64
}

func (f *txFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.overridePath, "override-json", "", "optional partial accounts override json")
	cmd.Flags().BoolVar(&f.preview, "preview", false, "only print derived accounts and args")
	cmd.Flags().BoolVar(&f.simulate, "simulate", false, "simulate instead of sending")
	cmd.Flags().BoolVar(&f.viaJito, "jito", false, "send through the configured Jito block engine")
	cmd.Flags().Uint64Var(&f.jitoTip, "jito-tip", 0, "append a Jito tip of this many lamports")
}

// autofillOptions maps config and flags onto autofill options.
func (f *txFlags) autofillOptions(cmd *cobra.Command, deps *runtimeDeps) ([]autofill.Option, error) {
	opts := []autofill.Option{
		autofill.WithProgram(deps.program),
		autofill.WithLogger(deps.log),
	}
	if f.overridePath != "" {
		content, err := os.ReadFile(f.overridePath)
		if err != nil {
			return nil, fmt.Errorf("read accounts json: %w", err)
		}
		m, err := autofill.MergeOverridesFromJSON(nil, content)
		if err != nil {
			return nil, fmt.Errorf("parse accounts json: %w", err)
		}
		opts = append(opts, autofill.WithOverrides(m))
	}
	if f.preview {
		opts = append(opts, autofill.WithPreview(cmd.OutOrStdout()))
	}
	if f.jitoTip > 0 {
		opts = append(opts, autofill.WithJitoTip(f.jitoTip))
	}
	return opts, nil
}

// submit simulates or sends instrs unless only a preview was asked for.
// extra co-sign alongside the fee payer.
func (f *txFlags) submit(ctx context.Context, cmd *cobra.Command, deps *runtimeDeps, instrs []solana.Instruction, extra ...wallet.Signer) error {
	if f.preview {
		return nil
	}
	if f.simulate {
		res, err := simulateInstructions(ctx, deps, instrs)
		if res == nil {
			return err
		}
		printSimResult(cmd, res, err)
		return err
	}
	if f.viaJito && !deps.builder.HasJito() {
		return fmt.Errorf("jito.endpoint is not configured")
	}
	tx, err := deps.builder.BuildSigned(ctx, deps.signer, extra, instrs...)
	if err != nil {
		return err
	}
	var sig solana.Signature
	if f.viaJito {
		sig, err = deps.builder.SendViaJitoAndConfirm(ctx, tx)
	} else {
		if sig, err = deps.builder.SendViaRPC(ctx, tx); err == nil {
			err = deps.builder.WaitForConfirmation(ctx, sig, txbuilder.ConfirmationConfirmed)
		}
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "tx signature: %s\n", sig)
	return nil
}
