package main

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	solanarpc "github.com/gagliardetto/solana-go/rpc"
	"github.com/spf13/cobra"
)

// simulateInstructions simulates instrs unsigned for the fee payer, so extra
// keypair signers are not needed. Program failures come back named.
func simulateInstructions(ctx context.Context, deps *runtimeDeps, instrs []solana.Instruction) (*solanarpc.SimulateTransactionResult, error) {
	if deps == nil || deps.builder == nil || deps.signer == nil {
		return nil, fmt.Errorf("runtime deps not ready")
	}
	res, err := deps.builder.BuildAndSimulate(ctx, deps.signer.PublicKey(), instrs...)
	if err != nil && res == nil {
		return nil, err
	}
	return res, err
}

func printSimResult(cmd *cobra.Command, res *solanarpc.SimulateTransactionResult, simErr error) {
	out := cmd.OutOrStdout()
	if simErr != nil {
		fmt.Fprintf(out, "simulation failed: %v\n", simErr)
	} else {
		fmt.Fprintln(out, "simulation ok")
	}
	if res == nil {
		return
	}
	if len(res.Logs) > 0 {
		fmt.Fprintln(out, "logs:")
		for _, l := range res.Logs {
			fmt.Fprintf(out, "  %s\n", l)
		}
	}
}
