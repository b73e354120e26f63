package main

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"
	"github.com/spf13/cobra"

	"github.com/ninja0404/saros-go-sdk/pkg/constants"
	"github.com/ninja0404/saros-go-sdk/pkg/pda"
	"github.com/ninja0404/saros-go-sdk/pkg/program/sarosfarm"
	"github.com/ninja0404/saros-go-sdk/pkg/program/sarosswap"
	"github.com/ninja0404/saros-go-sdk/pkg/token"
)

func newAccountCmd(opts *globalOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "account [pubkey]",
		Short: "Inspect an account (swap pool, farm, token)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pub, err := parsePubkey("account", args[0])
			if err != nil {
				return err
			}
			deps, err := newReader(cmd, opts)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()

			acc, err := deps.rpc.GetAccount(ctx, pub)
			if err != nil {
				return fmt.Errorf("fetch account: %w", err)
			}
			name, decoded, err := decodeKnownAccount(acc.Data)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "account=%s program=%s\n", name, acc.Owner)
			return printJSON(cmd, decoded)
		},
	}
}

func newDecodeCmd() *cobra.Command {
	var (
		b58         string
		b64         string
		instruction bool
	)
	cmd := &cobra.Command{
		Use:   "decode",
		Short: "Decode raw account or swap instruction data",
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				data []byte
				err  error
			)
			switch {
			case b58 != "":
				data, err = base58.Decode(b58)
			case b64 != "":
				data, err = base64.StdEncoding.DecodeString(b64)
			default:
				return fmt.Errorf("one of --base58 or --base64 is required")
			}
			if err != nil {
				return fmt.Errorf("decode input: %w", err)
			}
			if instruction {
				name, decoded, err := sarosswap.DecodeInstruction(data)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "instruction=sarosswap.%s\n", name)
				return printJSON(cmd, decoded)
			}
			name, decoded, err := decodeKnownAccount(data)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "account=%s\n", name)
			return printJSON(cmd, decoded)
		},
	}
	cmd.Flags().StringVar(&b58, "base58", "", "data as base58")
	cmd.Flags().StringVar(&b64, "base64", "", "data as base64")
	cmd.Flags().BoolVar(&instruction, "instruction", false, "decode as swap program instruction data")
	return cmd
}

// decodeKnownAccount detects farm accounts by discriminator and the rest by size.
func decodeKnownAccount(data []byte) (string, interface{}, error) {
	if kind, ok := sarosfarm.AccountKind(data); ok {
		var (
			v   interface{}
			err error
		)
		switch kind {
		case "Pool":
			v, err = sarosfarm.DecodePool(data)
		case "PoolReward":
			v, err = sarosfarm.DecodePoolReward(data)
		case "UserPool":
			v, err = sarosfarm.DecodeUserPool(data)
		case "UserPoolReward":
			v, err = sarosfarm.DecodeUserPoolReward(data)
		}
		return "sarosfarm." + kind, v, err
	}
	switch len(data) {
	case constants.SwapPoolSpan:
		p, err := sarosswap.DecodePool(data)
		return "sarosswap.Pool", p, err
	case constants.TokenAccountSpan:
		a, err := token.DecodeAccount(data)
		return "token.Account", a, err
	case constants.MintSpan:
		m, err := token.DecodeMint(data)
		return "token.Mint", m, err
	}
	return "", nil, fmt.Errorf("unknown account layout (%d bytes)", len(data))
}

func newPDACmd(opts *globalOpts) *cobra.Command {
	var (
		poolStr       string
		farmPoolStr   string
		poolRewardStr string
		userStr       string
	)
	cmd := &cobra.Command{
		Use:   "pda",
		Short: "Derive swap and farm program addresses",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			program, err := cfg.ProgramConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			show := func(label string, pk solana.PublicKey, bump uint8) {
				fmt.Fprintf(out, "%-20s %s (bump %d)\n", label, pk, bump)
			}

			var user solana.PublicKey
			if userStr != "" {
				if user, err = parsePubkey("user", userStr); err != nil {
					return err
				}
			}
			if poolStr != "" {
				pool, err := parsePubkey("pool", poolStr)
				if err != nil {
					return err
				}
				pk, bump, err := pda.SwapPoolAuthority(pool, program.SwapProgramID)
				if err != nil {
					return err
				}
				show("swap authority", pk, bump)
			}
			if farmPoolStr != "" {
				farmPool, err := parsePubkey("farm-pool", farmPoolStr)
				if err != nil {
					return err
				}
				pk, bump, err := pda.FarmPoolAuthority(farmPool, program.FarmProgramID)
				if err != nil {
					return err
				}
				show("farm authority", pk, bump)
				if !user.IsZero() {
					if pk, bump, err = pda.FarmUserPool(user, farmPool, program.FarmProgramID); err != nil {
						return err
					}
					show("user pool", pk, bump)
				}
			}
			if poolRewardStr != "" {
				poolReward, err := parsePubkey("pool-reward", poolRewardStr)
				if err != nil {
					return err
				}
				pk, bump, err := pda.FarmPoolRewardAuthority(poolReward, program.FarmProgramID)
				if err != nil {
					return err
				}
				show("reward authority", pk, bump)
				if !user.IsZero() {
					if pk, bump, err = pda.FarmUserPoolReward(user, poolReward, program.FarmProgramID); err != nil {
						return err
					}
					show("user pool reward", pk, bump)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&poolStr, "pool", "", "swap pool pubkey")
	cmd.Flags().StringVar(&farmPoolStr, "farm-pool", "", "farm pool pubkey")
	cmd.Flags().StringVar(&poolRewardStr, "pool-reward", "", "farm pool reward pubkey")
	cmd.Flags().StringVar(&userStr, "user", "", "user pubkey for user records")
	return cmd
}
