package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	sdkconfig "github.com/ninja0404/saros-go-sdk/pkg/config"
	"github.com/ninja0404/saros-go-sdk/pkg/jito"
	"github.com/ninja0404/saros-go-sdk/pkg/program/sarosfarm"
	"github.com/ninja0404/saros-go-sdk/pkg/program/sarosswap"
	sdkrpc "github.com/ninja0404/saros-go-sdk/pkg/rpc"
	"github.com/ninja0404/saros-go-sdk/pkg/txbuilder"
	"github.com/ninja0404/saros-go-sdk/pkg/wallet"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type globalOpts struct {
	configPath     string
	network        string
	rpcURL         string
	commitment     string
	feePayerPath   string
	signerEndpoint string
	skipPreflight  bool
	retryAttempts  int
	retryBackoffMs int
	rateLimitRPS   float64
	logLevel       string
	timeoutSec     int
}

func newRootCmd() *cobra.Command {
	opts := &globalOpts{}

	root := &cobra.Command{
		Use:          "saroscli",
		Short:        "Saros AMM and farm SDK CLI",
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default ./.saros.yaml or $HOME/.saros.yaml)")
	root.PersistentFlags().StringVar(&opts.network, "network", "", "cluster (mainnet|devnet|testnet|custom)")
	root.PersistentFlags().StringVar(&opts.rpcURL, "rpc-url", "", "RPC endpoint (default from network if empty)")
	root.PersistentFlags().StringVar(&opts.commitment, "commitment", "", "RPC commitment level")
	root.PersistentFlags().StringVar(&opts.feePayerPath, "fee-payer", "", "fee payer as a solana-keygen json path or base58 secret key")
	root.PersistentFlags().StringVar(&opts.signerEndpoint, "signer-endpoint", "", "remote signer endpoint (placeholder)")
	root.PersistentFlags().BoolVar(&opts.skipPreflight, "skip-preflight", false, "skip preflight checks")
	root.PersistentFlags().IntVar(&opts.retryAttempts, "retry-attempts", 0, "RPC retry attempts (0 keeps config)")
	root.PersistentFlags().IntVar(&opts.retryBackoffMs, "retry-backoff-ms", 0, "initial backoff in ms (0 keeps config)")
	root.PersistentFlags().Float64Var(&opts.rateLimitRPS, "rate-limit-rps", -1, "rate limit RPS (0 to disable, -1 keeps config)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level (debug|info|warn|error)")
	root.PersistentFlags().IntVar(&opts.timeoutSec, "timeout-sec", 0, "RPC timeout seconds (0 keeps config)")

	root.AddCommand(
		newConfigCmd(opts),
		newAccountCmd(opts),
		newDecodeCmd(),
		newPDACmd(opts),
		newSwapCmd(opts),
		newLiquidityCmd(opts),
		newFarmCmd(opts),
		newPoolCmd(opts),
	)

	return root
}

func newConfigCmd(opts *globalOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show effective config",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			out, err := cfg.YAML()
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}
}

// loadConfig reads the config file and environment, then applies flags.
func loadConfig(cmd *cobra.Command, opts *globalOpts) (*sdkconfig.Config, error) {
	cfg, err := sdkconfig.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	r := &cfg.RPC
	if opts.network != "" {
		r.Network = sdkconfig.Network(opts.network)
		if opts.rpcURL == "" {
			r.RPCURL = ""
		}
	}
	if opts.rpcURL != "" {
		r.RPCURL = opts.rpcURL
	}
	if opts.commitment != "" {
		r.Commitment = opts.commitment
	}
	if opts.rateLimitRPS >= 0 {
		r.RateLimit.RPS = opts.rateLimitRPS
	}
	if opts.retryAttempts > 0 {
		r.Retry.MaxAttempts = opts.retryAttempts
	}
	if opts.retryBackoffMs > 0 {
		r.Retry.InitialBackoff = time.Duration(opts.retryBackoffMs) * time.Millisecond
	}
	if opts.timeoutSec > 0 {
		r.Timeout = time.Duration(opts.timeoutSec) * time.Second
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	r.Logger = zerolog.New(cmd.ErrOrStderr()).Level(parseLogLevel(cfg.Log.Level)).With().Timestamp().Logger()
	return cfg, nil
}

type runtimeDeps struct {
	cfg     *sdkconfig.Config
	program sdkconfig.ProgramConfig
	log     zerolog.Logger
	builder *txbuilder.Builder
	signer  wallet.Signer
	rpc     *sdkrpc.Client
}

// newReader wires the RPC client without a signer, for read-only commands.
func newReader(cmd *cobra.Command, opts *globalOpts) (*runtimeDeps, error) {
	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return nil, err
	}
	program, err := cfg.ProgramConfig()
	if err != nil {
		return nil, err
	}
	client := sdkrpc.NewClient(cfg.RPC)
	commit := rpc.CommitmentType(cfg.RPC.Commitment)
	builder := txbuilder.NewBuilder(client, commit).
		WithSkipPreflight(opts.skipPreflight).
		WithLogger(cfg.RPC.Logger).
		WithErrorLookups(sarosswap.LookupError, sarosfarm.LookupError)
	if cfg.Jito.Endpoint != "" {
		builder = builder.WithJito(jito.NewClient(cfg.Jito.Endpoint, cfg.Jito.UUID).WithLogger(cfg.RPC.Logger))
	}
	return &runtimeDeps{
		cfg:     cfg,
		program: program,
		log:     cfg.RPC.Logger,
		builder: builder,
		rpc:     client,
	}, nil
}

func newBuilder(cmd *cobra.Command, opts *globalOpts) (*runtimeDeps, error) {
	deps, err := newReader(cmd, opts)
	if err != nil {
		return nil, err
	}

	switch {
	case opts.feePayerPath != "":
		local, err := wallet.Load(opts.feePayerPath)
		if err != nil {
			return nil, err
		}
		deps.log.Debug().Object("fee_payer", local).Msg("signer loaded")
		deps.signer = local
	case opts.signerEndpoint != "":
		deps.signer = wallet.NewRemoteSigner(solana.PublicKey{}, func(ctx context.Context, message []byte) ([]byte, error) {
			return nil, fmt.Errorf("remote signer placeholder: %s", opts.signerEndpoint)
		})
	default:
		return nil, fmt.Errorf("fee payer is required (use --fee-payer)")
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
	defer cancel()
	if _, err := deps.rpc.GetLatestBlockhash(ctx); err != nil {
		deps.log.Warn().Err(err).Msg("rpc ping failed")
	}
	return deps, nil
}

func parseLogLevel(lvl string) zerolog.Level {
	switch strings.ToLower(lvl) {
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
