package config

import (
	"io"
	"strings"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/rs/zerolog"

	"github.com/ninja0404/saros-go-sdk/pkg/constants"
)

// Network defines the target Solana cluster.
type Network string

const (
	NetworkMainnet Network = "mainnet"
	NetworkTestnet Network = "testnet"
	NetworkDevnet  Network = "devnet"
	NetworkCustom  Network = "custom"
)

// DefaultRPCURL returns the standard RPC endpoint for a known network.
func DefaultRPCURL(network Network) string {
	switch network {
	case NetworkMainnet:
		return "https://api.mainnet-beta.solana.com"
	case NetworkTestnet:
		return "https://api.testnet.solana.com"
	case NetworkDevnet:
		return "https://api.devnet.solana.com"
	default:
		return ""
	}
}

// DefaultWSURL derives the pubsub endpoint from an http(s) RPC URL.
func DefaultWSURL(rpcURL string) string {
	switch {
	case strings.HasPrefix(rpcURL, "https://"):
		return "wss://" + strings.TrimPrefix(rpcURL, "https://")
	case strings.HasPrefix(rpcURL, "http://"):
		return "ws://" + strings.TrimPrefix(rpcURL, "http://")
	default:
		return rpcURL
	}
}

// RetryConfig controls RPC retry behavior.
type RetryConfig struct {
	Enabled        bool          `mapstructure:"enabled" yaml:"enabled"`
	MaxAttempts    int           `mapstructure:"max_attempts" yaml:"max_attempts"`
	InitialBackoff time.Duration `mapstructure:"initial_backoff" yaml:"initial_backoff"`
	MaxBackoff     time.Duration `mapstructure:"max_backoff" yaml:"max_backoff"`
	Jitter         bool          `mapstructure:"jitter" yaml:"jitter"`
}

// RateLimitConfig throttles outbound RPC calls.
type RateLimitConfig struct {
	RPS   float64 `mapstructure:"rps" yaml:"rps"`
	Burst int     `mapstructure:"burst" yaml:"burst"`
}

// RPCConfig aggregates runtime settings for RPC usage.
type RPCConfig struct {
	Network    Network         `mapstructure:"network" yaml:"network"`
	RPCURL     string          `mapstructure:"rpc_url" yaml:"rpc_url"`
	WSURL      string          `mapstructure:"ws_url" yaml:"ws_url"`
	Commitment string          `mapstructure:"commitment" yaml:"commitment"`
	Timeout    time.Duration   `mapstructure:"timeout" yaml:"timeout"`
	Retry      RetryConfig     `mapstructure:"retry" yaml:"retry"`
	RateLimit  RateLimitConfig `mapstructure:"rate_limit" yaml:"rate_limit"`
	Logger     zerolog.Logger  `mapstructure:"-" yaml:"-"`
}

// DefaultRPCConfig yields production-safe defaults (mainnet, finalized commitment).
func DefaultRPCConfig() RPCConfig {
	return RPCConfig{
		Network:    NetworkMainnet,
		RPCURL:     DefaultRPCURL(NetworkMainnet),
		Commitment: "finalized",
		Timeout:    20 * time.Second,
		Retry: RetryConfig{
			Enabled:        true,
			MaxAttempts:    3,
			InitialBackoff: 150 * time.Millisecond,
			MaxBackoff:     2 * time.Second,
			Jitter:         true,
		},
		RateLimit: RateLimitConfig{
			RPS:   8,
			Burst: 16,
		},
		Logger: zerolog.New(io.Discard),
	}
}

// ResolveRPCURL returns RPCURL if set, otherwise falls back to network defaults.
func (c RPCConfig) ResolveRPCURL() string {
	if c.RPCURL != "" {
		return c.RPCURL
	}
	return DefaultRPCURL(c.Network)
}

// ResolveWSURL returns WSURL if set, otherwise derives it from the RPC URL.
func (c RPCConfig) ResolveWSURL() string {
	if c.WSURL != "" {
		return c.WSURL
	}
	return DefaultWSURL(c.ResolveRPCURL())
}

// Ratio is a fee fraction. A zero denominator means no fee.
type Ratio struct {
	Numerator   uint64 `mapstructure:"numerator" yaml:"numerator"`
	Denominator uint64 `mapstructure:"denominator" yaml:"denominator"`
}

// IsZero reports whether the ratio charges nothing.
func (r Ratio) IsZero() bool { return r.Numerator == 0 || r.Denominator == 0 }

// FeeConfig mirrors the fee block stored in a swap pool.
type FeeConfig struct {
	TradeFee         Ratio `mapstructure:"trade_fee" yaml:"trade_fee"`
	OwnerTradeFee    Ratio `mapstructure:"owner_trade_fee" yaml:"owner_trade_fee"`
	OwnerWithdrawFee Ratio `mapstructure:"owner_withdraw_fee" yaml:"owner_withdraw_fee"`
	HostFee          Ratio `mapstructure:"host_fee" yaml:"host_fee"`
}

// DefaultFees are the fees new Saros pools are created with.
func DefaultFees() FeeConfig {
	return FeeConfig{
		TradeFee:         Ratio{Numerator: 0, Denominator: 10000},
		OwnerTradeFee:    Ratio{Numerator: 30, Denominator: 10000},
		OwnerWithdrawFee: Ratio{Numerator: 0, Denominator: 0},
		HostFee:          Ratio{Numerator: 20, Denominator: 100},
	}
}

// ProgramConfig names one deployment of the swap and farm programs.
type ProgramConfig struct {
	SwapProgramID   solana.PublicKey
	FarmProgramID   solana.PublicKey
	TokenProgramID  solana.PublicKey
	Fees            FeeConfig
	BlocksPerYear   uint64
	RewardPrecision uint64
}

// BlocksPerYear is 365 days of 500ms slots.
const BlocksPerYear uint64 = 365 * 24 * 60 * 60 * 2

// RewardPrecision scales accumulatedRewardPerShare in the farm program.
const RewardPrecision uint64 = 1_000_000_000_000

// MainnetProgramConfig returns the mainnet Saros deployment.
func MainnetProgramConfig() ProgramConfig {
	return ProgramConfig{
		SwapProgramID:   constants.SarosSwapProgramID,
		FarmProgramID:   constants.SarosFarmProgramID,
		TokenProgramID:  constants.TokenProgramID,
		Fees:            DefaultFees(),
		BlocksPerYear:   BlocksPerYear,
		RewardPrecision: RewardPrecision,
	}
}
