package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gagliardetto/solana-go"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override, e.g. SAROS_RPC_RPC_URL.
const EnvPrefix = "SAROS"

// Config is the file/env backed configuration used by the CLI.
type Config struct {
	RPC     RPCConfig     `mapstructure:"rpc" yaml:"rpc"`
	Program ProgramFile   `mapstructure:"program" yaml:"program"`
	Log     LogConfig     `mapstructure:"log" yaml:"log"`
	Jito    JitoFileEntry `mapstructure:"jito" yaml:"jito"`
}

// ProgramFile is the serialisable form of ProgramConfig.
type ProgramFile struct {
	SwapProgramID   string    `mapstructure:"swap_program_id" yaml:"swap_program_id"`
	FarmProgramID   string    `mapstructure:"farm_program_id" yaml:"farm_program_id"`
	TokenProgramID  string    `mapstructure:"token_program_id" yaml:"token_program_id"`
	Fees            FeeConfig `mapstructure:"fees" yaml:"fees"`
	BlocksPerYear   uint64    `mapstructure:"blocks_per_year" yaml:"blocks_per_year"`
	RewardPrecision uint64    `mapstructure:"reward_precision" yaml:"reward_precision"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
}

// JitoFileEntry configures block-engine submission.
type JitoFileEntry struct {
	Endpoint string `mapstructure:"endpoint" yaml:"endpoint"`
	UUID     string `mapstructure:"uuid" yaml:"uuid"`
}

// DefaultConfig returns mainnet defaults.
func DefaultConfig() *Config {
	p := MainnetProgramConfig()
	return &Config{
		RPC: DefaultRPCConfig(),
		Program: ProgramFile{
			SwapProgramID:   p.SwapProgramID.String(),
			FarmProgramID:   p.FarmProgramID.String(),
			TokenProgramID:  p.TokenProgramID.String(),
			Fees:            p.Fees,
			BlocksPerYear:   p.BlocksPerYear,
			RewardPrecision: p.RewardPrecision,
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load reads configuration from path (optional) and SAROS_* environment
// variables on top of DefaultConfig. A missing default config file is not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	v := viper.New()
	setDefaults(v, cfg)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(".saros")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	logger := cfg.RPC.Logger
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.RPC.Logger = logger

	if _, err := cfg.ProgramConfig(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// AutomaticEnv only resolves keys viper already knows about.
func setDefaults(v *viper.Viper, cfg *Config) {
	r := cfg.RPC
	v.SetDefault("rpc.network", string(r.Network))
	v.SetDefault("rpc.rpc_url", r.RPCURL)
	v.SetDefault("rpc.ws_url", r.WSURL)
	v.SetDefault("rpc.commitment", r.Commitment)
	v.SetDefault("rpc.timeout", r.Timeout)
	v.SetDefault("rpc.retry.enabled", r.Retry.Enabled)
	v.SetDefault("rpc.retry.max_attempts", r.Retry.MaxAttempts)
	v.SetDefault("rpc.retry.initial_backoff", r.Retry.InitialBackoff)
	v.SetDefault("rpc.retry.max_backoff", r.Retry.MaxBackoff)
	v.SetDefault("rpc.retry.jitter", r.Retry.Jitter)
	v.SetDefault("rpc.rate_limit.rps", r.RateLimit.RPS)
	v.SetDefault("rpc.rate_limit.burst", r.RateLimit.Burst)

	p := cfg.Program
	v.SetDefault("program.swap_program_id", p.SwapProgramID)
	v.SetDefault("program.farm_program_id", p.FarmProgramID)
	v.SetDefault("program.token_program_id", p.TokenProgramID)
	v.SetDefault("program.blocks_per_year", p.BlocksPerYear)
	v.SetDefault("program.reward_precision", p.RewardPrecision)
	setRatio(v, "program.fees.trade_fee", p.Fees.TradeFee)
	setRatio(v, "program.fees.owner_trade_fee", p.Fees.OwnerTradeFee)
	setRatio(v, "program.fees.owner_withdraw_fee", p.Fees.OwnerWithdrawFee)
	setRatio(v, "program.fees.host_fee", p.Fees.HostFee)

	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("jito.endpoint", cfg.Jito.Endpoint)
	v.SetDefault("jito.uuid", cfg.Jito.UUID)
}

func setRatio(v *viper.Viper, key string, r Ratio) {
	v.SetDefault(key+".numerator", r.Numerator)
	v.SetDefault(key+".denominator", r.Denominator)
}

// ProgramConfig parses the program section into typed addresses.
func (c *Config) ProgramConfig() (ProgramConfig, error) {
	swap, err := solana.PublicKeyFromBase58(c.Program.SwapProgramID)
	if err != nil {
		return ProgramConfig{}, fmt.Errorf("program.swap_program_id: %w", err)
	}
	farm, err := solana.PublicKeyFromBase58(c.Program.FarmProgramID)
	if err != nil {
		return ProgramConfig{}, fmt.Errorf("program.farm_program_id: %w", err)
	}
	tokenProgram, err := solana.PublicKeyFromBase58(c.Program.TokenProgramID)
	if err != nil {
		return ProgramConfig{}, fmt.Errorf("program.token_program_id: %w", err)
	}
	return ProgramConfig{
		SwapProgramID:   swap,
		FarmProgramID:   farm,
		TokenProgramID:  tokenProgram,
		Fees:            c.Program.Fees,
		BlocksPerYear:   c.Program.BlocksPerYear,
		RewardPrecision: c.Program.RewardPrecision,
	}, nil
}

// YAML renders the effective configuration.
func (c *Config) YAML() (string, error) {
	out, err := yaml.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("marshal config: %w", err)
	}
	return string(out), nil
}
