package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ninja0404/saros-go-sdk/pkg/constants"
)

func TestDefaults(t *testing.T) {
	cfg := DefaultRPCConfig()
	assert.Equal(t, NetworkMainnet, cfg.Network)
	assert.Equal(t, "wss://api.mainnet-beta.solana.com", cfg.ResolveWSURL())

	p := MainnetProgramConfig()
	assert.Equal(t, constants.SarosSwapProgramID, p.SwapProgramID)
	assert.Equal(t, uint64(63_072_000), p.BlocksPerYear)
	assert.Equal(t, Ratio{Numerator: 30, Denominator: 10000}, p.Fees.OwnerTradeFee)
	assert.True(t, p.Fees.TradeFee.IsZero())
	assert.True(t, p.Fees.OwnerWithdrawFee.IsZero())
	assert.False(t, p.Fees.HostFee.IsZero())
}

func TestDefaultWSURL(t *testing.T) {
	assert.Equal(t, "ws://localhost:8899", DefaultWSURL("http://localhost:8899"))
	assert.Equal(t, "wss://rpc.example", DefaultWSURL("https://rpc.example"))
	assert.Equal(t, "", DefaultWSURL(""))
}

func TestLoadFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "saros.yaml")
	body := `
rpc:
  network: devnet
  rpc_url: http://localhost:8899
  timeout: 5s
  retry:
    max_attempts: 7
program:
  blocks_per_year: 1000
  fees:
    trade_fee:
      numerator: 25
      denominator: 10000
log:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, NetworkDevnet, cfg.RPC.Network)
	assert.Equal(t, "http://localhost:8899", cfg.RPC.RPCURL)
	assert.Equal(t, 5*time.Second, cfg.RPC.Timeout)
	assert.Equal(t, 7, cfg.RPC.Retry.MaxAttempts)
	assert.Equal(t, 2*time.Second, cfg.RPC.Retry.MaxBackoff)
	assert.Equal(t, "debug", cfg.Log.Level)

	p, err := cfg.ProgramConfig()
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), p.BlocksPerYear)
	assert.Equal(t, Ratio{Numerator: 25, Denominator: 10000}, p.Fees.TradeFee)
	assert.Equal(t, Ratio{Numerator: 20, Denominator: 100}, p.Fees.HostFee)
	assert.Equal(t, constants.SarosFarmProgramID, p.FarmProgramID)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("SAROS_RPC_RPC_URL", "http://127.0.0.1:8899")
	t.Setenv("SAROS_PROGRAM_BLOCKS_PER_YEAR", "42")
	t.Setenv("SAROS_LOG_LEVEL", "warn")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err, "explicit path must exist")
	assert.Nil(t, cfg)

	path := filepath.Join(t.TempDir(), "empty.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{}\n"), 0o600))
	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:8899", cfg.RPC.RPCURL)
	assert.Equal(t, uint64(42), cfg.Program.BlocksPerYear)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadRejectsBadProgramID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("program:\n  swap_program_id: nope\n"), 0o600))
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "program.swap_program_id")
}

func TestYAMLRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	out, err := cfg.YAML()
	require.NoError(t, err)
	assert.Contains(t, out, "swap_program_id: SSwapUtytfBdBn1b9NUGG6foMVPtcWgpRU32HToDUZr")
	assert.Contains(t, out, "timeout: 20s")

	path := filepath.Join(t.TempDir(), "rendered.yaml")
	require.NoError(t, os.WriteFile(path, []byte(out), 0o600))
	back, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Program, back.Program)
	assert.Equal(t, cfg.RPC.Timeout, back.RPC.Timeout)
}
