package autofill_test

import (
	"context"
	"os"
	"strconv"
	"testing"
	"time"

	"cosmossdk.io/math"
	"github.com/gagliardetto/solana-go"
	solanarpc "github.com/gagliardetto/solana-go/rpc"

	"github.com/ninja0404/saros-go-sdk/pkg/autofill"
	sdkconfig "github.com/ninja0404/saros-go-sdk/pkg/config"
	sdkrpc "github.com/ninja0404/saros-go-sdk/pkg/rpc"
	"github.com/ninja0404/saros-go-sdk/pkg/txbuilder"
	"github.com/ninja0404/saros-go-sdk/pkg/wallet"
)

// Test configuration - set via environment variables
// SAROS_TEST_RPC_URL: RPC endpoint (default: mainnet)
// SAROS_TEST_PRIVATE_KEY: Base58 encoded private key
// SAROS_TEST_POOL: swap pool address to test
// SAROS_TEST_MINT_IN: input mint of the swap
// SAROS_TEST_AMOUNT_IN: raw input amount (default: 1000)
// SAROS_TEST_SEND: set to 1 to send instead of simulate

type testEnv struct {
	client *sdkrpc.Client
	signer wallet.Local
	pool   solana.PublicKey
	mintIn solana.PublicKey
	amount uint64
}

func getTestEnv(t *testing.T) testEnv {
	rpcURL := os.Getenv("SAROS_TEST_RPC_URL")
	if rpcURL == "" {
		rpcURL = solanarpc.MainNetBeta_RPC
	}
	privateKey := os.Getenv("SAROS_TEST_PRIVATE_KEY")
	if privateKey == "" {
		t.Skip("SAROS_TEST_PRIVATE_KEY not set, skipping integration test")
	}
	pool := os.Getenv("SAROS_TEST_POOL")
	mintIn := os.Getenv("SAROS_TEST_MINT_IN")
	if pool == "" || mintIn == "" {
		t.Skip("SAROS_TEST_POOL or SAROS_TEST_MINT_IN not set, skipping integration test")
	}
	amount := uint64(1_000)
	if s := os.Getenv("SAROS_TEST_AMOUNT_IN"); s != "" {
		v, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			t.Fatalf("parse SAROS_TEST_AMOUNT_IN: %v", err)
		}
		amount = v
	}

	cfg := sdkconfig.DefaultRPCConfig()
	cfg.RPCURL = rpcURL
	cfg.Timeout = 30 * time.Second

	signer, err := wallet.NewLocalFromBase58(privateKey)
	if err != nil {
		t.Fatalf("load wallet: %v", err)
	}
	return testEnv{
		client: sdkrpc.NewClient(cfg),
		signer: signer,
		pool:   solana.MustPublicKeyFromBase58(pool),
		mintIn: solana.MustPublicKeyFromBase58(mintIn),
		amount: amount,
	}
}

// TestSwapWithSlippageLive quotes a swap on a live pool and simulates it,
// sending it only when SAROS_TEST_SEND=1.
func TestSwapWithSlippageLive(t *testing.T) {
	env := getTestEnv(t)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	slippage := math.LegacyNewDec(1)
	accts, q, instrs, err := autofill.SwapWithSlippage(ctx, env.client, env.signer.PublicKey(), env.pool, env.mintIn, env.amount, slippage)
	if err != nil {
		t.Fatalf("build swap: %v", err)
	}
	t.Logf("  Pool: %s", env.pool)
	t.Logf("  User: %s", env.signer.PublicKey())
	t.Logf("  Expected out: %d, min out: %d, impact: %s%%", q.Estimate.AmountOut, q.MinimumAmountOut, q.Estimate.PriceImpact)
	t.Logf("  User source: %s -> destination: %s", accts.UserSource, accts.UserDestination)

	builder := txbuilder.NewBuilder(env.client, solanarpc.CommitmentConfirmed)
	if os.Getenv("SAROS_TEST_SEND") != "1" {
		sim, err := builder.BuildAndSimulate(ctx, env.signer.PublicKey(), instrs...)
		if err != nil {
			t.Fatalf("simulate swap: %v", err)
		}
		for _, l := range sim.Logs {
			t.Log("  ", l)
		}
		return
	}

	sig, err := builder.BuildSignSendAndConfirm(ctx, env.signer, nil, txbuilder.ConfirmationConfirmed, instrs...)
	if err != nil {
		t.Fatalf("send swap: %v", err)
	}
	t.Logf("  Swap tx: %s", sig)
}

// TestQuoteSwapLive only reads chain state.
func TestQuoteSwapLive(t *testing.T) {
	env := getTestEnv(t)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	snap, err := autofill.FetchPoolSnapshot(ctx, env.client, env.pool)
	if err != nil {
		t.Fatalf("fetch pool: %v", err)
	}
	t.Logf("  Reserves: %d / %d, LP supply: %d", snap.Reserve0, snap.Reserve1, snap.LPSupply)

	q, err := autofill.QuoteSwap(ctx, env.client, env.pool, env.mintIn, env.amount, math.LegacyZeroDec())
	if err != nil {
		t.Fatalf("quote: %v", err)
	}
	if q.Estimate.AmountOut == 0 {
		t.Fatal("quote returned zero output")
	}
	if q.MinimumAmountOut != q.Estimate.AmountOut {
		t.Fatalf("zero slippage min %d != expected %d", q.MinimumAmountOut, q.Estimate.AmountOut)
	}
}
