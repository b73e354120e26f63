package txbuilder

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	solanarpc "github.com/gagliardetto/solana-go/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ninja0404/saros-go-sdk/pkg/config"
	"github.com/ninja0404/saros-go-sdk/pkg/program/sarosfarm"
	wraprpc "github.com/ninja0404/saros-go-sdk/pkg/rpc"
	"github.com/ninja0404/saros-go-sdk/pkg/types"
	"github.com/ninja0404/saros-go-sdk/pkg/wallet"
)

func fakeNode(t *testing.T, results map[string]string) *wraprpc.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var req struct {
			ID     json.RawMessage `json:"id"`
			Method string          `json:"method"`
		}
		require.NoError(t, json.Unmarshal(body, &req))
		result, ok := results[req.Method]
		if !ok {
			t.Errorf("unexpected method %s", req.Method)
			result = "null"
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"jsonrpc":"2.0","id":`+string(req.ID)+`,"result":`+result+`}`)
	}))
	t.Cleanup(srv.Close)

	cfg := config.DefaultRPCConfig()
	cfg.RPCURL = srv.URL
	cfg.RateLimit = config.RateLimitConfig{}
	cfg.Retry.Enabled = false
	return wraprpc.NewClient(cfg)
}

const blockhashResult = `{"context":{"slot":1},"value":{"blockhash":"11111111111111111111111111111111","lastValidBlockHeight":100}}`

func transferIx(from, to solana.PublicKey) solana.Instruction {
	return system.NewTransferInstruction(1, from, to).Build()
}

func TestBuildAndSign(t *testing.T) {
	client := fakeNode(t, map[string]string{"getLatestBlockhash": blockhashResult})
	b := NewBuilder(client, solanarpc.CommitmentConfirmed)

	payer := wallet.NewLocalFromPrivateKey(solana.NewWallet().PrivateKey)
	extra := wallet.NewLocalFromPrivateKey(solana.NewWallet().PrivateKey)

	ctx := context.Background()
	tx, err := b.BuildTransaction(ctx, payer.PublicKey(),
		transferIx(payer.PublicKey(), extra.PublicKey()),
		transferIx(extra.PublicKey(), payer.PublicKey()),
	)
	require.NoError(t, err)
	require.Equal(t, uint8(2), tx.Message.Header.NumRequiredSignatures)
	assert.Equal(t, payer.PublicKey(), tx.Message.AccountKeys[0])

	err = SignTransaction(ctx, tx, payer)
	assert.ErrorContains(t, err, "missing signer")

	require.NoError(t, SignTransaction(ctx, tx, extra, payer))
	require.Len(t, tx.Signatures, 2)
	require.NoError(t, tx.VerifySignatures())
}

func TestBuildTransactionValidation(t *testing.T) {
	_, err := NewBuilder(nil, "").BuildTransaction(context.Background(), solana.PublicKey{})
	assert.ErrorIs(t, err, types.ErrNilRPC)

	b := NewBuilder(fakeNode(t, nil), "")
	_, err = b.BuildTransaction(context.Background(), solana.PublicKey{})
	assert.ErrorIs(t, err, types.ErrNoInstructions)
}

func TestSimulateNamesProgramError(t *testing.T) {
	client := fakeNode(t, map[string]string{
		"getLatestBlockhash":  blockhashResult,
		"simulateTransaction": `{"context":{"slot":1},"value":{"err":{"InstructionError":[0,{"Custom":6006}]},"logs":["Program log: paused"]}}`,
	})
	b := NewBuilder(client, "").WithErrorLookups(sarosfarm.LookupError)

	payer := solana.NewWallet().PublicKey()
	_, err := b.BuildAndSimulate(context.Background(), payer, transferIx(payer, solana.NewWallet().PublicKey()))
	require.Error(t, err)
	var progErr *types.ProgramError
	require.True(t, errors.As(err, &progErr))
	assert.Equal(t, 6006, progErr.Code)
	assert.Equal(t, sarosfarm.ProgramName, progErr.Program)
	assert.Contains(t, err.Error(), "Pool was paused")
}

func TestWaitForConfirmationClassifiesFailure(t *testing.T) {
	client := fakeNode(t, map[string]string{
		"getSignatureStatuses": `{"context":{"slot":1},"value":[{"slot":5,"confirmations":null,"err":{"InstructionError":[1,{"Custom":16}]},"confirmationStatus":"confirmed"}]}`,
	})
	b := NewBuilder(client, "")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := b.WaitForConfirmation(ctx, solana.Signature{}, ConfirmationConfirmed)
	var txErr *types.TxError
	require.True(t, errors.As(err, &txErr))
	assert.Equal(t, types.TxErrSlippageExceeded, txErr.Kind)
}

func TestWaitForConfirmationLevels(t *testing.T) {
	client := fakeNode(t, map[string]string{
		"getSignatureStatuses": `{"context":{"slot":1},"value":[{"slot":5,"confirmations":1,"err":null,"confirmationStatus":"confirmed"}]}`,
	})
	b := NewBuilder(client, "")

	require.NoError(t, b.WaitForConfirmation(context.Background(), solana.Signature{}, ConfirmationConfirmed))

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()
	err := b.WaitForConfirmation(ctx, solana.Signature{}, ConfirmationFinalized)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestBuildSignedWithCoSigners(t *testing.T) {
	client := fakeNode(t, map[string]string{"getLatestBlockhash": blockhashResult})
	b := NewBuilder(client, "")

	payer := wallet.NewLocalFromPrivateKey(solana.NewWallet().PrivateKey)
	poolKey := wallet.NewLocalFromPrivateKey(solana.NewWallet().PrivateKey)

	ix := transferIx(poolKey.PublicKey(), payer.PublicKey())
	_, err := b.BuildSigned(context.Background(), nil, nil, ix)
	assert.ErrorIs(t, err, types.ErrNilFeePayer)

	tx, err := b.BuildSigned(context.Background(), payer, []wallet.Signer{poolKey}, ix)
	require.NoError(t, err)
	require.Len(t, tx.Signatures, 2)
	require.NoError(t, tx.VerifySignatures())
}

func TestConfirmationLevelReached(t *testing.T) {
	tests := []struct {
		level  ConfirmationLevel
		status solanarpc.ConfirmationStatusType
		want   bool
	}{
		{ConfirmationProcessed, solanarpc.ConfirmationStatusProcessed, true},
		{ConfirmationConfirmed, solanarpc.ConfirmationStatusProcessed, false},
		{ConfirmationConfirmed, solanarpc.ConfirmationStatusConfirmed, true},
		{ConfirmationConfirmed, solanarpc.ConfirmationStatusFinalized, true},
		{ConfirmationFinalized, solanarpc.ConfirmationStatusConfirmed, false},
		{ConfirmationFinalized, solanarpc.ConfirmationStatusFinalized, true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.level.reached(tt.status), "%s/%s", tt.level, tt.status)
	}
}

func TestJitoRequiresClient(t *testing.T) {
	b := NewBuilder(fakeNode(t, nil), "")
	assert.False(t, b.HasJito())
	_, err := b.SendViaJito(context.Background(), &solana.Transaction{})
	assert.ErrorIs(t, err, errNoJito)
	_, err = b.SendBundleViaJito(context.Background(), nil)
	assert.ErrorIs(t, err, errNoJito)
}
