package wallet

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func randomLocal() Local {
	return NewLocalFromPrivateKey(solana.NewWallet().PrivateKey)
}

func TestLocalFromSeedDeterministic(t *testing.T) {
	seed := bytes.Repeat([]byte{7}, 32)
	a, err := NewLocalFromSeed(seed)
	require.NoError(t, err)
	b, err := NewLocalFromSeed(seed)
	require.NoError(t, err)
	assert.Equal(t, a.PublicKey(), b.PublicKey())

	_, err = NewLocalFromSeed(seed[:31])
	assert.Error(t, err)
}

func TestLocalSignVerifies(t *testing.T) {
	l := randomLocal()
	msg := []byte("saros")
	sig, err := l.SignMessage(context.Background(), msg)
	require.NoError(t, err)
	assert.True(t, ed25519.Verify(ed25519.PublicKey(l.PublicKey().Bytes()), msg, sig[:]))

	round, err := NewLocalFromBase58(l.PrivateKey().String())
	require.NoError(t, err)
	assert.Equal(t, l.PublicKey(), round.PublicKey())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = l.SignMessage(ctx, msg)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoad(t *testing.T) {
	l := randomLocal()

	ints := make([]int, len(l.PrivateKey()))
	for i, b := range l.PrivateKey() {
		ints[i] = int(b)
	}
	raw, err := json.Marshal(ints)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "payer.json")
	require.NoError(t, os.WriteFile(path, raw, 0o600))

	fromFile, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, l.PublicKey(), fromFile.PublicKey())
	assert.Equal(t, "keygen", fromFile.origin)

	fromB58, err := Load(" " + l.PrivateKey().String() + "\n")
	require.NoError(t, err)
	assert.Equal(t, l.PublicKey(), fromB58.PublicKey())
	assert.Equal(t, "base58", fromB58.origin)

	_, err = Load("")
	assert.Error(t, err)
	_, err = Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestLogObjectHidesSecret(t *testing.T) {
	l := randomLocal()
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	logger.Info().Object("signer", l).Send()

	assert.Contains(t, buf.String(), l.PublicKey().String())
	assert.NotContains(t, buf.String(), l.PrivateKey().String())
}

func TestRemoteSigner(t *testing.T) {
	l := randomLocal()
	r := NewRemoteSigner(l.PublicKey(), func(ctx context.Context, m []byte) ([]byte, error) {
		sig, err := l.SignMessage(ctx, m)
		return sig[:], err
	})
	sig, err := r.SignMessage(context.Background(), []byte("x"))
	require.NoError(t, err)
	want, _ := l.SignMessage(context.Background(), []byte("x"))
	assert.Equal(t, want, sig)

	short := NewRemoteSigner(l.PublicKey(), func(context.Context, []byte) ([]byte, error) { return []byte{1}, nil })
	_, err = short.SignMessage(context.Background(), nil)
	assert.Error(t, err)

	_, err = RemoteSigner{}.SignMessage(context.Background(), nil)
	assert.Error(t, err)
}
