// Package wallet holds the keys that sign Saros transactions: the fee payer
// and the seed-derived pool and LP mint keypairs of a new pool.
package wallet

import (
	"context"
	"crypto/ed25519"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/gagliardetto/solana-go"
	"github.com/rs/zerolog"
)

// Signer performs detached signatures for transaction messages.
type Signer interface {
	PublicKey() solana.PublicKey
	SignMessage(ctx context.Context, message []byte) (solana.Signature, error)
}

var (
	_ Signer                     = Local{}
	_ Signer                     = RemoteSigner{}
	_ zerolog.LogObjectMarshaler = Local{}
	_ zerolog.LogObjectMarshaler = RemoteSigner{}
)

// Local signs in process with an ed25519 key.
type Local struct {
	key    solana.PrivateKey
	origin string
}

// Load reads a fee payer from a solana-keygen JSON file, or from a base58
// private key when source is not an existing file.
func Load(source string) (Local, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return Local{}, errors.New("empty key source")
	}
	if _, err := os.Stat(source); err == nil {
		return NewLocalFromKeygen(source)
	}
	return NewLocalFromBase58(source)
}

// NewLocalFromKeygen loads a solana-keygen JSON file.
func NewLocalFromKeygen(path string) (Local, error) {
	key, err := solana.PrivateKeyFromSolanaKeygenFile(path)
	if err != nil {
		return Local{}, fmt.Errorf("load keypair %s: %w", path, err)
	}
	return Local{key: key, origin: "keygen"}, nil
}

// NewLocalFromBase58 parses a base58 64-byte secret key.
func NewLocalFromBase58(privateKey string) (Local, error) {
	key, err := solana.PrivateKeyFromBase58(privateKey)
	if err != nil {
		return Local{}, fmt.Errorf("decode base58 key: %w", err)
	}
	return Local{key: key, origin: "base58"}, nil
}

// NewLocalFromSeed derives the keypair of a 32-byte ed25519 seed. Pool and
// LP mint keys are built this way so their addresses can be recomputed.
func NewLocalFromSeed(seed []byte) (Local, error) {
	if len(seed) != ed25519.SeedSize {
		return Local{}, fmt.Errorf("seed must be %d bytes, got %d", ed25519.SeedSize, len(seed))
	}
	return Local{key: solana.PrivateKey(ed25519.NewKeyFromSeed(seed)), origin: "seed"}, nil
}

func NewLocalFromPrivateKey(key solana.PrivateKey) Local {
	return Local{key: key, origin: "key"}
}

func (l Local) PublicKey() solana.PublicKey {
	return l.key.PublicKey()
}

// PrivateKey exposes the key, e.g. to persist a freshly created pool keypair.
func (l Local) PrivateKey() solana.PrivateKey {
	return l.key
}

// MarshalZerologObject logs the public key and where the key came from,
// never the secret.
func (l Local) MarshalZerologObject(e *zerolog.Event) {
	e.Str("pubkey", l.PublicKey().String()).Str("origin", l.origin)
}

// SignMessage signs message unless ctx is already done.
func (l Local) SignMessage(ctx context.Context, message []byte) (solana.Signature, error) {
	if err := ctx.Err(); err != nil {
		return solana.Signature{}, err
	}
	sig, err := l.key.Sign(message)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("sign message: %w", err)
	}
	return sig, nil
}

// RemoteSigner delegates signing to SignFunc, such as a KMS or hardware
// wallet bridge, and checks the returned signature length.
type RemoteSigner struct {
	pub      solana.PublicKey
	SignFunc func(ctx context.Context, message []byte) ([]byte, error)
}

func NewRemoteSigner(pub solana.PublicKey, fn func(ctx context.Context, message []byte) ([]byte, error)) RemoteSigner {
	return RemoteSigner{pub: pub, SignFunc: fn}
}

func (r RemoteSigner) PublicKey() solana.PublicKey {
	return r.pub
}

func (r RemoteSigner) MarshalZerologObject(e *zerolog.Event) {
	e.Str("pubkey", r.pub.String()).Str("origin", "remote")
}

func (r RemoteSigner) SignMessage(ctx context.Context, message []byte) (solana.Signature, error) {
	if r.SignFunc == nil {
		return solana.Signature{}, errors.New("remote signer has no sign func")
	}
	raw, err := r.SignFunc(ctx, message)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("remote sign %s: %w", r.pub, err)
	}
	if len(raw) != solana.SignatureLength {
		return solana.Signature{}, fmt.Errorf("remote sign %s: signature is %d bytes, want %d", r.pub, len(raw), solana.SignatureLength)
	}
	return solana.SignatureFromBytes(raw), nil
}
