// Package jito submits signed Saros transactions through a Jito block engine,
// rotating endpoints when one is rate limited.
package jito

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math/rand"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	jitorpc "github.com/jito-labs/jito-go-rpc"
	"github.com/rs/zerolog"

	"github.com/ninja0404/saros-go-sdk/pkg/types"
)

const (
	MainnetBlockEngine = "https://mainnet.block-engine.jito.wtf/api/v1"
	TestnetBlockEngine = "https://testnet.block-engine.jito.wtf/api/v1"
)

// MainnetBlockEngines are the regional mainnet engines used when no endpoint
// is configured.
var MainnetBlockEngines = []string{
	MainnetBlockEngine,
	"https://amsterdam.mainnet.block-engine.jito.wtf/api/v1",
	"https://frankfurt.mainnet.block-engine.jito.wtf/api/v1",
	"https://ny.mainnet.block-engine.jito.wtf/api/v1",
	"https://tokyo.mainnet.block-engine.jito.wtf/api/v1",
}

// MainnetTipAccounts are the published tip receivers. They rarely change, so
// tips never need a getTipAccounts round trip.
var MainnetTipAccounts = []solana.PublicKey{
	solana.MustPublicKeyFromBase58("96gYZGLnJYVFmbjzopPSU6QiEV5fGqZNyN9nmNhvrZU5"),
	solana.MustPublicKeyFromBase58("HFqU5x63VTqvQss8hp11i4wVV8bD44PvwucfZ2bU7gRe"),
	solana.MustPublicKeyFromBase58("Cw8CFyM9FkoMi7K7Crf6HNQqf4uEMzpKw6QNghXLvLkY"),
	solana.MustPublicKeyFromBase58("ADaUMid9yfUytqMBgopwjb2DTLSokTSzL1zt6iGPaS49"),
	solana.MustPublicKeyFromBase58("DfXygSm4jCyNCybVYYK6DwvWqjKee8pbDmJGcLWNDXjh"),
	solana.MustPublicKeyFromBase58("ADuUkR4vqLUMWXxW9gh6D6L8pMSawimctcNZ5pGwDcEt"),
	solana.MustPublicKeyFromBase58("DttWaMuVvTiduZRnguLF7jNxTgiMBZ1hyAumKUiL2KRL"),
	solana.MustPublicKeyFromBase58("3AVi9Tg9Uo68tJfuvoKvqKNWKkC5wPdSSdeBnizKZ6jT"),
}

// GetRandomTipAccountLocal picks a tip receiver without any network call.
func GetRandomTipAccountLocal() solana.PublicKey {
	return MainnetTipAccounts[rand.Intn(len(MainnetTipAccounts))]
}

// TipInstruction transfers lamports from payer to tipAccount, or to a random
// mainnet tip account when tipAccount is zero. It belongs at the end of a transaction.
func TipInstruction(payer, tipAccount solana.PublicKey, lamports uint64) solana.Instruction {
	if tipAccount.IsZero() {
		tipAccount = GetRandomTipAccountLocal()
	}
	return system.NewTransferInstruction(lamports, payer, tipAccount).Build()
}

// Client sends bundles round-robin across one or more block engines.
type Client struct {
	endpoints  []string
	uuid       string
	next       atomic.Uint32
	maxRetries int
	retryDelay time.Duration
	pollEvery  time.Duration
	log        zerolog.Logger
}

// NewClient accepts a single engine URL or a comma-separated list. An empty
// endpoint rotates over MainnetBlockEngines. uuid may be empty.
func NewClient(endpoint string, uuid string) *Client {
	var endpoints []string
	for _, e := range strings.Split(endpoint, ",") {
		if e = strings.TrimSpace(e); e != "" {
			endpoints = append(endpoints, e)
		}
	}
	if len(endpoints) == 0 {
		endpoints = MainnetBlockEngines
	}
	return &Client{
		endpoints:  endpoints,
		uuid:       uuid,
		maxRetries: len(endpoints) + 2,
		retryDelay: 200 * time.Millisecond,
		pollEvery:  250 * time.Millisecond,
		log:        zerolog.Nop(),
	}
}

// WithLogger sets the logger used for retries and bundle polling.
func (c *Client) WithLogger(log zerolog.Logger) *Client {
	c.log = log
	return c
}

// WithRetries configures the number of attempts and the delay after a rate-limited one.
func (c *Client) WithRetries(maxRetries int, retryDelay time.Duration) *Client {
	c.maxRetries = maxRetries
	c.retryDelay = retryDelay
	return c
}

func (c *Client) engine() *jitorpc.JitoJsonRpcClient {
	idx := c.next.Add(1)
	return jitorpc.NewJitoJsonRpcClient(c.endpoints[int(idx)%len(c.endpoints)], c.uuid)
}

func isRateLimitError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "rate limit") ||
		strings.Contains(msg, "congested") ||
		strings.Contains(msg, "429")
}

// backoff logs a rate-limited attempt and waits retryDelay or until ctx is done.
func (c *Client) backoff(ctx context.Context, op string, attempt int, err error) error {
	c.log.Debug().Str("op", op).Int("attempt", attempt+1).Err(err).Msg("jito rate limited")
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(c.retryDelay):
		return nil
	}
}

// call runs fn against rotating engines, retrying only rate-limit failures.
func call[T any](ctx context.Context, c *Client, op string, fn func(*jitorpc.JitoJsonRpcClient) (T, error)) (T, error) {
	var (
		zero    T
		lastErr error
	)
	for i := 0; i < c.maxRetries; i++ {
		out, err := fn(c.engine())
		if err == nil {
			return out, nil
		}
		if !isRateLimitError(err) {
			return zero, fmt.Errorf("jito %s: %w", op, err)
		}
		lastErr = err
		if werr := c.backoff(ctx, op, i, err); werr != nil {
			return zero, werr
		}
	}
	return zero, fmt.Errorf("jito %s failed after %d attempts: %w", op, c.maxRetries, lastErr)
}

// GetTipAccounts asks the engine for its current tip receivers.
func (c *Client) GetTipAccounts(ctx context.Context) ([]solana.PublicKey, error) {
	raw, err := call(ctx, c, "getTipAccounts", func(e *jitorpc.JitoJsonRpcClient) (json.RawMessage, error) {
		return e.GetTipAccounts()
	})
	if err != nil {
		return nil, err
	}
	var accounts []string
	if err := json.Unmarshal(raw, &accounts); err != nil {
		return nil, fmt.Errorf("unmarshal tip accounts: %w", err)
	}
	out := make([]solana.PublicKey, 0, len(accounts))
	for _, a := range accounts {
		if pk, err := solana.PublicKeyFromBase58(a); err == nil {
			out = append(out, pk)
		}
	}
	return out, nil
}

// SendResult identifies a submitted transaction and the bundle carrying it.
type SendResult struct {
	Signature solana.Signature
	BundleID  string
}

func encodeBundle(txs []*solana.Transaction) ([]string, error) {
	out := make([]string, 0, len(txs))
	for _, tx := range txs {
		raw, err := tx.MarshalBinary()
		if err != nil {
			return nil, fmt.Errorf("marshal transaction: %w", err)
		}
		out = append(out, base64.StdEncoding.EncodeToString(raw))
	}
	return out, nil
}

// SendBundle submits fully signed txs as one atomic bundle and returns its id.
func (c *Client) SendBundle(ctx context.Context, txs []*solana.Transaction) (string, error) {
	if len(txs) == 0 {
		return "", types.ErrNoInstructions
	}
	encoded, err := encodeBundle(txs)
	if err != nil {
		return "", err
	}
	raw, err := call(ctx, c, "sendBundle", func(e *jitorpc.JitoJsonRpcClient) (json.RawMessage, error) {
		return e.SendBundle([][]string{encoded})
	})
	if err != nil {
		return "", err
	}
	var bundleID string
	if err := json.Unmarshal(raw, &bundleID); err != nil {
		return "", fmt.Errorf("unmarshal bundle response: %w", err)
	}
	c.log.Debug().Str("bundle", bundleID).Int("txs", len(txs)).Msg("bundle sent")
	return bundleID, nil
}

// SendTransaction submits tx as a single-transaction bundle.
func (c *Client) SendTransaction(ctx context.Context, tx *solana.Transaction) (SendResult, error) {
	bundleID, err := c.SendBundle(ctx, []*solana.Transaction{tx})
	if err != nil {
		return SendResult{}, err
	}
	res := SendResult{BundleID: bundleID}
	if len(tx.Signatures) > 0 {
		res.Signature = tx.Signatures[0]
	}
	return res, nil
}

// GetBundleStatuses returns the landed status of each bundle id.
func (c *Client) GetBundleStatuses(ctx context.Context, bundleIDs []string) (*jitorpc.BundleStatusResponse, error) {
	return call(ctx, c, "getBundleStatuses", func(e *jitorpc.JitoJsonRpcClient) (*jitorpc.BundleStatusResponse, error) {
		return e.GetBundleStatuses(bundleIDs)
	})
}

// WaitForBundleConfirmation polls until the bundle is confirmed or finalized.
// A landed-but-failed bundle is returned as a classified *types.TxError.
func (c *Client) WaitForBundleConfirmation(ctx context.Context, bundleID string) error {
	ticker := time.NewTicker(c.pollEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
		statuses, err := c.GetBundleStatuses(ctx, []string{bundleID})
		if err != nil {
			c.log.Debug().Err(err).Str("bundle", bundleID).Msg("bundle status")
			continue
		}
		if statuses == nil || len(statuses.Value) == 0 {
			continue
		}
		status := statuses.Value[0]
		switch status.ConfirmationStatus {
		case "confirmed", "finalized":
			return nil
		}
		if status.Err.Ok == nil {
			return types.ClassifyError(fmt.Errorf("bundle %s failed: %v", bundleID, status.Err), nil)
		}
	}
}
