package rpc

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"github.com/gagliardetto/solana-go"
	solanarpc "github.com/gagliardetto/solana-go/rpc"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/ninja0404/saros-go-sdk/pkg/config"
	"github.com/ninja0404/saros-go-sdk/pkg/types"
)

// maxMultipleAccounts is the getMultipleAccounts key limit.
const maxMultipleAccounts = 100

// Account is a raw account snapshot.
type Account struct {
	Address  solana.PublicKey
	Owner    solana.PublicKey
	Lamports uint64
	Data     []byte
}

// AccountFetcher reads raw account state. Decoders in the SDK only need this.
type AccountFetcher interface {
	// GetAccount returns types.ErrAccountNotFound (wrapped) when addr holds no account.
	GetAccount(ctx context.Context, addr solana.PublicKey) (*Account, error)
	// GetAccounts returns one entry per address, nil where no account exists.
	GetAccounts(ctx context.Context, addrs ...solana.PublicKey) ([]*Account, error)
}

// ChainReader adds the cluster facts composed flows need.
type ChainReader interface {
	AccountFetcher
	GetSlot(ctx context.Context) (uint64, error)
	GetMinimumBalanceForRentExemption(ctx context.Context, size uint64) (uint64, error)
}

// TokenBalanceReader reads a token account balance with its mint decimals.
type TokenBalanceReader interface {
	GetTokenAccountBalance(ctx context.Context, account solana.PublicKey) (uint64, uint8, error)
}

var (
	_ ChainReader        = (*Client)(nil)
	_ TokenBalanceReader = (*Client)(nil)
)

// Client wraps solana-go rpc.Client with retry, timeout, and rate limiting.
type Client struct {
	raw     *solanarpc.Client
	cfg     config.RPCConfig
	limiter *rate.Limiter
	log     zerolog.Logger
}

// NewClient builds a configured Client.
func NewClient(cfg config.RPCConfig) *Client {
	endpoint := cfg.ResolveRPCURL()
	rpcClient := solanarpc.New(endpoint)

	var limiter *rate.Limiter
	if cfg.RateLimit.RPS > 0 {
		burst := cfg.RateLimit.Burst
		if burst == 0 {
			burst = int(cfg.RateLimit.RPS * 2)
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit.RPS), burst)
	}

	log := cfg.Logger
	if log.GetLevel() == zerolog.NoLevel {
		log = zerolog.Nop()
	}

	return &Client{
		raw:     rpcClient,
		cfg:     cfg,
		limiter: limiter,
		log:     log,
	}
}

// Raw exposes the underlying solana-go client.
func (c *Client) Raw() *solanarpc.Client {
	return c.raw
}

// Config returns the settings the client was built with.
func (c *Client) Config() config.RPCConfig {
	return c.cfg
}

func (c *Client) commitment() solanarpc.CommitmentType {
	return solanarpc.CommitmentType(c.cfg.Commitment)
}

// GetLatestBlockhash fetches the latest finalized blockhash by default.
func (c *Client) GetLatestBlockhash(ctx context.Context) (*solanarpc.GetLatestBlockhashResult, error) {
	var out *solanarpc.GetLatestBlockhashResult
	err := c.call(ctx, "getLatestBlockhash", func(ctx context.Context) error {
		var err error
		out, err = c.raw.GetLatestBlockhash(ctx, c.commitment())
		return err
	})
	return out, err
}

// GetAccount fetches one account as base64.
func (c *Client) GetAccount(ctx context.Context, addr solana.PublicKey) (*Account, error) {
	var out *solanarpc.GetAccountInfoResult
	err := c.call(ctx, "getAccountInfo", func(ctx context.Context) error {
		var err error
		out, err = c.raw.GetAccountInfoWithOpts(ctx, addr, &solanarpc.GetAccountInfoOpts{
			Encoding:   solana.EncodingBase64,
			Commitment: c.commitment(),
		})
		if errors.Is(err, solanarpc.ErrNotFound) {
			return types.AccountNotFound(addr)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	if out == nil || out.Value == nil {
		return nil, types.AccountNotFound(addr)
	}
	return toAccount(addr, out.Value), nil
}

// GetAccounts fetches accounts in chunks of 100, preserving order.
func (c *Client) GetAccounts(ctx context.Context, addrs ...solana.PublicKey) ([]*Account, error) {
	result := make([]*Account, 0, len(addrs))
	for start := 0; start < len(addrs); start += maxMultipleAccounts {
		end := start + maxMultipleAccounts
		if end > len(addrs) {
			end = len(addrs)
		}
		chunk := addrs[start:end]
		var out *solanarpc.GetMultipleAccountsResult
		err := c.call(ctx, "getMultipleAccounts", func(ctx context.Context) error {
			var err error
			out, err = c.raw.GetMultipleAccountsWithOpts(ctx, chunk, &solanarpc.GetMultipleAccountsOpts{
				Encoding:   solana.EncodingBase64,
				Commitment: c.commitment(),
			})
			return err
		})
		if err != nil {
			return nil, err
		}
		if out == nil || len(out.Value) != len(chunk) {
			return nil, fmt.Errorf("getMultipleAccounts: expected %d results", len(chunk))
		}
		for i, v := range out.Value {
			if v == nil {
				result = append(result, nil)
				continue
			}
			result = append(result, toAccount(chunk[i], v))
		}
	}
	return result, nil
}

func toAccount(addr solana.PublicKey, v *solanarpc.Account) *Account {
	acc := &Account{Address: addr, Owner: v.Owner, Lamports: v.Lamports}
	if v.Data != nil {
		acc.Data = v.Data.GetBinary()
	}
	return acc
}

// GetTokenAccountBalance returns the raw amount and decimals of a token account.
func (c *Client) GetTokenAccountBalance(ctx context.Context, account solana.PublicKey) (uint64, uint8, error) {
	var out *solanarpc.GetTokenAccountBalanceResult
	err := c.call(ctx, "getTokenAccountBalance", func(ctx context.Context) error {
		var err error
		out, err = c.raw.GetTokenAccountBalance(ctx, account, c.commitment())
		return err
	})
	if err != nil {
		return 0, 0, err
	}
	if out == nil || out.Value == nil {
		return 0, 0, types.AccountNotFound(account)
	}
	amount, err := strconv.ParseUint(out.Value.Amount, 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("parse token amount %q: %w", out.Value.Amount, err)
	}
	return amount, out.Value.Decimals, nil
}

// GetSlot returns the current slot, which the farm program uses as its block height.
func (c *Client) GetSlot(ctx context.Context) (uint64, error) {
	var slot uint64
	err := c.call(ctx, "getSlot", func(ctx context.Context) error {
		var err error
		slot, err = c.raw.GetSlot(ctx, c.commitment())
		return err
	})
	return slot, err
}

// GetMinimumBalanceForRentExemption returns the rent-exempt lamports for size bytes.
func (c *Client) GetMinimumBalanceForRentExemption(ctx context.Context, size uint64) (uint64, error) {
	var lamports uint64
	err := c.call(ctx, "getMinimumBalanceForRentExemption", func(ctx context.Context) error {
		var err error
		lamports, err = c.raw.GetMinimumBalanceForRentExemption(ctx, size, c.commitment())
		return err
	})
	return lamports, err
}

// GetSignatureStatus returns the status of one signature, nil when unknown.
func (c *Client) GetSignatureStatus(ctx context.Context, sig solana.Signature) (*solanarpc.SignatureStatusesResult, error) {
	var out *solanarpc.GetSignatureStatusesResult
	err := c.call(ctx, "getSignatureStatuses", func(ctx context.Context) error {
		var err error
		out, err = c.raw.GetSignatureStatuses(ctx, true, sig)
		return err
	})
	if err != nil {
		return nil, err
	}
	if out == nil || len(out.Value) == 0 {
		return nil, nil
	}
	return out.Value[0], nil
}

// SendTransaction submits a signed transaction.
func (c *Client) SendTransaction(ctx context.Context, tx *solana.Transaction, opts solanarpc.TransactionOpts) (solana.Signature, error) {
	var sig solana.Signature
	err := c.call(ctx, "sendTransaction", func(ctx context.Context) error {
		var err error
		sig, err = c.raw.SendTransactionWithOpts(ctx, tx, opts)
		return err
	})
	return sig, err
}

// SimulateTransaction simulates a transaction for debugging.
func (c *Client) SimulateTransaction(ctx context.Context, tx *solana.Transaction, opts *solanarpc.SimulateTransactionOpts) (*solanarpc.SimulateTransactionResponse, error) {
	var res *solanarpc.SimulateTransactionResponse
	err := c.call(ctx, "simulateTransaction", func(ctx context.Context) error {
		var err error
		res, err = c.raw.SimulateTransactionWithOpts(ctx, tx, opts)
		return err
	})
	return res, err
}

func (c *Client) call(ctx context.Context, op string, fn func(context.Context) error) error {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
	}

	if !c.cfg.Retry.Enabled {
		return wrapRPC(op, fn(ctx))
	}

	attempts := c.cfg.Retry.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}

	var err error
	for i := 0; i < attempts; i++ {
		err = fn(ctx)
		if err == nil {
			return nil
		}

		if !retryable(err) || i == attempts-1 {
			break
		}
		backoff := c.backoff(i)
		c.log.Debug().
			Str("op", op).
			Int("attempt", i+1).
			Dur("backoff", backoff).
			Err(err).
			Msg("rpc retry")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
	}
	if !retryable(err) {
		return wrapRPC(op, err)
	}
	return wrapRPC(op, fmt.Errorf("failed after %d attempts: %w", attempts, err))
}

func wrapRPC(op string, err error) error {
	if err == nil || errors.Is(err, types.ErrAccountNotFound) {
		return err
	}
	return types.RPCError{Op: op, Err: err}
}

func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.cfg.Timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, c.cfg.Timeout)
}

func (c *Client) backoff(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	delay := c.cfg.Retry.InitialBackoff
	if delay <= 0 {
		delay = 100 * time.Millisecond
	}
	for i := 0; i < attempt; i++ {
		delay *= 2
		if delay > c.cfg.Retry.MaxBackoff && c.cfg.Retry.MaxBackoff > 0 {
			delay = c.cfg.Retry.MaxBackoff
			break
		}
	}
	if c.cfg.Retry.Jitter && delay > 1 {
		jitter := rand.Int63n(int64(delay / 2))
		delay = delay/2 + time.Duration(jitter)
	}
	return delay
}

func retryable(err error) bool {
	if err == nil {
		return true
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	// A missing account will not appear on retry.
	if errors.Is(err, types.ErrAccountNotFound) {
		return false
	}
	return types.IsRetryableError(err)
}
