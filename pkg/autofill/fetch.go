package autofill

import (
	"context"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/ninja0404/saros-go-sdk/pkg/program/sarosfarm"
	"github.com/ninja0404/saros-go-sdk/pkg/program/sarosswap"
	"github.com/ninja0404/saros-go-sdk/pkg/rpc"
	"github.com/ninja0404/saros-go-sdk/pkg/token"
	"github.com/ninja0404/saros-go-sdk/pkg/types"
)

func fetch(ctx context.Context, chain rpc.AccountFetcher, addr solana.PublicKey, notFound error) (*rpc.Account, error) {
	if chain == nil {
		return nil, types.ErrNilRPC
	}
	acc, err := chain.GetAccount(ctx, addr)
	if errors.Is(err, types.ErrAccountNotFound) {
		return nil, fmt.Errorf("%w: %s", notFound, addr)
	}
	if err != nil {
		return nil, err
	}
	return acc, nil
}

// FetchPool loads and decodes a swap pool.
func FetchPool(ctx context.Context, chain rpc.AccountFetcher, addr solana.PublicKey) (sarosswap.Pool, error) {
	acc, err := fetch(ctx, chain, addr, types.ErrPoolNotFound)
	if err != nil {
		return sarosswap.Pool{}, err
	}
	return decodePool(addr, acc.Data)
}

func decodePool(addr solana.PublicKey, data []byte) (sarosswap.Pool, error) {
	p, err := sarosswap.DecodePool(data)
	if err != nil {
		return sarosswap.Pool{}, fmt.Errorf("decode pool %s: %w", addr, err)
	}
	if !p.IsInitialized {
		return sarosswap.Pool{}, fmt.Errorf("%w: pool %s", types.ErrAccountNotInitialized, addr)
	}
	p.Address = addr
	return p, nil
}

// FetchTokenAccount loads an SPL token account.
func FetchTokenAccount(ctx context.Context, chain rpc.AccountFetcher, addr solana.PublicKey) (token.Account, error) {
	acc, err := fetch(ctx, chain, addr, types.ErrAccountNotFound)
	if err != nil {
		return token.Account{}, err
	}
	t, err := token.DecodeAccount(acc.Data)
	if err != nil {
		return token.Account{}, fmt.Errorf("decode token account %s: %w", addr, err)
	}
	t.Address = addr
	return t, nil
}

// FetchMint loads an SPL mint.
func FetchMint(ctx context.Context, chain rpc.AccountFetcher, addr solana.PublicKey) (token.Mint, error) {
	acc, err := fetch(ctx, chain, addr, types.ErrMintNotFound)
	if err != nil {
		return token.Mint{}, err
	}
	m, err := token.DecodeMint(acc.Data)
	if err != nil {
		return token.Mint{}, fmt.Errorf("decode mint %s: %w", addr, err)
	}
	m.Address = addr
	return m, nil
}

// FetchFarmPool loads a farm pool.
func FetchFarmPool(ctx context.Context, chain rpc.AccountFetcher, addr solana.PublicKey) (sarosfarm.Pool, error) {
	acc, err := fetch(ctx, chain, addr, types.ErrFarmPoolNotFound)
	if err != nil {
		return sarosfarm.Pool{}, err
	}
	p, err := sarosfarm.DecodePool(acc.Data)
	if err != nil {
		return sarosfarm.Pool{}, fmt.Errorf("decode farm pool %s: %w", addr, err)
	}
	p.Address = addr
	return p, nil
}

// FetchPoolReward loads a farm pool reward.
func FetchPoolReward(ctx context.Context, chain rpc.AccountFetcher, addr solana.PublicKey) (sarosfarm.PoolReward, error) {
	acc, err := fetch(ctx, chain, addr, types.ErrPoolRewardNotFound)
	if err != nil {
		return sarosfarm.PoolReward{}, err
	}
	p, err := sarosfarm.DecodePoolReward(acc.Data)
	if err != nil {
		return sarosfarm.PoolReward{}, fmt.Errorf("decode pool reward %s: %w", addr, err)
	}
	p.Address = addr
	return p, nil
}

// FetchUserPoolReward loads a user's reward record.
func FetchUserPoolReward(ctx context.Context, chain rpc.AccountFetcher, addr solana.PublicKey) (sarosfarm.UserPoolReward, error) {
	acc, err := fetch(ctx, chain, addr, types.ErrAccountNotFound)
	if err != nil {
		return sarosfarm.UserPoolReward{}, err
	}
	u, err := sarosfarm.DecodeUserPoolReward(acc.Data)
	if err != nil {
		return sarosfarm.UserPoolReward{}, fmt.Errorf("decode user pool reward %s: %w", addr, err)
	}
	u.Address = addr
	return u, nil
}

// PoolSnapshot is a swap pool with its vault balances and mint facts.
type PoolSnapshot struct {
	Pool                 sarosswap.Pool
	Reserve0, Reserve1   uint64
	Decimals0, Decimals1 uint8
	LPSupply             uint64
}

// Reserves orders the vault balances as (in, out) for mintIn.
func (s PoolSnapshot) Reserves(mintIn solana.PublicKey) (in, out uint64, ok bool) {
	switch {
	case mintIn.Equals(s.Pool.Token0Mint):
		return s.Reserve0, s.Reserve1, true
	case mintIn.Equals(s.Pool.Token1Mint):
		return s.Reserve1, s.Reserve0, true
	default:
		return 0, 0, false
	}
}

// FetchPoolSnapshot loads a pool, then both vaults, the LP mint and both
// token mints in one batch.
func FetchPoolSnapshot(ctx context.Context, chain rpc.AccountFetcher, addr solana.PublicKey) (PoolSnapshot, error) {
	pool, err := FetchPool(ctx, chain, addr)
	if err != nil {
		return PoolSnapshot{}, err
	}
	return snapshot(ctx, chain, pool)
}

func snapshot(ctx context.Context, chain rpc.AccountFetcher, pool sarosswap.Pool) (PoolSnapshot, error) {
	keys := []solana.PublicKey{pool.Token0Account, pool.Token1Account, pool.LPTokenMint, pool.Token0Mint, pool.Token1Mint}
	accs, err := chain.GetAccounts(ctx, keys...)
	if err != nil {
		return PoolSnapshot{}, err
	}
	for i, a := range accs {
		if a == nil {
			return PoolSnapshot{}, types.AccountNotFound(keys[i])
		}
	}
	snap := PoolSnapshot{Pool: pool}
	vault0, err := token.DecodeAccount(accs[0].Data)
	if err != nil {
		return PoolSnapshot{}, fmt.Errorf("decode vault %s: %w", keys[0], err)
	}
	vault1, err := token.DecodeAccount(accs[1].Data)
	if err != nil {
		return PoolSnapshot{}, fmt.Errorf("decode vault %s: %w", keys[1], err)
	}
	snap.Reserve0, snap.Reserve1 = vault0.Amount, vault1.Amount

	mints := make([]token.Mint, 3)
	for i := range mints {
		m, err := token.DecodeMint(accs[2+i].Data)
		if err != nil {
			return PoolSnapshot{}, fmt.Errorf("decode mint %s: %w", keys[2+i], err)
		}
		mints[i] = m
	}
	snap.LPSupply = mints[0].Supply
	snap.Decimals0, snap.Decimals1 = mints[1].Decimals, mints[2].Decimals
	return snap, nil
}
