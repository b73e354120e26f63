package autofill

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"cosmossdk.io/math"
	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"lukechampine.com/uint128"

	"github.com/ninja0404/saros-go-sdk/pkg/config"
	"github.com/ninja0404/saros-go-sdk/pkg/constants"
	"github.com/ninja0404/saros-go-sdk/pkg/layout"
	"github.com/ninja0404/saros-go-sdk/pkg/pda"
	"github.com/ninja0404/saros-go-sdk/pkg/program/sarosfarm"
	"github.com/ninja0404/saros-go-sdk/pkg/program/sarosswap"
	"github.com/ninja0404/saros-go-sdk/pkg/reward"
	"github.com/ninja0404/saros-go-sdk/pkg/rpc"
	"github.com/ninja0404/saros-go-sdk/pkg/token"
	"github.com/ninja0404/saros-go-sdk/pkg/types"
	"github.com/ninja0404/saros-go-sdk/pkg/wallet"
)

// fakeChain serves accounts from memory and counts batch reads.
type fakeChain struct {
	accounts map[solana.PublicKey]*rpc.Account
	slot     uint64
	rent     uint64
	batches  int
}

func newFakeChain() *fakeChain {
	return &fakeChain{accounts: make(map[solana.PublicKey]*rpc.Account), rent: 2_039_280}
}

func (f *fakeChain) GetAccount(_ context.Context, addr solana.PublicKey) (*rpc.Account, error) {
	if a, ok := f.accounts[addr]; ok {
		return a, nil
	}
	return nil, types.AccountNotFound(addr)
}

func (f *fakeChain) GetAccounts(_ context.Context, addrs ...solana.PublicKey) ([]*rpc.Account, error) {
	f.batches++
	out := make([]*rpc.Account, len(addrs))
	for i, a := range addrs {
		out[i] = f.accounts[a]
	}
	return out, nil
}

func (f *fakeChain) GetSlot(context.Context) (uint64, error) { return f.slot, nil }

func (f *fakeChain) GetMinimumBalanceForRentExemption(context.Context, uint64) (uint64, error) {
	return f.rent, nil
}

func (f *fakeChain) put(t *testing.T, addr, owner solana.PublicKey, data []byte, err error) {
	t.Helper()
	require.NoError(t, err)
	f.accounts[addr] = &rpc.Account{Address: addr, Owner: owner, Lamports: 1, Data: data}
}

func (f *fakeChain) putTokenAccount(t *testing.T, addr, mint, owner solana.PublicKey, amount uint64) {
	data, err := token.EncodeAccount(token.Account{Mint: mint, Owner: owner, Amount: amount, State: token.AccountInitialized})
	f.put(t, addr, constants.TokenProgramID, data, err)
}

func (f *fakeChain) putATA(t *testing.T, wallet, mint solana.PublicKey, amount uint64) solana.PublicKey {
	addr, err := token.AssociatedAddress(wallet, mint, constants.TokenProgramID)
	require.NoError(t, err)
	f.putTokenAccount(t, addr, mint, wallet, amount)
	return addr
}

func (f *fakeChain) putMint(t *testing.T, addr solana.PublicKey, supply uint64, decimals uint8) {
	data, err := token.EncodeMint(token.Mint{Supply: supply, Decimals: decimals, IsInitialized: true})
	f.put(t, addr, constants.TokenProgramID, data, err)
}

type poolFixture struct {
	addr, authority solana.PublicKey
	pool            sarosswap.Pool
}

// putSwapPool stores an initialized pool with vaults, LP mint and token mints.
func (f *fakeChain) putSwapPool(t *testing.T, mint0, mint1 solana.PublicKey, r0, r1, supply uint64) poolFixture {
	t.Helper()
	addr := solana.NewWallet().PublicKey()
	authority, _, err := pda.SwapPoolAuthority(addr, constants.SarosSwapProgramID)
	require.NoError(t, err)
	fees := config.FeeConfig{
		TradeFee:      config.Ratio{Numerator: 0, Denominator: 10000},
		OwnerTradeFee: config.Ratio{Numerator: 30, Denominator: 10000},
		HostFee:       config.Ratio{Numerator: 20, Denominator: 100},
	}
	p := sarosswap.Pool{
		Version:                  1,
		IsInitialized:            true,
		TokenProgramID:           constants.TokenProgramID,
		Token0Account:            solana.NewWallet().PublicKey(),
		Token1Account:            solana.NewWallet().PublicKey(),
		LPTokenMint:              solana.NewWallet().PublicKey(),
		Token0Mint:               mint0,
		Token1Mint:               mint1,
		FeeAccount:               solana.NewWallet().PublicKey(),
		TradeFeeNumerator:        fees.TradeFee.Numerator,
		TradeFeeDenominator:      fees.TradeFee.Denominator,
		OwnerTradeFeeNumerator:   fees.OwnerTradeFee.Numerator,
		OwnerTradeFeeDenominator: fees.OwnerTradeFee.Denominator,
		HostFeeNumerator:         fees.HostFee.Numerator,
		HostFeeDenominator:       fees.HostFee.Denominator,
	}
	data, err := sarosswap.EncodePool(p)
	f.put(t, addr, constants.SarosSwapProgramID, data, err)
	f.putTokenAccount(t, p.Token0Account, mint0, authority, r0)
	f.putTokenAccount(t, p.Token1Account, mint1, authority, r1)
	f.putMint(t, p.LPTokenMint, supply, 2)
	f.putMint(t, mint0, 1_000_000_000, 9)
	f.putMint(t, mint1, 1_000_000_000, 6)
	p.Address = addr
	return poolFixture{addr: addr, authority: authority, pool: p}
}

func programOf(ix solana.Instruction) solana.PublicKey { return ix.ProgramID() }

func dataOf(t *testing.T, ix solana.Instruction) []byte {
	t.Helper()
	d, err := ix.Data()
	require.NoError(t, err)
	return d
}

func hasPrefix(t *testing.T, ix solana.Instruction, disc []byte) bool {
	return bytes.HasPrefix(dataOf(t, ix), disc)
}

func TestSwapCreatesATAsWrapsAndClosesWSOL(t *testing.T) {
	chain := newFakeChain()
	usdc := solana.NewWallet().PublicKey()
	fx := chain.putSwapPool(t, constants.WSOLMint, usdc, 1_000_000, 2_000_000, 100_000)
	user := solana.NewWallet().PublicKey()

	accts, args, instrs, err := Swap(context.Background(), chain, user, fx.addr, constants.WSOLMint, 10_000, 19_000)
	require.NoError(t, err)

	wsolATA, _ := token.AssociatedAddress(user, constants.WSOLMint, constants.TokenProgramID)
	usdcATA, _ := token.AssociatedAddress(user, usdc, constants.TokenProgramID)
	assert.Equal(t, wsolATA, accts.UserSource)
	assert.Equal(t, usdcATA, accts.UserDestination)
	assert.Equal(t, fx.pool.Token0Account, accts.PoolSource)
	assert.Equal(t, fx.pool.Token1Account, accts.PoolDestination)
	assert.Equal(t, fx.authority, accts.Authority)
	assert.Equal(t, sarosswap.SwapArgs{AmountIn: 10_000, MinimumAmountOut: 19_000}, args)

	// 2 ATA creates, transfer + sync_native, swap, close WSOL
	require.Len(t, instrs, 6)
	assert.Equal(t, constants.AssociatedTokenProgramID, programOf(instrs[0]))
	assert.Equal(t, constants.AssociatedTokenProgramID, programOf(instrs[1]))
	assert.Equal(t, constants.SystemProgramID, programOf(instrs[2]))
	assert.Equal(t, constants.TokenProgramID, programOf(instrs[3]))
	assert.Equal(t, constants.SarosSwapProgramID, programOf(instrs[4]))
	assert.Equal(t, byte(sarosswap.OpSwap), dataOf(t, instrs[4])[0])
	assert.Len(t, instrs[4].Accounts(), 10)
	assert.Equal(t, []byte{9}, dataOf(t, instrs[5]))
	assert.Equal(t, wsolATA, instrs[5].Accounts()[0].PublicKey)
}

func TestSwapHostFeeAndKnownATAs(t *testing.T) {
	chain := newFakeChain()
	mint0, mint1 := solana.NewWallet().PublicKey(), solana.NewWallet().PublicKey()
	fx := chain.putSwapPool(t, mint0, mint1, 1_000_000, 2_000_000, 100_000)
	user := solana.NewWallet().PublicKey()
	host := solana.NewWallet().PublicKey()
	chain.putATA(t, user, mint1, 50_000)
	known, _ := token.AssociatedAddress(user, mint0, constants.TokenProgramID)

	accts, _, instrs, err := Swap(context.Background(), chain, user, fx.addr, mint1, 5_000, 1,
		WithHostFeeOwner(host), WithKnownATAs(known))
	require.NoError(t, err)

	hostATA, _ := token.AssociatedAddress(host, fx.pool.LPTokenMint, constants.TokenProgramID)
	got, ok := accts.HostFeeAccount.Get()
	require.True(t, ok)
	assert.Equal(t, hostATA, got)

	// only the host fee LP account is created; no WSOL handling
	require.Len(t, instrs, 2)
	assert.Equal(t, constants.AssociatedTokenProgramID, programOf(instrs[0]))
	metas := instrs[1].Accounts()
	require.Len(t, metas, 11)
	assert.Equal(t, hostATA, metas[10].PublicKey)
	assert.Equal(t, fx.pool.Token1Account, metas[4].PublicKey)
}

func TestSwapErrors(t *testing.T) {
	chain := newFakeChain()
	mint0, mint1 := solana.NewWallet().PublicKey(), solana.NewWallet().PublicKey()
	fx := chain.putSwapPool(t, mint0, mint1, 1_000_000, 2_000_000, 100_000)
	user := solana.NewWallet().PublicKey()
	ctx := context.Background()

	_, _, _, err := Swap(ctx, nil, user, fx.addr, mint0, 1, 1)
	assert.ErrorIs(t, err, types.ErrNilRPC)

	_, _, _, err = Swap(ctx, chain, user, fx.addr, solana.NewWallet().PublicKey(), 1, 1)
	assert.ErrorIs(t, err, types.ErrMintNotInPool)

	_, _, _, err = Swap(ctx, chain, user, solana.NewWallet().PublicKey(), mint0, 1, 1)
	assert.ErrorIs(t, err, types.ErrPoolNotFound)

	_, _, _, err = Swap(ctx, chain, user, fx.addr, mint0, 0, 1)
	var verr types.ValidationError
	assert.True(t, errors.As(err, &verr))
}

func TestQuoteSwapChargesBothTradeFees(t *testing.T) {
	chain := newFakeChain()
	mint0, mint1 := solana.NewWallet().PublicKey(), solana.NewWallet().PublicKey()
	fx := chain.putSwapPool(t, mint0, mint1, 1_000_000, 2_000_000, 100_000)

	q, err := QuoteSwap(context.Background(), chain, fx.addr, mint0, 10_000, math.LegacyNewDec(1))
	require.NoError(t, err)
	assert.Equal(t, mint1, q.MintOut)
	assert.Equal(t, uint64(9_970), q.Estimate.AmountInWithFee)
	assert.Equal(t, uint64(19_743), q.Estimate.AmountOut)
	// floor(19_743 / 1.01)
	assert.Equal(t, uint64(19_547), q.MinimumAmountOut)
	// vaults and mints come from a single batch
	assert.Equal(t, 1, chain.batches)
}

func TestSwapWithSlippageUsesQuote(t *testing.T) {
	chain := newFakeChain()
	mint0, mint1 := solana.NewWallet().PublicKey(), solana.NewWallet().PublicKey()
	fx := chain.putSwapPool(t, mint0, mint1, 1_000_000, 2_000_000, 100_000)
	user := solana.NewWallet().PublicKey()
	chain.putATA(t, user, mint0, 10_000)
	chain.putATA(t, user, mint1, 0)

	var preview bytes.Buffer
	_, q, instrs, err := SwapWithSlippage(context.Background(), chain, user, fx.addr, mint0, 10_000, math.LegacyNewDec(1), WithPreview(&preview))
	require.NoError(t, err)
	require.Len(t, instrs, 1)
	data := dataOf(t, instrs[0])
	assert.Equal(t, uint64(10_000), leU64(data[1:9]))
	assert.Equal(t, q.MinimumAmountOut, leU64(data[9:17]))

	out := math.LegacyNewDec(int64(q.Estimate.AmountOut))
	want := out.Quo(math.LegacyOneDec().Add(math.LegacyNewDec(1).QuoInt64(100))).TruncateInt().Uint64()
	assert.Equal(t, want, leU64(data[9:17]))
	assert.Contains(t, preview.String(), `"quote"`)
}

func leU64(b []byte) uint64 {
	var v uint64
	for i := 7; i >= 0; i-- {
		v = v<<8 | uint64(b[i])
	}
	return v
}

func TestTotalTradeFee(t *testing.T) {
	r := func(n, d uint64) config.Ratio { return config.Ratio{Numerator: n, Denominator: d} }
	tests := []struct {
		name string
		fees config.FeeConfig
		want config.Ratio
	}{
		{"owner only", config.FeeConfig{TradeFee: r(0, 10000), OwnerTradeFee: r(30, 10000)}, r(30, 10000)},
		{"trade only", config.FeeConfig{TradeFee: r(25, 1000)}, r(25, 1000)},
		{"shared denominator", config.FeeConfig{TradeFee: r(25, 10000), OwnerTradeFee: r(25, 10000)}, r(50, 10000)},
		{"mixed denominators", config.FeeConfig{TradeFee: r(2, 100), OwnerTradeFee: r(5, 1000)}, r(2*1000+5*100, 100*1000)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := totalTradeFee(tt.fees)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := totalTradeFee(config.FeeConfig{TradeFee: r(1, 1<<40), OwnerTradeFee: r(1, 1<<40+1)})
	assert.ErrorIs(t, err, types.ErrAmountOverflow)
}

func TestRouteSwap(t *testing.T) {
	chain := newFakeChain()
	usdc, sol := solana.NewWallet().PublicKey(), constants.WSOLMint
	saros := solana.NewWallet().PublicKey()
	a := chain.putSwapPool(t, saros, usdc, 5_000_000, 1_000_000, 100_000)
	b := chain.putSwapPool(t, sol, usdc, 1_000_000, 20_000_000, 100_000)
	user := solana.NewWallet().PublicKey()
	chain.putATA(t, user, saros, 1_000_000)
	chain.putATA(t, user, usdc, 0)

	route, instrs, err := RouteSwap(context.Background(), chain, user, a.addr, b.addr, saros, 100_000, 19_000, 900)
	require.NoError(t, err)

	usdcATA, _ := token.AssociatedAddress(user, usdc, constants.TokenProgramID)
	solATA, _ := token.AssociatedAddress(user, sol, constants.TokenProgramID)
	assert.Equal(t, usdcATA, route.LegA.UserDestination)
	assert.Equal(t, usdcATA, route.LegB.UserSource)
	assert.Equal(t, solATA, route.LegB.UserDestination)
	assert.False(t, route.LegA.HostFeeAccount.IsSome())
	assert.False(t, route.LegB.HostFeeAccount.IsSome())

	// create SOL ATA, leg A, leg B, close WSOL output
	require.Len(t, instrs, 4)
	legA, legB := dataOf(t, instrs[1]), dataOf(t, instrs[2])
	assert.Equal(t, uint64(100_000), leU64(legA[1:9]))
	assert.Equal(t, uint64(19_000), leU64(legA[9:17]))
	assert.Equal(t, uint64(19_000), leU64(legB[1:9]))
	assert.Equal(t, uint64(900), leU64(legB[9:17]))
	assert.Equal(t, solATA, instrs[3].Accounts()[0].PublicKey)

	_, _, err = RouteSwap(context.Background(), chain, user, a.addr, b.addr, saros, 100_000, 0, 900)
	assert.Error(t, err)
}

func TestQuoteRouteSwap(t *testing.T) {
	chain := newFakeChain()
	usdc, saros, other := solana.NewWallet().PublicKey(), solana.NewWallet().PublicKey(), solana.NewWallet().PublicKey()
	a := chain.putSwapPool(t, saros, usdc, 1_000_000, 2_000_000, 100_000)
	b := chain.putSwapPool(t, usdc, other, 2_000_000, 1_000_000, 100_000)

	q, err := QuoteRouteSwap(context.Background(), chain, a.addr, b.addr, saros, 10_000, math.LegacyNewDec(1))
	require.NoError(t, err)
	assert.Equal(t, usdc, q.MintMiddle)
	assert.Equal(t, other, q.MintOut)
	assert.Equal(t, uint64(19_547), q.MiddleAmount)
	assert.LessOrEqual(t, q.MinimumAmountOut, q.AmountOut)
	assert.Positive(t, q.AmountOut)

	c := chain.putSwapPool(t, solana.NewWallet().PublicKey(), other, 1, 1, 1)
	_, err = QuoteRouteSwap(context.Background(), chain, a.addr, c.addr, saros, 10_000, math.LegacyNewDec(1))
	assert.ErrorIs(t, err, types.ErrMintNotInPool)
}

func TestDeposit(t *testing.T) {
	chain := newFakeChain()
	mint0, mint1 := solana.NewWallet().PublicKey(), solana.NewWallet().PublicKey()
	fx := chain.putSwapPool(t, mint0, mint1, 1_000_000, 2_000_000, 100_000)
	user := solana.NewWallet().PublicKey()
	chain.putATA(t, user, mint0, 20_000)
	chain.putATA(t, user, mint1, 30_000)
	lp := chain.putATA(t, user, fx.pool.LPTokenMint, 0)

	accts, args, instrs, err := Deposit(context.Background(), chain, user, fx.addr, 1_000, math.LegacyNewDec(1))
	require.NoError(t, err)
	assert.Equal(t, sarosswap.DepositAllTokenTypesArgs{PoolTokenAmount: 1_000, MaximumTokenA: 10_100, MaximumTokenB: 20_200}, args)
	assert.Equal(t, lp, accts.Destination)
	assert.Equal(t, fx.pool.Token0Account, accts.IntoA)
	require.Len(t, instrs, 1)
	assert.Equal(t, byte(sarosswap.OpDepositAllTokenTypes), dataOf(t, instrs[0])[0])
}

func TestWithdraw(t *testing.T) {
	chain := newFakeChain()
	mint0 := solana.NewWallet().PublicKey()
	fx := chain.putSwapPool(t, mint0, constants.WSOLMint, 1_000_000, 2_000_000, 100_000)
	user := solana.NewWallet().PublicKey()
	chain.putATA(t, user, mint0, 0)
	lp := chain.putATA(t, user, fx.pool.LPTokenMint, 800)

	_, _, _, err := Withdraw(context.Background(), chain, user, fx.addr, 1_000, math.LegacyNewDec(1))
	assert.ErrorIs(t, err, types.ErrInsufficientBalance)

	chain.putTokenAccount(t, lp, fx.pool.LPTokenMint, user, 5_000)
	accts, args, instrs, err := Withdraw(context.Background(), chain, user, fx.addr, 1_000, math.LegacyNewDec(1))
	require.NoError(t, err)
	assert.Equal(t, sarosswap.WithdrawAllTokenTypesArgs{PoolTokenAmount: 1_000, MinimumTokenA: 9_900, MinimumTokenB: 19_800}, args)
	assert.Equal(t, lp, accts.Source)
	assert.Equal(t, fx.pool.FeeAccount, accts.FeeAccount)

	// create WSOL ATA, withdraw, close WSOL
	require.Len(t, instrs, 3)
	assert.Equal(t, byte(sarosswap.OpWithdrawAllTokenTypes), dataOf(t, instrs[1])[0])
	assert.Equal(t, accts.UserB, instrs[2].Accounts()[0].PublicKey)
}

func TestCreatePool(t *testing.T) {
	chain := newFakeChain()
	payer := solana.NewWallet().PublicKey()
	feeOwner := solana.NewWallet().PublicKey()
	mint0, mint1 := solana.NewWallet().PublicKey(), solana.NewWallet().PublicKey()
	src0 := chain.putATA(t, payer, mint0, 1_000_000)
	src1 := chain.putATA(t, payer, mint1, 1_000_000)

	res, err := CreatePool(context.Background(), chain, payer, CreatePoolParams{
		FeeOwner:     feeOwner,
		Token0Mint:   mint0,
		Token1Mint:   mint1,
		Token0Amount: 500_000,
		Token1Amount: 250_000,
	})
	require.NoError(t, err)

	require.Len(t, res.Signers, 2)
	assert.Equal(t, res.Pool, res.Signers[0].PublicKey())
	assert.Equal(t, res.LPMint, res.Signers[1].PublicKey())
	lpKey, err := wallet.NewLocalFromSeed(res.Authority[:])
	require.NoError(t, err)
	assert.Equal(t, res.LPMint, lpKey.PublicKey())
	authority, _, err := pda.SwapPoolAuthority(res.Pool, constants.SarosSwapProgramID)
	require.NoError(t, err)
	assert.Equal(t, authority, res.Authority)

	// create+init mint, 4 ATAs, 2 transfers, create pool account, initialize
	require.Len(t, res.Instructions, 10)
	assert.Equal(t, constants.SystemProgramID, programOf(res.Instructions[0]))
	for _, ix := range res.Instructions[2:6] {
		assert.Equal(t, constants.AssociatedTokenProgramID, programOf(ix))
	}
	assert.Equal(t, src0, res.Instructions[6].Accounts()[0].PublicKey)
	assert.Equal(t, src1, res.Instructions[7].Accounts()[0].PublicKey)
	assert.Equal(t, constants.SystemProgramID, programOf(res.Instructions[8]))
	init := res.Instructions[9]
	assert.Equal(t, constants.SarosSwapProgramID, programOf(init))
	assert.Equal(t, byte(sarosswap.OpInitialize), dataOf(t, init)[0])
	assert.Equal(t, res.Pool, init.Accounts()[0].PublicKey)
	assert.Equal(t, res.Accounts.Destination, init.Accounts()[6].PublicKey)

	_, err = CreatePool(context.Background(), chain, payer, CreatePoolParams{FeeOwner: feeOwner, Token0Mint: mint0, Token1Mint: mint0, Token0Amount: 1, Token1Amount: 1})
	assert.Error(t, err)
}

type farmFixture struct {
	pool    solana.PublicKey
	state   sarosfarm.Pool
	rewards []solana.PublicKey
	reward  sarosfarm.PoolReward
}

func (f *fakeChain) putFarm(t *testing.T, rewards int) farmFixture {
	t.Helper()
	fx := farmFixture{pool: solana.NewWallet().PublicKey()}
	fx.state = sarosfarm.Pool{
		StakingTokenMint:    solana.NewWallet().PublicKey(),
		StakingTokenAccount: solana.NewWallet().PublicKey(),
		State:               sarosfarm.PoolStateUnpaused,
	}
	data, err := sarosfarm.EncodePool(fx.state)
	f.put(t, fx.pool, constants.SarosFarmProgramID, data, err)
	fx.reward = sarosfarm.PoolReward{
		RewardTokenMint:    solana.NewWallet().PublicKey(),
		RewardTokenAccount: solana.NewWallet().PublicKey(),
		RewardPerBlock:     uint128.From64(10),
		RewardEndBlock:     1_000,
		TotalShares:        100,
		LastUpdatedBlock:   100,
		State:              sarosfarm.PoolStateUnpaused,
	}
	f.putMint(t, fx.reward.RewardTokenMint, 1_000_000, 1)
	for i := 0; i < rewards; i++ {
		addr := solana.NewWallet().PublicKey()
		data, err := sarosfarm.EncodePoolReward(fx.reward)
		f.put(t, addr, constants.SarosFarmProgramID, data, err)
		fx.rewards = append(fx.rewards, addr)
	}
	return fx
}

func TestStake(t *testing.T) {
	chain := newFakeChain()
	fx := chain.putFarm(t, 2)
	user := solana.NewWallet().PublicKey()
	staking := chain.putATA(t, user, fx.state.StakingTokenMint, 1_000)
	// user already enrolled in the first reward
	enrolled, _, err := pda.FarmUserPoolReward(user, fx.rewards[0], constants.SarosFarmProgramID)
	require.NoError(t, err)
	data, err := sarosfarm.EncodeUserPoolReward(sarosfarm.UserPoolReward{})
	chain.put(t, enrolled, constants.SarosFarmProgramID, data, err)

	accts, instrs, err := Stake(context.Background(), chain, user, fx.pool, 500, fx.rewards)
	require.NoError(t, err)
	assert.Equal(t, staking, accts.UserStakingTokenAccount)
	assert.Equal(t, fx.state.StakingTokenAccount, accts.PoolStakingTokenAccount)

	require.Len(t, instrs, 5)
	assert.True(t, hasPrefix(t, instrs[0], sarosfarm.CreateUserPoolDiscriminator))
	assert.True(t, hasPrefix(t, instrs[1], sarosfarm.StakePoolDiscriminator))
	assert.True(t, hasPrefix(t, instrs[2], sarosfarm.StakePoolRewardDiscriminator))
	assert.True(t, hasPrefix(t, instrs[3], sarosfarm.CreateUserPoolRewardDiscriminator))
	assert.True(t, hasPrefix(t, instrs[4], sarosfarm.StakePoolRewardDiscriminator))
	assert.Equal(t, uint64(500), leU64(dataOf(t, instrs[1])[8:16]))
}

func TestUnstake(t *testing.T) {
	chain := newFakeChain()
	fx := chain.putFarm(t, 2)
	user := solana.NewWallet().PublicKey()

	accts, instrs, err := Unstake(context.Background(), chain, user, fx.pool, 100, fx.rewards, false)
	require.NoError(t, err)
	authority, _, _ := pda.FarmPoolAuthority(fx.pool, constants.SarosFarmProgramID)
	assert.Equal(t, authority, accts.PoolAuthority)
	require.Len(t, instrs, 5)
	assert.True(t, hasPrefix(t, instrs[0], sarosfarm.UnstakePoolRewardDiscriminator))
	assert.True(t, hasPrefix(t, instrs[1], sarosfarm.UnstakePoolRewardDiscriminator))
	assert.True(t, hasPrefix(t, instrs[2], sarosfarm.UnstakePoolDiscriminator))
	assert.True(t, hasPrefix(t, instrs[3], sarosfarm.StakePoolRewardDiscriminator))
	assert.True(t, hasPrefix(t, instrs[4], sarosfarm.StakePoolRewardDiscriminator))

	_, instrs, err = Unstake(context.Background(), chain, user, fx.pool, 100, fx.rewards, true)
	require.NoError(t, err)
	require.Len(t, instrs, 3)
	assert.True(t, hasPrefix(t, instrs[2], sarosfarm.UnstakePoolDiscriminator))
}

func TestClaimReward(t *testing.T) {
	chain := newFakeChain()
	fx := chain.putFarm(t, 1)
	user := solana.NewWallet().PublicKey()

	accts, instrs, err := ClaimReward(context.Background(), chain, user, fx.rewards[0])
	require.NoError(t, err)
	require.Len(t, instrs, 2)
	assert.Equal(t, constants.AssociatedTokenProgramID, programOf(instrs[0]))
	assert.True(t, hasPrefix(t, instrs[1], sarosfarm.ClaimRewardDiscriminator))
	assert.Equal(t, fx.reward.RewardTokenAccount, accts.PoolRewardTokenAccount)
	authority, _, _ := pda.FarmPoolRewardAuthority(fx.rewards[0], constants.SarosFarmProgramID)
	assert.Equal(t, authority, accts.PoolRewardAuthority)

	_, _, err = ClaimReward(context.Background(), chain, user, solana.NewWallet().PublicKey())
	assert.ErrorIs(t, err, types.ErrPoolRewardNotFound)
}

func TestPendingRewardFromChain(t *testing.T) {
	chain := newFakeChain()
	fx := chain.putFarm(t, 1)
	user := solana.NewWallet().PublicKey()
	addr, _, err := pda.FarmUserPoolReward(user, fx.rewards[0], constants.SarosFarmProgramID)
	require.NoError(t, err)
	data, err := sarosfarm.EncodeUserPoolReward(sarosfarm.UserPoolReward{Amount: 50, RewardPending: 3})
	chain.put(t, addr, constants.SarosFarmProgramID, data, err)
	chain.slot = 110

	// 10 blocks * 10 per block * 50/100 shares + 3 already pending
	got, err := PendingReward(context.Background(), chain, user, fx.rewards[0])
	require.NoError(t, err)
	assert.Equal(t, uint64(53), got)
}

func TestFarmAdminFlows(t *testing.T) {
	root := solana.NewWallet().PublicKey()
	stakingMint := solana.NewWallet().PublicKey()

	fp, err := CreateFarmPool(root, []byte("usdc-saros"), stakingMint)
	require.NoError(t, err)
	want, _, _ := pda.FarmPool([]byte("usdc-saros"), constants.SarosFarmProgramID)
	assert.Equal(t, want, fp.Pool)
	require.Len(t, fp.Instructions, 2)
	assert.True(t, hasPrefix(t, fp.Instructions[0], sarosfarm.CreatePoolDiscriminator))

	rewardMint := solana.NewWallet().PublicKey()
	pr, err := CreateFarmPoolReward(root, fp.Pool, PoolRewardParams{
		Path:             []byte("usdc-saros-r0"),
		RewardMint:       rewardMint,
		RewardPerBlock:   uint128.From64(1_000),
		RewardStartBlock: 10,
		RewardEndBlock:   20,
	})
	require.NoError(t, err)
	require.Len(t, pr.Instructions, 2)
	assert.True(t, hasPrefix(t, pr.Instructions[1], sarosfarm.CreatePoolRewardDiscriminator))
	vault, _ := token.AssociatedAddress(pr.Authority, rewardMint, constants.TokenProgramID)
	assert.Equal(t, vault, pr.Accounts.PoolRewardTokenAccount)

	_, err = CreateFarmPoolReward(root, fp.Pool, PoolRewardParams{Path: []byte("x"), RewardMint: rewardMint, RewardStartBlock: 5, RewardEndBlock: 5})
	assert.Error(t, err)

	instrs, err := SetPause(root, fp.Pool, []solana.PublicKey{pr.PoolReward}, true)
	require.NoError(t, err)
	require.Len(t, instrs, 2)
	assert.True(t, hasPrefix(t, instrs[0], sarosfarm.SetPausePoolDiscriminator))
	assert.True(t, hasPrefix(t, instrs[1], sarosfarm.SetPauseRewardPoolDiscriminator))
	assert.Equal(t, byte(1), dataOf(t, instrs[0])[8])

	_, err = SetPause(root, solana.PublicKey{}, nil, false)
	assert.ErrorIs(t, err, types.ErrNoInstructions)
}

func TestRewardAdminFlows(t *testing.T) {
	chain := newFakeChain()
	fx := chain.putFarm(t, 1)
	root := solana.NewWallet().PublicKey()

	accts, instrs, err := UpdatePoolRewardParams(context.Background(), chain, root, fx.rewards[0], uint128.From64(5), 100, 200)
	require.NoError(t, err)
	require.Len(t, instrs, 1)
	assert.True(t, hasPrefix(t, instrs[0], sarosfarm.UpdatePoolRewardParamsDiscriminator))
	assert.Equal(t, fx.reward.RewardTokenAccount, accts.PoolRewardTokenAccount)

	waccts, instrs, err := WithdrawRewardToken(context.Background(), chain, root, fx.rewards[0], 42)
	require.NoError(t, err)
	require.Len(t, instrs, 2)
	assert.True(t, hasPrefix(t, instrs[1], sarosfarm.WithdrawRewardTokenDiscriminator))
	assert.Equal(t, fx.reward.RewardTokenAccount, waccts.From)
}

func TestFarmAPRFromChain(t *testing.T) {
	chain := newFakeChain()
	mint0, mint1 := solana.NewWallet().PublicKey(), solana.NewWallet().PublicKey()
	swap := chain.putSwapPool(t, mint0, mint1, 1_000_000_000, 2_000_000, 1_000)
	fx := chain.putFarm(t, 1)
	fx.state.StakingTokenMint = swap.pool.LPTokenMint
	data, err := sarosfarm.EncodePool(fx.state)
	chain.put(t, fx.pool, constants.SarosFarmProgramID, data, err)
	chain.putTokenAccount(t, fx.state.StakingTokenAccount, swap.pool.LPTokenMint, solana.NewWallet().PublicKey(), 500)

	oracle := reward.NewStaticOracle(map[string]math.LegacyDec{
		"t0": math.LegacyNewDec(1), "t1": math.LegacyNewDec(1), "r": math.LegacyNewDec(1),
	})
	res, err := FarmAPR(context.Background(), chain, FarmAPRParams{
		FarmPool: fx.pool,
		SwapPool: swap.addr,
		Token0ID: "t0",
		Token1ID: "t1",
		Rewards:  []RewardSource{{PoolReward: fx.rewards[0], TokenID: "r"}},
	}, oracle, WithProgram(config.ProgramConfig{
		SwapProgramID:   constants.SarosSwapProgramID,
		FarmProgramID:   constants.SarosFarmProgramID,
		BlocksPerYear:   1,
		RewardPrecision: config.RewardPrecision,
	}))
	require.NoError(t, err)
	// reserves 1 + 2 in UI units, half of the LP staked
	assert.True(t, res.LiquidityUSD.Equal(math.LegacyMustNewDecFromStr("1.5")), res.LiquidityUSD.String())
	// 10 raw units per block of a 1-decimal reward mint
	assert.True(t, res.AnnualRewardUSD.Equal(math.LegacyNewDec(1)), res.AnnualRewardUSD.String())

	fx.state.StakingTokenMint = solana.NewWallet().PublicKey()
	data, err = sarosfarm.EncodePool(fx.state)
	chain.put(t, fx.pool, constants.SarosFarmProgramID, data, err)
	_, err = FarmAPR(context.Background(), chain, FarmAPRParams{FarmPool: fx.pool, SwapPool: swap.addr}, oracle)
	assert.Error(t, err)
}

// balanceChain also serves getTokenAccountBalance.
type balanceChain struct {
	*fakeChain
	amount   uint64
	decimals uint8
	calls    int
}

func (b *balanceChain) GetTokenAccountBalance(context.Context, solana.PublicKey) (uint64, uint8, error) {
	b.calls++
	return b.amount, b.decimals, nil
}

func TestStakeAPR(t *testing.T) {
	chain := newFakeChain()
	fx := chain.putFarm(t, 1)
	chain.putTokenAccount(t, fx.state.StakingTokenAccount, fx.state.StakingTokenMint, solana.NewWallet().PublicKey(), 2_000)
	chain.putMint(t, fx.state.StakingTokenMint, 1_000_000, 2)

	oracle := reward.NewStaticOracle(map[string]math.LegacyDec{"stake": math.LegacyNewDec(5), "r": math.LegacyNewDec(3)})
	program := WithProgram(config.ProgramConfig{
		SwapProgramID:   constants.SarosSwapProgramID,
		FarmProgramID:   constants.SarosFarmProgramID,
		BlocksPerYear:   1,
		RewardPrecision: config.RewardPrecision,
	})
	sources := []RewardSource{{PoolReward: fx.rewards[0], TokenID: "r"}}

	res, err := StakeAPR(context.Background(), chain, fx.pool, "stake", sources, oracle, program)
	require.NoError(t, err)
	// 2_000 raw at 2 decimals, priced at 5
	assert.True(t, res.LiquidityUSD.Equal(math.LegacyNewDec(100)), res.LiquidityUSD.String())
	assert.True(t, res.AnnualRewardUSD.Equal(math.LegacyNewDec(3)), res.AnnualRewardUSD.String())
	assert.True(t, res.APR.Equal(math.LegacyNewDec(3)), res.APR.String())

	withBalance := &balanceChain{fakeChain: chain, amount: 4_000, decimals: 2}
	res, err = StakeAPR(context.Background(), withBalance, fx.pool, "stake", sources, oracle, program)
	require.NoError(t, err)
	assert.Equal(t, 1, withBalance.calls)
	assert.True(t, res.LiquidityUSD.Equal(math.LegacyNewDec(200)), res.LiquidityUSD.String())

	delete(chain.accounts, fx.reward.RewardTokenMint)
	_, err = StakeAPR(context.Background(), chain, fx.pool, "stake", sources, oracle, program)
	assert.ErrorIs(t, err, types.ErrMintNotFound)
}

func TestApplyPubkeyOverrides(t *testing.T) {
	fee := solana.NewWallet().PublicKey()
	host := solana.NewWallet().PublicKey()
	accts := sarosswap.SwapAccounts{HostFeeAccount: layout.Some(host)}
	applyPubkeyOverrides(&accts, map[string]solana.PublicKey{"fee_account": fee, "host_fee_account": fee})
	assert.Equal(t, fee, accts.FeeAccount)
	got, _ := accts.HostFeeAccount.Get()
	assert.Equal(t, host, got)

	m, err := MergeOverridesFromJSON(nil, []byte(`{"tokenProgram":"`+constants.Token2022ProgramID.String()+`"}`))
	require.NoError(t, err)
	applyPubkeyOverrides(&accts, m)
	assert.Equal(t, constants.Token2022ProgramID, accts.TokenProgram)

	_, err = MergeOverridesFromJSON(nil, []byte(`{"x":"not-a-key"}`))
	assert.Error(t, err)
}

func TestJitoTipAppended(t *testing.T) {
	root := solana.NewWallet().PublicKey()
	tip := solana.NewWallet().PublicKey()
	instrs, err := SetPause(root, solana.NewWallet().PublicKey(), nil, false, WithJitoTip(5_000), WithJitoTipAccount(tip))
	require.NoError(t, err)
	require.Len(t, instrs, 2)
	assert.Equal(t, constants.SystemProgramID, programOf(instrs[1]))
	assert.Equal(t, tip, instrs[1].Accounts()[1].PublicKey)
}
