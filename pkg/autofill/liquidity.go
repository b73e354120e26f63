package autofill

import (
	"context"
	"fmt"

	"cosmossdk.io/math"
	"github.com/gagliardetto/solana-go"

	"github.com/ninja0404/saros-go-sdk/pkg/constants"
	"github.com/ninja0404/saros-go-sdk/pkg/pda"
	"github.com/ninja0404/saros-go-sdk/pkg/program/sarosswap"
	"github.com/ninja0404/saros-go-sdk/pkg/quote"
	"github.com/ninja0404/saros-go-sdk/pkg/rpc"
	"github.com/ninja0404/saros-go-sdk/pkg/token"
	"github.com/ninja0404/saros-go-sdk/pkg/types"
	"github.com/ninja0404/saros-go-sdk/pkg/wallet"
)

// lpDecimals is the precision of every Saros LP mint.
const lpDecimals = 2

// Deposit mints poolTokenAmount LP tokens, paying at most the slippage-padded
// share of each reserve. Missing ATAs are created, WSOL is wrapped up to the
// token maximum and closed afterwards.
func Deposit(
	ctx context.Context,
	chain rpc.AccountFetcher,
	user, pool solana.PublicKey,
	poolTokenAmount uint64,
	slippage math.LegacyDec,
	opts ...Option,
) (sarosswap.DepositAllTokenTypesAccounts, sarosswap.DepositAllTokenTypesArgs, []solana.Instruction, error) {
	if err := types.ValidatePublicKeys(map[string]solana.PublicKey{"user": user, "pool": pool}); err != nil {
		return sarosswap.DepositAllTokenTypesAccounts{}, sarosswap.DepositAllTokenTypesArgs{}, nil, err
	}
	options := newOptions(opts)
	snap, err := FetchPoolSnapshot(ctx, chain, pool)
	if err != nil {
		return sarosswap.DepositAllTokenTypesAccounts{}, sarosswap.DepositAllTokenTypesArgs{}, nil, err
	}
	bounds, err := quote.DepositAmounts(poolTokenAmount, snap.LPSupply, snap.Reserve0, snap.Reserve1, slippage)
	if err != nil {
		return sarosswap.DepositAllTokenTypesAccounts{}, sarosswap.DepositAllTokenTypesArgs{}, nil, err
	}

	p := snap.Pool
	programID := options.Program.SwapProgramID
	tokenProgram := poolTokenProgram(p, options)
	authority, _, err := pda.SwapPoolAuthority(pool, programID)
	if err != nil {
		return sarosswap.DepositAllTokenTypesAccounts{}, sarosswap.DepositAllTokenTypesArgs{}, nil, err
	}
	reqs := []ataRequest{
		{Wallet: user, Mint: p.Token0Mint, TokenProgram: tokenProgram},
		{Wallet: user, Mint: p.Token1Mint, TokenProgram: tokenProgram},
		{Wallet: user, Mint: p.LPTokenMint, TokenProgram: tokenProgram},
	}
	batch, err := ensureATABatch(ctx, chain, user, reqs, options.KnownATAs)
	if err != nil {
		return sarosswap.DepositAllTokenTypesAccounts{}, sarosswap.DepositAllTokenTypesArgs{}, nil, err
	}
	user0, user1, userLP := reqs[0].Addr, reqs[1].Addr, reqs[2].Addr
	instrs := batch.Instructions
	instrs = append(instrs, wrapShortfall(user, user0, p.Token0Mint, bounds.MaximumToken0, batch.Balances[user0])...)
	instrs = append(instrs, wrapShortfall(user, user1, p.Token1Mint, bounds.MaximumToken1, batch.Balances[user1])...)

	accts := sarosswap.DepositAllTokenTypesAccounts{
		Swap:                  pool,
		Authority:             authority,
		UserTransferAuthority: user,
		SourceA:               user0,
		SourceB:               user1,
		IntoA:                 p.Token0Account,
		IntoB:                 p.Token1Account,
		PoolMint:              p.LPTokenMint,
		Destination:           userLP,
		TokenProgram:          tokenProgram,
	}
	applyPubkeyOverrides(&accts, options.Overrides)
	args := sarosswap.DepositAllTokenTypesArgs{
		PoolTokenAmount: bounds.PoolTokenAmount,
		MaximumTokenA:   bounds.MaximumToken0,
		MaximumTokenB:   bounds.MaximumToken1,
	}
	ix, err := sarosswap.BuildDepositAllTokenTypes(programID, accts, args)
	if err != nil {
		return sarosswap.DepositAllTokenTypesAccounts{}, sarosswap.DepositAllTokenTypesArgs{}, nil, err
	}
	instrs = append(instrs, ix)
	instrs = append(instrs, closeWSOL(user, tokenProgram,
		[]solana.PublicKey{accts.SourceA, accts.SourceB},
		[]solana.PublicKey{p.Token0Mint, p.Token1Mint})...)
	instrs = appendJitoTip(instrs, user, options)

	writePreview(options, struct {
		Accounts sarosswap.DepositAllTokenTypesAccounts `json:"accounts"`
		Args     sarosswap.DepositAllTokenTypesArgs     `json:"args"`
		Bounds   quote.DepositBounds                    `json:"bounds"`
	}{accts, args, bounds})
	return accts, args, instrs, nil
}

// Withdraw burns poolTokenAmount LP tokens for at least the slippage-reduced
// share of each reserve, after the owner withdraw fee.
func Withdraw(
	ctx context.Context,
	chain rpc.AccountFetcher,
	user, pool solana.PublicKey,
	poolTokenAmount uint64,
	slippage math.LegacyDec,
	opts ...Option,
) (sarosswap.WithdrawAllTokenTypesAccounts, sarosswap.WithdrawAllTokenTypesArgs, []solana.Instruction, error) {
	if err := types.ValidatePublicKeys(map[string]solana.PublicKey{"user": user, "pool": pool}); err != nil {
		return sarosswap.WithdrawAllTokenTypesAccounts{}, sarosswap.WithdrawAllTokenTypesArgs{}, nil, err
	}
	options := newOptions(opts)
	snap, err := FetchPoolSnapshot(ctx, chain, pool)
	if err != nil {
		return sarosswap.WithdrawAllTokenTypesAccounts{}, sarosswap.WithdrawAllTokenTypesArgs{}, nil, err
	}
	p := snap.Pool
	bounds, err := quote.WithdrawAmounts(poolTokenAmount, snap.LPSupply, snap.Reserve0, snap.Reserve1, p.Fees(), slippage)
	if err != nil {
		return sarosswap.WithdrawAllTokenTypesAccounts{}, sarosswap.WithdrawAllTokenTypesArgs{}, nil, err
	}

	programID := options.Program.SwapProgramID
	tokenProgram := poolTokenProgram(p, options)
	authority, _, err := pda.SwapPoolAuthority(pool, programID)
	if err != nil {
		return sarosswap.WithdrawAllTokenTypesAccounts{}, sarosswap.WithdrawAllTokenTypesArgs{}, nil, err
	}
	reqs := []ataRequest{
		{Wallet: user, Mint: p.Token0Mint, TokenProgram: tokenProgram},
		{Wallet: user, Mint: p.Token1Mint, TokenProgram: tokenProgram},
		{Wallet: user, Mint: p.LPTokenMint, TokenProgram: tokenProgram},
	}
	batch, err := ensureATABatch(ctx, chain, user, reqs, options.KnownATAs)
	if err != nil {
		return sarosswap.WithdrawAllTokenTypesAccounts{}, sarosswap.WithdrawAllTokenTypesArgs{}, nil, err
	}
	user0, user1, userLP := reqs[0].Addr, reqs[1].Addr, reqs[2].Addr
	if bal, ok := batch.Balances[userLP]; ok && bal < poolTokenAmount {
		return sarosswap.WithdrawAllTokenTypesAccounts{}, sarosswap.WithdrawAllTokenTypesArgs{}, nil,
			fmt.Errorf("%w: lp balance %d < %d", types.ErrInsufficientBalance, bal, poolTokenAmount)
	}

	accts := sarosswap.WithdrawAllTokenTypesAccounts{
		Swap:                  pool,
		Authority:             authority,
		UserTransferAuthority: user,
		PoolMint:              p.LPTokenMint,
		Source:                userLP,
		FromA:                 p.Token0Account,
		FromB:                 p.Token1Account,
		UserA:                 user0,
		UserB:                 user1,
		FeeAccount:            p.FeeAccount,
		TokenProgram:          tokenProgram,
	}
	applyPubkeyOverrides(&accts, options.Overrides)
	args := sarosswap.WithdrawAllTokenTypesArgs{
		PoolTokenAmount: bounds.PoolTokenAmount,
		MinimumTokenA:   bounds.MinimumToken0,
		MinimumTokenB:   bounds.MinimumToken1,
	}
	ix, err := sarosswap.BuildWithdrawAllTokenTypes(programID, accts, args)
	if err != nil {
		return sarosswap.WithdrawAllTokenTypesAccounts{}, sarosswap.WithdrawAllTokenTypesArgs{}, nil, err
	}
	instrs := append(batch.Instructions, ix)
	instrs = append(instrs, closeWSOL(user, tokenProgram,
		[]solana.PublicKey{accts.UserA, accts.UserB},
		[]solana.PublicKey{p.Token0Mint, p.Token1Mint})...)
	instrs = appendJitoTip(instrs, user, options)

	writePreview(options, struct {
		Accounts sarosswap.WithdrawAllTokenTypesAccounts `json:"accounts"`
		Args     sarosswap.WithdrawAllTokenTypesArgs     `json:"args"`
		Bounds   quote.WithdrawBounds                    `json:"bounds"`
	}{accts, args, bounds})
	return accts, args, instrs, nil
}

// CreatePoolParams seeds a new swap pool.
type CreatePoolParams struct {
	// FeeOwner receives the owner trade and withdraw fees in LP tokens.
	FeeOwner               solana.PublicKey
	Token0Mint, Token1Mint solana.PublicKey
	// Token0Account and Token1Account fund the pool; zero means the payer's ATA.
	Token0Account, Token1Account solana.PublicKey
	Token0Amount, Token1Amount   uint64
	CurveType                    uint8
	CurveParameters              [32]byte
}

// CreatePoolResult carries the new pool's addresses and the keypairs that
// must co-sign the transaction.
type CreatePoolResult struct {
	Pool         solana.PublicKey
	Authority    solana.PublicKey
	LPMint       solana.PublicKey
	Accounts     sarosswap.InitializeAccounts
	Instructions []solana.Instruction
	Signers      []wallet.Local
}

// CreatePool builds a complete pool bootstrap: LP mint, vaults, LP and fee
// accounts, the initial liquidity transfer, the pool account and initialize.
//
// The pool keypair is seeded by a fresh program-derived seed and the LP mint
// keypair by the pool authority, so both addresses are reproducible from the
// seed. Sign with payer plus every Signers entry.
func CreatePool(ctx context.Context, chain rpc.ChainReader, payer solana.PublicKey, params CreatePoolParams, opts ...Option) (CreatePoolResult, error) {
	if chain == nil {
		return CreatePoolResult{}, types.ErrNilRPC
	}
	if err := types.ValidatePublicKeys(map[string]solana.PublicKey{
		"payer": payer, "feeOwner": params.FeeOwner, "token0Mint": params.Token0Mint, "token1Mint": params.Token1Mint,
	}); err != nil {
		return CreatePoolResult{}, err
	}
	if params.Token0Mint.Equals(params.Token1Mint) {
		return CreatePoolResult{}, types.NewValidationError("token1Mint", "must differ from token0Mint")
	}
	if params.Token0Amount == 0 || params.Token1Amount == 0 {
		return CreatePoolResult{}, types.ErrZeroAmount
	}
	options := newOptions(opts)
	programID := options.Program.SwapProgramID
	tokenProgram := options.Program.TokenProgramID

	seed, err := pda.NewSwapPoolSeed(programID)
	if err != nil {
		return CreatePoolResult{}, err
	}
	poolKey, err := wallet.NewLocalFromSeed(seed[:])
	if err != nil {
		return CreatePoolResult{}, err
	}
	pool := poolKey.PublicKey()
	authority, _, err := pda.SwapPoolAuthority(pool, programID)
	if err != nil {
		return CreatePoolResult{}, err
	}
	lpKey, err := wallet.NewLocalFromSeed(authority[:])
	if err != nil {
		return CreatePoolResult{}, err
	}
	lpMint := lpKey.PublicKey()

	var instrs []solana.Instruction
	mintAcc, err := chain.GetAccounts(ctx, lpMint)
	if err != nil {
		return CreatePoolResult{}, err
	}
	if mintAcc[0] == nil {
		rent, err := chain.GetMinimumBalanceForRentExemption(ctx, constants.MintSpan)
		if err != nil {
			return CreatePoolResult{}, err
		}
		mintIxs, err := token.CreateMint(payer, lpMint, authority, lpDecimals, rent)
		if err != nil {
			return CreatePoolResult{}, err
		}
		instrs = append(instrs, mintIxs...)
	}

	reqs := []ataRequest{
		{Wallet: authority, Mint: params.Token0Mint, TokenProgram: tokenProgram},
		{Wallet: authority, Mint: params.Token1Mint, TokenProgram: tokenProgram},
		{Wallet: payer, Mint: lpMint, TokenProgram: tokenProgram},
		{Wallet: params.FeeOwner, Mint: lpMint, TokenProgram: tokenProgram},
	}
	funding := []struct {
		account *solana.PublicKey
		mint    solana.PublicKey
	}{{&params.Token0Account, params.Token0Mint}, {&params.Token1Account, params.Token1Mint}}
	for _, f := range funding {
		if f.account.IsZero() {
			reqs = append(reqs, ataRequest{Wallet: payer, Mint: f.mint, TokenProgram: tokenProgram})
		}
	}
	batch, err := ensureATABatch(ctx, chain, payer, reqs, options.KnownATAs)
	if err != nil {
		return CreatePoolResult{}, err
	}
	instrs = append(instrs, batch.Instructions...)
	vault0, vault1, payerLP, feeLP := reqs[0].Addr, reqs[1].Addr, reqs[2].Addr, reqs[3].Addr

	next := 4
	for i, f := range funding {
		if f.account.IsZero() {
			*f.account = reqs[next].Addr
			next++
			amount := params.Token0Amount
			if i == 1 {
				amount = params.Token1Amount
			}
			instrs = append(instrs, wrapShortfall(payer, *f.account, f.mint, amount, batch.Balances[*f.account])...)
		}
	}

	t0, err := token.Transfer(params.Token0Account, vault0, payer, params.Token0Amount)
	if err != nil {
		return CreatePoolResult{}, err
	}
	t1, err := token.Transfer(params.Token1Account, vault1, payer, params.Token1Amount)
	if err != nil {
		return CreatePoolResult{}, err
	}
	instrs = append(instrs, t0, t1)

	rent, err := chain.GetMinimumBalanceForRentExemption(ctx, constants.SwapPoolSpan)
	if err != nil {
		return CreatePoolResult{}, err
	}
	createIx, err := token.CreateProgramAccount(payer, pool, programID, constants.SwapPoolSpan, rent)
	if err != nil {
		return CreatePoolResult{}, err
	}
	instrs = append(instrs, createIx)

	accts := sarosswap.InitializeAccounts{
		Swap:         pool,
		Authority:    authority,
		TokenA:       vault0,
		TokenB:       vault1,
		PoolMint:     lpMint,
		FeeAccount:   feeLP,
		Destination:  payerLP,
		TokenProgram: tokenProgram,
	}
	initIx, err := sarosswap.BuildInitialize(programID, accts, sarosswap.InitializeArgs{
		Fees:            options.fees(),
		CurveType:       params.CurveType,
		CurveParameters: params.CurveParameters,
	})
	if err != nil {
		return CreatePoolResult{}, err
	}
	instrs = append(instrs, initIx)
	instrs = append(instrs, closeWSOL(payer, tokenProgram,
		[]solana.PublicKey{params.Token0Account, params.Token1Account},
		[]solana.PublicKey{params.Token0Mint, params.Token1Mint})...)
	instrs = appendJitoTip(instrs, payer, options)

	options.Log.Debug().
		Str("pool", pool.String()).
		Str("lp_mint", lpMint.String()).
		Int("instructions", len(instrs)).
		Msg("create pool")
	writePreview(options, struct {
		Accounts sarosswap.InitializeAccounts `json:"accounts"`
		Seed     solana.PublicKey             `json:"seed"`
	}{accts, seed})

	return CreatePoolResult{
		Pool:         pool,
		Authority:    authority,
		LPMint:       lpMint,
		Accounts:     accts,
		Instructions: instrs,
		Signers:      []wallet.Local{poolKey, lpKey},
	}, nil
}
