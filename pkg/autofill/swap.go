package autofill

import (
	"context"
	"fmt"

	"cosmossdk.io/math"
	"github.com/gagliardetto/solana-go"

	"github.com/ninja0404/saros-go-sdk/pkg/config"
	"github.com/ninja0404/saros-go-sdk/pkg/layout"
	"github.com/ninja0404/saros-go-sdk/pkg/pda"
	"github.com/ninja0404/saros-go-sdk/pkg/program/sarosswap"
	"github.com/ninja0404/saros-go-sdk/pkg/quote"
	"github.com/ninja0404/saros-go-sdk/pkg/rpc"
	"github.com/ninja0404/saros-go-sdk/pkg/types"
)

// SwapQuote is the expected outcome of swapping AmountIn on one pool.
type SwapQuote struct {
	MintIn, MintOut  solana.PublicKey
	AmountIn         uint64
	Estimate         quote.SwapEstimate
	MinimumAmountOut uint64
}

// QuoteSwap prices amountIn of mintIn against the live pool reserves. The
// trade and owner-trade fees are both charged; slippage is a percentage.
func QuoteSwap(ctx context.Context, chain rpc.AccountFetcher, pool, mintIn solana.PublicKey, amountIn uint64, slippage math.LegacyDec) (SwapQuote, error) {
	if err := types.ValidateSwapParams(amountIn, slippage); err != nil {
		return SwapQuote{}, err
	}
	snap, err := FetchPoolSnapshot(ctx, chain, pool)
	if err != nil {
		return SwapQuote{}, err
	}
	return quoteOn(snap, mintIn, amountIn, slippage)
}

// Quote prices amountIn of mintIn against the snapshot reserves.
func (s PoolSnapshot) Quote(mintIn solana.PublicKey, amountIn uint64, slippage math.LegacyDec) (SwapQuote, error) {
	return quoteOn(s, mintIn, amountIn, slippage)
}

func quoteOn(snap PoolSnapshot, mintIn solana.PublicKey, amountIn uint64, slippage math.LegacyDec) (SwapQuote, error) {
	reserveIn, reserveOut, ok := snap.Reserves(mintIn)
	if !ok {
		return SwapQuote{}, fmt.Errorf("%w: %s", types.ErrMintNotInPool, mintIn)
	}
	mintOut, _ := snap.Pool.OtherMint(mintIn)
	fee, err := totalTradeFee(snap.Pool.Fees())
	if err != nil {
		return SwapQuote{}, err
	}
	est, err := quote.EstimateSwapOutput(amountIn, reserveIn, reserveOut, fee.Numerator, fee.Denominator)
	if err != nil {
		return SwapQuote{}, err
	}
	return SwapQuote{
		MintIn:           mintIn,
		MintOut:          mintOut,
		AmountIn:         amountIn,
		Estimate:         est,
		MinimumAmountOut: quote.WithMinReceive(est.AmountOut, slippage),
	}, nil
}

// totalTradeFee folds the LP and owner trade fees into one ratio. Mixed
// denominators are cross-multiplied in wide integers and rejected when the
// folded ratio no longer fits the u64 fee fields.
func totalTradeFee(f config.FeeConfig) (config.Ratio, error) {
	a, b := f.TradeFee, f.OwnerTradeFee
	switch {
	case b.IsZero():
		return a, nil
	case a.IsZero():
		return b, nil
	}
	var num, den math.Int
	if a.Denominator == b.Denominator {
		num = math.NewIntFromUint64(a.Numerator).Add(math.NewIntFromUint64(b.Numerator))
		den = math.NewIntFromUint64(a.Denominator)
	} else {
		aNum, aDen := math.NewIntFromUint64(a.Numerator), math.NewIntFromUint64(a.Denominator)
		bNum, bDen := math.NewIntFromUint64(b.Numerator), math.NewIntFromUint64(b.Denominator)
		num = aNum.Mul(bDen).Add(bNum.Mul(aDen))
		den = aDen.Mul(bDen)
	}
	if !num.IsUint64() || !den.IsUint64() {
		return config.Ratio{}, fmt.Errorf("%w: trade fee %s/%s", types.ErrAmountOverflow, num, den)
	}
	return config.Ratio{Numerator: num.Uint64(), Denominator: den.Uint64()}, nil
}

// Swap trades amountIn of mintIn on pool for at least minimumAmountOut of the
// other pool token.
//
// The instruction list:
//   - creates the user's source and destination ATAs when missing
//   - wraps SOL when the source is WSOL and the ATA holds less than amountIn
//   - creates the host fee LP account when WithHostFeeOwner is set
//   - swaps, then closes WSOL accounts back to native SOL
//
// Example:
//
//	accts, args, instrs, err := autofill.Swap(ctx, rpc, user, pool, usdcMint, 1_000_000, 19_000)
func Swap(
	ctx context.Context,
	chain rpc.AccountFetcher,
	user, pool, mintIn solana.PublicKey,
	amountIn, minimumAmountOut uint64,
	opts ...Option,
) (sarosswap.SwapAccounts, sarosswap.SwapArgs, []solana.Instruction, error) {
	if chain == nil {
		return sarosswap.SwapAccounts{}, sarosswap.SwapArgs{}, nil, types.ErrNilRPC
	}
	if err := types.ValidatePublicKeys(map[string]solana.PublicKey{"user": user, "pool": pool, "mintIn": mintIn}); err != nil {
		return sarosswap.SwapAccounts{}, sarosswap.SwapArgs{}, nil, err
	}
	if amountIn == 0 {
		return sarosswap.SwapAccounts{}, sarosswap.SwapArgs{}, nil, types.NewValidationError("amountIn", "must be greater than 0")
	}
	options := newOptions(opts)

	poolState, err := FetchPool(ctx, chain, pool)
	if err != nil {
		return sarosswap.SwapAccounts{}, sarosswap.SwapArgs{}, nil, err
	}
	args := sarosswap.SwapArgs{AmountIn: amountIn, MinimumAmountOut: minimumAmountOut}
	accts, instrs, err := swapWithPool(ctx, chain, user, poolState, mintIn, args, options)
	if err != nil {
		return sarosswap.SwapAccounts{}, sarosswap.SwapArgs{}, nil, err
	}
	writePreview(options, struct {
		Accounts sarosswap.SwapAccounts `json:"accounts"`
		Args     sarosswap.SwapArgs     `json:"args"`
	}{accts, args})
	return accts, args, instrs, nil
}

// SwapWithSlippage quotes amountIn against the live reserves and swaps with
// the slippage-reduced output as the minimum.
func SwapWithSlippage(
	ctx context.Context,
	chain rpc.AccountFetcher,
	user, pool, mintIn solana.PublicKey,
	amountIn uint64,
	slippage math.LegacyDec,
	opts ...Option,
) (sarosswap.SwapAccounts, SwapQuote, []solana.Instruction, error) {
	if chain == nil {
		return sarosswap.SwapAccounts{}, SwapQuote{}, nil, types.ErrNilRPC
	}
	if err := types.ValidatePublicKeys(map[string]solana.PublicKey{"user": user, "pool": pool, "mintIn": mintIn}); err != nil {
		return sarosswap.SwapAccounts{}, SwapQuote{}, nil, err
	}
	if err := types.ValidateSwapParams(amountIn, slippage); err != nil {
		return sarosswap.SwapAccounts{}, SwapQuote{}, nil, err
	}
	options := newOptions(opts)

	snap, err := FetchPoolSnapshot(ctx, chain, pool)
	if err != nil {
		return sarosswap.SwapAccounts{}, SwapQuote{}, nil, err
	}
	q, err := quoteOn(snap, mintIn, amountIn, slippage)
	if err != nil {
		return sarosswap.SwapAccounts{}, SwapQuote{}, nil, err
	}
	options.Log.Debug().
		Str("pool", pool.String()).
		Uint64("amount_in", amountIn).
		Uint64("expected_out", q.Estimate.AmountOut).
		Uint64("min_out", q.MinimumAmountOut).
		Msg("swap quote")

	args := sarosswap.SwapArgs{AmountIn: amountIn, MinimumAmountOut: q.MinimumAmountOut}
	accts, instrs, err := swapWithPool(ctx, chain, user, snap.Pool, mintIn, args, options)
	if err != nil {
		return sarosswap.SwapAccounts{}, SwapQuote{}, nil, err
	}
	writePreview(options, struct {
		Accounts sarosswap.SwapAccounts `json:"accounts"`
		Args     sarosswap.SwapArgs     `json:"args"`
		Quote    SwapQuote              `json:"quote"`
	}{accts, args, q})
	return accts, q, instrs, nil
}

func swapWithPool(
	ctx context.Context,
	chain rpc.AccountFetcher,
	user solana.PublicKey,
	pool sarosswap.Pool,
	mintIn solana.PublicKey,
	args sarosswap.SwapArgs,
	options *Options,
) (sarosswap.SwapAccounts, []solana.Instruction, error) {
	poolSource, poolDest, ok := pool.Side(mintIn)
	if !ok {
		return sarosswap.SwapAccounts{}, nil, fmt.Errorf("%w: %s", types.ErrMintNotInPool, mintIn)
	}
	mintOut, _ := pool.OtherMint(mintIn)
	programID := options.Program.SwapProgramID
	authority, _, err := pda.SwapPoolAuthority(pool.Address, programID)
	if err != nil {
		return sarosswap.SwapAccounts{}, nil, err
	}
	tokenProgram := poolTokenProgram(pool, options)

	reqs := []ataRequest{
		{Wallet: user, Mint: mintIn, TokenProgram: tokenProgram},
		{Wallet: user, Mint: mintOut, TokenProgram: tokenProgram},
	}
	if !options.HostFeeOwner.IsZero() {
		reqs = append(reqs, ataRequest{Wallet: options.HostFeeOwner, Mint: pool.LPTokenMint, TokenProgram: tokenProgram})
	}
	batch, err := ensureATABatch(ctx, chain, user, reqs, options.KnownATAs)
	if err != nil {
		return sarosswap.SwapAccounts{}, nil, err
	}
	userSource, userDest := reqs[0].Addr, reqs[1].Addr
	instrs := batch.Instructions
	instrs = append(instrs, wrapShortfall(user, userSource, mintIn, args.AmountIn, batch.Balances[userSource])...)

	accts := sarosswap.SwapAccounts{
		TokenSwap:             pool.Address,
		Authority:             authority,
		UserTransferAuthority: user,
		UserSource:            userSource,
		PoolSource:            poolSource,
		PoolDestination:       poolDest,
		UserDestination:       userDest,
		PoolMint:              pool.LPTokenMint,
		FeeAccount:            pool.FeeAccount,
		TokenProgram:          tokenProgram,
	}
	if len(reqs) > 2 {
		accts.HostFeeAccount = layout.Some(reqs[2].Addr)
	}
	applyPubkeyOverrides(&accts, options.Overrides)

	ix, err := sarosswap.BuildSwap(programID, accts, args)
	if err != nil {
		return sarosswap.SwapAccounts{}, nil, err
	}
	instrs = append(instrs, ix)
	instrs = append(instrs, closeWSOL(user, tokenProgram,
		[]solana.PublicKey{accts.UserSource, accts.UserDestination},
		[]solana.PublicKey{mintIn, mintOut})...)
	instrs = appendJitoTip(instrs, user, options)
	return accts, instrs, nil
}

func poolTokenProgram(pool sarosswap.Pool, options *Options) solana.PublicKey {
	if !pool.TokenProgramID.IsZero() {
		return pool.TokenProgramID
	}
	return options.Program.TokenProgramID
}

// RouteAccounts are the two swap legs of a routed trade.
type RouteAccounts struct {
	LegA sarosswap.SwapAccounts
	LegB sarosswap.SwapAccounts
}

// RouteQuote prices a two-hop trade. MiddleAmount is the slippage-reduced
// output of the first leg, used as its minimum and as the second leg's input.
type RouteQuote struct {
	MintIn, MintMiddle, MintOut solana.PublicKey
	AmountIn                    uint64
	MiddleAmount                uint64
	AmountOut                   uint64
	MinimumAmountOut            uint64
}

// QuoteRouteSwap prices mintIn -> middle on poolA, then middle -> out on poolB.
func QuoteRouteSwap(ctx context.Context, chain rpc.AccountFetcher, poolA, poolB, mintIn solana.PublicKey, amountIn uint64, slippage math.LegacyDec) (RouteQuote, error) {
	if err := types.ValidateSwapParams(amountIn, slippage); err != nil {
		return RouteQuote{}, err
	}
	a, b, err := fetchPoolPair(ctx, chain, poolA, poolB)
	if err != nil {
		return RouteQuote{}, err
	}
	snapA, err := snapshot(ctx, chain, a)
	if err != nil {
		return RouteQuote{}, err
	}
	snapB, err := snapshot(ctx, chain, b)
	if err != nil {
		return RouteQuote{}, err
	}
	legA, err := quoteOn(snapA, mintIn, amountIn, slippage)
	if err != nil {
		return RouteQuote{}, err
	}
	if legA.MinimumAmountOut == 0 {
		return RouteQuote{}, types.ErrInsufficientLiquidity
	}
	legB, err := quoteOn(snapB, legA.MintOut, legA.MinimumAmountOut, slippage)
	if err != nil {
		return RouteQuote{}, err
	}
	return RouteQuote{
		MintIn:           mintIn,
		MintMiddle:       legA.MintOut,
		MintOut:          legB.MintOut,
		AmountIn:         amountIn,
		MiddleAmount:     legA.MinimumAmountOut,
		AmountOut:        legB.Estimate.AmountOut,
		MinimumAmountOut: legB.MinimumAmountOut,
	}, nil
}

func fetchPoolPair(ctx context.Context, chain rpc.AccountFetcher, poolA, poolB solana.PublicKey) (sarosswap.Pool, sarosswap.Pool, error) {
	if chain == nil {
		return sarosswap.Pool{}, sarosswap.Pool{}, types.ErrNilRPC
	}
	accs, err := chain.GetAccounts(ctx, poolA, poolB)
	if err != nil {
		return sarosswap.Pool{}, sarosswap.Pool{}, err
	}
	pools := make([]sarosswap.Pool, 2)
	for i, addr := range []solana.PublicKey{poolA, poolB} {
		if accs[i] == nil {
			return sarosswap.Pool{}, sarosswap.Pool{}, fmt.Errorf("%w: %s", types.ErrPoolNotFound, addr)
		}
		if pools[i], err = decodePool(addr, accs[i].Data); err != nil {
			return sarosswap.Pool{}, sarosswap.Pool{}, err
		}
	}
	return pools[0], pools[1], nil
}

// RouteSwap trades through two pools in one instruction list: mintIn ->
// middle on poolA, then middle -> out on poolB. Leg A requires at least
// middleAmount and leg B spends exactly middleAmount, so the route settles or
// fails as a whole. Neither leg pays a host fee.
func RouteSwap(
	ctx context.Context,
	chain rpc.AccountFetcher,
	user, poolA, poolB, mintIn solana.PublicKey,
	amountIn, middleAmount, minimumAmountOut uint64,
	opts ...Option,
) (RouteAccounts, []solana.Instruction, error) {
	if err := types.ValidatePublicKeys(map[string]solana.PublicKey{"user": user, "poolA": poolA, "poolB": poolB, "mintIn": mintIn}); err != nil {
		return RouteAccounts{}, nil, err
	}
	if amountIn == 0 {
		return RouteAccounts{}, nil, types.NewValidationError("amountIn", "must be greater than 0")
	}
	if middleAmount == 0 {
		return RouteAccounts{}, nil, types.NewValidationError("middleAmount", "must be greater than 0")
	}
	options := newOptions(opts)
	programID := options.Program.SwapProgramID

	a, b, err := fetchPoolPair(ctx, chain, poolA, poolB)
	if err != nil {
		return RouteAccounts{}, nil, err
	}
	srcA, dstA, ok := a.Side(mintIn)
	if !ok {
		return RouteAccounts{}, nil, fmt.Errorf("%w: %s", types.ErrMintNotInPool, mintIn)
	}
	mintMiddle, _ := a.OtherMint(mintIn)
	srcB, dstB, ok := b.Side(mintMiddle)
	if !ok {
		return RouteAccounts{}, nil, fmt.Errorf("%w: %s", types.ErrMintNotInPool, mintMiddle)
	}
	mintOut, _ := b.OtherMint(mintMiddle)

	authA, _, err := pda.SwapPoolAuthority(poolA, programID)
	if err != nil {
		return RouteAccounts{}, nil, err
	}
	authB, _, err := pda.SwapPoolAuthority(poolB, programID)
	if err != nil {
		return RouteAccounts{}, nil, err
	}
	tokenProgram := poolTokenProgram(a, options)

	reqs := []ataRequest{
		{Wallet: user, Mint: mintIn, TokenProgram: tokenProgram},
		{Wallet: user, Mint: mintMiddle, TokenProgram: tokenProgram},
		{Wallet: user, Mint: mintOut, TokenProgram: tokenProgram},
	}
	batch, err := ensureATABatch(ctx, chain, user, reqs, options.KnownATAs)
	if err != nil {
		return RouteAccounts{}, nil, err
	}
	userIn, userMiddle, userOut := reqs[0].Addr, reqs[1].Addr, reqs[2].Addr
	instrs := batch.Instructions
	instrs = append(instrs, wrapShortfall(user, userIn, mintIn, amountIn, batch.Balances[userIn])...)

	route := RouteAccounts{
		LegA: sarosswap.SwapAccounts{
			TokenSwap:             poolA,
			Authority:             authA,
			UserTransferAuthority: user,
			UserSource:            userIn,
			PoolSource:            srcA,
			PoolDestination:       dstA,
			UserDestination:       userMiddle,
			PoolMint:              a.LPTokenMint,
			FeeAccount:            a.FeeAccount,
			TokenProgram:          tokenProgram,
		},
		LegB: sarosswap.SwapAccounts{
			TokenSwap:             poolB,
			Authority:             authB,
			UserTransferAuthority: user,
			UserSource:            userMiddle,
			PoolSource:            srcB,
			PoolDestination:       dstB,
			UserDestination:       userOut,
			PoolMint:              b.LPTokenMint,
			FeeAccount:            b.FeeAccount,
			TokenProgram:          poolTokenProgram(b, options),
		},
	}
	ixA, err := sarosswap.BuildSwap(programID, route.LegA, sarosswap.SwapArgs{AmountIn: amountIn, MinimumAmountOut: middleAmount})
	if err != nil {
		return RouteAccounts{}, nil, err
	}
	ixB, err := sarosswap.BuildSwap(programID, route.LegB, sarosswap.SwapArgs{AmountIn: middleAmount, MinimumAmountOut: minimumAmountOut})
	if err != nil {
		return RouteAccounts{}, nil, err
	}
	instrs = append(instrs, ixA, ixB)
	instrs = append(instrs, closeWSOL(user, tokenProgram,
		[]solana.PublicKey{userIn, userMiddle, userOut},
		[]solana.PublicKey{mintIn, mintMiddle, mintOut})...)
	instrs = appendJitoTip(instrs, user, options)

	writePreview(options, struct {
		Route            RouteAccounts `json:"route"`
		AmountIn         uint64        `json:"amount_in"`
		MiddleAmount     uint64        `json:"middle_amount"`
		MinimumAmountOut uint64        `json:"minimum_amount_out"`
	}{route, amountIn, middleAmount, minimumAmountOut})
	return route, instrs, nil
}
