package autofill

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"lukechampine.com/uint128"

	"github.com/ninja0404/saros-go-sdk/pkg/pda"
	"github.com/ninja0404/saros-go-sdk/pkg/program/sarosfarm"
	"github.com/ninja0404/saros-go-sdk/pkg/reward"
	"github.com/ninja0404/saros-go-sdk/pkg/rpc"
	"github.com/ninja0404/saros-go-sdk/pkg/token"
	"github.com/ninja0404/saros-go-sdk/pkg/types"
)

// Stake deposits amount of the farm's staking token and enrolls the stake in
// every reward stream in rewards.
//
// The instruction list:
//   - creates the user's staking ATA when missing
//   - creates the user pool record when missing
//   - stakes the pool
//   - per reward: creates the user reward record when missing, then stakes it
func Stake(
	ctx context.Context,
	chain rpc.AccountFetcher,
	user, farmPool solana.PublicKey,
	amount uint64,
	rewards []solana.PublicKey,
	opts ...Option,
) (sarosfarm.StakePoolAccounts, []solana.Instruction, error) {
	if err := types.ValidatePublicKeys(map[string]solana.PublicKey{"user": user, "farmPool": farmPool}); err != nil {
		return sarosfarm.StakePoolAccounts{}, nil, err
	}
	if amount == 0 {
		return sarosfarm.StakePoolAccounts{}, nil, types.NewValidationError("amount", "must be greater than 0")
	}
	options := newOptions(opts)
	programID := options.Program.FarmProgramID

	pool, err := FetchFarmPool(ctx, chain, farmPool)
	if err != nil {
		return sarosfarm.StakePoolAccounts{}, nil, err
	}
	if pool.State == sarosfarm.PoolStatePaused {
		options.Log.Warn().Str("pool", farmPool.String()).Msg("staking into a paused farm pool")
	}

	userPool, userPoolNonce, err := pda.FarmUserPool(user, farmPool, programID)
	if err != nil {
		return sarosfarm.StakePoolAccounts{}, nil, err
	}
	userRewards := make([]solana.PublicKey, len(rewards))
	userRewardNonces := make([]uint8, len(rewards))
	for i, pr := range rewards {
		if userRewards[i], userRewardNonces[i], err = pda.FarmUserPoolReward(user, pr, programID); err != nil {
			return sarosfarm.StakePoolAccounts{}, nil, err
		}
	}
	records, err := chain.GetAccounts(ctx, append([]solana.PublicKey{userPool}, userRewards...)...)
	if err != nil {
		return sarosfarm.StakePoolAccounts{}, nil, err
	}

	reqs := []ataRequest{{Wallet: user, Mint: pool.StakingTokenMint, TokenProgram: options.Program.TokenProgramID}}
	batch, err := ensureATABatch(ctx, chain, user, reqs, options.KnownATAs)
	if err != nil {
		return sarosfarm.StakePoolAccounts{}, nil, err
	}
	instrs := batch.Instructions

	if records[0] == nil {
		ix, err := sarosfarm.BuildCreateUserPool(programID, sarosfarm.CreateUserPoolAccounts{
			User:     user,
			Pool:     farmPool,
			UserPool: userPool,
		}, sarosfarm.CreateUserPoolArgs{UserPoolNonce: userPoolNonce})
		if err != nil {
			return sarosfarm.StakePoolAccounts{}, nil, err
		}
		instrs = append(instrs, ix)
	}

	accts := sarosfarm.StakePoolAccounts{
		Pool:                    farmPool,
		PoolStakingTokenAccount: pool.StakingTokenAccount,
		User:                    user,
		UserPool:                userPool,
		UserStakingTokenAccount: reqs[0].Addr,
		TokenProgram:            options.Program.TokenProgramID,
	}
	applyPubkeyOverrides(&accts, options.Overrides)
	ix, err := sarosfarm.BuildStakePool(programID, accts, sarosfarm.AmountArgs{Amount: amount})
	if err != nil {
		return sarosfarm.StakePoolAccounts{}, nil, err
	}
	instrs = append(instrs, ix)

	for i, pr := range rewards {
		if records[1+i] == nil {
			ix, err := sarosfarm.BuildCreateUserPoolReward(programID, sarosfarm.CreateUserPoolRewardAccounts{
				User:           user,
				PoolReward:     pr,
				UserPoolReward: userRewards[i],
			}, sarosfarm.CreateUserPoolRewardArgs{UserPoolRewardNonce: userRewardNonces[i]})
			if err != nil {
				return sarosfarm.StakePoolAccounts{}, nil, err
			}
			instrs = append(instrs, ix)
		}
		ix, err := sarosfarm.BuildStakePoolReward(programID, rewardAccounts(farmPool, pr, user, userPool, userRewards[i]))
		if err != nil {
			return sarosfarm.StakePoolAccounts{}, nil, err
		}
		instrs = append(instrs, ix)
	}
	instrs = appendJitoTip(instrs, user, options)

	writePreview(options, struct {
		Accounts sarosfarm.StakePoolAccounts `json:"accounts"`
		Amount   uint64                      `json:"amount"`
		Rewards  []solana.PublicKey          `json:"rewards"`
	}{accts, amount, rewards})
	return accts, instrs, nil
}

func rewardAccounts(pool, poolReward, user, userPool, userPoolReward solana.PublicKey) sarosfarm.PoolRewardAccounts {
	return sarosfarm.PoolRewardAccounts{
		Pool:           pool,
		PoolReward:     poolReward,
		User:           user,
		UserPool:       userPool,
		UserPoolReward: userPoolReward,
	}
}

// Unstake withdraws amount from the farm. Every reward stream is settled
// first; the remaining stake is re-enrolled afterwards unless isMaxBalance
// says nothing is left.
func Unstake(
	ctx context.Context,
	chain rpc.AccountFetcher,
	user, farmPool solana.PublicKey,
	amount uint64,
	rewards []solana.PublicKey,
	isMaxBalance bool,
	opts ...Option,
) (sarosfarm.UnstakePoolAccounts, []solana.Instruction, error) {
	if err := types.ValidatePublicKeys(map[string]solana.PublicKey{"user": user, "farmPool": farmPool}); err != nil {
		return sarosfarm.UnstakePoolAccounts{}, nil, err
	}
	if amount == 0 {
		return sarosfarm.UnstakePoolAccounts{}, nil, types.NewValidationError("amount", "must be greater than 0")
	}
	options := newOptions(opts)
	programID := options.Program.FarmProgramID

	pool, err := FetchFarmPool(ctx, chain, farmPool)
	if err != nil {
		return sarosfarm.UnstakePoolAccounts{}, nil, err
	}
	authority, _, err := pda.FarmPoolAuthority(farmPool, programID)
	if err != nil {
		return sarosfarm.UnstakePoolAccounts{}, nil, err
	}
	userPool, _, err := pda.FarmUserPool(user, farmPool, programID)
	if err != nil {
		return sarosfarm.UnstakePoolAccounts{}, nil, err
	}
	userStaking, err := token.AssociatedAddress(user, pool.StakingTokenMint, options.Program.TokenProgramID)
	if err != nil {
		return sarosfarm.UnstakePoolAccounts{}, nil, err
	}

	legs := make([]sarosfarm.PoolRewardAccounts, len(rewards))
	var instrs []solana.Instruction
	for i, pr := range rewards {
		userReward, _, err := pda.FarmUserPoolReward(user, pr, programID)
		if err != nil {
			return sarosfarm.UnstakePoolAccounts{}, nil, err
		}
		legs[i] = rewardAccounts(farmPool, pr, user, userPool, userReward)
		ix, err := sarosfarm.BuildUnstakePoolReward(programID, legs[i])
		if err != nil {
			return sarosfarm.UnstakePoolAccounts{}, nil, err
		}
		instrs = append(instrs, ix)
	}

	accts := sarosfarm.UnstakePoolAccounts{
		Pool:                    farmPool,
		PoolAuthority:           authority,
		PoolStakingTokenAccount: pool.StakingTokenAccount,
		User:                    user,
		UserPool:                userPool,
		UserStakingTokenAccount: userStaking,
		TokenProgram:            options.Program.TokenProgramID,
	}
	applyPubkeyOverrides(&accts, options.Overrides)
	ix, err := sarosfarm.BuildUnstakePool(programID, accts, sarosfarm.AmountArgs{Amount: amount})
	if err != nil {
		return sarosfarm.UnstakePoolAccounts{}, nil, err
	}
	instrs = append(instrs, ix)

	if !isMaxBalance {
		for _, leg := range legs {
			ix, err := sarosfarm.BuildStakePoolReward(programID, leg)
			if err != nil {
				return sarosfarm.UnstakePoolAccounts{}, nil, err
			}
			instrs = append(instrs, ix)
		}
	}
	instrs = appendJitoTip(instrs, user, options)

	writePreview(options, struct {
		Accounts     sarosfarm.UnstakePoolAccounts `json:"accounts"`
		Amount       uint64                        `json:"amount"`
		IsMaxBalance bool                          `json:"is_max_balance"`
	}{accts, amount, isMaxBalance})
	return accts, instrs, nil
}

// ClaimReward harvests user's pending reward from poolReward into the user's
// reward token ATA, creating it when missing.
func ClaimReward(
	ctx context.Context,
	chain rpc.AccountFetcher,
	user, poolReward solana.PublicKey,
	opts ...Option,
) (sarosfarm.ClaimRewardAccounts, []solana.Instruction, error) {
	if err := types.ValidatePublicKeys(map[string]solana.PublicKey{"user": user, "poolReward": poolReward}); err != nil {
		return sarosfarm.ClaimRewardAccounts{}, nil, err
	}
	options := newOptions(opts)
	programID := options.Program.FarmProgramID

	pr, err := FetchPoolReward(ctx, chain, poolReward)
	if err != nil {
		return sarosfarm.ClaimRewardAccounts{}, nil, err
	}
	authority, _, err := pda.FarmPoolRewardAuthority(poolReward, programID)
	if err != nil {
		return sarosfarm.ClaimRewardAccounts{}, nil, err
	}
	userReward, _, err := pda.FarmUserPoolReward(user, poolReward, programID)
	if err != nil {
		return sarosfarm.ClaimRewardAccounts{}, nil, err
	}
	reqs := []ataRequest{{Wallet: user, Mint: pr.RewardTokenMint, TokenProgram: options.Program.TokenProgramID}}
	batch, err := ensureATABatch(ctx, chain, user, reqs, options.KnownATAs)
	if err != nil {
		return sarosfarm.ClaimRewardAccounts{}, nil, err
	}

	accts := sarosfarm.ClaimRewardAccounts{
		PoolReward:             poolReward,
		PoolRewardAuthority:    authority,
		PoolRewardTokenAccount: pr.RewardTokenAccount,
		User:                   user,
		UserPoolReward:         userReward,
		UserRewardTokenAccount: reqs[0].Addr,
		TokenProgram:           options.Program.TokenProgramID,
	}
	applyPubkeyOverrides(&accts, options.Overrides)
	ix, err := sarosfarm.BuildClaimReward(programID, accts)
	if err != nil {
		return sarosfarm.ClaimRewardAccounts{}, nil, err
	}
	instrs := append(batch.Instructions, ix)
	instrs = appendJitoTip(instrs, user, options)
	writePreview(options, struct {
		Accounts sarosfarm.ClaimRewardAccounts `json:"accounts"`
	}{accts})
	return accts, instrs, nil
}

// PendingReward projects user's claimable amount on poolReward at the
// current slot.
func PendingReward(ctx context.Context, chain rpc.ChainReader, user, poolReward solana.PublicKey, opts ...Option) (uint64, error) {
	if chain == nil {
		return 0, types.ErrNilRPC
	}
	options := newOptions(opts)
	pr, err := FetchPoolReward(ctx, chain, poolReward)
	if err != nil {
		return 0, err
	}
	userReward, _, err := pda.FarmUserPoolReward(user, poolReward, options.Program.FarmProgramID)
	if err != nil {
		return 0, err
	}
	upr, err := FetchUserPoolReward(ctx, chain, userReward)
	if err != nil {
		return 0, err
	}
	slot, err := chain.GetSlot(ctx)
	if err != nil {
		return 0, err
	}
	return reward.PendingReward(&pr, &upr, slot, options.Program.RewardPrecision)
}

// FarmAPRParams names the on-chain accounts and oracle keys of an LP farm.
type FarmAPRParams struct {
	FarmPool solana.PublicKey
	// SwapPool is the pool whose LP token the farm stakes.
	SwapPool           solana.PublicKey
	Token0ID, Token1ID string
	Rewards            []RewardSource
}

// RewardSource pairs a pool reward account with its oracle key.
type RewardSource struct {
	PoolReward solana.PublicKey
	TokenID    string
}

// FarmAPR prices an LP farm from live state: vault reserves, LP supply, the
// farm's staked LP and each reward's rate.
func FarmAPR(ctx context.Context, chain rpc.AccountFetcher, params FarmAPRParams, oracle reward.PriceOracle, opts ...Option) (reward.Result, error) {
	if chain == nil {
		return reward.Result{}, types.ErrNilRPC
	}
	options := newOptions(opts)
	pool, err := FetchFarmPool(ctx, chain, params.FarmPool)
	if err != nil {
		return reward.Result{}, err
	}
	snap, err := FetchPoolSnapshot(ctx, chain, params.SwapPool)
	if err != nil {
		return reward.Result{}, err
	}
	if !snap.Pool.LPTokenMint.Equals(pool.StakingTokenMint) {
		return reward.Result{}, types.NewValidationError("swapPool", fmt.Sprintf("lp mint %s is not staked by farm %s", snap.Pool.LPTokenMint, params.FarmPool))
	}
	staked, err := FetchTokenAccount(ctx, chain, pool.StakingTokenAccount)
	if err != nil {
		return reward.Result{}, err
	}
	rewards, err := rewardInputs(ctx, chain, params.Rewards)
	if err != nil {
		return reward.Result{}, err
	}
	return reward.FarmAPR(ctx, reward.FarmInput{
		BlocksPerYear: options.Program.BlocksPerYear,
		Rewards:       rewards,
		Token0ID:      params.Token0ID,
		Token1ID:      params.Token1ID,
		Reserve0:      snap.Reserve0,
		Reserve1:      snap.Reserve1,
		Decimals0:     snap.Decimals0,
		Decimals1:     snap.Decimals1,
		LPSupply:      snap.LPSupply,
		TotalStaked:   staked.Amount,
	}, oracle)
}

// StakeAPR prices a single-asset staking pool.
func StakeAPR(ctx context.Context, chain rpc.AccountFetcher, farmPool solana.PublicKey, tokenID string, sources []RewardSource, oracle reward.PriceOracle, opts ...Option) (reward.Result, error) {
	if chain == nil {
		return reward.Result{}, types.ErrNilRPC
	}
	options := newOptions(opts)
	pool, err := FetchFarmPool(ctx, chain, farmPool)
	if err != nil {
		return reward.Result{}, err
	}
	staked, decimals, err := stakedBalance(ctx, chain, pool)
	if err != nil {
		return reward.Result{}, err
	}
	rewards, err := rewardInputs(ctx, chain, sources)
	if err != nil {
		return reward.Result{}, err
	}
	return reward.StakeAPR(ctx, reward.StakeInput{
		BlocksPerYear: options.Program.BlocksPerYear,
		Rewards:       rewards,
		TokenID:       tokenID,
		TotalStaked:   staked,
		Decimals:      decimals,
	}, oracle)
}

// stakedBalance returns the farm vault balance and the staking mint decimals.
// A chain that serves getTokenAccountBalance answers both in one call.
func stakedBalance(ctx context.Context, chain rpc.AccountFetcher, pool sarosfarm.Pool) (uint64, uint8, error) {
	if br, ok := chain.(rpc.TokenBalanceReader); ok {
		return br.GetTokenAccountBalance(ctx, pool.StakingTokenAccount)
	}
	staked, err := FetchTokenAccount(ctx, chain, pool.StakingTokenAccount)
	if err != nil {
		return 0, 0, err
	}
	mint, err := FetchMint(ctx, chain, pool.StakingTokenMint)
	if err != nil {
		return 0, 0, err
	}
	return staked.Amount, mint.Decimals, nil
}

// rewardInputs reads each reward rate and the decimals of its reward mint, so
// the annual value is priced in whole reward tokens.
func rewardInputs(ctx context.Context, chain rpc.AccountFetcher, sources []RewardSource) ([]reward.RewardInput, error) {
	out := make([]reward.RewardInput, 0, len(sources))
	mints := make([]solana.PublicKey, 0, len(sources))
	for _, s := range sources {
		pr, err := FetchPoolReward(ctx, chain, s.PoolReward)
		if err != nil {
			return nil, err
		}
		out = append(out, reward.RewardInput{TokenID: s.TokenID, RewardPerBlock: pr.RewardPerBlock})
		mints = append(mints, pr.RewardTokenMint)
	}
	if len(mints) == 0 {
		return out, nil
	}
	accs, err := chain.GetAccounts(ctx, mints...)
	if err != nil {
		return nil, err
	}
	for i, acc := range accs {
		if acc == nil {
			return nil, fmt.Errorf("%w: %s", types.ErrMintNotFound, mints[i])
		}
		m, err := token.DecodeMint(acc.Data)
		if err != nil {
			return nil, fmt.Errorf("decode reward mint %s: %w", mints[i], err)
		}
		out[i].Decimals = m.Decimals
	}
	return out, nil
}

// CreateFarmPoolResult carries the addresses of a new farm pool.
type CreateFarmPoolResult struct {
	Pool                solana.PublicKey
	Authority           solana.PublicKey
	StakingTokenAccount solana.PublicKey
	Instructions        []solana.Instruction
}

// CreateFarmPool registers a farm for stakingMint at the address derived from
// path and creates the authority's staking vault.
func CreateFarmPool(root solana.PublicKey, path []byte, stakingMint solana.PublicKey, opts ...Option) (CreateFarmPoolResult, error) {
	if err := types.ValidatePublicKeys(map[string]solana.PublicKey{"root": root, "stakingMint": stakingMint}); err != nil {
		return CreateFarmPoolResult{}, err
	}
	if len(path) == 0 {
		return CreateFarmPoolResult{}, types.NewValidationError("path", "cannot be empty")
	}
	options := newOptions(opts)
	programID := options.Program.FarmProgramID

	pool, poolNonce, err := pda.FarmPool(path, programID)
	if err != nil {
		return CreateFarmPoolResult{}, err
	}
	authority, authorityNonce, err := pda.FarmPoolAuthority(pool, programID)
	if err != nil {
		return CreateFarmPoolResult{}, err
	}
	ix, err := sarosfarm.BuildCreatePool(programID, sarosfarm.CreatePoolAccounts{Root: root, Pool: pool}, sarosfarm.CreatePoolArgs{
		PoolPath:           path,
		PoolNonce:          poolNonce,
		PoolAuthorityNonce: authorityNonce,
		StakingTokenMint:   stakingMint,
	})
	if err != nil {
		return CreateFarmPoolResult{}, err
	}
	vault, err := token.AssociatedAddress(authority, stakingMint, options.Program.TokenProgramID)
	if err != nil {
		return CreateFarmPoolResult{}, err
	}
	ataIx, err := token.CreateAssociatedAccount(root, authority, stakingMint, options.Program.TokenProgramID)
	if err != nil {
		return CreateFarmPoolResult{}, err
	}
	return CreateFarmPoolResult{
		Pool:                pool,
		Authority:           authority,
		StakingTokenAccount: vault,
		Instructions:        appendJitoTip([]solana.Instruction{ix, ataIx}, root, options),
	}, nil
}

// PoolRewardParams describes a reward stream.
type PoolRewardParams struct {
	// Path addresses the pool reward account.
	Path             []byte
	RewardMint       solana.PublicKey
	RewardPerBlock   uint128.Uint128
	RewardStartBlock uint64
	RewardEndBlock   uint64
}

// CreateFarmPoolRewardResult carries the addresses of a new reward stream.
type CreateFarmPoolRewardResult struct {
	PoolReward         solana.PublicKey
	Authority          solana.PublicKey
	RewardTokenAccount solana.PublicKey
	Accounts           sarosfarm.CreatePoolRewardAccounts
	Instructions       []solana.Instruction
}

// CreateFarmPoolReward attaches a reward stream to farmPool, funded from
// root's reward token ATA.
func CreateFarmPoolReward(root, farmPool solana.PublicKey, params PoolRewardParams, opts ...Option) (CreateFarmPoolRewardResult, error) {
	if err := types.ValidatePublicKeys(map[string]solana.PublicKey{"root": root, "farmPool": farmPool, "rewardMint": params.RewardMint}); err != nil {
		return CreateFarmPoolRewardResult{}, err
	}
	if len(params.Path) == 0 {
		return CreateFarmPoolRewardResult{}, types.NewValidationError("path", "cannot be empty")
	}
	if params.RewardEndBlock <= params.RewardStartBlock {
		return CreateFarmPoolRewardResult{}, types.NewValidationError("rewardEndBlock", "must be after rewardStartBlock")
	}
	options := newOptions(opts)
	programID := options.Program.FarmProgramID
	tokenProgram := options.Program.TokenProgramID

	poolReward, rewardNonce, err := pda.FarmPoolReward(params.Path, programID)
	if err != nil {
		return CreateFarmPoolRewardResult{}, err
	}
	authority, authorityNonce, err := pda.FarmPoolRewardAuthority(poolReward, programID)
	if err != nil {
		return CreateFarmPoolRewardResult{}, err
	}
	rootATA, err := token.AssociatedAddress(root, params.RewardMint, tokenProgram)
	if err != nil {
		return CreateFarmPoolRewardResult{}, err
	}
	vault, err := token.AssociatedAddress(authority, params.RewardMint, tokenProgram)
	if err != nil {
		return CreateFarmPoolRewardResult{}, err
	}
	ataIx, err := token.CreateAssociatedAccount(root, authority, params.RewardMint, tokenProgram)
	if err != nil {
		return CreateFarmPoolRewardResult{}, err
	}
	accts := sarosfarm.CreatePoolRewardAccounts{
		Root:                   root,
		Pool:                   farmPool,
		PoolReward:             poolReward,
		RootRewardTokenAccount: rootATA,
		PoolRewardTokenAccount: vault,
		TokenProgram:           tokenProgram,
	}
	applyPubkeyOverrides(&accts, options.Overrides)
	ix, err := sarosfarm.BuildCreatePoolReward(programID, accts, sarosfarm.CreatePoolRewardArgs{
		PoolRewardNonce:          rewardNonce,
		PoolRewardAuthorityNonce: authorityNonce,
		RewardTokenMint:          params.RewardMint,
		RewardPerBlock:           params.RewardPerBlock,
		RewardStartBlock:         params.RewardStartBlock,
		RewardEndBlock:           params.RewardEndBlock,
	})
	if err != nil {
		return CreateFarmPoolRewardResult{}, err
	}
	return CreateFarmPoolRewardResult{
		PoolReward:         poolReward,
		Authority:          authority,
		RewardTokenAccount: vault,
		Accounts:           accts,
		Instructions:       appendJitoTip([]solana.Instruction{ataIx, ix}, root, options),
	}, nil
}

// UpdatePoolRewardParams re-rates a reward stream. The program settles the
// funding difference between root's ATA and the reward vault.
func UpdatePoolRewardParams(
	ctx context.Context,
	chain rpc.AccountFetcher,
	root, poolReward solana.PublicKey,
	rewardPerBlock uint128.Uint128,
	startBlock, endBlock uint64,
	opts ...Option,
) (sarosfarm.UpdatePoolRewardParamsAccounts, []solana.Instruction, error) {
	if err := types.ValidatePublicKeys(map[string]solana.PublicKey{"root": root, "poolReward": poolReward}); err != nil {
		return sarosfarm.UpdatePoolRewardParamsAccounts{}, nil, err
	}
	if endBlock <= startBlock {
		return sarosfarm.UpdatePoolRewardParamsAccounts{}, nil, types.NewValidationError("endBlock", "must be after startBlock")
	}
	options := newOptions(opts)
	pr, err := FetchPoolReward(ctx, chain, poolReward)
	if err != nil {
		return sarosfarm.UpdatePoolRewardParamsAccounts{}, nil, err
	}
	rootATA, err := token.AssociatedAddress(root, pr.RewardTokenMint, options.Program.TokenProgramID)
	if err != nil {
		return sarosfarm.UpdatePoolRewardParamsAccounts{}, nil, err
	}
	accts := sarosfarm.UpdatePoolRewardParamsAccounts{
		Root:                   root,
		PoolReward:             poolReward,
		RootRewardTokenAccount: rootATA,
		PoolRewardTokenAccount: pr.RewardTokenAccount,
		TokenProgram:           options.Program.TokenProgramID,
	}
	applyPubkeyOverrides(&accts, options.Overrides)
	ix, err := sarosfarm.BuildUpdatePoolRewardParams(options.Program.FarmProgramID, accts, sarosfarm.UpdatePoolRewardParamsArgs{
		NewRewardPerBlock: rewardPerBlock,
		NewStartBlock:     startBlock,
		NewEndBlock:       endBlock,
	})
	if err != nil {
		return sarosfarm.UpdatePoolRewardParamsAccounts{}, nil, err
	}
	return accts, appendJitoTip([]solana.Instruction{ix}, root, options), nil
}

// WithdrawRewardToken moves amount of unallocated reward tokens from the
// reward vault to root's ATA, creating it when missing.
func WithdrawRewardToken(
	ctx context.Context,
	chain rpc.AccountFetcher,
	root, poolReward solana.PublicKey,
	amount uint64,
	opts ...Option,
) (sarosfarm.WithdrawRewardTokenAccounts, []solana.Instruction, error) {
	if err := types.ValidatePublicKeys(map[string]solana.PublicKey{"root": root, "poolReward": poolReward}); err != nil {
		return sarosfarm.WithdrawRewardTokenAccounts{}, nil, err
	}
	if amount == 0 {
		return sarosfarm.WithdrawRewardTokenAccounts{}, nil, types.NewValidationError("amount", "must be greater than 0")
	}
	options := newOptions(opts)
	programID := options.Program.FarmProgramID
	pr, err := FetchPoolReward(ctx, chain, poolReward)
	if err != nil {
		return sarosfarm.WithdrawRewardTokenAccounts{}, nil, err
	}
	authority, _, err := pda.FarmPoolRewardAuthority(poolReward, programID)
	if err != nil {
		return sarosfarm.WithdrawRewardTokenAccounts{}, nil, err
	}
	reqs := []ataRequest{{Wallet: root, Mint: pr.RewardTokenMint, TokenProgram: options.Program.TokenProgramID}}
	batch, err := ensureATABatch(ctx, chain, root, reqs, options.KnownATAs)
	if err != nil {
		return sarosfarm.WithdrawRewardTokenAccounts{}, nil, err
	}
	accts := sarosfarm.WithdrawRewardTokenAccounts{
		Root:         root,
		PoolReward:   poolReward,
		Authority:    authority,
		From:         pr.RewardTokenAccount,
		To:           reqs[0].Addr,
		TokenProgram: options.Program.TokenProgramID,
	}
	applyPubkeyOverrides(&accts, options.Overrides)
	ix, err := sarosfarm.BuildWithdrawRewardToken(programID, accts, sarosfarm.AmountArgs{Amount: amount})
	if err != nil {
		return sarosfarm.WithdrawRewardTokenAccounts{}, nil, err
	}
	instrs := append(batch.Instructions, ix)
	return accts, appendJitoTip(instrs, root, options), nil
}

// SetPause pauses or resumes a farm pool and, in the same transaction, the
// given reward streams.
func SetPause(root, farmPool solana.PublicKey, rewards []solana.PublicKey, paused bool, opts ...Option) ([]solana.Instruction, error) {
	if err := types.ValidatePublicKey("root", root); err != nil {
		return nil, err
	}
	if farmPool.IsZero() && len(rewards) == 0 {
		return nil, types.ErrNoInstructions
	}
	options := newOptions(opts)
	programID := options.Program.FarmProgramID
	args := sarosfarm.SetPauseArgs{IsPause: paused}

	var instrs []solana.Instruction
	if !farmPool.IsZero() {
		ix, err := sarosfarm.BuildSetPausePool(programID, sarosfarm.SetPausePoolAccounts{Root: root, Pool: farmPool}, args)
		if err != nil {
			return nil, err
		}
		instrs = append(instrs, ix)
	}
	for _, pr := range rewards {
		ix, err := sarosfarm.BuildSetPauseRewardPool(programID, sarosfarm.SetPauseRewardPoolAccounts{Root: root, PoolReward: pr}, args)
		if err != nil {
			return nil, err
		}
		instrs = append(instrs, ix)
	}
	return appendJitoTip(instrs, root, options), nil
}
