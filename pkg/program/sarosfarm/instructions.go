package sarosfarm

import (
	"bytes"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"lukechampine.com/uint128"

	"github.com/ninja0404/saros-go-sdk/pkg/constants"
	"github.com/ninja0404/saros-go-sdk/pkg/layout"
)

var (
	createPoolRewardSchema = layout.NewSchema("CreatePoolReward",
		layout.U8("poolRewardNonce"),
		layout.U8("poolRewardAuthorityNonce"),
		layout.PublicKey("rewardTokenMint"),
		layout.U128("rewardPerBlock"),
		layout.U64("rewardStartBlock"),
		layout.U64("rewardEndBlock"),
	)
	pauseSchema                = layout.NewSchema("SetPause", layout.Bool("isPause"))
	createUserPoolSchema       = layout.NewSchema("CreateUserPool", layout.U8("userPoolNonce"))
	createUserPoolRewardSchema = layout.NewSchema("CreateUserPoolReward", layout.U8("userPoolRewardNonce"))
	amountSchema               = layout.NewSchema("Amount", layout.U64("amount"))
	emptySchema                = layout.NewSchema("Empty")
	updateRewardParamsSchema   = layout.NewSchema("UpdatePoolRewardParams",
		layout.U128("newRewardPerBlock"),
		layout.U64("newStartBlock"),
		layout.U64("newEndBlock"),
	)
)

func build(programID solana.PublicKey, metas []*solana.AccountMeta, disc []byte, s layout.Schema, r layout.Record) (solana.Instruction, error) {
	data, err := layout.EncodeInstruction(disc, s, r)
	if err != nil {
		return nil, fmt.Errorf("encode args: %w", err)
	}
	return solana.NewInstruction(programOrDefault(programID), metas, data), nil
}

// CreatePoolArgs carries a variable-length path, so it is Borsh encoded.
type CreatePoolArgs struct {
	PoolPath           []byte
	PoolNonce          uint8
	PoolAuthorityNonce uint8
	StakingTokenMint   solana.PublicKey
}

type CreatePoolAccounts struct {
	Root          solana.PublicKey
	Pool          solana.PublicKey
	SystemProgram solana.PublicKey
}

func (a CreatePoolAccounts) ToAccountMetas() []*solana.AccountMeta {
	metas := make([]*solana.AccountMeta, 0, 3)
	metas = append(metas, solana.NewAccountMeta(a.Root, true, true))
	metas = append(metas, solana.NewAccountMeta(a.Pool, true, false))
	metas = append(metas, solana.NewAccountMeta(orSystem(a.SystemProgram), false, false))
	return metas
}

func BuildCreatePool(programID solana.PublicKey, accounts CreatePoolAccounts, args CreatePoolArgs) (solana.Instruction, error) {
	buf := bytes.NewBuffer(make([]byte, 0, 128))
	buf.Write(CreatePoolDiscriminator)
	if err := bin.NewBorshEncoder(buf).Encode(args); err != nil {
		return nil, fmt.Errorf("encode args: %w", err)
	}
	return solana.NewInstruction(programOrDefault(programID), accounts.ToAccountMetas(), buf.Bytes()), nil
}

type CreatePoolRewardArgs struct {
	PoolRewardNonce          uint8
	PoolRewardAuthorityNonce uint8
	RewardTokenMint          solana.PublicKey
	RewardPerBlock           uint128.Uint128
	RewardStartBlock         uint64
	RewardEndBlock           uint64
}

type CreatePoolRewardAccounts struct {
	Root                   solana.PublicKey
	Pool                   solana.PublicKey
	PoolReward             solana.PublicKey
	RootRewardTokenAccount solana.PublicKey
	PoolRewardTokenAccount solana.PublicKey
	TokenProgram           solana.PublicKey
	SystemProgram          solana.PublicKey
}

func (a CreatePoolRewardAccounts) ToAccountMetas() []*solana.AccountMeta {
	metas := make([]*solana.AccountMeta, 0, 7)
	metas = append(metas, solana.NewAccountMeta(a.Root, true, true))
	metas = append(metas, solana.NewAccountMeta(a.Pool, false, false))
	metas = append(metas, solana.NewAccountMeta(a.PoolReward, true, false))
	metas = append(metas, solana.NewAccountMeta(a.RootRewardTokenAccount, true, false))
	metas = append(metas, solana.NewAccountMeta(a.PoolRewardTokenAccount, true, false))
	metas = append(metas, solana.NewAccountMeta(orToken(a.TokenProgram), false, false))
	metas = append(metas, solana.NewAccountMeta(orSystem(a.SystemProgram), false, false))
	return metas
}

func BuildCreatePoolReward(programID solana.PublicKey, accounts CreatePoolRewardAccounts, args CreatePoolRewardArgs) (solana.Instruction, error) {
	return build(programID, accounts.ToAccountMetas(), CreatePoolRewardDiscriminator, createPoolRewardSchema, layout.Record{
		"poolRewardNonce":          args.PoolRewardNonce,
		"poolRewardAuthorityNonce": args.PoolRewardAuthorityNonce,
		"rewardTokenMint":          args.RewardTokenMint,
		"rewardPerBlock":           args.RewardPerBlock,
		"rewardStartBlock":         args.RewardStartBlock,
		"rewardEndBlock":           args.RewardEndBlock,
	})
}

type SetPauseArgs struct {
	IsPause bool
}

type SetPausePoolAccounts struct {
	Root solana.PublicKey
	Pool solana.PublicKey
}

func (a SetPausePoolAccounts) ToAccountMetas() []*solana.AccountMeta {
	return []*solana.AccountMeta{
		solana.NewAccountMeta(a.Root, true, true),
		solana.NewAccountMeta(a.Pool, true, false),
	}
}

func BuildSetPausePool(programID solana.PublicKey, accounts SetPausePoolAccounts, args SetPauseArgs) (solana.Instruction, error) {
	return build(programID, accounts.ToAccountMetas(), SetPausePoolDiscriminator, pauseSchema, layout.Record{"isPause": args.IsPause})
}

type SetPauseRewardPoolAccounts struct {
	Root       solana.PublicKey
	PoolReward solana.PublicKey
}

func (a SetPauseRewardPoolAccounts) ToAccountMetas() []*solana.AccountMeta {
	return []*solana.AccountMeta{
		solana.NewAccountMeta(a.Root, true, true),
		solana.NewAccountMeta(a.PoolReward, true, false),
	}
}

func BuildSetPauseRewardPool(programID solana.PublicKey, accounts SetPauseRewardPoolAccounts, args SetPauseArgs) (solana.Instruction, error) {
	return build(programID, accounts.ToAccountMetas(), SetPauseRewardPoolDiscriminator, pauseSchema, layout.Record{"isPause": args.IsPause})
}

type CreateUserPoolArgs struct {
	UserPoolNonce uint8
}

type CreateUserPoolAccounts struct {
	User          solana.PublicKey
	Pool          solana.PublicKey
	UserPool      solana.PublicKey
	SystemProgram solana.PublicKey
}

func (a CreateUserPoolAccounts) ToAccountMetas() []*solana.AccountMeta {
	metas := make([]*solana.AccountMeta, 0, 4)
	metas = append(metas, solana.NewAccountMeta(a.User, true, true))
	metas = append(metas, solana.NewAccountMeta(a.Pool, false, false))
	metas = append(metas, solana.NewAccountMeta(a.UserPool, true, false))
	metas = append(metas, solana.NewAccountMeta(orSystem(a.SystemProgram), false, false))
	return metas
}

func BuildCreateUserPool(programID solana.PublicKey, accounts CreateUserPoolAccounts, args CreateUserPoolArgs) (solana.Instruction, error) {
	return build(programID, accounts.ToAccountMetas(), CreateUserPoolDiscriminator, createUserPoolSchema, layout.Record{"userPoolNonce": args.UserPoolNonce})
}

type CreateUserPoolRewardArgs struct {
	UserPoolRewardNonce uint8
}

type CreateUserPoolRewardAccounts struct {
	User           solana.PublicKey
	PoolReward     solana.PublicKey
	UserPoolReward solana.PublicKey
	SystemProgram  solana.PublicKey
}

func (a CreateUserPoolRewardAccounts) ToAccountMetas() []*solana.AccountMeta {
	metas := make([]*solana.AccountMeta, 0, 4)
	metas = append(metas, solana.NewAccountMeta(a.User, true, true))
	metas = append(metas, solana.NewAccountMeta(a.PoolReward, false, false))
	metas = append(metas, solana.NewAccountMeta(a.UserPoolReward, true, false))
	metas = append(metas, solana.NewAccountMeta(orSystem(a.SystemProgram), false, false))
	return metas
}

func BuildCreateUserPoolReward(programID solana.PublicKey, accounts CreateUserPoolRewardAccounts, args CreateUserPoolRewardArgs) (solana.Instruction, error) {
	return build(programID, accounts.ToAccountMetas(), CreateUserPoolRewardDiscriminator, createUserPoolRewardSchema, layout.Record{"userPoolRewardNonce": args.UserPoolRewardNonce})
}

type AmountArgs struct {
	Amount uint64
}

type StakePoolAccounts struct {
	Pool                    solana.PublicKey
	PoolStakingTokenAccount solana.PublicKey
	User                    solana.PublicKey
	UserPool                solana.PublicKey
	UserStakingTokenAccount solana.PublicKey
	TokenProgram            solana.PublicKey
}

func (a StakePoolAccounts) ToAccountMetas() []*solana.AccountMeta {
	metas := make([]*solana.AccountMeta, 0, 6)
	metas = append(metas, solana.NewAccountMeta(a.Pool, true, false))
	metas = append(metas, solana.NewAccountMeta(a.PoolStakingTokenAccount, true, false))
	metas = append(metas, solana.NewAccountMeta(a.User, false, true))
	metas = append(metas, solana.NewAccountMeta(a.UserPool, true, false))
	metas = append(metas, solana.NewAccountMeta(a.UserStakingTokenAccount, true, false))
	metas = append(metas, solana.NewAccountMeta(orToken(a.TokenProgram), false, false))
	return metas
}

func BuildStakePool(programID solana.PublicKey, accounts StakePoolAccounts, args AmountArgs) (solana.Instruction, error) {
	return build(programID, accounts.ToAccountMetas(), StakePoolDiscriminator, amountSchema, layout.Record{"amount": args.Amount})
}

// PoolRewardAccounts are shared by stake_pool_reward and unstake_pool_reward.
type PoolRewardAccounts struct {
	Pool           solana.PublicKey
	PoolReward     solana.PublicKey
	User           solana.PublicKey
	UserPool       solana.PublicKey
	UserPoolReward solana.PublicKey
}

func (a PoolRewardAccounts) ToAccountMetas() []*solana.AccountMeta {
	metas := make([]*solana.AccountMeta, 0, 5)
	metas = append(metas, solana.NewAccountMeta(a.Pool, false, false))
	metas = append(metas, solana.NewAccountMeta(a.PoolReward, true, false))
	metas = append(metas, solana.NewAccountMeta(a.User, false, true))
	metas = append(metas, solana.NewAccountMeta(a.UserPool, true, false))
	metas = append(metas, solana.NewAccountMeta(a.UserPoolReward, true, false))
	return metas
}

func BuildStakePoolReward(programID solana.PublicKey, accounts PoolRewardAccounts) (solana.Instruction, error) {
	return build(programID, accounts.ToAccountMetas(), StakePoolRewardDiscriminator, emptySchema, layout.Record{})
}

func BuildUnstakePoolReward(programID solana.PublicKey, accounts PoolRewardAccounts) (solana.Instruction, error) {
	return build(programID, accounts.ToAccountMetas(), UnstakePoolRewardDiscriminator, emptySchema, layout.Record{})
}

type UnstakePoolAccounts struct {
	Pool                    solana.PublicKey
	PoolAuthority           solana.PublicKey
	PoolStakingTokenAccount solana.PublicKey
	User                    solana.PublicKey
	UserPool                solana.PublicKey
	UserStakingTokenAccount solana.PublicKey
	TokenProgram            solana.PublicKey
}

func (a UnstakePoolAccounts) ToAccountMetas() []*solana.AccountMeta {
	metas := make([]*solana.AccountMeta, 0, 7)
	metas = append(metas, solana.NewAccountMeta(a.Pool, true, false))
	metas = append(metas, solana.NewAccountMeta(a.PoolAuthority, false, false))
	metas = append(metas, solana.NewAccountMeta(a.PoolStakingTokenAccount, true, false))
	metas = append(metas, solana.NewAccountMeta(a.User, false, true))
	metas = append(metas, solana.NewAccountMeta(a.UserPool, true, false))
	metas = append(metas, solana.NewAccountMeta(a.UserStakingTokenAccount, true, false))
	metas = append(metas, solana.NewAccountMeta(orToken(a.TokenProgram), false, false))
	return metas
}

func BuildUnstakePool(programID solana.PublicKey, accounts UnstakePoolAccounts, args AmountArgs) (solana.Instruction, error) {
	return build(programID, accounts.ToAccountMetas(), UnstakePoolDiscriminator, amountSchema, layout.Record{"amount": args.Amount})
}

type ClaimRewardAccounts struct {
	PoolReward             solana.PublicKey
	PoolRewardAuthority    solana.PublicKey
	PoolRewardTokenAccount solana.PublicKey
	User                   solana.PublicKey
	UserPoolReward         solana.PublicKey
	UserRewardTokenAccount solana.PublicKey
	TokenProgram           solana.PublicKey
}

func (a ClaimRewardAccounts) ToAccountMetas() []*solana.AccountMeta {
	metas := make([]*solana.AccountMeta, 0, 7)
	metas = append(metas, solana.NewAccountMeta(a.PoolReward, true, false))
	metas = append(metas, solana.NewAccountMeta(a.PoolRewardAuthority, false, false))
	metas = append(metas, solana.NewAccountMeta(a.PoolRewardTokenAccount, true, false))
	metas = append(metas, solana.NewAccountMeta(a.User, false, true))
	metas = append(metas, solana.NewAccountMeta(a.UserPoolReward, true, false))
	metas = append(metas, solana.NewAccountMeta(a.UserRewardTokenAccount, true, false))
	metas = append(metas, solana.NewAccountMeta(orToken(a.TokenProgram), false, false))
	return metas
}

func BuildClaimReward(programID solana.PublicKey, accounts ClaimRewardAccounts) (solana.Instruction, error) {
	return build(programID, accounts.ToAccountMetas(), ClaimRewardDiscriminator, emptySchema, layout.Record{})
}

type UpdatePoolRewardParamsArgs struct {
	NewRewardPerBlock uint128.Uint128
	NewStartBlock     uint64
	NewEndBlock       uint64
}

type UpdatePoolRewardParamsAccounts struct {
	Root                   solana.PublicKey
	PoolReward             solana.PublicKey
	RootRewardTokenAccount solana.PublicKey
	PoolRewardTokenAccount solana.PublicKey
	TokenProgram           solana.PublicKey
}

func (a UpdatePoolRewardParamsAccounts) ToAccountMetas() []*solana.AccountMeta {
	metas := make([]*solana.AccountMeta, 0, 5)
	metas = append(metas, solana.NewAccountMeta(a.Root, false, true))
	metas = append(metas, solana.NewAccountMeta(a.PoolReward, true, false))
	metas = append(metas, solana.NewAccountMeta(a.RootRewardTokenAccount, true, false))
	metas = append(metas, solana.NewAccountMeta(a.PoolRewardTokenAccount, true, false))
	metas = append(metas, solana.NewAccountMeta(orToken(a.TokenProgram), false, false))
	return metas
}

func BuildUpdatePoolRewardParams(programID solana.PublicKey, accounts UpdatePoolRewardParamsAccounts, args UpdatePoolRewardParamsArgs) (solana.Instruction, error) {
	return build(programID, accounts.ToAccountMetas(), UpdatePoolRewardParamsDiscriminator, updateRewardParamsSchema, layout.Record{
		"newRewardPerBlock": args.NewRewardPerBlock,
		"newStartBlock":     args.NewStartBlock,
		"newEndBlock":       args.NewEndBlock,
	})
}

type WithdrawRewardTokenAccounts struct {
	Root         solana.PublicKey
	PoolReward   solana.PublicKey
	Authority    solana.PublicKey
	From         solana.PublicKey
	To           solana.PublicKey
	TokenProgram solana.PublicKey
}

func (a WithdrawRewardTokenAccounts) ToAccountMetas() []*solana.AccountMeta {
	metas := make([]*solana.AccountMeta, 0, 6)
	metas = append(metas, solana.NewAccountMeta(a.Root, false, true))
	metas = append(metas, solana.NewAccountMeta(a.PoolReward, false, false))
	metas = append(metas, solana.NewAccountMeta(a.Authority, false, false))
	metas = append(metas, solana.NewAccountMeta(a.From, true, false))
	metas = append(metas, solana.NewAccountMeta(a.To, true, false))
	metas = append(metas, solana.NewAccountMeta(orToken(a.TokenProgram), false, false))
	return metas
}

func BuildWithdrawRewardToken(programID solana.PublicKey, accounts WithdrawRewardTokenAccounts, args AmountArgs) (solana.Instruction, error) {
	return build(programID, accounts.ToAccountMetas(), WithdrawRewardTokenDiscriminator, amountSchema, layout.Record{"amount": args.Amount})
}

func orSystem(pk solana.PublicKey) solana.PublicKey {
	if pk.IsZero() {
		return constants.SystemProgramID
	}
	return pk
}

func orToken(pk solana.PublicKey) solana.PublicKey {
	if pk.IsZero() {
		return constants.TokenProgramID
	}
	return pk
}
