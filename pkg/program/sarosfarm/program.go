// Package sarosfarm mirrors the Saros yield-farm Anchor program: account
// decoders, instruction builders and the program error table.
package sarosfarm

import (
	"github.com/gagliardetto/solana-go"

	"github.com/ninja0404/saros-go-sdk/pkg/constants"
	"github.com/ninja0404/saros-go-sdk/pkg/layout"
)

// ProgramKey is the mainnet farm program.
var ProgramKey = constants.SarosFarmProgramID

var (
	CreatePoolDiscriminator             = layout.InstructionDiscriminator("create_pool")
	CreatePoolRewardDiscriminator       = layout.InstructionDiscriminator("create_pool_reward")
	SetPausePoolDiscriminator           = layout.InstructionDiscriminator("set_pause_pool")
	SetPauseRewardPoolDiscriminator     = layout.InstructionDiscriminator("set_pause_reward_pool")
	CreateUserPoolDiscriminator         = layout.InstructionDiscriminator("create_user_pool")
	CreateUserPoolRewardDiscriminator   = layout.InstructionDiscriminator("create_user_pool_reward")
	StakePoolDiscriminator              = layout.InstructionDiscriminator("stake_pool")
	StakePoolRewardDiscriminator        = layout.InstructionDiscriminator("stake_pool_reward")
	UnstakePoolRewardDiscriminator      = layout.InstructionDiscriminator("unstake_pool_reward")
	ClaimRewardDiscriminator            = layout.InstructionDiscriminator("claim_reward")
	UnstakePoolDiscriminator            = layout.InstructionDiscriminator("unstake_pool")
	UpdatePoolRewardParamsDiscriminator = layout.InstructionDiscriminator("update_pool_reward_params")
	WithdrawRewardTokenDiscriminator    = layout.InstructionDiscriminator("withdraw_reward_token")
)

var (
	PoolDiscriminator           = layout.AccountDiscriminator("Pool")
	PoolRewardDiscriminator     = layout.AccountDiscriminator("PoolReward")
	UserPoolDiscriminator       = layout.AccountDiscriminator("UserPool")
	UserPoolRewardDiscriminator = layout.AccountDiscriminator("UserPoolReward")
)

func programOrDefault(programID solana.PublicKey) solana.PublicKey {
	if programID.IsZero() {
		return ProgramKey
	}
	return programID
}
