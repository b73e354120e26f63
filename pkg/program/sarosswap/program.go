// Package sarosswap holds the account layout, instruction builders and error
// table of the Saros AMM, a fork of the SPL token-swap program.
package sarosswap

import (
	"github.com/gagliardetto/solana-go"

	"github.com/ninja0404/saros-go-sdk/pkg/constants"
)

// ProgramKey is the mainnet swap program.
var ProgramKey = constants.SarosSwapProgramID

// Instruction opcodes (first data byte).
const (
	OpInitialize            uint8 = 0
	OpSwap                  uint8 = 1
	OpDepositAllTokenTypes  uint8 = 2
	OpWithdrawAllTokenTypes uint8 = 3
)

// CurveConstantProduct is the only curve Saros pools are created with.
const CurveConstantProduct uint8 = 0

func programOrDefault(programID solana.PublicKey) solana.PublicKey {
	if programID.IsZero() {
		return ProgramKey
	}
	return programID
}
