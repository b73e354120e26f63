package types

import (
	"errors"
	"fmt"
	"testing"

	"cosmossdk.io/math"
	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func instructionErr(code float64) map[string]interface{} {
	return map[string]interface{}{
		"InstructionError": []interface{}{float64(2), map[string]interface{}{"Custom": code}},
	}
}

func TestClassifyStatusError(t *testing.T) {
	tests := []struct {
		name string
		code float64
		want TxErrorKind
	}{
		{"not enough sol", 1, TxErrInsufficientFunds},
		{"swap exceeds limit", 16, TxErrSlippageExceeded},
		{"exceeds limit", 30, TxErrSlippageExceeded},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyStatusError(instructionErr(tt.code), nil)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.Kind)
			assert.Equal(t, int(tt.code), got.Code)
		})
	}
	assert.Nil(t, ClassifyStatusError(nil, nil))
}

func TestClassifyError(t *testing.T) {
	tests := []struct {
		msg  string
		want TxErrorKind
	}{
		{"Error processing Instruction 0: Insufficient funds", TxErrTradeInsufficientFunds},
		{"Error: account data size too small", TxErrSizeTooSmall},
		{"Error: Transaction too large: 1300 > 1232", TxErrTransactionTooLarge},
		{"Transaction simulation failed: Attempt to debit an account but found no record of a prior credit.", TxErrInsufficientFunds},
		{"custom program error: 0x1", TxErrInsufficientFunds},
		{"Error: the capitalization checksum mismatched", TxErrCapitalizationChecksumMismatch},
		{"Error: blockhash not found", TxErrUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			got := ClassifyError(errors.New(tt.msg), nil)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.Kind, got.Kind.String())
		})
	}
}

func TestClassifyErrorKeepsExistingTxError(t *testing.T) {
	orig := &TxError{Kind: TxErrSlippageExceeded}
	got := ClassifyError(fmt.Errorf("send: %w", orig), nil)
	assert.Same(t, orig, got)
	assert.False(t, IsRetryableError(got))
}

func TestParseSimulationErrorUsesLookups(t *testing.T) {
	lookup := func(code uint32) (string, string, bool) {
		if code == 6001 {
			return "saros_farm", "SarosFarm: Pool is paused.", true
		}
		return "", "", false
	}
	err := ParseSimulationError(instructionErr(6001), []string{"AnchorError caused by account: pool. Error Code"}, lookup)
	var progErr *ProgramError
	require.ErrorAs(t, err, &progErr)
	assert.Equal(t, "saros_farm", progErr.Program)
	assert.Equal(t, "SarosFarm: Pool is paused. (account: pool)", progErr.Message)

	err = ParseSimulationError("BlockhashNotFound", nil)
	var simErr *SimulationError
	require.ErrorAs(t, err, &simErr)
	assert.Nil(t, ParseSimulationError(nil, nil))
}

func TestLayoutAndDerivationErrors(t *testing.T) {
	le := &LayoutError{Schema: "pool", Want: 324, Got: 10}
	assert.Equal(t, "layout pool: need 324 bytes, got 10", le.Error())

	inner := errors.New("unable to find a valid program address")
	de := &DerivationError{Program: solana.SystemProgramID, Seeds: 2, Err: inner}
	assert.ErrorIs(t, de, inner)

	nf := AccountNotFound(solana.SystemProgramID)
	assert.ErrorIs(t, nf, ErrAccountNotFound)
}

func TestValidateSlippage(t *testing.T) {
	assert.NoError(t, ValidateSlippage(math.LegacyMustNewDecFromStr("0.5")))
	assert.NoError(t, ValidateSlippage(math.LegacyNewDec(100)))
	assert.Error(t, ValidateSlippage(math.LegacyNewDec(101)))
	assert.Error(t, ValidateSlippage(math.LegacyNewDec(-1)))
	assert.Error(t, ValidateSlippage(math.LegacyDec{}))
	assert.Error(t, ValidateSwapParams(0, math.LegacyOneDec()))
	assert.Error(t, ValidatePublicKey("pool", solana.PublicKey{}))
}
