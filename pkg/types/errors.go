package types

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gagliardetto/solana-go"
)

// Common SDK errors
var (
	// Parameter validation errors
	ErrNilRPC           = errors.New("rpc client is nil")
	ErrNilSigner        = errors.New("signer is nil")
	ErrNilFeePayer      = errors.New("fee payer is nil")
	ErrNilOracle        = errors.New("price oracle is nil")
	ErrZeroAmount       = errors.New("amount must be greater than 0")
	ErrInvalidSlippage  = errors.New("slippage percent must be within [0, 100]")
	ErrInvalidPublicKey = errors.New("invalid public key")
	ErrNoInstructions   = errors.New("requires at least one instruction")

	// Account errors
	ErrAccountNotFound       = errors.New("account not found")
	ErrAccountNotInitialized = errors.New("account not initialized")
	ErrMintNotFound          = errors.New("mint account not found")
	ErrPoolNotFound          = errors.New("pool account not found")
	ErrFarmPoolNotFound      = errors.New("farm pool not found")
	ErrPoolRewardNotFound    = errors.New("pool reward not found")
	ErrATANotFound           = errors.New("associated token account not found")
	ErrMintNotInPool         = errors.New("mint does not belong to pool")

	// Transaction errors
	ErrInsufficientBalance   = errors.New("insufficient balance")
	ErrInsufficientLiquidity = errors.New("insufficient liquidity")
	ErrAmountOverflow        = errors.New("amount overflows u64")
	ErrSlippageExceeded      = errors.New("slippage exceeded")
	ErrTransactionFailed     = errors.New("transaction failed")
	ErrSimulationFailed      = errors.New("simulation failed")
	ErrConfirmationTimeout   = errors.New("confirmation timeout")
)

// AccountNotFound wraps ErrAccountNotFound with the missing address.
func AccountNotFound(addr solana.PublicKey) error {
	return fmt.Errorf("%w: %s", ErrAccountNotFound, addr)
}

// LayoutError reports a byte length mismatch or a malformed record during encode/decode.
type LayoutError struct {
	Schema string
	Want   int
	Got    int
	Reason string
}

func (e *LayoutError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("layout %s: %s", e.Schema, e.Reason)
	}
	return fmt.Sprintf("layout %s: need %d bytes, got %d", e.Schema, e.Want, e.Got)
}

// DerivationError reports a failed program address derivation.
type DerivationError struct {
	Program solana.PublicKey
	Seeds   int
	Err     error
}

func (e *DerivationError) Error() string {
	return fmt.Sprintf("derive address (program %s, %d seeds): %v", e.Program, e.Seeds, e.Err)
}

func (e *DerivationError) Unwrap() error {
	return e.Err
}

// RPCError wraps RPC failures with operation context.
type RPCError struct {
	Op  string
	Err error
}

func (e RPCError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e RPCError) Unwrap() error {
	return e.Err
}

// ValidationError represents input validation failures.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// NewValidationError creates a new validation error.
func NewValidationError(field, message string) ValidationError {
	return ValidationError{Field: field, Message: message}
}

// ProgramError represents on-chain program execution errors.
type ProgramError struct {
	Program string
	Code    int
	Message string
	Logs    []string
}

func (e ProgramError) Error() string {
	if e.Program == "" {
		return fmt.Sprintf("program error [%d]: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("program %s error [%d]: %s", e.Program, e.Code, e.Message)
}

// SimulationError contains simulation failure details.
type SimulationError struct {
	Err  interface{}
	Logs []string
}

func (e SimulationError) Error() string {
	return fmt.Sprintf("simulation failed: %v", e.Err)
}

// ErrorLookup resolves a custom program error code to its name and message.
// sarosswap.LookupError and sarosfarm.LookupError satisfy it.
type ErrorLookup func(code uint32) (program, msg string, ok bool)

// ParseSimulationError extracts error details from a simulation or status error value.
// Custom codes are resolved through the given lookups in order.
func ParseSimulationError(errVal interface{}, logs []string, lookups ...ErrorLookup) error {
	if errVal == nil {
		return nil
	}
	if code, ok := CustomErrorCode(errVal); ok {
		account := extractAccountFromLogs(logs)
		program, msg := parseErrorCode(code, account, lookups)
		return &ProgramError{
			Program: program,
			Code:    code,
			Message: msg,
			Logs:    logs,
		}
	}
	return &SimulationError{Err: errVal, Logs: logs}
}

// CustomErrorCode digs InstructionError[1].Custom out of a decoded transaction error.
func CustomErrorCode(errVal interface{}) (int, bool) {
	errMap, ok := errVal.(map[string]interface{})
	if !ok {
		return 0, false
	}
	instErr, exists := errMap["InstructionError"]
	if !exists {
		return 0, false
	}
	errSlice, ok := instErr.([]interface{})
	if !ok || len(errSlice) < 2 {
		return 0, false
	}
	customErr, ok := errSlice[1].(map[string]interface{})
	if !ok {
		return 0, false
	}
	switch v := customErr["Custom"].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	case uint32:
		return int(v), true
	case int64:
		return int(v), true
	}
	return 0, false
}

// extractAccountFromLogs extracts the account name from Anchor error logs.
func extractAccountFromLogs(logs []string) string {
	const marker = "caused by account: "
	for _, log := range logs {
		if idx := strings.Index(log, marker); idx >= 0 {
			rest := log[idx+len(marker):]
			if end := strings.Index(rest, "."); end >= 0 {
				return rest[:end]
			}
			return rest
		}
	}
	return ""
}

// parseErrorCode converts error code to human-readable message.
func parseErrorCode(code int, account string, lookups []ErrorLookup) (string, string) {
	// Anchor system errors
	switch code {
	case 3012:
		if account != "" {
			return "", fmt.Sprintf("account '%s' not initialized (create the account first)", account)
		}
		return "", "account not initialized"
	case 2023:
		return "", "token program constraint violated (wrong token program for mint)"
	case 3008:
		return "", "program ID was not as expected (wrong program)"
	}

	for _, lookup := range lookups {
		if lookup == nil {
			continue
		}
		if program, msg, ok := lookup(uint32(code)); ok {
			if account != "" {
				msg = fmt.Sprintf("%s (account: %s)", msg, account)
			}
			return program, msg
		}
	}
	return "", fmt.Sprintf("error code %d", code)
}

// ToReadableError converts a CamelCase error name to words.
func ToReadableError(name string) string {
	if name == "" {
		return "unknown error"
	}
	var result []byte
	for i, c := range name {
		if i > 0 && c >= 'A' && c <= 'Z' {
			result = append(result, ' ')
		}
		result = append(result, byte(c))
	}
	return string(result)
}

// IsRetryableError checks if an error is retryable.
func IsRetryableError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrSimulationFailed) {
		return true
	}
	var progErr *ProgramError
	if errors.As(err, &progErr) {
		return false
	}
	var layoutErr *LayoutError
	if errors.As(err, &layoutErr) {
		return false
	}
	var txErr *TxError
	if errors.As(err, &txErr) {
		return false
	}
	return true
}
