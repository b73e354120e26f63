package types

import (
	"errors"
	"fmt"
	"strings"
)

// TxErrorKind is the category of a failed submitted transaction.
type TxErrorKind int

const (
	TxErrUnknown TxErrorKind = iota
	// TxErrInsufficientFunds: the fee payer cannot cover fees or rent.
	TxErrInsufficientFunds
	// TxErrTradeInsufficientFunds: the source token account is short.
	TxErrTradeInsufficientFunds
	TxErrSlippageExceeded
	TxErrTransactionTooLarge
	TxErrSizeTooSmall
	// TxErrCapitalizationChecksumMismatch is a node-side bank hash report, usually
	// seen while the transaction itself still landed.
	TxErrCapitalizationChecksumMismatch
)

var txErrorKindNames = map[TxErrorKind]string{
	TxErrUnknown:                        "unknown",
	TxErrInsufficientFunds:              "insufficient_funds",
	TxErrTradeInsufficientFunds:         "trade_insufficient_funds",
	TxErrSlippageExceeded:               "slippage_exceeded",
	TxErrTransactionTooLarge:            "transaction_too_large",
	TxErrSizeTooSmall:                   "size_too_small",
	TxErrCapitalizationChecksumMismatch: "capitalization_checksum_mismatch",
}

func (k TxErrorKind) String() string {
	if s, ok := txErrorKindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("TxErrorKind(%d)", int(k))
}

// TxError is the typed outcome of a failed submission.
type TxError struct {
	Kind TxErrorKind
	Code int
	Logs []string
	Err  error
}

func (e *TxError) Error() string {
	if e.Err == nil {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *TxError) Unwrap() error {
	return e.Err
}

// Custom program codes that signal a violated min-out / max-in bound.
const (
	codeExceedsLimit      = 30
	codeExceedsLimitSwap  = 16
	codeInsufficientFunds = 1
)

// ClassifyStatusError classifies a decoded on-chain status error (the
// InstructionError object returned by getSignatureStatuses).
func ClassifyStatusError(errVal interface{}, logs []string) *TxError {
	if errVal == nil {
		return nil
	}
	if code, ok := CustomErrorCode(errVal); ok {
		switch code {
		case codeInsufficientFunds:
			return &TxError{Kind: TxErrInsufficientFunds, Code: code, Logs: logs, Err: fmt.Errorf("%v", errVal)}
		case codeExceedsLimit, codeExceedsLimitSwap:
			return &TxError{Kind: TxErrSlippageExceeded, Code: code, Logs: logs, Err: ErrSlippageExceeded}
		}
	}
	return ClassifyError(fmt.Errorf("%v", errVal), logs)
}

// ClassifyError maps a post-submission error message to a TxErrorKind.
// Order matters: "Insufficient funds" must win over the generic "0x1" match.
func ClassifyError(err error, logs []string) *TxError {
	if err == nil {
		return nil
	}
	var txErr *TxError
	if errors.As(err, &txErr) {
		return txErr
	}
	msg := err.Error()
	for _, l := range logs {
		msg += "\n" + l
	}
	kind := TxErrUnknown
	switch {
	case strings.Contains(msg, "exceedsLimit"):
		kind = TxErrSlippageExceeded
	case strings.Contains(msg, "Insufficient funds"):
		kind = TxErrTradeInsufficientFunds
	case strings.Contains(msg, "size too small"):
		kind = TxErrSizeTooSmall
	case strings.Contains(msg, "Transaction too large"):
		kind = TxErrTransactionTooLarge
	case strings.Contains(msg, "Attempt to debit an account but"),
		strings.Contains(msg, "gasSolNotEnough"),
		strings.Contains(msg, "0x1"):
		kind = TxErrInsufficientFunds
	case strings.Contains(msg, "the capitalization checksum"):
		kind = TxErrCapitalizationChecksumMismatch
	}
	return &TxError{Kind: kind, Logs: logs, Err: err}
}
