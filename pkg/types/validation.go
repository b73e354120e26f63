package types

import (
	"cosmossdk.io/math"
	"github.com/gagliardetto/solana-go"
)

// ValidateSwapParams validates common swap parameters.
func ValidateSwapParams(amountIn uint64, slippage math.LegacyDec) error {
	if amountIn == 0 {
		return NewValidationError("amountIn", "must be greater than 0")
	}
	return ValidateSlippage(slippage)
}

// ValidateSlippage validates a slippage percentage (0.5 means 0.5%).
func ValidateSlippage(slippage math.LegacyDec) error {
	if slippage.IsNil() || slippage.IsNegative() {
		return NewValidationError("slippage", "must be >= 0")
	}
	if slippage.GT(math.LegacyNewDec(100)) {
		return NewValidationError("slippage", "must be <= 100 (percent)")
	}
	return nil
}

// ValidatePublicKey validates a public key is not zero.
func ValidatePublicKey(name string, key solana.PublicKey) error {
	if key.IsZero() {
		return NewValidationError(name, "cannot be zero")
	}
	return nil
}

// ValidatePublicKeys validates multiple public keys.
func ValidatePublicKeys(keys map[string]solana.PublicKey) error {
	for name, key := range keys {
		if err := ValidatePublicKey(name, key); err != nil {
			return err
		}
	}
	return nil
}
