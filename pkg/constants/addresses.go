package constants

import "github.com/gagliardetto/solana-go"

// Well-known program IDs
var (
	// SPL Programs
	SystemProgramID          = solana.SystemProgramID
	TokenProgramID           = solana.TokenProgramID
	Token2022ProgramID       = solana.MustPublicKeyFromBase58("TokenzQdBNbLqP5VEhdkAS6EPFLC1PHnBqCXEpPxuEb")
	AssociatedTokenProgramID = solana.SPLAssociatedTokenAccountProgramID
	SysvarRentProgramID      = solana.SysVarRentPubkey

	// Saros AMM (SPL token-swap fork)
	SarosSwapProgramID = solana.MustPublicKeyFromBase58("SSwapUtytfBdBn1b9NUGG6foMVPtcWgpRU32HToDUZr")

	// Saros yield farm (Anchor)
	SarosFarmProgramID = solana.MustPublicKeyFromBase58("SFarmWM5wLFNEw1q5ofqL7CrwBMwdcqQgK6oQuoBGZJ")
)

// Mainnet well-known accounts
var (
	// WSOL (Native Mint)
	WSOLMint = solana.WrappedSol
)

// PDA seeds
const (
	SeedFarmAuthority = "authority"
)

// Account spans
const (
	MintSpan         = 82
	TokenAccountSpan = 165
	SwapPoolSpan     = 324
)
