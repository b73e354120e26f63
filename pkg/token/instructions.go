package token

import (
	"github.com/gagliardetto/solana-go"
	ata "github.com/gagliardetto/solana-go/programs/associated-token-account"
	"github.com/gagliardetto/solana-go/programs/system"
	tokenprog "github.com/gagliardetto/solana-go/programs/token"

	"github.com/ninja0404/saros-go-sdk/pkg/constants"
	"github.com/ninja0404/saros-go-sdk/pkg/pda"
)

// closeAccountOpcode is the SPL token CloseAccount instruction tag.
const closeAccountOpcode = 9

// AssociatedAddress returns the ATA for wallet and mint under tokenProgram.
func AssociatedAddress(wallet, mint, tokenProgram solana.PublicKey) (solana.PublicKey, error) {
	if tokenProgram.IsZero() {
		tokenProgram = constants.TokenProgramID
	}
	return pda.AssociatedTokenAddress(wallet, mint, tokenProgram)
}

// CreateAssociatedAccount builds the ATA program create instruction. The
// classic token program goes through the solana-go builder; other token
// programs (Token-2022) need the program key passed explicitly.
func CreateAssociatedAccount(payer, wallet, mint, tokenProgram solana.PublicKey) (solana.Instruction, error) {
	if tokenProgram.IsZero() || tokenProgram.Equals(constants.TokenProgramID) {
		return ata.NewCreateInstruction(payer, wallet, mint).ValidateAndBuild()
	}
	addr, err := pda.AssociatedTokenAddress(wallet, mint, tokenProgram)
	if err != nil {
		return nil, err
	}
	metas := []*solana.AccountMeta{
		solana.NewAccountMeta(payer, true, true),
		solana.NewAccountMeta(addr, true, false),
		solana.NewAccountMeta(wallet, false, false),
		solana.NewAccountMeta(mint, false, false),
		solana.NewAccountMeta(constants.SystemProgramID, false, false),
		solana.NewAccountMeta(tokenProgram, false, false),
	}
	return solana.NewInstruction(constants.AssociatedTokenProgramID, metas, nil), nil
}

// Transfer moves amount from source to destination, signed by owner.
func Transfer(source, destination, owner solana.PublicKey, amount uint64) (solana.Instruction, error) {
	return tokenprog.NewTransferInstruction(amount, source, destination, owner, nil).ValidateAndBuild()
}

// InitializeMint initialises a freshly allocated mint with no freeze authority.
func InitializeMint(mint, authority solana.PublicKey, decimals uint8) (solana.Instruction, error) {
	return tokenprog.NewInitializeMintInstructionBuilder().
		SetDecimals(decimals).
		SetMintAuthority(authority).
		SetMintAccount(mint).
		ValidateAndBuild()
}

// CreateMint allocates and initialises a mint account. rentLamports must cover
// the rent-exempt minimum for MintSpan bytes.
func CreateMint(payer, mint, authority solana.PublicKey, decimals uint8, rentLamports uint64) ([]solana.Instruction, error) {
	create, err := system.NewCreateAccountInstruction(rentLamports, constants.MintSpan, constants.TokenProgramID, payer, mint).ValidateAndBuild()
	if err != nil {
		return nil, err
	}
	init, err := InitializeMint(mint, authority, decimals)
	if err != nil {
		return nil, err
	}
	return []solana.Instruction{create, init}, nil
}

// CreateProgramAccount allocates space bytes owned by owner at account.
func CreateProgramAccount(payer, account, owner solana.PublicKey, space, rentLamports uint64) (solana.Instruction, error) {
	return system.NewCreateAccountInstruction(rentLamports, space, owner, payer, account).ValidateAndBuild()
}

// CloseAccount closes account into destination. It works for any token
// program, so the instruction is assembled by hand.
func CloseAccount(account, destination, owner, tokenProgram solana.PublicKey) solana.Instruction {
	if tokenProgram.IsZero() {
		tokenProgram = constants.TokenProgramID
	}
	metas := []*solana.AccountMeta{
		solana.NewAccountMeta(account, true, false),
		solana.NewAccountMeta(destination, true, false),
		solana.NewAccountMeta(owner, false, true),
	}
	return solana.NewInstruction(tokenProgram, metas, []byte{closeAccountOpcode})
}

// WrapSOL funds a WSOL account with lamports and syncs its token balance.
func WrapSOL(payer, wsolAccount solana.PublicKey, lamports uint64) []solana.Instruction {
	if lamports == 0 {
		return nil
	}
	return []solana.Instruction{
		system.NewTransferInstruction(lamports, payer, wsolAccount).Build(),
		tokenprog.NewSyncNativeInstruction(wsolAccount).Build(),
	}
}

// IsWSOL reports whether mint is the native mint.
func IsWSOL(mint solana.PublicKey) bool {
	return mint.Equals(constants.WSOLMint)
}
