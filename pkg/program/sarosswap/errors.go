package sarosswap

// ProgramName labels swap program errors.
const ProgramName = "SarosSwap"

type ProgramError struct {
	Code uint32
	Name string
	Msg  string
}

var Errors = map[uint32]ProgramError{
	0:  {Code: 0, Name: "AlreadyInUse", Msg: "Swap account already in use"},
	1:  {Code: 1, Name: "InvalidProgramAddress", Msg: "Invalid program address generated from bump seed and key"},
	2:  {Code: 2, Name: "InvalidOwner", Msg: "Input account owner is not the program address"},
	3:  {Code: 3, Name: "InvalidOutputOwner", Msg: "Output pool account owner cannot be the program address"},
	4:  {Code: 4, Name: "ExpectedMint", Msg: "Deserialized account is not an SPL Token mint"},
	5:  {Code: 5, Name: "ExpectedAccount", Msg: "Deserialized account is not an SPL Token account"},
	6:  {Code: 6, Name: "EmptySupply", Msg: "Input token account empty"},
	7:  {Code: 7, Name: "InvalidSupply", Msg: "Pool token mint has a non-zero supply"},
	8:  {Code: 8, Name: "InvalidDelegate", Msg: "Token account has a delegate"},
	9:  {Code: 9, Name: "InvalidInput", Msg: "InvalidInput"},
	10: {Code: 10, Name: "IncorrectSwapAccount", Msg: "Address of the provided swap token account is incorrect"},
	11: {Code: 11, Name: "IncorrectPoolMint", Msg: "Address of the provided pool token mint is incorrect"},
	12: {Code: 12, Name: "InvalidOutput", Msg: "InvalidOutput"},
	13: {Code: 13, Name: "CalculationFailure", Msg: "General calculation failure due to overflow or underflow"},
	14: {Code: 14, Name: "InvalidInstruction", Msg: "Invalid instruction"},
	15: {Code: 15, Name: "RepeatedMint", Msg: "Swap input token accounts have the same mint"},
	16: {Code: 16, Name: "ExceededSlippage", Msg: "Swap instruction exceeds desired slippage limit"},
	17: {Code: 17, Name: "InvalidCloseAuthority", Msg: "Token account has a close authority"},
	18: {Code: 18, Name: "InvalidFreezeAuthority", Msg: "Pool token mint has a freeze authority"},
	19: {Code: 19, Name: "IncorrectFeeAccount", Msg: "Pool fee token account incorrect"},
	20: {Code: 20, Name: "ZeroTradingTokens", Msg: "Given pool token amount results in zero trading tokens"},
	21: {Code: 21, Name: "FeeCalculationFailure", Msg: "Fee calculation failed due to overflow, underflow, or unexpected 0"},
	22: {Code: 22, Name: "ConversionFailure", Msg: "Conversion to u64 failed with an overflow or underflow"},
	23: {Code: 23, Name: "InvalidFee", Msg: "The provided fee does not match the program owner's constraints"},
	24: {Code: 24, Name: "IncorrectTokenProgramId", Msg: "The provided token program does not match the token program expected by the swap"},
	25: {Code: 25, Name: "UnsupportedCurveType", Msg: "The provided curve type is not supported by the program owner"},
	26: {Code: 26, Name: "InvalidCurve", Msg: "The provided curve parameters are invalid"},
	27: {Code: 27, Name: "UnsupportedCurveOperation", Msg: "The operation cannot be performed on the given curve"},
}

func ErrorFromCode(code uint32) (ProgramError, bool) {
	err, ok := Errors[code]
	return err, ok
}

// LookupError adapts the table to types.ErrorLookup.
func LookupError(code uint32) (program, msg string, ok bool) {
	e, ok := Errors[code]
	if !ok {
		return "", "", false
	}
	return ProgramName, e.Msg, true
}
