package sarosfarm

// ProgramName labels farm program errors.
const ProgramName = "SarosFarm"

type ProgramError struct {
	Code uint32
	Name string
	Msg  string
}

var Errors = map[uint32]ProgramError{
	6000: {Code: 6000, Name: "InvalidOwner", Msg: "SarosFarm: Not an owner."},
	6001: {Code: 6001, Name: "InvalidPoolLpTokenAccount", Msg: "SarosFarm: Invalid pool LP token account."},
	6002: {Code: 6002, Name: "InvalidPoolRewardTokenAccount", Msg: "SarosFarm: Invalid reward token account."},
	6003: {Code: 6003, Name: "InvalidWithdrawAmount", Msg: "SarosFarm: Invalid withdraw amount."},
	6004: {Code: 6004, Name: "CantWithdrawNow", Msg: "SarosFarm: Cannot withdraw now."},
	6005: {Code: 6005, Name: "TimeOverlap", Msg: "SarosFarm: Time overlap."},
	6006: {Code: 6006, Name: "PoolWasPaused", Msg: "SarosFarm: Pool was paused."},
	6007: {Code: 6007, Name: "UninitializedAccount", Msg: "SarosFarm: Uninitialized account."},
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
