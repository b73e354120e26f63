// Package token decodes SPL token accounts and mints and builds the SPL
// instructions the Saros flows need around a swap or stake.
package token

import (
	"github.com/gagliardetto/solana-go"

	"github.com/ninja0404/saros-go-sdk/pkg/layout"
)

// AccountState is the SPL token account state byte.
type AccountState uint8

const (
	AccountUninitialized AccountState = iota
	AccountInitialized
	AccountFrozen
)

// AccountSchema is the 165-byte SPL token account layout.
var AccountSchema = layout.NewSchema("TokenAccount",
	layout.PublicKey("mint"),
	layout.PublicKey("owner"),
	layout.U64("amount"),
	layout.COptionKey("delegate"),
	layout.U8("state"),
	layout.U32("isNativeOption"),
	layout.U64("isNative"),
	layout.U64("delegatedAmount"),
	layout.COptionKey("closeAuthority"),
)

// MintSchema is the 82-byte SPL mint layout.
var MintSchema = layout.NewSchema("TokenMint",
	layout.COptionKey("mintAuthority"),
	layout.U64("supply"),
	layout.U8("decimals"),
	layout.Bool("isInitialized"),
	layout.COptionKey("freezeAuthority"),
)

// Account is a decoded token account.
type Account struct {
	Address           solana.PublicKey
	Mint              solana.PublicKey
	Owner             solana.PublicKey
	Amount            uint64
	Delegate          layout.Option[solana.PublicKey]
	DelegatedAmount   uint64
	State             AccountState
	IsInitialized     bool
	IsFrozen          bool
	IsNative          bool
	RentExemptReserve layout.Option[uint64]
	CloseAuthority    layout.Option[solana.PublicKey]
}

// Mint is a decoded token mint.
type Mint struct {
	Address         solana.PublicKey
	MintAuthority   layout.Option[solana.PublicKey]
	Supply          uint64
	Decimals        uint8
	IsInitialized   bool
	FreezeAuthority layout.Option[solana.PublicKey]
}

// DecodeAccount decodes an SPL token account. Token-2022 extension bytes past
// the base layout are ignored.
func DecodeAccount(data []byte) (Account, error) {
	r, err := layout.Decode(AccountSchema, data)
	if err != nil {
		return Account{}, err
	}
	state := AccountState(r.U8("state"))
	acc := Account{
		Mint:            r.PublicKey("mint"),
		Owner:           r.PublicKey("owner"),
		Amount:          r.U64("amount"),
		Delegate:        r.OptionalKey("delegate"),
		DelegatedAmount: r.U64("delegatedAmount"),
		State:           state,
		IsInitialized:   state != AccountUninitialized,
		IsFrozen:        state == AccountFrozen,
		IsNative:        r.U32("isNativeOption") == 1,
		CloseAuthority:  r.OptionalKey("closeAuthority"),
	}
	if !acc.Delegate.IsSome() {
		acc.DelegatedAmount = 0
	}
	// the native option carries the rent-exempt reserve in the isNative slot
	if acc.IsNative {
		acc.RentExemptReserve = layout.Some(r.U64("isNative"))
	}
	return acc, nil
}

// EncodeAccount is the inverse of DecodeAccount.
func EncodeAccount(a Account) ([]byte, error) {
	var nativeOpt uint32
	var reserve uint64
	if v, ok := a.RentExemptReserve.Get(); ok {
		nativeOpt, reserve = 1, v
	}
	return layout.Encode(AccountSchema, layout.Record{
		"mint":            a.Mint,
		"owner":           a.Owner,
		"amount":          a.Amount,
		"delegate":        a.Delegate,
		"state":           uint8(a.State),
		"isNativeOption":  nativeOpt,
		"isNative":        reserve,
		"delegatedAmount": a.DelegatedAmount,
		"closeAuthority":  a.CloseAuthority,
	})
}

// DecodeMint decodes an SPL mint.
func DecodeMint(data []byte) (Mint, error) {
	r, err := layout.Decode(MintSchema, data)
	if err != nil {
		return Mint{}, err
	}
	return Mint{
		MintAuthority:   r.OptionalKey("mintAuthority"),
		Supply:          r.U64("supply"),
		Decimals:        r.U8("decimals"),
		IsInitialized:   r.Bool("isInitialized"),
		FreezeAuthority: r.OptionalKey("freezeAuthority"),
	}, nil
}

// EncodeMint is the inverse of DecodeMint.
func EncodeMint(m Mint) ([]byte, error) {
	return layout.Encode(MintSchema, layout.Record{
		"mintAuthority":   m.MintAuthority,
		"supply":          m.Supply,
		"decimals":        m.Decimals,
		"isInitialized":   m.IsInitialized,
		"freezeAuthority": m.FreezeAuthority,
	})
}
