package layout

import (
	"github.com/gagliardetto/solana-go"
	"lukechampine.com/uint128"
)

// Record holds field values keyed by field name.
//
// Value types per kind: uint8, uint32, uint64, uint128.Uint128, bool, []byte,
// solana.PublicKey and Option[solana.PublicKey]. Getters return the zero value
// for absent or mistyped fields.
type Record map[string]any

func (r Record) U8(name string) uint8 {
	v, _ := r[name].(uint8)
	return v
}

func (r Record) U32(name string) uint32 {
	v, _ := r[name].(uint32)
	return v
}

func (r Record) U64(name string) uint64 {
	v, _ := r[name].(uint64)
	return v
}

func (r Record) U128(name string) uint128.Uint128 {
	v, _ := r[name].(uint128.Uint128)
	return v
}

func (r Record) Bool(name string) bool {
	v, _ := r[name].(bool)
	return v
}

func (r Record) Bytes(name string) []byte {
	v, _ := r[name].([]byte)
	return v
}

func (r Record) PublicKey(name string) solana.PublicKey {
	v, _ := r[name].(solana.PublicKey)
	return v
}

func (r Record) OptionalKey(name string) Option[solana.PublicKey] {
	v, _ := r[name].(Option[solana.PublicKey])
	return v
}
