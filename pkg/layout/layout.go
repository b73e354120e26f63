// Package layout is a data-driven fixed-width binary codec.
//
// A Schema is an ordered list of typed fields. Encode and Decode interpret a
// Schema against a Record, writing fields in declared order, little-endian,
// with no padding. Every account and instruction payload used by the swap and
// farm programs is described by a Schema value rather than a hand-written
// struct codec.
//
//	var transfer = layout.NewSchema("transfer",
//	    layout.U8("instruction"),
//	    layout.U64("amount"),
//	)
//	data, err := layout.Encode(transfer, layout.Record{"instruction": uint8(3), "amount": uint64(10)})
package layout

import (
	"bytes"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"lukechampine.com/uint128"

	"github.com/ninja0404/saros-go-sdk/pkg/types"
)

// Kind is the wire type of a Field.
type Kind uint8

const (
	KindU8 Kind = iota + 1
	KindU32
	KindU64
	KindU128
	KindBool
	KindBlob
	KindPublicKey
	// KindCOption is a 4-byte presence discriminant followed by an address.
	KindCOption
	// KindOption is a 1-byte presence discriminant followed by an address.
	KindOption
)

func (k Kind) String() string {
	switch k {
	case KindU8:
		return "u8"
	case KindU32:
		return "u32"
	case KindU64:
		return "u64"
	case KindU128:
		return "u128"
	case KindBool:
		return "bool"
	case KindBlob:
		return "blob"
	case KindPublicKey:
		return "publicKey"
	case KindCOption:
		return "coption<publicKey>"
	case KindOption:
		return "option<publicKey>"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Field is one named, fixed-width entry of a Schema.
type Field struct {
	Name string
	Kind Kind
	Len  int // blob length, unused for other kinds
}

// Size is the encoded width of the field in bytes.
func (f Field) Size() int {
	switch f.Kind {
	case KindU8, KindBool:
		return 1
	case KindU32:
		return 4
	case KindU64:
		return 8
	case KindU128:
		return 16
	case KindBlob:
		return f.Len
	case KindPublicKey:
		return solana.PublicKeyLength
	case KindCOption:
		return 4 + solana.PublicKeyLength
	case KindOption:
		return 1 + solana.PublicKeyLength
	default:
		return 0
	}
}

func U8(name string) Field        { return Field{Name: name, Kind: KindU8} }
func U32(name string) Field       { return Field{Name: name, Kind: KindU32} }
func U64(name string) Field       { return Field{Name: name, Kind: KindU64} }
func U128(name string) Field      { return Field{Name: name, Kind: KindU128} }
func Bool(name string) Field      { return Field{Name: name, Kind: KindBool} }
func PublicKey(name string) Field { return Field{Name: name, Kind: KindPublicKey} }

// COptionKey is a 4-byte presence tag followed by an address.
func COptionKey(name string) Field { return Field{Name: name, Kind: KindCOption} }

// OptionKey is a 1-byte presence tag followed by an address.
func OptionKey(name string) Field { return Field{Name: name, Kind: KindOption} }

// Blob is a fixed-length raw byte array.
func Blob(name string, n int) Field {
	return Field{Name: name, Kind: KindBlob, Len: n}
}

// Schema is an immutable ordered field list.
type Schema struct {
	name   string
	fields []Field
	span   int
}

// NewSchema builds a schema. It panics on duplicate or empty field names and
// unknown kinds, since schemas are package-level declarations.
func NewSchema(name string, fields ...Field) Schema {
	seen := make(map[string]struct{}, len(fields))
	span := 0
	for _, f := range fields {
		if f.Name == "" {
			panic(fmt.Sprintf("layout %s: empty field name", name))
		}
		if _, dup := seen[f.Name]; dup {
			panic(fmt.Sprintf("layout %s: duplicate field %q", name, f.Name))
		}
		if f.Size() == 0 && f.Kind != KindBlob {
			panic(fmt.Sprintf("layout %s: field %q has unknown kind", name, f.Name))
		}
		seen[f.Name] = struct{}{}
		span += f.Size()
	}
	cp := make([]Field, len(fields))
	copy(cp, fields)
	return Schema{name: name, fields: cp, span: span}
}

// Name returns the schema name used in errors.
func (s Schema) Name() string { return s.name }

// Span is the exact number of bytes an encoded record occupies.
func (s Schema) Span() int { return s.span }

// Fields returns a copy of the field list.
func (s Schema) Fields() []Field {
	cp := make([]Field, len(s.fields))
	copy(cp, s.fields)
	return cp
}

// Offset returns the byte offset of the named field.
func (s Schema) Offset(name string) (int, bool) {
	off := 0
	for _, f := range s.fields {
		if f.Name == name {
			return off, true
		}
		off += f.Size()
	}
	return 0, false
}

// Encode writes record in schema order. The output is exactly Span() bytes.
func Encode(s Schema, r Record) ([]byte, error) {
	buf := bytes.NewBuffer(make([]byte, 0, s.span))
	if err := encodeInto(buf, s, r); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// EncodeInstruction prepends prefix (a one-byte opcode or an 8-byte
// discriminator) to the encoded record.
func EncodeInstruction(prefix []byte, s Schema, r Record) ([]byte, error) {
	buf := bytes.NewBuffer(make([]byte, 0, len(prefix)+s.span))
	buf.Write(prefix)
	if err := encodeInto(buf, s, r); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeInto(buf *bytes.Buffer, s Schema, r Record) error {
	enc := bin.NewBinEncoder(buf)
	for _, f := range s.fields {
		v, ok := r[f.Name]
		if !ok {
			return &types.LayoutError{Schema: s.name, Reason: fmt.Sprintf("missing field %q", f.Name)}
		}
		if err := encodeField(enc, f, v); err != nil {
			return &types.LayoutError{Schema: s.name, Reason: fmt.Sprintf("field %q: %v", f.Name, err)}
		}
	}
	return nil
}

func encodeField(enc *bin.Encoder, f Field, v any) error {
	switch f.Kind {
	case KindU8:
		n, ok := v.(uint8)
		if !ok {
			return wrongType(f, v)
		}
		return enc.WriteUint8(n)
	case KindU32:
		n, ok := v.(uint32)
		if !ok {
			return wrongType(f, v)
		}
		return enc.WriteUint32(n, bin.LE)
	case KindU64:
		n, ok := v.(uint64)
		if !ok {
			return wrongType(f, v)
		}
		return enc.WriteUint64(n, bin.LE)
	case KindU128:
		n, ok := v.(uint128.Uint128)
		if !ok {
			return wrongType(f, v)
		}
		return enc.WriteUint128(bin.Uint128{Lo: n.Lo, Hi: n.Hi}, bin.LE)
	case KindBool:
		b, ok := v.(bool)
		if !ok {
			return wrongType(f, v)
		}
		return enc.WriteBool(b)
	case KindBlob:
		b, ok := v.([]byte)
		if !ok {
			return wrongType(f, v)
		}
		if len(b) != f.Len {
			return fmt.Errorf("blob length %d, want %d", len(b), f.Len)
		}
		return enc.WriteBytes(b, false)
	case KindPublicKey:
		pk, ok := v.(solana.PublicKey)
		if !ok {
			return wrongType(f, v)
		}
		return enc.WriteBytes(pk[:], false)
	case KindCOption, KindOption:
		opt, ok := v.(Option[solana.PublicKey])
		if !ok {
			return wrongType(f, v)
		}
		pk, some := opt.Get()
		var tag uint32
		if some {
			tag = 1
		}
		var err error
		if f.Kind == KindCOption {
			err = enc.WriteUint32(tag, bin.LE)
		} else {
			err = enc.WriteUint8(uint8(tag))
		}
		if err != nil {
			return err
		}
		return enc.WriteBytes(pk[:], false)
	}
	return fmt.Errorf("unsupported kind %s", f.Kind)
}

func wrongType(f Field, v any) error {
	return fmt.Errorf("want %s value, got %T", f.Kind, v)
}

// Decode reads a record laid out by s. Input shorter than Span() fails with
// a LayoutError and no partial record; bytes beyond Span() are ignored.
func Decode(s Schema, data []byte) (Record, error) {
	if len(data) < s.span {
		return nil, &types.LayoutError{Schema: s.name, Want: s.span, Got: len(data)}
	}
	dec := bin.NewBinDecoder(data[:s.span])
	rec := make(Record, len(s.fields))
	for _, f := range s.fields {
		v, err := decodeField(dec, f)
		if err != nil {
			return nil, &types.LayoutError{Schema: s.name, Reason: fmt.Sprintf("field %q: %v", f.Name, err)}
		}
		rec[f.Name] = v
	}
	return rec, nil
}

// DecodeInstruction is the strict inverse of EncodeInstruction: data must
// start with prefix and hold exactly Span() more bytes.
func DecodeInstruction(prefix []byte, s Schema, data []byte) (Record, error) {
	want := len(prefix) + s.span
	if len(data) != want {
		return nil, &types.LayoutError{Schema: s.name, Want: want, Got: len(data)}
	}
	if !bytes.Equal(data[:len(prefix)], prefix) {
		return nil, &types.LayoutError{Schema: s.name, Reason: fmt.Sprintf("prefix %x, want %x", data[:len(prefix)], prefix)}
	}
	return Decode(s, data[len(prefix):])
}

func decodeField(dec *bin.Decoder, f Field) (any, error) {
	switch f.Kind {
	case KindU8:
		return dec.ReadUint8()
	case KindU32:
		return dec.ReadUint32(bin.LE)
	case KindU64:
		return dec.ReadUint64(bin.LE)
	case KindU128:
		n, err := dec.ReadUint128(bin.LE)
		if err != nil {
			return nil, err
		}
		return uint128.New(n.Lo, n.Hi), nil
	case KindBool:
		b, err := dec.ReadUint8()
		if err != nil {
			return nil, err
		}
		return b != 0, nil
	case KindBlob:
		b, err := dec.ReadNBytes(f.Len)
		if err != nil {
			return nil, err
		}
		out := make([]byte, len(b))
		copy(out, b)
		return out, nil
	case KindPublicKey:
		b, err := dec.ReadNBytes(solana.PublicKeyLength)
		if err != nil {
			return nil, err
		}
		return solana.PublicKeyFromBytes(b), nil
	case KindCOption, KindOption:
		var some bool
		if f.Kind == KindCOption {
			tag, err := dec.ReadUint32(bin.LE)
			if err != nil {
				return nil, err
			}
			some = tag != 0
		} else {
			tag, err := dec.ReadUint8()
			if err != nil {
				return nil, err
			}
			some = tag != 0
		}
		b, err := dec.ReadNBytes(solana.PublicKeyLength)
		if err != nil {
			return nil, err
		}
		if !some {
			return None[solana.PublicKey](), nil
		}
		return Some(solana.PublicKeyFromBytes(b)), nil
	}
	return nil, fmt.Errorf("unsupported kind %s", f.Kind)
}
