package layout

import (
	"crypto/sha256"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"lukechampine.com/uint128"

	"github.com/ninja0404/saros-go-sdk/pkg/types"
)

var testSchema = NewSchema("test",
	U8("version"),
	U32("flags"),
	U64("amount"),
	U128("accumulator"),
	Bool("active"),
	Blob("params", 4),
	PublicKey("owner"),
	COptionKey("delegate"),
	OptionKey("freezeAuthority"),
)

func sampleRecord() Record {
	return Record{
		"version":         uint8(7),
		"flags":           uint32(0xdeadbeef),
		"amount":          uint64(1_000_000_007),
		"accumulator":     uint128.New(5, 9),
		"active":          true,
		"params":          []byte{1, 2, 3, 4},
		"owner":           solana.SystemProgramID,
		"delegate":        Some(solana.TokenProgramID),
		"freezeAuthority": None[solana.PublicKey](),
	}
}

func TestSchemaSpan(t *testing.T) {
	assert.Equal(t, 1+4+8+16+1+4+32+36+33, testSchema.Span())
	off, ok := testSchema.Offset("owner")
	require.True(t, ok)
	assert.Equal(t, 1+4+8+16+1+4, off)
	_, ok = testSchema.Offset("missing")
	assert.False(t, ok)
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	cases := map[string]func(Record){
		"delegate some, freeze none": func(Record) {},
		"both none": func(r Record) {
			r["delegate"] = None[solana.PublicKey]()
		},
		"both some": func(r Record) {
			r["freezeAuthority"] = Some(solana.SysVarRentPubkey)
		},
		"zero values": func(r Record) {
			r["amount"] = uint64(0)
			r["accumulator"] = uint128.Zero
			r["active"] = false
		},
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			rec := sampleRecord()
			mutate(rec)
			data, err := Encode(testSchema, rec)
			require.NoError(t, err)
			require.Len(t, data, testSchema.Span())

			got, err := Decode(testSchema, data)
			require.NoError(t, err)
			assert.Equal(t, rec, got)
		})
	}
}

func TestEncodeLittleEndian(t *testing.T) {
	s := NewSchema("le", U32("a"), U64("b"))
	data, err := Encode(s, Record{"a": uint32(1), "b": uint64(0x0102)})
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 0, 0, 0, 0x02, 0x01, 0, 0, 0, 0, 0, 0}, data)
}

func TestDecodeShortInput(t *testing.T) {
	data, err := Encode(testSchema, sampleRecord())
	require.NoError(t, err)

	rec, err := Decode(testSchema, data[:len(data)-1])
	assert.Nil(t, rec)
	var le *types.LayoutError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, testSchema.Span(), le.Want)
	assert.Equal(t, testSchema.Span()-1, le.Got)
}

func TestDecodeIgnoresTrailingBytes(t *testing.T) {
	data, err := Encode(testSchema, sampleRecord())
	require.NoError(t, err)
	got, err := Decode(testSchema, append(data, 0xff, 0xff))
	require.NoError(t, err)
	assert.Equal(t, uint64(1_000_000_007), got.U64("amount"))
}

func TestDecodeInstructionStrict(t *testing.T) {
	prefix := []byte{9}
	data, err := EncodeInstruction(prefix, testSchema, sampleRecord())
	require.NoError(t, err)

	got, err := DecodeInstruction(prefix, testSchema, data)
	require.NoError(t, err)
	assert.Equal(t, uint64(1_000_000_007), got.U64("amount"))

	var le *types.LayoutError
	_, err = DecodeInstruction(prefix, testSchema, append(data, 0))
	require.ErrorAs(t, err, &le)
	assert.Equal(t, len(data), le.Want)
	assert.Equal(t, len(data)+1, le.Got)

	_, err = DecodeInstruction(prefix, testSchema, data[:len(data)-1])
	assert.ErrorAs(t, err, &le)

	_, err = DecodeInstruction([]byte{8}, testSchema, data)
	require.ErrorAs(t, err, &le)
	assert.Contains(t, le.Reason, "prefix")
}

func TestNoneIgnoresAddressBytes(t *testing.T) {
	s := NewSchema("opt", COptionKey("delegate"))
	data := make([]byte, s.Span())
	for i := 4; i < len(data); i++ {
		data[i] = 0xaa
	}
	rec, err := Decode(s, data)
	require.NoError(t, err)
	assert.False(t, rec.OptionalKey("delegate").IsSome())
}

func TestEncodeErrors(t *testing.T) {
	rec := sampleRecord()
	delete(rec, "owner")
	_, err := Encode(testSchema, rec)
	var le *types.LayoutError
	require.ErrorAs(t, err, &le)

	rec = sampleRecord()
	rec["amount"] = 5 // int, not uint64
	_, err = Encode(testSchema, rec)
	require.ErrorAs(t, err, &le)

	rec = sampleRecord()
	rec["params"] = []byte{1}
	_, err = Encode(testSchema, rec)
	require.ErrorAs(t, err, &le)
}

func TestNewSchemaPanicsOnDuplicate(t *testing.T) {
	assert.Panics(t, func() { NewSchema("dup", U8("a"), U64("a")) })
	assert.Panics(t, func() { NewSchema("empty", U8("")) })
}

func TestEncodeInstruction(t *testing.T) {
	s := NewSchema("swap", U64("amountIn"), U64("minimumAmountOut"))
	data, err := EncodeInstruction([]byte{1}, s, Record{"amountIn": uint64(10), "minimumAmountOut": uint64(9)})
	require.NoError(t, err)
	require.Len(t, data, 17)
	assert.Equal(t, byte(1), data[0])
	assert.Equal(t, byte(10), data[1])
	assert.Equal(t, byte(9), data[9])
}

func TestDiscriminators(t *testing.T) {
	want := sha256.Sum256([]byte("global:stake_pool"))
	assert.Equal(t, want[:8], InstructionDiscriminator("stake_pool"))

	wantAcc := sha256.Sum256([]byte("account:PoolReward"))
	assert.Equal(t, wantAcc[:8], AccountDiscriminator("PoolReward"))

	data := append(AccountDiscriminator("PoolReward"), 1, 2, 3)
	assert.True(t, HasDiscriminator(data, AccountDiscriminator("PoolReward")))
	assert.False(t, HasDiscriminator(data, AccountDiscriminator("Pool")))
	assert.False(t, HasDiscriminator([]byte{1}, AccountDiscriminator("Pool")))
}

func TestOption(t *testing.T) {
	o := Some(uint64(3))
	v, ok := o.Get()
	assert.True(t, ok)
	assert.Equal(t, uint64(3), v)
	assert.Equal(t, uint64(0), None[uint64]().OrZero())

	bz, err := None[uint64]().MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, "null", string(bz))

	var back Option[uint64]
	require.NoError(t, back.UnmarshalJSON([]byte("42")))
	assert.Equal(t, Some(uint64(42)), back)
}
