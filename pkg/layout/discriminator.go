package layout

import (
	"bytes"

	bin "github.com/gagliardetto/binary"
)

// DiscriminatorLength is the size of an Anchor instruction or account prefix.
const DiscriminatorLength = 8

// InstructionDiscriminator is sha256("global:" + method)[:8]. method must already
// be in the program's snake_case form.
func InstructionDiscriminator(method string) []byte {
	return bin.Sighash(bin.SIGHASH_GLOBAL_NAMESPACE, method)
}

// AccountDiscriminator is sha256("account:" + name)[:8] for a PascalCase account name.
func AccountDiscriminator(name string) []byte {
	return bin.Sighash(bin.SIGHASH_ACCOUNT_NAMESPACE, name)
}

// HasDiscriminator reports whether data starts with disc.
func HasDiscriminator(data, disc []byte) bool {
	return len(data) >= len(disc) && bytes.Equal(data[:len(disc)], disc)
}
