// Package pda derives program addresses for the Saros swap and farm programs.
//
// Derive searches bump seeds from 255 down to 0 and returns the first
// off-curve candidate. Results are memoised per (program, seeds) so every
// caller in the process sees the same canonical bump.
package pda

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"github.com/gagliardetto/solana-go"

	"github.com/ninja0404/saros-go-sdk/pkg/constants"
	"github.com/ninja0404/saros-go-sdk/pkg/types"
)

var errBumpsExhausted = errors.New("unable to find a valid program address")

type derived struct {
	addr solana.PublicKey
	bump uint8
}

var cache sync.Map // string -> derived

// Derive returns the canonical program address and bump for seeds.
func Derive(seeds [][]byte, programID solana.PublicKey) (solana.PublicKey, uint8, error) {
	key := cacheKey(seeds, programID)
	if v, ok := cache.Load(key); ok {
		d := v.(derived)
		return d.addr, d.bump, nil
	}
	addr, bump, err := search(seeds, programID)
	if err != nil {
		return solana.PublicKey{}, 0, err
	}
	v, _ := cache.LoadOrStore(key, derived{addr: addr, bump: bump})
	d := v.(derived)
	return d.addr, d.bump, nil
}

// Create computes the address for seeds without a bump search. It fails when
// the seeds land on the curve.
func Create(seeds [][]byte, programID solana.PublicKey) (solana.PublicKey, error) {
	addr, err := solana.CreateProgramAddress(seeds, programID)
	if err != nil {
		return solana.PublicKey{}, &types.DerivationError{Program: programID, Seeds: len(seeds), Err: err}
	}
	return addr, nil
}

func search(seeds [][]byte, programID solana.PublicKey) (solana.PublicKey, uint8, error) {
	for _, s := range seeds {
		if len(s) > solana.MaxSeedLength {
			return solana.PublicKey{}, 0, &types.DerivationError{
				Program: programID,
				Seeds:   len(seeds),
				Err:     fmt.Errorf("%w: %d bytes", solana.ErrMaxSeedLengthExceeded, len(s)),
			}
		}
	}
	withBump := make([][]byte, len(seeds)+1)
	copy(withBump, seeds)
	bump := []byte{0}
	withBump[len(seeds)] = bump
	for b := 255; b >= 0; b-- {
		bump[0] = byte(b)
		addr, err := solana.CreateProgramAddress(withBump, programID)
		if err == nil {
			return addr, uint8(b), nil
		}
		if errors.Is(err, solana.ErrMaxSeedLengthExceeded) {
			return solana.PublicKey{}, 0, &types.DerivationError{Program: programID, Seeds: len(seeds), Err: err}
		}
	}
	return solana.PublicKey{}, 0, &types.DerivationError{Program: programID, Seeds: len(seeds), Err: errBumpsExhausted}
}

func cacheKey(seeds [][]byte, programID solana.PublicKey) string {
	n := solana.PublicKeyLength
	for _, s := range seeds {
		n += 2 + len(s)
	}
	buf := make([]byte, 0, n)
	buf = append(buf, programID[:]...)
	for _, s := range seeds {
		buf = binary.LittleEndian.AppendUint16(buf, uint16(len(s)))
		buf = append(buf, s...)
	}
	return string(buf)
}

// SwapPoolAuthority is the authority PDA of a swap pool: seeds [pool].
func SwapPoolAuthority(pool, programID solana.PublicKey) (solana.PublicKey, uint8, error) {
	return Derive([][]byte{pool[:]}, programID)
}

// NewSwapPoolSeed derives a fresh pool seed address from a random key. The seed
// doubles as the ed25519 seed of the pool account keypair. It bypasses the cache.
func NewSwapPoolSeed(programID solana.PublicKey) (solana.PublicKey, error) {
	random, err := solana.NewRandomPrivateKey()
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("generate random key: %w", err)
	}
	pub := random.PublicKey()
	addr, _, err := search([][]byte{pub[:]}, programID)
	return addr, err
}

// FarmPoolAuthority is the authority PDA of a farm pool: seeds ["authority", pool].
func FarmPoolAuthority(pool, programID solana.PublicKey) (solana.PublicKey, uint8, error) {
	return Derive([][]byte{[]byte(constants.SeedFarmAuthority), pool[:]}, programID)
}

// FarmPoolRewardAuthority is the authority PDA of a pool reward: seeds ["authority", poolReward].
func FarmPoolRewardAuthority(poolReward, programID solana.PublicKey) (solana.PublicKey, uint8, error) {
	return Derive([][]byte{[]byte(constants.SeedFarmAuthority), poolReward[:]}, programID)
}

// FarmUserPool is the per-user stake record: seeds [user, pool].
func FarmUserPool(user, pool, programID solana.PublicKey) (solana.PublicKey, uint8, error) {
	return Derive([][]byte{user[:], pool[:]}, programID)
}

// FarmUserPoolReward is the per-user reward record: seeds [user, poolReward].
func FarmUserPoolReward(user, poolReward, programID solana.PublicKey) (solana.PublicKey, uint8, error) {
	return Derive([][]byte{user[:], poolReward[:]}, programID)
}

// AssociatedTokenAddress derives the ATA of wallet for mint: seeds [wallet, tokenProgram, mint].
func AssociatedTokenAddress(wallet, mint, tokenProgram solana.PublicKey) (solana.PublicKey, error) {
	addr, _, err := Derive([][]byte{wallet[:], tokenProgram[:], mint[:]}, constants.AssociatedTokenProgramID)
	return addr, err
}

// FarmPool is a farm pool addressed by an admin-chosen path: seeds [path].
func FarmPool(path []byte, programID solana.PublicKey) (solana.PublicKey, uint8, error) {
	return Derive([][]byte{path}, programID)
}

// FarmPoolReward addresses a pool reward the same way as FarmPool.
func FarmPoolReward(path []byte, programID solana.PublicKey) (solana.PublicKey, uint8, error) {
	return Derive([][]byte{path}, programID)
}
