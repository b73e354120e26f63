package sarosfarm

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
	"lukechampine.com/uint128"

	"github.com/ninja0404/saros-go-sdk/pkg/layout"
	"github.com/ninja0404/saros-go-sdk/pkg/types"
)

// PoolState is the Anchor enum shared by pools and pool rewards.
type PoolState uint8

const (
	PoolStatePaused PoolState = iota
	PoolStateUnpaused
)

func (s PoolState) String() string {
	switch s {
	case PoolStatePaused:
		return "paused"
	case PoolStateUnpaused:
		return "unpaused"
	default:
		return fmt.Sprintf("PoolState(%d)", uint8(s))
	}
}

// Account bodies, without the 8-byte discriminator.
var (
	PoolSchema = layout.NewSchema("Pool",
		layout.U8("nonce"),
		layout.U8("authorityNonce"),
		layout.PublicKey("stakingTokenMint"),
		layout.PublicKey("stakingTokenAccount"),
		layout.U8("state"),
	)
	PoolRewardSchema = layout.NewSchema("PoolReward",
		layout.U8("nonce"),
		layout.U8("authorityNonce"),
		layout.PublicKey("rewardTokenMint"),
		layout.PublicKey("rewardTokenAccount"),
		layout.U128("rewardPerBlock"),
		layout.U64("rewardEndBlock"),
		layout.U64("totalShares"),
		layout.U128("accumulatedRewardPerShare"),
		layout.U64("lastUpdatedBlock"),
		layout.U64("totalClaimed"),
		layout.U8("state"),
	)
	UserPoolSchema = layout.NewSchema("UserPool",
		layout.U8("nonce"),
		layout.U64("amount"),
		layout.U64("totalStaked"),
	)
	UserPoolRewardSchema = layout.NewSchema("UserPoolReward",
		layout.U8("nonce"),
		layout.U64("amount"),
		layout.U64("rewardDebt"),
		layout.U64("rewardPending"),
	)
)

type Pool struct {
	Address             solana.PublicKey
	Nonce               uint8
	AuthorityNonce      uint8
	StakingTokenMint    solana.PublicKey
	StakingTokenAccount solana.PublicKey
	State               PoolState
}

type PoolReward struct {
	Address                   solana.PublicKey
	Nonce                     uint8
	AuthorityNonce            uint8
	RewardTokenMint           solana.PublicKey
	RewardTokenAccount        solana.PublicKey
	RewardPerBlock            uint128.Uint128
	RewardEndBlock            uint64
	TotalShares               uint64
	AccumulatedRewardPerShare uint128.Uint128
	LastUpdatedBlock          uint64
	TotalClaimed              uint64
	State                     PoolState
}

type UserPool struct {
	Address     solana.PublicKey
	Nonce       uint8
	Amount      uint64
	TotalStaked uint64
}

type UserPoolReward struct {
	Address       solana.PublicKey
	Nonce         uint8
	Amount        uint64
	RewardDebt    uint64
	RewardPending uint64
}

func decodeBody(disc []byte, s layout.Schema, data []byte) (layout.Record, error) {
	if len(data) < layout.DiscriminatorLength {
		return nil, &types.LayoutError{Schema: s.Name(), Want: layout.DiscriminatorLength + s.Span(), Got: len(data)}
	}
	if !layout.HasDiscriminator(data, disc) {
		return nil, &types.LayoutError{Schema: s.Name(), Reason: "discriminator mismatch"}
	}
	rec, err := layout.Decode(s, data[layout.DiscriminatorLength:])
	if err != nil {
		return nil, &types.LayoutError{Schema: s.Name(), Want: layout.DiscriminatorLength + s.Span(), Got: len(data)}
	}
	return rec, nil
}

func encodeBody(disc []byte, s layout.Schema, r layout.Record) ([]byte, error) {
	return layout.EncodeInstruction(disc, s, r)
}

func DecodePool(data []byte) (Pool, error) {
	r, err := decodeBody(PoolDiscriminator, PoolSchema, data)
	if err != nil {
		return Pool{}, err
	}
	return Pool{
		Nonce:               r.U8("nonce"),
		AuthorityNonce:      r.U8("authorityNonce"),
		StakingTokenMint:    r.PublicKey("stakingTokenMint"),
		StakingTokenAccount: r.PublicKey("stakingTokenAccount"),
		State:               PoolState(r.U8("state")),
	}, nil
}

func EncodePool(p Pool) ([]byte, error) {
	return encodeBody(PoolDiscriminator, PoolSchema, layout.Record{
		"nonce":               p.Nonce,
		"authorityNonce":      p.AuthorityNonce,
		"stakingTokenMint":    p.StakingTokenMint,
		"stakingTokenAccount": p.StakingTokenAccount,
		"state":               uint8(p.State),
	})
}

func DecodePoolReward(data []byte) (PoolReward, error) {
	r, err := decodeBody(PoolRewardDiscriminator, PoolRewardSchema, data)
	if err != nil {
		return PoolReward{}, err
	}
	return PoolReward{
		Nonce:                     r.U8("nonce"),
		AuthorityNonce:            r.U8("authorityNonce"),
		RewardTokenMint:           r.PublicKey("rewardTokenMint"),
		RewardTokenAccount:        r.PublicKey("rewardTokenAccount"),
		RewardPerBlock:            r.U128("rewardPerBlock"),
		RewardEndBlock:            r.U64("rewardEndBlock"),
		TotalShares:               r.U64("totalShares"),
		AccumulatedRewardPerShare: r.U128("accumulatedRewardPerShare"),
		LastUpdatedBlock:          r.U64("lastUpdatedBlock"),
		TotalClaimed:              r.U64("totalClaimed"),
		State:                     PoolState(r.U8("state")),
	}, nil
}

func EncodePoolReward(p PoolReward) ([]byte, error) {
	return encodeBody(PoolRewardDiscriminator, PoolRewardSchema, layout.Record{
		"nonce":                     p.Nonce,
		"authorityNonce":            p.AuthorityNonce,
		"rewardTokenMint":           p.RewardTokenMint,
		"rewardTokenAccount":        p.RewardTokenAccount,
		"rewardPerBlock":            p.RewardPerBlock,
		"rewardEndBlock":            p.RewardEndBlock,
		"totalShares":               p.TotalShares,
		"accumulatedRewardPerShare": p.AccumulatedRewardPerShare,
		"lastUpdatedBlock":          p.LastUpdatedBlock,
		"totalClaimed":              p.TotalClaimed,
		"state":                     uint8(p.State),
	})
}

func DecodeUserPool(data []byte) (UserPool, error) {
	r, err := decodeBody(UserPoolDiscriminator, UserPoolSchema, data)
	if err != nil {
		return UserPool{}, err
	}
	return UserPool{
		Nonce:       r.U8("nonce"),
		Amount:      r.U64("amount"),
		TotalStaked: r.U64("totalStaked"),
	}, nil
}

func EncodeUserPool(u UserPool) ([]byte, error) {
	return encodeBody(UserPoolDiscriminator, UserPoolSchema, layout.Record{
		"nonce":       u.Nonce,
		"amount":      u.Amount,
		"totalStaked": u.TotalStaked,
	})
}

func DecodeUserPoolReward(data []byte) (UserPoolReward, error) {
	r, err := decodeBody(UserPoolRewardDiscriminator, UserPoolRewardSchema, data)
	if err != nil {
		return UserPoolReward{}, err
	}
	return UserPoolReward{
		Nonce:         r.U8("nonce"),
		Amount:        r.U64("amount"),
		RewardDebt:    r.U64("rewardDebt"),
		RewardPending: r.U64("rewardPending"),
	}, nil
}

func EncodeUserPoolReward(u UserPoolReward) ([]byte, error) {
	return encodeBody(UserPoolRewardDiscriminator, UserPoolRewardSchema, layout.Record{
		"nonce":         u.Nonce,
		"amount":        u.Amount,
		"rewardDebt":    u.RewardDebt,
		"rewardPending": u.RewardPending,
	})
}

// AccountKind names a farm account type from its discriminator.
func AccountKind(data []byte) (string, bool) {
	switch {
	case layout.HasDiscriminator(data, PoolDiscriminator):
		return "Pool", true
	case layout.HasDiscriminator(data, PoolRewardDiscriminator):
		return "PoolReward", true
	case layout.HasDiscriminator(data, UserPoolDiscriminator):
		return "UserPool", true
	case layout.HasDiscriminator(data, UserPoolRewardDiscriminator):
		return "UserPoolReward", true
	default:
		return "", false
	}
}
