package sarosswap

import (
	"github.com/gagliardetto/solana-go"

	"github.com/ninja0404/saros-go-sdk/pkg/config"
	"github.com/ninja0404/saros-go-sdk/pkg/layout"
)

// PoolSchema is the 324-byte token-swap state.
var PoolSchema = layout.NewSchema("SwapPool",
	layout.U8("version"),
	layout.U8("isInitialized"),
	layout.U8("bumpSeed"),
	layout.PublicKey("tokenProgramId"),
	layout.PublicKey("tokenAccountA"),
	layout.PublicKey("tokenAccountB"),
	layout.PublicKey("tokenPool"),
	layout.PublicKey("mintA"),
	layout.PublicKey("mintB"),
	layout.PublicKey("feeAccount"),
	layout.U64("tradeFeeNumerator"),
	layout.U64("tradeFeeDenominator"),
	layout.U64("ownerTradeFeeNumerator"),
	layout.U64("ownerTradeFeeDenominator"),
	layout.U64("ownerWithdrawFeeNumerator"),
	layout.U64("ownerWithdrawFeeDenominator"),
	layout.U64("hostFeeNumerator"),
	layout.U64("hostFeeDenominator"),
	layout.U8("curveType"),
	layout.Blob("curveParameters", 32),
)

// Pool is a decoded swap pool.
type Pool struct {
	Address                     solana.PublicKey
	Version                     uint8
	IsInitialized               bool
	BumpSeed                    uint8
	TokenProgramID              solana.PublicKey
	Token0Account               solana.PublicKey
	Token1Account               solana.PublicKey
	LPTokenMint                 solana.PublicKey
	Token0Mint                  solana.PublicKey
	Token1Mint                  solana.PublicKey
	FeeAccount                  solana.PublicKey
	TradeFeeNumerator           uint64
	TradeFeeDenominator         uint64
	OwnerTradeFeeNumerator      uint64
	OwnerTradeFeeDenominator    uint64
	OwnerWithdrawFeeNumerator   uint64
	OwnerWithdrawFeeDenominator uint64
	HostFeeNumerator            uint64
	HostFeeDenominator          uint64
	CurveType                   uint8
	CurveParameters             [32]byte
}

// DecodePool decodes swap pool state.
func DecodePool(data []byte) (Pool, error) {
	r, err := layout.Decode(PoolSchema, data)
	if err != nil {
		return Pool{}, err
	}
	p := Pool{
		Version:                     r.U8("version"),
		IsInitialized:               r.U8("isInitialized") != 0,
		BumpSeed:                    r.U8("bumpSeed"),
		TokenProgramID:              r.PublicKey("tokenProgramId"),
		Token0Account:               r.PublicKey("tokenAccountA"),
		Token1Account:               r.PublicKey("tokenAccountB"),
		LPTokenMint:                 r.PublicKey("tokenPool"),
		Token0Mint:                  r.PublicKey("mintA"),
		Token1Mint:                  r.PublicKey("mintB"),
		FeeAccount:                  r.PublicKey("feeAccount"),
		TradeFeeNumerator:           r.U64("tradeFeeNumerator"),
		TradeFeeDenominator:         r.U64("tradeFeeDenominator"),
		OwnerTradeFeeNumerator:      r.U64("ownerTradeFeeNumerator"),
		OwnerTradeFeeDenominator:    r.U64("ownerTradeFeeDenominator"),
		OwnerWithdrawFeeNumerator:   r.U64("ownerWithdrawFeeNumerator"),
		OwnerWithdrawFeeDenominator: r.U64("ownerWithdrawFeeDenominator"),
		HostFeeNumerator:            r.U64("hostFeeNumerator"),
		HostFeeDenominator:          r.U64("hostFeeDenominator"),
		CurveType:                   r.U8("curveType"),
	}
	copy(p.CurveParameters[:], r.Bytes("curveParameters"))
	return p, nil
}

// EncodePool is the inverse of DecodePool. Used by tests and local fixtures.
func EncodePool(p Pool) ([]byte, error) {
	var initialized uint8
	if p.IsInitialized {
		initialized = 1
	}
	params := p.CurveParameters
	return layout.Encode(PoolSchema, layout.Record{
		"version":                     p.Version,
		"isInitialized":               initialized,
		"bumpSeed":                    p.BumpSeed,
		"tokenProgramId":              p.TokenProgramID,
		"tokenAccountA":               p.Token0Account,
		"tokenAccountB":               p.Token1Account,
		"tokenPool":                   p.LPTokenMint,
		"mintA":                       p.Token0Mint,
		"mintB":                       p.Token1Mint,
		"feeAccount":                  p.FeeAccount,
		"tradeFeeNumerator":           p.TradeFeeNumerator,
		"tradeFeeDenominator":         p.TradeFeeDenominator,
		"ownerTradeFeeNumerator":      p.OwnerTradeFeeNumerator,
		"ownerTradeFeeDenominator":    p.OwnerTradeFeeDenominator,
		"ownerWithdrawFeeNumerator":   p.OwnerWithdrawFeeNumerator,
		"ownerWithdrawFeeDenominator": p.OwnerWithdrawFeeDenominator,
		"hostFeeNumerator":            p.HostFeeNumerator,
		"hostFeeDenominator":          p.HostFeeDenominator,
		"curveType":                   p.CurveType,
		"curveParameters":             params[:],
	})
}

// Fees returns the fee block stored in the pool.
func (p Pool) Fees() config.FeeConfig {
	return config.FeeConfig{
		TradeFee:         config.Ratio{Numerator: p.TradeFeeNumerator, Denominator: p.TradeFeeDenominator},
		OwnerTradeFee:    config.Ratio{Numerator: p.OwnerTradeFeeNumerator, Denominator: p.OwnerTradeFeeDenominator},
		OwnerWithdrawFee: config.Ratio{Numerator: p.OwnerWithdrawFeeNumerator, Denominator: p.OwnerWithdrawFeeDenominator},
		HostFee:          config.Ratio{Numerator: p.HostFeeNumerator, Denominator: p.HostFeeDenominator},
	}
}

// Side maps an input mint to the pool vaults it trades between.
func (p Pool) Side(mintIn solana.PublicKey) (source, dest solana.PublicKey, ok bool) {
	switch {
	case mintIn.Equals(p.Token0Mint):
		return p.Token0Account, p.Token1Account, true
	case mintIn.Equals(p.Token1Mint):
		return p.Token1Account, p.Token0Account, true
	default:
		return solana.PublicKey{}, solana.PublicKey{}, false
	}
}

// OtherMint returns the mint paired with mint, if mint belongs to the pool.
func (p Pool) OtherMint(mint solana.PublicKey) (solana.PublicKey, bool) {
	switch {
	case mint.Equals(p.Token0Mint):
		return p.Token1Mint, true
	case mint.Equals(p.Token1Mint):
		return p.Token0Mint, true
	default:
		return solana.PublicKey{}, false
	}
}
