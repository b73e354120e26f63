package sarosswap

import (
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/ninja0404/saros-go-sdk/pkg/config"
	"github.com/ninja0404/saros-go-sdk/pkg/layout"
)

var (
	initializeSchema = layout.NewSchema("Initialize",
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
	swapSchema = layout.NewSchema("Swap",
		layout.U64("amountIn"),
		layout.U64("minimumAmountOut"),
	)
	depositSchema = layout.NewSchema("DepositAllTokenTypes",
		layout.U64("poolTokenAmount"),
		layout.U64("maximumTokenA"),
		layout.U64("maximumTokenB"),
	)
	withdrawSchema = layout.NewSchema("WithdrawAllTokenTypes",
		layout.U64("poolTokenAmount"),
		layout.U64("minimumTokenA"),
		layout.U64("minimumTokenB"),
	)
)

type InitializeArgs struct {
	Fees            config.FeeConfig
	CurveType       uint8
	CurveParameters [32]byte
}

type InitializeAccounts struct {
	Swap         solana.PublicKey
	Authority    solana.PublicKey
	TokenA       solana.PublicKey
	TokenB       solana.PublicKey
	PoolMint     solana.PublicKey
	FeeAccount   solana.PublicKey
	Destination  solana.PublicKey
	TokenProgram solana.PublicKey
}

func (a InitializeAccounts) ToAccountMetas() []*solana.AccountMeta {
	metas := make([]*solana.AccountMeta, 0, 8)
	metas = append(metas, solana.NewAccountMeta(a.Swap, true, false))
	metas = append(metas, solana.NewAccountMeta(a.Authority, false, false))
	metas = append(metas, solana.NewAccountMeta(a.TokenA, false, false))
	metas = append(metas, solana.NewAccountMeta(a.TokenB, false, false))
	metas = append(metas, solana.NewAccountMeta(a.PoolMint, true, false))
	metas = append(metas, solana.NewAccountMeta(a.FeeAccount, false, false))
	metas = append(metas, solana.NewAccountMeta(a.Destination, true, false))
	metas = append(metas, solana.NewAccountMeta(a.TokenProgram, false, false))
	return metas
}

// BuildInitialize initialises a pool account the caller has already allocated.
func BuildInitialize(programID solana.PublicKey, accounts InitializeAccounts, args InitializeArgs) (solana.Instruction, error) {
	f := args.Fees
	params := args.CurveParameters
	data, err := layout.EncodeInstruction([]byte{OpInitialize}, initializeSchema, layout.Record{
		"tradeFeeNumerator":           f.TradeFee.Numerator,
		"tradeFeeDenominator":         f.TradeFee.Denominator,
		"ownerTradeFeeNumerator":      f.OwnerTradeFee.Numerator,
		"ownerTradeFeeDenominator":    f.OwnerTradeFee.Denominator,
		"ownerWithdrawFeeNumerator":   f.OwnerWithdrawFee.Numerator,
		"ownerWithdrawFeeDenominator": f.OwnerWithdrawFee.Denominator,
		"hostFeeNumerator":            f.HostFee.Numerator,
		"hostFeeDenominator":          f.HostFee.Denominator,
		"curveType":                   args.CurveType,
		"curveParameters":             params[:],
	})
	if err != nil {
		return nil, fmt.Errorf("encode args: %w", err)
	}
	return solana.NewInstruction(programOrDefault(programID), accounts.ToAccountMetas(), data), nil
}

type SwapArgs struct {
	AmountIn         uint64
	MinimumAmountOut uint64
}

type SwapAccounts struct {
	TokenSwap             solana.PublicKey
	Authority             solana.PublicKey
	UserTransferAuthority solana.PublicKey
	UserSource            solana.PublicKey
	PoolSource            solana.PublicKey
	PoolDestination       solana.PublicKey
	UserDestination       solana.PublicKey
	PoolMint              solana.PublicKey
	FeeAccount            solana.PublicKey
	TokenProgram          solana.PublicKey
	HostFeeAccount        layout.Option[solana.PublicKey]
}

func (a SwapAccounts) ToAccountMetas() []*solana.AccountMeta {
	metas := make([]*solana.AccountMeta, 0, 11)
	metas = append(metas, solana.NewAccountMeta(a.TokenSwap, false, false))
	metas = append(metas, solana.NewAccountMeta(a.Authority, false, false))
	metas = append(metas, solana.NewAccountMeta(a.UserTransferAuthority, false, true))
	metas = append(metas, solana.NewAccountMeta(a.UserSource, true, false))
	metas = append(metas, solana.NewAccountMeta(a.PoolSource, true, false))
	metas = append(metas, solana.NewAccountMeta(a.PoolDestination, true, false))
	metas = append(metas, solana.NewAccountMeta(a.UserDestination, true, false))
	metas = append(metas, solana.NewAccountMeta(a.PoolMint, true, false))
	metas = append(metas, solana.NewAccountMeta(a.FeeAccount, true, false))
	metas = append(metas, solana.NewAccountMeta(a.TokenProgram, false, false))
	if host, ok := a.HostFeeAccount.Get(); ok {
		metas = append(metas, solana.NewAccountMeta(host, true, false))
	}
	return metas
}

func BuildSwap(programID solana.PublicKey, accounts SwapAccounts, args SwapArgs) (solana.Instruction, error) {
	data, err := layout.EncodeInstruction([]byte{OpSwap}, swapSchema, layout.Record{
		"amountIn":         args.AmountIn,
		"minimumAmountOut": args.MinimumAmountOut,
	})
	if err != nil {
		return nil, fmt.Errorf("encode args: %w", err)
	}
	return solana.NewInstruction(programOrDefault(programID), accounts.ToAccountMetas(), data), nil
}

type DepositAllTokenTypesArgs struct {
	PoolTokenAmount uint64
	MaximumTokenA   uint64
	MaximumTokenB   uint64
}

type DepositAllTokenTypesAccounts struct {
	Swap                  solana.PublicKey
	Authority             solana.PublicKey
	UserTransferAuthority solana.PublicKey
	SourceA               solana.PublicKey
	SourceB               solana.PublicKey
	IntoA                 solana.PublicKey
	IntoB                 solana.PublicKey
	PoolMint              solana.PublicKey
	Destination           solana.PublicKey
	TokenProgram          solana.PublicKey
}

func (a DepositAllTokenTypesAccounts) ToAccountMetas() []*solana.AccountMeta {
	metas := make([]*solana.AccountMeta, 0, 10)
	metas = append(metas, solana.NewAccountMeta(a.Swap, false, false))
	metas = append(metas, solana.NewAccountMeta(a.Authority, false, false))
	metas = append(metas, solana.NewAccountMeta(a.UserTransferAuthority, false, true))
	metas = append(metas, solana.NewAccountMeta(a.SourceA, true, false))
	metas = append(metas, solana.NewAccountMeta(a.SourceB, true, false))
	metas = append(metas, solana.NewAccountMeta(a.IntoA, true, false))
	metas = append(metas, solana.NewAccountMeta(a.IntoB, true, false))
	metas = append(metas, solana.NewAccountMeta(a.PoolMint, true, false))
	metas = append(metas, solana.NewAccountMeta(a.Destination, true, false))
	metas = append(metas, solana.NewAccountMeta(a.TokenProgram, false, false))
	return metas
}

func BuildDepositAllTokenTypes(programID solana.PublicKey, accounts DepositAllTokenTypesAccounts, args DepositAllTokenTypesArgs) (solana.Instruction, error) {
	data, err := layout.EncodeInstruction([]byte{OpDepositAllTokenTypes}, depositSchema, layout.Record{
		"poolTokenAmount": args.PoolTokenAmount,
		"maximumTokenA":   args.MaximumTokenA,
		"maximumTokenB":   args.MaximumTokenB,
	})
	if err != nil {
		return nil, fmt.Errorf("encode args: %w", err)
	}
	return solana.NewInstruction(programOrDefault(programID), accounts.ToAccountMetas(), data), nil
}

type WithdrawAllTokenTypesArgs struct {
	PoolTokenAmount uint64
	MinimumTokenA   uint64
	MinimumTokenB   uint64
}

type WithdrawAllTokenTypesAccounts struct {
	Swap                  solana.PublicKey
	Authority             solana.PublicKey
	UserTransferAuthority solana.PublicKey
	PoolMint              solana.PublicKey
	Source                solana.PublicKey
	FromA                 solana.PublicKey
	FromB                 solana.PublicKey
	UserA                 solana.PublicKey
	UserB                 solana.PublicKey
	FeeAccount            solana.PublicKey
	TokenProgram          solana.PublicKey
}

func (a WithdrawAllTokenTypesAccounts) ToAccountMetas() []*solana.AccountMeta {
	metas := make([]*solana.AccountMeta, 0, 11)
	metas = append(metas, solana.NewAccountMeta(a.Swap, false, false))
	metas = append(metas, solana.NewAccountMeta(a.Authority, false, false))
	metas = append(metas, solana.NewAccountMeta(a.UserTransferAuthority, false, true))
	metas = append(metas, solana.NewAccountMeta(a.PoolMint, true, false))
	metas = append(metas, solana.NewAccountMeta(a.Source, true, false))
	metas = append(metas, solana.NewAccountMeta(a.FromA, true, false))
	metas = append(metas, solana.NewAccountMeta(a.FromB, true, false))
	metas = append(metas, solana.NewAccountMeta(a.UserA, true, false))
	metas = append(metas, solana.NewAccountMeta(a.UserB, true, false))
	metas = append(metas, solana.NewAccountMeta(a.FeeAccount, true, false))
	metas = append(metas, solana.NewAccountMeta(a.TokenProgram, false, false))
	return metas
}

func BuildWithdrawAllTokenTypes(programID solana.PublicKey, accounts WithdrawAllTokenTypesAccounts, args WithdrawAllTokenTypesArgs) (solana.Instruction, error) {
	data, err := layout.EncodeInstruction([]byte{OpWithdrawAllTokenTypes}, withdrawSchema, layout.Record{
		"poolTokenAmount": args.PoolTokenAmount,
		"minimumTokenA":   args.MinimumTokenA,
		"minimumTokenB":   args.MinimumTokenB,
	})
	if err != nil {
		return nil, fmt.Errorf("encode args: %w", err)
	}
	return solana.NewInstruction(programOrDefault(programID), accounts.ToAccountMetas(), data), nil
}

// DecodeInstruction parses swap program instruction data back into its
// argument struct. The payload must match the opcode's schema exactly.
func DecodeInstruction(data []byte) (string, any, error) {
	if len(data) == 0 {
		return "", nil, fmt.Errorf("empty instruction data")
	}
	op := data[0]
	switch op {
	case OpInitialize:
		r, err := layout.DecodeInstruction([]byte{op}, initializeSchema, data)
		if err != nil {
			return "", nil, err
		}
		args := InitializeArgs{
			Fees: config.FeeConfig{
				TradeFee:         config.Ratio{Numerator: r.U64("tradeFeeNumerator"), Denominator: r.U64("tradeFeeDenominator")},
				OwnerTradeFee:    config.Ratio{Numerator: r.U64("ownerTradeFeeNumerator"), Denominator: r.U64("ownerTradeFeeDenominator")},
				OwnerWithdrawFee: config.Ratio{Numerator: r.U64("ownerWithdrawFeeNumerator"), Denominator: r.U64("ownerWithdrawFeeDenominator")},
				HostFee:          config.Ratio{Numerator: r.U64("hostFeeNumerator"), Denominator: r.U64("hostFeeDenominator")},
			},
			CurveType: r.U8("curveType"),
		}
		copy(args.CurveParameters[:], r.Bytes("curveParameters"))
		return initializeSchema.Name(), args, nil
	case OpSwap:
		r, err := layout.DecodeInstruction([]byte{op}, swapSchema, data)
		if err != nil {
			return "", nil, err
		}
		return swapSchema.Name(), SwapArgs{AmountIn: r.U64("amountIn"), MinimumAmountOut: r.U64("minimumAmountOut")}, nil
	case OpDepositAllTokenTypes:
		r, err := layout.DecodeInstruction([]byte{op}, depositSchema, data)
		if err != nil {
			return "", nil, err
		}
		return depositSchema.Name(), DepositAllTokenTypesArgs{
			PoolTokenAmount: r.U64("poolTokenAmount"),
			MaximumTokenA:   r.U64("maximumTokenA"),
			MaximumTokenB:   r.U64("maximumTokenB"),
		}, nil
	case OpWithdrawAllTokenTypes:
		r, err := layout.DecodeInstruction([]byte{op}, withdrawSchema, data)
		if err != nil {
			return "", nil, err
		}
		return withdrawSchema.Name(), WithdrawAllTokenTypesArgs{
			PoolTokenAmount: r.U64("poolTokenAmount"),
			MinimumTokenA:   r.U64("minimumTokenA"),
			MinimumTokenB:   r.U64("minimumTokenB"),
		}, nil
	}
	return "", nil, fmt.Errorf("unknown swap opcode %d", op)
}
