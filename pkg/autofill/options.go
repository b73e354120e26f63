package autofill

import (
	"encoding/json"
	"io"

	"github.com/gagliardetto/solana-go"
	"github.com/rs/zerolog"

	"github.com/ninja0404/saros-go-sdk/pkg/config"
	"github.com/ninja0404/saros-go-sdk/pkg/jito"
)

// Options configures autofill helpers.
type Options struct {
	Program         config.ProgramConfig
	Fees            *config.FeeConfig // pool creation fees; nil uses Program.Fees
	Overrides       map[string]solana.PublicKey
	Preview         io.Writer
	KnownATAs       []solana.PublicKey // Skip ATA existence check for these addresses
	HostFeeOwner    solana.PublicKey   // Receives the swap host fee in LP tokens
	JitoTipLamports uint64             // Jito tip amount in lamports (0 = no tip)
	JitoTipAccount  solana.PublicKey   // Jito tip account (if zero, uses random from predefined list)
	Log             zerolog.Logger
}

// Option functional option.
type Option func(*Options)

func newOptions(opts []Option) *Options {
	o := &Options{
		Program: config.MainnetProgramConfig(),
		Log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.Program.TokenProgramID.IsZero() {
		o.Program.TokenProgramID = solana.TokenProgramID
	}
	return o
}

func (o *Options) fees() config.FeeConfig {
	if o.Fees != nil {
		return *o.Fees
	}
	return o.Program.Fees
}

// WithProgram targets a deployment other than mainnet.
func WithProgram(p config.ProgramConfig) Option {
	return func(o *Options) { o.Program = p }
}

// WithFees sets the fee block written by CreatePool.
func WithFees(f config.FeeConfig) Option {
	return func(o *Options) { o.Fees = &f }
}

func WithOverrides(m map[string]solana.PublicKey) Option {
	return func(o *Options) { o.Overrides = m }
}

func WithPreview(w io.Writer) Option {
	return func(o *Options) { o.Preview = w }
}

// WithLogger sets the logger used for flow diagnostics.
func WithLogger(l zerolog.Logger) Option {
	return func(o *Options) { o.Log = l }
}

// WithKnownATAs skips ATA existence check for the specified addresses.
// Use this when you know the ATA exists (e.g., from a previous swap in the
// same session) to avoid RPC state propagation delays.
//
// Example:
//
//	// After a swap, stake the received LP without re-checking the account
//	autofill.Stake(ctx, rpc, user, farmPool, amount, rewards,
//	    autofill.WithKnownATAs(lpATA),
//	)
func WithKnownATAs(atas ...solana.PublicKey) Option {
	return func(o *Options) { o.KnownATAs = append(o.KnownATAs, atas...) }
}

// WithHostFeeOwner routes the swap host fee to owner's LP token account,
// creating it when missing.
func WithHostFeeOwner(owner solana.PublicKey) Option {
	return func(o *Options) { o.HostFeeOwner = owner }
}

// WithJitoTip adds a Jito tip transfer instruction at the end of the transaction.
// This is used to incentivize Jito validators to include your transaction.
// tipLamports: amount to tip in lamports (e.g., 1_000_000 = 0.001 SOL)
// Uses a random tip account from the predefined list.
//
// Example:
//
//	autofill.Swap(ctx, rpc, user, pool, mintIn, amountIn, minOut,
//	    autofill.WithJitoTip(1_000_000), // 0.001 SOL tip
//	)
func WithJitoTip(tipLamports uint64) Option {
	return func(o *Options) {
		o.JitoTipLamports = tipLamports
		if o.JitoTipAccount.IsZero() {
			o.JitoTipAccount = jito.GetRandomTipAccountLocal()
		}
	}
}

// WithJitoTipAccount specifies a custom Jito tip account.
func WithJitoTipAccount(account solana.PublicKey) Option {
	return func(o *Options) { o.JitoTipAccount = account }
}

// MergeOverridesFromJSON merges base58 pubkeys from JSON blob into map.
func MergeOverridesFromJSON(dst map[string]solana.PublicKey, jsonBytes []byte) (map[string]solana.PublicKey, error) {
	if dst == nil {
		dst = make(map[string]solana.PublicKey)
	}
	var m map[string]string
	if err := json.Unmarshal(jsonBytes, &m); err != nil {
		return nil, err
	}
	for k, v := range m {
		pk, err := solana.PublicKeyFromBase58(v)
		if err != nil {
			return nil, err
		}
		dst[k] = pk
	}
	return dst, nil
}
