// Package txbuilder turns autofilled instruction lists into signed
// transactions and lands them over RPC or a Jito block engine.
package txbuilder

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	solanarpc "github.com/gagliardetto/solana-go/rpc"
	"github.com/rs/zerolog"

	"github.com/ninja0404/saros-go-sdk/pkg/jito"
	wraprpc "github.com/ninja0404/saros-go-sdk/pkg/rpc"
	"github.com/ninja0404/saros-go-sdk/pkg/types"
	"github.com/ninja0404/saros-go-sdk/pkg/wallet"
)

// ConfirmationLevel represents transaction confirmation depth.
type ConfirmationLevel string

const (
	ConfirmationProcessed ConfirmationLevel = "processed"
	ConfirmationConfirmed ConfirmationLevel = "confirmed"
	ConfirmationFinalized ConfirmationLevel = "finalized"
)

// reached reports whether an observed status satisfies level.
func (l ConfirmationLevel) reached(status solanarpc.ConfirmationStatusType) bool {
	switch l {
	case ConfirmationConfirmed:
		return status == solanarpc.ConfirmationStatusConfirmed || status == solanarpc.ConfirmationStatusFinalized
	case ConfirmationFinalized:
		return status == solanarpc.ConfirmationStatusFinalized
	default:
		return true
	}
}

// Builder ties together RPC, fee payer, and signing.
type Builder struct {
	client        *wraprpc.Client
	commitment    solanarpc.CommitmentType
	skipPreflight bool
	jitoClient    *jito.Client
	lookups       []types.ErrorLookup
	pollEvery     time.Duration
	log           zerolog.Logger
}

// NewBuilder constructs a builder with the provided client and commitment.
func NewBuilder(client *wraprpc.Client, commitment solanarpc.CommitmentType) *Builder {
	if commitment == "" {
		commitment = solanarpc.CommitmentConfirmed
	}
	return &Builder{
		client:     client,
		commitment: commitment,
		pollEvery:  100 * time.Millisecond,
		log:        zerolog.Nop(),
	}
}

func (b *Builder) WithSkipPreflight(skip bool) *Builder {
	b.skipPreflight = skip
	return b
}

// WithJito routes Send through a block engine. nil restores plain RPC.
func (b *Builder) WithJito(jitoClient *jito.Client) *Builder {
	b.jitoClient = jitoClient
	return b
}

// WithErrorLookups registers program error tables used to name custom
// codes in simulation failures.
func (b *Builder) WithErrorLookups(lookups ...types.ErrorLookup) *Builder {
	b.lookups = append(b.lookups, lookups...)
	return b
}

func (b *Builder) WithLogger(log zerolog.Logger) *Builder {
	b.log = log
	return b
}

func (b *Builder) HasJito() bool {
	return b.jitoClient != nil
}

// JitoClient returns the configured Jito client, or nil.
func (b *Builder) JitoClient() *jito.Client {
	return b.jitoClient
}

// BuildTransaction compiles instructions in order under a fresh blockhash.
func (b *Builder) BuildTransaction(ctx context.Context, feePayer solana.PublicKey, instructions ...solana.Instruction) (*solana.Transaction, error) {
	if b.client == nil {
		return nil, types.ErrNilRPC
	}
	if len(instructions) == 0 {
		return nil, types.ErrNoInstructions
	}
	latest, err := b.client.GetLatestBlockhash(ctx)
	if err != nil {
		return nil, fmt.Errorf("get latest blockhash: %w", err)
	}
	tx, err := solana.NewTransaction(instructions, latest.Value.Blockhash, solana.TransactionPayer(feePayer))
	if err != nil {
		return nil, fmt.Errorf("build transaction: %w", err)
	}
	return tx, nil
}

// SignTransaction signs every required slot of tx. Each required account key
// must be matched by one of signers; extra signers are ignored.
func SignTransaction(ctx context.Context, tx *solana.Transaction, signers ...wallet.Signer) error {
	if tx == nil {
		return fmt.Errorf("transaction is nil")
	}
	required := int(tx.Message.Header.NumRequiredSignatures)
	if required == 0 {
		return nil
	}
	if len(tx.Message.AccountKeys) < required {
		return fmt.Errorf("not enough account keys for required signatures")
	}
	byKey := make(map[solana.PublicKey]wallet.Signer, len(signers))
	for _, s := range signers {
		if s != nil {
			byKey[s.PublicKey()] = s
		}
	}
	message, err := tx.Message.MarshalBinary()
	if err != nil {
		return fmt.Errorf("encode message: %w", err)
	}
	sigs := make([]solana.Signature, required)
	for i, pk := range tx.Message.AccountKeys[:required] {
		s, ok := byKey[pk]
		if !ok {
			return fmt.Errorf("missing signer for %s", pk)
		}
		if sigs[i], err = s.SignMessage(ctx, message); err != nil {
			return fmt.Errorf("sign message for %s: %w", pk, err)
		}
	}
	tx.Signatures = sigs
	return nil
}

// BuildSigned builds a transaction paid by feePayer and signs it with
// feePayer plus signers, such as the pool and LP mint keypairs of CreatePool.
func (b *Builder) BuildSigned(ctx context.Context, feePayer wallet.Signer, signers []wallet.Signer, instructions ...solana.Instruction) (*solana.Transaction, error) {
	if feePayer == nil {
		return nil, types.ErrNilFeePayer
	}
	tx, err := b.BuildTransaction(ctx, feePayer.PublicKey(), instructions...)
	if err != nil {
		return nil, err
	}
	if err := SignTransaction(ctx, tx, append([]wallet.Signer{feePayer}, signers...)...); err != nil {
		return nil, err
	}
	return tx, nil
}

// Simulate runs tx through simulateTransaction without signature checks.
// A failed simulation is returned as a SimulationError naming the Saros
// program error when a registered lookup knows the code.
func (b *Builder) Simulate(ctx context.Context, tx *solana.Transaction) (*solanarpc.SimulateTransactionResult, error) {
	if b.client == nil {
		return nil, types.ErrNilRPC
	}
	res, err := b.client.SimulateTransaction(ctx, tx, &solanarpc.SimulateTransactionOpts{
		SigVerify:              false,
		ReplaceRecentBlockhash: true,
		Commitment:             b.commitment,
	})
	if err != nil {
		return nil, fmt.Errorf("simulate transaction: %w", err)
	}
	if res == nil || res.Value == nil {
		return nil, types.ErrSimulationFailed
	}
	if res.Value.Err != nil {
		return res.Value, types.ParseSimulationError(res.Value.Err, res.Value.Logs, b.lookups...)
	}
	return res.Value, nil
}

// BuildAndSimulate builds an unsigned transaction for feePayer and simulates it.
func (b *Builder) BuildAndSimulate(ctx context.Context, feePayer solana.PublicKey, instructions ...solana.Instruction) (*solanarpc.SimulateTransactionResult, error) {
	tx, err := b.BuildTransaction(ctx, feePayer, instructions...)
	if err != nil {
		return nil, err
	}
	return b.Simulate(ctx, tx)
}

// Send submits a signed transaction through Jito when configured, else RPC.
func (b *Builder) Send(ctx context.Context, tx *solana.Transaction) (solana.Signature, error) {
	if b.jitoClient != nil {
		return b.SendViaJito(ctx, tx)
	}
	return b.SendViaRPC(ctx, tx)
}

// SendViaRPC submits through sendTransaction. Node rejections are classified.
func (b *Builder) SendViaRPC(ctx context.Context, tx *solana.Transaction) (solana.Signature, error) {
	if b.client == nil {
		return solana.Signature{}, types.ErrNilRPC
	}
	sig, err := b.client.SendTransaction(ctx, tx, solanarpc.TransactionOpts{
		SkipPreflight:       b.skipPreflight,
		PreflightCommitment: b.commitment,
	})
	if err != nil {
		return solana.Signature{}, types.ClassifyError(fmt.Errorf("send transaction: %w", err), nil)
	}
	b.log.Debug().Stringer("sig", sig).Str("route", "rpc").Msg("transaction sent")
	return sig, nil
}

var errNoJito = errors.New("jito client is not configured")

// SendViaJito submits tx as a single-transaction bundle.
func (b *Builder) SendViaJito(ctx context.Context, tx *solana.Transaction) (solana.Signature, error) {
	if b.jitoClient == nil {
		return solana.Signature{}, errNoJito
	}
	res, err := b.jitoClient.SendTransaction(ctx, tx)
	if err != nil {
		return solana.Signature{}, err
	}
	b.log.Debug().Stringer("sig", res.Signature).Str("bundle", res.BundleID).Str("route", "jito").Msg("transaction sent")
	return res.Signature, nil
}

// SendViaJitoAndConfirm sends through Jito and waits on the bundle status.
func (b *Builder) SendViaJitoAndConfirm(ctx context.Context, tx *solana.Transaction) (solana.Signature, error) {
	if b.jitoClient == nil {
		return solana.Signature{}, errNoJito
	}
	res, err := b.jitoClient.SendTransaction(ctx, tx)
	if err != nil {
		return solana.Signature{}, err
	}
	if err := b.jitoClient.WaitForBundleConfirmation(ctx, res.BundleID); err != nil {
		return res.Signature, fmt.Errorf("bundle %s (sig %s): %w", res.BundleID, res.Signature, err)
	}
	return res.Signature, nil
}

// SendBundleViaJito submits txs as one all-or-nothing bundle, for flows too
// large for a single transaction.
func (b *Builder) SendBundleViaJito(ctx context.Context, txs []*solana.Transaction) (string, error) {
	if b.jitoClient == nil {
		return "", errNoJito
	}
	return b.jitoClient.SendBundle(ctx, txs)
}

// BuildSignSend builds, signs and sends without waiting.
func (b *Builder) BuildSignSend(ctx context.Context, feePayer wallet.Signer, signers []wallet.Signer, instructions ...solana.Instruction) (solana.Signature, error) {
	tx, err := b.BuildSigned(ctx, feePayer, signers, instructions...)
	if err != nil {
		return solana.Signature{}, err
	}
	return b.Send(ctx, tx)
}

// SendAndConfirm sends tx (through Jito when configured) and always confirms
// over RPC signature status.
func (b *Builder) SendAndConfirm(ctx context.Context, tx *solana.Transaction, level ConfirmationLevel) (solana.Signature, error) {
	sig, err := b.Send(ctx, tx)
	if err != nil {
		return solana.Signature{}, err
	}
	if err = b.WaitForConfirmation(ctx, sig, level); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			err = fmt.Errorf("%w: %v", types.ErrConfirmationTimeout, err)
		}
		return sig, fmt.Errorf("confirm %s: %w", sig, err)
	}
	return sig, nil
}

// BuildSignSendAndConfirm builds, signs, sends, and waits for confirmation.
func (b *Builder) BuildSignSendAndConfirm(ctx context.Context, feePayer wallet.Signer, signers []wallet.Signer, level ConfirmationLevel, instructions ...solana.Instruction) (solana.Signature, error) {
	tx, err := b.BuildSigned(ctx, feePayer, signers, instructions...)
	if err != nil {
		return solana.Signature{}, err
	}
	return b.SendAndConfirm(ctx, tx, level)
}

// WaitForConfirmation polls the signature status until level is reached.
// An executed-but-failed transaction returns a classified *types.TxError.
func (b *Builder) WaitForConfirmation(ctx context.Context, sig solana.Signature, level ConfirmationLevel) error {
	if b.client == nil {
		return types.ErrNilRPC
	}
	ticker := time.NewTicker(b.pollEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
		status, err := b.client.GetSignatureStatus(ctx, sig)
		if err != nil {
			b.log.Debug().Err(err).Stringer("sig", sig).Msg("signature status")
			continue
		}
		if status == nil {
			continue
		}
		if status.Err != nil {
			return types.ClassifyStatusError(status.Err, nil)
		}
		if level.reached(status.ConfirmationStatus) {
			return nil
		}
	}
}
