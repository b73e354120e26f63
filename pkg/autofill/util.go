package autofill

import (
	"context"
	"encoding/json"
	"reflect"
	"strings"

	"github.com/gagliardetto/solana-go"

	"github.com/ninja0404/saros-go-sdk/pkg/jito"
	"github.com/ninja0404/saros-go-sdk/pkg/rpc"
	"github.com/ninja0404/saros-go-sdk/pkg/token"
)

var publicKeyType = reflect.TypeOf(solana.PublicKey{})

// applyPubkeyOverrides sets exported fields from a map (key: field name or snake_case).
// Only plain PublicKey fields are touched; optional accounts keep their value.
func applyPubkeyOverrides(target interface{}, m map[string]solana.PublicKey) {
	if len(m) == 0 {
		return
	}
	val := reflect.ValueOf(target)
	if val.Kind() != reflect.Ptr {
		panic("target must be pointer to struct")
	}
	val = reflect.Indirect(val)
	if val.Kind() != reflect.Struct {
		panic("target must be struct")
	}
	t := val.Type()
	for i := 0; i < val.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() || field.Type != publicKeyType {
			continue
		}
		key := pickKey(field.Name, m)
		if key == "" {
			continue
		}
		val.Field(i).Set(reflect.ValueOf(m[key]))
	}
}

func pickKey(name string, m map[string]solana.PublicKey) string {
	candidates := []string{name, lowerCamel(name), snake(name)}
	for _, k := range candidates {
		if _, ok := m[k]; ok {
			return k
		}
	}
	return ""
}

func lowerCamel(name string) string {
	if name == "" {
		return ""
	}
	return strings.ToLower(name[:1]) + name[1:]
}

func snake(name string) string {
	var parts []string
	cur := ""
	for i, r := range name {
		if i > 0 && r >= 'A' && r <= 'Z' {
			parts = append(parts, strings.ToLower(cur))
			cur = string(r)
		} else {
			cur += string(r)
		}
	}
	if cur != "" {
		parts = append(parts, strings.ToLower(cur))
	}
	return strings.Join(parts, "_")
}

// ataRequest asks for wallet's associated account of mint.
type ataRequest struct {
	Wallet       solana.PublicKey
	Mint         solana.PublicKey
	TokenProgram solana.PublicKey
	Addr         solana.PublicKey // derived
}

// ataBatch is the outcome of one ensureATABatch call.
type ataBatch struct {
	Instructions []solana.Instruction
	Balances     map[solana.PublicKey]uint64 // 0 for accounts about to be created
}

// ensureATABatch derives every requested ATA, checks them in one
// getMultipleAccounts call and returns create instructions for the missing
// ones. Duplicates and known ATAs are created at most once and never fetched.
func ensureATABatch(ctx context.Context, chain rpc.AccountFetcher, payer solana.PublicKey, requests []ataRequest, known []solana.PublicKey) (ataBatch, error) {
	res := ataBatch{Balances: make(map[solana.PublicKey]uint64)}
	if len(requests) == 0 {
		return res, nil
	}

	skip := make(map[solana.PublicKey]bool, len(known))
	for _, k := range known {
		skip[k] = true
	}

	seen := make(map[solana.PublicKey]bool, len(requests))
	pending := make([]ataRequest, 0, len(requests))
	addrs := make([]solana.PublicKey, 0, len(requests))
	for i := range requests {
		addr, err := token.AssociatedAddress(requests[i].Wallet, requests[i].Mint, requests[i].TokenProgram)
		if err != nil {
			return res, err
		}
		requests[i].Addr = addr
		if seen[addr] || skip[addr] {
			continue
		}
		seen[addr] = true
		pending = append(pending, requests[i])
		addrs = append(addrs, addr)
	}
	if len(addrs) == 0 {
		return res, nil
	}

	accounts, err := chain.GetAccounts(ctx, addrs...)
	if err != nil {
		return res, err
	}

	for i, req := range pending {
		program := req.TokenProgram
		if program.IsZero() {
			program = solana.TokenProgramID
		}
		if acc := accounts[i]; acc != nil && acc.Owner.Equals(program) {
			if tokAcc, err := token.DecodeAccount(acc.Data); err == nil {
				res.Balances[req.Addr] = tokAcc.Amount
			}
			continue
		}
		res.Balances[req.Addr] = 0
		ix, err := token.CreateAssociatedAccount(payer, req.Wallet, req.Mint, program)
		if err != nil {
			return res, err
		}
		res.Instructions = append(res.Instructions, ix)
	}
	return res, nil
}

// wrapShortfall tops a WSOL account up to amount.
func wrapShortfall(payer, account, mint solana.PublicKey, amount, balance uint64) []solana.Instruction {
	if !token.IsWSOL(mint) || amount <= balance {
		return nil
	}
	return token.WrapSOL(payer, account, amount-balance)
}

// closeWSOL unwraps every WSOL account in accounts back to owner.
func closeWSOL(owner, tokenProgram solana.PublicKey, accounts []solana.PublicKey, mints []solana.PublicKey) []solana.Instruction {
	var out []solana.Instruction
	closed := make(map[solana.PublicKey]bool)
	for i, mint := range mints {
		if !token.IsWSOL(mint) || closed[accounts[i]] {
			continue
		}
		closed[accounts[i]] = true
		out = append(out, token.CloseAccount(accounts[i], owner, owner, tokenProgram))
	}
	return out
}

// appendJitoTip appends a Jito tip instruction if configured.
func appendJitoTip(instrs []solana.Instruction, payer solana.PublicKey, opts *Options) []solana.Instruction {
	if opts.JitoTipLamports == 0 {
		return instrs
	}
	return append(instrs, jito.TipInstruction(payer, opts.JitoTipAccount, opts.JitoTipLamports))
}

func writePreview(opts *Options, v interface{}) {
	if opts.Preview == nil {
		return
	}
	if err := json.NewEncoder(opts.Preview).Encode(v); err != nil {
		opts.Log.Debug().Err(err).Msg("write preview")
	}
}
