package solana

import (
	"context"
	"fmt"

	solana "github.com/gagliardetto/solana-go"
	associatedtokenaccount "github.com/gagliardetto/solana-go/programs/associated-token-account"
	"github.com/gagliardetto/solana-go/programs/system"
	tokenprog "github.com/gagliardetto/solana-go/programs/token"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/rs/zerolog"

	"github.com/pmn2090/BermudaDex/internal/metrics"
	"github.com/pmn2090/BermudaDex/internal/token"
)

// RPCClient is the RPC surface needed to build and send transactions.
type RPCClient interface {
	AccountInfoClient
	GetLatestBlockhash(ctx context.Context, commitment rpc.CommitmentType) (*rpc.GetLatestBlockhashResult, error)
	SendTransactionWithOpts(ctx context.Context, tx *solana.Transaction, opts rpc.TransactionOpts) (solana.Signature, error)
}

// Assembler builds the spend-authorization transaction for a swap and
// submits it under the wallet's signature.
type Assembler struct {
	rpc      RPCClient
	resolver *Resolver
	solver   solana.PublicKey
	commit   rpc.CommitmentType
	log      zerolog.Logger
}

func NewAssembler(client RPCClient, solver solana.PublicKey, commitment string, log zerolog.Logger) *Assembler {
	return &Assembler{
		rpc:      client,
		resolver: NewResolver(client),
		solver:   solver,
		commit:   parseCommitment(commitment),
		log:      log,
	}
}

func parseCommitment(commitment string) rpc.CommitmentType {
	switch commitment {
	case "processed":
		return rpc.CommitmentProcessed
	case "finalized":
		return rpc.CommitmentFinalized
	default:
		return rpc.CommitmentConfirmed
	}
}

// SwapInstructions composes the ordered instruction list for one swap.
// For a native input the wrap sequence must stay intact: the lamport
// transfer lands first, then the sync, inside the same atomic
// transaction. The approve always comes last and grants the solver
// permission to move up to spend units from the input account.
func SwapInstructions(owner solana.PublicKey, inputMint token.Mint, inputAccount solana.PublicKey, spend uint64, createAccount bool, solver solana.PublicKey) []solana.Instruction {
	ixs := make([]solana.Instruction, 0, 4)
	if inputMint.Native() {
		if createAccount {
			ixs = append(ixs, associatedtokenaccount.NewCreateInstruction(owner, owner, inputMint.Address).Build())
		}
		ixs = append(ixs,
			system.NewTransferInstruction(spend, owner, inputAccount).Build(),
			tokenprog.NewSyncNativeInstruction(inputAccount).Build(),
		)
	}
	ixs = append(ixs, tokenprog.NewApproveInstruction(spend, inputAccount, solver, owner, nil).Build())
	return ixs
}

// SendSwap resolves the input token account, assembles the swap
// transaction, signs it with the wallet, and sends it. "Sent" is the
// contract here; on-chain confirmation is the solver's concern.
func (a *Assembler) SendSwap(ctx context.Context, wallet Wallet, inputMint token.Mint, spend uint64) (solana.Signature, error) {
	owner := wallet.PublicKey()
	inputAccount, err := ResolveTokenAccount(inputMint.Address, owner)
	if err != nil {
		return solana.Signature{}, err
	}

	createAccount := false
	if inputMint.Native() {
		exists, err := a.resolver.AccountExists(ctx, inputAccount)
		if err != nil {
			return solana.Signature{}, err
		}
		createAccount = !exists
	}

	ixs := SwapInstructions(owner, inputMint, inputAccount, spend, createAccount, a.solver)
	sig, err := sendTransaction(ctx, a.rpc, wallet, ixs, a.commit)
	if err != nil {
		return solana.Signature{}, err
	}
	a.log.Info().Str("sig", sig.String()).Str("mint", inputMint.Name).Uint64("spend", spend).Msg("transaction sent")
	return sig, nil
}

// sendTransaction builds one atomic transaction from the instruction
// list, signs it, and submits it via RPC.
func sendTransaction(ctx context.Context, client RPCClient, wallet Wallet, ixs []solana.Instruction, commit rpc.CommitmentType) (solana.Signature, error) {
	recent, err := client.GetLatestBlockhash(ctx, commit)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("recent blockhash: %w", err)
	}

	tx, err := solana.NewTransaction(ixs, recent.Value.Blockhash, solana.TransactionPayer(wallet.PublicKey()))
	if err != nil {
		return solana.Signature{}, fmt.Errorf("build transaction: %w", err)
	}
	if err := wallet.SignTransaction(tx); err != nil {
		return solana.Signature{}, fmt.Errorf("sign: %w", err)
	}

	sig, err := client.SendTransactionWithOpts(ctx, tx, rpc.TransactionOpts{
		SkipPreflight:       false,
		PreflightCommitment: commit,
	})
	if err != nil {
		return solana.Signature{}, fmt.Errorf("send transaction: %w", err)
	}
	metrics.TransactionsSentTotal.Inc()
	return sig, nil
}
