package solana

import (
	"bytes"
	"context"
	"fmt"

	bin "github.com/gagliardetto/binary"
	solana "github.com/gagliardetto/solana-go"
	associatedtokenaccount "github.com/gagliardetto/solana-go/programs/associated-token-account"
	tokenprog "github.com/gagliardetto/solana-go/programs/token"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/rs/zerolog"

	"github.com/pmn2090/BermudaDex/internal/metrics"
)

// AirdropProgramID is the devnet faucet program that mints test USDC.
var AirdropProgramID = solana.MustPublicKeyFromBase58("2fy3LqpXg9V8hZqoQmaJLdGiGLhPYQKs3TQ8d8CzmLME")

// The cluster faucet grants two SOL per request.
const solAirdropLamports = 2 * solana.LAMPORTS_PER_SOL

// airdropPayloadSize is fixed by the deployed program: a borsh u8
// variant plus u32 amount, zero-padded to nine bytes.
const airdropPayloadSize = 9

type airdropArgs struct {
	Variant uint8
	Amount  uint32
}

func airdropInstructionData(amount uint32) ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := bin.NewBorshEncoder(buf).Encode(airdropArgs{Variant: 0, Amount: amount}); err != nil {
		return nil, fmt.Errorf("encode airdrop args: %w", err)
	}
	data := make([]byte, airdropPayloadSize)
	copy(data, buf.Bytes())
	return data, nil
}

// NewAirdropInstruction builds the faucet mint instruction crediting
// the user's token account with amount base units.
func NewAirdropInstruction(user, userTokenAccount, mint solana.PublicKey, amount uint32) (solana.Instruction, error) {
	authority, _, err := solana.FindProgramAddress([][]byte{[]byte("authority")}, AirdropProgramID)
	if err != nil {
		return nil, fmt.Errorf("derive mint authority: %w", err)
	}
	data, err := airdropInstructionData(amount)
	if err != nil {
		return nil, err
	}
	return solana.NewInstruction(
		AirdropProgramID,
		solana.AccountMetaSlice{
			solana.Meta(user).WRITE().SIGNER(),
			solana.Meta(userTokenAccount).WRITE(),
			solana.Meta(mint).WRITE(),
			solana.Meta(authority),
			solana.Meta(solana.TokenProgramID),
		},
		data,
	), nil
}

// FaucetClient extends the RPC surface with the cluster airdrop call.
type FaucetClient interface {
	RPCClient
	RequestAirdrop(ctx context.Context, account solana.PublicKey, lamports uint64, commitment rpc.CommitmentType) (solana.Signature, error)
}

// Faucet hands out test tokens on the dev cluster.
type Faucet struct {
	rpc      FaucetClient
	resolver *Resolver
	commit   rpc.CommitmentType
	log      zerolog.Logger
}

func NewFaucet(client FaucetClient, commitment string, log zerolog.Logger) *Faucet {
	return &Faucet{
		rpc:      client,
		resolver: NewResolver(client),
		commit:   parseCommitment(commitment),
		log:      log,
	}
}

// AirdropUSDC mints test USDC into the wallet's token account,
// creating the account first when it is missing.
func (f *Faucet) AirdropUSDC(ctx context.Context, wallet Wallet, usdcMint solana.PublicKey, amount uint32) (solana.Signature, error) {
	owner := wallet.PublicKey()
	ata, err := ResolveTokenAccount(usdcMint, owner)
	if err != nil {
		return solana.Signature{}, err
	}
	exists, err := f.resolver.AccountExists(ctx, ata)
	if err != nil {
		return solana.Signature{}, err
	}

	ixs := make([]solana.Instruction, 0, 2)
	if !exists {
		ixs = append(ixs, associatedtokenaccount.NewCreateInstruction(owner, owner, usdcMint).Build())
	}
	mintIx, err := NewAirdropInstruction(owner, ata, usdcMint, amount)
	if err != nil {
		return solana.Signature{}, err
	}
	ixs = append(ixs, mintIx)

	sig, err := sendTransaction(ctx, f.rpc, wallet, ixs, f.commit)
	if err != nil {
		return solana.Signature{}, err
	}
	metrics.AirdropsTotal.WithLabelValues("usdc").Inc()
	f.log.Info().Str("sig", sig.String()).Uint32("amount", amount).Msg("usdc airdrop sent")
	return sig, nil
}

// AirdropSOL requests lamports from the cluster faucet straight into
// the wrapped-SOL account, then creates and syncs it as needed.
func (f *Faucet) AirdropSOL(ctx context.Context, wallet Wallet) (solana.Signature, error) {
	owner := wallet.PublicKey()
	ata, err := ResolveTokenAccount(solana.SolMint, owner)
	if err != nil {
		return solana.Signature{}, err
	}
	if _, err := f.rpc.RequestAirdrop(ctx, ata, solAirdropLamports, f.commit); err != nil {
		return solana.Signature{}, fmt.Errorf("request airdrop: %w", err)
	}
	exists, err := f.resolver.AccountExists(ctx, ata)
	if err != nil {
		return solana.Signature{}, err
	}

	ixs := make([]solana.Instruction, 0, 2)
	if !exists {
		ixs = append(ixs, associatedtokenaccount.NewCreateInstruction(owner, owner, solana.SolMint).Build())
	}
	ixs = append(ixs, tokenprog.NewSyncNativeInstruction(ata).Build())

	sig, err := sendTransaction(ctx, f.rpc, wallet, ixs, f.commit)
	if err != nil {
		return solana.Signature{}, err
	}
	metrics.AirdropsTotal.WithLabelValues("sol").Inc()
	f.log.Info().Str("sig", sig.String()).Msg("sol airdrop sent")
	return sig, nil
}
