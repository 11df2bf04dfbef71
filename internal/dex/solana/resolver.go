package solana

import (
	"context"
	"errors"
	"fmt"

	solana "github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

// ErrAccountLookup marks RPC failures while inspecting on-chain state.
// A missing account is not a lookup error; it is a valid false result.
var ErrAccountLookup = errors.New("account lookup failed")

// AccountInfoClient is the slice of the RPC surface the resolver needs.
type AccountInfoClient interface {
	GetAccountInfo(ctx context.Context, account solana.PublicKey) (*rpc.GetAccountInfoResult, error)
}

// Resolver derives and inspects the token accounts that hold a mint's
// balance for an owner.
type Resolver struct {
	rpc AccountInfoClient
}

func NewResolver(client AccountInfoClient) *Resolver {
	return &Resolver{rpc: client}
}

// ResolveTokenAccount derives the associated token account for the
// mint/owner pair. Pure derivation, no network.
func ResolveTokenAccount(mint, owner solana.PublicKey) (solana.PublicKey, error) {
	ata, _, err := solana.FindAssociatedTokenAddress(owner, mint)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("derive token account: %w", err)
	}
	return ata, nil
}

// AccountExists reports whether the account is present on chain.
func (r *Resolver) AccountExists(ctx context.Context, account solana.PublicKey) (bool, error) {
	info, err := r.rpc.GetAccountInfo(ctx, account)
	if err != nil {
		if errors.Is(err, rpc.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("%w: %v", ErrAccountLookup, err)
	}
	return info != nil && info.Value != nil, nil
}
