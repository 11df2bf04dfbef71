// Package token defines the mints tradeable on the Bermuda deployment
// and the conversions between human-readable and base-unit amounts.
package token

import (
	"fmt"

	solana "github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
)

// Mint identifies a tradeable asset: a short name, the on-chain mint
// address, and the decimal precision of its smallest unit.
type Mint struct {
	Name     string
	Address  solana.PublicKey
	Decimals int32
}

// SOL is the wrapped native mint; its address is fixed chain-wide.
var SOL = Mint{Name: "sol", Address: solana.SolMint, Decimals: 9}

// NewUSDC builds the stable mint from the deployment's configured address.
func NewUSDC(address solana.PublicKey) Mint {
	return Mint{Name: "usdc", Address: address, Decimals: 6}
}

// Native reports whether the mint is the chain's native asset and
// therefore needs wrapping before token instructions can move it.
func (m Mint) Native() bool { return m.Address.Equals(solana.SolMint) }

// ToBaseUnits converts a human-readable amount into the mint's smallest
// integer unit. Rounding is always floor, in the spender's favor; the
// on-chain instruction encoding depends on this exact behavior.
func (m Mint) ToBaseUnits(amount decimal.Decimal) uint64 {
	units := amount.Shift(m.Decimals).Floor()
	if units.Sign() <= 0 {
		return 0
	}
	return units.BigInt().Uint64()
}

// Registry holds the mint pair served by this deployment.
type Registry struct {
	mints []Mint
}

// NewRegistry builds the registry for the two deployment mints.
func NewRegistry(usdcAddress solana.PublicKey) *Registry {
	return &Registry{mints: []Mint{SOL, NewUSDC(usdcAddress)}}
}

// Names lists the mint names in registry order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.mints))
	for _, m := range r.mints {
		names = append(names, m.Name)
	}
	return names
}

// ByName looks a mint up by its short name.
func (r *Registry) ByName(name string) (Mint, error) {
	for _, m := range r.mints {
		if m.Name == name {
			return m, nil
		}
	}
	return Mint{}, fmt.Errorf("unknown mint: %s", name)
}

// Other returns the counter mint for the given one; a mint never
// trades against itself.
func (r *Registry) Other(mint Mint) (Mint, error) {
	for _, m := range r.mints {
		if m.Name != mint.Name {
			return m, nil
		}
	}
	return Mint{}, fmt.Errorf("no counter mint for %s", mint.Name)
}

// Pair returns the default (input, output) mints for a fresh form.
func (r *Registry) Pair() (Mint, Mint) {
	return r.mints[0], r.mints[1]
}
