package token

import (
	"testing"

	solana "github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
)

var testUSDC = solana.MustPublicKeyFromBase58("EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v")

func TestToBaseUnits(t *testing.T) {
	cases := []struct {
		mint     Mint
		amount   string
		expected uint64
	}{
		{SOL, "1.5", 1_500_000_000},
		{SOL, "0", 0},
		{SOL, "0.000000001", 1},
		{SOL, "0.0000000019", 1}, // floor, never round up
		{NewUSDC(testUSDC), "20", 20_000_000},
		{NewUSDC(testUSDC), "5.25", 5_250_000},
		{NewUSDC(testUSDC), "1.9999999", 1_999_999},
	}
	for _, tc := range cases {
		got := tc.mint.ToBaseUnits(decimal.RequireFromString(tc.amount))
		if got != tc.expected {
			t.Fatalf("%s %s: expected %d, got %d", tc.mint.Name, tc.amount, tc.expected, got)
		}
	}
}

func TestToBaseUnitsNegativeClampsToZero(t *testing.T) {
	if got := SOL.ToBaseUnits(decimal.RequireFromString("-1")); got != 0 {
		t.Fatalf("expected 0 for negative amount, got %d", got)
	}
}

func TestNative(t *testing.T) {
	if !SOL.Native() {
		t.Fatalf("expected SOL to be native")
	}
	if NewUSDC(testUSDC).Native() {
		t.Fatalf("expected USDC to be non-native")
	}
}

func TestRegistryOtherNeverSelfPairs(t *testing.T) {
	reg := NewRegistry(testUSDC)
	for _, name := range reg.Names() {
		mint, err := reg.ByName(name)
		if err != nil {
			t.Fatalf("ByName(%s) returned error: %v", name, err)
		}
		other, err := reg.Other(mint)
		if err != nil {
			t.Fatalf("Other(%s) returned error: %v", name, err)
		}
		if other.Name == mint.Name {
			t.Fatalf("mint %s paired with itself", name)
		}
	}
}

func TestRegistryByNameUnknown(t *testing.T) {
	reg := NewRegistry(testUSDC)
	if _, err := reg.ByName("doge"); err == nil {
		t.Fatalf("expected error for unknown mint")
	}
}

func TestRegistryPair(t *testing.T) {
	reg := NewRegistry(testUSDC)
	in, out := reg.Pair()
	if in.Name != "sol" || out.Name != "usdc" {
		t.Fatalf("unexpected default pair: %s/%s", in.Name, out.Name)
	}
}
