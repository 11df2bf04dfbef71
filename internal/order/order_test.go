package order

import (
	"errors"
	"testing"

	solana "github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"

	"github.com/pmn2090/BermudaDex/internal/token"
)

var (
	usdcAddr = solana.MustPublicKeyFromBase58("EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v")
	sol      = token.SOL
	usdc     = token.NewUSDC(usdcAddr)
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestBuildSell(t *testing.T) {
	// 1.5 SOL in, quoted 20 USDC out, 5% slippage.
	plan, err := Build(Form{
		InputAmount:  d("1.5"),
		InputMint:    sol,
		OutputAmount: d("20"),
		OutputMint:   usdc,
		Direction:    Sell,
		Slippage:     d("0.05"),
	})
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	if plan.BaseMint.Name != "sol" || plan.QuoteMint.Name != "usdc" {
		t.Fatalf("unexpected base/quote: %s/%s", plan.BaseMint.Name, plan.QuoteMint.Name)
	}
	if !plan.BaseAmount.Equal(d("1.5")) {
		t.Fatalf("unexpected base amount: %s", plan.BaseAmount)
	}
	if !plan.QuoteAmountThreshold.Equal(d("19")) {
		t.Fatalf("expected threshold 19, got %s", plan.QuoteAmountThreshold)
	}
	if plan.SpendAmount != 1_500_000_000 {
		t.Fatalf("expected spend 1500000000, got %d", plan.SpendAmount)
	}
}

func TestBuildBuy(t *testing.T) {
	// Buy 100 USDC, quoted 5 SOL cost, 5% slippage.
	plan, err := Build(Form{
		InputAmount:  d("5"),
		InputMint:    sol,
		OutputAmount: d("100"),
		OutputMint:   usdc,
		Direction:    Buy,
		Slippage:     d("0.05"),
	})
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	if plan.BaseMint.Name != "usdc" || plan.QuoteMint.Name != "sol" {
		t.Fatalf("unexpected base/quote: %s/%s", plan.BaseMint.Name, plan.QuoteMint.Name)
	}
	if !plan.BaseAmount.Equal(d("100")) {
		t.Fatalf("unexpected base amount: %s", plan.BaseAmount)
	}
	if !plan.QuoteAmountThreshold.Equal(d("5.25")) {
		t.Fatalf("expected threshold 5.25, got %s", plan.QuoteAmountThreshold)
	}
	if plan.SpendAmount != 5_250_000_000 {
		t.Fatalf("expected spend 5250000000, got %d", plan.SpendAmount)
	}
}

func TestSellThresholdMonotonicInSlippage(t *testing.T) {
	prev := decimal.New(1<<62, 0)
	for _, slip := range []string{"0", "0.01", "0.05", "0.1", "0.5"} {
		plan, err := Build(Form{
			InputAmount:  d("1"),
			InputMint:    sol,
			OutputAmount: d("20"),
			OutputMint:   usdc,
			Direction:    Sell,
			Slippage:     d(slip),
		})
		if err != nil {
			t.Fatalf("Build(slip=%s) returned error: %v", slip, err)
		}
		if plan.QuoteAmountThreshold.GreaterThanOrEqual(prev) {
			t.Fatalf("sell threshold not decreasing at slippage %s", slip)
		}
		prev = plan.QuoteAmountThreshold
	}
}

func TestBuyThresholdMonotonicInSlippage(t *testing.T) {
	prev := decimal.Zero
	for _, slip := range []string{"0.01", "0.05", "0.1", "0.5"} {
		plan, err := Build(Form{
			InputAmount:  d("5"),
			InputMint:    sol,
			OutputAmount: d("100"),
			OutputMint:   usdc,
			Direction:    Buy,
			Slippage:     d(slip),
		})
		if err != nil {
			t.Fatalf("Build(slip=%s) returned error: %v", slip, err)
		}
		if plan.QuoteAmountThreshold.LessThanOrEqual(prev) {
			t.Fatalf("buy threshold not increasing at slippage %s", slip)
		}
		prev = plan.QuoteAmountThreshold
	}
}

func TestBuildInvalidDirection(t *testing.T) {
	_, err := Build(Form{Direction: "hold"})
	if !errors.Is(err, ErrInvalidDirection) {
		t.Fatalf("expected ErrInvalidDirection, got %v", err)
	}
}

func TestLimitsAllow(t *testing.T) {
	unlimited := Limits{}
	if !unlimited.Allow(d("1000000")) {
		t.Fatalf("zero limit should allow everything")
	}
	capped := Limits{MaxInputAmount: d("10")}
	if !capped.Allow(d("10")) {
		t.Fatalf("expected amount at limit to pass")
	}
	if capped.Allow(d("10.01")) {
		t.Fatalf("expected amount over limit to fail")
	}
}
