// Package order turns swap form state into a concrete order plan: the
// base/quote split, the slippage-bounded threshold, and the integer
// spend amount authorized on chain.
package order

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/pmn2090/BermudaDex/internal/token"
)

// Direction selects which side of the pair the user fixes; the other
// side is derived from the quote.
type Direction string

const (
	Sell Direction = "sell"
	Buy  Direction = "buy"
)

var (
	ErrInvalidDirection = errors.New("invalid swap direction")
	ErrOverLimit        = errors.New("input amount exceeds configured limit")
)

// Form mirrors the swap form. Exactly one of InputAmount/OutputAmount
// is user-fixed per direction; the other is quote-derived.
type Form struct {
	InputAmount  decimal.Decimal
	InputMint    token.Mint
	OutputAmount decimal.Decimal
	OutputMint   token.Mint
	Direction    Direction
	Slippage     decimal.Decimal
}

// Plan is the fully computed order: what gets posted to the orderbook
// service and how much spend gets authorized on chain.
type Plan struct {
	BaseMint             token.Mint
	QuoteMint            token.Mint
	BaseAmount           decimal.Decimal
	QuoteAmountThreshold decimal.Decimal
	SpendAmount          uint64
	Direction            Direction
}

var one = decimal.NewFromInt(1)

// Build computes the order plan from the form.
//
// Selling fixes the input amount; the threshold is the minimum
// acceptable proceeds, the quoted output shaved by slippage. Buying
// fixes the output amount; the threshold is the maximum acceptable
// cost, the quoted input padded by slippage. The spend authorization
// always covers the input side, floored to base units.
func Build(form Form) (Plan, error) {
	switch form.Direction {
	case Sell:
		threshold := form.OutputAmount.Mul(one.Sub(form.Slippage))
		return Plan{
			BaseMint:             form.InputMint,
			QuoteMint:            form.OutputMint,
			BaseAmount:           form.InputAmount,
			QuoteAmountThreshold: threshold,
			SpendAmount:          form.InputMint.ToBaseUnits(form.InputAmount),
			Direction:            Sell,
		}, nil
	case Buy:
		threshold := form.InputAmount.Mul(one.Add(form.Slippage))
		return Plan{
			BaseMint:             form.OutputMint,
			QuoteMint:            form.InputMint,
			BaseAmount:           form.OutputAmount,
			QuoteAmountThreshold: threshold,
			SpendAmount:          form.InputMint.ToBaseUnits(threshold),
			Direction:            Buy,
		}, nil
	default:
		return Plan{}, fmt.Errorf("%w: %q", ErrInvalidDirection, form.Direction)
	}
}

// Limits caps how much input a single order may commit.
type Limits struct {
	MaxInputAmount decimal.Decimal // zero means unlimited
}

// Allow reports whether the input amount fits within the limit.
func (l Limits) Allow(inputAmount decimal.Decimal) bool {
	if l.MaxInputAmount.IsZero() {
		return true
	}
	return inputAmount.LessThanOrEqual(l.MaxInputAmount)
}
