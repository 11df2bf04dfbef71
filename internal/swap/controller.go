// Package swap orchestrates the swap form: quote refresh, order math,
// on-chain spend authorization, and order submission.
package swap

import (
	"context"
	"fmt"
	"sync"

	solana "github.com/gagliardetto/solana-go"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	chain "github.com/pmn2090/BermudaDex/internal/dex/solana"
	"github.com/pmn2090/BermudaDex/internal/metrics"
	"github.com/pmn2090/BermudaDex/internal/order"
	"github.com/pmn2090/BermudaDex/internal/orderbook"
	"github.com/pmn2090/BermudaDex/internal/token"
)

// Quoter fetches indicative quotes for a base amount.
type Quoter interface {
	GetQuote(ctx context.Context, baseToken, quoteToken string, amount decimal.Decimal) (*orderbook.Quote, error)
}

// OrderPoster posts the finalized order descriptor off-chain.
type OrderPoster interface {
	SubmitOrder(ctx context.Context, params orderbook.CreateOrderParams) (*orderbook.Order, error)
}

// SwapSender authorizes the spend on chain and sends the transaction.
type SwapSender interface {
	SendSwap(ctx context.Context, wallet chain.Wallet, inputMint token.Mint, spend uint64) (solana.Signature, error)
}

// Controller owns the form state for one swap session. All collaborators
// are injected so the arithmetic and sequencing can be tested without a
// network or a funded wallet.
type Controller struct {
	mu   sync.Mutex
	form order.Form

	registry *token.Registry
	limits   order.Limits
	quoter   Quoter
	orders   OrderPoster
	sender   SwapSender
	wallet   chain.Wallet
	log      zerolog.Logger

	quoteSeq   uint64 // bumped on every refresh and form edit
	quoteBusy  int
	submitting bool
	lastErr    error
}

func NewController(registry *token.Registry, quoter Quoter, orders OrderPoster, sender SwapSender, wallet chain.Wallet, slippage decimal.Decimal, limits order.Limits, log zerolog.Logger) *Controller {
	input, output := registry.Pair()
	return &Controller{
		form: order.Form{
			InputAmount:  decimal.Zero,
			InputMint:    input,
			OutputAmount: decimal.Zero,
			OutputMint:   output,
			Direction:    order.Sell,
			Slippage:     slippage,
		},
		registry: registry,
		limits:   limits,
		quoter:   quoter,
		orders:   orders,
		sender:   sender,
		wallet:   wallet,
		log:      log,
	}
}

// Form returns a copy of the current form state.
func (c *Controller) Form() order.Form {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.form
}

// Submitting reports whether a submit is in flight.
func (c *Controller) Submitting() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.submitting
}

// QuoteInFlight reports whether a quote refresh is pending.
func (c *Controller) QuoteInFlight() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.quoteBusy > 0
}

// Err returns the indicator from the last failed quote refresh; it is
// cleared by the next successful one.
func (c *Controller) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// SetInputAmount fixes the input side, flips the form to selling, and
// refreshes the output amount from the quote. Negative input clamps to
// zero.
func (c *Controller) SetInputAmount(ctx context.Context, amount decimal.Decimal) {
	c.mu.Lock()
	if amount.IsNegative() {
		amount = decimal.Zero
	}
	c.form.InputAmount = amount
	c.form.Direction = order.Sell
	c.quoteSeq++
	c.mu.Unlock()
	c.RefreshQuote(ctx)
}

// SetOutputAmount fixes the output side, flips the form to buying, and
// refreshes the input amount from the quote.
func (c *Controller) SetOutputAmount(ctx context.Context, amount decimal.Decimal) {
	c.mu.Lock()
	if amount.IsNegative() {
		amount = decimal.Zero
	}
	c.form.OutputAmount = amount
	c.form.Direction = order.Buy
	c.quoteSeq++
	c.mu.Unlock()
	c.RefreshQuote(ctx)
}

// SelectInputMint switches the input asset, repairs the pair so a mint
// never trades against itself, and resets both amounts.
func (c *Controller) SelectInputMint(name string) error {
	return c.selectMint(name, order.Sell, true)
}

// SelectOutputMint switches the output asset; the form flips to buying
// per the original form semantics.
func (c *Controller) SelectOutputMint(name string) error {
	return c.selectMint(name, order.Buy, false)
}

func (c *Controller) selectMint(name string, direction order.Direction, input bool) error {
	mint, err := c.registry.ByName(name)
	if err != nil {
		return err
	}
	other, err := c.registry.Other(mint)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if input {
		c.form.InputMint = mint
		c.form.OutputMint = other
	} else {
		c.form.OutputMint = mint
		c.form.InputMint = other
	}
	c.form.InputAmount = decimal.Zero
	c.form.OutputAmount = decimal.Zero
	c.form.Direction = direction
	c.quoteSeq++ // any in-flight quote no longer applies
	return nil
}

// RefreshQuote fetches the counter amount for the user-fixed side.
// Responses carry the sequence number issued at request time; a newer
// refresh or any form edit bumps the sequence, so stale responses are
// dropped instead of applied. Failures leave the prior amounts in place
// and set the error indicator only.
func (c *Controller) RefreshQuote(ctx context.Context) {
	c.mu.Lock()
	c.quoteSeq++
	seq := c.quoteSeq
	form := c.form
	c.quoteBusy++
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		c.quoteBusy--
		c.mu.Unlock()
	}()

	var base, quote token.Mint
	var amount decimal.Decimal
	if form.Direction == order.Sell {
		base, quote, amount = form.InputMint, form.OutputMint, form.InputAmount
	} else {
		base, quote, amount = form.OutputMint, form.InputMint, form.OutputAmount
	}

	result, err := c.quoter.GetQuote(ctx, base.Name, quote.Name, amount)

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq != c.quoteSeq {
		c.log.Debug().Uint64("seq", seq).Msg("stale quote dropped")
		return
	}
	if err != nil {
		c.lastErr = err
		c.log.Warn().Err(err).Msg("quote refresh failed")
		return
	}
	c.lastErr = nil
	quoted := decimal.NewFromFloat(result.QuoteAmount)
	if form.Direction == order.Sell {
		c.form.OutputAmount = quoted
	} else {
		c.form.InputAmount = quoted
	}
}

// Submit executes the swap: compute the plan, authorize the spend on
// chain, then post the order descriptor. A second call while a submit
// is in flight is a no-op. The amounts reset only after the full flow
// succeeds; any failure surfaces as a single error with state intact.
func (c *Controller) Submit(ctx context.Context) error {
	c.mu.Lock()
	if c.submitting {
		c.mu.Unlock()
		c.log.Debug().Msg("submit ignored, already submitting")
		return nil
	}
	c.submitting = true
	form := c.form
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		c.submitting = false
		c.mu.Unlock()
	}()

	if err := c.submit(ctx, form); err != nil {
		metrics.SwapsTotal.WithLabelValues("error").Inc()
		c.log.Error().Err(err).Msg("swap failed")
		return fmt.Errorf("submit swap: %w", err)
	}
	metrics.SwapsTotal.WithLabelValues("ok").Inc()

	c.mu.Lock()
	c.form.InputAmount = decimal.Zero
	c.form.OutputAmount = decimal.Zero
	c.quoteSeq++
	c.mu.Unlock()
	return nil
}

func (c *Controller) submit(ctx context.Context, form order.Form) error {
	plan, err := order.Build(form)
	if err != nil {
		return err
	}
	if !c.limits.Allow(form.InputAmount) {
		return order.ErrOverLimit
	}
	if _, err := c.sender.SendSwap(ctx, c.wallet, form.InputMint, plan.SpendAmount); err != nil {
		return err
	}
	// The transaction is on its way; a submission failure past this
	// point leaves an authorized spend with no order record.
	_, err = c.orders.SubmitOrder(ctx, orderbook.CreateOrderParams{
		BaseToken:            plan.BaseMint.Name,
		QuoteToken:           plan.QuoteMint.Name,
		BaseAmount:           plan.BaseAmount.String(),
		QuoteAmountThreshold: plan.QuoteAmountThreshold.String(),
		Direction:            string(plan.Direction),
		Receiver:             c.wallet.PublicKey().String(),
		Signature:            "",
	})
	return err
}
