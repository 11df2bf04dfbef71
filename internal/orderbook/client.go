// Package orderbook speaks to the off-chain matching service: quotes,
// order submission, and the latest-orders view.
package orderbook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/pmn2090/BermudaDex/internal/metrics"
)

var (
	ErrQuoteUnavailable = errors.New("quote unavailable")
	ErrSubmission       = errors.New("order submission failed")
)

// Quote is an indicative rate for a base amount; not binding until an
// order is placed.
type Quote struct {
	QuoteAmount float64 `json:"quoteAmount"`
	QuoteRate   float64 `json:"quoteRate"`
}

// CreateOrderParams is the /newOrder request body. Signature is carried
// for wire compatibility; this client never populates it.
type CreateOrderParams struct {
	BaseToken            string `json:"baseToken"`
	QuoteToken           string `json:"quoteToken"`
	BaseAmount           string `json:"baseAmount"`
	QuoteAmountThreshold string `json:"quoteAmountThreshold"`
	Direction            string `json:"direction"`
	Receiver             string `json:"receiver"`
	Signature            string `json:"signature"`
}

// Order is the matching service's order record.
type Order struct {
	ID                   string `json:"id"`
	OrderID              string `json:"orderid"`
	BaseToken            string `json:"baseToken"`
	QuoteToken           string `json:"quoteToken"`
	BaseAmount           string `json:"baseAmount"`
	QuoteAmountThreshold string `json:"quoteAmountThreshold"`
	Direction            string `json:"direction"`
	ReceiverPubkey       string `json:"receiverPubkey"`
	Signature            string `json:"signature"`
	AvailableBalance     string `json:"availableBalance"`
	BatchID              string `json:"batchid"`
	OrderState           string `json:"orderState"`
	UpdatedAt            string `json:"updatedAt"`
	CreatedAt            string `json:"createdAt"`
}

// Client calls the orderbook service. It owns its base URL and
// transport so tests can substitute both.
type Client struct {
	Base string
	Http *http.Client
	log  zerolog.Logger
}

func NewClient(baseURL string, log zerolog.Logger) *Client {
	return &Client{
		Base: strings.TrimSuffix(baseURL, "/"),
		Http: &http.Client{Timeout: 10 * time.Second},
		log:  log,
	}
}

// GetQuote fetches an indicative quote for amount units of baseToken
// priced in quoteToken. amount is in the token's human-readable unit.
func (c *Client) GetQuote(ctx context.Context, baseToken, quoteToken string, amount decimal.Decimal) (*Quote, error) {
	q := url.Values{}
	q.Set("baseToken", baseToken)
	q.Set("quoteToken", quoteToken)
	q.Set("amt", amount.String())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.Base+"/quote?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrQuoteUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.Http.Do(req)
	if err != nil {
		metrics.QuotesTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("%w: %v", ErrQuoteUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		metrics.QuotesTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("%w: status %d", ErrQuoteUnavailable, resp.StatusCode)
	}

	var out Quote
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		metrics.QuotesTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("%w: decode: %v", ErrQuoteUnavailable, err)
	}
	metrics.QuotesTotal.WithLabelValues("ok").Inc()
	c.log.Debug().
		Str("base", baseToken).Str("quote", quoteToken).Str("amt", amount.String()).
		Float64("quoteAmount", out.QuoteAmount).Float64("quoteRate", out.QuoteRate).
		Msg("quote")
	return &out, nil
}

// SubmitOrder posts the order descriptor to /newOrder. Call it only
// after the spend-authorization transaction has been sent; there is no
// retry here.
func (c *Client) SubmitOrder(ctx context.Context, params CreateOrderParams) (*Order, error) {
	body, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSubmission, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Base+"/newOrder", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSubmission, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.Http.Do(req)
	if err != nil {
		metrics.OrdersTotal.WithLabelValues(params.Direction, "error").Inc()
		return nil, fmt.Errorf("%w: %v", ErrSubmission, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		metrics.OrdersTotal.WithLabelValues(params.Direction, "error").Inc()
		return nil, fmt.Errorf("%w: status %d", ErrSubmission, resp.StatusCode)
	}

	var out Order
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		metrics.OrdersTotal.WithLabelValues(params.Direction, "error").Inc()
		return nil, fmt.Errorf("%w: decode: %v", ErrSubmission, err)
	}
	metrics.OrdersTotal.WithLabelValues(params.Direction, "ok").Inc()
	c.log.Info().Str("order", out.OrderID).Str("state", out.OrderState).Msg("order submitted")
	return &out, nil
}

// LatestOrders fetches the wallet's most recent orders, newest first.
func (c *Client) LatestOrders(ctx context.Context, wallet string, limit int) ([]Order, error) {
	q := url.Values{}
	q.Set("wallet", wallet)
	q.Set("limit", fmt.Sprintf("%d", limit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.Base+"/getLatestOrders?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.Http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("latest orders: status %d", resp.StatusCode)
	}

	var orders []Order
	if err := json.NewDecoder(resp.Body).Decode(&orders); err != nil {
		return nil, fmt.Errorf("latest orders: decode: %w", err)
	}
	sort.SliceStable(orders, func(i, j int) bool {
		return createdAt(orders[i]).After(createdAt(orders[j]))
	})
	return orders, nil
}

// createdAt parses the record timestamp; unparsable values sort last.
func createdAt(o Order) time.Time {
	t, err := time.Parse(time.RFC3339, o.CreatedAt)
	if err != nil {
		return time.Time{}
	}
	return t
}
