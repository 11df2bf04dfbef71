package integration

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	solana "github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	dex "github.com/pmn2090/BermudaDex/internal/dex/solana"
	"github.com/pmn2090/BermudaDex/internal/order"
	"github.com/pmn2090/BermudaDex/internal/orderbook"
	"github.com/pmn2090/BermudaDex/internal/swap"
	"github.com/pmn2090/BermudaDex/internal/token"
)

// stubRPC satisfies the assembler's RPC surface without a cluster.
type stubRPC struct {
	sent []*solana.Transaction
}

func (s *stubRPC) GetAccountInfo(ctx context.Context, account solana.PublicKey) (*rpc.GetAccountInfoResult, error) {
	return nil, rpc.ErrNotFound
}

func (s *stubRPC) GetLatestBlockhash(ctx context.Context, commitment rpc.CommitmentType) (*rpc.GetLatestBlockhashResult, error) {
	return &rpc.GetLatestBlockhashResult{Value: &rpc.LatestBlockhashResult{Blockhash: solana.Hash{1}}}, nil
}

func (s *stubRPC) SendTransactionWithOpts(ctx context.Context, tx *solana.Transaction, opts rpc.TransactionOpts) (solana.Signature, error) {
	s.sent = append(s.sent, tx)
	return solana.Signature{3}, nil
}

func TestSwapFlowPlacesOrder(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var posted []orderbook.CreateOrderParams
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/quote":
			json.NewEncoder(w).Encode(orderbook.Quote{QuoteAmount: 30, QuoteRate: 20})
		case "/newOrder":
			var params orderbook.CreateOrderParams
			if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
				t.Errorf("decode order: %v", err)
			}
			posted = append(posted, params)
			json.NewEncoder(w).Encode(orderbook.Order{OrderID: "42", OrderState: "pending"})
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	usdcAddress := solana.MustPublicKeyFromBase58("EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v")
	owner := solana.NewWallet()
	wallet := dex.NewKeypairWallet(owner.PrivateKey)
	solver := solana.NewWallet().PublicKey()

	client := &stubRPC{}
	book := orderbook.NewClient(server.URL, zerolog.Nop())
	assembler := dex.NewAssembler(client, solver, "confirmed", zerolog.Nop())

	controller := swap.NewController(
		token.NewRegistry(usdcAddress), book, book, assembler, wallet,
		decimal.NewFromFloat(0.05), order.Limits{}, zerolog.Nop(),
	)

	controller.SetInputAmount(ctx, decimal.NewFromFloat(1.5))
	if form := controller.Form(); !form.OutputAmount.Equal(decimal.NewFromInt(30)) {
		t.Fatalf("expected quoted output 30, got %s", form.OutputAmount)
	}

	if err := controller.Submit(ctx); err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}

	if len(client.sent) != 1 {
		t.Fatalf("expected one transaction on chain, got %d", len(client.sent))
	}
	// Native input with a fresh wallet: create, transfer, sync, approve.
	if got := len(client.sent[0].Message.Instructions); got != 4 {
		t.Fatalf("expected 4 instructions, got %d", got)
	}

	if len(posted) != 1 {
		t.Fatalf("expected one posted order, got %d", len(posted))
	}
	params := posted[0]
	if params.BaseToken != "sol" || params.QuoteToken != "usdc" {
		t.Fatalf("unexpected pair %s/%s", params.BaseToken, params.QuoteToken)
	}
	if params.BaseAmount != "1.5" {
		t.Fatalf("expected base amount 1.5, got %q", params.BaseAmount)
	}
	if params.QuoteAmountThreshold != "28.5" {
		t.Fatalf("expected threshold 28.5, got %q", params.QuoteAmountThreshold)
	}
	if params.Receiver != owner.PublicKey().String() {
		t.Fatalf("unexpected receiver %s", params.Receiver)
	}
	if params.Signature != "" {
		t.Fatalf("signature must be empty, got %q", params.Signature)
	}

	if form := controller.Form(); !form.InputAmount.IsZero() {
		t.Fatalf("form must reset after submission")
	}
}
