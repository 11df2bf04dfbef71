package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	solana "github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/shopspring/decimal"

	"github.com/pmn2090/BermudaDex/internal/config"
	dex "github.com/pmn2090/BermudaDex/internal/dex/solana"
	"github.com/pmn2090/BermudaDex/internal/metrics"
	"github.com/pmn2090/BermudaDex/internal/order"
	"github.com/pmn2090/BermudaDex/internal/orderbook"
	"github.com/pmn2090/BermudaDex/internal/swap"
	"github.com/pmn2090/BermudaDex/internal/token"
	"github.com/pmn2090/BermudaDex/internal/util"
)

const defaultConfigPath = "config.yaml"

func main() {
	reader := bufio.NewReader(os.Stdin)

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	log := util.NewLogger(cfg.App.LogLevel)

	if cfg.App.MetricsAddr != "" {
		metrics.Serve(cfg.App.MetricsAddr)
	}

	controller, wallet, err := wire(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to wire swap form: %v\n", err)
		os.Exit(1)
	}
	log.Info().Str("wallet", wallet.PublicKey().String()).Msg("swap form ready")

	book := orderbook.NewClient(getEnv("ORDERBOOK_BASE_URL", cfg.Orderbook.BaseURL), log)

	for {
		printForm(controller)
		fmt.Println("1) Set input amount (sell)")
		fmt.Println("2) Set output amount (buy)")
		fmt.Println("3) Choose input mint")
		fmt.Println("4) Choose output mint")
		fmt.Println("5) Refresh quote")
		fmt.Println("6) Submit order")
		fmt.Println("7) Show latest orders")
		fmt.Println("0) Exit")
		fmt.Print("Select option: ")

		input, _ := reader.ReadString('\n')
		choice := strings.TrimSpace(input)

		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		switch choice {
		case "1":
			if amount, ok := promptAmount(reader, "Input amount"); ok {
				controller.SetInputAmount(ctx, amount)
			}
		case "2":
			if amount, ok := promptAmount(reader, "Output amount"); ok {
				controller.SetOutputAmount(ctx, amount)
			}
		case "3":
			if err := controller.SelectInputMint(promptMint(reader)); err != nil {
				fmt.Fprintf(os.Stderr, "select failed: %v\n", err)
			}
		case "4":
			if err := controller.SelectOutputMint(promptMint(reader)); err != nil {
				fmt.Fprintf(os.Stderr, "select failed: %v\n", err)
			}
		case "5":
			controller.RefreshQuote(ctx)
		case "6":
			if err := controller.Submit(ctx); err != nil {
				fmt.Fprintf(os.Stderr, "submit failed: %v\n", err)
			} else {
				fmt.Println("order placed")
			}
		case "7":
			showOrders(ctx, book, wallet, cfg.Swap.OrderLimit)
		case "0":
			cancel()
			return
		default:
			fmt.Println("unknown option")
		}
		cancel()
	}
}

func loadConfig() (*config.Config, error) {
	path := os.Getenv("BERMUDADEX_CONFIG")
	if path == "" {
		path = defaultConfigPath
	}
	return config.Load(path)
}

func wire(cfg *config.Config) (*swap.Controller, dex.Wallet, error) {
	log := util.NewLogger(cfg.App.LogLevel)

	endpoint, err := cfg.Chain.Endpoint()
	if err != nil {
		return nil, nil, err
	}
	rpcClient := rpc.New(getEnv("SOLANA_RPC_URL", endpoint))

	usdcAddress, err := solana.PublicKeyFromBase58(cfg.Swap.UsdcAddress)
	if err != nil {
		return nil, nil, fmt.Errorf("usdc address: %w", err)
	}
	solver, err := solana.PublicKeyFromBase58(cfg.Swap.SolverWallet)
	if err != nil {
		return nil, nil, fmt.Errorf("solver wallet: %w", err)
	}

	key, err := dex.LoadPrivateKeyFromEnv()
	if err != nil {
		return nil, nil, err
	}
	wallet := dex.NewKeypairWallet(key)

	registry := token.NewRegistry(usdcAddress)
	book := orderbook.NewClient(getEnv("ORDERBOOK_BASE_URL", cfg.Orderbook.BaseURL), log)
	assembler := dex.NewAssembler(rpcClient, solver, cfg.Chain.Commitment, log)
	limits := order.Limits{MaxInputAmount: decimal.NewFromFloat(cfg.Swap.MaxInputAmount)}

	controller := swap.NewController(
		registry, book, book, assembler, wallet,
		decimal.NewFromFloat(cfg.Swap.Slippage), limits, log,
	)
	return controller, wallet, nil
}

func printForm(controller *swap.Controller) {
	form := controller.Form()
	fmt.Println("\n=== Bermuda Swap ===")
	fmt.Printf("You send: %s %s\n", form.InputAmount, form.InputMint.Name)
	fmt.Printf("You get:  %s %s\n", form.OutputAmount, form.OutputMint.Name)
	fmt.Printf("Side: %s | slippage %s%%\n", form.Direction, form.Slippage.Mul(decimal.NewFromInt(100)))
	if err := controller.Err(); err != nil {
		fmt.Printf("quote error: %v\n", err)
	}
}

func promptAmount(reader *bufio.Reader, label string) (decimal.Decimal, bool) {
	fmt.Printf("%s: ", label)
	line, _ := reader.ReadString('\n')
	amount, err := decimal.NewFromString(strings.TrimSpace(line))
	if err != nil {
		fmt.Fprintf(os.Stderr, "bad amount: %v\n", err)
		return decimal.Decimal{}, false
	}
	return amount, true
}

func promptMint(reader *bufio.Reader) string {
	fmt.Print("Mint (sol/usdc): ")
	line, _ := reader.ReadString('\n')
	return strings.ToLower(strings.TrimSpace(line))
}

func showOrders(ctx context.Context, book *orderbook.Client, wallet dex.Wallet, limit int) {
	orders, err := book.LatestOrders(ctx, wallet.PublicKey().String(), limit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "orders: %v\n", err)
		return
	}
	if len(orders) == 0 {
		fmt.Println("no orders yet")
		return
	}
	fmt.Println("\n--- Latest Orders ---")
	for _, o := range orders {
		fmt.Printf("%s  %-4s %s %s -> threshold %s  [%s]  %s\n",
			o.OrderID, o.Direction, o.BaseAmount, o.BaseToken, o.QuoteAmountThreshold, o.OrderState, o.CreatedAt)
	}
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
