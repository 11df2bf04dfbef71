package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	solana "github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/pmn2090/BermudaDex/internal/config"
	dex "github.com/pmn2090/BermudaDex/internal/dex/solana"
	"github.com/pmn2090/BermudaDex/internal/order"
	"github.com/pmn2090/BermudaDex/internal/orderbook"
	"github.com/pmn2090/BermudaDex/internal/swap"
	"github.com/pmn2090/BermudaDex/internal/token"
	"github.com/pmn2090/BermudaDex/internal/util"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "bermudadex",
	Short: "Swap SOL and USDC through the Bermuda orderbook",
	Long: `bermudadex places swap orders against the Bermuda matching service.
An order authorizes the solver to spend from your token account on
chain, then registers the order off chain for matching.

Examples:
  bermudadex quote 1.5
  bermudadex swap 1.5 sol
  bermudadex swap 100 usdc --buy
  bermudadex orders
  bermudadex airdrop sol`,
	Version: "0.1.0",
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "path to the YAML config file")
}

// app bundles the wired collaborators each command needs.
type app struct {
	cfg        *config.Config
	log        zerolog.Logger
	registry   *token.Registry
	orderbook  *orderbook.Client
	wallet     dex.Wallet
	faucet     *dex.Faucet
	controller *swap.Controller
	usdc       solana.PublicKey
}

func newApp() (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	log := util.NewLogger(cfg.App.LogLevel)

	endpoint, err := cfg.Chain.Endpoint()
	if err != nil {
		return nil, err
	}
	rpcClient := rpc.New(getEnv("SOLANA_RPC_URL", endpoint))

	usdcAddress, err := solana.PublicKeyFromBase58(cfg.Swap.UsdcAddress)
	if err != nil {
		return nil, fmt.Errorf("usdc address: %w", err)
	}
	solver, err := solana.PublicKeyFromBase58(cfg.Swap.SolverWallet)
	if err != nil {
		return nil, fmt.Errorf("solver wallet: %w", err)
	}

	key, err := loadKey(cfg)
	if err != nil {
		return nil, fmt.Errorf("wallet: %w", err)
	}
	wallet := dex.NewKeypairWallet(key)

	registry := token.NewRegistry(usdcAddress)
	book := orderbook.NewClient(getEnv("ORDERBOOK_BASE_URL", cfg.Orderbook.BaseURL), log)
	assembler := dex.NewAssembler(rpcClient, solver, cfg.Chain.Commitment, log)
	faucet := dex.NewFaucet(rpcClient, cfg.Chain.Commitment, log)
	limits := order.Limits{MaxInputAmount: decimal.NewFromFloat(cfg.Swap.MaxInputAmount)}

	controller := swap.NewController(
		registry, book, book, assembler, wallet,
		decimal.NewFromFloat(cfg.Swap.Slippage), limits, log,
	)

	return &app{
		cfg:        cfg,
		log:        log,
		registry:   registry,
		orderbook:  book,
		wallet:     wallet,
		faucet:     faucet,
		controller: controller,
		usdc:       usdcAddress,
	}, nil
}

func loadKey(cfg *config.Config) (solana.PrivateKey, error) {
	if cfg.Wallet.PrivateKeyBase58 != "" {
		return solana.PrivateKeyFromBase58(cfg.Wallet.PrivateKeyBase58)
	}
	return dex.LoadPrivateKeyFromEnv()
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func printError(err error) {
	color.Red("\nError: %v\n", err)
}

func printSuccess(format string, args ...any) {
	color.Green("\n"+format+"\n", args...)
}
