package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var airdropAmount uint32

var airdropCmd = &cobra.Command{
	Use:   "airdrop <sol|usdc>",
	Short: "Request test tokens on devnet or local clusters",
	Long: `Request test tokens for the configured wallet. SOL comes from the
cluster faucet and lands pre-wrapped in the token account; USDC is
minted by the deployed faucet program.`,
	Args: cobra.ExactArgs(1),
	Run:  runAirdrop,
}

func init() {
	rootCmd.AddCommand(airdropCmd)

	airdropCmd.Flags().Uint32Var(&airdropAmount, "amount", 100, "usdc base units to mint")
}

func runAirdrop(cmd *cobra.Command, args []string) {
	app, err := newApp()
	if err != nil {
		printError(err)
		os.Exit(1)
	}
	if app.cfg.Chain.Cluster == "mainnet-beta" {
		printError(fmt.Errorf("airdrops are not available on mainnet-beta"))
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
	defer cancel()

	switch args[0] {
	case "sol":
		sig, err := app.faucet.AirdropSOL(ctx, app.wallet)
		if err != nil {
			printError(err)
			os.Exit(1)
		}
		printSuccess("SOL airdrop sent: %s", sig)
	case "usdc":
		sig, err := app.faucet.AirdropUSDC(ctx, app.wallet, app.usdc, airdropAmount)
		if err != nil {
			printError(err)
			os.Exit(1)
		}
		printSuccess("USDC airdrop sent: %s", sig)
	default:
		printError(fmt.Errorf("unknown token %q, want sol or usdc", args[0]))
		os.Exit(1)
	}
}
