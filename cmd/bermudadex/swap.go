package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var (
	swapBuy       bool
	swapNoConfirm bool
)

var swapCmd = &cobra.Command{
	Use:   "swap <amount> <mint>",
	Short: "Place a swap order",
	Long: `Place a swap order against the matching service. By default the
amount fixes the input side (a sell: swap exactly amount units of mint
into the counter mint). With --buy the amount fixes the output side (a
buy: receive exactly amount units of mint, spending the counter mint).

The command sends one transaction authorizing the solver to spend from
your token account, then registers the order.

Examples:
  bermudadex swap 1.5 sol          # sell 1.5 sol for usdc
  bermudadex swap 100 usdc --buy   # buy 100 usdc with sol`,
	Args: cobra.ExactArgs(2),
	Run:  runSwap,
}

func init() {
	rootCmd.AddCommand(swapCmd)

	swapCmd.Flags().BoolVar(&swapBuy, "buy", false, "amount fixes the output side instead of the input side")
	swapCmd.Flags().BoolVarP(&swapNoConfirm, "yes", "y", false, "skip the confirmation prompt")
}

func runSwap(cmd *cobra.Command, args []string) {
	amount, err := decimal.NewFromString(args[0])
	if err != nil {
		printError(fmt.Errorf("amount: %w", err))
		os.Exit(1)
	}
	mint := strings.ToLower(args[1])

	app, err := newApp()
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
	defer cancel()

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " Fetching quote..."
	s.Start()
	if swapBuy {
		err = app.controller.SelectOutputMint(mint)
		if err == nil {
			app.controller.SetOutputAmount(ctx, amount)
		}
	} else {
		err = app.controller.SelectInputMint(mint)
		if err == nil {
			app.controller.SetInputAmount(ctx, amount)
		}
	}
	s.Stop()
	if err != nil {
		printError(err)
		os.Exit(1)
	}
	if err := app.controller.Err(); err != nil {
		printError(err)
		os.Exit(1)
	}

	form := app.controller.Form()
	fmt.Printf("\n  Direction:  %s\n", form.Direction)
	fmt.Printf("  You send:   %s %s\n", form.InputAmount, form.InputMint.Name)
	fmt.Printf("  You get:    %s %s\n", form.OutputAmount, form.OutputMint.Name)
	fmt.Printf("  Slippage:   %s%%\n", form.Slippage.Mul(decimal.NewFromInt(100)))
	fmt.Printf("  Wallet:     %s\n", app.wallet.PublicKey())

	if !swapNoConfirm && !confirm("Place this order?") {
		fmt.Println("Aborted.")
		return
	}

	s.Suffix = " Submitting order..."
	s.Start()
	err = app.controller.Submit(ctx)
	s.Stop()
	if err != nil {
		printError(err)
		os.Exit(1)
	}
	printSuccess("Order placed.")
}

func confirm(prompt string) bool {
	fmt.Printf("\n%s [y/N]: ", prompt)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
