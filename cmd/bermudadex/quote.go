package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var quoteCmd = &cobra.Command{
	Use:   "quote <amount> [base] [quote]",
	Short: "Fetch an indicative quote",
	Long: `Fetch the current rate for swapping amount units of the base mint
into the quote mint. The pair defaults to sol/usdc.

Examples:
  bermudadex quote 1.5
  bermudadex quote 100 usdc sol`,
	Args: cobra.RangeArgs(1, 3),
	Run:  runQuote,
}

func init() {
	rootCmd.AddCommand(quoteCmd)
}

func runQuote(cmd *cobra.Command, args []string) {
	amount, err := decimal.NewFromString(args[0])
	if err != nil {
		printError(fmt.Errorf("amount: %w", err))
		os.Exit(1)
	}
	base, quote := "sol", "usdc"
	if len(args) > 1 {
		base = args[1]
	}
	if len(args) > 2 {
		quote = args[2]
	}

	app, err := newApp()
	if err != nil {
		printError(err)
		os.Exit(1)
	}
	if _, err := app.registry.ByName(base); err != nil {
		printError(err)
		os.Exit(1)
	}
	if _, err := app.registry.ByName(quote); err != nil {
		printError(err)
		os.Exit(1)
	}

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " Fetching quote..."
	s.Start()

	ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
	defer cancel()
	result, err := app.orderbook.GetQuote(ctx, base, quote, amount)
	s.Stop()
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	fmt.Printf("\n%s %s -> %g %s (rate %g)\n", amount, base, result.QuoteAmount, quote, result.QuoteRate)
}
