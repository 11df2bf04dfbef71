package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var ordersLimit int

var ordersCmd = &cobra.Command{
	Use:   "orders",
	Short: "Show your latest orders, newest first",
	Args:  cobra.NoArgs,
	Run:   runOrders,
}

func init() {
	rootCmd.AddCommand(ordersCmd)

	ordersCmd.Flags().IntVarP(&ordersLimit, "limit", "n", 0, "rows to fetch (default from config)")
}

func runOrders(cmd *cobra.Command, args []string) {
	app, err := newApp()
	if err != nil {
		printError(err)
		os.Exit(1)
	}
	limit := ordersLimit
	if limit <= 0 {
		limit = app.cfg.Swap.OrderLimit
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
	defer cancel()
	orders, err := app.orderbook.LatestOrders(ctx, app.wallet.PublicKey().String(), limit)
	if err != nil {
		printError(err)
		os.Exit(1)
	}
	if len(orders) == 0 {
		fmt.Println("No orders yet.")
		return
	}

	bold := color.New(color.Bold)
	bold.Printf("%-10s %-6s %-12s %-12s %-14s %-10s %s\n",
		"ORDER", "SIDE", "BASE", "AMOUNT", "THRESHOLD", "STATE", "CREATED")
	for _, o := range orders {
		fmt.Printf("%-10s %-6s %-12s %-12s %-14s %-10s %s\n",
			o.OrderID, o.Direction, o.BaseToken, o.BaseAmount, o.QuoteAmountThreshold, o.OrderState, o.CreatedAt)
	}
}
