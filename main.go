package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var version = "0.0.1"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

var envFile string

var rootCmd = &cobra.Command{
	Use:     "bolplaza",
	Short:   "bol.com Plaza client - orders, returns, offers and delivery estimates",
	Version: version,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "env file to load before the environment (default .env)")

	rootCmd.AddCommand(
		ordersCmd,
		returnsCmd,
		shipCmd,
		cancelCmd,
		offersCmd,
		stockCmd,
		deliveryDateCmd,
		overviewCmd,
		watchCmd,
	)
}
