package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "price-sr-bot",
	Short: "Telegram bot for Bybit perpetual prices and support/resistance levels",
}

func init() {
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(priceCmd)
	rootCmd.AddCommand(srCmd)
}

func Execute() error {
	return rootCmd.Execute()
}
