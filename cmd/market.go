package cmd

import (
	"context"
	"fmt"

	"price-sr-bot/config"
	"price-sr-bot/internal/delivery/telegram"
	"price-sr-bot/internal/repository"
	"price-sr-bot/internal/service"
	"price-sr-bot/pkg/cache"
	"price-sr-bot/pkg/logger"

	"github.com/spf13/cobra"
)

var priceCmd = &cobra.Command{
	Use:   "price <coin>",
	Short: "Print the price snapshot the bot would send for .<coin>",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMarketCommand(cmd, args[0], telegram.CommandSnapshot)
	},
}

var srCmd = &cobra.Command{
	Use:   "sr <coin>",
	Short: "Print the support/resistance levels the bot would send for .sr <coin>",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMarketCommand(cmd, args[0], telegram.CommandLevels)
	},
}

var verbose bool

func init() {
	priceCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log with the configured logger instead of discarding")
	srCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log with the configured logger instead of discarding")
}

// runMarketCommand goes through the same parser as the chat so the CLI
// accepts exactly what the bot accepts. It needs no bot token.
func runMarketCommand(cmd *cobra.Command, coin string, kind telegram.CommandKind) error {
	text := "." + coin
	if kind == telegram.CommandLevels {
		text = ".sr " + coin
	}
	parsed, ok := telegram.ParseCommand(text)
	if !ok || parsed.Kind != kind {
		return fmt.Errorf("invalid coin %q", coin)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := logger.NewNop()
	if verbose {
		if log, err = logger.New(cfg.Log.Level, cfg.Log.Encoding); err != nil {
			return err
		}
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Bot.CommandTimeout)
	defer cancel()

	repo := repository.NewRepository(cfg, log)
	market := service.NewMarketService(cfg, log, repo.BybitRepo, cache.NewCache(cfg.Cache.DefaultExpiration, cfg.Cache.CleanupInterval))

	var out string
	switch parsed.Kind {
	case telegram.CommandLevels:
		out, err = telegram.LevelsText(ctx, cfg, market, parsed.Coin)
	default:
		out, err = telegram.SnapshotText(ctx, market, parsed.Coin)
	}
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), out)
	return nil
}
