package telegram

import (
	"context"

	"price-sr-bot/config"
	"price-sr-bot/internal/service"
	"price-sr-bot/pkg/telegram"
)

// SnapshotText fetches a snapshot for coin and renders the chat reply.
func SnapshotText(ctx context.Context, market service.MarketService, coin string) (string, error) {
	snap, err := market.GetSnapshot(ctx, coin)
	if err != nil {
		return "", err
	}
	return telegram.FormatSnapshotMessage(snap.Symbol, snap.Price, snap.PercentChange, snap.FundingRatePercent), nil
}

// LevelsText detects support/resistance for coin and renders the chat reply.
func LevelsText(ctx context.Context, cfg *config.Config, market service.MarketService, coin string) (string, error) {
	levels, err := market.GetLevels(ctx, coin)
	if err != nil {
		return "", err
	}
	return telegram.FormatLevelsMessage(coin, cfg.Levels.Interval, cfg.Levels.Limit, levels.Supports(), levels.Resistances(), levels.Current), nil
}
