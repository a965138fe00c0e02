package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"price-sr-bot/config"
	"price-sr-bot/internal/dto"
	"price-sr-bot/internal/repository"
	"price-sr-bot/pkg/cache"
	"price-sr-bot/pkg/common"
	"price-sr-bot/pkg/logger"
	"price-sr-bot/pkg/utils"
)

const (
	// 1m candles searched after 00:00 UTC for the day's opening price
	baselineSearchWindow = time.Hour
	baselineSearchLimit  = 60
)

type MarketService interface {
	// Symbol maps a chat coin ("btc") to the exchange symbol ("BTCUSDT").
	Symbol(coin string) string
	GetSnapshot(ctx context.Context, coin string) (*dto.Snapshot, error)
	GetLevels(ctx context.Context, coin string) (*dto.Levels, error)
}

type marketService struct {
	cfg           *config.Config
	log           *logger.Logger
	bybitRepo     repository.BybitRepository
	inmemoryCache cache.Cache
	now           func() time.Time
}

func NewMarketService(cfg *config.Config, log *logger.Logger, bybitRepo repository.BybitRepository, inmemoryCache cache.Cache) MarketService {
	return &marketService{
		cfg:           cfg,
		log:           log,
		bybitRepo:     bybitRepo,
		inmemoryCache: inmemoryCache,
		now:           time.Now,
	}
}

func (s *marketService) Symbol(coin string) string {
	return strings.ToUpper(strings.TrimSpace(coin)) + strings.ToUpper(s.cfg.Bybit.QuoteAsset)
}

func (s *marketService) GetSnapshot(ctx context.Context, coin string) (*dto.Snapshot, error) {
	symbol := s.Symbol(coin)

	ticker, err := s.getTicker(ctx, symbol)
	if err != nil {
		return nil, err
	}

	baseline, baselineTime, err := s.getBaseline(ctx, symbol)
	if err != nil {
		return nil, err
	}

	percent, err := PercentChange(ticker.LastPrice, baseline)
	if err != nil {
		s.log.WarnContext(ctx, "Cannot compute percent change",
			logger.StringField("symbol", symbol),
			logger.Float64Field("baseline", baseline),
			logger.ErrorField(err))
		return nil, err
	}

	return &dto.Snapshot{
		Symbol:             symbol,
		Price:              ticker.LastPrice,
		PercentChange:      percent,
		FundingRatePercent: ticker.FundingRate * 100,
		Baseline:           baseline,
		BaselineTime:       baselineTime,
	}, nil
}

func (s *marketService) GetLevels(ctx context.Context, coin string) (*dto.Levels, error) {
	symbol := s.Symbol(coin)

	candles, err := s.bybitRepo.GetKlines(ctx, dto.KlineParam{
		Symbol:   symbol,
		Interval: s.cfg.Levels.Interval,
		Limit:    s.cfg.Levels.Limit,
	})
	if err != nil {
		s.log.WarnContext(ctx, "Failed to fetch candles for levels", logger.StringField("symbol", symbol), logger.ErrorField(err))
		return nil, err
	}

	ticker, err := s.getTicker(ctx, symbol)
	if err != nil {
		return nil, err
	}

	levels, err := DetectLevels(candles, ticker.LastPrice)
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to detect levels", logger.StringField("symbol", symbol), logger.ErrorField(err))
		return nil, err
	}
	levels.Symbol = symbol

	s.log.DebugContext(ctx, "Detected levels",
		logger.StringField("symbol", symbol),
		logger.IntField("candles", len(candles)),
		logger.IntField("supports", len(levels.Support)),
		logger.IntField("resistances", len(levels.Resistance)))
	return &levels, nil
}

func (s *marketService) getTicker(ctx context.Context, symbol string) (*dto.Ticker, error) {
	key := fmt.Sprintf(common.KEY_TICKER, symbol)
	if ticker, ok := cache.GetFromCache[*dto.Ticker](s.inmemoryCache, key); ok {
		return ticker, nil
	}

	ticker, err := s.bybitRepo.GetTicker(ctx, symbol)
	if err != nil {
		s.log.WarnContext(ctx, "Failed to fetch ticker", logger.StringField("symbol", symbol), logger.ErrorField(err))
		return nil, err
	}

	if s.inmemoryCache != nil && s.cfg.Cache.TickerExpiration > 0 {
		s.inmemoryCache.Set(key, ticker, s.cfg.Cache.TickerExpiration)
	}
	return ticker, nil
}

// getBaseline returns the open of the first 1m candle at or after 00:00 UTC
// today. Right at the day boundary, before that candle exists, it falls back
// to the previous day's 00:00 candle.
func (s *marketService) getBaseline(ctx context.Context, symbol string) (float64, time.Time, error) {
	now := s.now().UTC()
	dayStart := utils.StartOfUTCDay(now)

	key := fmt.Sprintf(common.KEY_UTC_DAY_BASELINE, symbol, dayStart.Unix())
	if candle, ok := cache.GetFromCache[dto.Candle](s.inmemoryCache, key); ok {
		return candle.Open, candle.OpenTime, nil
	}

	candle, err := s.findDayOpen(ctx, symbol, dayStart)
	if err != nil && errors.Is(err, dto.ErrDataUnavailable) && now.Sub(dayStart) < time.Minute {
		s.log.InfoContext(ctx, "Today's first candle not available yet, using previous day",
			logger.StringField("symbol", symbol))
		candle, err = s.findDayOpen(ctx, symbol, dayStart.AddDate(0, 0, -1))
		if err != nil {
			return 0, time.Time{}, err
		}
		return candle.Open, candle.OpenTime, nil
	}
	if err != nil {
		return 0, time.Time{}, err
	}

	if s.inmemoryCache != nil {
		s.inmemoryCache.Set(key, candle, utils.UntilNextUTCDay(now))
	}
	return candle.Open, candle.OpenTime, nil
}

func (s *marketService) findDayOpen(ctx context.Context, symbol string, dayStart time.Time) (dto.Candle, error) {
	candles, err := s.bybitRepo.GetKlines(ctx, dto.KlineParam{
		Symbol:   symbol,
		Interval: common.INTERVAL_1_MINUTE,
		Limit:    baselineSearchLimit,
		Start:    dayStart,
		End:      dayStart.Add(baselineSearchWindow - time.Millisecond),
	})
	if err != nil {
		s.log.WarnContext(ctx, "Failed to fetch baseline candle", logger.StringField("symbol", symbol), logger.ErrorField(err))
		return dto.Candle{}, err
	}

	var first *dto.Candle
	for i := range candles {
		c := candles[i]
		if c.OpenTime.Before(dayStart) {
			continue
		}
		if first == nil || c.OpenTime.Before(first.OpenTime) {
			first = &c
		}
	}
	if first == nil {
		return dto.Candle{}, fmt.Errorf("%w: no candle at or after %s for %s", dto.ErrDataUnavailable, dayStart.Format(time.RFC3339), symbol)
	}
	return *first, nil
}
