package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"price-sr-bot/config"
	"price-sr-bot/internal/dto"
	"price-sr-bot/pkg/cache"
	"price-sr-bot/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBybitRepo struct {
	klines     func(param dto.KlineParam) ([]dto.Candle, error)
	ticker     *dto.Ticker
	tickerErr  error
	klineCalls []dto.KlineParam
	tickerHits int
}

func (f *fakeBybitRepo) GetKlines(ctx context.Context, param dto.KlineParam) ([]dto.Candle, error) {
	f.klineCalls = append(f.klineCalls, param)
	return f.klines(param)
}

func (f *fakeBybitRepo) GetTicker(ctx context.Context, symbol string) (*dto.Ticker, error) {
	f.tickerHits++
	if f.tickerErr != nil {
		return nil, f.tickerErr
	}
	t := *f.ticker
	t.Symbol = symbol
	return &t, nil
}

func testConfig() *config.Config {
	return &config.Config{
		Bybit:  config.Bybit{QuoteAsset: "USDT", Category: "linear"},
		Levels: config.Levels{Interval: "240", Limit: 100},
		Cache:  config.Cache{TickerExpiration: time.Second},
		Bot:    config.Bot{CommandTimeout: time.Second},
	}
}

func newTestMarketService(repo *fakeBybitRepo, now time.Time) *marketService {
	svc := NewMarketService(testConfig(), logger.NewNop(), repo, cache.NewCache(time.Minute, time.Minute)).(*marketService)
	svc.now = func() time.Time { return now }
	return svc
}

func TestMarketService_Symbol(t *testing.T) {
	svc := newTestMarketService(&fakeBybitRepo{}, time.Now())
	assert.Equal(t, "BTCUSDT", svc.Symbol("btc"))
	assert.Equal(t, "PEPEUSDT", svc.Symbol(" Pepe "))
}

func TestMarketService_GetSnapshot(t *testing.T) {
	now := time.Date(2026, 10, 15, 9, 30, 0, 0, time.UTC)
	dayStart := time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)

	repo := &fakeBybitRepo{
		ticker: &dto.Ticker{LastPrice: 105, FundingRate: 0.0001},
		klines: func(param dto.KlineParam) ([]dto.Candle, error) {
			// newest first, as the exchange returns them
			return []dto.Candle{
				{OpenTime: dayStart.Add(2 * time.Minute), Open: 102},
				{OpenTime: dayStart.Add(time.Minute), Open: 101},
				{OpenTime: dayStart, Open: 100},
			}, nil
		},
	}
	svc := newTestMarketService(repo, now)

	snap, err := svc.GetSnapshot(context.Background(), "btc")
	require.NoError(t, err)
	assert.Equal(t, "BTCUSDT", snap.Symbol)
	assert.Equal(t, 105.0, snap.Price)
	assert.InDelta(t, 5.0, snap.PercentChange, 1e-9)
	assert.InDelta(t, 0.01, snap.FundingRatePercent, 1e-12)
	assert.Equal(t, 100.0, snap.Baseline)
	assert.Equal(t, dayStart, snap.BaselineTime)

	require.Len(t, repo.klineCalls, 1)
	assert.Equal(t, "1", repo.klineCalls[0].Interval)
	assert.Equal(t, dayStart, repo.klineCalls[0].Start)

	// baseline and ticker are cached for the second call
	_, err = svc.GetSnapshot(context.Background(), "btc")
	require.NoError(t, err)
	assert.Len(t, repo.klineCalls, 1)
	assert.Equal(t, 1, repo.tickerHits)
}

func TestMarketService_GetSnapshot_ZeroBaseline(t *testing.T) {
	now := time.Date(2026, 10, 15, 9, 30, 0, 0, time.UTC)
	repo := &fakeBybitRepo{
		ticker: &dto.Ticker{LastPrice: 1},
		klines: func(param dto.KlineParam) ([]dto.Candle, error) {
			return []dto.Candle{{OpenTime: param.Start, Open: 0}}, nil
		},
	}
	svc := newTestMarketService(repo, now)

	_, err := svc.GetSnapshot(context.Background(), "dead")
	assert.ErrorIs(t, err, dto.ErrZeroBaseline)
}

func TestMarketService_GetSnapshot_BaselineUnavailable(t *testing.T) {
	now := time.Date(2026, 10, 15, 9, 30, 0, 0, time.UTC)
	repo := &fakeBybitRepo{
		ticker: &dto.Ticker{LastPrice: 1},
		klines: func(param dto.KlineParam) ([]dto.Candle, error) {
			// only a candle from before the requested day
			return []dto.Candle{{OpenTime: param.Start.Add(-time.Minute), Open: 1}}, nil
		},
	}
	svc := newTestMarketService(repo, now)

	_, err := svc.GetSnapshot(context.Background(), "btc")
	assert.ErrorIs(t, err, dto.ErrDataUnavailable)
	assert.Len(t, repo.klineCalls, 1, "no fallback outside the first minute of the day")
}

func TestMarketService_GetSnapshot_DayBoundaryFallback(t *testing.T) {
	now := time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)
	today := now
	yesterday := today.AddDate(0, 0, -1)

	repo := &fakeBybitRepo{
		ticker: &dto.Ticker{LastPrice: 99},
		klines: func(param dto.KlineParam) ([]dto.Candle, error) {
			if param.Start.Equal(today) {
				return nil, fmt.Errorf("%w: no klines", dto.ErrDataUnavailable)
			}
			return []dto.Candle{{OpenTime: yesterday, Open: 90}}, nil
		},
	}
	svc := newTestMarketService(repo, now)

	snap, err := svc.GetSnapshot(context.Background(), "btc")
	require.NoError(t, err)
	assert.Equal(t, 90.0, snap.Baseline)
	assert.Equal(t, yesterday, snap.BaselineTime)
	require.Len(t, repo.klineCalls, 2)
	assert.Equal(t, yesterday, repo.klineCalls[1].Start)
}

func TestMarketService_GetSnapshot_TickerFailure(t *testing.T) {
	repo := &fakeBybitRepo{tickerErr: fmt.Errorf("%w: timeout", dto.ErrDataUnavailable)}
	svc := newTestMarketService(repo, time.Now())

	snap, err := svc.GetSnapshot(context.Background(), "btc")
	assert.Nil(t, snap)
	assert.ErrorIs(t, err, dto.ErrDataUnavailable)
}

func TestMarketService_GetLevels(t *testing.T) {
	repo := &fakeBybitRepo{
		ticker: &dto.Ticker{LastPrice: 100},
		klines: func(param dto.KlineParam) ([]dto.Candle, error) {
			return []dto.Candle{
				{High: 96, Low: 94, Volume: 10},
				{High: 106, Low: 104, Volume: 20},
			}, nil
		},
	}
	svc := newTestMarketService(repo, time.Now())

	levels, err := svc.GetLevels(context.Background(), "eth")
	require.NoError(t, err)
	assert.Equal(t, "ETHUSDT", levels.Symbol)
	assert.Equal(t, []float64{95}, levels.Supports())
	assert.Equal(t, []float64{105}, levels.Resistances())
	assert.Equal(t, 2, levels.CandleCount)

	require.Len(t, repo.klineCalls, 1)
	assert.Equal(t, dto.KlineParam{Symbol: "ETHUSDT", Interval: "240", Limit: 100}, repo.klineCalls[0])
}

func TestMarketService_GetLevels_CandleFailure(t *testing.T) {
	repo := &fakeBybitRepo{
		ticker: &dto.Ticker{LastPrice: 100},
		klines: func(param dto.KlineParam) ([]dto.Candle, error) {
			return nil, fmt.Errorf("%w: empty", dto.ErrDataUnavailable)
		},
	}
	svc := newTestMarketService(repo, time.Now())

	_, err := svc.GetLevels(context.Background(), "eth")
	assert.ErrorIs(t, err, dto.ErrDataUnavailable)
	assert.Equal(t, 0, repo.tickerHits, "ticker is not fetched once candles failed")
}
