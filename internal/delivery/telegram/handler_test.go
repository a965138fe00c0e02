package telegram

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"price-sr-bot/config"
	"price-sr-bot/internal/dto"
	"price-sr-bot/internal/service"
	"price-sr-bot/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubMarket struct {
	snapshot *dto.Snapshot
	levels   *dto.Levels
	err      error
	calls    []string
}

func (s *stubMarket) Symbol(coin string) string { return "X" + coin }

func (s *stubMarket) GetSnapshot(ctx context.Context, coin string) (*dto.Snapshot, error) {
	s.calls = append(s.calls, "snapshot:"+coin)
	return s.snapshot, s.err
}

func (s *stubMarket) GetLevels(ctx context.Context, coin string) (*dto.Levels, error) {
	s.calls = append(s.calls, "levels:"+coin)
	return s.levels, s.err
}

type recordingNotifier struct {
	chatIDs []int64
	texts   []string
}

func (r *recordingNotifier) SendText(ctx context.Context, chatID int64, text string, opts ...interface{}) error {
	r.chatIDs = append(r.chatIDs, chatID)
	r.texts = append(r.texts, text)
	return nil
}

func newTestHandler(market service.MarketService, notifier *recordingNotifier, replyOnFailure bool) *TelegramBotHandler {
	cfg := &config.Config{
		Levels: config.Levels{Interval: "240", Limit: 100},
		Bot:    config.Bot{ReplyOnFailure: replyOnFailure, CommandTimeout: time.Second},
	}
	return NewTelegramBotHandler(context.Background(), cfg, logger.NewNop(), nil, notifier, nil,
		&service.Service{MarketService: market})
}

func TestHandleCommand_Snapshot(t *testing.T) {
	market := &stubMarket{snapshot: &dto.Snapshot{Symbol: "BTCUSDT", Price: 65432.1, PercentChange: -1.5, FundingRatePercent: -0.0125}}
	notifier := &recordingNotifier{}
	h := newTestHandler(market, notifier, false)

	require.NoError(t, h.HandleCommand(context.Background(), 77, ".btc"))

	assert.Equal(t, []string{"snapshot:btc"}, market.calls)
	require.Len(t, notifier.texts, 1)
	assert.Equal(t, int64(77), notifier.chatIDs[0])
	assert.Equal(t, "🟦 BTCUSDT 🟦\nPrice :  65,432\nSince 00:00 UTC :  -1.50% 📉\nFunding :  -0.0125% 🔴", notifier.texts[0])
}

func TestHandleCommand_Levels(t *testing.T) {
	market := &stubMarket{levels: &dto.Levels{
		Current:    2.5,
		Support:    []dto.PriceLevel{{Price: 2.4}, {Price: 2.2}},
		Resistance: []dto.PriceLevel{{Price: 2.6}},
	}}
	notifier := &recordingNotifier{}
	h := newTestHandler(market, notifier, false)

	require.NoError(t, h.HandleCommand(context.Background(), 1, ".sr ada"))

	assert.Equal(t, []string{"levels:ada"}, market.calls)
	require.Len(t, notifier.texts, 1)
	want := "📊 ADA Support / Resistance (4H · 100 candles)\n\n" +
		"🟢 Support\n- 2.40\n- 2.20\n" +
		"\n🔴 Resistance\n- 2.60\n" +
		"\n💰 Price : 2.50"
	assert.Equal(t, want, notifier.texts[0])
}

func TestHandleCommand_IgnoresUnknownText(t *testing.T) {
	market := &stubMarket{}
	notifier := &recordingNotifier{}
	h := newTestHandler(market, notifier, true)

	for _, text := range []string{"hello", ".sr", ".sr a b", "/start"} {
		require.NoError(t, h.HandleCommand(context.Background(), 1, text))
	}
	assert.Empty(t, market.calls)
	assert.Empty(t, notifier.texts)
}

func TestHandleCommand_FailurePolicy(t *testing.T) {
	failure := fmt.Errorf("%w: boom", dto.ErrDataUnavailable)

	t.Run("silent drop", func(t *testing.T) {
		notifier := &recordingNotifier{}
		h := newTestHandler(&stubMarket{err: failure}, notifier, false)

		require.NoError(t, h.HandleCommand(context.Background(), 1, ".btc"))
		assert.Empty(t, notifier.texts)
	})

	t.Run("reply on failure", func(t *testing.T) {
		notifier := &recordingNotifier{}
		h := newTestHandler(&stubMarket{err: failure}, notifier, true)

		require.NoError(t, h.HandleCommand(context.Background(), 9, ".sr btc"))
		require.Len(t, notifier.texts, 1)
		assert.Contains(t, notifier.texts[0], "Xbtc")
		assert.Contains(t, notifier.texts[0], "unavailable")
	})

	t.Run("unexpected error is also contained", func(t *testing.T) {
		notifier := &recordingNotifier{}
		h := newTestHandler(&stubMarket{err: errors.New("unexpected")}, notifier, false)

		assert.NoError(t, h.HandleCommand(context.Background(), 1, ".btc"))
	})
}
