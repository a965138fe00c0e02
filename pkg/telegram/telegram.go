package telegram

import (
	"context"
	"sync"
	"time"

	"price-sr-bot/config"
	"price-sr-bot/pkg/logger"
	"price-sr-bot/pkg/ratelimit"
	"price-sr-bot/pkg/utils"

	"golang.org/x/time/rate"
	"gopkg.in/telebot.v3"
)

// Bot is the subset of *telebot.Bot used for delivery.
type Bot interface {
	Send(to telebot.Recipient, what interface{}, opts ...interface{}) (*telebot.Message, error)
}

type TelegramRateLimiter struct {
	cfg           *config.TelegramConfig
	log           *logger.Logger
	bot           Bot
	globalLimiter *rate.Limiter
	chatLimiters  *ratelimit.LimiterStore
	wg            sync.WaitGroup
}

func perSecond(n int) rate.Limit {
	if n <= 0 {
		return rate.Inf
	}
	return rate.Limit(n)
}

func burst(n int) int {
	if n <= 0 {
		return 1
	}
	return n
}

func NewTelegramRateLimiter(cfg *config.TelegramConfig, log *logger.Logger, bot Bot) *TelegramRateLimiter {
	return &TelegramRateLimiter{
		cfg:           cfg,
		log:           log,
		bot:           bot,
		globalLimiter: rate.NewLimiter(perSecond(cfg.MaxGlobalRequestPerSecond), burst(cfg.MaxGlobalRequestPerSecond)),
		chatLimiters:  ratelimit.NewLimiterStore(perSecond(cfg.MaxChatRequestPerSecond), burst(cfg.MaxChatRequestPerSecond)),
	}
}

// SendText delivers text to chatID once both the chat and the global limiter allow it.
func (t *TelegramRateLimiter) SendText(ctx context.Context, chatID int64, text string, opts ...interface{}) error {
	if err := t.checkRateLimit(ctx, chatID); err != nil {
		return err
	}
	if _, err := t.bot.Send(telebot.ChatID(chatID), text, opts...); err != nil {
		t.log.ErrorContext(ctx, "Failed to send message", logger.Int64Field("chat_id", chatID), logger.ErrorField(err))
		return err
	}
	return nil
}

func (t *TelegramRateLimiter) Send(ctx context.Context, c telebot.Context, what interface{}, opts ...interface{}) (*telebot.Message, error) {
	if err := t.checkRateLimit(ctx, c.Chat().ID); err != nil {
		return nil, err
	}
	return t.bot.Send(c.Chat(), what, opts...)
}

func (t *TelegramRateLimiter) checkRateLimit(ctx context.Context, chatID int64) error {
	if err := t.chatLimiters.GetLimiter(chatID).Wait(ctx); err != nil {
		t.log.ErrorContext(ctx, "Failed to wait for chat rate limit", logger.ErrorField(err))
		return err
	}
	if err := t.globalLimiter.Wait(ctx); err != nil {
		t.log.ErrorContext(ctx, "Failed to wait for global rate limit", logger.ErrorField(err))
		return err
	}
	return nil
}

func (t *TelegramRateLimiter) StartCleanupExpired(ctx context.Context) {
	interval := t.cfg.RateLimitCleanupDuration
	if interval <= 0 {
		interval = time.Minute
	}

	t.wg.Add(1)
	utils.GoSafe(func() {
		defer t.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				t.log.Info("Received signal to stop Telegram rate limiter cleanup expired")
				return
			case <-ticker.C:
				if removed := t.chatLimiters.Cleanup(t.cfg.RatelimitExpireDuration); removed > 0 {
					t.log.Debug("Removed idle chat limiters", logger.IntField("removed", removed))
				}
			}
		}
	})
}

func (t *TelegramRateLimiter) StopCleanupExpired() {
	t.wg.Wait()
	t.log.Info("Telegram rate limiter stopped")
}
