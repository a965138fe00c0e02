package middleware

import (
	"context"
	"errors"
	"time"

	"price-sr-bot/pkg/logger"

	"gopkg.in/telebot.v3"
)

var errRecovered = errors.New("telegram handler panicked")

// WithContext bounds each update handler by timeout and derives its context from rootCtx,
// so shutdown cancels in-flight commands.
func WithContext(rootCtx context.Context, timeout time.Duration, handler func(ctx context.Context, c telebot.Context) error) func(c telebot.Context) error {
	return func(c telebot.Context) error {
		ctx, cancel := context.WithTimeout(rootCtx, timeout)
		defer cancel()

		return handler(ctx, c)
	}
}

// Recover turns a panicking handler into an error so the poller keeps running.
func Recover(log *logger.Logger) telebot.MiddlewareFunc {
	return func(next telebot.HandlerFunc) telebot.HandlerFunc {
		return func(c telebot.Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					log.Error("Recovered panic in telegram handler", logger.Field("panic", r))
					err = errRecovered
				}
			}()
			return next(c)
		}
	}
}
