package middleware

import (
	"context"
	"testing"
	"time"

	"price-sr-bot/pkg/logger"

	"github.com/stretchr/testify/assert"
	"gopkg.in/telebot.v3"
)

func TestWithContext(t *testing.T) {
	root, cancel := context.WithCancel(context.Background())
	handler := WithContext(root, time.Minute, func(ctx context.Context, c telebot.Context) error {
		_, ok := ctx.Deadline()
		assert.True(t, ok)
		cancel()
		<-ctx.Done()
		return ctx.Err()
	})

	assert.ErrorIs(t, handler(nil), context.Canceled)
}

func TestRecover(t *testing.T) {
	handler := Recover(logger.NewNop())(func(c telebot.Context) error {
		panic("boom")
	})
	assert.ErrorIs(t, handler(nil), errRecovered)

	ok := Recover(logger.NewNop())(func(c telebot.Context) error { return nil })
	assert.NoError(t, ok(nil))
}
