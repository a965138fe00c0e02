package telegram

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"price-sr-bot/internal/dto"
	"price-sr-bot/pkg/logger"
	"price-sr-bot/pkg/middleware"
	"price-sr-bot/pkg/telegram"

	"github.com/labstack/echo/v4"
	"gopkg.in/telebot.v3"
)

const webhookPath = "/api/v1/telegram/webhook"

func (t *TelegramBotHandler) WithContext(handler func(ctx context.Context, c telebot.Context) error) func(c telebot.Context) error {
	return middleware.WithContext(t.ctx, t.cfg.Bot.CommandTimeout, handler)
}

func (t *TelegramBotHandler) RegisterHandlers() {
	if t.cfg.Telegram.WebhookURL != "" && t.echo != nil {
		t.echo.POST(webhookPath, t.handleWebhook)
	}

	t.bot.Use(middleware.Recover(t.log))
	t.bot.Handle("/start", t.WithContext(t.handleStart))
	t.bot.Handle("/help", t.WithContext(t.handleHelp))
	t.bot.Handle(telebot.OnText, t.WithContext(t.handleText))
}

func (t *TelegramBotHandler) handleWebhook(c echo.Context) error {
	var update telebot.Update
	if err := c.Bind(&update); err != nil {
		t.log.ErrorContext(t.ctx, "Cannot bind JSON", logger.ErrorField(err))
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
	}
	t.bot.ProcessUpdate(update)
	return c.JSON(http.StatusOK, dto.NewBaseResponse(http.StatusOK, "ok", nil))
}

const messageHelp = `👋 Price & support/resistance bot

.btc - price, change since 00:00 UTC and funding rate for BTCUSDT
.sr btc - up to three support and resistance levels from recent 4H candles

Any coin listed as a USDT perpetual works, e.g. .eth or .sr sol`

func (t *TelegramBotHandler) handleStart(ctx context.Context, c telebot.Context) error {
	return t.telegram.SendText(ctx, c.Chat().ID, messageHelp)
}

func (t *TelegramBotHandler) handleHelp(ctx context.Context, c telebot.Context) error {
	return t.telegram.SendText(ctx, c.Chat().ID, messageHelp)
}

func (t *TelegramBotHandler) handleText(ctx context.Context, c telebot.Context) error {
	if c.Message() == nil || c.Chat() == nil {
		return nil
	}
	return t.HandleCommand(ctx, c.Chat().ID, c.Text())
}

// HandleCommand answers one chat line. Unrecognised text is ignored silently.
func (t *TelegramBotHandler) HandleCommand(ctx context.Context, chatID int64, text string) error {
	cmd, ok := ParseCommand(text)
	if !ok {
		return nil
	}

	log := t.log.With(
		logger.Int64Field("chat_id", chatID),
		logger.StringField("command", cmd.Kind.String()),
		logger.StringField("coin", cmd.Coin),
	)
	ctx = logger.NewContext(ctx, log)
	log.Debug("Handling command")

	var (
		reply string
		err   error
	)
	switch cmd.Kind {
	case CommandLevels:
		reply, err = LevelsText(ctx, t.cfg, t.service.MarketService, cmd.Coin)
	case CommandSnapshot:
		reply, err = SnapshotText(ctx, t.service.MarketService, cmd.Coin)
	default:
		return nil
	}
	if err != nil {
		return t.handleFailure(ctx, chatID, cmd, err)
	}

	return t.telegram.SendText(ctx, chatID, reply)
}

// handleFailure applies the reply_on_failure policy. The failure never
// propagates to the poller.
func (t *TelegramBotHandler) handleFailure(ctx context.Context, chatID int64, cmd Command, err error) error {
	switch {
	case errors.Is(err, dto.ErrDataUnavailable), errors.Is(err, dto.ErrZeroBaseline):
		t.log.WarnContext(ctx, "Market data unavailable for command", logger.ErrorField(err))
	default:
		t.log.ErrorContext(ctx, "Command failed", logger.ErrorField(err))
	}

	if !t.cfg.Bot.ReplyOnFailure {
		return nil
	}
	symbol := t.service.MarketService.Symbol(cmd.Coin)
	return t.telegram.SendText(ctx, chatID, fmt.Sprintf(telegram.MessageDataUnavailable, symbol))
}
