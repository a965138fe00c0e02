package repository

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"price-sr-bot/config"
	"price-sr-bot/internal/dto"
	"price-sr-bot/pkg/httpclient"
	"price-sr-bot/pkg/logger"

	"golang.org/x/time/rate"
)

const (
	bybitKlineEndpoint  = "/v5/market/kline"
	bybitTickerEndpoint = "/v5/market/tickers"
	bybitRetCodeOK      = 0
	maxBodyLogLength    = 512
)

type BybitRepository interface {
	GetKlines(ctx context.Context, param dto.KlineParam) ([]dto.Candle, error)
	GetTicker(ctx context.Context, symbol string) (*dto.Ticker, error)
}

type bybitRepository struct {
	httpClient     httpclient.HTTPClient
	cfg            *config.Config
	logger         *logger.Logger
	requestLimiter *rate.Limiter
}

func NewBybitRepository(cfg *config.Config, log *logger.Logger) BybitRepository {
	client := httpclient.New(cfg.Bybit.BaseURL, cfg.Bybit.Timeout,
		httpclient.WithRetry(cfg.Bybit.RetryCount, cfg.Bybit.RetryWaitTime),
		httpclient.WithUserAgent(cfg.Bybit.UserAgent),
	)
	return newBybitRepository(cfg, log, client)
}

func newBybitRepository(cfg *config.Config, log *logger.Logger, client httpclient.HTTPClient) *bybitRepository {
	limit := rate.Inf
	if cfg.Bybit.MaxRequestPerMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(cfg.Bybit.MaxRequestPerMinute))
	}
	return &bybitRepository{
		httpClient:     client,
		cfg:            cfg,
		logger:         log,
		requestLimiter: rate.NewLimiter(limit, 1),
	}
}

func (r *bybitRepository) GetKlines(ctx context.Context, param dto.KlineParam) ([]dto.Candle, error) {
	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	queryParams := map[string]string{
		"category": r.cfg.Bybit.Category,
		"symbol":   param.Symbol,
		"interval": param.Interval,
	}
	if param.Limit > 0 {
		queryParams["limit"] = strconv.Itoa(param.Limit)
	}
	if !param.Start.IsZero() {
		queryParams["start"] = strconv.FormatInt(param.Start.UnixMilli(), 10)
	}
	if !param.End.IsZero() {
		queryParams["end"] = strconv.FormatInt(param.End.UnixMilli(), 10)
	}

	var body dto.BybitResponse[dto.BybitKlineResult]
	if err := r.get(ctx, bybitKlineEndpoint, queryParams, &body); err != nil {
		return nil, err
	}
	if len(body.Result.List) == 0 {
		return nil, fmt.Errorf("%w: no klines for %s", dto.ErrDataUnavailable, param.Symbol)
	}

	candles := make([]dto.Candle, 0, len(body.Result.List))
	for _, row := range body.Result.List {
		candle, err := dto.ParseBybitKline(row)
		if err != nil {
			r.logger.WarnContext(ctx, "Malformed kline row from bybit",
				logger.StringField("symbol", param.Symbol),
				logger.ErrorField(err))
			return nil, fmt.Errorf("%w: %s", dto.ErrDataUnavailable, err)
		}
		candles = append(candles, candle)
	}

	return candles, nil
}

func (r *bybitRepository) GetTicker(ctx context.Context, symbol string) (*dto.Ticker, error) {
	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	queryParams := map[string]string{
		"category": r.cfg.Bybit.Category,
		"symbol":   symbol,
	}

	var body dto.BybitResponse[dto.BybitTickerResult]
	if err := r.get(ctx, bybitTickerEndpoint, queryParams, &body); err != nil {
		return nil, err
	}
	if len(body.Result.List) == 0 {
		return nil, fmt.Errorf("%w: no ticker for %s", dto.ErrDataUnavailable, symbol)
	}

	ticker, err := body.Result.List[0].ToTicker()
	if err != nil {
		return nil, fmt.Errorf("%w: %s", dto.ErrDataUnavailable, err)
	}
	if ticker.Symbol == "" {
		ticker.Symbol = symbol
	}
	return &ticker, nil
}

// get performs the request and validates transport status and the v5 retCode.
func (r *bybitRepository) get(ctx context.Context, endpoint string, queryParams map[string]string, result interface{ RetStatus() (int, string) }) error {
	resp, err := r.httpClient.Get(ctx, endpoint, queryParams, nil, result)
	if err != nil {
		return fmt.Errorf("%w: request %s: %s", dto.ErrDataUnavailable, endpoint, err)
	}

	if resp.StatusCode != http.StatusOK || len(resp.Body) == 0 {
		r.logger.ErrorContext(ctx, "Bybit API returned Non-OK status",
			logger.StringField("endpoint", endpoint),
			logger.IntField("status_code", resp.StatusCode),
			logger.StringField("body", truncate(string(resp.Body), maxBodyLogLength)))
		return fmt.Errorf("%w: bybit api returned status %d", dto.ErrDataUnavailable, resp.StatusCode)
	}

	if code, msg := result.RetStatus(); code != bybitRetCodeOK {
		r.logger.WarnContext(ctx, "Bybit API returned error code",
			logger.StringField("endpoint", endpoint),
			logger.IntField("ret_code", code),
			logger.StringField("ret_msg", msg))
		return fmt.Errorf("%w: bybit retCode %d: %s", dto.ErrDataUnavailable, code, msg)
	}
	return nil
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
