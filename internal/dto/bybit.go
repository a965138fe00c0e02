package dto

import (
	"fmt"
	"strconv"
	"time"
)

const (
	bybitKlineOpenTime = iota
	bybitKlineOpen
	bybitKlineHigh
	bybitKlineLow
	bybitKlineClose
	bybitKlineVolume
	bybitKlineMinFields
)

// BybitResponse is the v5 envelope shared by every market endpoint.
type BybitResponse[T any] struct {
	RetCode int    `json:"retCode"`
	RetMsg  string `json:"retMsg"`
	Result  T      `json:"result"`
	Time    int64  `json:"time"`
}

type BybitKlineResult struct {
	Category string     `json:"category"`
	Symbol   string     `json:"symbol"`
	List     [][]string `json:"list"`
}

type BybitTickerResult struct {
	Category string        `json:"category"`
	List     []BybitTicker `json:"list"`
}

type BybitTicker struct {
	Symbol      string `json:"symbol"`
	LastPrice   string `json:"lastPrice"`
	FundingRate string `json:"fundingRate"`
	MarkPrice   string `json:"markPrice"`
	IndexPrice  string `json:"indexPrice"`
	Volume24h   string `json:"volume24h"`
}

// ParseBybitKline decodes one positional kline row
// [startTime, open, high, low, close, volume, turnover].
func ParseBybitKline(row []string) (Candle, error) {
	if len(row) < bybitKlineMinFields {
		return Candle{}, fmt.Errorf("kline row has %d fields, want at least %d", len(row), bybitKlineMinFields)
	}

	openTime, err := strconv.ParseInt(row[bybitKlineOpenTime], 10, 64)
	if err != nil {
		return Candle{}, fmt.Errorf("parse kline start time %q: %w", row[bybitKlineOpenTime], err)
	}

	var values [bybitKlineMinFields]float64
	for i := bybitKlineOpen; i <= bybitKlineVolume; i++ {
		v, err := strconv.ParseFloat(row[i], 64)
		if err != nil {
			return Candle{}, fmt.Errorf("parse kline field %d %q: %w", i, row[i], err)
		}
		values[i] = v
	}

	return Candle{
		OpenTime: time.UnixMilli(openTime).UTC(),
		Open:     values[bybitKlineOpen],
		High:     values[bybitKlineHigh],
		Low:      values[bybitKlineLow],
		Close:    values[bybitKlineClose],
		Volume:   values[bybitKlineVolume],
	}, nil
}

func (t BybitTicker) ToTicker() (Ticker, error) {
	price, err := strconv.ParseFloat(t.LastPrice, 64)
	if err != nil {
		return Ticker{}, fmt.Errorf("parse lastPrice %q: %w", t.LastPrice, err)
	}
	funding, err := strconv.ParseFloat(t.FundingRate, 64)
	if err != nil {
		return Ticker{}, fmt.Errorf("parse fundingRate %q: %w", t.FundingRate, err)
	}
	return Ticker{
		Symbol:      t.Symbol,
		LastPrice:   price,
		FundingRate: funding,
	}, nil
}

func (r *BybitResponse[T]) RetStatus() (int, string) {
	return r.RetCode, r.RetMsg
}
