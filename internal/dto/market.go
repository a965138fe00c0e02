package dto

import "time"

// Candle is one OHLCV observation.
type Candle struct {
	OpenTime time.Time `json:"open_time"`
	Open     float64   `json:"open"`
	High     float64   `json:"high"`
	Low      float64   `json:"low"`
	Close    float64   `json:"close"`
	Volume   float64   `json:"volume"`
}

type Ticker struct {
	Symbol      string  `json:"symbol"`
	LastPrice   float64 `json:"last_price"`
	FundingRate float64 `json:"funding_rate"`
}

type Snapshot struct {
	Symbol             string    `json:"symbol"`
	Price              float64   `json:"price"`
	PercentChange      float64   `json:"percent_change"`
	FundingRatePercent float64   `json:"funding_rate_percent"`
	Baseline           float64   `json:"baseline"`
	BaselineTime       time.Time `json:"baseline_time"`
}

// PriceLevel is a quantized price bucket and its accumulated occupancy score.
type PriceLevel struct {
	Price float64 `json:"price"`
	Score float64 `json:"score"`
}

type Levels struct {
	Symbol      string       `json:"symbol,omitempty"`
	Current     float64      `json:"current"`
	Step        float64      `json:"step"`
	Support     []PriceLevel `json:"support"`
	Resistance  []PriceLevel `json:"resistance"`
	CandleCount int          `json:"candle_count"`
}

// Supports returns support prices, nearest to the current price first.
func (l Levels) Supports() []float64 {
	return prices(l.Support)
}

// Resistances returns resistance prices, nearest to the current price first.
func (l Levels) Resistances() []float64 {
	return prices(l.Resistance)
}

func prices(levels []PriceLevel) []float64 {
	out := make([]float64, 0, len(levels))
	for _, lvl := range levels {
		out = append(out, lvl.Price)
	}
	return out
}

// KlineParam selects a candle window. Zero Start/End leave the bound to the exchange.
type KlineParam struct {
	Symbol   string
	Interval string
	Limit    int
	Start    time.Time
	End      time.Time
}
