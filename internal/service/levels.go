package service

import (
	"fmt"
	"math"
	"sort"

	"price-sr-bot/internal/dto"
)

const (
	// bucket width as a fraction of the reference price
	levelStepRatio = 0.005
	volumeWeight   = 1.5
	maxLevels      = 3
)

// DetectLevels clusters candle midpoints into price buckets of width
// current*0.5%, scores each bucket by weighted volume and greedily picks up
// to three mutually spaced supports below current and three resistances at
// or above it, highest score first.
//
// Supports come back nearest-first (descending), resistances nearest-first
// (ascending). Equal scores are ranked by bucket price ascending.
func DetectLevels(candles []dto.Candle, current float64) (dto.Levels, error) {
	if !isFinite(current) || current <= 0 {
		return dto.Levels{}, fmt.Errorf("%w: reference price must be positive, got %v", dto.ErrInvalidInput, current)
	}

	step := current * levelStepRatio
	if step == 0 || !isFinite(step) {
		return dto.Levels{}, fmt.Errorf("%w: degenerate bucket step for price %v", dto.ErrInvalidInput, current)
	}

	levels := dto.Levels{
		Current:     current,
		Step:        step,
		Support:     []dto.PriceLevel{},
		Resistance:  []dto.PriceLevel{},
		CandleCount: len(candles),
	}
	if len(candles) == 0 {
		return levels, nil
	}

	scores := make(map[float64]float64)
	for i, c := range candles {
		if err := validateCandle(c); err != nil {
			return dto.Levels{}, fmt.Errorf("%w: candle %d: %s", dto.ErrInvalidInput, i, err)
		}
		mid := (c.High + c.Low) / 2
		scores[bucketKey(mid, step)] += c.Volume * volumeWeight
	}

	buckets := make([]dto.PriceLevel, 0, len(scores))
	for price, score := range scores {
		buckets = append(buckets, dto.PriceLevel{Price: price, Score: score})
	}
	sort.Slice(buckets, func(i, j int) bool {
		if buckets[i].Score != buckets[j].Score {
			return buckets[i].Score > buckets[j].Score
		}
		return buckets[i].Price < buckets[j].Price
	})

	for _, b := range buckets {
		if b.Price < current {
			if isSpaced(levels.Support, b.Price, step) {
				levels.Support = append(levels.Support, b)
			}
		} else if isSpaced(levels.Resistance, b.Price, step) {
			levels.Resistance = append(levels.Resistance, b)
		}

		if len(levels.Support) >= maxLevels && len(levels.Resistance) >= maxLevels {
			break
		}
	}

	if len(levels.Support) > maxLevels {
		levels.Support = levels.Support[:maxLevels]
	}
	if len(levels.Resistance) > maxLevels {
		levels.Resistance = levels.Resistance[:maxLevels]
	}

	sort.Slice(levels.Support, func(i, j int) bool {
		return levels.Support[i].Price > levels.Support[j].Price
	})
	sort.Slice(levels.Resistance, func(i, j int) bool {
		return levels.Resistance[i].Price < levels.Resistance[j].Price
	})

	return levels, nil
}

// bucketKey rounds half to even: a midpoint exactly between two buckets
// lands on the even one.
func bucketKey(price, step float64) float64 {
	return math.RoundToEven(price/step) * step
}

func isSpaced(accepted []dto.PriceLevel, price, step float64) bool {
	for _, lvl := range accepted {
		if math.Abs(price-lvl.Price) <= step {
			return false
		}
	}
	return true
}

func validateCandle(c dto.Candle) error {
	for _, v := range []float64{c.High, c.Low, c.Volume} {
		if !isFinite(v) || v < 0 {
			return fmt.Errorf("high/low/volume must be finite and non-negative (high=%v low=%v volume=%v)", c.High, c.Low, c.Volume)
		}
	}
	if c.High < c.Low {
		return fmt.Errorf("high %v below low %v", c.High, c.Low)
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// PercentChange is (price-baseline)/baseline*100.
func PercentChange(price, baseline float64) (float64, error) {
	if baseline == 0 {
		return 0, dto.ErrZeroBaseline
	}
	if !isFinite(price) || !isFinite(baseline) {
		return 0, fmt.Errorf("%w: price=%v baseline=%v", dto.ErrInvalidInput, price, baseline)
	}
	return (price - baseline) / baseline * 100, nil
}
