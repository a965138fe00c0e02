package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

func TestLimiterStore_GetLimiter(t *testing.T) {
	s := NewLimiterStore(rate.Limit(1), 1)

	a := s.GetLimiter(1)
	b := s.GetLimiter(1)
	c := s.GetLimiter(2)

	assert.Same(t, a, b)
	assert.NotSame(t, a, c)
	assert.Equal(t, 2, s.Len())
}

func TestLimiterStore_Cleanup(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s := NewLimiterStore(rate.Limit(1), 1)
	s.now = func() time.Time { return now }

	s.GetLimiter(1)
	now = now.Add(5 * time.Minute)
	s.GetLimiter(2)
	now = now.Add(6 * time.Minute)

	removed := s.Cleanup(10 * time.Minute)
	assert.Equal(t, 1, removed)
	assert.Equal(t, 1, s.Len())

	removed = s.Cleanup(time.Minute)
	assert.Equal(t, 1, removed)
	assert.Equal(t, 0, s.Len())
}
