package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStartOfUTCDay(t *testing.T) {
	jakarta := time.FixedZone("WIB", 7*3600)

	tests := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{
			name: "mid day utc",
			in:   time.Date(2026, 10, 15, 13, 45, 10, 5, time.UTC),
			want: time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "exact boundary",
			in:   time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC),
			want: time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "local zone ahead of utc still uses utc day",
			in:   time.Date(2026, 10, 15, 3, 0, 0, 0, jakarta),
			want: time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.want.Equal(StartOfUTCDay(tt.in)), "got %s", StartOfUTCDay(tt.in))
		})
	}
}

func TestUntilNextUTCDay(t *testing.T) {
	in := time.Date(2026, 10, 15, 23, 30, 0, 0, time.UTC)
	assert.Equal(t, 30*time.Minute, UntilNextUTCDay(in))
}
