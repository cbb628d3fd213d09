// AngelaMos | 2026
// period_test.go

package statistics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/techzone/backoffice/internal/core"
)

func TestResolvePeriod(t *testing.T) {
	now := time.Date(2026, 3, 15, 14, 30, 0, 0, time.UTC)

	tests := []struct {
		name     string
		preset   string
		from, to string
		wantFrom *time.Time
		wantTo   time.Time
	}{
		{
			name:     "last 7 days",
			preset:   PresetLast7Days,
			wantFrom: ptr(time.Date(2026, 3, 8, 14, 30, 0, 0, time.UTC)),
			wantTo:   now,
		},
		{
			name:     "last 30 days",
			preset:   PresetLast30Days,
			wantFrom: ptr(time.Date(2026, 2, 13, 14, 30, 0, 0, time.UTC)),
			wantTo:   now,
		},
		{
			name:     "this month",
			preset:   PresetThisMonth,
			wantFrom: ptr(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)),
			wantTo:   now,
		},
		{
			name:   "all time",
			preset: PresetAllTime,
			wantTo: now,
		},
		{
			name:     "explicit range includes the whole to day",
			from:     "2026-01-01",
			to:       "2026-01-31",
			wantFrom: ptr(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)),
			wantTo:   time.Date(2026, 1, 31, 23, 59, 59, 999999999, time.UTC),
		},
		{
			name:     "single day",
			from:     "2026-02-10",
			to:       "2026-02-10",
			wantFrom: ptr(time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)),
			wantTo:   time.Date(2026, 2, 10, 23, 59, 59, 999999999, time.UTC),
		},
		{
			name:   "incomplete range falls back to all time",
			from:   "2026-01-01",
			wantTo: now,
		},
		{
			name:     "preset wins over dates",
			preset:   PresetThisMonth,
			from:     "2020-01-01",
			to:       "2020-01-02",
			wantFrom: ptr(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)),
			wantTo:   now,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ResolvePeriod(tt.preset, tt.from, tt.to, now)
			require.NoError(t, err)

			if tt.wantFrom == nil {
				assert.Nil(t, p.From)
			} else {
				require.NotNil(t, p.From)
				assert.True(t, tt.wantFrom.Equal(*p.From), "from = %s", p.From)
			}
			assert.True(t, tt.wantTo.Equal(p.To), "to = %s", p.To)
		})
	}
}

func TestResolvePeriodRejectsBadInput(t *testing.T) {
	now := time.Now()

	cases := [][3]string{
		{"yesterday", "", ""},
		{"", "2026-13-01", "2026-12-31"},
		{"", "2026-01-01", "01/02/2026"},
		{"", "2026-02-01", "2026-01-01"},
	}

	for _, c := range cases {
		_, err := ResolvePeriod(c[0], c[1], c[2], now)
		assert.ErrorIs(t, err, core.ErrInvalidInput, "%v", c)
	}
}

func ptr(t time.Time) *time.Time { return &t }
