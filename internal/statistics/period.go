// AngelaMos | 2026
// period.go

package statistics

import (
	"fmt"
	"time"

	"github.com/techzone/backoffice/internal/core"
)

const (
	PresetLast7Days  = "last7days"
	PresetLast30Days = "last30days"
	PresetThisMonth  = "thismonth"
	PresetAllTime    = "alltime"

	dateLayout = "2006-01-02"
)

// Period is a closed time range. A nil From means unbounded.
type Period struct {
	From *time.Time
	To   time.Time
}

// ResolvePeriod turns a preset or an explicit from/to date pair into a
// period ending at now. An explicit to date includes that whole day.
// With no preset and no complete date pair the period is all time.
func ResolvePeriod(preset, from, to string, now time.Time) (Period, error) {
	switch preset {
	case PresetLast7Days:
		start := now.AddDate(0, 0, -7)
		return Period{From: &start, To: now}, nil
	case PresetLast30Days:
		start := now.AddDate(0, 0, -30)
		return Period{From: &start, To: now}, nil
	case PresetThisMonth:
		start := startOfMonth(now)
		return Period{From: &start, To: now}, nil
	case PresetAllTime:
		return Period{To: now}, nil
	case "":
	default:
		return Period{}, fmt.Errorf("unknown preset %q: %w", preset, core.ErrInvalidInput)
	}

	if from == "" || to == "" {
		return Period{To: now}, nil
	}

	start, err := time.ParseInLocation(dateLayout, from, now.Location())
	if err != nil {
		return Period{}, fmt.Errorf("from must be YYYY-MM-DD: %w", core.ErrInvalidInput)
	}
	end, err := time.ParseInLocation(dateLayout, to, now.Location())
	if err != nil {
		return Period{}, fmt.Errorf("to must be YYYY-MM-DD: %w", core.ErrInvalidInput)
	}
	if end.Before(start) {
		return Period{}, fmt.Errorf("from must not be after to: %w", core.ErrInvalidInput)
	}

	return Period{From: &start, To: end.AddDate(0, 0, 1).Add(-time.Nanosecond)}, nil
}

func startOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
