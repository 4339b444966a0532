package timecalc

import (
	"fmt"
	"math"
	"strings"
	"time"
)

const (
	// MinutesPerWeek is the period of the circular schedule clock.
	MinutesPerWeek = 7 * 24 * 60
	halfWeek       = MinutesPerWeek / 2
)

// DistanceModWeek returns the shortest distance in minutes between two
// points on a 7-day circular clock, given their raw difference d.
// The result is in [0, MinutesPerWeek/2].
func DistanceModWeek(d time.Duration) float64 {
	m := math.Mod(d.Minutes()+halfWeek, MinutesPerWeek)
	if m < 0 {
		m += MinutesPerWeek
	}
	return math.Abs(m - halfWeek)
}

// WallDiff returns a − b computed on wall-clock fields, ignoring zone
// offsets, so a DST change between the two dates does not shift the result.
func WallDiff(a, b time.Time) time.Duration {
	return wall(a).Sub(wall(b))
}

func wall(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}

// AnchorWeekday returns the midnight of the first day in [now, now+6 days]
// that falls on wd, in the location of now.
func AnchorWeekday(now time.Time, wd time.Weekday) time.Time {
	offset := (int(wd) - int(now.Weekday()) + 7) % 7
	return StartOfDay(now.AddDate(0, 0, offset))
}

// ParseWeekday accepts English weekday names, full or abbreviated to three
// letters, in any letter case.
func ParseWeekday(name string) (time.Weekday, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if len(n) >= 3 {
		for wd := time.Sunday; wd <= time.Saturday; wd++ {
			full := strings.ToLower(wd.String())
			if n == full || n == full[:3] {
				return wd, nil
			}
		}
	}
	return time.Sunday, fmt.Errorf("unknown day of week %q", name)
}

// ParseClock parses an "HH:MM" time of day into hours and minutes.
func ParseClock(s string) (int, int, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid time of day %q, expected HH:MM", s)
	}
	return t.Hour(), t.Minute(), nil
}

// WeekMinute returns the minute offset of t from Monday 00:00 of its week,
// in [0, MinutesPerWeek).
func WeekMinute(t time.Time) int {
	wd := (int(t.Weekday()) + 6) % 7 // Monday=0
	return wd*24*60 + t.Hour()*60 + t.Minute()
}

// RoundQuarterHour rounds t to the nearest multiple of 15 minutes.
// Exactly 7.5 minutes past a quarter rounds down.
func RoundQuarterHour(t time.Time) time.Time {
	t = t.Truncate(time.Minute).Add(7 * time.Minute)
	m := t.Minute() - t.Minute()%15
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), m, 0, 0, t.Location())
}

// FormatDuration formats seconds as a human-readable string like "1h 40m" or "45m" or "30s".
func FormatDuration(seconds int64) string {
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	if m > 0 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%ds", s)
}

// FormatMinutes renders a fractional minute distance, e.g. "3 min" or "2.5 min".
func FormatMinutes(m float64) string {
	if m == math.Trunc(m) {
		return fmt.Sprintf("%.0f min", m)
	}
	return fmt.Sprintf("%.1f min", m)
}

// StartOfDay returns 00:00:00 of the same day.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DateLabel returns the roster column date, "2006-01-02".
func DateLabel(t time.Time) string {
	return t.Format("2006-01-02")
}
