// Package slot assigns meetings to recurring schedule entries.
package slot

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/Tiliavir/class-attendance/internal/model"
	"github.com/Tiliavir/class-attendance/internal/timecalc"
)

// DefaultMinTolerance is the smallest accepted distance between a meeting
// start and its slot, whatever the meeting duration.
const DefaultMinTolerance = 30 * time.Minute

// Result is the outcome of matching one meeting.
type Result struct {
	Meeting model.Meeting
	// Entry is the closest schedule entry, nil for an empty schedule.
	Entry *model.ScheduleEntry
	// Distance is the circular distance in minutes to Entry.
	Distance float64
	Matched  bool
}

// Nearest returns the index of the entry closest to start on the weekly
// circular clock, and its distance in minutes. Ties keep the earlier entry.
// The index is -1 when entries is empty.
func Nearest(start time.Time, entries []model.ScheduleEntry) (int, float64) {
	best, dist := -1, math.Inf(1)
	for i, e := range entries {
		d := timecalc.DistanceModWeek(timecalc.WallDiff(start, e.Slot))
		if d < dist {
			best, dist = i, d
		}
	}
	return best, dist
}

// Match finds the slot of m. The match is accepted when the distance does
// not exceed the meeting duration or minTolerance, whichever is larger.
func Match(m model.Meeting, entries []model.ScheduleEntry, minTolerance time.Duration) Result {
	res := Result{Meeting: m}
	i, dist := Nearest(m.Start, entries)
	if i < 0 {
		return res
	}
	res.Entry = &entries[i]
	res.Distance = dist
	res.Matched = dist <= math.Max(m.DurationMinutes(), minTolerance.Minutes())
	return res
}

// Group returns the roster the meeting belongs to.
func (r Result) Group() string {
	if r.Entry == nil {
		return ""
	}
	return r.Entry.Group
}

// Column returns the roster column label: the meeting date followed by the
// slot suffix.
func (r Result) Column() string {
	label := timecalc.DateLabel(r.Meeting.Start)
	if r.Entry != nil {
		label += r.Entry.Suffix
	}
	return label
}

// Diagnostic explains an unmatched meeting so the operator can extend the
// schedule.
func (r Result) Diagnostic() string {
	var b strings.Builder
	start := r.Meeting.Start
	fmt.Fprintf(&b, "Classes not found on %s (%s).", start.Format("2006-01-02 15:04:05"), start.Weekday())
	if r.Entry != nil {
		fmt.Fprintf(&b, " The closest entry in the schedule is %s away: %s.",
			timecalc.FormatMinutes(r.Distance), r.Entry.Label())
	}
	b.WriteString(" You may need to edit the schedule to add a missing entry.")
	return b.String()
}

// IrregularColumn labels a meeting in irregular mode, where every meeting
// gets its own column: "2006-01-02 15:04".
func IrregularColumn(m model.Meeting) string {
	return m.Start.Format("2006-01-02 15:04")
}
