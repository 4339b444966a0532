package model

import (
	"sort"
	"strings"
	"time"
)

// Meeting is the normalized content of one attendance export.
type Meeting struct {
	// Source is the path of the export the meeting was read from.
	Source          string
	Start           time.Time
	DurationSeconds int64
	// Participants holds unique names in ascending byte order.
	Participants []string
}

// End returns Start plus the observed duration.
func (m Meeting) End() time.Time {
	return m.Start.Add(time.Duration(m.DurationSeconds) * time.Second)
}

// DurationMinutes returns the duration as fractional minutes.
func (m Meeting) DurationMinutes() float64 {
	return float64(m.DurationSeconds) / 60
}

// NewParticipantSet turns a name set into the sorted slice stored on a Meeting.
func NewParticipantSet(names map[string]struct{}) []string {
	out := make([]string, 0, len(names))
	for n := range names {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// SortMeetings orders meetings by start, then duration, then participants,
// so that repeated runs over the same batch merge in the same order.
func SortMeetings(meetings []Meeting) {
	sort.SliceStable(meetings, func(i, j int) bool {
		return lessMeeting(meetings[i], meetings[j])
	})
}

func lessMeeting(a, b Meeting) bool {
	if !a.Start.Equal(b.Start) {
		return a.Start.Before(b.Start)
	}
	if a.DurationSeconds != b.DurationSeconds {
		return a.DurationSeconds < b.DurationSeconds
	}
	n := len(a.Participants)
	if len(b.Participants) < n {
		n = len(b.Participants)
	}
	for i := 0; i < n; i++ {
		if c := strings.Compare(a.Participants[i], b.Participants[i]); c != 0 {
			return c < 0
		}
	}
	return len(a.Participants) < len(b.Participants)
}
