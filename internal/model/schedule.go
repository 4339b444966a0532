package model

import "time"

// ReservedGroup is the group name that may never appear in a schedule; its
// roster file would collide with the schedule file itself.
const ReservedGroup = "schedule"

// ScheduleEntry is one recurring weekly class slot.
type ScheduleEntry struct {
	Weekday time.Weekday
	// Clock is the time of day as written in the schedule, "HH:MM".
	Clock string
	// Slot is an absolute timestamp inside the current 7-day window that
	// falls on Weekday at Clock. Only its position within the week matters.
	Slot  time.Time
	Group string
	// Suffix is appended to the roster column label. It is empty unless the
	// same (Weekday, Group) pair occurs more than once in the schedule.
	Suffix string
}

// Label returns a human-readable description like "Monday math 09:00".
func (e ScheduleEntry) Label() string {
	return e.Weekday.String() + " " + e.Group + e.Suffix
}
