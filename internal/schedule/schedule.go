// Package schedule reads the weekly class schedule and writes placeholder
// schedules for first-time users.
package schedule

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/Tiliavir/class-attendance/internal/model"
	"github.com/Tiliavir/class-attendance/internal/timecalc"
)

var (
	// ErrNotFound is returned when the schedule file does not exist.
	ErrNotFound = errors.New("schedule file not found")
	// ErrMalformed is returned for rows that cannot be parsed.
	ErrMalformed = errors.New("malformed schedule")
	// ErrReservedGroup is returned when a row uses model.ReservedGroup.
	// Callers must treat it as fatal.
	ErrReservedGroup = errors.New(`no class/group can be named "` + model.ReservedGroup + `"`)
)

// Option customizes how schedules are read and written.
type Option func(*options)

type options struct {
	days *timecalc.Weekdays
}

// WithWeekdays reads and writes weekday names in the language of days.
// English names are always accepted.
func WithWeekdays(days *timecalc.Weekdays) Option {
	return func(o *options) { o.days = days }
}

func collectOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Load reads the schedule at path. Each row is "weekday,HH:MM,group".
// Slot timestamps are anchored in the 7-day window starting on the day of
// now, in loc.
func Load(path string, now time.Time, loc *time.Location, opts ...Option) ([]model.ScheduleEntry, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading schedule %s: %w", path, err)
	}
	defer f.Close()

	entries, err := Read(f, now.In(loc), opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return entries, nil
}

// Read parses schedule rows from r. See Load. A row repeating an earlier
// one (same weekday, time and group) is dropped.
func Read(r io.Reader, now time.Time, opts ...Option) ([]model.ScheduleEntry, error) {
	o := collectOptions(opts)
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	type rowKey struct {
		wd    time.Weekday
		clock string
		group string
	}
	seen := map[rowKey]bool{}

	var entries []model.ScheduleEntry
	for line := 1; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		entry, err := parseRow(row, now, o.days)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		k := rowKey{entry.Weekday, entry.Clock, entry.Group}
		if seen[k] {
			continue
		}
		seen[k] = true
		entries = append(entries, entry)
	}

	assignSuffixes(entries)
	return entries, nil
}

func parseRow(row []string, now time.Time, days *timecalc.Weekdays) (model.ScheduleEntry, error) {
	if len(row) < 3 {
		return model.ScheduleEntry{}, fmt.Errorf("%w: expected weekday,HH:MM,group and got %d fields", ErrMalformed, len(row))
	}
	for i := range row {
		row[i] = strings.TrimSpace(row[i])
	}

	group := row[2]
	if group == model.ReservedGroup {
		return model.ScheduleEntry{}, ErrReservedGroup
	}
	if group == "" {
		return model.ScheduleEntry{}, fmt.Errorf("%w: empty group name", ErrMalformed)
	}

	wd, err := days.Parse(row[0])
	if err != nil {
		return model.ScheduleEntry{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	h, m, err := timecalc.ParseClock(row[1])
	if err != nil {
		return model.ScheduleEntry{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	day := timecalc.AnchorWeekday(now, wd)
	return model.ScheduleEntry{
		Weekday: wd,
		Clock:   fmt.Sprintf("%02d:%02d", h, m),
		Slot:    time.Date(day.Year(), day.Month(), day.Day(), h, m, 0, 0, day.Location()),
		Group:   group,
	}, nil
}

// assignSuffixes gives every entry of a repeated (weekday, group) pair a
// " HH:MM" suffix so each occurrence lands in its own roster column.
func assignSuffixes(entries []model.ScheduleEntry) {
	type dayGroup struct {
		wd    time.Weekday
		group string
	}
	counts := map[dayGroup]int{}
	for _, e := range entries {
		counts[dayGroup{e.Weekday, e.Group}]++
	}
	for i := range entries {
		if counts[dayGroup{entries[i].Weekday, entries[i].Group}] > 1 {
			entries[i].Suffix = " " + entries[i].Clock
		}
	}
}

// WritePlaceholder writes a schedule with one "classN" row per distinct
// weekly time at which the given meetings started, rounded to the nearest
// quarter hour and ordered Monday first.
func WritePlaceholder(path string, meetings []model.Meeting, opts ...Option) error {
	o := collectOptions(opts)
	type slot struct {
		minute int
		day    string
		clock  string
	}
	seen := map[int]slot{}
	for _, m := range meetings {
		t := timecalc.RoundQuarterHour(m.Start)
		wm := timecalc.WeekMinute(t)
		seen[wm] = slot{minute: wm, day: o.days.Name(t.Weekday()), clock: t.Format("15:04")}
	}
	slots := make([]slot, 0, len(seen))
	for _, s := range seen {
		slots = append(slots, s)
	}
	sort.Slice(slots, func(i, j int) bool { return slots[i].minute < slots[j].minute })

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating schedule %s: %w", path, err)
	}
	w := csv.NewWriter(f)
	for i, s := range slots {
		if err := w.Write([]string{s.day, s.clock, fmt.Sprintf("class%d", i+1)}); err != nil {
			f.Close()
			return fmt.Errorf("writing schedule %s: %w", path, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("writing schedule %s: %w", path, err)
	}
	return f.Close()
}
