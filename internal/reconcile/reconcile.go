// Package reconcile records a batch of meetings in the group rosters.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/Tiliavir/class-attendance/internal/logging"
	"github.com/Tiliavir/class-attendance/internal/model"
	"github.com/Tiliavir/class-attendance/internal/roster"
	"github.com/Tiliavir/class-attendance/internal/slot"
	"github.com/Tiliavir/class-attendance/internal/timecalc"
)

// Result holds counters for a reconcile run.
type Result struct {
	Recorded  int
	Unchanged int
	Unmatched int
	Errors    int
}

// Options configures a reconcile run.
type Options struct {
	// MinTolerance is the smallest accepted distance to a schedule slot.
	MinTolerance time.Duration
	// Irregular records every meeting in IrregularGroup under its own
	// date-and-time column, without consulting the schedule.
	Irregular      bool
	IrregularGroup string
	// DryRun computes everything but writes no roster.
	DryRun bool
	// Out receives one progress line per meeting.
	Out io.Writer
}

// ErrNoIrregularGroup is returned when irregular mode has nowhere to record.
var ErrNoIrregularGroup = errors.New("irregular mode needs a roster name")

// Run matches each meeting to the schedule and merges its participants into
// the matched group's roster. Meetings are processed in model.SortMeetings
// order so that re-runs produce identical rosters. A failure concerning one
// meeting or roster is counted and reported, and the run continues.
func Run(ctx context.Context, store *roster.Store, entries []model.ScheduleEntry, meetings []model.Meeting, opts Options) (Result, error) {
	var result Result

	if opts.Irregular && (opts.IrregularGroup == "" || opts.IrregularGroup == model.ReservedGroup) {
		return result, fmt.Errorf("%w: got %q", ErrNoIrregularGroup, opts.IrregularGroup)
	}
	out := opts.Out
	if out == nil {
		out = io.Discard
	}
	log := logging.FromContext(ctx)

	sorted := append([]model.Meeting(nil), meetings...)
	model.SortMeetings(sorted)

	// Dry runs see their own earlier merges through this cache.
	pending := map[string]*roster.Roster{}

	for _, m := range sorted {
		group, column := opts.IrregularGroup, slot.IrregularColumn(m)
		if !opts.Irregular {
			res := slot.Match(m, entries, opts.MinTolerance)
			if !res.Matched {
				fmt.Fprintf(out, "  ? Unmatched: %s\n", res.Diagnostic())
				log.Warn("meeting not matched",
					slog.String("source", m.Source),
					slog.Time("start", m.Start),
					slog.Float64("distance_minutes", res.Distance))
				result.Unmatched++
				continue
			}
			group, column = res.Group(), res.Column()
		}

		changed, err := record(store, pending, group, column, m.Participants, opts.DryRun)
		if err != nil {
			fmt.Fprintf(out, "  ! Error recording %s in %s: %v\n", column, group, err)
			log.Warn("roster not updated",
				slog.String("group", group),
				slog.String("column", column),
				slog.String("path", store.Path(group)),
				slog.String("reason", err.Error()))
			result.Errors++
			continue
		}

		summary := fmt.Sprintf("%s %s (%d participants, %s)", group, column,
			len(m.Participants), timecalc.FormatDuration(m.DurationSeconds))
		if !changed {
			fmt.Fprintf(out, "  – Skipped:  %s (already recorded)\n", summary)
			result.Unchanged++
			continue
		}
		fmt.Fprintf(out, "  ✓ Recorded: %s\n", summary)
		log.Info("meeting recorded",
			slog.String("group", group),
			slog.String("column", column),
			slog.String("source", m.Source),
			slog.Bool("dry_run", opts.DryRun))
		result.Recorded++
	}

	return result, nil
}

func record(store *roster.Store, pending map[string]*roster.Roster, group, column string, participants []string, dryRun bool) (bool, error) {
	if !dryRun {
		_, changed, err := store.Mark(group, column, participants)
		return changed, err
	}
	r, ok := pending[group]
	if !ok {
		var err error
		if r, err = store.Load(group); err != nil {
			return false, err
		}
	}
	merged := roster.Merge(r, column, participants, store.Sorter)
	pending[group] = merged
	return !merged.Equal(r), nil
}
