package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/class-attendance/internal/model"
	"github.com/Tiliavir/class-attendance/internal/reconcile"
	"github.com/Tiliavir/class-attendance/internal/schedule"
)

var (
	markIrregular bool
	markDryRun    bool
)

var markCmd = &cobra.Command{
	Use:   "mark",
	Short: "Record attendance from the downloaded Teams exports",
	Long: `mark reads every attendance export in the downloads folder, matches each
meeting to the nearest class of the weekly schedule and marks the
participants present in that class roster.

Without a schedule file, a placeholder built from the exports is written
for you to edit and nothing is recorded.`,
	Args: cobra.NoArgs,
	RunE: runMark,
}

func init() {
	markCmd.Flags().BoolVar(&markIrregular, "irregular", false, "Record every meeting in one roster, ignoring the schedule")
	markCmd.Flags().BoolVar(&markDryRun, "dry-run", false, "Print planned operations without writing")
}

func runMark(cmd *cobra.Command, args []string) error {
	s := openSession(cmd)
	now := time.Now()
	irregular := markIrregular || s.cfg.Matching.Irregular

	files := s.exports()

	dryTag := ""
	if markDryRun {
		dryTag = " [dry-run]"
	}
	fmt.Printf("Reading %d attendance files from %s%s...\n", len(files), s.cfg.Paths.Downloads, dryTag)
	fmt.Println()

	meetings, failed := reconcile.Collect(s.ctx, s.parser(), files, os.Stdout)

	var entries []model.ScheduleEntry
	if !irregular {
		var ok bool
		if entries, ok = loadSchedule(s, now, meetings); !ok {
			return nil
		}
	}

	result, err := reconcile.Run(s.ctx, s.store(), entries, meetings, reconcile.Options{
		MinTolerance:   s.cfg.MinTolerance(),
		Irregular:      irregular,
		IrregularGroup: s.cfg.Matching.IrregularRoster,
		DryRun:         markDryRun,
		Out:            os.Stdout,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	fmt.Println()
	fmt.Println("Summary:")
	fmt.Printf("  %d meetings read\n", len(meetings))
	if failed > 0 {
		fmt.Printf("  %d files skipped\n", failed)
	}
	fmt.Printf("  %d recorded\n", result.Recorded)
	fmt.Printf("  %d already recorded\n", result.Unchanged)
	if result.Unmatched > 0 {
		fmt.Printf("  %d unmatched\n", result.Unmatched)
	}
	if result.Errors > 0 {
		fmt.Printf("  %d errors\n", result.Errors)
		os.Exit(2)
	}
	return nil
}

// loadSchedule returns the schedule entries or ends the process. A missing
// schedule is replaced by a placeholder derived from meetings, in which case
// ok is false and nothing should be recorded.
func loadSchedule(s session, now time.Time, meetings []model.Meeting) (entries []model.ScheduleEntry, ok bool) {
	path := s.cfg.Paths.Schedule
	loc, err := s.cfg.Location()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	entries, err = schedule.Load(path, now, loc, s.weekdays())
	switch {
	case errors.Is(err, schedule.ErrNotFound):
		if !bootstrapSchedule(s, path, meetings) {
			os.Exit(1)
		}
		return nil, false
	case err != nil:
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	case len(entries) == 0:
		fmt.Fprintf(os.Stderr, "Error: the schedule %s exists but contains no valid data.\n", path)
		os.Exit(1)
	}
	s.log.Debug("schedule loaded", slog.String("path", path), slog.Int("entries", len(entries)))
	return entries, true
}

// bootstrapSchedule writes a placeholder schedule and reports whether it did.
func bootstrapSchedule(s session, path string, meetings []model.Meeting) bool {
	if len(meetings) == 0 {
		fmt.Fprintf(os.Stderr, "Error: the schedule %s was not found and no attendance data is available to create one.\n", path)
		fmt.Fprintln(os.Stderr, "Check that the downloads folder holds Teams attendance files and that the config matches their layout.")
		return false
	}
	if markDryRun {
		fmt.Fprintf(os.Stderr, "Error: the schedule %s was not found. Run without --dry-run to create a placeholder.\n", path)
		return false
	}
	if err := schedule.WritePlaceholder(path, meetings, s.weekdays()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return false
	}
	s.log.Info("placeholder schedule written", slog.String("path", path), slog.Int("meetings", len(meetings)))
	fmt.Printf("The schedule %s was not found, so a placeholder was created from the attendance data.\n", path)
	fmt.Println("Correct it, give the classes their proper names, then run attend mark again.")
	return true
}
