package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/class-attendance/internal/model"
	"github.com/Tiliavir/class-attendance/internal/schedule"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show folders, schedule and pending exports",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	s := openSession(cmd)
	now := time.Now()

	fmt.Printf("Downloads: %s\n", s.cfg.Paths.Downloads)
	fmt.Printf("Schedule:  %s\n", s.cfg.Paths.Schedule)
	fmt.Printf("Rosters:   %s\n", s.cfg.Paths.Rosters)
	if s.cfg.Matching.Irregular {
		fmt.Printf("Mode:      irregular (roster %q)\n", s.cfg.Matching.IrregularRoster)
	}
	fmt.Println()

	loc, err := s.cfg.Location()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	entries, err := schedule.Load(s.cfg.Paths.Schedule, now, loc, s.weekdays())
	switch {
	case errors.Is(err, schedule.ErrNotFound):
		fmt.Println("No schedule yet. attend mark creates a placeholder.")
	case err != nil:
		fmt.Println("Schedule error:", err)
	default:
		printSchedule(os.Stdout, entries)
	}
	fmt.Println()

	files := s.exports()
	fmt.Printf("%d attendance files waiting in %s.\n", len(files), s.cfg.Paths.Downloads)

	groups, err := s.store().Groups()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	fmt.Printf("%d rosters.\n", len(groups))
	return nil
}

// printSchedule prints one line per schedule entry.
func printSchedule(w io.Writer, entries []model.ScheduleEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "The schedule contains no valid data.")
		return
	}
	fmt.Fprintln(w, "Schedule:")
	for _, e := range entries {
		column := "date"
		if e.Suffix != "" {
			column += e.Suffix
		}
		fmt.Fprintf(w, "  %-9s %s  %-20s column %s\n", e.Weekday, e.Clock, e.Group, column)
	}
}
