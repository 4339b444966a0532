package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/class-attendance/internal/model"
	"github.com/Tiliavir/class-attendance/internal/reconcile"
	"github.com/Tiliavir/class-attendance/internal/timecalc"
)

var listParticipants bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the meetings found in the downloaded exports",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	listCmd.Flags().BoolVar(&listParticipants, "participants", false, "Also print the participant names")
}

func runList(cmd *cobra.Command, args []string) error {
	s := openSession(cmd)

	meetings, _ := reconcile.Collect(s.ctx, s.parser(), s.exports(), os.Stderr)
	printMeetings(os.Stdout, meetings, listParticipants)
	return nil
}

// printMeetings groups meetings by date and prints them.
func printMeetings(w io.Writer, meetings []model.Meeting, names bool) {
	if len(meetings) == 0 {
		fmt.Fprintln(w, "No meetings found.")
		return
	}

	var currentDay string
	for _, m := range meetings {
		day := timecalc.DateLabel(m.Start)
		if day != currentDay {
			fmt.Fprintf(w, "%s (%s)\n", day, m.Start.Weekday())
			currentDay = day
		}

		fmt.Fprintf(w, "%s–%s  %d participants (%s)  %s\n",
			m.Start.Format("15:04"), m.End().Format("15:04"),
			len(m.Participants), timecalc.FormatDuration(m.DurationSeconds),
			filepath.Base(m.Source))
		if names {
			fmt.Fprintf(w, "    %s\n", strings.Join(m.Participants, ", "))
		}
	}
}
