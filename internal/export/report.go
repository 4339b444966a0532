package export

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"math"

	"github.com/Tiliavir/class-attendance/internal/roster"
)

// Total is one participant's attendance across a roster.
type Total struct {
	Name     string  `json:"name"`
	Attended int     `json:"attended"`
	Sessions int     `json:"sessions"`
	Percent  float64 `json:"percent"`
}

// Summary aggregates one group's roster.
type Summary struct {
	Group        string  `json:"group"`
	Sessions     int     `json:"sessions"`
	Participants []Total `json:"participants"`
}

// Summarize counts attended sessions per participant, in roster order.
func Summarize(group string, r *roster.Roster) Summary {
	sessions := len(r.Columns())
	s := Summary{
		Group:        group,
		Sessions:     sessions,
		Participants: make([]Total, 0, len(r.Rows)),
	}
	for _, row := range r.Rows {
		t := Total{Name: row.Name, Sessions: sessions}
		for _, m := range row.Marks {
			t.Attended += m
		}
		if sessions > 0 {
			t.Percent = math.Round(float64(t.Attended)*1000/float64(sessions)) / 10
		}
		s.Participants = append(s.Participants, t)
	}
	return s
}

// Report writes attendance summaries in format f. XLSX is not supported.
func Report(w io.Writer, f Format, sums []Summary) error {
	switch f {
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(sums)
	case CSV:
		bw := bufio.NewWriter(w)
		fmt.Fprintln(bw, "group,name,attended,sessions,percent")
		for _, s := range sums {
			for _, t := range s.Participants {
				fmt.Fprintf(bw, "%s,%s,%d,%d,%.1f\n",
					csvEscape(s.Group), csvEscape(t.Name), t.Attended, t.Sessions, t.Percent)
			}
		}
		return bw.Flush()
	case Markdown:
		bw := bufio.NewWriter(w)
		for i, s := range sums {
			if i > 0 {
				fmt.Fprintln(bw)
			}
			fmt.Fprintf(bw, "Group %s (%d sessions)\n", s.Group, s.Sessions)
			fmt.Fprintln(bw, "--------------------------------")
			for _, t := range s.Participants {
				fmt.Fprintf(bw, "%-30s%3d/%-3d %6.1f%%\n", t.Name, t.Attended, t.Sessions, t.Percent)
			}
		}
		return bw.Flush()
	}
	return fmt.Errorf("%w %q for reports: use csv, json or md", ErrUnsupportedFormat, f)
}
