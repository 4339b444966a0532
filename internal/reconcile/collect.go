package reconcile

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/Tiliavir/class-attendance/internal/attendance"
	"github.com/Tiliavir/class-attendance/internal/inbox"
	"github.com/Tiliavir/class-attendance/internal/logging"
	"github.com/Tiliavir/class-attendance/internal/model"
)

// Collect parses every discovered export. Files that cannot be parsed are
// reported to out and logged, and do not stop the batch; the number of such
// files is returned alongside the meetings.
func Collect(ctx context.Context, p *attendance.Parser, files []inbox.File, out io.Writer) ([]model.Meeting, int) {
	log := logging.FromContext(ctx)

	var (
		meetings []model.Meeting
		failed   int
	)
	for _, f := range files {
		m, err := p.ParseFile(f.Path, f.Kind)
		if err != nil {
			fmt.Fprintf(out, "  ! %v\n", err)
			log.Warn("skipped attendance file",
				slog.String("path", f.Path),
				slog.String("kind", f.Kind.String()),
				slog.String("reason", err.Error()))
			failed++
			continue
		}
		log.Debug("parsed attendance file",
			slog.String("path", f.Path),
			slog.Time("start", m.Start),
			slog.Int("participants", len(m.Participants)))
		meetings = append(meetings, m)
	}
	model.SortMeetings(meetings)
	return meetings, failed
}
