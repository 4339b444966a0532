package attendance

import "time"

// Default timestamp layouts, tried in order.
const (
	DayFirstLayout = "2.1.2006, 15:04:05"
	USLayout       = "1/2/2006, 3:04:05 PM"
)

// ListColumns locates the fields of an attendance list.
type ListColumns struct {
	Name           int
	TimeMark       int
	TimeMarkHeader string
}

// ReportColumns locates the fields of an attendance report table.
type ReportColumns struct {
	// Count is the exact number of columns of a header or data row.
	Count         int
	Name          int
	JoinTime      int
	LeaveTime     int
	Role          int
	JoinHeader    string
	LeaveHeader   string
	RoleHeader    string
	OrganizerRole string
}

// Layout describes the export format of the installed Teams version.
// Column headers are localized by Teams, so all of them are configurable.
type Layout struct {
	NameHeader string
	List       ListColumns
	Report     ReportColumns
	Timestamps []string
	Location   *time.Location
}

// DefaultLayout matches an English Teams installation.
func DefaultLayout() Layout {
	return Layout{
		NameHeader: "Full Name",
		List: ListColumns{
			Name:           0,
			TimeMark:       2,
			TimeMarkHeader: "Timestamp",
		},
		Report: ReportColumns{
			Count:         7,
			Name:          0,
			JoinTime:      1,
			LeaveTime:     2,
			Role:          5,
			JoinHeader:    "Join Time",
			LeaveHeader:   "Leave Time",
			RoleHeader:    "Role",
			OrganizerRole: "Organizer",
		},
		Timestamps: []string{DayFirstLayout, USLayout},
		Location:   time.Local,
	}
}
