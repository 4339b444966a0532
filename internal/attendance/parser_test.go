package attendance_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/unicode"

	"github.com/Tiliavir/class-attendance/internal/attendance"
)

// utf16 encodes tab separated rows the way Teams writes them.
func utf16(t *testing.T, rows ...[]string) []byte {
	t.Helper()
	var lines []string
	for _, r := range rows {
		lines = append(lines, strings.Join(r, "\t"))
	}
	enc := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder()
	out, err := enc.String(strings.Join(lines, "\r\n") + "\r\n")
	require.NoError(t, err)
	return []byte(out)
}

func newParser() *attendance.Parser {
	layout := attendance.DefaultLayout()
	layout.Location = time.UTC
	return attendance.NewParser(layout)
}

var listHeader = []string{"Full Name", "User Action", "Timestamp"}

func TestReadList(t *testing.T) {
	data := utf16(t,
		listHeader,
		[]string{"Teacher", "Joined", "10.01.2024, 10:01:00"},
		[]string{"Anna Nowak", "Joined", "10.01.2024, 10:03:10"},
		[]string{"Jan Kowalski", "Joined", "1/10/2024, 10:05:00 AM"},
		[]string{"Anna Nowak", "Left", "10.01.2024, 10:40:00"},
		[]string{"Teacher", "Left", "10.01.2024, 10:50:00"},
		[]string{"Teacher", "Joined", "10.01.2024, 10:51:00"},
	)

	m, err := newParser().ReadList(bytes.NewReader(data), "list.csv")
	require.NoError(t, err)

	assert.Equal(t, "list.csv", m.Source)
	assert.Equal(t, time.Date(2024, 1, 10, 10, 1, 0, 0, time.UTC), m.Start)
	assert.Equal(t, int64(50*60), m.DurationSeconds)
	assert.Equal(t, []string{"Anna Nowak", "Jan Kowalski"}, m.Participants)
}

func TestReadListOrganizerIsFirstDataRow(t *testing.T) {
	// "Anna" appears once but is not first, "Teacher" is first and appears
	// twice: parity must be judged on the first row's name only.
	data := utf16(t,
		listHeader,
		[]string{"Teacher", "Joined", "10.01.2024, 10:00:00"},
		[]string{"Anna", "Joined", "10.01.2024, 10:01:00"},
		[]string{"Teacher", "Left", "10.01.2024, 10:02:00"},
	)
	_, err := newParser().ReadList(bytes.NewReader(data), "list.csv")
	assert.ErrorIs(t, err, attendance.ErrOrganizerParity)

	// Swapping the first row makes "Anna" the organizer.
	data = utf16(t,
		listHeader,
		[]string{"Anna", "Joined", "10.01.2024, 10:01:00"},
		[]string{"Teacher", "Joined", "10.01.2024, 10:00:00"},
		[]string{"Teacher", "Left", "10.01.2024, 10:02:00"},
	)
	m, err := newParser().ReadList(bytes.NewReader(data), "list.csv")
	require.NoError(t, err)
	assert.Equal(t, []string{"Teacher"}, m.Participants)
}

func TestReadListEvenOrganizerCountIsSkipped(t *testing.T) {
	data := utf16(t,
		listHeader,
		[]string{"Teacher", "Joined", "10.01.2024, 10:00:00"},
		[]string{"Anna", "Joined", "10.01.2024, 10:01:00"},
		[]string{"Teacher", "Left", "10.01.2024, 10:30:00"},
	)

	_, err := newParser().ReadList(bytes.NewReader(data), "list.csv")
	require.Error(t, err)
	assert.True(t, errors.Is(err, attendance.ErrOrganizerParity))

	var fe *attendance.FileError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "list.csv", fe.Path)
	assert.Contains(t, err.Error(), "list.csv")
}

func TestReadListErrors(t *testing.T) {
	tests := []struct {
		name string
		rows [][]string
		want error
	}{
		{
			name: "empty file",
			rows: nil,
			want: attendance.ErrHeaderNotFound,
		},
		{
			name: "wrong name header",
			rows: [][]string{{"Name", "User Action", "Timestamp"}},
			want: attendance.ErrHeaderMismatch,
		},
		{
			name: "wrong time header",
			rows: [][]string{{"Full Name", "User Action", "Time"}},
			want: attendance.ErrHeaderMismatch,
		},
		{
			name: "header only",
			rows: [][]string{listHeader},
			want: attendance.ErrOrganizerParity,
		},
		{
			name: "organizer only",
			rows: [][]string{listHeader, {"Teacher", "Joined", "10.01.2024, 10:00:00"}},
			want: attendance.ErrNoParticipants,
		},
		{
			name: "bad timestamp",
			rows: [][]string{listHeader, {"Teacher", "Joined", "2024-01-10 10:00"}},
			want: attendance.ErrBadTimestamp,
		},
		{
			name: "short row",
			rows: [][]string{listHeader, {"Teacher", "Joined", "10.01.2024, 10:00:00"}, {"Anna", "Joined"}},
			want: attendance.ErrShortRow,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var data []byte
			if tt.rows != nil {
				data = utf16(t, tt.rows...)
			}
			_, err := newParser().ReadList(bytes.NewReader(data), "list.csv")
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func reportRows() [][]string {
	return [][]string{
		{"Meeting Summary"},
		{"Total Number of Participants", "3"},
		{"Meeting Title", "Math"},
		{},
		{"Full Name", "Join Time", "Leave Time", "Duration", "Email", "Role", "Participant ID (UPN)"},
		{"Teacher", "10.01.2024, 09:58:00", "10.01.2024, 10:52:00", "54m", "t@x", "Organizer", "t@x"},
		{"Anna Nowak", "10.01.2024, 10:00:30", "10.01.2024, 10:45:00", "44m", "a@x", "Attendee", "a@x"},
		{"Jan Kowalski", "1/10/2024, 10:02:00 AM", "1/10/2024, 10:50:00 AM", "48m", "j@x", "Presenter", "j@x"},
		{"Anna Nowak", "10.01.2024, 10:46:00", "10.01.2024, 10:50:00", "4m", "a@x", "Attendee", "a@x"},
	}
}

func TestReadReport(t *testing.T) {
	data := utf16(t, reportRows()...)

	m, err := newParser().ReadReport(bytes.NewReader(data), "report.csv")
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, 1, 10, 9, 58, 0, 0, time.UTC), m.Start)
	assert.Equal(t, int64(54*60), m.DurationSeconds)
	assert.Equal(t, []string{"Anna Nowak", "Jan Kowalski"}, m.Participants)
}

func TestReadReportErrors(t *testing.T) {
	t.Run("header not found", func(t *testing.T) {
		data := utf16(t, []string{"Meeting Summary"}, []string{"a", "b", "c"})
		_, err := newParser().ReadReport(bytes.NewReader(data), "report.csv")
		assert.ErrorIs(t, err, attendance.ErrHeaderNotFound)
		assert.Contains(t, err.Error(), "apparently 3, expected 7")
	})

	t.Run("header mismatch", func(t *testing.T) {
		rows := reportRows()
		rows[4] = []string{"Full Name", "Joined", "Leave Time", "Duration", "Email", "Role", "ID"}
		_, err := newParser().ReadReport(bytes.NewReader(utf16(t, rows...)), "report.csv")
		assert.ErrorIs(t, err, attendance.ErrHeaderMismatch)
		assert.Contains(t, err.Error(), `"Join Time" expected and "Joined" encountered`)
	})

	t.Run("organizer only", func(t *testing.T) {
		rows := reportRows()[:6]
		_, err := newParser().ReadReport(bytes.NewReader(utf16(t, rows...)), "report.csv")
		assert.ErrorIs(t, err, attendance.ErrNoParticipants)
	})

	t.Run("bad leave time", func(t *testing.T) {
		rows := reportRows()
		rows[6][2] = "soon"
		_, err := newParser().ReadReport(bytes.NewReader(utf16(t, rows...)), "report.csv")
		assert.ErrorIs(t, err, attendance.ErrBadTimestamp)
		assert.Contains(t, err.Error(), "line 7")
	})
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	list := filepath.Join(dir, "meetingAttendanceList.csv")
	report := filepath.Join(dir, "meetingAttendanceReport.csv")
	require.NoError(t, os.WriteFile(list, utf16(t,
		listHeader,
		[]string{"Teacher", "Joined", "10.01.2024, 10:00:00"},
		[]string{"Anna", "Joined", "10.01.2024, 10:01:00"},
	), 0o600))
	require.NoError(t, os.WriteFile(report, utf16(t, reportRows()...), 0o600))

	p := newParser()
	m, err := p.ParseFile(list, attendance.KindList)
	require.NoError(t, err)
	assert.Equal(t, list, m.Source)
	assert.Equal(t, []string{"Anna"}, m.Participants)

	m, err = p.ParseFile(report, attendance.KindReport)
	require.NoError(t, err)
	assert.Len(t, m.Participants, 2)

	_, err = p.ParseFile(filepath.Join(dir, "missing.csv"), attendance.KindList)
	var fe *attendance.FileError
	assert.ErrorAs(t, err, &fe)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "list", attendance.KindList.String())
	assert.Equal(t, "report", attendance.KindReport.String())
	assert.Equal(t, "Kind(0)", attendance.Kind(0).String())
}
