package attendance

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/Tiliavir/class-attendance/internal/model"
)

// Kind identifies one of the two supported export shapes.
type Kind int

const (
	KindList Kind = iota + 1
	KindReport
)

func (k Kind) String() string {
	switch k {
	case KindList:
		return "list"
	case KindReport:
		return "report"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Parser turns attendance exports into meetings.
type Parser struct {
	layout Layout
}

// NewParser returns a Parser for exports in the given layout.
func NewParser(layout Layout) *Parser {
	if layout.Location == nil {
		layout.Location = time.Local
	}
	return &Parser{layout: layout}
}

// ParseFile parses the export at path according to kind.
func (p *Parser) ParseFile(path string, kind Kind) (model.Meeting, error) {
	switch kind {
	case KindList:
		return p.ParseList(path)
	case KindReport:
		return p.ParseReport(path)
	default:
		return model.Meeting{}, fileError(path, fmt.Errorf("unsupported export kind %v", kind))
	}
}

// ParseList parses an attendance list file.
func (p *Parser) ParseList(path string) (model.Meeting, error) {
	f, err := os.Open(path)
	if err != nil {
		return model.Meeting{}, fileError(path, err)
	}
	defer f.Close()
	return p.ReadList(f, path)
}

// ParseReport parses an attendance report file.
func (p *Parser) ParseReport(path string) (model.Meeting, error) {
	f, err := os.Open(path)
	if err != nil {
		return model.Meeting{}, fileError(path, err)
	}
	defer f.Close()
	return p.ReadReport(f, path)
}

// ReadList parses an attendance list from r. source names the input in
// errors and in the returned meeting.
//
// Precondition: the first data row belongs to the meeting organizer. Every
// row carrying that exact name is treated as the organizer, so a real
// participant with the same name as the organizer is not counted.
func (p *Parser) ReadList(r io.Reader, source string) (model.Meeting, error) {
	rows, err := readRows(r)
	if err != nil {
		return model.Meeting{}, fileError(source, err)
	}
	if len(rows) == 0 {
		return model.Meeting{}, fileError(source, fmt.Errorf("%w: the file is empty", ErrHeaderNotFound))
	}

	cols := p.layout.List
	if err := checkHeader(rows[0],
		column{cols.Name, p.layout.NameHeader},
		column{cols.TimeMark, cols.TimeMarkHeader},
	); err != nil {
		return model.Meeting{}, fileError(source, err)
	}

	data := rows[1:]
	if len(data) == 0 {
		return model.Meeting{}, fileError(source, ErrOrganizerParity)
	}
	width := max(cols.Name, cols.TimeMark) + 1
	if len(data[0]) < width {
		return model.Meeting{}, fileError(source, shortRow(2, len(data[0]), width))
	}
	organizer := data[0][cols.Name]

	var (
		times          []time.Time
		participants   = map[string]struct{}{}
		organizerCount int
	)
	for i, row := range data {
		line := i + 2
		if len(row) < width {
			return model.Meeting{}, fileError(source, shortRow(line, len(row), width))
		}
		ts, err := p.timestamp(row[cols.TimeMark], line)
		if err != nil {
			return model.Meeting{}, fileError(source, err)
		}
		times = append(times, ts)

		if name := row[cols.Name]; name == organizer {
			organizerCount++
		} else {
			participants[name] = struct{}{}
		}
	}

	if organizerCount%2 != 1 {
		return model.Meeting{}, fileError(source, fmt.Errorf("%w (%q appears %d times)", ErrOrganizerParity, organizer, organizerCount))
	}
	if len(participants) == 0 {
		return model.Meeting{}, fileError(source, fmt.Errorf("%w: the file lists only the organizer", ErrNoParticipants))
	}
	return newMeeting(source, times, participants), nil
}

// ReadReport parses an attendance report from r.
func (p *Parser) ReadReport(r io.Reader, source string) (model.Meeting, error) {
	rows, err := readRows(r)
	if err != nil {
		return model.Meeting{}, fileError(source, err)
	}

	cols := p.layout.Report
	var (
		times        []time.Time
		participants = map[string]struct{}{}
		headerSeen   bool
		lastWidth    int
	)
	for i, row := range rows {
		line := i + 1
		lastWidth = len(row)
		if len(row) != cols.Count {
			continue
		}
		if !headerSeen {
			headerSeen = true
			if err := checkHeader(row,
				column{cols.Name, p.layout.NameHeader},
				column{cols.JoinTime, cols.JoinHeader},
				column{cols.LeaveTime, cols.LeaveHeader},
				column{cols.Role, cols.RoleHeader},
			); err != nil {
				return model.Meeting{}, fileError(source, err)
			}
			continue
		}

		join, err := p.timestamp(row[cols.JoinTime], line)
		if err != nil {
			return model.Meeting{}, fileError(source, err)
		}
		leave, err := p.timestamp(row[cols.LeaveTime], line)
		if err != nil {
			return model.Meeting{}, fileError(source, err)
		}
		times = append(times, join, leave)

		if row[cols.Role] != cols.OrganizerRole {
			participants[row[cols.Name]] = struct{}{}
		}
	}

	if !headerSeen {
		return model.Meeting{}, fileError(source, fmt.Errorf("%w: the number of data columns is apparently %d, expected %d", ErrHeaderNotFound, lastWidth, cols.Count))
	}
	if len(participants) == 0 {
		return model.Meeting{}, fileError(source, fmt.Errorf("%w in the report", ErrNoParticipants))
	}
	return newMeeting(source, times, participants), nil
}

func (p *Parser) timestamp(value string, line int) (time.Time, error) {
	t, err := ParseTimestamp(value, p.layout.Timestamps, p.layout.Location)
	if err != nil {
		return time.Time{}, fmt.Errorf("line %d: %w", line, err)
	}
	return t, nil
}

// readRows decodes UTF-16 (BOM aware, little endian by default) tab
// separated rows.
func readRows(r io.Reader) ([][]string, error) {
	decoded := transform.NewReader(r, unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder())
	reader := csv.NewReader(decoded)
	reader.Comma = '\t'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("decoding export: %w", err)
	}
	return rows, nil
}

type column struct {
	index  int
	header string
}

func checkHeader(row []string, cols ...column) error {
	for _, c := range cols {
		got := ""
		if c.index < len(row) {
			got = row[c.index]
		}
		if got != c.header {
			return fmt.Errorf("%w: column header %q expected and %q encountered", ErrHeaderMismatch, c.header, got)
		}
	}
	return nil
}

func shortRow(line, got, want int) error {
	return fmt.Errorf("line %d: %w (%d, expected at least %d)", line, ErrShortRow, got, want)
}

func newMeeting(source string, times []time.Time, participants map[string]struct{}) model.Meeting {
	first, last := times[0], times[0]
	for _, t := range times[1:] {
		if t.Before(first) {
			first = t
		}
		if t.After(last) {
			last = t
		}
	}
	return model.Meeting{
		Source:          source,
		Start:           first,
		DurationSeconds: int64(last.Sub(first) / time.Second),
		Participants:    model.NewParticipantSet(participants),
	}
}
