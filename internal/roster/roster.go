// Package roster keeps the per-group attendance tables: one row per
// participant, one 0/1 column per meeting occurrence.
package roster

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"
	"sort"
	"strconv"
	"strings"
)

// ErrCorrupt is returned when a roster file cannot be interpreted.
var ErrCorrupt = errors.New("corrupt roster")

// Row is one participant's attendance. len(Marks) always equals the number
// of meeting columns of the owning Roster.
type Row struct {
	Name  string
	Marks []int
}

// Roster is an attendance table. Header[0] is the name column; every other
// header cell labels a meeting occurrence.
type Roster struct {
	Header []string
	Rows   []Row
}

// Sorter orders participant names. *collate.Collator implements it.
type Sorter interface {
	CompareString(a, b string) int
}

// New returns an empty roster with only the name column.
func New(nameHeader string) *Roster {
	return &Roster{Header: []string{nameHeader}}
}

// Columns returns the meeting column labels.
func (r *Roster) Columns() []string {
	return r.Header[1:]
}

// ColumnIndex returns the position of label within Columns, or -1.
func (r *Roster) ColumnIndex(label string) int {
	for i, c := range r.Columns() {
		if c == label {
			return i
		}
	}
	return -1
}

// Find returns the row of name, or nil.
func (r *Roster) Find(name string) *Row {
	for i := range r.Rows {
		if r.Rows[i].Name == name {
			return &r.Rows[i]
		}
	}
	return nil
}

// Clone returns a deep copy of r.
func (r *Roster) Clone() *Roster {
	out := &Roster{
		Header: slices.Clone(r.Header),
		Rows:   make([]Row, len(r.Rows)),
	}
	for i, row := range r.Rows {
		out.Rows[i] = Row{Name: row.Name, Marks: slices.Clone(row.Marks)}
	}
	return out
}

// Equal reports whether r and o hold the same header and rows in the same
// order.
func (r *Roster) Equal(o *Roster) bool {
	if !slices.Equal(r.Header, o.Header) || len(r.Rows) != len(o.Rows) {
		return false
	}
	for i := range r.Rows {
		if r.Rows[i].Name != o.Rows[i].Name || !slices.Equal(r.Rows[i].Marks, o.Rows[i].Marks) {
			return false
		}
	}
	return true
}

// Merge returns a copy of r with every participant marked present in
// column. Unknown participants are added as absent from all earlier
// meetings, a new column starts as absent for everyone, and a mark is
// never lowered. Rows are re-sorted with s only if a participant was added.
// r itself is left untouched.
func Merge(r *Roster, column string, participants []string, s Sorter) *Roster {
	out := r.Clone()

	index := make(map[string]int, len(out.Rows))
	for i, row := range out.Rows {
		index[row.Name] = i
	}

	resort := false
	for _, name := range participants {
		if _, ok := index[name]; ok {
			continue
		}
		out.Rows = append(out.Rows, Row{Name: name, Marks: make([]int, len(out.Header)-1)})
		index[name] = len(out.Rows) - 1
		resort = true
	}

	col := out.ColumnIndex(column)
	if col < 0 {
		out.Header = append(out.Header, column)
		for i := range out.Rows {
			out.Rows[i].Marks = append(out.Rows[i].Marks, 0)
		}
		col = len(out.Header) - 2
	}

	for _, name := range participants {
		out.Rows[index[name]].Marks[col] = 1
	}

	if resort {
		SortRows(out.Rows, s)
	}
	return out
}

// SortRows orders rows by name using s, falling back to byte order for
// names s considers equal. A nil s sorts by byte order only.
func SortRows(rows []Row, s Sorter) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i].Name, rows[j].Name
		if s != nil {
			if c := s.CompareString(a, b); c != 0 {
				return c < 0
			}
		}
		return a < b
	})
}

// Read parses a roster. An empty input yields New(nameHeader). Rows are
// padded with absences or cut to the header width, and duplicate names are
// folded into one row keeping the highest mark per column.
func Read(rd io.Reader, nameHeader string) (*Roster, error) {
	reader := csv.NewReader(rd)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if len(records) == 0 {
		return New(nameHeader), nil
	}

	r := &Roster{Header: records[0]}
	width := len(r.Header) - 1
	index := map[string]int{}
	for n, rec := range records[1:] {
		line := n + 2
		marks := make([]int, width)
		for k := 1; k < len(rec) && k <= width; k++ {
			v, err := parseMark(rec[k])
			if err != nil {
				return nil, fmt.Errorf("%w: line %d, column %q: %v", ErrCorrupt, line, r.Header[k], err)
			}
			marks[k-1] = v
		}

		name := rec[0]
		if i, ok := index[name]; ok {
			existing := r.Rows[i].Marks
			for k := range existing {
				existing[k] = max(existing[k], marks[k])
			}
			continue
		}
		index[name] = len(r.Rows)
		r.Rows = append(r.Rows, Row{Name: name, Marks: marks})
	}
	return r, nil
}

func parseMark(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil || (v != 0 && v != 1) {
		return 0, fmt.Errorf("expected 0 or 1 and found %q", s)
	}
	return v, nil
}

// Write encodes r as CSV.
func Write(w io.Writer, r *Roster) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(r.Header); err != nil {
		return err
	}
	rec := make([]string, len(r.Header))
	for _, row := range r.Rows {
		rec[0] = row.Name
		for k := 1; k < len(rec); k++ {
			v := 0
			if k-1 < len(row.Marks) {
				v = row.Marks[k-1]
			}
			rec[k] = strconv.Itoa(v)
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
