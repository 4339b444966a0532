// Package export renders rosters and attendance summaries for people and
// spreadsheets.
package export

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/Tiliavir/class-attendance/internal/roster"
)

// Format is an output format name as accepted on the command line.
type Format string

const (
	CSV      Format = "csv"
	JSON     Format = "json"
	Markdown Format = "md"
	XLSX     Format = "xlsx"
)

// ErrUnsupportedFormat is returned for a format the target cannot be written in.
var ErrUnsupportedFormat = errors.New("unsupported format")

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case CSV, JSON, Markdown, XLSX:
		return f, nil
	}
	return "", fmt.Errorf("%w %q: use csv, json, md or xlsx", ErrUnsupportedFormat, s)
}

type rosterDoc struct {
	Group        string           `json:"group"`
	Columns      []string         `json:"columns"`
	Participants []participantDoc `json:"participants"`
}

type participantDoc struct {
	Name  string `json:"name"`
	Marks []int  `json:"marks"`
}

// Roster writes r in format f. The CSV form is the roster file itself.
func Roster(w io.Writer, f Format, group string, r *roster.Roster) error {
	switch f {
	case CSV:
		return roster.Write(w, r)
	case JSON:
		doc := rosterDoc{
			Group:        group,
			Columns:      append([]string{}, r.Columns()...),
			Participants: make([]participantDoc, 0, len(r.Rows)),
		}
		for _, row := range r.Rows {
			doc.Participants = append(doc.Participants, participantDoc{
				Name:  row.Name,
				Marks: append([]int{}, row.Marks...),
			})
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case Markdown:
		return writeMarkdown(w, r)
	case XLSX:
		return writeXLSX(w, group, r)
	}
	return fmt.Errorf("%w %q", ErrUnsupportedFormat, f)
}

func writeMarkdown(w io.Writer, r *roster.Roster) error {
	bw := bufio.NewWriter(w)
	cells := make([]string, len(r.Header))
	for i, h := range r.Header {
		cells[i] = mdEscape(h)
	}
	fmt.Fprintf(bw, "| %s |\n", strings.Join(cells, " | "))
	fmt.Fprintf(bw, "|%s\n", strings.Repeat("---|", len(r.Header)))
	for _, row := range r.Rows {
		cells = cells[:0]
		cells = append(cells, mdEscape(row.Name))
		for _, m := range row.Marks {
			cells = append(cells, fmt.Sprint(m))
		}
		fmt.Fprintf(bw, "| %s |\n", strings.Join(cells, " | "))
	}
	return bw.Flush()
}

func mdEscape(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

// csvEscape wraps a field in quotes if it contains a comma, quote, or newline.
func csvEscape(s string) string {
	if !strings.ContainsAny(s, ",\"\n\r") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
