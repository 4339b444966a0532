package export_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Tiliavir/class-attendance/internal/export"
	"github.com/Tiliavir/class-attendance/internal/roster"
)

func sample() *roster.Roster {
	return &roster.Roster{
		Header: []string{"Full Name", "2024-01-03", "2024-01-10"},
		Rows: []roster.Row{
			{Name: "A", Marks: []int{1, 1}},
			{Name: "C|D", Marks: []int{0, 1}},
		},
	}
}

func TestParseFormat(t *testing.T) {
	f, err := export.ParseFormat("XLSX")
	require.NoError(t, err)
	assert.Equal(t, export.XLSX, f)

	_, err = export.ParseFormat("pdf")
	assert.True(t, errors.Is(err, export.ErrUnsupportedFormat))
}

func TestRosterCSVIsRosterFile(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.Roster(&buf, export.CSV, "math", sample()))
	assert.Equal(t, "Full Name,2024-01-03,2024-01-10\nA,1,1\nC|D,0,1\n", buf.String())
}

func TestRosterJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.Roster(&buf, export.JSON, "math", sample()))

	var doc struct {
		Group        string   `json:"group"`
		Columns      []string `json:"columns"`
		Participants []struct {
			Name  string `json:"name"`
			Marks []int  `json:"marks"`
		} `json:"participants"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "math", doc.Group)
	assert.Equal(t, []string{"2024-01-03", "2024-01-10"}, doc.Columns)
	require.Len(t, doc.Participants, 2)
	assert.Equal(t, []int{0, 1}, doc.Participants[1].Marks)
}

func TestRosterJSONEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.Roster(&buf, export.JSON, "math", roster.New("Full Name")))
	assert.Contains(t, buf.String(), `"columns": []`)
	assert.Contains(t, buf.String(), `"participants": []`)
}

func TestRosterMarkdown(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.Roster(&buf, export.Markdown, "math", sample()))
	want := "| Full Name | 2024-01-03 | 2024-01-10 |\n" +
		"|---|---|---|\n" +
		"| A | 1 | 1 |\n" +
		"| C\\|D | 0 | 1 |\n"
	assert.Equal(t, want, buf.String())
}

func TestRosterXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.Roster(&buf, export.XLSX, "math", sample()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"math"}, f.GetSheetList())
	rows, err := f.GetRows("math")
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Full Name", "2024-01-03", "2024-01-10"},
		{"A", "1", "1"},
		{"C|D", "0", "1"},
	}, rows)
}

func TestSheetName(t *testing.T) {
	tests := map[string]string{
		"math":                               "math",
		"3a/3b":                              "3a_3b",
		"":                                   "roster",
		"a-very-long-group-name-beyond-limit": "a-very-long-group-name-beyond-l",
	}
	for in, want := range tests {
		assert.Equal(t, want, export.SheetName(in), in)
	}
}
