package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/Tiliavir/class-attendance/internal/roster"
)

const maxSheetName = 31

// SheetName turns a group name into a valid worksheet name.
func SheetName(group string) string {
	name := strings.Map(func(r rune) rune {
		if strings.ContainsRune(`:\/?*[]`, r) {
			return '_'
		}
		return r
	}, strings.Trim(group, "'"))
	if runes := []rune(name); len(runes) > maxSheetName {
		name = string(runes[:maxSheetName])
	}
	if name == "" {
		return "roster"
	}
	return name
}

// writeXLSX stores the roster in a single worksheet with a frozen header row
// and name column. Marks are numeric cells so they can be summed.
func writeXLSX(w io.Writer, group string, r *roster.Roster) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := SheetName(group)
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return fmt.Errorf("naming worksheet %q: %w", sheet, err)
	}

	header := make([]any, len(r.Header))
	for i, h := range r.Header {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, row := range r.Rows {
		cells := make([]any, 0, len(row.Marks)+1)
		cells = append(cells, row.Name)
		for _, m := range row.Marks {
			cells = append(cells, m)
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
			return fmt.Errorf("writing row for %s: %w", row.Name, err)
		}
	}

	if err := f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		XSplit:      1,
		YSplit:      1,
		TopLeftCell: "B2",
		ActivePane:  "bottomRight",
	}); err != nil {
		return fmt.Errorf("freezing header: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}
