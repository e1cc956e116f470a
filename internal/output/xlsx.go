package output

import (
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"
)

const maxSheetName = 31

// WriteXLSX writes each sheet to its own worksheet of a new workbook.
// Numeric-looking cells are stored as numbers.
func WriteXLSX(path string, sheets ...Sheet) error {
	f := excelize.NewFile()
	defer f.Close()

	for i, s := range sheets {
		name := sheetName(s.Name, i)
		if i == 0 {
			if err := f.SetSheetName("Sheet1", name); err != nil {
				return err
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return err
		}

		header := append([]any{""}, toAny(s.Header)...)
		if err := f.SetSheetRow(name, "A1", &header); err != nil {
			return err
		}
		for r, row := range s.Rows {
			cells := make([]any, 0, len(row)+1)
			cells = append(cells, r)
			for _, v := range row {
				cells = append(cells, cellValue(v))
			}
			cell, err := excelize.CoordinatesToCellName(1, r+2)
			if err != nil {
				return err
			}
			if err := f.SetSheetRow(name, cell, &cells); err != nil {
				return err
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

func sheetName(name string, i int) string {
	if name == "" {
		name = fmt.Sprintf("Sheet%d", i+1)
	}
	if len(name) > maxSheetName {
		name = name[:maxSheetName]
	}
	return name
}

func toAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

func cellValue(v string) any {
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return f
	}
	return v
}
