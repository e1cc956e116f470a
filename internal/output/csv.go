package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"caiso-reports/internal/metrics"
	"caiso-reports/internal/model"
)

// Sheet is one table ready for serialization. The first column of every
// written row is a zero-based row index with an empty header.
type Sheet struct {
	Name   string
	Header []string
	Rows   [][]string
}

// RecordColumns is the column order of market record output.
var RecordColumns = []string{
	"LMP",
	"Interval Index",
	"UTC timestamp",
	"Local timestamp",
	"DST",
	"freq",
	"market",
	"ba_name",
}

// TableSheet wraps a parsed report table.
func TableSheet(name string, t model.Table) Sheet {
	return Sheet{Name: name, Header: t.Header, Rows: t.Rows}
}

// RecordsSheet flattens market records in RecordColumns order.
func RecordsSheet(name string, records []model.MarketRecord) Sheet {
	header := append([]string(nil), RecordColumns...)
	if len(records) > 0 && records[0].Label != "" {
		header[0] = records[0].Label
	}
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			fmtFloat(r.Value),
			fmtFloat(r.IntervalIndex),
			fmtTime(r.UTC),
			fmtTime(r.Local),
			strconv.FormatBool(r.DST),
			r.Frequency,
			r.Market,
			r.BalancingAuthority,
		})
	}
	return Sheet{Name: name, Header: header, Rows: rows}
}

// Write serializes s to path, choosing the format from the extension:
// .xlsx writes a workbook, anything else CSV. Parent directories are created.
func Write(path string, s Sheet) error {
	format := "csv"
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		format = "xlsx"
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			metrics.ObserveExport(format, metrics.ResultError)
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	var err error
	if format == "xlsx" {
		err = WriteXLSX(path, s)
	} else {
		err = WriteCSV(path, s)
	}
	if err != nil {
		metrics.ObserveExport(format, metrics.ResultError)
		return err
	}
	metrics.ObserveExport(format, metrics.ResultSuccess)
	return nil
}

// WriteCSV writes s as comma-separated text.
func WriteCSV(path string, s Sheet) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := writeCSV(f, s); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}

func writeCSV(out io.Writer, s Sheet) error {
	w := csv.NewWriter(out)
	if err := w.Write(append([]string{""}, s.Header...)); err != nil {
		return err
	}
	for i, r := range s.Rows {
		row := append([]string{strconv.Itoa(i)}, r...)
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func fmtTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', -1, 64)
}
