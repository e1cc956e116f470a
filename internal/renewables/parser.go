// Package renewables parses the CAISO Daily Renewables Watch text report.
//
// A report is a tab-delimited text file with two sections. Each section starts
// with a title line containing a parenthesis, e.g.
//
//	01/01/18	Hourly Breakdown of Renewable Resources (MW)
//
// followed by a column header row and 24 hourly data rows. The first section
// is the breakdown by fuel type, the second the generation by resource type.
package renewables

import (
	"bytes"
	"fmt"
	"strings"

	"caiso-reports/internal/model"

	"github.com/PuerkitoBio/goquery"
)

// DateColumn replaces any column name containing a slash.
const DateColumn = "Date"

type state int

const (
	stateStart state = iota
	stateAwaitingHeader1
	stateInTable1
	stateAwaitingHeader2
	stateInTable2
	stateOverflow
)

// Parse extracts the text content of body and parses it.
// The served file is run through an HTML parser first so that any markup
// wrapped around the report never reaches the line scanner.
func Parse(body []byte) (*model.RenewablesReport, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("read report body: %w", err)
	}
	return ParseText(doc.Text()), nil
}

// ParseText splits a report into its two tables.
//
// Empty fields are dropped from every row before it is stored, so a row with
// a genuinely empty cell in the middle shifts left by one column. Such rows
// are kept and reported in Warnings.
func ParseText(text string) *model.RenewablesReport {
	p := &parser{}
	st := stateStart
	for i, line := range strings.Split(text, "\n") {
		st = p.scan(st, i+1, strings.TrimRight(line, "\r"))
	}
	return p.finish(st)
}

type parser struct {
	date     string
	tables   [2]model.Table
	warnings []string
}

// scan consumes one line and returns the next state.
func (p *parser) scan(st state, lineNo int, line string) state {
	if strings.Contains(line, "(") {
		switch st {
		case stateStart:
			p.date = strings.TrimSpace(strings.SplitN(line, "\t", 2)[0])
			return stateAwaitingHeader1
		case stateAwaitingHeader1, stateInTable1:
			return stateAwaitingHeader2
		default:
			p.warnf("line %d: unexpected section header %q", lineNo, strings.TrimSpace(line))
			return stateOverflow
		}
	}

	if strings.TrimSpace(line) == "" {
		return st
	}

	row := p.row(line)
	switch st {
	case stateStart:
		p.warnf("line %d: row before first section header dropped", lineNo)
		return st
	case stateAwaitingHeader1:
		p.tables[0].Header = row
		return stateInTable1
	case stateInTable1:
		p.appendRow(0, lineNo, row)
		return st
	case stateAwaitingHeader2:
		p.tables[1].Header = row
		return stateInTable2
	case stateInTable2:
		p.appendRow(1, lineNo, row)
		return st
	default:
		p.warnf("line %d: row after extra section header dropped", lineNo)
		return st
	}
}

// row splits a data line on tabs, trims every field, prepends the report date
// and drops empty fields.
func (p *parser) row(line string) []string {
	parts := strings.Split(line, "\t")
	out := make([]string, 0, len(parts)+1)
	if p.date != "" {
		out = append(out, p.date)
	}
	for _, f := range parts {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

func (p *parser) appendRow(table, lineNo int, row []string) {
	t := &p.tables[table]
	if len(row) != len(t.Header) {
		p.warnf("line %d: table %d row has %d fields, header has %d", lineNo, table+1, len(row), len(t.Header))
	}
	t.Rows = append(t.Rows, row)
}

func (p *parser) finish(st state) *model.RenewablesReport {
	switch st {
	case stateStart:
		p.warnf("no section headers found")
	case stateAwaitingHeader1, stateInTable1:
		p.warnf("second section header missing")
	}
	for i := range p.tables {
		renameDateColumns(p.tables[i].Header)
	}
	return &model.RenewablesReport{
		Date:          p.date,
		Breakdown:     p.tables[0],
		GenByResource: p.tables[1],
		Warnings:      p.warnings,
	}
}

func (p *parser) warnf(format string, args ...any) {
	p.warnings = append(p.warnings, fmt.Sprintf(format, args...))
}

func renameDateColumns(header []string) {
	for i, name := range header {
		if strings.Contains(name, "/") {
			header[i] = DateColumn
		}
	}
}
