package renewables

import (
	"fmt"
	"strings"
	"testing"
)

func sampleReport(date string, rows int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\t\t\tHourly Breakdown of Renewable Resources (MW)\t\t\r\n", date)
	b.WriteString("\tHour\tGEOTHERMAL\tBIOMASS\tSOLAR PV\t\r\n")
	for h := 1; h <= rows; h++ {
		fmt.Fprintf(&b, "\t%d\t%d\t%d\t%d\t\r\n", h, 900+h, 300+h, 10*h)
	}
	b.WriteString("\t\t\t\t\r\n")
	b.WriteString(" \r\n")
	b.WriteString("\t\t\tHourly Breakdown of Total Production by Resource Type (MW)\r\n")
	b.WriteString("\tHour\tRENEWABLES\tNUCLEAR\tTHERMAL\tIMPORTS\tHYDRO\r\n")
	for h := 1; h <= rows; h++ {
		fmt.Fprintf(&b, "\t%d\t%d\t2200\t%d\t%d\t%d\r\n", h, 5000+h, 8000+h, 6000+h, 1500+h)
	}
	return b.String()
}

func TestParseTextTwoSections(t *testing.T) {
	r := ParseText(sampleReport("01/01/2018", 24))

	if r.Date != "01/01/2018" {
		t.Errorf("Date = %q, want 01/01/2018", r.Date)
	}
	if len(r.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", r.Warnings)
	}

	wantBreakdown := []string{"Date", "Hour", "GEOTHERMAL", "BIOMASS", "SOLAR PV"}
	if strings.Join(r.Breakdown.Header, "|") != strings.Join(wantBreakdown, "|") {
		t.Errorf("Breakdown header = %v, want %v", r.Breakdown.Header, wantBreakdown)
	}
	wantResource := []string{"Date", "Hour", "RENEWABLES", "NUCLEAR", "THERMAL", "IMPORTS", "HYDRO"}
	if strings.Join(r.GenByResource.Header, "|") != strings.Join(wantResource, "|") {
		t.Errorf("GenByResource header = %v, want %v", r.GenByResource.Header, wantResource)
	}

	for name, tbl := range map[string][][]string{"breakdown": r.Breakdown.Rows, "resource": r.GenByResource.Rows} {
		if len(tbl) != 24 {
			t.Fatalf("%s: got %d rows, want 24", name, len(tbl))
		}
		for i, row := range tbl {
			if row[0] != "01/01/2018" {
				t.Errorf("%s row %d date = %q", name, i, row[0])
			}
		}
	}
	for i, row := range r.Breakdown.Rows {
		if len(row) != len(r.Breakdown.Header) {
			t.Errorf("breakdown row %d has %d fields, header %d", i, len(row), len(r.Breakdown.Header))
		}
	}
	for i, row := range r.GenByResource.Rows {
		if len(row) != len(r.GenByResource.Header) {
			t.Errorf("resource row %d has %d fields, header %d", i, len(row), len(r.GenByResource.Header))
		}
	}

	if got := r.Breakdown.Rows[0]; strings.Join(got, ",") != "01/01/2018,1,901,301,10" {
		t.Errorf("first breakdown row = %v", got)
	}
}

func TestParseRunsThroughHTMLText(t *testing.T) {
	body := "<html><body><pre>" + sampleReport("02/05/2019", 3) + "</pre></body></html>"
	r, err := Parse([]byte(body))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if r.Date != "02/05/2019" {
		t.Errorf("Date = %q", r.Date)
	}
	if len(r.Breakdown.Rows) != 3 || len(r.GenByResource.Rows) != 3 {
		t.Errorf("rows = %d/%d, want 3/3", len(r.Breakdown.Rows), len(r.GenByResource.Rows))
	}
}

func TestParsePlainText(t *testing.T) {
	r, err := Parse([]byte(sampleReport("03/10/2018", 2)))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if len(r.Breakdown.Rows) != 2 || len(r.GenByResource.Rows) != 2 {
		t.Errorf("rows = %d/%d, want 2/2", len(r.Breakdown.Rows), len(r.GenByResource.Rows))
	}
}

func TestParseTextExtraSectionIsWarning(t *testing.T) {
	text := sampleReport("01/01/2018", 2) + "\n\t\tUnexpected Footer (MW)\n\t1\t2\t3\n"
	r := ParseText(text)

	if len(r.Breakdown.Rows) != 2 || len(r.GenByResource.Rows) != 2 {
		t.Errorf("rows = %d/%d, want 2/2", len(r.Breakdown.Rows), len(r.GenByResource.Rows))
	}
	if len(r.Warnings) != 2 {
		t.Errorf("expected 2 warnings (extra header + dropped row), got %v", r.Warnings)
	}
}

func TestParseTextMissingSecondSection(t *testing.T) {
	text := "01/01/2018\tHourly Breakdown (MW)\n\tHour\tSOLAR\n\t1\t5\n"
	r := ParseText(text)
	if len(r.Breakdown.Rows) != 1 {
		t.Errorf("breakdown rows = %d, want 1", len(r.Breakdown.Rows))
	}
	if !r.GenByResource.Empty() {
		t.Errorf("expected empty second table, got %+v", r.GenByResource)
	}
	if len(r.Warnings) != 1 {
		t.Errorf("expected one warning, got %v", r.Warnings)
	}
}

func TestParseTextNoHeaders(t *testing.T) {
	r := ParseText("Not Found\n")
	if !r.Breakdown.Empty() || !r.GenByResource.Empty() {
		t.Error("expected empty tables")
	}
	if len(r.Warnings) != 2 {
		t.Errorf("expected dropped-row and missing-header warnings, got %v", r.Warnings)
	}
}

func TestParseTextDropsEmptyMidRowField(t *testing.T) {
	// A blank cell collapses and the row comes up one field short.
	text := "01/01/2018\tA (MW)\n\tHour\tX\tY\n\t1\t\t7\n\t\tB (MW)\n\tHour\tZ\n\t1\t2\n"
	r := ParseText(text)
	if got := strings.Join(r.Breakdown.Rows[0], ","); got != "01/01/2018,1,7" {
		t.Errorf("row = %s, want 01/01/2018,1,7", got)
	}
	if len(r.Warnings) != 1 {
		t.Errorf("expected one length warning, got %v", r.Warnings)
	}
}

func TestRenameDateColumns(t *testing.T) {
	h := []string{"1/1/18", "Hour", "MW/h", "SOLAR"}
	renameDateColumns(h)
	want := []string{"Date", "Hour", "Date", "SOLAR"}
	for i := range want {
		if h[i] != want[i] {
			t.Errorf("header[%d] = %q, want %q", i, h[i], want[i])
		}
	}
}
