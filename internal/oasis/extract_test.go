package oasis

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"caiso-reports/internal/tz"
)

type row struct {
	item, start, value, num string
}

func reportXML(rows ...row) []byte {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	b.WriteString(`<OASISReport xmlns="http://www.caiso.com/soa/OASISReport_v1.xsd"><MessagePayload><RTO><NAME>CAISO</NAME><REPORT_ITEM>`)
	for _, r := range rows {
		fmt.Fprintf(&b, "<REPORT_DATA><DATA_ITEM>%s</DATA_ITEM><RESOURCE_NAME>MUSTANGS_2_B1</RESOURCE_NAME><OPR_DATE>2018-01-01</OPR_DATE><INTERVAL_NUM>%s</INTERVAL_NUM><INTERVAL_START_GMT>%s</INTERVAL_START_GMT><INTERVAL_END_GMT>x</INTERVAL_END_GMT><VALUE>%s</VALUE></REPORT_DATA>",
			r.item, r.num, r.start, r.value)
	}
	b.WriteString(`</REPORT_ITEM></RTO></MessagePayload></OASISReport>`)
	return []byte(b.String())
}

func mustNodes(t *testing.T, doc []byte) []ReportNode {
	t.Helper()
	nodes, err := DecodeReportNodes(doc)
	if err != nil {
		t.Fatalf("DecodeReportNodes error: %v", err)
	}
	return nodes
}

func TestDecodeReportNodesCaseInsensitive(t *testing.T) {
	doc := []byte(`<root><report_data><data_item>LMP_PRC</data_item><Interval_Start_GMT>2018-01-01T08:00:00-00:00</Interval_Start_GMT><value> 41.5 </value><interval_num>1</interval_num></report_data>` +
		`<REPORT_DATA><DATA_ITEM>LMP_PRC</DATA_ITEM></REPORT_DATA></root>`)
	nodes := mustNodes(t, doc)
	if len(nodes) != 2 {
		t.Fatalf("got %d nodes, want 2", len(nodes))
	}
	if v, ok := nodes[0].Field("VALUE"); !ok || v != "41.5" {
		t.Errorf("VALUE = %q, %v", v, ok)
	}
	if v, ok := nodes[0].Field("interval_start_gmt"); !ok || v != "2018-01-01T08:00:00-00:00" {
		t.Errorf("INTERVAL_START_GMT = %q, %v", v, ok)
	}
	if _, ok := nodes[1].Field(FieldValue); ok {
		t.Error("second node should have no VALUE")
	}
}

func TestDecodeReportNodesBadXML(t *testing.T) {
	for _, doc := range []string{
		"<a><REPORT_DATA><VALUE>1</VALUE></a>",
		"<a><REPORT_DATA><VALUE>1</VALUE>",
	} {
		if _, err := DecodeReportNodes([]byte(doc)); err == nil {
			t.Errorf("expected decode error for %q", doc)
		}
	}
}

func TestExtractSortedUnique(t *testing.T) {
	doc := reportXML(
		row{"LMP_PRC", "2018-01-01T10:00:00-00:00", "30.5", "3"},
		row{"LMP_PRC", "2018-01-01T08:00:00-00:00", "10.25", "1"},
		row{"LMP_CONG_PRC", "2018-01-01T08:00:00-00:00", "-1.0", "1"},
		row{"LMP_PRC", "2018-01-01T09:00:00-00:00", "20", "2"},
		row{"LMP_PRC", "2018-01-01T09:00:00-00:00", "99", "2"},
	)
	q, _ := Lookup(PRCLMP)
	ex := NewExtractor(tz.Must(tz.DefaultZone)).Extract(mustNodes(t, doc), q.MarketRunID, q.Frequency, q)

	if len(ex.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", ex.Errors)
	}
	if len(ex.Records) != 3 {
		t.Fatalf("got %d records, want 3", len(ex.Records))
	}
	for i := 1; i < len(ex.Records); i++ {
		if !ex.Records[i-1].UTC.Before(ex.Records[i].UTC) {
			t.Errorf("records not strictly ascending at %d", i)
		}
	}
	if ex.Shadowed != 1 {
		t.Errorf("Shadowed = %d, want 1", ex.Shadowed)
	}

	wantVals := []float64{10.25, 20, 30.5}
	for i, r := range ex.Records {
		if r.Value != wantVals[i] {
			t.Errorf("record %d value = %v, want %v", i, r.Value, wantVals[i])
		}
		if r.IntervalIndex != float64(i+1) {
			t.Errorf("record %d interval = %v", i, r.IntervalIndex)
		}
		if r.Label != "LMP" || r.Market != "DAM" || r.Frequency != "hourly" || r.BalancingAuthority != "CAISO" {
			t.Errorf("record %d metadata = %+v", i, r)
		}
	}

	first := ex.Records[0]
	if !first.UTC.Equal(time.Date(2018, 1, 1, 8, 0, 0, 0, time.UTC)) {
		t.Errorf("first UTC = %s", first.UTC)
	}
	if first.Local.Format("2006-01-02 15:04") != "2018-01-01 00:00" || first.DST {
		t.Errorf("first local = %s dst=%v", first.Local, first.DST)
	}
}

func TestExtractAncillaryMergesToOneRecord(t *testing.T) {
	ts := "2018-07-01T07:00:00-00:00"
	doc := reportXML(
		row{"RU_CLR_PRC", ts, "5.5", "1"},
		row{"RD_CLR_PRC", ts, "3.25", "1"},
		row{"SP_CLR_PRC", ts, "2", "1"},
		row{"NS_CLR_PRC", ts, "0.5", "1"},
	)
	q, _ := Lookup(PRCAS)
	ex := NewExtractor(tz.Must(tz.DefaultZone)).Extract(mustNodes(t, doc), q.MarketRunID, q.Frequency, q)

	if len(ex.Records) != 1 {
		t.Fatalf("got %d records, want 1", len(ex.Records))
	}
	r := ex.Records[0]
	if r.Value != 5.5 {
		t.Errorf("value = %v, want first item 5.5", r.Value)
	}
	if r.Label != ValueLabel {
		t.Errorf("label = %q, want %q", r.Label, ValueLabel)
	}
	if !r.DST {
		t.Error("July record should be flagged DST")
	}
	if ex.Shadowed != 3 {
		t.Errorf("Shadowed = %d, want 3", ex.Shadowed)
	}
}

func TestExtractSkipsBadNodes(t *testing.T) {
	doc := reportXML(
		row{"LMP_PRC", "not-a-time", "1", "1"},
		row{"LMP_PRC", "2018-01-01T08:00:00-00:00", "n/a", "1"},
		row{"LMP_PRC", "2018-01-01T09:00:00-00:00", "2", "two"},
		row{"LMP_PRC", "2018-01-01T10:00:00-00:00", "3", "3"},
	)
	doc = []byte(strings.Replace(string(doc), "</REPORT_ITEM>",
		"<REPORT_DATA><DATA_ITEM>LMP_PRC</DATA_ITEM><VALUE>4</VALUE><INTERVAL_NUM>4</INTERVAL_NUM></REPORT_DATA></REPORT_ITEM>", 1))

	q, _ := Lookup(PRCLMP)
	ex := NewExtractor(tz.Must(tz.DefaultZone)).Extract(mustNodes(t, doc), q.MarketRunID, q.Frequency, q)

	if len(ex.Records) != 1 || ex.Records[0].Value != 3 {
		t.Fatalf("records = %+v, want the single valid node", ex.Records)
	}
	wantFields := []string{FieldIntervalStartGMT, FieldValue, FieldIntervalNum, FieldIntervalStartGMT}
	if len(ex.Errors) != len(wantFields) {
		t.Fatalf("got %d errors, want %d: %v", len(ex.Errors), len(wantFields), ex.Errors)
	}
	for i, f := range wantFields {
		if ex.Errors[i].Field != f {
			t.Errorf("error %d field = %s, want %s", i, ex.Errors[i].Field, f)
		}
	}
}

func TestExtractMissingDataItemIsNodeError(t *testing.T) {
	doc := []byte(`<root>` +
		`<REPORT_DATA><INTERVAL_NUM>1</INTERVAL_NUM><INTERVAL_START_GMT>2018-01-01T08:00:00-00:00</INTERVAL_START_GMT><VALUE>9</VALUE></REPORT_DATA>` +
		`<REPORT_DATA><DATA_ITEM>LMP_PRC</DATA_ITEM><INTERVAL_NUM>2</INTERVAL_NUM><INTERVAL_START_GMT>2018-01-01T09:00:00-00:00</INTERVAL_START_GMT><VALUE>10</VALUE></REPORT_DATA>` +
		`</root>`)
	q, _ := Lookup(PRCLMP)
	ex := NewExtractor(tz.Must(tz.DefaultZone)).Extract(mustNodes(t, doc), q.MarketRunID, q.Frequency, q)

	if len(ex.Records) != 1 || ex.Records[0].Value != 10 {
		t.Errorf("records = %+v", ex.Records)
	}
	if len(ex.Errors) != 1 {
		t.Fatalf("got %d errors, want 1: %v", len(ex.Errors), ex.Errors)
	}
	if e := ex.Errors[0]; e.Index != 0 || e.Field != FieldDataItem || !errors.Is(e, errMissing) {
		t.Errorf("error = %v", e)
	}
}

func TestExtractNaiveTimestampsAcrossFallBack(t *testing.T) {
	doc := reportXML(
		row{"LMP_PRC", "2018-11-04T00:00:00", "1", "1"},
		row{"LMP_PRC", "2018-11-04T02:00:00", "3", "3"},
	)
	q, _ := Lookup(PRCLMP)
	ex := NewExtractor(tz.Must(tz.DefaultZone)).Extract(mustNodes(t, doc), q.MarketRunID, q.Frequency, q)
	if len(ex.Records) != 2 {
		t.Fatalf("got %d records", len(ex.Records))
	}
	if got := ex.Records[0].UTC.Format(time.RFC3339); got != "2018-11-04T07:00:00Z" {
		t.Errorf("midnight PDT = %s", got)
	}
	if got := ex.Records[1].UTC.Format(time.RFC3339); got != "2018-11-04T10:00:00Z" {
		t.Errorf("02:00 PST = %s", got)
	}
}
