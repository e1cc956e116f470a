package oasis

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Field names inside a REPORT_DATA element.
const (
	FieldDataItem         = "DATA_ITEM"
	FieldIntervalStartGMT = "INTERVAL_START_GMT"
	FieldValue            = "VALUE"
	FieldIntervalNum      = "INTERVAL_NUM"
)

const reportDataElement = "REPORT_DATA"

// ReportNode is one REPORT_DATA element. Field names are stored upper-cased.
type ReportNode struct {
	Fields map[string]string
}

// Field returns the trimmed text of the named child, matched case-insensitively.
func (n ReportNode) Field(name string) (string, bool) {
	v, ok := n.Fields[strings.ToUpper(name)]
	return strings.TrimSpace(v), ok
}

type rawChild struct {
	XMLName xml.Name
	Text    string `xml:",chardata"`
}

type rawReportData struct {
	Children []rawChild `xml:",any"`
}

// DecodeReportNodes returns every REPORT_DATA element in doc, in document
// order, wherever it is nested and however it is cased.
func DecodeReportNodes(doc []byte) ([]ReportNode, error) {
	d := xml.NewDecoder(bytes.NewReader(doc))

	var nodes []ReportNode
	for {
		tok, err := d.Token()
		if errors.Is(err, io.EOF) {
			return nodes, nil
		}
		if err != nil {
			return nodes, fmt.Errorf("decode report xml: %w", err)
		}
		se, ok := tok.(xml.StartElement)
		if !ok || !strings.EqualFold(se.Name.Local, reportDataElement) {
			continue
		}
		var raw rawReportData
		if err := d.DecodeElement(&raw, &se); err != nil {
			return nodes, fmt.Errorf("decode %s: %w", se.Name.Local, err)
		}
		n := ReportNode{Fields: make(map[string]string, len(raw.Children))}
		for _, c := range raw.Children {
			key := strings.ToUpper(c.XMLName.Local)
			if _, dup := n.Fields[key]; !dup {
				n.Fields[key] = c.Text
			}
		}
		nodes = append(nodes, n)
	}
}
