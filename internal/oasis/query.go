// Package oasis builds CAISO OASIS price queries and turns their XML
// responses into market records.
package oasis

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"caiso-reports/internal/tz"
)

// DefaultBaseURL is the OASIS API root.
const DefaultBaseURL = "http://oasis.caiso.com/oasisapi"

// Query names accepted by SingleZip.
const (
	PRCLMP      = "PRC_LMP"       // hourly day-ahead LMP
	PRCRTPDLMP  = "PRC_RTPD_LMP"  // 15-minute real-time pre-dispatch LMP
	PRCIntvlLMP = "PRC_INTVL_LMP" // 5-minute real-time LMP
	PRCAS       = "PRC_AS"        // hourly ancillary services regional shadow prices
)

// Query describes one OASIS query type.
type Query struct {
	Name        string   `json:"name"`
	MarketRunID string   `json:"market_run_id"`
	Frequency   string   `json:"frequency"`
	DataItems   []string `json:"data_items"`
	Description string   `json:"description"`
}

// Ancillary reports whether the query is the ancillary-services query,
// which is region-wide and takes no node.
func (q Query) Ancillary() bool { return q.Name == PRCAS }

// Matches reports whether item is one of the query's price components.
func (q Query) Matches(item string) bool {
	for _, d := range q.DataItems {
		if d == item {
			return true
		}
	}
	return false
}

var lmpItems = []string{"LMP_PRC"}

var queries = map[string]Query{
	PRCLMP: {
		Name: PRCLMP, MarketRunID: "DAM", Frequency: "hourly", DataItems: lmpItems,
		Description: "Hourly LMP for all PNodes and APNodes (DAM)",
	},
	PRCRTPDLMP: {
		Name: PRCRTPDLMP, MarketRunID: "RTPD", Frequency: "15-minute", DataItems: lmpItems,
		Description: "15-minute LMP for all PNodes and APNodes",
	},
	PRCIntvlLMP: {
		Name: PRCIntvlLMP, MarketRunID: "RTM", Frequency: "5-minute", DataItems: lmpItems,
		Description: "5-minute LMP for all PNodes and APNodes",
	},
	PRCAS: {
		Name: PRCAS, MarketRunID: "DAM", Frequency: "hourly",
		DataItems:   []string{"NS_CLR_PRC", "RD_CLR_PRC", "RU_CLR_PRC", "SP_CLR_PRC"},
		Description: "Ancillary Services regional shadow price for all AS types (hourly)",
	},
}

// Lookup returns the query with the given name.
func Lookup(name string) (Query, error) {
	q, ok := queries[strings.ToUpper(strings.TrimSpace(name))]
	if !ok {
		return Query{}, fmt.Errorf("unsupported queryname %q", name)
	}
	return q, nil
}

// Queries lists every supported query, sorted by name.
func Queries() []Query {
	out := make([]Query, 0, len(queries))
	for _, q := range queries {
		out = append(out, q)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// FormatDateTime renders t in the GMT form SingleZip expects,
// e.g. 20180101T08:00-0000.
func FormatDateTime(t time.Time) string {
	return t.UTC().Format("20060102T15:04") + "-0000"
}

// SingleZipURL builds the SingleZip request for one window.
// Parameter order follows the published OASIS examples.
func SingleZipURL(base string, q Query, node string, w tz.Window) string {
	if base == "" {
		base = DefaultBaseURL
	}
	var params [][2]string
	if q.Ancillary() {
		params = [][2]string{
			{"queryname", q.Name},
			{"market_run_id", q.MarketRunID},
			{"startdatetime", FormatDateTime(w.Start)},
			{"enddatetime", FormatDateTime(w.End)},
			{"version", "1"},
			{"anc_type", "ALL"},
			{"anc_region", "ALL"},
		}
	} else {
		params = [][2]string{
			{"queryname", q.Name},
			{"startdatetime", FormatDateTime(w.Start)},
			{"enddatetime", FormatDateTime(w.End)},
			{"version", "1"},
			{"market_run_id", q.MarketRunID},
			{"node", node},
		}
	}

	var b strings.Builder
	b.WriteString(strings.TrimRight(base, "/"))
	b.WriteString("/SingleZip?")
	for i, kv := range params {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(kv[0])
		b.WriteByte('=')
		b.WriteString(escapeValue(kv[1]))
	}
	return b.String()
}

// escapeValue query-escapes v but leaves ':' readable, as in the
// documented OASIS URLs.
func escapeValue(v string) string {
	return strings.ReplaceAll(url.QueryEscape(v), "%3A", ":")
}

// OutputName is the default file name for a pull, e.g.
// MUSTANGS_2_B1_DAM_PRC_LMP.csv.
func OutputName(q Query, node string) string {
	if q.Ancillary() || node == "" {
		return fmt.Sprintf("%s_%s.csv", q.MarketRunID, q.Name)
	}
	return fmt.Sprintf("%s_%s_%s.csv", node, q.MarketRunID, q.Name)
}
