package oasis

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"caiso-reports/internal/model"
	"caiso-reports/internal/tz"
)

// ValueLabel names the value column of every extracted record, including
// ancillary-services clearing prices.
const ValueLabel = "LMP"

// NodeError reports a REPORT_DATA element that could not be used: either
// it has no DATA_ITEM or it matched the query but a field is unusable.
type NodeError struct {
	Index int
	Field string
	Err   error
}

func (e *NodeError) Error() string {
	return fmt.Sprintf("report node %d: %s: %v", e.Index, e.Field, e.Err)
}

func (e *NodeError) Unwrap() error { return e.Err }

// Extraction is the result of one Extract call.
type Extraction struct {
	Records []model.MarketRecord
	// Errors holds one entry per node that was skipped.
	Errors []*NodeError
	// Shadowed counts samples that landed on an already-seen timestamp.
	// They are kept in the bucket but never emitted.
	Shadowed int
}

type sample struct {
	value         float64
	intervalIndex float64
}

// bucket holds every sample seen for one UTC timestamp. Only first is
// emitted; extra preserves later samples so the merge is observable.
type bucket struct {
	first sample
	extra []sample
}

// Extractor turns report nodes into market records.
type Extractor struct {
	TZ *tz.Normalizer
}

// NewExtractor returns an extractor normalizing timestamps with n.
func NewExtractor(n *tz.Normalizer) *Extractor {
	return &Extractor{TZ: n}
}

// Extract keeps the nodes whose DATA_ITEM belongs to q, groups them by UTC
// interval start and returns one record per timestamp in ascending order.
//
// When several matching items share a timestamp (the four ancillary-service
// components, or duplicate rows) the first one in document order wins.
func (e *Extractor) Extract(nodes []ReportNode, market, freq string, q Query) Extraction {
	var out Extraction
	buckets := make(map[time.Time]*bucket)

	for i, n := range nodes {
		item, ok := n.Field(FieldDataItem)
		if !ok {
			out.Errors = append(out.Errors, &NodeError{Index: i, Field: FieldDataItem, Err: errMissing})
			continue
		}
		if !q.Matches(item) {
			continue
		}
		ts, s, nerr := e.read(i, n)
		if nerr != nil {
			out.Errors = append(out.Errors, nerr)
			continue
		}
		if b, ok := buckets[ts]; ok {
			b.extra = append(b.extra, s)
			out.Shadowed++
			continue
		}
		buckets[ts] = &bucket{first: s}
	}

	keys := make([]time.Time, 0, len(buckets))
	for ts := range buckets {
		keys = append(keys, ts)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Before(keys[j]) })

	out.Records = make([]model.MarketRecord, 0, len(keys))
	for _, ts := range keys {
		b := buckets[ts]
		local, dst := e.TZ.FromUTC(ts)
		out.Records = append(out.Records, model.MarketRecord{
			Label:              ValueLabel,
			Value:              b.first.value,
			IntervalIndex:      b.first.intervalIndex,
			UTC:                ts,
			Local:              local,
			DST:                dst,
			Frequency:          freq,
			Market:             market,
			BalancingAuthority: model.BalancingAuthority,
		})
	}
	return out
}

func (e *Extractor) read(i int, n ReportNode) (time.Time, sample, *NodeError) {
	raw, ok := n.Field(FieldIntervalStartGMT)
	if !ok {
		return time.Time{}, sample{}, &NodeError{Index: i, Field: FieldIntervalStartGMT, Err: errMissing}
	}
	ts, err := e.TZ.ToUTC(raw, nil)
	if err != nil {
		return time.Time{}, sample{}, &NodeError{Index: i, Field: FieldIntervalStartGMT, Err: err}
	}
	val, err := floatField(n, FieldValue)
	if err != nil {
		return time.Time{}, sample{}, &NodeError{Index: i, Field: FieldValue, Err: err}
	}
	idx, err := floatField(n, FieldIntervalNum)
	if err != nil {
		return time.Time{}, sample{}, &NodeError{Index: i, Field: FieldIntervalNum, Err: err}
	}
	return ts, sample{value: val, intervalIndex: idx}, nil
}

var errMissing = errors.New("field missing")

func floatField(n ReportNode, name string) (float64, error) {
	raw, ok := n.Field(name)
	if !ok {
		return 0, errMissing
	}
	return strconv.ParseFloat(raw, 64)
}
