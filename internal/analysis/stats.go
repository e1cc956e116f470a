package analysis

import (
	"math"
	"sort"
	"time"

	"caiso-reports/internal/model"
)

// PriceStats summarizes the values of one extracted price series.
type PriceStats struct {
	Label     string `json:"label"`
	Market    string `json:"market"`
	Frequency string `json:"frequency"`

	StartUTC time.Time `json:"start_utc"`
	EndUTC   time.Time `json:"end_utc"`

	Count int `json:"count"`

	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Mean float64 `json:"mean"`
	P05  float64 `json:"p05"`
	P95  float64 `json:"p95"`

	SpreadP95P05 float64 `json:"spread_p95_p05"`

	// MeanDailySpread averages max-min over local calendar days.
	MeanDailySpread float64 `json:"mean_daily_spread"`
	Days            int     `json:"days"`
}

// ComputeStats summarizes records, which must be sorted by UTC.
func ComputeStats(records []model.MarketRecord) PriceStats {
	s := PriceStats{}
	if len(records) == 0 {
		return s
	}
	s.Label = records[0].Label
	s.Market = records[0].Market
	s.Frequency = records[0].Frequency
	s.Count = len(records)
	s.StartUTC = records[0].UTC
	s.EndUTC = records[len(records)-1].UTC

	sum := 0.0
	minv := math.Inf(1)
	maxv := math.Inf(-1)
	vals := make([]float64, 0, len(records))
	for _, r := range records {
		v := r.Value
		vals = append(vals, v)
		sum += v
		if v < minv {
			minv = v
		}
		if v > maxv {
			maxv = v
		}
	}
	sort.Float64s(vals)
	s.Min = minv
	s.Max = maxv
	s.Mean = sum / float64(len(vals))
	s.P05 = percentileSorted(vals, 0.05)
	s.P95 = percentileSorted(vals, 0.95)
	s.SpreadP95P05 = s.P95 - s.P05

	s.MeanDailySpread, s.Days = meanDailySpread(records)
	return s
}

func percentileSorted(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	// Linear interpolation between order stats.
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// meanDailySpread groups by the local date of each record. Records are
// sorted, so days arrive contiguously.
func meanDailySpread(records []model.MarketRecord) (float64, int) {
	days := 0
	total := 0.0
	var cur string
	var lo, hi float64
	for i, r := range records {
		local := r.Local
		if local.IsZero() {
			local = r.UTC
		}
		d := local.Format("2006-01-02")
		if i == 0 || d != cur {
			if i > 0 {
				total += hi - lo
			}
			days++
			cur, lo, hi = d, r.Value, r.Value
			continue
		}
		lo = math.Min(lo, r.Value)
		hi = math.Max(hi, r.Value)
	}
	total += hi - lo
	return total / float64(days), days
}
