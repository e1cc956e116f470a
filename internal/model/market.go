package model

import "time"

// BalancingAuthority is the grid operator label stamped on every market record.
const BalancingAuthority = "CAISO"

// RawPeriodReport is the unparsed body of one fetch period:
// one day for the renewables report, one month for an OASIS query.
type RawPeriodReport struct {
	Period time.Time
	URL    string
	Body   []byte
}

// MarketRecord is one OASIS price observation, keyed by its UTC interval start.
type MarketRecord struct {
	// Label names the value column. It is "LMP" for every query type,
	// including the ancillary-services clearing prices.
	Label         string
	Value         float64
	IntervalIndex float64

	UTC   time.Time
	Local time.Time
	DST   bool

	Frequency          string
	Market             string
	BalancingAuthority string
}
