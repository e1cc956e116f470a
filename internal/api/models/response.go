package models

import (
	"time"

	"caiso-reports/internal/analysis"
)

// RunSummary is the JSON form of a pipeline run summary
type RunSummary struct {
	Pipeline   string       `json:"pipeline"`
	Periods    []PeriodInfo `json:"periods"`
	Succeeded  int          `json:"succeeded"`
	Warned     int          `json:"warned"`
	Failed     int          `json:"failed"`
	Records    int          `json:"records"`
	Started    time.Time    `json:"started"`
	Finished   time.Time    `json:"finished"`
	DurationMS int64        `json:"duration_ms"`
}

// PeriodInfo describes one fetched day or month
type PeriodInfo struct {
	Period   string   `json:"period"` // YYYY-MM-DD (UTC instant for OASIS windows)
	URL      string   `json:"url,omitempty"`
	Status   string   `json:"status"` // "success", "warning", "error"
	Records  int      `json:"records"`
	Warnings []string `json:"warnings,omitempty"`
	Error    string   `json:"error,omitempty"`
}

// Table is an accumulated report table
type Table struct {
	Header []string   `json:"header"`
	Rows   [][]string `json:"rows"`
}

// RenewablesResponse represents the response from a renewables pull
type RenewablesResponse struct {
	Summary       RunSummary `json:"summary"`
	Breakdown     Table      `json:"breakdown"`
	GenByResource Table      `json:"gen_by_resource"`
}

// Record represents one extracted market record
type Record struct {
	Label              string    `json:"label"`
	Value              float64   `json:"value"`
	IntervalIndex      float64   `json:"interval_index"`
	UTC                time.Time `json:"utc"`
	Local              time.Time `json:"local"`
	DST                bool      `json:"dst"`
	Frequency          string    `json:"freq"`
	Market             string    `json:"market"`
	BalancingAuthority string    `json:"ba_name"`
}

// OASISResponse represents the response from an OASIS pull
type OASISResponse struct {
	Summary RunSummary          `json:"summary"`
	Query   string              `json:"query"`
	Node    string              `json:"node,omitempty"`
	Records []Record            `json:"records"`
	Stats   analysis.PriceStats `json:"stats"`
}

// NodeInfo represents information about a pricing node
type NodeInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
