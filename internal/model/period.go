package model

import "time"

// PeriodStatus is the outcome of one fetch period.
// Keep these values stable; they are written to logs and API responses.
type PeriodStatus string

const (
	PeriodSuccess PeriodStatus = "success"
	PeriodWarning PeriodStatus = "warning"
	PeriodError   PeriodStatus = "error"
)

// PeriodResult records what happened while pulling one period.
type PeriodResult struct {
	Period   time.Time
	URL      string
	Status   PeriodStatus
	Records  int
	Warnings []string
	Err      error
}

// RunSummary aggregates the period results of one pipeline run.
type RunSummary struct {
	Pipeline string
	Periods  []PeriodResult

	Succeeded int
	Warned    int
	Failed    int
	Records   int

	Started  time.Time
	Finished time.Time
}

// Add appends a period result and updates the counters.
func (s *RunSummary) Add(r PeriodResult) {
	s.Periods = append(s.Periods, r)
	s.Records += r.Records
	switch r.Status {
	case PeriodSuccess:
		s.Succeeded++
	case PeriodWarning:
		s.Warned++
	case PeriodError:
		s.Failed++
	}
}
