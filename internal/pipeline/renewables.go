package pipeline

import (
	"context"
	"fmt"
	"log"
	"time"

	"caiso-reports/internal/model"
	"caiso-reports/internal/renewables"
	"caiso-reports/internal/tz"
)

// PipelineRenewables labels Daily Renewables Watch runs.
const PipelineRenewables = "renewables"

// RenewablesResult is the output of RunRenewables.
type RenewablesResult struct {
	Summary       model.RunSummary
	Breakdown     model.Table
	GenByResource model.Table
}

// RunRenewables pulls one report per calendar day from start to end
// inclusive and concatenates both tables across days.
//
// The returned result is always non-nil. When the run stops early (context
// cancelled, or FailFast and a period failed) it holds the periods completed
// so far alongside the error.
func (r *Runner) RunRenewables(ctx context.Context, start, end time.Time) (*RenewablesResult, error) {
	if r.Renewables == nil {
		return nil, fmt.Errorf("renewables fetcher is nil")
	}
	if end.Before(start) {
		return nil, fmt.Errorf("end date %s is before start date %s", end.Format(tz.DateLayout), start.Format(tz.DateLayout))
	}

	days := tz.DayRange(start, end)
	log.Printf("[Pipeline] renewables: %d days from %s to %s", len(days), start.Format(tz.DateLayout), end.Format(tz.DateLayout))

	out := &RenewablesResult{Summary: model.RunSummary{Pipeline: PipelineRenewables, Started: time.Now()}}
	var breakdown, resource TableAccumulator
	defer func() {
		out.Breakdown = breakdown.Table()
		out.GenByResource = resource.Table()
	}()

	for i, day := range days {
		if i > 0 {
			if err := r.pause(ctx); err != nil {
				r.finish(&out.Summary)
				return out, err
			}
		}

		res := r.renewablesPeriod(ctx, day, &breakdown, &resource)
		if err := r.record(ctx, &out.Summary, res); err != nil {
			r.finish(&out.Summary)
			return out, err
		}
	}

	r.finish(&out.Summary)
	return out, nil
}

func (r *Runner) renewablesPeriod(ctx context.Context, day time.Time, breakdown, resource *TableAccumulator) model.PeriodResult {
	res := model.PeriodResult{Period: day}

	raw, err := r.Renewables.FetchDailyRenewables(ctx, day)
	if err != nil {
		res.Status = model.PeriodError
		res.Err = err
		return res
	}
	res.URL = raw.URL

	report, err := renewables.Parse(raw.Body)
	if err != nil {
		res.Status = model.PeriodWarning
		res.Warnings = []string{err.Error()}
		return res
	}

	res.Warnings = append(res.Warnings, report.Warnings...)
	if msg := breakdown.Add(report.Breakdown); msg != "" {
		res.Warnings = append(res.Warnings, "breakdown: "+msg)
	}
	if msg := resource.Add(report.GenByResource); msg != "" {
		res.Warnings = append(res.Warnings, "gen by resource: "+msg)
	}
	res.Records = len(report.Breakdown.Rows) + len(report.GenByResource.Rows)
	res.Status = statusFor(res.Warnings)
	return res
}
