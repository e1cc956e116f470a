// Package pipeline drives the period-by-period pulls: fetch, unpack or
// parse, extract, accumulate.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"caiso-reports/internal/data"
	"caiso-reports/internal/metrics"
	"caiso-reports/internal/model"
	"caiso-reports/internal/tz"
)

// DefaultDelay is the pause between consecutive requests.
const DefaultDelay = 5 * time.Second

// RenewablesFetcher downloads one daily text report.
type RenewablesFetcher interface {
	FetchDailyRenewables(ctx context.Context, day time.Time) (*model.RawPeriodReport, error)
}

// OASISFetcher downloads one zipped OASIS response.
type OASISFetcher interface {
	FetchOASIS(ctx context.Context, p data.OASISParams) (*model.RawPeriodReport, error)
}

// ErrPeriodFailed is returned by a fail-fast run when a period fails.
var ErrPeriodFailed = errors.New("period failed")

// Runner executes the pulls strictly sequentially, one period at a time.
type Runner struct {
	Renewables RenewablesFetcher
	OASIS      OASISFetcher
	TZ         *tz.Normalizer

	// Delay is the pause between periods. Zero disables it.
	Delay time.Duration
	// FailFast stops a run at the first period with status error.
	FailFast bool
}

// New returns a runner fetching through client.
func New(client *data.Client, n *tz.Normalizer, delay time.Duration, failFast bool) *Runner {
	return &Runner{
		Renewables: client,
		OASIS:      client,
		TZ:         n,
		Delay:      delay,
		FailFast:   failFast,
	}
}

// pause waits for r.Delay or until ctx is done.
func (r *Runner) pause(ctx context.Context) error {
	if r.Delay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(r.Delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// record adds res to the summary and reports whether the run must stop.
func (r *Runner) record(ctx context.Context, summary *model.RunSummary, res model.PeriodResult) error {
	summary.Add(res)
	metrics.ObservePeriod(summary.Pipeline, string(res.Status), res.Records)

	switch res.Status {
	case model.PeriodError:
		log.Printf("[Pipeline] %s %s: error: %v", summary.Pipeline, res.Period.Format(tz.DateLayout), res.Err)
		if err := ctx.Err(); err != nil {
			return err
		}
		if r.FailFast {
			return fmt.Errorf("%w: %s: %w", ErrPeriodFailed, res.Period.Format(tz.DateLayout), res.Err)
		}
	case model.PeriodWarning:
		log.Printf("[Pipeline] %s %s: %d records, %d warnings", summary.Pipeline, res.Period.Format(tz.DateLayout), res.Records, len(res.Warnings))
		for _, w := range res.Warnings {
			log.Printf("[Pipeline]   warning: %s", w)
		}
	default:
		log.Printf("[Pipeline] %s %s: %d records", summary.Pipeline, res.Period.Format(tz.DateLayout), res.Records)
	}
	return nil
}

func (r *Runner) finish(summary *model.RunSummary) {
	summary.Finished = time.Now()
	log.Printf("[Pipeline] %s done: %d periods (%d ok, %d warning, %d error), %d records in %v",
		summary.Pipeline, len(summary.Periods), summary.Succeeded, summary.Warned, summary.Failed,
		summary.Records, summary.Finished.Sub(summary.Started).Round(time.Millisecond))
}

func statusFor(warnings []string) model.PeriodStatus {
	if len(warnings) > 0 {
		return model.PeriodWarning
	}
	return model.PeriodSuccess
}
