package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"caiso-reports/internal/archive"
	"caiso-reports/internal/data"
	"caiso-reports/internal/model"
	"caiso-reports/internal/oasis"
	"caiso-reports/internal/tz"
)

// PipelineOASIS labels OASIS price runs.
const PipelineOASIS = "oasis"

// OASISRequest selects an OASIS pull over the calendar days Start..End.
type OASISRequest struct {
	Query oasis.Query
	Node  string
	Start time.Time
	End   time.Time
}

// OASISResult is the output of RunOASIS.
type OASISResult struct {
	Summary model.RunSummary
	Query   oasis.Query
	Node    string
	Records []model.MarketRecord
}

// RunOASIS pulls one SingleZip response per calendar month and
// concatenates the extracted records in month order.
//
// As with RunRenewables the result is non-nil whenever the request itself
// was valid.
func (r *Runner) RunOASIS(ctx context.Context, req OASISRequest) (*OASISResult, error) {
	if r.OASIS == nil {
		return nil, fmt.Errorf("oasis fetcher is nil")
	}
	if r.TZ == nil {
		return nil, fmt.Errorf("timezone normalizer is nil")
	}
	if req.Query.Name == "" {
		return nil, fmt.Errorf("query is required")
	}
	if !req.Query.Ancillary() && req.Node == "" {
		return nil, fmt.Errorf("node is required for %s", req.Query.Name)
	}
	if req.End.Before(req.Start) {
		return nil, fmt.Errorf("end date %s is before start date %s", req.End.Format(tz.DateLayout), req.Start.Format(tz.DateLayout))
	}

	windows := r.TZ.MonthWindows(req.Start, req.End)
	log.Printf("[Pipeline] oasis: %s node=%q, %d monthly requests", req.Query.Name, req.Node, len(windows))

	out := &OASISResult{
		Summary: model.RunSummary{Pipeline: PipelineOASIS, Started: time.Now()},
		Query:   req.Query,
		Node:    req.Node,
	}
	var records Accumulator[model.MarketRecord]
	defer func() { out.Records = records.Rows() }()

	extractor := oasis.NewExtractor(r.TZ)
	for i, w := range windows {
		if i > 0 {
			if err := r.pause(ctx); err != nil {
				r.finish(&out.Summary)
				return out, err
			}
		}

		res := r.oasisPeriod(ctx, extractor, req, w, &records)
		if err := r.record(ctx, &out.Summary, res); err != nil {
			r.finish(&out.Summary)
			return out, err
		}
	}

	r.finish(&out.Summary)
	return out, nil
}

func (r *Runner) oasisPeriod(ctx context.Context, ex *oasis.Extractor, req OASISRequest, w tz.Window, records *Accumulator[model.MarketRecord]) model.PeriodResult {
	res := model.PeriodResult{Period: w.Start}

	raw, err := r.OASIS.FetchOASIS(ctx, data.OASISParams{Query: req.Query, Node: req.Node, Window: w})
	if err != nil {
		res.Status = model.PeriodError
		res.Err = err
		return res
	}
	res.URL = raw.URL

	members, err := archive.Unzip(raw.Body)
	if err != nil {
		msg := err.Error()
		var ae *archive.Error
		if errors.As(err, &ae) {
			msg = fmt.Sprintf("skipped unreadable archive (%d bytes): %v", ae.Size, ae.Err)
		}
		res.Warnings = append(res.Warnings, msg)
		res.Status = model.PeriodWarning
		return res
	}

	var nodes []oasis.ReportNode
	for i, m := range members {
		// Nodes decoded before a syntax error are still usable.
		decoded, err := oasis.DecodeReportNodes(m)
		nodes = append(nodes, decoded...)
		if err != nil {
			res.Warnings = append(res.Warnings, fmt.Sprintf("archive member %d: %v", i, err))
		}
	}

	extraction := ex.Extract(nodes, req.Query.MarketRunID, req.Query.Frequency, req.Query)
	for _, ne := range extraction.Errors {
		res.Warnings = append(res.Warnings, ne.Error())
	}
	if extraction.Shadowed > 0 {
		log.Printf("[Pipeline] oasis %s: %d samples shared a timestamp with an earlier one", w.Start.Format(tz.DateLayout), extraction.Shadowed)
	}
	records.Add(extraction.Records...)
	res.Records = len(extraction.Records)
	res.Status = statusFor(res.Warnings)
	return res
}
