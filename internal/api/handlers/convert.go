package handlers

import (
	"caiso-reports/internal/api/models"
	"caiso-reports/internal/model"
	"caiso-reports/internal/tz"
)

func toSummary(s model.RunSummary) models.RunSummary {
	out := models.RunSummary{
		Pipeline:   s.Pipeline,
		Periods:    make([]models.PeriodInfo, 0, len(s.Periods)),
		Succeeded:  s.Succeeded,
		Warned:     s.Warned,
		Failed:     s.Failed,
		Records:    s.Records,
		Started:    s.Started,
		Finished:   s.Finished,
		DurationMS: s.Finished.Sub(s.Started).Milliseconds(),
	}
	for _, p := range s.Periods {
		info := models.PeriodInfo{
			Period:   p.Period.Format(tz.DateLayout),
			URL:      p.URL,
			Status:   string(p.Status),
			Records:  p.Records,
			Warnings: p.Warnings,
		}
		if p.Err != nil {
			info.Error = p.Err.Error()
		}
		out.Periods = append(out.Periods, info)
	}
	return out
}

func toTable(t model.Table) models.Table {
	out := models.Table{Header: t.Header, Rows: t.Rows}
	if out.Header == nil {
		out.Header = []string{}
	}
	if out.Rows == nil {
		out.Rows = [][]string{}
	}
	return out
}

func toRecords(records []model.MarketRecord) []models.Record {
	out := make([]models.Record, len(records))
	for i, r := range records {
		out[i] = models.Record{
			Label:              r.Label,
			Value:              r.Value,
			IntervalIndex:      r.IntervalIndex,
			UTC:                r.UTC,
			Local:              r.Local,
			DST:                r.DST,
			Frequency:          r.Frequency,
			Market:             r.Market,
			BalancingAuthority: r.BalancingAuthority,
		}
	}
	return out
}
