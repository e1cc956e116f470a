package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"caiso-reports/internal/analysis"
	"caiso-reports/internal/api/models"
	"caiso-reports/internal/config"
	"caiso-reports/internal/data"
	"caiso-reports/internal/oasis"
	"caiso-reports/internal/pipeline"
	"caiso-reports/internal/tz"

	"github.com/gin-gonic/gin"
)

// PullHandler runs report pulls on demand
type PullHandler struct {
	cfg config.Config
}

// NewPullHandler creates a pull handler using cfg for everything the
// request does not override
func NewPullHandler(cfg config.Config) *PullHandler {
	return &PullHandler{cfg: cfg}
}

// RunRenewables handles POST /api/v1/renewables
func (h *PullHandler) RunRenewables(c *gin.Context) {
	var req models.RenewablesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "INVALID_REQUEST", err)
		return
	}

	cfg := config.MergeOverrides(h.cfg, config.Config{
		Renewables: config.RenewablesConfig{StartDate: req.StartDate, EndDate: req.EndDate},
	})
	if err := applyDelay(&cfg, req.DelaySeconds); err != nil {
		badRequest(c, "INVALID_REQUEST", err)
		return
	}
	start, end, err := cfg.RenewablesRange()
	if err != nil {
		badRequest(c, "INVALID_DATE_RANGE", err)
		return
	}

	runner, err := h.runner(cfg)
	if err != nil {
		badRequest(c, "INVALID_CONFIG", err)
		return
	}

	log.Printf("[API] renewables pull %s..%s", req.StartDate, req.EndDate)
	res, err := runner.RunRenewables(c.Request.Context(), start, end)
	if err != nil {
		pullFailed(c, err)
		return
	}

	c.JSON(http.StatusOK, models.RenewablesResponse{
		Summary:       toSummary(res.Summary),
		Breakdown:     toTable(res.Breakdown),
		GenByResource: toTable(res.GenByResource),
	})
}

// RunOASIS handles POST /api/v1/oasis
func (h *PullHandler) RunOASIS(c *gin.Context) {
	var req models.OASISRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "INVALID_REQUEST", err)
		return
	}

	q, err := oasis.Lookup(req.Query)
	if err != nil {
		badRequest(c, "UNSUPPORTED_QUERY", err)
		return
	}
	if !q.Ancillary() && req.Node == "" {
		badRequest(c, "MISSING_PARAM", fmt.Errorf("node is required for %s", q.Name))
		return
	}

	cfg := config.MergeOverrides(h.cfg, config.Config{
		Timezone: req.Timezone,
		OASIS:    config.OASISConfig{Query: q.Name, Node: req.Node, StartDate: req.StartDate, EndDate: req.EndDate},
	})
	if err := applyDelay(&cfg, req.DelaySeconds); err != nil {
		badRequest(c, "INVALID_REQUEST", err)
		return
	}
	start, end, err := cfg.OASISRange()
	if err != nil {
		badRequest(c, "INVALID_DATE_RANGE", err)
		return
	}

	runner, err := h.runner(cfg)
	if err != nil {
		badRequest(c, "INVALID_CONFIG", err)
		return
	}

	log.Printf("[API] oasis pull %s node=%q %s..%s", q.Name, req.Node, req.StartDate, req.EndDate)
	res, err := runner.RunOASIS(c.Request.Context(), pipeline.OASISRequest{
		Query: q,
		Node:  req.Node,
		Start: start,
		End:   end,
	})
	if err != nil {
		pullFailed(c, err)
		return
	}

	c.JSON(http.StatusOK, models.OASISResponse{
		Summary: toSummary(res.Summary),
		Query:   q.Name,
		Node:    req.Node,
		Records: toRecords(res.Records),
		Stats:   analysis.ComputeStats(res.Records),
	})
}

func (h *PullHandler) runner(cfg config.Config) (*pipeline.Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	n, err := tz.New(cfg.Timezone)
	if err != nil {
		return nil, err
	}
	client := data.NewClient(cfg.Renewables.BaseURL, cfg.OASIS.BaseURL, cfg.HTTPTimeout)
	return pipeline.New(client, n, cfg.Delay, cfg.FailFast), nil
}

func applyDelay(cfg *config.Config, seconds *float64) error {
	if seconds == nil {
		return nil
	}
	if *seconds < 0 {
		return errors.New("delay_seconds must be >= 0")
	}
	cfg.Delay = time.Duration(*seconds * float64(time.Second))
	return nil
}

func badRequest(c *gin.Context, code string, err error) {
	c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    code,
			Message: err.Error(),
		},
	})
}

// pullFailed reports a run that stopped early: a fail-fast period error or
// a cancelled request.
func pullFailed(c *gin.Context, err error) {
	var ce *data.CAISOError
	if errors.As(err, &ce) {
		statusCode := http.StatusBadGateway
		if ce.StatusCode == http.StatusTooManyRequests {
			statusCode = http.StatusTooManyRequests
		}
		c.JSON(statusCode, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    ce.Code,
				Message: ce.Message,
				Details: map[string]interface{}{
					"status_code": ce.StatusCode,
					"url":         ce.URL,
				},
			},
		})
		return
	}
	c.JSON(http.StatusBadGateway, models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    "PULL_FAILED",
			Message: err.Error(),
		},
	})
}
