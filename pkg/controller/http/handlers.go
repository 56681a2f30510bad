package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pbl-lab/pblview/pkg/domain/model"
	"github.com/pbl-lab/pblview/pkg/service/export"
	"github.com/pbl-lab/pblview/pkg/usecase"
)

type reportHandler struct {
	report usecase.ReportGenerator
}

// periodFromQuery parses the required start and end query parameters.
func periodFromQuery(r *http.Request) (model.Period, error) {
	start := r.URL.Query().Get("start")
	end := r.URL.Query().Get("end")
	if start == "" || end == "" {
		return model.Period{}, goerr.Wrap(model.ErrInvalidPeriod,
			"start and end query parameters are required",
			goerr.V("start", start), goerr.V("end", end))
	}
	return model.ParsePeriod(start, end)
}

func (h *reportHandler) handleQuarters(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	period, err := periodFromQuery(r)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	quarters, err := h.report.Quarters(ctx, period)
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusOK, map[string]any{
		"period":   period,
		"quarters": quarters,
	})
}

func (h *reportHandler) handleIssues(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	period, err := periodFromQuery(r)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	scope, err := h.report.ScopedIssues(ctx, period)
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusOK, map[string]any{
		"period":   period,
		"issues":   scope.Filtered,
		"excluded": scope.Excluded,
		"warnings": scope.Warnings,
	})
}

func (h *reportHandler) handleBurnDown(w http.ResponseWriter, r *http.Request) {
	h.handleChart(w, r, model.ChartBurnDown)
}

func (h *reportHandler) handleBurnUp(w http.ResponseWriter, r *http.Request) {
	h.handleChart(w, r, model.ChartBurnUp)
}

func (h *reportHandler) handleChart(w http.ResponseWriter, r *http.Request, kind model.ChartKind) {
	ctx := r.Context()
	period, err := periodFromQuery(r)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	series, err := h.report.Generate(ctx, kind, period, r.URL.Query().Get("milestone"))
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusOK, series)
}

func (h *reportHandler) handleExport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	period, err := periodFromQuery(r)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	milestone := r.URL.Query().Get("milestone")
	scope, err := h.report.ScopedIssues(ctx, period)
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	burnDown, err := h.report.Generate(ctx, model.ChartBurnDown, period, milestone)
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	burnUp, err := h.report.Generate(ctx, model.ChartBurnUp, period, milestone)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	filename := fmt.Sprintf("report_%s_%s.xlsx",
		period.Start.Format(time.DateOnly), period.End.Format(time.DateOnly))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename=%q`, filename))
	if err := export.WriteWorkbook(w, scope, burnDown, burnUp); err != nil {
		respondError(ctx, w, err)
		return
	}
}
