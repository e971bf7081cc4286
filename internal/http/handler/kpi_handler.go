package handler

import (
	"context"
	"net/http"

	"github.com/forumdash/amo-analytics-api/internal/domain"
	"github.com/forumdash/amo-analytics-api/internal/service"
	"go.uber.org/zap"
)

// KPIReporter computes the lead KPI summary
type KPIReporter interface {
	Summary(ctx context.Context, q service.ReportQuery) *domain.KPISummary
}

type KPIHandler struct {
	kpiService KPIReporter
	logger     *zap.Logger
}

func NewKPIHandler(kpiService KPIReporter, logger *zap.Logger) *KPIHandler {
	return &KPIHandler{
		kpiService: kpiService,
		logger:     logger,
	}
}

// Leads godoc
// @Summary Lead KPI summary
// @Description Totals, sales, losses, refunds, debt and conversion of the selected pipelines.
// @Description Without pipeline_id every counter is zero.
// @Tags KPI
// @Produce json
// @Param pipeline_id query string false "Pipeline ids, comma separated"
// @Param manager_id query string false "Responsible user ids, comma separated"
// @Param from query int false "Window start, epoch seconds or milliseconds"
// @Param to query int false "Window end, epoch seconds or milliseconds"
// @Param mode query string false "standard, launch or mixed"
// @Success 200 {object} domain.KPISummary
// @Router /kpi/leads [get]
func (h *KPIHandler) Leads(w http.ResponseWriter, r *http.Request) {
	summary := h.kpiService.Summary(r.Context(), reportQuery(r, "mode"))
	respondJSON(w, http.StatusOK, summary)
}
