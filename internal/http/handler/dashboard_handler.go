package handler

import (
	"context"
	"net/http"

	"github.com/forumdash/amo-analytics-api/internal/domain"
	"github.com/forumdash/amo-analytics-api/internal/service"
	"go.uber.org/zap"
)

// FunnelReporter builds the stage snapshot of a pipeline
type FunnelReporter interface {
	Funnel(ctx context.Context, pipelineIDs, managerIDs []int64) ([]domain.FunnelStage, error)
}

type DashboardHandler struct {
	funnelService FunnelReporter
	logger        *zap.Logger
}

func NewDashboardHandler(funnelService FunnelReporter, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{
		funnelService: funnelService,
		logger:        logger,
	}
}

// Funnel godoc
// @Summary Sales funnel
// @Description Current lead count per stage of the first selected pipeline, ordered by stage sort.
// @Description No date filter applies.
// @Tags Dashboard
// @Produce json
// @Param pipeline_id query string false "Pipeline ids, comma separated"
// @Param manager_id query string false "Responsible user ids, comma separated"
// @Success 200 {array} domain.FunnelStage
// @Failure 500 {array} domain.FunnelStage
// @Router /dashboard/funnel [get]
func (h *DashboardHandler) Funnel(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	pipelineIDs := service.ParseIDList(q.Get("pipeline_id"))
	managerIDs := service.ParseIDList(q.Get("manager_id"))

	stages, err := h.funnelService.Funnel(r.Context(), pipelineIDs, managerIDs)
	if err != nil {
		h.logger.Error("failed to build funnel",
			zap.Int64s("pipeline_ids", pipelineIDs),
			zap.Error(err),
		)
		respondJSON(w, http.StatusInternalServerError, []domain.FunnelStage{})
		return
	}

	respondJSON(w, http.StatusOK, stages)
}
