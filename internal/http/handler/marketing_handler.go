package handler

import (
	"context"
	"net/http"

	"github.com/forumdash/amo-analytics-api/internal/domain"
	"github.com/forumdash/amo-analytics-api/internal/service"
	"go.uber.org/zap"
)

// MarketingReporter computes the marketing breakdown
type MarketingReporter interface {
	Breakdown(ctx context.Context, q service.ReportQuery, statusType service.StatusType) *domain.MarketingBreakdown
}

type MarketingHandler struct {
	marketingService MarketingReporter
	logger           *zap.Logger
}

func NewMarketingHandler(marketingService MarketingReporter, logger *zap.Logger) *MarketingHandler {
	return &MarketingHandler{
		marketingService: marketingService,
		logger:           logger,
	}
}

// Analytics godoc
// @Summary Marketing breakdown
// @Description Lead counts by source, tariff, region, business type and employee count.
// @Tags Marketing
// @Produce json
// @Param pipeline_id query string false "Pipeline ids, comma separated"
// @Param manager_id query string false "Responsible user ids, comma separated"
// @Param from query int false "Window start"
// @Param to query int false "Window end"
// @Param status_type query string false "all, success, lost or realtime"
// @Param global_mode query string false "standard, launch or mixed"
// @Success 200 {object} domain.MarketingBreakdown
// @Router /marketing/analytics [get]
func (h *MarketingHandler) Analytics(w http.ResponseWriter, r *http.Request) {
	modeParam := "global_mode"
	if r.URL.Query().Get(modeParam) == "" {
		modeParam = "mode"
	}
	q := reportQuery(r, modeParam)
	statusType := service.ParseStatusType(r.URL.Query().Get("status_type"))

	respondJSON(w, http.StatusOK, h.marketingService.Breakdown(r.Context(), q, statusType))
}
