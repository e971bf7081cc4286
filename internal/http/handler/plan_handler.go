package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/forumdash/amo-analytics-api/internal/domain"
	"github.com/forumdash/amo-analytics-api/internal/service"
	"go.uber.org/zap"
)

// PlanManager stores plans and evaluates them
type PlanManager interface {
	Save(ctx context.Context, req *domain.SavePlanRequest) (*domain.Plan, error)
	Delete(ctx context.Context, managerID, startDate string) error
	Status(ctx context.Context, q service.PlanStatusQuery) ([]domain.PlanStatus, error)
}

type PlanHandler struct {
	planService PlanManager
	logger      *zap.Logger
}

func NewPlanHandler(planService PlanManager, logger *zap.Logger) *PlanHandler {
	return &PlanHandler{
		planService: planService,
		logger:      logger,
	}
}

// Save godoc
// @Summary Save a plan
// @Description Creates the plan or replaces the one with the same manager_id and start_date.
// @Tags Plans
// @Accept json
// @Produce json
// @Param request body domain.SavePlanRequest true "Plan"
// @Success 200 {object} domain.SuccessResponse
// @Failure 400 {object} domain.APIError
// @Failure 500 {object} domain.SuccessResponse
// @Router /plan/save [post]
func (h *PlanHandler) Save(w http.ResponseWriter, r *http.Request) {
	var req domain.SavePlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	if _, err := h.planService.Save(r.Context(), &req); err != nil {
		respondJSON(w, http.StatusInternalServerError, domain.SuccessResponse{Success: false, Error: err.Error()})
		return
	}

	respondJSON(w, http.StatusOK, domain.SuccessResponse{Success: true})
}

// Status godoc
// @Summary Plan progress
// @Description Every stored plan of the selected pipelines with the actual sales of its period.
// @Description from and to override the plan period.
// @Tags Plans
// @Produce json
// @Param pipeline_id query string false "Pipeline ids, comma separated"
// @Param from query int false "Period start"
// @Param to query int false "Period end"
// @Success 200 {array} domain.PlanStatus
// @Failure 500 {array} domain.PlanStatus
// @Router /plan/status [get]
func (h *PlanHandler) Status(w http.ResponseWriter, r *http.Request) {
	q := service.PlanStatusQuery{
		PipelineIDs: service.ParseIDList(r.URL.Query().Get("pipeline_id")),
		From:        optionalTimestamp(r, "from"),
		To:          optionalTimestamp(r, "to"),
	}

	statuses, err := h.planService.Status(r.Context(), q)
	if err != nil {
		h.logger.Error("failed to compute plan status", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, []domain.PlanStatus{})
		return
	}

	respondJSON(w, http.StatusOK, statuses)
}

// Delete godoc
// @Summary Delete a plan
// @Tags Plans
// @Produce json
// @Param manager_id query string true "Manager id, 0 for a pipeline plan"
// @Param start_date query string true "Start date, YYYY-MM-DD"
// @Success 200 {object} domain.SuccessResponse
// @Failure 400 {object} domain.APIError
// @Failure 500 {object} domain.SuccessResponse
// @Router /plan/delete [delete]
func (h *PlanHandler) Delete(w http.ResponseWriter, r *http.Request) {
	managerID := strings.TrimSpace(r.URL.Query().Get("manager_id"))
	startDate := r.URL.Query().Get("start_date")
	if managerID == "" || startDate == "" {
		respondWithError(w, http.StatusBadRequest, "manager_id and start_date are required")
		return
	}

	if err := h.planService.Delete(r.Context(), managerID, startDate); err != nil {
		respondJSON(w, http.StatusInternalServerError, domain.SuccessResponse{Success: false, Error: err.Error()})
		return
	}

	respondJSON(w, http.StatusOK, domain.SuccessResponse{Success: true})
}
