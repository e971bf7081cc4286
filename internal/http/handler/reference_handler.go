package handler

import (
	"context"
	"net/http"

	"github.com/forumdash/amo-analytics-api/internal/domain"
	"go.uber.org/zap"
)

// ReferenceLister lists the dashboard filter options
type ReferenceLister interface {
	Pipelines(ctx context.Context) []domain.Reference
	Managers(ctx context.Context) []domain.Reference
}

type ReferenceHandler struct {
	referenceService ReferenceLister
	logger           *zap.Logger
}

func NewReferenceHandler(referenceService ReferenceLister, logger *zap.Logger) *ReferenceHandler {
	return &ReferenceHandler{
		referenceService: referenceService,
		logger:           logger,
	}
}

// Pipelines godoc
// @Summary List pipelines
// @Tags Reference
// @Produce json
// @Success 200 {array} domain.Reference
// @Router /pipelines [get]
func (h *ReferenceHandler) Pipelines(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.referenceService.Pipelines(r.Context()))
}

// Managers godoc
// @Summary List managers
// @Tags Reference
// @Produce json
// @Success 200 {array} domain.Reference
// @Router /managers [get]
func (h *ReferenceHandler) Managers(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.referenceService.Managers(r.Context()))
}
