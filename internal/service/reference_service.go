package service

import (
	"context"

	"github.com/forumdash/amo-analytics-api/internal/domain"
	"github.com/forumdash/amo-analytics-api/internal/mapper"
	"go.uber.org/zap"
)

// ReferenceService lists pipelines and managers for the dashboard filters.
// Upstream failures yield an empty list.
type ReferenceService struct {
	source LeadSource
	logger *zap.Logger
}

func NewReferenceService(source LeadSource, logger *zap.Logger) *ReferenceService {
	return &ReferenceService{
		source: source,
		logger: logger,
	}
}

func (s *ReferenceService) Pipelines(ctx context.Context) []domain.Reference {
	pipelines, err := s.source.ListPipelines(ctx)
	if err != nil {
		s.logger.Warn("failed to list pipelines", zap.Error(err))
		return []domain.Reference{}
	}

	out := make([]domain.Reference, 0, len(pipelines))
	for i := range pipelines {
		out = append(out, mapper.ToPipelineReference(&pipelines[i]))
	}
	return out
}

func (s *ReferenceService) Managers(ctx context.Context) []domain.Reference {
	users, err := s.source.ListUsers(ctx)
	if err != nil {
		s.logger.Warn("failed to list managers", zap.Error(err))
		return []domain.Reference{}
	}

	out := make([]domain.Reference, 0, len(users))
	for i := range users {
		out = append(out, mapper.ToManagerReference(&users[i]))
	}
	return out
}
