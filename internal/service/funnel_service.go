package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/forumdash/amo-analytics-api/internal/domain"
	"github.com/forumdash/amo-analytics-api/internal/logger"
	"github.com/forumdash/amo-analytics-api/internal/mapper"
	"go.uber.org/zap"
)

// FunnelService builds the live stage snapshot of a pipeline
type FunnelService struct {
	source LeadSource
	logger *zap.Logger
}

func NewFunnelService(source LeadSource, logger *zap.Logger) *FunnelService {
	return &FunnelService{
		source: source,
		logger: logger,
	}
}

// Funnel counts the current leads per stage of the first selected pipeline.
// Leads of the other selected pipelines are fetched too but only match stages
// of the first one. No date filter applies.
func (s *FunnelService) Funnel(ctx context.Context, pipelineIDs, managerIDs []int64) ([]domain.FunnelStage, error) {
	if len(pipelineIDs) == 0 {
		return []domain.FunnelStage{}, nil
	}

	log := logger.WithReport(s.logger, "funnel", pipelineIDs, managerIDs, "")

	pipeline, err := s.source.GetPipeline(ctx, pipelineIDs[0])
	if err != nil {
		return nil, fmt.Errorf("failed to get pipeline %d: %w", pipelineIDs[0], err)
	}

	page := fetchAll(ctx, s.source, pipelineIDs, managerIDs)
	if page.Truncated {
		log.Warn("funnel computed from a partial lead set", zap.Int("leads", len(page.Leads)))
	}

	return CountStages(pipeline.Embedded.Statuses, page.Leads), nil
}

// CountStages tallies leads per stage and orders stages by sort ascending.
// Leads in a stage that is not listed are ignored.
func CountStages(stages []domain.Stage, leads []domain.Lead) []domain.FunnelStage {
	index := make(map[int64]int, len(stages))
	out := make([]domain.FunnelStage, 0, len(stages))
	for i := range stages {
		if _, dup := index[stages[i].ID]; dup {
			continue
		}
		index[stages[i].ID] = len(out)
		out = append(out, mapper.ToFunnelStage(&stages[i]))
	}

	for _, l := range leads {
		if i, ok := index[l.StatusID]; ok {
			out[i].Value++
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Sort < out[j].Sort
	})
	return out
}
