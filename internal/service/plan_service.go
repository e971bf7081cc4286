package service

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/forumdash/amo-analytics-api/internal/domain"
	"github.com/forumdash/amo-analytics-api/internal/mapper"
	"github.com/forumdash/amo-analytics-api/internal/repository"
	"go.uber.org/zap"
)

// PlanStatusQuery selects the plans to evaluate. From and To override the plan
// period when set.
type PlanStatusQuery struct {
	PipelineIDs []int64
	From        *int64
	To          *int64
}

// PlanService stores plans and compares them with the CRM
type PlanService struct {
	repo   repository.PlanRepository
	source LeadSource
	goals  domain.PipelineGoals
	logger *zap.Logger
	loc    *time.Location
}

func NewPlanService(repo repository.PlanRepository, source LeadSource, goals domain.PipelineGoals, logger *zap.Logger) *PlanService {
	return &PlanService{
		repo:   repo,
		source: source,
		goals:  goals,
		logger: logger,
		loc:    time.Local,
	}
}

// Save upserts the plan by (manager_id, start_date)
func (s *PlanService) Save(ctx context.Context, req *domain.SavePlanRequest) (*domain.Plan, error) {
	plan := req.ToPlan()
	if plan.ManagerID == "" || plan.StartDate == "" {
		return nil, ErrInvalidInput
	}

	if err := s.repo.Upsert(ctx, plan); err != nil {
		s.logger.Error("failed to save plan",
			zap.String("manager_id", plan.ManagerID),
			zap.String("start_date", plan.StartDate),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	s.logger.Info("plan saved",
		zap.String("manager_id", plan.ManagerID),
		zap.Int64("pipeline_id", plan.PipelineID),
		zap.String("start_date", plan.StartDate),
		zap.String("type", plan.Type),
	)
	return plan, nil
}

// Delete removes the plan of the manager starting at startDate
func (s *PlanService) Delete(ctx context.Context, managerID, startDate string) error {
	if err := s.repo.Delete(ctx, managerID, startDate); err != nil {
		s.logger.Error("failed to delete plan",
			zap.String("manager_id", managerID),
			zap.String("start_date", startDate),
			zap.Error(err),
		)
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return nil
}

// Status evaluates every stored plan of the selected pipelines (all plans when
// none is selected). Plans of pipelines without a goal stage are skipped.
func (s *PlanService) Status(ctx context.Context, q PlanStatusQuery) ([]domain.PlanStatus, error) {
	plans, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}

	results := make([]domain.PlanStatus, 0, len(plans))
	for i := range plans {
		plan := &plans[i]
		if len(q.PipelineIDs) > 0 && !slices.Contains(q.PipelineIDs, plan.PipelineID) {
			continue
		}
		goal, ok := s.goals.Goal(plan.PipelineID)
		if !ok {
			continue
		}

		var managers []int64
		if !plan.CoversAllManagers() {
			id, err := strconv.ParseInt(strings.TrimSpace(plan.ManagerID), 10, 64)
			if err != nil {
				s.logger.Warn("skipping plan with invalid manager id",
					zap.String("manager_id", plan.ManagerID),
					zap.String("start_date", plan.StartDate),
				)
				continue
			}
			managers = []int64{id}
		}

		page := fetchAll(ctx, s.source, []int64{plan.PipelineID}, managers)
		if page.Truncated {
			s.logger.Warn("plan status computed from a partial lead set",
				zap.String("manager_id", plan.ManagerID),
				zap.Int64("pipeline_id", plan.PipelineID),
				zap.Int("leads", len(page.Leads)),
			)
		}

		from, to, valid := s.planRange(plan, q)
		status := ComputePlanStatus(plan, page.Leads, goal, from, to, valid)
		status.Partial = page.Truncated
		results = append(results, status)
	}
	return results, nil
}

// planRange resolves the sale window: query bounds win over the plan period
func (s *PlanService) planRange(plan *domain.Plan, q PlanStatusQuery) (int64, int64, bool) {
	start, end := plan.DateRange(s.loc)

	var from, to int64
	switch {
	case q.From != nil:
		from = *q.From
	case !start.IsZero():
		from = start.Unix()
	default:
		return 0, 0, false
	}
	switch {
	case q.To != nil:
		to = *q.To
	case !end.IsZero():
		to = end.Unix()
	default:
		return 0, 0, false
	}
	return from, to, true
}

// ComputePlanStatus sums the debt of the plan scope and the sales that reached
// the goal stage inside [from, to] by their last update time.
func ComputePlanStatus(plan *domain.Plan, leads []domain.Lead, goal, from, to int64, validRange bool) domain.PlanStatus {
	status := mapper.ToPlanStatus(plan)

	for i := range leads {
		l := &leads[i]

		if domain.IsDebtStatus(l.StatusID) {
			status.TotalRemainder += l.CustomFields.Money(domain.FieldRemainingBalance)
		}

		if !validRange || l.StatusID != goal || l.UpdatedAt < from || l.UpdatedAt > to {
			continue
		}

		status.ActualDeals++
		status.ActualAmount += l.Price
		status.ActualPeople += tallyTariff(&status.TariffStats, l.CustomFields.Text(domain.FieldTariff))
	}

	status.ProgressDeals = mapper.FormatProgress(status.ActualDeals, plan.TargetDeals)
	return status
}

// tallyTariff buckets a sale by its tariff and returns the number of people
// it stands for. "Standart Plus" goes to standart_plus, not standart.
func tallyTariff(stats *domain.TariffStats, tariff string) int {
	t := strings.ToLower(tariff)
	switch {
	case strings.Contains(t, "plus") || strings.Contains(t, "+"):
		stats.StandartPlus.Full++
		return 2
	case strings.Contains(t, "standart"):
		stats.Standart.Full++
	case strings.Contains(t, "premium"):
		stats.Premium.Full++
	case strings.Contains(t, "vip"):
		stats.VIP.Full++
	}
	return 1
}
