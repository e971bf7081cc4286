package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/forumdash/amo-analytics-api/internal/domain"
	"github.com/forumdash/amo-analytics-api/internal/storage"
	"go.uber.org/zap"
)

// PlanRepository persists plans keyed by (manager_id, start_date)
type PlanRepository interface {
	// List returns every stored plan. Unreadable storage yields no plans.
	List(ctx context.Context) ([]domain.Plan, error)
	// Upsert replaces the plan with the same key or adds it
	Upsert(ctx context.Context, plan *domain.Plan) error
	// Delete removes the plans with the key, a missing plan is not an error
	Delete(ctx context.Context, managerID, startDate string) error
	// Ping checks that the backend is reachable
	Ping(ctx context.Context) error
}

// FilePlanRepository keeps all plans in one JSON document that is rewritten on
// every mutation. There is no locking: concurrent writers race and the last
// write wins.
type FilePlanRepository struct {
	store  storage.Storage
	name   string
	logger *zap.Logger
}

func NewFilePlanRepository(store storage.Storage, name string, logger *zap.Logger) *FilePlanRepository {
	return &FilePlanRepository{
		store:  store,
		name:   name,
		logger: logger,
	}
}

func (r *FilePlanRepository) List(ctx context.Context) ([]domain.Plan, error) {
	data, err := r.store.Read(ctx, r.name)
	if err != nil {
		if !errors.Is(err, storage.ErrObjectNotFound) {
			r.logger.Warn("failed to read plans, treating as empty",
				zap.String("name", r.name),
				zap.Error(err),
			)
		}
		return []domain.Plan{}, nil
	}

	var plans []domain.Plan
	if err := json.Unmarshal(data, &plans); err != nil {
		r.logger.Warn("failed to parse plans, treating as empty",
			zap.String("name", r.name),
			zap.Error(err),
		)
		return []domain.Plan{}, nil
	}
	if plans == nil {
		plans = []domain.Plan{}
	}
	return plans, nil
}

func (r *FilePlanRepository) Upsert(ctx context.Context, plan *domain.Plan) error {
	plans, _ := r.List(ctx)
	plans = removePlan(plans, plan.ManagerID, plan.StartDate)
	plans = append(plans, *plan)
	return r.save(ctx, plans)
}

func (r *FilePlanRepository) Delete(ctx context.Context, managerID, startDate string) error {
	plans, _ := r.List(ctx)
	return r.save(ctx, removePlan(plans, managerID, startDate))
}

func (r *FilePlanRepository) Ping(ctx context.Context) error {
	_, err := r.store.Read(ctx, r.name)
	if err != nil && !errors.Is(err, storage.ErrObjectNotFound) {
		return err
	}
	return nil
}

func (r *FilePlanRepository) save(ctx context.Context, plans []domain.Plan) error {
	data, err := json.MarshalIndent(plans, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode plans: %w", err)
	}
	if err := r.store.Write(ctx, r.name, data); err != nil {
		return fmt.Errorf("failed to write plans: %w", err)
	}
	return nil
}

func removePlan(plans []domain.Plan, managerID, startDate string) []domain.Plan {
	kept := plans[:0]
	for i := range plans {
		if !plans[i].SameKey(managerID, startDate) {
			kept = append(kept, plans[i])
		}
	}
	return kept
}
