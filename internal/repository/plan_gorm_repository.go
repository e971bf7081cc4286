package repository

import (
	"context"

	"github.com/forumdash/amo-analytics-api/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormPlanRepository stores plans in the plans table
type GormPlanRepository struct {
	db *gorm.DB
}

func NewGormPlanRepository(db *gorm.DB) *GormPlanRepository {
	return &GormPlanRepository{db: db}
}

func (r *GormPlanRepository) List(ctx context.Context) ([]domain.Plan, error) {
	var plans []domain.Plan
	err := r.db.WithContext(ctx).
		Order("start_date, manager_id").
		Find(&plans).Error
	if err != nil {
		return nil, err
	}
	return plans, nil
}

func (r *GormPlanRepository) Upsert(ctx context.Context, plan *domain.Plan) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "manager_id"}, {Name: "start_date"}},
			UpdateAll: true,
		}).
		Create(plan).Error
}

func (r *GormPlanRepository) Delete(ctx context.Context, managerID, startDate string) error {
	return r.db.WithContext(ctx).
		Where("manager_id = ? AND start_date = ?", managerID, startDate).
		Delete(&domain.Plan{}).Error
}

func (r *GormPlanRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
