package mapper

import (
	"fmt"

	"github.com/forumdash/amo-analytics-api/internal/domain"
)

// ToPipelineReference converts Pipeline to Reference
func ToPipelineReference(pipeline *domain.Pipeline) domain.Reference {
	return domain.Reference{
		ID:   pipeline.ID,
		Name: pipeline.Name,
	}
}

// ToManagerReference converts User to Reference
func ToManagerReference(user *domain.User) domain.Reference {
	return domain.Reference{
		ID:   user.ID,
		Name: user.Name,
	}
}

// ToFunnelStage converts Stage to an empty FunnelStage
func ToFunnelStage(stage *domain.Stage) domain.FunnelStage {
	return domain.FunnelStage{
		ID:   stage.ID,
		Name: stage.Name,
		Sort: stage.Sort,
	}
}

// ToPlanStatus wraps a stored plan into a status with zero actuals
func ToPlanStatus(plan *domain.Plan) domain.PlanStatus {
	return domain.PlanStatus{
		Plan:          *plan,
		ProgressDeals: FormatProgress(0, plan.TargetDeals),
	}
}

// FormatProgress formats actual/target as a percentage with one decimal
func FormatProgress(actual int, target float64) string {
	if target == 0 {
		return "0.0"
	}
	return fmt.Sprintf("%.1f", float64(actual)/target*100)
}
