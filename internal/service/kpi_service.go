package service

import (
	"context"
	"math"
	"time"

	"github.com/forumdash/amo-analytics-api/internal/domain"
	"github.com/forumdash/amo-analytics-api/internal/logger"
	"go.uber.org/zap"
)

// KPIService computes the lead KPI summary
type KPIService struct {
	source LeadSource
	goals  domain.PipelineGoals
	logger *zap.Logger
	now    func() time.Time
}

func NewKPIService(source LeadSource, goals domain.PipelineGoals, logger *zap.Logger) *KPIService {
	return &KPIService{
		source: source,
		goals:  goals,
		logger: logger,
		now:    time.Now,
	}
}

// Summary collects the leads of the query and aggregates them. Without a
// pipeline the zero summary is returned and the CRM is not called.
func (s *KPIService) Summary(ctx context.Context, q ReportQuery) *domain.KPISummary {
	if !q.HasPipelines() {
		return &domain.KPISummary{}
	}

	log := logger.WithReport(s.logger, "kpi", q.PipelineIDs, q.ManagerIDs, string(q.Mode))
	res := collectLeads(ctx, s.source, log, q)

	summary := AggregateKPI(res.leads, q, s.goals, s.now())
	summary.Partial = res.partial
	if res.partial {
		log.Warn("kpi computed from a partial lead set", zap.Int("leads", len(res.leads)))
	}
	return summary
}

// AggregateKPI classifies deduplicated leads. now decides whether a debt is
// overdue.
func AggregateKPI(leads []domain.Lead, q ReportQuery, goals domain.PipelineGoals, now time.Time) *domain.KPISummary {
	var (
		sum           domain.KPISummary
		activeAdvance float64
		nowTs         = now.Unix()
		launch        = q.Mode.IsLaunch()
	)

	for i := range leads {
		l := &leads[i]
		if !q.selects(l.PipelineID) {
			continue
		}
		closedInWindow := q.Window.Contains(l.ClosedAt)

		switch {
		case l.StatusID == domain.StatusLost:
			if closedInWindow {
				sum.Total++
				sum.Lost++
				if l.CustomFields.EnumID(domain.FieldReturnReason) == domain.RefundReasonEnumID {
					sum.RefundCount++
					sum.RefundAmount += l.CustomFields.Money(domain.FieldAdvancePayment)
				}
			}

		case l.StatusID == domain.StatusSuccess:
			if closedInWindow {
				sum.Total++
				if !launch {
					sum.Sales++
					sum.SalesAmount += l.Price
				}
			}

		default:
			sum.Total++
			if launch && goals.IsGoal(l.PipelineID, l.StatusID) {
				sum.Sales++
				sum.SalesAmount += l.Price
			} else if advance := l.CustomFields.Money(domain.FieldAdvancePayment); advance > 0 {
				activeAdvance += advance
			}
		}

		if domain.IsDebtStatus(l.StatusID) {
			debt := l.CustomFields.Money(domain.FieldRemainingBalance)
			if debt > 0 {
				sum.DebtCount++
				sum.DebtAmount += debt
				if deadline, ok := l.CustomFields.Date(domain.FieldPaymentDeadline); ok && deadline < nowTs {
					sum.OverdueCount++
					sum.OverdueAmount += debt
				}
			}
		}
	}

	sum.TotalIncome = sum.SalesAmount + activeAdvance
	sum.Conversion = Conversion(sum.Sales, sum.Total)
	if sum.Sales > 0 {
		sum.AvgCheck = math.Round(sum.SalesAmount / float64(sum.Sales))
	}
	return &sum
}

// Conversion returns sales/total as a percentage with one decimal, 0 when
// total is 0
func Conversion(sales, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(sales)/float64(total)*1000) / 10
}
