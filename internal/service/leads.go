package service

import (
	"context"

	"github.com/forumdash/amo-analytics-api/internal/crm"
	"github.com/forumdash/amo-analytics-api/internal/domain"
	"go.uber.org/zap"
)

// LeadSource is the read side of the CRM used by the reports.
// *crm.Client implements it.
type LeadSource interface {
	FetchLeads(ctx context.Context, filter crm.LeadFilter, with ...string) crm.LeadPage
	FetchContacts(ctx context.Context, ids []int64) crm.ContactPage
	GetPipeline(ctx context.Context, id int64) (*domain.Pipeline, error)
	ListPipelines(ctx context.Context) ([]domain.Pipeline, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
}

var _ LeadSource = (*crm.Client)(nil)

// collected is a deduplicated lead set and whether any fetch stopped early
type collected struct {
	leads   []domain.Lead
	partial bool
}

// collectLeads runs the fetch strategy of the query mode and deduplicates the
// result.
//
// standard: leads created inside the window.
// launch: every lead of the pipelines and managers, plus success/lost leads
// closed inside the window.
func collectLeads(ctx context.Context, src LeadSource, logger *zap.Logger, q ReportQuery, with ...string) collected {
	base := crm.LeadFilter{
		PipelineIDs:        q.PipelineIDs,
		ResponsibleUserIDs: q.ManagerIDs,
	}

	var pages []crm.LeadPage
	if q.Mode.IsLaunch() {
		open := src.FetchLeads(ctx, base, with...)

		closed := base
		closed.Statuses = []int64{domain.StatusSuccess, domain.StatusLost}
		closed.ClosedAt = &crm.TimeRange{From: q.Window.From, To: q.Window.To}
		pages = append(pages, open, src.FetchLeads(ctx, closed, with...))
	} else {
		created := base
		created.CreatedAt = &crm.TimeRange{From: q.Window.From, To: q.Window.To}
		pages = append(pages, src.FetchLeads(ctx, created, with...))
	}

	var (
		all     []domain.Lead
		partial bool
	)
	for _, p := range pages {
		all = append(all, p.Leads...)
		partial = partial || p.Truncated
	}

	unique := domain.DedupeLeads(all)
	logger.Debug("leads collected",
		zap.String("mode", string(q.Mode)),
		zap.Int("fetched", len(all)),
		zap.Int("unique", len(unique)),
		zap.Bool("partial", partial),
	)
	return collected{leads: unique, partial: partial}
}

// fetchAll reads every lead of the pipelines and managers with no date bound
func fetchAll(ctx context.Context, src LeadSource, pipelineIDs, managerIDs []int64) crm.LeadPage {
	return src.FetchLeads(ctx, crm.LeadFilter{
		PipelineIDs:        pipelineIDs,
		ResponsibleUserIDs: managerIDs,
	})
}
