package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"slices"
	"sync"

	"github.com/forumdash/amo-analytics-api/internal/crm"
	"github.com/forumdash/amo-analytics-api/internal/domain"
)

// fakeCRM answers lead queries from an in-memory lead list, applying the
// filter the way amoCRM does
type fakeCRM struct {
	mu sync.Mutex

	leads     []domain.Lead
	truncate  bool
	contacts  map[int64]domain.Contact
	pipeline  *domain.Pipeline
	pipelines []domain.Pipeline
	users     []domain.User
	listErr   error

	filters      []crm.LeadFilter
	withs        [][]string
	contactCalls [][]int64
}

func (f *fakeCRM) FetchLeads(ctx context.Context, filter crm.LeadFilter, with ...string) crm.LeadPage {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.filters = append(f.filters, filter)
	f.withs = append(f.withs, with)

	var out []domain.Lead
	for _, l := range f.leads {
		if matches(l, filter) {
			out = append(out, l)
		}
	}
	page := crm.LeadPage{Leads: out, Pages: 1}
	if f.truncate {
		page.Truncated = true
		page.Err = errors.New("crm: /leads returned 500")
	}
	return page
}

func matches(l domain.Lead, f crm.LeadFilter) bool {
	if len(f.PipelineIDs) > 0 && !slices.Contains(f.PipelineIDs, l.PipelineID) {
		return false
	}
	if len(f.ResponsibleUserIDs) > 0 && !slices.Contains(f.ResponsibleUserIDs, l.ResponsibleUserID) {
		return false
	}
	if len(f.Statuses) > 0 && !slices.Contains(f.Statuses, l.StatusID) {
		return false
	}
	if f.CreatedAt != nil && (l.CreatedAt < f.CreatedAt.From || l.CreatedAt > f.CreatedAt.To) {
		return false
	}
	if f.ClosedAt != nil && (l.ClosedAt < f.ClosedAt.From || l.ClosedAt > f.ClosedAt.To) {
		return false
	}
	return true
}

func (f *fakeCRM) FetchContacts(ctx context.Context, ids []int64) crm.ContactPage {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.contactCalls = append(f.contactCalls, ids)

	var page crm.ContactPage
	for _, id := range ids {
		if c, ok := f.contacts[id]; ok {
			page.Contacts = append(page.Contacts, c)
		}
	}
	return page
}

func (f *fakeCRM) GetPipeline(ctx context.Context, id int64) (*domain.Pipeline, error) {
	if f.pipeline == nil {
		return nil, errors.New("crm: /leads/pipelines returned 404")
	}
	return f.pipeline, nil
}

func (f *fakeCRM) ListPipelines(ctx context.Context) ([]domain.Pipeline, error) {
	return f.pipelines, f.listErr
}

func (f *fakeCRM) ListUsers(ctx context.Context) ([]domain.User, error) {
	return f.users, f.listErr
}

func textField(id domain.FieldID, v string) domain.CustomField {
	raw, _ := json.Marshal(v)
	return domain.CustomField{FieldID: id, Values: []domain.CustomFieldValue{{Value: raw}}}
}

func numberField(id domain.FieldID, v int64) domain.CustomField {
	raw, _ := json.Marshal(v)
	return domain.CustomField{FieldID: id, Values: []domain.CustomFieldValue{{Value: raw}}}
}

func enumField(id domain.FieldID, enumID int64) domain.CustomField {
	raw, _ := json.Marshal("Pulini qaytib oldi")
	return domain.CustomField{FieldID: id, Values: []domain.CustomFieldValue{{Value: raw, EnumID: enumID}}}
}

func withContact(l domain.Lead, contactID int64) domain.Lead {
	l.Embedded.Contacts = []domain.EntityRef{{ID: contactID, IsMain: true}}
	return l
}

func withSource(l domain.Lead, name string) domain.Lead {
	l.Embedded.Source = &domain.LeadSource{Name: name}
	return l
}
