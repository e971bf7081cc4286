package service

import (
	"context"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/forumdash/amo-analytics-api/internal/domain"
	"github.com/forumdash/amo-analytics-api/internal/logger"
	"go.uber.org/zap"
)

// StatusType is the marketing tab a breakdown is computed for
type StatusType string

const (
	StatusTypeAll      StatusType = "all"
	StatusTypeSuccess  StatusType = "success"
	StatusTypeLost     StatusType = "lost"
	StatusTypeRealtime StatusType = "realtime"
)

// ParseStatusType maps the status_type query value, unknown values mean all
func ParseStatusType(s string) StatusType {
	switch st := StatusType(strings.ToLower(strings.TrimSpace(s))); st {
	case StatusTypeSuccess, StatusTypeLost, StatusTypeRealtime:
		return st
	default:
		return StatusTypeAll
	}
}

// MarketingService computes the marketing breakdown
type MarketingService struct {
	source LeadSource
	goals  domain.PipelineGoals
	logger *zap.Logger
}

func NewMarketingService(source LeadSource, goals domain.PipelineGoals, logger *zap.Logger) *MarketingService {
	return &MarketingService{
		source: source,
		goals:  goals,
		logger: logger,
	}
}

// Breakdown tallies the leads passing the status filter by source, tariff and
// the region, business type and headcount of their first contact.
func (s *MarketingService) Breakdown(ctx context.Context, q ReportQuery, statusType StatusType) *domain.MarketingBreakdown {
	if !q.HasPipelines() {
		return domain.EmptyMarketingBreakdown()
	}

	log := logger.WithReport(s.logger, "marketing", q.PipelineIDs, q.ManagerIDs, string(q.Mode)).
		With(zap.String("status_type", string(statusType)))

	res := collectLeads(ctx, s.source, log, q, "contacts", "source")
	leads := FilterByStatusType(res.leads, q, statusType, s.goals)

	t := newMarketingTally()
	for i := range leads {
		t.addLead(&leads[i])
	}

	partial := res.partial
	if ids := t.contactIDs(); len(ids) > 0 {
		page := s.source.FetchContacts(ctx, ids)
		for i := range page.Contacts {
			t.addContact(&page.Contacts[i])
		}
		partial = partial || page.Truncated
	}

	out := t.result()
	out.Partial = partial
	if partial {
		log.Warn("marketing breakdown computed from partial data",
			zap.Int("leads", len(leads)),
		)
	}
	return out
}

// FilterByStatusType keeps the leads of the selected pipelines that belong to
// the tab.
func FilterByStatusType(leads []domain.Lead, q ReportQuery, st StatusType, goals domain.PipelineGoals) []domain.Lead {
	launch := q.Mode.IsLaunch()
	out := make([]domain.Lead, 0, len(leads))

	for _, l := range leads {
		if !q.selects(l.PipelineID) {
			continue
		}
		closedInWindow := q.Window.Contains(l.ClosedAt)

		var keep bool
		switch st {
		case StatusTypeSuccess:
			keep = l.StatusID == domain.StatusSuccess && closedInWindow
		case StatusTypeLost:
			keep = l.StatusID == domain.StatusLost && closedInWindow
		case StatusTypeRealtime:
			if launch {
				keep = goals.IsGoal(l.PipelineID, l.StatusID)
			} else {
				keep = l.StatusID == domain.StatusSuccess && closedInWindow
			}
		default:
			keep = true
			if launch && (l.StatusID == domain.StatusSuccess || l.StatusID == domain.StatusLost) {
				keep = closedInWindow
			}
		}

		if keep {
			out = append(out, l)
		}
	}
	return out
}

type marketingTally struct {
	sources   map[string]int
	tariffs   map[string]int
	regions   map[string]int
	business  map[string]int
	employees map[string]int
	// occurrences of each first contact, in first-seen order
	contacts     map[int64]int
	contactOrder []int64
}

func newMarketingTally() *marketingTally {
	return &marketingTally{
		sources:   map[string]int{},
		tariffs:   map[string]int{},
		regions:   map[string]int{},
		business:  map[string]int{},
		employees: map[string]int{},
		contacts:  map[int64]int{},
	}
}

func (t *marketingTally) addLead(l *domain.Lead) {
	t.sources[l.SourceName()]++
	t.tariffs[labelOrUnknown(l.CustomFields.Text(domain.FieldTariff))]++

	cid := l.ContactID()
	if cid == 0 {
		t.regions[domain.UnknownLabel]++
		t.business[domain.UnknownLabel]++
		t.employees[domain.UnknownLabel]++
		return
	}
	if _, seen := t.contacts[cid]; !seen {
		t.contactOrder = append(t.contactOrder, cid)
	}
	t.contacts[cid]++
}

func (t *marketingTally) contactIDs() []int64 {
	return t.contactOrder
}

func (t *marketingTally) addContact(c *domain.Contact) {
	count := t.contacts[c.ID]
	t.regions[labelOrUnknown(c.CustomFields.Text(domain.FieldRegion))] += count
	t.business[labelOrUnknown(c.CustomFields.Text(domain.FieldBusinessType))] += count
	t.employees[labelOrUnknown(c.CustomFields.Text(domain.FieldEmployeeCount))] += count
}

func (t *marketingTally) result() *domain.MarketingBreakdown {
	return &domain.MarketingBreakdown{
		Sources:   RankByValue(t.sources),
		Tariffs:   RankByValue(t.tariffs),
		Regions:   RankByValue(t.regions),
		Business:  RankByValue(t.business),
		Employees: RankEmployeeBuckets(t.employees),
	}
}

func labelOrUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return domain.UnknownLabel
	}
	return s
}

// RankByValue turns a tally into a list sorted by value descending, ties by
// name
func RankByValue(m map[string]int) []domain.NamedValue {
	out := toNamedValues(m)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Value != out[j].Value {
			return out[i].Value > out[j].Value
		}
		return out[i].Name < out[j].Name
	})
	return out
}

var firstInt = regexp.MustCompile(`\d+`)

// RankEmployeeBuckets sorts headcount buckets by the first number in the label,
// largest first. The unknown bucket always comes last.
func RankEmployeeBuckets(m map[string]int) []domain.NamedValue {
	out := toNamedValues(m)
	sort.SliceStable(out, func(i, j int) bool {
		ui, uj := isUnknownLabel(out[i].Name), isUnknownLabel(out[j].Name)
		if ui != uj {
			return uj
		}
		ni, nj := leadingNumber(out[i].Name), leadingNumber(out[j].Name)
		if ni != nj {
			return ni > nj
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func toNamedValues(m map[string]int) []domain.NamedValue {
	out := make([]domain.NamedValue, 0, len(m))
	for name, value := range m {
		out = append(out, domain.NamedValue{Name: name, Value: value})
	}
	return out
}

func leadingNumber(s string) int {
	n, err := strconv.Atoi(firstInt.FindString(s))
	if err != nil {
		return 0
	}
	return n
}

// the label is typed with either apostrophe in the CRM
func isUnknownLabel(s string) bool {
	return strings.Contains(s, "Noma’lum") || strings.Contains(s, "Noma'lum")
}
