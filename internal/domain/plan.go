package domain

import "time"

// AllManagersID is the manager_id of plans that cover every manager of a pipeline
const AllManagersID = "0"

// DefaultMinimalka is the minimal deal threshold stored when none is given
const DefaultMinimalka = 15

// Plan types
const (
	PlanTypeGeneral = "general"
	PlanTypeManager = "manager"
)

// PlanDateLayout is the layout of start_date and end_date
const PlanDateLayout = "2006-01-02"

// Plan is a sales target of a manager (or of a whole pipeline) for a date range.
// (ManagerID, StartDate) identifies a plan.
type Plan struct {
	ManagerID          string  `json:"manager_id" gorm:"primaryKey;type:varchar(32)"`
	PipelineID         int64   `json:"pipeline_id" gorm:"not null;index"`
	StartDate          string  `json:"start_date" gorm:"primaryKey;type:varchar(32)"`
	EndDate            string  `json:"end_date" gorm:"type:varchar(32)"`
	Type               string  `json:"type" gorm:"type:varchar(16)"`
	TargetDeals        float64 `json:"target_deals"`
	TargetAmount       float64 `json:"target_amount"`
	Minimalka          float64 `json:"minimalka"`
	TargetStandart     float64 `json:"target_standart"`
	TargetStandartPlus float64 `json:"target_standart_plus"`
	TargetPremium      float64 `json:"target_premium"`
	TargetVIP          float64 `json:"target_vip"`
	TargetPeople       float64 `json:"target_people"`
}

// TableName overrides the gorm table name
func (Plan) TableName() string {
	return "plans"
}

// SameKey reports whether both plans address the same manager and start date
func (p *Plan) SameKey(managerID, startDate string) bool {
	return p.ManagerID == managerID && p.StartDate == startDate
}

// CoversAllManagers reports whether the plan targets the whole pipeline
func (p *Plan) CoversAllManagers() bool {
	return p.ManagerID == AllManagersID
}

// DateRange returns the plan period in local time: start_date 00:00:00 through
// end_date 23:59:59. A bound that cannot be parsed is returned as the zero time.
func (p *Plan) DateRange(loc *time.Location) (time.Time, time.Time) {
	var from, to time.Time
	if d, err := time.ParseInLocation(PlanDateLayout, trimDate(p.StartDate), loc); err == nil {
		from = d
	}
	if d, err := time.ParseInLocation(PlanDateLayout, trimDate(p.EndDate), loc); err == nil {
		to = d.Add(24*time.Hour - time.Second)
	}
	return from, to
}

// trimDate accepts both "2024-05-01" and "2024-05-01T00:00:00.000Z"
func trimDate(s string) string {
	if len(s) > len(PlanDateLayout) {
		return s[:len(PlanDateLayout)]
	}
	return s
}
