package domain

// KPISummary is the response of GET /kpi/leads
type KPISummary struct {
	Total         int     `json:"total"`
	Sales         int     `json:"sales"`
	SalesAmount   float64 `json:"salesAmount"`
	Lost          int     `json:"lost"`
	DebtCount     int     `json:"debtCount"`
	DebtAmount    float64 `json:"debtAmount"`
	OverdueCount  int     `json:"overdueCount"`
	OverdueAmount float64 `json:"overdueAmount"`
	TotalIncome   float64 `json:"totalIncome"`
	RefundCount   int     `json:"refundCount"`
	RefundAmount  float64 `json:"refundAmount"`
	Conversion    float64 `json:"conversion"`
	AvgCheck      float64 `json:"avgCheck"`
	// Partial is set when the CRM stopped answering before all pages were read
	Partial bool `json:"partial,omitempty"`
}

// NamedValue is one row of a ranked breakdown
type NamedValue struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// MarketingBreakdown is the response of GET /marketing/analytics
type MarketingBreakdown struct {
	Sources   []NamedValue `json:"sources"`
	Tariffs   []NamedValue `json:"tarifs"`
	Regions   []NamedValue `json:"regions"`
	Business  []NamedValue `json:"business"`
	Employees []NamedValue `json:"employees"`
	Partial   bool         `json:"partial,omitempty"`
}

// EmptyMarketingBreakdown returns a breakdown with empty (not null) lists
func EmptyMarketingBreakdown() *MarketingBreakdown {
	return &MarketingBreakdown{
		Sources:   []NamedValue{},
		Tariffs:   []NamedValue{},
		Regions:   []NamedValue{},
		Business:  []NamedValue{},
		Employees: []NamedValue{},
	}
}

// FunnelStage is one stage of GET /dashboard/funnel
type FunnelStage struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Value int    `json:"value"`
	Sort  int    `json:"sort"`
}

// Reference is an id/name pair of GET /pipelines and GET /managers
type Reference struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// TariffTally counts fully paid deals of one tariff
type TariffTally struct {
	Full int `json:"full"`
}

// TariffStats groups the tallies of the four tariffs
type TariffStats struct {
	Standart     TariffTally `json:"standart"`
	StandartPlus TariffTally `json:"standart_plus"`
	Premium      TariffTally `json:"premium"`
	VIP          TariffTally `json:"vip"`
}

// PlanStatus is a stored plan together with the actual results
type PlanStatus struct {
	Plan
	ActualDeals    int         `json:"actual_deals"`
	ActualAmount   float64     `json:"actual_amount"`
	ActualPeople   int         `json:"actual_people"`
	TotalRemainder float64     `json:"total_remainder"`
	TariffStats    TariffStats `json:"tarif_stats"`
	ProgressDeals  string      `json:"progress_deals"`
	Partial        bool        `json:"partial,omitempty"`
}

// LoginResponse is the response of a successful POST /login
type LoginResponse struct {
	Success bool      `json:"success"`
	Message string    `json:"message"`
	User    LoginUser `json:"user"`
	Token   string    `json:"token,omitempty"`
}

// LoginUser is the user shown by the dashboard after login
type LoginUser struct {
	Name string `json:"name"`
}

// SuccessResponse is the {success} body of plan mutations
type SuccessResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}
