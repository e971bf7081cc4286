package domain_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/forumdash/amo-analytics-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMoney(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
	}{
		{name: "plain integer", input: "750", want: 750},
		{name: "spaces and decimals", input: "1 234.50", want: 1234.5},
		{name: "currency suffix", input: "1 500 000 so'm", want: 1500000},
		{name: "comma is dropped", input: "1 234,50 so'm", want: 123450},
		{name: "no digits", input: "yo'q", want: 0},
		{name: "empty", input: "", want: 0},
		{name: "lone dot", input: ".", want: 0},
		{name: "several dots keeps prefix", input: "1.2.3", want: 1.2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, domain.ParseMoney(tt.input), 1e-9)
		})
	}
}

func TestCustomFields_TypedAccessors(t *testing.T) {
	raw := `[
		{"field_id": 1369947, "values": [{"value": "1 000 so'm"}]},
		{"field_id": 1369949, "values": [{"value": 2500}]},
		{"field_id": 1376897, "values": [{"value": 1700000000}]},
		{"field_id": 1369951, "values": [{"value": "Pulini qaytib oldi", "enum_id": 2796541}]},
		{"field_id": 1369945, "values": [{"value": "Premium"}]},
		{"field_id": 1369961, "values": []}
	]`
	var cf domain.CustomFields
	require.NoError(t, json.Unmarshal([]byte(raw), &cf))

	assert.Equal(t, 1000.0, cf.Money(domain.FieldAdvancePayment))
	assert.Equal(t, 2500.0, cf.Money(domain.FieldRemainingBalance))
	assert.Equal(t, domain.RefundReasonEnumID, cf.EnumID(domain.FieldReturnReason))
	assert.Equal(t, "Premium", cf.Text(domain.FieldTariff))

	ts, ok := cf.Date(domain.FieldPaymentDeadline)
	assert.True(t, ok)
	assert.Equal(t, int64(1700000000), ts)

	// present without values behaves like absent
	assert.Equal(t, "", cf.Text(domain.FieldRegion))
	assert.Equal(t, 0.0, cf.Money(domain.FieldBusinessType))
	_, ok = cf.Date(domain.FieldEmployeeCount)
	assert.False(t, ok)
}

func TestLead_DecodeNullableFields(t *testing.T) {
	raw := `{
		"id": 7, "price": null, "pipeline_id": 10348918, "status_id": 143,
		"closed_at": null, "custom_fields_values": null,
		"_embedded": {"contacts": [{"id": 55, "is_main": true}], "source": {"name": "Instagram"}}
	}`
	var l domain.Lead
	require.NoError(t, json.Unmarshal([]byte(raw), &l))

	assert.Equal(t, int64(7), l.ID)
	assert.Equal(t, 0.0, l.Price)
	assert.Equal(t, int64(0), l.ClosedAt)
	assert.Equal(t, int64(55), l.ContactID())
	assert.Equal(t, "Instagram", l.SourceName())

	var bare domain.Lead
	assert.Equal(t, int64(0), bare.ContactID())
	assert.Equal(t, domain.UnknownLabel, bare.SourceName())
}

func TestDedupeLeads(t *testing.T) {
	leads := []domain.Lead{
		{ID: 1, StatusID: 100},
		{ID: 2, StatusID: 100},
		{ID: 1, StatusID: domain.StatusSuccess},
		{ID: 3, StatusID: 100},
	}

	unique := domain.DedupeLeads(leads)

	require.Len(t, unique, 3)
	assert.Equal(t, []int64{1, 2, 3}, []int64{unique[0].ID, unique[1].ID, unique[2].ID})
	assert.Equal(t, domain.StatusSuccess, unique[0].StatusID, "later record wins")

	// idempotent
	assert.Equal(t, unique, domain.DedupeLeads(unique))
}

func TestPlan_DateRange(t *testing.T) {
	loc := time.FixedZone("UZT", 5*3600)
	p := domain.Plan{StartDate: "2024-05-01", EndDate: "2024-05-31"}

	from, to := p.DateRange(loc)

	assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, loc), from)
	assert.Equal(t, time.Date(2024, 5, 31, 23, 59, 59, 0, loc), to)

	broken := domain.Plan{StartDate: "soon"}
	from, to = broken.DateRange(loc)
	assert.True(t, from.IsZero())
	assert.True(t, to.IsZero())
}

func TestPlan_Keys(t *testing.T) {
	p := domain.Plan{ManagerID: "0", StartDate: "2024-05-01"}
	assert.True(t, p.CoversAllManagers())
	assert.True(t, p.SameKey("0", "2024-05-01"))
	assert.False(t, p.SameKey("0", "2024-06-01"))
}
