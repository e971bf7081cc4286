package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Cross-pipeline terminal statuses of amoCRM
const (
	StatusSuccess int64 = 142
	StatusLost    int64 = 143
)

// RefundReasonEnumID is the "Pulini qaytib oldi" option of the return reason field
const RefundReasonEnumID int64 = 2796541

// UnknownLabel is the bucket name for leads and contacts without a value
const UnknownLabel = "Noma’lum (Kiritilmagan)"

// DebtStatuses are the stages in which a lead still owes money
var DebtStatuses = map[int64]bool{
	81840710: true,
	81840634: true,
}

// IsDebtStatus reports whether the status is one of DebtStatuses
func IsDebtStatus(statusID int64) bool {
	return DebtStatuses[statusID]
}

// FieldID identifies a custom field of the account
type FieldID int64

// Known custom fields
const (
	FieldTariff           FieldID = 1369945
	FieldAdvancePayment   FieldID = 1369947
	FieldRemainingBalance FieldID = 1369949
	FieldReturnReason     FieldID = 1369951
	FieldEmployeeCount    FieldID = 1369957
	FieldRegion           FieldID = 1369961
	FieldBusinessType     FieldID = 1375065
	FieldPaymentDeadline  FieldID = 1376897
)

// CustomFieldValue is one value of a custom field. Value keeps the raw JSON since
// amoCRM sends strings, numbers or booleans depending on the field type.
type CustomFieldValue struct {
	Value    json.RawMessage `json:"value"`
	EnumID   int64           `json:"enum_id,omitempty"`
	EnumCode string          `json:"enum_code,omitempty"`
}

// CustomField is an entry of custom_fields_values
type CustomField struct {
	FieldID   FieldID            `json:"field_id"`
	FieldName string             `json:"field_name,omitempty"`
	FieldType string             `json:"field_type,omitempty"`
	Values    []CustomFieldValue `json:"values"`
}

// CustomFields is the custom_fields_values array with typed accessors
type CustomFields []CustomField

// first returns the first value of the field, if any
func (cf CustomFields) first(id FieldID) (CustomFieldValue, bool) {
	for _, f := range cf {
		if f.FieldID != id {
			continue
		}
		if len(f.Values) == 0 {
			return CustomFieldValue{}, false
		}
		return f.Values[0], true
	}
	return CustomFieldValue{}, false
}

// Text returns the first value of the field as a string, "" when absent
func (cf CustomFields) Text(id FieldID) string {
	v, ok := cf.first(id)
	if !ok {
		return ""
	}
	return rawToString(v.Value)
}

// Money returns the first value of the field as an amount. Every character other
// than digits and '.' is dropped before parsing; absence or failure yields 0.
func (cf CustomFields) Money(id FieldID) float64 {
	v, ok := cf.first(id)
	if !ok {
		return 0
	}
	return ParseMoney(rawToString(v.Value))
}

// Date returns the first value of the field as a unix timestamp
func (cf CustomFields) Date(id FieldID) (int64, bool) {
	v, ok := cf.first(id)
	if !ok {
		return 0, false
	}
	s := strings.TrimSpace(rawToString(v.Value))
	if s == "" {
		return 0, false
	}
	if ts, err := strconv.ParseInt(s, 10, 64); err == nil {
		return ts, true
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int64(f), true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.Unix(), true
	}
	return 0, false
}

// EnumID returns the enum id of the first value of the field
func (cf CustomFields) EnumID(id FieldID) int64 {
	v, ok := cf.first(id)
	if !ok {
		return 0
	}
	return v.EnumID
}

// ParseMoney parses a free-text amount such as "1 234.50 so'm"
func ParseMoney(s string) float64 {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return 0
	}
	f, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		// "1.2.3" and the like: keep the longest parseable prefix
		f = parseFloatPrefix(b.String())
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

func parseFloatPrefix(s string) float64 {
	for end := len(s); end > 0; end-- {
		if f, err := strconv.ParseFloat(s[:end], 64); err == nil {
			return f
		}
	}
	return 0
}

func rawToString(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return fmt.Sprint(b)
	}
	return strings.Trim(string(raw), `"`)
}

// EntityRef is a link to another entity inside _embedded
type EntityRef struct {
	ID     int64 `json:"id"`
	IsMain bool  `json:"is_main,omitempty"`
}

// LeadSource is the embedded source of a lead
type LeadSource struct {
	ID   int64  `json:"id,omitempty"`
	Name string `json:"name"`
}

// LeadEmbedded holds the lead's related entities
type LeadEmbedded struct {
	Contacts []EntityRef `json:"contacts,omitempty"`
	Source   *LeadSource `json:"source,omitempty"`
}

// Lead is a deal record of amoCRM. The service never modifies leads.
type Lead struct {
	ID                int64        `json:"id"`
	Name              string       `json:"name,omitempty"`
	Price             float64      `json:"price"`
	ResponsibleUserID int64        `json:"responsible_user_id"`
	PipelineID        int64        `json:"pipeline_id"`
	StatusID          int64        `json:"status_id"`
	CreatedAt         int64        `json:"created_at"`
	UpdatedAt         int64        `json:"updated_at"`
	ClosedAt          int64        `json:"closed_at"`
	CustomFields      CustomFields `json:"custom_fields_values"`
	Embedded          LeadEmbedded `json:"_embedded"`
}

// ContactID returns the first linked contact, 0 when the lead has none
func (l *Lead) ContactID() int64 {
	if len(l.Embedded.Contacts) == 0 {
		return 0
	}
	return l.Embedded.Contacts[0].ID
}

// SourceName returns the embedded source name or UnknownLabel
func (l *Lead) SourceName() string {
	if l.Embedded.Source == nil || l.Embedded.Source.Name == "" {
		return UnknownLabel
	}
	return l.Embedded.Source.Name
}

// Contact is a person record of amoCRM
type Contact struct {
	ID           int64        `json:"id"`
	Name         string       `json:"name,omitempty"`
	CustomFields CustomFields `json:"custom_fields_values"`
}

// Stage is a status of a pipeline
type Stage struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Sort       int    `json:"sort"`
	PipelineID int64  `json:"pipeline_id"`
}

// Pipeline is a sales funnel with ordered stages
type Pipeline struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Sort     int    `json:"sort"`
	IsMain   bool   `json:"is_main"`
	Embedded struct {
		Statuses []Stage `json:"statuses"`
	} `json:"_embedded"`
}

// User is an account user (manager)
type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// DedupeLeads keeps one record per lead id. The later record wins and the
// position of the first occurrence is kept.
func DedupeLeads(leads []Lead) []Lead {
	index := make(map[int64]int, len(leads))
	unique := make([]Lead, 0, len(leads))
	for _, l := range leads {
		if i, ok := index[l.ID]; ok {
			unique[i] = l
			continue
		}
		index[l.ID] = len(unique)
		unique = append(unique, l)
	}
	return unique
}
