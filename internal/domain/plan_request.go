package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// FlexNumber decodes a JSON number, a numeric string, "" or null.
// The dashboard sends form values as strings.
type FlexNumber float64

func (n *FlexNumber) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*n = 0
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*n = 0
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("invalid number %q", s)
		}
		*n = FlexNumber(f)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*n = FlexNumber(f)
	return nil
}

// FlexString decodes a JSON string or number as a string
type FlexString string

func (s *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*s = ""
		return nil
	}
	if data[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = FlexString(strings.TrimSpace(v))
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return fmt.Errorf("expected string or number")
	}
	*s = FlexString(num.String())
	return nil
}

// SavePlanRequest is the body of POST /plan/save
type SavePlanRequest struct {
	ManagerID          FlexString `json:"manager_id" validate:"required"`
	PipelineID         FlexNumber `json:"pipeline_id" validate:"required,gt=0"`
	StartDate          string     `json:"start_date" validate:"required"`
	EndDate            string     `json:"end_date"`
	Type               string     `json:"type" validate:"omitempty,oneof=general manager"`
	TargetDeals        FlexNumber `json:"target_deals" validate:"gte=0"`
	TargetAmount       FlexNumber `json:"target_amount" validate:"gte=0"`
	Minimalka          FlexNumber `json:"minimalka" validate:"gte=0"`
	TargetStandart     FlexNumber `json:"target_standart" validate:"gte=0"`
	TargetStandartPlus FlexNumber `json:"target_standart_plus" validate:"gte=0"`
	TargetPremium      FlexNumber `json:"target_premium" validate:"gte=0"`
	TargetVIP          FlexNumber `json:"target_vip" validate:"gte=0"`
	TargetPeople       FlexNumber `json:"target_people" validate:"gte=0"`
}

// ToPlan applies the defaults: type follows the manager id unless given, and
// a missing or zero minimalka becomes DefaultMinimalka
func (r *SavePlanRequest) ToPlan() *Plan {
	managerID := strings.TrimSpace(string(r.ManagerID))

	planType := r.Type
	if planType == "" {
		planType = PlanTypeManager
		if managerID == AllManagersID {
			planType = PlanTypeGeneral
		}
	}

	minimalka := float64(r.Minimalka)
	if minimalka == 0 {
		minimalka = DefaultMinimalka
	}

	return &Plan{
		ManagerID:          managerID,
		PipelineID:         int64(r.PipelineID),
		StartDate:          r.StartDate,
		EndDate:            r.EndDate,
		Type:               planType,
		TargetDeals:        float64(r.TargetDeals),
		TargetAmount:       float64(r.TargetAmount),
		Minimalka:          minimalka,
		TargetStandart:     float64(r.TargetStandart),
		TargetStandartPlus: float64(r.TargetStandartPlus),
		TargetPremium:      float64(r.TargetPremium),
		TargetVIP:          float64(r.TargetVIP),
		TargetPeople:       float64(r.TargetPeople),
	}
}
