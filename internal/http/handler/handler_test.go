package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/forumdash/amo-analytics-api/internal/domain"
	"github.com/forumdash/amo-analytics-api/internal/http/handler"
	"github.com/forumdash/amo-analytics-api/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubAuth struct{}

func (stubAuth) Login(username, password string) (*domain.LoginResponse, error) {
	if username == "admin" && password == "admin123" {
		return &domain.LoginResponse{Success: true, Message: "Welcome", User: domain.LoginUser{Name: "Administrator"}}, nil
	}
	if username == "broken" {
		return nil, errors.New("signing failed")
	}
	return nil, service.ErrInvalidCredentials
}

type stubKPI struct {
	got service.ReportQuery
}

func (s *stubKPI) Summary(ctx context.Context, q service.ReportQuery) *domain.KPISummary {
	s.got = q
	return &domain.KPISummary{Total: 3, Sales: 1, Conversion: 33.3}
}

type stubMarketing struct {
	got        service.ReportQuery
	statusType service.StatusType
}

func (s *stubMarketing) Breakdown(ctx context.Context, q service.ReportQuery, st service.StatusType) *domain.MarketingBreakdown {
	s.got = q
	s.statusType = st
	return domain.EmptyMarketingBreakdown()
}

type stubFunnel struct {
	err error
}

func (s stubFunnel) Funnel(ctx context.Context, pipelineIDs, managerIDs []int64) ([]domain.FunnelStage, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []domain.FunnelStage{{ID: 1, Name: "Yangi", Value: 4, Sort: 10}}, nil
}

type stubPlans struct {
	saved    *domain.SavePlanRequest
	deleted  []string
	query    service.PlanStatusQuery
	saveErr  error
	statuses []domain.PlanStatus
}

func (s *stubPlans) Save(ctx context.Context, req *domain.SavePlanRequest) (*domain.Plan, error) {
	if s.saveErr != nil {
		return nil, s.saveErr
	}
	s.saved = req
	return req.ToPlan(), nil
}

func (s *stubPlans) Delete(ctx context.Context, managerID, startDate string) error {
	s.deleted = []string{managerID, startDate}
	return nil
}

func (s *stubPlans) Status(ctx context.Context, q service.PlanStatusQuery) ([]domain.PlanStatus, error) {
	s.query = q
	return s.statuses, nil
}

type stubReference struct{}

func (stubReference) Pipelines(ctx context.Context) []domain.Reference {
	return []domain.Reference{{ID: 10348918, Name: "Toshkent Forum"}}
}

func (stubReference) Managers(ctx context.Context) []domain.Reference {
	return []domain.Reference{}
}

func TestAuthHandler_Login(t *testing.T) {
	h := handler.NewAuthHandler(stubAuth{}, zap.NewNop())

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantBody   string
	}{
		{"ok", `{"username":"admin","password":"admin123"}`, http.StatusOK, `"name":"Administrator"`},
		{"wrong password", `{"username":"admin","password":"x"}`, http.StatusUnauthorized, `{"success":false}`},
		{"bad json", `{"username":`, http.StatusBadRequest, `"bad_request"`},
		{"token failure", `{"username":"broken","password":"x"}`, http.StatusInternalServerError, `"internal_error"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(tt.body))
			rr := httptest.NewRecorder()

			h.Login(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.Contains(t, rr.Body.String(), tt.wantBody)
		})
	}
}

func TestKPIHandler_ParsesQuery(t *testing.T) {
	svc := &stubKPI{}
	h := handler.NewKPIHandler(svc, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet,
		"/api/kpi/leads?pipeline_id=10348918&manager_id=7,8&from=1714521600000&to=1714607999&mode=mixed", nil)
	rr := httptest.NewRecorder()

	h.Leads(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, []int64{10348918}, svc.got.PipelineIDs)
	assert.Equal(t, []int64{7, 8}, svc.got.ManagerIDs)
	assert.Equal(t, service.Window{From: 1714521600, To: 1714607999}, svc.got.Window)
	assert.Equal(t, service.ModeLaunch, svc.got.Mode)

	var body domain.KPISummary
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, 3, body.Total)
	assert.NotContains(t, rr.Body.String(), "partial")
}

func TestMarketingHandler_GlobalMode(t *testing.T) {
	svc := &stubMarketing{}
	h := handler.NewMarketingHandler(svc, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/api/marketing/analytics?pipeline_id=1&global_mode=launch&status_type=lost", nil)
	rr := httptest.NewRecorder()

	h.Analytics(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, service.ModeLaunch, svc.got.Mode)
	assert.Equal(t, service.StatusTypeLost, svc.statusType)
	assert.JSONEq(t, `{"sources":[],"tarifs":[],"regions":[],"business":[],"employees":[]}`, rr.Body.String())
}

func TestDashboardHandler_Funnel(t *testing.T) {
	h := handler.NewDashboardHandler(stubFunnel{}, zap.NewNop())
	rr := httptest.NewRecorder()

	h.Funnel(rr, httptest.NewRequest(http.MethodGet, "/api/dashboard/funnel?pipeline_id=1", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[{"id":1,"name":"Yangi","value":4,"sort":10}]`, rr.Body.String())
}

func TestDashboardHandler_FunnelUpstreamFailure(t *testing.T) {
	h := handler.NewDashboardHandler(stubFunnel{err: errors.New("crm down")}, zap.NewNop())
	rr := httptest.NewRecorder()

	h.Funnel(rr, httptest.NewRequest(http.MethodGet, "/api/dashboard/funnel?pipeline_id=1", nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.JSONEq(t, `[]`, rr.Body.String())
}

func TestReferenceHandler(t *testing.T) {
	h := handler.NewReferenceHandler(stubReference{}, zap.NewNop())

	rr := httptest.NewRecorder()
	h.Pipelines(rr, httptest.NewRequest(http.MethodGet, "/api/pipelines", nil))
	assert.JSONEq(t, `[{"id":10348918,"name":"Toshkent Forum"}]`, rr.Body.String())

	rr = httptest.NewRecorder()
	h.Managers(rr, httptest.NewRequest(http.MethodGet, "/api/managers", nil))
	assert.JSONEq(t, `[]`, rr.Body.String())
}

func TestPlanHandler_Save(t *testing.T) {
	svc := &stubPlans{}
	h := handler.NewPlanHandler(svc, zap.NewNop())

	body := `{"manager_id":0,"pipeline_id":"10348918","start_date":"2024-05-01","end_date":"2024-05-31","target_deals":"40","minimalka":""}`
	rr := httptest.NewRecorder()
	h.Save(rr, httptest.NewRequest(http.MethodPost, "/api/plan/save", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"success":true}`, rr.Body.String())
	require.NotNil(t, svc.saved)
	assert.Equal(t, domain.FlexString("0"), svc.saved.ManagerID)
	assert.Equal(t, domain.FlexNumber(10348918), svc.saved.PipelineID)
	assert.Equal(t, domain.FlexNumber(40), svc.saved.TargetDeals)
}

func TestPlanHandler_SaveValidation(t *testing.T) {
	svc := &stubPlans{}
	h := handler.NewPlanHandler(svc, zap.NewNop())

	rr := httptest.NewRecorder()
	h.Save(rr, httptest.NewRequest(http.MethodPost, "/api/plan/save", strings.NewReader(`{"pipeline_id":1}`)))

	require.Equal(t, http.StatusBadRequest, rr.Code)
	var problem domain.APIError
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &problem))
	assert.Equal(t, domain.ErrorTypeValidation, problem.Type)
	assert.Contains(t, problem.Errors, "manager_id")
	assert.Contains(t, problem.Errors, "start_date")
	assert.Nil(t, svc.saved)
}

func TestPlanHandler_SaveBadJSON(t *testing.T) {
	h := handler.NewPlanHandler(&stubPlans{}, zap.NewNop())

	rr := httptest.NewRecorder()
	h.Save(rr, httptest.NewRequest(http.MethodPost, "/api/plan/save", bytes.NewBufferString("not json")))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestPlanHandler_SaveStorageFailure(t *testing.T) {
	svc := &stubPlans{saveErr: fmt.Errorf("%w: disk full", service.ErrStorageUnavailable)}
	h := handler.NewPlanHandler(svc, zap.NewNop())

	body := `{"manager_id":"7","pipeline_id":1,"start_date":"2024-05-01"}`
	rr := httptest.NewRecorder()
	h.Save(rr, httptest.NewRequest(http.MethodPost, "/api/plan/save", strings.NewReader(body)))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Contains(t, rr.Body.String(), `"success":false`)
	assert.Contains(t, rr.Body.String(), "disk full")
}

func TestPlanHandler_Status(t *testing.T) {
	svc := &stubPlans{statuses: []domain.PlanStatus{}}
	h := handler.NewPlanHandler(svc, zap.NewNop())

	rr := httptest.NewRecorder()
	h.Status(rr, httptest.NewRequest(http.MethodGet, "/api/plan/status?pipeline_id=1&from=1714521600", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[]`, rr.Body.String())
	assert.Equal(t, []int64{1}, svc.query.PipelineIDs)
	require.NotNil(t, svc.query.From)
	assert.Equal(t, int64(1714521600), *svc.query.From)
	assert.Nil(t, svc.query.To)
}

func TestPlanHandler_Delete(t *testing.T) {
	svc := &stubPlans{}
	h := handler.NewPlanHandler(svc, zap.NewNop())

	rr := httptest.NewRecorder()
	h.Delete(rr, httptest.NewRequest(http.MethodDelete, "/api/plan/delete?manager_id=7&start_date=2024-05-01", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, []string{"7", "2024-05-01"}, svc.deleted)

	rr = httptest.NewRecorder()
	h.Delete(rr, httptest.NewRequest(http.MethodDelete, "/api/plan/delete?manager_id=7", nil))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
