package router_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/forumdash/amo-analytics-api/internal/auth"
	"github.com/forumdash/amo-analytics-api/internal/config"
	"github.com/forumdash/amo-analytics-api/internal/domain"
	"github.com/forumdash/amo-analytics-api/internal/http/handler"
	"github.com/forumdash/amo-analytics-api/internal/http/middleware"
	"github.com/forumdash/amo-analytics-api/internal/http/router"
	"github.com/forumdash/amo-analytics-api/internal/jobs"
	"github.com/forumdash/amo-analytics-api/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubServices struct{}

func (stubServices) Login(username, password string) (*domain.LoginResponse, error) {
	if password != "admin123" {
		return nil, service.ErrInvalidCredentials
	}
	return &domain.LoginResponse{Success: true, Message: "Welcome", User: domain.LoginUser{Name: "Administrator"}}, nil
}

func (stubServices) Summary(ctx context.Context, q service.ReportQuery) *domain.KPISummary {
	return &domain.KPISummary{Total: len(q.PipelineIDs)}
}

func (stubServices) Breakdown(ctx context.Context, q service.ReportQuery, st service.StatusType) *domain.MarketingBreakdown {
	return domain.EmptyMarketingBreakdown()
}

func (stubServices) Funnel(ctx context.Context, pipelineIDs, managerIDs []int64) ([]domain.FunnelStage, error) {
	return []domain.FunnelStage{}, nil
}

func (stubServices) Pipelines(ctx context.Context) []domain.Reference { return []domain.Reference{} }

func (stubServices) Managers(ctx context.Context) []domain.Reference { return []domain.Reference{} }

func (stubServices) Save(ctx context.Context, req *domain.SavePlanRequest) (*domain.Plan, error) {
	return req.ToPlan(), nil
}

func (stubServices) Delete(ctx context.Context, managerID, startDate string) error { return nil }

func (stubServices) Status(ctx context.Context, q service.PlanStatusQuery) ([]domain.PlanStatus, error) {
	return []domain.PlanStatus{}, nil
}

type pingStub struct{ err error }

func (p pingStub) Ping(ctx context.Context) error { return p.err }

type probeStub struct {
	res jobs.ProbeResult
	ok  bool
}

func (p probeStub) Last() (jobs.ProbeResult, bool) { return p.res, p.ok }

func testConfig() *config.Config {
	return &config.Config{
		App:    config.AppConfig{Environment: "development"},
		Server: config.ServerConfig{EnableSwagger: true},
		CORS:   config.CORSConfig{AllowedOrigins: []string{"*"}, AllowedMethods: []string{"GET", "POST", "DELETE"}},
	}
}

func newRouter(t *testing.T, requireToken bool, probe router.ProbeReporter, store router.Pinger) (http.Handler, *auth.TokenIssuer) {
	t.Helper()
	logger := zap.NewNop()
	cfg := testConfig()
	issuer := auth.NewTokenIssuer("router-secret", time.Hour)
	svc := stubServices{}

	rt := router.NewRouter(
		cfg,
		logger,
		auth.NewMiddleware(issuer, requireToken, logger),
		middleware.NewRateLimiter(&cfg.RateLimit, logger),
		router.Handlers{
			Auth:      handler.NewAuthHandler(svc, logger),
			KPI:       handler.NewKPIHandler(svc, logger),
			Marketing: handler.NewMarketingHandler(svc, logger),
			Dashboard: handler.NewDashboardHandler(svc, logger),
			Reference: handler.NewReferenceHandler(svc, logger),
			Plan:      handler.NewPlanHandler(svc, logger),
		},
		probe,
		store,
	)
	return rt.Setup(), issuer
}

func do(h http.Handler, method, target, body, token string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestRouter_Root(t *testing.T) {
	h, _ := newRouter(t, false, nil, pingStub{})

	w := do(h, http.MethodGet, "/", "", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Backend is running", w.Body.String())
}

func TestRouter_Routes(t *testing.T) {
	h, _ := newRouter(t, false, nil, pingStub{})

	tests := []struct {
		method string
		target string
		body   string
		want   int
	}{
		{http.MethodGet, "/health", "", http.StatusOK},
		{http.MethodPost, "/api/login", `{"username":"admin","password":"admin123"}`, http.StatusOK},
		{http.MethodPost, "/api/login", `{"username":"admin","password":"nope"}`, http.StatusUnauthorized},
		{http.MethodGet, "/api/kpi/leads?pipeline_id=1", "", http.StatusOK},
		{http.MethodGet, "/api/marketing/analytics", "", http.StatusOK},
		{http.MethodGet, "/api/dashboard/funnel", "", http.StatusOK},
		{http.MethodGet, "/api/pipelines", "", http.StatusOK},
		{http.MethodGet, "/api/managers", "", http.StatusOK},
		{http.MethodPost, "/api/plan/save", `{"manager_id":"7","pipeline_id":1,"start_date":"2024-05-01"}`, http.StatusOK},
		{http.MethodGet, "/api/plan/status", "", http.StatusOK},
		{http.MethodDelete, "/api/plan/delete?manager_id=7&start_date=2024-05-01", "", http.StatusOK},
		{http.MethodGet, "/api/plan/delete", "", http.StatusMethodNotAllowed},
		{http.MethodGet, "/api/unknown", "", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.target, func(t *testing.T) {
			w := do(h, tt.method, tt.target, tt.body, "")
			assert.Equal(t, tt.want, w.Code, w.Body.String())
		})
	}
}

func TestRouter_SwaggerDoc(t *testing.T) {
	h, _ := newRouter(t, true, nil, pingStub{})

	w := do(h, http.MethodGet, "/swagger/doc.json", "", "")

	require.Equal(t, http.StatusOK, w.Code)
	var doc struct {
		BasePath string                     `json:"basePath"`
		Paths    map[string]json.RawMessage `json:"paths"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	assert.Equal(t, "/api", doc.BasePath)
	for _, path := range []string{"/login", "/kpi/leads", "/marketing/analytics", "/dashboard/funnel", "/pipelines", "/managers", "/plan/save", "/plan/status", "/plan/delete"} {
		assert.Contains(t, doc.Paths, path)
	}
}

func TestRouter_RequireToken(t *testing.T) {
	h, issuer := newRouter(t, true, nil, pingStub{})

	w := do(h, http.MethodGet, "/api/kpi/leads?pipeline_id=1", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// login stays public
	w = do(h, http.MethodPost, "/api/login", `{"username":"admin","password":"admin123"}`, "")
	assert.Equal(t, http.StatusOK, w.Code)

	token, err := issuer.Issue(&auth.UserContext{Username: "admin", DisplayName: "Administrator"})
	require.NoError(t, err)
	w = do(h, http.MethodGet, "/api/kpi/leads?pipeline_id=1", "", token)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_Ready(t *testing.T) {
	tests := []struct {
		name   string
		probe  router.ProbeReporter
		store  router.Pinger
		want   int
		crmKey string
	}{
		{"probe disabled", nil, pingStub{}, http.StatusOK, "disabled"},
		{"probe pending", probeStub{}, pingStub{}, http.StatusOK, "pending"},
		{"probe healthy", probeStub{ok: true, res: jobs.ProbeResult{Healthy: true}}, pingStub{}, http.StatusOK, "healthy"},
		{"probe failed", probeStub{ok: true, res: jobs.ProbeResult{Error: "401"}}, pingStub{}, http.StatusServiceUnavailable, "unhealthy"},
		{"storage down", nil, pingStub{err: errors.New("container missing")}, http.StatusServiceUnavailable, "disabled"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := newRouter(t, false, tt.probe, tt.store)

			w := do(h, http.MethodGet, "/health/ready", "", "")

			assert.Equal(t, tt.want, w.Code)
			var body struct {
				Status string                            `json:"status"`
				Checks map[string]map[string]interface{} `json:"checks"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.crmKey, body.Checks["crm"]["status"])
		})
	}
}
