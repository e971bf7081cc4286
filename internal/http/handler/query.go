package handler

import (
	"net/http"
	"time"

	"github.com/forumdash/amo-analytics-api/internal/service"
)

// reportQuery reads pipeline_id, manager_id, from, to and the mode parameter.
// pipeline_id and manager_id accept a single id or a comma separated list.
func reportQuery(r *http.Request, modeParam string) service.ReportQuery {
	q := r.URL.Query()
	return service.ReportQuery{
		PipelineIDs: service.ParseIDList(q.Get("pipeline_id")),
		ManagerIDs:  service.ParseIDList(q.Get("manager_id")),
		Window:      service.ResolveWindow(q.Get("from"), q.Get("to"), time.Now()),
		Mode:        service.ParseMode(q.Get(modeParam)),
	}
}

// optionalTimestamp returns nil when the parameter is absent or not a timestamp
func optionalTimestamp(r *http.Request, name string) *int64 {
	ts, ok := service.ParseTimestamp(r.URL.Query().Get(name))
	if !ok {
		return nil
	}
	return &ts
}
