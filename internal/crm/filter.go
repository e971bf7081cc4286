package crm

import (
	"fmt"
	"net/url"
	"strconv"
)

// TimeRange is an inclusive range of unix seconds
type TimeRange struct {
	From int64
	To   int64
}

// LeadFilter narrows /leads. Empty slices and nil ranges are not sent.
type LeadFilter struct {
	PipelineIDs        []int64
	ResponsibleUserIDs []int64
	Statuses           []int64
	CreatedAt          *TimeRange
	ClosedAt           *TimeRange
}

// Values encodes the filter in the bracket notation amoCRM expects,
// e.g. filter[pipeline_id][0]=1&filter[closed_at][from]=1700000000
func (f LeadFilter) Values() url.Values {
	q := url.Values{}
	addIDs(q, "pipeline_id", f.PipelineIDs)
	addIDs(q, "responsible_user_id", f.ResponsibleUserIDs)
	addIDs(q, "status", f.Statuses)
	addRange(q, "created_at", f.CreatedAt)
	addRange(q, "closed_at", f.ClosedAt)
	return q
}

func addIDs(q url.Values, name string, ids []int64) {
	for i, id := range ids {
		q.Set(fmt.Sprintf("filter[%s][%d]", name, i), strconv.FormatInt(id, 10))
	}
}

func addRange(q url.Values, name string, r *TimeRange) {
	if r == nil {
		return
	}
	q.Set(fmt.Sprintf("filter[%s][from]", name), strconv.FormatInt(r.From, 10))
	q.Set(fmt.Sprintf("filter[%s][to]", name), strconv.FormatInt(r.To, 10))
}
