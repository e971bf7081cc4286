package service

import (
	"slices"
	"strconv"
	"strings"
	"time"
)

// Mode selects how leads are collected and what counts as a sale
type Mode string

const (
	// ModeStandard reports leads created in the window; reaching the success
	// status is the sale.
	ModeStandard Mode = "standard"
	// ModeLaunch reports every open lead plus leads closed in the window;
	// reaching the pipeline goal stage is the sale.
	ModeLaunch Mode = "launch"
)

// ParseMode maps the mode query value. "mixed" is an alias of launch and
// anything unknown falls back to standard.
func ParseMode(s string) Mode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "launch", "mixed":
		return ModeLaunch
	default:
		return ModeStandard
	}
}

// IsLaunch reports whether the mode is launch
func (m Mode) IsLaunch() bool {
	return m == ModeLaunch
}

// Window is an inclusive range of unix seconds
type Window struct {
	From int64
	To   int64
}

// Contains reports whether ts lies inside the window, bounds included
func (w Window) Contains(ts int64) bool {
	return ts >= w.From && ts <= w.To
}

// DayWindow returns today 00:00:00 through 23:59:59 in now's location
func DayWindow(now time.Time) Window {
	y, m, d := now.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	end := time.Date(y, m, d, 23, 59, 59, 0, now.Location())
	return Window{From: start.Unix(), To: end.Unix()}
}

// ParseTimestamp parses epoch seconds, or epoch milliseconds when the value has
// more than 10 digits.
func ParseTimestamp(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil {
			return 0, false
		}
		n = int64(f)
		s = strconv.FormatInt(n, 10)
	}
	if len(strings.TrimPrefix(s, "-")) > 10 {
		n /= 1000
	}
	return n, true
}

// ResolveWindow builds the report window from the from/to query values. A
// missing or unparseable bound falls back to the matching bound of today.
func ResolveWindow(from, to string, now time.Time) Window {
	w := DayWindow(now)
	if ts, ok := ParseTimestamp(from); ok {
		w.From = ts
	}
	if ts, ok := ParseTimestamp(to); ok {
		w.To = ts
	}
	return w
}

// ParseIDList parses a comma separated id list, skipping blanks and garbage
func ParseIDList(s string) []int64 {
	var ids []int64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

// ReportQuery is the parsed input shared by the analytics reports
type ReportQuery struct {
	PipelineIDs []int64
	ManagerIDs  []int64
	Window      Window
	Mode        Mode
}

// HasPipelines reports whether at least one pipeline was selected
func (q ReportQuery) HasPipelines() bool {
	return len(q.PipelineIDs) > 0
}

// selects reports whether the pipeline is part of the query
func (q ReportQuery) selects(pipelineID int64) bool {
	return slices.Contains(q.PipelineIDs, pipelineID)
}
