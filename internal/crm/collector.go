package crm

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/forumdash/amo-analytics-api/internal/domain"
	"go.uber.org/zap"
)

// LeadPage is the outcome of collecting every page of a lead query.
// Truncated is set when a request failed and collection stopped early; Leads
// then holds what was read before the failure.
type LeadPage struct {
	Leads     []domain.Lead
	Pages     int
	Truncated bool
	Err       error
}

// ContactPage is the outcome of a batched contact lookup
type ContactPage struct {
	Contacts  []domain.Contact
	Truncated bool
	Err       error
}

type leadsResponse struct {
	Page     int `json:"_page"`
	Embedded struct {
		Leads []domain.Lead `json:"leads"`
	} `json:"_embedded"`
}

type contactsResponse struct {
	Embedded struct {
		Contacts []domain.Contact `json:"contacts"`
	} `json:"_embedded"`
}

// FetchLeads requests pages 1, 2, 3... one after another until a page is empty or
// shorter than the page size. with lists related entities to embed
// (e.g. "contacts", "source").
func (c *Client) FetchLeads(ctx context.Context, filter LeadFilter, with ...string) LeadPage {
	var result LeadPage

	for page := 1; ; page++ {
		q := filter.Values()
		q.Set("limit", strconv.Itoa(c.pageSize))
		q.Set("page", strconv.Itoa(page))
		if len(with) > 0 {
			q.Set("with", strings.Join(with, ","))
		}

		var resp leadsResponse
		if err := c.Get(ctx, "/leads", q, &resp); err != nil {
			c.logger.Warn("lead pagination stopped early",
				zap.Int("page", page),
				zap.Int("collected", len(result.Leads)),
				zap.Error(err),
			)
			result.Truncated = true
			result.Err = err
			return result
		}
		result.Pages++

		fetched := resp.Embedded.Leads
		if len(fetched) == 0 {
			return result
		}
		result.Leads = append(result.Leads, fetched...)
		if len(fetched) < c.pageSize {
			return result
		}
	}
}

// FetchContacts looks contacts up by id in batches, pausing between batches.
// A failing batch is skipped and marks the result truncated.
func (c *Client) FetchContacts(ctx context.Context, ids []int64) ContactPage {
	var result ContactPage

	for start := 0; start < len(ids); start += c.contactBatchSize {
		if start > 0 {
			if err := sleep(ctx, c.contactBatchPause); err != nil {
				result.Truncated = true
				result.Err = err
				return result
			}
		}

		end := min(start+c.contactBatchSize, len(ids))
		q := url.Values{}
		for i, id := range ids[start:end] {
			q.Set(fmt.Sprintf("filter[id][%d]", i), strconv.FormatInt(id, 10))
		}
		q.Set("limit", strconv.Itoa(c.contactBatchSize))

		var resp contactsResponse
		if err := c.Get(ctx, "/contacts", q, &resp); err != nil {
			c.logger.Warn("contact batch failed",
				zap.Int("batch_start", start),
				zap.Int("batch_size", end-start),
				zap.Error(err),
			)
			result.Truncated = true
			result.Err = err
			if ctx.Err() != nil {
				return result
			}
			continue
		}
		result.Contacts = append(result.Contacts, resp.Embedded.Contacts...)
	}

	return result
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
