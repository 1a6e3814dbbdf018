package console

import (
	"context"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/lbatschelet/feelvonroll-admin/internal/platform"
	"github.com/lbatschelet/feelvonroll-admin/internal/state"
)

type AuditAPI interface {
	ListAudit(ctx context.Context, token string, limit, offset int) ([]platform.AuditEntry, int, error)
}

// AuditController pages through the server-side audit log. Pagination here is
// upstream-driven (limit/offset), unlike the pin list which paginates
// client-side over a full fetch.
type AuditController struct {
	store *state.Store
	api   AuditAPI
	tok   TokenSource
	now   func() time.Time

	limit  int
	offset int
}

func NewAuditController(store *state.Store, api AuditAPI, tok TokenSource) *AuditController {
	return &AuditController{
		store: store,
		api:   api,
		tok:   tok,
		now:   func() time.Time { return time.Now().UTC() },
		limit: 50,
	}
}

func (c *AuditController) Load(ctx context.Context) error {
	entries, total, err := c.api.ListAudit(ctx, c.tok(), c.limit, c.offset)
	if err != nil {
		return err
	}
	c.store.Lock()
	c.store.Audit = entries
	c.store.AuditTotal = total
	c.store.Unlock()
	return nil
}

// SetPage moves the limit/offset window; out-of-range offsets are clamped on
// render by the total count.
func (c *AuditController) SetPage(limit, offset int) {
	if limit > 0 {
		c.limit = limit
	}
	if offset >= 0 {
		c.offset = offset
	}
}

type AuditRow struct {
	platform.AuditEntry
	When string `json:"when"` // humanized relative time for display
}

type AuditPage struct {
	Entries []AuditRow `json:"entries"`
	Total   int        `json:"total"`
	Limit   int        `json:"limit"`
	Offset  int        `json:"offset"`
	Status  string     `json:"status,omitempty"`
}

func (c *AuditController) Render() AuditPage {
	c.store.Lock()
	defer c.store.Unlock()
	out := AuditPage{
		Total:  c.store.AuditTotal,
		Limit:  c.limit,
		Offset: c.offset,
		Status: c.store.Status,
	}
	now := c.now()
	for _, e := range c.store.Audit {
		out.Entries = append(out.Entries, AuditRow{
			AuditEntry: e,
			When:       humanize.RelTime(e.CreatedAt, now, "ago", "from now"),
		})
	}
	return out
}
