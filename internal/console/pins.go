package console

import (
	"context"
	"fmt"
	"strings"

	"github.com/lbatschelet/feelvonroll-admin/internal/platform"
	"github.com/lbatschelet/feelvonroll-admin/internal/state"
)

type PinAPI interface {
	ListPins(ctx context.Context, token string) ([]platform.Pin, error)
	UpdateApproval(ctx context.Context, token string, ids []string, approved int) error
	DeletePins(ctx context.Context, token string, ids []string) error
	ExportPinsCSV(ctx context.Context, token string) ([]byte, error)
	AddAudit(ctx context.Context, token string, e platform.AuditEntry) error
}

// PinsController drives the moderation list. The full pin set is fetched
// once; filter, query, sort and pagination are applied client-side on every
// render.
type PinsController struct {
	store *state.Store
	api   PinAPI
	tok   TokenSource
}

func NewPinsController(store *state.Store, api PinAPI, tok TokenSource) *PinsController {
	return &PinsController{store: store, api: api, tok: tok}
}

func (c *PinsController) Load(ctx context.Context) error {
	pins, err := c.api.ListPins(ctx, c.tok())
	if err != nil {
		return err
	}
	c.store.Lock()
	c.store.Pins = pins
	c.store.Unlock()
	return nil
}

type PinsPage struct {
	Pins     []platform.Pin `json:"pins"`
	Filter   string         `json:"filter"`
	Query    string         `json:"query,omitempty"`
	Sort     string         `json:"sort"`
	Page     int            `json:"page"`
	MaxPage  int            `json:"max_page"`
	PageSize int            `json:"page_size"`
	Total    int            `json:"total"`
	Status   string         `json:"status,omitempty"`
}

// SetView updates the moderation view settings; zero values leave the
// current setting untouched except query, which is always replaced.
func (c *PinsController) SetView(filter, query, sortKey string, page, pageSize int) {
	c.store.Lock()
	defer c.store.Unlock()
	if filter != "" {
		c.store.PinFilter = filter
	}
	c.store.PinQuery = query
	if sortKey != "" {
		c.store.PinSort = sortKey
	}
	if page > 0 {
		c.store.PinPage = page
	}
	if pageSize > 0 {
		c.store.PageSize = pageSize
	}
}

func (c *PinsController) Render() PinsPage {
	c.store.Lock()
	defer c.store.Unlock()
	filtered := state.FilterPins(c.store.Pins, c.store.PinFilter, c.store.PinQuery)
	sorted := state.SortPins(filtered, c.store.PinSort)
	page, idx, maxPage := state.PaginatePins(sorted, c.store.PinPage, c.store.PageSize)
	c.store.PinPage = idx
	return PinsPage{
		Pins:     page,
		Filter:   c.store.PinFilter,
		Query:    c.store.PinQuery,
		Sort:     c.store.PinSort,
		Page:     idx,
		MaxPage:  maxPage,
		PageSize: c.store.PageSize,
		Total:    len(filtered),
		Status:   c.store.Status,
	}
}

// CycleStatus advances one pin through approved → rejected → pending and
// persists the new state immediately.
func (c *PinsController) CycleStatus(ctx context.Context, id string) error {
	c.store.Lock()
	next := 0
	found := false
	for _, p := range c.store.Pins {
		if p.ID == id {
			next = state.NextStatus(p.Approved)
			found = true
			break
		}
	}
	c.store.Unlock()
	if !found {
		return NewNotFoundError(fmt.Sprintf("pin %q not found", id))
	}
	token := c.tok()
	if err := c.api.UpdateApproval(ctx, token, []string{id}, next); err != nil {
		return err
	}
	c.store.Lock()
	for i := range c.store.Pins {
		if c.store.Pins[i].ID == id {
			c.store.Pins[i].Approved = next
		}
	}
	c.store.Unlock()
	c.audit(ctx, token, "pin_status", id, fmt.Sprintf("%d", next))
	return nil
}

// audit records a moderation action; a failed append never fails the action
// itself.
func (c *PinsController) audit(ctx context.Context, token, action, target, note string) {
	c.store.Lock()
	actor := c.store.Email
	c.store.Unlock()
	_ = c.api.AddAudit(ctx, token, platform.AuditEntry{Actor: actor, Action: action, Target: target, Note: note})
}

// Bulk applies one action to all selected pins in a single batched call.
// Actions: approve, reject, pending, delete.
func (c *PinsController) Bulk(ctx context.Context, action string, ids []string) error {
	if len(ids) == 0 {
		return NewInvalidError("no pins selected")
	}
	token := c.tok()
	switch action {
	case "approve":
		if err := c.api.UpdateApproval(ctx, token, ids, state.StatusApproved); err != nil {
			return err
		}
		c.applyApproval(ids, state.StatusApproved)
	case "reject":
		if err := c.api.UpdateApproval(ctx, token, ids, state.StatusRejected); err != nil {
			return err
		}
		c.applyApproval(ids, state.StatusRejected)
	case "pending":
		if err := c.api.UpdateApproval(ctx, token, ids, state.StatusPending); err != nil {
			return err
		}
		c.applyApproval(ids, state.StatusPending)
	case "delete":
		if err := c.api.DeletePins(ctx, token, ids); err != nil {
			return err
		}
		c.store.Lock()
		drop := make(map[string]bool, len(ids))
		for _, id := range ids {
			drop[id] = true
		}
		kept := c.store.Pins[:0]
		for _, p := range c.store.Pins {
			if !drop[p.ID] {
				kept = append(kept, p)
			}
		}
		c.store.Pins = kept
		c.store.Unlock()
	default:
		return NewInvalidError(fmt.Sprintf("unknown bulk action %q", action))
	}
	c.audit(ctx, token, "pin_bulk_"+action, strings.Join(ids, ","), fmt.Sprintf("%d pins", len(ids)))
	return nil
}

func (c *PinsController) applyApproval(ids []string, approved int) {
	c.store.Lock()
	defer c.store.Unlock()
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	for i := range c.store.Pins {
		if set[c.store.Pins[i].ID] {
			c.store.Pins[i].Approved = approved
		}
	}
}

// ExportCSV passes the upstream CSV blob through untouched.
func (c *PinsController) ExportCSV(ctx context.Context) ([]byte, error) {
	return c.api.ExportPinsCSV(ctx, c.tok())
}
