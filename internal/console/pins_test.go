package console

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/lbatschelet/feelvonroll-admin/internal/platform"
	"github.com/lbatschelet/feelvonroll-admin/internal/state"
)

func pinFixtures() []platform.Pin {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return []platform.Pin{
		{ID: "p1", Floor: "EG", Wellbeing: 8, Approved: state.StatusApproved, CreatedAt: base},
		{ID: "p2", Floor: "OG1", Wellbeing: 3, Approved: state.StatusPending, CreatedAt: base.Add(time.Hour)},
		{ID: "p3", Floor: "OG2", Wellbeing: 5, Approved: state.StatusRejected, CreatedAt: base.Add(2 * time.Hour)},
	}
}

func TestPinCycleStatusPersistsAndUpdatesLocal(t *testing.T) {
	store := testStore()
	api := newStubAPI()
	api.pins = pinFixtures()
	c := NewPinsController(store, api, testToken)
	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if err := c.CycleStatus(context.Background(), "p1"); err != nil {
		t.Fatalf("CycleStatus: %v", err)
	}
	if api.calls[0] != "update_approval:p1:-1" {
		t.Fatalf("calls = %v", api.calls)
	}
	if api.calls[1] != "add_audit:pin_status" {
		t.Fatalf("moderation must leave an audit entry, calls = %v", api.calls)
	}
	for _, p := range store.Pins {
		if p.ID == "p1" && p.Approved != state.StatusRejected {
			t.Fatalf("local approved = %d, want rejected", p.Approved)
		}
	}
}

func TestPinCycleUnknownID(t *testing.T) {
	store := testStore()
	api := newStubAPI()
	c := NewPinsController(store, api, testToken)

	err := c.CycleStatus(context.Background(), "nope")
	ce, ok := AsConsoleError(err)
	if !ok || ce.Code != ErrorNotFound {
		t.Fatalf("want not found, got %v", err)
	}
	if len(api.calls) != 0 {
		t.Fatalf("unknown pin must not reach the server, got %v", api.calls)
	}
}

func TestPinBulkApproveIsOneCall(t *testing.T) {
	store := testStore()
	api := newStubAPI()
	api.pins = pinFixtures()
	c := NewPinsController(store, api, testToken)
	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if err := c.Bulk(context.Background(), "approve", []string{"p2", "p3"}); err != nil {
		t.Fatalf("Bulk: %v", err)
	}
	approvals := 0
	for _, call := range api.calls {
		if strings.HasPrefix(call, "update_approval:") {
			approvals++
		}
	}
	if approvals != 1 || api.calls[0] != "update_approval:p2,p3:1" {
		t.Fatalf("bulk must batch into one call, got %v", api.calls)
	}
	for _, p := range store.Pins {
		if (p.ID == "p2" || p.ID == "p3") && p.Approved != state.StatusApproved {
			t.Fatalf("pin %s not approved locally", p.ID)
		}
	}
}

func TestPinBulkDeleteRemovesLocal(t *testing.T) {
	store := testStore()
	api := newStubAPI()
	api.pins = pinFixtures()
	c := NewPinsController(store, api, testToken)
	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if err := c.Bulk(context.Background(), "delete", []string{"p1", "p3"}); err != nil {
		t.Fatalf("Bulk: %v", err)
	}
	if len(store.Pins) != 1 || store.Pins[0].ID != "p2" {
		t.Fatalf("pins after delete = %+v", store.Pins)
	}
}

func TestPinBulkRejectsEmptySelectionAndUnknownAction(t *testing.T) {
	c := NewPinsController(testStore(), newStubAPI(), testToken)
	if err := c.Bulk(context.Background(), "approve", nil); err == nil {
		t.Fatal("empty selection must be rejected")
	}
	if err := c.Bulk(context.Background(), "archive", []string{"p1"}); err == nil {
		t.Fatal("unknown action must be rejected")
	}
}

func TestPinRenderClampsPage(t *testing.T) {
	store := testStore()
	api := newStubAPI()
	api.pins = pinFixtures()
	c := NewPinsController(store, api, testToken)
	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	c.SetView("", "", "", 99, 2)
	page := c.Render()
	if page.Page != 2 || page.MaxPage != 2 {
		t.Fatalf("page = %d/%d, want clamp to 2/2", page.Page, page.MaxPage)
	}
	if store.PinPage != 2 {
		t.Fatalf("clamped page not written back, got %d", store.PinPage)
	}
	if page.Total != 3 {
		t.Fatalf("total = %d", page.Total)
	}
}

func TestPinRenderFiltersAndSorts(t *testing.T) {
	store := testStore()
	api := newStubAPI()
	api.pins = pinFixtures()
	c := NewPinsController(store, api, testToken)
	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	c.SetView("pending", "", "", 1, 0)
	page := c.Render()
	if len(page.Pins) != 1 || page.Pins[0].ID != "p2" {
		t.Fatalf("filtered pins = %+v", page.Pins)
	}

	c.SetView("all", "", "newest", 1, 0)
	page = c.Render()
	if page.Pins[0].ID != "p3" {
		t.Fatalf("newest first, got %s", page.Pins[0].ID)
	}
}
