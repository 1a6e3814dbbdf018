package state

import (
	"testing"
	"time"

	"github.com/lbatschelet/feelvonroll-admin/internal/platform"
)

func TestNextStatusCycle(t *testing.T) {
	cases := []struct{ in, want int }{
		{1, -1},
		{-1, 0},
		{0, 1},
	}
	for _, c := range cases {
		if got := NextStatus(c.in); got != c.want {
			t.Fatalf("NextStatus(%d) = %d, want %d", c.in, got, c.want)
		}
	}
	// cyclic over exactly these three values
	v := 1
	for i := 0; i < 3; i++ {
		v = NextStatus(v)
	}
	if v != 1 {
		t.Fatalf("cycle of length 3 expected, ended at %d", v)
	}
}

func TestFilterPinsByStatus(t *testing.T) {
	pins := []platform.Pin{
		{ID: "p1", Approved: 0},
		{ID: "p2", Approved: 1},
		{ID: "p3", Approved: -1},
		{ID: "p4", Approved: 0},
	}
	got := FilterPins(pins, "pending", "")
	if len(got) != 2 || got[0].ID != "p1" || got[1].ID != "p4" {
		t.Fatalf("pending filter returned %+v", got)
	}
	if n := len(FilterPins(pins, "approved", "")); n != 1 {
		t.Fatalf("approved filter returned %d pins", n)
	}
	if n := len(FilterPins(pins, "rejected", "")); n != 1 {
		t.Fatalf("rejected filter returned %d pins", n)
	}
	if n := len(FilterPins(pins, "all", "")); n != 4 {
		t.Fatalf("all filter returned %d pins", n)
	}
}

func TestFilterPinsQuery(t *testing.T) {
	pins := []platform.Pin{
		{ID: "abc123", Floor: "EG", Wellbeing: 4, Note: "Too Loud here", Group: "visitors"},
		{ID: "def456", Floor: "OG1", Wellbeing: 2, Reasons: []string{"light", "noise"}},
		{ID: "ghi789", Floor: "OG2", Wellbeing: 5},
	}
	cases := []struct {
		query string
		want  []string
	}{
		{"LOUD", []string{"abc123"}},       // note, case-insensitive
		{"noise", []string{"def456"}},      // reasons
		{"og", []string{"def456", "ghi789"}}, // floor substring
		{"visit", []string{"abc123"}},      // group
		{"5", []string{"def456", "ghi789"}}, // id substring and wellbeing
	}
	for _, c := range cases {
		got := FilterPins(pins, "all", c.query)
		if len(got) != len(c.want) {
			t.Fatalf("query %q returned %d pins, want %d", c.query, len(got), len(c.want))
		}
		for i, id := range c.want {
			if got[i].ID != id {
				t.Fatalf("query %q pin %d = %s, want %s", c.query, i, got[i].ID, id)
			}
		}
	}
}

func TestSortPins(t *testing.T) {
	t0 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	pins := []platform.Pin{
		{ID: "a", Floor: "OG2", Wellbeing: 3, CreatedAt: t0},
		{ID: "b", Floor: "EG", Wellbeing: 5, CreatedAt: t0.Add(time.Hour)},
		{ID: "c", Floor: "OG1", Wellbeing: 1, CreatedAt: t0.Add(2 * time.Hour)},
	}
	if got := SortPins(pins, "newest"); got[0].ID != "c" {
		t.Fatalf("newest first = %s", got[0].ID)
	}
	if got := SortPins(pins, "oldest"); got[0].ID != "a" {
		t.Fatalf("oldest first = %s", got[0].ID)
	}
	if got := SortPins(pins, "floor"); got[0].ID != "b" {
		t.Fatalf("floor first = %s", got[0].ID)
	}
	if got := SortPins(pins, "wellbeing"); got[0].ID != "c" {
		t.Fatalf("wellbeing first = %s", got[0].ID)
	}
}

func TestPaginatePinsClamp(t *testing.T) {
	pins := make([]platform.Pin, 25)
	for i := range pins {
		pins[i].ID = string(rune('a' + i))
	}
	page, idx, max := PaginatePins(pins, 3, 10)
	if idx != 3 || max != 3 || len(page) != 5 {
		t.Fatalf("page 3: idx=%d max=%d len=%d", idx, max, len(page))
	}
	// index above max clamps down
	_, idx, _ = PaginatePins(pins, 99, 10)
	if idx != 3 {
		t.Fatalf("clamped index = %d, want 3", idx)
	}
	// index below 1 clamps up
	_, idx, _ = PaginatePins(pins, 0, 10)
	if idx != 1 {
		t.Fatalf("clamped index = %d, want 1", idx)
	}
	// empty set still has one page
	page, idx, max = PaginatePins(nil, 5, 10)
	if idx != 1 || max != 1 || len(page) != 0 {
		t.Fatalf("empty set: idx=%d max=%d len=%d", idx, max, len(page))
	}
}
