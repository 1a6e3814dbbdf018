package state

import (
	"sort"
	"strconv"
	"strings"

	"github.com/lbatschelet/feelvonroll-admin/internal/platform"
)

// Approval states as stored upstream.
const (
	StatusApproved = 1
	StatusRejected = -1
	StatusPending  = 0
)

// NextStatus advances the one-click moderation toggle. The cycle is
// approved → rejected → pending → approved.
func NextStatus(approved int) int {
	switch approved {
	case StatusApproved:
		return StatusRejected
	case StatusRejected:
		return StatusPending
	default:
		return StatusApproved
	}
}

// FilterPins applies the status filter and the free-text query client-side
// over the full fetched pin set. The query is a case-insensitive substring
// match across id, floor, wellbeing, note, reasons and group.
func FilterPins(pins []platform.Pin, filter, query string) []platform.Pin {
	query = strings.ToLower(strings.TrimSpace(query))
	out := make([]platform.Pin, 0, len(pins))
	for _, p := range pins {
		switch filter {
		case "pending":
			if p.Approved != StatusPending {
				continue
			}
		case "approved":
			if p.Approved != StatusApproved {
				continue
			}
		case "rejected":
			if p.Approved != StatusRejected {
				continue
			}
		}
		if query != "" && !pinMatches(p, query) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func pinMatches(p platform.Pin, query string) bool {
	fields := []string{
		p.ID,
		p.Floor,
		strconv.Itoa(p.Wellbeing),
		p.Note,
		strings.Join(p.Reasons, " "),
		p.Group,
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), query) {
			return true
		}
	}
	return false
}

// SortPins orders pins by the given key: newest, oldest, floor or wellbeing.
// Unknown keys fall back to newest.
func SortPins(pins []platform.Pin, key string) []platform.Pin {
	out := make([]platform.Pin, len(pins))
	copy(out, pins)
	switch key {
	case "oldest":
		sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	case "floor":
		sort.SliceStable(out, func(i, j int) bool { return out[i].Floor < out[j].Floor })
	case "wellbeing":
		sort.SliceStable(out, func(i, j int) bool { return out[i].Wellbeing < out[j].Wellbeing })
	default: // newest
		sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	}
	return out
}

// PaginatePins slices one page out of the filtered set. The page index is
// clamped into [1, maxPage]; maxPage is at least 1 even for an empty set.
func PaginatePins(pins []platform.Pin, page, pageSize int) ([]platform.Pin, int, int) {
	if pageSize < 1 {
		pageSize = 1
	}
	maxPage := (len(pins) + pageSize - 1) / pageSize
	if maxPage < 1 {
		maxPage = 1
	}
	if page < 1 {
		page = 1
	}
	if page > maxPage {
		page = maxPage
	}
	start := (page - 1) * pageSize
	end := start + pageSize
	if start > len(pins) {
		start = len(pins)
	}
	if end > len(pins) {
		end = len(pins)
	}
	return pins[start:end], page, maxPage
}
