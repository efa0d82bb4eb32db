package project

import (
	"slices"
	"strings"

	"github.com/samber/lo"
)

// OrderChange records the order value of one project before and after a batch.
type OrderChange struct {
	ID   string `json:"id"`
	From int    `json:"from"`
	To   int    `json:"to"`
}

// Move relocates the element at src to dst in a copy of items. It reports
// false, and returns items unchanged, when the move is a no-op or either
// index is out of range.
func Move(items []Project, src, dst int) ([]Project, bool) {
	n := len(items)
	if src < 0 || src >= n || dst < 0 || dst >= n || src == dst {
		return items, false
	}
	moved := items[src]
	rest := slices.Delete(slices.Clone(items), src, src+1)
	return slices.Insert(rest, dst, moved), true
}

// Renumber assigns order values FirstOrder..FirstOrder+N-1 following the
// position of each element.
func Renumber(items []Project) []Project {
	return lo.Map(items, func(p Project, i int) Project {
		p.Order = FirstOrder + i
		return p
	})
}

// Diff lists the projects whose order differs between before and after,
// in the display order of after. Projects absent from before are skipped.
func Diff(before, after []Project) []OrderChange {
	prev := lo.SliceToMap(before, func(p Project) (string, int) {
		return p.ID, p.Order
	})
	var changes []OrderChange
	for _, p := range after {
		from, ok := prev[p.ID]
		if !ok || from == p.Order {
			continue
		}
		changes = append(changes, OrderChange{ID: p.ID, From: from, To: p.Order})
	}
	return changes
}

// IsNormalized reports whether items carry exactly FirstOrder..N in sequence.
func IsNormalized(items []Project) bool {
	for i, p := range items {
		if p.Order != FirstOrder+i {
			return false
		}
	}
	return true
}

// SortByOrder returns a copy of items sorted by order, then creation time,
// then ID.
func SortByOrder(items []Project) []Project {
	out := slices.Clone(items)
	slices.SortStableFunc(out, func(a, b Project) int {
		if a.Order != b.Order {
			return a.Order - b.Order
		}
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return out
}

// NextOrder is the order value that places a new project at the bottom.
func NextOrder(items []Project) int {
	if len(items) == 0 {
		return FirstOrder
	}
	top := lo.MaxBy(items, func(a, b Project) bool { return a.Order > b.Order })
	return max(top.Order+1, FirstOrder+len(items))
}

// IndexOf returns the position of the project with the given ID, or -1.
func IndexOf(items []Project, id string) int {
	return slices.IndexFunc(items, func(p Project) bool { return p.ID == id })
}
