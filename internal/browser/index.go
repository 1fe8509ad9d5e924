// Package browser groups a flat entry listing into months and days and keeps
// track of which month is selected.
package browser

import (
	"sort"
	"strings"

	"diary/internal/entry"
)

// Index groups entries by month (YYYY-MM) and by day (YYYY-MM-DD). Within a
// group entries keep the order they were listed in.
type Index struct {
	Months map[string][]entry.Entry
	Days   map[string][]entry.Entry
}

func BuildIndex(entries []entry.Entry) Index {
	idx := Index{
		Months: make(map[string][]entry.Entry),
		Days:   make(map[string][]entry.Entry),
	}
	for _, e := range entries {
		m := e.Month()
		idx.Months[m] = append(idx.Months[m], e)
		idx.Days[e.Date] = append(idx.Days[e.Date], e)
	}
	return idx
}

func (idx Index) Empty() bool { return len(idx.Months) == 0 }

// MonthsDescending lists month keys newest first. YYYY-MM sorts
// lexicographically in date order.
func (idx Index) MonthsDescending() []string {
	return descendingKeys(idx.Months, "")
}

// DaysInMonth lists the dates starting with month, newest first.
func (idx Index) DaysInMonth(month string) []string {
	if month == "" {
		return nil
	}
	return descendingKeys(idx.Days, month)
}

func descendingKeys(m map[string][]entry.Entry, prefix string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		if strings.HasPrefix(k, prefix) {
			out = append(out, k)
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(out)))
	return out
}

// ResolveMonth returns selected when the index still has it, otherwise the
// most recent month. It returns "" only for an empty index.
func ResolveMonth(idx Index, selected string) string {
	if selected != "" {
		if _, ok := idx.Months[selected]; ok {
			return selected
		}
	}
	months := idx.MonthsDescending()
	if len(months) == 0 {
		return ""
	}
	return months[0]
}
