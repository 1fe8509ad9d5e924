package browser

import (
	"fmt"
	"testing"

	"diary/internal/entry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func e(ts string) entry.Entry {
	return entry.Entry{
		EntryID:   ts,
		Date:      ts[:10],
		Timestamp: ts,
		MonthYear: ts[:7],
	}
}

func sample() []entry.Entry {
	return []entry.Entry{
		e("2024-03-15 09:05:00"),
		e("2024-03-15 08:00:00"),
		e("2024-03-02 12:00:00"),
		e("2024-02-29 23:59:59"),
		e("2023-12-31 10:00:00"),
	}
}

func TestBuildIndex_Groups(t *testing.T) {
	idx := BuildIndex(sample())

	assert.Equal(t, []string{"2024-03", "2024-02", "2023-12"}, idx.MonthsDescending())
	assert.Len(t, idx.Months["2024-03"], 3)
	assert.Equal(t, []string{"2024-03-15", "2024-03-02"}, idx.DaysInMonth("2024-03"))
	assert.Equal(t, []string{"2024-02-29"}, idx.DaysInMonth("2024-02"))
	assert.Empty(t, idx.DaysInMonth("2022-01"))
	assert.Empty(t, idx.DaysInMonth(""))

	day := idx.Days["2024-03-15"]
	require.Len(t, day, 2)
	assert.Equal(t, "2024-03-15 09:05:00", day[0].Timestamp, "listing order kept")
}

func TestBuildIndex_NoLossNoDuplication(t *testing.T) {
	var list []entry.Entry
	for i := 0; i < 40; i++ {
		ts := fmt.Sprintf("20%02d-%02d-%02d 10:00:%02d", 20+i%5, 1+i%12, 1+i%28, i)
		list = append(list, e(ts))
	}
	idx := BuildIndex(list)

	months, days := 0, 0
	seen := map[string]int{}
	for _, g := range idx.Months {
		months += len(g)
		for _, x := range g {
			seen[x.EntryID]++
		}
	}
	for _, g := range idx.Days {
		days += len(g)
	}
	assert.Equal(t, len(list), months)
	assert.Equal(t, len(list), days)
	for id, n := range seen {
		assert.Equal(t, 1, n, id)
	}
}

func TestBuildIndex_MonthFallsBackToDate(t *testing.T) {
	legacy := entry.Entry{EntryID: "old", Date: "2021-05-06", Timestamp: "2021-05-06 01:00:00"}
	idx := BuildIndex([]entry.Entry{legacy})

	assert.Equal(t, []string{"2021-05"}, idx.MonthsDescending())
}

func TestBuildIndex_Empty(t *testing.T) {
	idx := BuildIndex(nil)
	assert.True(t, idx.Empty())
	assert.Empty(t, idx.MonthsDescending())
	assert.Equal(t, "", ResolveMonth(idx, "2024-03"))
}

func TestResolveMonth(t *testing.T) {
	idx := BuildIndex(sample())

	assert.Equal(t, "2024-03", ResolveMonth(idx, ""))
	assert.Equal(t, "2024-02", ResolveMonth(idx, "2024-02"))
	assert.Equal(t, "2024-03", ResolveMonth(idx, "1999-01"), "vanished month falls back")
}

func TestResolveMonth_AfterDeletingLastOfSelected(t *testing.T) {
	list := []entry.Entry{e("2024-03-15 09:05:00"), e("2024-02-01 10:00:00")}
	selected := ResolveMonth(BuildIndex(list), "2024-03")
	require.Equal(t, "2024-03", selected)

	selected = ResolveMonth(BuildIndex(list[1:]), selected)
	assert.Equal(t, "2024-02", selected)
}
