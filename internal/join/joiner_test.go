package join

import (
	"testing"
	"time"

	"github.com/Veraticus/credit-limit-engine/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func change(code, date string, row int) model.LimitChange {
	return model.LimitChange{Code: model.Cell(code), ResolvedOn: model.Cell(date), Row: row}
}

func customer(id string) model.Customer {
	return model.Customer{ID: model.Cell(id)}
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestReduceHistory_KeepsMostRecent(t *testing.T) {
	reduced := ReduceHistory([]model.LimitChange{
		change("7", "2024-01-01", 1),
		change("007", "2024-06-01", 2),
	})

	require.Len(t, reduced, 1)
	entry := reduced["7"]
	require.NotNil(t, entry.ResolvedAt)
	assert.Equal(t, day(2024, time.June, 1), *entry.ResolvedAt)
	assert.Equal(t, 2, entry.Change.Row)
}

func TestReduceHistory_UndatedRowsSortLast(t *testing.T) {
	reduced := ReduceHistory([]model.LimitChange{
		change("10", "not a date", 1),
		change("10", "2023-03-15", 2),
		change("11", "", 3),
	})

	require.Len(t, reduced, 2)
	require.NotNil(t, reduced["10"].ResolvedAt)
	assert.Equal(t, day(2023, time.March, 15), *reduced["10"].ResolvedAt)

	entry, ok := reduced["11"]
	require.True(t, ok, "undated customers are still retained")
	assert.Nil(t, entry.ResolvedAt)
}

func TestReduceHistory_TiesKeepInputOrder(t *testing.T) {
	reduced := ReduceHistory([]model.LimitChange{
		change("5", "2024-02-01", 1),
		change("5.0", "2024-02-01", 2),
		change("5", "2024-02-01", 3),
	})

	assert.Equal(t, 1, reduced["5"].Change.Row)
}

func TestReduceHistory_DropsBlankKeys(t *testing.T) {
	reduced := ReduceHistory([]model.LimitChange{
		change("", "2024-02-01", 1),
		change("000", "2024-02-01", 2),
	})

	assert.Empty(t, reduced)
}

func TestIndexCoverage_FirstRowWins(t *testing.T) {
	index := IndexCoverage([]model.Coverage{
		{Name: model.Cell("0042"), Promissory: "SI", Row: 1},
		{Name: model.Cell("42"), Promissory: "NO", Row: 2},
		{Name: model.Cell(""), Promissory: "SI", Row: 3},
	})

	require.Len(t, index, 1)
	assert.Equal(t, "SI", index["42"].Promissory)
}

func TestJoiner_Match(t *testing.T) {
	asOf := time.Date(2024, time.July, 1, 15, 30, 0, 0, time.UTC)
	joiner := NewJoiner(
		[]model.LimitChange{
			change("100", "2024-06-01", 1),
			change("200", "2024-01-01", 2),
			change("300", "garbage", 3),
		},
		[]model.Coverage{
			{Name: model.Cell("100"), Promissory: "SI", Contract: "SI", GuarantorID: "NO"},
		},
		asOf,
	)

	assert.Equal(t, 3, joiner.HistorySize())
	assert.Equal(t, 1, joiner.CoverageSize())

	t.Run("recent change with coverage", func(t *testing.T) {
		m := joiner.Match(customer("00100"))
		require.NotNil(t, m.LastModification)
		require.NotNil(t, m.DaysSinceModification)
		assert.Equal(t, 30, *m.DaysSinceModification)
		assert.True(t, m.RecentlyModified)
		require.NotNil(t, m.Coverage)
		assert.Equal(t, "SI", m.Coverage.Contract)
	})

	t.Run("old change", func(t *testing.T) {
		m := joiner.Match(customer("200"))
		require.NotNil(t, m.DaysSinceModification)
		assert.Equal(t, 182, *m.DaysSinceModification)
		assert.False(t, m.RecentlyModified)
		assert.Nil(t, m.Coverage)
	})

	t.Run("undated change", func(t *testing.T) {
		m := joiner.Match(customer("300"))
		assert.Nil(t, m.LastModification)
		assert.Nil(t, m.DaysSinceModification)
		assert.False(t, m.RecentlyModified)
	})

	t.Run("no match", func(t *testing.T) {
		m := joiner.Match(customer("999"))
		assert.Equal(t, Match{}, m)
	})

	t.Run("blank identifier never matches", func(t *testing.T) {
		m := joiner.Match(customer(""))
		assert.Equal(t, Match{}, m)
	})
}

func TestJoiner_RecencyBoundary(t *testing.T) {
	asOf := day(2024, time.April, 1)
	joiner := NewJoiner([]model.LimitChange{
		change("1", asOf.AddDate(0, 0, -90).Format("2006-01-02"), 1),
		change("2", asOf.AddDate(0, 0, -91).Format("2006-01-02"), 2),
		change("3", asOf.AddDate(0, 0, 5).Format("2006-01-02"), 3),
	}, nil, asOf)

	assert.True(t, joiner.Match(customer("1")).RecentlyModified)
	assert.False(t, joiner.Match(customer("2")).RecentlyModified)

	future := joiner.Match(customer("3"))
	require.NotNil(t, future.DaysSinceModification)
	assert.Equal(t, -5, *future.DaysSinceModification)
	assert.True(t, future.RecentlyModified)
}
