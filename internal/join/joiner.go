// Package join reconciles the primary portfolio table with the limit-history
// and coverage tables by normalized customer key.
package join

import (
	"math"
	"sort"
	"time"

	"github.com/Veraticus/credit-limit-engine/internal/model"
	"github.com/Veraticus/credit-limit-engine/internal/normalize"
)

// RecentWindowDays is how many days after a limit change a customer still
// counts as recently modified.
const RecentWindowDays = 90

// HistoryEntry is the retained limit change of one customer.
type HistoryEntry struct {
	ResolvedAt *time.Time
	Change     model.LimitChange
}

// ReduceHistory keeps the most recent limit change per customer key. Rows with
// an unparsable date sort after every dated row; ties keep input order, so the
// first row read wins. Rows without a usable key are dropped.
func ReduceHistory(rows []model.LimitChange) map[string]HistoryEntry {
	entries := make([]HistoryEntry, len(rows))
	for i, row := range rows {
		entries[i] = HistoryEntry{Change: row}
		if t, ok := ParseResolutionDate(row.ResolvedOn); ok {
			entries[i].ResolvedAt = &t
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i].ResolvedAt, entries[j].ResolvedAt
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.After(*b)
		}
	})

	reduced := make(map[string]HistoryEntry, len(entries))
	for _, entry := range entries {
		key := normalize.CustomerKey(entry.Change.Code)
		if key == "" {
			continue
		}
		if _, seen := reduced[key]; !seen {
			reduced[key] = entry
		}
	}
	return reduced
}

// IndexCoverage indexes coverage rows by customer key. The first row of a
// repeated key wins so every customer joins at most one coverage record.
func IndexCoverage(rows []model.Coverage) map[string]model.Coverage {
	index := make(map[string]model.Coverage, len(rows))
	for _, row := range rows {
		key := normalize.CustomerKey(row.Name)
		if key == "" {
			continue
		}
		if _, seen := index[key]; !seen {
			index[key] = row
		}
	}
	return index
}

// Match holds the joined fields of one customer. Unmatched fields stay nil.
type Match struct {
	LastModification      *time.Time
	DaysSinceModification *int
	Coverage              *model.Coverage
	RecentlyModified      bool
}

// Joiner left-joins customers against the reduced secondary tables.
type Joiner struct {
	asOf     time.Time
	history  map[string]HistoryEntry
	coverage map[string]model.Coverage
}

// NewJoiner reduces the secondary tables once. asOf is the evaluation instant
// used for the recency window.
func NewJoiner(history []model.LimitChange, coverage []model.Coverage, asOf time.Time) *Joiner {
	return &Joiner{
		asOf:     wallClock(asOf),
		history:  ReduceHistory(history),
		coverage: IndexCoverage(coverage),
	}
}

// HistorySize returns the number of customers with a retained limit change.
func (j *Joiner) HistorySize() int {
	return len(j.history)
}

// CoverageSize returns the number of customers with coverage on file.
func (j *Joiner) CoverageSize() int {
	return len(j.coverage)
}

// Match joins a single customer.
func (j *Joiner) Match(c model.Customer) Match {
	var m Match

	key := normalize.CustomerKey(c.ID)
	if key == "" {
		return m
	}

	if entry, ok := j.history[key]; ok && entry.ResolvedAt != nil {
		resolved := *entry.ResolvedAt
		days := int(math.Floor(j.asOf.Sub(resolved).Hours() / 24))
		m.LastModification = &resolved
		m.DaysSinceModification = &days
		m.RecentlyModified = days <= RecentWindowDays
	}

	if cov, ok := j.coverage[key]; ok {
		m.Coverage = &cov
	}

	return m
}

// wallClock reinterprets t's local wall clock as UTC so it can be compared with
// the zone-less dates read from the workbook.
func wallClock(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}
