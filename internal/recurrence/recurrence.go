// Package recurrence classifies transactions as recurring templates or
// one-time records and answers queries over that classification. It
// never materializes future occurrences; the backend owns that.
package recurrence

import (
	"sort"
	"time"

	"github.com/homeledger/homeledger/internal/models"
)

// Filter selects a subset of transactions by recurrence class.
type Filter string

const (
	FilterAll       Filter = "all"
	FilterRecurring Filter = "recurring"
	FilterOneTime   Filter = "one-time"
)

func ParseFilter(s string) (Filter, bool) {
	switch Filter(s) {
	case FilterAll, FilterRecurring, FilterOneTime:
		return Filter(s), true
	}
	return "", false
}

// Apply returns the matching subset in the original order. The input
// slice is never modified.
func Apply(txs []models.Transaction, f Filter) []models.Transaction {
	out := make([]models.Transaction, 0, len(txs))
	for _, tx := range txs {
		switch f {
		case FilterRecurring:
			if !tx.IsRecurring {
				continue
			}
		case FilterOneTime:
			if tx.IsRecurring {
				continue
			}
		}
		out = append(out, tx)
	}
	return out
}

// SortNewestFirst orders transactions by date descending, in place.
// The sort is stable so records sharing a date keep their relative
// order.
func SortNewestFirst(txs []models.Transaction) {
	sort.SliceStable(txs, func(i, j int) bool {
		return txs[i].Date.After(txs[j].Date)
	})
}

// NextOccurrence returns when a template with the given frequency next
// recurs after from. Month-based steps clamp to the last day of a
// shorter target month. An unknown frequency yields the zero time.
func NextOccurrence(from time.Time, freq models.Frequency) time.Time {
	switch freq {
	case models.FrequencyDaily:
		return from.AddDate(0, 0, 1)
	case models.FrequencyWeekly:
		return from.AddDate(0, 0, 7)
	case models.FrequencyBiweekly:
		return from.AddDate(0, 0, 14)
	case models.FrequencyMonthly:
		return addMonths(from, 1)
	case models.FrequencyQuarterly:
		return addMonths(from, 3)
	case models.FrequencyYearly:
		return addMonths(from, 12)
	}
	return time.Time{}
}

func addMonths(t time.Time, months int) time.Time {
	year, month, day := t.Date()
	first := time.Date(year, month+time.Month(months), 1, 0, 0, 0, 0, t.Location())
	if last := first.AddDate(0, 1, -1).Day(); day > last {
		day = last
	}
	hour, min, sec := t.Clock()
	return time.Date(first.Year(), first.Month(), day, hour, min, sec, t.Nanosecond(), t.Location())
}
