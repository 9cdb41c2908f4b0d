// Package extract turns a flat statement page into the month-bucketed
// view the extract screen renders: one bucket per calendar month, most
// recent month first, with a locale-formatted label per bucket.
package extract

import (
	"sort"
	"time"

	"golang.org/x/text/language"

	"github.com/bytebank/ledgerkit/internal/ledger"
)

// monthKeyLayout is the canonical bucket key. Zero-padded so string
// ordering equals chronological ordering.
const monthKeyLayout = "2006-01"

// MonthGroup is one bucket of the grouped statement. Label is derived
// for display and never stored.
type MonthGroup struct {
	// Key is the year-month in "2006-01" form, extracted in UTC.
	Key string

	// Label is the human-readable month name and year in the requested
	// locale.
	Label string

	// Transactions keep their relative order from the input.
	Transactions []ledger.Transaction
}

// Net returns the signed sum of the bucket's transactions.
func (g MonthGroup) Net() float64 {
	var total float64
	for _, tx := range g.Transactions {
		total += tx.Signed()
	}
	return total
}

// GroupByMonth buckets transactions by UTC calendar month and orders
// the buckets most recent first. Within a bucket the input's relative
// order is preserved. Empty input yields empty output.
//
// Months are extracted in UTC, not local time, so a transaction near a
// timezone boundary lands in the same bucket on every machine.
func GroupByMonth(transactions []ledger.Transaction, locale language.Tag) []MonthGroup {
	if len(transactions) == 0 {
		return nil
	}

	index := make(map[string]int)
	groups := make([]MonthGroup, 0)

	for _, tx := range transactions {
		date := tx.Date.UTC()
		key := date.Format(monthKeyLayout)
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, MonthGroup{
				Key:   key,
				Label: MonthLabel(locale, date.Year(), date.Month()),
			})
		}
		groups[i].Transactions = append(groups[i].Transactions, tx)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Key > groups[j].Key
	})
	return groups
}

// groupKeyTime parses a bucket key back into a time, used by tests and
// callers that need the bucket's first-of-month instant.
func groupKeyTime(key string) (time.Time, error) {
	return time.ParseInLocation(monthKeyLayout, key, time.UTC)
}
