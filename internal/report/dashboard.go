package report

import (
	"slices"

	"fintrack/internal/core"
)

// Dashboard bundles every view derived for one month filter.
type Dashboard struct {
	Month        string             `json:"month"`
	Transactions []core.Transaction `json:"transactions"`
	Totals       Totals             `json:"totals"`
	Categories   []CategoryRow      `json:"categories"`
	// Months lists every month with data, newest first.
	Months []string `json:"months"`
}

// Build derives the dashboard for m from a snapshot.
func Build(s core.Snapshot, m Month) Dashboard {
	filtered := FilterByMonth(s.Transactions, m)
	months := Months(s.Transactions)
	keys := make([]string, 0, len(months))
	for _, mo := range slices.Backward(months) {
		keys = append(keys, mo.String())
	}
	return Dashboard{
		Month:        m.String(),
		Transactions: filtered,
		Totals:       AggregateTotals(filtered),
		Categories:   ReportByCategory(s.Categories, filtered, s.Goals),
		Months:       keys,
	}
}
