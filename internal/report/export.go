package report

import (
	"iter"
	"strconv"

	"fintrack/internal/core"
)

// ExportRows yields one row per transaction, in list order, with the fields
// kind, description, amount, category and formatted date. The amount is the
// raw decimal. Rows are produced on demand; iterate again to recompute.
func ExportRows(txns []core.Transaction, f Formatter) iter.Seq[[]string] {
	return func(yield func([]string) bool) {
		for _, t := range txns {
			row := []string{
				string(t.Kind),
				t.Description,
				strconv.FormatFloat(t.Amount, 'f', -1, 64),
				t.Category,
				f.Date(t.Timestamp),
			}
			if !yield(row) {
				return
			}
		}
	}
}
