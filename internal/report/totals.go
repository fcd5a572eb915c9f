package report

import "fintrack/internal/core"

// Totals summarizes a list of transactions.
type Totals struct {
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
	Balance float64 `json:"balance"`
}

// AggregateTotals sums income and expense amounts in list order.
func AggregateTotals(txns []core.Transaction) Totals {
	var t Totals
	for _, tx := range txns {
		switch tx.Kind {
		case core.Income:
			t.Income += tx.Amount
		case core.Expense:
			t.Expense += tx.Amount
		}
	}
	t.Balance = t.Income - t.Expense
	return t
}

// Add combines totals computed over disjoint parts of a list.
func (t Totals) Add(o Totals) Totals {
	sum := Totals{
		Income:  t.Income + o.Income,
		Expense: t.Expense + o.Expense,
	}
	sum.Balance = sum.Income - sum.Expense
	return sum
}
