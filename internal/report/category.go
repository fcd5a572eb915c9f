package report

import "fintrack/internal/core"

// CategoryRow compares what was spent in a category with its goal.
type CategoryRow struct {
	Category string  `json:"category"`
	Spent    float64 `json:"spent"`
	Goal     float64 `json:"goal"`
}

// Remaining is the goal minus the amount spent; negative when over goal.
func (r CategoryRow) Remaining() float64 {
	return r.Goal - r.Spent
}

// OverGoal is true only for categories with a positive goal that was exceeded.
func (r CategoryRow) OverGoal() bool {
	return r.Goal > 0 && r.Spent > r.Goal
}

// ReportByCategory returns one row per entry of categories, in order. Spent
// sums expense amounts whose category matches exactly; the goal is 0 when
// absent. Goals for categories outside the list are ignored.
func ReportByCategory(categories []string, txns []core.Transaction, goals core.Goals) []CategoryRow {
	spent := make(map[string]float64, len(categories))
	for _, t := range txns {
		if t.Kind == core.Expense {
			spent[t.Category] += t.Amount
		}
	}
	rows := make([]CategoryRow, len(categories))
	for i, c := range categories {
		rows[i] = CategoryRow{
			Category: c,
			Spent:    spent[c],
			Goal:     goals.Lookup(c),
		}
	}
	return rows
}
