// Package report derives the views shown to the user from ledger state:
// month-filtered transaction lists, totals, per-category spending against
// goals, and export rows. Every function is pure.
package report

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"fintrack/internal/core"
)

var ErrInvalidMonth = errors.New("invalid month")

// Month is a calendar year and month. The zero Month means "no filter".
type Month struct {
	Year  int
	Month time.Month
}

// ParseMonth parses a YYYY-MM key. An empty key yields the zero Month.
func ParseMonth(key string) (Month, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return Month{}, nil
	}
	y, m, ok := strings.Cut(key, "-")
	if !ok || len(y) != 4 || len(m) != 2 {
		return Month{}, fmt.Errorf("%w: %q", ErrInvalidMonth, key)
	}
	year, err := strconv.Atoi(y)
	if err != nil || year < 1 {
		return Month{}, fmt.Errorf("%w: %q", ErrInvalidMonth, key)
	}
	month, err := strconv.Atoi(m)
	if err != nil || month < 1 || month > 12 {
		return Month{}, fmt.Errorf("%w: %q", ErrInvalidMonth, key)
	}
	return Month{Year: year, Month: time.Month(month)}, nil
}

// MonthOf returns the UTC calendar month of t. Timestamps are stored in UTC,
// so this is the month a stored record is filed under.
func MonthOf(t time.Time) Month {
	u := t.UTC()
	return Month{Year: u.Year(), Month: u.Month()}
}

func (m Month) IsZero() bool {
	return m.Year == 0 && m.Month == 0
}

func (m Month) String() string {
	if m.IsZero() {
		return ""
	}
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// Contains reports whether t falls in the month. The zero Month contains
// every instant.
func (m Month) Contains(t time.Time) bool {
	return m.IsZero() || MonthOf(t) == m
}

func (m Month) before(o Month) bool {
	if m.Year != o.Year {
		return m.Year < o.Year
	}
	return m.Month < o.Month
}

// FilterByMonth keeps the transactions recorded in month m, preserving order.
// The zero Month returns txns unchanged.
func FilterByMonth(txns []core.Transaction, m Month) []core.Transaction {
	if m.IsZero() {
		return txns
	}
	out := make([]core.Transaction, 0, len(txns))
	for _, t := range txns {
		if m.Contains(t.Timestamp) {
			out = append(out, t)
		}
	}
	return out
}

// Months lists the distinct months present in txns, oldest first.
func Months(txns []core.Transaction) []Month {
	seen := map[Month]struct{}{}
	out := make([]Month, 0)
	for _, t := range txns {
		m := MonthOf(t.Timestamp)
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].before(out[j]) })
	return out
}
