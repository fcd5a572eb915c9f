package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Income  Kind = "income"
	Expense Kind = "expense"
)

type (
	// Kind tells whether a transaction adds to or subtracts from the balance.
	Kind string

	Transaction struct {
		ID          int64     `json:"id"`
		Kind        Kind      `json:"type"`
		Description string    `json:"description"`
		Category    string    `json:"category"`
		Amount      float64   `json:"amount"`
		Timestamp   time.Time `json:"date"`
	}

	// Goals maps a category name to its spending target.
	Goals map[string]float64
)

// DefaultCategories seeds a fresh ledger.
var DefaultCategories = []string{"Salário", "Alimentação", "Transporte", "Lazer"}

var (
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidKind      = errors.New("invalid transaction kind")
	ErrEmptyDescription = errors.New("empty description")
	ErrEmptyCategory    = errors.New("empty category")
	ErrCorruptSnapshot  = errors.New("corrupt snapshot")
)

func (k Kind) Validate() error {
	switch k {
	case Income, Expense:
		return nil
	default:
		return ErrInvalidKind
	}
}

// ParseKind accepts the canonical names plus the Portuguese labels shown in
// the type tabs.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "income", "receita":
		return Income, nil
	case "expense", "despesa":
		return Expense, nil
	default:
		return "", ErrInvalidKind
	}
}

func (t Transaction) Validate() error {
	if err := t.Kind.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(t.Description) == "" {
		return ErrEmptyDescription
	}
	if strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	if err := ValidateAmount(t.Amount); err != nil {
		return err
	}
	return nil
}

// Lookup returns the goal for category, or 0 when none is set.
func (g Goals) Lookup(category string) float64 {
	return g[category]
}

// Clone returns an independent copy; a nil map clones to an empty one.
func (g Goals) Clone() Goals {
	out := make(Goals, len(g))
	for k, v := range g {
		out[k] = v
	}
	return out
}
