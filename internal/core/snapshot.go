package core

import (
	"encoding/json"
	"fmt"
)

// Snapshot is the full persisted state, stored as one blob under one key.
type Snapshot struct {
	Transactions []Transaction `json:"transactions"`
	Categories   []string      `json:"categories"`
	Goals        Goals         `json:"goals"`
}

// NewSnapshot returns the state of a ledger that was never saved.
func NewSnapshot() Snapshot {
	return Snapshot{
		Transactions: []Transaction{},
		Categories:   append([]string(nil), DefaultCategories...),
		Goals:        Goals{},
	}
}

// Clone deep-copies the snapshot so callers cannot alias ledger state.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{
		Transactions: make([]Transaction, len(s.Transactions)),
		Categories:   make([]string, len(s.Categories)),
		Goals:        s.Goals.Clone(),
	}
	copy(out.Transactions, s.Transactions)
	copy(out.Categories, s.Categories)
	return out
}

// EncodeSnapshot serializes the snapshot. Nil collections are written as
// empty ones.
func EncodeSnapshot(s Snapshot) ([]byte, error) {
	s = s.normalized()
	b, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return b, nil
}

// DecodeSnapshot parses a stored blob. Each collection missing from the blob
// defaults to empty on its own; a blob that is not valid JSON wraps
// ErrCorruptSnapshot.
func DecodeSnapshot(data []byte) (Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
	}
	return s.normalized(), nil
}

func (s Snapshot) normalized() Snapshot {
	if s.Transactions == nil {
		s.Transactions = []Transaction{}
	}
	if s.Categories == nil {
		s.Categories = []string{}
	}
	if s.Goals == nil {
		s.Goals = Goals{}
	}
	return s
}
