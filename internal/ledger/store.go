// Package ledger owns the tracker state: transactions, categories and goals.
// It is the single source of truth and persists the full snapshot through a
// storage.Backend after every mutation.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"fintrack/internal/core"
	applog "fintrack/internal/log"
	"fintrack/internal/report"
	"fintrack/internal/storage"
)

// ErrPersist wraps failures to write the snapshot. State is left unchanged
// when it is returned.
var ErrPersist = errors.New("persist snapshot")

// Draft holds the staged input of the add-transaction form.
type Draft struct {
	Kind        core.Kind
	Description string
	Amount      string
	Category    string
}

// Reset clears the text fields; Kind is kept.
func (d *Draft) Reset() {
	d.Description = ""
	d.Amount = ""
	d.Category = ""
}

func (d *Draft) complete() bool {
	return strings.TrimSpace(d.Description) != "" &&
		strings.TrimSpace(d.Amount) != "" &&
		strings.TrimSpace(d.Category) != ""
}

type Store struct {
	mu       sync.Mutex
	backend  storage.Backend
	logger   *applog.Logger
	now      func() time.Time
	state    core.Snapshot
	lastID   int64
	revision uint64
}

type Option func(*Store)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithLogger(l *applog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// New returns a store at empty defaults. Call Load to read persisted state.
func New(backend storage.Backend, opts ...Option) *Store {
	s := &Store{
		backend: backend,
		now:     time.Now,
		state:   core.NewSnapshot(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = applog.New(applog.DefaultConfig()).WithComponent(applog.ComponentLedger)
	}
	return s
}

// Load replaces in-memory state with the persisted snapshot. When nothing
// was persisted yet the defaults are kept.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.backend.Read(ctx)
	if errors.Is(err, storage.ErrNotFound) {
		s.state = core.NewSnapshot()
		s.lastID = 0
		s.revision++
		s.logger.InfoContext(ctx, "No snapshot found, starting with defaults",
			applog.FieldOperation, applog.OpLoad)
		return nil
	}
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}

	snap, err := core.DecodeSnapshot(data)
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}
	s.state = snap
	s.lastID = maxID(snap.Transactions)
	s.revision++

	s.logger.InfoContext(ctx, "Snapshot loaded",
		applog.FieldOperation, applog.OpLoad,
		applog.FieldTransactions, len(snap.Transactions),
		applog.FieldCategories, len(snap.Categories),
		applog.FieldGoals, len(snap.Goals))
	return nil
}

// AddTransaction records the draft as a new transaction.
//
// A draft with an empty description, amount or category is ignored: it
// returns added=false and a nil error. An amount that does not parse returns
// core.ErrInvalidAmount. On success the draft's text fields are cleared.
func (s *Store) AddTransaction(ctx context.Context, d *Draft) (core.Transaction, bool, error) {
	if d == nil || !d.complete() {
		return core.Transaction{}, false, nil
	}
	kind := d.Kind
	if kind == "" {
		kind = core.Income
	}
	if err := kind.Validate(); err != nil {
		return core.Transaction{}, false, err
	}
	amount, err := core.ParseAmount(d.Amount)
	if err != nil {
		return core.Transaction{}, false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC().Truncate(time.Millisecond)
	t := core.Transaction{
		ID:          s.nextID(now),
		Kind:        kind,
		Description: strings.TrimSpace(d.Description),
		Category:    strings.TrimSpace(d.Category),
		Amount:      amount,
		Timestamp:   now,
	}

	next := s.state.Clone()
	next.Transactions = append(next.Transactions, t)
	if err := s.commit(ctx, next); err != nil {
		return core.Transaction{}, false, err
	}
	s.lastID = t.ID
	d.Reset()

	s.logger.InfoContext(ctx, "Transaction added",
		applog.NewFields().
			WithOperation(applog.OpCreate).
			WithTransaction(t.ID, string(t.Kind), t.Description, t.Category, t.Amount).
			ToSlice()...)
	return t, true, nil
}

// SetGoal stores the goal for category, overwriting any previous value. An
// empty value removes the goal. The category does not need to exist.
func (s *Store) SetGoal(ctx context.Context, category, valueText string) error {
	if strings.TrimSpace(category) == "" {
		return core.ErrEmptyCategory
	}
	var (
		value float64
		clear = strings.TrimSpace(valueText) == ""
	)
	if !clear {
		v, err := core.ParseAmount(valueText)
		if err != nil {
			return err
		}
		value = v
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state.Clone()
	if clear {
		delete(next.Goals, category)
	} else {
		next.Goals[category] = value
	}
	if err := s.commit(ctx, next); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "Goal updated",
		applog.FieldOperation, applog.OpUpdate,
		applog.FieldCategory, category,
		applog.FieldAmount, value,
		"cleared", clear)
	return nil
}

// AddCategory appends a category name. Duplicates are not checked.
func (s *Store) AddCategory(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return core.ErrEmptyCategory
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state.Clone()
	next.Categories = append(next.Categories, name)
	if err := s.commit(ctx, next); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "Category added",
		applog.FieldOperation, applog.OpCreate,
		applog.FieldCategory, name)
	return nil
}

// ReplaceTransactions swaps the whole transaction log. It is the only way
// transactions are removed.
func (s *Store) ReplaceTransactions(ctx context.Context, txns []core.Transaction) error {
	for i, t := range txns {
		if err := t.Validate(); err != nil {
			return fmt.Errorf("transaction %d: %w", i, err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state.Clone()
	next.Transactions = append([]core.Transaction{}, txns...)
	if err := s.commit(ctx, next); err != nil {
		return err
	}
	if id := maxID(next.Transactions); id > s.lastID {
		s.lastID = id
	}

	s.logger.InfoContext(ctx, "Transactions replaced",
		applog.FieldOperation, applog.OpReplace,
		applog.FieldTransactions, len(txns))
	return nil
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() core.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

func (s *Store) Transactions() []core.Transaction {
	return s.Snapshot().Transactions
}

func (s *Store) Categories() []string {
	return s.Snapshot().Categories
}

func (s *Store) Goals() core.Goals {
	return s.Snapshot().Goals
}

// Revision increases on every committed change, including Load.
func (s *Store) Revision() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.revision
}

// View derives the dashboard for month m from the current state.
func (s *Store) View(m report.Month) report.Dashboard {
	return report.Build(s.Snapshot(), m)
}

// commit writes next to the backend and, only if that succeeds, makes it the
// current state. Callers hold s.mu.
func (s *Store) commit(ctx context.Context, next core.Snapshot) error {
	data, err := core.EncodeSnapshot(next)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersist, err)
	}
	if err := s.backend.Write(ctx, data); err != nil {
		s.logger.ErrorContext(ctx, "Failed to persist snapshot",
			applog.FieldOperation, applog.OpPersist,
			applog.FieldError, err.Error())
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	s.state = next
	s.revision++
	return nil
}

// nextID derives an id from the clock in milliseconds, bumped past the last
// issued id so that two adds within the same millisecond never collide.
func (s *Store) nextID(now time.Time) int64 {
	id := now.UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	return id
}

func maxID(txns []core.Transaction) int64 {
	var id int64
	for _, t := range txns {
		if t.ID > id {
			id = t.ID
		}
	}
	return id
}
