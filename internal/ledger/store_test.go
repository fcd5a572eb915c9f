package ledger

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"fintrack/internal/core"
	applog "fintrack/internal/log"
	"fintrack/internal/report"
	"fintrack/internal/storage/memory"
)

// fixedClock returns the same instant on every call, which forces the id
// collision path.
func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func newTestStore(t *testing.T, backend *memory.Store, opts ...Option) *Store {
	t.Helper()
	opts = append([]Option{WithLogger(applog.Discard())}, opts...)
	s := New(backend, opts...)
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	return s
}

func TestLoadWithoutSnapshotUsesDefaults(t *testing.T) {
	s := newTestStore(t, memory.New())
	if len(s.Transactions()) != 0 || len(s.Goals()) != 0 {
		t.Fatalf("expected empty state, got %+v", s.Snapshot())
	}
	if !reflect.DeepEqual(s.Categories(), core.DefaultCategories) {
		t.Fatalf("expected default categories, got %v", s.Categories())
	}
}

func TestLoadCorruptSnapshotFails(t *testing.T) {
	s := New(memory.NewWithData([]byte("not json")), WithLogger(applog.Discard()))
	if err := s.Load(context.Background()); !errors.Is(err, core.ErrCorruptSnapshot) {
		t.Fatalf("expected ErrCorruptSnapshot, got %v", err)
	}
}

func TestLoadReadFailure(t *testing.T) {
	backend := memory.New()
	backend.Fail = errors.New("disk gone")
	s := New(backend, WithLogger(applog.Discard()))
	if err := s.Load(context.Background()); err == nil {
		t.Fatalf("expected load error")
	}
}

func TestAddTransactionIncrementsAndAssignsUniqueIDs(t *testing.T) {
	ctx := context.Background()
	backend := memory.New()
	now := time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC)
	s := newTestStore(t, backend, WithClock(fixedClock(now)))

	seen := map[int64]bool{}
	for i := 0; i < 5; i++ {
		d := &Draft{Kind: core.Expense, Description: "Lunch", Amount: "12,50", Category: "Alimentação"}
		tx, added, err := s.AddTransaction(ctx, d)
		if err != nil || !added {
			t.Fatalf("add %d: added=%v err=%v", i, added, err)
		}
		if seen[tx.ID] {
			t.Fatalf("duplicate id %d", tx.ID)
		}
		seen[tx.ID] = true
		if got := len(s.Transactions()); got != i+1 {
			t.Fatalf("expected %d transactions, got %d", i+1, got)
		}
		if tx.Amount != 12.5 || !tx.Timestamp.Equal(now) {
			t.Fatalf("unexpected transaction: %+v", tx)
		}
		if d.Description != "" || d.Amount != "" || d.Category != "" || d.Kind != core.Expense {
			t.Fatalf("draft not reset correctly: %+v", d)
		}
	}
	if backend.Writes() != 5 {
		t.Fatalf("expected one write per add, got %d", backend.Writes())
	}
}

func TestAddTransactionIncompleteDraftIsNoop(t *testing.T) {
	ctx := context.Background()
	backend := memory.New()
	s := newTestStore(t, backend)
	rev := s.Revision()

	drafts := []*Draft{
		nil,
		{Kind: core.Income, Description: "", Amount: "1", Category: "A"},
		{Kind: core.Income, Description: "x", Amount: " ", Category: "A"},
		{Kind: core.Income, Description: "x", Amount: "1", Category: ""},
	}
	for i, d := range drafts {
		_, added, err := s.AddTransaction(ctx, d)
		if added || err != nil {
			t.Fatalf("case %d: expected silent no-op, got added=%v err=%v", i, added, err)
		}
	}
	if d := drafts[1]; d.Amount != "1" || d.Category != "A" {
		t.Fatalf("no-op must leave the draft untouched: %+v", d)
	}
	if len(s.Transactions()) != 0 || backend.Writes() != 0 || s.Revision() != rev {
		t.Fatalf("no-op changed state")
	}
}

func TestAddTransactionRejectsBadInput(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, memory.New())

	d := &Draft{Kind: core.Expense, Description: "x", Amount: "abc", Category: "A"}
	if _, _, err := s.AddTransaction(ctx, d); !errors.Is(err, core.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
	if d.Amount != "abc" {
		t.Fatalf("failed add must keep the draft")
	}

	d = &Draft{Kind: "transfer", Description: "x", Amount: "1", Category: "A"}
	if _, _, err := s.AddTransaction(ctx, d); !errors.Is(err, core.ErrInvalidKind) {
		t.Fatalf("expected ErrInvalidKind, got %v", err)
	}
	if len(s.Transactions()) != 0 {
		t.Fatalf("rejected adds must not change state")
	}

	// An unset kind defaults to income, the form's initial tab.
	tx, added, err := s.AddTransaction(ctx, &Draft{Description: "x", Amount: "1", Category: "A"})
	if err != nil || !added || tx.Kind != core.Income {
		t.Fatalf("expected income default, got %+v added=%v err=%v", tx, added, err)
	}
}

func TestPersistFailureLeavesStateUnchanged(t *testing.T) {
	ctx := context.Background()
	backend := memory.New()
	s := newTestStore(t, backend)
	before := s.Snapshot()
	rev := s.Revision()

	quota := errors.New("quota exceeded")
	backend.Fail = quota

	d := &Draft{Kind: core.Income, Description: "Salary", Amount: "100", Category: "Salário"}
	if _, _, err := s.AddTransaction(ctx, d); !errors.Is(err, ErrPersist) || !errors.Is(err, quota) {
		t.Fatalf("expected wrapped persist error, got %v", err)
	}
	if err := s.SetGoal(ctx, "Lazer", "10"); !errors.Is(err, ErrPersist) {
		t.Fatalf("expected persist error from SetGoal, got %v", err)
	}
	if err := s.AddCategory(ctx, "Saúde"); !errors.Is(err, ErrPersist) {
		t.Fatalf("expected persist error from AddCategory, got %v", err)
	}
	if !reflect.DeepEqual(s.Snapshot(), before) || s.Revision() != rev {
		t.Fatalf("state changed after failed writes")
	}
	if d.Description != "Salary" {
		t.Fatalf("draft cleared despite failure")
	}
}

func TestSetGoal(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, memory.New())

	if err := s.SetGoal(ctx, "Lazer", "150,5"); err != nil {
		t.Fatalf("set goal: %v", err)
	}
	if err := s.SetGoal(ctx, "Lazer", "200"); err != nil {
		t.Fatalf("overwrite goal: %v", err)
	}
	if err := s.SetGoal(ctx, "NotACategory", "5"); err != nil {
		t.Fatalf("orphan goal should be accepted: %v", err)
	}
	if g := s.Goals(); g["Lazer"] != 200 || g["NotACategory"] != 5 {
		t.Fatalf("unexpected goals: %v", g)
	}

	if err := s.SetGoal(ctx, "Lazer", "lots"); !errors.Is(err, core.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
	if err := s.SetGoal(ctx, " ", "1"); !errors.Is(err, core.ErrEmptyCategory) {
		t.Fatalf("expected ErrEmptyCategory, got %v", err)
	}

	if err := s.SetGoal(ctx, "Lazer", ""); err != nil {
		t.Fatalf("clear goal: %v", err)
	}
	if _, ok := s.Goals()["Lazer"]; ok {
		t.Fatalf("expected goal to be removed")
	}
}

func TestAddCategoryAllowsDuplicates(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, memory.New())
	if err := s.AddCategory(ctx, " Saúde "); err != nil {
		t.Fatalf("add category: %v", err)
	}
	if err := s.AddCategory(ctx, "Saúde"); err != nil {
		t.Fatalf("add duplicate category: %v", err)
	}
	cats := s.Categories()
	if len(cats) != len(core.DefaultCategories)+2 || cats[len(cats)-1] != "Saúde" || cats[len(cats)-2] != "Saúde" {
		t.Fatalf("unexpected categories: %v", cats)
	}
	if err := s.AddCategory(ctx, ""); !errors.Is(err, core.ErrEmptyCategory) {
		t.Fatalf("expected ErrEmptyCategory, got %v", err)
	}
}

func TestReplaceTransactions(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC)
	s := newTestStore(t, memory.New(), WithClock(fixedClock(now)))

	big := now.Add(time.Hour).UnixMilli()
	replacement := []core.Transaction{
		{ID: big, Kind: core.Expense, Description: "Rent", Category: "Casa", Amount: 900, Timestamp: now},
	}
	if err := s.ReplaceTransactions(ctx, replacement); err != nil {
		t.Fatalf("replace: %v", err)
	}
	if got := s.Transactions(); !reflect.DeepEqual(got, replacement) {
		t.Fatalf("expected %v, got %v", replacement, got)
	}

	// New ids never collide with replaced ones, even with an earlier clock.
	tx, _, err := s.AddTransaction(ctx, &Draft{Kind: core.Income, Description: "x", Amount: "1", Category: "A"})
	if err != nil || tx.ID <= big {
		t.Fatalf("expected id above %d, got %d (err=%v)", big, tx.ID, err)
	}

	bad := []core.Transaction{{Kind: core.Expense, Description: "", Category: "Casa", Amount: 1}}
	if err := s.ReplaceTransactions(ctx, bad); !errors.Is(err, core.ErrEmptyDescription) {
		t.Fatalf("expected validation error, got %v", err)
	}

	if err := s.ReplaceTransactions(ctx, nil); err != nil {
		t.Fatalf("clear log: %v", err)
	}
	if got := s.Transactions(); got == nil || len(got) != 0 {
		t.Fatalf("expected empty log, got %v", got)
	}
}

func TestPersistThenLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	backend := memory.New()
	clock := time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC)
	s := newTestStore(t, backend, WithClock(func() time.Time {
		clock = clock.Add(90 * time.Minute)
		return clock
	}))

	if _, _, err := s.AddTransaction(ctx, &Draft{Kind: core.Income, Description: "Salary", Amount: "3000", Category: "Salário"}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, _, err := s.AddTransaction(ctx, &Draft{Kind: core.Expense, Description: "Cinema, 2 tickets", Amount: "45.90", Category: "Lazer"}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := s.SetGoal(ctx, "Lazer", "300"); err != nil {
		t.Fatalf("goal: %v", err)
	}
	if err := s.AddCategory(ctx, "Saúde"); err != nil {
		t.Fatalf("category: %v", err)
	}

	reloaded := newTestStore(t, backend)
	if !reflect.DeepEqual(reloaded.Snapshot(), s.Snapshot()) {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", reloaded.Snapshot(), s.Snapshot())
	}
}

func TestSnapshotAccessorsReturnCopies(t *testing.T) {
	s := newTestStore(t, memory.New())
	cats := s.Categories()
	cats[0] = "mutated"
	goals := s.Goals()
	goals["x"] = 1
	if s.Categories()[0] == "mutated" || len(s.Goals()) != 0 {
		t.Fatalf("accessors leak internal state")
	}
}

func TestViewDerivesFromCurrentState(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, memory.New(), WithClock(fixedClock(time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC))))
	for _, d := range []*Draft{
		{Kind: core.Income, Description: "Salary", Amount: "200", Category: "Salário"},
		{Kind: core.Expense, Description: "Market", Amount: "50", Category: "Alimentação"},
		{Kind: core.Expense, Description: "Bus", Amount: "30", Category: "Transporte"},
	} {
		if _, _, err := s.AddTransaction(ctx, d); err != nil {
			t.Fatalf("add: %v", err)
		}
	}
	if err := s.SetGoal(ctx, "Alimentação", "100"); err != nil {
		t.Fatalf("goal: %v", err)
	}

	march := s.View(report.Month{Year: 2024, Month: time.March})
	if march.Totals != (report.Totals{Income: 200, Expense: 80, Balance: 120}) {
		t.Fatalf("unexpected totals: %+v", march.Totals)
	}
	if len(march.Categories) != len(core.DefaultCategories) {
		t.Fatalf("expected one row per category, got %d", len(march.Categories))
	}
	if row := march.Categories[1]; row.Category != "Alimentação" || row.Spent != 50 || row.Goal != 100 {
		t.Fatalf("unexpected row: %+v", row)
	}

	april := s.View(report.Month{Year: 2024, Month: time.April})
	if len(april.Transactions) != 0 || april.Totals != (report.Totals{}) {
		t.Fatalf("expected empty April view, got %+v", april)
	}
}
