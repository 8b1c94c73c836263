package core

import (
	"context"
	"reflect"
	"testing"
	"time"
)

// fakeSource serves a fixed expense list, filtered by window.
type fakeSource struct {
	expenses []Expense
	calls    int
}

func (f *fakeSource) ExpensesInRange(_ context.Context, placeID int64, start, end Date) ([]Expense, error) {
	f.calls++
	var out []Expense
	for _, e := range f.expenses {
		if e.PlaceID == placeID && e.InWindow(start, end) {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeDirectory struct {
	users map[int64]User
}

func (f *fakeDirectory) UsersByID(_ context.Context, ids []int64) (map[int64]User, error) {
	out := make(map[int64]User)
	for _, id := range ids {
		if u, ok := f.users[id]; ok {
			out[id] = u
		}
	}
	return out, nil
}

func datedExpense(day int, amountCents int64, paidBy int64, splits ...int64) Expense {
	return Expense{
		PlaceID:     1,
		Amount:      Money{Cents: amountCents},
		Description: "test",
		Date:        NewDate(2025, 6, day),
		PaidBy:      paidBy,
		Splits:      splits,
	}
}

func testDirectory() *fakeDirectory {
	return &fakeDirectory{users: map[int64]User{
		u1: {ID: u1, Username: "ann", DisplayName: "Ann"},
		u2: {ID: u2, Username: "bob", DisplayName: "Bob"},
		u3: {ID: u3, Username: "cat"},
	}}
}

// Window under test: 2025-06-09 (Mon) .. 2025-06-15 (Sun); previous window
// is 2025-06-02 .. 2025-06-08.
func buildSummary(t *testing.T, src *fakeSource) *Summary {
	t.Helper()
	asm := NewAssembler(src, testDirectory())
	s, err := asm.Build(context.Background(), SummaryRequest{
		PlaceID:   1,
		UserID:    u1,
		Period:    PeriodWeekly,
		WeekStart: WeekStartMonday,
		Now:       time.Date(2025, 6, 11, 12, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("build summary: %v", err)
	}
	return s
}

func TestSummaryBasics(t *testing.T) {
	src := &fakeSource{expenses: []Expense{
		datedExpense(10, 3000, u1, u1, u2),     // u2 owes u1 15.00
		datedExpense(11, 2000, u2, u1, u2, u3), // u1 owes u2 6.67
		datedExpense(3, 4000, u1, u1, u2),      // previous window only
	}}

	s := buildSummary(t, src)

	if s.From.String() != "2025-06-09" || s.To.String() != "2025-06-15" {
		t.Fatalf("window = %s..%s", s.From, s.To)
	}
	if s.TotalExpense.Cents != 5000 {
		t.Fatalf("total = %s, want 50.00", s.TotalExpense)
	}
	if s.MyExpense.Cents != 1500+667 {
		t.Fatalf("my_expense = %s, want 21.67", s.MyExpense)
	}
	if s.OthersExpense.Cents != 5000-2167 {
		t.Fatalf("others_expense = %s, want 28.33", s.OthersExpense)
	}
	if s.TotalIPaid.Cents != 3000 {
		t.Fatalf("total_i_paid = %s, want 30.00", s.TotalIPaid)
	}
	// net vs u2: -15.00 + 6.67 = -8.33
	if got := s.ByMemberBalance[u2]; got.Cents != -833 {
		t.Fatalf("balance_with[u2] = %s, want -8.33", got)
	}
	if s.TotalOwedToMe.Cents != 833 || s.TotalIOwe.Cents != 0 {
		t.Fatalf("owed totals = (%s, %s)", s.TotalIOwe, s.TotalOwedToMe)
	}
	if s.PreviousTotalExpense.Cents != 4000 {
		t.Fatalf("previous total = %s, want 40.00", s.PreviousTotalExpense)
	}
	// (50 − 40) / 40 × 100 = 25
	if s.SpendingChangePercent == nil || *s.SpendingChangePercent != 25 {
		t.Fatalf("spending_change_percent = %v, want 25", s.SpendingChangePercent)
	}
}

func TestSummaryNoBaseline(t *testing.T) {
	// Previous total 0, current total > 0: percent stays unset.
	src := &fakeSource{expenses: []Expense{
		datedExpense(10, 5000, u2, u1, u2),
	}}
	s := buildSummary(t, src)
	if s.SpendingChangePercent != nil {
		t.Fatalf("spending_change_percent = %v, want nil", *s.SpendingChangePercent)
	}
	if s.PreviousTotalExpense.Cents != 0 {
		t.Fatalf("previous total = %s, want 0.00", s.PreviousTotalExpense)
	}
}

func TestSummaryBothPeriodsEmpty(t *testing.T) {
	s := buildSummary(t, &fakeSource{})
	if s.SpendingChangePercent == nil || *s.SpendingChangePercent != 0 {
		t.Fatalf("spending_change_percent = %v, want 0", s.SpendingChangePercent)
	}
	if len(s.ByMemberBalanceList) != 0 {
		t.Fatalf("member list should be empty, got %v", s.ByMemberBalanceList)
	}
}

func TestSummaryMemberListOrder(t *testing.T) {
	// u2 owes u1 25.00 (balance -25.00), u3 is owed by u1 6.67 (+6.67):
	// creditors-of-the-focal-user (negative) sort first, then by size.
	src := &fakeSource{expenses: []Expense{
		datedExpense(10, 5000, u1, u1, u2),     // u2 owes 25.00
		datedExpense(11, 2000, u3, u1, u2, u3), // u1 owes u3 6.67
	}}
	s := buildSummary(t, src)

	if len(s.ByMemberBalanceList) != 2 {
		t.Fatalf("member list = %v, want 2 entries", s.ByMemberBalanceList)
	}
	first, second := s.ByMemberBalanceList[0], s.ByMemberBalanceList[1]
	if first.UserID != u2 || first.Balance.Cents != -2500 {
		t.Fatalf("first entry = %+v, want u2 at -25.00", first)
	}
	if second.UserID != u3 || second.Balance.Cents != 667 {
		t.Fatalf("second entry = %+v, want u3 at 6.67", second)
	}
	if first.Username != "bob" || first.DisplayName != "Bob" {
		t.Fatalf("first entry names = %q/%q", first.Username, first.DisplayName)
	}
	// cat has no display name set; falls back to username
	if second.DisplayName != "cat" {
		t.Fatalf("display name fallback = %q, want cat", second.DisplayName)
	}
}

func TestSummaryIdempotent(t *testing.T) {
	src := &fakeSource{expenses: []Expense{
		datedExpense(10, 3000, u1, u1, u2),
		datedExpense(11, 2000, u2, u1, u2, u3),
	}}
	a := buildSummary(t, src)
	b := buildSummary(t, src)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("summaries differ across identical invocations:\n%+v\n%+v", a, b)
	}
}
