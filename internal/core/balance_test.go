package core

import "testing"

const (
	u1 int64 = 1
	u2 int64 = 2
	u3 int64 = 3
)

func expense(amountCents int64, paidBy int64, splits ...int64) Expense {
	return Expense{
		PlaceID:     1,
		Amount:      Money{Cents: amountCents},
		Description: "test",
		Date:        NewDate(2025, 6, 10),
		PaidBy:      paidBy,
		Splits:      splits,
	}
}

func TestComputeBalancesFocalPays(t *testing.T) {
	// U1 pays 30.00 split between U1 and U2: U2 owes U1 15.00.
	r := ComputeBalances([]Expense{expense(3000, u1, u1, u2)}, u1)

	if r.TotalExpense.Cents != 3000 {
		t.Fatalf("total = %s, want 30.00", r.TotalExpense)
	}
	if r.TotalIPaid.Cents != 3000 {
		t.Fatalf("total_i_paid = %s, want 30.00", r.TotalIPaid)
	}
	if r.MyExpense.Cents != 1500 {
		t.Fatalf("my_expense = %s, want 15.00", r.MyExpense)
	}
	if got := r.BalanceWith[u2]; got.Cents != -1500 {
		t.Fatalf("balance_with[u2] = %s, want -15.00", got)
	}
	if _, ok := r.BalanceWith[u1]; ok {
		t.Fatalf("focal user must not appear in their own balance map")
	}
}

func TestComputeBalancesFocalOwes(t *testing.T) {
	// U2 pays 20.00 split three ways: U1 owes U2 one rounded share (6.67).
	r := ComputeBalances([]Expense{expense(2000, u2, u1, u2, u3)}, u1)

	if got := r.BalanceWith[u2]; got.Cents != 667 {
		t.Fatalf("balance_with[u2] = %s, want 6.67", got)
	}
	if r.MyExpense.Cents != 667 {
		t.Fatalf("my_expense = %s, want 6.67", r.MyExpense)
	}
	if r.TotalIPaid.Cents != 0 {
		t.Fatalf("total_i_paid = %s, want 0.00", r.TotalIPaid)
	}
	iOwe, owedToMe := r.OwedTotals()
	if iOwe.Cents != 667 || owedToMe.Cents != 0 {
		t.Fatalf("owed totals = (%s, %s), want (6.67, 0.00)", iOwe, owedToMe)
	}
}

func TestComputeBalancesZeroSplits(t *testing.T) {
	// No recorded participants: the payer carries one implicit share. The
	// expense still counts toward the total but creates no debts.
	r := ComputeBalances([]Expense{expense(5000, u2)}, u1)

	if r.TotalExpense.Cents != 5000 {
		t.Fatalf("total = %s, want 50.00", r.TotalExpense)
	}
	if len(r.BalanceWith) != 0 {
		t.Fatalf("balance map should be empty, got %v", r.BalanceWith)
	}
	if r.MyExpense.Cents != 0 {
		t.Fatalf("my_expense = %s, want 0.00", r.MyExpense)
	}
}

func TestComputeBalancesUninvolvedExpense(t *testing.T) {
	// An expense entirely between U2 and U3 contributes only to the total.
	r := ComputeBalances([]Expense{
		expense(3000, u1, u1, u2),
		expense(4000, u2, u2, u3),
	}, u1)

	if r.TotalExpense.Cents != 7000 {
		t.Fatalf("total = %s, want 70.00", r.TotalExpense)
	}
	if len(r.BalanceWith) != 1 {
		t.Fatalf("balance map = %v, want only u2", r.BalanceWith)
	}
	if got := r.BalanceWith[u2]; got.Cents != -1500 {
		t.Fatalf("balance_with[u2] = %s, want -15.00", got)
	}
}

func TestComputeBalancesNetting(t *testing.T) {
	// Mutual expenses net within the same counterparty entry.
	r := ComputeBalances([]Expense{
		expense(3000, u1, u1, u2), // u2 owes u1 15.00
		expense(1000, u2, u1, u2), // u1 owes u2 5.00
	}, u1)

	if got := r.BalanceWith[u2]; got.Cents != -1000 {
		t.Fatalf("balance_with[u2] = %s, want -10.00", got)
	}
	iOwe, owedToMe := r.OwedTotals()
	if iOwe.Cents != 0 || owedToMe.Cents != 1000 {
		t.Fatalf("owed totals = (%s, %s), want (0.00, 10.00)", iOwe, owedToMe)
	}
}

func TestMyPlusOthersEqualsTotal(t *testing.T) {
	expenses := []Expense{
		expense(3000, u1, u1, u2),
		expense(2000, u2, u1, u2, u3),
		expense(4500, u3, u2, u3),
		expense(999, u2),
	}
	for _, focal := range []int64{u1, u2, u3} {
		r := ComputeBalances(expenses, focal)
		others := r.TotalExpense.Sub(r.MyExpense)
		if r.MyExpense.Add(others).Cents != r.TotalExpense.Cents {
			t.Fatalf("focal %d: my %s + others %s != total %s", focal, r.MyExpense, others, r.TotalExpense)
		}
	}
}

func TestNetPositionConsistency(t *testing.T) {
	// total_i_owe − total_owed_to_me must equal the signed sum over all
	// counterparties, and both totals are non-negative.
	expenses := []Expense{
		expense(3000, u1, u1, u2),
		expense(2000, u2, u1, u2, u3),
		expense(1500, u3, u1, u3),
	}
	r := ComputeBalances(expenses, u1)
	iOwe, owedToMe := r.OwedTotals()
	if iOwe.IsNegative() || owedToMe.IsNegative() {
		t.Fatalf("owed totals must be non-negative: (%s, %s)", iOwe, owedToMe)
	}
	var net int64
	for _, bal := range r.BalanceWith {
		net += bal.Cents
	}
	if iOwe.Sub(owedToMe).Cents != net {
		t.Fatalf("iOwe-owedToMe = %d, net = %d", iOwe.Sub(owedToMe).Cents, net)
	}
}
