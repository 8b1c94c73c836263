package core

// BalanceReport aggregates one user's position over a set of expenses.
//
// BalanceWith maps other-user-id to a signed amount: positive means the focal
// user owes them, negative means they owe the focal user. The report is built
// one focal user at a time; it is not a symmetric ledger.
type BalanceReport struct {
	TotalExpense Money
	MyExpense    Money
	TotalIPaid   Money
	BalanceWith  map[int64]Money
}

// ComputeBalances derives the focal user's totals and pairwise balances from
// the given expenses. Callers are expected to have restricted the expense
// list to a single place and period window already.
//
// For each expense the per-participant share is amount / max(1, |splits|).
// Per split participant s:
//   - s == payer: nobody owes themselves, skip
//   - payer is the focal user: s owes the focal user a share (negative entry)
//   - s is the focal user: the focal user owes the payer a share (positive entry)
//
// Expenses touching neither the payer nor the splits of the focal user still
// count toward TotalExpense.
func ComputeBalances(expenses []Expense, focal int64) BalanceReport {
	report := BalanceReport{BalanceWith: make(map[int64]Money)}

	for _, e := range expenses {
		report.TotalExpense = report.TotalExpense.Add(e.Amount)
		if e.PaidBy == focal {
			report.TotalIPaid = report.TotalIPaid.Add(e.Amount)
		}

		share := e.Amount.Split(len(e.Splits))

		for _, s := range e.Splits {
			if s == focal {
				report.MyExpense = report.MyExpense.Add(share)
			}
			if s == e.PaidBy {
				continue
			}
			switch {
			case e.PaidBy == focal:
				report.BalanceWith[s] = report.BalanceWith[s].Sub(share)
			case s == focal:
				report.BalanceWith[e.PaidBy] = report.BalanceWith[e.PaidBy].Add(share)
			}
		}
	}

	return report
}

// OwedTotals splits the pairwise balances into what the focal user owes
// others and what others owe the focal user. Both results are non-negative.
func (r BalanceReport) OwedTotals() (iOwe, owedToMe Money) {
	for _, bal := range r.BalanceWith {
		if bal.IsNegative() {
			owedToMe = owedToMe.Add(bal.Neg())
		} else {
			iOwe = iOwe.Add(bal)
		}
	}
	return iOwe, owedToMe
}
