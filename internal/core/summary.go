package core

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"
)

// Ports for the summary assembler. Storage owns the expense and user records;
// the assembler only reads through these.
type (
	ExpenseSource interface {
		// ExpensesInRange returns all expenses of a place dated inside
		// [start, end], both inclusive.
		ExpensesInRange(ctx context.Context, placeID int64, start, end Date) ([]Expense, error)
	}

	UserDirectory interface {
		// UsersByID resolves display data for the given user ids. Missing ids
		// are simply absent from the result.
		UsersByID(ctx context.Context, ids []int64) (map[int64]User, error)
	}
)

// SummaryRequest names the inputs of one summary computation.
// A zero Reference means "the current week as of Now".
type SummaryRequest struct {
	PlaceID   int64
	UserID    int64
	Period    Period
	WeekStart WeekStart
	Reference Date
	Now       time.Time
}

// MemberBalance is one row of the sorted per-member breakdown.
type MemberBalance struct {
	UserID      int64  `json:"user_id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Balance     Money  `json:"balance"`
}

// Summary is the full report returned at the HTTP boundary.
type Summary struct {
	Period                Period          `json:"period"`
	From                  Date            `json:"from"`
	To                    Date            `json:"to"`
	TotalExpense          Money           `json:"total_expense"`
	MyExpense             Money           `json:"my_expense"`
	OthersExpense         Money           `json:"others_expense"`
	TotalIPaid            Money           `json:"total_i_paid"`
	TotalIOwe             Money           `json:"total_i_owe"`
	TotalOwedToMe         Money           `json:"total_owed_to_me"`
	ByMemberBalance       map[int64]Money `json:"by_member_balance"`
	ByMemberBalanceList   []MemberBalance `json:"by_member_balance_list"`
	PreviousTotalExpense  Money           `json:"previous_total_expense"`
	SpendingChangePercent *int            `json:"spending_change_percent"`
}

// Assembler combines period resolution, the balance engine, and user lookup
// into the final report. It holds no state between invocations.
type Assembler struct {
	expenses ExpenseSource
	users    UserDirectory
}

func NewAssembler(expenses ExpenseSource, users UserDirectory) *Assembler {
	return &Assembler{expenses: expenses, users: users}
}

// Build computes the summary for the requested window and the immediately
// preceding one. Only the totals of the previous window are retained.
func (a *Assembler) Build(ctx context.Context, req SummaryRequest) (*Summary, error) {
	now := req.Now
	if now.IsZero() {
		now = time.Now()
	}

	window := ResolveWindow(req.Period, req.WeekStart, req.Reference, now)

	current, err := a.reportFor(ctx, req.PlaceID, req.UserID, window)
	if err != nil {
		return nil, fmt.Errorf("current window: %w", err)
	}

	prev, err := a.reportFor(ctx, req.PlaceID, req.UserID, window.Previous(req.Period))
	if err != nil {
		return nil, fmt.Errorf("previous window: %w", err)
	}

	iOwe, owedToMe := current.OwedTotals()

	s := &Summary{
		Period:                req.Period,
		From:                  window.Start,
		To:                    window.End,
		TotalExpense:          current.TotalExpense,
		MyExpense:             current.MyExpense,
		OthersExpense:         current.TotalExpense.Sub(current.MyExpense),
		TotalIPaid:            current.TotalIPaid,
		TotalIOwe:             iOwe,
		TotalOwedToMe:         owedToMe,
		ByMemberBalance:       current.BalanceWith,
		PreviousTotalExpense:  prev.TotalExpense,
		SpendingChangePercent: changePercent(prev.TotalExpense, current.TotalExpense),
	}

	list, err := a.memberList(ctx, current.BalanceWith)
	if err != nil {
		return nil, fmt.Errorf("resolve members: %w", err)
	}
	s.ByMemberBalanceList = list

	return s, nil
}

func (a *Assembler) reportFor(ctx context.Context, placeID, userID int64, w Window) (BalanceReport, error) {
	expenses, err := a.expenses.ExpensesInRange(ctx, placeID, w.Start, w.End)
	if err != nil {
		return BalanceReport{}, fmt.Errorf("fetch expenses: %w", err)
	}
	return ComputeBalances(expenses, userID), nil
}

// memberList resolves display names and orders the breakdown: members who owe
// the focal user (negative balance) come first, each group sorted by
// descending absolute value, ties kept in ascending user-id order.
func (a *Assembler) memberList(ctx context.Context, balances map[int64]Money) ([]MemberBalance, error) {
	if len(balances) == 0 {
		return []MemberBalance{}, nil
	}

	ids := make([]int64, 0, len(balances))
	for id := range balances {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	users, err := a.users.UsersByID(ctx, ids)
	if err != nil {
		return nil, err
	}

	list := make([]MemberBalance, 0, len(ids))
	for _, id := range ids {
		entry := MemberBalance{UserID: id, Balance: balances[id]}
		if u, ok := users[id]; ok {
			entry.Username = u.Username
			entry.DisplayName = u.DisplayName
			if entry.DisplayName == "" {
				entry.DisplayName = u.Username
			}
		}
		list = append(list, entry)
	}

	sort.SliceStable(list, func(i, j int) bool {
		iOwed := list[i].Balance.IsNegative()
		jOwed := list[j].Balance.IsNegative()
		if iOwed != jOwed {
			return iOwed
		}
		return list[i].Balance.Abs().Cents > list[j].Balance.Abs().Cents
	})

	return list, nil
}

// changePercent compares period totals. A nil result means there is no
// baseline to compare against (previous total was zero but spending exists
// now); it is not an infinite percentage.
func changePercent(prev, cur Money) *int {
	switch {
	case prev.Cents > 0:
		pct := int(math.Round(float64(cur.Cents-prev.Cents) / float64(prev.Cents) * 100))
		return &pct
	case cur.Cents == 0:
		zero := 0
		return &zero
	default:
		return nil
	}
}
