package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/coder-dipesh/equilo/internal/core"
)

// CreateExpense inserts an expense and its split participants in one
// transaction.
func (r *SQLiteRepository) CreateExpense(ctx context.Context, e *core.Expense) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO expenses (place_id, description, amount_cents, expense_date, paid_by, added_by, category_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.PlaceID, e.Description, e.Amount.Cents, e.Date.String(), e.PaidBy, e.AddedBy, nullableID(e.CategoryID),
	)
	if err != nil {
		return fmt.Errorf("insert expense: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("expense id: %w", err)
	}
	e.ID = id

	for _, userID := range e.Splits {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO expense_splits (expense_id, user_id) VALUES (?, ?)`,
			id, userID,
		); err != nil {
			return fmt.Errorf("insert split: %w", err)
		}
	}

	return tx.Commit()
}

// UpdateExpense rewrites an expense and replaces its split set.
func (r *SQLiteRepository) UpdateExpense(ctx context.Context, e *core.Expense) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE expenses
		 SET description = ?, amount_cents = ?, expense_date = ?, paid_by = ?, category_id = ?
		 WHERE id = ? AND place_id = ?`,
		e.Description, e.Amount.Cents, e.Date.String(), e.PaidBy, nullableID(e.CategoryID), e.ID, e.PlaceID,
	)
	if err != nil {
		return fmt.Errorf("update expense: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM expense_splits WHERE expense_id = ?`, e.ID); err != nil {
		return fmt.Errorf("clear splits: %w", err)
	}
	for _, userID := range e.Splits {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO expense_splits (expense_id, user_id) VALUES (?, ?)`,
			e.ID, userID,
		); err != nil {
			return fmt.Errorf("insert split: %w", err)
		}
	}

	return tx.Commit()
}

func (r *SQLiteRepository) DeleteExpense(ctx context.Context, placeID, expenseID int64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM expenses WHERE id = ? AND place_id = ?`, expenseID, placeID)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SQLiteRepository) GetExpense(ctx context.Context, placeID, expenseID int64) (*core.Expense, error) {
	e := &core.Expense{}
	var dateStr string
	var categoryID sql.NullInt64
	err := r.db.QueryRowContext(ctx,
		`SELECT id, place_id, description, amount_cents, expense_date, paid_by, added_by, category_id, created_at
		 FROM expenses WHERE id = ? AND place_id = ?`,
		expenseID, placeID,
	).Scan(&e.ID, &e.PlaceID, &e.Description, &e.Amount.Cents, &dateStr, &e.PaidBy, &e.AddedBy, &categoryID, &e.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get expense: %w", err)
	}
	if e.Date, err = core.ParseDate(dateStr); err != nil {
		return nil, fmt.Errorf("parse expense date %q: %w", dateStr, err)
	}
	if categoryID.Valid {
		e.CategoryID = categoryID.Int64
	}

	splits, err := r.loadSplits(ctx, []int64{e.ID})
	if err != nil {
		return nil, err
	}
	e.Splits = splits[e.ID]
	return e, nil
}

// ListExpenses returns all expenses of a place, most recent first.
func (r *SQLiteRepository) ListExpenses(ctx context.Context, placeID int64) ([]core.Expense, error) {
	return r.queryExpenses(ctx,
		`SELECT id, place_id, description, amount_cents, expense_date, paid_by, added_by, category_id, created_at
		 FROM expenses WHERE place_id = ?
		 ORDER BY expense_date DESC, id DESC`, placeID)
}

// ExpensesInRange returns the expenses of a place whose date falls inside
// [start, end], ordered by date then id.
func (r *SQLiteRepository) ExpensesInRange(ctx context.Context, placeID int64, start, end core.Date) ([]core.Expense, error) {
	return r.queryExpenses(ctx,
		`SELECT id, place_id, description, amount_cents, expense_date, paid_by, added_by, category_id, created_at
		 FROM expenses WHERE place_id = ? AND expense_date BETWEEN ? AND ?
		 ORDER BY expense_date, id`, placeID, start.String(), end.String())
}

func (r *SQLiteRepository) queryExpenses(ctx context.Context, query string, args ...any) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query expenses: %w", err)
	}
	defer rows.Close()

	var expenses []core.Expense
	var ids []int64
	for rows.Next() {
		var e core.Expense
		var dateStr string
		var categoryID sql.NullInt64
		if err := rows.Scan(&e.ID, &e.PlaceID, &e.Description, &e.Amount.Cents, &dateStr,
			&e.PaidBy, &e.AddedBy, &categoryID, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		if e.Date, err = core.ParseDate(dateStr); err != nil {
			return nil, fmt.Errorf("parse expense date %q: %w", dateStr, err)
		}
		if categoryID.Valid {
			e.CategoryID = categoryID.Int64
		}
		expenses = append(expenses, e)
		ids = append(ids, e.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expenses: %w", err)
	}

	splits, err := r.loadSplits(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range expenses {
		expenses[i].Splits = splits[expenses[i].ID]
	}
	return expenses, nil
}

func (r *SQLiteRepository) loadSplits(ctx context.Context, expenseIDs []int64) (map[int64][]int64, error) {
	splits := make(map[int64][]int64, len(expenseIDs))
	if len(expenseIDs) == 0 {
		return splits, nil
	}

	placeholders := strings.Repeat("?,", len(expenseIDs))
	placeholders = placeholders[:len(placeholders)-1]
	args := make([]any, len(expenseIDs))
	for i, id := range expenseIDs {
		args[i] = id
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT expense_id, user_id FROM expense_splits
		 WHERE expense_id IN (`+placeholders+`) ORDER BY expense_id, user_id`, args...)
	if err != nil {
		return nil, fmt.Errorf("query splits: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var expenseID, userID int64
		if err := rows.Scan(&expenseID, &userID); err != nil {
			return nil, fmt.Errorf("scan split: %w", err)
		}
		splits[expenseID] = append(splits[expenseID], userID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate splits: %w", err)
	}
	return splits, nil
}

func nullableID(id int64) any {
	if id == 0 {
		return nil
	}
	return id
}
