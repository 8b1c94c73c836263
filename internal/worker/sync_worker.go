// Package worker runs the background sync that mirrors expenses to the
// household ledger spreadsheet.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/coder-dipesh/equilo/internal/amqp"
	"github.com/coder-dipesh/equilo/internal/core"
	"github.com/coder-dipesh/equilo/internal/export/sheets"
	"github.com/coder-dipesh/equilo/internal/storage"
)

// SyncWorker consumes expense events and appends each one as a ledger row.
type SyncWorker struct {
	storage *storage.SQLiteRepository
	ledger  sheets.LedgerWriter
}

func NewSyncWorker(storage *storage.SQLiteRepository, ledger sheets.LedgerWriter) *SyncWorker {
	return &SyncWorker{storage: storage, ledger: ledger}
}

// HandleExpenseEvent processes a single expense event from AMQP.
func (w *SyncWorker) HandleExpenseEvent(ctx context.Context, event *amqp.ExpenseEvent) error {
	slog.InfoContext(ctx, "Processing expense event",
		"expense_id", event.ExpenseID,
		"place_id", event.PlaceID,
		"action", event.Action)

	if event.Action == amqp.ActionDeleted {
		// The expense row is gone from the database. Record a tombstone line
		// so the ledger still reflects that something was removed.
		return w.ledger.AppendRow(ctx, sheets.LedgerRow{
			Description: fmt.Sprintf("expense %d removed", event.ExpenseID),
			Action:      event.Action,
		})
	}

	expense, err := w.storage.GetExpense(ctx, event.PlaceID, event.ExpenseID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			// Deleted between publish and consume. Nothing to export.
			slog.WarnContext(ctx, "Expense vanished before sync", "expense_id", event.ExpenseID)
			return nil
		}
		return fmt.Errorf("get expense: %w", err)
	}

	row, err := w.buildRow(ctx, expense, event.Action)
	if err != nil {
		return err
	}

	if err := w.ledger.AppendRow(ctx, row); err != nil {
		return fmt.Errorf("append ledger row: %w", err)
	}

	slog.InfoContext(ctx, "Expense synced to ledger",
		"expense_id", expense.ID,
		"place_id", expense.PlaceID)
	return nil
}

func (w *SyncWorker) buildRow(ctx context.Context, e *core.Expense, action string) (sheets.LedgerRow, error) {
	place, err := w.storage.GetPlace(ctx, e.PlaceID)
	if err != nil {
		return sheets.LedgerRow{}, fmt.Errorf("get place: %w", err)
	}

	ids := append([]int64{e.PaidBy}, e.Splits...)
	users, err := w.storage.UsersByID(ctx, ids)
	if err != nil {
		return sheets.LedgerRow{}, fmt.Errorf("resolve users: %w", err)
	}

	names := make([]string, 0, len(e.Splits))
	for _, id := range e.Splits {
		names = append(names, displayName(users, id))
	}
	sort.Strings(names)

	return sheets.LedgerRow{
		Date:        e.Date.String(),
		Place:       place.Name,
		Description: e.Description,
		Amount:      e.Amount.Float64(),
		PaidBy:      displayName(users, e.PaidBy),
		SharedWith:  strings.Join(names, ", "),
		Action:      action,
	}, nil
}

func displayName(users map[int64]core.User, id int64) string {
	u, ok := users[id]
	if !ok {
		return fmt.Sprintf("user %d", id)
	}
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Username
}
