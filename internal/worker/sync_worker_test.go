package worker

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/coder-dipesh/equilo/internal/amqp"
	"github.com/coder-dipesh/equilo/internal/core"
	"github.com/coder-dipesh/equilo/internal/export/sheets"
	"github.com/coder-dipesh/equilo/internal/storage"
)

func TestHandleExpenseEvent(t *testing.T) {
	ctx := context.Background()
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository() error = %v", err)
	}
	defer repo.Close()

	alice := &core.User{Username: "alice", DisplayName: "Alice"}
	if err := repo.CreateUser(ctx, alice, "hash"); err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	bob := &core.User{Username: "bob"}
	if err := repo.CreateUser(ctx, bob, "hash"); err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}

	place := &core.Place{Name: "Flat 3B", CreatedBy: alice.ID}
	if err := repo.CreatePlace(ctx, place); err != nil {
		t.Fatalf("CreatePlace() error = %v", err)
	}
	if err := repo.AddMember(ctx, place.ID, bob.ID, core.RoleMember); err != nil {
		t.Fatalf("AddMember() error = %v", err)
	}

	expense := &core.Expense{
		PlaceID:     place.ID,
		Amount:      core.Money{Cents: 2550},
		Description: "Groceries",
		Date:        core.NewDate(2025, 6, 10),
		PaidBy:      alice.ID,
		AddedBy:     alice.ID,
		Splits:      []int64{alice.ID, bob.ID},
	}
	if err := repo.CreateExpense(ctx, expense); err != nil {
		t.Fatalf("CreateExpense() error = %v", err)
	}

	ledger := sheets.NewMemoryLedger()
	w := NewSyncWorker(repo, ledger)

	event := amqp.NewExpenseEvent(expense.ID, place.ID, amqp.ActionCreated)
	if err := w.HandleExpenseEvent(ctx, event); err != nil {
		t.Fatalf("HandleExpenseEvent() error = %v", err)
	}

	rows := ledger.Rows()
	if len(rows) != 1 {
		t.Fatalf("got %d ledger rows, want 1", len(rows))
	}
	row := rows[0]
	if row.Date != "2025-06-10" || row.Place != "Flat 3B" || row.Description != "Groceries" {
		t.Errorf("row = %+v", row)
	}
	if row.Amount != 25.50 {
		t.Errorf("Amount = %v, want 25.50", row.Amount)
	}
	if row.PaidBy != "Alice" {
		t.Errorf("PaidBy = %q, want Alice (display name preferred)", row.PaidBy)
	}
	if row.SharedWith != "Alice, bob" {
		t.Errorf("SharedWith = %q", row.SharedWith)
	}
}

func TestHandleExpenseEventMissingExpense(t *testing.T) {
	ctx := context.Background()
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository() error = %v", err)
	}
	defer repo.Close()

	ledger := sheets.NewMemoryLedger()
	w := NewSyncWorker(repo, ledger)

	// Expense already deleted: the event is dropped without error so the
	// queue does not loop forever on it.
	event := amqp.NewExpenseEvent(99, 1, amqp.ActionCreated)
	if err := w.HandleExpenseEvent(ctx, event); err != nil {
		t.Fatalf("HandleExpenseEvent() error = %v", err)
	}
	if len(ledger.Rows()) != 0 {
		t.Errorf("got %d ledger rows, want 0", len(ledger.Rows()))
	}
}
