package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/coder-dipesh/equilo/internal/amqp"
	"github.com/coder-dipesh/equilo/internal/core"
	"github.com/coder-dipesh/equilo/internal/middleware/metrics"
)

// ExpenseInput carries the caller-supplied fields of an expense.
type ExpenseInput struct {
	Description string
	Amount      core.Money
	Date        core.Date
	PaidBy      int64
	CategoryID  int64
	Splits      []int64
}

func (s *Service) CreateExpense(ctx context.Context, actorID, placeID int64, input ExpenseInput) (*core.Expense, error) {
	if _, err := s.requireMember(ctx, placeID, actorID); err != nil {
		return nil, err
	}

	expense, err := s.buildExpense(ctx, actorID, placeID, input)
	if err != nil {
		return nil, err
	}

	if err := s.repo.CreateExpense(ctx, expense); err != nil {
		return nil, fmt.Errorf("create expense: %w", err)
	}

	s.publishEvent(ctx, expense.ID, placeID, amqp.ActionCreated)
	return expense, nil
}

func (s *Service) UpdateExpense(ctx context.Context, actorID, placeID, expenseID int64, input ExpenseInput) (*core.Expense, error) {
	if _, err := s.requireMember(ctx, placeID, actorID); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetExpense(ctx, placeID, expenseID)
	if err != nil {
		return nil, err
	}

	expense, err := s.buildExpense(ctx, actorID, placeID, input)
	if err != nil {
		return nil, err
	}
	expense.ID = existing.ID
	expense.AddedBy = existing.AddedBy
	expense.CreatedAt = existing.CreatedAt

	if err := s.repo.UpdateExpense(ctx, expense); err != nil {
		return nil, fmt.Errorf("update expense: %w", err)
	}

	s.publishEvent(ctx, expense.ID, placeID, amqp.ActionUpdated)
	return expense, nil
}

func (s *Service) DeleteExpense(ctx context.Context, actorID, placeID, expenseID int64) error {
	if _, err := s.requireMember(ctx, placeID, actorID); err != nil {
		return err
	}
	if err := s.repo.DeleteExpense(ctx, placeID, expenseID); err != nil {
		return err
	}
	s.publishEvent(ctx, expenseID, placeID, amqp.ActionDeleted)
	return nil
}

func (s *Service) GetExpense(ctx context.Context, actorID, placeID, expenseID int64) (*core.Expense, error) {
	if _, err := s.requireMember(ctx, placeID, actorID); err != nil {
		return nil, err
	}
	return s.repo.GetExpense(ctx, placeID, expenseID)
}

func (s *Service) ListExpenses(ctx context.Context, actorID, placeID int64) ([]core.Expense, error) {
	if _, err := s.requireMember(ctx, placeID, actorID); err != nil {
		return nil, err
	}
	return s.repo.ListExpenses(ctx, placeID)
}

// buildExpense normalizes raw input into a valid expense. The payer defaults
// to the actor, and the split set is restricted to current members of the
// place. An empty result set leaves the whole amount on the payer.
func (s *Service) buildExpense(ctx context.Context, actorID, placeID int64, input ExpenseInput) (*core.Expense, error) {
	paidBy := input.PaidBy
	if paidBy == 0 {
		paidBy = actorID
	}
	if _, err := s.requireMember(ctx, placeID, paidBy); err != nil {
		return nil, fmt.Errorf("payer: %w", err)
	}

	members, err := s.repo.ListMembers(ctx, placeID)
	if err != nil {
		return nil, err
	}
	memberSet := make(map[int64]bool, len(members))
	for _, m := range members {
		memberSet[m.UserID] = true
	}

	var splits []int64
	seen := make(map[int64]bool, len(input.Splits))
	for _, id := range input.Splits {
		if !memberSet[id] || seen[id] {
			continue
		}
		seen[id] = true
		splits = append(splits, id)
	}

	if input.CategoryID != 0 {
		if err := s.checkCategory(ctx, placeID, input.CategoryID); err != nil {
			return nil, err
		}
	}

	expense := &core.Expense{
		PlaceID:     placeID,
		Amount:      input.Amount,
		Description: strings.TrimSpace(input.Description),
		Date:        input.Date,
		PaidBy:      paidBy,
		AddedBy:     actorID,
		CategoryID:  input.CategoryID,
		Splits:      splits,
	}
	if err := expense.Validate(); err != nil {
		return nil, err
	}
	return expense, nil
}

func (s *Service) checkCategory(ctx context.Context, placeID, categoryID int64) error {
	categories, err := s.repo.ListCategories(ctx, placeID)
	if err != nil {
		return err
	}
	for _, c := range categories {
		if c.ID == categoryID {
			return nil
		}
	}
	return fmt.Errorf("category %d does not belong to this place", categoryID)
}

// publishEvent hands the expense to the sync queue. Publish failures are
// logged and swallowed; the expense is already committed and the ledger can
// catch up later.
func (s *Service) publishEvent(ctx context.Context, expenseID, placeID int64, action string) {
	if s.events == nil {
		return
	}
	event := amqp.NewExpenseEvent(expenseID, placeID, action)
	if err := s.events.PublishExpenseEvent(ctx, event); err != nil {
		slog.ErrorContext(ctx, "Failed to publish expense event",
			"expense_id", expenseID,
			"action", action,
			"error", err)
		return
	}
	metrics.CountExpenseEvent()
}
