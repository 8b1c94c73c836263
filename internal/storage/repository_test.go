package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/coder-dipesh/equilo/internal/core"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository() error = %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func createTestUser(t *testing.T, repo *SQLiteRepository, username string) *core.User {
	t.Helper()
	user := &core.User{Username: username, Email: username + "@example.com", DisplayName: username}
	if err := repo.CreateUser(context.Background(), user, "hash"); err != nil {
		t.Fatalf("CreateUser(%s) error = %v", username, err)
	}
	return user
}

func TestUserRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	user := createTestUser(t, repo, "alice")
	if user.ID == 0 {
		t.Fatal("CreateUser should assign an id")
	}

	got, hash, err := repo.GetUserByUsername(ctx, "alice")
	if err != nil {
		t.Fatalf("GetUserByUsername() error = %v", err)
	}
	if got.ID != user.ID || hash != "hash" {
		t.Errorf("got id=%d hash=%q, want id=%d hash=%q", got.ID, hash, user.ID, "hash")
	}

	if _, _, err := repo.GetUserByUsername(ctx, "nobody"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing user error = %v, want ErrNotFound", err)
	}

	users, err := repo.UsersByID(ctx, []int64{user.ID, 999})
	if err != nil {
		t.Fatalf("UsersByID() error = %v", err)
	}
	if len(users) != 1 || users[user.ID].Username != "alice" {
		t.Errorf("UsersByID() = %v, want just alice", users)
	}
}

func TestCreatePlaceSeedsOwnerAndCategories(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	owner := createTestUser(t, repo, "alice")
	place := &core.Place{Name: "Flat 3B", CreatedBy: owner.ID}
	if err := repo.CreatePlace(ctx, place); err != nil {
		t.Fatalf("CreatePlace() error = %v", err)
	}

	role, err := repo.MemberRole(ctx, place.ID, owner.ID)
	if err != nil {
		t.Fatalf("MemberRole() error = %v", err)
	}
	if role != core.RoleOwner {
		t.Errorf("creator role = %s, want owner", role)
	}

	categories, err := repo.ListCategories(ctx, place.ID)
	if err != nil {
		t.Fatalf("ListCategories() error = %v", err)
	}
	if len(categories) != len(core.DefaultCategories) {
		t.Errorf("got %d categories, want %d", len(categories), len(core.DefaultCategories))
	}
}

func TestMembershipChecks(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	owner := createTestUser(t, repo, "alice")
	guest := createTestUser(t, repo, "bob")
	place := &core.Place{Name: "Flat 3B", CreatedBy: owner.ID}
	if err := repo.CreatePlace(ctx, place); err != nil {
		t.Fatalf("CreatePlace() error = %v", err)
	}

	if _, err := repo.MemberRole(ctx, place.ID, guest.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("non-member role error = %v, want ErrNotFound", err)
	}

	if err := repo.AddMember(ctx, place.ID, guest.ID, core.RoleMember); err != nil {
		t.Fatalf("AddMember() error = %v", err)
	}
	// Idempotent re-add.
	if err := repo.AddMember(ctx, place.ID, guest.ID, core.RoleMember); err != nil {
		t.Fatalf("AddMember() repeat error = %v", err)
	}

	members, err := repo.ListMembers(ctx, place.ID)
	if err != nil {
		t.Fatalf("ListMembers() error = %v", err)
	}
	if len(members) != 2 {
		t.Errorf("got %d members, want 2", len(members))
	}

	places, err := repo.ListPlacesForUser(ctx, guest.ID)
	if err != nil {
		t.Fatalf("ListPlacesForUser() error = %v", err)
	}
	if len(places) != 1 || places[0].ID != place.ID {
		t.Errorf("ListPlacesForUser() = %v, want the shared place", places)
	}
}

func TestExpenseRoundTripAndRange(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	alice := createTestUser(t, repo, "alice")
	bob := createTestUser(t, repo, "bob")
	place := &core.Place{Name: "Flat 3B", CreatedBy: alice.ID}
	if err := repo.CreatePlace(ctx, place); err != nil {
		t.Fatalf("CreatePlace() error = %v", err)
	}
	if err := repo.AddMember(ctx, place.ID, bob.ID, core.RoleMember); err != nil {
		t.Fatalf("AddMember() error = %v", err)
	}

	e := &core.Expense{
		PlaceID:     place.ID,
		Amount:      core.Money{Cents: 3000},
		Description: "Groceries",
		Date:        core.NewDate(2025, 6, 10),
		PaidBy:      alice.ID,
		AddedBy:     alice.ID,
		Splits:      []int64{alice.ID, bob.ID},
	}
	if err := repo.CreateExpense(ctx, e); err != nil {
		t.Fatalf("CreateExpense() error = %v", err)
	}

	got, err := repo.GetExpense(ctx, place.ID, e.ID)
	if err != nil {
		t.Fatalf("GetExpense() error = %v", err)
	}
	if got.Amount.Cents != 3000 || got.Date.String() != "2025-06-10" {
		t.Errorf("got amount=%d date=%s", got.Amount.Cents, got.Date)
	}
	if len(got.Splits) != 2 {
		t.Errorf("got %d splits, want 2", len(got.Splits))
	}

	// A second expense outside the query window.
	outside := &core.Expense{
		PlaceID:     place.ID,
		Amount:      core.Money{Cents: 1000},
		Description: "Internet",
		Date:        core.NewDate(2025, 6, 20),
		PaidBy:      bob.ID,
		AddedBy:     bob.ID,
		Splits:      []int64{alice.ID, bob.ID},
	}
	if err := repo.CreateExpense(ctx, outside); err != nil {
		t.Fatalf("CreateExpense() error = %v", err)
	}

	inRange, err := repo.ExpensesInRange(ctx, place.ID, core.NewDate(2025, 6, 9), core.NewDate(2025, 6, 15))
	if err != nil {
		t.Fatalf("ExpensesInRange() error = %v", err)
	}
	if len(inRange) != 1 || inRange[0].ID != e.ID {
		t.Errorf("ExpensesInRange() = %v, want just the groceries expense", inRange)
	}

	// Update replaces the split set.
	e.Splits = []int64{alice.ID}
	e.Description = "Groceries (corrected)"
	if err := repo.UpdateExpense(ctx, e); err != nil {
		t.Fatalf("UpdateExpense() error = %v", err)
	}
	got, err = repo.GetExpense(ctx, place.ID, e.ID)
	if err != nil {
		t.Fatalf("GetExpense() after update error = %v", err)
	}
	if len(got.Splits) != 1 || got.Description != "Groceries (corrected)" {
		t.Errorf("update not applied: %+v", got)
	}

	if err := repo.DeleteExpense(ctx, place.ID, e.ID); err != nil {
		t.Fatalf("DeleteExpense() error = %v", err)
	}
	if _, err := repo.GetExpense(ctx, place.ID, e.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("deleted expense error = %v, want ErrNotFound", err)
	}
}

func TestInviteLifecycle(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	owner := createTestUser(t, repo, "alice")
	place := &core.Place{Name: "Flat 3B", CreatedBy: owner.ID}
	if err := repo.CreatePlace(ctx, place); err != nil {
		t.Fatalf("CreatePlace() error = %v", err)
	}

	invite := &core.PlaceInvite{
		PlaceID:   place.ID,
		Token:     "tok-123",
		Email:     "bob@example.com",
		InvitedBy: owner.ID,
		Status:    core.InvitePending,
	}
	if err := repo.CreateInvite(ctx, invite); err != nil {
		t.Fatalf("CreateInvite() error = %v", err)
	}

	got, err := repo.GetInviteByToken(ctx, "tok-123")
	if err != nil {
		t.Fatalf("GetInviteByToken() error = %v", err)
	}
	if got.Status != core.InvitePending || got.PlaceID != place.ID {
		t.Errorf("invite = %+v", got)
	}

	if err := repo.SetInviteStatus(ctx, invite.ID, core.InviteAccepted); err != nil {
		t.Fatalf("SetInviteStatus() error = %v", err)
	}
	got, _ = repo.GetInviteByToken(ctx, "tok-123")
	if got.Status != core.InviteAccepted {
		t.Errorf("status = %s, want accepted", got.Status)
	}

	if _, err := repo.GetInviteByToken(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing invite error = %v, want ErrNotFound", err)
	}
}
