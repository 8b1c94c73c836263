package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/coder-dipesh/equilo/internal/core"
)

// MemberInfo joins a membership row with its user's display data.
type MemberInfo struct {
	User core.User
	Role core.MemberRole
}

func (s *Service) CreatePlace(ctx context.Context, userID int64, name string) (*core.Place, error) {
	place := &core.Place{Name: strings.TrimSpace(name), CreatedBy: userID}
	if err := place.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.CreatePlace(ctx, place); err != nil {
		return nil, fmt.Errorf("create place: %w", err)
	}
	return place, nil
}

func (s *Service) ListPlaces(ctx context.Context, userID int64) ([]core.Place, error) {
	return s.repo.ListPlacesForUser(ctx, userID)
}

func (s *Service) GetPlace(ctx context.Context, userID, placeID int64) (*core.Place, error) {
	if _, err := s.requireMember(ctx, placeID, userID); err != nil {
		return nil, err
	}
	return s.repo.GetPlace(ctx, placeID)
}

func (s *Service) RenamePlace(ctx context.Context, userID, placeID int64, name string) (*core.Place, error) {
	if err := s.requireOwner(ctx, placeID, userID); err != nil {
		return nil, err
	}
	place := &core.Place{ID: placeID, Name: strings.TrimSpace(name), CreatedBy: userID}
	if err := place.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.UpdatePlace(ctx, place); err != nil {
		return nil, err
	}
	return s.repo.GetPlace(ctx, placeID)
}

func (s *Service) DeletePlace(ctx context.Context, userID, placeID int64) error {
	if err := s.requireOwner(ctx, placeID, userID); err != nil {
		return err
	}
	return s.repo.DeletePlace(ctx, placeID)
}

func (s *Service) ListMembers(ctx context.Context, userID, placeID int64) ([]MemberInfo, error) {
	if _, err := s.requireMember(ctx, placeID, userID); err != nil {
		return nil, err
	}

	members, err := s.repo.ListMembers(ctx, placeID)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, len(members))
	for i, m := range members {
		ids[i] = m.UserID
	}
	users, err := s.users.UsersByID(ctx, ids)
	if err != nil {
		return nil, err
	}

	infos := make([]MemberInfo, 0, len(members))
	for _, m := range members {
		infos = append(infos, MemberInfo{User: users[m.UserID], Role: m.Role})
	}
	return infos, nil
}

// RemoveMember lets an owner remove any other member, and any member remove
// themselves.
func (s *Service) RemoveMember(ctx context.Context, actorID, placeID, targetID int64) error {
	role, err := s.requireMember(ctx, placeID, actorID)
	if err != nil {
		return err
	}
	if actorID != targetID && role != core.RoleOwner {
		return ErrNotOwner
	}
	if actorID == targetID && role == core.RoleOwner {
		return fmt.Errorf("owner cannot leave their own place")
	}
	return s.repo.RemoveMember(ctx, placeID, targetID)
}

func (s *Service) ListCategories(ctx context.Context, userID, placeID int64) ([]core.ExpenseCategory, error) {
	if _, err := s.requireMember(ctx, placeID, userID); err != nil {
		return nil, err
	}
	return s.repo.ListCategories(ctx, placeID)
}

func (s *Service) CreateCategory(ctx context.Context, userID, placeID int64, name string) (*core.ExpenseCategory, error) {
	if _, err := s.requireMember(ctx, placeID, userID); err != nil {
		return nil, err
	}
	category := &core.ExpenseCategory{PlaceID: placeID, Name: strings.TrimSpace(name)}
	if err := category.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.CreateCategory(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *Service) GetCategory(ctx context.Context, userID, placeID, categoryID int64) (*core.ExpenseCategory, error) {
	if _, err := s.requireMember(ctx, placeID, userID); err != nil {
		return nil, err
	}
	return s.repo.GetCategory(ctx, placeID, categoryID)
}

func (s *Service) RenameCategory(ctx context.Context, userID, placeID, categoryID int64, name string) (*core.ExpenseCategory, error) {
	if _, err := s.requireMember(ctx, placeID, userID); err != nil {
		return nil, err
	}

	category, err := s.repo.GetCategory(ctx, placeID, categoryID)
	if err != nil {
		return nil, err
	}
	category.Name = strings.TrimSpace(name)
	if err := category.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateCategory(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *Service) DeleteCategory(ctx context.Context, userID, placeID, categoryID int64) error {
	if _, err := s.requireMember(ctx, placeID, userID); err != nil {
		return err
	}
	return s.repo.DeleteCategory(ctx, placeID, categoryID)
}
