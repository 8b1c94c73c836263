package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/coder-dipesh/equilo/internal/core"
	"github.com/coder-dipesh/equilo/internal/storage"
)

var (
	ErrInviteNotFound = errors.New("invite not found")
	ErrInviteExpired  = errors.New("invite is no longer valid")
)

// inviteLifetime is how long an invite stays joinable.
const inviteLifetime = 7 * 24 * time.Hour

// InviteView is what a prospective member sees before joining.
type InviteView struct {
	Invite    core.PlaceInvite
	PlaceName string
}

func (s *Service) CreateInvite(ctx context.Context, actorID, placeID int64, email string) (*core.PlaceInvite, error) {
	if _, err := s.requireMember(ctx, placeID, actorID); err != nil {
		return nil, err
	}

	invite := &core.PlaceInvite{
		PlaceID:   placeID,
		Email:     strings.TrimSpace(email),
		Token:     uuid.New().String(),
		InvitedBy: actorID,
		Status:    core.InvitePending,
		ExpiresAt: time.Now().Add(inviteLifetime),
	}
	if err := s.repo.CreateInvite(ctx, invite); err != nil {
		return nil, err
	}
	return invite, nil
}

// RevokeInvite withdraws a pending invite so its token can no longer be
// redeemed. Already accepted invites stay untouched.
func (s *Service) RevokeInvite(ctx context.Context, actorID, placeID, inviteID int64) error {
	if _, err := s.requireMember(ctx, placeID, actorID); err != nil {
		return err
	}

	invite, err := s.repo.GetInvite(ctx, inviteID)
	if errors.Is(err, storage.ErrNotFound) {
		return ErrInviteNotFound
	}
	if err != nil {
		return err
	}
	if invite.PlaceID != placeID {
		return ErrInviteNotFound
	}
	if invite.Status != core.InvitePending {
		return ErrInviteExpired
	}
	return s.repo.SetInviteStatus(ctx, inviteID, core.InviteRevoked)
}

func (s *Service) ListInvites(ctx context.Context, actorID, placeID int64) ([]core.PlaceInvite, error) {
	if _, err := s.requireMember(ctx, placeID, actorID); err != nil {
		return nil, err
	}
	if _, err := s.repo.ExpireStaleInvites(ctx, time.Now()); err != nil {
		return nil, err
	}
	return s.repo.ListInvites(ctx, placeID)
}

// GetInvite resolves an invite token for display. It does not require
// authentication so the invited person can preview the place name.
func (s *Service) GetInvite(ctx context.Context, token string) (*InviteView, error) {
	invite, err := s.lookupInvite(ctx, token)
	if err != nil {
		return nil, err
	}

	place, err := s.repo.GetPlace(ctx, invite.PlaceID)
	if err != nil {
		return nil, err
	}
	return &InviteView{Invite: *invite, PlaceName: place.Name}, nil
}

// Join adds the calling user to the invite's place and marks the invite
// accepted. Joining a place the user already belongs to succeeds quietly.
func (s *Service) Join(ctx context.Context, userID int64, token string) (*core.Place, error) {
	invite, err := s.lookupInvite(ctx, token)
	if err != nil {
		return nil, err
	}

	if err := s.repo.AddMember(ctx, invite.PlaceID, userID, core.RoleMember); err != nil {
		return nil, err
	}
	if err := s.repo.SetInviteStatus(ctx, invite.ID, core.InviteAccepted); err != nil {
		return nil, err
	}

	return s.repo.GetPlace(ctx, invite.PlaceID)
}

func (s *Service) lookupInvite(ctx context.Context, token string) (*core.PlaceInvite, error) {
	invite, err := s.repo.GetInviteByToken(ctx, token)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrInviteNotFound
	}
	if err != nil {
		return nil, err
	}

	if invite.Status != core.InvitePending {
		return nil, ErrInviteExpired
	}
	if !invite.ExpiresAt.IsZero() && time.Now().After(invite.ExpiresAt) {
		// Lazily persist the state change so listings stay truthful.
		_ = s.repo.SetInviteStatus(ctx, invite.ID, core.InviteExpired)
		return nil, ErrInviteExpired
	}
	return invite, nil
}
