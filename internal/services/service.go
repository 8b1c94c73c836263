// Package services implements the application operations on top of storage,
// keeping authorization and cross-cutting concerns out of both the HTTP
// handlers and the core engine.
package services

import (
	"context"
	"errors"
	"time"

	"github.com/coder-dipesh/equilo/internal/amqp"
	"github.com/coder-dipesh/equilo/internal/cache"
	"github.com/coder-dipesh/equilo/internal/core"
	"github.com/coder-dipesh/equilo/internal/storage"
)

var (
	ErrNotMember = errors.New("not a member of this place")
	ErrNotOwner  = errors.New("only the place owner may do this")
)

// EventPublisher publishes expense events for the background sync worker.
type EventPublisher interface {
	PublishExpenseEvent(ctx context.Context, event *amqp.ExpenseEvent) error
}

type Service struct {
	repo   *storage.SQLiteRepository
	events EventPublisher
	users  *cachedDirectory
}

// New creates the service layer. events may be nil when no message broker is
// configured; expense events are then skipped.
func New(repo *storage.SQLiteRepository, events EventPublisher, cacheSize int, cacheTTL time.Duration) *Service {
	return &Service{
		repo:   repo,
		events: events,
		users: &cachedDirectory{
			repo:  repo,
			cache: cache.NewLRUCache[core.User](cacheSize, cacheTTL),
		},
	}
}

// StartCacheJanitor begins periodic expiry of stale directory cache entries.
func (s *Service) StartCacheJanitor(ctx context.Context, interval time.Duration) {
	s.users.cache.StartJanitor(ctx, interval)
}

// requireMember returns the caller's role in the place, or ErrNotMember.
func (s *Service) requireMember(ctx context.Context, placeID, userID int64) (core.MemberRole, error) {
	role, err := s.repo.MemberRole(ctx, placeID, userID)
	if errors.Is(err, storage.ErrNotFound) {
		return "", ErrNotMember
	}
	if err != nil {
		return "", err
	}
	return role, nil
}

func (s *Service) requireOwner(ctx context.Context, placeID, userID int64) error {
	role, err := s.requireMember(ctx, placeID, userID)
	if err != nil {
		return err
	}
	if role != core.RoleOwner {
		return ErrNotOwner
	}
	return nil
}
