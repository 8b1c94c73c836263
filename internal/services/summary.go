package services

import (
	"context"
	"time"

	"github.com/coder-dipesh/equilo/internal/core"
	"github.com/coder-dipesh/equilo/internal/middleware/metrics"
)

// Summary computes the periodic balance report for the caller.
func (s *Service) Summary(ctx context.Context, userID, placeID int64, period core.Period, weekStart core.WeekStart, reference core.Date) (*core.Summary, error) {
	if _, err := s.requireMember(ctx, placeID, userID); err != nil {
		return nil, err
	}

	assembler := core.NewAssembler(s.repo, s.users)
	summary, err := assembler.Build(ctx, core.SummaryRequest{
		PlaceID:   placeID,
		UserID:    userID,
		Period:    period,
		WeekStart: weekStart,
		Reference: reference,
		Now:       time.Now(),
	})
	if err != nil {
		return nil, err
	}

	metrics.CountSummary()
	return summary, nil
}
