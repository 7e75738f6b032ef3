package service

import (
	"context"
	"fmt"

	"microwins/internal/modules/stats/domain"
	statsout "microwins/internal/modules/stats/port/out"
	"microwins/internal/platform/clock"
	apperrors "microwins/internal/platform/errors"
)

type StatsService struct {
	clock  clock.Clock
	source statsout.StatsSource
	userID string
}

func NewStatsService(clock clock.Clock, source statsout.StatsSource, userID string) *StatsService {
	return &StatsService{clock: clock, source: source, userID: userID}
}

func (s *StatsService) Fetch(ctx context.Context) (domain.Stats, bool, error) {
	if s.userID == "" {
		return domain.Stats{}, false, fmt.Errorf("user id is required: %w", apperrors.ErrInvalidInput)
	}
	stats, err := s.source.Fetch(ctx, s.userID)
	if err != nil {
		return domain.Stats{}, false, err
	}
	if stats.MotivationalMessage == "" {
		stats.MotivationalMessage = domain.Motivation(stats.Streak, stats.TotalTasksCompleted)
	}
	return stats, domain.CompletedToday(stats.LastCompletedDate, s.clock.Now()), nil
}
