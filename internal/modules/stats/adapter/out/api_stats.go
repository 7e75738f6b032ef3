package out

import (
	"context"

	"microwins/internal/modules/stats/domain"
	statsout "microwins/internal/modules/stats/port/out"
	"microwins/internal/platform/api"
)

type StatsClient interface {
	GetStats(ctx context.Context, userID string) (api.Stats, error)
}

type APIStats struct {
	client StatsClient
}

func NewAPIStats(client StatsClient) statsout.StatsSource {
	return &APIStats{client: client}
}

func (s *APIStats) Fetch(ctx context.Context, userID string) (domain.Stats, error) {
	resp, err := s.client.GetStats(ctx, userID)
	if err != nil {
		return domain.Stats{}, err
	}
	stats := domain.Stats{
		TotalTasksCompleted: resp.TotalTasksCompleted,
		TotalStepsCompleted: resp.TotalStepsCompleted,
		TotalTasksActive:    resp.TotalTasksActive,
		Streak:              resp.Streak,
		RewardPoints:        resp.RewardPoints,
		MotivationalMessage: resp.MotivationalMessage,
	}
	if resp.LastCompletedDate != nil {
		stats.LastCompletedDate = *resp.LastCompletedDate
	}
	for _, badge := range resp.Badges {
		stats.Badges = append(stats.Badges, domain.Badge{
			Code:        badge.Code,
			Name:        badge.Name,
			Emoji:       badge.Emoji,
			Description: badge.Description,
			EarnedAt:    badge.EarnedAt,
		})
	}
	return stats, nil
}
