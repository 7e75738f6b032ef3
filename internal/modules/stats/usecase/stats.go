package usecase

import (
	"context"

	"microwins/internal/modules/stats/domain"
	statsdto "microwins/internal/modules/stats/dto"
	statsin "microwins/internal/modules/stats/port/in"
	"microwins/internal/modules/stats/service"
)

type Interactor struct {
	svc *service.StatsService
}

func NewInteractor(svc *service.StatsService) statsin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Get(ctx context.Context) (statsdto.StatsOutput, error) {
	stats, today, err := i.svc.Fetch(ctx)
	if err != nil {
		return statsdto.StatsOutput{}, err
	}
	return statsdto.StatsOutput{
		TotalTasksCompleted: stats.TotalTasksCompleted,
		TotalStepsCompleted: stats.TotalStepsCompleted,
		TotalTasksActive:    stats.TotalTasksActive,
		Streak:              stats.Streak,
		RewardPoints:        stats.RewardPoints,
		LastCompletedDate:   stats.LastCompletedDate,
		CompletedToday:      today,
		MotivationalMessage: stats.MotivationalMessage,
		Badges:              badgeShelf(stats.Badges),
	}, nil
}

func badgeShelf(earned []domain.Badge) []statsdto.BadgeOutput {
	byCode := map[string]domain.Badge{}
	for _, badge := range earned {
		byCode[badge.Code] = badge
	}
	out := []statsdto.BadgeOutput{}
	for _, badge := range domain.Catalogue() {
		item := statsdto.BadgeOutput{Code: badge.Code, Name: badge.Name, Emoji: badge.Emoji, Description: badge.Description}
		if got, ok := byCode[badge.Code]; ok {
			item.Earned = true
			item.EarnedAt = got.EarnedAt
			delete(byCode, badge.Code)
		}
		out = append(out, item)
	}
	for _, badge := range earned {
		if _, unknown := byCode[badge.Code]; !unknown {
			continue
		}
		out = append(out, statsdto.BadgeOutput{Code: badge.Code, Name: badge.Name, Emoji: badge.Emoji, Description: badge.Description, Earned: true, EarnedAt: badge.EarnedAt})
	}
	return out
}
