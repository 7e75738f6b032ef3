package out

import (
	"context"

	"microwins/internal/modules/stats/domain"
)

type StatsSource interface {
	Fetch(ctx context.Context, userID string) (domain.Stats, error)
}
