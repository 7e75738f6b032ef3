package in

import (
	"context"

	"microwins/internal/modules/stats/dto"
)

type Usecase interface {
	Get(ctx context.Context) (dto.StatsOutput, error)
}
