package in

import (
	"context"

	statsdto "microwins/internal/modules/stats/dto"
	statsin "microwins/internal/modules/stats/port/in"
)

type CLIHandler struct {
	usecase statsin.Usecase
}

func NewCLIHandler(usecase statsin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Show(ctx context.Context) (statsdto.StatsOutput, error) {
	return h.usecase.Get(ctx)
}
