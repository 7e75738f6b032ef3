package in

import (
	"context"

	convdto "microwins/internal/modules/conversation/dto"
	convin "microwins/internal/modules/conversation/port/in"
)

type CLIHandler struct {
	usecase convin.Usecase
}

func NewCLIHandler(usecase convin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) History(ctx context.Context, limit int) ([]convdto.HistoryOutput, error) {
	return h.usecase.History(ctx, limit)
}
