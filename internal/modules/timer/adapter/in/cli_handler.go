package in

import (
	"context"
	"time"

	timerdto "microwins/internal/modules/timer/dto"
	timerin "microwins/internal/modules/timer/port/in"
)

type CLIHandler struct {
	driver TickerDriver
}

func NewCLIHandler(usecase timerin.Usecase) CLIHandler {
	return CLIHandler{driver: NewTickerDriver(usecase, time.Second)}
}

func (h CLIHandler) Break(ctx context.Context, seconds int, onTick func(timerdto.TimerOutput)) (timerdto.TimerOutput, error) {
	return h.driver.RunBreak(ctx, seconds, onTick)
}
