package in

import (
	"context"
	"time"

	timerdto "microwins/internal/modules/timer/dto"
	timerin "microwins/internal/modules/timer/port/in"
)

// TickerDriver feeds one-second ticks into the timers outside the TUI.
type TickerDriver struct {
	usecase  timerin.Usecase
	interval time.Duration
}

func NewTickerDriver(usecase timerin.Usecase, interval time.Duration) TickerDriver {
	if interval <= 0 {
		interval = time.Second
	}
	return TickerDriver{usecase: usecase, interval: interval}
}

// RunBreak starts a break and ticks until it expires or ctx is done. The
// reminder is acknowledged before returning.
func (d TickerDriver) RunBreak(ctx context.Context, seconds int, onTick func(timerdto.TimerOutput)) (timerdto.TimerOutput, error) {
	out := d.usecase.StartBreak(seconds)
	if onTick != nil {
		onTick(out)
	}
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return d.usecase.CancelBreak(), ctx.Err()
		case <-ticker.C:
			out = d.usecase.Tick()
			if onTick != nil {
				onTick(out)
			}
			if out.BreakExpired {
				d.usecase.AcknowledgeBreak()
				return out, nil
			}
		}
	}
}
