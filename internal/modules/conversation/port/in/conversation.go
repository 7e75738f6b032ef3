package in

import (
	"context"

	"microwins/internal/modules/conversation/dto"
)

type Usecase interface {
	AppendUser(text string)
	AppendAssistant(text string)
	AppendStep(card dto.StepCard)
	// Reset seeds the log with the welcome-back greeting when resuming.
	Reset(resuming bool)
	Entries() []dto.EntryOutput
	SaveToHistory(ctx context.Context, title, mode string) (dto.HistoryOutput, error)
	History(ctx context.Context, limit int) ([]dto.HistoryOutput, error)
}
