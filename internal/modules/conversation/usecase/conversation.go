package usecase

import (
	"context"
	"sync"

	"microwins/internal/modules/conversation/domain"
	convdto "microwins/internal/modules/conversation/dto"
	convin "microwins/internal/modules/conversation/port/in"
	"microwins/internal/modules/conversation/service"
)

// Interactor guards the log with a mutex because controller commands append
// from background goroutines while the UI reads.
type Interactor struct {
	history *service.HistoryService

	mu  sync.Mutex
	log domain.Log
}

func NewInteractor(history *service.HistoryService) convin.Usecase {
	i := &Interactor{history: history}
	i.Reset(false)
	return i
}

func (i *Interactor) AppendUser(text string) {
	i.append(domain.Entry{Kind: domain.KindUser, Text: text})
}

func (i *Interactor) AppendAssistant(text string) {
	i.append(domain.Entry{Kind: domain.KindAssistant, Text: text})
}

func (i *Interactor) AppendStep(card convdto.StepCard) {
	i.append(domain.Entry{Kind: domain.KindStep, Step: &domain.StepCard{
		TaskName:         card.TaskName,
		StepNumber:       card.StepNumber,
		TotalSteps:       card.TotalSteps,
		Description:      card.Description,
		EstimatedMinutes: card.EstimatedMinutes,
	}})
}

func (i *Interactor) Reset(resuming bool) {
	text := domain.Greeting
	if resuming {
		text = domain.WelcomeBack
	}
	i.mu.Lock()
	defer i.mu.Unlock()
	i.log.Reset(domain.Entry{Kind: domain.KindAssistant, Text: text, CreatedAt: i.history.Now()})
}

func (i *Interactor) Entries() []convdto.EntryOutput {
	i.mu.Lock()
	entries := i.log.Entries()
	i.mu.Unlock()

	out := make([]convdto.EntryOutput, 0, len(entries))
	for _, entry := range entries {
		item := convdto.EntryOutput{Kind: string(entry.Kind), Text: entry.Text, CreatedAt: entry.CreatedAt}
		if entry.Step != nil {
			item.Step = &convdto.StepCard{
				TaskName:         entry.Step.TaskName,
				StepNumber:       entry.Step.StepNumber,
				TotalSteps:       entry.Step.TotalSteps,
				Description:      entry.Step.Description,
				EstimatedMinutes: entry.Step.EstimatedMinutes,
			}
		}
		out = append(out, item)
	}
	return out
}

func (i *Interactor) SaveToHistory(ctx context.Context, title, mode string) (convdto.HistoryOutput, error) {
	record, err := i.history.Save(ctx, title, mode)
	if err != nil {
		return convdto.HistoryOutput{}, err
	}
	return toHistoryOutput(record), nil
}

func (i *Interactor) History(ctx context.Context, limit int) ([]convdto.HistoryOutput, error) {
	records, err := i.history.List(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]convdto.HistoryOutput, 0, len(records))
	for _, record := range records {
		out = append(out, toHistoryOutput(record))
	}
	return out, nil
}

func (i *Interactor) append(entry domain.Entry) {
	entry.CreatedAt = i.history.Now()
	i.mu.Lock()
	defer i.mu.Unlock()
	i.log.Append(entry)
}

func toHistoryOutput(record domain.HistoryRecord) convdto.HistoryOutput {
	return convdto.HistoryOutput{ID: record.ID, Title: record.Title, CreatedAt: record.CreatedAt, Mode: record.Mode}
}
