package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"microwins/internal/modules/conversation/domain"
	convout "microwins/internal/modules/conversation/port/out"
	"microwins/internal/platform/clock"
	apperrors "microwins/internal/platform/errors"
	"microwins/internal/platform/id"
)

type HistoryService struct {
	clock clock.Clock
	idGen id.Generator
	store convout.HistoryStore
}

func NewHistoryService(clock clock.Clock, idGen id.Generator, store convout.HistoryStore) *HistoryService {
	return &HistoryService{clock: clock, idGen: idGen, store: store}
}

func (s *HistoryService) Save(ctx context.Context, title, mode string) (domain.HistoryRecord, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return domain.HistoryRecord{}, fmt.Errorf("history title is required: %w", apperrors.ErrInvalidInput)
	}
	record := domain.HistoryRecord{
		ID:        s.idGen.New(),
		Title:     title,
		CreatedAt: s.clock.Now(),
		Mode:      mode,
	}
	if err := s.store.Save(ctx, record, domain.HistoryLimit); err != nil {
		return domain.HistoryRecord{}, err
	}
	return record, nil
}

func (s *HistoryService) List(ctx context.Context, limit int) ([]domain.HistoryRecord, error) {
	if limit <= 0 || limit > domain.HistoryLimit {
		limit = domain.HistoryLimit
	}
	return s.store.List(ctx, limit)
}

// Now stamps log entries with the same clock as history records.
func (s *HistoryService) Now() time.Time {
	return s.clock.Now()
}
