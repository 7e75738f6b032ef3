package out

import (
	"context"

	"microwins/internal/modules/conversation/domain"
)

type HistoryStore interface {
	// Save records the entry and drops everything beyond the newest keep.
	Save(ctx context.Context, record domain.HistoryRecord, keep int) error
	List(ctx context.Context, limit int) ([]domain.HistoryRecord, error)
	Close() error
}
