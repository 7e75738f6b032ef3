package out

import (
	"context"

	"microwins/internal/modules/preference/domain"
)

type LocalCache interface {
	Load(ctx context.Context) (domain.Patch, error)
	Save(ctx context.Context, patch domain.Patch) error
}

// RemoteProfile reports exists=false when the backend has no profile yet.
type RemoteProfile interface {
	Fetch(ctx context.Context, userID string) (patch domain.Patch, exists bool, err error)
	Push(ctx context.Context, userID string, pref domain.Preference) error
}

type FontApplier interface {
	ApplyFont(ctx context.Context, font domain.Font) error
}

// ChangeWatcher calls onChange after the cache is written by someone else.
// It stops when ctx is done.
type ChangeWatcher interface {
	Watch(ctx context.Context, onChange func()) error
}
