package in

import (
	"context"

	"microwins/internal/modules/preference/dto"
)

type Usecase interface {
	Load(ctx context.Context) (dto.PreferenceOutput, error)
	Get(ctx context.Context) (dto.PreferenceOutput, error)
	Update(ctx context.Context, input dto.UpdateInput) (dto.PreferenceOutput, error)
	Snapshot(ctx context.Context, energy string) (dto.PreferenceOutput, error)
	Subscribe(fn func(dto.PreferenceOutput)) (cancel func())
	Watch(ctx context.Context) error
	Flush()
}
