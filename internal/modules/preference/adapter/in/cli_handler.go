package in

import (
	"context"

	prefdto "microwins/internal/modules/preference/dto"
	prefin "microwins/internal/modules/preference/port/in"
)

type CLIHandler struct {
	usecase prefin.Usecase
}

func NewCLIHandler(usecase prefin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Show(ctx context.Context) (prefdto.PreferenceOutput, error) {
	return h.usecase.Get(ctx)
}

func (h CLIHandler) Sync(ctx context.Context) (prefdto.PreferenceOutput, error) {
	return h.usecase.Load(ctx)
}

// Set applies the edit and waits for the remote push so the process can exit.
func (h CLIHandler) Set(ctx context.Context, input prefdto.UpdateInput) (prefdto.PreferenceOutput, error) {
	out, err := h.usecase.Update(ctx, input)
	h.usecase.Flush()
	return out, err
}
