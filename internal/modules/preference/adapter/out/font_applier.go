package out

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"microwins/internal/modules/preference/domain"
	prefout "microwins/internal/modules/preference/port/out"
)

// FileFontApplier records the granted font class so other tools can read it.
// The file holds a single line; standard font leaves it empty.
type FileFontApplier struct {
	path string
}

func NewFileFontApplier(path string) prefout.FontApplier {
	return &FileFontApplier{path: path}
}

func (a *FileFontApplier) ApplyFont(_ context.Context, font domain.Font) error {
	if err := os.MkdirAll(filepath.Dir(a.path), 0o755); err != nil {
		return fmt.Errorf("create font class dir: %w", err)
	}
	class := domain.FontClass(font)
	if class != "" {
		class += "\n"
	}
	if err := os.WriteFile(a.path, []byte(class), 0o644); err != nil {
		return fmt.Errorf("write font class: %w", err)
	}
	return nil
}

// FontAppliers fans one font change out to several surfaces.
type FontAppliers []prefout.FontApplier

func (fa FontAppliers) ApplyFont(ctx context.Context, font domain.Font) error {
	for _, applier := range fa {
		if applier == nil {
			continue
		}
		if err := applier.ApplyFont(ctx, font); err != nil {
			return err
		}
	}
	return nil
}
