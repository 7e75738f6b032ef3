package out

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"microwins/internal/modules/preference/domain"
	prefout "microwins/internal/modules/preference/port/out"
)

// YAMLCache keeps the local preference copy as a YAML document. Absent keys
// stay absent so defaults can still apply.
type YAMLCache struct {
	path string
}

func NewYAMLCache(path string) prefout.LocalCache {
	return &YAMLCache{path: path}
}

func (c *YAMLCache) Load(_ context.Context) (domain.Patch, error) {
	payload, err := os.ReadFile(c.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.Patch{}, nil
		}
		return domain.Patch{}, fmt.Errorf("read preferences: %w", err)
	}
	patch := domain.Patch{}
	if err := yaml.Unmarshal(payload, &patch); err != nil {
		return domain.Patch{}, fmt.Errorf("decode preferences: %w", err)
	}
	return patch, nil
}

func (c *YAMLCache) Save(_ context.Context, patch domain.Patch) error {
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("create preferences dir: %w", err)
	}
	payload, err := yaml.Marshal(patch)
	if err != nil {
		return fmt.Errorf("marshal preferences: %w", err)
	}
	tmp := c.path + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o644); err != nil {
		return fmt.Errorf("write preferences: %w", err)
	}
	if err := os.Rename(tmp, c.path); err != nil {
		return fmt.Errorf("replace preferences: %w", err)
	}
	return nil
}
