package out

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"microwins/internal/modules/tasksession/domain"
	taskout "microwins/internal/modules/tasksession/port/out"
	apperrors "microwins/internal/platform/errors"
)

type FileTaskStore struct {
	path string
}

func NewFileTaskStore(path string) taskout.TaskStore {
	return &FileTaskStore{path: path}
}

func (s *FileTaskStore) Save(_ context.Context, task domain.StoredTask) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create task dir: %w", err)
	}
	payload, err := json.MarshalIndent(task, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal current task: %w", err)
	}
	if err := os.WriteFile(s.path, payload, 0o644); err != nil {
		return fmt.Errorf("write current task: %w", err)
	}
	return nil
}

func (s *FileTaskStore) Load(_ context.Context) (domain.StoredTask, error) {
	payload, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.StoredTask{}, apperrors.ErrNoActiveTask
		}
		return domain.StoredTask{}, fmt.Errorf("read current task: %w", err)
	}
	task := domain.StoredTask{}
	if err := json.Unmarshal(payload, &task); err != nil {
		return domain.StoredTask{}, fmt.Errorf("decode current task: %w", err)
	}
	if task.TaskID == "" {
		return domain.StoredTask{}, apperrors.ErrNoActiveTask
	}
	return task, nil
}

func (s *FileTaskStore) Clear(_ context.Context) error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("clear current task: %w", err)
	}
	return nil
}
