package devserver

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	statsdomain "microwins/internal/modules/stats/domain"
	"microwins/internal/platform/api"
	apperrors "microwins/internal/platform/errors"

	_ "modernc.org/sqlite"
)

const pointsPerStep = 10

type Task struct {
	ID          string
	UserID      string
	Title       string
	Granularity string
	Steps       []Step
	Index       int
	Completed   bool
	CreatedAt   time.Time
}

// Store keeps the dev backend's tasks, profiles and counters in SQLite.
type Store struct {
	db *sql.DB
}

func OpenStore(dbPath string) (*Store, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// One connection keeps :memory: databases shared and serialises writers.
	db.SetMaxOpenConns(1)
	store := &Store{db: db}
	if err := store.ensureSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *Store) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS tasks (
  task_id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  title TEXT NOT NULL,
  granularity TEXT NOT NULL,
  steps_json TEXT NOT NULL,
  current_index INTEGER NOT NULL DEFAULT 0,
  completed INTEGER NOT NULL DEFAULT 0,
  created_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS profiles (
  user_id TEXT PRIMARY KEY,
  body_json TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS user_stats (
  user_id TEXT PRIMARY KEY,
  tasks_completed INTEGER NOT NULL DEFAULT 0,
  steps_completed INTEGER NOT NULL DEFAULT 0,
  reward_points INTEGER NOT NULL DEFAULT 0,
  streak INTEGER NOT NULL DEFAULT 0,
  last_completed_date TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS user_badges (
  user_id TEXT NOT NULL,
  code TEXT NOT NULL,
  earned_at TEXT NOT NULL,
  PRIMARY KEY (user_id, code)
);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create dev backend tables: %w", err)
	}
	return nil
}

func (s *Store) CreateTask(ctx context.Context, task Task) error {
	steps, err := json.Marshal(task.Steps)
	if err != nil {
		return fmt.Errorf("marshal steps: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO tasks (task_id, user_id, title, granularity, steps_json, current_index, completed, created_at)
		 VALUES (?, ?, ?, ?, ?, 0, 0, ?)`,
		task.ID, task.UserID, task.Title, task.Granularity, string(steps), task.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

func (s *Store) Task(ctx context.Context, taskID string) (Task, error) {
	return scanTask(s.db.QueryRowContext(ctx,
		`SELECT task_id, user_id, title, granularity, steps_json, current_index, completed, created_at FROM tasks WHERE task_id = ?`,
		taskID,
	))
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (Task, error) {
	var (
		task      Task
		steps     string
		completed int
		createdAt string
	)
	err := row.Scan(&task.ID, &task.UserID, &task.Title, &task.Granularity, &steps, &task.Index, &completed, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Task{}, fmt.Errorf("task: %w", apperrors.ErrNotFound)
	}
	if err != nil {
		return Task{}, fmt.Errorf("scan task: %w", err)
	}
	if err := json.Unmarshal([]byte(steps), &task.Steps); err != nil {
		return Task{}, fmt.Errorf("decode steps: %w", err)
	}
	task.Completed = completed != 0
	task.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return Task{}, fmt.Errorf("parse task time: %w", err)
	}
	return task, nil
}

// MarkDone completes the current step of taskID. Completing the last step
// closes the task, moves the streak and awards badges.
func (s *Store) MarkDone(ctx context.Context, taskID string, now time.Time) (Task, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Task{}, fmt.Errorf("begin mark-done tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	task, err := scanTask(tx.QueryRowContext(ctx,
		`SELECT task_id, user_id, title, granularity, steps_json, current_index, completed, created_at FROM tasks WHERE task_id = ?`,
		taskID,
	))
	if err != nil {
		return Task{}, err
	}
	if task.Completed {
		return Task{}, fmt.Errorf("task already completed: %w", apperrors.ErrInvalidTransition)
	}

	task.Index++
	task.Completed = task.Index >= len(task.Steps)
	if _, err := tx.ExecContext(ctx,
		`UPDATE tasks SET current_index = ?, completed = ? WHERE task_id = ?`,
		task.Index, boolInt(task.Completed), task.ID,
	); err != nil {
		return Task{}, fmt.Errorf("advance task: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO user_stats (user_id, steps_completed, reward_points) VALUES (?, 1, ?)
		 ON CONFLICT(user_id) DO UPDATE SET steps_completed = steps_completed + 1, reward_points = reward_points + excluded.reward_points`,
		task.UserID, pointsPerStep,
	); err != nil {
		return Task{}, fmt.Errorf("count step: %w", err)
	}
	if task.Completed {
		if err := completeTask(ctx, tx, task.UserID, now); err != nil {
			return Task{}, err
		}
	}
	if err := tx.Commit(); err != nil {
		return Task{}, fmt.Errorf("commit mark-done: %w", err)
	}
	return task, nil
}

func completeTask(ctx context.Context, tx *sql.Tx, userID string, now time.Time) error {
	var (
		tasks  int
		streak int
		last   string
	)
	err := tx.QueryRowContext(ctx,
		`SELECT tasks_completed, streak, last_completed_date FROM user_stats WHERE user_id = ?`,
		userID,
	).Scan(&tasks, &streak, &last)
	if err != nil {
		return fmt.Errorf("load user stats: %w", err)
	}
	tasks++
	streak = NextStreak(last, streak, now)
	if _, err := tx.ExecContext(ctx,
		`UPDATE user_stats SET tasks_completed = ?, streak = ?, last_completed_date = ? WHERE user_id = ?`,
		tasks, streak, now.Format(dateLayout), userID,
	); err != nil {
		return fmt.Errorf("update user stats: %w", err)
	}
	for _, code := range earnedBadges(tasks, streak) {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO user_badges (user_id, code, earned_at) VALUES (?, ?, ?)`,
			userID, code, now.Format(time.RFC3339),
		); err != nil {
			return fmt.Errorf("award badge %s: %w", code, err)
		}
	}
	return nil
}

// Profile returns the stored profile of userID and whether one exists.
func (s *Store) Profile(ctx context.Context, userID string) (api.Profile, bool, error) {
	var body string
	err := s.db.QueryRowContext(ctx, `SELECT body_json FROM profiles WHERE user_id = ?`, userID).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return api.Profile{UserID: userID}, false, nil
	}
	if err != nil {
		return api.Profile{}, false, fmt.Errorf("query profile: %w", err)
	}
	var profile api.Profile
	if err := json.Unmarshal([]byte(body), &profile); err != nil {
		return api.Profile{}, false, fmt.Errorf("decode profile: %w", err)
	}
	profile.UserID = userID
	profile.Exists = true
	return profile, true, nil
}

// UpdateProfile overlays the present fields of update onto the stored profile.
func (s *Store) UpdateProfile(ctx context.Context, update api.Profile) (api.Profile, error) {
	current, _, err := s.Profile(ctx, update.UserID)
	if err != nil {
		return api.Profile{}, err
	}
	merged := mergeProfile(current, update)
	merged.Exists = false
	body, err := json.Marshal(merged)
	if err != nil {
		return api.Profile{}, fmt.Errorf("marshal profile: %w", err)
	}
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO profiles (user_id, body_json) VALUES (?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET body_json = excluded.body_json`,
		update.UserID, string(body),
	); err != nil {
		return api.Profile{}, fmt.Errorf("save profile: %w", err)
	}
	merged.Exists = true
	return merged, nil
}

func mergeProfile(current, update api.Profile) api.Profile {
	out := current
	if update.StepGranularity != "" {
		out.StepGranularity = update.StepGranularity
	}
	if update.FontPreference != "" {
		out.FontPreference = update.FontPreference
	}
	if update.InputMode != "" {
		out.InputMode = update.InputMode
	}
	if update.Neurodivergence != "" {
		out.Neurodivergence = update.Neurodivergence
	}
	if update.BreakIntervalMinutes != 0 {
		out.BreakIntervalMinutes = update.BreakIntervalMinutes
	}
	if update.AITone != nil {
		out.AITone = update.AITone
	}
	if update.ResponseVerbosity != 0 {
		out.ResponseVerbosity = update.ResponseVerbosity
	}
	if update.FatigueTriggers != nil {
		out.FatigueTriggers = update.FatigueTriggers
	}
	return out
}

func (s *Store) Stats(ctx context.Context, userID string) (api.Stats, error) {
	stats := api.Stats{UserID: userID, Badges: []api.Badge{}}
	var last string
	err := s.db.QueryRowContext(ctx,
		`SELECT tasks_completed, steps_completed, reward_points, streak, last_completed_date FROM user_stats WHERE user_id = ?`,
		userID,
	).Scan(&stats.TotalTasksCompleted, &stats.TotalStepsCompleted, &stats.RewardPoints, &stats.Streak, &last)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return api.Stats{}, fmt.Errorf("query user stats: %w", err)
	}
	if last != "" {
		stats.LastCompletedDate = &last
	}
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM tasks WHERE user_id = ? AND completed = 0`,
		userID,
	).Scan(&stats.TotalTasksActive); err != nil {
		return api.Stats{}, fmt.Errorf("count active tasks: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT code, earned_at FROM user_badges WHERE user_id = ? ORDER BY earned_at, code`,
		userID,
	)
	if err != nil {
		return api.Stats{}, fmt.Errorf("query badges: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var code, earnedAt string
		if err := rows.Scan(&code, &earnedAt); err != nil {
			return api.Stats{}, fmt.Errorf("scan badge: %w", err)
		}
		badge := api.Badge{Code: code, Name: code, EarnedAt: earnedAt}
		if known, ok := statsdomain.LookupBadge(code); ok {
			badge.Name = known.Name
			badge.Emoji = known.Emoji
			badge.Description = known.Description
		}
		stats.Badges = append(stats.Badges, badge)
	}
	if err := rows.Err(); err != nil {
		return api.Stats{}, fmt.Errorf("iterate badges: %w", err)
	}
	stats.MotivationalMessage = statsdomain.Motivation(stats.Streak, stats.TotalTasksCompleted)
	return stats, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func boolInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
