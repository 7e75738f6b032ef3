package out

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"microwins/internal/modules/conversation/domain"
	convout "microwins/internal/modules/conversation/port/out"

	_ "modernc.org/sqlite"
)

type SQLiteHistoryStore struct {
	db *sql.DB
}

func NewSQLiteHistoryStore(dbPath string) (convout.HistoryStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	// The TUI and one-shot CLI commands may share the file; wait out the
	// other process's write lock instead of failing with SQLITE_BUSY.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=busy_timeout(5000)&_txlock=immediate")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// One connection serialises writers within this process.
	db.SetMaxOpenConns(1)
	store := &SQLiteHistoryStore{db: db}
	if err := store.ensureSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *SQLiteHistoryStore) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS history (
  seq INTEGER PRIMARY KEY AUTOINCREMENT,
  id TEXT NOT NULL UNIQUE,
  title TEXT NOT NULL,
  mode TEXT NOT NULL,
  created_at TEXT NOT NULL
);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create history table: %w", err)
	}
	return nil
}

func (s *SQLiteHistoryStore) Save(ctx context.Context, record domain.HistoryRecord, keep int) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin history tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO history (id, title, mode, created_at) VALUES (?, ?, ?, ?)`,
		record.ID,
		record.Title,
		record.Mode,
		record.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert history: %w", err)
	}
	if keep > 0 {
		_, err = tx.ExecContext(ctx,
			`DELETE FROM history WHERE seq NOT IN (SELECT seq FROM history ORDER BY seq DESC LIMIT ?)`,
			keep,
		)
		if err != nil {
			return fmt.Errorf("trim history: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit history: %w", err)
	}
	return nil
}

func (s *SQLiteHistoryStore) List(ctx context.Context, limit int) ([]domain.HistoryRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, mode, created_at FROM history ORDER BY seq DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	out := []domain.HistoryRecord{}
	for rows.Next() {
		var (
			record    domain.HistoryRecord
			createdAt string
		)
		if err := rows.Scan(&record.ID, &record.Title, &record.Mode, &createdAt); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		record.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parse history time: %w", err)
		}
		out = append(out, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history: %w", err)
	}
	return out, nil
}

func (s *SQLiteHistoryStore) Close() error {
	return s.db.Close()
}
