package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/campusplan/studyplan/core/model"
	corestore "github.com/campusplan/studyplan/core/store"
)

const schema = `
CREATE TABLE IF NOT EXISTS tasks (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	title TEXT NOT NULL,
	course TEXT NOT NULL DEFAULT '',
	due_at TEXT NOT NULL,
	est_minutes INTEGER NOT NULL,
	remaining_minutes INTEGER NOT NULL,
	difficulty INTEGER NOT NULL DEFAULT 3,
	task_type TEXT NOT NULL DEFAULT 'assignment',
	status TEXT NOT NULL DEFAULT 'active',
	created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_tasks_user ON tasks(user_id);
CREATE TABLE IF NOT EXISTS availability (
	user_id TEXT PRIMARY KEY,
	weekday_minutes INTEGER NOT NULL,
	weekend_minutes INTEGER NOT NULL,
	chunk_minutes INTEGER NOT NULL
);`

// SQLiteStore persists tasks and availability in a SQLite database using the
// pure-Go modernc driver.
type SQLiteStore struct {
	db *sql.DB
}

// Open creates the database file (and its parent directory) if needed and
// bootstraps the schema.
func Open(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

func (s *SQLiteStore) CreateTask(ctx context.Context, t model.Task) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tasks (id, user_id, title, course, due_at, est_minutes,
			remaining_minutes, difficulty, task_type, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.UserID, t.Title, t.Course, t.DueAt.UTC().Format(time.RFC3339),
		t.EstMinutes, t.RemainingMinutes, t.Difficulty, string(t.Type),
		string(t.Status), t.CreatedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetTask(ctx context.Context, id string) (model.Task, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, title, course, due_at, est_minutes,
			remaining_minutes, difficulty, task_type, status, created_at
		FROM tasks WHERE id = ?`, id)
	return scanTask(row)
}

func (s *SQLiteStore) ListTasks(ctx context.Context, userID string) ([]model.Task, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, title, course, due_at, est_minutes,
			remaining_minutes, difficulty, task_type, status, created_at
		FROM tasks WHERE user_id = ? ORDER BY due_at ASC, id ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []model.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (s *SQLiteStore) UpdateTask(ctx context.Context, t model.Task) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE tasks SET title = ?, course = ?, due_at = ?, est_minutes = ?,
			remaining_minutes = ?, difficulty = ?, task_type = ?, status = ?
		WHERE id = ?`,
		t.Title, t.Course, t.DueAt.UTC().Format(time.RFC3339), t.EstMinutes,
		t.RemainingMinutes, t.Difficulty, string(t.Type), string(t.Status), t.ID)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return corestore.ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) DeleteTask(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return corestore.ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) GetAvailability(ctx context.Context, userID string) (model.Availability, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT user_id, weekday_minutes, weekend_minutes, chunk_minutes
		FROM availability WHERE user_id = ?`, userID)

	var a model.Availability
	err := row.Scan(&a.UserID, &a.WeekdayMinutes, &a.WeekendMinutes, &a.ChunkMinutes)
	if errors.Is(err, sql.ErrNoRows) {
		return model.DefaultAvailability(userID), nil
	}
	if err != nil {
		return model.Availability{}, fmt.Errorf("get availability: %w", err)
	}
	return a, nil
}

func (s *SQLiteStore) UpsertAvailability(ctx context.Context, a model.Availability) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO availability (user_id, weekday_minutes, weekend_minutes, chunk_minutes)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			weekday_minutes = excluded.weekday_minutes,
			weekend_minutes = excluded.weekend_minutes,
			chunk_minutes = excluded.chunk_minutes`,
		a.UserID, a.WeekdayMinutes, a.WeekendMinutes, a.ChunkMinutes)
	if err != nil {
		return fmt.Errorf("upsert availability: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (model.Task, error) {
	var t model.Task
	var dueAt, createdAt, taskType, status string
	err := row.Scan(&t.ID, &t.UserID, &t.Title, &t.Course, &dueAt,
		&t.EstMinutes, &t.RemainingMinutes, &t.Difficulty, &taskType,
		&status, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Task{}, corestore.ErrNotFound
	}
	if err != nil {
		return model.Task{}, fmt.Errorf("scan task: %w", err)
	}
	if t.DueAt, err = time.Parse(time.RFC3339, dueAt); err != nil {
		return model.Task{}, fmt.Errorf("parse due_at: %w", err)
	}
	if t.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return model.Task{}, fmt.Errorf("parse created_at: %w", err)
	}
	t.Type = model.TaskType(taskType)
	t.Status = model.TaskStatus(status)
	return t, nil
}
