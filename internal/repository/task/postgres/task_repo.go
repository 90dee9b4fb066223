package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tasksApp/internal/config"
	"tasksApp/internal/logger"
	"tasksApp/internal/models/task"
	repo "tasksApp/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const slowQueryThreshold = 100 * time.Millisecond

const selectColumns = `id, description, is_reminder_set, is_task_open, priority, created_date, last_modified_date`

type Storage struct {
	pool *pgxpool.Pool
}

func New(ctx context.Context, cfg config.DatabaseConfig) (*Storage, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		logger.Error("Repository: failed to parse database url", err)
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if cfg.MaxConnections > 0 {
		poolConfig.MaxConns = cfg.MaxConnections
	}
	if cfg.MinConnections > 0 {
		poolConfig.MinConns = cfg.MinConnections
	}
	if cfg.IdleTimeout > 0 {
		poolConfig.MaxConnIdleTime = cfg.IdleTimeout
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		logger.Error("Repository: failed to create pool", err)
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err = pool.Ping(ctx); err != nil {
		pool.Close()
		logger.Error("Repository: ping failed", err)
		return nil, fmt.Errorf("ping: %w", err)
	}

	logger.Info("Repository: connected to PostgreSQL")
	return &Storage{pool: pool}, nil
}

func (s *Storage) Close() {
	s.pool.Close()
	logger.Info("Repository: PostgreSQL connections closed")
}

func (s *Storage) Ping(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		logger.Error("Repository: ping failed", err)
		return repo.NewStorageError("ping", err)
	}
	return nil
}

func (s *Storage) FindAll(ctx context.Context) ([]*task.Task, error) {
	query := `SELECT ` + selectColumns + ` FROM tasks ORDER BY id`
	return s.queryTasks(ctx, "find all", query)
}

func (s *Storage) FindByOpenStatus(ctx context.Context, open bool) ([]*task.Task, error) {
	query := `SELECT ` + selectColumns + ` FROM tasks WHERE is_task_open = $1 ORDER BY id`
	return s.queryTasks(ctx, "find by status", query, open)
}

func (s *Storage) FindByID(ctx context.Context, id int64) (*task.Task, error) {
	start := time.Now()
	defer warnIfSlow("find by id", start)

	query := `SELECT ` + selectColumns + ` FROM tasks WHERE id = $1`

	t, err := scanTask(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.NotFoundError(id)
		}
		logger.Error("Repository: failed to get task", err, zap.Int64("task_id", id), zap.Duration("ms", time.Since(start)))
		return nil, mapError("find by id", err)
	}
	return t, nil
}

// Save inserts when t.ID is zero and updates otherwise.
func (s *Storage) Save(ctx context.Context, t *task.Task) (*task.Task, error) {
	if t.ID == 0 {
		return s.insert(ctx, t)
	}
	return s.update(ctx, t)
}

func (s *Storage) insert(ctx context.Context, t *task.Task) (*task.Task, error) {
	start := time.Now()
	defer warnIfSlow("insert", start)

	query := `INSERT INTO tasks
				(description, is_reminder_set, is_task_open, priority)
				VALUES ($1, $2, $3, $4)
				RETURNING id, created_date, last_modified_date`

	saved := t.Clone()
	err := s.pool.QueryRow(ctx, query,
		saved.Description,
		saved.IsReminderSet,
		saved.IsTaskOpen,
		string(saved.Priority),
	).Scan(&saved.ID, &saved.CreatedDate, &saved.LastModifiedDate)

	if err != nil {
		logger.Error("Repository: failed to insert task", err, zap.Duration("ms", time.Since(start)))
		return nil, mapError("insert", err)
	}
	return saved, nil
}

func (s *Storage) update(ctx context.Context, t *task.Task) (*task.Task, error) {
	start := time.Now()
	defer warnIfSlow("update", start)

	query := `UPDATE tasks
			SET description = $1,
				is_reminder_set = $2,
				is_task_open = $3,
				priority = $4,
				last_modified_date = NOW()
			WHERE id = $5
			RETURNING created_date, last_modified_date`

	saved := t.Clone()
	err := s.pool.QueryRow(ctx, query,
		saved.Description,
		saved.IsReminderSet,
		saved.IsTaskOpen,
		string(saved.Priority),
		saved.ID,
	).Scan(&saved.CreatedDate, &saved.LastModifiedDate)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.NotFoundError(saved.ID)
		}
		logger.Error("Repository: failed to update task", err, zap.Int64("task_id", saved.ID))
		return nil, mapError("update", err)
	}
	return saved, nil
}

func (s *Storage) DeleteByID(ctx context.Context, id int64) error {
	start := time.Now()
	defer warnIfSlow("delete", start)

	tag, err := s.pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		logger.Error("Repository: failed to delete task", err, zap.Int64("task_id", id))
		return mapError("delete", err)
	}
	if tag.RowsAffected() == 0 {
		return repo.NotFoundError(id)
	}
	return nil
}

func (s *Storage) queryTasks(ctx context.Context, op, query string, args ...any) ([]*task.Task, error) {
	start := time.Now()
	defer warnIfSlow(op, start)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		logger.Error("Repository: failed to query tasks", err, zap.String("op", op))
		return nil, mapError(op, err)
	}
	defer rows.Close()

	tasks := []*task.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			logger.Error("Repository: failed to scan task", err, zap.String("op", op))
			return nil, mapError(op, err)
		}
		tasks = append(tasks, t)
	}

	if err := rows.Err(); err != nil {
		logger.Error("Repository: row iteration failed", err, zap.String("op", op))
		return nil, mapError(op, err)
	}
	return tasks, nil
}

func scanTask(row pgx.Row) (*task.Task, error) {
	var (
		t        task.Task
		priority string
	)
	err := row.Scan(
		&t.ID,
		&t.Description,
		&t.IsReminderSet,
		&t.IsTaskOpen,
		&priority,
		&t.CreatedDate,
		&t.LastModifiedDate,
	)
	if err != nil {
		return nil, err
	}

	t.Priority, err = task.ParsePriority(priority)
	if err != nil {
		return nil, fmt.Errorf("task %d: %w", t.ID, err)
	}
	return &t, nil
}

func warnIfSlow(op string, start time.Time) {
	if elapsed := time.Since(start); elapsed > slowQueryThreshold {
		logger.Warn("Repository: slow query", zap.String("op", op), zap.Duration("ms", elapsed))
	}
}
