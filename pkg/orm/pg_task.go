package orm

import (
	"context"
	"errors"
	"fmt"

	"echo-audit-api/pkg/config"
	"echo-audit-api/pkg/task"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

// SQLSTATE unique_violation
const uniqueViolation = "23505"

// TaskPgORM is a PostgreSQL-backed task store.
type TaskPgORM struct {
	pool *pgxpool.Pool
}

func NewTaskPgORM(pool *pgxpool.Pool) *TaskPgORM {
	return &TaskPgORM{pool: pool}
}

// ConnectPostgres opens a pool and ensures the tasks table exists.
func ConnectPostgres(ctx context.Context, cfg *config.Config) (*TaskPgORM, error) {
	dsn, err := withCredentials(ctx, cfg, cfg.DatabaseUrl)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	log.Info().Msg("Connected to PostgreSQL")

	o := NewTaskPgORM(pool)
	if err := o.EnsureTable(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return o, nil
}

func (o *TaskPgORM) EnsureTable(ctx context.Context) error {
	_, err := o.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS tasks (
			id         TEXT PRIMARY KEY,
			task       TEXT NOT NULL UNIQUE,
			completed  BOOLEAN NOT NULL DEFAULT FALSE,
			priority   TEXT NOT NULL DEFAULT 'medium',
			deadline   TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`)
	if err != nil {
		return fmt.Errorf("create tasks table: %w", err)
	}
	return nil
}

func (o *TaskPgORM) FindByText(ctx context.Context, text string) (*task.TaskRecord, error) {
	rec, err := scanTask(o.pool.QueryRow(ctx, `
		SELECT id, task, completed, priority, deadline FROM tasks WHERE task = $1`, text))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find task: %w", err)
	}
	return rec, nil
}

// Insert relies on the unique task column; a conflicting row yields task.ErrDuplicateTask.
func (o *TaskPgORM) Insert(ctx context.Context, record task.TaskRecord) (*task.TaskRecord, error) {
	id := uuid.Must(uuid.NewV7()).String()
	err := o.pool.QueryRow(ctx, `
		INSERT INTO tasks (id, task, completed, priority, deadline)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (task) DO NOTHING
		RETURNING id`,
		id, record.Task, record.Completed, string(record.Priority), record.Deadline).Scan(&record.ID)
	if err != nil {
		return nil, pgInsertError(err)
	}
	return &record, nil
}

// pgInsertError maps the empty RETURNING of ON CONFLICT DO NOTHING, and any
// unique violation, to task.ErrDuplicateTask.
func pgInsertError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return task.ErrDuplicateTask
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return task.ErrDuplicateTask
	}
	return fmt.Errorf("insert task: %w", err)
}

func (o *TaskPgORM) FindAll(ctx context.Context) ([]task.TaskRecord, error) {
	rows, err := o.pool.Query(ctx, `
		SELECT id, task, completed, priority, deadline FROM tasks ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	records := []task.TaskRecord{}
	for rows.Next() {
		rec, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

func (o *TaskPgORM) CompleteByText(ctx context.Context, text string) error {
	_, err := o.pool.Exec(ctx, `UPDATE tasks SET completed = TRUE WHERE task = $1`, text)
	if err != nil {
		return fmt.Errorf("complete task: %w", err)
	}
	return nil
}

func (o *TaskPgORM) OnShutdown(context.Context) error {
	o.pool.Close()
	log.Info().Msg("Closed PostgreSQL pool")
	return nil
}

func scanTask(row pgx.Row) (*task.TaskRecord, error) {
	var rec task.TaskRecord
	var priority string
	if err := row.Scan(&rec.ID, &rec.Task, &rec.Completed, &priority, &rec.Deadline); err != nil {
		return nil, err
	}
	rec.Priority = task.Priority(priority)
	return &rec, nil
}
