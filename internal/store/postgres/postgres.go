package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/topicline/research-service/internal/store"
)

type PostgresStore struct {
	db *sql.DB
}

var openDB = sql.Open

func New(conn string) (*PostgresStore, error) {
	db, err := openDB("pgx", conn)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := verifySchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &PostgresStore{db: db}, nil
}

func verifySchema(ctx context.Context, db *sql.DB) error {
	var regclass sql.NullString
	if err := db.QueryRowContext(ctx, "SELECT to_regclass($1)", "public.tasks").Scan(&regclass); err != nil {
		return err
	}
	if !regclass.Valid {
		return fmt.Errorf("database schema missing: tasks table not found (run infra/migrations/001_init.sql)")
	}
	return nil
}

// CreateTask records a task's terminal state. First write wins: a second
// write for the same task_id is silently dropped.
func (p *PostgresStore) CreateTask(ctx context.Context, task store.Task) error {
	const query = `
		INSERT INTO tasks (
			task_id,
			research_topic,
			s3_report_key,
			status,
			error_message,
			completed_at
		)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (task_id) DO NOTHING
	`
	_, err := p.db.ExecContext(
		ctx,
		query,
		task.ID,
		task.Topic,
		nullString(task.ReportKey),
		string(task.Status),
		nullString(task.ErrorMessage),
		task.CompletedAt,
	)
	return err
}

func (p *PostgresStore) GetTask(ctx context.Context, taskID string) (*store.Task, error) {
	const query = `
		SELECT task_id, research_topic, s3_report_key, status, error_message, completed_at
		FROM tasks
		WHERE task_id = $1
	`
	row := p.db.QueryRowContext(ctx, query, taskID)
	task, err := scanTask(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return task, nil
}

func (p *PostgresStore) ListTasks(ctx context.Context) ([]store.Task, error) {
	const query = `
		SELECT task_id, research_topic, s3_report_key, status, error_message, completed_at
		FROM tasks
		ORDER BY completed_at DESC
	`
	rows, err := p.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := []store.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tasks, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*store.Task, error) {
	var task store.Task
	var reportKey sql.NullString
	var errorMessage sql.NullString
	var status string
	if err := row.Scan(&task.ID, &task.Topic, &reportKey, &status, &errorMessage, &task.CompletedAt); err != nil {
		return nil, err
	}
	task.ReportKey = reportKey.String
	task.ErrorMessage = errorMessage.String
	task.Status = store.TaskStatus(status)
	return &task, nil
}

func nullString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
