package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/erp-service/internal/domain"
)

// OnboardingRepository persists onboarding processes and their checklist.
type OnboardingRepository interface {
	Create(ctx context.Context, process *domain.OnboardingProcess) error
	GetByID(ctx context.Context, id string) (*domain.OnboardingProcess, error)
	List(ctx context.Context, status *domain.OnboardingStatus, page Page) ([]domain.OnboardingProcess, error)
	CompleteTask(ctx context.Context, processID, taskID string, at time.Time) error
	UpdateStatus(ctx context.Context, processID string, status domain.OnboardingStatus) error
}

type onboardingRepository struct {
	pool *pgxpool.Pool
}

// NewOnboardingRepository builds the repository.
func NewOnboardingRepository(pool *pgxpool.Pool) OnboardingRepository {
	return &onboardingRepository{pool: pool}
}

func (r *onboardingRepository) Create(ctx context.Context, process *domain.OnboardingProcess) error {
	return inTx(ctx, r.pool, func(tx pgx.Tx) error {
		const insertProcess = `
            INSERT INTO onboarding_processes (employee_id, start_date, status)
            VALUES ($1,$2,$3)
            RETURNING id, created_at, updated_at`
		if err := tx.QueryRow(ctx, insertProcess,
			process.EmployeeID,
			process.StartDate,
			process.Status,
		).Scan(&process.ID, &process.CreatedAt, &process.UpdatedAt); err != nil {
			return err
		}

		const insertTask = `
            INSERT INTO onboarding_tasks (process_id, title, assignee, due_date, completed, position)
            VALUES ($1,$2,$3,$4,$5,$6)
            RETURNING id`
		for i := range process.Tasks {
			task := &process.Tasks[i]
			task.ProcessID = process.ID
			task.Position = i
			if err := tx.QueryRow(ctx, insertTask,
				task.ProcessID,
				task.Title,
				task.Assignee,
				task.DueDate,
				task.Completed,
				task.Position,
			).Scan(&task.ID); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *onboardingRepository) GetByID(ctx context.Context, id string) (*domain.OnboardingProcess, error) {
	const query = `
        SELECT id, employee_id, start_date, status, created_at, updated_at
        FROM onboarding_processes WHERE id=$1`
	var p domain.OnboardingProcess
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.EmployeeID, &p.StartDate, &p.Status, &p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	tasks, err := r.tasks(ctx, []string{p.ID})
	if err != nil {
		return nil, err
	}
	p.Tasks = tasks[p.ID]
	return &p, nil
}

func (r *onboardingRepository) List(ctx context.Context, status *domain.OnboardingStatus, page Page) ([]domain.OnboardingProcess, error) {
	var w where
	if status != nil {
		w.add("status=$%d", *status)
	}
	query := `
        SELECT id, employee_id, start_date, status, created_at, updated_at
        FROM onboarding_processes` + w.String() + ` ORDER BY start_date DESC, id` + page.clause()

	rows, err := r.pool.Query(ctx, query, w.args...)
	if err != nil {
		return nil, err
	}
	var result []domain.OnboardingProcess
	for rows.Next() {
		var p domain.OnboardingProcess
		if err := rows.Scan(&p.ID, &p.EmployeeID, &p.StartDate, &p.Status, &p.CreatedAt, &p.UpdatedAt); err != nil {
			rows.Close()
			return nil, err
		}
		result = append(result, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(result))
	for _, p := range result {
		ids = append(ids, p.ID)
	}
	tasks, err := r.tasks(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range result {
		result[i].Tasks = tasks[result[i].ID]
	}
	return result, nil
}

func (r *onboardingRepository) tasks(ctx context.Context, processIDs []string) (map[string][]domain.OnboardingTask, error) {
	out := make(map[string][]domain.OnboardingTask, len(processIDs))
	if len(processIDs) == 0 {
		return out, nil
	}
	const query = `
        SELECT id, process_id, title, assignee, due_date, completed, completed_at, position
        FROM onboarding_tasks WHERE process_id = ANY($1::uuid[]) ORDER BY position`
	rows, err := r.pool.Query(ctx, query, processIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var t domain.OnboardingTask
		if err := rows.Scan(&t.ID, &t.ProcessID, &t.Title, &t.Assignee, &t.DueDate, &t.Completed, &t.CompletedAt, &t.Position); err != nil {
			return nil, err
		}
		out[t.ProcessID] = append(out[t.ProcessID], t)
	}
	return out, rows.Err()
}

func (r *onboardingRepository) CompleteTask(ctx context.Context, processID, taskID string, at time.Time) error {
	const query = `
        UPDATE onboarding_tasks SET completed=TRUE, completed_at=$1
        WHERE id=$2 AND process_id=$3`
	return requireAffected(r.pool.Exec(ctx, query, at, taskID, processID))
}

func (r *onboardingRepository) UpdateStatus(ctx context.Context, processID string, status domain.OnboardingStatus) error {
	const query = `UPDATE onboarding_processes SET status=$1, updated_at=NOW() WHERE id=$2`
	return requireAffected(r.pool.Exec(ctx, query, status, processID))
}
