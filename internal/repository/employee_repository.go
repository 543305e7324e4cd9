package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/erp-service/internal/domain"
)

// EmployeeRepository persists employee records.
type EmployeeRepository interface {
	Create(ctx context.Context, emp *domain.Employee) error
	Update(ctx context.Context, emp *domain.Employee) error
	GetByID(ctx context.Context, id string) (*domain.Employee, error)
	List(ctx context.Context, filter EmployeeFilter) ([]domain.Employee, error)
	Count(ctx context.Context, filter EmployeeFilter) (int, error)
}

// EmployeeFilter narrows employee listings.
type EmployeeFilter struct {
	DepartmentID *string
	ManagerID    *string
	Status       *domain.EmployeeStatus
	Search       string
	Page
}

type employeeRepository struct {
	pool *pgxpool.Pool
}

// NewEmployeeRepository builds the repository.
func NewEmployeeRepository(pool *pgxpool.Pool) EmployeeRepository {
	return &employeeRepository{pool: pool}
}

const employeeColumns = `id, employee_code, first_name, last_name, email, phone, department_id, position,
        manager_id, hire_date, status, created_at, updated_at`

func scanEmployee(row pgx.Row) (*domain.Employee, error) {
	var emp domain.Employee
	if err := row.Scan(
		&emp.ID,
		&emp.EmployeeCode,
		&emp.FirstName,
		&emp.LastName,
		&emp.Email,
		&emp.Phone,
		&emp.DepartmentID,
		&emp.Position,
		&emp.ManagerID,
		&emp.HireDate,
		&emp.Status,
		&emp.CreatedAt,
		&emp.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &emp, nil
}

func (r *employeeRepository) Create(ctx context.Context, emp *domain.Employee) error {
	const query = `
        INSERT INTO employees (employee_code, first_name, last_name, email, phone, department_id, position, manager_id, hire_date, status)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		emp.EmployeeCode,
		emp.FirstName,
		emp.LastName,
		emp.Email,
		emp.Phone,
		emp.DepartmentID,
		emp.Position,
		emp.ManagerID,
		emp.HireDate,
		emp.Status,
	).Scan(&emp.ID, &emp.CreatedAt, &emp.UpdatedAt)
}

func (r *employeeRepository) Update(ctx context.Context, emp *domain.Employee) error {
	const query = `
        UPDATE employees
        SET employee_code=$1, first_name=$2, last_name=$3, email=$4, phone=$5, department_id=$6,
            position=$7, manager_id=$8, hire_date=$9, status=$10, updated_at=NOW()
        WHERE id=$11
        RETURNING updated_at`
	return r.pool.QueryRow(ctx, query,
		emp.EmployeeCode,
		emp.FirstName,
		emp.LastName,
		emp.Email,
		emp.Phone,
		emp.DepartmentID,
		emp.Position,
		emp.ManagerID,
		emp.HireDate,
		emp.Status,
		emp.ID,
	).Scan(&emp.UpdatedAt)
}

func (r *employeeRepository) GetByID(ctx context.Context, id string) (*domain.Employee, error) {
	return scanEmployee(r.pool.QueryRow(ctx, `SELECT `+employeeColumns+` FROM employees WHERE id=$1`, id))
}

func (f EmployeeFilter) where() *where {
	w := &where{}
	if f.DepartmentID != nil {
		w.add("department_id=$%d", *f.DepartmentID)
	}
	if f.ManagerID != nil {
		w.add("manager_id=$%d", *f.ManagerID)
	}
	if f.Status != nil {
		w.add("status=$%d", *f.Status)
	}
	if f.Search != "" {
		w.add("(first_name ILIKE $%[1]d OR last_name ILIKE $%[1]d OR email ILIKE $%[1]d OR employee_code ILIKE $%[1]d)", "%"+f.Search+"%")
	}
	return w
}

func (r *employeeRepository) List(ctx context.Context, filter EmployeeFilter) ([]domain.Employee, error) {
	w := filter.where()
	query := `SELECT ` + employeeColumns + ` FROM employees` + w.String() + ` ORDER BY last_name, first_name, id` + filter.Page.clause()

	rows, err := r.pool.Query(ctx, query, w.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *emp)
	}
	return result, rows.Err()
}

func (r *employeeRepository) Count(ctx context.Context, filter EmployeeFilter) (int, error) {
	w := filter.where()
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM employees`+w.String(), w.args...).Scan(&n)
	return n, err
}
