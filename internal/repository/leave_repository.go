package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/erp-service/internal/domain"
)

// ErrInsufficientBalance is returned when a review would draw a balance past its total.
var ErrInsufficientBalance = errors.New("insufficient leave balance")

// LeaveRepository persists leave requests and balances.
type LeaveRepository interface {
	CreateRequest(ctx context.Context, req *domain.LeaveRequest) error
	GetRequest(ctx context.Context, id string) (*domain.LeaveRequest, error)
	ListRequests(ctx context.Context, filter LeaveFilter) ([]domain.LeaveRequest, error)
	CountOverlapping(ctx context.Context, employeeID string, start, end time.Time) (int, error)
	// Review stores the new status and applies usedDelta to the matching balance
	// in one transaction. The update only succeeds while the stored status still
	// equals from. A positive usedDelta that would exceed the total rolls the
	// whole review back with ErrInsufficientBalance.
	Review(ctx context.Context, req *domain.LeaveRequest, from domain.LeaveStatus, usedDelta int) error

	GetBalance(ctx context.Context, employeeID string, year int, leaveType domain.LeaveType) (*domain.LeaveBalance, error)
	ListBalances(ctx context.Context, employeeID string, year int) ([]domain.LeaveBalance, error)
	UpsertBalance(ctx context.Context, balance *domain.LeaveBalance) error

	CountPending(ctx context.Context) (int, error)
	// CountOnLeave counts distinct employees with approved leave covering day.
	CountOnLeave(ctx context.Context, day time.Time) (int, error)
}

// LeaveFilter narrows leave request listings.
type LeaveFilter struct {
	EmployeeID *string
	Status     *domain.LeaveStatus
	LeaveType  *domain.LeaveType
	From       *time.Time
	To         *time.Time
	Page
}

type leaveRepository struct {
	pool *pgxpool.Pool
}

// NewLeaveRepository builds the repository.
func NewLeaveRepository(pool *pgxpool.Pool) LeaveRepository {
	return &leaveRepository{pool: pool}
}

const leaveRequestColumns = `id, employee_id, leave_type, start_date, end_date, working_days, reason, status,
        reviewer_id, review_comment, reviewed_at, created_at, updated_at`

func scanLeaveRequest(row pgx.Row) (*domain.LeaveRequest, error) {
	var req domain.LeaveRequest
	if err := row.Scan(
		&req.ID,
		&req.EmployeeID,
		&req.LeaveType,
		&req.StartDate,
		&req.EndDate,
		&req.WorkingDays,
		&req.Reason,
		&req.Status,
		&req.ReviewerID,
		&req.ReviewComment,
		&req.ReviewedAt,
		&req.CreatedAt,
		&req.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *leaveRepository) CreateRequest(ctx context.Context, req *domain.LeaveRequest) error {
	const query = `
        INSERT INTO leave_requests (employee_id, leave_type, start_date, end_date, working_days, reason, status)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		req.EmployeeID,
		req.LeaveType,
		req.StartDate,
		req.EndDate,
		req.WorkingDays,
		req.Reason,
		req.Status,
	).Scan(&req.ID, &req.CreatedAt, &req.UpdatedAt)
}

func (r *leaveRepository) GetRequest(ctx context.Context, id string) (*domain.LeaveRequest, error) {
	return scanLeaveRequest(r.pool.QueryRow(ctx, `SELECT `+leaveRequestColumns+` FROM leave_requests WHERE id=$1`, id))
}

func (r *leaveRepository) ListRequests(ctx context.Context, filter LeaveFilter) ([]domain.LeaveRequest, error) {
	var w where
	if filter.EmployeeID != nil {
		w.add("employee_id=$%d", *filter.EmployeeID)
	}
	if filter.Status != nil {
		w.add("status=$%d", *filter.Status)
	}
	if filter.LeaveType != nil {
		w.add("leave_type=$%d", *filter.LeaveType)
	}
	if filter.From != nil {
		w.add("end_date >= $%d", *filter.From)
	}
	if filter.To != nil {
		w.add("start_date <= $%d", *filter.To)
	}
	query := `SELECT ` + leaveRequestColumns + ` FROM leave_requests` + w.String() + ` ORDER BY start_date DESC, id` + filter.Page.clause()

	rows, err := r.pool.Query(ctx, query, w.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.LeaveRequest
	for rows.Next() {
		req, err := scanLeaveRequest(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *req)
	}
	return result, rows.Err()
}

func (r *leaveRepository) CountOverlapping(ctx context.Context, employeeID string, start, end time.Time) (int, error) {
	const query = `
        SELECT COUNT(*) FROM leave_requests
        WHERE employee_id=$1 AND status IN ('PENDING','APPROVED') AND start_date <= $3 AND end_date >= $2`
	var n int
	err := r.pool.QueryRow(ctx, query, employeeID, start, end).Scan(&n)
	return n, err
}

func (r *leaveRepository) Review(ctx context.Context, req *domain.LeaveRequest, from domain.LeaveStatus, usedDelta int) error {
	return inTx(ctx, r.pool, func(tx pgx.Tx) error {
		const update = `
            UPDATE leave_requests
            SET status=$1, reviewer_id=$2, review_comment=$3, reviewed_at=$4, updated_at=NOW()
            WHERE id=$5 AND status=$6
            RETURNING updated_at`
		if err := tx.QueryRow(ctx, update,
			req.Status,
			req.ReviewerID,
			req.ReviewComment,
			req.ReviewedAt,
			req.ID,
			from,
		).Scan(&req.UpdatedAt); err != nil {
			return err
		}
		if usedDelta == 0 {
			return nil
		}
		const adjust = `
            UPDATE leave_balances SET used_days = used_days + $1, updated_at=NOW()
            WHERE employee_id=$2 AND year=$3 AND leave_type=$4
              AND ($1 <= 0 OR used_days + $1 <= total_days)`
		err := requireAffected(tx.Exec(ctx, adjust, usedDelta, req.EmployeeID, req.StartDate.Year(), req.LeaveType))
		if errors.Is(err, pgx.ErrNoRows) && usedDelta > 0 {
			return ErrInsufficientBalance
		}
		return err
	})
}

const leaveBalanceColumns = `id, employee_id, year, leave_type, total_days, used_days, created_at, updated_at`

func scanLeaveBalance(row pgx.Row) (*domain.LeaveBalance, error) {
	var b domain.LeaveBalance
	if err := row.Scan(
		&b.ID,
		&b.EmployeeID,
		&b.Year,
		&b.LeaveType,
		&b.TotalDays,
		&b.UsedDays,
		&b.CreatedAt,
		&b.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *leaveRepository) GetBalance(ctx context.Context, employeeID string, year int, leaveType domain.LeaveType) (*domain.LeaveBalance, error) {
	const query = `SELECT ` + leaveBalanceColumns + ` FROM leave_balances WHERE employee_id=$1 AND year=$2 AND leave_type=$3`
	return scanLeaveBalance(r.pool.QueryRow(ctx, query, employeeID, year, leaveType))
}

func (r *leaveRepository) ListBalances(ctx context.Context, employeeID string, year int) ([]domain.LeaveBalance, error) {
	const query = `SELECT ` + leaveBalanceColumns + ` FROM leave_balances WHERE employee_id=$1 AND year=$2 ORDER BY leave_type`
	rows, err := r.pool.Query(ctx, query, employeeID, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.LeaveBalance
	for rows.Next() {
		b, err := scanLeaveBalance(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *b)
	}
	return result, rows.Err()
}

func (r *leaveRepository) UpsertBalance(ctx context.Context, balance *domain.LeaveBalance) error {
	const query = `
        INSERT INTO leave_balances (employee_id, year, leave_type, total_days, used_days)
        VALUES ($1,$2,$3,$4,$5)
        ON CONFLICT (employee_id, year, leave_type)
        DO UPDATE SET total_days=EXCLUDED.total_days, updated_at=NOW()
        RETURNING ` + leaveBalanceColumns
	b, err := scanLeaveBalance(r.pool.QueryRow(ctx, query,
		balance.EmployeeID,
		balance.Year,
		balance.LeaveType,
		balance.TotalDays,
		balance.UsedDays,
	))
	if err != nil {
		return err
	}
	*balance = *b
	return nil
}

func (r *leaveRepository) CountPending(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM leave_requests WHERE status='PENDING'`).Scan(&n)
	return n, err
}

func (r *leaveRepository) CountOnLeave(ctx context.Context, day time.Time) (int, error) {
	const query = `
        SELECT COUNT(DISTINCT employee_id) FROM leave_requests
        WHERE status='APPROVED' AND start_date <= $1 AND end_date >= $1`
	var n int
	err := r.pool.QueryRow(ctx, query, day).Scan(&n)
	return n, err
}
