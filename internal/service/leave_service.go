package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jonboulle/clockwork"

	"github.com/spec-kit/erp-service/internal/config"
	"github.com/spec-kit/erp-service/internal/domain"
	"github.com/spec-kit/erp-service/internal/events"
	"github.com/spec-kit/erp-service/internal/repository"
	apperrors "github.com/spec-kit/erp-service/pkg/util"
	"github.com/spec-kit/erp-service/pkg/workday"
)

// LeaveService handles leave requests, approvals and balances.
type LeaveService struct {
	leave     repository.LeaveRepository
	employees repository.EmployeeRepository
	defaults  map[domain.LeaveType]int
	events    emitter
	clock     clockwork.Clock
}

// LeaveDependencies bundles requirements for the leave service.
type LeaveDependencies struct {
	LeaveRepo    repository.LeaveRepository
	EmployeeRepo repository.EmployeeRepository
	Dispatcher   events.Dispatcher
	Clock        clockwork.Clock
}

// LeaveRequestInput describes a new leave request.
type LeaveRequestInput struct {
	EmployeeID string
	LeaveType  domain.LeaveType
	StartDate  time.Time
	EndDate    time.Time
	Reason     string
}

// NewLeaveService constructs the service.
func NewLeaveService(cfg config.LeaveConfig, deps LeaveDependencies) *LeaveService {
	clock := deps.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &LeaveService{
		leave:     deps.LeaveRepo,
		employees: deps.EmployeeRepo,
		defaults: map[domain.LeaveType]int{
			domain.LeaveTypeAnnual: cfg.DefaultAnnualDays,
			domain.LeaveTypeSick:   cfg.DefaultSickDays,
		},
		events: newEmitter(deps.Dispatcher, clock),
		clock:  clock,
	}
}

// Calculate returns the number of working days in the inclusive range.
func (s *LeaveService) Calculate(start, end time.Time) int {
	return workday.CountWorkingDays(start, end)
}

// ListRequests lists leave requests. Callers without review rights only see their own.
func (s *LeaveService) ListRequests(ctx context.Context, actor Actor, filter repository.LeaveFilter) ([]domain.LeaveRequest, error) {
	if !canReviewLeave(actor) {
		if actor.EmployeeID == "" {
			return nil, nil
		}
		own := actor.EmployeeID
		filter.EmployeeID = &own
	}
	return s.leave.ListRequests(ctx, filter)
}

// GetRequest loads one leave request visible to actor.
func (s *LeaveService) GetRequest(ctx context.Context, actor Actor, id string) (*domain.LeaveRequest, error) {
	req, err := s.leave.GetRequest(ctx, id)
	if err != nil {
		return nil, notFound(err, "leave request")
	}
	if !canReviewLeave(actor) && req.EmployeeID != actor.EmployeeID {
		return nil, apperrors.NewForbidden("leave request belongs to another employee")
	}
	return req, nil
}

// CreateRequest validates and stores a PENDING leave request.
func (s *LeaveService) CreateRequest(ctx context.Context, actor Actor, input LeaveRequestInput) (*domain.LeaveRequest, error) {
	employeeID := strings.TrimSpace(input.EmployeeID)
	if employeeID == "" {
		employeeID = actor.EmployeeID
	}
	if employeeID == "" {
		return nil, apperrors.NewValidationError("employee_id is required", nil)
	}
	if employeeID != actor.EmployeeID && !canReviewLeave(actor) {
		return nil, apperrors.NewForbidden("cannot request leave for another employee")
	}
	if !input.LeaveType.Valid() {
		return nil, apperrors.NewValidationError("invalid leave type", map[string]any{"leave_type": input.LeaveType})
	}
	if input.StartDate.IsZero() || input.EndDate.IsZero() {
		return nil, apperrors.NewValidationError("start_date and end_date are required", nil)
	}
	if input.EndDate.Before(input.StartDate) {
		return nil, apperrors.NewValidationError("end_date must not be before start_date", nil)
	}
	days := workday.CountWorkingDays(input.StartDate, input.EndDate)
	if days == 0 {
		return nil, apperrors.NewValidationError("requested range contains no working days", nil)
	}

	emp, err := s.employees.GetByID(ctx, employeeID)
	if err != nil {
		return nil, notFound(err, "employee")
	}
	if emp.Status == domain.EmployeeStatusTerminated {
		return nil, apperrors.NewInvalidState("employee is terminated", nil)
	}

	overlapping, err := s.leave.CountOverlapping(ctx, emp.ID, input.StartDate, input.EndDate)
	if err != nil {
		return nil, err
	}
	if overlapping > 0 {
		return nil, apperrors.NewConflict("overlapping leave request exists", nil)
	}

	if input.LeaveType.Tracked() {
		balance, err := s.balance(ctx, emp.ID, input.StartDate.Year(), input.LeaveType)
		if err != nil {
			return nil, err
		}
		if days > balance.Remaining() {
			return nil, apperrors.NewValidationError("insufficient leave balance", map[string]any{
				"requested": days,
				"remaining": balance.Remaining(),
			})
		}
	}

	req := &domain.LeaveRequest{
		EmployeeID:  emp.ID,
		LeaveType:   input.LeaveType,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
		WorkingDays: days,
		Reason:      strings.TrimSpace(input.Reason),
		Status:      domain.LeaveStatusPending,
	}
	if err := s.leave.CreateRequest(ctx, req); err != nil {
		return nil, err
	}
	s.events.emit(ctx, events.EventLeaveRequested, req.ID, actor, leavePayload(req))
	return req, nil
}

// Approve approves a PENDING request and draws down the balance for paid types.
func (s *LeaveService) Approve(ctx context.Context, actor Actor, id, comment string) (*domain.LeaveRequest, error) {
	req, err := s.pendingForReview(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	delta := 0
	if req.LeaveType.Tracked() {
		balance, err := s.balance(ctx, req.EmployeeID, req.StartDate.Year(), req.LeaveType)
		if err != nil {
			return nil, err
		}
		if req.WorkingDays > balance.Remaining() {
			return nil, apperrors.NewInvalidState("insufficient leave balance", map[string]any{
				"requested": req.WorkingDays,
				"remaining": balance.Remaining(),
			})
		}
		delta = req.WorkingDays
	}

	s.stampReview(req, actor, domain.LeaveStatusApproved, comment)
	if err := s.review(ctx, req, domain.LeaveStatusPending, delta); err != nil {
		return nil, err
	}
	s.events.emit(ctx, events.EventLeaveApproved, req.ID, actor, leavePayload(req))
	return req, nil
}

// Reject rejects a PENDING request. A comment is mandatory.
func (s *LeaveService) Reject(ctx context.Context, actor Actor, id, comment string) (*domain.LeaveRequest, error) {
	if strings.TrimSpace(comment) == "" {
		return nil, apperrors.NewValidationError("a comment is required to reject a leave request", nil)
	}
	req, err := s.pendingForReview(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	s.stampReview(req, actor, domain.LeaveStatusRejected, comment)
	if err := s.review(ctx, req, domain.LeaveStatusPending, 0); err != nil {
		return nil, err
	}
	s.events.emit(ctx, events.EventLeaveRejected, req.ID, actor, leavePayload(req))
	return req, nil
}

// Cancel withdraws a PENDING or APPROVED request. Approved days are returned to the balance.
func (s *LeaveService) Cancel(ctx context.Context, actor Actor, id string) (*domain.LeaveRequest, error) {
	req, err := s.leave.GetRequest(ctx, id)
	if err != nil {
		return nil, notFound(err, "leave request")
	}
	if req.EmployeeID != actor.EmployeeID && !actor.HasRole(domain.RoleHR, domain.RoleAdmin) {
		return nil, apperrors.NewForbidden("only the owner or HR can cancel a leave request")
	}

	from := req.Status
	delta := 0
	switch from {
	case domain.LeaveStatusPending:
	case domain.LeaveStatusApproved:
		if req.LeaveType.Tracked() {
			delta = -req.WorkingDays
		}
	default:
		return nil, apperrors.NewInvalidState("leave request cannot be cancelled", map[string]any{"status": req.Status})
	}

	s.stampReview(req, actor, domain.LeaveStatusCancelled, req.ReviewComment)
	if err := s.review(ctx, req, from, delta); err != nil {
		return nil, err
	}
	s.events.emit(ctx, events.EventLeaveCancelled, req.ID, actor, leavePayload(req))
	return req, nil
}

// Balances returns the tracked balances of an employee for year, creating defaults lazily.
func (s *LeaveService) Balances(ctx context.Context, actor Actor, employeeID string, year int) ([]domain.LeaveBalance, error) {
	if employeeID == "" {
		employeeID = actor.EmployeeID
	}
	if employeeID == "" {
		return nil, apperrors.NewValidationError("employee_id is required", nil)
	}
	if employeeID != actor.EmployeeID && !canReviewLeave(actor) {
		return nil, apperrors.NewForbidden("cannot view another employee's balances")
	}
	if year == 0 {
		year = s.clock.Now().Year()
	}
	if _, err := s.employees.GetByID(ctx, employeeID); err != nil {
		return nil, notFound(err, "employee")
	}
	for _, lt := range []domain.LeaveType{domain.LeaveTypeAnnual, domain.LeaveTypeSick} {
		if _, err := s.balance(ctx, employeeID, year, lt); err != nil {
			return nil, err
		}
	}
	return s.leave.ListBalances(ctx, employeeID, year)
}

// SetBalance sets the yearly allowance for one leave type.
func (s *LeaveService) SetBalance(ctx context.Context, employeeID string, year int, leaveType domain.LeaveType, totalDays int) (*domain.LeaveBalance, error) {
	if employeeID == "" {
		return nil, apperrors.NewValidationError("employee_id is required", nil)
	}
	if !leaveType.Tracked() {
		return nil, apperrors.NewValidationError("balances are only kept for ANNUAL and SICK leave", map[string]any{"leave_type": leaveType})
	}
	if totalDays < 0 {
		return nil, apperrors.NewValidationError("total_days must not be negative", nil)
	}
	if year == 0 {
		year = s.clock.Now().Year()
	}
	if _, err := s.employees.GetByID(ctx, employeeID); err != nil {
		return nil, notFound(err, "employee")
	}
	balance := &domain.LeaveBalance{
		EmployeeID: employeeID,
		Year:       year,
		LeaveType:  leaveType,
		TotalDays:  totalDays,
	}
	if err := s.leave.UpsertBalance(ctx, balance); err != nil {
		return nil, err
	}
	return balance, nil
}

func (s *LeaveService) balance(ctx context.Context, employeeID string, year int, leaveType domain.LeaveType) (*domain.LeaveBalance, error) {
	balance, err := s.leave.GetBalance(ctx, employeeID, year, leaveType)
	if err == nil {
		return balance, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	balance = &domain.LeaveBalance{
		EmployeeID: employeeID,
		Year:       year,
		LeaveType:  leaveType,
		TotalDays:  s.defaults[leaveType],
	}
	if err := s.leave.UpsertBalance(ctx, balance); err != nil {
		return nil, err
	}
	return balance, nil
}

func (s *LeaveService) pendingForReview(ctx context.Context, actor Actor, id string) (*domain.LeaveRequest, error) {
	req, err := s.leave.GetRequest(ctx, id)
	if err != nil {
		return nil, notFound(err, "leave request")
	}
	if actor.EmployeeID != "" && req.EmployeeID == actor.EmployeeID && !actor.HasRole(domain.RoleAdmin) {
		return nil, apperrors.NewForbidden("cannot review your own leave request")
	}
	if req.Status != domain.LeaveStatusPending {
		return nil, apperrors.NewInvalidState("only pending leave requests can be reviewed", map[string]any{"status": req.Status})
	}
	return req, nil
}

func (s *LeaveService) stampReview(req *domain.LeaveRequest, actor Actor, status domain.LeaveStatus, comment string) {
	now := s.clock.Now().UTC()
	req.Status = status
	req.ReviewerID = actor.userRef()
	req.ReviewComment = strings.TrimSpace(comment)
	req.ReviewedAt = &now
}

func (s *LeaveService) review(ctx context.Context, req *domain.LeaveRequest, from domain.LeaveStatus, delta int) error {
	err := s.leave.Review(ctx, req, from, delta)
	switch {
	case errors.Is(err, repository.ErrInsufficientBalance):
		return apperrors.NewInvalidState("insufficient leave balance", map[string]any{"requested": delta})
	case errors.Is(err, pgx.ErrNoRows):
		return apperrors.NewInvalidState("leave request changed concurrently", nil)
	}
	return err
}

func canReviewLeave(actor Actor) bool {
	return actor.HasRole(domain.RoleAdmin, domain.RoleHR, domain.RoleManager)
}

func leavePayload(req *domain.LeaveRequest) events.LeavePayload {
	return events.LeavePayload{
		EmployeeID:  req.EmployeeID,
		LeaveType:   req.LeaveType,
		StartDate:   req.StartDate.Format(workday.DateLayout),
		EndDate:     req.EndDate.Format(workday.DateLayout),
		WorkingDays: req.WorkingDays,
		Status:      req.Status,
		Comment:     req.ReviewComment,
	}
}
