package service

import (
	"context"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/spec-kit/erp-service/internal/domain"
	"github.com/spec-kit/erp-service/internal/events"
	"github.com/spec-kit/erp-service/internal/repository"
	apperrors "github.com/spec-kit/erp-service/pkg/util"
)

// DefaultOnboardingChecklist is used when a process is started without tasks.
var DefaultOnboardingChecklist = []OnboardingTaskInput{
	{Title: "Sign employment contract", Assignee: "HR"},
	{Title: "Prepare workstation and accounts", Assignee: "IT"},
	{Title: "Security and safety briefing", Assignee: "HR"},
	{Title: "Meet the team", Assignee: "MANAGER"},
	{Title: "First week review", Assignee: "MANAGER"},
}

// HRService manages departments, employees and onboarding.
type HRService struct {
	departments repository.DepartmentRepository
	employees   repository.EmployeeRepository
	onboarding  repository.OnboardingRepository
	events      emitter
	clock       clockwork.Clock
}

// HRDependencies bundles repositories for the HR service.
type HRDependencies struct {
	DepartmentRepo repository.DepartmentRepository
	EmployeeRepo   repository.EmployeeRepository
	OnboardingRepo repository.OnboardingRepository
	Dispatcher     events.Dispatcher
	Clock          clockwork.Clock
}

// DepartmentInput describes department create/update payloads.
type DepartmentInput struct {
	Name           string
	Description    string
	HeadEmployeeID *string
	IsActive       *bool
}

// EmployeeInput describes employee create/update payloads.
type EmployeeInput struct {
	EmployeeCode string
	FirstName    string
	LastName     string
	Email        string
	Phone        string
	DepartmentID *string
	Position     string
	ManagerID    *string
	HireDate     time.Time
	Status       domain.EmployeeStatus
}

// OnboardingTaskInput describes one checklist entry.
type OnboardingTaskInput struct {
	Title    string
	Assignee string
	DueDate  *time.Time
}

// OnboardingInput starts an onboarding process.
type OnboardingInput struct {
	EmployeeID string
	StartDate  time.Time
	Tasks      []OnboardingTaskInput
}

// NewHRService constructs the service.
func NewHRService(deps HRDependencies) *HRService {
	clock := deps.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &HRService{
		departments: deps.DepartmentRepo,
		employees:   deps.EmployeeRepo,
		onboarding:  deps.OnboardingRepo,
		events:      newEmitter(deps.Dispatcher, clock),
		clock:       clock,
	}
}

// ListDepartments lists departments.
func (s *HRService) ListDepartments(ctx context.Context, includeInactive bool) ([]domain.Department, error) {
	return s.departments.List(ctx, includeInactive)
}

// GetDepartment loads a department.
func (s *HRService) GetDepartment(ctx context.Context, id string) (*domain.Department, error) {
	dept, err := s.departments.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "department")
	}
	return dept, nil
}

// CreateDepartment creates a department.
func (s *HRService) CreateDepartment(ctx context.Context, input DepartmentInput) (*domain.Department, error) {
	if err := required(map[string]string{"name": input.Name}); err != nil {
		return nil, err
	}
	head := optionalID(input.HeadEmployeeID)
	if err := s.requireEmployee(ctx, head); err != nil {
		return nil, err
	}
	dept := &domain.Department{
		Name:           strings.TrimSpace(input.Name),
		Description:    strings.TrimSpace(input.Description),
		HeadEmployeeID: head,
		IsActive:       true,
	}
	if input.IsActive != nil {
		dept.IsActive = *input.IsActive
	}
	if err := s.departments.Create(ctx, dept); err != nil {
		return nil, err
	}
	return dept, nil
}

// UpdateDepartment applies provided fields.
func (s *HRService) UpdateDepartment(ctx context.Context, id string, input DepartmentInput) (*domain.Department, error) {
	dept, err := s.GetDepartment(ctx, id)
	if err != nil {
		return nil, err
	}
	if name := strings.TrimSpace(input.Name); name != "" {
		dept.Name = name
	}
	if input.Description != "" {
		dept.Description = strings.TrimSpace(input.Description)
	}
	if input.HeadEmployeeID != nil {
		head := optionalID(input.HeadEmployeeID)
		if err := s.requireEmployee(ctx, head); err != nil {
			return nil, err
		}
		dept.HeadEmployeeID = head
	}
	if input.IsActive != nil {
		dept.IsActive = *input.IsActive
	}
	if err := s.departments.Update(ctx, dept); err != nil {
		return nil, err
	}
	return dept, nil
}

// ListEmployees lists employees matching filter.
func (s *HRService) ListEmployees(ctx context.Context, filter repository.EmployeeFilter) ([]domain.Employee, error) {
	return s.employees.List(ctx, filter)
}

// GetEmployee loads one employee.
func (s *HRService) GetEmployee(ctx context.Context, id string) (*domain.Employee, error) {
	emp, err := s.employees.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "employee")
	}
	return emp, nil
}

// CreateEmployee hires an employee.
func (s *HRService) CreateEmployee(ctx context.Context, actor Actor, input EmployeeInput) (*domain.Employee, error) {
	if err := required(map[string]string{
		"employee_code": input.EmployeeCode,
		"first_name":    input.FirstName,
		"email":         input.Email,
	}); err != nil {
		return nil, err
	}
	emp := &domain.Employee{
		EmployeeCode: strings.ToUpper(strings.TrimSpace(input.EmployeeCode)),
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		Email:        normalizeEmail(input.Email),
		Phone:        strings.TrimSpace(input.Phone),
		Position:     strings.TrimSpace(input.Position),
		HireDate:     input.HireDate,
		Status:       domain.EmployeeStatusActive,
	}
	if emp.HireDate.IsZero() {
		emp.HireDate = s.clock.Now().UTC().Truncate(24 * time.Hour)
	}
	if input.Status != "" {
		if err := validateEmployeeStatus(input.Status); err != nil {
			return nil, err
		}
		emp.Status = input.Status
	}
	if err := s.applyReferences(ctx, emp, input); err != nil {
		return nil, err
	}
	if err := s.employees.Create(ctx, emp); err != nil {
		return nil, err
	}
	s.events.emit(ctx, events.EventEmployeeHired, emp.ID, actor, events.EmployeePayload{
		EmployeeCode: emp.EmployeeCode,
		Name:         emp.FullName(),
		DepartmentID: emp.DepartmentID,
	})
	return emp, nil
}

// UpdateEmployee applies provided fields.
func (s *HRService) UpdateEmployee(ctx context.Context, id string, input EmployeeInput) (*domain.Employee, error) {
	emp, err := s.GetEmployee(ctx, id)
	if err != nil {
		return nil, err
	}
	if v := strings.TrimSpace(input.EmployeeCode); v != "" {
		emp.EmployeeCode = strings.ToUpper(v)
	}
	if v := strings.TrimSpace(input.FirstName); v != "" {
		emp.FirstName = v
	}
	if v := strings.TrimSpace(input.LastName); v != "" {
		emp.LastName = v
	}
	if v := normalizeEmail(input.Email); v != "" {
		emp.Email = v
	}
	if v := strings.TrimSpace(input.Phone); v != "" {
		emp.Phone = v
	}
	if v := strings.TrimSpace(input.Position); v != "" {
		emp.Position = v
	}
	if !input.HireDate.IsZero() {
		emp.HireDate = input.HireDate
	}
	if input.Status != "" {
		if err := validateEmployeeStatus(input.Status); err != nil {
			return nil, err
		}
		emp.Status = input.Status
	}
	if err := s.applyReferences(ctx, emp, input); err != nil {
		return nil, err
	}
	if err := s.employees.Update(ctx, emp); err != nil {
		return nil, err
	}
	return emp, nil
}

// TerminateEmployee marks the employee TERMINATED; records are never removed.
func (s *HRService) TerminateEmployee(ctx context.Context, actor Actor, id string) (*domain.Employee, error) {
	emp, err := s.GetEmployee(ctx, id)
	if err != nil {
		return nil, err
	}
	if emp.Status == domain.EmployeeStatusTerminated {
		return emp, nil
	}
	emp.Status = domain.EmployeeStatusTerminated
	if err := s.employees.Update(ctx, emp); err != nil {
		return nil, err
	}
	s.events.emit(ctx, events.EventEmployeeTerminated, emp.ID, actor, events.EmployeePayload{
		EmployeeCode: emp.EmployeeCode,
		Name:         emp.FullName(),
		DepartmentID: emp.DepartmentID,
	})
	return emp, nil
}

// ListOnboarding lists onboarding processes.
func (s *HRService) ListOnboarding(ctx context.Context, status *domain.OnboardingStatus, page repository.Page) ([]domain.OnboardingProcess, error) {
	return s.onboarding.List(ctx, status, page)
}

// GetOnboarding loads a process with its tasks.
func (s *HRService) GetOnboarding(ctx context.Context, id string) (*domain.OnboardingProcess, error) {
	process, err := s.onboarding.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "onboarding process")
	}
	return process, nil
}

// StartOnboarding creates a process, falling back to the default checklist.
func (s *HRService) StartOnboarding(ctx context.Context, input OnboardingInput) (*domain.OnboardingProcess, error) {
	if err := required(map[string]string{"employee_id": input.EmployeeID}); err != nil {
		return nil, err
	}
	emp, err := s.GetEmployee(ctx, input.EmployeeID)
	if err != nil {
		return nil, err
	}
	start := input.StartDate
	if start.IsZero() {
		start = emp.HireDate
	}
	tasks := input.Tasks
	if len(tasks) == 0 {
		tasks = DefaultOnboardingChecklist
	}

	process := &domain.OnboardingProcess{
		EmployeeID: emp.ID,
		StartDate:  start,
		Status:     domain.OnboardingNotStarted,
	}
	for i, t := range tasks {
		title := strings.TrimSpace(t.Title)
		if title == "" {
			return nil, apperrors.NewValidationError("task title is required", map[string]any{"index": i})
		}
		process.Tasks = append(process.Tasks, domain.OnboardingTask{
			Title:    title,
			Assignee: strings.TrimSpace(t.Assignee),
			DueDate:  t.DueDate,
			Position: i,
		})
	}
	if err := s.onboarding.Create(ctx, process); err != nil {
		return nil, err
	}
	return process, nil
}

// CompleteOnboardingTask marks a task done and re-derives the process status.
func (s *HRService) CompleteOnboardingTask(ctx context.Context, actor Actor, processID, taskID string) (*domain.OnboardingProcess, error) {
	process, err := s.GetOnboarding(ctx, processID)
	if err != nil {
		return nil, err
	}
	idx := -1
	for i, t := range process.Tasks {
		if t.ID == taskID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, apperrors.NewNotFound("onboarding task", map[string]any{"task_id": taskID})
	}
	if process.Tasks[idx].Completed {
		return process, nil
	}

	now := s.clock.Now().UTC()
	if err := s.onboarding.CompleteTask(ctx, process.ID, taskID, now); err != nil {
		return nil, notFound(err, "onboarding task")
	}
	process.Tasks[idx].Completed = true
	process.Tasks[idx].CompletedAt = &now

	if status := process.DeriveStatus(); status != process.Status {
		if err := s.onboarding.UpdateStatus(ctx, process.ID, status); err != nil {
			return nil, err
		}
		process.Status = status
		if status == domain.OnboardingCompleted {
			s.events.emit(ctx, events.EventOnboardingCompleted, process.ID, actor, map[string]string{"employee_id": process.EmployeeID})
		}
	}
	return process, nil
}

func (s *HRService) applyReferences(ctx context.Context, emp *domain.Employee, input EmployeeInput) error {
	if input.DepartmentID != nil {
		id := optionalID(input.DepartmentID)
		if id != nil {
			if _, err := s.GetDepartment(ctx, *id); err != nil {
				return err
			}
		}
		emp.DepartmentID = id
	}
	if input.ManagerID != nil {
		id := optionalID(input.ManagerID)
		if id != nil && emp.ID != "" && *id == emp.ID {
			return apperrors.NewValidationError("employee cannot manage themselves", nil)
		}
		if err := s.requireEmployee(ctx, id); err != nil {
			return err
		}
		emp.ManagerID = id
	}
	return nil
}

func (s *HRService) requireEmployee(ctx context.Context, id *string) error {
	if id == nil {
		return nil
	}
	_, err := s.GetEmployee(ctx, *id)
	return err
}

func validateEmployeeStatus(status domain.EmployeeStatus) error {
	switch status {
	case domain.EmployeeStatusActive, domain.EmployeeStatusOnLeave, domain.EmployeeStatusTerminated:
		return nil
	}
	return apperrors.NewValidationError("invalid employee status", map[string]any{"status": status})
}
