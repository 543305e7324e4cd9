package dto

import (
	"time"

	"github.com/spec-kit/erp-service/internal/domain"
)

// DepartmentRequest creates or updates a department.
type DepartmentRequest struct {
	Name           string  `json:"name"`
	Description    string  `json:"description"`
	HeadEmployeeID *string `json:"head_employee_id"`
	IsActive       *bool   `json:"is_active"`
}

// DepartmentResponse is the department view.
type DepartmentResponse struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	HeadEmployeeID *string   `json:"head_employee_id"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func NewDepartmentResponse(d *domain.Department) DepartmentResponse {
	return DepartmentResponse{
		ID:             d.ID,
		Name:           d.Name,
		Description:    d.Description,
		HeadEmployeeID: d.HeadEmployeeID,
		IsActive:       d.IsActive,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
}

// EmployeeRequest creates or updates an employee.
type EmployeeRequest struct {
	EmployeeCode string  `json:"employee_code"`
	FirstName    string  `json:"first_name"`
	LastName     string  `json:"last_name"`
	Email        string  `json:"email"`
	Phone        string  `json:"phone"`
	DepartmentID *string `json:"department_id"`
	Position     string  `json:"position"`
	ManagerID    *string `json:"manager_id"`
	HireDate     Date    `json:"hire_date"`
	Status       string  `json:"status"`
}

// EmployeeResponse is the employee view.
type EmployeeResponse struct {
	ID           string    `json:"id"`
	EmployeeCode string    `json:"employee_code"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	FullName     string    `json:"full_name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	DepartmentID *string   `json:"department_id"`
	Position     string    `json:"position"`
	ManagerID    *string   `json:"manager_id"`
	HireDate     Date      `json:"hire_date"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func NewEmployeeResponse(e *domain.Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:           e.ID,
		EmployeeCode: e.EmployeeCode,
		FirstName:    e.FirstName,
		LastName:     e.LastName,
		FullName:     e.FullName(),
		Email:        e.Email,
		Phone:        e.Phone,
		DepartmentID: e.DepartmentID,
		Position:     e.Position,
		ManagerID:    e.ManagerID,
		HireDate:     NewDate(e.HireDate),
		Status:       string(e.Status),
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
}

// OnboardingTaskRequest is one custom checklist item.
type OnboardingTaskRequest struct {
	Title    string `json:"title"`
	Assignee string `json:"assignee"`
	DueDate  *Date  `json:"due_date"`
}

// OnboardingRequest starts onboarding for an employee.
type OnboardingRequest struct {
	EmployeeID string                  `json:"employee_id"`
	StartDate  Date                    `json:"start_date"`
	Tasks      []OnboardingTaskRequest `json:"tasks"`
}

type OnboardingTaskResponse struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Assignee    string     `json:"assignee"`
	DueDate     *Date      `json:"due_date"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at"`
}

// OnboardingResponse is the onboarding process view with derived progress.
type OnboardingResponse struct {
	ID         string                   `json:"id"`
	EmployeeID string                   `json:"employee_id"`
	StartDate  Date                     `json:"start_date"`
	Status     string                   `json:"status"`
	Progress   float64                  `json:"progress"`
	Tasks      []OnboardingTaskResponse `json:"tasks"`
	CreatedAt  time.Time                `json:"created_at"`
	UpdatedAt  time.Time                `json:"updated_at"`
}

func NewOnboardingResponse(p *domain.OnboardingProcess) OnboardingResponse {
	tasks := make([]OnboardingTaskResponse, 0, len(p.Tasks))
	for _, t := range p.Tasks {
		tasks = append(tasks, OnboardingTaskResponse{
			ID:          t.ID,
			Title:       t.Title,
			Assignee:    t.Assignee,
			DueDate:     DatePtr(t.DueDate),
			Completed:   t.Completed,
			CompletedAt: t.CompletedAt,
		})
	}
	return OnboardingResponse{
		ID:         p.ID,
		EmployeeID: p.EmployeeID,
		StartDate:  NewDate(p.StartDate),
		Status:     string(p.Status),
		Progress:   p.Progress(),
		Tasks:      tasks,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}
