package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/erp-service/internal/api/dto"
	"github.com/spec-kit/erp-service/internal/domain"
	"github.com/spec-kit/erp-service/internal/repository"
	"github.com/spec-kit/erp-service/internal/service"
)

// HRHandler serves departments, employees and onboarding.
type HRHandler struct {
	hr *service.HRService
}

// NewHRHandler constructs handler.
func NewHRHandler(hr *service.HRService) *HRHandler {
	return &HRHandler{hr: hr}
}

// ListDepartments GET /hr/departments.
func (h *HRHandler) ListDepartments(c *fiber.Ctx) error {
	depts, err := h.hr.ListDepartments(c.UserContext(), parseBoolQuery(c, "include_inactive", false))
	if err != nil {
		return err
	}
	items := make([]dto.DepartmentResponse, 0, len(depts))
	for i := range depts {
		items = append(items, dto.NewDepartmentResponse(&depts[i]))
	}
	return respond(c, items)
}

// GetDepartment GET /hr/departments/:id.
func (h *HRHandler) GetDepartment(c *fiber.Ctx) error {
	dept, err := h.hr.GetDepartment(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return respond(c, dto.NewDepartmentResponse(dept))
}

// CreateDepartment POST /hr/departments.
func (h *HRHandler) CreateDepartment(c *fiber.Ctx) error {
	var req dto.DepartmentRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	dept, err := h.hr.CreateDepartment(c.UserContext(), departmentInput(req))
	if err != nil {
		return err
	}
	return created(c, dto.NewDepartmentResponse(dept))
}

// UpdateDepartment PUT /hr/departments/:id.
func (h *HRHandler) UpdateDepartment(c *fiber.Ctx) error {
	var req dto.DepartmentRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	dept, err := h.hr.UpdateDepartment(c.UserContext(), c.Params("id"), departmentInput(req))
	if err != nil {
		return err
	}
	return respond(c, dto.NewDepartmentResponse(dept))
}

// ListEmployees GET /hr/employees.
func (h *HRHandler) ListEmployees(c *fiber.Ctx) error {
	page := parsePage(c)
	filter := repository.EmployeeFilter{
		DepartmentID: optionalQuery(c, "department_id"),
		ManagerID:    optionalQuery(c, "manager_id"),
		Search:       c.Query("search"),
		Page:         page,
	}
	if status := optionalQuery(c, "status"); status != nil {
		s := domain.EmployeeStatus(*status)
		filter.Status = &s
	}
	emps, err := h.hr.ListEmployees(c.UserContext(), filter)
	if err != nil {
		return err
	}
	items := make([]dto.EmployeeResponse, 0, len(emps))
	for i := range emps {
		items = append(items, dto.NewEmployeeResponse(&emps[i]))
	}
	return respondList(c, items, len(items), page)
}

// GetEmployee GET /hr/employees/:id.
func (h *HRHandler) GetEmployee(c *fiber.Ctx) error {
	emp, err := h.hr.GetEmployee(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return respond(c, dto.NewEmployeeResponse(emp))
}

// CreateEmployee POST /hr/employees.
func (h *HRHandler) CreateEmployee(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req dto.EmployeeRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	emp, err := h.hr.CreateEmployee(c.UserContext(), actor, employeeInput(req))
	if err != nil {
		return err
	}
	return created(c, dto.NewEmployeeResponse(emp))
}

// UpdateEmployee PUT /hr/employees/:id.
func (h *HRHandler) UpdateEmployee(c *fiber.Ctx) error {
	var req dto.EmployeeRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	emp, err := h.hr.UpdateEmployee(c.UserContext(), c.Params("id"), employeeInput(req))
	if err != nil {
		return err
	}
	return respond(c, dto.NewEmployeeResponse(emp))
}

// TerminateEmployee DELETE /hr/employees/:id. The record is kept as TERMINATED.
func (h *HRHandler) TerminateEmployee(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	emp, err := h.hr.TerminateEmployee(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return respond(c, dto.NewEmployeeResponse(emp))
}

// ListOnboarding GET /hr/onboarding.
func (h *HRHandler) ListOnboarding(c *fiber.Ctx) error {
	page := parsePage(c)
	var status *domain.OnboardingStatus
	if raw := optionalQuery(c, "status"); raw != nil {
		s := domain.OnboardingStatus(*raw)
		status = &s
	}
	processes, err := h.hr.ListOnboarding(c.UserContext(), status, page)
	if err != nil {
		return err
	}
	items := make([]dto.OnboardingResponse, 0, len(processes))
	for i := range processes {
		items = append(items, dto.NewOnboardingResponse(&processes[i]))
	}
	return respondList(c, items, len(items), page)
}

// GetOnboarding GET /hr/onboarding/:id.
func (h *HRHandler) GetOnboarding(c *fiber.Ctx) error {
	process, err := h.hr.GetOnboarding(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return respond(c, dto.NewOnboardingResponse(process))
}

// StartOnboarding POST /hr/onboarding.
func (h *HRHandler) StartOnboarding(c *fiber.Ctx) error {
	var req dto.OnboardingRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	input := service.OnboardingInput{EmployeeID: req.EmployeeID, StartDate: req.StartDate.Time}
	for _, t := range req.Tasks {
		input.Tasks = append(input.Tasks, service.OnboardingTaskInput{
			Title:    t.Title,
			Assignee: t.Assignee,
			DueDate:  t.DueDate.TimePtr(),
		})
	}
	process, err := h.hr.StartOnboarding(c.UserContext(), input)
	if err != nil {
		return err
	}
	return created(c, dto.NewOnboardingResponse(process))
}

// CompleteOnboardingTask POST /hr/onboarding/:id/tasks/:task_id/complete.
func (h *HRHandler) CompleteOnboardingTask(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	process, err := h.hr.CompleteOnboardingTask(c.UserContext(), actor, c.Params("id"), c.Params("task_id"))
	if err != nil {
		return err
	}
	return respond(c, dto.NewOnboardingResponse(process))
}

func departmentInput(req dto.DepartmentRequest) service.DepartmentInput {
	return service.DepartmentInput{
		Name:           req.Name,
		Description:    req.Description,
		HeadEmployeeID: req.HeadEmployeeID,
		IsActive:       req.IsActive,
	}
}

func employeeInput(req dto.EmployeeRequest) service.EmployeeInput {
	return service.EmployeeInput{
		EmployeeCode: req.EmployeeCode,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		Phone:        req.Phone,
		DepartmentID: req.DepartmentID,
		Position:     req.Position,
		ManagerID:    req.ManagerID,
		HireDate:     req.HireDate.Time,
		Status:       domain.EmployeeStatus(req.Status),
	}
}
