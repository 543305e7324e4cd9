package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/erp-service/internal/api/dto"
	"github.com/spec-kit/erp-service/internal/domain"
	"github.com/spec-kit/erp-service/internal/repository"
	"github.com/spec-kit/erp-service/internal/service"
)

// LeaveHandler serves leave requests, balances and the working-day calculator.
type LeaveHandler struct {
	leave *service.LeaveService
}

// NewLeaveHandler constructs handler.
func NewLeaveHandler(leave *service.LeaveService) *LeaveHandler {
	return &LeaveHandler{leave: leave}
}

// Calculate POST /hr/leave-requests/calculate. Absent dates yield zero days.
func (h *LeaveHandler) Calculate(c *fiber.Ctx) error {
	var req dto.LeaveCalculateRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	return respond(c, dto.LeaveCalculateResponse{
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		WorkingDays: h.leave.Calculate(req.StartDate.Time, req.EndDate.Time),
	})
}

// ListRequests GET /hr/leave-requests.
func (h *LeaveHandler) ListRequests(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	page := parsePage(c)
	filter := repository.LeaveFilter{EmployeeID: optionalQuery(c, "employee_id"), Page: page}
	if raw := optionalQuery(c, "status"); raw != nil {
		s := domain.LeaveStatus(*raw)
		filter.Status = &s
	}
	if raw := optionalQuery(c, "leave_type"); raw != nil {
		t := domain.LeaveType(*raw)
		filter.LeaveType = &t
	}
	if filter.From, err = parseDateQuery(c, "from"); err != nil {
		return err
	}
	if filter.To, err = parseDateQuery(c, "to"); err != nil {
		return err
	}
	requests, err := h.leave.ListRequests(c.UserContext(), actor, filter)
	if err != nil {
		return err
	}
	items := make([]dto.LeaveRequestResponse, 0, len(requests))
	for i := range requests {
		items = append(items, dto.NewLeaveRequestResponse(&requests[i]))
	}
	return respondList(c, items, len(items), page)
}

// GetRequest GET /hr/leave-requests/:id.
func (h *LeaveHandler) GetRequest(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	req, err := h.leave.GetRequest(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return respond(c, dto.NewLeaveRequestResponse(req))
}

// CreateRequest POST /hr/leave-requests.
func (h *LeaveHandler) CreateRequest(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var body dto.LeaveRequestCreate
	if err := bind(c, &body); err != nil {
		return err
	}
	req, err := h.leave.CreateRequest(c.UserContext(), actor, service.LeaveRequestInput{
		EmployeeID: body.EmployeeID,
		LeaveType:  domain.LeaveType(body.LeaveType),
		StartDate:  body.StartDate.Time,
		EndDate:    body.EndDate.Time,
		Reason:     body.Reason,
	})
	if err != nil {
		return err
	}
	return created(c, dto.NewLeaveRequestResponse(req))
}

// Approve POST /hr/leave-requests/:id/approve.
func (h *LeaveHandler) Approve(c *fiber.Ctx) error {
	return h.review(c, h.leave.Approve)
}

// Reject POST /hr/leave-requests/:id/reject.
func (h *LeaveHandler) Reject(c *fiber.Ctx) error {
	return h.review(c, h.leave.Reject)
}

// Cancel POST /hr/leave-requests/:id/cancel.
func (h *LeaveHandler) Cancel(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	req, err := h.leave.Cancel(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return respond(c, dto.NewLeaveRequestResponse(req))
}

type reviewFunc func(ctx context.Context, actor service.Actor, id, comment string) (*domain.LeaveRequest, error)

func (h *LeaveHandler) review(c *fiber.Ctx, fn reviewFunc) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var body dto.LeaveReviewRequest
	if len(c.Body()) > 0 {
		if err := bind(c, &body); err != nil {
			return err
		}
	}
	req, err := fn(c.UserContext(), actor, c.Params("id"), body.Comment)
	if err != nil {
		return err
	}
	return respond(c, dto.NewLeaveRequestResponse(req))
}

// Balances GET /hr/leave-balances?employee_id&year.
func (h *LeaveHandler) Balances(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	balances, err := h.leave.Balances(c.UserContext(), actor, c.Query("employee_id"), parseIntQuery(c, "year", 0))
	if err != nil {
		return err
	}
	items := make([]dto.LeaveBalanceResponse, 0, len(balances))
	for i := range balances {
		items = append(items, dto.NewLeaveBalanceResponse(&balances[i]))
	}
	return respond(c, items)
}

// SetBalance PUT /hr/leave-balances.
func (h *LeaveHandler) SetBalance(c *fiber.Ctx) error {
	var body dto.LeaveBalanceRequest
	if err := bind(c, &body); err != nil {
		return err
	}
	balance, err := h.leave.SetBalance(c.UserContext(), body.EmployeeID, body.Year, domain.LeaveType(body.LeaveType), body.TotalDays)
	if err != nil {
		return err
	}
	return respond(c, dto.NewLeaveBalanceResponse(balance))
}
