package dto

import (
	"time"

	"github.com/spec-kit/erp-service/internal/domain"
)

// LeaveCalculateRequest asks for the working days of a date range.
type LeaveCalculateRequest struct {
	StartDate Date `json:"start_date"`
	EndDate   Date `json:"end_date"`
}

type LeaveCalculateResponse struct {
	StartDate   Date `json:"start_date"`
	EndDate     Date `json:"end_date"`
	WorkingDays int  `json:"working_days"`
}

// LeaveRequestCreate files a leave request. EmployeeID defaults to the caller's employee.
type LeaveRequestCreate struct {
	EmployeeID string `json:"employee_id"`
	LeaveType  string `json:"leave_type"`
	StartDate  Date   `json:"start_date"`
	EndDate    Date   `json:"end_date"`
	Reason     string `json:"reason"`
}

// LeaveReviewRequest carries the reviewer comment for approve/reject.
type LeaveReviewRequest struct {
	Comment string `json:"comment"`
}

type LeaveRequestResponse struct {
	ID            string     `json:"id"`
	EmployeeID    string     `json:"employee_id"`
	LeaveType     string     `json:"leave_type"`
	StartDate     Date       `json:"start_date"`
	EndDate       Date       `json:"end_date"`
	WorkingDays   int        `json:"working_days"`
	Reason        string     `json:"reason"`
	Status        string     `json:"status"`
	ReviewerID    *string    `json:"reviewer_id"`
	ReviewComment string     `json:"review_comment"`
	ReviewedAt    *time.Time `json:"reviewed_at"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func NewLeaveRequestResponse(r *domain.LeaveRequest) LeaveRequestResponse {
	return LeaveRequestResponse{
		ID:            r.ID,
		EmployeeID:    r.EmployeeID,
		LeaveType:     string(r.LeaveType),
		StartDate:     NewDate(r.StartDate),
		EndDate:       NewDate(r.EndDate),
		WorkingDays:   r.WorkingDays,
		Reason:        r.Reason,
		Status:        string(r.Status),
		ReviewerID:    r.ReviewerID,
		ReviewComment: r.ReviewComment,
		ReviewedAt:    r.ReviewedAt,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

// LeaveBalanceRequest sets the yearly allowance of a tracked leave type.
type LeaveBalanceRequest struct {
	EmployeeID string `json:"employee_id"`
	Year       int    `json:"year"`
	LeaveType  string `json:"leave_type"`
	TotalDays  int    `json:"total_days"`
}

type LeaveBalanceResponse struct {
	EmployeeID    string `json:"employee_id"`
	Year          int    `json:"year"`
	LeaveType     string `json:"leave_type"`
	TotalDays     int    `json:"total_days"`
	UsedDays      int    `json:"used_days"`
	RemainingDays int    `json:"remaining_days"`
}

func NewLeaveBalanceResponse(b *domain.LeaveBalance) LeaveBalanceResponse {
	return LeaveBalanceResponse{
		EmployeeID:    b.EmployeeID,
		Year:          b.Year,
		LeaveType:     string(b.LeaveType),
		TotalDays:     b.TotalDays,
		UsedDays:      b.UsedDays,
		RemainingDays: b.Remaining(),
	}
}
