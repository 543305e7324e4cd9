package domain

import "time"

// LeaveType enumerates kinds of absence.
type LeaveType string

const (
	LeaveTypeAnnual    LeaveType = "ANNUAL"
	LeaveTypeSick      LeaveType = "SICK"
	LeaveTypeUnpaid    LeaveType = "UNPAID"
	LeaveTypeMaternity LeaveType = "MATERNITY"
	LeaveTypePaternity LeaveType = "PATERNITY"
)

// Valid reports whether t is a known leave type.
func (t LeaveType) Valid() bool {
	switch t {
	case LeaveTypeAnnual, LeaveTypeSick, LeaveTypeUnpaid, LeaveTypeMaternity, LeaveTypePaternity:
		return true
	}
	return false
}

// Tracked reports whether requests of this type draw down a balance.
func (t LeaveType) Tracked() bool {
	return t == LeaveTypeAnnual || t == LeaveTypeSick
}

// LeaveStatus enumerates request lifecycle states.
type LeaveStatus string

const (
	LeaveStatusPending   LeaveStatus = "PENDING"
	LeaveStatusApproved  LeaveStatus = "APPROVED"
	LeaveStatusRejected  LeaveStatus = "REJECTED"
	LeaveStatusCancelled LeaveStatus = "CANCELLED"
)

// LeaveRequest is an employee's request for time off.
type LeaveRequest struct {
	ID            string
	EmployeeID    string
	LeaveType     LeaveType
	StartDate     time.Time
	EndDate       time.Time
	WorkingDays   int
	Reason        string
	Status        LeaveStatus
	ReviewerID    *string
	ReviewComment string
	ReviewedAt    *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// LeaveBalance tracks the allowance of one leave type for one year.
type LeaveBalance struct {
	ID         string
	EmployeeID string
	Year       int
	LeaveType  LeaveType
	TotalDays  int
	UsedDays   int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Remaining returns the unused allowance.
func (b LeaveBalance) Remaining() int {
	return b.TotalDays - b.UsedDays
}
