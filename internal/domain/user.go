package domain

import "time"

// Role enumerates ERP access roles.
type Role string

const (
	RoleAdmin       Role = "ADMIN"
	RoleHR          Role = "HR"
	RoleManager     Role = "MANAGER"
	RoleEmployee    Role = "EMPLOYEE"
	RoleSales       Role = "SALES"
	RoleWarehouse   Role = "WAREHOUSE"
	RoleProcurement Role = "PROCUREMENT"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleHR, RoleManager, RoleEmployee, RoleSales, RoleWarehouse, RoleProcurement:
		return true
	}
	return false
}

// UserStatus represents lifecycle states for an account.
type UserStatus string

const (
	UserStatusActive    UserStatus = "ACTIVE"
	UserStatusSuspended UserStatus = "SUSPENDED"
)

// User is an account that can sign in to the ERP.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	Status       UserStatus
	EmployeeID   *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
