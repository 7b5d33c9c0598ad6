package domain

import (
	"strings"
	"time"
)

// AccessLevel controls what an employee may do through the admin surface.
type AccessLevel string

const (
	AccessLevelAdmin AccessLevel = "Admin"
	AccessLevelUser  AccessLevel = "User"
)

// ParseAccessLevel normalizes an access level case-insensitively.
func ParseAccessLevel(raw string) (AccessLevel, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "admin":
		return AccessLevelAdmin, true
	case "user":
		return AccessLevelUser, true
	}
	return "", false
}

// IsAdmin reports whether the level grants admin access. Stored values from
// older rows may differ in case.
func (a AccessLevel) IsAdmin() bool {
	return strings.EqualFold(string(a), string(AccessLevelAdmin))
}

// Employee is a directory entry. Soft-deleted rows carry DeletedBy/DeletedAt.
type Employee struct {
	ID           int64
	EmpID        string
	Name         string
	Email        string
	PasswordHash string
	MobileNo     string
	Department   string
	Type         string
	Location     string
	AccessLevel  AccessLevel
	Active       bool
	ProfileImage *string
	CreatedBy    *string
	CreatedAt    time.Time
	UpdatedBy    *string
	UpdatedAt    *time.Time
	DeletedBy    *string
	DeletedAt    *time.Time
}

// Deleted reports whether the employee has been soft deleted.
func (e *Employee) Deleted() bool {
	return e.DeletedAt != nil
}

// CanLogin reports whether the account may authenticate at all.
func (e *Employee) CanLogin() bool {
	return e.Active && !e.Deleted()
}

// DepartmentCount is one slice of the employee dashboard chart.
type DepartmentCount struct {
	Department string
	Count      int64
}
