package dto

import (
	"time"

	"github.com/dolluzcorp/dassist-helpdesk/internal/domain"
)

// EmployeeRequest is the create/update payload. An empty account_pass keeps
// the stored password on update.
type EmployeeRequest struct {
	Name        string `json:"emp_name"`
	Email       string `json:"emp_mail_id"`
	Password    string `json:"account_pass"`
	MobileNo    string `json:"emp_mobile_no"`
	Department  string `json:"emp_department"`
	Type        string `json:"emp_type"`
	Location    string `json:"emp_location"`
	AccessLevel string `json:"emp_access_level"`
	Active      *bool  `json:"active"`
}

// EmployeeResponse never carries the password hash.
type EmployeeResponse struct {
	EmpID        string             `json:"emp_id"`
	Name         string             `json:"emp_name"`
	Email        string             `json:"emp_mail_id"`
	MobileNo     string             `json:"emp_mobile_no"`
	Department   string             `json:"emp_department"`
	Type         string             `json:"emp_type"`
	Location     string             `json:"emp_location"`
	AccessLevel  domain.AccessLevel `json:"emp_access_level"`
	Active       bool               `json:"active"`
	ProfileImage *string            `json:"emp_profile_img"`
	CreatedBy    *string            `json:"created_by"`
	CreatedTime  time.Time          `json:"created_time"`
	UpdatedBy    *string            `json:"updated_by"`
	UpdatedTime  *time.Time         `json:"updated_time"`
}

// PublicEmployeeResponse is what the ticket form may see about an employee.
type PublicEmployeeResponse struct {
	EmpID      string `json:"emp_id"`
	Name       string `json:"emp_name"`
	Email      string `json:"emp_mail_id"`
	MobileNo   string `json:"emp_mobile_no"`
	Department string `json:"emp_department"`
}

// ProfileUploadResponse returns the stored image path.
type ProfileUploadResponse struct {
	Message  string `json:"message"`
	FilePath string `json:"filePath"`
}

// DepartmentCountResponse is one slice of the employee chart.
type DepartmentCountResponse struct {
	Department string `json:"emp_department"`
	Count      int64  `json:"count"`
}

// EmployeeStatsResponse wraps the employee chart.
type EmployeeStatsResponse struct {
	Total        int64                     `json:"total"`
	ByDepartment []DepartmentCountResponse `json:"by_department"`
}

// NewEmployeeResponse maps a directory entry.
func NewEmployeeResponse(e *domain.Employee) EmployeeResponse {
	return EmployeeResponse{
		EmpID:        e.EmpID,
		Name:         e.Name,
		Email:        e.Email,
		MobileNo:     e.MobileNo,
		Department:   e.Department,
		Type:         e.Type,
		Location:     e.Location,
		AccessLevel:  e.AccessLevel,
		Active:       e.Active,
		ProfileImage: e.ProfileImage,
		CreatedBy:    e.CreatedBy,
		CreatedTime:  e.CreatedAt,
		UpdatedBy:    e.UpdatedBy,
		UpdatedTime:  e.UpdatedAt,
	}
}

// NewPublicEmployeeResponse maps the lookup view.
func NewPublicEmployeeResponse(e *domain.Employee) PublicEmployeeResponse {
	return PublicEmployeeResponse{
		EmpID:      e.EmpID,
		Name:       e.Name,
		Email:      e.Email,
		MobileNo:   e.MobileNo,
		Department: e.Department,
	}
}
