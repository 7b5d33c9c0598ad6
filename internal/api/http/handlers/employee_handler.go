package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/dolluzcorp/dassist-helpdesk/internal/api/dto"
	"github.com/dolluzcorp/dassist-helpdesk/internal/service"
	apperrors "github.com/dolluzcorp/dassist-helpdesk/pkg/util"
)

// EmployeeHandler exposes the Employee Center.
type EmployeeHandler struct {
	employees *service.EmployeeService
}

// NewEmployeeHandler constructs handler.
func NewEmployeeHandler(employees *service.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{employees: employees}
}

// List GET /api/employee/all.
func (h *EmployeeHandler) List(c *fiber.Ctx) error {
	employees, err := h.employees.List(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.EmployeeResponse, 0, len(employees))
	for i := range employees {
		items = append(items, dto.NewEmployeeResponse(&employees[i]))
	}
	return data(c, http.StatusOK, items)
}

// Create POST /api/employee/create.
func (h *EmployeeHandler) Create(c *fiber.Ctx) error {
	actor, err := principal(c)
	if err != nil {
		return err
	}
	var req dto.EmployeeRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	employee, err := h.employees.Create(c.UserContext(), actor.EmpID(), employeeInput(req))
	if err != nil {
		return err
	}
	return data(c, http.StatusCreated, dto.NewEmployeeResponse(employee))
}

// Update PUT /api/employee/update/:id.
func (h *EmployeeHandler) Update(c *fiber.Ctx) error {
	actor, err := principal(c)
	if err != nil {
		return err
	}
	var req dto.EmployeeRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	employee, err := h.employees.Update(c.UserContext(), actor.EmpID(), c.Params("id"), employeeInput(req))
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, dto.NewEmployeeResponse(employee))
}

// Delete PUT /api/employee/delete/:id.
func (h *EmployeeHandler) Delete(c *fiber.Ctx) error {
	actor, err := principal(c)
	if err != nil {
		return err
	}
	if err := h.employees.Delete(c.UserContext(), actor.EmpID(), c.Params("id")); err != nil {
		return err
	}
	return data(c, http.StatusOK, dto.MessageResponse{Message: "Employee deleted"})
}

// UploadProfile POST /api/employee/upload-profile/:empId (multipart field "profile").
func (h *EmployeeHandler) UploadProfile(c *fiber.Ctx) error {
	upload, err := formUpload(c, "profile")
	if err != nil {
		return err
	}
	if upload == nil {
		return apperrors.NewValidationError("No file uploaded", map[string]any{"profile": "required"})
	}
	path, err := h.employees.UploadProfileImage(c.UserContext(), c.Params("empId"), upload)
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, dto.ProfileUploadResponse{Message: "Profile image uploaded", FilePath: path})
}

// Stats GET /api/employee/stats.
func (h *EmployeeHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.employees.Stats(c.UserContext(), c.Query("department"))
	if err != nil {
		return err
	}
	resp := dto.EmployeeStatsResponse{Total: stats.Total, ByDepartment: make([]dto.DepartmentCountResponse, 0, len(stats.ByDepartment))}
	for _, dc := range stats.ByDepartment {
		resp.ByDepartment = append(resp.ByDepartment, dto.DepartmentCountResponse{Department: dc.Department, Count: dc.Count})
	}
	return data(c, http.StatusOK, resp)
}

func employeeInput(req dto.EmployeeRequest) service.EmployeeInput {
	return service.EmployeeInput{
		Name:        req.Name,
		Email:       req.Email,
		Password:    req.Password,
		MobileNo:    req.MobileNo,
		Department:  req.Department,
		Type:        req.Type,
		Location:    req.Location,
		AccessLevel: req.AccessLevel,
		Active:      req.Active,
	}
}
