package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/dolluzcorp/dassist-helpdesk/internal/api/dto"
	"github.com/dolluzcorp/dassist-helpdesk/internal/service"
)

// LoginHandler exposes admin login and password endpoints.
type LoginHandler struct {
	auth *service.AuthService
}

// NewLoginHandler constructs handler.
func NewLoginHandler(authService *service.AuthService) *LoginHandler {
	return &LoginHandler{auth: authService}
}

// Login handles POST /api/login/login.
func (h *LoginHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	result, err := h.auth.Login(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, dto.LoginResponse{
		Employee: dto.NewEmployeeResponse(result.Employee),
		Auth:     dto.AuthResponse{Token: result.Token, ExpiresAt: result.ExpiresAt},
	})
}

// VerifyOldPassword handles POST /api/login/verify-old-password.
func (h *LoginHandler) VerifyOldPassword(c *fiber.Ctx) error {
	actor, err := principal(c)
	if err != nil {
		return err
	}
	var req dto.VerifyPasswordRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := h.auth.VerifyPassword(c.UserContext(), actor.EmpID(), req.OldPassword); err != nil {
		return err
	}
	return data(c, http.StatusOK, dto.MessageResponse{Message: "Password verified"})
}

// UpdatePassword handles POST /api/login/update-password.
func (h *LoginHandler) UpdatePassword(c *fiber.Ctx) error {
	actor, err := principal(c)
	if err != nil {
		return err
	}
	var req dto.UpdatePasswordRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := h.auth.UpdatePassword(c.UserContext(), actor.EmpID(), req.OldPassword, req.NewPassword); err != nil {
		return err
	}
	return data(c, http.StatusOK, dto.MessageResponse{Message: "Password updated successfully"})
}

// ResetPassword handles POST /api/login/reset-password.
func (h *LoginHandler) ResetPassword(c *fiber.Ctx) error {
	var req dto.ResetPasswordRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := h.auth.ResetPassword(c.UserContext(), req.Email, req.OTP, req.NewPassword); err != nil {
		return err
	}
	return data(c, http.StatusOK, dto.MessageResponse{Message: "Password reset successfully"})
}
