package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/dolluzcorp/dassist-helpdesk/internal/api/dto"
	"github.com/dolluzcorp/dassist-helpdesk/internal/domain"
	"github.com/dolluzcorp/dassist-helpdesk/internal/service"
)

// OTPHandler serves send-otp and verify-otp for one mount. The purpose picks
// the mail template.
type OTPHandler struct {
	otps    *service.OTPService
	purpose domain.OTPPurpose
}

// NewOTPHandler constructs handler.
func NewOTPHandler(otps *service.OTPService, purpose domain.OTPPurpose) *OTPHandler {
	return &OTPHandler{otps: otps, purpose: purpose}
}

// Send handles POST .../send-otp.
func (h *OTPHandler) Send(c *fiber.Ctx) error {
	var req dto.SendOTPRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := h.otps.Send(c.UserContext(), req.Email, h.purpose); err != nil {
		return err
	}
	return data(c, http.StatusOK, dto.MessageResponse{Message: "OTP sent successfully"})
}

// Verify handles POST .../verify-otp.
func (h *OTPHandler) Verify(c *fiber.Ctx) error {
	var req dto.VerifyOTPRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := h.otps.Verify(c.UserContext(), req.Email, req.OTP); err != nil {
		return err
	}
	return data(c, http.StatusOK, dto.MessageResponse{Message: "OTP verified successfully"})
}
