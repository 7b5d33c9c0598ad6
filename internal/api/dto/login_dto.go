package dto

import "time"

// LoginRequest payload; username is the employee email.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthResponse wraps tokens returned to clients.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// LoginResponse is a successful admin login.
type LoginResponse struct {
	Employee EmployeeResponse `json:"employee"`
	Auth     AuthResponse     `json:"auth"`
}

// VerifyPasswordRequest payload.
type VerifyPasswordRequest struct {
	OldPassword string `json:"oldPass"`
}

// UpdatePasswordRequest payload for the authenticated change.
type UpdatePasswordRequest struct {
	OldPassword string `json:"oldPass"`
	NewPassword string `json:"newPass"`
}

// ResetPasswordRequest payload for the OTP-backed reset.
type ResetPasswordRequest struct {
	Email       string `json:"email"`
	OTP         string `json:"otp"`
	NewPassword string `json:"newPass"`
}

// SendOTPRequest payload.
type SendOTPRequest struct {
	Email string `json:"email"`
}

// VerifyOTPRequest payload.
type VerifyOTPRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

// MessageResponse is a bare acknowledgement.
type MessageResponse struct {
	Message string `json:"message"`
}
