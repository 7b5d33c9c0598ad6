package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/dolluzcorp/dassist-helpdesk/internal/auth"
	"github.com/dolluzcorp/dassist-helpdesk/internal/domain"
	"github.com/dolluzcorp/dassist-helpdesk/internal/repository"
	apperrors "github.com/dolluzcorp/dassist-helpdesk/pkg/util"
)

var errInvalidCredentials = apperrors.NewUnauthorized("Invalid credentials")

// OTPConsumer verifies and burns a one-time code.
type OTPConsumer interface {
	Consume(ctx context.Context, email, code string) error
}

// AuthService coordinates login and password flows.
type AuthService struct {
	employees  repository.EmployeeRepository
	tokens     *auth.TokenManager
	otps       OTPConsumer
	logger     *zap.Logger
	bcryptCost int
	clock      Clock
}

// AuthDependencies encapsulates collaborators for the auth service.
type AuthDependencies struct {
	EmployeeRepo repository.EmployeeRepository
	Tokens       *auth.TokenManager
	OTPs         OTPConsumer
	Logger       *zap.Logger
	BcryptCost   int
	Clock        Clock
}

// LoginResult is a successful admin login.
type LoginResult struct {
	Employee  *domain.Employee
	Token     string
	ExpiresAt time.Time
}

// NewAuthService builds the service.
func NewAuthService(deps AuthDependencies) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		employees:  deps.EmployeeRepo,
		tokens:     deps.Tokens,
		otps:       deps.OTPs,
		logger:     logger,
		bcryptCost: deps.BcryptCost,
		clock:      deps.Clock,
	}
}

// Login authenticates by email and password. Only Admin accounts get a
// session; every other account is refused with 403 after the password check.
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	email := normalizeEmail(username)
	if email == "" || password == "" {
		return nil, apperrors.NewValidationError("username and password are required", nil)
	}

	employee, err := s.employees.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errInvalidCredentials
		}
		return nil, err
	}
	if !employee.CanLogin() {
		return nil, errInvalidCredentials
	}
	if err := s.checkPassword(employee, password); err != nil {
		return nil, err
	}
	if !employee.AccessLevel.IsAdmin() {
		s.logger.Info("non-admin login refused", zap.String("emp_id", employee.EmpID))
		return nil, apperrors.NewForbidden("Access denied. Only admins can login.")
	}

	token, expiresAt, err := s.tokens.GenerateToken(employee)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	s.logger.Info("login", zap.String("emp_id", employee.EmpID))
	return &LoginResult{Employee: employee, Token: token, ExpiresAt: expiresAt}, nil
}

// VerifyPassword checks the caller's current password.
func (s *AuthService) VerifyPassword(ctx context.Context, empID, password string) error {
	employee, err := s.employees.GetByEmpID(ctx, empID)
	if err != nil {
		return notFound(err, "employee", map[string]any{"emp_id": empID})
	}
	return s.checkPassword(employee, password)
}

// UpdatePassword changes the caller's password after checking the old one.
func (s *AuthService) UpdatePassword(ctx context.Context, empID, oldPassword, newPassword string) error {
	if strings.TrimSpace(newPassword) == "" {
		return apperrors.NewValidationError("new password is required", map[string]any{"new_password": "required"})
	}
	if err := s.VerifyPassword(ctx, empID, oldPassword); err != nil {
		return err
	}
	return s.setPassword(ctx, empID, empID, newPassword)
}

// ResetPassword sets a new password for the holder of a valid OTP. The code
// is consumed, so it cannot be used twice.
func (s *AuthService) ResetPassword(ctx context.Context, email, otp, newPassword string) error {
	email = normalizeEmail(email)
	if strings.TrimSpace(newPassword) == "" {
		return apperrors.NewValidationError("new password is required", map[string]any{"new_password": "required"})
	}
	employee, err := s.employees.GetByEmail(ctx, email)
	if err != nil {
		return notFound(err, "employee", map[string]any{"email": email})
	}
	if s.otps == nil {
		return apperrors.NewInternalError(errors.New("otp service not configured"))
	}
	if err := s.otps.Consume(ctx, email, otp); err != nil {
		return err
	}
	return s.setPassword(ctx, employee.EmpID, employee.EmpID, newPassword)
}

func (s *AuthService) checkPassword(employee *domain.Employee, password string) error {
	if err := auth.ComparePassword(employee.PasswordHash, password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return errInvalidCredentials
		}
		return apperrors.NewInternalError(err)
	}
	return nil
}

func (s *AuthService) setPassword(ctx context.Context, empID, actorID, password string) error {
	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	if err := s.employees.UpdatePassword(ctx, empID, hash, actorID, stamp(s.clock)); err != nil {
		return notFound(err, "employee", map[string]any{"emp_id": empID})
	}
	s.logger.Info("password updated", zap.String("emp_id", empID))
	return nil
}
