package service

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/dolluzcorp/dassist-helpdesk/internal/config"
	"github.com/dolluzcorp/dassist-helpdesk/internal/domain"
	"github.com/dolluzcorp/dassist-helpdesk/internal/repository"
	apperrors "github.com/dolluzcorp/dassist-helpdesk/pkg/util"
)

// CooldownStore rate limits OTP sends per identifier.
type CooldownStore interface {
	AcquireCooldown(ctx context.Context, key string, ttl time.Duration) (bool, error)
}

// OTPSender delivers a code to its owner.
type OTPSender interface {
	SendOTP(ctx context.Context, email string, purpose domain.OTPPurpose, code string) error
}

// OTPService issues and checks one-time codes.
type OTPService struct {
	otps      repository.OTPRepository
	employees repository.EmployeeRepository
	cooldown  CooldownStore
	sender    OTPSender
	logger    *zap.Logger
	ttl       time.Duration
	spacing   time.Duration
	clock     Clock
	generate  func() (string, error)
}

// OTPDependencies bundles collaborators for the OTP service. Cooldown may be
// nil, which disables send spacing.
type OTPDependencies struct {
	OTPRepo      repository.OTPRepository
	EmployeeRepo repository.EmployeeRepository
	Cooldown     CooldownStore
	Sender       OTPSender
	Logger       *zap.Logger
	Config       config.OTPConfig
	Clock        Clock
	Generator    func() (string, error)
}

// NewOTPService constructs the service.
func NewOTPService(deps OTPDependencies) *OTPService {
	s := &OTPService{
		otps:      deps.OTPRepo,
		employees: deps.EmployeeRepo,
		cooldown:  deps.Cooldown,
		sender:    deps.Sender,
		logger:    deps.Logger,
		ttl:       deps.Config.TTL(),
		spacing:   deps.Config.Cooldown(),
		clock:     deps.Clock,
		generate:  deps.Generator,
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.clock == nil {
		s.clock = time.Now
	}
	if s.generate == nil {
		s.generate = GenerateOTP
	}
	return s
}

// GenerateOTP returns a uniformly random six digit code without a leading zero.
func GenerateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

// Send issues a fresh code for a known employee, replacing any earlier one.
func (s *OTPService) Send(ctx context.Context, email string, purpose domain.OTPPurpose) error {
	email = normalizeEmail(email)
	if email == "" {
		return apperrors.NewValidationError("email is required", nil)
	}
	if _, err := s.employees.GetByEmail(ctx, email); err != nil {
		return notFound(err, "employee", map[string]any{"email": email})
	}

	if s.cooldown != nil && s.spacing > 0 {
		acquired, err := s.cooldown.AcquireCooldown(ctx, "otp:cooldown:"+email, s.spacing)
		switch {
		case err != nil:
			s.logger.Warn("otp cooldown unavailable; continuing", zap.String("email", email), zap.Error(err))
		case !acquired:
			return apperrors.NewTooManyRequests("otp recently sent; try again shortly")
		}
	}

	code, err := s.generate()
	if err != nil {
		return apperrors.NewInternalError(fmt.Errorf("generate otp: %w", err))
	}
	record := &domain.OTPRecord{Identifier: email, Code: code, ExpiresAt: stamp(s.clock).Add(s.ttl)}
	if err := s.otps.Upsert(ctx, record); err != nil {
		return apperrors.NewInternalError(fmt.Errorf("store otp: %w", err))
	}

	if err := s.sender.SendOTP(ctx, email, purpose, code); err != nil {
		s.logger.Error("otp mail failed", zap.String("email", email), zap.String("purpose", string(purpose)), zap.Error(err))
		return &apperrors.DomainError{
			Code:       "OTP_MAIL_FAILED",
			Message:    "failed to send otp email",
			HTTPStatus: http.StatusInternalServerError,
			Err:        err,
		}
	}
	return nil
}

// Verify checks code against the stored one. A wrong code is reported before
// expiry, so an expired but matching code yields 410.
func (s *OTPService) Verify(ctx context.Context, email, code string) error {
	email = normalizeEmail(email)
	if email == "" || code == "" {
		return apperrors.NewValidationError("email and otp are required", nil)
	}
	record, err := s.otps.Get(ctx, email)
	if err != nil {
		return notFound(err, "otp", nil)
	}
	if subtle.ConstantTimeCompare([]byte(record.Code), []byte(code)) != 1 {
		return apperrors.NewUnauthorized("invalid otp")
	}
	if record.Expired(s.clock()) {
		return apperrors.NewGone("otp expired")
	}
	return nil
}

// Consume verifies and then deletes the code so it cannot be replayed.
func (s *OTPService) Consume(ctx context.Context, email, code string) error {
	if err := s.Verify(ctx, email, code); err != nil {
		return err
	}
	if err := s.otps.Delete(ctx, normalizeEmail(email)); err != nil && !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	return nil
}
