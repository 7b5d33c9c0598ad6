package service

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dolluzcorp/dassist-helpdesk/internal/auth"
	"github.com/dolluzcorp/dassist-helpdesk/internal/config"
	"github.com/dolluzcorp/dassist-helpdesk/internal/domain"
	"github.com/dolluzcorp/dassist-helpdesk/internal/events"
	"github.com/dolluzcorp/dassist-helpdesk/internal/notify"
	"github.com/dolluzcorp/dassist-helpdesk/internal/repository/memory"
	"github.com/dolluzcorp/dassist-helpdesk/internal/storage"
	apperrors "github.com/dolluzcorp/dassist-helpdesk/pkg/util"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fakeCooldown struct {
	held map[string]bool
	err  error
}

func (f *fakeCooldown) AcquireCooldown(_ context.Context, key string, _ time.Duration) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	if f.held[key] {
		return false, nil
	}
	f.held[key] = true
	return true, nil
}

type harness struct {
	store     *memory.Store
	mail      *notify.Recorder
	clock     *fakeClock
	cooldown  *fakeCooldown
	tickets   *TicketService
	employees *EmployeeService
	otps      *OTPService
	auth      *AuthService
	tokens    *auth.TokenManager
}

var testHelpdesk = config.HelpdeskConfig{
	OpsMailbox:      "info@dolluzcorp.com",
	CorporateDomain: "@dolluzcorp.com",
	TicketPrefix:    "DZIND",
	EmployeePrefix:  "dAssist",
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		store:    memory.NewStore(),
		mail:     &notify.Recorder{},
		clock:    &fakeClock{now: time.Date(2025, 7, 14, 10, 0, 0, 0, time.UTC)},
		cooldown: &fakeCooldown{held: map[string]bool{}},
		tokens:   auth.NewTokenManager("test-secret", 60),
	}
	files, err := storage.NewLocalStore(t.TempDir())
	require.NoError(t, err)

	dispatcher := events.NewInMemoryDispatcher()
	otpCfg := config.OTPConfig{TTLMinutes: 5, CooldownSeconds: 30}
	notifications := NewNotificationService(NotificationDependencies{
		Dispatcher: dispatcher,
		Mailer:     h.mail,
		Helpdesk:   testHelpdesk,
		OTP:        otpCfg,
	})
	notifications.RegisterHandlers()

	h.tickets = NewTicketService(TicketDependencies{
		TicketRepo:    h.store.Tickets(),
		HistoryRepo:   h.store.History(),
		EmployeeRepo:  h.store.Employees(),
		Files:         files,
		Notifier:      notifications,
		Dispatcher:    dispatcher,
		TicketPrefix:  testHelpdesk.TicketPrefix,
		AttachmentMax: 1024,
		Clock:         h.clock.Now,
	})
	h.employees = NewEmployeeService(EmployeeDependencies{
		EmployeeRepo: h.store.Employees(),
		Files:        files,
		Helpdesk:     testHelpdesk,
		BcryptCost:   bcrypt.MinCost,
		ImageMax:     1024,
		Clock:        h.clock.Now,
	})
	h.otps = NewOTPService(OTPDependencies{
		OTPRepo:      h.store.OTPs(),
		EmployeeRepo: h.store.Employees(),
		Cooldown:     h.cooldown,
		Sender:       notifications,
		Config:       otpCfg,
		Clock:        h.clock.Now,
		Generator:    func() (string, error) { return "482913", nil },
	})
	h.auth = NewAuthService(AuthDependencies{
		EmployeeRepo: h.store.Employees(),
		Tokens:       h.tokens,
		OTPs:         h.otps,
		BcryptCost:   bcrypt.MinCost,
		Clock:        h.clock.Now,
	})
	return h
}

func (h *harness) addEmployee(t *testing.T, name, email, level, password string) *domain.Employee {
	t.Helper()
	employee, err := h.employees.Create(context.Background(), "", EmployeeInput{
		Name:        name,
		Email:       email,
		Password:    password,
		MobileNo:    "9876543210",
		Department:  "Engineering",
		Type:        "Full Time",
		Location:    "Chennai",
		AccessLevel: level,
	})
	require.NoError(t, err)
	return employee
}

func (h *harness) submit(t *testing.T, empID string) *domain.Ticket {
	t.Helper()
	ticket, err := h.tickets.Submit(context.Background(), validSubmission(empID))
	require.NoError(t, err)
	return ticket
}

func validSubmission(empID string) SubmitTicketInput {
	return SubmitTicketInput{
		EmpID:         empID,
		Category:      "IT",
		Priority:      "High",
		ContactMethod: "Email",
		Subject:       "Laptop will not boot",
		Description:   "Black screen after the update.",
	}
}

func fileUpload(name, contentType string, body []byte) *storage.Upload {
	return &storage.Upload{
		Filename:    name,
		ContentType: contentType,
		Size:        int64(len(body)),
		Save: func(dst string) error {
			if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
				return err
			}
			return os.WriteFile(dst, body, 0o644)
		},
	}
}

func requireStatus(t *testing.T, err error, status int) *apperrors.DomainError {
	t.Helper()
	require.Error(t, err)
	domainErr := apperrors.ToDomainError(err)
	require.Equal(t, status, domainErr.HTTPStatus, domainErr.Error())
	return domainErr
}

func strPtr(s string) *string { return &s }
