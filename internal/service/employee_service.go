package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/dolluzcorp/dassist-helpdesk/internal/auth"
	"github.com/dolluzcorp/dassist-helpdesk/internal/config"
	"github.com/dolluzcorp/dassist-helpdesk/internal/domain"
	"github.com/dolluzcorp/dassist-helpdesk/internal/repository"
	"github.com/dolluzcorp/dassist-helpdesk/internal/storage"
	apperrors "github.com/dolluzcorp/dassist-helpdesk/pkg/util"
)

// EmployeeService manages the employee directory.
type EmployeeService struct {
	employees  repository.EmployeeRepository
	files      storage.Store
	logger     *zap.Logger
	domain     string
	prefix     string
	bcryptCost int
	maxImage   int64
	clock      Clock
}

// EmployeeDependencies bundles collaborators for the directory.
type EmployeeDependencies struct {
	EmployeeRepo repository.EmployeeRepository
	Files        storage.Store
	Logger       *zap.Logger
	Helpdesk     config.HelpdeskConfig
	BcryptCost   int
	ImageMax     int64
	Clock        Clock
}

// EmployeeInput is the create/update form. An empty Password keeps the stored
// hash on update; a nil Active means active on create and unchanged on update.
type EmployeeInput struct {
	Name        string
	Email       string
	Password    string
	MobileNo    string
	Department  string
	Type        string
	Location    string
	AccessLevel string
	Active      *bool
}

// EmployeeStats is the employee dashboard chart.
type EmployeeStats struct {
	Total        int64
	ByDepartment []domain.DepartmentCount
}

// NewEmployeeService constructs the service.
func NewEmployeeService(deps EmployeeDependencies) *EmployeeService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EmployeeService{
		employees:  deps.EmployeeRepo,
		files:      deps.Files,
		logger:     logger,
		domain:     strings.ToLower(deps.Helpdesk.CorporateDomain),
		prefix:     deps.Helpdesk.EmployeePrefix,
		bcryptCost: deps.BcryptCost,
		maxImage:   deps.ImageMax,
		clock:      deps.Clock,
	}
}

// Create adds an employee on behalf of actorID.
func (s *EmployeeService) Create(ctx context.Context, actorID string, input EmployeeInput) (*domain.Employee, error) {
	level, err := s.validate(&input)
	if err != nil {
		return nil, err
	}
	if level.IsAdmin() && input.Password == "" {
		return nil, apperrors.NewValidationError("password is required for Admin access", map[string]any{"password": "required"})
	}

	employee := &domain.Employee{
		Name:        input.Name,
		Email:       input.Email,
		MobileNo:    input.MobileNo,
		Department:  input.Department,
		Type:        input.Type,
		Location:    input.Location,
		AccessLevel: level,
		Active:      input.Active == nil || *input.Active,
		CreatedBy:   optional(actorID),
		CreatedAt:   stamp(s.clock),
	}
	if input.Password != "" {
		hash, err := auth.HashPassword(input.Password, s.bcryptCost)
		if err != nil {
			return nil, apperrors.NewInternalError(err)
		}
		employee.PasswordHash = hash
	}

	if err := s.employees.Create(ctx, employee, s.prefix); err != nil {
		return nil, s.conflict(err, employee.Email)
	}
	s.logger.Info("employee created", zap.String("emp_id", employee.EmpID), zap.String("actor", actorID))
	return employee, nil
}

// EnsureAdmin seeds the bootstrap admin unless a live employee already holds
// its email. The returned flag reports whether an account was created.
func (s *EmployeeService) EnsureAdmin(ctx context.Context, seed config.BootstrapAdminConfig) (*domain.Employee, bool, error) {
	email := normalizeEmail(seed.Email)
	if email == "" {
		return nil, false, nil
	}
	existing, err := s.employees.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if !existing.AccessLevel.IsAdmin() || !existing.CanLogin() {
			s.logger.Warn("bootstrap admin email belongs to an account that cannot log in", zap.String("emp_id", existing.EmpID))
		}
		return existing, false, nil
	case !errors.Is(err, repository.ErrNotFound):
		return nil, false, err
	}

	employee, err := s.Create(ctx, "", EmployeeInput{
		Name:        seed.Name,
		Email:       email,
		Password:    seed.Password,
		MobileNo:    seed.MobileNo,
		Department:  "Administration",
		Type:        "System",
		Location:    "Head Office",
		AccessLevel: string(domain.AccessLevelAdmin),
	})
	if err != nil {
		return nil, false, err
	}
	s.logger.Info("bootstrap admin created", zap.String("emp_id", employee.EmpID))
	return employee, true, nil
}

// Update replaces the editable fields of empID.
func (s *EmployeeService) Update(ctx context.Context, actorID, empID string, input EmployeeInput) (*domain.Employee, error) {
	existing, err := s.employees.GetByEmpID(ctx, empID)
	if err != nil {
		return nil, notFound(err, "employee", map[string]any{"emp_id": empID})
	}
	level, err := s.validate(&input)
	if err != nil {
		return nil, err
	}
	if level.IsAdmin() && input.Password == "" && existing.PasswordHash == "" {
		return nil, apperrors.NewValidationError("password is required for Admin access", map[string]any{"password": "required"})
	}

	at := stamp(s.clock)
	updated := *existing
	updated.Name = input.Name
	updated.Email = input.Email
	updated.MobileNo = input.MobileNo
	updated.Department = input.Department
	updated.Type = input.Type
	updated.Location = input.Location
	updated.AccessLevel = level
	if input.Active != nil {
		updated.Active = *input.Active
	}
	if input.Password != "" {
		hash, err := auth.HashPassword(input.Password, s.bcryptCost)
		if err != nil {
			return nil, apperrors.NewInternalError(err)
		}
		updated.PasswordHash = hash
	}
	updated.UpdatedBy = optional(actorID)
	updated.UpdatedAt = &at

	if err := s.employees.Update(ctx, &updated); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("employee", map[string]any{"emp_id": empID})
		}
		return nil, s.conflict(err, updated.Email)
	}
	s.logger.Info("employee updated", zap.String("emp_id", empID), zap.String("actor", actorID))
	return &updated, nil
}

// Delete soft deletes empID. The row stays for ticket joins.
func (s *EmployeeService) Delete(ctx context.Context, actorID, empID string) error {
	if err := s.employees.SoftDelete(ctx, empID, actorID, stamp(s.clock)); err != nil {
		return notFound(err, "employee", map[string]any{"emp_id": empID})
	}
	s.logger.Info("employee deleted", zap.String("emp_id", empID), zap.String("actor", actorID))
	return nil
}

// List returns live employees newest first.
func (s *EmployeeService) List(ctx context.Context) ([]domain.Employee, error) {
	return s.employees.List(ctx)
}

// Get returns one live employee.
func (s *EmployeeService) Get(ctx context.Context, empID string) (*domain.Employee, error) {
	employee, err := s.employees.GetByEmpID(ctx, empID)
	if err != nil {
		return nil, notFound(err, "employee", map[string]any{"emp_id": empID})
	}
	return employee, nil
}

// GetByEmail backs the public lookup on the ticket form.
func (s *EmployeeService) GetByEmail(ctx context.Context, email string) (*domain.Employee, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, apperrors.NewValidationError("email is required", nil)
	}
	employee, err := s.employees.GetByEmail(ctx, email)
	if err != nil {
		return nil, notFound(err, "employee", map[string]any{"email": email})
	}
	return employee, nil
}

// UploadProfileImage stores an image and records its public path.
func (s *EmployeeService) UploadProfileImage(ctx context.Context, empID string, upload *storage.Upload) (string, error) {
	if upload == nil {
		return "", apperrors.NewValidationError("profile image is required", map[string]any{"profile": "required"})
	}
	if !strings.HasPrefix(strings.ToLower(upload.ContentType), "image/") {
		return "", apperrors.NewValidationError("only image files are allowed", map[string]any{"profile": upload.ContentType})
	}
	if s.maxImage > 0 && upload.Size > s.maxImage {
		return "", apperrors.NewValidationError("file too large", map[string]any{"profile": "file too large"})
	}
	if _, err := s.employees.GetByEmpID(ctx, empID); err != nil {
		return "", notFound(err, "employee", map[string]any{"emp_id": empID})
	}
	if s.files == nil {
		return "", apperrors.NewInternalError(errors.New("profile storage not configured"))
	}

	stored, err := s.files.Put(storage.ProfileImageDir, upload)
	if err != nil {
		return "", apperrors.NewInternalError(err)
	}
	if err := s.employees.SetProfileImage(ctx, empID, stored, stamp(s.clock)); err != nil {
		if rmErr := s.files.Remove(stored); rmErr != nil {
			s.logger.Warn("remove orphaned profile image", zap.String("path", stored), zap.Error(rmErr))
		}
		return "", notFound(err, "employee", map[string]any{"emp_id": empID})
	}
	return stored, nil
}

// Stats counts live employees per department.
func (s *EmployeeService) Stats(ctx context.Context, department string) (*EmployeeStats, error) {
	counts, err := s.employees.CountByDepartment(ctx, strings.TrimSpace(department))
	if err != nil {
		return nil, err
	}
	stats := &EmployeeStats{ByDepartment: counts}
	for _, c := range counts {
		stats.Total += c.Count
	}
	return stats, nil
}

// validate trims input in place and returns the parsed access level.
func (s *EmployeeService) validate(input *EmployeeInput) (domain.AccessLevel, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = normalizeEmail(input.Email)
	input.MobileNo = strings.TrimSpace(input.MobileNo)
	input.Department = strings.TrimSpace(input.Department)
	input.Type = strings.TrimSpace(input.Type)
	input.Location = strings.TrimSpace(input.Location)

	problems := fieldErrors{}
	if input.Name == "" {
		problems.add("name", "required")
	}
	switch {
	case input.Email == "":
		problems.add("email", "required")
	case s.domain != "" && !strings.HasSuffix(input.Email, s.domain):
		problems.add("email", "must end with "+s.domain)
	}
	if !isTenDigits(input.MobileNo) {
		problems.add("mobile_no", "must be 10 digits")
	}
	if input.Department == "" {
		problems.add("department", "required")
	}
	if input.Type == "" {
		problems.add("type", "required")
	}
	if input.Location == "" {
		problems.add("location", "required")
	}
	level, ok := domain.ParseAccessLevel(input.AccessLevel)
	if !ok {
		problems.add("access_level", "must be Admin or User")
	}
	return level, problems.err("invalid employee")
}

func (s *EmployeeService) conflict(err error, email string) error {
	if errors.Is(err, repository.ErrDuplicate) {
		return apperrors.NewConflict("email already exists", map[string]any{"email": email})
	}
	return err
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
