package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/dolluzcorp/dassist-helpdesk/internal/domain"
	"github.com/dolluzcorp/dassist-helpdesk/internal/repository"
)

type employeeStore struct{ s *Store }

func (r employeeStore) Create(_ context.Context, employee *domain.Employee, prefix string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.s.emailTaken(employee.Email, "") {
		return repository.ErrDuplicate
	}
	r.s.employeeSeq++
	employee.ID = r.s.employeeSeq
	employee.EmpID = domain.FormatEmployeeID(prefix, employee.CreatedAt.Year(), employee.ID)
	stored := *employee
	r.s.employees[employee.EmpID] = &stored
	return nil
}

func (r employeeStore) Update(_ context.Context, employee *domain.Employee) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.live(employee.EmpID)
	if !ok {
		return repository.ErrNotFound
	}
	if r.s.emailTaken(employee.Email, employee.EmpID) {
		return repository.ErrDuplicate
	}
	stored.Name = employee.Name
	stored.Email = employee.Email
	stored.PasswordHash = employee.PasswordHash
	stored.MobileNo = employee.MobileNo
	stored.Department = employee.Department
	stored.Type = employee.Type
	stored.Location = employee.Location
	stored.AccessLevel = employee.AccessLevel
	stored.Active = employee.Active
	stored.UpdatedBy = employee.UpdatedBy
	stored.UpdatedAt = employee.UpdatedAt
	return nil
}

func (r employeeStore) SoftDelete(_ context.Context, empID, deletedBy string, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.live(empID)
	if !ok {
		return repository.ErrNotFound
	}
	stored.DeletedBy = &deletedBy
	stored.DeletedAt = &at
	return nil
}

func (r employeeStore) GetByEmpID(_ context.Context, empID string) (*domain.Employee, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.live(empID)
	if !ok {
		return nil, repository.ErrNotFound
	}
	employee := *stored
	return &employee, nil
}

func (r employeeStore) GetByEmail(_ context.Context, email string) (*domain.Employee, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, stored := range r.s.employees {
		if !stored.Deleted() && strings.EqualFold(stored.Email, email) {
			employee := *stored
			return &employee, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r employeeStore) List(_ context.Context) ([]domain.Employee, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	employees := []domain.Employee{}
	for _, stored := range r.s.employees {
		if !stored.Deleted() {
			employees = append(employees, *stored)
		}
	}
	sort.Slice(employees, func(i, j int) bool {
		if !employees[i].CreatedAt.Equal(employees[j].CreatedAt) {
			return employees[i].CreatedAt.After(employees[j].CreatedAt)
		}
		return employees[i].ID > employees[j].ID
	})
	return employees, nil
}

func (r employeeStore) SetProfileImage(_ context.Context, empID, path string, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.live(empID)
	if !ok {
		return repository.ErrNotFound
	}
	stored.ProfileImage = &path
	stored.UpdatedAt = &at
	return nil
}

func (r employeeStore) UpdatePassword(_ context.Context, empID, hash, updatedBy string, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.live(empID)
	if !ok {
		return repository.ErrNotFound
	}
	stored.PasswordHash = hash
	stored.UpdatedBy = &updatedBy
	stored.UpdatedAt = &at
	return nil
}

func (r employeeStore) CountByDepartment(_ context.Context, department string) ([]domain.DepartmentCount, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	totals := map[string]int64{}
	for _, stored := range r.s.employees {
		if stored.Deleted() || (department != "" && stored.Department != department) {
			continue
		}
		totals[stored.Department]++
	}
	counts := make([]domain.DepartmentCount, 0, len(totals))
	for dept, n := range totals {
		counts = append(counts, domain.DepartmentCount{Department: dept, Count: n})
	}
	sort.Slice(counts, func(i, j int) bool { return counts[i].Department < counts[j].Department })
	return counts, nil
}

func (s *Store) live(empID string) (*domain.Employee, bool) {
	stored, ok := s.employees[empID]
	if !ok || stored.Deleted() {
		return nil, false
	}
	return stored, true
}

func (s *Store) emailTaken(email, exceptEmpID string) bool {
	for id, stored := range s.employees {
		if id != exceptEmpID && !stored.Deleted() && strings.EqualFold(stored.Email, email) {
			return true
		}
	}
	return false
}

type otpStore struct{ s *Store }

func (r otpStore) Upsert(_ context.Context, record *domain.OTPRecord) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.otps[record.Identifier] = *record
	return nil
}

func (r otpStore) Get(_ context.Context, identifier string) (*domain.OTPRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	record, ok := r.s.otps[identifier]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &record, nil
}

func (r otpStore) Delete(_ context.Context, identifier string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.otps, identifier)
	return nil
}
