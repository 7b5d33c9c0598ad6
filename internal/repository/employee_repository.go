package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/dolluzcorp/dassist-helpdesk/internal/domain"
)

// EmployeeRepository manages the employee directory. Every read hides
// soft-deleted rows.
type EmployeeRepository interface {
	Create(ctx context.Context, employee *domain.Employee, prefix string) error
	Update(ctx context.Context, employee *domain.Employee) error
	SoftDelete(ctx context.Context, empID, deletedBy string, at time.Time) error
	GetByEmpID(ctx context.Context, empID string) (*domain.Employee, error)
	GetByEmail(ctx context.Context, email string) (*domain.Employee, error)
	List(ctx context.Context) ([]domain.Employee, error)
	SetProfileImage(ctx context.Context, empID, path string, at time.Time) error
	UpdatePassword(ctx context.Context, empID, hash, updatedBy string, at time.Time) error
	CountByDepartment(ctx context.Context, department string) ([]domain.DepartmentCount, error)
}

type employeeRepository struct {
	db DB
}

// NewEmployeeRepository creates a repository backed by postgres.
func NewEmployeeRepository(db DB) EmployeeRepository {
	return &employeeRepository{db: db}
}

const employeeColumns = `
        id, emp_id, emp_name, emp_mail_id, password_hash, emp_mobile_no, emp_department, emp_type,
        emp_location, emp_access_level, is_active, emp_profile_img, created_by, created_time,
        updated_by, updated_time, deleted_by, deleted_time`

func (r *employeeRepository) Create(ctx context.Context, employee *domain.Employee, prefix string) error {
	const insert = `
        INSERT INTO employee (id, emp_id, emp_name, emp_mail_id, password_hash, emp_mobile_no, emp_department,
            emp_type, emp_location, emp_access_level, is_active, created_by, created_time)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`

	err := inTx(ctx, r.db, func(tx pgx.Tx) error {
		var key int64
		if err := tx.QueryRow(ctx, `SELECT nextval('employee_seq')`).Scan(&key); err != nil {
			return err
		}
		empID := domain.FormatEmployeeID(prefix, employee.CreatedAt.Year(), key)
		if _, err := tx.Exec(ctx, insert,
			key,
			empID,
			employee.Name,
			employee.Email,
			employee.PasswordHash,
			employee.MobileNo,
			employee.Department,
			employee.Type,
			employee.Location,
			employee.AccessLevel,
			employee.Active,
			employee.CreatedBy,
			employee.CreatedAt,
		); err != nil {
			return err
		}
		employee.ID = key
		employee.EmpID = empID
		return nil
	})
	return mapError(err)
}

func (r *employeeRepository) Update(ctx context.Context, employee *domain.Employee) error {
	const query = `
        UPDATE employee SET emp_name=$2, emp_mail_id=$3, password_hash=$4, emp_mobile_no=$5, emp_department=$6,
            emp_type=$7, emp_location=$8, emp_access_level=$9, is_active=$10, updated_by=$11, updated_time=$12
        WHERE emp_id=$1 AND deleted_time IS NULL`
	tag, err := r.db.Exec(ctx, query,
		employee.EmpID,
		employee.Name,
		employee.Email,
		employee.PasswordHash,
		employee.MobileNo,
		employee.Department,
		employee.Type,
		employee.Location,
		employee.AccessLevel,
		employee.Active,
		employee.UpdatedBy,
		employee.UpdatedAt,
	)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *employeeRepository) SoftDelete(ctx context.Context, empID, deletedBy string, at time.Time) error {
	const query = `UPDATE employee SET deleted_by=$2, deleted_time=$3 WHERE emp_id=$1 AND deleted_time IS NULL`
	return r.execOne(ctx, query, empID, deletedBy, at)
}

func (r *employeeRepository) GetByEmpID(ctx context.Context, empID string) (*domain.Employee, error) {
	query := `SELECT` + employeeColumns + ` FROM employee WHERE emp_id=$1 AND deleted_time IS NULL`
	employee, err := scanEmployee(r.db.QueryRow(ctx, query, empID))
	if err != nil {
		return nil, mapError(err)
	}
	return employee, nil
}

func (r *employeeRepository) GetByEmail(ctx context.Context, email string) (*domain.Employee, error) {
	query := `SELECT` + employeeColumns + ` FROM employee WHERE LOWER(emp_mail_id)=LOWER($1) AND deleted_time IS NULL`
	employee, err := scanEmployee(r.db.QueryRow(ctx, query, email))
	if err != nil {
		return nil, mapError(err)
	}
	return employee, nil
}

func (r *employeeRepository) List(ctx context.Context) ([]domain.Employee, error) {
	query := `SELECT` + employeeColumns + ` FROM employee WHERE deleted_time IS NULL ORDER BY created_time DESC, id DESC`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	employees := []domain.Employee{}
	for rows.Next() {
		employee, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, *employee)
	}
	return employees, rows.Err()
}

func (r *employeeRepository) SetProfileImage(ctx context.Context, empID, path string, at time.Time) error {
	const query = `UPDATE employee SET emp_profile_img=$2, updated_time=$3 WHERE emp_id=$1 AND deleted_time IS NULL`
	return r.execOne(ctx, query, empID, path, at)
}

func (r *employeeRepository) UpdatePassword(ctx context.Context, empID, hash, updatedBy string, at time.Time) error {
	const query = `UPDATE employee SET password_hash=$2, updated_by=$3, updated_time=$4 WHERE emp_id=$1 AND deleted_time IS NULL`
	return r.execOne(ctx, query, empID, hash, updatedBy, at)
}

func (r *employeeRepository) CountByDepartment(ctx context.Context, department string) ([]domain.DepartmentCount, error) {
	query := `SELECT emp_department, COUNT(*) FROM employee WHERE deleted_time IS NULL`
	args := []any{}
	if department != "" {
		query += ` AND emp_department=$1`
		args = append(args, department)
	}
	query += ` GROUP BY emp_department ORDER BY emp_department`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := []domain.DepartmentCount{}
	for rows.Next() {
		var dc domain.DepartmentCount
		if err := rows.Scan(&dc.Department, &dc.Count); err != nil {
			return nil, err
		}
		counts = append(counts, dc)
	}
	return counts, rows.Err()
}

func (r *employeeRepository) execOne(ctx context.Context, query string, args ...any) error {
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanEmployee(row pgx.Row) (*domain.Employee, error) {
	var e domain.Employee
	if err := row.Scan(
		&e.ID,
		&e.EmpID,
		&e.Name,
		&e.Email,
		&e.PasswordHash,
		&e.MobileNo,
		&e.Department,
		&e.Type,
		&e.Location,
		&e.AccessLevel,
		&e.Active,
		&e.ProfileImage,
		&e.CreatedBy,
		&e.CreatedAt,
		&e.UpdatedBy,
		&e.UpdatedAt,
		&e.DeletedBy,
		&e.DeletedAt,
	); err != nil {
		return nil, err
	}
	return &e, nil
}
