package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/dolluzcorp/dassist-helpdesk/internal/domain"
)

// ChangeFunc inspects the locked ticket and decides which history rows to write.
// Returning an error aborts the transaction without writing anything.
type ChangeFunc func(current *domain.Ticket) (domain.TicketChange, error)

// TicketRepository encapsulates ticket persistence. It is the only writer of
// the history tables so row writes and the status update share a transaction.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket, prefix string) error
	GetByTicketID(ctx context.Context, ticketID string) (*domain.TicketWithEmployee, error)
	List(ctx context.Context, filter domain.TicketFilter) ([]domain.TicketWithEmployee, error)
	CountByStatus(ctx context.Context, category string) ([]domain.StatusCount, error)
	ApplyChange(ctx context.Context, ticketID string, decide ChangeFunc) (*domain.Ticket, domain.TicketChange, error)
}

type ticketRepository struct {
	db DB
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(db DB) TicketRepository {
	return &ticketRepository{db: db}
}

const ticketJoinColumns = `
        t.auto_id, t.ticket_id, t.emp_id, t.emp_alternate_mobile_no, t.category, t.priority_level,
        t.contact_method, t.subject, t.description, t.attachment_file, t.ticket_status, t.created_by, t.created_time,
        COALESCE(e.emp_name, ''), COALESCE(e.emp_mail_id, ''), COALESCE(e.emp_department, ''), COALESCE(e.emp_mobile_no, '')`

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket, prefix string) error {
	const insert = `
        INSERT INTO tickets_entry (auto_id, ticket_id, emp_id, emp_alternate_mobile_no, category, priority_level,
            contact_method, subject, description, attachment_file, ticket_status, created_by, created_time)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`

	err := inTx(ctx, r.db, func(tx pgx.Tx) error {
		var key int64
		if err := tx.QueryRow(ctx, `SELECT nextval('tickets_entry_seq')`).Scan(&key); err != nil {
			return err
		}
		ticketID := domain.FormatTicketID(prefix, ticket.CreatedAt.Year(), key)
		if _, err := tx.Exec(ctx, insert,
			key,
			ticketID,
			ticket.EmpID,
			ticket.AlternateMobile,
			ticket.Category,
			ticket.Priority,
			ticket.ContactMethod,
			ticket.Subject,
			ticket.Description,
			ticket.AttachmentPath,
			ticket.Status,
			ticket.CreatedBy,
			ticket.CreatedAt,
		); err != nil {
			return err
		}
		ticket.Key = key
		ticket.TicketID = ticketID
		return nil
	})
	return mapError(err)
}

func (r *ticketRepository) GetByTicketID(ctx context.Context, ticketID string) (*domain.TicketWithEmployee, error) {
	query := `SELECT` + ticketJoinColumns + `
        FROM tickets_entry t
        LEFT JOIN employee e ON e.emp_id = t.emp_id
        WHERE t.ticket_id=$1`
	ticket, err := scanTicketWithEmployee(r.db.QueryRow(ctx, query, ticketID))
	if err != nil {
		return nil, mapError(err)
	}
	return ticket, nil
}

func (r *ticketRepository) List(ctx context.Context, filter domain.TicketFilter) ([]domain.TicketWithEmployee, error) {
	clauses := []string{"1=1"}
	args := []any{}

	clauses, args = appendIn(clauses, args, "t.ticket_status", filter.Statuses)
	clauses, args = appendIn(clauses, args, "t.category", filter.Categories)
	clauses, args = appendIn(clauses, args, "t.priority_level", filter.Priorities)
	clauses, args = appendIn(clauses, args, "t.contact_method", filter.ContactMethods)
	clauses, args = appendIn(clauses, args, "e.emp_department", filter.Departments)

	if filter.CreatedFrom != nil {
		args = append(args, *filter.CreatedFrom)
		clauses = append(clauses, fmt.Sprintf("t.created_time >= $%d", len(args)))
	}
	if filter.CreatedTo != nil {
		args = append(args, *filter.CreatedTo)
		clauses = append(clauses, fmt.Sprintf("t.created_time <= $%d", len(args)))
	}
	if term := strings.TrimSpace(filter.SearchTerm); term != "" {
		args = append(args, "%"+strings.ToLower(term)+"%")
		p := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf("(LOWER(t.subject) LIKE %s OR LOWER(t.description) LIKE %s OR LOWER(t.ticket_id) LIKE %s)", p, p, p))
	}

	query := `SELECT` + ticketJoinColumns + `
        FROM tickets_entry t
        LEFT JOIN employee e ON e.emp_id = t.emp_id
        WHERE ` + strings.Join(clauses, " AND ") + `
        ORDER BY t.created_time DESC, t.auto_id DESC`
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET %d", filter.Offset)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.TicketWithEmployee{}
	for rows.Next() {
		ticket, err := scanTicketWithEmployee(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *ticket)
	}
	return result, rows.Err()
}

func (r *ticketRepository) CountByStatus(ctx context.Context, category string) ([]domain.StatusCount, error) {
	query := `SELECT ticket_status, COUNT(*) FROM tickets_entry`
	args := []any{}
	if category != "" {
		query += ` WHERE category=$1`
		args = append(args, category)
	}
	query += ` GROUP BY ticket_status ORDER BY ticket_status`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := []domain.StatusCount{}
	for rows.Next() {
		var sc domain.StatusCount
		if err := rows.Scan(&sc.Status, &sc.Count); err != nil {
			return nil, err
		}
		counts = append(counts, sc)
	}
	return counts, rows.Err()
}

func (r *ticketRepository) ApplyChange(ctx context.Context, ticketID string, decide ChangeFunc) (*domain.Ticket, domain.TicketChange, error) {
	const lock = `
        SELECT auto_id, ticket_id, emp_id, emp_alternate_mobile_no, category, priority_level, contact_method,
               subject, description, attachment_file, ticket_status, created_by, created_time
        FROM tickets_entry WHERE ticket_id=$1 FOR UPDATE`
	const insertStatus = `
        INSERT INTO ticket_status_history (ticket_id, ticket_status, updated_by, updated_time)
        VALUES ($1,$2,$3,$4)
        RETURNING id, seq`
	const updateStatus = `UPDATE tickets_entry SET ticket_status=$1 WHERE ticket_id=$2`
	const insertComment = `
        INSERT INTO ticket_comment_history (ticket_id, ticket_comments, added_by, added_time)
        VALUES ($1,$2,$3,$4)
        RETURNING id, seq`

	var (
		ticket *domain.Ticket
		change domain.TicketChange
	)
	err := inTx(ctx, r.db, func(tx pgx.Tx) error {
		current, err := scanTicket(tx.QueryRow(ctx, lock, ticketID))
		if err != nil {
			return err
		}
		change, err = decide(current)
		if err != nil {
			return err
		}
		if st := change.Status; st != nil {
			st.TicketID = current.TicketID
			if err := tx.QueryRow(ctx, insertStatus, st.TicketID, st.Status, st.UpdatedBy, st.CreatedAt).Scan(&st.ID, &st.Seq); err != nil {
				return err
			}
			if _, err := tx.Exec(ctx, updateStatus, st.Status, st.TicketID); err != nil {
				return err
			}
			current.Status = st.Status
		}
		if cm := change.Comment; cm != nil {
			cm.TicketID = current.TicketID
			if err := tx.QueryRow(ctx, insertComment, cm.TicketID, cm.Comment, cm.AddedBy, cm.CreatedAt).Scan(&cm.ID, &cm.Seq); err != nil {
				return err
			}
		}
		ticket = current
		return nil
	})
	if err != nil {
		return nil, domain.TicketChange{}, mapError(err)
	}
	return ticket, change, nil
}

func scanTicket(row pgx.Row) (*domain.Ticket, error) {
	var t domain.Ticket
	if err := row.Scan(
		&t.Key,
		&t.TicketID,
		&t.EmpID,
		&t.AlternateMobile,
		&t.Category,
		&t.Priority,
		&t.ContactMethod,
		&t.Subject,
		&t.Description,
		&t.AttachmentPath,
		&t.Status,
		&t.CreatedBy,
		&t.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &t, nil
}

func scanTicketWithEmployee(row pgx.Row) (*domain.TicketWithEmployee, error) {
	var t domain.TicketWithEmployee
	if err := row.Scan(
		&t.Key,
		&t.TicketID,
		&t.EmpID,
		&t.AlternateMobile,
		&t.Category,
		&t.Priority,
		&t.ContactMethod,
		&t.Subject,
		&t.Description,
		&t.AttachmentPath,
		&t.Status,
		&t.CreatedBy,
		&t.CreatedAt,
		&t.EmployeeName,
		&t.EmployeeEmail,
		&t.EmployeeDepartment,
		&t.EmployeeMobile,
	); err != nil {
		return nil, err
	}
	return &t, nil
}

func appendIn[T ~string](clauses []string, args []any, column string, values []T) ([]string, []any) {
	if len(values) == 0 {
		return clauses, args
	}
	placeholders := make([]string, len(values))
	for i, v := range values {
		args = append(args, string(v))
		placeholders[i] = fmt.Sprintf("$%d", len(args))
	}
	return append(clauses, fmt.Sprintf("%s IN (%s)", column, strings.Join(placeholders, ","))), args
}
