package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/dolluzcorp/dassist-helpdesk/internal/domain"
)

// TicketHistoryRepository reads the status and comment logs. Writes go through
// TicketRepository.ApplyChange.
type TicketHistoryRepository interface {
	ListStatus(ctx context.Context, ticketID string) ([]domain.StatusEntry, error)
	ListComments(ctx context.Context, ticketID string) ([]domain.CommentEntry, error)
	// LatestStatus returns nil when the ticket has no status rows.
	LatestStatus(ctx context.Context, ticketID string) (*domain.StatusEntry, error)
	// LatestComment returns nil when the ticket has no comment rows.
	LatestComment(ctx context.Context, ticketID string) (*domain.CommentEntry, error)
}

type ticketHistoryRepository struct {
	db DB
}

// NewTicketHistoryRepository builds repository.
func NewTicketHistoryRepository(db DB) TicketHistoryRepository {
	return &ticketHistoryRepository{db: db}
}

const (
	statusSelect = `
        SELECT h.id, h.seq, h.ticket_id, h.ticket_status, h.updated_by, COALESCE(e.emp_name, ''), h.updated_time
        FROM ticket_status_history h
        LEFT JOIN employee e ON e.emp_id = h.updated_by
        WHERE h.ticket_id=$1`
	commentSelect = `
        SELECT h.id, h.seq, h.ticket_id, h.ticket_comments, h.added_by, COALESCE(e.emp_name, ''), h.added_time
        FROM ticket_comment_history h
        LEFT JOIN employee e ON e.emp_id = h.added_by
        WHERE h.ticket_id=$1`
)

func (r *ticketHistoryRepository) ListStatus(ctx context.Context, ticketID string) ([]domain.StatusEntry, error) {
	rows, err := r.db.Query(ctx, statusSelect+` ORDER BY h.updated_time ASC, h.seq ASC`, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []domain.StatusEntry{}
	for rows.Next() {
		entry, err := scanStatusEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *entry)
	}
	return entries, rows.Err()
}

func (r *ticketHistoryRepository) ListComments(ctx context.Context, ticketID string) ([]domain.CommentEntry, error) {
	rows, err := r.db.Query(ctx, commentSelect+` ORDER BY h.added_time ASC, h.seq ASC`, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []domain.CommentEntry{}
	for rows.Next() {
		entry, err := scanCommentEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *entry)
	}
	return entries, rows.Err()
}

func (r *ticketHistoryRepository) LatestStatus(ctx context.Context, ticketID string) (*domain.StatusEntry, error) {
	entry, err := scanStatusEntry(r.db.QueryRow(ctx, statusSelect+` ORDER BY h.updated_time DESC, h.seq DESC LIMIT 1`, ticketID))
	if err != nil {
		if mapError(err) == ErrNotFound {
			return nil, nil
		}
		return nil, err
	}
	return entry, nil
}

func (r *ticketHistoryRepository) LatestComment(ctx context.Context, ticketID string) (*domain.CommentEntry, error) {
	entry, err := scanCommentEntry(r.db.QueryRow(ctx, commentSelect+` ORDER BY h.added_time DESC, h.seq DESC LIMIT 1`, ticketID))
	if err != nil {
		if mapError(err) == ErrNotFound {
			return nil, nil
		}
		return nil, err
	}
	return entry, nil
}

func scanStatusEntry(row pgx.Row) (*domain.StatusEntry, error) {
	var e domain.StatusEntry
	if err := row.Scan(&e.ID, &e.Seq, &e.TicketID, &e.Status, &e.UpdatedBy, &e.ActorName, &e.CreatedAt); err != nil {
		return nil, err
	}
	return &e, nil
}

func scanCommentEntry(row pgx.Row) (*domain.CommentEntry, error) {
	var e domain.CommentEntry
	if err := row.Scan(&e.ID, &e.Seq, &e.TicketID, &e.Comment, &e.AddedBy, &e.ActorName, &e.CreatedAt); err != nil {
		return nil, err
	}
	return &e, nil
}
