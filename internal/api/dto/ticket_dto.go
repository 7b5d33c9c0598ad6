package dto

import (
	"time"

	"github.com/dolluzcorp/dassist-helpdesk/internal/domain"
)

// SubmitTicketResponse is returned after a successful submission.
type SubmitTicketResponse struct {
	Message  string `json:"message"`
	TicketID string `json:"ticket_id"`
}

// SaveStatusRequest payload. updated_by is accepted for older clients but the
// actor always comes from the session.
type SaveStatusRequest struct {
	TicketID       string  `json:"ticket_id"`
	TicketStatus   string  `json:"ticket_status"`
	TicketComments string  `json:"ticket_comments"`
	UpdatedBy      string  `json:"updated_by"`
	PrevStatus     *string `json:"prev_status"`
}

// SaveStatusResponse reports what was recorded.
type SaveStatusResponse struct {
	Message      string              `json:"message"`
	TicketID     string              `json:"ticket_id"`
	TicketStatus domain.TicketStatus `json:"ticket_status"`
	StatusSaved  bool                `json:"status_saved"`
	CommentSaved bool                `json:"comment_saved"`
}

// SendStatusMailRequest payload.
type SendStatusMailRequest struct {
	TicketID string `json:"ticket_id"`
}

// SendStatusMailResponse describes the mail that went out.
type SendStatusMailResponse struct {
	Message      string               `json:"message"`
	TicketID     string               `json:"ticket_id"`
	TicketStatus *domain.TicketStatus `json:"ticket_status,omitempty"`
	Comment      *string              `json:"ticket_comment,omitempty"`
}

// TicketResponse is one row of the admin ticket table.
type TicketResponse struct {
	AutoID          int64     `json:"auto_id"`
	TicketID        string    `json:"ticket_id"`
	EmpID           string    `json:"emp_id"`
	EmpName         string    `json:"emp_name"`
	EmpMailID       string    `json:"emp_mail_id"`
	EmpDepartment   string    `json:"emp_department"`
	EmpMobileNo     string    `json:"emp_mobile_no"`
	AlternateMobile *string   `json:"emp_alternate_mobile_no"`
	Category        string    `json:"category"`
	Priority        string    `json:"priority_level"`
	ContactMethod   string    `json:"contact_method"`
	Subject         string    `json:"subject"`
	Description     string    `json:"description"`
	AttachmentFile  *string   `json:"attachment_file"`
	TicketStatus    string    `json:"ticket_status"`
	CreatedBy       string    `json:"created_by"`
	CreatedTime     time.Time `json:"created_time"`
}

// HistoryEventResponse is one merged history entry.
type HistoryEventResponse struct {
	EventType domain.HistoryEventType `json:"event_type"`
	Seq       int64                   `json:"seq"`
	Status    *domain.TicketStatus    `json:"ticket_status,omitempty"`
	Comment   *string                 `json:"ticket_comment,omitempty"`
	ActorID   string                  `json:"actor_id"`
	ActorName string                  `json:"actor_name"`
	CreatedAt time.Time               `json:"created_time"`
}

// StatusCountResponse is one bar of the ticket chart.
type StatusCountResponse struct {
	Status domain.TicketStatus `json:"ticket_status"`
	Count  int64               `json:"count"`
}

// TicketStatsResponse wraps the ticket chart.
type TicketStatsResponse struct {
	Total    int64                 `json:"total"`
	ByStatus []StatusCountResponse `json:"by_status"`
}

// NewTicketResponse flattens a joined ticket row.
func NewTicketResponse(t *domain.TicketWithEmployee) TicketResponse {
	return TicketResponse{
		AutoID:          t.Key,
		TicketID:        t.TicketID,
		EmpID:           t.EmpID,
		EmpName:         t.EmployeeName,
		EmpMailID:       t.EmployeeEmail,
		EmpDepartment:   t.EmployeeDepartment,
		EmpMobileNo:     t.EmployeeMobile,
		AlternateMobile: t.AlternateMobile,
		Category:        string(t.Category),
		Priority:        string(t.Priority),
		ContactMethod:   string(t.ContactMethod),
		Subject:         t.Subject,
		Description:     t.Description,
		AttachmentFile:  t.AttachmentPath,
		TicketStatus:    string(t.Status),
		CreatedBy:       t.CreatedBy,
		CreatedTime:     t.CreatedAt,
	}
}

// NewHistoryResponse converts merged events.
func NewHistoryResponse(events []domain.HistoryEvent) []HistoryEventResponse {
	resp := make([]HistoryEventResponse, 0, len(events))
	for _, e := range events {
		resp = append(resp, HistoryEventResponse{
			EventType: e.Type,
			Seq:       e.Seq,
			Status:    e.Status,
			Comment:   e.Comment,
			ActorID:   e.ActorID,
			ActorName: e.ActorName,
			CreatedAt: e.CreatedAt,
		})
	}
	return resp
}
