package service

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/dolluzcorp/dassist-helpdesk/internal/domain"
	"github.com/dolluzcorp/dassist-helpdesk/internal/events"
	"github.com/dolluzcorp/dassist-helpdesk/internal/repository"
	"github.com/dolluzcorp/dassist-helpdesk/internal/storage"
	apperrors "github.com/dolluzcorp/dassist-helpdesk/pkg/util"
)

var errNothingToSave = apperrors.NewValidationError("no status or comments to save", nil)

// StatusNotifier delivers a status report to the ticket's employee.
type StatusNotifier interface {
	SendStatusUpdate(ctx context.Context, ticket *domain.TicketWithEmployee, report domain.StatusReport) error
}

// TicketService coordinates ticket workflows.
type TicketService struct {
	tickets    repository.TicketRepository
	history    repository.TicketHistoryRepository
	employees  repository.EmployeeRepository
	files      storage.Store
	notifier   StatusNotifier
	dispatcher events.Dispatcher
	logger     *zap.Logger
	prefix     string
	maxUpload  int64
	clock      Clock
}

// TicketDependencies bundles collaborators for ticket service.
type TicketDependencies struct {
	TicketRepo    repository.TicketRepository
	HistoryRepo   repository.TicketHistoryRepository
	EmployeeRepo  repository.EmployeeRepository
	Files         storage.Store
	Notifier      StatusNotifier
	Dispatcher    events.Dispatcher
	Logger        *zap.Logger
	TicketPrefix  string
	AttachmentMax int64
	Clock         Clock
}

// SubmitTicketInput is the public submission form.
type SubmitTicketInput struct {
	EmpID           string
	Email           string
	AlternateMobile string
	Category        string
	Priority        string
	ContactMethod   string
	Subject         string
	Description     string
	Attachment      *storage.Upload
}

// SaveStatusInput records a status change, a comment, or both. PrevStatus is
// the status the caller last saw, when it sends one.
type SaveStatusInput struct {
	TicketID   string
	Status     string
	Comment    string
	PrevStatus *string
}

// SaveStatusResult reports what was written.
type SaveStatusResult struct {
	Ticket *domain.Ticket
	Change domain.TicketChange
}

// TicketStats is the ticket dashboard chart.
type TicketStats struct {
	Total    int64
	ByStatus []domain.StatusCount
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TicketService{
		tickets:    deps.TicketRepo,
		history:    deps.HistoryRepo,
		employees:  deps.EmployeeRepo,
		files:      deps.Files,
		notifier:   deps.Notifier,
		dispatcher: deps.Dispatcher,
		logger:     logger,
		prefix:     deps.TicketPrefix,
		maxUpload:  deps.AttachmentMax,
		clock:      deps.Clock,
	}
}

// Submit validates the form, stores the attachment and inserts the ticket.
// Nothing is written when validation fails.
func (s *TicketService) Submit(ctx context.Context, input SubmitTicketInput) (*domain.Ticket, error) {
	empID := strings.TrimSpace(input.EmpID)
	if empID == "" {
		return nil, apperrors.NewValidationError("no valid employee", map[string]any{"emp_id": "required"})
	}
	employee, err := s.employees.GetByEmpID(ctx, empID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewValidationError("no valid employee", map[string]any{"emp_id": empID})
		}
		return nil, err
	}

	ticket, err := s.validateSubmission(employee, input)
	if err != nil {
		return nil, err
	}

	if input.Attachment != nil {
		if s.files == nil {
			return nil, apperrors.NewInternalError(errors.New("attachment storage not configured"))
		}
		stored, err := s.files.Put(storage.TicketAttachmentDir, input.Attachment)
		if err != nil {
			return nil, apperrors.NewInternalError(err)
		}
		ticket.AttachmentPath = &stored
	}

	if err := s.tickets.Create(ctx, ticket, s.prefix); err != nil {
		if ticket.AttachmentPath != nil {
			if rmErr := s.files.Remove(*ticket.AttachmentPath); rmErr != nil {
				s.logger.Warn("remove orphaned attachment", zap.String("path", *ticket.AttachmentPath), zap.Error(rmErr))
			}
		}
		return nil, err
	}

	s.logger.Info("ticket submitted", zap.String("ticket_id", ticket.TicketID), zap.String("emp_id", ticket.EmpID))
	s.publishEvent(ctx, events.NewEvent(events.EventTicketSubmitted, ticket.TicketID, employee.EmpID, ticket.CreatedAt,
		events.TicketSubmittedPayload{
			Ticket:        *ticket,
			EmployeeName:  employee.Name,
			EmployeeEmail: employee.Email,
		}))
	return ticket, nil
}

func (s *TicketService) validateSubmission(employee *domain.Employee, input SubmitTicketInput) (*domain.Ticket, error) {
	problems := fieldErrors{}

	if email := normalizeEmail(input.Email); email != "" && !strings.EqualFold(email, employee.Email) {
		problems.add("email", "does not match the employee record")
	}
	category := domain.TicketCategory(strings.TrimSpace(input.Category))
	if !category.Valid() {
		problems.add("category", "must be one of IT, HR, Admin, Finance")
	}
	priority := domain.TicketPriority(strings.TrimSpace(input.Priority))
	if !priority.Valid() {
		problems.add("priority", "must be one of High, Medium, Low")
	}
	contact := domain.ContactMethod(strings.TrimSpace(input.ContactMethod))
	if !contact.Valid() {
		problems.add("contact_method", "must be one of Email, Mobile, Cliq")
	}
	subject := strings.TrimSpace(input.Subject)
	switch {
	case subject == "":
		problems.add("subject", "required")
	case utf8.RuneCountInString(subject) > domain.MaxSubjectLength:
		problems.add("subject", "must be at most 250 characters")
	}
	description := strings.TrimSpace(input.Description)
	if description == "" {
		problems.add("description", "required")
	}
	var altMobile *string
	if alt := strings.TrimSpace(input.AlternateMobile); alt != "" {
		if !isTenDigits(alt) {
			problems.add("alternate_mobile", "must be 10 digits")
		}
		altMobile = &alt
	}
	if a := input.Attachment; a != nil && s.maxUpload > 0 && a.Size > s.maxUpload {
		problems.add("attachment", "file too large")
	}
	if err := problems.err("invalid ticket submission"); err != nil {
		return nil, err
	}

	return &domain.Ticket{
		EmpID:           employee.EmpID,
		AlternateMobile: altMobile,
		Category:        category,
		Priority:        priority,
		ContactMethod:   contact,
		Subject:         subject,
		Description:     description,
		Status:          domain.DefaultTicketStatus,
		CreatedBy:       employee.EmpID,
		CreatedAt:       stamp(s.clock),
	}, nil
}

// SaveStatus records a status change and/or comment for actorID under the
// ticket row lock.
func (s *TicketService) SaveStatus(ctx context.Context, actorID string, input SaveStatusInput) (*SaveStatusResult, error) {
	ticketID := strings.TrimSpace(input.TicketID)
	if ticketID == "" {
		return nil, apperrors.NewValidationError("ticket_id is required", nil)
	}
	status := domain.TicketStatus(strings.TrimSpace(input.Status))
	if status != "" && !status.Valid() {
		return nil, apperrors.NewValidationError("unknown ticket status", map[string]any{"ticket_status": string(status)})
	}
	comment := strings.TrimSpace(input.Comment)
	at := stamp(s.clock)

	var previous domain.TicketStatus
	ticket, change, err := s.tickets.ApplyChange(ctx, ticketID, func(current *domain.Ticket) (domain.TicketChange, error) {
		previous = current.Status
		var change domain.TicketChange
		if statusChanged(status, input.PrevStatus, current.Status) {
			change.Status = &domain.StatusEntry{Status: status, UpdatedBy: actorID, CreatedAt: at}
		}
		if comment != "" {
			change.Comment = &domain.CommentEntry{Comment: comment, AddedBy: actorID, CreatedAt: at}
		}
		if change.Empty() {
			return change, errNothingToSave
		}
		return change, nil
	})
	if err != nil {
		return nil, notFound(err, "ticket", map[string]any{"ticket_id": ticketID})
	}

	if change.Status != nil {
		s.publishEvent(ctx, events.NewEvent(events.EventTicketStatusChanged, ticketID, actorID, at,
			events.TicketStatusChangedPayload{OldStatus: previous, NewStatus: change.Status.Status}))
	}
	if change.Comment != nil {
		s.publishEvent(ctx, events.NewEvent(events.EventTicketCommentAdded, ticketID, actorID, at,
			events.TicketCommentAddedPayload{Comment: change.Comment.Comment}))
	}
	return &SaveStatusResult{Ticket: ticket, Change: change}, nil
}

func statusChanged(next domain.TicketStatus, prev *string, current domain.TicketStatus) bool {
	if next == "" || !next.Valid() {
		return false
	}
	if prev != nil && strings.TrimSpace(*prev) == string(next) {
		return false
	}
	return next != current
}

// History returns the merged status and comment log of a ticket.
func (s *TicketService) History(ctx context.Context, ticketID string) ([]domain.HistoryEvent, error) {
	if _, err := s.tickets.GetByTicketID(ctx, ticketID); err != nil {
		return nil, notFound(err, "ticket", map[string]any{"ticket_id": ticketID})
	}
	statuses, err := s.history.ListStatus(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	comments, err := s.history.ListComments(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	return domain.MergeHistory(statuses, comments), nil
}

// SendStatusMail mails the most recent status and/or comment to the employee.
func (s *TicketService) SendStatusMail(ctx context.Context, ticketID string) (domain.StatusReport, error) {
	ticketID = strings.TrimSpace(ticketID)
	if ticketID == "" {
		return domain.StatusReport{}, apperrors.NewValidationError("ticket_id is required", nil)
	}
	ticket, err := s.tickets.GetByTicketID(ctx, ticketID)
	if err != nil {
		return domain.StatusReport{}, notFound(err, "ticket", map[string]any{"ticket_id": ticketID})
	}
	latestStatus, err := s.history.LatestStatus(ctx, ticketID)
	if err != nil {
		return domain.StatusReport{}, err
	}
	latestComment, err := s.history.LatestComment(ctx, ticketID)
	if err != nil {
		return domain.StatusReport{}, err
	}

	report, err := domain.BuildStatusReport(latestStatus, latestComment)
	if err != nil {
		if errors.Is(err, domain.ErrNothingToReport) {
			return domain.StatusReport{}, apperrors.NewValidationError("no status or comment to report", nil)
		}
		return domain.StatusReport{}, err
	}
	if s.notifier == nil {
		return domain.StatusReport{}, apperrors.NewUpstreamError("failed to send status mail", errors.New("no notifier configured"))
	}
	if err := s.notifier.SendStatusUpdate(ctx, ticket, report); err != nil {
		return domain.StatusReport{}, apperrors.NewUpstreamError("failed to send status mail", err)
	}
	return report, nil
}

// Get returns one ticket joined with its employee.
func (s *TicketService) Get(ctx context.Context, ticketID string) (*domain.TicketWithEmployee, error) {
	ticket, err := s.tickets.GetByTicketID(ctx, ticketID)
	if err != nil {
		return nil, notFound(err, "ticket", map[string]any{"ticket_id": ticketID})
	}
	return ticket, nil
}

// List returns tickets newest first.
func (s *TicketService) List(ctx context.Context, filter domain.TicketFilter) ([]domain.TicketWithEmployee, error) {
	if filter.Limit < 0 || filter.Offset < 0 {
		return nil, apperrors.NewValidationError("limit and offset must not be negative", nil)
	}
	return s.tickets.List(ctx, filter)
}

// Stats counts tickets per status, listing every known status even at zero.
func (s *TicketService) Stats(ctx context.Context, category string) (*TicketStats, error) {
	if category != "" && !domain.TicketCategory(category).Valid() {
		return nil, apperrors.NewValidationError("unknown category", map[string]any{"category": category})
	}
	counts, err := s.tickets.CountByStatus(ctx, category)
	if err != nil {
		return nil, err
	}

	byStatus := make(map[domain.TicketStatus]int64, len(counts))
	for _, c := range counts {
		byStatus[c.Status] += c.Count
	}
	stats := &TicketStats{}
	for _, status := range domain.TicketStatuses() {
		n := byStatus[status]
		stats.ByStatus = append(stats.ByStatus, domain.StatusCount{Status: status, Count: n})
		stats.Total += n
		delete(byStatus, status)
	}
	for _, c := range counts {
		if n, ok := byStatus[c.Status]; ok {
			stats.ByStatus = append(stats.ByStatus, domain.StatusCount{Status: c.Status, Count: n})
			stats.Total += n
			delete(byStatus, c.Status)
		}
	}
	return stats, nil
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handler failed", zap.String("event", string(event.Type)), zap.String("ticket_id", event.TicketID), zap.Error(err))
	}
}
