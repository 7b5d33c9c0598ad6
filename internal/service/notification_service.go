package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/dolluzcorp/dassist-helpdesk/internal/config"
	"github.com/dolluzcorp/dassist-helpdesk/internal/domain"
	"github.com/dolluzcorp/dassist-helpdesk/internal/events"
	"github.com/dolluzcorp/dassist-helpdesk/internal/notify"
	"github.com/dolluzcorp/dassist-helpdesk/internal/observability"
	"github.com/dolluzcorp/dassist-helpdesk/internal/worker"
)

// NotificationService renders and sends helpdesk mail. Submission mail goes
// through the worker pool; status and OTP mail are sent inline.
type NotificationService struct {
	dispatcher events.Dispatcher
	mailer     notify.Mailer
	pool       *worker.Pool
	logger     *zap.Logger
	metrics    *observability.Metrics
	opsMailbox string
	otpMinutes int
}

// NotificationDependencies bundles collaborators. A nil Pool sends
// submission mail inline.
type NotificationDependencies struct {
	Dispatcher events.Dispatcher
	Mailer     notify.Mailer
	Pool       *worker.Pool
	Logger     *zap.Logger
	Metrics    *observability.Metrics
	Helpdesk   config.HelpdeskConfig
	OTP        config.OTPConfig
}

// NewNotificationService creates the service.
func NewNotificationService(deps NotificationDependencies) *NotificationService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		dispatcher: deps.Dispatcher,
		mailer:     deps.Mailer,
		pool:       deps.Pool,
		logger:     logger,
		metrics:    deps.Metrics,
		opsMailbox: deps.Helpdesk.OpsMailbox,
		otpMinutes: int(deps.OTP.TTL().Minutes()),
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventTicketSubmitted, n.handleTicketSubmitted)
	n.dispatcher.Subscribe(events.EventTicketStatusChanged, n.handleTicketStatusChanged)
	n.dispatcher.Subscribe(events.EventTicketCommentAdded, n.handleTicketCommentAdded)
}

func (n *NotificationService) handleTicketSubmitted(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketSubmittedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T for %s", event.Payload, event.Type)
	}
	msg, err := notify.TicketSubmittedMessage(payload.EmployeeEmail, notify.TicketSubmittedData{
		TicketID:     event.TicketID,
		EmployeeName: payload.EmployeeName,
		Subject:      payload.Ticket.Subject,
		OpsMailbox:   n.opsMailbox,
	})
	if err != nil {
		n.logger.Error("render submission mail", zap.String("ticket_id", event.TicketID), zap.Error(err))
		return err
	}

	job := func(jobCtx context.Context) {
		if err := n.deliver(jobCtx, msg); err != nil {
			n.logger.Error("submission mail failed", zap.String("ticket_id", event.TicketID), zap.Error(err))
			return
		}
		n.logger.Info("submission mail sent", zap.String("ticket_id", event.TicketID))
	}

	if n.pool == nil {
		job(ctx)
		return nil
	}
	if err := n.pool.Submit(job); err != nil {
		n.metrics.RecordMail(msg.Template, "dropped")
		n.logger.Warn("submission mail dropped", zap.String("ticket_id", event.TicketID), zap.Error(err))
	}
	return nil
}

func (n *NotificationService) handleTicketStatusChanged(_ context.Context, event events.Event) error {
	payload, _ := event.Payload.(events.TicketStatusChangedPayload)
	n.logger.Info("TicketStatusChanged",
		zap.String("ticket_id", event.TicketID),
		zap.String("actor", event.ActorID),
		zap.String("old_status", string(payload.OldStatus)),
		zap.String("new_status", string(payload.NewStatus)))
	return nil
}

func (n *NotificationService) handleTicketCommentAdded(_ context.Context, event events.Event) error {
	n.logger.Info("TicketCommentAdded", zap.String("ticket_id", event.TicketID), zap.String("actor", event.ActorID))
	return nil
}

// SendStatusUpdate mails the report to the ticket's employee and returns the
// delivery error, if any.
func (n *NotificationService) SendStatusUpdate(ctx context.Context, ticket *domain.TicketWithEmployee, report domain.StatusReport) error {
	data := notify.StatusUpdateData{
		TicketID:     ticket.TicketID,
		EmployeeName: ticket.EmployeeName,
		Subject:      ticket.Subject,
		OpsMailbox:   n.opsMailbox,
	}
	if report.Status != nil {
		data.Status = report.Status.Status
		data.UpdatedAt = report.Status.CreatedAt
	}
	if report.Comment != nil {
		data.Comment = report.Comment.Comment
		if report.Comment.CreatedAt.After(data.UpdatedAt) {
			data.UpdatedAt = report.Comment.CreatedAt
		}
	}
	msg, err := notify.StatusUpdateMessage(ticket.EmployeeEmail, data)
	if err != nil {
		return err
	}
	if err := n.deliver(ctx, msg); err != nil {
		n.logger.Error("status mail failed", zap.String("ticket_id", ticket.TicketID), zap.Error(err))
		return err
	}
	n.logger.Info("status mail sent", zap.String("ticket_id", ticket.TicketID))
	return nil
}

// SendOTP mails a one-time code.
func (n *NotificationService) SendOTP(ctx context.Context, email string, purpose domain.OTPPurpose, code string) error {
	msg, err := notify.OTPMessage(email, purpose, notify.OTPData{Code: code, ValidMinutes: n.otpMinutes})
	if err != nil {
		return err
	}
	return n.deliver(ctx, msg)
}

func (n *NotificationService) deliver(ctx context.Context, msg notify.Message) error {
	if n.mailer == nil {
		n.metrics.RecordMail(msg.Template, "failed")
		return errors.New("no mailer configured")
	}
	if err := n.mailer.Send(ctx, msg); err != nil {
		n.metrics.RecordMail(msg.Template, "failed")
		return err
	}
	n.metrics.RecordMail(msg.Template, "sent")
	return nil
}
