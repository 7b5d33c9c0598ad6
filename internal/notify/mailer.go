// Package notify renders and delivers helpdesk emails.
package notify

import (
	"context"
	"errors"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// ErrNoRecipients is returned when a message has nobody to go to.
var ErrNoRecipients = errors.New("message has no recipients")

// Message is a rendered HTML email.
type Message struct {
	Template string
	To       []string
	Subject  string
	HTMLBody string
}

// Mailer delivers rendered messages.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// LogMailer writes messages to the log instead of sending them. It is used
// when SMTP_HOST is empty.
type LogMailer struct {
	logger *zap.Logger
}

// NewLogMailer builds a LogMailer.
func NewLogMailer(logger *zap.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

func (m *LogMailer) Send(_ context.Context, msg Message) error {
	if len(msg.To) == 0 {
		return ErrNoRecipients
	}
	m.logger.Info("mail not sent; smtp disabled",
		zap.String("template", msg.Template),
		zap.String("to", strings.Join(msg.To, ",")),
		zap.String("subject", msg.Subject),
	)
	return nil
}

// Recorder keeps every message in memory. Err, when set, is returned from
// Send instead of recording.
type Recorder struct {
	mu       sync.Mutex
	messages []Message
	Err      error
}

func (r *Recorder) Send(_ context.Context, msg Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.messages = append(r.messages, msg)
	return nil
}

// Messages returns a snapshot of recorded messages.
func (r *Recorder) Messages() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Message(nil), r.messages...)
}

// SetErr changes the failure injected into Send.
func (r *Recorder) SetErr(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Err = err
}
