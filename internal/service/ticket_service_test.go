package service

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dolluzcorp/dassist-helpdesk/internal/domain"
	"github.com/dolluzcorp/dassist-helpdesk/internal/notify"
)

func TestSubmitRejectsUnknownEmployee(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.tickets.Submit(ctx, validSubmission("dAssist-2025-00099"))
	domainErr := requireStatus(t, err, http.StatusBadRequest)
	assert.Equal(t, "no valid employee", domainErr.Message)

	_, err = h.tickets.Submit(ctx, validSubmission(""))
	requireStatus(t, err, http.StatusBadRequest)

	all, err := h.tickets.List(ctx, domain.TicketFilter{})
	require.NoError(t, err)
	assert.Empty(t, all)
	assert.Empty(t, h.mail.Messages())
}

func TestSubmitAssignsIDAndSendsConfirmation(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	employee := h.addEmployee(t, "Arun", "arun@dolluzcorp.com", "User", "")

	input := validSubmission(employee.EmpID)
	input.Email = "ARUN@dolluzcorp.com"
	input.Attachment = fileUpload("screen shot.png", "image/png", []byte("png"))
	ticket, err := h.tickets.Submit(ctx, input)
	require.NoError(t, err)

	assert.Equal(t, "DZIND-2025-00001", ticket.TicketID)
	assert.Equal(t, domain.TicketStatusOpen, ticket.Status)
	require.NotNil(t, ticket.AttachmentPath)
	assert.True(t, strings.HasPrefix(*ticket.AttachmentPath, "/Tickets_file_uploads/"))

	messages := h.mail.Messages()
	require.Len(t, messages, 1)
	assert.Equal(t, notify.TemplateTicketSubmitted, messages[0].Template)
	assert.Equal(t, []string{"arun@dolluzcorp.com", "info@dolluzcorp.com"}, messages[0].To)
	assert.Equal(t, "[Ticket ID: DZIND-2025-00001] Support Request Notification", messages[0].Subject)

	second := h.submit(t, employee.EmpID)
	assert.Equal(t, "DZIND-2025-00002", second.TicketID)
}

func TestSubmitSucceedsWhenMailFails(t *testing.T) {
	h := newHarness(t)
	employee := h.addEmployee(t, "Arun", "arun@dolluzcorp.com", "User", "")
	h.mail.SetErr(errors.New("smtp down"))

	ticket, err := h.tickets.Submit(context.Background(), validSubmission(employee.EmpID))
	require.NoError(t, err)
	assert.NotEmpty(t, ticket.TicketID)
}

func TestSubmitValidation(t *testing.T) {
	h := newHarness(t)
	employee := h.addEmployee(t, "Arun", "arun@dolluzcorp.com", "User", "")

	cases := map[string]func(*SubmitTicketInput){
		"category":         func(in *SubmitTicketInput) { in.Category = "Facilities" },
		"priority":         func(in *SubmitTicketInput) { in.Priority = "Urgent" },
		"contact_method":   func(in *SubmitTicketInput) { in.ContactMethod = "Fax" },
		"subject":          func(in *SubmitTicketInput) { in.Subject = strings.Repeat("x", 251) },
		"description":      func(in *SubmitTicketInput) { in.Description = "  " },
		"alternate_mobile": func(in *SubmitTicketInput) { in.AlternateMobile = "12345" },
		"email":            func(in *SubmitTicketInput) { in.Email = "someone@dolluzcorp.com" },
		"attachment": func(in *SubmitTicketInput) {
			in.Attachment = fileUpload("big.bin", "application/octet-stream", make([]byte, 2048))
		},
	}
	for field, mutate := range cases {
		t.Run(field, func(t *testing.T) {
			input := validSubmission(employee.EmpID)
			mutate(&input)
			_, err := h.tickets.Submit(context.Background(), input)
			domainErr := requireStatus(t, err, http.StatusBadRequest)
			assert.Contains(t, domainErr.Details, field)
		})
	}
}

func TestSaveStatusWithUnchangedStatusAndNoComment(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	admin := h.addEmployee(t, "Priya", "priya@dolluzcorp.com", "Admin", "secret")
	ticket := h.submit(t, admin.EmpID)

	_, err := h.tickets.SaveStatus(ctx, admin.EmpID, SaveStatusInput{
		TicketID:   ticket.TicketID,
		Status:     "In Review",
		PrevStatus: strPtr("In Review"),
	})
	domainErr := requireStatus(t, err, http.StatusBadRequest)
	assert.Equal(t, "no status or comments to save", domainErr.Message)

	_, err = h.tickets.SaveStatus(ctx, admin.EmpID, SaveStatusInput{TicketID: ticket.TicketID, Status: "Open"})
	requireStatus(t, err, http.StatusBadRequest)

	events, err := h.tickets.History(ctx, ticket.TicketID)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestSaveStatusWritesHistoryAndUpdatesTicket(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	admin := h.addEmployee(t, "Priya", "priya@dolluzcorp.com", "Admin", "secret")
	ticket := h.submit(t, admin.EmpID)

	result, err := h.tickets.SaveStatus(ctx, admin.EmpID, SaveStatusInput{
		TicketID:   ticket.TicketID,
		Status:     "In Progress",
		Comment:    "  replacing the disk  ",
		PrevStatus: strPtr("Open"),
	})
	require.NoError(t, err)
	require.NotNil(t, result.Change.Status)
	require.NotNil(t, result.Change.Comment)
	assert.Equal(t, "replacing the disk", result.Change.Comment.Comment)
	assert.Equal(t, domain.TicketStatusInProgress, result.Ticket.Status)

	h.clock.Advance(time.Minute)
	_, err = h.tickets.SaveStatus(ctx, admin.EmpID, SaveStatusInput{TicketID: ticket.TicketID, Comment: "waiting on part"})
	require.NoError(t, err)

	got, err := h.tickets.Get(ctx, ticket.TicketID)
	require.NoError(t, err)
	statuses, err := h.store.History().ListStatus(ctx, ticket.TicketID)
	require.NoError(t, err)
	assert.Equal(t, domain.CurrentStatus(statuses), got.Status)
	assert.Equal(t, domain.TicketStatusInProgress, got.Status)

	_, err = h.tickets.SaveStatus(ctx, admin.EmpID, SaveStatusInput{TicketID: "DZIND-2025-09999", Comment: "x"})
	requireStatus(t, err, http.StatusNotFound)

	_, err = h.tickets.SaveStatus(ctx, admin.EmpID, SaveStatusInput{TicketID: ticket.TicketID, Status: "Closed"})
	requireStatus(t, err, http.StatusBadRequest)
}

func TestHistoryReturnsAllEventsInOrder(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	admin := h.addEmployee(t, "Priya", "priya@dolluzcorp.com", "Admin", "secret")
	ticket := h.submit(t, admin.EmpID)

	steps := []SaveStatusInput{
		{Status: "In Review"},
		{Comment: "looking"},
		{Status: "In Progress", Comment: "ordered part"},
		{Status: "Resolved"},
	}
	for _, step := range steps {
		step.TicketID = ticket.TicketID
		h.clock.Advance(time.Second)
		_, err := h.tickets.SaveStatus(ctx, admin.EmpID, step)
		require.NoError(t, err)
	}

	events, err := h.tickets.History(ctx, ticket.TicketID)
	require.NoError(t, err)
	require.Len(t, events, 5)
	for i := 1; i < len(events); i++ {
		assert.False(t, events[i].CreatedAt.Before(events[i-1].CreatedAt))
	}
	assert.Equal(t, domain.HistoryEventStatus, events[2].Type)
	assert.Equal(t, domain.HistoryEventComment, events[3].Type)
	assert.Equal(t, "Priya", events[0].ActorName)

	_, err = h.tickets.History(ctx, "DZIND-2025-09999")
	requireStatus(t, err, http.StatusNotFound)
}

func TestSendStatusMail(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	admin := h.addEmployee(t, "Priya", "priya@dolluzcorp.com", "Admin", "secret")
	ticket := h.submit(t, admin.EmpID)

	_, err := h.tickets.SendStatusMail(ctx, ticket.TicketID)
	requireStatus(t, err, http.StatusBadRequest)

	_, err = h.tickets.SaveStatus(ctx, admin.EmpID, SaveStatusInput{TicketID: ticket.TicketID, Status: "In Progress", Comment: "on it"})
	require.NoError(t, err)

	report, err := h.tickets.SendStatusMail(ctx, ticket.TicketID)
	require.NoError(t, err)
	assert.NotNil(t, report.Status)
	assert.NotNil(t, report.Comment)

	messages := h.mail.Messages()
	last := messages[len(messages)-1]
	assert.Equal(t, notify.TemplateStatusUpdate, last.Template)
	assert.Equal(t, []string{"priya@dolluzcorp.com"}, last.To)
	assert.Contains(t, last.HTMLBody, "In Progress")
	assert.Contains(t, last.HTMLBody, "on it")

	h.clock.Advance(time.Minute)
	_, err = h.tickets.SaveStatus(ctx, admin.EmpID, SaveStatusInput{TicketID: ticket.TicketID, Status: "Resolved"})
	require.NoError(t, err)
	report, err = h.tickets.SendStatusMail(ctx, ticket.TicketID)
	require.NoError(t, err)
	assert.NotNil(t, report.Status)
	assert.Nil(t, report.Comment)

	h.mail.SetErr(errors.New("relay refused"))
	_, err = h.tickets.SendStatusMail(ctx, ticket.TicketID)
	domainErr := requireStatus(t, err, http.StatusBadGateway)
	assert.Equal(t, "failed to send status mail", domainErr.Message)
}

func TestStatsListsEveryStatus(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	admin := h.addEmployee(t, "Priya", "priya@dolluzcorp.com", "Admin", "secret")
	first := h.submit(t, admin.EmpID)
	h.submit(t, admin.EmpID)
	_, err := h.tickets.SaveStatus(ctx, admin.EmpID, SaveStatusInput{TicketID: first.TicketID, Status: "Resolved"})
	require.NoError(t, err)

	stats, err := h.tickets.Stats(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.Total)
	require.Len(t, stats.ByStatus, len(domain.TicketStatuses()))
	counts := map[domain.TicketStatus]int64{}
	for _, c := range stats.ByStatus {
		counts[c.Status] = c.Count
	}
	assert.Equal(t, int64(1), counts[domain.TicketStatusOpen])
	assert.Equal(t, int64(1), counts[domain.TicketStatusResolved])
	assert.Equal(t, int64(0), counts[domain.TicketStatusCancelled])

	hr, err := h.tickets.Stats(ctx, "HR")
	require.NoError(t, err)
	assert.Equal(t, int64(0), hr.Total)

	_, err = h.tickets.Stats(ctx, "Legal")
	requireStatus(t, err, http.StatusBadRequest)
}
