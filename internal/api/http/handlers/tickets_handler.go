package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/dolluzcorp/dassist-helpdesk/internal/api/dto"
	"github.com/dolluzcorp/dassist-helpdesk/internal/domain"
	"github.com/dolluzcorp/dassist-helpdesk/internal/service"
)

// TicketsHandler serves the public ticket form and the admin ticket desk.
type TicketsHandler struct {
	tickets   *service.TicketService
	employees *service.EmployeeService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(tickets *service.TicketService, employees *service.EmployeeService) *TicketsHandler {
	return &TicketsHandler{tickets: tickets, employees: employees}
}

// Submit POST /api/tickets/submit (multipart).
func (h *TicketsHandler) Submit(c *fiber.Ctx) error {
	attachment, err := formUpload(c, "attachment")
	if err != nil {
		return err
	}
	input := service.SubmitTicketInput{
		EmpID:           c.FormValue("emp_id"),
		Email:           c.FormValue("email"),
		AlternateMobile: c.FormValue("altMobile"),
		Category:        c.FormValue("category"),
		Priority:        c.FormValue("priority"),
		ContactMethod:   c.FormValue("contactMethod"),
		Subject:         c.FormValue("subject"),
		Description:     c.FormValue("description"),
		Attachment:      attachment,
	}
	ticket, err := h.tickets.Submit(c.UserContext(), input)
	if err != nil {
		return err
	}
	return data(c, http.StatusCreated, dto.SubmitTicketResponse{
		Message:  "Ticket submitted successfully",
		TicketID: ticket.TicketID,
	})
}

// EmployeeByEmail GET /api/tickets/employee/:email.
func (h *TicketsHandler) EmployeeByEmail(c *fiber.Ctx) error {
	employee, err := h.employees.GetByEmail(c.UserContext(), c.Params("email"))
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, dto.NewPublicEmployeeResponse(employee))
}

// List GET /api/tickets/all.
func (h *TicketsHandler) List(c *fiber.Ctx) error {
	filter, err := parseTicketFilter(c)
	if err != nil {
		return err
	}
	tickets, err := h.tickets.List(c.UserContext(), filter)
	if err != nil {
		return err
	}
	items := make([]dto.TicketResponse, 0, len(tickets))
	for i := range tickets {
		items = append(items, dto.NewTicketResponse(&tickets[i]))
	}
	return data(c, http.StatusOK, items)
}

// Stats GET /api/tickets/stats.
func (h *TicketsHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.tickets.Stats(c.UserContext(), strings.TrimSpace(c.Query("category")))
	if err != nil {
		return err
	}
	resp := dto.TicketStatsResponse{Total: stats.Total, ByStatus: make([]dto.StatusCountResponse, 0, len(stats.ByStatus))}
	for _, sc := range stats.ByStatus {
		resp.ByStatus = append(resp.ByStatus, dto.StatusCountResponse{Status: sc.Status, Count: sc.Count})
	}
	return data(c, http.StatusOK, resp)
}

// SaveStatus POST /api/tickets/save_status.
func (h *TicketsHandler) SaveStatus(c *fiber.Ctx) error {
	actor, err := principal(c)
	if err != nil {
		return err
	}
	var req dto.SaveStatusRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	result, err := h.tickets.SaveStatus(c.UserContext(), actor.EmpID(), service.SaveStatusInput{
		TicketID:   req.TicketID,
		Status:     req.TicketStatus,
		Comment:    req.TicketComments,
		PrevStatus: req.PrevStatus,
	})
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, dto.SaveStatusResponse{
		Message:      "Ticket updated successfully",
		TicketID:     result.Ticket.TicketID,
		TicketStatus: result.Ticket.Status,
		StatusSaved:  result.Change.Status != nil,
		CommentSaved: result.Change.Comment != nil,
	})
}

// History GET /api/tickets/ticket_history/:ticketId.
func (h *TicketsHandler) History(c *fiber.Ctx) error {
	events, err := h.tickets.History(c.UserContext(), c.Params("ticketId"))
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, dto.NewHistoryResponse(events))
}

// SendStatusMail POST /api/tickets/send_status_mail.
func (h *TicketsHandler) SendStatusMail(c *fiber.Ctx) error {
	var req dto.SendStatusMailRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	report, err := h.tickets.SendStatusMail(c.UserContext(), req.TicketID)
	if err != nil {
		return err
	}
	resp := dto.SendStatusMailResponse{Message: "Status mail sent", TicketID: strings.TrimSpace(req.TicketID)}
	if report.Status != nil {
		status := report.Status.Status
		resp.TicketStatus = &status
	}
	if report.Comment != nil {
		comment := report.Comment.Comment
		resp.Comment = &comment
	}
	return data(c, http.StatusOK, resp)
}

func parseTicketFilter(c *fiber.Ctx) (domain.TicketFilter, error) {
	filter := domain.TicketFilter{
		Statuses:       convertList[domain.TicketStatus](c.Query("status")),
		Categories:     convertList[domain.TicketCategory](c.Query("category")),
		Priorities:     convertList[domain.TicketPriority](c.Query("priority")),
		ContactMethods: convertList[domain.ContactMethod](c.Query("contact_method")),
		Departments:    splitList(c.Query("department")),
		SearchTerm:     strings.TrimSpace(c.Query("q")),
	}
	var err error
	if filter.CreatedFrom, err = parseTime("created_from", c.Query("created_from"), false); err != nil {
		return filter, err
	}
	if filter.CreatedTo, err = parseTime("created_to", c.Query("created_to"), true); err != nil {
		return filter, err
	}
	if filter.Limit, err = parseInt("limit", c.Query("limit")); err != nil {
		return filter, err
	}
	if filter.Offset, err = parseInt("offset", c.Query("offset")); err != nil {
		return filter, err
	}
	return filter, nil
}
