package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen          TicketStatus = "Open"
	TicketStatusInReview      TicketStatus = "In Review"
	TicketStatusInProgress    TicketStatus = "In Progress"
	TicketStatusActionPending TicketStatus = "Action Pending"
	TicketStatusCancelled     TicketStatus = "Cancelled"
	TicketStatusResolved      TicketStatus = "Resolved"
)

// DefaultTicketStatus is assigned on creation, before any history exists.
const DefaultTicketStatus = TicketStatusOpen

var ticketStatuses = []TicketStatus{
	TicketStatusOpen,
	TicketStatusInReview,
	TicketStatusInProgress,
	TicketStatusActionPending,
	TicketStatusCancelled,
	TicketStatusResolved,
}

// TicketStatuses lists the known statuses in display order.
func TicketStatuses() []TicketStatus {
	return append([]TicketStatus(nil), ticketStatuses...)
}

// Valid reports whether the status is one of the known values.
func (s TicketStatus) Valid() bool {
	for _, candidate := range ticketStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// TicketCategory is the team a ticket is routed to.
type TicketCategory string

const (
	TicketCategoryIT      TicketCategory = "IT"
	TicketCategoryHR      TicketCategory = "HR"
	TicketCategoryAdmin   TicketCategory = "Admin"
	TicketCategoryFinance TicketCategory = "Finance"
)

func (c TicketCategory) Valid() bool {
	switch c {
	case TicketCategoryIT, TicketCategoryHR, TicketCategoryAdmin, TicketCategoryFinance:
		return true
	}
	return false
}

// TicketPriority enumerates urgency.
type TicketPriority string

const (
	TicketPriorityHigh   TicketPriority = "High"
	TicketPriorityMedium TicketPriority = "Medium"
	TicketPriorityLow    TicketPriority = "Low"
)

func (p TicketPriority) Valid() bool {
	switch p {
	case TicketPriorityHigh, TicketPriorityMedium, TicketPriorityLow:
		return true
	}
	return false
}

// ContactMethod is how the employee prefers to be reached.
type ContactMethod string

const (
	ContactMethodEmail  ContactMethod = "Email"
	ContactMethodMobile ContactMethod = "Mobile"
	ContactMethodCliq   ContactMethod = "Cliq"
)

func (m ContactMethod) Valid() bool {
	switch m {
	case ContactMethodEmail, ContactMethodMobile, ContactMethodCliq:
		return true
	}
	return false
}

// MaxSubjectLength bounds the ticket subject in characters.
const MaxSubjectLength = 250

// Ticket is the aggregate for support requests. Key is the database sequence
// value that TicketID embeds.
type Ticket struct {
	Key             int64
	TicketID        string
	EmpID           string
	AlternateMobile *string
	Category        TicketCategory
	Priority        TicketPriority
	ContactMethod   ContactMethod
	Subject         string
	Description     string
	AttachmentPath  *string
	Status          TicketStatus
	CreatedBy       string
	CreatedAt       time.Time
}

// TicketWithEmployee is a ticket row joined with its submitter.
type TicketWithEmployee struct {
	Ticket
	EmployeeName       string
	EmployeeEmail      string
	EmployeeDepartment string
	EmployeeMobile     string
}

// TicketFilter narrows the admin ticket listing. Zero values match everything.
type TicketFilter struct {
	Statuses       []TicketStatus
	Categories     []TicketCategory
	Priorities     []TicketPriority
	ContactMethods []ContactMethod
	Departments    []string
	SearchTerm     string
	CreatedFrom    *time.Time
	CreatedTo      *time.Time
	Limit          int
	Offset         int
}

// StatusCount is one slice of the ticket dashboard chart.
type StatusCount struct {
	Status TicketStatus
	Count  int64
}
