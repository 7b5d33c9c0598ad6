// Package memory implements the repository interfaces in process memory. It
// backs development runs without POSTGRES_DSN and the service and handler tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dolluzcorp/dassist-helpdesk/internal/domain"
	"github.com/dolluzcorp/dassist-helpdesk/internal/repository"
)

// Store holds every table behind one mutex, which also stands in for the
// ticket row lock.
type Store struct {
	mu sync.Mutex

	ticketSeq   int64
	tickets     map[string]*domain.Ticket
	employeeSeq int64
	employees   map[string]*domain.Employee
	eventSeq    int64
	historyID   int64
	statuses    []domain.StatusEntry
	comments    []domain.CommentEntry
	otps        map[string]domain.OTPRecord
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		tickets:   map[string]*domain.Ticket{},
		employees: map[string]*domain.Employee{},
		otps:      map[string]domain.OTPRecord{},
	}
}

// Tickets exposes the ticket repository view.
func (s *Store) Tickets() repository.TicketRepository { return ticketStore{s} }

// History exposes the history repository view.
func (s *Store) History() repository.TicketHistoryRepository { return historyStore{s} }

// Employees exposes the employee repository view.
func (s *Store) Employees() repository.EmployeeRepository { return employeeStore{s} }

// OTPs exposes the otp repository view.
func (s *Store) OTPs() repository.OTPRepository { return otpStore{s} }

type ticketStore struct{ s *Store }

func (r ticketStore) Create(_ context.Context, ticket *domain.Ticket, prefix string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.ticketSeq++
	ticket.Key = r.s.ticketSeq
	ticket.TicketID = domain.FormatTicketID(prefix, ticket.CreatedAt.Year(), ticket.Key)
	stored := *ticket
	r.s.tickets[ticket.TicketID] = &stored
	return nil
}

func (r ticketStore) GetByTicketID(_ context.Context, ticketID string) (*domain.TicketWithEmployee, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	ticket, ok := r.s.tickets[ticketID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	joined := r.s.join(ticket)
	return &joined, nil
}

func (r ticketStore) List(_ context.Context, filter domain.TicketFilter) ([]domain.TicketWithEmployee, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	result := []domain.TicketWithEmployee{}
	term := strings.ToLower(strings.TrimSpace(filter.SearchTerm))
	for _, ticket := range r.s.tickets {
		joined := r.s.join(ticket)
		if !matches(joined, filter, term) {
			continue
		}
		result = append(result, joined)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].Key > result[j].Key
	})

	if filter.Offset > 0 {
		if filter.Offset >= len(result) {
			return []domain.TicketWithEmployee{}, nil
		}
		result = result[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(result) {
		result = result[:filter.Limit]
	}
	return result, nil
}

func (r ticketStore) CountByStatus(_ context.Context, category string) ([]domain.StatusCount, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	totals := map[domain.TicketStatus]int64{}
	for _, ticket := range r.s.tickets {
		if category != "" && string(ticket.Category) != category {
			continue
		}
		totals[ticket.Status]++
	}
	counts := make([]domain.StatusCount, 0, len(totals))
	for status, n := range totals {
		counts = append(counts, domain.StatusCount{Status: status, Count: n})
	}
	sort.Slice(counts, func(i, j int) bool { return counts[i].Status < counts[j].Status })
	return counts, nil
}

func (r ticketStore) ApplyChange(_ context.Context, ticketID string, decide repository.ChangeFunc) (*domain.Ticket, domain.TicketChange, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.tickets[ticketID]
	if !ok {
		return nil, domain.TicketChange{}, repository.ErrNotFound
	}
	current := *stored
	change, err := decide(&current)
	if err != nil {
		return nil, domain.TicketChange{}, err
	}
	if st := change.Status; st != nil {
		r.s.eventSeq++
		r.s.historyID++
		st.ID, st.Seq, st.TicketID = r.s.historyID, r.s.eventSeq, ticketID
		r.s.statuses = append(r.s.statuses, *st)
		stored.Status = st.Status
	}
	if cm := change.Comment; cm != nil {
		r.s.eventSeq++
		r.s.historyID++
		cm.ID, cm.Seq, cm.TicketID = r.s.historyID, r.s.eventSeq, ticketID
		r.s.comments = append(r.s.comments, *cm)
	}
	result := *stored
	return &result, change, nil
}

func (s *Store) join(ticket *domain.Ticket) domain.TicketWithEmployee {
	joined := domain.TicketWithEmployee{Ticket: *ticket}
	if e, ok := s.employees[ticket.EmpID]; ok {
		joined.EmployeeName = e.Name
		joined.EmployeeEmail = e.Email
		joined.EmployeeDepartment = e.Department
		joined.EmployeeMobile = e.MobileNo
	}
	return joined
}

func (s *Store) actorName(empID string) string {
	if e, ok := s.employees[empID]; ok {
		return e.Name
	}
	return ""
}

func matches(t domain.TicketWithEmployee, f domain.TicketFilter, term string) bool {
	if !contains(f.Statuses, t.Status) ||
		!contains(f.Categories, t.Category) ||
		!contains(f.Priorities, t.Priority) ||
		!contains(f.ContactMethods, t.ContactMethod) ||
		!contains(f.Departments, t.EmployeeDepartment) {
		return false
	}
	if f.CreatedFrom != nil && t.CreatedAt.Before(*f.CreatedFrom) {
		return false
	}
	if f.CreatedTo != nil && t.CreatedAt.After(*f.CreatedTo) {
		return false
	}
	if term != "" {
		haystack := strings.ToLower(t.Subject + "\n" + t.Description + "\n" + t.TicketID)
		if !strings.Contains(haystack, term) {
			return false
		}
	}
	return true
}

// contains treats an empty set as matching everything.
func contains[T comparable](set []T, v T) bool {
	if len(set) == 0 {
		return true
	}
	for _, candidate := range set {
		if candidate == v {
			return true
		}
	}
	return false
}

type historyStore struct{ s *Store }

func (r historyStore) ListStatus(_ context.Context, ticketID string) ([]domain.StatusEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	entries := []domain.StatusEntry{}
	for _, e := range r.s.statuses {
		if e.TicketID == ticketID {
			e.ActorName = r.s.actorName(e.UpdatedBy)
			entries = append(entries, e)
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return earlier(entries[i].CreatedAt, entries[i].Seq, entries[j].CreatedAt, entries[j].Seq)
	})
	return entries, nil
}

func (r historyStore) ListComments(_ context.Context, ticketID string) ([]domain.CommentEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	entries := []domain.CommentEntry{}
	for _, e := range r.s.comments {
		if e.TicketID == ticketID {
			e.ActorName = r.s.actorName(e.AddedBy)
			entries = append(entries, e)
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return earlier(entries[i].CreatedAt, entries[i].Seq, entries[j].CreatedAt, entries[j].Seq)
	})
	return entries, nil
}

func (r historyStore) LatestStatus(ctx context.Context, ticketID string) (*domain.StatusEntry, error) {
	entries, err := r.ListStatus(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if latest := domain.LatestStatus(entries); latest != nil {
		entry := *latest
		return &entry, nil
	}
	return nil, nil
}

func (r historyStore) LatestComment(ctx context.Context, ticketID string) (*domain.CommentEntry, error) {
	entries, err := r.ListComments(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if latest := domain.LatestComment(entries); latest != nil {
		entry := *latest
		return &entry, nil
	}
	return nil, nil
}

func earlier(at time.Time, seq int64, otherAt time.Time, otherSeq int64) bool {
	if !at.Equal(otherAt) {
		return at.Before(otherAt)
	}
	return seq < otherSeq
}
