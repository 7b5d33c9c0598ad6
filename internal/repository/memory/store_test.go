package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dolluzcorp/dassist-helpdesk/internal/domain"
	"github.com/dolluzcorp/dassist-helpdesk/internal/repository"
)

func TestTicketKeysAreSequential(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	at := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)

	first := &domain.Ticket{Status: domain.TicketStatusOpen, CreatedAt: at}
	second := &domain.Ticket{Status: domain.TicketStatusOpen, CreatedAt: at}
	require.NoError(t, store.Tickets().Create(ctx, first, "DZIND"))
	require.NoError(t, store.Tickets().Create(ctx, second, "DZIND"))

	assert.Equal(t, "DZIND-2025-00001", first.TicketID)
	assert.Equal(t, "DZIND-2025-00002", second.TicketID)
}

func TestApplyChangeSharesEventSequence(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	at := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)

	ticket := &domain.Ticket{Status: domain.TicketStatusOpen, CreatedAt: at}
	require.NoError(t, store.Tickets().Create(ctx, ticket, ""))

	_, change, err := store.Tickets().ApplyChange(ctx, ticket.TicketID, func(*domain.Ticket) (domain.TicketChange, error) {
		return domain.TicketChange{
			Status:  &domain.StatusEntry{Status: domain.TicketStatusInProgress, UpdatedBy: "a", CreatedAt: at},
			Comment: &domain.CommentEntry{Comment: "on it", AddedBy: "a", CreatedAt: at},
		}, nil
	})
	require.NoError(t, err)
	assert.Less(t, change.Status.Seq, change.Comment.Seq)

	got, err := store.Tickets().GetByTicketID(ctx, ticket.TicketID)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusInProgress, got.Status)

	latest, err := store.History().LatestComment(ctx, ticket.TicketID)
	require.NoError(t, err)
	assert.Equal(t, "on it", latest.Comment)
}

func TestSoftDeletedEmployeesAreHidden(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	at := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)

	employee := &domain.Employee{Name: "Meena", Email: "meena@dolluzcorp.com", Department: "HR", Active: true, CreatedAt: at}
	require.NoError(t, store.Employees().Create(ctx, employee, "dAssist"))
	require.NoError(t, store.Employees().SoftDelete(ctx, employee.EmpID, "admin", at))

	_, err := store.Employees().GetByEmpID(ctx, employee.EmpID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = store.Employees().GetByEmail(ctx, "MEENA@dolluzcorp.com")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	list, err := store.Employees().List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	// The address is free again once the holder is deleted.
	again := &domain.Employee{Name: "Meena R", Email: "meena@dolluzcorp.com", CreatedAt: at}
	require.NoError(t, store.Employees().Create(ctx, again, "dAssist"))
	assert.Equal(t, "dAssist-2025-00002", again.EmpID)
}

func TestListFiltersByDepartmentAndSearch(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	at := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)

	hr := &domain.Employee{Name: "Meena", Email: "meena@dolluzcorp.com", Department: "HR", CreatedAt: at}
	eng := &domain.Employee{Name: "Arun", Email: "arun@dolluzcorp.com", Department: "Engineering", CreatedAt: at}
	require.NoError(t, store.Employees().Create(ctx, hr, ""))
	require.NoError(t, store.Employees().Create(ctx, eng, ""))

	require.NoError(t, store.Tickets().Create(ctx, &domain.Ticket{EmpID: hr.EmpID, Subject: "Leave balance", Category: domain.TicketCategoryHR, CreatedAt: at}, ""))
	require.NoError(t, store.Tickets().Create(ctx, &domain.Ticket{EmpID: eng.EmpID, Subject: "Laptop fan", Category: domain.TicketCategoryIT, Status: domain.TicketStatusOpen, CreatedAt: at.Add(time.Hour)}, ""))

	all, err := store.Tickets().List(ctx, domain.TicketFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Laptop fan", all[0].Subject)

	byDept, err := store.Tickets().List(ctx, domain.TicketFilter{Departments: []string{"HR"}})
	require.NoError(t, err)
	require.Len(t, byDept, 1)
	assert.Equal(t, "Meena", byDept[0].EmployeeName)

	bySearch, err := store.Tickets().List(ctx, domain.TicketFilter{SearchTerm: "FAN"})
	require.NoError(t, err)
	require.Len(t, bySearch, 1)

	counts, err := store.Tickets().CountByStatus(ctx, "IT")
	require.NoError(t, err)
	assert.Equal(t, []domain.StatusCount{{Status: domain.TicketStatusOpen, Count: 1}}, counts)
}

func TestLatestEntriesOnEmptyHistory(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	status, err := store.History().LatestStatus(ctx, "DZIND-2025-00404")
	require.NoError(t, err)
	assert.Nil(t, status)

	comment, err := store.History().LatestComment(ctx, "DZIND-2025-00404")
	require.NoError(t, err)
	assert.Nil(t, comment)
}

func TestLatestStatusPrefersHigherSeqOnTie(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	at := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)

	ticket := &domain.Ticket{Status: domain.TicketStatusOpen, CreatedAt: at}
	require.NoError(t, store.Tickets().Create(ctx, ticket, ""))
	for _, next := range []domain.TicketStatus{domain.TicketStatusInReview, domain.TicketStatusResolved} {
		_, _, err := store.Tickets().ApplyChange(ctx, ticket.TicketID, func(*domain.Ticket) (domain.TicketChange, error) {
			return domain.TicketChange{Status: &domain.StatusEntry{Status: next, UpdatedBy: "a", CreatedAt: at}}, nil
		})
		require.NoError(t, err)
	}

	latest, err := store.History().LatestStatus(ctx, ticket.TicketID)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, domain.TicketStatusResolved, latest.Status)
}
