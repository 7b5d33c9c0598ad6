package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishRunsEveryHandler(t *testing.T) {
	d := NewInMemoryDispatcher()
	var calls []string
	boom := errors.New("boom")

	d.Subscribe(EventTicketSubmitted, func(_ context.Context, e Event) error {
		calls = append(calls, "first:"+e.TicketID)
		return boom
	})
	d.Subscribe(EventTicketSubmitted, func(_ context.Context, e Event) error {
		calls = append(calls, "second:"+e.TicketID)
		return nil
	})
	d.Subscribe(EventTicketCommentAdded, func(context.Context, Event) error {
		calls = append(calls, "other")
		return nil
	})

	err := d.Publish(context.Background(), NewEvent(EventTicketSubmitted, "DZIND-2025-00001", "emp", time.Now(), nil))
	require.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"first:DZIND-2025-00001", "second:DZIND-2025-00001"}, calls)
}

func TestPublishWithoutSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher()
	assert.NoError(t, d.Publish(context.Background(), Event{Type: EventTicketStatusChanged}))
}

func TestNewEventAssignsID(t *testing.T) {
	a := NewEvent(EventTicketSubmitted, "T", "A", time.Now(), nil)
	b := NewEvent(EventTicketSubmitted, "T", "A", time.Now(), nil)
	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestPublishRecoversHandlerPanic(t *testing.T) {
	d := NewInMemoryDispatcher()
	var reached bool
	d.Subscribe(EventTicketStatusChanged, func(context.Context, Event) error {
		panic("nil template")
	})
	d.Subscribe(EventTicketStatusChanged, func(context.Context, Event) error {
		reached = true
		return nil
	})

	err := d.Publish(context.Background(), NewEvent(EventTicketStatusChanged, "DZIND-2025-00002", "emp", time.Now(), nil))
	require.Error(t, err)
	assert.True(t, reached)

	var handlerErr *HandlerError
	require.ErrorAs(t, err, &handlerErr)
	assert.Equal(t, EventTicketStatusChanged, handlerErr.Type)
	assert.Equal(t, "DZIND-2025-00002", handlerErr.TicketID)
	assert.Contains(t, err.Error(), "nil template")
}
