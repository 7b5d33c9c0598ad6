package domain

import (
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)

func TestMergeHistoryOrdersByTimeThenSeq(t *testing.T) {
	statuses := []StatusEntry{
		{Seq: 4, TicketID: "T", Status: TicketStatusResolved, UpdatedBy: "a", CreatedAt: base.Add(2 * time.Minute)},
		{Seq: 1, TicketID: "T", Status: TicketStatusInReview, UpdatedBy: "a", CreatedAt: base},
	}
	comments := []CommentEntry{
		{Seq: 2, TicketID: "T", Comment: "looking", AddedBy: "a", CreatedAt: base},
		{Seq: 3, TicketID: "T", Comment: "fixed", AddedBy: "b", CreatedAt: base.Add(time.Minute)},
	}

	events := MergeHistory(statuses, comments)
	require.Len(t, events, 4)

	assert.Equal(t, HistoryEventStatus, events[0].Type)
	assert.Equal(t, TicketStatusInReview, *events[0].Status)
	assert.Nil(t, events[0].Comment)

	assert.Equal(t, HistoryEventComment, events[1].Type)
	assert.Equal(t, "looking", *events[1].Comment)
	assert.Nil(t, events[1].Status)

	assert.Equal(t, "fixed", *events[2].Comment)
	assert.Equal(t, "b", events[2].ActorID)
	assert.Equal(t, TicketStatusResolved, *events[3].Status)
}

func TestMergeHistoryEmpty(t *testing.T) {
	assert.Empty(t, MergeHistory(nil, nil))
}

func TestCurrentStatusDefaultsToOpen(t *testing.T) {
	assert.Equal(t, TicketStatusOpen, CurrentStatus(nil))

	statuses := []StatusEntry{
		{Seq: 7, Status: TicketStatusInProgress, CreatedAt: base},
		{Seq: 9, Status: TicketStatusActionPending, CreatedAt: base},
		{Seq: 3, Status: TicketStatusInReview, CreatedAt: base.Add(-time.Hour)},
	}
	assert.Equal(t, TicketStatusActionPending, CurrentStatus(statuses))
}

func TestLatestCommentPicksNewest(t *testing.T) {
	assert.Nil(t, LatestComment(nil))
	comments := []CommentEntry{
		{Seq: 1, Comment: "first", CreatedAt: base},
		{Seq: 2, Comment: "second", CreatedAt: base.Add(time.Second)},
	}
	assert.Equal(t, "second", LatestComment(comments).Comment)
}

func TestMergeHistoryProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	build := func(statusOffsets, commentOffsets []int) ([]StatusEntry, []CommentEntry) {
		var seq int64
		statuses := make([]StatusEntry, 0, len(statusOffsets))
		for _, off := range statusOffsets {
			seq++
			statuses = append(statuses, StatusEntry{Seq: seq, Status: TicketStatusInProgress, CreatedAt: base.Add(time.Duration(off) * time.Second)})
		}
		comments := make([]CommentEntry, 0, len(commentOffsets))
		for _, off := range commentOffsets {
			seq++
			comments = append(comments, CommentEntry{Seq: seq, Comment: "c", CreatedAt: base.Add(time.Duration(off) * time.Second)})
		}
		return statuses, comments
	}

	offsets := gen.SliceOf(gen.IntRange(0, 5))

	properties.Property("merge keeps N+M events", prop.ForAll(
		func(statusOffsets, commentOffsets []int) bool {
			statuses, comments := build(statusOffsets, commentOffsets)
			return len(MergeHistory(statuses, comments)) == len(statuses)+len(comments)
		},
		offsets, offsets,
	))

	properties.Property("merge is ordered by time then seq", prop.ForAll(
		func(statusOffsets, commentOffsets []int) bool {
			statuses, comments := build(statusOffsets, commentOffsets)
			events := MergeHistory(statuses, comments)
			for i := 1; i < len(events); i++ {
				prev, cur := events[i-1], events[i]
				if cur.CreatedAt.Before(prev.CreatedAt) {
					return false
				}
				if cur.CreatedAt.Equal(prev.CreatedAt) && cur.Seq < prev.Seq {
					return false
				}
			}
			return true
		},
		offsets, offsets,
	))

	properties.Property("current status is the newest status event", prop.ForAll(
		func(statusOffsets []int) bool {
			statuses, _ := build(statusOffsets, nil)
			events := MergeHistory(statuses, nil)
			if len(events) == 0 {
				return CurrentStatus(statuses) == TicketStatusOpen
			}
			return LatestStatus(statuses).Seq == events[len(events)-1].Seq
		},
		offsets,
	))

	properties.TestingRun(t)
}
