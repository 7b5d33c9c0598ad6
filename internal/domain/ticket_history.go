package domain

import (
	"sort"
	"time"
)

// StatusEntry is one immutable row of ticket_status_history.
type StatusEntry struct {
	ID        int64
	Seq       int64
	TicketID  string
	Status    TicketStatus
	UpdatedBy string
	ActorName string
	CreatedAt time.Time
}

// CommentEntry is one immutable row of ticket_comment_history.
type CommentEntry struct {
	ID        int64
	Seq       int64
	TicketID  string
	Comment   string
	AddedBy   string
	ActorName string
	CreatedAt time.Time
}

// HistoryEventType tags a merged history event.
type HistoryEventType string

const (
	HistoryEventStatus  HistoryEventType = "status"
	HistoryEventComment HistoryEventType = "comment"
)

// HistoryEvent is the tagged union returned by MergeHistory. Exactly one of
// Status or Comment is set, matching Type.
type HistoryEvent struct {
	Type      HistoryEventType
	Seq       int64
	TicketID  string
	ActorID   string
	ActorName string
	Status    *TicketStatus
	Comment   *string
	CreatedAt time.Time
}

// TicketChange is what one save writes: zero, one or two history rows.
type TicketChange struct {
	Status  *StatusEntry
	Comment *CommentEntry
}

// Empty reports whether the change would write nothing.
func (c TicketChange) Empty() bool {
	return c.Status == nil && c.Comment == nil
}

// MergeHistory interleaves the two logs by timestamp, then by insertion sequence.
func MergeHistory(statuses []StatusEntry, comments []CommentEntry) []HistoryEvent {
	events := make([]HistoryEvent, 0, len(statuses)+len(comments))
	for i := range statuses {
		entry := statuses[i]
		status := entry.Status
		events = append(events, HistoryEvent{
			Type:      HistoryEventStatus,
			Seq:       entry.Seq,
			TicketID:  entry.TicketID,
			ActorID:   entry.UpdatedBy,
			ActorName: entry.ActorName,
			Status:    &status,
			CreatedAt: entry.CreatedAt,
		})
	}
	for i := range comments {
		entry := comments[i]
		comment := entry.Comment
		events = append(events, HistoryEvent{
			Type:      HistoryEventComment,
			Seq:       entry.Seq,
			TicketID:  entry.TicketID,
			ActorID:   entry.AddedBy,
			ActorName: entry.ActorName,
			Comment:   &comment,
			CreatedAt: entry.CreatedAt,
		})
	}
	sort.SliceStable(events, func(i, j int) bool {
		if !events[i].CreatedAt.Equal(events[j].CreatedAt) {
			return events[i].CreatedAt.Before(events[j].CreatedAt)
		}
		return events[i].Seq < events[j].Seq
	})
	return events
}

// CurrentStatus derives the ticket status from its status log.
func CurrentStatus(statuses []StatusEntry) TicketStatus {
	latest := LatestStatus(statuses)
	if latest == nil {
		return DefaultTicketStatus
	}
	return latest.Status
}

// LatestStatus returns the entry with the greatest (CreatedAt, Seq), or nil.
func LatestStatus(statuses []StatusEntry) *StatusEntry {
	var latest *StatusEntry
	for i := range statuses {
		if latest == nil || after(statuses[i].CreatedAt, statuses[i].Seq, latest.CreatedAt, latest.Seq) {
			latest = &statuses[i]
		}
	}
	return latest
}

// LatestComment returns the entry with the greatest (CreatedAt, Seq), or nil.
func LatestComment(comments []CommentEntry) *CommentEntry {
	var latest *CommentEntry
	for i := range comments {
		if latest == nil || after(comments[i].CreatedAt, comments[i].Seq, latest.CreatedAt, latest.Seq) {
			latest = &comments[i]
		}
	}
	return latest
}

func after(at time.Time, seq int64, otherAt time.Time, otherSeq int64) bool {
	if !at.Equal(otherAt) {
		return at.After(otherAt)
	}
	return seq > otherSeq
}
