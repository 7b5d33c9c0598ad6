package domain

import "errors"

// ErrNothingToReport is returned when a ticket has neither status nor comment history.
var ErrNothingToReport = errors.New("no status or comment to report")

// StatusReport is the content of a status-update mail. Either field may be nil
// but not both.
type StatusReport struct {
	Status  *StatusEntry
	Comment *CommentEntry
}

// BuildStatusReport picks what to report from the latest entry of each log.
// The strictly newer one wins; equal timestamps report both.
func BuildStatusReport(latestStatus *StatusEntry, latestComment *CommentEntry) (StatusReport, error) {
	switch {
	case latestStatus == nil && latestComment == nil:
		return StatusReport{}, ErrNothingToReport
	case latestComment == nil:
		return StatusReport{Status: latestStatus}, nil
	case latestStatus == nil:
		return StatusReport{Comment: latestComment}, nil
	case latestStatus.CreatedAt.After(latestComment.CreatedAt):
		return StatusReport{Status: latestStatus}, nil
	case latestComment.CreatedAt.After(latestStatus.CreatedAt):
		return StatusReport{Comment: latestComment}, nil
	default:
		return StatusReport{Status: latestStatus, Comment: latestComment}, nil
	}
}
