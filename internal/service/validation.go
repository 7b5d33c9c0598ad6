package service

import (
	"errors"
	"strings"
	"time"
	"unicode"

	"github.com/dolluzcorp/dassist-helpdesk/internal/repository"
	apperrors "github.com/dolluzcorp/dassist-helpdesk/pkg/util"
)

// Clock returns the current time; tests replace it.
type Clock func() time.Time

// stamp is the timestamp written to rows. Postgres keeps microseconds, so
// truncating keeps in-memory and stored values equal.
func stamp(clock Clock) time.Time {
	if clock == nil {
		clock = time.Now
	}
	return clock().UTC().Truncate(time.Microsecond)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func isTenDigits(s string) bool {
	if len(s) != 10 {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// fieldErrors collects per-field validation messages.
type fieldErrors map[string]any

func (f fieldErrors) add(field, msg string) {
	f[field] = msg
}

func (f fieldErrors) err(message string) error {
	if len(f) == 0 {
		return nil
	}
	return apperrors.NewValidationError(message, f)
}

// notFound translates a repository miss into a 404 for resource.
func notFound(err error, resource string, details map[string]any) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NewNotFound(resource, details)
	}
	return err
}
