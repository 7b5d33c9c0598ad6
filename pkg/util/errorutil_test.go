package util

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDomainErrorKeepsWrappedDomainError(t *testing.T) {
	base := NewNotFound("ticket", map[string]any{"ticket_id": "DZIND-2025-00001"})
	wrapped := fmt.Errorf("load: %w", base)

	de := ToDomainError(wrapped)
	require.NotNil(t, de)
	assert.Equal(t, "NOT_FOUND", de.Code)
	assert.Equal(t, http.StatusNotFound, de.HTTPStatus)
	assert.Equal(t, "ticket not found", de.Message)
	assert.Equal(t, "DZIND-2025-00001", de.Details["ticket_id"])
}

func TestToDomainErrorMapsFiberErrors(t *testing.T) {
	de := ToDomainError(fiber.NewError(http.StatusRequestEntityTooLarge, "Request Entity Too Large"))
	assert.Equal(t, "VALIDATION_FAILED", de.Code)
	assert.Equal(t, http.StatusRequestEntityTooLarge, de.HTTPStatus)

	de = ToDomainError(fiber.ErrNotFound)
	assert.Equal(t, "NOT_FOUND", de.Code)
}

func TestToDomainErrorHidesUnknownErrors(t *testing.T) {
	cause := errors.New("connection reset")
	de := ToDomainError(cause)
	assert.Equal(t, "INTERNAL_ERROR", de.Code)
	assert.Equal(t, "internal server error", de.Message)
	assert.ErrorIs(t, de, cause)
	assert.Nil(t, ToDomainError(nil))
}

func TestUpstreamErrorStatus(t *testing.T) {
	err := NewUpstreamError("failed to send status mail", errors.New("421 service not available"))
	de := ToDomainError(err)
	assert.Equal(t, http.StatusBadGateway, de.HTTPStatus)
	assert.Contains(t, err.Error(), "421")
}
