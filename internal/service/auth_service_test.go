package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dolluzcorp/dassist-helpdesk/internal/domain"
)

func TestLoginAdmin(t *testing.T) {
	h := newHarness(t)
	admin := h.addEmployee(t, "Priya", "priya@dolluzcorp.com", "Admin", "s3cret")

	result, err := h.auth.Login(context.Background(), "PRIYA@dolluzcorp.com", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, admin.EmpID, result.Employee.EmpID)
	assert.NotEmpty(t, result.Token)

	claims, err := h.tokens.ParseToken(result.Token)
	require.NoError(t, err)
	assert.Equal(t, admin.EmpID, claims.EmpID)
}

func TestLoginRejections(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.addEmployee(t, "Priya", "priya@dolluzcorp.com", "Admin", "s3cret")
	user, err := h.employees.Create(ctx, "", employeeInput("meena@dolluzcorp.com", "User", "userpass"))
	require.NoError(t, err)

	_, err = h.auth.Login(ctx, "priya@dolluzcorp.com", "wrong")
	domainErr := requireStatus(t, err, http.StatusUnauthorized)
	assert.Equal(t, "Invalid credentials", domainErr.Message)

	_, err = h.auth.Login(ctx, "ghost@dolluzcorp.com", "s3cret")
	requireStatus(t, err, http.StatusUnauthorized)

	_, err = h.auth.Login(ctx, user.Email, "userpass")
	domainErr = requireStatus(t, err, http.StatusForbidden)
	assert.Equal(t, "Access denied. Only admins can login.", domainErr.Message)

	_, err = h.auth.Login(ctx, "", "")
	requireStatus(t, err, http.StatusBadRequest)
}

func TestLoginRefusesInactiveAccount(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	admin := h.addEmployee(t, "Priya", "priya@dolluzcorp.com", "Admin", "s3cret")

	input := employeeInput("priya@dolluzcorp.com", "Admin", "")
	inactive := false
	input.Active = &inactive
	_, err := h.employees.Update(ctx, "", admin.EmpID, input)
	require.NoError(t, err)

	_, err = h.auth.Login(ctx, "priya@dolluzcorp.com", "s3cret")
	requireStatus(t, err, http.StatusUnauthorized)
}

func TestUpdatePassword(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	admin := h.addEmployee(t, "Priya", "priya@dolluzcorp.com", "Admin", "old-pass")

	requireStatus(t, h.auth.VerifyPassword(ctx, admin.EmpID, "nope"), http.StatusUnauthorized)
	require.NoError(t, h.auth.VerifyPassword(ctx, admin.EmpID, "old-pass"))

	requireStatus(t, h.auth.UpdatePassword(ctx, admin.EmpID, "nope", "new-pass"), http.StatusUnauthorized)
	requireStatus(t, h.auth.UpdatePassword(ctx, admin.EmpID, "old-pass", ""), http.StatusBadRequest)
	require.NoError(t, h.auth.UpdatePassword(ctx, admin.EmpID, "old-pass", "new-pass"))

	_, err := h.auth.Login(ctx, "priya@dolluzcorp.com", "new-pass")
	require.NoError(t, err)
}

func TestResetPasswordConsumesOTP(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.addEmployee(t, "Priya", "priya@dolluzcorp.com", "Admin", "forgotten")

	require.NoError(t, h.otps.Send(ctx, "priya@dolluzcorp.com", domain.OTPPurposePasswordReset))
	requireStatus(t, h.auth.ResetPassword(ctx, "priya@dolluzcorp.com", "000000", "fresh"), http.StatusUnauthorized)
	require.NoError(t, h.auth.ResetPassword(ctx, "priya@dolluzcorp.com", "482913", "fresh"))

	_, err := h.auth.Login(ctx, "priya@dolluzcorp.com", "fresh")
	require.NoError(t, err)

	requireStatus(t, h.auth.ResetPassword(ctx, "priya@dolluzcorp.com", "482913", "again"), http.StatusNotFound)
}

func TestResetPasswordWithExpiredOTP(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.addEmployee(t, "Priya", "priya@dolluzcorp.com", "Admin", "forgotten")

	require.NoError(t, h.otps.Send(ctx, "priya@dolluzcorp.com", domain.OTPPurposePasswordReset))
	h.clock.Advance(6 * time.Minute)
	requireStatus(t, h.auth.ResetPassword(ctx, "priya@dolluzcorp.com", "482913", "fresh"), http.StatusGone)

	_, err := h.auth.Login(ctx, "priya@dolluzcorp.com", "forgotten")
	require.NoError(t, err)
}
