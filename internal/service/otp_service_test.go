package service

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dolluzcorp/dassist-helpdesk/internal/domain"
	"github.com/dolluzcorp/dassist-helpdesk/internal/notify"
)

func TestGenerateOTPRange(t *testing.T) {
	for i := 0; i < 200; i++ {
		code, err := GenerateOTP()
		require.NoError(t, err)
		require.Len(t, code, domain.OTPLength)
		n, err := strconv.Atoi(code)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, 100000)
		assert.LessOrEqual(t, n, 999999)
	}
}

func TestSendOTPRequiresKnownEmployee(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	requireStatus(t, h.otps.Send(ctx, "", domain.OTPPurposeEmailVerification), http.StatusBadRequest)
	requireStatus(t, h.otps.Send(ctx, "ghost@dolluzcorp.com", domain.OTPPurposeEmailVerification), http.StatusNotFound)
	assert.Empty(t, h.mail.Messages())
}

func TestSendOTPMailsCodeAndAppliesCooldown(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.addEmployee(t, "Arun", "arun@dolluzcorp.com", "User", "")

	require.NoError(t, h.otps.Send(ctx, "Arun@dolluzcorp.com", domain.OTPPurposeEmailVerification))
	messages := h.mail.Messages()
	require.Len(t, messages, 1)
	assert.Equal(t, notify.TemplateOTPVerify, messages[0].Template)
	assert.Equal(t, []string{"arun@dolluzcorp.com"}, messages[0].To)
	assert.Contains(t, messages[0].HTMLBody, "482913")

	requireStatus(t, h.otps.Send(ctx, "arun@dolluzcorp.com", domain.OTPPurposeEmailVerification), http.StatusTooManyRequests)
}

func TestSendOTPFailsOpenWithoutCooldownStore(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.addEmployee(t, "Arun", "arun@dolluzcorp.com", "User", "")
	h.cooldown.err = errors.New("redis unavailable")

	require.NoError(t, h.otps.Send(ctx, "arun@dolluzcorp.com", domain.OTPPurposeEmailVerification))
	require.NoError(t, h.otps.Send(ctx, "arun@dolluzcorp.com", domain.OTPPurposeEmailVerification))
}

func TestSendOTPMailFailure(t *testing.T) {
	h := newHarness(t)
	h.addEmployee(t, "Arun", "arun@dolluzcorp.com", "User", "")
	h.mail.SetErr(errors.New("smtp down"))

	domainErr := requireStatus(t, h.otps.Send(context.Background(), "arun@dolluzcorp.com", domain.OTPPurposeEmailVerification), http.StatusInternalServerError)
	assert.Equal(t, "OTP_MAIL_FAILED", domainErr.Code)
}

func TestVerifyOTP(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.addEmployee(t, "Arun", "arun@dolluzcorp.com", "User", "")

	requireStatus(t, h.otps.Verify(ctx, "arun@dolluzcorp.com", "482913"), http.StatusNotFound)
	require.NoError(t, h.otps.Send(ctx, "arun@dolluzcorp.com", domain.OTPPurposeEmailVerification))

	requireStatus(t, h.otps.Verify(ctx, "arun@dolluzcorp.com", "111111"), http.StatusUnauthorized)
	require.NoError(t, h.otps.Verify(ctx, "arun@dolluzcorp.com", "482913"))
	// Verify alone does not burn the code.
	require.NoError(t, h.otps.Verify(ctx, "arun@dolluzcorp.com", "482913"))
}

func TestVerifyOTPAfterExpiryReportsGone(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.addEmployee(t, "Arun", "arun@dolluzcorp.com", "User", "")
	require.NoError(t, h.otps.Send(ctx, "arun@dolluzcorp.com", domain.OTPPurposeEmailVerification))

	h.clock.Advance(5*time.Minute + time.Second)
	requireStatus(t, h.otps.Verify(ctx, "arun@dolluzcorp.com", "482913"), http.StatusGone)
	requireStatus(t, h.otps.Verify(ctx, "arun@dolluzcorp.com", "000000"), http.StatusUnauthorized)
}
