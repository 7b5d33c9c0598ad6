package domain

import "time"

// OTPPurpose selects the mail template for an issued code.
type OTPPurpose string

const (
	OTPPurposeEmailVerification OTPPurpose = "email_verification"
	OTPPurposePasswordReset     OTPPurpose = "password_reset"
)

// OTPLength is the number of digits in a code.
const OTPLength = 6

// OTPRecord is the single live code for an identifier.
type OTPRecord struct {
	Identifier string
	Code       string
	ExpiresAt  time.Time
}

// Expired reports whether the code is past its validity window at now.
func (r *OTPRecord) Expired(now time.Time) bool {
	return now.After(r.ExpiresAt)
}
