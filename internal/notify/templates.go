package notify

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/dolluzcorp/dassist-helpdesk/internal/domain"
)

// Template names, also used as the mail metric label.
const (
	TemplateTicketSubmitted = "ticket_submitted"
	TemplateStatusUpdate    = "status_update"
	TemplateOTPVerify       = "otp_email_verification"
	TemplateOTPReset        = "otp_password_reset"
)

const layoutOpen = `<div style="font-family: Arial, sans-serif; padding: 15px; border: 1px solid #ddd; border-radius: 8px;">`

var templates = template.Must(template.New("mail").Parse(`
{{define "ticket_submitted"}}` + layoutOpen + `
  <h2 style="color: #4A90E2;">Ticket Submission Confirmation</h2>
  <p>Hello <strong>{{.EmployeeName}}</strong>,</p>
  <p>Your ticket <strong>{{.TicketID}}</strong> regarding "<em>{{.Subject}}</em>" has been <strong>Submitted</strong>.</p>
  <p><strong>Current Status:</strong> Submitted</p>
  <p><strong>Latest Comment:</strong> - </p>
  <br/>
  <p>For any concerns, amendments, or notes, please write to
    <a href="mailto:{{.OpsMailbox}}">{{.OpsMailbox}}</a> with the Ticket ID in the subject line.</p>
  <br/>
  <p style="color: #888;">Dolluz Support Team</p>
</div>{{end}}
{{define "status_update"}}` + layoutOpen + `
  <h2 style="color: #4A90E2;">Ticket Status Update</h2>
  <p>Hello <strong>{{.EmployeeName}}</strong>,</p>
  <p>There is an update on your ticket <strong>{{.TicketID}}</strong> regarding "<em>{{.Subject}}</em>".</p>
  {{if .Status}}<p><strong>Current Status:</strong> {{.Status}}</p>{{end}}
  {{if .Comment}}<p><strong>Latest Comment:</strong> {{.Comment}}</p>{{end}}
  <p><strong>Updated At:</strong> {{.UpdatedAt.Format "02 Jan 2006 15:04 MST"}}</p>
  <br/>
  <p>For any concerns, amendments, or notes, please write to
    <a href="mailto:{{.OpsMailbox}}">{{.OpsMailbox}}</a> with the Ticket ID in the subject line.</p>
  <br/>
  <p style="color: #888;">Dolluz Support Team</p>
</div>{{end}}
{{define "otp_email_verification"}}` + layoutOpen + `
  <h2 style="color: #4A90E2;">dAssist - Email Verification</h2>
  <p>Hello,</p>
  <p>We received a request to verify your email for accessing <strong>dAssist</strong>.</p>
  <p>Please use the OTP below to complete your verification:</p>
  <h3 style="color: #333; font-size: 24px;">{{.Code}}</h3>
  <p>This OTP is valid for <strong>{{.ValidMinutes}} minutes</strong>. Do not share it with anyone.</p>
  <p>If you did not request this verification, please ignore this message.</p>
  <br/>
  <p style="color: #888;">The dAssist Team</p>
</div>{{end}}
{{define "otp_password_reset"}}` + layoutOpen + `
  <h2 style="color: #4A90E2;">dAssist - Password Reset</h2>
  <p>Hello,</p>
  <p>We received a request to reset the password of your <strong>dAssist</strong> account.</p>
  <p>Use the OTP below to continue:</p>
  <h3 style="color: #333; font-size: 24px;">{{.Code}}</h3>
  <p>This OTP is valid for <strong>{{.ValidMinutes}} minutes</strong>. Do not share it with anyone.</p>
  <p>If you did not request a reset, you can safely ignore this email.</p>
  <br/>
  <p style="color: #888;">The dAssist Team</p>
</div>{{end}}
`))

// TicketSubmittedData fills the submission confirmation.
type TicketSubmittedData struct {
	TicketID     string
	EmployeeName string
	Subject      string
	OpsMailbox   string
}

// StatusUpdateData fills the status update mail. Empty Status or Comment
// leaves that line out.
type StatusUpdateData struct {
	TicketID     string
	EmployeeName string
	Subject      string
	Status       domain.TicketStatus
	Comment      string
	UpdatedAt    time.Time
	OpsMailbox   string
}

// OTPData fills both OTP templates.
type OTPData struct {
	Code         string
	ValidMinutes int
}

// TicketSubmittedMessage goes to the employee and the operations mailbox.
func TicketSubmittedMessage(employeeEmail string, d TicketSubmittedData) (Message, error) {
	return render(TemplateTicketSubmitted,
		fmt.Sprintf("[Ticket ID: %s] Support Request Notification", d.TicketID),
		recipients(employeeEmail, d.OpsMailbox), d)
}

// StatusUpdateMessage goes to the employee only.
func StatusUpdateMessage(employeeEmail string, d StatusUpdateData) (Message, error) {
	return render(TemplateStatusUpdate,
		fmt.Sprintf("[Ticket ID: %s] Status Update", d.TicketID),
		recipients(employeeEmail), d)
}

// OTPMessage picks the template for purpose.
func OTPMessage(to string, purpose domain.OTPPurpose, d OTPData) (Message, error) {
	if purpose == domain.OTPPurposePasswordReset {
		return render(TemplateOTPReset, "dAssist Password Reset - Your OTP Code", recipients(to), d)
	}
	return render(TemplateOTPVerify, "dAssist - Verify Your Email Address", recipients(to), d)
}

func render(name, subject string, to []string, data any) (Message, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return Message{}, fmt.Errorf("render %s: %w", name, err)
	}
	return Message{Template: name, To: to, Subject: subject, HTMLBody: buf.String()}, nil
}

func recipients(addrs ...string) []string {
	out := make([]string, 0, len(addrs))
	for _, a := range addrs {
		if a != "" {
			out = append(out, a)
		}
	}
	return out
}
