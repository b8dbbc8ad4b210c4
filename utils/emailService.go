package utils

import (
	"fmt"
	"net/smtp"
	"strings"

	"helpdesk/config"
)

// SendEmail delivers an HTML mail over the configured SMTP relay.
// Callers fire it on a goroutine; a failed send is logged and otherwise
// ignored, it never reaches the request that triggered it.
func SendEmail(to []string, subject string, htmlBody string) error {
	cfg := config.AppConfig

	msg := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n"
	msg += fmt.Sprintf("From: %s <%s>\r\n", cfg.MailFromName, cfg.MailFromAddress)
	msg += fmt.Sprintf("To: %s\r\n", strings.Join(to, ","))
	msg += fmt.Sprintf("Subject: %s\r\n\r\n", subject)
	msg += htmlBody

	var auth smtp.Auth
	if cfg.MailUser != "" {
		auth = smtp.PlainAuth("", cfg.MailUser, cfg.MailPass, cfg.MailHost)
	}

	err := smtp.SendMail(cfg.MailHost+":"+cfg.MailPort, auth, cfg.MailFromAddress, to, []byte(msg))
	if err != nil {
		fmt.Println("Error sending email:", err)
		return err
	}
	return nil
}

// HTML wrapper shared by all notification mails
func getEmailTemplate(title string, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: Arial, sans-serif; background-color: #f5f7fa; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 20px auto; background: #ffffff; border-radius: 8px; overflow: hidden; box-shadow: 0 4px 6px rgba(0,0,0,0.1); }
			.header { background-color: #3b82f6; padding: 30px 20px; text-align: center; }
			.header h1 { color: #ffffff; margin: 0; font-size: 24px; }
			.content { padding: 30px 25px; color: #333; line-height: 1.5; }
			.ticket-box { background-color: #f0f4f8; padding: 20px; border-left: 4px solid #3b82f6; border-radius: 4px; margin: 25px 0; font-weight: 600; color: #1e40af; }
			.btn { display: inline-block; padding: 12px 24px; background-color: #3b82f6; color: #ffffff; text-decoration: none; border-radius: 6px; font-weight: 600; margin-top: 20px; }
			.footer { background-color: #f9fafb; padding: 20px; text-align: center; font-size: 13px; color: #6b7280; border-top: 1px solid #e5e7eb; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header">
				<h1>Ticket System</h1>
			</div>
			<div class="content">
				<h2>%s</h2>
				%s
			</div>
			<div class="footer">
				This is an automated message. Please do not reply to this email.
			</div>
		</div>
	</body>
	</html>
	`, title, bodyContent)
}

// SendTicketAssignmentEmail notifies a user that a ticket was assigned to them
func SendTicketAssignmentEmail(email, userName, ticketNumber, ticketTitle, ticketURL, assignedBy string) {
	subject := "Ticket Assigned: " + ticketNumber
	body := fmt.Sprintf(`
		<p>Hello %s,</p>
		<p>You have been assigned a new ticket:</p>
		<div class="ticket-box">%s: %s</div>
		<p>This ticket was assigned to you by %s.</p>
		<a href="%s" class="btn">View Ticket</a>
	`, userName, ticketNumber, ticketTitle, assignedBy, ticketURL)

	go SendEmail([]string{email}, subject, getEmailTemplate("New Assignment", body))
}

// SendTicketUpdateEmail notifies a user about a change on a ticket they follow
func SendTicketUpdateEmail(email, userName, ticketNumber, ticketTitle, ticketURL, updateType, updateDetails, updatedBy string) {
	subject := "Ticket Updated: " + ticketNumber
	body := fmt.Sprintf(`
		<p>Hello %s,</p>
		<p>There has been an update to ticket:</p>
		<div class="ticket-box">%s: %s</div>
		<p><strong>Update Type:</strong> %s</p>
		<p><strong>Details:</strong> %s</p>
		<p><strong>Updated By:</strong> %s</p>
		<a href="%s" class="btn">View Ticket</a>
	`, userName, ticketNumber, ticketTitle, updateType, updateDetails, updatedBy, ticketURL)

	go SendEmail([]string{email}, subject, getEmailTemplate("Ticket Update", body))
}

// SendPasswordResetEmail carries the single-use reset link
func SendPasswordResetEmail(email, userName, resetURL string) {
	subject := "Password Reset Request"
	body := fmt.Sprintf(`
		<p>Hello %s,</p>
		<p>We received a request to reset your password. The link below is valid for one hour and can be used once.</p>
		<a href="%s" class="btn">Reset Password</a>
		<p>If you did not request a password reset, you can safely ignore this email.</p>
	`, userName, resetURL)

	go SendEmail([]string{email}, subject, getEmailTemplate("Password Reset", body))
}

// SendWelcomeEmail greets a newly registered user
func SendWelcomeEmail(email, userName string) {
	subject := "Welcome to Ticket System"
	body := fmt.Sprintf(`
		<p>Hello %s,</p>
		<p>Your account has been created successfully. You can now create and track support tickets.</p>
	`, userName)

	go SendEmail([]string{email}, subject, getEmailTemplate("Welcome!", body))
}
