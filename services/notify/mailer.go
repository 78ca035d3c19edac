package notify

import (
	"fmt"

	"elanis/config"
	"elanis/models"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// Mailer sends application-decision emails. Delivery is best effort by
// contract: callers log a failure and move on, the decision itself is already
// committed.
type Mailer interface {
	SendApplicationDecision(to, firstName string, decision models.ApplicationStatus, reason string) error
}

// SMTPMailer implements Mailer over plain SMTP.
type SMTPMailer struct {
	Logger *zap.Logger
}

// SendApplicationDecision emails the applicant about the review outcome.
func (m *SMTPMailer) SendApplicationDecision(to, firstName string, decision models.ApplicationStatus, reason string) error {
	cfg := config.AppConfig
	if cfg.SMTPHost == "" {
		m.Logger.Warn("smtp not configured, skipping decision email", zap.String("to", to))
		return nil
	}

	subject := "Your provider application has been approved"
	body := fmt.Sprintf("Hi %s,\n\nCongratulations! Your provider application has been approved. Log in again to start accepting requests.\n", firstName)
	if decision == models.ApplicationRejected {
		subject = "Your provider application was not approved"
		body = fmt.Sprintf("Hi %s,\n\nUnfortunately your provider application was not approved.\n", firstName)
		if reason != "" {
			body += fmt.Sprintf("\nReason: %s\n", reason)
		}
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", cfg.SMTPFrom)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	dialer := gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword)
	if err := dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send decision email: %w", err)
	}
	return nil
}
