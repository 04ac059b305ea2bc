package notification

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/verenigingen/membership-api/internal/config"
	"github.com/verenigingen/membership-api/internal/model"
	"github.com/verenigingen/membership-api/internal/shared/logger"

	"golang.org/x/time/rate"
)

// Notifier is the email side of the application lifecycle. Send failures are
// always treated as non-fatal by callers: an application must never fail
// because the mail server is down.
type Notifier interface {
	SendApplicationConfirmation(ctx context.Context, m *model.Member) error
	SendReviewerNotification(ctx context.Context, m *model.Member) error
	SendApprovalEmail(ctx context.Context, m *model.Member, invoice *model.Invoice) error
	SendRejectionEmail(ctx context.Context, m *model.Member, reason string) error
}

// EmailService sends notifications over SMTP. Outgoing sends are throttled so
// a burst of applications cannot trip the provider's abuse limits.
type EmailService struct {
	cfg     config.SMTPConfig
	limiter *rate.Limiter
}

func NewEmailService(cfg *config.Config) *EmailService {
	perMin := cfg.SMTP.SendsPerMin
	if perMin < 1 {
		perMin = 1
	}
	return &EmailService{
		cfg:     cfg.SMTP,
		limiter: rate.NewLimiter(rate.Limit(float64(perMin)/60.0), perMin),
	}
}

func (s *EmailService) SendApplicationConfirmation(ctx context.Context, m *model.Member) error {
	subject := fmt.Sprintf("Application received - %s", m.ApplicationID)

	var sb strings.Builder
	sb.WriteString("<html><body style=\"font-family: Arial, sans-serif;\">")
	sb.WriteString(fmt.Sprintf("<h2>Thank you for your application, %s</h2>", m.FirstName))
	sb.WriteString(fmt.Sprintf("<p>We received your membership application <strong>%s</strong> and will review it shortly.</p>", m.ApplicationID))
	if m.SelectedChapter != "" {
		sb.WriteString(fmt.Sprintf("<p>Suggested chapter: %s</p>", m.SelectedChapter))
	}
	sb.WriteString("<p>You can check the status of your application at any time using your application number.</p>")
	sb.WriteString("</body></html>")

	return s.send(ctx, []string{m.Email}, subject, sb.String())
}

func (s *EmailService) SendReviewerNotification(ctx context.Context, m *model.Member) error {
	if s.cfg.ReviewerAddr == "" {
		return nil
	}

	subject := fmt.Sprintf("New membership application %s", m.ApplicationID)

	var sb strings.Builder
	sb.WriteString("<html><body style=\"font-family: Arial, sans-serif;\">")
	sb.WriteString("<h2>New membership application</h2>")
	sb.WriteString("<table style=\"border-collapse: collapse;\">")
	sb.WriteString(fmt.Sprintf("<tr><td><strong>Applicant</strong></td><td>%s</td></tr>", m.FullName))
	sb.WriteString(fmt.Sprintf("<tr><td><strong>Application</strong></td><td>%s</td></tr>", m.ApplicationID))
	sb.WriteString(fmt.Sprintf("<tr><td><strong>Membership type</strong></td><td>%s</td></tr>", m.SelectedMembershipType))
	if m.SelectedChapter != "" {
		sb.WriteString(fmt.Sprintf("<tr><td><strong>Chapter</strong></td><td>%s</td></tr>", m.SelectedChapter))
	}
	sb.WriteString("</table>")
	sb.WriteString("</body></html>")

	return s.send(ctx, []string{s.cfg.ReviewerAddr}, subject, sb.String())
}

func (s *EmailService) SendApprovalEmail(ctx context.Context, m *model.Member, invoice *model.Invoice) error {
	subject := "Your membership application has been approved"

	var sb strings.Builder
	sb.WriteString("<html><body style=\"font-family: Arial, sans-serif;\">")
	sb.WriteString(fmt.Sprintf("<h2>Welcome, %s!</h2>", m.FirstName))
	sb.WriteString("<p>Your membership application has been approved.</p>")
	if invoice != nil {
		sb.WriteString(fmt.Sprintf("<p>Your membership fee invoice totals <strong>%.2f</strong>.</p>", invoice.Total))
	}
	sb.WriteString("</body></html>")

	return s.send(ctx, []string{m.Email}, subject, sb.String())
}

func (s *EmailService) SendRejectionEmail(ctx context.Context, m *model.Member, reason string) error {
	subject := "Your membership application"

	var sb strings.Builder
	sb.WriteString("<html><body style=\"font-family: Arial, sans-serif;\">")
	sb.WriteString(fmt.Sprintf("<p>Dear %s,</p>", m.FirstName))
	sb.WriteString("<p>Unfortunately we cannot accept your membership application at this time.</p>")
	if reason != "" {
		sb.WriteString(fmt.Sprintf("<p>Reason: %s</p>", reason))
	}
	sb.WriteString("</body></html>")

	return s.send(ctx, []string{m.Email}, subject, sb.String())
}

func (s *EmailService) send(ctx context.Context, recipients []string, subject, body string) error {
	log := logger.FromContext(ctx)

	if !s.cfg.Enabled || s.cfg.Host == "" {
		log.Debug("email sending disabled, skipping", "subject", subject)
		return nil
	}
	if len(recipients) == 0 {
		return nil
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("email throttle: %w", err)
	}

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)

	var msg strings.Builder
	msg.WriteString(fmt.Sprintf("From: %s\r\n", s.cfg.From))
	msg.WriteString(fmt.Sprintf("To: %s\r\n", strings.Join(recipients, ",")))
	msg.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)

	var err error
	if s.cfg.UseTLS {
		err = s.sendWithStartTLS(addr, recipients, msg.String())
	} else {
		var auth smtp.Auth
		if s.cfg.Username != "" {
			auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
		}
		err = smtp.SendMail(addr, auth, s.cfg.From, recipients, []byte(msg.String()))
	}
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}

	log.Info("email sent", "subject", subject, "recipients", len(recipients))
	return nil
}

func (s *EmailService) sendWithStartTLS(addr string, recipients []string, msg string) error {
	client, err := smtp.Dial(addr)
	if err != nil {
		return err
	}
	defer client.Close()

	if ok, _ := client.Extension("STARTTLS"); ok {
		tlsConfig := &tls.Config{ServerName: s.cfg.Host}
		if err := client.StartTLS(tlsConfig); err != nil {
			return err
		}
	}

	if s.cfg.Username != "" {
		auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
		if err := client.Auth(auth); err != nil {
			return err
		}
	}

	if err := client.Mail(s.cfg.From); err != nil {
		return err
	}
	for _, rcpt := range recipients {
		if err := client.Rcpt(rcpt); err != nil {
			return err
		}
	}

	writer, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := writer.Write([]byte(msg)); err != nil {
		return err
	}
	if err := writer.Close(); err != nil {
		return err
	}

	return client.Quit()
}
