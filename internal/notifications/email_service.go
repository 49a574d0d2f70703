package notifications

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"eventhub/internal/shared/config"
	"eventhub/pkg/logger"
)

// EmailService delivers notifications over SMTP.
type EmailService struct {
	cfg *config.EmailConfig
	log *logger.Logger
}

// NewEmailService creates an email delivery service. Returns nil when SMTP
// is not configured, which disables email delivery.
func NewEmailService(cfg *config.EmailConfig) *EmailService {
	if cfg.SMTPHost == "" || cfg.SMTPUsername == "" {
		return nil
	}
	return &EmailService{cfg: cfg, log: logger.GetDefault()}
}

// Send delivers a single notification as a plain text email.
func (s *EmailService) Send(ctx context.Context, n *Notification) error {
	subject := s.subjectFor(n)
	body := s.bodyFor(n)

	message := s.buildMessage(n.Recipient, subject, body)

	auth := smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	addr := fmt.Sprintf("%s:%d", s.cfg.SMTPHost, s.cfg.SMTPPort)

	if err := smtp.SendMail(addr, auth, s.cfg.FromEmail, []string{n.Recipient}, message); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.log.InfoContext(ctx, "email sent",
		"recipient", n.Recipient,
		"type", string(n.Type),
	)
	return nil
}

func (s *EmailService) subjectFor(n *Notification) string {
	switch n.Type {
	case TypeBookingConfirmed:
		if n.EventTitle != "" {
			return fmt.Sprintf("Booking confirmed for %s", n.EventTitle)
		}
		return "Your booking is confirmed"
	case TypeBookingCancelled:
		if n.EventTitle != "" {
			return fmt.Sprintf("Booking cancelled for %s", n.EventTitle)
		}
		return "Your booking has been cancelled"
	case TypePaymentRecorded:
		return "Payment received"
	case TypePasswordReset:
		return "Password reset request"
	default:
		return "Notification from EventHub"
	}
}

func (s *EmailService) bodyFor(n *Notification) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\r\n\r\n", n.Name)

	switch n.Type {
	case TypeBookingConfirmed:
		fmt.Fprintf(&b, "Your booking for %s is confirmed.\r\nBooking reference: %s\r\n", n.EventTitle, n.BookingID)
	case TypeBookingCancelled:
		fmt.Fprintf(&b, "Your booking for %s has been cancelled.\r\nBooking reference: %s\r\n", n.EventTitle, n.BookingID)
	case TypePaymentRecorded:
		fmt.Fprintf(&b, "We received your payment of %.2f for %s.\r\nBooking reference: %s\r\n", n.Amount, n.EventTitle, n.BookingID)
	case TypePasswordReset:
		fmt.Fprintf(&b, "Use the token below to reset your password. It expires in one hour.\r\n\r\n%s\r\n", n.Meta["reset_token"])
	}

	b.WriteString("\r\nThe EventHub Team\r\n")
	return b.String()
}

func (s *EmailService) buildMessage(to, subject, body string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s <%s>\r\n", s.cfg.FromName, s.cfg.FromEmail)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	return []byte(b.String())
}
