// Package mail delivers outbound transactional email. Delivery is attempted
// exactly once per call; failures surface to the caller synchronously.
package mail

import (
	"fmt"
	"net/smtp"

	"github.com/rs/zerolog/log"

	"github.com/dmordi/habari-blog-be/internal/apperr"
	"github.com/dmordi/habari-blog-be/internal/config"
)

// Mailer sends transactional email.
type Mailer interface {
	SendPasswordReset(to, resetLink string) error
}

// SMTPMailer sends mail through an authenticated SMTP relay.
type SMTPMailer struct {
	host     string
	port     int
	username string
	password string
	from     string
}

// NewSMTPMailer creates an SMTPMailer from the application configuration.
func NewSMTPMailer(cfg *config.Config) *SMTPMailer {
	return &SMTPMailer{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		username: cfg.SMTPUsername,
		password: cfg.SMTPPassword,
		from:     cfg.MailFrom,
	}
}

// SendPasswordReset emails a password reset link to the given address.
func (m *SMTPMailer) SendPasswordReset(to, resetLink string) error {
	body := fmt.Sprintf("To: %s\r\n"+
		"Subject: Password Reset\r\n"+
		"MIME-Version: 1.0\r\n"+
		"Content-Type: text/html; charset=UTF-8\r\n"+
		"\r\n"+
		`You are receiving this email because you requested a password reset. Click the following link to reset your password: <a href="%s">Reset Password</a>`+"\r\n",
		to, resetLink)

	addr := fmt.Sprintf("%s:%d", m.host, m.port)
	auth := smtp.PlainAuth("", m.username, m.password, m.host)
	if err := smtp.SendMail(addr, auth, m.from, []string{to}, []byte(body)); err != nil {
		return fmt.Errorf("sending password reset mail: %v: %w", err, apperr.ErrDependency)
	}
	return nil
}

// LogMailer logs mail instead of sending it. Used when no SMTP relay is
// configured, typically in development.
type LogMailer struct{}

// SendPasswordReset logs the reset link.
func (LogMailer) SendPasswordReset(to, resetLink string) error {
	log.Info().Str("to", to).Str("link", resetLink).Msg("Password reset mail (SMTP not configured)")
	return nil
}
