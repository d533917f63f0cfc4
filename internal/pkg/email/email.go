package email

import (
	"crypto/tls"
	"fmt"
	"html"
	"net/smtp"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// EmailService defines the interface for email operations
type EmailService interface {
	SendRegistrationPendingEmail(toEmail, toName string) error
	SendAccountApprovedEmail(toEmail, toName string) error
}

// SMTPConfig holds configuration for SMTP server
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromName  string
	FromEmail string
	UseTLS    bool
	BaseURL   string
}

// EmailServiceImpl implements EmailService
type EmailServiceImpl struct {
	config SMTPConfig
	logger zerolog.Logger
	send   func(toEmail string, message []byte) error
}

// NewEmailService creates a new EmailService
func NewEmailService(config SMTPConfig, logger zerolog.Logger) *EmailServiceImpl {
	s := &EmailServiceImpl{
		config: config,
		logger: logger,
	}
	s.send = s.deliver
	return s
}

// Configured reports whether SMTP credentials were provided
func (s *EmailServiceImpl) Configured() bool {
	return s.config.Host != "" && s.config.Username != "" && s.config.Password != ""
}

// SendRegistrationPendingEmail tells a new member their account awaits approval
func (s *EmailServiceImpl) SendRegistrationPendingEmail(toEmail, toName string) error {
	subject := "Registration received - Alumni Association"
	body := fmt.Sprintf(`
		<html>
		<body>
			<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
				<h2 style="color: #333;">Thanks for registering!</h2>
				<p>Hello %s,</p>
				<p>Your registration was received. An administrator will review your account shortly and you will be notified once it is approved.</p>
				<p>Best regards,<br>The Alumni Association</p>
			</div>
		</body>
		</html>
	`, html.EscapeString(toName))

	return s.sendHTMLEmail(toEmail, subject, body)
}

// SendAccountApprovedEmail tells a member they can now sign in
func (s *EmailServiceImpl) SendAccountApprovedEmail(toEmail, toName string) error {
	subject := "Your alumni account is approved"
	loginURL := strings.TrimRight(s.config.BaseURL, "/") + "/login"
	body := fmt.Sprintf(`
		<html>
		<body>
			<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
				<h2 style="color: #333;">Welcome aboard!</h2>
				<p>Hello %s,</p>
				<p>Your account has been approved. You can now sign in to browse the directory, post jobs and register for events.</p>
				<div style="text-align: center; margin: 30px 0;">
					<a href="%s" style="background-color: #4a86e8; color: white; padding: 12px 24px; text-decoration: none; border-radius: 4px; font-weight: bold;">Sign in</a>
				</div>
				<p>Best regards,<br>The Alumni Association</p>
			</div>
		</body>
		</html>
	`, html.EscapeString(toName), html.EscapeString(loginURL))

	return s.sendHTMLEmail(toEmail, subject, body)
}

// sendHTMLEmail builds the message and hands it to the transport.
// Without credentials the message is only logged.
func (s *EmailServiceImpl) sendHTMLEmail(toEmail, subject, htmlBody string) error {
	if !s.Configured() {
		s.logger.Warn().
			Str("toEmail", toEmail).
			Str("subject", subject).
			Msg("SMTP credentials not configured - email not sent")
		return nil
	}

	return s.send(toEmail, buildMessage(s.config.FromName, s.config.FromEmail, toEmail, subject, htmlBody))
}

func buildMessage(fromName, fromEmail, toEmail, subject, htmlBody string) []byte {
	headers := map[string]string{
		"From":         fmt.Sprintf("%s <%s>", fromName, fromEmail),
		"To":           toEmail,
		"Subject":      subject,
		"MIME-Version": "1.0",
		"Content-Type": "text/html; charset=UTF-8",
	}
	keys := make([]string, 0, len(headers))
	for k := range headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "%s: %s\r\n", k, headers[k])
	}
	b.WriteString("\r\n")
	b.WriteString(htmlBody)
	return []byte(b.String())
}

func (s *EmailServiceImpl) deliver(toEmail string, message []byte) error {
	auth := smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.Host)
	serverAddress := s.config.Host + ":" + strconv.Itoa(s.config.Port)

	if !s.config.UseTLS {
		if err := smtp.SendMail(serverAddress, auth, s.config.FromEmail, []string{toEmail}, message); err != nil {
			s.logger.Error().Err(err).Str("server", serverAddress).Msg("Failed to send email")
			return fmt.Errorf("failed to send email: %w", err)
		}
		return nil
	}

	conn, err := tls.Dial("tcp", serverAddress, &tls.Config{ServerName: s.config.Host})
	if err != nil {
		s.logger.Error().Err(err).Str("server", serverAddress).Msg("Failed to connect to SMTP server")
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, s.config.Host)
	if err != nil {
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}
	defer client.Quit()

	if err = client.Auth(auth); err != nil {
		s.logger.Error().Err(err).Msg("SMTP authentication failed")
		return fmt.Errorf("SMTP authentication failed: %w", err)
	}
	if err = client.Mail(s.config.FromEmail); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	if err = client.Rcpt(toEmail); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to get data writer: %w", err)
	}
	if _, err = w.Write(message); err != nil {
		return fmt.Errorf("failed to write email message: %w", err)
	}
	if err = w.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}
	return nil
}
