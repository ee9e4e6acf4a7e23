package adapter

import (
	"fmt"
	"net/smtp"

	"seungpyo.lee/Speceal/pkg/logger"
)

// smtpEmailSender delivers templated HTML mail over plain SMTP.
type smtpEmailSender struct {
	host        string
	port        string
	username    string
	password    string
	from        string
	frontendURL string
	log         *logger.Logger
}

// NewSMTPEmailSender creates an EmailSender backed by the given SMTP server.
func NewSMTPEmailSender(host, port, username, password, from, frontendURL string, log *logger.Logger) EmailSender {
	return &smtpEmailSender{
		host:        host,
		port:        port,
		username:    username,
		password:    password,
		from:        from,
		frontendURL: frontendURL,
		log:         log,
	}
}

func (s *smtpEmailSender) SendVerificationEmail(to, rawToken string) error {
	verificationURL := fmt.Sprintf("%s/verify-email?token=%s", s.frontendURL, rawToken)
	subject := "Verify Your Email - Speceal"
	body := fmt.Sprintf(`
        <div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
            <h2>Verify Your Email Address</h2>
            <p>Thank you for registering with Speceal! Please click the link below to verify your email address:</p>
            <p><a href="%s">Verify Email</a></p>
            <p>If you didn't create an account with Speceal, please ignore this email.</p>
            <p>This link will expire in 24 hours.</p>
        </div>
    `, verificationURL)

	return s.send(to, subject, body)
}

func (s *smtpEmailSender) SendPasswordResetEmail(to, rawToken string) error {
	resetURL := fmt.Sprintf("%s/reset-password?token=%s", s.frontendURL, rawToken)
	subject := "Reset Your Password - Speceal"
	body := fmt.Sprintf(`
        <div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
            <h2>Reset Your Password</h2>
            <p>You requested a password reset for your Speceal account. Click the link below to reset your password:</p>
            <p><a href="%s">Reset Password</a></p>
            <p>If you didn't request this password reset, please ignore this email.</p>
            <p>This link will expire in 10 minutes.</p>
        </div>
    `, resetURL)

	return s.send(to, subject, body)
}

func (s *smtpEmailSender) send(to, subject, body string) error {
	addr := fmt.Sprintf("%s:%s", s.host, s.port)

	var auth smtp.Auth
	if s.username != "" {
		auth = smtp.PlainAuth("", s.username, s.password, s.host)
	}

	message := fmt.Sprintf("From: %s\r\n", s.from) +
		fmt.Sprintf("To: %s\r\n", to) +
		fmt.Sprintf("Subject: %s\r\n", subject) +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: text/html; charset=UTF-8\r\n" +
		"\r\n" + body

	if err := smtp.SendMail(addr, auth, s.from, []string{to}, []byte(message)); err != nil {
		s.log.Error("failed to send email to %s: %v", to, err)
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
