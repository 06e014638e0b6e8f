package service

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/rs/zerolog"

	"github.com/epasal/epasal-backend/pkg/config"
)

// Mailer sends transactional mail over SMTP with STARTTLS.
type Mailer struct {
	cfg config.SMTP
	log zerolog.Logger
}

func NewMailer(cfg config.SMTP, log zerolog.Logger) *Mailer {
	return &Mailer{cfg: cfg, log: log.With().Str("component", "mailer").Logger()}
}

// SendOTP delivers the signup verification code.
func (m *Mailer) SendOTP(to, code string) error {
	html := fmt.Sprintf(`
    <div style="background-color:#6b7280;padding:50px 0">
        <div style="max-width:500px;margin:0 auto;background:#f3f4f6;padding:40px;border-radius:8px;text-align:center;font-family:Arial,sans-serif;">
            <h1 style="color:#000">Verify Your Login</h1>
            <p style="margin:20px 0;font-size:16px;color:#333">
                Use this OTP to login to your account
            </p>
            <h2 style="font-size:40px;letter-spacing:5px;color:green;margin:30px 0">%s</h2>
            <p style="color:#333">This code will securely login to your profile using<br>
            <a style="color:#3b82f6;text-decoration:none;">%s</a>
        </div>
    </div>
    `, code, to)

	return m.send(to, "Your OTP - Secure Login", html, true)
}

// SendPaymentStatus mails the buyer after a payment callback.
func (m *Mailer) SendPaymentStatus(to, status string) error {
	var body string
	switch status {
	case "Completed":
		body = "Your order is set to depart soon."
	case "User canceled":
		body = "So sorry we could not make a deal."
	default:
		body = "Undefined payment status."
	}

	return m.send(to, "E-Pasal Payment Status", body, false)
}

func (m *Mailer) send(to, subject, body string, html bool) error {
	if m.cfg.Server == "" {
		return fmt.Errorf("SMTP server not configured")
	}

	contentType := "text/plain; charset=UTF-8"
	if html {
		contentType = "text/html; charset=UTF-8"
	}

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", m.cfg.Email)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	fmt.Fprintf(&msg, "MIME-Version: 1.0\r\nContent-Type: %s\r\n\r\n", contentType)
	msg.WriteString(body)

	addr := fmt.Sprintf("%s:%d", m.cfg.Server, m.cfg.Port)
	auth := smtp.PlainAuth("", m.cfg.Email, m.cfg.Password, m.cfg.Server)

	if err := smtp.SendMail(addr, auth, m.cfg.Email, []string{to}, []byte(msg.String())); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	m.log.Debug().Str("to", to).Str("subject", subject).Msg("email sent")
	return nil
}
