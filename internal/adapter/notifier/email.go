package notifier

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strings"
	"time"

	"mysql-backup-service/internal/config"
	"mysql-backup-service/internal/domain"
)

// Email delivers the run summary over SMTP. The connection is dialed with
// the caller's context so a dead mail server cannot stall the dispatcher.
type Email struct {
	smtp config.SMTPConfig
	to   string
}

func NewEmail(smtpCfg config.SMTPConfig, to string) *Email {
	return &Email{smtp: smtpCfg, to: to}
}

func (e *Email) Name() string { return "email" }

func (e *Email) Send(ctx context.Context, subject, message string) error {
	if err := e.send(ctx, subject, message); err != nil {
		return &domain.DispatchError{Channel: e.Name(), Err: err}
	}
	return nil
}

func (e *Email) send(ctx context.Context, subject, message string) error {
	addr := fmt.Sprintf("%s:%d", e.smtp.Host, e.smtp.Port)

	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	} else {
		_ = conn.SetDeadline(time.Now().Add(30 * time.Second))
	}

	client, err := smtp.NewClient(conn, e.smtp.Host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}
	defer client.Close()

	if ok, _ := client.Extension("STARTTLS"); ok {
		if err := client.StartTLS(&tls.Config{ServerName: e.smtp.Host}); err != nil {
			return fmt.Errorf("STARTTLS failed: %w", err)
		}
	}

	if e.smtp.Username != "" {
		auth := smtp.PlainAuth("", e.smtp.Username, e.smtp.Password, e.smtp.Host)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("SMTP auth failed: %w", err)
		}
	}

	if err := client.Mail(e.smtp.From); err != nil {
		return fmt.Errorf("MAIL FROM failed: %w", err)
	}
	if err := client.Rcpt(e.to); err != nil {
		return fmt.Errorf("RCPT TO failed: %w", err)
	}

	wc, err := client.Data()
	if err != nil {
		return fmt.Errorf("DATA failed: %w", err)
	}
	if _, err := wc.Write([]byte(BuildMessage(e.smtp.From, e.to, subject, message))); err != nil {
		wc.Close()
		return fmt.Errorf("failed to write message body: %w", err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("failed to finish message: %w", err)
	}

	return client.Quit()
}

// BuildMessage renders the RFC 5322 message for one summary mail.
func BuildMessage(from, to, subject, body string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	fmt.Fprintf(&b, "Date: %s\r\n", time.Now().Format(time.RFC1123Z))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(body, "\n", "\r\n"))
	b.WriteString("\r\n")
	return b.String()
}
